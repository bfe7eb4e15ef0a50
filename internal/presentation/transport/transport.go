// Package transport holds what the REST and gRPC adapters share: the use
// case contracts they drive and the mapping from token claims to an actor.
package transport

import (
	"context"
	"errors"

	"github.com/bibbank/credit-module/internal/application/authz"
	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/application/usecase"
	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/valueobject"
	"github.com/bibbank/credit-module/pkg/auth"
)

type LoanCreator interface {
	Execute(ctx context.Context, req dto.CreateLoanRequest) (dto.CreateLoanResponse, error)
}

type LoanLister interface {
	Execute(ctx context.Context, req dto.ListLoansRequest) (dto.ListLoansResponse, error)
}

type InstallmentLister interface {
	Execute(ctx context.Context, req dto.ListInstallmentsRequest) (dto.ListInstallmentsResponse, error)
}

type LoanPayer interface {
	Execute(ctx context.Context, req dto.PayLoanRequest) (dto.PaymentResponse, error)
}

type TokenIssuer interface {
	Execute(ctx context.Context, req dto.IssueTokenRequest) (dto.TokenResponse, error)
}

// Services is everything a transport calls.
type Services struct {
	CreateLoan       LoanCreator
	ListLoans        LoanLister
	ListInstallments InstallmentLister
	PayLoan          LoanPayer
	IssueToken       TokenIssuer
	Authorizer       authz.Authorizer
}

// ActorFromContext turns the claims placed by the auth middleware or
// interceptor into an authz.Actor. Claims without a known role yield an actor
// with a zero role, which the authorizer denies.
func ActorFromContext(ctx context.Context) (authz.Actor, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return authz.Actor{}, usecase.ErrUnauthenticated
	}
	actor := authz.Actor{Username: claims.Username()}
	for _, r := range claims.Roles {
		if role, err := valueobject.NewRole(r); err == nil {
			actor.Role = role
			break
		}
	}
	return actor, nil
}

// Kind classifies an error for status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidArgument
	KindInsufficientCredit
	KindUnauthenticated
	KindDenied
)

func Classify(err error) Kind {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return KindNotFound
	case errors.Is(err, model.ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, model.ErrInsufficientCredit):
		return KindInsufficientCredit
	case errors.Is(err, usecase.ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, authz.ErrDenied):
		return KindDenied
	default:
		return KindInternal
	}
}
