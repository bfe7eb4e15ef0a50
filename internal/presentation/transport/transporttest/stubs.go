// Package transporttest provides use case stubs for transport tests.
package transporttest

import (
	"context"

	"github.com/bibbank/credit-module/internal/application/authz"
	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/presentation/transport"
)

type CreateLoan struct {
	ExecuteFunc func(ctx context.Context, req dto.CreateLoanRequest) (dto.CreateLoanResponse, error)
	Calls       []dto.CreateLoanRequest
}

func (s *CreateLoan) Execute(ctx context.Context, req dto.CreateLoanRequest) (dto.CreateLoanResponse, error) {
	s.Calls = append(s.Calls, req)
	if s.ExecuteFunc != nil {
		return s.ExecuteFunc(ctx, req)
	}
	return dto.CreateLoanResponse{}, nil
}

type ListLoans struct {
	ExecuteFunc func(ctx context.Context, req dto.ListLoansRequest) (dto.ListLoansResponse, error)
	Calls       []dto.ListLoansRequest
}

func (s *ListLoans) Execute(ctx context.Context, req dto.ListLoansRequest) (dto.ListLoansResponse, error) {
	s.Calls = append(s.Calls, req)
	if s.ExecuteFunc != nil {
		return s.ExecuteFunc(ctx, req)
	}
	return dto.ListLoansResponse{Loans: []dto.LoanResponse{}}, nil
}

type ListInstallments struct {
	ExecuteFunc func(ctx context.Context, req dto.ListInstallmentsRequest) (dto.ListInstallmentsResponse, error)
	Calls       []dto.ListInstallmentsRequest
}

func (s *ListInstallments) Execute(ctx context.Context, req dto.ListInstallmentsRequest) (dto.ListInstallmentsResponse, error) {
	s.Calls = append(s.Calls, req)
	if s.ExecuteFunc != nil {
		return s.ExecuteFunc(ctx, req)
	}
	return dto.ListInstallmentsResponse{Installments: []dto.InstallmentResponse{}}, nil
}

type PayLoan struct {
	ExecuteFunc func(ctx context.Context, req dto.PayLoanRequest) (dto.PaymentResponse, error)
	Calls       []dto.PayLoanRequest
}

func (s *PayLoan) Execute(ctx context.Context, req dto.PayLoanRequest) (dto.PaymentResponse, error) {
	s.Calls = append(s.Calls, req)
	if s.ExecuteFunc != nil {
		return s.ExecuteFunc(ctx, req)
	}
	return dto.PaymentResponse{LoanID: req.LoanID}, nil
}

type IssueToken struct {
	ExecuteFunc func(ctx context.Context, req dto.IssueTokenRequest) (dto.TokenResponse, error)
}

func (s *IssueToken) Execute(ctx context.Context, req dto.IssueTokenRequest) (dto.TokenResponse, error) {
	if s.ExecuteFunc != nil {
		return s.ExecuteFunc(ctx, req)
	}
	return dto.TokenResponse{}, nil
}

// Authorizer allows admins, and customers only for ids listed in Owned.
type Authorizer struct {
	Owned map[string]bool
	Err   error
}

func (a *Authorizer) Authorize(_ context.Context, actor authz.Actor, _ authz.ResourceKind, id string) (authz.Decision, error) {
	if a.Err != nil {
		return authz.Deny, a.Err
	}
	if actor.Role.IsAdmin() {
		return authz.Allow, nil
	}
	return authz.Decision(a.Owned[id]), nil
}

// Stubs bundles one stub per use case.
type Stubs struct {
	CreateLoan       *CreateLoan
	ListLoans        *ListLoans
	ListInstallments *ListInstallments
	PayLoan          *PayLoan
	IssueToken       *IssueToken
	Authorizer       *Authorizer
}

func NewStubs() *Stubs {
	return &Stubs{
		CreateLoan:       &CreateLoan{},
		ListLoans:        &ListLoans{},
		ListInstallments: &ListInstallments{},
		PayLoan:          &PayLoan{},
		IssueToken:       &IssueToken{},
		Authorizer:       &Authorizer{Owned: map[string]bool{}},
	}
}

func (s *Stubs) Services() transport.Services {
	return transport.Services{
		CreateLoan:       s.CreateLoan,
		ListLoans:        s.ListLoans,
		ListInstallments: s.ListInstallments,
		PayLoan:          s.PayLoan,
		IssueToken:       s.IssueToken,
		Authorizer:       s.Authorizer,
	}
}
