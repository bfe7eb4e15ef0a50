// Package authz decides whether an authenticated actor may touch a customer
// or loan. Transports ask before calling a use case; the use cases
// themselves never look at roles.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibbank/credit-module/internal/domain/valueobject"
)

// ErrDenied is returned by Require when the decision is Deny.
var ErrDenied = errors.New("access denied")

// ResourceKind names what an id refers to.
type ResourceKind string

const (
	ResourceCustomer ResourceKind = "customer"
	ResourceLoan     ResourceKind = "loan"
)

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Actor is the authenticated caller.
type Actor struct {
	Username string
	Role     valueobject.Role
}

// Authorizer decides access to a single resource.
type Authorizer interface {
	Authorize(ctx context.Context, actor Actor, kind ResourceKind, id string) (Decision, error)
}

// OwnershipChecker answers ownership questions. Satisfied by
// *usecase.OwnershipQuery.
type OwnershipChecker interface {
	IsCustomerOwner(ctx context.Context, username, customerID string) (bool, error)
	IsLoanOwner(ctx context.Context, username, loanID string) (bool, error)
}

// OwnershipAuthorizer allows admins everything and customers only what they own.
type OwnershipAuthorizer struct {
	owners OwnershipChecker
}

// NewOwnershipAuthorizer wires dependencies.
func NewOwnershipAuthorizer(owners OwnershipChecker) *OwnershipAuthorizer {
	return &OwnershipAuthorizer{owners: owners}
}

// Authorize implements Authorizer.
func (a *OwnershipAuthorizer) Authorize(ctx context.Context, actor Actor, kind ResourceKind, id string) (Decision, error) {
	if actor.Role.IsAdmin() {
		return Allow, nil
	}
	if actor.Username == "" || !actor.Role.Equal(valueobject.RoleCustomer) {
		return Deny, nil
	}

	var (
		owns bool
		err  error
	)
	switch kind {
	case ResourceCustomer:
		owns, err = a.owners.IsCustomerOwner(ctx, actor.Username, id)
	case ResourceLoan:
		owns, err = a.owners.IsLoanOwner(ctx, actor.Username, id)
	default:
		return Deny, fmt.Errorf("unknown resource kind %q", kind)
	}
	if err != nil {
		return Deny, fmt.Errorf("check %s ownership: %w", kind, err)
	}
	return Decision(owns), nil
}

// Require returns ErrDenied unless the decision is Allow.
func Require(ctx context.Context, a Authorizer, actor Actor, kind ResourceKind, id string) error {
	decision, err := a.Authorize(ctx, actor, kind, id)
	if err != nil {
		return err
	}
	if decision != Allow {
		return fmt.Errorf("%w: %s %s", ErrDenied, kind, id)
	}
	return nil
}
