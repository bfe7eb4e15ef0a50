package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/port"
)

// OwnershipQuery answers whether a user acts for a customer or owns a loan.
// Missing users, unlinked users and unknown loans all answer false; only
// infrastructure failures are returned as errors.
type OwnershipQuery struct {
	userRepo port.UserRepository
	loanRepo port.LoanRepository
}

// NewOwnershipQuery wires dependencies.
func NewOwnershipQuery(userRepo port.UserRepository, loanRepo port.LoanRepository) *OwnershipQuery {
	return &OwnershipQuery{userRepo: userRepo, loanRepo: loanRepo}
}

// IsCustomerOwner reports whether username is linked to customerID.
func (q *OwnershipQuery) IsCustomerOwner(ctx context.Context, username, customerID string) (bool, error) {
	linked, ok, err := q.linkedCustomer(ctx, username)
	if err != nil || !ok {
		return false, err
	}
	return linked == customerID, nil
}

// IsLoanOwner reports whether username is linked to the customer that holds loanID.
func (q *OwnershipQuery) IsLoanOwner(ctx context.Context, username, loanID string) (bool, error) {
	linked, ok, err := q.linkedCustomer(ctx, username)
	if err != nil || !ok {
		return false, err
	}

	loan, err := q.loanRepo.FindByID(ctx, loanID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find loan: %w", err)
	}
	return loan.CustomerID() == linked, nil
}

func (q *OwnershipQuery) linkedCustomer(ctx context.Context, username string) (string, bool, error) {
	user, err := q.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find user: %w", err)
	}
	if user.CustomerID() == "" {
		return "", false, nil
	}
	return user.CustomerID(), true, nil
}
