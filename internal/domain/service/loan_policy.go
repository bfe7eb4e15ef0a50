package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// LoanPolicy – loan parameter validation and pricing
// ---------------------------------------------------------------------------

// LoanTerms are validated loan request parameters.
type LoanTerms struct {
	Principal    decimal.Decimal
	InterestRate valueobject.InterestRate
	Installments valueobject.InstallmentCount
}

// TotalAmount is the repayable amount, principal × (1 + rate), unrounded.
func (t LoanTerms) TotalAmount() decimal.Decimal {
	return t.InterestRate.Apply(t.Principal)
}

// LoanPolicy validates loan requests before anything is read or written.
type LoanPolicy struct{}

// NewLoanPolicy returns a new policy instance.
func NewLoanPolicy() *LoanPolicy {
	return &LoanPolicy{}
}

// Validate checks principal, rate bounds and the installment count. Every
// failure wraps model.ErrInvalidArgument.
func (p *LoanPolicy) Validate(principal, interestRate decimal.Decimal, installments int) (LoanTerms, error) {
	if !principal.IsPositive() {
		return LoanTerms{}, fmt.Errorf("%w: loan amount must be positive", model.ErrInvalidArgument)
	}
	rate, err := valueobject.NewInterestRate(interestRate)
	if err != nil {
		return LoanTerms{}, fmt.Errorf("%w: %w", model.ErrInvalidArgument, err)
	}
	count, err := valueobject.NewInstallmentCount(installments)
	if err != nil {
		return LoanTerms{}, fmt.Errorf("%w: %w", model.ErrInvalidArgument, err)
	}
	return LoanTerms{Principal: principal, InterestRate: rate, Installments: count}, nil
}
