package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is one dated slice of a loan's repayment schedule.
type Installment struct {
	id          string
	loanID      string
	amount      decimal.Decimal
	paidAmount  decimal.Decimal
	dueDate     time.Time
	paymentDate *time.Time
	isPaid      bool
}

func newInstallment(loanID string, amount decimal.Decimal, dueDate time.Time) Installment {
	return Installment{
		id:         uuid.New().String(),
		loanID:     loanID,
		amount:     amount,
		paidAmount: decimal.Zero,
		dueDate:    DateOf(dueDate),
	}
}

// ReconstructInstallment rebuilds an Installment from persistence.
func ReconstructInstallment(
	id, loanID string,
	amount, paidAmount decimal.Decimal,
	dueDate time.Time,
	paymentDate *time.Time,
	isPaid bool,
) Installment {
	return Installment{
		id:          id,
		loanID:      loanID,
		amount:      amount,
		paidAmount:  paidAmount,
		dueDate:     dueDate,
		paymentDate: paymentDate,
		isPaid:      isPaid,
	}
}

// Pay settles the installment for paidAmount on the date of now.
func (i Installment) Pay(paidAmount decimal.Decimal, now time.Time) (Installment, error) {
	if i.isPaid {
		return i, fmt.Errorf("%w: installment %s", ErrInstallmentAlreadyPaid, i.id)
	}
	paidOn := DateOf(now)
	next := i
	next.paidAmount = paidAmount
	next.paymentDate = &paidOn
	next.isPaid = true
	return next, nil
}

func (i Installment) ID() string                  { return i.id }
func (i Installment) LoanID() string              { return i.loanID }
func (i Installment) Amount() decimal.Decimal     { return i.amount }
func (i Installment) PaidAmount() decimal.Decimal { return i.paidAmount }
func (i Installment) DueDate() time.Time          { return i.dueDate }
func (i Installment) IsPaid() bool                { return i.isPaid }

// PaymentDate returns the settlement date, or nil while unpaid.
func (i Installment) PaymentDate() *time.Time {
	if i.paymentDate == nil {
		return nil
	}
	d := *i.paymentDate
	return &d
}
