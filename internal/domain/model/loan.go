package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-module/internal/domain/event"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	id                   string
	customerID           string
	loanAmount           decimal.Decimal
	numberOfInstallments int
	createDate           time.Time
	isPaid               bool
	version              int
	createdAt            time.Time
	updatedAt            time.Time
	domainEvents         []event.DomainEvent
}

// NewLoan books a loan for customerID. loanAmount is the total repayable
// (principal plus interest); principal and interestRate are carried only on
// the LoanCreated event.
func NewLoan(
	customerID string,
	principal, interestRate, loanAmount decimal.Decimal,
	numberOfInstallments int,
	now time.Time,
) (Loan, error) {
	if customerID == "" {
		return Loan{}, errors.New("customer ID is required")
	}
	if !loanAmount.IsPositive() {
		return Loan{}, errors.New("loan amount must be positive")
	}
	if numberOfInstallments <= 0 {
		return Loan{}, errors.New("number of installments must be positive")
	}

	id := uuid.New().String()
	loan := Loan{
		id:                   id,
		customerID:           customerID,
		loanAmount:           loanAmount,
		numberOfInstallments: numberOfInstallments,
		createDate:           DateOf(now),
		version:              1,
		createdAt:            now,
		updatedAt:            now,
	}
	loan.domainEvents = append(loan.domainEvents, event.NewLoanCreated(
		id, customerID, principal, interestRate, loanAmount, numberOfInstallments, now,
	))
	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, customerID string,
	loanAmount decimal.Decimal,
	numberOfInstallments int,
	createDate time.Time,
	isPaid bool,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                   id,
		customerID:           customerID,
		loanAmount:           loanAmount,
		numberOfInstallments: numberOfInstallments,
		createDate:           createDate,
		isPaid:               isPaid,
		version:              version,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// RecordPayment registers a payment that settled paid installments.
func (l Loan) RecordPayment(
	paidCount int,
	totalPaid, totalDiscount, totalPenalty, principalPaid decimal.Decimal,
	now time.Time,
) Loan {
	next := l
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		l.id, l.customerID, paidCount, totalPaid, totalDiscount, totalPenalty, principalPaid, now,
	))
	return next
}

// MarkPaid flags the loan as fully repaid. It is a no-op on a paid loan.
func (l Loan) MarkPaid(now time.Time) Loan {
	if l.isPaid {
		return l
	}
	next := l
	next.isPaid = true
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanPaidOff(l.id, l.customerID, now))
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                        { return l.id }
func (l Loan) CustomerID() string                { return l.customerID }
func (l Loan) LoanAmount() decimal.Decimal       { return l.loanAmount }
func (l Loan) NumberOfInstallments() int         { return l.numberOfInstallments }
func (l Loan) CreateDate() time.Time             { return l.createDate }
func (l Loan) IsPaid() bool                      { return l.isPaid }
func (l Loan) Version() int                      { return l.version }
func (l Loan) CreatedAt() time.Time              { return l.createdAt }
func (l Loan) UpdatedAt() time.Time              { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent { return l.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if src == nil {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
