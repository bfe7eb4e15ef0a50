package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-module/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// AggregateTypeLoan is the aggregate type recorded on every loan event.
const AggregateTypeLoan = "Loan"

const (
	TypeLoanCreated    = "credit.loan.created"
	TypePaymentApplied = "credit.loan.payment_applied"
	TypeLoanPaidOff    = "credit.loan.paid_off"
)

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// LoanCreated is raised when a loan and its schedule are booked against a customer.
type LoanCreated struct {
	events.BaseEvent
	CustomerID           string          `json:"customer_id"`
	Principal            decimal.Decimal `json:"principal"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	LoanAmount           decimal.Decimal `json:"loan_amount"`
	NumberOfInstallments int             `json:"number_of_installments"`
}

func NewLoanCreated(
	loanID, customerID string,
	principal, interestRate, loanAmount decimal.Decimal,
	installments int, now time.Time,
) LoanCreated {
	return LoanCreated{
		BaseEvent:            events.NewBaseEvent(TypeLoanCreated, loanID, AggregateTypeLoan, now),
		CustomerID:           customerID,
		Principal:            principal,
		InterestRate:         interestRate,
		LoanAmount:           loanAmount,
		NumberOfInstallments: installments,
	}
}

// PaymentApplied is raised when a payment settles at least one installment.
type PaymentApplied struct {
	events.BaseEvent
	CustomerID       string          `json:"customer_id"`
	InstallmentsPaid int             `json:"installments_paid"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalDiscount    decimal.Decimal `json:"total_discount"`
	TotalPenalty     decimal.Decimal `json:"total_penalty"`
	PrincipalPaid    decimal.Decimal `json:"principal_paid"`
}

func NewPaymentApplied(
	loanID, customerID string,
	installmentsPaid int,
	totalPaid, totalDiscount, totalPenalty, principalPaid decimal.Decimal,
	now time.Time,
) PaymentApplied {
	return PaymentApplied{
		BaseEvent:        events.NewBaseEvent(TypePaymentApplied, loanID, AggregateTypeLoan, now),
		CustomerID:       customerID,
		InstallmentsPaid: installmentsPaid,
		TotalPaid:        totalPaid,
		TotalDiscount:    totalDiscount,
		TotalPenalty:     totalPenalty,
		PrincipalPaid:    principalPaid,
	}
}

// LoanPaidOff is raised when the last installment of a loan is paid.
type LoanPaidOff struct {
	events.BaseEvent
	CustomerID string `json:"customer_id"`
}

func NewLoanPaidOff(loanID, customerID string, now time.Time) LoanPaidOff {
	return LoanPaidOff{
		BaseEvent:  events.NewBaseEvent(TypeLoanPaidOff, loanID, AggregateTypeLoan, now),
		CustomerID: customerID,
	}
}
