package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateLoanRequest carries the data needed to book a new loan.
type CreateLoanRequest struct {
	CustomerID           string          `json:"customerId"`
	Amount               decimal.Decimal `json:"amount"`
	InterestRate         decimal.Decimal `json:"interestRate"`
	NumberOfInstallments int             `json:"numberOfInstallments"`
}

// ListLoansRequest identifies the customer whose loans are listed.
type ListLoansRequest struct {
	CustomerID string `json:"customerId"`
}

// ListInstallmentsRequest identifies the loan whose schedule is listed.
type ListInstallmentsRequest struct {
	LoanID string `json:"loanId"`
}

// PayLoanRequest carries a lump payment against a loan.
type PayLoanRequest struct {
	LoanID string          `json:"loanId"`
	Amount decimal.Decimal `json:"amount"`
}

// IssueTokenRequest carries login credentials.
type IssueTokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID                   string          `json:"id"`
	CustomerID           string          `json:"customerId"`
	LoanAmount           decimal.Decimal `json:"loanAmount"`
	NumberOfInstallments int             `json:"numberOfInstallments"`
	CreateDate           string          `json:"createDate"`
	IsPaid               bool            `json:"isPaid"`
}

// InstallmentResponse is the external representation of one installment.
type InstallmentResponse struct {
	ID          string          `json:"id"`
	LoanID      string          `json:"loanId"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	DueDate     string          `json:"dueDate"`
	PaymentDate *string         `json:"paymentDate"`
	IsPaid      bool            `json:"isPaid"`
}

// CreateLoanResponse returns the booked loan with its schedule.
type CreateLoanResponse struct {
	Loan         LoanResponse          `json:"loan"`
	Installments []InstallmentResponse `json:"installments"`
}

// ListLoansResponse wraps the customer's loans.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// ListInstallmentsResponse wraps a loan's schedule.
type ListInstallmentsResponse struct {
	Installments []InstallmentResponse `json:"installments"`
}

// PaymentResponse summarises the effect of one payment.
type PaymentResponse struct {
	LoanID             string          `json:"loanId"`
	InstallmentsPaid   int             `json:"installmentsPaid"`
	TotalPaid          decimal.Decimal `json:"totalPaid"`
	TotalDiscount      decimal.Decimal `json:"totalDiscount"`
	TotalPenalty       decimal.Decimal `json:"totalPenalty"`
	TotalPrincipalPaid decimal.Decimal `json:"totalPrincipalPaid"`
	LoanFullyPaid      bool            `json:"loanFullyPaid"`
	Message            string          `json:"message"`
}

// TokenResponse carries a signed bearer token.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
