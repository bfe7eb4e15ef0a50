package dto

import (
	"time"

	"github.com/bibbank/credit-module/internal/domain/model"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// FormatDate renders a calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ToLoanResponse maps a loan aggregate.
func ToLoanResponse(l model.Loan) LoanResponse {
	return LoanResponse{
		ID:                   l.ID(),
		CustomerID:           l.CustomerID(),
		LoanAmount:           l.LoanAmount(),
		NumberOfInstallments: l.NumberOfInstallments(),
		CreateDate:           FormatDate(l.CreateDate()),
		IsPaid:               l.IsPaid(),
	}
}

// ToLoanResponses maps a slice of loans. The result is never nil.
func ToLoanResponses(loans []model.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, ToLoanResponse(l))
	}
	return out
}

// ToInstallmentResponse maps an installment.
func ToInstallmentResponse(i model.Installment) InstallmentResponse {
	resp := InstallmentResponse{
		ID:         i.ID(),
		LoanID:     i.LoanID(),
		Amount:     i.Amount(),
		PaidAmount: i.PaidAmount(),
		DueDate:    FormatDate(i.DueDate()),
		IsPaid:     i.IsPaid(),
	}
	if d := i.PaymentDate(); d != nil {
		s := FormatDate(*d)
		resp.PaymentDate = &s
	}
	return resp
}

// ToInstallmentResponses maps a slice of installments. The result is never nil.
func ToInstallmentResponses(insts []model.Installment) []InstallmentResponse {
	out := make([]InstallmentResponse, 0, len(insts))
	for _, i := range insts {
		out = append(out, ToInstallmentResponse(i))
	}
	return out
}
