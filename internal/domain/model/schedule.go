package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateInstallments splits total into count equal installments rounded
// half up to cents. The first falls due on the first day of the month after
// now, the rest on the first of each following month. The rounded amounts
// may not sum exactly to total.
func GenerateInstallments(loanID string, total decimal.Decimal, count int, now time.Time) []Installment {
	if count <= 0 {
		return nil
	}
	amount := total.Div(decimal.NewFromInt(int64(count))).Round(2)
	first := FirstOfNextMonth(now)

	out := make([]Installment, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, newInstallment(loanID, amount, first.AddDate(0, i, 0)))
	}
	return out
}

// AllPaid reports whether every installment in the set is paid. An empty
// set is not considered paid.
func AllPaid(installments []Installment) bool {
	if len(installments) == 0 {
		return false
	}
	for _, inst := range installments {
		if !inst.IsPaid() {
			return false
		}
	}
	return true
}
