package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-module/internal/domain/model"
)

// ---------------------------------------------------------------------------
// PaymentAllocator – applies a lump payment to the oldest installments
// ---------------------------------------------------------------------------

// PayableWindowMonths bounds how far ahead installments may be prepaid: only
// installments due strictly before today + PayableWindowMonths are payable.
const PayableWindowMonths = 3

// DailyAdjustmentRate is the per-day discount for early payment and the
// per-day penalty for late payment, as a fraction of the installment amount.
var DailyAdjustmentRate = decimal.RequireFromString("0.001")

// Allocation is the outcome of applying one payment.
type Allocation struct {
	// Paid holds the installments settled by this payment, in due-date order.
	Paid          []model.Installment
	// Payable counts the unpaid installments that fell inside the payable window.
	Payable       int
	TotalPaid     decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalPenalty  decimal.Decimal
	PrincipalPaid decimal.Decimal
}

// PaidCount is the number of installments settled.
func (a Allocation) PaidCount() int { return len(a.Paid) }

// PaymentAllocator decides which installments a payment covers.
type PaymentAllocator struct{}

// NewPaymentAllocator returns a new allocator instance.
func NewPaymentAllocator() *PaymentAllocator {
	return &PaymentAllocator{}
}

// Payable returns the unpaid installments inside the payable window, ordered
// by due date.
func (a *PaymentAllocator) Payable(installments []model.Installment, now time.Time) []model.Installment {
	horizon := model.AddMonths(now, PayableWindowMonths)

	out := make([]model.Installment, 0, len(installments))
	for _, inst := range installments {
		if !inst.IsPaid() && inst.DueDate().Before(horizon) {
			out = append(out, inst)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate().Before(out[j].DueDate())
	})
	return out
}

// Adjustment returns the signed amount added to an installment paid on the
// date of now: negative when paid before the due date, positive after it.
func (a *PaymentAllocator) Adjustment(inst model.Installment, now time.Time) decimal.Decimal {
	days := model.DaysBetween(now, inst.DueDate())
	// days > 0: due date still ahead (discount); days < 0: overdue (penalty).
	return inst.Amount().Mul(DailyAdjustmentRate).Mul(decimal.NewFromInt(int64(-days)))
}

// Allocate pays payable installments in due-date order while the remaining
// amount covers the adjusted installment. It stops at the first installment
// it cannot cover; later ones are left untouched even if smaller.
func (a *PaymentAllocator) Allocate(installments []model.Installment, amount decimal.Decimal, now time.Time) (Allocation, error) {
	payable := a.Payable(installments, now)
	result := Allocation{
		Payable:       len(payable),
		TotalPaid:     decimal.Zero,
		TotalDiscount: decimal.Zero,
		TotalPenalty:  decimal.Zero,
		PrincipalPaid: decimal.Zero,
	}

	remaining := amount
	for _, inst := range payable {
		adj := a.Adjustment(inst, now)
		due := inst.Amount().Add(adj)
		if remaining.LessThan(due) {
			break
		}

		paid, err := inst.Pay(due, now)
		if err != nil {
			return Allocation{}, fmt.Errorf("pay installment %s: %w", inst.ID(), err)
		}
		remaining = remaining.Sub(due)

		result.Paid = append(result.Paid, paid)
		result.TotalPaid = result.TotalPaid.Add(due)
		result.PrincipalPaid = result.PrincipalPaid.Add(inst.Amount())
		switch adj.Sign() {
		case -1:
			result.TotalDiscount = result.TotalDiscount.Add(adj.Neg())
		case 1:
			result.TotalPenalty = result.TotalPenalty.Add(adj)
		}
	}
	return result, nil
}
