package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidInstallmentCount is returned for counts outside AllowedInstallmentCounts.
var ErrInvalidInstallmentCount = errors.New("number of installments must be 6, 9, 12 or 24")

// AllowedInstallmentCounts lists the schedule lengths a loan may have.
var AllowedInstallmentCounts = []int{6, 9, 12, 24}

// InstallmentCount is a validated number of monthly installments.
type InstallmentCount struct {
	value int
}

// NewInstallmentCount validates n against AllowedInstallmentCounts.
func NewInstallmentCount(n int) (InstallmentCount, error) {
	for _, allowed := range AllowedInstallmentCounts {
		if n == allowed {
			return InstallmentCount{value: n}, nil
		}
	}
	return InstallmentCount{}, fmt.Errorf("%w: got %d", ErrInvalidInstallmentCount, n)
}

// Int returns the count.
func (c InstallmentCount) Int() int { return c.value }
