package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Interest rate bounds, both inclusive.
var (
	MinInterestRate = decimal.RequireFromString("0.1")
	MaxInterestRate = decimal.RequireFromString("0.5")
)

// ErrInterestRateOutOfRange is returned for rates outside [MinInterestRate, MaxInterestRate].
var ErrInterestRateOutOfRange = errors.New("interest rate must be between 0.1 and 0.5")

// InterestRate is a flat rate applied once to the principal, e.g. 0.2 for 20%.
type InterestRate struct {
	value decimal.Decimal
}

// NewInterestRate validates the rate bounds.
func NewInterestRate(rate decimal.Decimal) (InterestRate, error) {
	if rate.LessThan(MinInterestRate) || rate.GreaterThan(MaxInterestRate) {
		return InterestRate{}, fmt.Errorf("%w: got %s", ErrInterestRateOutOfRange, rate)
	}
	return InterestRate{value: rate}, nil
}

// Decimal returns the raw rate.
func (r InterestRate) Decimal() decimal.Decimal { return r.value }

// Apply returns amount × (1 + rate), unrounded.
func (r InterestRate) Apply(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Add(r.value))
}
