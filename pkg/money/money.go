// Package money holds the decimal conventions used for credit amounts.
// The system is single-currency, so amounts are plain decimal.Decimal values
// and this package only fixes how they are parsed, rounded and printed.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept on stored amounts.
const Scale int32 = 2

// Parse reads a decimal amount such as "1250.50".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// MustParse is Parse for constants and tests. It panics on malformed input.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round rounds half away from zero to Scale places (1.005 -> 1.01).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Format prints d with exactly Scale fractional digits, rounding half up.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
