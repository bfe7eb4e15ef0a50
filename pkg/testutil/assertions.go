package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimal checks that got equals the decimal literal want, ignoring
// trailing zeros ("1000" equals "1000.00").
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	w := decimal.RequireFromString(want)
	if w.Equal(got) {
		return true
	}
	return assert.Fail(t, "decimal mismatch: want "+w.String()+", got "+got.String(), msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}
