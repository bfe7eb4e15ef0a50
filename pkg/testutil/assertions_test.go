package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAssertDecimal(t *testing.T) {
	assert.True(t, AssertDecimal(t, "1000", decimal.RequireFromString("1000.00")))
	assert.True(t, AssertDecimal(t, "-0.5", decimal.RequireFromString("-0.50")))
}

func TestAssertErrorContains(t *testing.T) {
	AssertErrorContains(t, errors.New("create loan: not found"), "not found")
}

func TestDate(t *testing.T) {
	d := Date(2025, 4, 1)
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, "2025-04-01", d.Format("2006-01-02"))
}
