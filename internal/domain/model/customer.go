package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer holds a revolving credit line. The used part grows when loans are
// booked and shrinks as principal is repaid.
type Customer struct {
	id              string
	name            string
	surname         string
	creditLimit     decimal.Decimal
	usedCreditLimit decimal.Decimal
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

// NewCustomer creates a customer with nothing drawn on the line.
func NewCustomer(name, surname string, creditLimit decimal.Decimal, now time.Time) (Customer, error) {
	if strings.TrimSpace(name) == "" {
		return Customer{}, errors.New("customer name is required")
	}
	if strings.TrimSpace(surname) == "" {
		return Customer{}, errors.New("customer surname is required")
	}
	if creditLimit.IsNegative() {
		return Customer{}, errors.New("credit limit must not be negative")
	}
	return Customer{
		id:              uuid.New().String(),
		name:            name,
		surname:         surname,
		creditLimit:     creditLimit,
		usedCreditLimit: decimal.Zero,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructCustomer rebuilds a Customer from persistence.
func ReconstructCustomer(
	id, name, surname string,
	creditLimit, usedCreditLimit decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
) Customer {
	return Customer{
		id:              id,
		name:            name,
		surname:         surname,
		creditLimit:     creditLimit,
		usedCreditLimit: usedCreditLimit,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// AvailableCredit is the undrawn part of the credit line.
func (c Customer) AvailableCredit() decimal.Decimal {
	return c.creditLimit.Sub(c.usedCreditLimit)
}

// ReserveCredit draws amount from the line. It fails with
// ErrInsufficientCredit when less than amount is available.
func (c Customer) ReserveCredit(amount decimal.Decimal, now time.Time) (Customer, error) {
	if available := c.AvailableCredit(); available.LessThan(amount) {
		return c, fmt.Errorf("%w: requested %s, available %s",
			ErrInsufficientCredit, amount.StringFixed(2), available.StringFixed(2))
	}
	next := c
	next.usedCreditLimit = c.usedCreditLimit.Add(amount)
	next.updatedAt = now
	return next, nil
}

// ReleaseCredit returns repaid principal to the line, never going below zero.
func (c Customer) ReleaseCredit(amount decimal.Decimal, now time.Time) Customer {
	next := c
	next.usedCreditLimit = c.usedCreditLimit.Sub(amount)
	if next.usedCreditLimit.IsNegative() {
		next.usedCreditLimit = decimal.Zero
	}
	next.updatedAt = now
	return next
}

func (c Customer) ID() string                       { return c.id }
func (c Customer) Name() string                     { return c.name }
func (c Customer) Surname() string                  { return c.surname }
func (c Customer) CreditLimit() decimal.Decimal     { return c.creditLimit }
func (c Customer) UsedCreditLimit() decimal.Decimal { return c.usedCreditLimit }
func (c Customer) Version() int                     { return c.version }
func (c Customer) CreatedAt() time.Time             { return c.createdAt }
func (c Customer) UpdatedAt() time.Time             { return c.updatedAt }
