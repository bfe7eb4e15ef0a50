package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/application/usecase"
	"github.com/bibbank/credit-module/internal/domain/event"
	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/service"
	"github.com/bibbank/credit-module/pkg/events"
	"github.com/bibbank/credit-module/pkg/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedClock(t time.Time) usecase.Clock {
	return func() time.Time { return t }
}

func customerWith(limit, used string) model.Customer {
	return model.ReconstructCustomer(
		testutil.TestCustomerID, "John", "Doe",
		dec(limit), dec(used), 1, testutil.TestNow, testutil.TestNow,
	)
}

func newCreateLoan(f *fixture) *usecase.CreateLoanUseCase {
	return usecase.NewCreateLoanUseCase(f.uow, service.NewLoanPolicy(), f.metrics).
		WithClock(fixedClock(testutil.TestNow))
}

func TestCreateLoan_Execute(t *testing.T) {
	t.Run("books loan with equal installments", func(t *testing.T) {
		f := newFixture()
		f.customers.findByIDFunc = func(ctx context.Context, id string) (model.Customer, error) {
			return customerWith("50000", "0"), nil
		}

		resp, err := newCreateLoan(f).Execute(context.Background(), dto.CreateLoanRequest{
			CustomerID:           testutil.TestCustomerID,
			Amount:               dec("10000"),
			InterestRate:         dec("0.2"),
			NumberOfInstallments: 12,
		})
		require.NoError(t, err)

		testutil.AssertDecimal(t, "12000", resp.Loan.LoanAmount)
		assert.Equal(t, testutil.TestCustomerID, resp.Loan.CustomerID)
		assert.Equal(t, "2025-03-15", resp.Loan.CreateDate)
		assert.False(t, resp.Loan.IsPaid)

		require.Len(t, resp.Installments, 12)
		assert.Equal(t, "2025-04-01", resp.Installments[0].DueDate)
		assert.Equal(t, "2026-03-01", resp.Installments[11].DueDate)
		for _, inst := range resp.Installments {
			testutil.AssertDecimal(t, "1000", inst.Amount)
			testutil.AssertDecimal(t, "0", inst.PaidAmount)
			assert.Nil(t, inst.PaymentDate)
		}

		require.Len(t, f.loans.savedLoans, 1)
		assert.Len(t, f.installments.savedInstallments, 12)
		require.Len(t, f.customers.savedCustomers, 1)
		testutil.AssertDecimal(t, "12000", f.customers.savedCustomers[0].UsedCreditLimit())

		require.Len(t, f.outbox.storedEntries, 1)
		entry := f.outbox.storedEntries[0]
		assert.Equal(t, event.TypeLoanCreated, entry.EventType)
		assert.Equal(t, resp.Loan.ID, entry.AggregateID)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(entry.Payload, &payload))
		assert.Equal(t, testutil.TestCustomerID, payload["customer_id"])

		assert.Equal(t, 1, f.metrics.loansCreated)
		assert.Equal(t, 1, f.uow.calls)
	})

	t.Run("fails when credit limit is insufficient", func(t *testing.T) {
		f := newFixture()
		f.customers.findByIDFunc = func(ctx context.Context, id string) (model.Customer, error) {
			return customerWith("50000", "12000"), nil
		}

		_, err := newCreateLoan(f).Execute(context.Background(), dto.CreateLoanRequest{
			CustomerID:           testutil.TestCustomerID,
			Amount:               dec("40000"),
			InterestRate:         dec("0.1"),
			NumberOfInstallments: 12,
		})
		require.ErrorIs(t, err, model.ErrInsufficientCredit)
		assert.Empty(t, f.loans.savedLoans)
		assert.Empty(t, f.installments.savedInstallments)
		assert.Empty(t, f.customers.savedCustomers)
		assert.Empty(t, f.outbox.storedEntries)
		assert.Zero(t, f.metrics.loansCreated)
	})

	t.Run("accepts a loan that uses the whole remaining line", func(t *testing.T) {
		f := newFixture()
		f.customers.findByIDFunc = func(ctx context.Context, id string) (model.Customer, error) {
			return customerWith("12000", "0"), nil
		}

		_, err := newCreateLoan(f).Execute(context.Background(), dto.CreateLoanRequest{
			CustomerID:           testutil.TestCustomerID,
			Amount:               dec("10000"),
			InterestRate:         dec("0.2"),
			NumberOfInstallments: 6,
		})
		require.NoError(t, err)
		testutil.AssertDecimal(t, "12000", f.customers.savedCustomers[0].UsedCreditLimit())
	})

	t.Run("fails when customer not found", func(t *testing.T) {
		f := newFixture()

		_, err := newCreateLoan(f).Execute(context.Background(), dto.CreateLoanRequest{
			CustomerID:           "missing",
			Amount:               dec("1000"),
			InterestRate:         dec("0.2"),
			NumberOfInstallments: 6,
		})
		require.ErrorIs(t, err, model.ErrNotFound)
		assert.Contains(t, err.Error(), "find customer")
	})

	t.Run("rejects invalid parameters before writing", func(t *testing.T) {
		tests := []struct {
			name         string
			amount       string
			rate         string
			installments int
		}{
			{name: "rate too low", amount: "1000", rate: "0.05", installments: 6},
			{name: "rate too high", amount: "1000", rate: "0.6", installments: 6},
			{name: "installments not allowed", amount: "1000", rate: "0.2", installments: 5},
			{name: "non positive amount", amount: "0", rate: "0.2", installments: 6},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture()
				f.customers.findByIDFunc = func(ctx context.Context, id string) (model.Customer, error) {
					return customerWith("50000", "0"), nil
				}

				_, err := newCreateLoan(f).Execute(context.Background(), dto.CreateLoanRequest{
					CustomerID:           testutil.TestCustomerID,
					Amount:               dec(tt.amount),
					InterestRate:         dec(tt.rate),
					NumberOfInstallments: tt.installments,
				})
				require.ErrorIs(t, err, model.ErrInvalidArgument)
				assert.Empty(t, f.loans.savedLoans)
				assert.Empty(t, f.customers.savedCustomers)
			})
		}
	})

	t.Run("keeps rounding drift in the schedule", func(t *testing.T) {
		f := newFixture()
		f.customers.findByIDFunc = func(ctx context.Context, id string) (model.Customer, error) {
			return customerWith("50000", "0"), nil
		}

		// 833.34 × 1.2 = 1000.008; / 6 = 166.668 -> 166.67
		resp, err := newCreateLoan(f).Execute(context.Background(), dto.CreateLoanRequest{
			CustomerID:           testutil.TestCustomerID,
			Amount:               dec("833.34"),
			InterestRate:         dec("0.2"),
			NumberOfInstallments: 6,
		})
		require.NoError(t, err)
		testutil.AssertDecimal(t, "1000.008", resp.Loan.LoanAmount)
		testutil.AssertDecimal(t, "166.67", resp.Installments[0].Amount)
	})

	t.Run("fails when loan save fails", func(t *testing.T) {
		f := newFixture()
		f.customers.findByIDFunc = func(ctx context.Context, id string) (model.Customer, error) {
			return customerWith("50000", "0"), nil
		}
		f.loans.saveFunc = func(ctx context.Context, l model.Loan) error {
			return fmt.Errorf("database unavailable")
		}

		_, err := newCreateLoan(f).Execute(context.Background(), dto.CreateLoanRequest{
			CustomerID:           testutil.TestCustomerID,
			Amount:               dec("1000"),
			InterestRate:         dec("0.2"),
			NumberOfInstallments: 6,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save loan")
		assert.Empty(t, f.customers.savedCustomers)
	})

	t.Run("fails when outbox store fails", func(t *testing.T) {
		f := newFixture()
		f.customers.findByIDFunc = func(ctx context.Context, id string) (model.Customer, error) {
			return customerWith("50000", "0"), nil
		}
		f.outbox.storeFunc = func(ctx context.Context, _ []events.OutboxEntry) error {
			return fmt.Errorf("outbox full")
		}

		_, err := newCreateLoan(f).Execute(context.Background(), dto.CreateLoanRequest{
			CustomerID:           testutil.TestCustomerID,
			Amount:               dec("1000"),
			InterestRate:         dec("0.2"),
			NumberOfInstallments: 6,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store outbox entries")
		assert.Zero(t, f.metrics.loansCreated)
	})
}
