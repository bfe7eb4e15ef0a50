package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/domain/model"
	"github.com/bibbank/credit-module/internal/domain/port"
	"github.com/bibbank/credit-module/internal/domain/service"
	"github.com/bibbank/credit-module/pkg/events"
)

// CreateLoanUseCase books a loan against a customer's credit line and
// generates its installment schedule.
type CreateLoanUseCase struct {
	uow     port.UnitOfWork
	policy  *service.LoanPolicy
	metrics port.Metrics
	now     Clock
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(uow port.UnitOfWork, policy *service.LoanPolicy, metrics port.Metrics) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		uow:     uow,
		policy:  policy,
		metrics: metrics,
		now:     systemClock,
	}
}

// WithClock replaces the time source.
func (uc *CreateLoanUseCase) WithClock(c Clock) *CreateLoanUseCase {
	uc.now = c
	return uc
}

// Execute creates the loan, its installments and the credit reservation in
// one transaction.
func (uc *CreateLoanUseCase) Execute(ctx context.Context, req dto.CreateLoanRequest) (dto.CreateLoanResponse, error) {
	ctx, span := tracer.Start(ctx, "CreateLoan")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", req.CustomerID))

	now := uc.now()
	var resp dto.CreateLoanResponse

	err := uc.uow.Do(ctx, func(ctx context.Context, s port.Stores) error {
		// 1. Lock the customer so concurrent bookings serialise on its credit line.
		customer, err := s.Customers.FindByIDForUpdate(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("find customer: %w", err)
		}

		// 2. Validate the loan parameters.
		terms, err := uc.policy.Validate(req.Amount, req.InterestRate, req.NumberOfInstallments)
		if err != nil {
			return fmt.Errorf("validate loan: %w", err)
		}
		total := terms.TotalAmount()

		// 3. Reserve credit.
		customer, err = customer.ReserveCredit(total, now)
		if err != nil {
			return fmt.Errorf("reserve credit: %w", err)
		}

		// 4. Create and persist the loan.
		loan, err := model.NewLoan(customer.ID(), terms.Principal, terms.InterestRate.Decimal(), total, terms.Installments.Int(), now)
		if err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		if err := s.Loans.Save(ctx, loan); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}

		// 5. Generate and persist the schedule.
		installments := model.GenerateInstallments(loan.ID(), total, terms.Installments.Int(), now)
		if err := s.Installments.Save(ctx, installments...); err != nil {
			return fmt.Errorf("save installments: %w", err)
		}

		// 6. Persist the credit reservation.
		if err := s.Customers.Save(ctx, customer); err != nil {
			return fmt.Errorf("save customer: %w", err)
		}

		// 7. Queue domain events.
		entries, err := events.NewOutboxEntries(loan.DomainEvents()...)
		if err != nil {
			return fmt.Errorf("build outbox entries: %w", err)
		}
		if err := s.Outbox.Store(ctx, entries); err != nil {
			return fmt.Errorf("store outbox entries: %w", err)
		}

		resp = dto.CreateLoanResponse{
			Loan:         dto.ToLoanResponse(loan),
			Installments: dto.ToInstallmentResponses(installments),
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return dto.CreateLoanResponse{}, err
	}

	amount, _ := resp.Loan.LoanAmount.Float64()
	uc.metrics.LoanCreated(ctx, amount, resp.Loan.NumberOfInstallments)
	span.SetAttributes(attribute.String("loan.id", resp.Loan.ID))

	return resp, nil
}
