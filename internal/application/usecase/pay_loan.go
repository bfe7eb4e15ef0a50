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
	"github.com/bibbank/credit-module/pkg/money"
)

// NoPayableInstallmentsMessage is returned when nothing falls inside the payable window.
const NoPayableInstallmentsMessage = "No installments available for payment."

// PayLoanUseCase applies a lump payment to a loan's oldest installments.
type PayLoanUseCase struct {
	uow       port.UnitOfWork
	allocator *service.PaymentAllocator
	metrics   port.Metrics
	now       Clock
}

// NewPayLoanUseCase wires dependencies.
func NewPayLoanUseCase(uow port.UnitOfWork, allocator *service.PaymentAllocator, metrics port.Metrics) *PayLoanUseCase {
	return &PayLoanUseCase{
		uow:       uow,
		allocator: allocator,
		metrics:   metrics,
		now:       systemClock,
	}
}

// WithClock replaces the time source.
func (uc *PayLoanUseCase) WithClock(c Clock) *PayLoanUseCase {
	uc.now = c
	return uc
}

// Execute allocates req.Amount and persists the result. A payment that
// settles nothing leaves every record untouched.
func (uc *PayLoanUseCase) Execute(ctx context.Context, req dto.PayLoanRequest) (dto.PaymentResponse, error) {
	ctx, span := tracer.Start(ctx, "PayLoan")
	defer span.End()
	span.SetAttributes(attribute.String("loan.id", req.LoanID))

	if !req.Amount.IsPositive() {
		return dto.PaymentResponse{}, fmt.Errorf("validate payment: %w: payment amount must be positive", model.ErrInvalidArgument)
	}

	now := uc.now()
	resp := dto.PaymentResponse{LoanID: req.LoanID}

	err := uc.uow.Do(ctx, func(ctx context.Context, s port.Stores) error {
		// 1. Lock the loan.
		loan, err := s.Loans.FindByIDForUpdate(ctx, req.LoanID)
		if err != nil {
			return fmt.Errorf("find loan: %w", err)
		}
		resp.LoanFullyPaid = loan.IsPaid()

		// 2. Allocate the payment.
		installments, err := s.Installments.FindByLoanID(ctx, loan.ID())
		if err != nil {
			return fmt.Errorf("find installments: %w", err)
		}
		alloc, err := uc.allocator.Allocate(installments, req.Amount, now)
		if err != nil {
			return fmt.Errorf("allocate payment: %w", err)
		}
		if alloc.Payable == 0 {
			resp.Message = NoPayableInstallmentsMessage
			fillTotals(&resp, alloc)
			return nil
		}
		if alloc.PaidCount() == 0 {
			fillTotals(&resp, alloc)
			resp.Message = paymentSummary(resp)
			return nil
		}

		// 3. Persist settled installments.
		if err := s.Installments.Save(ctx, alloc.Paid...); err != nil {
			return fmt.Errorf("save installments: %w", err)
		}

		// 4. Flag the loan once every installment is paid.
		loan = loan.RecordPayment(alloc.PaidCount(), alloc.TotalPaid, alloc.TotalDiscount, alloc.TotalPenalty, alloc.PrincipalPaid, now)
		all, err := s.Installments.FindByLoanID(ctx, loan.ID())
		if err != nil {
			return fmt.Errorf("reload installments: %w", err)
		}
		if model.AllPaid(all) {
			loan = loan.MarkPaid(now)
			if err := s.Loans.Save(ctx, loan); err != nil {
				return fmt.Errorf("save loan: %w", err)
			}
		}

		// 5. Release the repaid principal.
		customer, err := s.Customers.FindByIDForUpdate(ctx, loan.CustomerID())
		if err != nil {
			return fmt.Errorf("find customer: %w", err)
		}
		customer = customer.ReleaseCredit(alloc.PrincipalPaid, now)
		if err := s.Customers.Save(ctx, customer); err != nil {
			return fmt.Errorf("save customer: %w", err)
		}

		// 6. Queue domain events.
		entries, err := events.NewOutboxEntries(loan.DomainEvents()...)
		if err != nil {
			return fmt.Errorf("build outbox entries: %w", err)
		}
		if err := s.Outbox.Store(ctx, entries); err != nil {
			return fmt.Errorf("store outbox entries: %w", err)
		}

		fillTotals(&resp, alloc)
		resp.LoanFullyPaid = loan.IsPaid()
		resp.Message = paymentSummary(resp)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return dto.PaymentResponse{}, err
	}

	if resp.InstallmentsPaid > 0 {
		uc.metrics.PaymentApplied(ctx, resp.InstallmentsPaid, resp.LoanFullyPaid)
	}
	span.SetAttributes(attribute.Int("installments.paid", resp.InstallmentsPaid))

	return resp, nil
}

func fillTotals(resp *dto.PaymentResponse, alloc service.Allocation) {
	resp.InstallmentsPaid = alloc.PaidCount()
	resp.TotalPaid = alloc.TotalPaid
	resp.TotalDiscount = alloc.TotalDiscount
	resp.TotalPenalty = alloc.TotalPenalty
	resp.TotalPrincipalPaid = alloc.PrincipalPaid
}

func paymentSummary(resp dto.PaymentResponse) string {
	return fmt.Sprintf("Paid %d installments, total paid: %s. Discount: %s, Penalty: %s. Loan fully paid: %t",
		resp.InstallmentsPaid,
		money.Format(resp.TotalPaid),
		money.Format(resp.TotalDiscount),
		money.Format(resp.TotalPenalty),
		resp.LoanFullyPaid,
	)
}
