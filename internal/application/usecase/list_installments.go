package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/domain/port"
)

// ListInstallmentsUseCase lists a loan's installment schedule.
type ListInstallmentsUseCase struct {
	installmentRepo port.InstallmentRepository
}

// NewListInstallmentsUseCase wires dependencies.
func NewListInstallmentsUseCase(installmentRepo port.InstallmentRepository) *ListInstallmentsUseCase {
	return &ListInstallmentsUseCase{installmentRepo: installmentRepo}
}

// Execute returns the installments of req.LoanID in due-date order. An
// unknown loan has no installments.
func (uc *ListInstallmentsUseCase) Execute(ctx context.Context, req dto.ListInstallmentsRequest) (dto.ListInstallmentsResponse, error) {
	ctx, span := tracer.Start(ctx, "ListInstallments")
	defer span.End()

	insts, err := uc.installmentRepo.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.ListInstallmentsResponse{}, fmt.Errorf("find installments: %w", err)
	}
	return dto.ListInstallmentsResponse{Installments: dto.ToInstallmentResponses(insts)}, nil
}
