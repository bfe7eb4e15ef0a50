package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/domain/port"
)

// ListLoansUseCase lists a customer's loans.
type ListLoansUseCase struct {
	loanRepo port.LoanRepository
}

// NewListLoansUseCase wires dependencies.
func NewListLoansUseCase(loanRepo port.LoanRepository) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo}
}

// Execute returns the loans of req.CustomerID. An unknown customer has no loans.
func (uc *ListLoansUseCase) Execute(ctx context.Context, req dto.ListLoansRequest) (dto.ListLoansResponse, error) {
	ctx, span := tracer.Start(ctx, "ListLoans")
	defer span.End()

	loans, err := uc.loanRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.ListLoansResponse{}, fmt.Errorf("find loans: %w", err)
	}
	return dto.ListLoansResponse{Loans: dto.ToLoanResponses(loans)}, nil
}
