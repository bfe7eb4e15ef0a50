package grpc

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/credit-module/internal/application/authz"
	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/presentation/transport"
	"github.com/bibbank/credit-module/pkg/money"
)

// CreditHandler implements CreditServiceServer on top of the use cases.
type CreditHandler struct {
	UnimplementedCreditServiceServer
	svc    transport.Services
	logger *slog.Logger
}

func NewCreditHandler(svc transport.Services, logger *slog.Logger) *CreditHandler {
	return &CreditHandler{svc: svc, logger: logger}
}

// Amounts travel as decimal strings so no precision is lost in JSON.

type CreateLoanRequest struct {
	CustomerID           string `json:"customer_id"`
	Amount               string `json:"amount"`
	InterestRate         string `json:"interest_rate"`
	NumberOfInstallments int32  `json:"number_of_installments"`
}

type Loan struct {
	LoanID               string `json:"loan_id"`
	CustomerID           string `json:"customer_id"`
	LoanAmount           string `json:"loan_amount"`
	NumberOfInstallments int32  `json:"number_of_installments"`
	CreateDate           string `json:"create_date"`
	IsPaid               bool   `json:"is_paid"`
}

type Installment struct {
	InstallmentID string `json:"installment_id"`
	LoanID        string `json:"loan_id"`
	Amount        string `json:"amount"`
	PaidAmount    string `json:"paid_amount"`
	DueDate       string `json:"due_date"`
	PaymentDate   string `json:"payment_date,omitempty"`
	IsPaid        bool   `json:"is_paid"`
}

type CreateLoanResponse struct {
	Loan         *Loan          `json:"loan"`
	Installments []*Installment `json:"installments"`
}

type ListLoansRequest struct {
	CustomerID string `json:"customer_id"`
}

type ListLoansResponse struct {
	Loans []*Loan `json:"loans"`
}

type ListInstallmentsRequest struct {
	LoanID string `json:"loan_id"`
}

type ListInstallmentsResponse struct {
	Installments []*Installment `json:"installments"`
}

type PayLoanRequest struct {
	LoanID string `json:"loan_id"`
	Amount string `json:"amount"`
}

type PayLoanResponse struct {
	LoanID             string `json:"loan_id"`
	InstallmentsPaid   int32  `json:"installments_paid"`
	TotalPaid          string `json:"total_paid"`
	TotalDiscount      string `json:"total_discount"`
	TotalPenalty       string `json:"total_penalty"`
	TotalPrincipalPaid string `json:"total_principal_paid"`
	LoanFullyPaid      bool   `json:"loan_fully_paid"`
	Message            string `json:"message"`
}

func (h *CreditHandler) CreateLoan(ctx context.Context, req *CreateLoanRequest) (*CreateLoanResponse, error) {
	if req == nil || req.CustomerID == "" {
		return nil, status.Error(codes.InvalidArgument, "customer_id is required")
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rate, err := money.Parse(req.InterestRate)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid interest_rate: %v", err))
	}
	if err := h.authorize(ctx, authz.ResourceCustomer, req.CustomerID); err != nil {
		return nil, err
	}

	result, err := h.svc.CreateLoan.Execute(ctx, dto.CreateLoanRequest{
		CustomerID:           req.CustomerID,
		Amount:               amount,
		InterestRate:         rate,
		NumberOfInstallments: int(req.NumberOfInstallments),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "CreateLoan", err)
	}
	return &CreateLoanResponse{
		Loan:         toLoan(result.Loan),
		Installments: toInstallments(result.Installments),
	}, nil
}

func (h *CreditHandler) ListLoans(ctx context.Context, req *ListLoansRequest) (*ListLoansResponse, error) {
	if req == nil || req.CustomerID == "" {
		return nil, status.Error(codes.InvalidArgument, "customer_id is required")
	}
	if err := h.authorize(ctx, authz.ResourceCustomer, req.CustomerID); err != nil {
		return nil, err
	}
	result, err := h.svc.ListLoans.Execute(ctx, dto.ListLoansRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, h.toStatus(ctx, "ListLoans", err)
	}
	loans := make([]*Loan, 0, len(result.Loans))
	for _, l := range result.Loans {
		loans = append(loans, toLoan(l))
	}
	return &ListLoansResponse{Loans: loans}, nil
}

func (h *CreditHandler) ListInstallments(ctx context.Context, req *ListInstallmentsRequest) (*ListInstallmentsResponse, error) {
	if req == nil || req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}
	if err := h.authorize(ctx, authz.ResourceLoan, req.LoanID); err != nil {
		return nil, err
	}
	result, err := h.svc.ListInstallments.Execute(ctx, dto.ListInstallmentsRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, h.toStatus(ctx, "ListInstallments", err)
	}
	return &ListInstallmentsResponse{Installments: toInstallments(result.Installments)}, nil
}

func (h *CreditHandler) PayLoan(ctx context.Context, req *PayLoanRequest) (*PayLoanResponse, error) {
	if req == nil || req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := h.authorize(ctx, authz.ResourceLoan, req.LoanID); err != nil {
		return nil, err
	}

	result, err := h.svc.PayLoan.Execute(ctx, dto.PayLoanRequest{LoanID: req.LoanID, Amount: amount})
	if err != nil {
		return nil, h.toStatus(ctx, "PayLoan", err)
	}
	return &PayLoanResponse{
		LoanID:             result.LoanID,
		InstallmentsPaid:   int32(result.InstallmentsPaid),
		TotalPaid:          result.TotalPaid.String(),
		TotalDiscount:      result.TotalDiscount.String(),
		TotalPenalty:       result.TotalPenalty.String(),
		TotalPrincipalPaid: result.TotalPrincipalPaid.String(),
		LoanFullyPaid:      result.LoanFullyPaid,
		Message:            result.Message,
	}, nil
}

func (h *CreditHandler) authorize(ctx context.Context, kind authz.ResourceKind, id string) error {
	actor, err := transport.ActorFromContext(ctx)
	if err != nil {
		return status.Error(codes.Unauthenticated, err.Error())
	}
	if err := authz.Require(ctx, h.svc.Authorizer, actor, kind, id); err != nil {
		return h.toStatus(ctx, "Authorize", err)
	}
	return nil
}

// toStatus maps use case errors onto gRPC codes. Internal errors are logged
// and their detail withheld from the caller.
func (h *CreditHandler) toStatus(ctx context.Context, method string, err error) error {
	var code codes.Code
	switch transport.Classify(err) {
	case transport.KindNotFound:
		code = codes.NotFound
	case transport.KindInvalidArgument:
		code = codes.InvalidArgument
	case transport.KindInsufficientCredit:
		code = codes.FailedPrecondition
	case transport.KindUnauthenticated:
		code = codes.Unauthenticated
	case transport.KindDenied:
		code = codes.PermissionDenied
	default:
		h.logger.ErrorContext(ctx, "rpc failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

func toLoan(l dto.LoanResponse) *Loan {
	return &Loan{
		LoanID:               l.ID,
		CustomerID:           l.CustomerID,
		LoanAmount:           l.LoanAmount.String(),
		NumberOfInstallments: int32(l.NumberOfInstallments),
		CreateDate:           l.CreateDate,
		IsPaid:               l.IsPaid,
	}
}

func toInstallments(in []dto.InstallmentResponse) []*Installment {
	out := make([]*Installment, 0, len(in))
	for _, i := range in {
		inst := &Installment{
			InstallmentID: i.ID,
			LoanID:        i.LoanID,
			Amount:        i.Amount.String(),
			PaidAmount:    i.PaidAmount.String(),
			DueDate:       i.DueDate,
			IsPaid:        i.IsPaid,
		}
		if i.PaymentDate != nil {
			inst.PaymentDate = *i.PaymentDate
		}
		out = append(out, inst)
	}
	return out
}
