package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bibbank/credit-module/internal/application/authz"
	"github.com/bibbank/credit-module/internal/application/dto"
	"github.com/bibbank/credit-module/internal/presentation/transport"
)

// LoanHandler exposes the loan use cases over HTTP.
type LoanHandler struct {
	svc    transport.Services
	logger *slog.Logger
}

func (h *LoanHandler) issueToken(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.svc.IssueToken.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) createLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customerId is required")
		return
	}
	if !h.authorize(w, r, authz.ResourceCustomer, req.CustomerID) {
		return
	}
	resp, err := h.svc.CreateLoan.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *LoanHandler) listLoans(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customerId query parameter is required")
		return
	}
	if !h.authorize(w, r, authz.ResourceCustomer, customerID) {
		return
	}
	resp, err := h.svc.ListLoans.Execute(r.Context(), dto.ListLoansRequest{CustomerID: customerID})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) listInstallments(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]
	if !h.authorize(w, r, authz.ResourceLoan, loanID) {
		return
	}
	resp, err := h.svc.ListInstallments.Execute(r.Context(), dto.ListInstallmentsRequest{LoanID: loanID})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) payLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.PayLoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LoanID = mux.Vars(r)["loanId"]
	if !h.authorize(w, r, authz.ResourceLoan, req.LoanID) {
		return
	}
	resp, err := h.svc.PayLoan.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// authorize writes the error response itself and reports whether to go on.
func (h *LoanHandler) authorize(w http.ResponseWriter, r *http.Request, kind authz.ResourceKind, id string) bool {
	actor, err := transport.ActorFromContext(r.Context())
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return false
	}
	if err := authz.Require(r.Context(), h.svc.Authorizer, actor, kind, id); err != nil {
		h.writeUseCaseError(w, r, err)
		return false
	}
	return true
}

func (h *LoanHandler) writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func httpStatus(err error) int {
	switch transport.Classify(err) {
	case transport.KindNotFound:
		return http.StatusNotFound
	case transport.KindInvalidArgument:
		return http.StatusBadRequest
	case transport.KindInsufficientCredit:
		return http.StatusUnprocessableEntity
	case transport.KindUnauthenticated:
		return http.StatusUnauthorized
	case transport.KindDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
