package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bibbank/credit-module/internal/presentation/transport"
)

// RouterConfig collects what NewRouter needs beyond the use cases.
type RouterConfig struct {
	Validator TokenValidator
	Health    *HealthHandler
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter builds the HTTP API. Everything under /api/v1/loans requires a
// bearer token; token issue, probes and metrics do not.
func NewRouter(svc transport.Services, cfg RouterConfig) http.Handler {
	h := &LoanHandler{svc: svc, logger: cfg.Logger}

	r := mux.NewRouter()
	r.Use(LoggingMiddleware(cfg.Logger))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	if cfg.Health != nil {
		r.HandleFunc("/healthz", cfg.Health.liveness).Methods(http.MethodGet)
		r.HandleFunc("/readyz", cfg.Health.readiness).Methods(http.MethodGet)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/token", h.issueToken).Methods(http.MethodPost)

	loans := api.PathPrefix("/loans").Subrouter()
	loans.Use(AuthMiddleware(cfg.Validator))
	loans.HandleFunc("", h.createLoan).Methods(http.MethodPost)
	loans.HandleFunc("", h.listLoans).Methods(http.MethodGet)
	loans.HandleFunc("/{loanId}/installments", h.listInstallments).Methods(http.MethodGet)
	loans.HandleFunc("/{loanId}/payments", h.payLoan).Methods(http.MethodPost)

	return r
}
