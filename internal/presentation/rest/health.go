package rest

import (
	"context"
	"log/slog"
	"net/http"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes over HTTP.
type HealthHandler struct {
	service string
	ready   ReadinessCheck
	logger  *slog.Logger
}

func NewHealthHandler(service string, ready ReadinessCheck, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{service: service, ready: ready, logger: logger}
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"service": h.service,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"service": h.service,
	})
}
