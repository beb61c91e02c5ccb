package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/internal/infra/buildinfo"
)

const readyTimeout = 2 * time.Second

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	active, err := h.svc.ActiveSessions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Version:        buildinfo.Version,
		UptimeSeconds:  buildinfo.Uptime().Seconds(),
		ActiveSessions: active,
		Time:           formatTime(time.Now()),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := h.ready(ctx); err != nil {
			h.log(r).Warn("readiness check failed", "error", err)
			w.Header().Set("X-Error-Code", domain.ErrServiceUnavailable.Code)
			h.writeJSON(w, r, http.StatusServiceUnavailable, ReadyResponse{
				Status: "unavailable",
				Error:  domain.ErrServiceUnavailable.Message,
			})
			return
		}
	}

	h.writeJSON(w, r, http.StatusOK, ReadyResponse{Status: "ready"})
}
