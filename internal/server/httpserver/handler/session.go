package handler

import (
	"net/http"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/internal/core/service"
)

// handleStart handles POST /api/session/start.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Start(r.Context(), &service.StartRequest{
		ClientIP:  getClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, StartResponse{
		SessionID: resp.SessionID,
		Token:     resp.Token,
		ExpiresIn: resp.ExpiresIn,
		Message:   resp.Message,
	})
}

// handleProgress handles POST /api/session/{sessionId}/progress.
func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if err := decode(w, r, &req); err != nil || req.Token == "" || req.Step == nil {
		h.writeError(w, r, domain.ErrMalformedRequest.Code, "missing required fields")
		return
	}

	resp, err := h.svc.AdvanceProgress(r.Context(), &service.AdvanceRequest{
		SessionID: r.PathValue("sessionId"),
		Token:     req.Token,
		Step:      *req.Step,
		HasData:   len(req.Data) > 0 && string(req.Data) != "null",
		ClientIP:  getClientIP(r),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ProgressResponse{
		Token:     resp.Token,
		ExpiresIn: resp.ExpiresIn,
		Message:   resp.Message,
	})
}

// handleComplete handles POST /api/session/{sessionId}/complete.
func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if err := decode(w, r, &req); err != nil || req.Token == "" {
		h.writeError(w, r, domain.ErrMalformedRequest.Code, "missing completion token")
		return
	}

	resp, err := h.svc.Complete(r.Context(), &service.CompleteRequest{
		SessionID: r.PathValue("sessionId"),
		Token:     req.Token,
		GameScore: req.GameScore,
		TotalTime: req.TotalTime,
		ClientIP:  getClientIP(r),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, CompleteResponse{
		CompletionToken: resp.CompletionToken,
		RedirectURL:     resp.RedirectURL,
		Message:         resp.Message,
		Stats: CompletionStats{
			GameScore:   resp.Stats.GameScore,
			TotalTime:   resp.Stats.TotalTime,
			CompletedAt: formatTime(resp.Stats.CompletedAt),
		},
	})
}

// handleStatus handles GET /api/session/{sessionId}/status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status(r.Context(), r.PathValue("sessionId"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		SessionID:    st.SessionID,
		CurrentStep:  st.CurrentStep,
		CreatedAt:    formatTime(st.CreatedAt),
		LastActivity: formatTime(st.LastActivity),
		IsActive:     st.IsActive,
	})
}
