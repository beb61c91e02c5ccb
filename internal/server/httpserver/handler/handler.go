package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/internal/core/service"
	"github.com/syncron/awareness-go/internal/telemetry/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

// Handler serves the session API.
type Handler struct {
	svc    *service.ProgressService
	ready  ReadyCheck
	logger logger.Logger
	mux    *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithReadyCheck sets the dependency probe used by GET /ready.
func WithReadyCheck(check ReadyCheck) Option {
	return func(h *Handler) { h.ready = check }
}

// WithLogger sets the base logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a new Handler over svc.
func New(svc *service.ProgressService, opts ...Option) *Handler {
	h := &Handler{
		svc:    svc,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux = http.NewServeMux()
	for _, rt := range h.Routes() {
		h.mux.HandleFunc(rt.Pattern, rt.Handler)
	}
	return h
}

// Route is one endpoint served by the Handler.
type Route struct {
	Pattern string
	Handler http.HandlerFunc
}

// Routes returns the API endpoints as ServeMux patterns.
func (h *Handler) Routes() []Route {
	return []Route{
		{"GET /health", h.handleHealth},
		{"GET /ready", h.handleReady},
		{"POST /api/session/start", h.handleStart},
		{"POST /api/session/{sessionId}/progress", h.handleProgress},
		{"POST /api/session/{sessionId}/complete", h.handleComplete},
		{"GET /api/session/{sessionId}/status", h.handleStatus},
	}
}

// ServeHTTP implements http.Handler without any middleware.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) log(r *http.Request) logger.Logger {
	return logger.Enrich(r.Context(), h.logger)
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log(r).Error("failed to encode response", "error", err)
	}
}

// writeError writes {error, code} with the code mirrored in X-Error-Code.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	w.Header().Set("X-Error-Code", code)
	h.writeJSON(w, r, errorCodeToHTTPStatus(code), ErrorResponse{Error: message, Code: code})
}

// handleServiceError converts service errors to HTTP responses. Only the
// public message of a domain error is written; details and causes stay in
// the logs.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		if errorCodeToHTTPStatus(de.Code) >= http.StatusInternalServerError {
			h.log(r).Error("request failed", "code", de.Code, "error", err)
		}
		h.writeError(w, r, de.Code, de.Message)
		return
	}

	h.log(r).Error("internal error", "error", err)
	h.writeError(w, r, domain.ErrInternal.Code, domain.ErrInternal.Message)
}

// errorCodeToHTTPStatus maps an AW-{AREA}-{NNNN} code to the HTTP status
// carried in the first three digits of its suffix.
func errorCodeToHTTPStatus(code string) int {
	idx := strings.LastIndex(code, "-")
	if idx < 0 || len(code)-idx-1 != 4 {
		return http.StatusInternalServerError
	}
	status, err := strconv.Atoi(code[idx+1 : idx+4])
	if err != nil || status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// getClientIP extracts client IP from request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// net.SplitHostPort handles bracketed IPv6 addresses.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
