package httpserver

import (
	"net/http"
	"strings"

	"github.com/syncron/awareness-go/internal/server/httpserver/handler"
	"github.com/syncron/awareness-go/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler serves the API routes.
	Handler *handler.Handler

	// Observer receives per-route request metrics (nil disables).
	Observer RequestObserver

	// MetricsHandler is mounted at GET /metrics when set.
	MetricsHandler http.Handler

	// Logger for request logging.
	Logger logger.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
//
// Outer chain: Recover -> RequestID -> Tracing -> CORS -> Audit -> mux.
// Each API route additionally carries a Metrics middleware labelled with its
// pattern so that unmatched paths never create new label values.
func NewRouter(cfg *RouterConfig) http.Handler {
	l := cfg.Logger
	if l == nil {
		l = logger.Default()
	}

	mux := http.NewServeMux()
	for _, rt := range cfg.Handler.Routes() {
		mux.Handle(rt.Pattern, Metrics(cfg.Observer, routeLabel(rt.Pattern))(rt.Handler))
	}
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	middlewares := []Middleware{
		Recover(l),
		RequestID(),
		Tracing(),
		CORS(cfg.CORSAllowedOrigins),
	}
	if cfg.EnableAudit {
		middlewares = append(middlewares, Audit(l))
	}

	return Chain(mux, middlewares...)
}

// routeLabel strips the method from a ServeMux pattern.
func routeLabel(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
