package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/syncron/awareness-go/internal/core/domain"
)

const namespace = "awareness"

// Result label values of awareness_progress_total.
const (
	ResultAccepted          = "accepted"
	ResultUnauthorized      = "unauthorized"
	ResultNotFound          = "not_found"
	ResultInvalidTransition = "invalid_transition"
	ResultError             = "error"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Session metrics
	StartedTotal    prometheus.Counter
	CompletedTotal  prometheus.Counter
	EvictedTotal    prometheus.Counter
	SessionDuration prometheus.Histogram
	Progress        *prometheus.CounterVec
	TokenRejections *prometheus.CounterVec

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with the application families plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		StartedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions created by start.",
		}),
		CompletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Sessions finished by complete.",
		}),
		EvictedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Sessions removed by the idle sweep.",
		}),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Time from start to completion.",
			Buckets:   []float64{30, 60, 120, 300, 600, 900, 1800},
		}),
		Progress: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_total",
			Help:      "Progress requests by result.",
		}, []string{"result"}),
		TokenRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_rejections_total",
			Help:      "Progress tokens rejected, by internal reason.",
		}, []string{"reason"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.reg.MustRegister(
		r.StartedTotal,
		r.CompletedTotal,
		r.EvictedTotal,
		r.SessionDuration,
		r.Progress,
		r.TokenRejections,
		r.RequestsTotal,
		r.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RegisterSessionCount adds the awareness_sessions_active gauge.
func (r *Registry) RegisterSessionCount(count CountFunc) error {
	return r.reg.Register(NewCollector(count))
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveRequest records one finished HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, d time.Duration) {
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ============================================================================
// Session event recording
// ============================================================================

// SessionStarted implements service.Recorder.
func (r *Registry) SessionStarted() {
	r.StartedTotal.Inc()
}

// ProgressAccepted implements service.Recorder.
func (r *Registry) ProgressAccepted(int) {
	r.Progress.WithLabelValues(ResultAccepted).Inc()
}

// ProgressRejected implements service.Recorder.
func (r *Registry) ProgressRejected(code string) {
	r.Progress.WithLabelValues(progressResult(code)).Inc()
}

// SessionCompleted implements service.Recorder.
func (r *Registry) SessionCompleted(d time.Duration) {
	r.CompletedTotal.Inc()
	r.SessionDuration.Observe(d.Seconds())
}

// SessionsEvicted implements service.Recorder.
func (r *Registry) SessionsEvicted(n int) {
	r.EvictedTotal.Add(float64(n))
}

// TokenRejected implements service.Recorder.
func (r *Registry) TokenRejected(reason string) {
	r.TokenRejections.WithLabelValues(reason).Inc()
}

func progressResult(code string) string {
	switch code {
	case domain.ErrUnauthorized.Code:
		return ResultUnauthorized
	case domain.ErrSessionNotFound.Code:
		return ResultNotFound
	case domain.ErrInvalidTransition.Code:
		return ResultInvalidTransition
	default:
		return ResultError
	}
}
