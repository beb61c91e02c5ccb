// Package httpserver serves the awareness API over HTTP.
//
// Routes come from the handler package:
//
//   - Session endpoints: /api/session/start, /api/session/{sessionId}/{progress,complete,status}
//   - Health endpoints: /health, /ready, and /metrics when enabled
//
// The router wraps them in a middleware chain of Recover, RequestID,
// Tracing, CORS and Audit, plus a per-route Metrics middleware.
package httpserver
