package handler

import (
	"encoding/json"
	"time"
)

// isoMillis formats instants like JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// StartResponse is the response body for POST /api/session/start.
type StartResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	Message   string `json:"message"`
}

// ProgressRequest is the request body for POST /api/session/{sessionId}/progress.
// Step is a pointer so a missing step is a malformed request rather than 0.
type ProgressRequest struct {
	Token string          `json:"token"`
	Step  *int            `json:"step"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ProgressResponse is the response body for POST /api/session/{sessionId}/progress.
type ProgressResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	Message   string `json:"message"`
}

// CompleteRequest is the request body for POST /api/session/{sessionId}/complete.
type CompleteRequest struct {
	Token     string  `json:"token"`
	GameScore float64 `json:"gameScore"`
	TotalTime float64 `json:"totalTime"`
}

// CompletionStats echoes the client-reported results.
type CompletionStats struct {
	GameScore   float64 `json:"gameScore"`
	TotalTime   float64 `json:"totalTime"`
	CompletedAt string  `json:"completedAt"`
}

// CompleteResponse is the response body for POST /api/session/{sessionId}/complete.
type CompleteResponse struct {
	CompletionToken string          `json:"completionToken"`
	RedirectURL     string          `json:"redirectUrl"`
	Message         string          `json:"message"`
	Stats           CompletionStats `json:"stats"`
}

// StatusResponse is the response body for GET /api/session/{sessionId}/status.
type StatusResponse struct {
	SessionID    string `json:"sessionId"`
	CurrentStep  int    `json:"currentStep"`
	CreatedAt    string `json:"createdAt"`
	LastActivity string `json:"lastActivity"`
	IsActive     bool   `json:"isActive"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	UptimeSeconds  float64 `json:"uptimeSeconds"`
	ActiveSessions int     `json:"activeSessions"`
	Time           string  `json:"time"`
}

// ReadyResponse is the response body for GET /ready.
type ReadyResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
