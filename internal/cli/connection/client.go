package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// StartResult is the body of POST /api/session/start.
type StartResult struct {
	SessionID string `json:"sessionId" yaml:"sessionId"`
	Token     string `json:"token" yaml:"token"`
	ExpiresIn int    `json:"expiresIn" yaml:"expiresIn"`
	Message   string `json:"message" yaml:"message"`
}

// ProgressResult is the body of POST /api/session/{id}/progress.
type ProgressResult struct {
	Token     string `json:"token" yaml:"token"`
	ExpiresIn int    `json:"expiresIn" yaml:"expiresIn"`
	Message   string `json:"message" yaml:"message"`
}

// CompletionStats echoes the reported game results.
type CompletionStats struct {
	GameScore   float64 `json:"gameScore" yaml:"gameScore"`
	TotalTime   float64 `json:"totalTime" yaml:"totalTime"`
	CompletedAt string  `json:"completedAt" yaml:"completedAt"`
}

// CompleteResult is the body of POST /api/session/{id}/complete.
type CompleteResult struct {
	CompletionToken string          `json:"completionToken" yaml:"completionToken"`
	RedirectURL     string          `json:"redirectUrl" yaml:"redirectUrl"`
	Message         string          `json:"message" yaml:"message"`
	Stats           CompletionStats `json:"stats" yaml:"stats"`
}

// StatusResult is the body of GET /api/session/{id}/status.
type StatusResult struct {
	SessionID    string `json:"sessionId" yaml:"sessionId"`
	CurrentStep  int    `json:"currentStep" yaml:"currentStep"`
	CreatedAt    string `json:"createdAt" yaml:"createdAt"`
	LastActivity string `json:"lastActivity" yaml:"lastActivity"`
	IsActive     bool   `json:"isActive" yaml:"isActive"`
}

// HealthResult is the body of GET /health.
type HealthResult struct {
	Status         string  `json:"status" yaml:"status"`
	Version        string  `json:"version" yaml:"version"`
	UptimeSeconds  float64 `json:"uptimeSeconds" yaml:"uptimeSeconds"`
	ActiveSessions int     `json:"activeSessions" yaml:"activeSessions"`
	Time           string  `json:"time" yaml:"time"`
}

// Client calls the session API.
type Client struct {
	http *HTTPClient
}

// NewClient creates a Client for server.
func NewClient(server string) *Client {
	return &Client{http: NewHTTPClient(server)}
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// Start begins a new session.
func (c *Client) Start(ctx context.Context) (*StartResult, error) {
	var out StartResult
	if err := c.post(ctx, "/api/session/start", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Progress reports completion of step. data is sent verbatim when not nil.
func (c *Client) Progress(ctx context.Context, sessionID, token string, step int, data json.RawMessage) (*ProgressResult, error) {
	body := struct {
		Token string          `json:"token"`
		Step  int             `json:"step"`
		Data  json.RawMessage `json:"data,omitempty"`
	}{token, step, data}

	var out ProgressResult
	if err := c.post(ctx, sessionPath(sessionID, "progress"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Complete finishes the session. Nil stats are omitted.
func (c *Client) Complete(ctx context.Context, sessionID, token string, gameScore, totalTime *float64) (*CompleteResult, error) {
	body := struct {
		Token     string   `json:"token"`
		GameScore *float64 `json:"gameScore,omitempty"`
		TotalTime *float64 `json:"totalTime,omitempty"`
	}{token, gameScore, totalTime}

	var out CompleteResult
	if err := c.post(ctx, sessionPath(sessionID, "complete"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status fetches the stored state of a session.
func (c *Client) Status(ctx context.Context, sessionID string) (*StatusResult, error) {
	var out StatusResult
	if err := c.get(ctx, sessionPath(sessionID, "status"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the liveness report.
func (c *Client) Health(ctx context.Context) (*HealthResult, error) {
	var out HealthResult
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ready returns nil when the server reports ready.
func (c *Client) Ready(ctx context.Context) error {
	return c.get(ctx, "/ready", nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.http.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return ParseResponse(resp, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	resp, err := c.http.Post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return ParseResponse(resp, out)
}

func sessionPath(sessionID, action string) string {
	return "/api/session/" + url.PathEscape(sessionID) + "/" + action
}
