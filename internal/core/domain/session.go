package domain

import (
	"time"
)

// InitialStep is the step every session starts at.
const InitialStep = 0

// Session is a player's walk through the experience.
//
// Timestamps are Unix milliseconds. A Session is owned by the session store;
// callers always work on clones.
type Session struct {
	// ID is the random session identifier (UUID v4).
	ID string `json:"sessionId"`

	// CurrentStep is the last step accepted for this session.
	CurrentStep int `json:"currentStep"`

	// CreatedAt is the session creation timestamp (Unix milliseconds).
	CreatedAt int64 `json:"createdAt"`

	// LastActivity is the last accepted progress timestamp (Unix milliseconds).
	LastActivity int64 `json:"lastActivity"`
}

// NewSession creates a session at the initial step.
func NewSession(id string, now time.Time) *Session {
	ms := now.UnixMilli()
	return &Session{
		ID:           id,
		CurrentStep:  InitialStep,
		CreatedAt:    ms,
		LastActivity: ms,
	}
}

// Advance records an accepted step and refreshes LastActivity.
func (s *Session) Advance(step int, now time.Time) {
	s.CurrentStep = step
	s.LastActivity = now.UnixMilli()
}

// IdleFor returns how long the session has been inactive at now.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-s.LastActivity) * time.Millisecond
}

// IsActive reports whether the session saw activity within the idle window.
func (s *Session) IsActive(now time.Time, idleTimeout time.Duration) bool {
	return s.IdleFor(now) < idleTimeout
}

// IsIdleSince reports whether the last activity is strictly before cutoff.
func (s *Session) IsIdleSince(cutoff time.Time) bool {
	return s.LastActivity < cutoff.UnixMilli()
}

// Clone creates a copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	return &clone
}

// CreatedAtTime returns CreatedAt as time.Time.
func (s *Session) CreatedAtTime() time.Time {
	return time.UnixMilli(s.CreatedAt)
}

// LastActivityTime returns LastActivity as time.Time.
func (s *Session) LastActivityTime() time.Time {
	return time.UnixMilli(s.LastActivity)
}
