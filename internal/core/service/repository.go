package service

import (
	"context"
	"time"

	"github.com/syncron/awareness-go/internal/core/domain"
)

// SessionRepository defines the storage interface for progress sessions.
//
// Implementations must run Update's callback atomically with respect to
// every other operation on the same id, including DeleteIdle.
type SessionRepository interface {
	// Create stores a new session. Returns domain.ErrSessionConflict if the
	// id is taken.
	Create(ctx context.Context, session *domain.Session) error

	// Get retrieves a copy of a session. Returns domain.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Update applies fn to the stored session under the per-id lock and
	// persists the result. If fn returns an error nothing is written and
	// the error is returned as is. Returns domain.ErrSessionNotFound when
	// the id is absent.
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error)

	// Delete removes a session. Returns domain.ErrSessionNotFound if it was
	// already gone, so exactly one of several concurrent callers succeeds.
	Delete(ctx context.Context, id string) error

	// DeleteIdle removes sessions whose last activity is before cutoff and
	// returns their ids.
	DeleteIdle(ctx context.Context, cutoff time.Time) ([]string, error)

	// Count returns the number of stored sessions.
	Count(ctx context.Context) (int, error)
}

// Recorder receives registry events, typically for metrics.
type Recorder interface {
	SessionStarted()
	ProgressAccepted(step int)
	ProgressRejected(code string)
	SessionCompleted(duration time.Duration)
	SessionsEvicted(n int)
	TokenRejected(reason string)
}

type noopRecorder struct{}

func (noopRecorder) SessionStarted()                {}
func (noopRecorder) ProgressAccepted(int)           {}
func (noopRecorder) ProgressRejected(string)        {}
func (noopRecorder) SessionCompleted(time.Duration) {}
func (noopRecorder) SessionsEvicted(int)            {}
func (noopRecorder) TokenRejected(string)           {}
