package memory

import (
	"context"
	"time"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/pkg/cmap"
)

// Store provides in-memory session storage.
type Store struct {
	sessions *cmap.Map[*domain.Session]
}

// Option configures the Store.
type Option func(*storeOptions)

type storeOptions struct {
	shards int
}

// WithShardCount sets the number of map shards (a power of two).
func WithShardCount(n int) Option {
	return func(o *storeOptions) {
		o.shards = n
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	o := storeOptions{shards: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		sessions: cmap.NewWithShards[*domain.Session](o.shards),
	}
}

// Create stores a new session.
func (s *Store) Create(_ context.Context, session *domain.Session) error {
	if !s.sessions.SetIfAbsent(session.ID, session.Clone()) {
		return domain.ErrSessionConflict
	}
	return nil
}

// Get retrieves a session by ID.
func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	// Return a clone to prevent external modification
	return session.Clone(), nil
}

// Update applies fn to a copy of the session under the shard lock and
// stores the copy if fn succeeds.
func (s *Store) Update(_ context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	updated, ok, err := s.sessions.Compute(id, func(current *domain.Session) (*domain.Session, error) {
		next := current.Clone()
		if err := fn(next); err != nil {
			return current, err
		}
		return next, nil
	})
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// Delete removes a session.
func (s *Store) Delete(_ context.Context, id string) error {
	if !s.sessions.Delete(id) {
		return domain.ErrSessionNotFound
	}
	return nil
}

// DeleteIdle removes sessions whose last activity is before cutoff.
func (s *Store) DeleteIdle(_ context.Context, cutoff time.Time) ([]string, error) {
	return s.sessions.RemoveIf(func(_ string, session *domain.Session) bool {
		return session.IsIdleSince(cutoff)
	}), nil
}

// Count returns the number of stored sessions.
func (s *Store) Count(_ context.Context) (int, error) {
	return s.sessions.Count(), nil
}

// Ping always succeeds; it lets the memory store satisfy readiness checks.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close releases nothing; it mirrors the Redis store.
func (s *Store) Close() error {
	return nil
}
