package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/syncron/awareness-go/internal/core/domain"
)

// DefaultKeyPrefix is the default key namespace.
const DefaultKeyPrefix = "awareness"

// DefaultMaxRetries bounds optimistic transaction retries in Update.
const DefaultMaxRetries = 16

// ErrUnavailable wraps Redis transport failures.
var ErrUnavailable = errors.New("redis unavailable")

const createScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
else
  redis.call("SET", KEYS[1], ARGV[1])
end
redis.call("ZADD", KEYS[2], ARGV[2], ARGV[4])
return 1
`

const deleteScript = `
local n = redis.call("DEL", KEYS[1])
redis.call("ZREM", KEYS[2], ARGV[1])
return n
`

// deleteIdleScript removes a session only if its indexed activity is still
// before the cutoff.
const deleteIdleScript = `
local score = redis.call("ZSCORE", KEYS[2], ARGV[1])
if not score or tonumber(score) >= tonumber(ARGV[2]) then
  return -1
end
local n = redis.call("DEL", KEYS[1])
redis.call("ZREM", KEYS[2], ARGV[1])
return n
`

var (
	createLua     = redis.NewScript(createScript)
	deleteLua     = redis.NewScript(deleteScript)
	deleteIdleLua = redis.NewScript(deleteIdleScript)
)

// Store is a SessionRepository backed by Redis.
type Store struct {
	redis      redis.UniversalClient
	prefix     string
	ttl        time.Duration
	maxRetries int
	now        func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithKeyPrefix sets the key namespace.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL sets a Redis expiry on session keys, refreshed on every update.
// It reclaims keys if the sweeper stops running; zero disables it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock sets the time source used to age out index entries of keys
// that expired through the TTL. It should match the clock stamping
// LastActivity.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxRetries sets how often Update retries a conflicting transaction.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// New creates a Store over client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		redis:      client,
		prefix:     DefaultKeyPrefix,
		maxRetries: DefaultMaxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(id string) string {
	return "{" + s.prefix + "}:session:" + id
}

func (s *Store) indexKey() string {
	return "{" + s.prefix + "}:idle"
}

// Create stores a new session.
func (s *Store) Create(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	created, err := createLua.Run(ctx, s.redis,
		[]string{s.key(session.ID), s.indexKey()},
		data, session.LastActivity, s.ttl.Milliseconds(), session.ID,
	).Int()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if created == 0 {
		return domain.ErrSessionConflict
	}
	return nil
}

// Get retrieves a session by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.get(ctx, s.redis, id)
}

func (s *Store) get(ctx context.Context, c redis.Cmdable, id string) (*domain.Session, error) {
	data, err := c.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

// Update applies fn inside a WATCH transaction on the session key.
func (s *Store) Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	key := s.key(id)
	var (
		result *domain.Session
		fnErr  error
	)

	txf := func(tx *redis.Tx) error {
		session, err := s.get(ctx, tx, id)
		if err != nil {
			fnErr = err
			return err
		}
		if err := fn(session); err != nil {
			fnErr = err
			return err
		}

		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(session.LastActivity), Member: id})
			return nil
		})
		if err != nil {
			return err
		}
		result = session
		return nil
	}

	for i := 0; i < s.maxRetries; i++ {
		fnErr = nil
		err := s.redis.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return result, nil
		case fnErr != nil:
			return nil, fnErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil, fmt.Errorf("%w: update %s: too many concurrent writers", ErrUnavailable, id)
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := deleteLua.Run(ctx, s.redis, []string{s.key(id), s.indexKey()}, id).Int()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// DeleteIdle removes sessions whose indexed last activity is before cutoff.
// Index entries whose key already expired are dropped without being
// reported.
func (s *Store) DeleteIdle(ctx context.Context, cutoff time.Time) ([]string, error) {
	cutoffMs := cutoff.UnixMilli()
	ids, err := s.redis.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoffMs, 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var removed []string
	for _, id := range ids {
		n, err := deleteIdleLua.Run(ctx, s.redis, []string{s.key(id), s.indexKey()}, id, cutoffMs).Int()
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if n == 1 {
			removed = append(removed, id)
		}
	}
	return removed, nil
}

// Count returns the number of live sessions. With a TTL set, index entries
// older than the TTL belong to keys Redis already expired; they are dropped
// before counting.
func (s *Store) Count(ctx context.Context) (int, error) {
	var card *redis.IntCmd
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if s.ttl > 0 {
			horizon := s.now().Add(-s.ttl).UnixMilli()
			pipe.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+strconv.FormatInt(horizon, 10))
		}
		card = pipe.ZCard(ctx, s.indexKey())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return int(card.Val()), nil
}

// Ping checks Redis availability.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.redis.Close()
}
