package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/internal/storage/memory"
	"github.com/syncron/awareness-go/internal/telemetry/logger"
	"github.com/syncron/awareness-go/pkg/progresstoken"
)

var testSecret = []byte("test-secret-key-at-least-32-bytes!!")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_730_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type spyRecorder struct {
	mu        sync.Mutex
	started   int
	accepted  []int
	rejected  []string
	completed int
	evicted   int
	reasons   []string
}

func (r *spyRecorder) SessionStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *spyRecorder) ProgressAccepted(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accepted = append(r.accepted, step)
}

func (r *spyRecorder) ProgressRejected(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, code)
}

func (r *spyRecorder) SessionCompleted(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *spyRecorder) SessionsEvicted(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evicted += n
}

func (r *spyRecorder) TokenRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

type testEnv struct {
	svc      *ProgressService
	store    *memory.Store
	codec    *progresstoken.Codec
	clock    *fakeClock
	recorder *spyRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := newFakeClock()
	codec, err := progresstoken.New(testSecret, progresstoken.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("progresstoken.New failed: %v", err)
	}
	store := memory.New()
	rec := &spyRecorder{}

	svc := NewProgressService(store, codec,
		WithClock(clock.Now),
		WithLogger(logger.Discard()),
		WithRecorder(rec),
	)
	return &testEnv{svc: svc, store: store, codec: codec, clock: clock, recorder: rec}
}

func (e *testEnv) start(t *testing.T) *StartResponse {
	t.Helper()
	resp, err := e.svc.Start(context.Background(), &StartRequest{ClientIP: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return resp
}

func (e *testEnv) advance(t *testing.T, sessionID, token string, step int) *AdvanceResponse {
	t.Helper()
	resp, err := e.svc.AdvanceProgress(context.Background(), &AdvanceRequest{
		SessionID: sessionID,
		Token:     token,
		Step:      step,
	})
	if err != nil {
		t.Fatalf("AdvanceProgress(%d) failed: %v", step, err)
	}
	return resp
}

// faultyRepo fails every operation with a non-domain error.
type faultyRepo struct{}

var errBackend = errors.New("backend down")

func (faultyRepo) Create(context.Context, *domain.Session) error { return errBackend }
func (faultyRepo) Get(context.Context, string) (*domain.Session, error) {
	return nil, errBackend
}
func (faultyRepo) Update(context.Context, string, func(*domain.Session) error) (*domain.Session, error) {
	return nil, errBackend
}
func (faultyRepo) Delete(context.Context, string) error { return errBackend }
func (faultyRepo) DeleteIdle(context.Context, time.Time) ([]string, error) {
	return nil, errBackend
}
func (faultyRepo) Count(context.Context) (int, error) { return 0, errBackend }
