package service

import (
	"context"
	"sync"
	"time"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/internal/telemetry/tracer"
)

// DefaultSweepInterval is how often the Sweeper runs.
const DefaultSweepInterval = 5 * time.Minute

// Sweep removes sessions idle for longer than the policy's IdleTimeout and
// returns their ids.
func (s *ProgressService) Sweep(ctx context.Context) ([]string, error) {
	ctx, span := tracer.StartSpan(ctx, "ProgressService.Sweep")
	defer span.End()

	cutoff := s.now().Add(-s.policy.IdleTimeout)
	removed, err := s.repo.DeleteIdle(ctx, cutoff)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.ErrStorage.WithCause(err)
	}

	if len(removed) > 0 {
		log := s.log(ctx)
		for _, id := range removed {
			log.Info("evicted idle session", "session_id", id)
		}
		s.recorder.SessionsEvicted(len(removed))
	}
	return removed, nil
}

// Sweeper runs ProgressService.Sweep on a fixed interval from a single
// goroutine, so sweeps never overlap.
type Sweeper struct {
	svc      *ProgressService
	interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewSweeper creates a Sweeper. A non-positive interval uses
// DefaultSweepInterval.
func NewSweeper(svc *ProgressService, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		svc:      svc,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background loop. Later calls are no-ops.
func (w *Sweeper) Start() {
	w.startOnce.Do(func() {
		go w.loop()
	})
}

// Stop signals the loop to exit and waits for an in-flight sweep to finish
// or ctx to expire.
func (w *Sweeper) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stopCh) })

	// Never started: mark done so Stop does not wait for a loop.
	w.startOnce.Do(func() { close(w.doneCh) })

	select {
	case <-w.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Sweeper) loop() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce()
		case <-w.stopCh:
			return
		}
	}
}

func (w *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	if _, err := w.svc.Sweep(ctx); err != nil {
		w.svc.log(ctx).Error("idle sweep failed", "error", err)
	}
}
