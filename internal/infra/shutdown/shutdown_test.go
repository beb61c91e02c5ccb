package shutdown

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(5*time.Second, nil)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.logger == nil {
		t.Error("logger should default to slog.Default")
	}

	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func TestHandler_Wait_Trigger(t *testing.T) {
	h := NewHandler(5*time.Second, quietLogger())

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"store", "sweeper", "http"} {
		h.OnShutdown(name, func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		})
	}

	h.Trigger("listener failed")
	h.Trigger("ignored")

	if err := h.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if got := strings.Join(order, ","); got != "http,sweeper,store" {
		t.Errorf("hook order = %s, want http,sweeper,store", got)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done should be closed after Wait")
	}
}

func TestHandler_Wait_WithSignal(t *testing.T) {
	h := NewHandler(5*time.Second, quietLogger())

	called := make(chan struct{})
	h.OnShutdown("probe", func(context.Context) error {
		close(called)
		return nil
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("Kill failed: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after SIGTERM")
	}

	select {
	case <-called:
	default:
		t.Error("hook was not called")
	}
}

func TestHandler_Wait_ContextCanceled(t *testing.T) {
	h := NewHandler(time.Second, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.Wait(ctx); err != nil {
		t.Errorf("Wait failed: %v", err)
	}
}

func TestHandler_Wait_HookError(t *testing.T) {
	h := NewHandler(time.Second, quietLogger())
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	var ran int
	h.OnShutdown("a", func(context.Context) error { ran++; return errFirst })
	h.OnShutdown("b", func(context.Context) error { ran++; return nil })
	h.OnShutdown("c", func(context.Context) error { ran++; return errSecond })

	h.Trigger("test")
	err := h.Wait(context.Background())

	if ran != 3 {
		t.Errorf("ran %d hooks, want 3 (errors must not stop later hooks)", ran)
	}
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Errorf("Wait = %v, want both hook errors", err)
	}
	if !strings.Contains(err.Error(), "c: second") {
		t.Errorf("error %q should name the hook", err)
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(20*time.Millisecond, quietLogger())
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	h.Trigger("test")
	if err := h.Wait(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want DeadlineExceeded", err)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown("hook", func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 50 {
		t.Errorf("hooks = %d, want 50", len(h.hooks))
	}
}
