package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_Watch(t *testing.T) {
	configFile := writeConfig(t, "log:\n  level: info\n")

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch(configFile); err != nil {
		t.Errorf("Watch() error = %v", err)
	}
	if err := w.Watch("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Watch() expected error for nonexistent directory")
	}
}

func TestWatcher_OnChange(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var calls []string
	for i := 0; i < 3; i++ {
		w.OnChange(func(path string) { calls = append(calls, path) })
	}

	w.notifyCallbacks("/test/path")
	if len(calls) != 3 {
		t.Errorf("callbacks called %d times, want 3", len(calls))
	}
}

func TestWatcher_Matches(t *testing.T) {
	configFile := writeConfig(t, "")
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if !w.matches("/anything") {
		t.Error("matches() should accept any file before Watch")
	}
	if err := w.Watch(configFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if !w.matches(configFile) {
		t.Error("matches() should accept the watched file")
	}
	if w.matches(filepath.Join(filepath.Dir(configFile), "other.yaml")) {
		t.Error("matches() should ignore sibling files")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.StartAsync()

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestWatcher_FileChange(t *testing.T) {
	configFile := writeConfig(t, "log:\n  level: info\n")

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(configFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	changed := make(chan string, 10)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	w.StartAsync()
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	// A sibling write must not trigger the callback
	sibling := filepath.Join(filepath.Dir(configFile), "notes.txt")
	if err := os.WriteFile(sibling, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(configFile, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case path := <-changed:
		if filepath.Base(path) != "config.yaml" {
			t.Errorf("callback path = %q, want config.yaml", path)
		}
	case <-time.After(2 * time.Second):
		t.Error("callback not called within timeout")
	}
}
