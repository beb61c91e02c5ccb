package cmap

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	m := New[int]()
	if m == nil {
		t.Fatal("New() returned nil")
	}
	if len(m.shards) != DefaultShardCount {
		t.Errorf("shard count = %d, want %d", len(m.shards), DefaultShardCount)
	}
}

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},  // invalid → default
		{-1, DefaultShardCount}, // invalid → default
		{3, DefaultShardCount},  // not power of 2 → default
		{1, 1},
		{2, 2},
		{8, 8},
		{32, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[int](tt.input)
			if len(m.shards) != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d",
					tt.input, len(m.shards), tt.expected)
			}
		})
	}
}

// fill stores key0..key(n-1) with values produced by val.
func fill(m *Map[int], n int, val func(i int) int) {
	for i := 0; i < n; i++ {
		m.SetIfAbsent(fmt.Sprintf("key%d", i), val(i))
	}
}

func TestGet(t *testing.T) {
	m := New[int]()
	m.SetIfAbsent("key1", 100)
	m.SetIfAbsent("key2", 200)

	if val, ok := m.Get("key1"); !ok || val != 100 {
		t.Errorf("Get(key1) = (%d, %v), want (100, true)", val, ok)
	}
	if val, ok := m.Get("key2"); !ok || val != 200 {
		t.Errorf("Get(key2) = (%d, %v), want (200, true)", val, ok)
	}
	if val, ok := m.Get("nonexistent"); ok {
		t.Errorf("Get(nonexistent) = (%d, %v), want (0, false)", val, ok)
	}
}

func TestSetIfAbsent(t *testing.T) {
	m := New[int]()

	if !m.SetIfAbsent("key", 1) {
		t.Error("SetIfAbsent on empty key should succeed")
	}
	if m.SetIfAbsent("key", 2) {
		t.Error("SetIfAbsent on existing key should fail")
	}
	if val, _ := m.Get("key"); val != 1 {
		t.Errorf("value = %d, want 1", val)
	}
}

func TestDeleteAndPop(t *testing.T) {
	m := New[int]()
	m.SetIfAbsent("key1", 100)
	m.SetIfAbsent("key2", 200)

	if !m.Delete("key1") {
		t.Error("Delete(key1) should report existing key")
	}
	if m.Delete("key1") {
		t.Error("second Delete(key1) should report missing key")
	}

	if val, ok := m.Pop("key2"); !ok || val != 200 {
		t.Errorf("Pop(key2) = (%d, %v), want (200, true)", val, ok)
	}
	if _, ok := m.Pop("key2"); ok {
		t.Error("second Pop(key2) should fail")
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
}

func TestCompute(t *testing.T) {
	m := New[int]()
	m.SetIfAbsent("key", 1)

	t.Run("updates existing", func(t *testing.T) {
		got, ok, err := m.Compute("key", func(v int) (int, error) { return v + 1, nil })
		if err != nil || !ok || got != 2 {
			t.Errorf("Compute = (%d, %v, %v), want (2, true, nil)", got, ok, err)
		}
	})

	t.Run("missing key skips callback", func(t *testing.T) {
		called := false
		_, ok, err := m.Compute("missing", func(v int) (int, error) {
			called = true
			return v, nil
		})
		if ok || err != nil || called {
			t.Errorf("Compute(missing) ok=%v err=%v called=%v", ok, err, called)
		}
	})

	t.Run("error keeps value", func(t *testing.T) {
		boom := errors.New("boom")
		_, ok, err := m.Compute("key", func(v int) (int, error) { return 99, boom })
		if !ok || !errors.Is(err, boom) {
			t.Errorf("Compute = ok=%v err=%v, want ok=true err=boom", ok, err)
		}
		if val, _ := m.Get("key"); val != 2 {
			t.Errorf("value = %d, want 2", val)
		}
	})
}

func TestCount(t *testing.T) {
	m := NewWithShards[int](4)
	fill(m, 50, func(i int) int { return i })
	if m.Count() != 50 {
		t.Errorf("Count() = %d, want 50", m.Count())
	}
}

func TestConcurrentCompute(t *testing.T) {
	m := New[int]()
	m.SetIfAbsent("counter", 0)

	const goroutines = 50
	const increments = 100

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				m.Compute("counter", func(v int) (int, error) { return v + 1, nil })
			}
		}()
	}
	wg.Wait()

	if val, _ := m.Get("counter"); val != goroutines*increments {
		t.Errorf("counter = %d, want %d", val, goroutines*increments)
	}
}
