// Package cmap provides a sharded, string-keyed concurrent map.
//
// Keys are spread over a power-of-two number of shards, each guarded by its
// own RWMutex, so operations on different keys rarely contend:
//
//   - Get and Count take shard read locks
//   - SetIfAbsent, Compute, Pop and RemoveIf take shard write locks
//
// Compute and RemoveIf run their callbacks while the shard lock is held,
// which makes a read-modify-write on one key atomic with respect to every
// other operation on that key, including a concurrent sweep.
//
// Usage:
//
//	m := cmap.New[*Session]()
//	m.SetIfAbsent("id", s)
//	m.Compute("id", func(s *Session) (*Session, error) { s.Step++; return s, nil })
//	removed := m.RemoveIf(func(_ string, s *Session) bool { return s.Idle() })
package cmap
