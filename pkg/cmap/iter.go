package cmap

// RemoveIf deletes every entry for which pred returns true and returns the
// removed keys. Each shard is write-locked while it is scanned, so pred
// never observes a value that a concurrent Compute is in the middle of
// replacing.
func (m *Map[V]) RemoveIf(pred func(key string, value V) bool) []string {
	var removed []string
	for _, s := range m.shards {
		s.mu.Lock()
		for k, v := range s.items {
			if pred(k, v) {
				delete(s.items, k)
				removed = append(removed, k)
			}
		}
		s.mu.Unlock()
	}
	return removed
}
