// Package cache provides the in-process memoization layer used for hot listings.
package cache

import (
	"sync"
	"sync/atomic"

	"blogapi/internal/observability"
)

// PostsListKey holds the memoized post listing.
const PostsListKey = "posts_list"

// Memory is a process-wide key/value map with explicit invalidation only.
// It has no TTL and no eviction. All methods are safe for concurrent use.
type Memory[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	// gen is bumped on every Invalidate; fills captured against an older
	// generation are dropped by SetIfGeneration.
	gen atomic.Uint64
}

// NewMemory creates an empty cache.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{entries: make(map[string]V)}
}

// Get returns the value stored under key and whether it was present.
// A present zero value (e.g. an empty slice) is still reported as found.
func (c *Memory[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (c *Memory[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// Invalidate removes key. Removing an absent key is a no-op.
func (c *Memory[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gen.Add(1)
	c.mu.Unlock()
	observability.CacheInvalidations.WithLabelValues(key).Inc()
}

// Generation returns the current invalidation generation.
func (c *Memory[V]) Generation() uint64 {
	return c.gen.Load()
}

// SetIfGeneration stores value only if no invalidation happened since gen was
// read. It reports whether the value was stored.
func (c *Memory[V]) SetIfGeneration(key string, value V, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen.Load() != gen {
		return false
	}
	c.entries[key] = value
	return true
}

// Len returns the number of entries currently held.
func (c *Memory[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
