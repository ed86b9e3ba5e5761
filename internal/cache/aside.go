package cache

import (
	"context"

	"blogapi/internal/observability"
)

// Aside returns the cached value for key. On a miss it calls fetch, stores the
// result and returns it. Fetch errors are returned without touching the cache.
//
// There is no per-key locking: concurrent misses may all call fetch and all
// store their result (last write wins). A fill that raced an Invalidate is
// returned to its caller but not stored.
func Aside[V any](ctx context.Context, c *Memory[V], key string, fetch func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		observability.CacheLookups.WithLabelValues(key, "hit").Inc()
		return v, nil
	}
	observability.CacheLookups.WithLabelValues(key, "miss").Inc()

	gen := c.Generation()
	v, err := fetch(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	if !c.SetIfGeneration(key, v, gen) {
		observability.CacheFillsDiscarded.WithLabelValues(key).Inc()
	}
	return v, nil
}
