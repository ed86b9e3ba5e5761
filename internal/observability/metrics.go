package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts cache lookups by key and result ("hit" or "miss").
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_cache_lookups_total",
		Help: "Total number of cache lookups by key and result",
	}, []string{"key", "result"})

	// CacheInvalidations counts explicit cache invalidations by key.
	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_cache_invalidations_total",
		Help: "Total number of cache invalidations by key",
	}, []string{"key"})

	// CacheFillsDiscarded counts miss-fills dropped because an invalidation raced them.
	CacheFillsDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_cache_fills_discarded_total",
		Help: "Total number of cache fills discarded because the entry was invalidated mid-fill",
	}, []string{"key"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// StoreErrors counts store failures by operation and kind ("integrity" or "storage").
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_store_errors_total",
		Help: "Total number of store errors by operation and kind",
	}, []string{"operation", "kind"})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
