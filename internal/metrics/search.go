package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric the service exports.
const Namespace = "ovpsearch"

// Search and index synchronization metrics.
var (
	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"kind", "result"}, // "hit" / "miss"
	)

	IndexSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "index_sync_total",
			Help:      "Search document writes triggered by relational changes",
		},
		[]string{"kind", "action", "status"}, // action: create/update/upsert/remove, status: ok/error
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Search resolution duration in seconds, cache lookups included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)
)

var registerOnce sync.Once

// RegisterSearchMetrics registers the search metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(CacheTotal)
		prometheus.MustRegister(IndexSyncTotal)
		prometheus.MustRegister(SearchDuration)
	})
}
