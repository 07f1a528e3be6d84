package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryCacheTotal counts result cache lookups by outcome ("hit" / "miss").
var QueryCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_cache_total",
		Help:      "Query result cache hits and misses",
	},
	[]string{"result"},
)

var registerCacheOnce sync.Once

// RegisterCacheMetrics registers the result cache collectors with the
// default registry. Only main should call it, and only when the cache is on.
func RegisterCacheMetrics() {
	registerCacheOnce.Do(func() {
		prometheus.MustRegister(QueryCacheTotal)
	})
}
