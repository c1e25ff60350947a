package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Proxy request outcomes
	ProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_requests_total",
			Help: "Total number of proxied asset requests",
		},
		[]string{"outcome"}, // success, error, pass
	)

	// Namespaced LRU cache counters
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of namespaced cache hits",
		},
		[]string{"namespace"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of namespaced cache misses",
		},
		[]string{"namespace"},
	)

	// Body cache hits per level
	BodyCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "body_cache_hits_total",
			Help: "Total number of proxied-body cache hits",
		},
		[]string{"level"}, // l1, l2
	)

	// Revision resolution outcomes
	RevisionResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revision_resolutions_total",
			Help: "Total number of latest-revision resolution attempts",
		},
		[]string{"result"}, // success, error, empty
	)

	// Upstream fetch latency
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream asset fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// RecordProxyRequest records a proxied request outcome
func RecordProxyRequest(outcome string) {
	ProxyRequests.WithLabelValues(outcome).Inc()
}

// RecordCacheHit records a hit in the namespaced LRU cache
func RecordCacheHit(namespace string) {
	CacheHits.WithLabelValues(namespace).Inc()
}

// RecordCacheMiss records a miss in the namespaced LRU cache
func RecordCacheMiss(namespace string) {
	CacheMisses.WithLabelValues(namespace).Inc()
}

// RecordBodyCacheHit records a proxied-body cache hit at the given level
func RecordBodyCacheHit(level string) {
	BodyCacheHits.WithLabelValues(level).Inc()
}

// RecordRevisionResolution records the outcome of a resolution attempt
func RecordRevisionResolution(result string) {
	RevisionResolutions.WithLabelValues(result).Inc()
}

// TimeUpstreamRequest returns a timer function for measuring an upstream fetch
func TimeUpstreamRequest(method string) func() {
	timer := prometheus.NewTimer(UpstreamRequestDuration.WithLabelValues(method))
	return func() {
		timer.ObserveDuration()
	}
}
