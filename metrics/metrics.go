package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DispatchedRequests counts requests by how the dispatcher resolved them
	DispatchedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filedrop_dispatched_requests_total",
		Help: "The number of requests handled by the dispatcher, by outcome",
	}, []string{"outcome"})

	// ServedFileSize is the size of every file sent to a client
	ServedFileSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "filedrop_served_file_size_bytes",
		Help:    "The size in bytes of files served",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	// StreamedResponses counts files sent with the streaming strategy
	StreamedResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filedrop_streamed_responses_total",
		Help: "The number of large files streamed to clients, by status code",
	}, []string{"status_code"})

	// Uploads counts upload attempts by outcome
	Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filedrop_uploads_total",
		Help: "The number of uploads received, by outcome",
	}, []string{"outcome"})

	// UploadSize is the size of every stored upload
	UploadSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "filedrop_upload_size_bytes",
		Help:    "The size in bytes of stored uploads",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	// ListedFiles is the number of entries returned by the last listing
	ListedFiles = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "filedrop_listed_files",
		Help: "The number of files in the data directory at the last listing",
	})

	// RejectedURIs counts requests refused by the URI limiter, by reason
	RejectedURIs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filedrop_rejected_uris_total",
		Help: "The number of requests rejected because of their URI",
	}, []string{"reason"})

	// HealthChecks counts status path requests by result
	HealthChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filedrop_health_checks_total",
		Help: "The number of status checks answered, by result",
	}, []string{"result"})

	// LimitListenerMaxConns is the maximum number of concurrent connections
	LimitListenerMaxConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "filedrop_limit_listener_max_conns",
		Help: "The maximum number of concurrent connections allowed by the limit listener",
	})

	// LimitListenerConcurrentConns is the number of connections currently served
	LimitListenerConcurrentConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "filedrop_limit_listener_concurrent_conns",
		Help: "The number of concurrent connections accepted by the limit listener",
	})

	// LimitListenerWaitingConns is the number of connections waiting for a slot
	LimitListenerWaitingConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "filedrop_limit_listener_waiting_conns",
		Help: "The number of connections waiting for a free slot in the limit listener",
	})

	// RateLimitSourceIPBlockedCount is the number of requests blocked by the source IP rate limiter
	RateLimitSourceIPBlockedCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "filedrop_rate_limit_source_ip_blocked_count",
		Help: "The number of requests that have been blocked by the source IP rate limiter",
	})

	// RateLimitSourceIPCachedEntries is the number of entries in the rate limiter cache
	RateLimitSourceIPCachedEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "filedrop_rate_limit_source_ip_cached_entries",
		Help: "The number of entries in the cache",
	}, []string{"op"})

	// RateLimitSourceIPCacheRequests is the number of cache hits/misses
	RateLimitSourceIPCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filedrop_rate_limit_source_ip_cache_requests",
		Help: "The number of source_ip cache hits/misses",
	}, []string{"op", "cache"})
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		DispatchedRequests,
		ServedFileSize,
		StreamedResponses,
		Uploads,
		UploadSize,
		ListedFiles,
		RejectedURIs,
		HealthChecks,
		LimitListenerMaxConns,
		LimitListenerConcurrentConns,
		LimitListenerWaitingConns,
		RateLimitSourceIPBlockedCount,
		RateLimitSourceIPCachedEntries,
		RateLimitSourceIPCacheRequests,
	)
}
