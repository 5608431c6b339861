package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preview_engine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "preview_engine_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "preview_engine_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Generation metrics
var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preview_engine_generations_total",
			Help: "Total number of preview generations",
		},
		[]string{"kind", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "preview_engine_generation_duration_seconds",
			Help:    "Preview generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	ExternalToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preview_engine_external_tool_invocations_total",
			Help: "Total number of external tool invocations",
		},
		[]string{"tool", "status"},
	)
)

// Cache metrics
var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preview_engine_cache_hits_total",
			Help: "Total number of cache hits by tier",
		},
		[]string{"tier"}, // "memory" or "disk"
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "preview_engine_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "preview_engine_cache_evictions_total",
			Help: "Total number of LRU evictions from the memory tier",
		},
	)

	CacheExpirations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preview_engine_cache_expirations_total",
			Help: "Total number of TTL expirations by tier",
		},
		[]string{"tier"},
	)

	DiskCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "preview_engine_disk_cache_entries",
			Help: "Number of records in the disk cache",
		},
	)

	DiskCacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "preview_engine_disk_cache_size_bytes",
			Help: "Total size of the disk cache in bytes",
		},
	)
)

// Worker pool metrics
var (
	PoolTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preview_engine_pool_tasks_total",
			Help: "Total number of tasks submitted to the worker pool",
		},
		[]string{"status"}, // "completed" or "rejected"
	)

	PoolTasksInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "preview_engine_pool_tasks_in_flight",
			Help: "Number of tasks currently executing in the worker pool",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "preview_engine_app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}
