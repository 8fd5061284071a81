package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Ingestion metrics
	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Total number of bulk ingestion runs",
		},
		[]string{"outcome"}, // outcome: completed, aborted
	)

	IngestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Duration of bulk ingestion runs in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	IngestFactsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_facts_total",
			Help: "Facts processed by bulk ingestion",
		},
		[]string{"result"}, // result: imported, duplicate, error
	)

	ExternalAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_api_requests_total",
			Help: "Total number of HTTP requests made to the external fact API",
		},
		[]string{"status"}, // status: success, failure
	)

	ExternalAPIRateLimitWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "external_api_rate_limit_waits_total",
			Help: "Total number of times the external client waited for pacing",
		},
	)

	// Fact service cache metrics
	FactCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fact_cache_hits_total",
			Help: "Cache hits by fact service operation",
		},
		[]string{"operation"},
	)

	FactCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fact_cache_misses_total",
			Help: "Cache misses by fact service operation",
		},
		[]string{"operation"},
	)

	FactCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fact_cache_invalidations_total",
			Help: "Total number of full fact cache invalidations",
		},
	)

	// Database operation metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	DBOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation"},
	)

	// Websocket progress stream metrics
	ProgressStreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_progress_streams_active",
			Help: "Number of active ingestion progress websocket streams",
		},
	)
)
