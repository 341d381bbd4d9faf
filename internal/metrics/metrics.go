package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultEmpty   = "empty"
	ResultFailure = "failure"
)

var (
	AnalyticsRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_analytics_runs_total",
		Help: "Total number of stock analytics runs by result",
	}, []string{"result"})

	AnalyticsRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_analytics_run_duration_seconds",
		Help:    "Latency of a full fetch and compute run",
		Buckets: prometheus.DefBuckets,
	})

	SnapshotsLoaded = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_analytics_snapshots_loaded",
		Help:    "Number of monthly snapshots fetched per run",
		Buckets: []float64{1, 3, 6, 12, 24, 36, 60},
	})

	ProductsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_analytics_products_computed_total",
		Help: "Total number of product analytics produced",
	})

	SnapshotCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_analytics_snapshot_cache_total",
		Help: "Snapshot cache lookups by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
