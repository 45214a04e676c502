package compare

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики сравнений. Отдаются через /metrics в flowlab-api.
var (
	compareRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowlab_compare_requests_total",
		Help: "Total node comparison requests",
	})

	compareFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowlab_compare_failures_total",
		Help: "Comparison requests that failed with an aggregate error",
	})

	compareDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowlab_compare_duration_seconds",
		Help:    "Wall-clock duration of comparison requests",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	engineCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowlab_compare_engine_calls_total",
		Help: "Graph engine calls issued by comparison tasks",
	}, []string{"status"})
)
