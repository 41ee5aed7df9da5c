package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RateLimited counts requests rejected by the limiter, by bucket.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_rate_limited_total",
		Help: "Requests rejected by rate limiting, by bucket",
	}, []string{"bucket"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devconnect_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// DomainOperations counts façade operations by name and result code.
	DomainOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_domain_operations_total",
		Help: "Total domain operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// DomainOperationLatency records façade latency by operation.
	DomainOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devconnect_domain_operation_latency_seconds",
		Help:    "Domain operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordOperation counts one domain operation and observes its latency. An
// empty outcome means success.
func RecordOperation(operation, outcome string, elapsed time.Duration) {
	if outcome == "" {
		outcome = "ok"
	}
	DomainOperations.WithLabelValues(operation, outcome).Inc()
	DomainOperationLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}
