// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Pool metrics
	PoolTotalStaked  *prometheus.GaugeVec
	PoolTotalRewards *prometheus.GaugeVec
	PoolsInEmergency prometheus.Gauge

	// Feed metrics
	FeedClients        prometheus.Gauge
	FeedEventsSent     prometheus.Counter
	FeedClientsEvicted prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Archive metrics
	EventsArchived     prometheus.Counter
	EventArchiveErrors prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "staking_vault"
	}

	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Total number of operations by kind and status",
		}, []string{"kind", "status"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operation_duration_seconds",
			Help:      "Operation execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),

		PoolTotalStaked: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "total_staked",
			Help:      "Currently staked principal per pool",
		}, []string{"pool"}),
		PoolTotalRewards: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "total_rewards",
			Help:      "Undistributed reward balance per pool",
		}, []string{"pool"}),
		PoolsInEmergency: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "emergency_mode_count",
			Help:      "Number of pools in emergency mode",
		}),

		FeedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "clients",
			Help:      "Number of connected websocket feed clients",
		}),
		FeedEventsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "events_sent_total",
			Help:      "Total number of events delivered to feed clients",
		}),
		FeedClientsEvicted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "clients_evicted_total",
			Help:      "Total number of slow feed clients evicted",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		EventsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "events_total",
			Help:      "Total number of operation events archived",
		}),
		EventArchiveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "errors_total",
			Help:      "Total number of archive write errors",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordOperation records one engine operation outcome.
func RecordOperation(kind, status string, seconds float64) {
	DefaultMetrics.OperationsTotal.WithLabelValues(kind, status).Inc()
	DefaultMetrics.OperationDuration.WithLabelValues(kind).Observe(seconds)
}

// UpdatePoolGauges updates the per-pool staked and reward gauges.
func UpdatePoolGauges(pool string, totalStaked, totalRewards uint64) {
	DefaultMetrics.PoolTotalStaked.WithLabelValues(pool).Set(float64(totalStaked))
	DefaultMetrics.PoolTotalRewards.WithLabelValues(pool).Set(float64(totalRewards))
}

// RecordPoolEmergency counts a pool entering emergency mode. The
// transition is one-way so the gauge only ever rises.
func RecordPoolEmergency() {
	DefaultMetrics.PoolsInEmergency.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordEventArchived records an archive write.
func RecordEventArchived(err error) {
	if err != nil {
		DefaultMetrics.EventArchiveErrors.Inc()
		return
	}
	DefaultMetrics.EventsArchived.Inc()
}
