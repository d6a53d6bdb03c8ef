package database

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "fasthub"

// Metrics holds the Prometheus collectors of the session lifecycle.
type Metrics struct {
	SessionsOpened   prometheus.Counter
	SessionsReleased prometheus.Counter
	SessionsInUse    prometheus.Gauge
	PoolExhausted    prometheus.Counter
	ConnectionErrors prometheus.Counter
	PrePingFailures  prometheus.Counter
	SlowStatements   prometheus.Counter
	AcquireDuration  prometheus.Histogram
	SessionDuration  prometheus.Histogram
	MonitorUp        prometheus.Gauge
}

// NewMetrics registers the session collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "sessions_opened_total",
			Help:      "Sessions handed out by the session factory.",
		}),
		SessionsReleased: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "sessions_released_total",
			Help:      "Sessions whose connection went back to the pool.",
		}),
		SessionsInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "sessions_in_use",
			Help:      "Sessions currently holding a connection.",
		}),
		PoolExhausted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "pool_exhausted_total",
			Help:      "Session opens that timed out waiting for a connection.",
		}),
		ConnectionErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "connection_errors_total",
			Help:      "Statements or checkouts that failed on a broken transport.",
		}),
		PrePingFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "pre_ping_failures_total",
			Help:      "Checked out connections discarded because they failed the pre-ping.",
		}),
		SlowStatements: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "slow_statements_total",
			Help:      "Statements slower than the configured slow query threshold.",
		}),
		AcquireDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "acquire_duration_seconds",
			Help:      "Time spent waiting for a connection when opening a session.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 9),
		}),
		SessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "session_duration_seconds",
			Help:      "Time between opening and releasing a session.",
			Buckets:   prometheus.DefBuckets,
		}),
		MonitorUp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "db",
			Name:      "up",
			Help:      "1 when the last background pre-ping succeeded.",
		}),
	}
}

// registerPoolStats exposes sql.DBStats of db on reg.
func registerPoolStats(reg prometheus.Registerer, db *sql.DB) error {
	return reg.Register(collectors.NewDBStatsCollector(db, metricsNamespace))
}
