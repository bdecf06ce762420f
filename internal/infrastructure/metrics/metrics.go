package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of a processing run.
type Metrics struct {
	registry *prometheus.Registry

	// Transaction metrics
	TransactionsApplied  *prometheus.CounterVec
	TransactionsRejected *prometheus.CounterVec
	RowsSkipped          prometheus.Counter

	// Account metrics
	AccountsTouched prometheus.Gauge
	AccountsLocked  prometheus.Gauge

	// Run metrics
	RunDuration prometheus.Histogram
}

// New creates all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		TransactionsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txengine_transactions_applied_total",
				Help: "Total transactions applied by kind",
			},
			[]string{"kind"},
		),
		TransactionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txengine_transactions_rejected_total",
				Help: "Total transactions rejected by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "txengine_rows_skipped_total",
			Help: "Total malformed input rows skipped",
		}),

		AccountsTouched: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txengine_accounts_touched",
			Help: "Accounts that received at least one transaction",
		}),
		AccountsLocked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txengine_accounts_locked",
			Help: "Accounts locked by a chargeback",
		}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txengine_run_duration_seconds",
			Help:    "Duration of processing runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Gatherer exposes the registry the metrics live on.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics to path in the text exposition format,
// e.g. for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
