package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for sync
// runs. Scraped via /metrics in serve mode; plain CLI runs update them too
// but nothing reads them there.
type Metrics struct {
	SyncRuns         *prometheus.CounterVec // labels: outcome={success,failure}
	RecordsInserted  prometheus.Counter
	RecordsUpdated   prometheus.Counter
	Warnings         *prometheus.CounterVec // labels: kind
	ResolveOutcomes  *prometheus.CounterVec // labels: outcome={resolved,unresolved}
	CoordsPreserved  prometheus.Counter
	SyncDuration     prometheus.Histogram
	LastSyncUnixTime prometheus.Gauge
}

// NewMetrics creates and registers all sync metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SyncRuns,
		m.RecordsInserted,
		m.RecordsUpdated,
		m.Warnings,
		m.ResolveOutcomes,
		m.CoordsPreserved,
		m.SyncDuration,
		m.LastSyncUnixTime,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pacs_map",
			Name:      "sync_runs_total",
			Help:      "Sync runs by outcome.",
		}, []string{"outcome"}),
		RecordsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pacs_map",
			Name:      "records_inserted_total",
			Help:      "New records inserted by merges.",
		}),
		RecordsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pacs_map",
			Name:      "records_updated_total",
			Help:      "Existing records refreshed by merges.",
		}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pacs_map",
			Name:      "warnings_total",
			Help:      "Absorbed per-row problems by kind.",
		}, []string{"kind"}),
		ResolveOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pacs_map",
			Name:      "resolve_outcomes_total",
			Help:      "Location resolution outcomes per synced row.",
		}, []string{"outcome"}),
		CoordsPreserved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pacs_map",
			Name:      "coordinates_preserved_total",
			Help:      "Resolved coordinates kept over an unresolved re-sync.",
		}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pacs_map",
			Name:      "sync_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-merge cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastSyncUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pacs_map",
			Name:      "last_successful_sync_timestamp_seconds",
			Help:      "Unix time of the last successful sync.",
		}),
	}
}
