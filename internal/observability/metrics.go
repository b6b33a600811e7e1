package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard core.
type Metrics struct {
	RowsIngested       prometheus.Counter
	DatasetsNormalized prometheus.Counter
	CellsPromoted      prometheus.Counter
	CellsDegraded      prometheus.Counter
	FieldsUnbound      prometheus.Gauge

	// Canonical cache metrics.
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Filter metrics.
	FilterPasses   prometheus.Counter
	FilterDuration prometheus.Histogram
	FilterRows     prometheus.Histogram

	// Live simulation metrics.
	LiveTicks      prometheus.Counter
	LiveRunsActive prometheus.Gauge
}

// NewMetrics creates and registers all core metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsIngested,
		m.DatasetsNormalized,
		m.CellsPromoted,
		m.CellsDegraded,
		m.FieldsUnbound,
		m.CacheHits,
		m.CacheMisses,
		m.FilterPasses,
		m.FilterDuration,
		m.FilterRows,
		m.LiveTicks,
		m.LiveRunsActive,
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
		RowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_dashboard",
			Name:      "rows_ingested_total",
			Help:      "Total raw rows read from the sensor export.",
		}),
		DatasetsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_dashboard",
			Name:      "datasets_normalized_total",
			Help:      "Total canonical dataset rebuilds.",
		}),
		CellsPromoted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_dashboard",
			Name:      "cells_promoted_total",
			Help:      "Text cells promoted to numeric or time values.",
		}),
		CellsDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_dashboard",
			Name:      "cells_degraded_total",
			Help:      "Cells that failed coercion and became missing.",
		}),
		FieldsUnbound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "city_dashboard",
			Name:      "fields_unbound",
			Help:      "Semantic fields left unbound after the last resolution.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_dashboard",
			Name:      "cache_hits_total",
			Help:      "Canonical dataset cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_dashboard",
			Name:      "cache_misses_total",
			Help:      "Canonical dataset cache misses (rebuilds).",
		}),
		FilterPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_dashboard",
			Name:      "filter_passes_total",
			Help:      "Filter engine invocations.",
		}),
		FilterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "city_dashboard",
			Name:      "filter_duration_seconds",
			Help:      "Duration of one filter pass over the canonical dataset.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		FilterRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "city_dashboard",
			Name:      "filter_result_rows",
			Help:      "Rows remaining after a filter pass.",
			Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		LiveTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_dashboard",
			Name:      "live_ticks_total",
			Help:      "Synthetic readings appended across all simulation runs.",
		}),
		LiveRunsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "city_dashboard",
			Name:      "live_runs_active",
			Help:      "Simulation runs currently streaming.",
		}),
	}
}
