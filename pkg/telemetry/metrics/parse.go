package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseMetrics tracks condition compilation and catalog activity.
//
// Metrics:
//   - craftwell_vega_parses_total: Parse calls by outcome
//   - craftwell_vega_parse_duration_seconds: Parse duration
//   - craftwell_vega_catalog_reloads_total: catalog hot-reloads
//   - craftwell_vega_catalog_variables: variables in the active catalog
type ParseMetrics struct {
	parsesTotal    *prometheus.CounterVec
	parseDuration  prometheus.Histogram
	catalogReloads prometheus.Counter
	catalogSize    prometheus.Gauge
}

// NewParseMetrics creates and registers parse metrics with the registry.
func NewParseMetrics(cfg Config, registry *prometheus.Registry) *ParseMetrics {
	pm := &ParseMetrics{
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parses_total",
				Help:      "Total number of condition parses",
			},
			[]string{"outcome"},
		),

		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_duration_seconds",
				Help:      "Duration of condition parsing in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),

		catalogReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_reloads_total",
				Help:      "Total number of catalog hot-reloads",
			},
		),

		catalogSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_variables",
				Help:      "Number of variables in the active catalog",
			},
		),
	}

	registry.MustRegister(
		pm.parsesTotal,
		pm.parseDuration,
		pm.catalogReloads,
		pm.catalogSize,
	)

	return pm
}

// RecordParse records one Parse call. Outcome is "ok" or "error".
func (pm *ParseMetrics) RecordParse(outcome string, duration time.Duration) {
	pm.parsesTotal.WithLabelValues(outcome).Inc()
	pm.parseDuration.Observe(duration.Seconds())
}

// RecordCatalogReload records a catalog reload and its new size.
func (pm *ParseMetrics) RecordCatalogReload(variables int) {
	pm.catalogReloads.Inc()
	pm.catalogSize.Set(float64(variables))
}
