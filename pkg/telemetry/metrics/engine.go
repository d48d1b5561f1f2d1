package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics tracks gate engine activity.
//
// Metrics:
//   - craftwell_vega_evaluations_total: condition evaluations by route and outcome
//   - craftwell_vega_evaluation_duration_seconds: per-condition walk duration
//   - craftwell_vega_decisions_total: Decide outcomes by matched route
//   - craftwell_vega_decision_duration_seconds: full Decide duration
type EngineMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	decisionsTotal     *prometheus.CounterVec
	decisionDuration   prometheus.Histogram
}

// NewEngineMetrics creates and registers engine metrics with the registry.
func NewEngineMetrics(cfg Config, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of condition evaluations",
			},
			[]string{"route", "outcome"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a single condition evaluation in seconds",
				// Tree walks are fast; buckets span 1µs to 16ms.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
			[]string{"route"},
		),

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total number of routing decisions by matched route",
			},
			[]string{"route"},
		),

		decisionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decision_duration_seconds",
				Help:      "Duration of a full routing decision in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.evaluationDuration,
		em.decisionsTotal,
		em.decisionDuration,
	)

	return em
}

// RecordEvaluation records one condition evaluation. Outcome is "match",
// "miss", or "error".
func (em *EngineMetrics) RecordEvaluation(route, outcome string, duration time.Duration) {
	em.evaluationsTotal.WithLabelValues(route, outcome).Inc()
	em.evaluationDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordDecision records the outcome of a full Decide call. An empty route
// is recorded as "none".
func (em *EngineMetrics) RecordDecision(route string, duration time.Duration) {
	if route == "" {
		route = "none"
	}
	em.decisionsTotal.WithLabelValues(route).Inc()
	em.decisionDuration.Observe(duration.Seconds())
}
