// Package metrics provides Prometheus instrumentation for the condition
// engine.
//
// # Core Types
//
//   - Collector: owns the registry and every metric the process exposes
//   - EngineMetrics: evaluation and decision counters and histograms
//   - ParseMetrics: compilation and catalog reload activity
//
// # Usage
//
//	collector := metrics.NewCollector(metrics.Config{Enabled: true}, nil)
//	collector.RecordEvaluation("premium-route", "match", elapsed)
//	http.Handle("/metrics", collector.Handler())
//
// When Config.Enabled is false every Record method is a no-op, so callers
// can hold a collector unconditionally.
package metrics
