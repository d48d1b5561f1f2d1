package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the metrics collector.
type Config struct {
	// Enabled turns metric recording on. When false every Record call is a
	// no-op, so callers never need their own guard.
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace (default "craftwell").
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem (default "vega").
	Subsystem string `yaml:"subsystem"`
}

// Collector owns every Prometheus metric the engine exposes and the registry
// they live in. Metric instances are pre-allocated at construction.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	engineMetrics *EngineMetrics
	parseMetrics  *ParseMetrics
}

// NewCollector creates a collector with the given configuration and registry.
// A nil registry gets a fresh private one.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "craftwell"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "vega"
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		engineMetrics: NewEngineMetrics(cfg, registry),
		parseMetrics:  NewParseMetrics(cfg, registry),
	}
}

// RecordEvaluation records one condition evaluation: the route it belonged
// to, its outcome ("match", "miss", "error"), and how long the walk took.
func (c *Collector) RecordEvaluation(route, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.engineMetrics.RecordEvaluation(route, outcome, duration)
}

// RecordDecision records the final outcome of a Decide call: the route that
// matched, or "" for no match.
func (c *Collector) RecordDecision(route string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.engineMetrics.RecordDecision(route, duration)
}

// RecordParse records one Parse call ("ok" or "error") and its duration.
func (c *Collector) RecordParse(outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.parseMetrics.RecordParse(outcome, duration)
}

// RecordCatalogReload records a catalog hot-reload and its new variable count.
func (c *Collector) RecordCatalogReload(variables int) {
	if !c.config.Enabled {
		return
	}
	c.parseMetrics.RecordCatalogReload(variables)
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
