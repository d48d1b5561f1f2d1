package config

import "time"

const (
	// DefaultServerListenAddress is where the decision API listens.
	DefaultServerListenAddress = "127.0.0.1:8088"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultMetricsListenAddress is where the metrics endpoint listens.
	DefaultMetricsListenAddress = "127.0.0.1:9464"

	// DefaultMetricsPath is the metrics endpoint path.
	DefaultMetricsPath = "/metrics"

	// DefaultStorePath is the conditions database file.
	DefaultStorePath = "vega.db"

	// DefaultAuditPath is the audit database file.
	DefaultAuditPath = "vega-audit.db"

	// DefaultRetentionDays is how long audit records are kept.
	DefaultRetentionDays = 30

	// DefaultRetentionSchedule runs the pruning job daily at 03:00.
	DefaultRetentionSchedule = "0 3 * * *"

	// DefaultDebounceInterval is the catalog reload quiet period.
	DefaultDebounceInterval = 100 * time.Millisecond
)

// ApplyDefaults fills in zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultServerListenAddress
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "craftwell"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "vega"
	}
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Catalog.DebounceInterval <= 0 {
		cfg.Catalog.DebounceInterval = DefaultDebounceInterval
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}

	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = DefaultRetentionDays
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = DefaultRetentionSchedule
	}
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
