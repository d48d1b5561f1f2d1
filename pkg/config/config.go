package config

import "time"

// Config is the root configuration for the vega binary.
type Config struct {
	// Server configures the decision HTTP API.
	Server ServerConfig `yaml:"server"`

	// Logging configures the process logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus collector and its HTTP endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Catalog configures the variable catalog source.
	Catalog CatalogConfig `yaml:"catalog"`

	// Rules configures the gate rules source.
	Rules RulesConfig `yaml:"rules"`

	// Store configures the persisted conditions repository.
	Store StoreConfig `yaml:"store"`

	// Audit configures the evaluation audit trail.
	Audit AuditConfig `yaml:"audit"`
}

// ServerConfig configures the decision HTTP API.
type ServerConfig struct {
	// ListenAddress is the API listen address (host:port).
	ListenAddress string `yaml:"listen_address"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures metric collection and exposition.
type MetricsConfig struct {
	// Enabled turns metric recording on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace.
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	Subsystem string `yaml:"subsystem"`

	// ListenAddress is the metrics HTTP listen address (host:port).
	ListenAddress string `yaml:"listen_address"`

	// Path is the metrics endpoint path.
	Path string `yaml:"path"`
}

// CatalogConfig configures the variable catalog source.
type CatalogConfig struct {
	// Path is the catalog YAML file.
	Path string `yaml:"path"`

	// Watch enables hot-reload of the catalog file.
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period before a reload fires.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// RulesConfig configures the gate rules source.
type RulesConfig struct {
	// Path is the rules YAML file.
	Path string `yaml:"path"`
}

// StoreConfig configures the persisted conditions repository.
type StoreConfig struct {
	// Backend selects the repository implementation ("sqlite", "memory").
	Backend string `yaml:"backend"`

	// Path is the SQLite database file for the sqlite backend.
	Path string `yaml:"path"`
}

// AuditConfig configures the evaluation audit trail.
type AuditConfig struct {
	// Enabled turns audit recording on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file for audit records.
	Path string `yaml:"path"`

	// Retention configures pruning of old audit records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig configures audit record pruning.
type RetentionConfig struct {
	// Days is how long audit records are kept.
	Days int `yaml:"days"`

	// Schedule is the cron expression for the pruning job.
	Schedule string `yaml:"schedule"`
}
