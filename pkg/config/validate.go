package config

import "fmt"

// Validate checks a configuration for consistency. It is called after
// defaults and environment overrides, so zero values that have defaults are
// never seen here.
func Validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format: unknown format %q", cfg.Logging.Format)
	}

	switch cfg.Store.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("store.backend: unknown backend %q (must be sqlite or memory)", cfg.Store.Backend)
	}
	if cfg.Store.Backend == "sqlite" && cfg.Store.Path == "" {
		return fmt.Errorf("store.path: required for the sqlite backend")
	}

	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		return fmt.Errorf("audit.path: required when audit is enabled")
	}
	if cfg.Audit.Retention.Days < 0 {
		return fmt.Errorf("audit.retention.days: must not be negative, got %d", cfg.Audit.Retention.Days)
	}

	if cfg.Catalog.Watch && cfg.Catalog.Path == "" {
		return fmt.Errorf("catalog.path: required when catalog.watch is enabled")
	}

	return nil
}
