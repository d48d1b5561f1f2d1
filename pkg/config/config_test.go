package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vega.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "catalog:\n  path: catalog.yaml\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.Server.ListenAddress != DefaultServerListenAddress || cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.Metrics.ListenAddress != DefaultMetricsListenAddress || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("metrics defaults = %+v", cfg.Metrics)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != DefaultStorePath {
		t.Errorf("store defaults = %+v", cfg.Store)
	}
	if cfg.Audit.Retention.Days != DefaultRetentionDays || cfg.Audit.Retention.Schedule != DefaultRetentionSchedule {
		t.Errorf("retention defaults = %+v", cfg.Audit.Retention)
	}
	if cfg.Catalog.DebounceInterval != DefaultDebounceInterval {
		t.Errorf("debounce default = %v", cfg.Catalog.DebounceInterval)
	}
	if cfg.Catalog.Path != "catalog.yaml" {
		t.Errorf("catalog path = %q", cfg.Catalog.Path)
	}
}

func TestLoad_Explicit(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:8080"
  shutdown_timeout: 5s
logging:
  level: debug
  format: text
metrics:
  enabled: true
  listen_address: "0.0.0.0:9999"
catalog:
  path: /etc/vega/catalog.yaml
  watch: true
  debounce_interval: 250ms
rules:
  path: /etc/vega/rules.yaml
store:
  backend: memory
audit:
  enabled: true
  path: /var/lib/vega/audit.db
  retention:
    days: 7
    schedule: "0 4 * * *"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:8080" || cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
	if !cfg.Catalog.Watch || cfg.Catalog.DebounceInterval != 250*time.Millisecond {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Audit.Retention.Days != 7 || cfg.Audit.Retention.Schedule != "0 4 * * *" {
		t.Errorf("retention = %+v", cfg.Audit.Retention)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{name: "bad level", yaml: "logging:\n  level: loud\n", contains: "logging.level"},
		{name: "bad format", yaml: "logging:\n  format: csv\n", contains: "logging.format"},
		{name: "bad backend", yaml: "store:\n  backend: postgres\n", contains: "store.backend"},
		{name: "watch without path", yaml: "catalog:\n  watch: true\n", contains: "catalog.path"},
		{name: "negative retention", yaml: "audit:\n  retention:\n    days: -1\n", contains: "retention.days"},
		{name: "malformed yaml", yaml: "logging: [", contains: "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %q, want substring %q", err, tt.contains)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load on missing file succeeded, want error")
	}
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\ncatalog:\n  path: from-file.yaml\n")

	t.Setenv("VEGA_LOGGING_LEVEL", "debug")
	t.Setenv("VEGA_CATALOG_PATH", "from-env.yaml")
	t.Setenv("VEGA_METRICS_ENABLED", "true")
	t.Setenv("VEGA_AUDIT_RETENTION_DAYS", "14")
	t.Setenv("VEGA_CATALOG_DEBOUNCE_INTERVAL", "1s")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want env override", cfg.Logging.Level)
	}
	if cfg.Catalog.Path != "from-env.yaml" {
		t.Errorf("catalog path = %q, want env override", cfg.Catalog.Path)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics not enabled by env")
	}
	if cfg.Audit.Retention.Days != 14 {
		t.Errorf("retention days = %d, want 14", cfg.Audit.Retention.Days)
	}
	if cfg.Catalog.DebounceInterval != time.Second {
		t.Errorf("debounce = %v, want 1s", cfg.Catalog.DebounceInterval)
	}
}

func TestLoadWithEnv_InvalidAfterOverride(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("VEGA_LOGGING_LEVEL", "loud")
	if _, err := LoadWithEnv(path); err == nil {
		t.Error("LoadWithEnv succeeded with invalid override, want error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}
