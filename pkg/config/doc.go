// Package config defines the vega configuration model and its YAML loader.
//
// # Core Types
//
//   - Config: root configuration (logging, metrics, catalog, rules, store, audit)
//   - CatalogConfig, RulesConfig: where conditions and their variables come from
//   - StoreConfig, AuditConfig: persistence settings
//
// # Usage
//
//	cfg, err := config.LoadWithEnv("vega.yaml")
//	if err != nil {
//		return err
//	}
//
// Loading applies defaults, then VEGA_-prefixed environment overrides, then
// validates. Environment variables always win over the file.
package config
