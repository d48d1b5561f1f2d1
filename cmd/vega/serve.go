package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/cli"
	"craftwell-hq/vega/pkg/config"
	"craftwell-hq/vega/pkg/gate"
	"craftwell-hq/vega/pkg/gate/audit"
	"craftwell-hq/vega/pkg/gate/store"
	"craftwell-hq/vega/pkg/server"
	"craftwell-hq/vega/pkg/telemetry/logging"
	"craftwell-hq/vega/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the decision API server",
	Long: `Start the decision API server with the specified configuration.

The server loads the variable catalog and routing rules, then exposes
decision, validation, rendering, and condition management endpoints.
Metrics are exposed on a separate listener when enabled.

Examples:
  # Start with default config
  vega serve

  # Start with custom config
  vega serve --config /etc/vega/config.yaml

  # Override listen address
  vega serve --listen 0.0.0.0:8080

  # Validate config without starting the server
  vega serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Logging.Level = serveFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		return cli.NewConfigError("logging", err.Error())
	}

	if serveFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Vega v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)

	// Variable catalog
	var cat *catalog.Catalog
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		fmt.Printf("✓ Catalog loaded (%d variables)\n", cat.Len())
	} else {
		slog.Warn("no catalog configured, every expression variable will be rejected")
		cat = catalog.Empty()
	}

	// Metrics collector
	collector := metrics.NewCollector(metrics.Config{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
		Subsystem: cfg.Metrics.Subsystem,
	}, nil)
	collector.RecordCatalogReload(cat.Len())

	// Routing rules
	var routes []gate.Route
	if cfg.Rules.Path != "" {
		routes, err = gate.LoadRules(cfg.Rules.Path, cat)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}
		fmt.Printf("✓ Rules loaded (%d routes)\n", len(routes))
	} else {
		slog.Warn("no rules configured, every decision will miss")
	}

	engine, err := gate.NewEngine(gate.DefaultConfig(), routes, logger, collector)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Condition store
	var conditionStore store.Store
	switch cfg.Store.Backend {
	case "sqlite":
		conditionStore, err = store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open condition store: %w", err)
		}
	case "memory":
		conditionStore = store.NewMemoryStore()
	default:
		return fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
	defer conditionStore.Close()
	fmt.Println("✓ Condition store initialized")

	// Audit trail
	if cfg.Audit.Enabled {
		auditStore, err := audit.NewStore(cfg.Audit.Path, logger)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer auditStore.Close()
		engine.SetRecorder(auditStore)

		if cfg.Audit.Retention.Schedule != "" {
			pruner := audit.NewPruner(auditStore, audit.RetentionConfig{
				Days:     cfg.Audit.Retention.Days,
				Schedule: cfg.Audit.Retention.Schedule,
			})
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start audit retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextRun(); next != nil {
					slog.Debug("audit retention scheduler started", "next_run", next)
				}
			}
		}
		fmt.Println("✓ Audit trail initialized")
	}

	srv := server.NewServer(&cfg.Server, engine, cat, conditionStore, collector, logger)

	// Catalog hot reload
	if cfg.Catalog.Watch {
		go watchCatalog(ctx, cfg, srv, engine, collector, logger)
		fmt.Println("✓ Catalog hot reload enabled")
	}

	// Metrics endpoint on its own listener
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, collector.Handler())
		metricsServer := &http.Server{Addr: cfg.Metrics.ListenAddress, Handler: metricsMux}
		go func() {
			slog.Info("starting metrics endpoint", "address", cfg.Metrics.ListenAddress, "path", cfg.Metrics.Path)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer metricsServer.Shutdown(context.Background())
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Metrics.ListenAddress, cfg.Metrics.Path)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("serve", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("serve", err)
		}

		fmt.Println("✓ Server stopped")
		return nil
	}
}

// watchCatalog reloads the catalog on file changes and recompiles the rules
// against it, swapping both into the running server and engine.
func watchCatalog(ctx context.Context, cfg *config.Config, srv *server.Server, engine *gate.Engine, collector *metrics.Collector, logger *slog.Logger) {
	watcher, err := catalog.NewWatcher(catalog.WatcherConfig{
		Path:             cfg.Catalog.Path,
		DebounceInterval: cfg.Catalog.DebounceInterval,
	}, logger)
	if err != nil {
		logger.Error("failed to create catalog watcher", "error", err)
		return
	}

	err = watcher.Watch(ctx, func(cat *catalog.Catalog) {
		collector.RecordCatalogReload(cat.Len())
		srv.SetCatalog(cat)

		if cfg.Rules.Path == "" {
			return
		}
		routes, err := gate.LoadRules(cfg.Rules.Path, cat)
		if err != nil {
			logger.Error("rules no longer compile against reloaded catalog, keeping previous routes", "error", err)
			return
		}
		engine.ReloadRoutes(routes)
	})
	if err != nil {
		logger.Error("catalog watcher stopped", "error", err)
	}
}
