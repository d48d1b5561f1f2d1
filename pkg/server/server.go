// Package server provides the HTTP API for condition validation and
// routing decisions.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/config"
	"craftwell-hq/vega/pkg/gate"
	"craftwell-hq/vega/pkg/gate/store"
	"craftwell-hq/vega/pkg/telemetry/metrics"
)

// Server is the HTTP API server. It exposes the gate engine's decisions
// and the condition validation pipeline over JSON endpoints.
type Server struct {
	config       *config.ServerConfig
	engine       *gate.Engine
	store        store.Store
	metrics      *metrics.Collector
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once

	mu        sync.RWMutex
	isRunning bool
	catalog   *catalog.Catalog
}

// NewServer creates a new API server. The condition store may be nil, in
// which case the /v1/conditions endpoints report the store as unavailable.
// A nil collector disables metric recording.
func NewServer(cfg *config.ServerConfig, engine *gate.Engine, cat *catalog.Catalog, st store.Store, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector(metrics.Config{Enabled: false}, nil)
	}
	return &Server{
		config:       cfg,
		engine:       engine,
		store:        st,
		metrics:      collector,
		logger:       logger.With("component", "server"),
		catalog:      cat,
		shutdownChan: make(chan struct{}),
	}
}

// SetCatalog swaps the catalog used for validation. Safe to call while the
// server is running; in-flight requests keep the catalog they started with.
func (s *Server) SetCatalog(cat *catalog.Catalog) {
	s.mu.Lock()
	s.catalog = cat
	s.mu.Unlock()
}

// Catalog returns the catalog currently used for validation.
func (s *Server) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:    s.config.ListenAddress,
		Handler: s.setupRoutes(),
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("API server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/decide", s.handleDecide)
	mux.HandleFunc("/v1/validate", s.handleValidate)
	mux.HandleFunc("/v1/render", s.handleRender)
	mux.HandleFunc("/v1/conditions", s.handleConditions)
	mux.HandleFunc("/v1/conditions/", s.handleConditionByID)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}
