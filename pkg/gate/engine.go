package gate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"craftwell-hq/vega/pkg/dsl/eval"
	"craftwell-hq/vega/pkg/telemetry/metrics"
)

// Recorder receives the outcome of every evaluated condition. The audit
// package provides the persistent implementation.
type Recorder interface {
	RecordEvaluation(ctx context.Context, route string, result eval.Result)
}

// Engine walks routes in priority order and returns the first whose
// condition holds for the payload. Routes are replaced atomically by
// ReloadRoutes; a Decide in flight keeps the set it started with.
type Engine struct {
	config  Config
	logger  *slog.Logger
	metrics *metrics.Collector

	mu     sync.RWMutex
	routes []Route

	recorder Recorder
}

// NewEngine creates a gate engine. A nil collector disables metrics; a nil
// logger falls back to slog.Default.
func NewEngine(cfg Config, routes []Route, logger *slog.Logger, collector *metrics.Collector) (*Engine, error) {
	if cfg.FailMode == "" {
		cfg.FailMode = FailSkip
	}
	if cfg.FailMode != FailSkip && cfg.FailMode != FailStop {
		return nil, fmt.Errorf("unknown fail mode %q", cfg.FailMode)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector(metrics.Config{}, nil)
	}

	e := &Engine{
		config:  cfg,
		logger:  logger.With("component", "gate.engine"),
		metrics: collector,
	}
	e.ReloadRoutes(routes)
	return e, nil
}

// SetRecorder installs an audit recorder. Call before serving decisions.
func (e *Engine) SetRecorder(r Recorder) {
	e.recorder = r
}

// ReloadRoutes atomically replaces the route set, re-sorting by priority.
// Equal priorities keep their given order.
func (e *Engine) ReloadRoutes(routes []Route) {
	sorted := make([]Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	e.mu.Lock()
	e.routes = sorted
	e.mu.Unlock()

	e.logger.Info("routes reloaded", "route_count", len(sorted))
}

// Routes returns the current route set in evaluation order.
func (e *Engine) Routes() []Route {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Route, len(e.routes))
	copy(out, e.routes)
	return out
}

// Decide evaluates routes against the payload in priority order and returns
// the first match. A payload matching no route yields Matched:false, not an
// error. Condition errors follow the configured FailMode.
func (e *Engine) Decide(ctx context.Context, payload map[string]any) (*Decision, error) {
	start := time.Now()

	e.mu.RLock()
	routes := e.routes
	e.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	for _, route := range routes {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("decision timed out after %s at route %q: %w", e.config.Timeout, route.Name, ctx.Err())
		default:
		}

		evalStart := time.Now()
		result := eval.Evaluate(route.Condition, payload)
		elapsed := time.Since(evalStart)

		if e.recorder != nil {
			e.recorder.RecordEvaluation(ctx, route.Name, result)
		}

		if !result.OK {
			e.metrics.RecordEvaluation(route.Name, "error", elapsed)
			e.logger.Error("condition evaluation failed",
				"route", route.Name,
				"error", result.Error,
				"fail_mode", string(e.config.FailMode),
			)
			if e.config.FailMode == FailStop {
				e.metrics.RecordDecision("", time.Since(start))
				return nil, fmt.Errorf("route %q: %s", route.Name, result.Error)
			}
			continue
		}

		if result.Result {
			e.metrics.RecordEvaluation(route.Name, "match", elapsed)
			decision := &Decision{
				Matched:           true,
				Route:             route.Name,
				Target:            route.Target,
				ResolvedVariables: result.ResolvedVariables,
				EvaluationTime:    time.Since(start),
			}
			e.metrics.RecordDecision(route.Name, decision.EvaluationTime)
			e.logger.Debug("route matched",
				"route", route.Name,
				"target", route.Target,
				"duration_us", decision.EvaluationTime.Microseconds(),
			)
			return decision, nil
		}

		e.metrics.RecordEvaluation(route.Name, "miss", elapsed)
	}

	decision := &Decision{EvaluationTime: time.Since(start)}
	e.metrics.RecordDecision("", decision.EvaluationTime)
	return decision, nil
}
