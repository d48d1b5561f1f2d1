package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig configures the pruner.
type RetentionConfig struct {
	// Days is how long records are kept. 0 keeps records forever.
	Days int

	// Schedule is a cron expression for the pruning job, e.g. "0 3 * * *"
	// for daily at 3 AM. Empty disables scheduling; Prune can still be
	// called directly.
	Schedule string
}

// Pruner enforces the retention policy on the audit trail.
type Pruner struct {
	store  *Store
	config RetentionConfig
	logger *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewPruner creates a retention pruner for an audit store.
func NewPruner(store *Store, cfg RetentionConfig) *Pruner {
	return &Pruner{
		store:  store,
		config: cfg,
		cron:   cron.New(),
		logger: slog.Default().With("component", "gate.audit.retention"),
	}
}

// Prune deletes records older than the retention period and returns how
// many were deleted. A zero retention period prunes nothing.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.Days <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.Days)
	deleted, err := p.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("retention prune failed: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("audit records pruned",
			"deleted_count", deleted,
			"retention_days", p.config.Days,
		)
	} else {
		p.logger.Debug("no audit records pruned", "retention_days", p.config.Days)
	}
	return deleted, nil
}

// Start schedules pruning per the configured cron expression. It returns
// immediately; the job stops when the context is cancelled or Stop is
// called.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.Schedule == "" {
		p.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(p.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.config.Schedule, err)
	}

	_, err := p.cron.AddFunc(p.config.Schedule, func() {
		if _, err := p.Prune(ctx); err != nil {
			p.logger.Error("scheduled pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true
	p.logger.Info("retention scheduler started",
		"schedule", p.config.Schedule,
		"retention_days", p.config.Days,
	)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		<-p.cron.Stop().Done()
		p.running = false
		p.logger.Info("retention scheduler stopped")
	}
}

// NextRun returns the next scheduled pruning time, or nil when the
// scheduler is idle.
func (p *Pruner) NextRun() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
