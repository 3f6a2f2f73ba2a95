package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/projectpulse/backend/internal/infrastructure/activity"
)

// SweeperConfig controls journal retention.
type SweeperConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// ActivitySweeper periodically removes journal entries older than the
// retention window.
type ActivitySweeper struct {
	journal *activity.Journal
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     SweeperConfig
}

func NewActivitySweeper(journal *activity.Journal, logger *zap.Logger, cfg SweeperConfig) *ActivitySweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ActivitySweeper{
		journal: journal,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = s.cron.AddFunc(schedule, s.sweep)

	return s
}

// Start launches the cron scheduler.
func (s *ActivitySweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("activity sweeper started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("retention", s.cfg.Retention))
}

// Stop gracefully stops the scheduler.
func (s *ActivitySweeper) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("activity sweeper stopped")
}

func (s *ActivitySweeper) sweep() {
	if s.journal == nil {
		return
	}
	cutoff := time.Now().Add(-s.cfg.Retention)
	if err := s.journal.Cleanup(cutoff); err != nil {
		s.logger.Error("activity sweep failed", zap.Error(err))
	}
}
