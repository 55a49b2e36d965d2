// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs such as pruning the
// recent changes feed.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/ocms-pagelang/internal/store"
)

// DefaultPruneSchedule runs the recent changes prune daily at 03:00.
const DefaultPruneSchedule = "0 3 * * *"

// Config controls the scheduler's jobs.
type Config struct {
	// PruneSchedule is a standard five-field cron expression.
	PruneSchedule string
	// MaxAge is how long recent changes rows are kept. Zero disables pruning.
	MaxAge time.Duration
}

// Scheduler handles periodic maintenance jobs.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new scheduler instance.
func New(db *sql.DB, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = DefaultPruneSchedule
	}
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.MaxAge > 0 {
		_, err := s.cron.AddFunc(s.cfg.PruneSchedule, func() {
			if _, err := s.PruneRecentChanges(context.Background()); err != nil {
				s.logger.Error("failed to prune recent changes", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid prune schedule %q: %w", s.cfg.PruneSchedule, err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneRecentChanges deletes recent changes rows older than MaxAge.
// The logging table is the permanent record and is never pruned.
func (s *Scheduler) PruneRecentChanges(ctx context.Context) (int64, error) {
	if s.cfg.MaxAge <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.cfg.MaxAge)
	n, err := store.New(s.db).DeleteRecentChangesBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned recent changes", "deleted", n, "older_than", cutoff.Format(time.DateOnly))
	}
	return n, nil
}
