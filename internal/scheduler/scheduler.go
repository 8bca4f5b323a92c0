// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic background jobs, currently cache prewarm.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/cache"
)

const prewarmTimeout = 30 * time.Second

// Scheduler handles scheduled background jobs.
type Scheduler struct {
	cron       *cron.Cron
	tips       *cache.TipCache
	categories *cache.CategoryCache
	logger     *slog.Logger
}

// New creates a new scheduler instance.
func New(tips *cache.TipCache, categories *cache.CategoryCache, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		tips:       tips,
		categories: categories,
		logger:     logger,
	}
}

// Start begins the scheduler with a cache prewarm job every five minutes,
// aligned with the list cache TTL so the home page never serves a cold
// cache to a visitor.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 5m", s.prewarm)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Prewarm fetches the home page lists into the cache. Failures are already
// absorbed by the caches (they keep serving the previous entry until its
// TTL), so there is nothing to retry here.
func (s *Scheduler) Prewarm() {
	ctx, cancel := context.WithTimeout(context.Background(), prewarmTimeout)
	defer cancel()

	start := time.Now()
	latest := s.tips.Latest(ctx, 1, cache.HomeLatestPageSize)
	popular := s.tips.Popular(ctx, 1, cache.HomePopularPageSize)
	categories := s.categories.List(ctx, api.ListParams{PageNumber: 1, PageSize: cache.HomeCategoryPageSize})

	s.logger.Debug("cache prewarm complete",
		"latest", len(latest.Items),
		"popular", len(popular.Items),
		"categories", len(categories.Items),
		"duration", time.Since(start),
	)
}

func (s *Scheduler) prewarm() {
	s.Prewarm()
}
