// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package ratelimit

import (
	"context"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

// Target is anything Sweeper can periodically sweep.
type Target interface {
	Sweep()
}

// Sweeper evicts stale limiter state on a fixed cadence. The interval should
// usually match Config.RateWindow: sweeping more often only adds lock
// contention, and not sweeping at all degrades memory usage, never check
// correctness.
type Sweeper struct {
	log      *zap.Logger
	interval time.Duration
	targets  []Target
}

// NewSweeper constructs a Sweeper over targets, returning an error when
// interval is not positive.
func NewSweeper(log *zap.Logger, interval time.Duration, targets ...Target) (*Sweeper, error) {
	if interval <= 0 {
		return nil, Error.New("sweep interval must be positive, got %s", interval)
	}
	return &Sweeper{
		log:      log,
		interval: interval,
		targets:  targets,
	}, nil
}

// Run sweeps every target once per interval until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			for _, target := range s.targets {
				target.Sweep()
			}
			s.log.Debug("sweep finished", zap.Duration("elapsed", time.Since(start)))
		case <-ctx.Done():
			return errs.Wrap(ctx.Err())
		}
	}
}
