package scheduler

import (
	"context"
	"strings"
	"time"

	"quote_order_backend/platform/logger"
)

const defaultSweepInterval = time.Hour

// Sweeper runs the quote expiry sweep in-process on a fixed interval. It is
// the fallback when no Redis is configured for the asynq worker.
type Sweeper struct {
	expirer  QuoteExpirer
	log      *logger.Logger
	interval time.Duration
}

func NewSweeper(expirer QuoteExpirer, log *logger.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{expirer: expirer, log: log, interval: interval}
}

// IntervalFromSpec turns an "@every <duration>" cron spec into a duration.
// Any other spec falls back to hourly.
func IntervalFromSpec(spec string) time.Duration {
	rest, ok := strings.CutPrefix(strings.TrimSpace(spec), "@every ")
	if !ok {
		return defaultSweepInterval
	}
	d, err := time.ParseDuration(strings.TrimSpace(rest))
	if err != nil || d <= 0 {
		return defaultSweepInterval
	}
	return d
}

func (s *Sweeper) Run(ctx context.Context) {
	if s == nil || s.expirer == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	result, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		s.log.Warn("quote expiry sweep failed", "error", err)
		return
	}

	if result.Expired > 0 {
		s.log.Info("quote expiry sweep expired quotes", "expired", result.Expired)
	}
}
