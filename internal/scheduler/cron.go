package scheduler

import (
	"context"
	"fmt"
	"time"

	"quote_order_backend/platform/config"
	"quote_order_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// A sweep enqueued while another is still pending is dropped.
const expirySweepUniqueness = 10 * time.Minute

// Cron registers the periodic tasks and enqueues them on schedule.
type Cron struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewCron(cfg config.SchedulerConfig, log *logger.Logger) (*Cron, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})

	task, err := NewExpireOverdueQuotesTask(ExpireOverdueQuotesPayload{Trigger: TriggerCron})
	if err != nil {
		return nil, err
	}

	spec := cfg.GetQuoteExpiryCron()
	entryID, err := scheduler.Register(spec, task, asynq.Queue(queueName(cfg)), asynq.Unique(expirySweepUniqueness))
	if err != nil {
		return nil, fmt.Errorf("register quote expiry cron %q: %w", spec, err)
	}
	log.Info("registered periodic task", "task", TaskExpireOverdueQuotes, "spec", spec, "entry", entryID)

	return &Cron{scheduler: scheduler, log: log}, nil
}

func (c *Cron) Run(ctx context.Context) {
	if c == nil || c.scheduler == nil {
		return
	}

	if err := c.scheduler.Start(); err != nil {
		c.log.Error("scheduler cron stopped", "error", err)
		return
	}

	<-ctx.Done()
	c.scheduler.Shutdown()
}
