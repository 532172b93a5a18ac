package scheduler

import (
	"context"
	"fmt"

	"quote_order_backend/internal/quotes/transport"
	"quote_order_backend/platform/config"
	"quote_order_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// QuoteExpirer runs one expiry sweep over all owners.
type QuoteExpirer interface {
	ExpireOverdue(ctx context.Context) (*transport.ExpirySweepResult, error)
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	expirer QuoteExpirer
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, expirer QuoteExpirer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	return newWorker(server, expirer, log), nil
}

func newWorker(server *asynq.Server, expirer QuoteExpirer, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		expirer: expirer,
		log:     log,
	}

	mux.HandleFunc(TaskExpireOverdueQuotes, w.handleExpireOverdueQuotes)

	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleExpireOverdueQuotes(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseExpireOverdueQuotesPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	result, err := w.expirer.ExpireOverdue(ctx)
	if err != nil {
		return err
	}

	w.log.Info("quote expiry sweep finished", "trigger", payload.Trigger, "expired", result.Expired)
	return nil
}
