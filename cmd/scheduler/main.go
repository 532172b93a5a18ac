package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote_order_backend/internal/activity"
	"quote_order_backend/internal/events"
	"quote_order_backend/internal/quotes"
	"quote_order_backend/internal/scheduler"
	"quote_order_backend/platform/config"
	"quote_order_backend/platform/db"
	"quote_order_backend/platform/logger"
	"quote_order_backend/platform/phone"
	"quote_order_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	activity.NewModule(log).RegisterHandlers(eventBus)
	defer eventBus.Wait()

	// Worker-side quotes wiring (no HTTP handlers required).
	quotesModule := quotes.NewModule(pool, eventBus, validator.New(), phone.NewNormalizer(cfg.GetPhoneDefaultRegion()))

	cron, err := scheduler.NewCron(cfg, log)
	if err != nil {
		log.Error("failed to initialize scheduler cron", "error", err)
		panic("failed to initialize scheduler cron: " + err.Error())
	}
	go cron.Run(ctx)

	// Catch up on anything that lapsed while the scheduler was down.
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	if err := client.EnqueueExpireOverdueQuotes(ctx); err != nil {
		log.Warn("failed to enqueue startup expiry sweep", "error", err)
	}
	_ = client.Close()

	worker, err := scheduler.NewWorker(cfg, quotesModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
