package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote_order_backend/internal/activity"
	"quote_order_backend/internal/adapters"
	"quote_order_backend/internal/dashboard"
	"quote_order_backend/internal/events"
	apphttp "quote_order_backend/internal/http"
	"quote_order_backend/internal/http/router"
	"quote_order_backend/internal/orders"
	"quote_order_backend/internal/orders/ports"
	"quote_order_backend/internal/quotes"
	"quote_order_backend/internal/scheduler"
	"quote_order_backend/migrations"
	"quote_order_backend/platform/config"
	"quote_order_backend/platform/db"
	"quote_order_backend/platform/lock"
	"quote_order_backend/platform/logger"
	"quote_order_backend/platform/phone"
	"quote_order_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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

	if cfg.MigrationsEnabled {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, pool, migrations.FS, log)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	eventBus := events.NewInMemoryBus(log)
	activity.NewModule(log).RegisterHandlers(eventBus)

	conversionLocker, closeRedis := initConversionLocker(ctx, cfg, log)
	if closeRedis != nil {
		defer closeRedis()
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	val := validator.New()
	phoneNormalizer := phone.NewNormalizer(cfg.GetPhoneDefaultRegion())

	quotesModule := quotes.NewModule(pool, eventBus, val, phoneNormalizer)
	quoteReader := adapters.NewQuotesReader(quotesModule.Service())
	ordersModule := orders.NewModule(pool, quoteReader, conversionLocker, eventBus, val)
	dashboardModule := dashboard.NewModule(quotesModule.Service(), ordersModule.Service())

	// Without Redis there is no asynq worker, so quotes expire in-process.
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; running quote expiry sweep in-process")
		sweeper := scheduler.NewSweeper(quotesModule.Service(), log, scheduler.IntervalFromSpec(cfg.GetQuoteExpiryCron()))
		go sweeper.Run(ctx)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			quotesModule,
			ordersModule,
			dashboardModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initConversionLocker returns nil when Redis is not configured or unreachable;
// conversions then rely on the database row lock alone.
func initConversionLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.ConversionLocker, func()) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	var client *redis.Client
	if err := withRetry(ctx, log, "redis connection", 3, time.Second, func() error {
		c, err := lock.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	}); err != nil {
		log.Error("failed to connect to redis; conversion lock disabled", "error", err)
		return nil, nil
	}

	return lock.New(client, "quote-order", cfg.GetConversionLockTTL()), func() {
		_ = client.Close()
	}
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
