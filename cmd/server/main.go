package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/cajaledger/internal/adapter/http"
	"github.com/iho/cajaledger/internal/adapter/http/handler"
	"github.com/iho/cajaledger/internal/adapter/http/middleware"
	"github.com/iho/cajaledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/cajaledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cajaledger/internal/adapter/repository/redis"
	"github.com/iho/cajaledger/internal/infrastructure/auth"
	"github.com/iho/cajaledger/internal/infrastructure/config"
	"github.com/iho/cajaledger/internal/infrastructure/eventpublisher"
	applog "github.com/iho/cajaledger/internal/infrastructure/logger"
	"github.com/iho/cajaledger/internal/infrastructure/metrics"
	"github.com/iho/cajaledger/internal/infrastructure/postgres"
	"github.com/iho/cajaledger/internal/infrastructure/recalcworker"
	"github.com/iho/cajaledger/internal/infrastructure/redis"
	"github.com/iho/cajaledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := applog.New(applog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Timezone: cfg.Timezone})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger, metrics.New()); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}

	appLogger.Info().Msg("server stopped")
}

// run serves until ctx is cancelled, then drains the HTTP server and the
// background workers.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	infra, err := setupInfrastructure(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer infra.Close()

	services := usecase.NewServices(infra.repos, usecase.ServiceOptions{
		IDGen:    postgresRepo.NewULIDGenerator(),
		Cache:    infra.cache,
		Queue:    infra.queue,
		Retrier:  infra.retrier,
		Location: loc,
		Logger:   logger,
		Metrics:  m,
	})

	routerCfg := httpAdapter.NewRouterConfig(services, handler.NewHealthHandler(infra.checks))
	routerCfg.Logger = logger
	routerCfg.Metrics = m
	routerCfg.IdempotencyStore = infra.idempotency
	routerCfg.IdempotencyTTL = cfg.IdempotencyTTL
	routerCfg.RateLimiter = newRateLimiter(cfg, m)
	if cfg.JWTSecret != "" {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTokenDuration)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: infra.repos.Outbox,
			Publisher:  infra.publisher,
			Logger:     applog.Component(logger, "eventpublisher"),
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
		g.Go(func() error { return ignoreCancel(publisher.Start(gctx)) })
	}

	worker := recalcworker.New(recalcworker.Config{
		Processor: services.Reconciliation,
		Backlog:   infra.queue,
		Metrics:   m,
		Logger:    applog.Component(logger, "recalcworker"),
		BatchSize: cfg.RecalcBatchSize,
		Interval:  cfg.RecalcInterval,
	})
	g.Go(func() error { return ignoreCancel(worker.Start(gctx)) })

	if routerCfg.RateLimiter != nil {
		g.Go(func() error {
			sweep(gctx, time.Minute, func() { routerCfg.RateLimiter.CleanupLimiters(10 * time.Minute) })
			return nil
		})
	}

	if infra.poolStats != nil {
		g.Go(func() error {
			sweep(gctx, 15*time.Second, func() { m.DBConnections.Set(float64(infra.poolStats())) })
			return nil
		})
	}

	return g.Wait()
}

// recalcBacklog is the queue surface shared by the memory and redis queues.
type recalcBacklog interface {
	usecase.RecalcQueue
	recalcworker.Backlog
}

type infrastructure struct {
	repos       usecase.Repositories
	cache       usecase.Cache
	queue       recalcBacklog
	retrier     usecase.Retrier
	idempotency usecase.IdempotencyStore
	publisher   eventpublisher.Publisher
	checks      map[string]handler.Pinger
	poolStats   func() int32
	closers     []func()
}

// Close releases connections in reverse order of acquisition.
func (i *infrastructure) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		i.closers[n]()
	}
}

// setupInfrastructure connects the storage driver and the optional Redis
// services. Without Redis the process runs without cache and idempotency
// and keeps its recalculation queue in memory.
func setupInfrastructure(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*infrastructure, error) {
	infra := &infrastructure{
		checks:    make(map[string]handler.Pinger),
		publisher: eventpublisher.NewLogPublisher(logger),
	}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		infra.repos = memory.NewRepositories(memory.NewStore())
		logger.Warn().Msg("using in-memory storage; data is lost on restart")

	case config.StoragePostgres:
		if cfg.AutoMigrate {
			migrator := postgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL, logger)
			if err := migrator.Up(); err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		infra.closers = append(infra.closers, pool.Close)
		logger.Info().Msg("connected to postgres")

		infra.repos = postgresRepo.NewRepositories(pool)
		infra.retrier = postgresRepo.NewRetrier(applog.Component(logger, "retrier"), postgresRepo.RetryPolicy{
			MaxRetries:      cfg.DBRetryMax,
			InitialInterval: cfg.DBRetryInitial,
			MaxElapsedTime:  cfg.DBRetryMaxWait,
		}).WithMetrics(m)
		infra.checks["postgres"] = handler.PingFunc(pool.Ping)
		infra.poolStats = func() int32 { return pool.Stat().TotalConns() }
	}

	if !cfg.OutboxEnabled {
		infra.repos.Outbox = postgresRepo.NewNullOutboxRepository()
	}

	if cfg.RedisURL == "" {
		infra.queue = memory.NewRecalcQueue()
		return infra, nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL, m)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	infra.closers = append(infra.closers, func() { _ = client.Close() })
	logger.Info().Msg("connected to redis")

	infra.cache = redisRepo.NewCache(client)
	infra.queue = redisRepo.NewRecalcQueue(client, logger)
	infra.idempotency = redisRepo.NewIdempotencyStore(client)
	infra.checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	if cfg.EventStream != "" {
		infra.publisher = redisRepo.NewStreamPublisher(client, cfg.EventStream, cfg.EventStreamLimit)
	}

	return infra, nil
}

func newRateLimiter(cfg *config.Config, m *metrics.Metrics) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}

	return middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
}

func sweep(ctx context.Context, every time.Duration, fn func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
