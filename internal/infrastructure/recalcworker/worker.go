// Package recalcworker retries cached balance refreshes that failed after
// their transaction committed.
package recalcworker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cajaledger/internal/infrastructure/metrics"
)

// Processor drains queued recalculations.
type Processor interface {
	ProcessPending(ctx context.Context, limit int) (int, error)
}

// Backlog reports how many recalculations are still queued.
type Backlog interface {
	Len(ctx context.Context) (int64, error)
}

// Worker polls a Processor on a fixed interval.
type Worker struct {
	processor Processor
	backlog   Backlog
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	batchSize int
	interval  time.Duration
}

// Config for Worker. Backlog and Metrics are optional; together they feed
// the pending recalculations gauge.
type Config struct {
	Processor Processor
	Backlog   Backlog
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	BatchSize int
	Interval  time.Duration
}

// New creates a new Worker.
func New(cfg Config) *Worker {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}

	return &Worker{
		processor: cfg.Processor,
		backlog:   cfg.Backlog,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("component", "recalc_worker").Logger(),
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
	}
}

// Start runs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Int("batch_size", w.batchSize).
		Dur("interval", w.interval).
		Msg("recalculation worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("recalculation worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce drains one batch and logs the outcome.
func (w *Worker) RunOnce(ctx context.Context) int {
	done, err := w.processor.ProcessPending(ctx, w.batchSize)
	w.observeBacklog(ctx)
	if err != nil {
		w.logger.Error().Err(err).Int("done", done).Msg("error processing pending recalculations")
		return done
	}

	if done > 0 {
		w.logger.Info().Int("done", done).Msg("pending recalculations applied")
	}

	return done
}

func (w *Worker) observeBacklog(ctx context.Context) {
	if w.backlog == nil || w.metrics == nil {
		return
	}

	n, err := w.backlog.Len(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("failed to read recalculation backlog")
		return
	}

	w.metrics.RecalcPending.Set(float64(n))
}
