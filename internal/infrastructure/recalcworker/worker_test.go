package recalcworker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/cajaledger/internal/infrastructure/metrics"
)

type stubProcessor struct {
	calls atomic.Int32
	limit atomic.Int32
	done  int
	err   error
}

func (s *stubProcessor) ProcessPending(ctx context.Context, limit int) (int, error) {
	s.calls.Add(1)
	s.limit.Store(int32(limit))
	return s.done, s.err
}

func TestRunOncePassesBatchSize(t *testing.T) {
	p := &stubProcessor{done: 3}
	w := New(Config{Processor: p, Logger: zerolog.Nop(), BatchSize: 7})

	if got := w.RunOnce(context.Background()); got != 3 {
		t.Fatalf("expected 3 done, got %d", got)
	}
	if p.limit.Load() != 7 {
		t.Fatalf("expected batch size 7, got %d", p.limit.Load())
	}
}

func TestRunOnceSurvivesErrors(t *testing.T) {
	p := &stubProcessor{done: 1, err: errors.New("redis down")}
	w := New(Config{Processor: p, Logger: zerolog.Nop()})

	if got := w.RunOnce(context.Background()); got != 1 {
		t.Fatalf("expected partial progress to be reported, got %d", got)
	}
}

func TestStartTicksUntilCancelled(t *testing.T) {
	p := &stubProcessor{}
	w := New(Config{Processor: p, Logger: zerolog.Nop(), Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	if p.calls.Load() == 0 {
		t.Fatalf("expected at least one tick")
	}
}

type stubBacklog int64

func (b stubBacklog) Len(ctx context.Context) (int64, error) { return int64(b), nil }

func TestRunOnceReportsBacklog(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	w := New(Config{Processor: &stubProcessor{}, Backlog: stubBacklog(4), Metrics: m, Logger: zerolog.Nop()})

	w.RunOnce(context.Background())

	if got := testutil.ToFloat64(m.RecalcPending); got != 4 {
		t.Fatalf("expected pending gauge 4, got %v", got)
	}
}
