package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create queues an event with the transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e := *event
	r.store.outbox = append(r.store.outbox, &e)
	onRollback(tx, func() {
		r.store.outbox = slices.DeleteFunc(r.store.outbox, func(x *domain.OutboxEvent) bool { return x.ID == e.ID })
	})

	return nil
}

// GetUnpublished returns the oldest unpublished events.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var events []*domain.OutboxEvent
	for _, e := range r.store.outbox {
		if !e.Published {
			out := *e
			events = append(events, &out)
		}
	}

	return page(events, limit, 0), nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.outbox {
		if e.ID == id {
			at := publishedAt
			e.Published = true
			e.PublishedAt = &at
		}
	}

	return nil
}

// DeletePublished deletes events published before the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n := len(r.store.outbox)
	r.store.outbox = slices.DeleteFunc(r.store.outbox, func(e *domain.OutboxEvent) bool {
		return e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before)
	})

	return int64(n - len(r.store.outbox)), nil
}

// RecalcQueue implements usecase.RecalcQueue for single-process deployments.
type RecalcQueue struct {
	mu      sync.Mutex
	pending []usecase.RecalcTarget
}

// NewRecalcQueue creates an empty queue.
func NewRecalcQueue() *RecalcQueue {
	return &RecalcQueue{}
}

// Enqueue adds targets that are not already pending.
func (q *RecalcQueue) Enqueue(ctx context.Context, targets ...usecase.RecalcTarget) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, t := range targets {
		if !slices.Contains(q.pending, t) {
			q.pending = append(q.pending, t)
		}
	}

	return nil
}

// Dequeue removes and returns up to limit targets.
func (q *RecalcQueue) Dequeue(ctx context.Context, limit int) ([]usecase.RecalcTarget, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := min(limit, len(q.pending))
	if limit <= 0 {
		n = len(q.pending)
	}

	out := slices.Clone(q.pending[:n])
	q.pending = q.pending[n:]

	return out, nil
}

// Len reports how many targets are pending.
func (q *RecalcQueue) Len(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return int64(len(q.pending)), nil
}
