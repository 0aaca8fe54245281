package postgres

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

var _ usecase.OutboxRepository = (*NullOutboxRepository)(nil)

// NullOutboxRepository discards ledger events. The server wires it when
// OUTBOX_ENABLED is false so transfers and closings skip the extra insert.
type NullOutboxRepository struct {
	dropped atomic.Int64
}

// NewNullOutboxRepository creates a new NullOutboxRepository.
func NewNullOutboxRepository() *NullOutboxRepository {
	return &NullOutboxRepository{}
}

// Dropped reports how many events were discarded.
func (r *NullOutboxRepository) Dropped() int64 {
	return r.dropped.Load()
}

func (r *NullOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	r.dropped.Add(1)
	return nil
}

func (r *NullOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (r *NullOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return nil
}

func (r *NullOutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
