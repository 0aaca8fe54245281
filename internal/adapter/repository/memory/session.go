package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// RegisterSessionRepository implements usecase.RegisterSessionRepository.
type RegisterSessionRepository struct {
	store *Store
}

// NewRegisterSessionRepository creates a new RegisterSessionRepository.
func NewRegisterSessionRepository(store *Store) *RegisterSessionRepository {
	return &RegisterSessionRepository{store: store}
}

// CreateOpening stores an opening record.
func (r *RegisterSessionRepository) CreateOpening(ctx context.Context, tx usecase.Transaction, opening *domain.RegisterOpening) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o := *opening
	r.store.openings = append(r.store.openings, &o)
	onRollback(tx, func() {
		r.store.openings = slices.DeleteFunc(r.store.openings, func(x *domain.RegisterOpening) bool { return x.ID == o.ID })
	})

	return nil
}

// CreateClosing stores a closing record. An opening is closed at most once.
func (r *RegisterSessionRepository) CreateClosing(ctx context.Context, tx usecase.Transaction, closing *domain.RegisterClosing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, c := range r.store.closings {
		if c.OpeningID == closing.OpeningID {
			return fmt.Errorf("opening %s already closed", closing.OpeningID)
		}
	}

	c := *closing
	r.store.closings = append(r.store.closings, &c)
	onRollback(tx, func() {
		r.store.closings = slices.DeleteFunc(r.store.closings, func(x *domain.RegisterClosing) bool { return x.ID == c.ID })
	})

	return nil
}

// LatestOpening returns the register's most recent opening, or nil.
func (r *RegisterSessionRepository) LatestOpening(ctx context.Context, tx usecase.Transaction, registerID string) (*domain.RegisterOpening, error) {
	openings, _ := r.ListOpenings(ctx, registerID)
	if len(openings) == 0 {
		return nil, nil
	}

	return openings[0], nil
}

// ClosingForOpening returns the closing paired with an opening, or nil.
func (r *RegisterSessionRepository) ClosingForOpening(ctx context.Context, tx usecase.Transaction, openingID string) (*domain.RegisterClosing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.closings {
		if c.OpeningID == openingID {
			out := *c
			return &out, nil
		}
	}

	return nil, nil
}

// ListOpenings lists a register's openings, newest first.
func (r *RegisterSessionRepository) ListOpenings(ctx context.Context, registerID string) ([]*domain.RegisterOpening, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var openings []*domain.RegisterOpening
	for _, o := range r.store.openings {
		if o.CashRegisterID == registerID {
			out := *o
			openings = append(openings, &out)
		}
	}

	sort.SliceStable(openings, func(i, j int) bool {
		if !openings[i].OpenedAt.Equal(openings[j].OpenedAt) {
			return openings[i].OpenedAt.After(openings[j].OpenedAt)
		}
		return openings[i].ID > openings[j].ID
	})

	return openings, nil
}

// ListClosings lists a register's closings, newest first.
func (r *RegisterSessionRepository) ListClosings(ctx context.Context, registerID string) ([]*domain.RegisterClosing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var closings []*domain.RegisterClosing
	for _, c := range r.store.closings {
		if c.CashRegisterID == registerID {
			out := *c
			closings = append(closings, &out)
		}
	}

	sort.SliceStable(closings, func(i, j int) bool {
		if !closings[i].ClosedAt.Equal(closings[j].ClosedAt) {
			return closings[i].ClosedAt.After(closings[j].ClosedAt)
		}
		return closings[i].ID > closings[j].ID
	})

	return closings, nil
}
