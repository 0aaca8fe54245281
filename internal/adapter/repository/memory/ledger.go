package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create appends an entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if entry.TransferID != nil {
		if _, ok := r.store.transfers[*entry.TransferID]; !ok {
			return domain.ErrTransferNotFound
		}
	}

	id := entry.ID
	r.store.entries = append(r.store.entries, cloneEntry(entry))
	onRollback(tx, func() {
		r.store.entries = slices.DeleteFunc(r.store.entries, func(e *domain.Entry) bool { return e.ID == id })
	})

	return nil
}

// GetByTransfer retrieves entries by transfer ID in insertion order.
func (r *EntryRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	return r.filter(func(e *domain.Entry) bool {
		return e.TransferID != nil && *e.TransferID == transferID
	}), nil
}

// GetByCashRegister retrieves the register's entries, newest first.
func (r *EntryRepository) GetByCashRegister(ctx context.Context, registerID string, limit, offset int) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool {
		return e.CashRegisterID != nil && *e.CashRegisterID == registerID
	})

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].ID > entries[j].ID
	})

	return page(entries, limit, offset), nil
}

// DeleteByTransfer removes every entry linked to the transfer.
func (r *EntryRepository) DeleteByTransfer(ctx context.Context, tx usecase.Transaction, transferID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	before := slices.Clone(r.store.entries)
	r.store.entries = slices.DeleteFunc(r.store.entries, func(e *domain.Entry) bool {
		return e.TransferID != nil && *e.TransferID == transferID
	})
	onRollback(tx, func() { r.store.entries = before })

	return int64(len(before) - len(r.store.entries)), nil
}

// SumByCashRegister totals the register's entries by type.
func (r *EntryRepository) SumByCashRegister(ctx context.Context, registerID string) (domain.BalanceSums, error) {
	return domain.SumEntries(r.filter(func(e *domain.Entry) bool {
		return e.CashRegisterID != nil && *e.CashRegisterID == registerID
	})), nil
}

// SumByBankAccount totals the bank account's entries by type.
func (r *EntryRepository) SumByBankAccount(ctx context.Context, bankAccountID string) (domain.BalanceSums, error) {
	return domain.SumEntries(r.filter(func(e *domain.Entry) bool {
		return e.BankAccountID != nil && *e.BankAccountID == bankAccountID
	})), nil
}

// SumByCategories totals entries categorized under any of the ids.
func (r *EntryRepository) SumByCategories(ctx context.Context, categoryIDs []string) (domain.BalanceSums, error) {
	return domain.SumEntries(r.filter(func(e *domain.Entry) bool {
		return e.CategoryID != nil && slices.Contains(categoryIDs, *e.CategoryID)
	})), nil
}

// SumByCashRegisterInRange totals the register's entries dated in
// [from, to), skipping the excluded methods.
func (r *EntryRepository) SumByCashRegisterInRange(ctx context.Context, registerID string, from, to time.Time, excluded []domain.EntryMethod) (domain.BalanceSums, error) {
	return domain.SumEntries(r.filter(func(e *domain.Entry) bool {
		return e.CashRegisterID != nil && *e.CashRegisterID == registerID &&
			!e.Date.Before(from) && e.Date.Before(to) &&
			!slices.Contains(excluded, e.Method)
	})), nil
}

func (r *EntryRepository) filter(keep func(e *domain.Entry) bool) []*domain.Entry {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.Entry
	for _, e := range r.store.entries {
		if keep(e) {
			out = append(out, cloneEntry(e))
		}
	}

	return out
}

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	store *Store
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(store *Store) *TransferRepository {
	return &TransferRepository{store: store}
}

// Create stores a new transfer. Numbers are unique.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, t := range r.store.transfers {
		if t.Number == transfer.Number {
			return fmt.Errorf("transfer number %s already used", transfer.Number)
		}
	}

	id := transfer.ID
	r.store.transfers[id] = cloneTransfer(transfer)
	onRollback(tx, func() { delete(r.store.transfers, id) })

	return nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}

	return cloneTransfer(t), nil
}

// GetByIDForUpdate retrieves a transfer inside a transaction.
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	return r.GetByID(ctx, id)
}

// Update rewrites the mutable fields of a transfer. The number is kept.
func (r *TransferRepository) Update(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.transfers[transfer.ID]
	if !ok {
		return domain.ErrTransferNotFound
	}

	before := cloneTransfer(current)
	onRollback(tx, func() { r.store.transfers[before.ID] = before })

	current.Amount = transfer.Amount
	current.Concept = transfer.Concept
	current.Origin = transfer.Origin
	current.Destination = transfer.Destination
	current.UpdatedBy = transfer.UpdatedBy
	current.UpdatedAt = transfer.UpdatedAt

	return nil
}

// Delete removes a transfer. Entries still linked to it block the delete.
func (r *TransferRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}

	for _, e := range r.store.entries {
		if e.TransferID != nil && *e.TransferID == id {
			return fmt.Errorf("transfer %s still has entries", id)
		}
	}

	delete(r.store.transfers, id)
	onRollback(tx, func() { r.store.transfers[id] = t })

	return nil
}

// List lists transfers, newest first.
func (r *TransferRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	return page(r.sorted(func(*domain.Transfer) bool { return true }), limit, offset), nil
}

// ListByEndpoint lists transfers with a leg on the endpoint, newest first.
func (r *TransferRepository) ListByEndpoint(ctx context.Context, endpoint domain.Endpoint) ([]*domain.Transfer, error) {
	return r.sorted(func(t *domain.Transfer) bool { return t.Touches(endpoint) }), nil
}

func (r *TransferRepository) sorted(keep func(t *domain.Transfer) bool) []*domain.Transfer {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	transfers := make([]*domain.Transfer, 0)
	for _, t := range r.store.transfers {
		if keep(t) {
			transfers = append(transfers, cloneTransfer(t))
		}
	}

	sort.Slice(transfers, func(i, j int) bool {
		if !transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
		}
		return transfers[i].ID > transfers[j].ID
	})

	return transfers
}

// TransferSequence implements usecase.TransferSequence.
type TransferSequence struct {
	store *Store
}

// NewTransferSequence creates a new TransferSequence.
func NewTransferSequence(store *Store) *TransferSequence {
	return &TransferSequence{store: store}
}

// Next returns the next number in the period.
func (s *TransferSequence) Next(ctx context.Context, tx usecase.Transaction, period string) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	prev := s.store.sequences[period]
	s.store.sequences[period] = prev + 1
	onRollback(tx, func() { s.store.sequences[period] = prev })

	return prev + 1, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// CheckConsistency sums income and expense over transfer-linked entries.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sums := domain.SumEntries(nil)
	for _, e := range r.store.entries {
		if e.TransferID != nil {
			sums.Add(e.Type, e.Amount)
		}
	}

	return sums.Income, sums.Expense, nil
}
