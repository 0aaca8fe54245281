// Package memory is an in-process implementation of the repositories. It
// backs the memory storage driver and the use case tests.
package memory

import (
	"context"
	"sync"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// Store holds every table. Individual operations lock mu briefly; whole
// transactions are serialized by the sem token, which stands in for row
// locks.
type Store struct {
	mu  sync.RWMutex
	sem chan struct{}

	accounts   map[string]*domain.Account
	registers  map[string]*domain.CashRegister
	banks      map[string]*domain.BankAccount
	categories map[string]*domain.Category
	transfers  map[string]*domain.Transfer
	sequences  map[string]int64
	entries    []*domain.Entry
	openings   []*domain.RegisterOpening
	closings   []*domain.RegisterClosing
	outbox     []*domain.OutboxEvent
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sem:        make(chan struct{}, 1),
		accounts:   make(map[string]*domain.Account),
		registers:  make(map[string]*domain.CashRegister),
		banks:      make(map[string]*domain.BankAccount),
		categories: make(map[string]*domain.Category),
		transfers:  make(map[string]*domain.Transfer),
		sequences:  make(map[string]int64),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for the store's transaction token. Transactions must not nest.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	select {
	case m.store.sem <- struct{}{}:
		return &Tx{store: m.store}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Tx applies writes immediately and keeps an undo log for rollback.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

// Commit releases the transaction and forgets the undo log.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}

	t.done = true
	t.undo = nil
	<-t.store.sem

	return nil
}

// Rollback reverts every write made through the transaction. Rolling back a
// committed transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}

	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()

	t.done = true
	t.undo = nil
	<-t.store.sem

	return nil
}

// onRollback registers fn to run on rollback. Callers hold store.mu.
func onRollback(tx usecase.Transaction, fn func()) {
	if t, ok := tx.(*Tx); ok && !t.done {
		t.undo = append(t.undo, fn)
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return items[offset:end]
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func cloneRegister(r *domain.CashRegister) *domain.CashRegister {
	c := *r
	return &c
}

func cloneBank(b *domain.BankAccount) *domain.BankAccount {
	c := *b
	return &c
}

func cloneCategory(cat *domain.Category) *domain.Category {
	c := *cat
	return &c
}

func cloneTransfer(t *domain.Transfer) *domain.Transfer {
	c := *t
	return &c
}

func cloneEntry(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}
