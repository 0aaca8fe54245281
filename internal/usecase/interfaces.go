package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// AccountRepository defines data access for generic accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByCategories(ctx context.Context, categoryIDs []string) ([]*domain.Account, error)
	UpdateCurrentBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	AdjustCurrentBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
}

// CashRegisterRepository defines data access for cash registers.
type CashRegisterRepository interface {
	Create(ctx context.Context, register *domain.CashRegister) error
	GetByID(ctx context.Context, id string) (*domain.CashRegister, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CashRegister, error)
	List(ctx context.Context, limit, offset int) ([]*domain.CashRegister, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.CashRegister, error)
	UpdateCurrentBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateInitialBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// BankAccountRepository defines data access for bank accounts.
type BankAccountRepository interface {
	Create(ctx context.Context, bank *domain.BankAccount) error
	GetByID(ctx context.Context, id string) (*domain.BankAccount, error)
	List(ctx context.Context, limit, offset int) ([]*domain.BankAccount, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.BankAccount, error)
}

// CategoryRepository defines data access for the category tree.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ListAll(ctx context.Context) ([]*domain.Category, error)
	UpdateParent(ctx context.Context, id string, parentID *string) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error)
	GetByCashRegister(ctx context.Context, registerID string, limit, offset int) ([]*domain.Entry, error)
	DeleteByTransfer(ctx context.Context, tx Transaction, transferID string) (int64, error)
	SumByCashRegister(ctx context.Context, registerID string) (domain.BalanceSums, error)
	SumByBankAccount(ctx context.Context, bankAccountID string) (domain.BalanceSums, error)
	SumByCategories(ctx context.Context, categoryIDs []string) (domain.BalanceSums, error)
	SumByCashRegisterInRange(ctx context.Context, registerID string, from, to time.Time, excluded []domain.EntryMethod) (domain.BalanceSums, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transfer, error)
	Update(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Transfer, error)
	ListByEndpoint(ctx context.Context, endpoint domain.Endpoint) ([]*domain.Transfer, error)
}

// TransferSequence hands out per-period transfer numbers.
type TransferSequence interface {
	Next(ctx context.Context, tx Transaction, period string) (int64, error)
}

// RegisterSessionRepository stores register openings and closings.
// LatestOpening and ClosingForOpening return nil, nil when nothing matches.
type RegisterSessionRepository interface {
	CreateOpening(ctx context.Context, tx Transaction, opening *domain.RegisterOpening) error
	CreateClosing(ctx context.Context, tx Transaction, closing *domain.RegisterClosing) error
	LatestOpening(ctx context.Context, tx Transaction, registerID string) (*domain.RegisterOpening, error)
	ClosingForOpening(ctx context.Context, tx Transaction, openingID string) (*domain.RegisterClosing, error)
	ListOpenings(ctx context.Context, registerID string) ([]*domain.RegisterOpening, error)
	ListClosings(ctx context.Context, registerID string) ([]*domain.RegisterClosing, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// CheckConsistency sums income and expense over every transfer-linked entry.
	CheckConsistency(ctx context.Context) (totalIncome, totalExpense decimal.Decimal, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// RecalcQueue holds cache refreshes that failed after commit.
type RecalcQueue interface {
	Enqueue(ctx context.Context, targets ...RecalcTarget) error
	Dequeue(ctx context.Context, limit int) ([]RecalcTarget, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
