package usecase

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cajaledger/internal/infrastructure/metrics"
)

// Repositories bundles the storage a Services graph is built on. Each
// storage driver provides a constructor for it.
type Repositories struct {
	TxManager  TransactionManager
	Accounts   AccountRepository
	Registers  CashRegisterRepository
	Banks      BankAccountRepository
	Categories CategoryRepository
	Entries    EntryRepository
	Transfers  TransferRepository
	Sequence   TransferSequence
	Sessions   RegisterSessionRepository
	Ledger     LedgerRepository
	Outbox     OutboxRepository
}

// ServiceOptions carries the optional collaborators. Zero values disable
// caching, queueing, retries and metrics.
type ServiceOptions struct {
	IDGen    IDGenerator
	Cache    Cache
	Queue    RecalcQueue
	Retrier  Retrier
	Location *time.Location
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
}

// Services is the full use case graph.
type Services struct {
	Calculator     *BalanceCalculator
	Recalculator   *Recalculator
	Catalog        *CatalogUseCase
	CashRegisters  *CashRegisterUseCase
	Accounts       *AccountBalanceUseCase
	Transfers      *TransferUseCase
	Entries        *EntryUseCase
	Ledger         *LedgerUseCase
	Reconciliation *ReconciliationUseCase
}

// NewServices wires every use case over repos.
func NewServices(repos Repositories, opts ServiceOptions) *Services {
	calc := NewBalanceCalculator(repos.Accounts, repos.Registers, repos.Banks, repos.Categories, repos.Entries, opts.Cache)
	recalc := NewRecalculator(repos.TxManager, repos.Accounts, repos.Registers, calc, opts.Queue, opts.Logger, opts.Metrics)

	return &Services{
		Calculator:   calc,
		Recalculator: recalc,
		Catalog:      NewCatalogUseCase(repos.Accounts, repos.Registers, repos.Banks, repos.Categories, opts.IDGen, calc, recalc),
		CashRegisters: NewCashRegisterUseCase(
			repos.TxManager, repos.Registers, repos.Sessions, repos.Entries, repos.Transfers,
			repos.Outbox, opts.IDGen, calc, recalc, opts.Location, opts.Metrics,
		),
		Accounts: NewAccountBalanceUseCase(repos.Accounts, repos.Banks, calc, recalc),
		Transfers: NewTransferUseCase(
			repos.TxManager, repos.Accounts, repos.Transfers, repos.Entries, repos.Sequence,
			repos.Outbox, opts.IDGen, calc, recalc, opts.Retrier, opts.Metrics,
		),
		Entries: NewEntryUseCase(
			repos.TxManager, repos.Entries, repos.Registers, repos.Banks, repos.Categories,
			repos.Outbox, opts.IDGen, calc, recalc, opts.Metrics,
		),
		Ledger: NewLedgerUseCase(repos.Ledger),
		Reconciliation: NewReconciliationUseCase(
			repos.Accounts, repos.Registers, repos.Ledger, calc, recalc, opts.Queue, opts.Logger,
		),
	}
}
