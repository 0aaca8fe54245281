package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cajaledger/internal/usecase"
)

// NewRepositories builds every repository over pool.
func NewRepositories(pool *pgxpool.Pool) usecase.Repositories {
	return usecase.Repositories{
		TxManager:  NewTxManager(pool),
		Accounts:   NewAccountRepository(pool),
		Registers:  NewCashRegisterRepository(pool),
		Banks:      NewBankAccountRepository(pool),
		Categories: NewCategoryRepository(pool),
		Entries:    NewEntryRepository(pool),
		Transfers:  NewTransferRepository(pool),
		Sequence:   NewTransferSequence(),
		Sessions:   NewRegisterSessionRepository(pool),
		Ledger:     NewLedgerRepository(pool),
		Outbox:     NewOutboxRepository(pool),
	}
}
