package memory

import "github.com/iho/cajaledger/internal/usecase"

// NewRepositories builds every repository over store.
func NewRepositories(store *Store) usecase.Repositories {
	return usecase.Repositories{
		TxManager:  NewTxManager(store),
		Accounts:   NewAccountRepository(store),
		Registers:  NewCashRegisterRepository(store),
		Banks:      NewBankAccountRepository(store),
		Categories: NewCategoryRepository(store),
		Entries:    NewEntryRepository(store),
		Transfers:  NewTransferRepository(store),
		Sequence:   NewTransferSequence(store),
		Sessions:   NewRegisterSessionRepository(store),
		Ledger:     NewLedgerRepository(store),
		Outbox:     NewOutboxRepository(store),
	}
}
