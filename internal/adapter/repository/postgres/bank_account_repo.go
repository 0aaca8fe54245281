package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/postgres/generated"
)

// BankAccountRepository implements usecase.BankAccountRepository.
type BankAccountRepository struct {
	queries *generated.Queries
}

// NewBankAccountRepository creates a new BankAccountRepository.
func NewBankAccountRepository(db generated.DBTX) *BankAccountRepository {
	return &BankAccountRepository{
		queries: generated.New(db),
	}
}

// Create creates a new bank account.
func (r *BankAccountRepository) Create(ctx context.Context, bank *domain.BankAccount) error {
	_, err := r.queries.CreateBankAccount(ctx, generated.CreateBankAccountParams{
		ID:            bank.ID,
		AccountID:     bank.AccountID,
		BankName:      bank.BankName,
		AccountNumber: bank.AccountNumber,
		CreatedAt:     timeToPgTimestamptz(bank.CreatedAt),
	})

	return err
}

// GetByID retrieves a bank account by ID.
func (r *BankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	row, err := r.queries.GetBankAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}

		return nil, err
	}

	return rowToBankAccount(row), nil
}

// List lists bank accounts with pagination.
func (r *BankAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.BankAccount, error) {
	rows, err := r.queries.ListBankAccounts(ctx, generated.ListBankAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	banks := make([]*domain.BankAccount, 0, len(rows))
	for _, row := range rows {
		banks = append(banks, rowToBankAccount(row))
	}

	return banks, nil
}

// ListByAccount lists the bank accounts under a parent account.
func (r *BankAccountRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.BankAccount, error) {
	rows, err := r.queries.ListBankAccountsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	banks := make([]*domain.BankAccount, 0, len(rows))
	for _, row := range rows {
		banks = append(banks, rowToBankAccount(row))
	}

	return banks, nil
}

func rowToBankAccount(row generated.BankAccount) *domain.BankAccount {
	return &domain.BankAccount{
		ID:            row.ID,
		AccountID:     row.AccountID,
		BankName:      row.BankName,
		AccountNumber: row.AccountNumber,
		CreatedAt:     row.CreatedAt.Time,
	}
}
