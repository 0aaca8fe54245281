package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cajaledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		Code:           account.Code,
		Name:           account.Name,
		CategoryID:     account.CategoryID,
		InitialBalance: decimalToNumeric(account.InitialBalance),
		CurrentBalance: decimalToNumeric(account.CurrentBalance),
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// ListByCategories lists the accounts attached to any of the categories.
func (r *AccountRepository) ListByCategories(ctx context.Context, categoryIDs []string) ([]*domain.Account, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	rows, err := r.queries.ListAccountsByCategories(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateCurrentBalance overwrites the cached balance.
func (r *AccountRepository) UpdateCurrentBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return txQueries(tx).UpdateAccountCurrentBalance(ctx, generated.UpdateAccountCurrentBalanceParams{
		ID:             id,
		CurrentBalance: decimalToNumeric(balance),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
}

// AdjustCurrentBalance adds delta to the cached balance in place.
func (r *AccountRepository) AdjustCurrentBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	return txQueries(tx).AdjustAccountCurrentBalance(ctx, generated.AdjustAccountCurrentBalanceParams{
		ID:        id,
		Delta:     decimalToNumeric(delta),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		Code:           row.Code,
		Name:           row.Name,
		CategoryID:     row.CategoryID,
		InitialBalance: numericToDecimal(row.InitialBalance),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func sumsFromNumeric(income, expense pgtype.Numeric) domain.BalanceSums {
	return domain.BalanceSums{
		Income:  numericToDecimal(income),
		Expense: numericToDecimal(expense),
	}
}
