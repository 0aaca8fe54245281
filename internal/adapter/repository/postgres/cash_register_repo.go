package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cajaledger/internal/usecase"
)

// CashRegisterRepository implements usecase.CashRegisterRepository.
type CashRegisterRepository struct {
	queries *generated.Queries
}

// NewCashRegisterRepository creates a new CashRegisterRepository.
func NewCashRegisterRepository(db generated.DBTX) *CashRegisterRepository {
	return &CashRegisterRepository{
		queries: generated.New(db),
	}
}

// Create creates a new cash register.
func (r *CashRegisterRepository) Create(ctx context.Context, register *domain.CashRegister) error {
	_, err := r.queries.CreateCashRegister(ctx, generated.CreateCashRegisterParams{
		ID:             register.ID,
		Name:           register.Name,
		Type:           register.Type,
		AccountID:      register.AccountID,
		InitialBalance: decimalToNumeric(register.InitialBalance),
		CurrentBalance: decimalToNumeric(register.CurrentBalance),
		CreatedAt:      timeToPgTimestamptz(register.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(register.UpdatedAt),
	})

	return err
}

// GetByID retrieves a cash register by ID.
func (r *CashRegisterRepository) GetByID(ctx context.Context, id string) (*domain.CashRegister, error) {
	row, err := r.queries.GetCashRegisterByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCashRegisterNotFound
		}

		return nil, err
	}

	return rowToCashRegister(row), nil
}

// GetByIDForUpdate retrieves a cash register with a FOR UPDATE lock.
func (r *CashRegisterRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashRegister, error) {
	row, err := txQueries(tx).GetCashRegisterByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCashRegisterNotFound
		}

		return nil, err
	}

	return rowToCashRegister(row), nil
}

// List lists cash registers with pagination.
func (r *CashRegisterRepository) List(ctx context.Context, limit, offset int) ([]*domain.CashRegister, error) {
	rows, err := r.queries.ListCashRegisters(ctx, generated.ListCashRegistersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToCashRegisters(rows), nil
}

// ListByAccount lists the registers linked to an account.
func (r *CashRegisterRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.CashRegister, error) {
	rows, err := r.queries.ListCashRegistersByAccount(ctx, &accountID)
	if err != nil {
		return nil, err
	}

	return rowsToCashRegisters(rows), nil
}

// UpdateCurrentBalance overwrites the cached balance.
func (r *CashRegisterRepository) UpdateCurrentBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return txQueries(tx).UpdateCashRegisterCurrentBalance(ctx, generated.UpdateCashRegisterCurrentBalanceParams{
		ID:             id,
		CurrentBalance: decimalToNumeric(balance),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
}

// UpdateInitialBalance replaces the register's seed.
func (r *CashRegisterRepository) UpdateInitialBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return txQueries(tx).UpdateCashRegisterInitialBalance(ctx, generated.UpdateCashRegisterInitialBalanceParams{
		ID:             id,
		InitialBalance: decimalToNumeric(balance),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
}

func rowsToCashRegisters(rows []generated.CashRegister) []*domain.CashRegister {
	registers := make([]*domain.CashRegister, 0, len(rows))
	for _, row := range rows {
		registers = append(registers, rowToCashRegister(row))
	}

	return registers
}

func rowToCashRegister(row generated.CashRegister) *domain.CashRegister {
	return &domain.CashRegister{
		ID:             row.ID,
		Name:           row.Name,
		Type:           row.Type,
		AccountID:      row.AccountID,
		InitialBalance: numericToDecimal(row.InitialBalance),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
