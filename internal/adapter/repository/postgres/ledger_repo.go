package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency sums income and expense over transfer-linked entries.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalIncome decimal.Decimal, totalExpense decimal.Decimal, err error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	sums := sumsFromNumeric(result.TotalIncome, result.TotalExpense)

	return sums.Income, sums.Expense, nil
}
