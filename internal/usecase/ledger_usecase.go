package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInconsistentLedger is returned when transfer entries do not net to zero.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: transfer income does not equal transfer expense")

// ConsistencyReport holds the transfer totals behind a conservation check.
type ConsistencyReport struct {
	TransferIncome  decimal.Decimal
	TransferExpense decimal.Decimal
	Difference      decimal.Decimal
	Consistent      bool
	CheckedAt       time.Time
}

// checkConservation sums every transfer-linked entry. Each transfer writes
// one gasto and one ingreso of the same amount, so the sums must match.
// An imbalance returns the report together with ErrInconsistentLedger.
func checkConservation(ctx context.Context, repo LedgerRepository) (*ConsistencyReport, error) {
	income, expense, err := repo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		TransferIncome:  income,
		TransferExpense: expense,
		Difference:      income.Sub(expense),
		CheckedAt:       time.Now().UTC(),
	}
	report.Consistent = report.Difference.IsZero()

	if !report.Consistent {
		return report, fmt.Errorf("%w: income=%s expense=%s difference=%s",
			ErrInconsistentLedger, income.StringFixed(2), expense.StringFixed(2), report.Difference.StringFixed(2))
	}

	return report, nil
}

// LedgerUseCase handles ledger-wide checks.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo}
}

// CheckConsistency verifies that transfers neither create nor destroy money.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	return checkConservation(ctx, uc.ledgerRepo)
}
