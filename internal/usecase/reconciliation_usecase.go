package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
)

// ReconciliationUseCase compares cached balances with the ledger and heals
// the ones that drifted.
type ReconciliationUseCase struct {
	accountRepo  AccountRepository
	registerRepo CashRegisterRepository
	ledgerRepo   LedgerRepository
	calc         *BalanceCalculator
	recalc       *Recalculator
	queue        RecalcQueue
	logger       zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case. queue may
// be nil.
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	registerRepo CashRegisterRepository,
	ledgerRepo LedgerRepository,
	calc *BalanceCalculator,
	recalc *Recalculator,
	queue RecalcQueue,
	logger zerolog.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo:  accountRepo,
		registerRepo: registerRepo,
		ledgerRepo:   ledgerRepo,
		calc:         calc,
		recalc:       recalc,
		queue:        queue,
		logger:       logger,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	Kind              string
	ID                string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

func newResult(kind, id string, recorded, calculated decimal.Decimal) *ReconciliationResult {
	diff := recorded.Sub(calculated)

	return &ReconciliationResult{
		Kind:              kind,
		ID:                id,
		RecordedBalance:   recorded,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}
}

// ReconcileRegister compares a register's cache with its ledger fold.
func (uc *ReconciliationUseCase) ReconcileRegister(ctx context.Context, registerID string) (*ReconciliationResult, error) {
	register, err := uc.registerRepo.GetByID(ctx, registerID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.calc.RegisterBalanceFrom(ctx, register.ID, register.InitialBalance)
	if err != nil {
		return nil, err
	}

	return newResult(domain.TargetCashRegister, register.ID, register.CurrentBalance, calculated), nil
}

// ReconcileAccount compares an account's cache with its ledger fold.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated, _, err := uc.calc.AccountBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return newResult(domain.TargetAccount, account.ID, account.CurrentBalance, calculated), nil
}

// ReconcileAll reconciles every register and account.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) ([]*ReconciliationResult, error) {
	// Get everything (use high limit for reconciliation)
	limit, offset, _ := domain.ValidatePagination(10000, 0)

	registers, err := uc.registerRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	results := make([]*ReconciliationResult, 0, len(registers)+len(accounts))
	for _, r := range registers {
		result, err := uc.ReconcileRegister(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile cash register %s: %w", r.ID, err)
		}
		results = append(results, result)
	}

	for _, a := range accounts {
		result, err := uc.ReconcileAccount(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", a.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// CheckLedgerConsistency verifies that transfer-linked entries net to zero.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	_, err := checkConservation(ctx, uc.ledgerRepo)
	return err
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalChecked     int
	Reconciled       int
	Discrepancies    []*ReconciliationResult
	LedgerConsistent bool
	CheckedAt        time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAll(ctx)
	if err != nil {
		return nil, err
	}

	ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil && !errors.Is(ledgerErr, ErrInconsistentLedger) {
		return nil, fmt.Errorf("check ledger consistency: %w", ledgerErr)
	}

	report := &ReconciliationReport{
		TotalChecked:     len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.Reconciled++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}

// Repair recalculates every cache found out of line with the ledger and
// returns the report taken before the repair.
func (uc *ReconciliationUseCase) Repair(ctx context.Context) (*ReconciliationReport, error) {
	report, err := uc.GenerateReconciliationReport(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]RecalcTarget, 0, len(report.Discrepancies))
	for _, d := range report.Discrepancies {
		uc.logger.Info().
			Str("kind", d.Kind).
			Str("id", d.ID).
			Str("recorded", d.RecordedBalance.String()).
			Str("calculated", d.CalculatedBalance.String()).
			Msg("repairing cached balance")
		targets = append(targets, RecalcTarget{Kind: d.Kind, ID: d.ID})
	}

	if err := uc.recalc.Refresh(ctx, targets); err != nil {
		return report, err
	}

	return report, nil
}

// ProcessPending drains up to limit queued recalculations. Targets that
// fail again go back on the queue after the whole batch has been tried. It
// returns how many succeeded.
func (uc *ReconciliationUseCase) ProcessPending(ctx context.Context, limit int) (int, error) {
	if uc.queue == nil {
		return 0, nil
	}

	targets, err := uc.queue.Dequeue(ctx, limit)
	if err != nil {
		return 0, err
	}

	done := 0
	var failed []RecalcTarget
	for _, t := range targets {
		if err := uc.recalc.Apply(ctx, t); err != nil {
			uc.logger.Warn().Err(err).Str("target", t.String()).Msg("queued recalculation failed again")
			failed = append(failed, t)
			continue
		}
		done++
	}

	var errs []error
	for _, t := range failed {
		if err := uc.queue.Enqueue(ctx, t); err != nil {
			uc.logger.Error().Err(err).Str("target", t.String()).Msg("failed to requeue recalculation")
			errs = append(errs, fmt.Errorf("requeue %s: %w", t, err))
		}
	}

	return done, errors.Join(errs...)
}
