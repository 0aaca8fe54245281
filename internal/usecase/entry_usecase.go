package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/metrics"
)

// EntryUseCase records ledger entries on behalf of other domains (invoices,
// payroll, manual movements).
type EntryUseCase struct {
	txManager    TransactionManager
	entryRepo    EntryRepository
	registerRepo CashRegisterRepository
	bankRepo     BankAccountRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	calc         *BalanceCalculator
	recalc       *Recalculator
	metrics      *metrics.Metrics
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	registerRepo CashRegisterRepository,
	bankRepo BankAccountRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	calc *BalanceCalculator,
	recalc *Recalculator,
	m *metrics.Metrics,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:    txManager,
		entryRepo:    entryRepo,
		registerRepo: registerRepo,
		bankRepo:     bankRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		calc:         calc,
		recalc:       recalc,
		metrics:      m,
	}
}

// RecordEntryInput represents input for recording an entry.
type RecordEntryInput struct {
	Date           *time.Time
	CashRegisterID *string
	BankAccountID  *string
	CategoryID     *string
	Type           domain.EntryType
	Method         domain.EntryMethod
	Description    string
	UserID         string
	Amount         decimal.Decimal
}

// RecordEntry appends one entry to the ledger and refreshes the balances it
// feeds.
func (uc *EntryUseCase) RecordEntry(ctx context.Context, input RecordEntryInput) (*domain.Entry, error) {
	now := time.Now().UTC()

	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}

	entry := &domain.Entry{
		ID:             uc.idGen.Generate(),
		Type:           input.Type,
		Amount:         input.Amount,
		Method:         input.Method,
		Date:           date,
		CashRegisterID: input.CashRegisterID,
		BankAccountID:  input.BankAccountID,
		CategoryID:     input.CategoryID,
		Description:    strings.TrimSpace(input.Description),
		CreatedBy:      input.UserID,
		CreatedAt:      now,
	}

	if err := uc.validate(ctx, entry); err != nil {
		return nil, err
	}

	targets, err := uc.calc.TargetsForEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryRecorded,
		Payload: map[string]any{
			"entry_id": entry.ID,
			"type":     string(entry.Type),
			"method":   string(entry.Method),
			"amount":   entry.Amount.String(),
			"actor":    entry.CreatedBy,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	_ = uc.recalc.Refresh(ctx, targets)

	if uc.metrics != nil {
		uc.metrics.EntriesRecorded.WithLabelValues(string(entry.Method), string(entry.Type)).Inc()
	}

	return entry, nil
}

func (uc *EntryUseCase) validate(ctx context.Context, entry *domain.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	if err := domain.ValidateAmount(entry.Amount); err != nil {
		return err
	}

	switch entry.Method {
	case domain.MethodCash:
		if entry.CashRegisterID == nil {
			return fmt.Errorf("%w: caja entries need a cash register", domain.ErrValidation)
		}
	case domain.MethodBank:
		if entry.BankAccountID == nil {
			return fmt.Errorf("%w: banco entries need a bank account", domain.ErrValidation)
		}
	}

	if entry.CashRegisterID != nil {
		if _, err := uc.registerRepo.GetByID(ctx, *entry.CashRegisterID); err != nil {
			return err
		}
	}

	if entry.BankAccountID != nil {
		if _, err := uc.bankRepo.GetByID(ctx, *entry.BankAccountID); err != nil {
			return err
		}
	}

	if entry.CategoryID != nil {
		if _, err := uc.categoryRepo.GetByID(ctx, *entry.CategoryID); err != nil {
			return err
		}
	}

	return nil
}
