package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/metrics"
)

// TransferUseCase handles transfer business logic.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	entryRepo    EntryRepository
	sequence     TransferSequence
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	calc         *BalanceCalculator
	recalc       *Recalculator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase. retrier and m may be nil.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	entryRepo EntryRepository,
	sequence TransferSequence,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	calc *BalanceCalculator,
	recalc *Recalculator,
	retrier Retrier,
	m *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		entryRepo:    entryRepo,
		sequence:     sequence,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		calc:         calc,
		recalc:       recalc,
		retrier:      retrier,
		metrics:      m,
	}
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	Origin      domain.Endpoint
	Destination domain.Endpoint
	Concept     string
	UserID      string
	Amount      decimal.Decimal
}

// UpdateTransferInput represents the replacement values for a transfer.
type UpdateTransferInput = CreateTransferInput

// CreateTransfer moves funds between two endpoints. The transfer row and its
// two entries are written atomically; cached balances are refreshed after
// commit and a refresh failure never undoes the transfer.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	start := time.Now()

	draft, err := uc.validate(input)
	if err != nil {
		uc.recordError("create", err)
		return nil, err
	}

	targets, err := uc.calc.TargetsForEndpoints(ctx, draft.Origin, draft.Destination)
	if err != nil {
		uc.recordError("create", err)
		return nil, err
	}

	balance, err := uc.calc.EndpointBalance(ctx, draft.Origin)
	if err != nil {
		uc.recordError("create", err)
		return nil, err
	}

	if err := checkFunds(balance, draft.Amount); err != nil {
		uc.recordError("create", err)
		return nil, err
	}

	var transfer *domain.Transfer
	err = uc.withRetry(ctx, func() error {
		var err error
		transfer, err = uc.createTx(ctx, draft, input.UserID)
		return err
	})
	if err != nil {
		uc.recordError("create", err)
		return nil, err
	}

	_ = uc.recalc.Refresh(ctx, targets)

	uc.recordSuccess("create", transfer.Amount, start)

	return transfer, nil
}

func (uc *TransferUseCase) createTx(ctx context.Context, draft *domain.Transfer, actor string) (*domain.Transfer, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	period := domain.TransferPeriod(now)

	seq, err := uc.sequence.Next(txCtx, tx, period)
	if err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		ID:          uc.idGen.Generate(),
		Number:      domain.FormatTransferNumber(period, seq),
		Amount:      draft.Amount,
		Concept:     draft.Concept,
		Origin:      draft.Origin,
		Destination: draft.Destination,
		Status:      domain.TransferCommitted,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.transferRepo.Create(txCtx, tx, transfer); err != nil {
		return nil, err
	}

	if err := uc.applyLegs(txCtx, tx, transfer, now); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, uc.transferEvent(domain.EventTypeTransferCreated, transfer, actor)); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// UpdateTransfer reverses the transfer's current effect and applies the new
// values in one transaction. Funds are checked against the new origin as it
// will stand after the reversal. The transfer keeps its number.
func (uc *TransferUseCase) UpdateTransfer(ctx context.Context, id string, input UpdateTransferInput) (*domain.Transfer, error) {
	start := time.Now()

	draft, err := uc.validate(input)
	if err != nil {
		uc.recordError("update", err)
		return nil, err
	}

	old, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		uc.recordError("update", err)
		return nil, err
	}

	targets, err := uc.calc.TargetsForEndpoints(ctx, old.Origin, old.Destination, draft.Origin, draft.Destination)
	if err != nil {
		uc.recordError("update", err)
		return nil, err
	}

	balance, err := uc.calc.EndpointBalance(ctx, draft.Origin)
	if err != nil {
		uc.recordError("update", err)
		return nil, err
	}

	if err := checkFunds(postReversalBalance(balance, old, draft.Origin), draft.Amount); err != nil {
		uc.recordError("update", err)
		return nil, err
	}

	var transfer *domain.Transfer
	err = uc.withRetry(ctx, func() error {
		var err error
		transfer, err = uc.updateTx(ctx, id, draft, input.UserID)
		return err
	})
	if err != nil {
		uc.recordError("update", err)
		return nil, err
	}

	_ = uc.recalc.Refresh(ctx, targets)

	uc.recordSuccess("update", transfer.Amount, start)

	return transfer, nil
}

func (uc *TransferUseCase) updateTx(ctx context.Context, id string, draft *domain.Transfer, actor string) (*domain.Transfer, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	transfer, err := uc.transferRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transfer.UpdatedBy = actor

	if err := uc.reverseLegs(txCtx, tx, transfer, actor, now); err != nil {
		return nil, err
	}

	transfer.Amount = draft.Amount
	transfer.Concept = draft.Concept
	transfer.Origin = draft.Origin
	transfer.Destination = draft.Destination
	transfer.UpdatedAt = now

	if err := uc.applyLegs(txCtx, tx, transfer, now); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Update(txCtx, tx, transfer); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, uc.transferEvent(domain.EventTypeTransferUpdated, transfer, actor)); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// DeleteTransfer removes the transfer and every entry linked to it, then
// refreshes the balances it touched.
func (uc *TransferUseCase) DeleteTransfer(ctx context.Context, id, userID string) error {
	start := time.Now()

	if userID == "" {
		return domain.ErrMissingActor
	}

	old, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		uc.recordError("delete", err)
		return err
	}

	targets, err := uc.calc.TargetsForEndpoints(ctx, old.Origin, old.Destination)
	if err != nil {
		uc.recordError("delete", err)
		return err
	}

	err = uc.withRetry(ctx, func() error {
		return uc.deleteTx(ctx, id, userID)
	})
	if err != nil {
		uc.recordError("delete", err)
		return err
	}

	_ = uc.recalc.Refresh(ctx, targets)

	uc.recordSuccess("delete", old.Amount, start)

	return nil
}

func (uc *TransferUseCase) deleteTx(ctx context.Context, id, actor string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	transfer, err := uc.transferRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	if _, err := uc.entryRepo.DeleteByTransfer(txCtx, tx, id); err != nil {
		return err
	}

	if err := uc.transferRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := uc.adjustBankParents(txCtx, tx, transfer, transfer.Amount.Neg(), now); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, uc.transferEvent(domain.EventTypeTransferDeleted, transfer, actor)); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfers lists transfers, newest first.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	return uc.transferRepo.List(ctx, limit, offset)
}

// ListTransferEntries returns every entry linked to a transfer, including
// reversals written by edits.
func (uc *TransferUseCase) ListTransferEntries(ctx context.Context, id string) ([]*domain.Entry, error) {
	if _, err := uc.transferRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	return uc.entryRepo.GetByTransfer(ctx, id)
}

func (uc *TransferUseCase) validate(input CreateTransferInput) (*domain.Transfer, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingActor
	}

	draft := &domain.Transfer{
		Amount:      input.Amount,
		Concept:     strings.TrimSpace(input.Concept),
		Origin:      input.Origin,
		Destination: input.Destination,
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(draft.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateConcept(draft.Concept); err != nil {
		return nil, err
	}

	return draft, nil
}

// applyLegs writes the expense at the origin and the income at the
// destination and nudges bank parent caches by the same amounts.
func (uc *TransferUseCase) applyLegs(ctx context.Context, tx Transaction, transfer *domain.Transfer, now time.Time) error {
	out, in := transfer.Legs(uc.idGen.Generate(), uc.idGen.Generate(), now)

	if err := uc.entryRepo.Create(ctx, tx, out); err != nil {
		return err
	}

	if err := uc.entryRepo.Create(ctx, tx, in); err != nil {
		return err
	}

	return uc.adjustBankParents(ctx, tx, transfer, transfer.Amount, now)
}

// reverseLegs cancels the transfer's current legs with flipped entries.
func (uc *TransferUseCase) reverseLegs(ctx context.Context, tx Transaction, transfer *domain.Transfer, actor string, now time.Time) error {
	out, in := transfer.Legs("", "", now)

	for _, leg := range []*domain.Entry{out, in} {
		if err := uc.entryRepo.Create(ctx, tx, transfer.ReversalOf(uc.idGen.Generate(), leg, actor, now)); err != nil {
			return err
		}
	}

	return uc.adjustBankParents(ctx, tx, transfer, transfer.Amount.Neg(), now)
}

// adjustBankParents moves amount out of the origin's and into the
// destination's parent account cache when those endpoints are banks.
func (uc *TransferUseCase) adjustBankParents(ctx context.Context, tx Transaction, transfer *domain.Transfer, amount decimal.Decimal, now time.Time) error {
	legs := []struct {
		endpoint domain.Endpoint
		delta    decimal.Decimal
	}{
		{transfer.Origin, amount.Neg()},
		{transfer.Destination, amount},
	}

	for _, leg := range legs {
		accountID, err := uc.calc.BankParentAccount(ctx, leg.endpoint)
		if err != nil {
			return err
		}

		if accountID == "" {
			continue
		}

		if err := uc.accountRepo.AdjustCurrentBalance(ctx, tx, accountID, leg.delta, now); err != nil {
			return err
		}
	}

	return nil
}

func (uc *TransferUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

func (uc *TransferUseCase) transferEvent(eventType string, t *domain.Transfer, actor string) *domain.OutboxEvent {
	payload := domain.TransferEvent{
		TransferID:  t.ID,
		Number:      t.Number,
		Origin:      t.Origin.String(),
		Destination: t.Destination.String(),
		Amount:      t.Amount.String(),
		Actor:       actor,
	}

	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   t.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     eventType,
		Payload:       payload.ToPayload(),
		CreatedAt:     time.Now().UTC(),
	}
}

func (uc *TransferUseCase) recordSuccess(operation string, amount decimal.Decimal, start time.Time) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.TransferOperations.WithLabelValues(operation).Inc()
	uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
	uc.metrics.TransferAmount.Observe(amount.InexactFloat64())
}

func (uc *TransferUseCase) recordError(operation string, err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.TransferErrors.WithLabelValues(operation, errorType(err)).Inc()
}

// postReversalBalance adjusts an endpoint balance for the pending reversal
// of old: undoing its expense raises the old origin, undoing its income
// lowers the old destination.
func postReversalBalance(balance decimal.Decimal, old *domain.Transfer, endpoint domain.Endpoint) decimal.Decimal {
	switch endpoint {
	case old.Origin:
		return balance.Add(old.Amount)
	case old.Destination:
		return balance.Sub(old.Amount)
	}

	return balance
}

func checkFunds(balance, amount decimal.Decimal) error {
	if balance.LessThan(amount) {
		return fmt.Errorf("%w: available %s, requested %s", domain.ErrInsufficientFunds, balance.StringFixed(2), amount.StringFixed(2))
	}

	return nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
