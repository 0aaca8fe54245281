package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/metrics"
)

// Methods left out of operational daily totals.
var dailySummaryExcluded = []domain.EntryMethod{domain.MethodAdjustment}

// CashRegisterUseCase handles cash register balances and the daily
// open/close cycle.
type CashRegisterUseCase struct {
	txManager    TransactionManager
	registerRepo CashRegisterRepository
	sessionRepo  RegisterSessionRepository
	entryRepo    EntryRepository
	transferRepo TransferRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	calc         *BalanceCalculator
	recalc       *Recalculator
	location     *time.Location
	metrics      *metrics.Metrics
}

// NewCashRegisterUseCase creates a new CashRegisterUseCase. location is the
// business timezone day boundaries are computed in.
func NewCashRegisterUseCase(
	txManager TransactionManager,
	registerRepo CashRegisterRepository,
	sessionRepo RegisterSessionRepository,
	entryRepo EntryRepository,
	transferRepo TransferRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	calc *BalanceCalculator,
	recalc *Recalculator,
	location *time.Location,
	m *metrics.Metrics,
) *CashRegisterUseCase {
	if location == nil {
		location = time.UTC
	}

	return &CashRegisterUseCase{
		txManager:    txManager,
		registerRepo: registerRepo,
		sessionRepo:  sessionRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		calc:         calc,
		recalc:       recalc,
		location:     location,
		metrics:      m,
	}
}

// GetRegister retrieves a cash register by ID.
func (uc *CashRegisterUseCase) GetRegister(ctx context.Context, id string) (*domain.CashRegister, error) {
	return uc.registerRepo.GetByID(ctx, id)
}

// ListRegisters lists cash registers with pagination.
func (uc *CashRegisterUseCase) ListRegisters(ctx context.Context, limit, offset int) ([]*domain.CashRegister, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)
	return uc.registerRepo.List(ctx, limit, offset)
}

// CalculateBalance folds the register's entries onto its initial balance.
// It reads the ledger only and can be called any number of times.
func (uc *CashRegisterUseCase) CalculateBalance(ctx context.Context, registerID string) (decimal.Decimal, error) {
	return uc.calc.RegisterBalance(ctx, registerID)
}

// RecalculateAndPersist stores the calculated balance in the register cache.
func (uc *CashRegisterUseCase) RecalculateAndPersist(ctx context.Context, registerID string) (decimal.Decimal, error) {
	balance, err := uc.recalc.Register(ctx, registerID)
	if err != nil {
		return decimal.Zero, &domain.RecalculationError{Kind: domain.TargetCashRegister, ID: registerID, Err: err}
	}

	return balance, nil
}

// OpenRegisterInput represents input for opening a register.
type OpenRegisterInput struct {
	At            *time.Time
	RegisterID    string
	UserID        string
	OpeningAmount decimal.Decimal
}

// OpenRegister records the start of a business day. Balances are untouched.
func (uc *CashRegisterUseCase) OpenRegister(ctx context.Context, input OpenRegisterInput) (*domain.RegisterOpening, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingActor
	}

	if input.OpeningAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateScale(input.OpeningAmount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Row lock serializes concurrent open/close on the same register.
	if _, err := uc.registerRepo.GetByIDForUpdate(txCtx, tx, input.RegisterID); err != nil {
		return nil, err
	}

	state, _, err := uc.state(txCtx, tx, input.RegisterID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanOpen(state); err != nil {
		return nil, err
	}

	opening := &domain.RegisterOpening{
		ID:             uc.idGen.Generate(),
		CashRegisterID: input.RegisterID,
		OpeningAmount:  input.OpeningAmount,
		OpenedBy:       input.UserID,
		OpenedAt:       uc.at(input.At),
	}

	if err := uc.sessionRepo.CreateOpening(txCtx, tx, opening); err != nil {
		return nil, err
	}

	event := uc.registerEvent(domain.EventTypeRegisterOpened, input.RegisterID, domain.RegisterEvent{
		CashRegisterID: input.RegisterID,
		RecordID:       opening.ID,
		Amount:         opening.OpeningAmount.String(),
		Actor:          input.UserID,
	})
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RegisterEvents.WithLabelValues("opened").Inc()
	}

	return opening, nil
}

// CloseRegisterInput represents input for closing a register. Nil day totals
// default to the daily summary of the closing day.
type CloseRegisterInput struct {
	At          *time.Time
	DayIncome   *decimal.Decimal
	DayExpense  *decimal.Decimal
	RegisterID  string
	UserID      string
	FinalAmount decimal.Decimal
}

// CloseRegister records the end of a business day, then refreshes the
// register cache and its linked account in the same transaction.
func (uc *CashRegisterUseCase) CloseRegister(ctx context.Context, input CloseRegisterInput) (*domain.RegisterClosing, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingActor
	}

	if input.FinalAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	for _, amount := range []*decimal.Decimal{&input.FinalAmount, input.DayIncome, input.DayExpense} {
		if amount == nil {
			continue
		}
		if err := domain.ValidateScale(*amount); err != nil {
			return nil, err
		}
	}

	closedAt := uc.at(input.At)

	dayIncome, dayExpense, err := uc.dayTotals(ctx, input, closedAt)
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

	register, err := uc.registerRepo.GetByIDForUpdate(txCtx, tx, input.RegisterID)
	if err != nil {
		return nil, err
	}

	state, opening, err := uc.state(txCtx, tx, input.RegisterID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanClose(state); err != nil {
		return nil, err
	}

	closing := &domain.RegisterClosing{
		ID:             uc.idGen.Generate(),
		CashRegisterID: input.RegisterID,
		OpeningID:      opening.ID,
		FinalAmount:    input.FinalAmount,
		DayIncome:      dayIncome,
		DayExpense:     dayExpense,
		ClosedBy:       input.UserID,
		ClosedAt:       closedAt,
	}

	if err := uc.sessionRepo.CreateClosing(txCtx, tx, closing); err != nil {
		return nil, err
	}

	if _, err := uc.recalc.RegisterTx(txCtx, tx, register.ID); err != nil {
		return nil, &domain.RecalculationError{Kind: domain.TargetCashRegister, ID: register.ID, Err: err}
	}

	if register.AccountID != nil {
		if _, err := uc.recalc.AccountTx(txCtx, tx, *register.AccountID); err != nil {
			return nil, &domain.RecalculationError{Kind: domain.TargetAccount, ID: *register.AccountID, Err: err}
		}
	}

	event := uc.registerEvent(domain.EventTypeRegisterClosed, input.RegisterID, domain.RegisterEvent{
		CashRegisterID: input.RegisterID,
		RecordID:       closing.ID,
		Amount:         closing.FinalAmount.String(),
		Actor:          input.UserID,
	})
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RegisterEvents.WithLabelValues("closed").Inc()
	}

	return closing, nil
}

// DailySummary sums the register's income and expense for one business day
// in the configured timezone, leaving out adjustments. A nil date means today.
func (uc *CashRegisterUseCase) DailySummary(ctx context.Context, registerID string, date *time.Time) (*domain.DailySummary, error) {
	if _, err := uc.registerRepo.GetByID(ctx, registerID); err != nil {
		return nil, err
	}

	day := time.Now()
	if date != nil {
		day = *date
	}

	from, to := DayBounds(day, uc.location)

	sums, err := uc.entryRepo.SumByCashRegisterInRange(ctx, registerID, from, to, dailySummaryExcluded)
	if err != nil {
		return nil, err
	}

	return &domain.DailySummary{
		CashRegisterID: registerID,
		Date:           from.In(uc.location).Format(time.DateOnly),
		From:           from,
		To:             to,
		TotalIncome:    sums.Income,
		TotalExpense:   sums.Expense,
	}, nil
}

// ParseDay parses a YYYY-MM-DD calendar day in the business timezone.
func (uc *CashRegisterUseCase) ParseDay(s string) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, s, uc.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}

	return day, nil
}

// DayBounds returns the UTC half-open interval [start, end) covering the
// calendar day of t as seen in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := t.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	return start.UTC(), end.UTC()
}

// History returns openings, closings and transfers touching the register,
// newest first.
func (uc *CashRegisterUseCase) History(ctx context.Context, registerID string) ([]domain.HistoryEvent, error) {
	if _, err := uc.registerRepo.GetByID(ctx, registerID); err != nil {
		return nil, err
	}

	openings, err := uc.sessionRepo.ListOpenings(ctx, registerID)
	if err != nil {
		return nil, err
	}

	closings, err := uc.sessionRepo.ListClosings(ctx, registerID)
	if err != nil {
		return nil, err
	}

	transfers, err := uc.transferRepo.ListByEndpoint(ctx, domain.Endpoint{Kind: domain.EndpointCashRegister, ID: registerID})
	if err != nil {
		return nil, err
	}

	events := make([]domain.HistoryEvent, 0, len(openings)+len(closings)+len(transfers))
	for _, o := range openings {
		events = append(events, domain.HistoryEvent{Kind: domain.HistoryOpening, At: o.OpenedAt, Opening: o})
	}
	for _, c := range closings {
		events = append(events, domain.HistoryEvent{Kind: domain.HistoryClosing, At: c.ClosedAt, Closing: c})
	}
	for _, t := range transfers {
		events = append(events, domain.HistoryEvent{Kind: domain.HistoryTransfer, At: t.CreatedAt, Transfer: t})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.After(events[j].At)
	})

	return events, nil
}

// ListEntries lists the ledger entries scoped to a register.
func (uc *CashRegisterUseCase) ListEntries(ctx context.Context, registerID string, limit, offset int) ([]*domain.Entry, error) {
	if _, err := uc.registerRepo.GetByID(ctx, registerID); err != nil {
		return nil, err
	}

	limit, offset, _ = domain.ValidatePagination(limit, offset)
	return uc.entryRepo.GetByCashRegister(ctx, registerID, limit, offset)
}

// SetInitialBalanceInput represents input for the privileged initial
// balance correction.
type SetInitialBalanceInput struct {
	RegisterID     string
	UserID         string
	InitialBalance decimal.Decimal
}

// SetInitialBalance replaces a register's initial balance and refreshes the
// caches that depend on it. Daily summaries never read it and are unchanged.
func (uc *CashRegisterUseCase) SetInitialBalance(ctx context.Context, input SetInitialBalanceInput) (*domain.CashRegister, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingActor
	}

	if err := domain.ValidateInitialBalance(input.InitialBalance); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	register, err := uc.registerRepo.GetByIDForUpdate(txCtx, tx, input.RegisterID)
	if err != nil {
		return nil, err
	}

	if err := uc.registerRepo.UpdateInitialBalance(txCtx, tx, register.ID, input.InitialBalance, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	targets := []RecalcTarget{{Kind: domain.TargetCashRegister, ID: register.ID}}
	if register.AccountID != nil {
		targets = append(targets, RecalcTarget{Kind: domain.TargetAccount, ID: *register.AccountID})
	}
	_ = uc.recalc.Refresh(ctx, targets)

	return uc.registerRepo.GetByID(ctx, register.ID)
}

func (uc *CashRegisterUseCase) state(ctx context.Context, tx Transaction, registerID string) (domain.RegisterState, *domain.RegisterOpening, error) {
	opening, err := uc.sessionRepo.LatestOpening(ctx, tx, registerID)
	if err != nil {
		return "", nil, err
	}

	var closing *domain.RegisterClosing
	if opening != nil {
		closing, err = uc.sessionRepo.ClosingForOpening(ctx, tx, opening.ID)
		if err != nil {
			return "", nil, err
		}
	}

	return domain.StateOf(opening, closing), opening, nil
}

func (uc *CashRegisterUseCase) dayTotals(ctx context.Context, input CloseRegisterInput, closedAt time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if input.DayIncome != nil && input.DayExpense != nil {
		return *input.DayIncome, *input.DayExpense, nil
	}

	summary, err := uc.DailySummary(ctx, input.RegisterID, &closedAt)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	income, expense := summary.TotalIncome, summary.TotalExpense
	if input.DayIncome != nil {
		income = *input.DayIncome
	}
	if input.DayExpense != nil {
		expense = *input.DayExpense
	}

	return income, expense, nil
}

func (uc *CashRegisterUseCase) at(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}

	return time.Now().UTC()
}

func (uc *CashRegisterUseCase) registerEvent(eventType, registerID string, payload domain.RegisterEvent) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   registerID,
		AggregateType: domain.AggregateTypeCashRegister,
		EventType:     eventType,
		Payload:       payload.ToPayload(),
		CreatedAt:     time.Now().UTC(),
	}
}
