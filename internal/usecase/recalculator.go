package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/metrics"
)

// RecalcTarget names one cached balance.
type RecalcTarget struct {
	Kind string
	ID   string
}

func (t RecalcTarget) String() string {
	return t.Kind + ":" + t.ID
}

// ParseRecalcTarget parses the String form of a target.
func ParseRecalcTarget(s string) (RecalcTarget, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return RecalcTarget{}, fmt.Errorf("%w: malformed recalculation target %q", domain.ErrValidation, s)
	}

	switch kind {
	case domain.TargetCashRegister, domain.TargetAccount:
		return RecalcTarget{Kind: kind, ID: id}, nil
	}

	return RecalcTarget{}, fmt.Errorf("%w: unknown recalculation target kind %q", domain.ErrValidation, kind)
}

type targetSet struct {
	seen  map[RecalcTarget]bool
	order []RecalcTarget
}

func newTargetSet() *targetSet {
	return &targetSet{seen: make(map[RecalcTarget]bool)}
}

func (s *targetSet) add(t RecalcTarget) {
	if t.ID == "" || s.seen[t] {
		return
	}
	s.seen[t] = true
	s.order = append(s.order, t)
}

func (s *targetSet) list() []RecalcTarget {
	return s.order
}

// Recalculator persists freshly folded balances into the caches.
type Recalculator struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	registerRepo CashRegisterRepository
	calc         *BalanceCalculator
	queue        RecalcQueue
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewRecalculator creates a new Recalculator. queue and m may be nil.
func NewRecalculator(
	txManager TransactionManager,
	accountRepo AccountRepository,
	registerRepo CashRegisterRepository,
	calc *BalanceCalculator,
	queue RecalcQueue,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *Recalculator {
	return &Recalculator{
		txManager:    txManager,
		accountRepo:  accountRepo,
		registerRepo: registerRepo,
		calc:         calc,
		queue:        queue,
		logger:       logger,
		metrics:      m,
	}
}

// Register recalculates and stores a cash register's balance.
func (r *Recalculator) Register(ctx context.Context, registerID string) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := r.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		balance, err = r.RegisterTx(txCtx, tx, registerID)
		return err
	})

	return balance, err
}

// RegisterTx is Register inside a caller-owned transaction.
func (r *Recalculator) RegisterTx(ctx context.Context, tx Transaction, registerID string) (decimal.Decimal, error) {
	balance, err := r.calc.RegisterBalance(ctx, registerID)
	if err != nil {
		return decimal.Zero, err
	}

	if err := r.registerRepo.UpdateCurrentBalance(ctx, tx, registerID, balance, time.Now().UTC()); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

// Account recalculates and stores an account's balance.
func (r *Recalculator) Account(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := r.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		balance, err = r.AccountTx(txCtx, tx, accountID)
		return err
	})

	return balance, err
}

// AccountTx is Account inside a caller-owned transaction.
func (r *Recalculator) AccountTx(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error) {
	balance, _, err := r.calc.AccountBalance(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	if err := r.accountRepo.UpdateCurrentBalance(ctx, tx, accountID, balance, time.Now().UTC()); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

// Apply recalculates one target.
func (r *Recalculator) Apply(ctx context.Context, target RecalcTarget) error {
	var err error

	switch target.Kind {
	case domain.TargetCashRegister:
		_, err = r.Register(ctx, target.ID)
	case domain.TargetAccount:
		_, err = r.Account(ctx, target.ID)
	default:
		err = fmt.Errorf("%w: unknown target kind %q", domain.ErrValidation, target.Kind)
	}

	if r.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		r.metrics.Recalculations.WithLabelValues(target.Kind, status).Inc()
	}

	if err != nil {
		return &domain.RecalculationError{Kind: target.Kind, ID: target.ID, Err: err}
	}

	return nil
}

// Refresh recalculates every target after a committed write. Failures never
// undo the write: they are logged and queued for the background reconciler,
// and returned joined for callers that want them.
func (r *Recalculator) Refresh(ctx context.Context, targets []RecalcTarget) error {
	var (
		errs   []error
		failed []RecalcTarget
	)

	for _, t := range targets {
		if err := r.Apply(ctx, t); err != nil {
			r.logger.Warn().Err(err).Str("target", t.String()).Msg("post-commit recalculation failed, queued for retry")
			errs = append(errs, err)
			failed = append(failed, t)
		}
	}

	if len(failed) > 0 && r.queue != nil {
		if err := r.queue.Enqueue(ctx, failed...); err != nil {
			r.logger.Error().Err(err).Int("targets", len(failed)).Msg("failed to queue recalculation retry")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Recalculator) inTx(ctx context.Context, fn func(txCtx context.Context, tx Transaction) error) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := r.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}
