package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cajaledger/internal/usecase"
)

// RegisterSessionRepository implements usecase.RegisterSessionRepository.
type RegisterSessionRepository struct {
	queries *generated.Queries
}

// NewRegisterSessionRepository creates a new RegisterSessionRepository.
func NewRegisterSessionRepository(db generated.DBTX) *RegisterSessionRepository {
	return &RegisterSessionRepository{
		queries: generated.New(db),
	}
}

// CreateOpening stores an opening record.
func (r *RegisterSessionRepository) CreateOpening(ctx context.Context, tx usecase.Transaction, opening *domain.RegisterOpening) error {
	return txQueries(tx).CreateRegisterOpening(ctx, generated.CreateRegisterOpeningParams{
		ID:             opening.ID,
		CashRegisterID: opening.CashRegisterID,
		OpeningAmount:  decimalToNumeric(opening.OpeningAmount),
		OpenedBy:       opening.OpenedBy,
		OpenedAt:       timeToPgTimestamptz(opening.OpenedAt),
	})
}

// CreateClosing stores a closing record.
func (r *RegisterSessionRepository) CreateClosing(ctx context.Context, tx usecase.Transaction, closing *domain.RegisterClosing) error {
	return txQueries(tx).CreateRegisterClosing(ctx, generated.CreateRegisterClosingParams{
		ID:             closing.ID,
		CashRegisterID: closing.CashRegisterID,
		OpeningID:      closing.OpeningID,
		FinalAmount:    decimalToNumeric(closing.FinalAmount),
		DayIncome:      decimalToNumeric(closing.DayIncome),
		DayExpense:     decimalToNumeric(closing.DayExpense),
		ClosedBy:       closing.ClosedBy,
		ClosedAt:       timeToPgTimestamptz(closing.ClosedAt),
	})
}

// LatestOpening returns the register's most recent opening, or nil.
func (r *RegisterSessionRepository) LatestOpening(ctx context.Context, tx usecase.Transaction, registerID string) (*domain.RegisterOpening, error) {
	row, err := r.queriesFor(tx).GetLatestRegisterOpening(ctx, registerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return rowToOpening(row), nil
}

// ClosingForOpening returns the closing paired with an opening, or nil.
func (r *RegisterSessionRepository) ClosingForOpening(ctx context.Context, tx usecase.Transaction, openingID string) (*domain.RegisterClosing, error) {
	row, err := r.queriesFor(tx).GetClosingForOpening(ctx, openingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return rowToClosing(row), nil
}

// ListOpenings lists a register's openings, newest first.
func (r *RegisterSessionRepository) ListOpenings(ctx context.Context, registerID string) ([]*domain.RegisterOpening, error) {
	rows, err := r.queries.ListRegisterOpenings(ctx, registerID)
	if err != nil {
		return nil, err
	}

	openings := make([]*domain.RegisterOpening, 0, len(rows))
	for _, row := range rows {
		openings = append(openings, rowToOpening(row))
	}

	return openings, nil
}

// ListClosings lists a register's closings, newest first.
func (r *RegisterSessionRepository) ListClosings(ctx context.Context, registerID string) ([]*domain.RegisterClosing, error) {
	rows, err := r.queries.ListRegisterClosings(ctx, registerID)
	if err != nil {
		return nil, err
	}

	closings := make([]*domain.RegisterClosing, 0, len(rows))
	for _, row := range rows {
		closings = append(closings, rowToClosing(row))
	}

	return closings, nil
}

func (r *RegisterSessionRepository) queriesFor(tx usecase.Transaction) *generated.Queries {
	if tx == nil {
		return r.queries
	}

	return txQueries(tx)
}

func rowToOpening(row generated.RegisterOpening) *domain.RegisterOpening {
	return &domain.RegisterOpening{
		ID:             row.ID,
		CashRegisterID: row.CashRegisterID,
		OpeningAmount:  numericToDecimal(row.OpeningAmount),
		OpenedBy:       row.OpenedBy,
		OpenedAt:       row.OpenedAt.Time,
	}
}

func rowToClosing(row generated.RegisterClosing) *domain.RegisterClosing {
	return &domain.RegisterClosing{
		ID:             row.ID,
		CashRegisterID: row.CashRegisterID,
		OpeningID:      row.OpeningID,
		FinalAmount:    numericToDecimal(row.FinalAmount),
		DayIncome:      numericToDecimal(row.DayIncome),
		DayExpense:     numericToDecimal(row.DayExpense),
		ClosedBy:       row.ClosedBy,
		ClosedAt:       row.ClosedAt.Time,
	}
}
