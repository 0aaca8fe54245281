package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createRegisterClosing = `-- name: CreateRegisterClosing :exec
INSERT INTO register_closings (id, cash_register_id, opening_id, final_amount, day_income, day_expense, closed_by, closed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateRegisterClosingParams struct {
	ID             string             `json:"id"`
	CashRegisterID string             `json:"cash_register_id"`
	OpeningID      string             `json:"opening_id"`
	FinalAmount    pgtype.Numeric     `json:"final_amount"`
	DayIncome      pgtype.Numeric     `json:"day_income"`
	DayExpense     pgtype.Numeric     `json:"day_expense"`
	ClosedBy       string             `json:"closed_by"`
	ClosedAt       pgtype.Timestamptz `json:"closed_at"`
}

func (q *Queries) CreateRegisterClosing(ctx context.Context, arg CreateRegisterClosingParams) error {
	_, err := q.db.Exec(ctx, createRegisterClosing,
		arg.ID,
		arg.CashRegisterID,
		arg.OpeningID,
		arg.FinalAmount,
		arg.DayIncome,
		arg.DayExpense,
		arg.ClosedBy,
		arg.ClosedAt,
	)
	return err
}

const createRegisterOpening = `-- name: CreateRegisterOpening :exec
INSERT INTO register_openings (id, cash_register_id, opening_amount, opened_by, opened_at)
VALUES ($1, $2, $3, $4, $5)
`

type CreateRegisterOpeningParams struct {
	ID             string             `json:"id"`
	CashRegisterID string             `json:"cash_register_id"`
	OpeningAmount  pgtype.Numeric     `json:"opening_amount"`
	OpenedBy       string             `json:"opened_by"`
	OpenedAt       pgtype.Timestamptz `json:"opened_at"`
}

func (q *Queries) CreateRegisterOpening(ctx context.Context, arg CreateRegisterOpeningParams) error {
	_, err := q.db.Exec(ctx, createRegisterOpening,
		arg.ID,
		arg.CashRegisterID,
		arg.OpeningAmount,
		arg.OpenedBy,
		arg.OpenedAt,
	)
	return err
}

const getClosingForOpening = `-- name: GetClosingForOpening :one
SELECT id, cash_register_id, opening_id, final_amount, day_income, day_expense, closed_by, closed_at FROM register_closings WHERE opening_id = $1
`

func (q *Queries) GetClosingForOpening(ctx context.Context, openingID string) (RegisterClosing, error) {
	row := q.db.QueryRow(ctx, getClosingForOpening, openingID)
	var i RegisterClosing
	err := row.Scan(
		&i.ID,
		&i.CashRegisterID,
		&i.OpeningID,
		&i.FinalAmount,
		&i.DayIncome,
		&i.DayExpense,
		&i.ClosedBy,
		&i.ClosedAt,
	)
	return i, err
}

const getLatestRegisterOpening = `-- name: GetLatestRegisterOpening :one
SELECT id, cash_register_id, opening_amount, opened_by, opened_at FROM register_openings
WHERE cash_register_id = $1
ORDER BY opened_at DESC, id DESC
LIMIT 1
`

func (q *Queries) GetLatestRegisterOpening(ctx context.Context, cashRegisterID string) (RegisterOpening, error) {
	row := q.db.QueryRow(ctx, getLatestRegisterOpening, cashRegisterID)
	var i RegisterOpening
	err := row.Scan(
		&i.ID,
		&i.CashRegisterID,
		&i.OpeningAmount,
		&i.OpenedBy,
		&i.OpenedAt,
	)
	return i, err
}

const listRegisterClosings = `-- name: ListRegisterClosings :many
SELECT id, cash_register_id, opening_id, final_amount, day_income, day_expense, closed_by, closed_at FROM register_closings
WHERE cash_register_id = $1
ORDER BY closed_at DESC, id DESC
`

func (q *Queries) ListRegisterClosings(ctx context.Context, cashRegisterID string) ([]RegisterClosing, error) {
	rows, err := q.db.Query(ctx, listRegisterClosings, cashRegisterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []RegisterClosing{}
	for rows.Next() {
		var i RegisterClosing
		if err := rows.Scan(
			&i.ID,
			&i.CashRegisterID,
			&i.OpeningID,
			&i.FinalAmount,
			&i.DayIncome,
			&i.DayExpense,
			&i.ClosedBy,
			&i.ClosedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRegisterOpenings = `-- name: ListRegisterOpenings :many
SELECT id, cash_register_id, opening_amount, opened_by, opened_at FROM register_openings
WHERE cash_register_id = $1
ORDER BY opened_at DESC, id DESC
`

func (q *Queries) ListRegisterOpenings(ctx context.Context, cashRegisterID string) ([]RegisterOpening, error) {
	rows, err := q.db.Query(ctx, listRegisterOpenings, cashRegisterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []RegisterOpening{}
	for rows.Next() {
		var i RegisterOpening
		if err := rows.Scan(
			&i.ID,
			&i.CashRegisterID,
			&i.OpeningAmount,
			&i.OpenedBy,
			&i.OpenedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
