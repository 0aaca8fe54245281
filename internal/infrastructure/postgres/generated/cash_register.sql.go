package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCashRegister = `-- name: CreateCashRegister :one
INSERT INTO cash_registers (id, name, type, account_id, initial_balance, current_balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, name, type, account_id, initial_balance, current_balance, created_at, updated_at
`

type CreateCashRegisterParams struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	AccountID      *string            `json:"account_id"`
	InitialBalance pgtype.Numeric     `json:"initial_balance"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateCashRegister(ctx context.Context, arg CreateCashRegisterParams) (CashRegister, error) {
	row := q.db.QueryRow(ctx, createCashRegister,
		arg.ID,
		arg.Name,
		arg.Type,
		arg.AccountID,
		arg.InitialBalance,
		arg.CurrentBalance,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i CashRegister
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Type,
		&i.AccountID,
		&i.InitialBalance,
		&i.CurrentBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCashRegisterByID = `-- name: GetCashRegisterByID :one
SELECT id, name, type, account_id, initial_balance, current_balance, created_at, updated_at FROM cash_registers WHERE id = $1
`

func (q *Queries) GetCashRegisterByID(ctx context.Context, id string) (CashRegister, error) {
	row := q.db.QueryRow(ctx, getCashRegisterByID, id)
	var i CashRegister
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Type,
		&i.AccountID,
		&i.InitialBalance,
		&i.CurrentBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCashRegisterByIDForUpdate = `-- name: GetCashRegisterByIDForUpdate :one
SELECT id, name, type, account_id, initial_balance, current_balance, created_at, updated_at FROM cash_registers WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetCashRegisterByIDForUpdate(ctx context.Context, id string) (CashRegister, error) {
	row := q.db.QueryRow(ctx, getCashRegisterByIDForUpdate, id)
	var i CashRegister
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Type,
		&i.AccountID,
		&i.InitialBalance,
		&i.CurrentBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCashRegisters = `-- name: ListCashRegisters :many
SELECT id, name, type, account_id, initial_balance, current_balance, created_at, updated_at FROM cash_registers ORDER BY name LIMIT $1 OFFSET $2
`

type ListCashRegistersParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListCashRegisters(ctx context.Context, arg ListCashRegistersParams) ([]CashRegister, error) {
	rows, err := q.db.Query(ctx, listCashRegisters, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CashRegister{}
	for rows.Next() {
		var i CashRegister
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Type,
			&i.AccountID,
			&i.InitialBalance,
			&i.CurrentBalance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listCashRegistersByAccount = `-- name: ListCashRegistersByAccount :many
SELECT id, name, type, account_id, initial_balance, current_balance, created_at, updated_at FROM cash_registers WHERE account_id = $1 ORDER BY name
`

func (q *Queries) ListCashRegistersByAccount(ctx context.Context, accountID *string) ([]CashRegister, error) {
	rows, err := q.db.Query(ctx, listCashRegistersByAccount, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CashRegister{}
	for rows.Next() {
		var i CashRegister
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Type,
			&i.AccountID,
			&i.InitialBalance,
			&i.CurrentBalance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateCashRegisterCurrentBalance = `-- name: UpdateCashRegisterCurrentBalance :exec
UPDATE cash_registers
SET current_balance = $2, updated_at = $3
WHERE id = $1
`

type UpdateCashRegisterCurrentBalanceParams struct {
	ID             string             `json:"id"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCashRegisterCurrentBalance(ctx context.Context, arg UpdateCashRegisterCurrentBalanceParams) error {
	_, err := q.db.Exec(ctx, updateCashRegisterCurrentBalance, arg.ID, arg.CurrentBalance, arg.UpdatedAt)
	return err
}

const updateCashRegisterInitialBalance = `-- name: UpdateCashRegisterInitialBalance :exec
UPDATE cash_registers
SET initial_balance = $2, updated_at = $3
WHERE id = $1
`

type UpdateCashRegisterInitialBalanceParams struct {
	ID             string             `json:"id"`
	InitialBalance pgtype.Numeric     `json:"initial_balance"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCashRegisterInitialBalance(ctx context.Context, arg UpdateCashRegisterInitialBalanceParams) error {
	_, err := q.db.Exec(ctx, updateCashRegisterInitialBalance, arg.ID, arg.InitialBalance, arg.UpdatedAt)
	return err
}
