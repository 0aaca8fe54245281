package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const adjustAccountCurrentBalance = `-- name: AdjustAccountCurrentBalance :exec
UPDATE accounts
SET current_balance = current_balance + $2, updated_at = $3
WHERE id = $1
`

type AdjustAccountCurrentBalanceParams struct {
	ID        string             `json:"id"`
	Delta     pgtype.Numeric     `json:"delta"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) AdjustAccountCurrentBalance(ctx context.Context, arg AdjustAccountCurrentBalanceParams) error {
	_, err := q.db.Exec(ctx, adjustAccountCurrentBalance, arg.ID, arg.Delta, arg.UpdatedAt)
	return err
}

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (id, code, name, category_id, initial_balance, current_balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, code, name, category_id, initial_balance, current_balance, created_at, updated_at
`

type CreateAccountParams struct {
	ID             string             `json:"id"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	CategoryID     *string            `json:"category_id"`
	InitialBalance pgtype.Numeric     `json:"initial_balance"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount,
		arg.ID,
		arg.Code,
		arg.Name,
		arg.CategoryID,
		arg.InitialBalance,
		arg.CurrentBalance,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.CategoryID,
		&i.InitialBalance,
		&i.CurrentBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, code, name, category_id, initial_balance, current_balance, created_at, updated_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.CategoryID,
		&i.InitialBalance,
		&i.CurrentBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, code, name, category_id, initial_balance, current_balance, created_at, updated_at FROM accounts ORDER BY code LIMIT $1 OFFSET $2
`

type ListAccountsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Name,
			&i.CategoryID,
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

const listAccountsByCategories = `-- name: ListAccountsByCategories :many
SELECT id, code, name, category_id, initial_balance, current_balance, created_at, updated_at FROM accounts WHERE category_id = ANY($1::text[]) ORDER BY code
`

func (q *Queries) ListAccountsByCategories(ctx context.Context, dollar_1 []string) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsByCategories, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Name,
			&i.CategoryID,
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

const updateAccountCurrentBalance = `-- name: UpdateAccountCurrentBalance :exec
UPDATE accounts
SET current_balance = $2, updated_at = $3
WHERE id = $1
`

type UpdateAccountCurrentBalanceParams struct {
	ID             string             `json:"id"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountCurrentBalance(ctx context.Context, arg UpdateAccountCurrentBalanceParams) error {
	_, err := q.db.Exec(ctx, updateAccountCurrentBalance, arg.ID, arg.CurrentBalance, arg.UpdatedAt)
	return err
}
