package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createBankAccount = `-- name: CreateBankAccount :one
INSERT INTO bank_accounts (id, account_id, bank_name, account_number, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, account_id, bank_name, account_number, created_at
`

type CreateBankAccountParams struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	BankName      string             `json:"bank_name"`
	AccountNumber string             `json:"account_number"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateBankAccount(ctx context.Context, arg CreateBankAccountParams) (BankAccount, error) {
	row := q.db.QueryRow(ctx, createBankAccount,
		arg.ID,
		arg.AccountID,
		arg.BankName,
		arg.AccountNumber,
		arg.CreatedAt,
	)
	var i BankAccount
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.BankName,
		&i.AccountNumber,
		&i.CreatedAt,
	)
	return i, err
}

const getBankAccountByID = `-- name: GetBankAccountByID :one
SELECT id, account_id, bank_name, account_number, created_at FROM bank_accounts WHERE id = $1
`

func (q *Queries) GetBankAccountByID(ctx context.Context, id string) (BankAccount, error) {
	row := q.db.QueryRow(ctx, getBankAccountByID, id)
	var i BankAccount
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.BankName,
		&i.AccountNumber,
		&i.CreatedAt,
	)
	return i, err
}

const listBankAccounts = `-- name: ListBankAccounts :many
SELECT id, account_id, bank_name, account_number, created_at FROM bank_accounts ORDER BY bank_name, account_number LIMIT $1 OFFSET $2
`

type ListBankAccountsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListBankAccounts(ctx context.Context, arg ListBankAccountsParams) ([]BankAccount, error) {
	rows, err := q.db.Query(ctx, listBankAccounts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BankAccount{}
	for rows.Next() {
		var i BankAccount
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.BankName,
			&i.AccountNumber,
			&i.CreatedAt,
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

const listBankAccountsByAccount = `-- name: ListBankAccountsByAccount :many
SELECT id, account_id, bank_name, account_number, created_at FROM bank_accounts WHERE account_id = $1 ORDER BY created_at
`

func (q *Queries) ListBankAccountsByAccount(ctx context.Context, accountID string) ([]BankAccount, error) {
	rows, err := q.db.Query(ctx, listBankAccountsByAccount, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BankAccount{}
	for rows.Next() {
		var i BankAccount
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.BankName,
			&i.AccountNumber,
			&i.CreatedAt,
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
