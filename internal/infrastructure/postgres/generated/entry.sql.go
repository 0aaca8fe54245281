package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createEntry = `-- name: CreateEntry :one
INSERT INTO entries (id, type, amount, method, date, cash_register_id, bank_account_id, category_id, transfer_id, description, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, type, amount, method, date, cash_register_id, bank_account_id, category_id, transfer_id, description, created_by, created_at
`

type CreateEntryParams struct {
	ID             string             `json:"id"`
	Type           string             `json:"type"`
	Amount         pgtype.Numeric     `json:"amount"`
	Method         string             `json:"method"`
	Date           pgtype.Timestamptz `json:"date"`
	CashRegisterID *string            `json:"cash_register_id"`
	BankAccountID  *string            `json:"bank_account_id"`
	CategoryID     *string            `json:"category_id"`
	TransferID     *string            `json:"transfer_id"`
	Description    string             `json:"description"`
	CreatedBy      string             `json:"created_by"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (Entry, error) {
	row := q.db.QueryRow(ctx, createEntry,
		arg.ID,
		arg.Type,
		arg.Amount,
		arg.Method,
		arg.Date,
		arg.CashRegisterID,
		arg.BankAccountID,
		arg.CategoryID,
		arg.TransferID,
		arg.Description,
		arg.CreatedBy,
		arg.CreatedAt,
	)
	var i Entry
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Amount,
		&i.Method,
		&i.Date,
		&i.CashRegisterID,
		&i.BankAccountID,
		&i.CategoryID,
		&i.TransferID,
		&i.Description,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

const deleteEntriesByTransfer = `-- name: DeleteEntriesByTransfer :execrows
DELETE FROM entries WHERE transfer_id = $1
`

func (q *Queries) DeleteEntriesByTransfer(ctx context.Context, transferID *string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteEntriesByTransfer, transferID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getEntriesByCashRegister = `-- name: GetEntriesByCashRegister :many
SELECT id, type, amount, method, date, cash_register_id, bank_account_id, category_id, transfer_id, description, created_by, created_at FROM entries
WHERE cash_register_id = $1
ORDER BY date DESC, id DESC
LIMIT $2 OFFSET $3
`

type GetEntriesByCashRegisterParams struct {
	CashRegisterID *string `json:"cash_register_id"`
	Limit          int32   `json:"limit"`
	Offset         int32   `json:"offset"`
}

func (q *Queries) GetEntriesByCashRegister(ctx context.Context, arg GetEntriesByCashRegisterParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, getEntriesByCashRegister, arg.CashRegisterID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.Type,
			&i.Amount,
			&i.Method,
			&i.Date,
			&i.CashRegisterID,
			&i.BankAccountID,
			&i.CategoryID,
			&i.TransferID,
			&i.Description,
			&i.CreatedBy,
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

const getEntriesByTransfer = `-- name: GetEntriesByTransfer :many
SELECT id, type, amount, method, date, cash_register_id, bank_account_id, category_id, transfer_id, description, created_by, created_at FROM entries
WHERE transfer_id = $1
ORDER BY created_at, id
`

func (q *Queries) GetEntriesByTransfer(ctx context.Context, transferID *string) ([]Entry, error) {
	rows, err := q.db.Query(ctx, getEntriesByTransfer, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.Type,
			&i.Amount,
			&i.Method,
			&i.Date,
			&i.CashRegisterID,
			&i.BankAccountID,
			&i.CategoryID,
			&i.TransferID,
			&i.Description,
			&i.CreatedBy,
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

const sumEntriesByBankAccount = `-- name: SumEntriesByBankAccount :one
SELECT
    COALESCE(SUM(amount) FILTER (WHERE type = 'ingreso'), 0)::NUMERIC AS total_income,
    COALESCE(SUM(amount) FILTER (WHERE type = 'gasto'), 0)::NUMERIC AS total_expense
FROM entries
WHERE bank_account_id = $1
`

type SumEntriesByBankAccountRow struct {
	TotalIncome  pgtype.Numeric `json:"total_income"`
	TotalExpense pgtype.Numeric `json:"total_expense"`
}

func (q *Queries) SumEntriesByBankAccount(ctx context.Context, bankAccountID *string) (SumEntriesByBankAccountRow, error) {
	row := q.db.QueryRow(ctx, sumEntriesByBankAccount, bankAccountID)
	var i SumEntriesByBankAccountRow
	err := row.Scan(&i.TotalIncome, &i.TotalExpense)
	return i, err
}

const sumEntriesByCashRegister = `-- name: SumEntriesByCashRegister :one
SELECT
    COALESCE(SUM(amount) FILTER (WHERE type = 'ingreso'), 0)::NUMERIC AS total_income,
    COALESCE(SUM(amount) FILTER (WHERE type = 'gasto'), 0)::NUMERIC AS total_expense
FROM entries
WHERE cash_register_id = $1
`

type SumEntriesByCashRegisterRow struct {
	TotalIncome  pgtype.Numeric `json:"total_income"`
	TotalExpense pgtype.Numeric `json:"total_expense"`
}

func (q *Queries) SumEntriesByCashRegister(ctx context.Context, cashRegisterID *string) (SumEntriesByCashRegisterRow, error) {
	row := q.db.QueryRow(ctx, sumEntriesByCashRegister, cashRegisterID)
	var i SumEntriesByCashRegisterRow
	err := row.Scan(&i.TotalIncome, &i.TotalExpense)
	return i, err
}

const sumEntriesByCashRegisterInRange = `-- name: SumEntriesByCashRegisterInRange :one
SELECT
    COALESCE(SUM(amount) FILTER (WHERE type = 'ingreso'), 0)::NUMERIC AS total_income,
    COALESCE(SUM(amount) FILTER (WHERE type = 'gasto'), 0)::NUMERIC AS total_expense
FROM entries
WHERE cash_register_id = $1
  AND date >= $2
  AND date < $3
  AND NOT (method = ANY($4::text[]))
`

type SumEntriesByCashRegisterInRangeParams struct {
	CashRegisterID  *string            `json:"cash_register_id"`
	FromDate        pgtype.Timestamptz `json:"from_date"`
	ToDate          pgtype.Timestamptz `json:"to_date"`
	ExcludedMethods []string           `json:"excluded_methods"`
}

type SumEntriesByCashRegisterInRangeRow struct {
	TotalIncome  pgtype.Numeric `json:"total_income"`
	TotalExpense pgtype.Numeric `json:"total_expense"`
}

func (q *Queries) SumEntriesByCashRegisterInRange(ctx context.Context, arg SumEntriesByCashRegisterInRangeParams) (SumEntriesByCashRegisterInRangeRow, error) {
	row := q.db.QueryRow(ctx, sumEntriesByCashRegisterInRange,
		arg.CashRegisterID,
		arg.FromDate,
		arg.ToDate,
		arg.ExcludedMethods,
	)
	var i SumEntriesByCashRegisterInRangeRow
	err := row.Scan(&i.TotalIncome, &i.TotalExpense)
	return i, err
}

const sumEntriesByCategories = `-- name: SumEntriesByCategories :one
SELECT
    COALESCE(SUM(amount) FILTER (WHERE type = 'ingreso'), 0)::NUMERIC AS total_income,
    COALESCE(SUM(amount) FILTER (WHERE type = 'gasto'), 0)::NUMERIC AS total_expense
FROM entries
WHERE category_id = ANY($1::text[])
`

type SumEntriesByCategoriesRow struct {
	TotalIncome  pgtype.Numeric `json:"total_income"`
	TotalExpense pgtype.Numeric `json:"total_expense"`
}

func (q *Queries) SumEntriesByCategories(ctx context.Context, dollar_1 []string) (SumEntriesByCategoriesRow, error) {
	row := q.db.QueryRow(ctx, sumEntriesByCategories, dollar_1)
	var i SumEntriesByCategoriesRow
	err := row.Scan(&i.TotalIncome, &i.TotalExpense)
	return i, err
}
