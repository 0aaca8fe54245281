package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const checkLedgerConsistency = `-- name: CheckLedgerConsistency :one
SELECT
    COALESCE(SUM(amount) FILTER (WHERE type = 'ingreso'), 0)::NUMERIC AS total_income,
    COALESCE(SUM(amount) FILTER (WHERE type = 'gasto'), 0)::NUMERIC AS total_expense
FROM entries
WHERE transfer_id IS NOT NULL
`

type CheckLedgerConsistencyRow struct {
	TotalIncome  pgtype.Numeric `json:"total_income"`
	TotalExpense pgtype.Numeric `json:"total_expense"`
}

func (q *Queries) CheckLedgerConsistency(ctx context.Context) (CheckLedgerConsistencyRow, error) {
	row := q.db.QueryRow(ctx, checkLedgerConsistency)
	var i CheckLedgerConsistencyRow
	err := row.Scan(&i.TotalIncome, &i.TotalExpense)
	return i, err
}
