package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransfer = `-- name: CreateTransfer :one
INSERT INTO transfers (id, number, amount, concept, origin_kind, origin_id, destination_kind, destination_id, status, created_by, updated_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, number, amount, concept, origin_kind, origin_id, destination_kind, destination_id, status, created_by, updated_by, created_at, updated_at
`

type CreateTransferParams struct {
	ID              string             `json:"id"`
	Number          string             `json:"number"`
	Amount          pgtype.Numeric     `json:"amount"`
	Concept         string             `json:"concept"`
	OriginKind      string             `json:"origin_kind"`
	OriginID        string             `json:"origin_id"`
	DestinationKind string             `json:"destination_kind"`
	DestinationID   string             `json:"destination_id"`
	Status          string             `json:"status"`
	CreatedBy       string             `json:"created_by"`
	UpdatedBy       string             `json:"updated_by"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateTransfer(ctx context.Context, arg CreateTransferParams) (Transfer, error) {
	row := q.db.QueryRow(ctx, createTransfer,
		arg.ID,
		arg.Number,
		arg.Amount,
		arg.Concept,
		arg.OriginKind,
		arg.OriginID,
		arg.DestinationKind,
		arg.DestinationID,
		arg.Status,
		arg.CreatedBy,
		arg.UpdatedBy,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Transfer
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Amount,
		&i.Concept,
		&i.OriginKind,
		&i.OriginID,
		&i.DestinationKind,
		&i.DestinationID,
		&i.Status,
		&i.CreatedBy,
		&i.UpdatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteTransfer = `-- name: DeleteTransfer :execrows
DELETE FROM transfers WHERE id = $1
`

func (q *Queries) DeleteTransfer(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTransfer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getTransferByID = `-- name: GetTransferByID :one
SELECT id, number, amount, concept, origin_kind, origin_id, destination_kind, destination_id, status, created_by, updated_by, created_at, updated_at FROM transfers WHERE id = $1
`

func (q *Queries) GetTransferByID(ctx context.Context, id string) (Transfer, error) {
	row := q.db.QueryRow(ctx, getTransferByID, id)
	var i Transfer
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Amount,
		&i.Concept,
		&i.OriginKind,
		&i.OriginID,
		&i.DestinationKind,
		&i.DestinationID,
		&i.Status,
		&i.CreatedBy,
		&i.UpdatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getTransferByIDForUpdate = `-- name: GetTransferByIDForUpdate :one
SELECT id, number, amount, concept, origin_kind, origin_id, destination_kind, destination_id, status, created_by, updated_by, created_at, updated_at FROM transfers WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetTransferByIDForUpdate(ctx context.Context, id string) (Transfer, error) {
	row := q.db.QueryRow(ctx, getTransferByIDForUpdate, id)
	var i Transfer
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Amount,
		&i.Concept,
		&i.OriginKind,
		&i.OriginID,
		&i.DestinationKind,
		&i.DestinationID,
		&i.Status,
		&i.CreatedBy,
		&i.UpdatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTransfers = `-- name: ListTransfers :many
SELECT id, number, amount, concept, origin_kind, origin_id, destination_kind, destination_id, status, created_by, updated_by, created_at, updated_at FROM transfers
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

type ListTransfersParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListTransfers(ctx context.Context, arg ListTransfersParams) ([]Transfer, error) {
	rows, err := q.db.Query(ctx, listTransfers, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transfer{}
	for rows.Next() {
		var i Transfer
		if err := rows.Scan(
			&i.ID,
			&i.Number,
			&i.Amount,
			&i.Concept,
			&i.OriginKind,
			&i.OriginID,
			&i.DestinationKind,
			&i.DestinationID,
			&i.Status,
			&i.CreatedBy,
			&i.UpdatedBy,
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

const listTransfersByEndpoint = `-- name: ListTransfersByEndpoint :many
SELECT id, number, amount, concept, origin_kind, origin_id, destination_kind, destination_id, status, created_by, updated_by, created_at, updated_at FROM transfers
WHERE (origin_kind = $1 AND origin_id = $2)
   OR (destination_kind = $1 AND destination_id = $2)
ORDER BY created_at DESC, id DESC
`

type ListTransfersByEndpointParams struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (q *Queries) ListTransfersByEndpoint(ctx context.Context, arg ListTransfersByEndpointParams) ([]Transfer, error) {
	rows, err := q.db.Query(ctx, listTransfersByEndpoint, arg.Kind, arg.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transfer{}
	for rows.Next() {
		var i Transfer
		if err := rows.Scan(
			&i.ID,
			&i.Number,
			&i.Amount,
			&i.Concept,
			&i.OriginKind,
			&i.OriginID,
			&i.DestinationKind,
			&i.DestinationID,
			&i.Status,
			&i.CreatedBy,
			&i.UpdatedBy,
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

const nextTransferSequence = `-- name: NextTransferSequence :one
INSERT INTO transfer_sequences (period, last_value)
VALUES ($1, 1)
ON CONFLICT (period) DO UPDATE SET last_value = transfer_sequences.last_value + 1
RETURNING last_value
`

func (q *Queries) NextTransferSequence(ctx context.Context, period string) (int64, error) {
	row := q.db.QueryRow(ctx, nextTransferSequence, period)
	var last_value int64
	err := row.Scan(&last_value)
	return last_value, err
}

const updateTransfer = `-- name: UpdateTransfer :execrows
UPDATE transfers
SET amount = $2,
    concept = $3,
    origin_kind = $4,
    origin_id = $5,
    destination_kind = $6,
    destination_id = $7,
    updated_by = $8,
    updated_at = $9
WHERE id = $1
`

type UpdateTransferParams struct {
	ID              string             `json:"id"`
	Amount          pgtype.Numeric     `json:"amount"`
	Concept         string             `json:"concept"`
	OriginKind      string             `json:"origin_kind"`
	OriginID        string             `json:"origin_id"`
	DestinationKind string             `json:"destination_kind"`
	DestinationID   string             `json:"destination_id"`
	UpdatedBy       string             `json:"updated_by"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateTransfer(ctx context.Context, arg UpdateTransferParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateTransfer,
		arg.ID,
		arg.Amount,
		arg.Concept,
		arg.OriginKind,
		arg.OriginID,
		arg.DestinationKind,
		arg.DestinationID,
		arg.UpdatedBy,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
