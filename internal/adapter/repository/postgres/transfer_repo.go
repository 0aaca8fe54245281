package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cajaledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{
		queries: generated.New(db),
	}
}

// Create creates a new transfer.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	_, err := txQueries(tx).CreateTransfer(ctx, generated.CreateTransferParams{
		ID:              transfer.ID,
		Number:          transfer.Number,
		Amount:          decimalToNumeric(transfer.Amount),
		Concept:         transfer.Concept,
		OriginKind:      string(transfer.Origin.Kind),
		OriginID:        transfer.Origin.ID,
		DestinationKind: string(transfer.Destination.Kind),
		DestinationID:   transfer.Destination.ID,
		Status:          string(transfer.Status),
		CreatedBy:       transfer.CreatedBy,
		UpdatedBy:       transfer.UpdatedBy,
		CreatedAt:       timeToPgTimestamptz(transfer.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(transfer.UpdatedAt),
	})

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row, err := r.queries.GetTransferByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return rowToTransfer(row), nil
}

// GetByIDForUpdate retrieves a transfer with a FOR UPDATE lock.
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	row, err := txQueries(tx).GetTransferByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return rowToTransfer(row), nil
}

// Update rewrites the mutable fields of a transfer. The number is kept.
func (r *TransferRepository) Update(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	n, err := txQueries(tx).UpdateTransfer(ctx, generated.UpdateTransferParams{
		ID:              transfer.ID,
		Amount:          decimalToNumeric(transfer.Amount),
		Concept:         transfer.Concept,
		OriginKind:      string(transfer.Origin.Kind),
		OriginID:        transfer.Origin.ID,
		DestinationKind: string(transfer.Destination.Kind),
		DestinationID:   transfer.Destination.ID,
		UpdatedBy:       transfer.UpdatedBy,
		UpdatedAt:       timeToPgTimestamptz(transfer.UpdatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

// Delete removes a transfer row. Its entries must be gone already.
func (r *TransferRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := txQueries(tx).DeleteTransfer(ctx, id)
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

// List lists transfers, newest first.
func (r *TransferRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfers(ctx, generated.ListTransfersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransfers(rows), nil
}

// ListByEndpoint lists transfers with a leg on the endpoint, newest first.
func (r *TransferRepository) ListByEndpoint(ctx context.Context, endpoint domain.Endpoint) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfersByEndpoint(ctx, generated.ListTransfersByEndpointParams{
		Kind: string(endpoint.Kind),
		ID:   endpoint.ID,
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransfers(rows), nil
}

// TransferSequence implements usecase.TransferSequence on an upserted
// per-period counter row.
type TransferSequence struct{}

// NewTransferSequence creates a new TransferSequence.
func NewTransferSequence() *TransferSequence {
	return &TransferSequence{}
}

// Next returns the next number in the period. The counter row stays locked
// until tx ends, so concurrent creators in one period queue up.
func (s *TransferSequence) Next(ctx context.Context, tx usecase.Transaction, period string) (int64, error) {
	return txQueries(tx).NextTransferSequence(ctx, period)
}

func rowsToTransfers(rows []generated.Transfer) []*domain.Transfer {
	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, rowToTransfer(row))
	}

	return transfers
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:          row.ID,
		Number:      row.Number,
		Amount:      numericToDecimal(row.Amount),
		Concept:     row.Concept,
		Origin:      domain.Endpoint{Kind: domain.EndpointKind(row.OriginKind), ID: row.OriginID},
		Destination: domain.Endpoint{Kind: domain.EndpointKind(row.DestinationKind), ID: row.DestinationID},
		Status:      domain.TransferStatus(row.Status),
		CreatedBy:   row.CreatedBy,
		UpdatedBy:   row.UpdatedBy,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
