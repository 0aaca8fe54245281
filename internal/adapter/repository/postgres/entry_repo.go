package postgres

import (
	"context"
	"time"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cajaledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create creates a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	_, err := txQueries(tx).CreateEntry(ctx, generated.CreateEntryParams{
		ID:             entry.ID,
		Type:           string(entry.Type),
		Amount:         decimalToNumeric(entry.Amount),
		Method:         string(entry.Method),
		Date:           timeToPgTimestamptz(entry.Date),
		CashRegisterID: entry.CashRegisterID,
		BankAccountID:  entry.BankAccountID,
		CategoryID:     entry.CategoryID,
		TransferID:     entry.TransferID,
		Description:    entry.Description,
		CreatedBy:      entry.CreatedBy,
		CreatedAt:      timeToPgTimestamptz(entry.CreatedAt),
	})

	return err
}

// GetByTransfer retrieves entries by transfer ID.
func (r *EntryRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	rows, err := r.queries.GetEntriesByTransfer(ctx, &transferID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// GetByCashRegister retrieves the register's entries, newest first.
func (r *EntryRepository) GetByCashRegister(ctx context.Context, registerID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.queries.GetEntriesByCashRegister(ctx, generated.GetEntriesByCashRegisterParams{
		CashRegisterID: &registerID,
		Limit:          int32(limit),
		Offset:         int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// DeleteByTransfer removes every entry linked to the transfer.
func (r *EntryRepository) DeleteByTransfer(ctx context.Context, tx usecase.Transaction, transferID string) (int64, error) {
	return txQueries(tx).DeleteEntriesByTransfer(ctx, &transferID)
}

// SumByCashRegister totals the register's entries by type.
func (r *EntryRepository) SumByCashRegister(ctx context.Context, registerID string) (domain.BalanceSums, error) {
	row, err := r.queries.SumEntriesByCashRegister(ctx, &registerID)
	if err != nil {
		return domain.BalanceSums{}, err
	}

	return sumsFromNumeric(row.TotalIncome, row.TotalExpense), nil
}

// SumByBankAccount totals the bank account's entries by type.
func (r *EntryRepository) SumByBankAccount(ctx context.Context, bankAccountID string) (domain.BalanceSums, error) {
	row, err := r.queries.SumEntriesByBankAccount(ctx, &bankAccountID)
	if err != nil {
		return domain.BalanceSums{}, err
	}

	return sumsFromNumeric(row.TotalIncome, row.TotalExpense), nil
}

// SumByCategories totals entries categorized under any of the ids.
func (r *EntryRepository) SumByCategories(ctx context.Context, categoryIDs []string) (domain.BalanceSums, error) {
	if len(categoryIDs) == 0 {
		return domain.SumEntries(nil), nil
	}

	row, err := r.queries.SumEntriesByCategories(ctx, categoryIDs)
	if err != nil {
		return domain.BalanceSums{}, err
	}

	return sumsFromNumeric(row.TotalIncome, row.TotalExpense), nil
}

// SumByCashRegisterInRange totals the register's entries dated in
// [from, to), skipping the excluded methods.
func (r *EntryRepository) SumByCashRegisterInRange(ctx context.Context, registerID string, from, to time.Time, excluded []domain.EntryMethod) (domain.BalanceSums, error) {
	// A NULL array would make NOT (method = ANY(...)) filter every row.
	methods := make([]string, 0, len(excluded))
	for _, m := range excluded {
		methods = append(methods, string(m))
	}

	row, err := r.queries.SumEntriesByCashRegisterInRange(ctx, generated.SumEntriesByCashRegisterInRangeParams{
		CashRegisterID:  &registerID,
		FromDate:        timeToPgTimestamptz(from),
		ToDate:          timeToPgTimestamptz(to),
		ExcludedMethods: methods,
	})
	if err != nil {
		return domain.BalanceSums{}, err
	}

	return sumsFromNumeric(row.TotalIncome, row.TotalExpense), nil
}

func rowsToEntries(rows []generated.Entry) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:             row.ID,
		Type:           domain.EntryType(row.Type),
		Amount:         numericToDecimal(row.Amount),
		Method:         domain.EntryMethod(row.Method),
		Date:           row.Date.Time,
		CashRegisterID: row.CashRegisterID,
		BankAccountID:  row.BankAccountID,
		CategoryID:     row.CategoryID,
		TransferID:     row.TransferID,
		Description:    row.Description,
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt.Time,
	}
}
