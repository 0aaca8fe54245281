package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
)

func TestTransferSequenceNext(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery("INSERT INTO transfer_sequences").
		WithArgs("202512").
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(7)))
	mockPool.ExpectCommit()

	ctx := context.Background()
	tx, err := NewTxManager(mockPool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	seq, err := NewTransferSequence().Next(ctx, tx, "202512")
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if seq != 7 {
		t.Fatalf("Next() = %d, want 7", seq)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestCashRegisterRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM cash_registers WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewCashRegisterRepository(mockPool).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCashRegisterNotFound) {
		t.Fatalf("expected ErrCashRegisterNotFound, got %v", err)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected error to wrap ErrNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositorySumByCashRegisterInRangePassesEmptyExclusions(t *testing.T) {
	mockPool := newMockPool(t)

	from := time.Date(2025, 12, 16, 4, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	registerID := "reg-1"

	mockPool.ExpectQuery("SELECT").
		WithArgs(&registerID, timeToPgTimestamptz(from), timeToPgTimestamptz(to), []string{}).
		WillReturnRows(pgxmock.NewRows([]string{"total_income", "total_expense"}).
			AddRow(decimalToNumeric(decimal.RequireFromString("500")), decimalToNumeric(decimal.RequireFromString("200"))))

	sums, err := NewEntryRepository(mockPool).SumByCashRegisterInRange(context.Background(), registerID, from, to, nil)
	if err != nil {
		t.Fatalf("SumByCashRegisterInRange() error = %v", err)
	}

	if !sums.Income.Equal(decimal.NewFromInt(500)) || !sums.Expense.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected sums: %+v", sums)
	}

	assertExpectations(t, mockPool)
}

func TestRegisterSessionRepositoryLatestOpeningNone(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery("FROM register_openings").
		WithArgs("reg-1").
		WillReturnError(pgx.ErrNoRows)
	mockPool.ExpectRollback()

	ctx := context.Background()
	tx, err := NewTxManager(mockPool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	opening, err := NewRegisterSessionRepository(mockPool).LatestOpening(ctx, tx, "reg-1")
	if err != nil {
		t.Fatalf("LatestOpening() error = %v", err)
	}
	if opening != nil {
		t.Fatalf("expected no opening, got %+v", opening)
	}

	_ = tx.Rollback(ctx)

	assertExpectations(t, mockPool)
}

func TestCategoryRepositoryUpdateParentMissing(t *testing.T) {
	mockPool := newMockPool(t)
	parent := "root"
	mockPool.ExpectExec("UPDATE categories").
		WithArgs("ghost", &parent).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewCategoryRepository(mockPool).UpdateParent(context.Background(), "ghost", &parent)
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryDeletePublishedReportsRows(t *testing.T) {
	mockPool := newMockPool(t)
	before := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	mockPool.ExpectExec("DELETE FROM outbox_events").
		WithArgs(timeToPgTimestamptz(before)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	pruned, err := NewOutboxRepository(mockPool).DeletePublished(context.Background(), before)
	if err != nil {
		t.Fatalf("DeletePublished() error = %v", err)
	}
	if pruned != 3 {
		t.Fatalf("DeletePublished() = %d, want 3", pruned)
	}

	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryGetUnpublishedRejectsBadPayload(t *testing.T) {
	mockPool := newMockPool(t)
	created := timeToPgTimestamptz(time.Date(2025, 12, 16, 12, 0, 0, 0, time.UTC))
	mockPool.ExpectQuery("FROM outbox_events").
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published"}).
			AddRow("evt-1", "tr-1", domain.AggregateTypeTransfer, domain.EventTypeTransferCreated, []byte(`{not json`), created, pgtype.Timestamptz{}, false))

	if _, err := NewOutboxRepository(mockPool).GetUnpublished(context.Background(), 10); err == nil {
		t.Fatal("expected decode error for malformed payload")
	}

	assertExpectations(t, mockPool)
}

func TestNullOutboxRepositoryCountsDrops(t *testing.T) {
	repo := NewNullOutboxRepository()

	for i := 0; i < 2; i++ {
		if err := repo.Create(context.Background(), nil, &domain.OutboxEvent{ID: "evt"}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	if repo.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", repo.Dropped())
	}

	events, err := repo.GetUnpublished(context.Background(), 10)
	if err != nil || len(events) != 0 {
		t.Fatalf("expected no pending events, got %d (%v)", len(events), err)
	}
}
