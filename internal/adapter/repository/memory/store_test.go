package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cajaledger/internal/domain"
)

func seedRegister(t *testing.T, store *Store, id string, initial int64) {
	t.Helper()

	err := NewCashRegisterRepository(store).Create(context.Background(), &domain.CashRegister{
		ID:             id,
		Name:           "Caja " + id,
		InitialBalance: decimal.NewFromInt(initial),
		CurrentBalance: decimal.NewFromInt(initial),
	})
	require.NoError(t, err)
}

func TestRollbackRevertsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedRegister(t, store, "A", 1000)

	txm := NewTxManager(store)
	transfers := NewTransferRepository(store)
	entries := NewEntryRepository(store)
	registers := NewCashRegisterRepository(store)
	seq := NewTransferSequence(store)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)

	n, err := seq.Next(ctx, tx, "202512")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	transferID := "T1"
	require.NoError(t, transfers.Create(ctx, tx, &domain.Transfer{ID: transferID, Number: "TR-202512-00001"}))

	registerID := "A"
	require.NoError(t, entries.Create(ctx, tx, &domain.Entry{
		ID:             "E1",
		Type:           domain.EntryExpense,
		Amount:         decimal.NewFromInt(300),
		Method:         domain.MethodCash,
		CashRegisterID: &registerID,
		TransferID:     &transferID,
	}))
	require.NoError(t, registers.UpdateCurrentBalance(ctx, tx, "A", decimal.NewFromInt(700), time.Now()))

	require.NoError(t, tx.Rollback(ctx))

	_, err = transfers.GetByID(ctx, transferID)
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)

	sums, err := entries.SumByCashRegister(ctx, "A")
	require.NoError(t, err)
	assert.True(t, sums.Net().IsZero())

	reg, err := registers.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.True(t, reg.CurrentBalance.Equal(decimal.NewFromInt(1000)))

	tx, err = txm.Begin(ctx)
	require.NoError(t, err)
	n, err = seq.Next(ctx, tx, "202512")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "rolled back number is handed out again")
	require.NoError(t, tx.Commit(ctx))
}

func TestRollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedRegister(t, store, "A", 0)

	tx, err := NewTxManager(store).Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, NewCashRegisterRepository(store).UpdateCurrentBalance(ctx, tx, "A", decimal.NewFromInt(5), time.Now()))
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	reg, err := NewCashRegisterRepository(store).GetByID(ctx, "A")
	require.NoError(t, err)
	assert.True(t, reg.CurrentBalance.Equal(decimal.NewFromInt(5)))
}

func TestBeginWaitsForRunningTransaction(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)

	first, err := txm.Begin(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = txm.Begin(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	require.NoError(t, first.Commit(context.Background()))

	second, err := txm.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, second.Commit(context.Background()))
}

func TestSequenceIsPerPeriod(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seq := NewTransferSequence(store)

	next := func(period string) int64 {
		n, err := seq.Next(ctx, nil, period)
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, int64(1), next("202512"))
	assert.Equal(t, int64(2), next("202512"))
	assert.Equal(t, int64(1), next("202601"))
	assert.Equal(t, int64(3), next("202512"))
}

func TestSumByCashRegisterInRange(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedRegister(t, store, "A", 0)
	entries := NewEntryRepository(store)

	from := time.Date(2025, 12, 16, 4, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	registerID := "A"

	add := func(id string, typ domain.EntryType, amount int64, method domain.EntryMethod, at time.Time) {
		require.NoError(t, entries.Create(ctx, nil, &domain.Entry{
			ID:             id,
			Type:           typ,
			Amount:         decimal.NewFromInt(amount),
			Method:         method,
			Date:           at,
			CashRegisterID: &registerID,
		}))
	}

	add("1", domain.EntryIncome, 100, domain.MethodCash, from)
	add("2", domain.EntryExpense, 40, domain.MethodCash, to.Add(-time.Second))
	add("3", domain.EntryIncome, 999, domain.MethodAdjustment, from.Add(time.Hour))
	add("4", domain.EntryIncome, 50, domain.MethodCash, to)
	add("5", domain.EntryIncome, 70, domain.MethodCash, from.Add(-time.Second))

	sums, err := entries.SumByCashRegisterInRange(ctx, "A", from, to, []domain.EntryMethod{domain.MethodAdjustment})
	require.NoError(t, err)
	assert.True(t, sums.Income.Equal(decimal.NewFromInt(100)), "income %s", sums.Income)
	assert.True(t, sums.Expense.Equal(decimal.NewFromInt(40)), "expense %s", sums.Expense)
}

func TestTransferDeleteBlockedByEntries(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedRegister(t, store, "A", 0)

	transfers := NewTransferRepository(store)
	entries := NewEntryRepository(store)

	transferID := "T1"
	registerID := "A"
	require.NoError(t, transfers.Create(ctx, nil, &domain.Transfer{ID: transferID, Number: "TR-202512-00001"}))
	require.NoError(t, entries.Create(ctx, nil, &domain.Entry{
		ID: "E1", Type: domain.EntryIncome, Amount: decimal.NewFromInt(1),
		Method: domain.MethodCash, CashRegisterID: &registerID, TransferID: &transferID,
	}))

	require.Error(t, transfers.Delete(ctx, nil, transferID))

	n, err := entries.DeleteByTransfer(ctx, nil, transferID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, transfers.Delete(ctx, nil, transferID))
}

func TestRecalcQueueDeduplicates(t *testing.T) {
	ctx := context.Background()
	q := NewRecalcQueue()

	a := usecaseTarget(domain.TargetCashRegister, "A")
	b := usecaseTarget(domain.TargetAccount, "B")

	require.NoError(t, q.Enqueue(ctx, a, b, a))
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := q.Dequeue(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{a.String()}, targetStrings(got))
	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
