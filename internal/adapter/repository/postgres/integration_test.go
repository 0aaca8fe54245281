package postgres_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/adapter/repository/postgres"
	"github.com/iho/cajaledger/internal/domain"
	pgdb "github.com/iho/cajaledger/internal/infrastructure/postgres"
	"github.com/iho/cajaledger/internal/usecase"
)

// newTestPool migrates and empties the database named by DATABASE_URL.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := pgdb.NewMigrator("file://../../../../migrations", dbURL, zerolog.Nop()).Up(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgdb.NewPoolWithConfig(ctx, pgdb.PoolConfig{DatabaseURL: dbURL, MaxConns: 5})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE outbox_events, register_closings, register_openings, entries,
		transfer_sequences, transfers, bank_accounts, cash_registers, accounts, categories CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return pool
}

func TestPostgresLedgerFlow(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	svc := usecase.NewServices(postgres.NewRepositories(pool), usecase.ServiceOptions{
		IDGen:   postgres.NewULIDGenerator(),
		Retrier: postgres.NewRetrier(zerolog.Nop(), postgres.DefaultRetryPolicy()),
		Logger:  zerolog.Nop(),
	})

	amount := decimal.RequireFromString

	a, err := svc.Catalog.CreateCashRegister(ctx, usecase.CreateCashRegisterInput{Name: "Caja A", InitialBalance: amount("1000")})
	if err != nil {
		t.Fatalf("create register: %v", err)
	}

	parent, err := svc.Catalog.CreateAccount(ctx, usecase.CreateAccountInput{Code: "1.1.02", Name: "Bancos"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	b, err := svc.Catalog.CreateBankAccount(ctx, usecase.CreateBankAccountInput{AccountID: parent.ID, BankName: "Banco", AccountNumber: "0102"})
	if err != nil {
		t.Fatalf("create bank account: %v", err)
	}

	for _, e := range []struct {
		typ    domain.EntryType
		amount string
	}{{domain.EntryIncome, "500"}, {domain.EntryExpense, "200"}} {
		if _, err := svc.Entries.RecordEntry(ctx, usecase.RecordEntryInput{
			CashRegisterID: &a.ID, Type: e.typ, Method: domain.MethodCash, UserID: "it", Amount: amount(e.amount),
		}); err != nil {
			t.Fatalf("record entry: %v", err)
		}
	}

	balance, err := svc.CashRegisters.CalculateBalance(ctx, a.ID)
	if err != nil || !balance.Equal(amount("1300")) {
		t.Fatalf("expected 1300, got %s (%v)", balance, err)
	}

	transfer, err := svc.Transfers.CreateTransfer(ctx, usecase.CreateTransferInput{
		Origin:      domain.Endpoint{Kind: domain.EndpointCashRegister, ID: a.ID},
		Destination: domain.Endpoint{Kind: domain.EndpointBank, ID: b.ID},
		Concept:     "deposito",
		UserID:      "it",
		Amount:      amount("300"),
	})
	if err != nil {
		t.Fatalf("create transfer: %v", err)
	}
	if !strings.HasPrefix(transfer.Number, "TR-") || !strings.HasSuffix(transfer.Number, "-00001") {
		t.Fatalf("unexpected number %s", transfer.Number)
	}

	register, err := svc.CashRegisters.GetRegister(ctx, a.ID)
	if err != nil || !register.CurrentBalance.Equal(amount("1000")) {
		t.Fatalf("expected cached 1000, got %v (%v)", register, err)
	}

	account, err := svc.Accounts.CalculateAccountBalance(ctx, parent.ID)
	if err != nil || !account.Balance.Equal(amount("300")) || account.Linkage != domain.LinkageBank {
		t.Fatalf("expected bank-linked 300, got %+v (%v)", account, err)
	}

	_, err = svc.Transfers.CreateTransfer(ctx, usecase.CreateTransferInput{
		Origin:      domain.Endpoint{Kind: domain.EndpointBank, ID: b.ID},
		Destination: domain.Endpoint{Kind: domain.EndpointCashRegister, ID: a.ID},
		Concept:     "retiro",
		UserID:      "it",
		Amount:      amount("300.01"),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if err := svc.Transfers.DeleteTransfer(ctx, transfer.ID, "it"); err != nil {
		t.Fatalf("delete transfer: %v", err)
	}

	entries, err := svc.Transfers.ListTransferEntries(ctx, transfer.ID)
	if !errors.Is(err, domain.ErrNotFound) || len(entries) != 0 {
		t.Fatalf("expected transfer and entries gone, got %d (%v)", len(entries), err)
	}

	if check, err := svc.Ledger.CheckConsistency(ctx); err != nil || !check.Consistent {
		t.Fatalf("expected consistent ledger, got %+v (%v)", check, err)
	}

	report, err := svc.Reconciliation.GenerateReconciliationReport(ctx)
	if err != nil {
		t.Fatalf("reconciliation: %v", err)
	}
	if len(report.Discrepancies) != 0 {
		t.Fatalf("expected clean caches, got %+v", report.Discrepancies)
	}
}

func TestPostgresRegisterLifecycle(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	svc := usecase.NewServices(postgres.NewRepositories(pool), usecase.ServiceOptions{
		IDGen:  postgres.NewULIDGenerator(),
		Logger: zerolog.Nop(),
	})

	a, err := svc.Catalog.CreateCashRegister(ctx, usecase.CreateCashRegisterInput{Name: "Caja A", InitialBalance: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("create register: %v", err)
	}

	if _, err := svc.CashRegisters.OpenRegister(ctx, usecase.OpenRegisterInput{RegisterID: a.ID, UserID: "it", OpeningAmount: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := svc.CashRegisters.OpenRegister(ctx, usecase.OpenRegisterInput{RegisterID: a.ID, UserID: "it"}); !errors.Is(err, domain.ErrRegisterAlreadyOpen) {
		t.Fatalf("expected ErrRegisterAlreadyOpen, got %v", err)
	}

	closing, err := svc.CashRegisters.CloseRegister(ctx, usecase.CloseRegisterInput{RegisterID: a.ID, UserID: "it", FinalAmount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !closing.DayIncome.IsZero() || !closing.DayExpense.IsZero() {
		t.Fatalf("expected empty day totals, got %+v", closing)
	}

	history, err := svc.CashRegisters.History(ctx, a.ID)
	if err != nil || len(history) != 2 || history[0].Kind != domain.HistoryClosing {
		t.Fatalf("unexpected history %+v (%v)", history, err)
	}
}
