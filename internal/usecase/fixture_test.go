package usecase_test

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/adapter/repository/memory"
	"github.com/iho/cajaledger/internal/adapter/repository/postgres"
	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

const actor = "user-1"

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	repos usecase.Repositories
	queue *memory.RecalcQueue
	svc   *usecase.Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation(usecase.DefaultTimezone)
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}

	store := memory.NewStore()
	repos := memory.NewRepositories(store)
	queue := memory.NewRecalcQueue()

	return &fixture{
		t:     t,
		ctx:   context.Background(),
		store: store,
		repos: repos,
		queue: queue,
		svc: usecase.NewServices(repos, usecase.ServiceOptions{
			IDGen:    postgres.NewULIDGenerator(),
			Queue:    queue,
			Location: loc,
			Logger:   zerolog.Nop(),
		}),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func cashEndpoint(id string) domain.Endpoint {
	return domain.Endpoint{Kind: domain.EndpointCashRegister, ID: id}
}

func bankEndpoint(id string) domain.Endpoint {
	return domain.Endpoint{Kind: domain.EndpointBank, ID: id}
}

func requireAmount(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: expected %s, got %s", what, want, got.StringFixed(2))
	}
}

func (f *fixture) account(code, initial string, categoryID *string) *domain.Account {
	f.t.Helper()

	account, err := f.svc.Catalog.CreateAccount(f.ctx, usecase.CreateAccountInput{
		Code:           code,
		Name:           "Cuenta " + code,
		CategoryID:     categoryID,
		InitialBalance: dec(initial),
	})
	if err != nil {
		f.t.Fatalf("create account: %v", err)
	}

	return account
}

func (f *fixture) register(name, initial string, accountID *string) *domain.CashRegister {
	f.t.Helper()

	register, err := f.svc.Catalog.CreateCashRegister(f.ctx, usecase.CreateCashRegisterInput{
		Name:           name,
		Type:           "principal",
		AccountID:      accountID,
		InitialBalance: dec(initial),
	})
	if err != nil {
		f.t.Fatalf("create register: %v", err)
	}

	return register
}

func (f *fixture) bank(accountID string) *domain.BankAccount {
	f.t.Helper()

	bank, err := f.svc.Catalog.CreateBankAccount(f.ctx, usecase.CreateBankAccountInput{
		AccountID:     accountID,
		BankName:      "Banco Nacional",
		AccountNumber: "0102-0001",
	})
	if err != nil {
		f.t.Fatalf("create bank account: %v", err)
	}

	return bank
}

func (f *fixture) category(name string, parentID *string) *domain.Category {
	f.t.Helper()

	category, err := f.svc.Catalog.CreateCategory(f.ctx, usecase.CreateCategoryInput{Name: name, Type: "gasto", ParentID: parentID})
	if err != nil {
		f.t.Fatalf("create category: %v", err)
	}

	return category
}

func (f *fixture) cashEntry(registerID string, typ domain.EntryType, method domain.EntryMethod, amount string, at *time.Time) *domain.Entry {
	f.t.Helper()

	entry, err := f.svc.Entries.RecordEntry(f.ctx, usecase.RecordEntryInput{
		Date:           at,
		CashRegisterID: &registerID,
		Type:           typ,
		Method:         method,
		Description:    "movimiento",
		UserID:         actor,
		Amount:         dec(amount),
	})
	if err != nil {
		f.t.Fatalf("record entry: %v", err)
	}

	return entry
}

func (f *fixture) transfer(origin, destination domain.Endpoint, amount string) *domain.Transfer {
	f.t.Helper()

	transfer, err := f.svc.Transfers.CreateTransfer(f.ctx, usecase.CreateTransferInput{
		Origin:      origin,
		Destination: destination,
		Concept:     "deposito",
		UserID:      actor,
		Amount:      dec(amount),
	})
	if err != nil {
		f.t.Fatalf("create transfer: %v", err)
	}

	return transfer
}

func (f *fixture) endpointBalance(e domain.Endpoint) decimal.Decimal {
	f.t.Helper()

	balance, err := f.svc.Calculator.EndpointBalance(f.ctx, e)
	if err != nil {
		f.t.Fatalf("endpoint balance %s: %v", e, err)
	}

	return balance
}

func (f *fixture) registerCache(id string) decimal.Decimal {
	f.t.Helper()

	register, err := f.repos.Registers.GetByID(f.ctx, id)
	if err != nil {
		f.t.Fatalf("get register: %v", err)
	}

	return register.CurrentBalance
}

func (f *fixture) accountCache(id string) decimal.Decimal {
	f.t.Helper()

	account, err := f.repos.Accounts.GetByID(f.ctx, id)
	if err != nil {
		f.t.Fatalf("get account: %v", err)
	}

	return account.CurrentBalance
}

func (f *fixture) transferEntries(id string) []*domain.Entry {
	f.t.Helper()

	entries, err := f.repos.Entries.GetByTransfer(f.ctx, id)
	if err != nil {
		f.t.Fatalf("transfer entries: %v", err)
	}

	return entries
}
