package usecase_test

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
	"github.com/iho/cajaledger/internal/usecase/mocks"
)

func TestCatalogUseCase_CreateAccountUsesIDGenerator(t *testing.T) {
	ctrl := gomock.NewController(t)

	f := newFixture(t)
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("acc-fixed")

	svc := usecase.NewServices(f.repos, usecase.ServiceOptions{IDGen: idGen})

	account, err := svc.Catalog.CreateAccount(f.ctx, usecase.CreateAccountInput{
		Code: " 1.1.01 ", Name: " Caja General ", InitialBalance: dec("150"),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if account.ID != "acc-fixed" || account.Code != "1.1.01" || account.Name != "Caja General" {
		t.Fatalf("unexpected account %+v", account)
	}
	requireAmount(t, "cache seeded", account.CurrentBalance, "150")
}

func TestCatalogUseCase_CreateAccountValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input usecase.CreateAccountInput
		want  error
	}{
		{"bad code", usecase.CreateAccountInput{Code: "!!", Name: "x"}, domain.ErrInvalidAccountCode},
		{"empty name", usecase.CreateAccountInput{Code: "1.1", Name: " "}, domain.ErrInvalidName},
		{"unknown category", usecase.CreateAccountInput{Code: "1.1", Name: "x", CategoryID: ptr("missing")}, domain.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Catalog.CreateAccount(f.ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCatalogUseCase_LinkageIsExclusive(t *testing.T) {
	f := newFixture(t)

	withRegister := f.account("1.1.01", "0", nil)
	f.register("Caja A", "0", &withRegister.ID)

	if _, err := f.svc.Catalog.CreateBankAccount(f.ctx, usecase.CreateBankAccountInput{
		AccountID: withRegister.ID, BankName: "Banco", AccountNumber: "0001",
	}); !errors.Is(err, domain.ErrAmbiguousLinkage) {
		t.Fatalf("expected ErrAmbiguousLinkage, got %v", err)
	}

	withBank := f.account("1.1.02", "0", nil)
	f.bank(withBank.ID)

	if _, err := f.svc.Catalog.CreateCashRegister(f.ctx, usecase.CreateCashRegisterInput{
		Name: "Caja B", AccountID: &withBank.ID,
	}); !errors.Is(err, domain.ErrAmbiguousLinkage) {
		t.Fatalf("expected ErrAmbiguousLinkage, got %v", err)
	}
}

func TestCatalogUseCase_CategoryRollup(t *testing.T) {
	f := newFixture(t)

	root := f.category("Gastos", nil)
	office := f.category("Oficina", &root.ID)
	paper := f.category("Papel", &office.ID)
	other := f.category("Otros", nil)

	rollup := f.account("5.1", "100", &root.ID)
	leaf := f.account("5.1.1.1", "0", &paper.ID)

	record := func(categoryID string, typ domain.EntryType, amount string) {
		t.Helper()
		if _, err := f.svc.Entries.RecordEntry(f.ctx, usecase.RecordEntryInput{
			CategoryID: &categoryID, Type: typ, Method: domain.MethodStationery,
			Description: "compra", UserID: actor, Amount: dec(amount),
		}); err != nil {
			t.Fatalf("record entry: %v", err)
		}
	}

	record(paper.ID, domain.EntryExpense, "30")
	record(office.ID, domain.EntryExpense, "20")
	record(other.ID, domain.EntryExpense, "999")
	record(root.ID, domain.EntryIncome, "5")

	balance, err := f.svc.Accounts.CalculateAccountBalance(f.ctx, rollup.ID)
	if err != nil {
		t.Fatalf("calculate balance: %v", err)
	}
	if balance.Linkage != domain.LinkageCategory {
		t.Fatalf("expected category linkage, got %s", balance.Linkage)
	}
	requireAmount(t, "rollup", balance.Balance, "55")
	requireAmount(t, "rollup cache", f.accountCache(rollup.ID), "55")
	requireAmount(t, "leaf cache", f.accountCache(leaf.ID), "-30")
}

func TestCatalogUseCase_MoveCategoryRefreshesBothChains(t *testing.T) {
	f := newFixture(t)

	income := f.category("Ingresos", nil)
	expense := f.category("Gastos", nil)
	misc := f.category("Varios", &expense.ID)

	incomeAccount := f.account("4", "0", &income.ID)
	expenseAccount := f.account("5", "0", &expense.ID)

	if _, err := f.svc.Entries.RecordEntry(f.ctx, usecase.RecordEntryInput{
		CategoryID: &misc.ID, Type: domain.EntryExpense, Method: domain.MethodStationery,
		Description: "varios", UserID: actor, Amount: dec("40"),
	}); err != nil {
		t.Fatalf("record entry: %v", err)
	}

	requireAmount(t, "expense before", f.accountCache(expenseAccount.ID), "-40")

	moved, err := f.svc.Catalog.MoveCategory(f.ctx, misc.ID, &income.ID)
	if err != nil {
		t.Fatalf("move category: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != income.ID {
		t.Fatalf("expected new parent %s, got %v", income.ID, moved.ParentID)
	}

	requireAmount(t, "expense after", f.accountCache(expenseAccount.ID), "0")
	requireAmount(t, "income after", f.accountCache(incomeAccount.ID), "-40")
}

func TestCatalogUseCase_MoveCategoryRejectsCycles(t *testing.T) {
	f := newFixture(t)

	root := f.category("Raiz", nil)
	child := f.category("Hijo", &root.ID)
	grandchild := f.category("Nieto", &child.ID)

	tests := []struct {
		name     string
		id       string
		parentID *string
		want     error
	}{
		{"onto itself", root.ID, &root.ID, domain.ErrCategoryCycle},
		{"under own descendant", root.ID, &grandchild.ID, domain.ErrCategoryCycle},
		{"unknown parent", child.ID, ptr("missing"), domain.ErrCategoryNotFound},
		{"unknown category", "missing", nil, domain.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Catalog.MoveCategory(f.ctx, tt.id, tt.parentID); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	categories, err := f.svc.Catalog.ListCategories(f.ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	for _, c := range categories {
		if c.ID == root.ID && c.ParentID != nil {
			t.Fatalf("rejected move changed the tree: %+v", c)
		}
	}

	if _, err := f.svc.Catalog.MoveCategory(f.ctx, grandchild.ID, nil); err != nil {
		t.Fatalf("detaching to root should work: %v", err)
	}
}
