package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
)

// CatalogUseCase manages the master data the ledger hangs off: accounts,
// cash registers, bank accounts and categories.
type CatalogUseCase struct {
	accountRepo  AccountRepository
	registerRepo CashRegisterRepository
	bankRepo     BankAccountRepository
	categoryRepo CategoryRepository
	idGen        IDGenerator
	calc         *BalanceCalculator
	recalc       *Recalculator
}

// NewCatalogUseCase creates a new CatalogUseCase.
func NewCatalogUseCase(
	accountRepo AccountRepository,
	registerRepo CashRegisterRepository,
	bankRepo BankAccountRepository,
	categoryRepo CategoryRepository,
	idGen IDGenerator,
	calc *BalanceCalculator,
	recalc *Recalculator,
) *CatalogUseCase {
	return &CatalogUseCase{
		accountRepo:  accountRepo,
		registerRepo: registerRepo,
		bankRepo:     bankRepo,
		categoryRepo: categoryRepo,
		idGen:        idGen,
		calc:         calc,
		recalc:       recalc,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	CategoryID     *string
	Code           string
	Name           string
	InitialBalance decimal.Decimal
}

// CreateAccount creates a new account.
func (uc *CatalogUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountCode(input.Code); err != nil {
		return nil, err
	}

	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := uc.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Code:           strings.TrimSpace(input.Code),
		Name:           strings.TrimSpace(input.Name),
		CategoryID:     input.CategoryID,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	// A category may already carry entries.
	if account.CategoryID != nil {
		_ = uc.recalc.Refresh(ctx, []RecalcTarget{{Kind: domain.TargetAccount, ID: account.ID}})
		return uc.accountRepo.GetByID(ctx, account.ID)
	}

	return account, nil
}

// CreateCashRegisterInput represents input for creating a cash register.
type CreateCashRegisterInput struct {
	AccountID      *string
	Name           string
	Type           string
	InitialBalance decimal.Decimal
}

// CreateCashRegister creates a register, optionally linked to an account
// that has no bank accounts.
func (uc *CatalogUseCase) CreateCashRegister(ctx context.Context, input CreateCashRegisterInput) (*domain.CashRegister, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateInitialBalance(input.InitialBalance); err != nil {
		return nil, err
	}

	if input.AccountID != nil {
		if _, err := uc.accountRepo.GetByID(ctx, *input.AccountID); err != nil {
			return nil, err
		}

		banks, err := uc.bankRepo.ListByAccount(ctx, *input.AccountID)
		if err != nil {
			return nil, err
		}

		if _, err := domain.ResolveLinkage(1, len(banks)); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	register := &domain.CashRegister{
		ID:             uc.idGen.Generate(),
		Name:           strings.TrimSpace(input.Name),
		Type:           strings.TrimSpace(input.Type),
		AccountID:      input.AccountID,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.registerRepo.Create(ctx, register); err != nil {
		return nil, err
	}

	if register.AccountID != nil {
		_ = uc.recalc.Refresh(ctx, []RecalcTarget{{Kind: domain.TargetAccount, ID: *register.AccountID}})
	}

	return register, nil
}

// CreateBankAccountInput represents input for creating a bank account.
type CreateBankAccountInput struct {
	AccountID     string
	BankName      string
	AccountNumber string
}

// CreateBankAccount creates a bank account under a parent account that has
// no cash registers.
func (uc *CatalogUseCase) CreateBankAccount(ctx context.Context, input CreateBankAccountInput) (*domain.BankAccount, error) {
	if err := domain.ValidateName(input.BankName); err != nil {
		return nil, err
	}

	if err := domain.ValidateName(input.AccountNumber); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	registers, err := uc.registerRepo.ListByAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if _, err := domain.ResolveLinkage(len(registers), 1); err != nil {
		return nil, err
	}

	bank := &domain.BankAccount{
		ID:            uc.idGen.Generate(),
		AccountID:     input.AccountID,
		BankName:      strings.TrimSpace(input.BankName),
		AccountNumber: strings.TrimSpace(input.AccountNumber),
		CreatedAt:     time.Now().UTC(),
	}

	if err := uc.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}

	_ = uc.recalc.Refresh(ctx, []RecalcTarget{{Kind: domain.TargetAccount, ID: bank.AccountID}})

	return bank, nil
}

// ListBankAccounts lists bank accounts with pagination.
func (uc *CatalogUseCase) ListBankAccounts(ctx context.Context, limit, offset int) ([]*domain.BankAccount, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)
	return uc.bankRepo.List(ctx, limit, offset)
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	ParentID *string
	Name     string
	Type     string
}

// CreateCategory adds a node to the category tree.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if _, err := uc.categoryRepo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &domain.Category{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Type:      strings.TrimSpace(input.Type),
		ParentID:  input.ParentID,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	_ = uc.calc.InvalidateCategoryTree(ctx)

	return category, nil
}

// ListCategories returns the whole category tree as a flat list.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return uc.categoryRepo.ListAll(ctx)
}

// MoveCategory re-parents a category. Moves that would make a category its
// own ancestor fail with ErrCategoryCycle and change nothing.
func (uc *CatalogUseCase) MoveCategory(ctx context.Context, id string, parentID *string) (*domain.Category, error) {
	categories, err := uc.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	before := domain.NewCategoryTree(categories)
	if err := before.CheckReparent(id, parentID); err != nil {
		return nil, err
	}

	oldChain, err := before.AncestorIDs(id)
	if err != nil {
		return nil, err
	}

	if err := uc.categoryRepo.UpdateParent(ctx, id, parentID); err != nil {
		return nil, err
	}

	_ = uc.calc.InvalidateCategoryTree(ctx)

	after, err := uc.calc.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}

	newChain, err := after.AncestorIDs(id)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.ListByCategories(ctx, append(oldChain, newChain...))
	if err != nil {
		return nil, err
	}

	set := newTargetSet()
	for _, a := range accounts {
		set.add(RecalcTarget{Kind: domain.TargetAccount, ID: a.ID})
	}
	_ = uc.recalc.Refresh(ctx, set.list())

	return uc.categoryRepo.GetByID(ctx, id)
}
