package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[account.ID]; ok {
		return fmt.Errorf("account %s already exists", account.ID)
	}

	for _, a := range r.store.accounts {
		if a.Code == account.Code {
			return fmt.Errorf("%w: account code %s already in use", domain.ErrValidation, account.Code)
		}
	}

	r.store.accounts[account.ID] = cloneAccount(account)

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return cloneAccount(a), nil
}

// List lists accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		accounts = append(accounts, cloneAccount(a))
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	return page(accounts, limit, offset), nil
}

// ListByCategories lists the accounts attached to any of the categories.
func (r *AccountRepository) ListByCategories(ctx context.Context, categoryIDs []string) ([]*domain.Account, error) {
	wanted := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var accounts []*domain.Account
	for _, a := range r.store.accounts {
		if a.CategoryID != nil && wanted[*a.CategoryID] {
			accounts = append(accounts, cloneAccount(a))
		}
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	return accounts, nil
}

// UpdateCurrentBalance overwrites the cached balance.
func (r *AccountRepository) UpdateCurrentBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return r.mutate(tx, id, func(a *domain.Account) {
		a.CurrentBalance = balance
		a.UpdatedAt = updatedAt
	})
}

// AdjustCurrentBalance adds delta to the cached balance.
func (r *AccountRepository) AdjustCurrentBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	return r.mutate(tx, id, func(a *domain.Account) {
		a.CurrentBalance = a.CurrentBalance.Add(delta)
		a.UpdatedAt = updatedAt
	})
}

func (r *AccountRepository) mutate(tx usecase.Transaction, id string, fn func(a *domain.Account)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}

	before := cloneAccount(a)
	onRollback(tx, func() { r.store.accounts[id] = before })

	fn(a)

	return nil
}

// CashRegisterRepository implements usecase.CashRegisterRepository.
type CashRegisterRepository struct {
	store *Store
}

// NewCashRegisterRepository creates a new CashRegisterRepository.
func NewCashRegisterRepository(store *Store) *CashRegisterRepository {
	return &CashRegisterRepository{store: store}
}

// Create creates a new cash register.
func (r *CashRegisterRepository) Create(ctx context.Context, register *domain.CashRegister) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.registers[register.ID]; ok {
		return fmt.Errorf("cash register %s already exists", register.ID)
	}

	r.store.registers[register.ID] = cloneRegister(register)

	return nil
}

// GetByID retrieves a cash register by ID.
func (r *CashRegisterRepository) GetByID(ctx context.Context, id string) (*domain.CashRegister, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reg, ok := r.store.registers[id]
	if !ok {
		return nil, domain.ErrCashRegisterNotFound
	}

	return cloneRegister(reg), nil
}

// GetByIDForUpdate retrieves a register. The transaction token already
// excludes other writers.
func (r *CashRegisterRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashRegister, error) {
	return r.GetByID(ctx, id)
}

// List lists cash registers ordered by name.
func (r *CashRegisterRepository) List(ctx context.Context, limit, offset int) ([]*domain.CashRegister, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	registers := make([]*domain.CashRegister, 0, len(r.store.registers))
	for _, reg := range r.store.registers {
		registers = append(registers, cloneRegister(reg))
	}

	sortRegisters(registers)

	return page(registers, limit, offset), nil
}

// ListByAccount lists the registers linked to an account.
func (r *CashRegisterRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.CashRegister, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var registers []*domain.CashRegister
	for _, reg := range r.store.registers {
		if reg.AccountID != nil && *reg.AccountID == accountID {
			registers = append(registers, cloneRegister(reg))
		}
	}

	sortRegisters(registers)

	return registers, nil
}

// UpdateCurrentBalance overwrites the cached balance.
func (r *CashRegisterRepository) UpdateCurrentBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return r.mutate(tx, id, func(reg *domain.CashRegister) {
		reg.CurrentBalance = balance
		reg.UpdatedAt = updatedAt
	})
}

// UpdateInitialBalance replaces the register's seed.
func (r *CashRegisterRepository) UpdateInitialBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return r.mutate(tx, id, func(reg *domain.CashRegister) {
		reg.InitialBalance = balance
		reg.UpdatedAt = updatedAt
	})
}

func (r *CashRegisterRepository) mutate(tx usecase.Transaction, id string, fn func(reg *domain.CashRegister)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	reg, ok := r.store.registers[id]
	if !ok {
		return domain.ErrCashRegisterNotFound
	}

	before := cloneRegister(reg)
	onRollback(tx, func() { r.store.registers[id] = before })

	fn(reg)

	return nil
}

func sortRegisters(registers []*domain.CashRegister) {
	sort.Slice(registers, func(i, j int) bool {
		if registers[i].Name != registers[j].Name {
			return registers[i].Name < registers[j].Name
		}
		return registers[i].ID < registers[j].ID
	})
}

// BankAccountRepository implements usecase.BankAccountRepository.
type BankAccountRepository struct {
	store *Store
}

// NewBankAccountRepository creates a new BankAccountRepository.
func NewBankAccountRepository(store *Store) *BankAccountRepository {
	return &BankAccountRepository{store: store}
}

// Create creates a new bank account.
func (r *BankAccountRepository) Create(ctx context.Context, bank *domain.BankAccount) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.accounts[bank.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}

	r.store.banks[bank.ID] = cloneBank(bank)

	return nil
}

// GetByID retrieves a bank account by ID.
func (r *BankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.banks[id]
	if !ok {
		return nil, domain.ErrBankAccountNotFound
	}

	return cloneBank(b), nil
}

// List lists bank accounts.
func (r *BankAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.BankAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	banks := make([]*domain.BankAccount, 0, len(r.store.banks))
	for _, b := range r.store.banks {
		banks = append(banks, cloneBank(b))
	}

	sort.Slice(banks, func(i, j int) bool {
		if banks[i].BankName != banks[j].BankName {
			return banks[i].BankName < banks[j].BankName
		}
		return banks[i].AccountNumber < banks[j].AccountNumber
	})

	return page(banks, limit, offset), nil
}

// ListByAccount lists the bank accounts under a parent account in creation
// order.
func (r *BankAccountRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.BankAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var banks []*domain.BankAccount
	for _, b := range r.store.banks {
		if b.AccountID == accountID {
			banks = append(banks, cloneBank(b))
		}
	}

	sort.Slice(banks, func(i, j int) bool {
		if !banks[i].CreatedAt.Equal(banks[j].CreatedAt) {
			return banks[i].CreatedAt.Before(banks[j].CreatedAt)
		}
		return banks[i].ID < banks[j].ID
	})

	return banks, nil
}

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// Create creates a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if category.ParentID != nil {
		if _, ok := r.store.categories[*category.ParentID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}

	r.store.categories[category.ID] = cloneCategory(category)

	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}

	return cloneCategory(c), nil
}

// ListAll returns every category ordered by name.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		categories = append(categories, cloneCategory(c))
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})

	return categories, nil
}

// UpdateParent re-parents a category.
func (r *CategoryRepository) UpdateParent(ctx context.Context, id string, parentID *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}

	if parentID != nil {
		if _, ok := r.store.categories[*parentID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}

	c.ParentID = parentID

	return nil
}
