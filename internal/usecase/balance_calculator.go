package usecase

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
)

// BalanceCalculator folds ledger entries into balances. It never writes.
type BalanceCalculator struct {
	accountRepo  AccountRepository
	registerRepo CashRegisterRepository
	bankRepo     BankAccountRepository
	categoryRepo CategoryRepository
	entryRepo    EntryRepository
	cache        Cache
}

// NewBalanceCalculator creates a new BalanceCalculator. cache may be nil.
func NewBalanceCalculator(
	accountRepo AccountRepository,
	registerRepo CashRegisterRepository,
	bankRepo BankAccountRepository,
	categoryRepo CategoryRepository,
	entryRepo EntryRepository,
	cache Cache,
) *BalanceCalculator {
	return &BalanceCalculator{
		accountRepo:  accountRepo,
		registerRepo: registerRepo,
		bankRepo:     bankRepo,
		categoryRepo: categoryRepo,
		entryRepo:    entryRepo,
		cache:        cache,
	}
}

// RegisterBalance returns the register's initial balance plus its entries.
func (c *BalanceCalculator) RegisterBalance(ctx context.Context, registerID string) (decimal.Decimal, error) {
	register, err := c.registerRepo.GetByID(ctx, registerID)
	if err != nil {
		return decimal.Zero, err
	}

	return c.RegisterBalanceFrom(ctx, register.ID, register.InitialBalance)
}

// RegisterBalanceFrom folds the register's entries onto an explicit seed.
func (c *BalanceCalculator) RegisterBalanceFrom(ctx context.Context, registerID string, seed decimal.Decimal) (decimal.Decimal, error) {
	sums, err := c.entryRepo.SumByCashRegister(ctx, registerID)
	if err != nil {
		return decimal.Zero, err
	}

	return domain.FoldBalance(seed, sums), nil
}

// BankBalance folds the bank account's entries onto seed.
func (c *BalanceCalculator) BankBalance(ctx context.Context, bankAccountID string, seed decimal.Decimal) (decimal.Decimal, error) {
	if _, err := c.bankRepo.GetByID(ctx, bankAccountID); err != nil {
		return decimal.Zero, err
	}

	sums, err := c.entryRepo.SumByBankAccount(ctx, bankAccountID)
	if err != nil {
		return decimal.Zero, err
	}

	return domain.FoldBalance(seed, sums), nil
}

// AccountBalance computes an account's balance according to its linkage.
// Linked registers and bank accounts are summed from a zero seed and the
// account's own initial balance is added once.
func (c *BalanceCalculator) AccountBalance(ctx context.Context, accountID string) (decimal.Decimal, domain.Linkage, error) {
	account, err := c.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, "", err
	}

	registers, err := c.registerRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, "", err
	}

	banks, err := c.bankRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, "", err
	}

	linkage, err := domain.ResolveLinkage(len(registers), len(banks))
	if err != nil {
		return decimal.Zero, "", err
	}

	total := decimal.Zero

	switch linkage {
	case domain.LinkageCashRegister:
		for _, r := range registers {
			balance, err := c.RegisterBalanceFrom(ctx, r.ID, decimal.Zero)
			if err != nil {
				return decimal.Zero, "", err
			}
			total = total.Add(balance)
		}

	case domain.LinkageBank:
		for _, b := range banks {
			sums, err := c.entryRepo.SumByBankAccount(ctx, b.ID)
			if err != nil {
				return decimal.Zero, "", err
			}
			total = total.Add(sums.Net())
		}

	case domain.LinkageCategory:
		if account.CategoryID == nil {
			break
		}

		tree, err := c.CategoryTree(ctx)
		if err != nil {
			return decimal.Zero, "", err
		}

		ids, err := tree.SubtreeIDs(*account.CategoryID)
		if err != nil {
			return decimal.Zero, "", err
		}

		sums, err := c.entryRepo.SumByCategories(ctx, ids)
		if err != nil {
			return decimal.Zero, "", err
		}
		total = sums.Net()
	}

	return account.InitialBalance.Add(total), linkage, nil
}

// EndpointBalance returns the spendable balance of a transfer endpoint. A
// bank account inherits its parent account's initial balance only when it
// is the parent's sole bank account.
func (c *BalanceCalculator) EndpointBalance(ctx context.Context, endpoint domain.Endpoint) (decimal.Decimal, error) {
	switch endpoint.Kind {
	case domain.EndpointCashRegister:
		return c.RegisterBalance(ctx, endpoint.ID)

	case domain.EndpointBank:
		bank, err := c.bankRepo.GetByID(ctx, endpoint.ID)
		if err != nil {
			return decimal.Zero, err
		}

		seed, err := c.bankSeed(ctx, bank)
		if err != nil {
			return decimal.Zero, err
		}

		sums, err := c.entryRepo.SumByBankAccount(ctx, bank.ID)
		if err != nil {
			return decimal.Zero, err
		}

		return domain.FoldBalance(seed, sums), nil
	}

	return decimal.Zero, domain.ErrInvalidEndpoint
}

func (c *BalanceCalculator) bankSeed(ctx context.Context, bank *domain.BankAccount) (decimal.Decimal, error) {
	siblings, err := c.bankRepo.ListByAccount(ctx, bank.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	if len(siblings) != 1 {
		return decimal.Zero, nil
	}

	account, err := c.accountRepo.GetByID(ctx, bank.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	return account.InitialBalance, nil
}

// BankParentAccount returns the parent account id of a bank endpoint, or ""
// for any other endpoint kind.
func (c *BalanceCalculator) BankParentAccount(ctx context.Context, endpoint domain.Endpoint) (string, error) {
	if endpoint.Kind != domain.EndpointBank {
		return "", nil
	}

	bank, err := c.bankRepo.GetByID(ctx, endpoint.ID)
	if err != nil {
		return "", err
	}

	return bank.AccountID, nil
}

// TargetsForEndpoints resolves every cached balance a change on the given
// endpoints affects.
func (c *BalanceCalculator) TargetsForEndpoints(ctx context.Context, endpoints ...domain.Endpoint) ([]RecalcTarget, error) {
	set := newTargetSet()

	for _, e := range endpoints {
		switch e.Kind {
		case domain.EndpointCashRegister:
			register, err := c.registerRepo.GetByID(ctx, e.ID)
			if err != nil {
				return nil, err
			}
			set.add(RecalcTarget{Kind: domain.TargetCashRegister, ID: register.ID})
			if register.AccountID != nil {
				set.add(RecalcTarget{Kind: domain.TargetAccount, ID: *register.AccountID})
			}

		case domain.EndpointBank:
			accountID, err := c.BankParentAccount(ctx, e)
			if err != nil {
				return nil, err
			}
			set.add(RecalcTarget{Kind: domain.TargetAccount, ID: accountID})
		}
	}

	return set.list(), nil
}

// TargetsForEntry resolves the cached balances an entry feeds: its register
// or bank scope and every generic account rolling up its category.
func (c *BalanceCalculator) TargetsForEntry(ctx context.Context, entry *domain.Entry) ([]RecalcTarget, error) {
	var endpoints []domain.Endpoint
	if entry.CashRegisterID != nil {
		endpoints = append(endpoints, domain.Endpoint{Kind: domain.EndpointCashRegister, ID: *entry.CashRegisterID})
	}
	if entry.BankAccountID != nil {
		endpoints = append(endpoints, domain.Endpoint{Kind: domain.EndpointBank, ID: *entry.BankAccountID})
	}

	targets, err := c.TargetsForEndpoints(ctx, endpoints...)
	if err != nil {
		return nil, err
	}

	if entry.CategoryID == nil {
		return targets, nil
	}

	tree, err := c.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}

	ancestors, err := tree.AncestorIDs(*entry.CategoryID)
	if err != nil {
		return nil, err
	}

	accounts, err := c.accountRepo.ListByCategories(ctx, ancestors)
	if err != nil {
		return nil, err
	}

	set := newTargetSet()
	for _, t := range targets {
		set.add(t)
	}
	for _, a := range accounts {
		set.add(RecalcTarget{Kind: domain.TargetAccount, ID: a.ID})
	}

	return set.list(), nil
}

// CategoryTree loads the category hierarchy, through the cache when one is
// configured. Cache failures fall back to the repository.
func (c *BalanceCalculator) CategoryTree(ctx context.Context) (*domain.CategoryTree, error) {
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, categoryTreeCacheKey); err == nil {
			var categories []*domain.Category
			if err := json.Unmarshal(raw, &categories); err == nil {
				return domain.NewCategoryTree(categories), nil
			}
		}
	}

	categories, err := c.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if raw, err := json.Marshal(categories); err == nil {
			_ = c.cache.Set(ctx, categoryTreeCacheKey, raw, CategoryTreeTTL)
		}
	}

	return domain.NewCategoryTree(categories), nil
}

// InvalidateCategoryTree drops the cached hierarchy after a change.
func (c *BalanceCalculator) InvalidateCategoryTree(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}

	return c.cache.Delete(ctx, categoryTreeCacheKey)
}
