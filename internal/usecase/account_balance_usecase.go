package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
)

// AccountBalanceUseCase handles balances of generic and bank accounts.
type AccountBalanceUseCase struct {
	accountRepo AccountRepository
	bankRepo    BankAccountRepository
	calc        *BalanceCalculator
	recalc      *Recalculator
}

// NewAccountBalanceUseCase creates a new AccountBalanceUseCase.
func NewAccountBalanceUseCase(
	accountRepo AccountRepository,
	bankRepo BankAccountRepository,
	calc *BalanceCalculator,
	recalc *Recalculator,
) *AccountBalanceUseCase {
	return &AccountBalanceUseCase{
		accountRepo: accountRepo,
		bankRepo:    bankRepo,
		calc:        calc,
		recalc:      recalc,
	}
}

// AccountBalance is a computed balance together with the scope it came from.
type AccountBalance struct {
	Account *domain.Account
	Linkage domain.Linkage
	Balance decimal.Decimal
}

// GetAccount retrieves an account by ID.
func (uc *AccountBalanceUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists accounts with pagination.
func (uc *AccountBalanceUseCase) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// CalculateAccountBalance dispatches on the account's linkage: linked cash
// registers, linked bank accounts, or the category subtree.
func (uc *AccountBalanceUseCase) CalculateAccountBalance(ctx context.Context, accountID string) (*AccountBalance, error) {
	balance, linkage, err := uc.calc.AccountBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &AccountBalance{Account: account, Linkage: linkage, Balance: balance}, nil
}

// RecalculateAndUpdateBalance persists the calculated balance and returns it.
func (uc *AccountBalanceUseCase) RecalculateAndUpdateBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	balance, err := uc.recalc.Account(ctx, accountID)
	if err != nil {
		return decimal.Zero, &domain.RecalculationError{Kind: domain.TargetAccount, ID: accountID, Err: err}
	}

	return balance, nil
}

// GetBankAccountBalance returns one bank account's own figure folded onto
// seed, independent of sibling bank accounts under the same parent.
func (uc *AccountBalanceUseCase) GetBankAccountBalance(ctx context.Context, bankAccountID string, seed decimal.Decimal) (decimal.Decimal, error) {
	return uc.calc.BankBalance(ctx, bankAccountID, seed)
}

// GetBankAccount retrieves a bank account by ID.
func (uc *AccountBalanceUseCase) GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error) {
	return uc.bankRepo.GetByID(ctx, id)
}
