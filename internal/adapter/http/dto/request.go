package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

func parseAmount(field, raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a decimal string", domain.ErrValidation, field)
	}

	return amount, nil
}

func parseOptionalAmount(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}

	amount, err := parseAmount(field, *raw)
	if err != nil {
		return nil, err
	}

	return &amount, nil
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	CategoryID     *string `json:"category_id,omitempty"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	InitialBalance string  `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() (usecase.CreateAccountInput, error) {
	initial := decimal.Zero
	if r.InitialBalance != "" {
		var err error
		if initial, err = parseAmount("initial_balance", r.InitialBalance); err != nil {
			return usecase.CreateAccountInput{}, err
		}
	}

	return usecase.CreateAccountInput{
		CategoryID:     r.CategoryID,
		Code:           r.Code,
		Name:           r.Name,
		InitialBalance: initial,
	}, nil
}

// CreateCashRegisterRequest represents a request to create a cash register.
type CreateCashRegisterRequest struct {
	AccountID      *string `json:"account_id,omitempty"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	InitialBalance string  `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCashRegisterRequest) ToUseCaseInput() (usecase.CreateCashRegisterInput, error) {
	initial := decimal.Zero
	if r.InitialBalance != "" {
		var err error
		if initial, err = parseAmount("initial_balance", r.InitialBalance); err != nil {
			return usecase.CreateCashRegisterInput{}, err
		}
	}

	return usecase.CreateCashRegisterInput{
		AccountID:      r.AccountID,
		Name:           r.Name,
		Type:           r.Type,
		InitialBalance: initial,
	}, nil
}

// CreateBankAccountRequest represents a request to create a bank account.
type CreateBankAccountRequest struct {
	AccountID     string `json:"account_id"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBankAccountRequest) ToUseCaseInput() usecase.CreateBankAccountInput {
	return usecase.CreateBankAccountInput{
		AccountID:     r.AccountID,
		BankName:      r.BankName,
		AccountNumber: r.AccountNumber,
	}
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	ParentID *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput() usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		ParentID: r.ParentID,
		Name:     r.Name,
		Type:     r.Type,
	}
}

// MoveCategoryRequest re-parents a category. A null parent makes it a root.
type MoveCategoryRequest struct {
	ParentID *string `json:"parent_id"`
}

// EndpointRequest names one side of a transfer.
type EndpointRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (e EndpointRequest) toDomain() domain.Endpoint {
	return domain.Endpoint{Kind: domain.EndpointKind(e.Kind), ID: e.ID}
}

// TransferRequest creates or replaces a transfer.
type TransferRequest struct {
	Origin      EndpointRequest `json:"origin"`
	Destination EndpointRequest `json:"destination"`
	Concept     string          `json:"concept"`
	Amount      string          `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput(userID string) (usecase.CreateTransferInput, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.CreateTransferInput{}, err
	}

	return usecase.CreateTransferInput{
		Origin:      r.Origin.toDomain(),
		Destination: r.Destination.toDomain(),
		Concept:     r.Concept,
		UserID:      userID,
		Amount:      amount,
	}, nil
}

// RecordEntryRequest records a ledger entry on behalf of another domain.
type RecordEntryRequest struct {
	Date           *time.Time `json:"date,omitempty"`
	CashRegisterID *string    `json:"cash_register_id,omitempty"`
	BankAccountID  *string    `json:"bank_account_id,omitempty"`
	CategoryID     *string    `json:"category_id,omitempty"`
	Type           string     `json:"type"`
	Method         string     `json:"method"`
	Description    string     `json:"description"`
	Amount         string     `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordEntryRequest) ToUseCaseInput(userID string) (usecase.RecordEntryInput, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.RecordEntryInput{}, err
	}

	return usecase.RecordEntryInput{
		Date:           r.Date,
		CashRegisterID: r.CashRegisterID,
		BankAccountID:  r.BankAccountID,
		CategoryID:     r.CategoryID,
		Type:           domain.EntryType(r.Type),
		Method:         domain.EntryMethod(r.Method),
		Description:    r.Description,
		UserID:         userID,
		Amount:         amount,
	}, nil
}

// OpenRegisterRequest opens a register's business day.
type OpenRegisterRequest struct {
	At            *time.Time `json:"at,omitempty"`
	OpeningAmount string     `json:"opening_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenRegisterRequest) ToUseCaseInput(registerID, userID string) (usecase.OpenRegisterInput, error) {
	amount := decimal.Zero
	if r.OpeningAmount != "" {
		var err error
		if amount, err = parseAmount("opening_amount", r.OpeningAmount); err != nil {
			return usecase.OpenRegisterInput{}, err
		}
	}

	return usecase.OpenRegisterInput{
		At:            r.At,
		RegisterID:    registerID,
		UserID:        userID,
		OpeningAmount: amount,
	}, nil
}

// CloseRegisterRequest closes a register's business day. Omitted day totals
// are taken from the daily summary.
type CloseRegisterRequest struct {
	At          *time.Time `json:"at,omitempty"`
	DayIncome   *string    `json:"day_income,omitempty"`
	DayExpense  *string    `json:"day_expense,omitempty"`
	FinalAmount string     `json:"final_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CloseRegisterRequest) ToUseCaseInput(registerID, userID string) (usecase.CloseRegisterInput, error) {
	final, err := parseAmount("final_amount", r.FinalAmount)
	if err != nil {
		return usecase.CloseRegisterInput{}, err
	}

	income, err := parseOptionalAmount("day_income", r.DayIncome)
	if err != nil {
		return usecase.CloseRegisterInput{}, err
	}

	expense, err := parseOptionalAmount("day_expense", r.DayExpense)
	if err != nil {
		return usecase.CloseRegisterInput{}, err
	}

	return usecase.CloseRegisterInput{
		At:          r.At,
		DayIncome:   income,
		DayExpense:  expense,
		RegisterID:  registerID,
		UserID:      userID,
		FinalAmount: final,
	}, nil
}

// SetInitialBalanceRequest replaces a register's initial balance.
type SetInitialBalanceRequest struct {
	InitialBalance string `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *SetInitialBalanceRequest) ToUseCaseInput(registerID, userID string) (usecase.SetInitialBalanceInput, error) {
	amount, err := parseAmount("initial_balance", r.InitialBalance)
	if err != nil {
		return usecase.SetInitialBalanceInput{}, err
	}

	return usecase.SetInitialBalanceInput{
		RegisterID:     registerID,
		UserID:         userID,
		InitialBalance: amount,
	}, nil
}
