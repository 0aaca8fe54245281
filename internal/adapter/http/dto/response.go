package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	result := make([]R, len(items))
	for i, item := range items {
		result[i] = fn(item)
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	CategoryID     *string   `json:"category_id,omitempty"`
	InitialBalance string    `json:"initial_balance"`
	CurrentBalance string    `json:"current_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		CategoryID:     a.CategoryID,
		InitialBalance: money(a.InitialBalance),
		CurrentBalance: money(a.CurrentBalance),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	return mapSlice(accounts, AccountFromDomain)
}

// AccountBalanceResponse is a computed account balance.
type AccountBalanceResponse struct {
	AccountID string `json:"account_id"`
	Linkage   string `json:"linkage"`
	Balance   string `json:"balance"`
}

// AccountBalanceFromUseCase converts a computed balance to response.
func AccountBalanceFromUseCase(b *usecase.AccountBalance) *AccountBalanceResponse {
	return &AccountBalanceResponse{
		AccountID: b.Account.ID,
		Linkage:   string(b.Linkage),
		Balance:   money(b.Balance),
	}
}

// BalanceResponse is a balance for any ledger scope.
type BalanceResponse struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

// NewBalanceResponse builds a BalanceResponse.
func NewBalanceResponse(id string, balance decimal.Decimal) *BalanceResponse {
	return &BalanceResponse{ID: id, Balance: money(balance)}
}

// CashRegisterResponse represents a cash register in API responses.
type CashRegisterResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type,omitempty"`
	AccountID      *string   `json:"account_id,omitempty"`
	InitialBalance string    `json:"initial_balance"`
	CurrentBalance string    `json:"current_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CashRegisterFromDomain converts domain register to response.
func CashRegisterFromDomain(r *domain.CashRegister) *CashRegisterResponse {
	return &CashRegisterResponse{
		ID:             r.ID,
		Name:           r.Name,
		Type:           r.Type,
		AccountID:      r.AccountID,
		InitialBalance: money(r.InitialBalance),
		CurrentBalance: money(r.CurrentBalance),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// CashRegistersFromDomain converts domain registers to responses.
func CashRegistersFromDomain(registers []*domain.CashRegister) []*CashRegisterResponse {
	return mapSlice(registers, CashRegisterFromDomain)
}

// BankAccountResponse represents a bank account in API responses.
type BankAccountResponse struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// BankAccountFromDomain converts domain bank account to response.
func BankAccountFromDomain(b *domain.BankAccount) *BankAccountResponse {
	return &BankAccountResponse{
		ID:            b.ID,
		AccountID:     b.AccountID,
		BankName:      b.BankName,
		AccountNumber: b.AccountNumber,
		CreatedAt:     b.CreatedAt,
	}
}

// BankAccountsFromDomain converts domain bank accounts to responses.
func BankAccountsFromDomain(banks []*domain.BankAccount) []*BankAccountResponse {
	return mapSlice(banks, BankAccountFromDomain)
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryFromDomain converts domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	return mapSlice(categories, CategoryFromDomain)
}

// EndpointResponse names one side of a transfer.
type EndpointResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID          string           `json:"id"`
	Number      string           `json:"number"`
	Amount      string           `json:"amount"`
	Concept     string           `json:"concept"`
	Origin      EndpointResponse `json:"origin"`
	Destination EndpointResponse `json:"destination"`
	Status      string           `json:"status"`
	CreatedBy   string           `json:"created_by"`
	UpdatedBy   string           `json:"updated_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:          t.ID,
		Number:      t.Number,
		Amount:      money(t.Amount),
		Concept:     t.Concept,
		Origin:      EndpointResponse{Kind: string(t.Origin.Kind), ID: t.Origin.ID},
		Destination: EndpointResponse{Kind: string(t.Destination.Kind), ID: t.Destination.ID},
		Status:      string(t.Status),
		CreatedBy:   t.CreatedBy,
		UpdatedBy:   t.UpdatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	return mapSlice(transfers, TransferFromDomain)
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Method         string    `json:"method"`
	Amount         string    `json:"amount"`
	Date           time.Time `json:"date"`
	CashRegisterID *string   `json:"cash_register_id,omitempty"`
	BankAccountID  *string   `json:"bank_account_id,omitempty"`
	CategoryID     *string   `json:"category_id,omitempty"`
	TransferID     *string   `json:"transfer_id,omitempty"`
	Description    string    `json:"description"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		Type:           string(e.Type),
		Method:         string(e.Method),
		Amount:         money(e.Amount),
		Date:           e.Date,
		CashRegisterID: e.CashRegisterID,
		BankAccountID:  e.BankAccountID,
		CategoryID:     e.CategoryID,
		TransferID:     e.TransferID,
		Description:    e.Description,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	return mapSlice(entries, EntryFromDomain)
}

// OpeningResponse represents a register opening.
type OpeningResponse struct {
	ID             string    `json:"id"`
	CashRegisterID string    `json:"cash_register_id"`
	OpeningAmount  string    `json:"opening_amount"`
	OpenedBy       string    `json:"opened_by"`
	OpenedAt       time.Time `json:"opened_at"`
}

// OpeningFromDomain converts domain opening to response.
func OpeningFromDomain(o *domain.RegisterOpening) *OpeningResponse {
	return &OpeningResponse{
		ID:             o.ID,
		CashRegisterID: o.CashRegisterID,
		OpeningAmount:  money(o.OpeningAmount),
		OpenedBy:       o.OpenedBy,
		OpenedAt:       o.OpenedAt,
	}
}

// ClosingResponse represents a register closing.
type ClosingResponse struct {
	ID             string    `json:"id"`
	CashRegisterID string    `json:"cash_register_id"`
	OpeningID      string    `json:"opening_id"`
	FinalAmount    string    `json:"final_amount"`
	DayIncome      string    `json:"day_income"`
	DayExpense     string    `json:"day_expense"`
	ClosedBy       string    `json:"closed_by"`
	ClosedAt       time.Time `json:"closed_at"`
}

// ClosingFromDomain converts domain closing to response.
func ClosingFromDomain(c *domain.RegisterClosing) *ClosingResponse {
	return &ClosingResponse{
		ID:             c.ID,
		CashRegisterID: c.CashRegisterID,
		OpeningID:      c.OpeningID,
		FinalAmount:    money(c.FinalAmount),
		DayIncome:      money(c.DayIncome),
		DayExpense:     money(c.DayExpense),
		ClosedBy:       c.ClosedBy,
		ClosedAt:       c.ClosedAt,
	}
}

// DailySummaryResponse represents a register's totals for one day.
type DailySummaryResponse struct {
	CashRegisterID string    `json:"cash_register_id"`
	Date           string    `json:"date"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	TotalIncome    string    `json:"total_income"`
	TotalExpense   string    `json:"total_expense"`
}

// DailySummaryFromDomain converts a daily summary to response.
func DailySummaryFromDomain(s *domain.DailySummary) *DailySummaryResponse {
	return &DailySummaryResponse{
		CashRegisterID: s.CashRegisterID,
		Date:           s.Date,
		From:           s.From,
		To:             s.To,
		TotalIncome:    money(s.TotalIncome),
		TotalExpense:   money(s.TotalExpense),
	}
}

// HistoryEventResponse is one item of a register's timeline. Exactly one of
// the detail fields is set, matching Kind.
type HistoryEventResponse struct {
	Kind     string            `json:"kind"`
	At       time.Time         `json:"at"`
	Opening  *OpeningResponse  `json:"opening,omitempty"`
	Closing  *ClosingResponse  `json:"closing,omitempty"`
	Transfer *TransferResponse `json:"transfer,omitempty"`
}

// HistoryFromDomain converts a timeline to responses.
func HistoryFromDomain(events []domain.HistoryEvent) []*HistoryEventResponse {
	return mapSlice(events, func(e domain.HistoryEvent) *HistoryEventResponse {
		resp := &HistoryEventResponse{Kind: string(e.Kind), At: e.At}
		switch {
		case e.Opening != nil:
			resp.Opening = OpeningFromDomain(e.Opening)
		case e.Closing != nil:
			resp.Closing = ClosingFromDomain(e.Closing)
		case e.Transfer != nil:
			resp.Transfer = TransferFromDomain(e.Transfer)
		}
		return resp
	})
}

// ReconciliationResultResponse is one cache checked against the ledger.
type ReconciliationResultResponse struct {
	Kind              string    `json:"kind"`
	ID                string    `json:"id"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationReportResponse summarizes a reconciliation run.
type ReconciliationReportResponse struct {
	TotalChecked     int                             `json:"total_checked"`
	Reconciled       int                             `json:"reconciled"`
	Discrepancies    []*ReconciliationResultResponse `json:"discrepancies"`
	LedgerConsistent bool                            `json:"ledger_consistent"`
	CheckedAt        time.Time                       `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a report to response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	return &ReconciliationReportResponse{
		TotalChecked: r.TotalChecked,
		Reconciled:   r.Reconciled,
		Discrepancies: mapSlice(r.Discrepancies, func(d *usecase.ReconciliationResult) *ReconciliationResultResponse {
			return &ReconciliationResultResponse{
				Kind:              d.Kind,
				ID:                d.ID,
				RecordedBalance:   money(d.RecordedBalance),
				CalculatedBalance: money(d.CalculatedBalance),
				Difference:        money(d.Difference),
				IsReconciled:      d.IsReconciled,
				LastChecked:       d.LastChecked,
			}
		}),
		LedgerConsistent: r.LedgerConsistent,
		CheckedAt:        r.CheckedAt,
	}
}

// ConsistencyResponse reports the transfer conservation check.
type ConsistencyResponse struct {
	Status          string    `json:"status"`
	Consistent      bool      `json:"consistent"`
	TransferIncome  string    `json:"transfer_income"`
	TransferExpense string    `json:"transfer_expense"`
	Difference      string    `json:"difference"`
	Message         string    `json:"message,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport, message string) *ConsistencyResponse {
	status := "consistent"
	if !r.Consistent {
		status = "inconsistent"
	}

	return &ConsistencyResponse{
		Status:          status,
		Consistent:      r.Consistent,
		TransferIncome:  money(r.TransferIncome),
		TransferExpense: money(r.TransferExpense),
		Difference:      money(r.Difference),
		Message:         message,
		CheckedAt:       r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
