package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/adapter/http/dto"
	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	CalculateAccountBalance(ctx context.Context, accountID string) (*usecase.AccountBalance, error)
	RecalculateAndUpdateBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error)
	GetBankAccountBalance(ctx context.Context, bankAccountID string, seed decimal.Decimal) (decimal.Decimal, error)
}

// AccountHandler handles account and bank account balance requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Balance computes an account's balance from the ledger.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balance, err := h.accountUC.CalculateAccountBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to calculate balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountBalanceFromUseCase(balance))
}

// Recalculate rewrites an account's cached balance from the ledger.
func (h *AccountHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balance, err := h.accountUC.RecalculateAndUpdateBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to recalculate balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBalanceResponse(id, balance))
}

// BankBalance computes one bank account's own balance, seeded with the
// optional "seed" query parameter.
func (h *AccountHandler) BankBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bank account ID", "")
		return
	}

	seed := decimal.Zero
	if raw := r.URL.Query().Get("seed"); raw != "" {
		var err error
		if seed, err = decimal.NewFromString(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid seed", err.Error())
			return
		}
	}

	if _, err := h.accountUC.GetBankAccount(r.Context(), id); err != nil {
		writeDomainError(w, "failed to get bank account", err)
		return
	}

	balance, err := h.accountUC.GetBankAccountBalance(r.Context(), id, seed)
	if err != nil {
		writeDomainError(w, "failed to calculate balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBalanceResponse(id, balance))
}
