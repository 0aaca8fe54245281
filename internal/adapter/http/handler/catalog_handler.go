package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cajaledger/internal/adapter/http/dto"
	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// CatalogService defines the behavior needed by CatalogHandler.
type CatalogService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	CreateCashRegister(ctx context.Context, input usecase.CreateCashRegisterInput) (*domain.CashRegister, error)
	CreateBankAccount(ctx context.Context, input usecase.CreateBankAccountInput) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, limit, offset int) ([]*domain.BankAccount, error)
	CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	MoveCategory(ctx context.Context, id string, parentID *string) (*domain.Category, error)
}

// CatalogHandler handles master data: accounts, registers, bank accounts and
// categories.
type CatalogHandler struct {
	catalogUC CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogUC CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC}
}

// CreateAccount creates a new account.
func (h *CatalogHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decode(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	account, err := h.catalogUC.CreateAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// CreateCashRegister creates a new cash register.
func (h *CatalogHandler) CreateCashRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCashRegisterRequest
	if !decode(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	register, err := h.catalogUC.CreateCashRegister(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create cash register", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CashRegisterFromDomain(register))
}

// CreateBankAccount creates a new bank account.
func (h *CatalogHandler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBankAccountRequest
	if !decode(w, r, &req) {
		return
	}

	bank, err := h.catalogUC.CreateBankAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create bank account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BankAccountFromDomain(bank))
}

// ListBankAccounts lists bank accounts.
func (h *CatalogHandler) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	banks, err := h.catalogUC.ListBankAccounts(r.Context(), parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list bank accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BankAccountsFromDomain(banks))
}

// CreateCategory creates a new category.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !decode(w, r, &req) {
		return
	}

	category, err := h.catalogUC.CreateCategory(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create category", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// ListCategories returns the category tree as a flat list.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUC.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list categories", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// MoveCategory re-parents a category.
func (h *CatalogHandler) MoveCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing category ID", "")
		return
	}

	var req dto.MoveCategoryRequest
	if !decode(w, r, &req) {
		return
	}

	category, err := h.catalogUC.MoveCategory(r.Context(), id, req.ParentID)
	if err != nil {
		writeDomainError(w, "failed to move category", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}
