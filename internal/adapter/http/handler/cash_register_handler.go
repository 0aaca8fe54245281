package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/adapter/http/dto"
	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// CashRegisterService defines the behavior needed by CashRegisterHandler.
type CashRegisterService interface {
	GetRegister(ctx context.Context, id string) (*domain.CashRegister, error)
	ListRegisters(ctx context.Context, limit, offset int) ([]*domain.CashRegister, error)
	CalculateBalance(ctx context.Context, registerID string) (decimal.Decimal, error)
	RecalculateAndPersist(ctx context.Context, registerID string) (decimal.Decimal, error)
	OpenRegister(ctx context.Context, input usecase.OpenRegisterInput) (*domain.RegisterOpening, error)
	CloseRegister(ctx context.Context, input usecase.CloseRegisterInput) (*domain.RegisterClosing, error)
	DailySummary(ctx context.Context, registerID string, date *time.Time) (*domain.DailySummary, error)
	ParseDay(s string) (time.Time, error)
	History(ctx context.Context, registerID string) ([]domain.HistoryEvent, error)
	ListEntries(ctx context.Context, registerID string, limit, offset int) ([]*domain.Entry, error)
	SetInitialBalance(ctx context.Context, input usecase.SetInitialBalanceInput) (*domain.CashRegister, error)
}

// CashRegisterHandler handles register balances and the open/close
// lifecycle.
type CashRegisterHandler struct {
	registerUC CashRegisterService
}

// NewCashRegisterHandler creates a new CashRegisterHandler.
func NewCashRegisterHandler(registerUC CashRegisterService) *CashRegisterHandler {
	return &CashRegisterHandler{registerUC: registerUC}
}

// Get retrieves a register by ID.
func (h *CashRegisterHandler) Get(w http.ResponseWriter, r *http.Request) {
	register, err := h.registerUC.GetRegister(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get cash register", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashRegisterFromDomain(register))
}

// List lists registers.
func (h *CashRegisterHandler) List(w http.ResponseWriter, r *http.Request) {
	registers, err := h.registerUC.ListRegisters(r.Context(), parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list cash registers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashRegistersFromDomain(registers))
}

// Balance computes the register balance from the ledger without touching
// the cache.
func (h *CashRegisterHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	balance, err := h.registerUC.CalculateBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to calculate balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBalanceResponse(id, balance))
}

// Recalculate rewrites the register cache from the ledger.
func (h *CashRegisterHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	balance, err := h.registerUC.RecalculateAndPersist(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to recalculate balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBalanceResponse(id, balance))
}

// DailySummary returns income and expense for ?date=YYYY-MM-DD, today when
// omitted.
func (h *CashRegisterHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := h.registerUC.ParseDay(raw)
		if err != nil {
			writeDomainError(w, "invalid date", err)
			return
		}
		date = &day
	}

	summary, err := h.registerUC.DailySummary(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		writeDomainError(w, "failed to build daily summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DailySummaryFromDomain(summary))
}

// Open starts a business day.
func (h *CashRegisterHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenRegisterRequest
	if !decode(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), actor(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	opening, err := h.registerUC.OpenRegister(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to open cash register", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OpeningFromDomain(opening))
}

// Close ends a business day.
func (h *CashRegisterHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req dto.CloseRegisterRequest
	if !decode(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), actor(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	closing, err := h.registerUC.CloseRegister(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to close cash register", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ClosingFromDomain(closing))
}

// History returns the register timeline, newest first.
func (h *CashRegisterHandler) History(w http.ResponseWriter, r *http.Request) {
	events, err := h.registerUC.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to load history", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromDomain(events))
}

// Entries lists the entries recorded against the register.
func (h *CashRegisterHandler) Entries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.registerUC.ListEntries(
		r.Context(),
		chi.URLParam(r, "id"),
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// SetInitialBalance corrects the register's initial balance.
func (h *CashRegisterHandler) SetInitialBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.SetInitialBalanceRequest
	if !decode(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), actor(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	register, err := h.registerUC.SetInitialBalance(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to set initial balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashRegisterFromDomain(register))
}
