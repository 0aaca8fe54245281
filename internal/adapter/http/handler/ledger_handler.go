package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/cajaledger/internal/adapter/http/dto"
	"github.com/iho/cajaledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency reports transfer income against transfer expense. An
// imbalance answers 409 with the figures.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	switch {
	case errors.Is(err, usecase.ErrInconsistentLedger) && report != nil:
		writeJSON(w, http.StatusConflict, dto.ConsistencyFromUseCase(report, err.Error()))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
	default:
		writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report, ""))
	}
}
