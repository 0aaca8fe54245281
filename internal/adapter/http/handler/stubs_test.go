package handler

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/cajaledger/internal/adapter/http/middleware"
	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

// serve routes one request through chi so URL params resolve, carrying the
// actor header through the real middleware.
func serve(method, target, body string, register func(chi.Router)) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(middleware.Actor)
	register(r)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "user-1")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

type transferServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error)
	updateFn  func(ctx context.Context, id string, input usecase.UpdateTransferInput) (*domain.Transfer, error)
	deleteFn  func(ctx context.Context, id, userID string) error
	getFn     func(ctx context.Context, id string) (*domain.Transfer, error)
	listFn    func(ctx context.Context, limit, offset int) ([]*domain.Transfer, error)
	entriesFn func(ctx context.Context, id string) ([]*domain.Entry, error)
}

func (s *transferServiceStub) CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
	return s.createFn(ctx, input)
}

func (s *transferServiceStub) UpdateTransfer(ctx context.Context, id string, input usecase.UpdateTransferInput) (*domain.Transfer, error) {
	return s.updateFn(ctx, id, input)
}

func (s *transferServiceStub) DeleteTransfer(ctx context.Context, id, userID string) error {
	return s.deleteFn(ctx, id, userID)
}

func (s *transferServiceStub) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return s.getFn(ctx, id)
}

func (s *transferServiceStub) ListTransfers(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *transferServiceStub) ListTransferEntries(ctx context.Context, id string) ([]*domain.Entry, error) {
	return s.entriesFn(ctx, id)
}

type cashRegisterServiceStub struct {
	balance    decimal.Decimal
	openFn     func(ctx context.Context, input usecase.OpenRegisterInput) (*domain.RegisterOpening, error)
	closeFn    func(ctx context.Context, input usecase.CloseRegisterInput) (*domain.RegisterClosing, error)
	summaryFn  func(ctx context.Context, registerID string, date *time.Time) (*domain.DailySummary, error)
	historyFn  func(ctx context.Context, registerID string) ([]domain.HistoryEvent, error)
	setFn      func(ctx context.Context, input usecase.SetInitialBalanceInput) (*domain.CashRegister, error)
	recalcErr  error
	balanceErr error
}

func (s *cashRegisterServiceStub) GetRegister(ctx context.Context, id string) (*domain.CashRegister, error) {
	return &domain.CashRegister{ID: id, CurrentBalance: s.balance}, nil
}

func (s *cashRegisterServiceStub) ListRegisters(ctx context.Context, limit, offset int) ([]*domain.CashRegister, error) {
	return nil, nil
}

func (s *cashRegisterServiceStub) CalculateBalance(ctx context.Context, registerID string) (decimal.Decimal, error) {
	return s.balance, s.balanceErr
}

func (s *cashRegisterServiceStub) RecalculateAndPersist(ctx context.Context, registerID string) (decimal.Decimal, error) {
	return s.balance, s.recalcErr
}

func (s *cashRegisterServiceStub) OpenRegister(ctx context.Context, input usecase.OpenRegisterInput) (*domain.RegisterOpening, error) {
	return s.openFn(ctx, input)
}

func (s *cashRegisterServiceStub) CloseRegister(ctx context.Context, input usecase.CloseRegisterInput) (*domain.RegisterClosing, error) {
	return s.closeFn(ctx, input)
}

func (s *cashRegisterServiceStub) DailySummary(ctx context.Context, registerID string, date *time.Time) (*domain.DailySummary, error) {
	return s.summaryFn(ctx, registerID, date)
}

func (s *cashRegisterServiceStub) ParseDay(v string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date", domain.ErrValidation)
	}
	return day, nil
}

func (s *cashRegisterServiceStub) History(ctx context.Context, registerID string) ([]domain.HistoryEvent, error) {
	return s.historyFn(ctx, registerID)
}

func (s *cashRegisterServiceStub) ListEntries(ctx context.Context, registerID string, limit, offset int) ([]*domain.Entry, error) {
	return nil, nil
}

func (s *cashRegisterServiceStub) SetInitialBalance(ctx context.Context, input usecase.SetInitialBalanceInput) (*domain.CashRegister, error) {
	return s.setFn(ctx, input)
}
