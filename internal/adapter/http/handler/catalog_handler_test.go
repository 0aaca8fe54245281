package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/usecase"
)

type catalogServiceStub struct {
	moveErr error
	created usecase.CreateAccountInput
}

func (s *catalogServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	s.created = input
	return &domain.Account{ID: "acc-1", Code: input.Code, Name: input.Name}, nil
}

func (s *catalogServiceStub) CreateCashRegister(ctx context.Context, input usecase.CreateCashRegisterInput) (*domain.CashRegister, error) {
	return nil, domain.ErrAmbiguousLinkage
}

func (s *catalogServiceStub) CreateBankAccount(ctx context.Context, input usecase.CreateBankAccountInput) (*domain.BankAccount, error) {
	return nil, domain.ErrAccountNotFound
}

func (s *catalogServiceStub) ListBankAccounts(ctx context.Context, limit, offset int) ([]*domain.BankAccount, error) {
	return nil, nil
}

func (s *catalogServiceStub) CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: "cat-1", Name: input.Name}, nil
}

func (s *catalogServiceStub) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return nil, nil
}

func (s *catalogServiceStub) MoveCategory(ctx context.Context, id string, parentID *string) (*domain.Category, error) {
	if s.moveErr != nil {
		return nil, s.moveErr
	}
	return &domain.Category{ID: id, ParentID: parentID}, nil
}

func catalogRoutes(h *CatalogHandler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/accounts", h.CreateAccount)
		r.Post("/cash-registers", h.CreateCashRegister)
		r.Post("/bank-accounts", h.CreateBankAccount)
		r.Put("/categories/{id}/parent", h.MoveCategory)
	}
}

func TestCatalogHandler_CreateAccount(t *testing.T) {
	stub := &catalogServiceStub{}
	h := NewCatalogHandler(stub)

	rec := serve(http.MethodPost, "/accounts", `{"code":"1.1.01","name":"Caja general","initial_balance":"250.50"}`, catalogRoutes(h))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.created.Code != "1.1.01" || stub.created.InitialBalance.String() != "250.5" {
		t.Fatalf("unexpected input: %+v", stub.created)
	}

	rec = serve(http.MethodPost, "/accounts", `{"code":"1","name":"x","initial_balance":"abc"}`, catalogRoutes(h))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCatalogHandler_Errors(t *testing.T) {
	h := NewCatalogHandler(&catalogServiceStub{moveErr: domain.ErrCategoryCycle})

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		expected int
	}{
		{"ambiguous linkage", http.MethodPost, "/cash-registers", `{"name":"Caja 2"}`, http.StatusBadRequest},
		{"unknown parent account", http.MethodPost, "/bank-accounts", `{"account_id":"nope","bank_name":"B","account_number":"1"}`, http.StatusNotFound},
		{"category cycle", http.MethodPut, "/categories/cat-1/parent", `{"parent_id":"cat-2"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.method, tt.target, tt.body, catalogRoutes(h))
			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}
