package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/cajaledger/internal/adapter/http/dto"
	"github.com/iho/cajaledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/cajaledger/internal/adapter/http/middleware"
	"github.com/iho/cajaledger/internal/adapter/repository/memory"
	"github.com/iho/cajaledger/internal/adapter/repository/postgres"
	"github.com/iho/cajaledger/internal/infrastructure/auth"
	"github.com/iho/cajaledger/internal/infrastructure/metrics"
	"github.com/iho/cajaledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_RejectsMutationsWithoutActor(t *testing.T) {
	router := NewRouter(newRouterConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cash-registers/", strings.NewReader(`{"name":"Principal"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestNewRouter_AcceptsBearerTokens(t *testing.T) {
	jwt := auth.NewJWTManager("router-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.TokenVerifier = jwt
	}))

	token, err := jwt.Generate("cajero-2")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	post := func(authorization string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cash-registers/", strings.NewReader(`{"name":"Principal"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", authorization)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := post("Bearer " + token); code != http.StatusCreated {
		t.Fatalf("expected 201 with a valid token, got %d", code)
	}
	if code := post("Bearer not-a-token"); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", code)
	}
}

func TestNewRouter_IdempotencyReplaysResponse(t *testing.T) {
	store := newMapIdempotencyStore()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	first := do(t, router, http.MethodPost, "/api/v1/cash-registers/", `{"name":"Principal","initial_balance":"1000"}`, "key-1")
	second := do(t, router, http.MethodPost, "/api/v1/cash-registers/", `{"name":"Principal","initial_balance":"1000"}`, "key-1")

	if first.Code != http.StatusCreated || second.Code != http.StatusOK {
		t.Fatalf("expected 201 then a 200 replay, got %d and %d", first.Code, second.Code)
	}
	if second.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected second response to be a replay")
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("expected identical bodies")
	}

	list := do(t, router, http.MethodGet, "/api/v1/cash-registers/", "", "")
	var registers []dto.CashRegisterResponse
	decodeBody(t, list, &registers)
	if len(registers) != 1 {
		t.Fatalf("expected one register to be created, got %d", len(registers))
	}
}

func TestNewRouter_TransferFlow(t *testing.T) {
	router := NewRouter(newRouterConfig())

	var register dto.CashRegisterResponse
	decodeBody(t, do(t, router, http.MethodPost, "/api/v1/cash-registers/", `{"name":"Principal","initial_balance":"1000"}`, ""), &register)

	var account dto.AccountResponse
	decodeBody(t, do(t, router, http.MethodPost, "/api/v1/accounts/", `{"code":"1.1.02","name":"Bancos"}`, ""), &account)

	var bank dto.BankAccountResponse
	decodeBody(t, do(t, router, http.MethodPost, "/api/v1/bank-accounts/",
		`{"account_id":"`+account.ID+`","bank_name":"Banco Central","account_number":"0102-01"}`, ""), &bank)

	body := `{"origin":{"kind":"caja","id":"` + register.ID + `"},"destination":{"kind":"banco","id":"` + bank.ID + `"},"concept":"deposito","amount":"300"}`
	rec := do(t, router, http.MethodPost, "/api/v1/transfers/", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var transfer dto.TransferResponse
	decodeBody(t, rec, &transfer)
	if !strings.HasPrefix(transfer.Number, "TR-") || !strings.HasSuffix(transfer.Number, "-00001") {
		t.Fatalf("unexpected transfer number %s", transfer.Number)
	}

	var balance dto.BalanceResponse
	decodeBody(t, do(t, router, http.MethodGet, "/api/v1/cash-registers/"+register.ID+"/balance", "", ""), &balance)
	if balance.Balance != "700.00" {
		t.Fatalf("expected register balance 700.00, got %s", balance.Balance)
	}

	var accountBalance dto.AccountBalanceResponse
	decodeBody(t, do(t, router, http.MethodGet, "/api/v1/accounts/"+account.ID+"/balance", "", ""), &accountBalance)
	if accountBalance.Balance != "300.00" || accountBalance.Linkage != "banco" {
		t.Fatalf("unexpected account balance: %+v", accountBalance)
	}

	overdraw := strings.Replace(body, `"300"`, `"5000"`, 1)
	if rec := do(t, router, http.MethodPost, "/api/v1/transfers/", overdraw, ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for overdraw, got %d", rec.Code)
	}

	if rec := do(t, router, http.MethodDelete, "/api/v1/transfers/"+transfer.ID, "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	decodeBody(t, do(t, router, http.MethodGet, "/api/v1/cash-registers/"+register.ID+"/balance", "", ""), &balance)
	if balance.Balance != "1000.00" {
		t.Fatalf("expected balance restored to 1000.00, got %s", balance.Balance)
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/ledger/consistency", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected consistent ledger, got %d", rec.Code)
	}

	var report dto.ReconciliationReportResponse
	decodeBody(t, do(t, router, http.MethodGet, "/api/v1/reconciliation", "", ""), &report)
	if len(report.Discrepancies) != 0 || !report.LedgerConsistent {
		t.Fatalf("expected clean reconciliation, got %+v", report)
	}
}

func TestNewRouter_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = metrics.NewWithRegistry(reg)
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	do(t, router, http.MethodGet, "/api/v1/transfers/", "", "")

	rec := do(t, router, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `path="/api/v1/transfers/"`) {
		t.Fatalf("expected request metric labelled by route pattern")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/{id}/balance",
		"GET /api/v1/cash-registers/{id}/daily-summary",
		"POST /api/v1/cash-registers/{id}/open",
		"POST /api/v1/cash-registers/{id}/close",
		"GET /api/v1/cash-registers/{id}/history",
		"GET /api/v1/bank-accounts/{id}/balance",
		"PUT /api/v1/categories/{id}/parent",
		"POST /api/v1/transfers/",
		"PUT /api/v1/transfers/{id}",
		"DELETE /api/v1/transfers/{id}",
		"POST /api/v1/entries",
		"GET /api/v1/ledger/consistency",
		"POST /api/v1/reconciliation/repair",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	store := memory.NewStore()
	services := usecase.NewServices(memory.NewRepositories(store), usecase.ServiceOptions{
		IDGen:    postgres.NewULIDGenerator(),
		Queue:    memory.NewRecalcQueue(),
		Location: time.UTC,
		Logger:   zerolog.Nop(),
	})

	cfg := NewRouterConfig(services, handler.NewHealthHandler(nil))
	cfg.Logger = zerolog.Nop()

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func do(t *testing.T, router http.Handler, method, target, body, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.UserIDHeader, "cajero-1")
	if idempotencyKey != "" {
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, idempotencyKey)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if rec.Code >= 300 {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

type mapIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string][]byte
}

func newMapIdempotencyStore() *mapIdempotencyStore {
	return &mapIdempotencyStore{keys: make(map[string][]byte)}
}

func (s *mapIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.keys[key]; ok {
		return true, existing, nil
	}
	s.keys[key] = response
	return false, nil, nil
}

func (s *mapIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[key] = response
	return nil
}

func (s *mapIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, key)
	return nil
}
