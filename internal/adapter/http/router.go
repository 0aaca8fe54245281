package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/cajaledger/internal/adapter/http/handler"
	"github.com/iho/cajaledger/internal/adapter/http/middleware"
	"github.com/iho/cajaledger/internal/infrastructure/metrics"
	"github.com/iho/cajaledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CatalogHandler        *handler.CatalogHandler
	AccountHandler        *handler.AccountHandler
	CashRegisterHandler   *handler.CashRegisterHandler
	TransferHandler       *handler.TransferHandler
	EntryHandler          *handler.EntryHandler
	LedgerHandler         *handler.LedgerHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	// TokenVerifier enables bearer-token actors. Nil accepts X-User-ID only.
	TokenVerifier middleware.TokenVerifier

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	// MetricsHandler serves /metrics. Nil uses the default registry.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ActorWithTokens(cfg.TokenVerifier))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.CatalogHandler.CreateAccount)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.Balance)
			r.Post("/{id}/recalculate", cfg.AccountHandler.Recalculate)
		})

		// Cash registers
		r.Route("/cash-registers", func(r chi.Router) {
			r.Post("/", cfg.CatalogHandler.CreateCashRegister)
			r.Get("/", cfg.CashRegisterHandler.List)
			r.Get("/{id}", cfg.CashRegisterHandler.Get)
			r.Get("/{id}/balance", cfg.CashRegisterHandler.Balance)
			r.Post("/{id}/recalculate", cfg.CashRegisterHandler.Recalculate)
			r.Get("/{id}/daily-summary", cfg.CashRegisterHandler.DailySummary)
			r.Post("/{id}/open", cfg.CashRegisterHandler.Open)
			r.Post("/{id}/close", cfg.CashRegisterHandler.Close)
			r.Get("/{id}/history", cfg.CashRegisterHandler.History)
			r.Get("/{id}/entries", cfg.CashRegisterHandler.Entries)
			r.Put("/{id}/initial-balance", cfg.CashRegisterHandler.SetInitialBalance)
		})

		// Bank accounts
		r.Route("/bank-accounts", func(r chi.Router) {
			r.Post("/", cfg.CatalogHandler.CreateBankAccount)
			r.Get("/", cfg.CatalogHandler.ListBankAccounts)
			r.Get("/{id}/balance", cfg.AccountHandler.BankBalance)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", cfg.CatalogHandler.CreateCategory)
			r.Get("/", cfg.CatalogHandler.ListCategories)
			r.Put("/{id}/parent", cfg.CatalogHandler.MoveCategory)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/", cfg.TransferHandler.List)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Put("/{id}", cfg.TransferHandler.Update)
			r.Delete("/{id}", cfg.TransferHandler.Delete)
			r.Get("/{id}/entries", cfg.TransferHandler.Entries)
		})

		r.Post("/entries", cfg.EntryHandler.Record)

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)

		r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
		r.Post("/reconciliation/repair", cfg.ReconciliationHandler.Repair)
	})

	return r
}

// NewRouterConfig builds the handlers for services. Transport options are
// left for the caller to fill in.
func NewRouterConfig(services *usecase.Services, health *handler.HealthHandler) RouterConfig {
	return RouterConfig{
		CatalogHandler:        handler.NewCatalogHandler(services.Catalog),
		AccountHandler:        handler.NewAccountHandler(services.Accounts),
		CashRegisterHandler:   handler.NewCashRegisterHandler(services.CashRegisters),
		TransferHandler:       handler.NewTransferHandler(services.Transfers),
		EntryHandler:          handler.NewEntryHandler(services.Entries),
		LedgerHandler:         handler.NewLedgerHandler(services.Ledger),
		ReconciliationHandler: handler.NewReconciliationHandler(services.Reconciliation),
		HealthHandler:         health,
	}
}
