package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/agroledger/internal/adapter/http/handler"
	"github.com/iho/agroledger/internal/adapter/http/middleware"
	"github.com/iho/agroledger/internal/infrastructure/metrics"
	"github.com/iho/agroledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler   *handler.LedgerHandler
	InterestHandler *handler.InterestHandler
	AdvanceHandler  *handler.AdvanceHandler
	LoanHandler     *handler.LoanHandler
	HealthHandler   *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	Logger           zerolog.Logger
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

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Party ledgers
		r.Route("/parties/{id}", func(r chi.Router) {
			r.Get("/entries", cfg.LedgerHandler.Entries)
			r.Get("/balance", cfg.LedgerHandler.Balance)
			r.Get("/summary", cfg.LedgerHandler.Summary)
			r.Get("/statement.pdf", cfg.LedgerHandler.Statement)
			r.Post("/reconcile", cfg.LedgerHandler.Reconcile)
			r.Post("/release", cfg.LedgerHandler.Release)
			r.Get("/interest", cfg.InterestHandler.PartyInterest)
			r.Get("/advances", cfg.AdvanceHandler.ListByParty)
			r.Get("/advance-limit", cfg.AdvanceHandler.Limit)
			r.Get("/loans", cfg.LoanHandler.ListByParty)
			r.Post("/interest-repayments", cfg.LoanHandler.RepayInterest)
		})

		r.Get("/reconciliation", cfg.LedgerHandler.Report)

		// Interest
		r.Route("/interest", func(r chi.Router) {
			r.Get("/chart", cfg.InterestHandler.Chart)
			r.Post("/post", cfg.InterestHandler.Post)
		})

		// Advances
		r.Route("/advances", func(r chi.Router) {
			r.Post("/", cfg.AdvanceHandler.Create)
			r.Get("/{id}", cfg.AdvanceHandler.Get)
			r.Post("/{id}/convert", cfg.AdvanceHandler.Convert)
			r.Post("/{id}/adjust", cfg.AdvanceHandler.Adjust)
			r.Post("/{id}/close", cfg.AdvanceHandler.Close)
		})

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Disburse)
			r.Post("/overdue", cfg.LoanHandler.MarkOverdue)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Post("/{id}/repayments", cfg.LoanHandler.Repay)
			r.Post("/{id}/close", cfg.LoanHandler.Close)
		})

		r.Get("/amads/{id}/limit", cfg.LoanHandler.AmadLimit)
	})

	return r
}
