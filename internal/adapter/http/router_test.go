package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/agroledger/internal/adapter/http/middleware"
	"github.com/iho/agroledger/internal/adapter/repository/memory"
	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/infrastructure/metrics"
	"github.com/iho/agroledger/internal/usecase"
)

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) Generate() string { return fmt.Sprintf("id-%04d", s.n.Add(1)) }

type onceRetrier struct{}

func (onceRetrier) Retry(ctx context.Context, operation func() error) error { return operation() }

type staticSettings struct{}

func (staticSettings) For(string) domain.LendingSettings {
	return domain.LendingSettings{
		AdvancePerBagRate:   decimal.NewFromInt(300),
		LoanPerBagRate:      decimal.NewFromInt(500),
		DefaultRatePerMonth: decimal.NewFromInt(2),
		DueHorizonDays:      180,
	}
}

// newMemoryRouterConfig wires the real use cases over a seeded memory store.
func newMemoryRouterConfig(t *testing.T, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	store := memory.New()
	store.SeedParty(domain.Party{ID: "party-1", OrganizationID: "org-1", Name: "Ramesh"})
	store.SeedAmad(domain.Amad{
		ID:             "amad-1",
		OrganizationID: "org-1",
		PartyID:        "party-1",
		TotalUnits:     decimal.NewFromInt(20),
		Status:         domain.AmadStatusStored,
	})

	logger := zerolog.Nop()
	ids := &seqIDs{}
	guard := memory.NewPartyGuard()
	ledgerRepo := memory.NewLedgerRepository(store)
	directory := memory.NewPartyDirectory(store)

	ledgerUC := usecase.NewLedgerUseCase(memory.NewTxManager(store), ledgerRepo, guard, onceRetrier{}, ids, logger)
	loanUC := usecase.NewLoanUseCase(ledgerUC, memory.NewAdvanceRepository(store), memory.NewLoanRepository(store), directory, staticSettings{}, ids, logger)
	interestUC := usecase.NewInterestUseCase(ledgerUC, ledgerRepo, memory.NewInterestPostingRepository(store), directory, ids, 2, logger)
	reconUC := usecase.NewReconciliationUseCase(ledgerRepo, guard, logger)

	cfg := RouterConfig{
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC, reconUC, directory),
		InterestHandler: handler.NewInterestHandler(interestUC),
		AdvanceHandler:  handler.NewAdvanceHandler(loanUC),
		LoanHandler:     handler.NewLoanHandler(loanUC),
		HealthHandler:   handler.NewHealthHandler(nil),
		Logger:          logger,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func serve(router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newMemoryRouterConfig(t))

	rec := serve(router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newMemoryRouterConfig(t))

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
		"GET /metrics",
		"GET /api/v1/parties/{id}/entries",
		"GET /api/v1/parties/{id}/balance",
		"POST /api/v1/parties/{id}/reconcile",
		"POST /api/v1/parties/{id}/interest-repayments",
		"GET /api/v1/reconciliation",
		"GET /api/v1/interest/chart",
		"POST /api/v1/interest/post",
		"POST /api/v1/advances/",
		"POST /api/v1/advances/{id}/convert",
		"POST /api/v1/advances/{id}/adjust",
		"POST /api/v1/loans/",
		"POST /api/v1/loans/overdue",
		"POST /api/v1/loans/{id}/repayments",
		"POST /api/v1/loans/{id}/close",
		"GET /api/v1/amads/{id}/limit",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_DisburseThenBalance(t *testing.T) {
	router := NewRouter(newMemoryRouterConfig(t))

	rec := serve(router, http.MethodPost, "/api/v1/loans/",
		`{"party_id":"party-1","amad_id":"amad-1","date":"2024-04-01","amount":"6000"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, http.MethodGet, "/api/v1/parties/party-1/balance", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var balance struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &balance); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if balance.Balance != "6000.00" {
		t.Fatalf("expected balance 6000.00, got %s", balance.Balance)
	}

	// 20 bags at 500 leave 4000 of headroom.
	rec = serve(router, http.MethodPost, "/api/v1/loans/",
		`{"party_id":"party-1","amad_id":"amad-1","date":"2024-04-02","amount":"4500"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected over-limit disbursement to return 422, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotentDisbursementAppendsOnce(t *testing.T) {
	router := NewRouter(newMemoryRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = memory.NewIdempotencyStore()
		cfg.IdempotencyTTL = time.Hour
	}))

	body := `{"party_id":"party-1","amad_id":"amad-1","date":"2024-04-01","amount":"1000"}`
	headers := map[string]string{apimiddleware.IdempotencyKeyHeader: "disburse-1"}

	first := serve(router, http.MethodPost, "/api/v1/loans/", body, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", first.Code, first.Body.String())
	}
	second := serve(router, http.MethodPost, "/api/v1/loans/", body, headers)
	if second.Header().Get("X-Idempotency-Replay") != "true" || second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 response, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs")
	}

	rec := serve(router, http.MethodGet, "/api/v1/parties/party-1/entries", "", nil)
	var entries []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(entries))
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newMemoryRouterConfig(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(1, 1)
	}))

	headers := map[string]string{"X-Forwarded-For": "1.2.3.4"}
	if rec := serve(router, http.MethodGet, "/api/v1/parties/party-1/balance", "", headers); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/api/v1/parties/party-1/balance", "", headers); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec.Code)
	}
	// Probes are outside the limited group.
	if rec := serve(router, http.MethodGet, "/health", "", headers); rec.Code != http.StatusOK {
		t.Fatalf("expected /health to bypass the limiter, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := NewRouter(newMemoryRouterConfig(t, func(cfg *RouterConfig) {
		cfg.Metrics = metrics.New(reg)
		cfg.Gatherer = reg
	}))

	serve(router, http.MethodGet, "/api/v1/parties/party-1/balance", "", nil)

	rec := serve(router, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "agroledger_http_requests_total") {
		t.Fatalf("expected request counter in exposition, got:\n%s", rec.Body.String())
	}
}
