package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/adapter/http/dto"
	"github.com/iho/agroledger/internal/adapter/report"
	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

// LedgerService defines the ledger reads needed by LedgerHandler.
type LedgerService interface {
	EntriesFor(ctx context.Context, input usecase.EntriesForInput) ([]*domain.LedgerEntry, error)
	CurrentBalance(ctx context.Context, partyID string) (decimal.Decimal, error)
	Summary(ctx context.Context, partyID string) (domain.LedgerSummary, error)
}

// ReconciliationService defines the reconciliation operations needed by LedgerHandler.
type ReconciliationService interface {
	Reconcile(ctx context.Context, partyID string) (*usecase.ReconciliationResult, error)
	ReleaseParty(ctx context.Context, partyID string) (*usecase.ReconciliationResult, error)
	GenerateReconciliationReport(ctx context.Context, organizationID string) (*usecase.ReconciliationReport, error)
}

// PartyLookup resolves party master data for statements.
type PartyLookup interface {
	GetParty(ctx context.Context, id string) (*domain.Party, error)
}

// LedgerHandler handles party ledger HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
	reconUC  ReconciliationService
	parties  PartyLookup
	now      func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, reconUC ReconciliationService, parties PartyLookup) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC: ledgerUC,
		reconUC:  reconUC,
		parties:  parties,
		now:      time.Now,
	}
}

// Entries lists a party ledger, optionally bounded by ?from and ?to.
func (h *LedgerHandler) Entries(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeDomainError(w, "invalid from date", err)
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeDomainError(w, "invalid to date", err)
		return
	}

	entries, err := h.ledgerUC.EntriesFor(r.Context(), usecase.EntriesForInput{
		PartyID:  chi.URLParam(r, "id"),
		FromDate: from,
		ToDate:   to,
	})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	page, err := pageQuery(r, entries)
	if err != nil {
		writeDomainError(w, "invalid pagination", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerEntriesFromDomain(page))
}

// Balance returns a party's current balance.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")

	balance, err := h.ledgerUC.CurrentBalance(r.Context(), partyID)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{PartyID: partyID, Balance: balance.StringFixed(2)})
}

// Summary returns a party's ledger totals.
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledgerUC.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to summarize ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// Statement renders a party ledger as a pdf.
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partyID := chi.URLParam(r, "id")

	entries, err := h.ledgerUC.EntriesFor(ctx, usecase.EntriesForInput{PartyID: partyID})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	party, err := h.parties.GetParty(ctx, partyID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		writeDomainError(w, "failed to get party", err)
		return
	}

	data, err := report.BuildPartyStatementPDF(report.Statement{
		Party:       party,
		PartyID:     partyID,
		Entries:     entries,
		Summary:     domain.Summarize(partyID, entries),
		GeneratedAt: h.now(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render statement", err.Error())
		return
	}

	writeFile(w, "application/pdf", partyID+"-statement.pdf", data)
}

// Reconcile replays a party ledger and halts the party on corruption.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconUC.Reconcile(r.Context(), chi.URLParam(r, "id"))
	writeReconciliation(w, "failed to reconcile ledger", result, err)
}

// Release lifts a corruption halt once the ledger replays cleanly.
func (h *LedgerHandler) Release(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconUC.ReleaseParty(r.Context(), chi.URLParam(r, "id"))
	writeReconciliation(w, "failed to release party", result, err)
}

// writeReconciliation reports a corrupt ledger as 409 with the replay result.
func writeReconciliation(w http.ResponseWriter, message string, result *usecase.ReconciliationResult, err error) {
	if err != nil {
		if result != nil && errors.Is(err, domain.ErrLedgerCorruption) {
			writeJSON(w, http.StatusConflict, dto.ReconciliationFromUseCase(result))
			return
		}
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// Report reconciles every party of ?organization_id.
func (h *LedgerHandler) Report(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		writeError(w, http.StatusBadRequest, "missing organization_id", "")
		return
	}

	rep, err := h.reconUC.GenerateReconciliationReport(r.Context(), orgID)
	if err != nil {
		writeDomainError(w, "failed to reconcile organization", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(rep))
}
