package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/adapter/http/dto"
	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

// AdvanceService defines the behavior needed by AdvanceHandler.
type AdvanceService interface {
	CreateAdvance(ctx context.Context, input usecase.CreateAdvanceInput) (*usecase.LifecycleResult, error)
	ConvertAdvanceToLoan(ctx context.Context, input usecase.ConvertAdvanceInput) (*usecase.LifecycleResult, error)
	AdjustAdvance(ctx context.Context, input usecase.AdjustAdvanceInput) (*usecase.LifecycleResult, error)
	CloseAdvance(ctx context.Context, advanceID string) (*usecase.LifecycleResult, error)
	GetAdvance(ctx context.Context, id string) (*domain.Advance, error)
	ListAdvancesByParty(ctx context.Context, partyID string) ([]*domain.Advance, error)
	AdvanceLimitFor(ctx context.Context, partyID string, expectedBags decimal.Decimal, perBagRate *decimal.Decimal) (domain.Limit, error)
}

// AdvanceHandler handles advance HTTP requests.
type AdvanceHandler struct {
	loanUC AdvanceService
}

// NewAdvanceHandler creates a new AdvanceHandler.
func NewAdvanceHandler(loanUC AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{loanUC: loanUC}
}

// Create records a PENDING advance.
func (h *AdvanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAdvanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	result, err := h.loanUC.CreateAdvance(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create advance", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LifecycleFromUseCase(result))
}

// Get retrieves an advance by ID.
func (h *AdvanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	advance, err := h.loanUC.GetAdvance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get advance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AdvanceFromDomain(advance))
}

// Convert turns a PENDING advance into a loan against collateral.
func (h *AdvanceHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req dto.ConvertAdvanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	result, err := h.loanUC.ConvertAdvanceToLoan(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to convert advance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LifecycleFromUseCase(result))
}

// Adjust folds a PENDING advance into an existing loan.
func (h *AdvanceHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustAdvanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	result, err := h.loanUC.AdjustAdvance(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to adjust advance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LifecycleFromUseCase(result))
}

// Close closes a PENDING advance without any ledger effect.
func (h *AdvanceHandler) Close(w http.ResponseWriter, r *http.Request) {
	result, err := h.loanUC.CloseAdvance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to close advance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LifecycleFromUseCase(result))
}

// ListByParty lists a party's advances.
func (h *AdvanceHandler) ListByParty(w http.ResponseWriter, r *http.Request) {
	advances, err := h.loanUC.ListAdvancesByParty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list advances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AdvancesFromDomain(advances))
}

// Limit returns a party's advance limit for ?bags expected bags.
func (h *AdvanceHandler) Limit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bags, err := dto.ParseDecimal("bags", q.Get("bags"))
	if err != nil {
		writeDomainError(w, "invalid bags", err)
		return
	}
	rate, err := dto.ParseOptionalDecimal("rate", q.Get("rate"))
	if err != nil {
		writeDomainError(w, "invalid rate", err)
		return
	}

	limit, err := h.loanUC.AdvanceLimitFor(r.Context(), chi.URLParam(r, "id"), bags, rate)
	if err != nil {
		writeDomainError(w, "failed to compute advance limit", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LimitFromDomain(limit))
}
