package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/adapter/http/dto"
	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	DisburseLoan(ctx context.Context, input usecase.DisburseLoanInput) (*usecase.LifecycleResult, error)
	RecordRepayment(ctx context.Context, input usecase.RepaymentInput) (*usecase.LifecycleResult, error)
	RepayInterest(ctx context.Context, input usecase.InterestRepaymentInput) (*usecase.LifecycleResult, error)
	CloseLoan(ctx context.Context, loanID string, force bool) (*usecase.LifecycleResult, error)
	MarkOverdue(ctx context.Context, organizationID string, asOf time.Time) ([]*domain.LoanAmount, error)
	GetLoan(ctx context.Context, id string) (*domain.LoanAmount, error)
	ListLoansByParty(ctx context.Context, partyID string) ([]*domain.LoanAmount, error)
	LoanLimitFor(ctx context.Context, amadID string, perBagRate *decimal.Decimal) (domain.Limit, error)
}

// LoanHandler handles loan HTTP requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Disburse opens a loan against collateral.
func (h *LoanHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	var req dto.DisburseLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	result, err := h.loanUC.DisburseLoan(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to disburse loan", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LifecycleFromUseCase(result))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanUC.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Repay records a repayment against a loan.
func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	var req dto.RepaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	result, err := h.loanUC.RecordRepayment(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to record repayment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LifecycleFromUseCase(result))
}

// RepayInterest records a repayment of a party's posted interest.
func (h *LoanHandler) RepayInterest(w http.ResponseWriter, r *http.Request) {
	var req dto.RepaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	input, err := req.ToInterestRepayment(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	result, err := h.loanUC.RepayInterest(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to record interest repayment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LifecycleFromUseCase(result))
}

// Close closes a loan. An empty body closes without force.
func (h *LoanHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req dto.CloseLoanRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeDomainError(w, "invalid request body", err)
		return
	}

	result, err := h.loanUC.CloseLoan(r.Context(), chi.URLParam(r, "id"), req.Force)
	if err != nil {
		writeDomainError(w, "failed to close loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LifecycleFromUseCase(result))
}

// MarkOverdue flags open loans past their due horizon.
func (h *LoanHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	var req dto.MarkOverdueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	asOf, err := req.AsOfDate()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	loans, err := h.loanUC.MarkOverdue(r.Context(), req.OrganizationID, asOf)
	if err != nil {
		writeDomainError(w, "failed to mark overdue loans", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}

// ListByParty lists a party's loans.
func (h *LoanHandler) ListByParty(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanUC.ListLoansByParty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list loans", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}

// AmadLimit returns the loan limit of a collateral lot, optionally at ?rate per bag.
func (h *LoanHandler) AmadLimit(w http.ResponseWriter, r *http.Request) {
	rate, err := dto.ParseOptionalDecimal("rate", r.URL.Query().Get("rate"))
	if err != nil {
		writeDomainError(w, "invalid rate", err)
		return
	}

	limit, err := h.loanUC.LoanLimitFor(r.Context(), chi.URLParam(r, "id"), rate)
	if err != nil {
		writeDomainError(w, "failed to compute loan limit", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LimitFromDomain(limit))
}
