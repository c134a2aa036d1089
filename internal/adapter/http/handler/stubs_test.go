package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type ledgerServiceStub struct {
	entriesFn func(ctx context.Context, input usecase.EntriesForInput) ([]*domain.LedgerEntry, error)
	balanceFn func(ctx context.Context, partyID string) (decimal.Decimal, error)
	summaryFn func(ctx context.Context, partyID string) (domain.LedgerSummary, error)
}

func (s *ledgerServiceStub) EntriesFor(ctx context.Context, input usecase.EntriesForInput) ([]*domain.LedgerEntry, error) {
	return s.entriesFn(ctx, input)
}

func (s *ledgerServiceStub) CurrentBalance(ctx context.Context, partyID string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, partyID)
}

func (s *ledgerServiceStub) Summary(ctx context.Context, partyID string) (domain.LedgerSummary, error) {
	return s.summaryFn(ctx, partyID)
}

type reconServiceStub struct {
	reconcileFn func(ctx context.Context, partyID string) (*usecase.ReconciliationResult, error)
	releaseFn   func(ctx context.Context, partyID string) (*usecase.ReconciliationResult, error)
	reportFn    func(ctx context.Context, organizationID string) (*usecase.ReconciliationReport, error)
}

func (s *reconServiceStub) Reconcile(ctx context.Context, partyID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, partyID)
}

func (s *reconServiceStub) ReleaseParty(ctx context.Context, partyID string) (*usecase.ReconciliationResult, error) {
	return s.releaseFn(ctx, partyID)
}

func (s *reconServiceStub) GenerateReconciliationReport(ctx context.Context, organizationID string) (*usecase.ReconciliationReport, error) {
	return s.reportFn(ctx, organizationID)
}

type partyLookupStub map[string]*domain.Party

func (s partyLookupStub) GetParty(_ context.Context, id string) (*domain.Party, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPartyNotFound
}

type interestServiceStub struct {
	partyFn func(ctx context.Context, partyID string, period usecase.PeriodInput) (*usecase.PartyInterest, error)
	chartFn func(ctx context.Context, organizationID string, period usecase.PeriodInput) ([]domain.InterestChartEntry, error)
	postFn  func(ctx context.Context, organizationID string, period usecase.PeriodInput, postDate time.Time) ([]*domain.LedgerEntry, error)
}

func (s *interestServiceStub) CalculatePeriodInterest(ctx context.Context, partyID string, period usecase.PeriodInput) (*usecase.PartyInterest, error) {
	return s.partyFn(ctx, partyID, period)
}

func (s *interestServiceStub) GenerateInterestChart(ctx context.Context, organizationID string, period usecase.PeriodInput) ([]domain.InterestChartEntry, error) {
	return s.chartFn(ctx, organizationID, period)
}

func (s *interestServiceStub) PostPeriod(ctx context.Context, organizationID string, period usecase.PeriodInput, postDate time.Time) ([]*domain.LedgerEntry, error) {
	return s.postFn(ctx, organizationID, period, postDate)
}

// loanServiceStub serves both AdvanceHandler and LoanHandler; unset funcs panic.
type loanServiceStub struct {
	createAdvanceFn func(ctx context.Context, input usecase.CreateAdvanceInput) (*usecase.LifecycleResult, error)
	convertFn       func(ctx context.Context, input usecase.ConvertAdvanceInput) (*usecase.LifecycleResult, error)
	adjustFn        func(ctx context.Context, input usecase.AdjustAdvanceInput) (*usecase.LifecycleResult, error)
	closeAdvanceFn  func(ctx context.Context, advanceID string) (*usecase.LifecycleResult, error)
	getAdvanceFn    func(ctx context.Context, id string) (*domain.Advance, error)
	listAdvancesFn  func(ctx context.Context, partyID string) ([]*domain.Advance, error)
	advanceLimitFn  func(ctx context.Context, partyID string, bags decimal.Decimal, rate *decimal.Decimal) (domain.Limit, error)
	disburseFn      func(ctx context.Context, input usecase.DisburseLoanInput) (*usecase.LifecycleResult, error)
	repayFn         func(ctx context.Context, input usecase.RepaymentInput) (*usecase.LifecycleResult, error)
	repayInterestFn func(ctx context.Context, input usecase.InterestRepaymentInput) (*usecase.LifecycleResult, error)
	closeLoanFn     func(ctx context.Context, loanID string, force bool) (*usecase.LifecycleResult, error)
	markOverdueFn   func(ctx context.Context, organizationID string, asOf time.Time) ([]*domain.LoanAmount, error)
	getLoanFn       func(ctx context.Context, id string) (*domain.LoanAmount, error)
	listLoansFn     func(ctx context.Context, partyID string) ([]*domain.LoanAmount, error)
	loanLimitFn     func(ctx context.Context, amadID string, rate *decimal.Decimal) (domain.Limit, error)
}

func (s *loanServiceStub) CreateAdvance(ctx context.Context, input usecase.CreateAdvanceInput) (*usecase.LifecycleResult, error) {
	return s.createAdvanceFn(ctx, input)
}

func (s *loanServiceStub) ConvertAdvanceToLoan(ctx context.Context, input usecase.ConvertAdvanceInput) (*usecase.LifecycleResult, error) {
	return s.convertFn(ctx, input)
}

func (s *loanServiceStub) AdjustAdvance(ctx context.Context, input usecase.AdjustAdvanceInput) (*usecase.LifecycleResult, error) {
	return s.adjustFn(ctx, input)
}

func (s *loanServiceStub) CloseAdvance(ctx context.Context, advanceID string) (*usecase.LifecycleResult, error) {
	return s.closeAdvanceFn(ctx, advanceID)
}

func (s *loanServiceStub) GetAdvance(ctx context.Context, id string) (*domain.Advance, error) {
	return s.getAdvanceFn(ctx, id)
}

func (s *loanServiceStub) ListAdvancesByParty(ctx context.Context, partyID string) ([]*domain.Advance, error) {
	return s.listAdvancesFn(ctx, partyID)
}

func (s *loanServiceStub) AdvanceLimitFor(ctx context.Context, partyID string, bags decimal.Decimal, rate *decimal.Decimal) (domain.Limit, error) {
	return s.advanceLimitFn(ctx, partyID, bags, rate)
}

func (s *loanServiceStub) DisburseLoan(ctx context.Context, input usecase.DisburseLoanInput) (*usecase.LifecycleResult, error) {
	return s.disburseFn(ctx, input)
}

func (s *loanServiceStub) RecordRepayment(ctx context.Context, input usecase.RepaymentInput) (*usecase.LifecycleResult, error) {
	return s.repayFn(ctx, input)
}

func (s *loanServiceStub) RepayInterest(ctx context.Context, input usecase.InterestRepaymentInput) (*usecase.LifecycleResult, error) {
	return s.repayInterestFn(ctx, input)
}

func (s *loanServiceStub) CloseLoan(ctx context.Context, loanID string, force bool) (*usecase.LifecycleResult, error) {
	return s.closeLoanFn(ctx, loanID, force)
}

func (s *loanServiceStub) MarkOverdue(ctx context.Context, organizationID string, asOf time.Time) ([]*domain.LoanAmount, error) {
	return s.markOverdueFn(ctx, organizationID, asOf)
}

func (s *loanServiceStub) GetLoan(ctx context.Context, id string) (*domain.LoanAmount, error) {
	return s.getLoanFn(ctx, id)
}

func (s *loanServiceStub) ListLoansByParty(ctx context.Context, partyID string) ([]*domain.LoanAmount, error) {
	return s.listLoansFn(ctx, partyID)
}

func (s *loanServiceStub) LoanLimitFor(ctx context.Context, amadID string, rate *decimal.Decimal) (domain.Limit, error) {
	return s.loanLimitFn(ctx, amadID, rate)
}
