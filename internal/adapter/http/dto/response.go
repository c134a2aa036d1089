package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID              string    `json:"id"`
	OrganizationID  string    `json:"organization_id"`
	PartyID         string    `json:"party_id"`
	SerialNo        int64     `json:"serial_no"`
	Date            string    `json:"date"`
	TransactionType string    `json:"transaction_type"`
	DebitAmount     string    `json:"debit_amount"`
	CreditAmount    string    `json:"credit_amount"`
	Balance         string    `json:"balance"`
	AmadID          *string   `json:"amad_id,omitempty"`
	AdvanceID       *string   `json:"advance_id,omitempty"`
	LoanAmountID    *string   `json:"loan_amount_id,omitempty"`
	Narration       string    `json:"narration,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// LedgerEntryFromDomain converts a domain entry to a response.
func LedgerEntryFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:              e.ID,
		OrganizationID:  e.OrganizationID,
		PartyID:         e.PartyID,
		SerialNo:        e.SerialNo,
		Date:            FormatDate(e.Date),
		TransactionType: string(e.TransactionType),
		DebitAmount:     money(e.DebitAmount),
		CreditAmount:    money(e.CreditAmount),
		Balance:         money(e.Balance),
		AmadID:          e.AmadID,
		AdvanceID:       e.AdvanceID,
		LoanAmountID:    e.LoanAmountID,
		Narration:       e.Narration,
		CreatedAt:       e.CreatedAt,
	}
}

// LedgerEntriesFromDomain converts domain entries to responses.
func LedgerEntriesFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LedgerEntryFromDomain(e)
	}
	return result
}

// BalanceResponse represents a party's current balance.
type BalanceResponse struct {
	PartyID string `json:"party_id"`
	Balance string `json:"balance"`
}

// SummaryResponse represents ledger totals for a party.
type SummaryResponse struct {
	PartyID        string `json:"party_id"`
	TotalDisbursed string `json:"total_disbursed"`
	TotalRepaid    string `json:"total_repaid"`
	TotalInterest  string `json:"total_interest"`
	CurrentBalance string `json:"current_balance"`
	EntryCount     int    `json:"entry_count"`
}

// SummaryFromDomain converts a ledger summary to a response.
func SummaryFromDomain(s domain.LedgerSummary) *SummaryResponse {
	return &SummaryResponse{
		PartyID:        s.PartyID,
		TotalDisbursed: money(s.TotalDisbursed),
		TotalRepaid:    money(s.TotalRepaid),
		TotalInterest:  money(s.TotalInterest),
		CurrentBalance: money(s.CurrentBalance),
		EntryCount:     s.EntryCount,
	}
}

// InterestRowResponse is one constant-balance stretch of an interest window.
type InterestRowResponse struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Days        int64  `json:"days"`
	Balance     string `json:"balance"`
	Rate        string `json:"rate"`
	Interest    string `json:"interest"`
}

func interestRows(rows []domain.InterestDetailRow) []InterestRowResponse {
	result := make([]InterestRowResponse, len(rows))
	for i, r := range rows {
		result[i] = InterestRowResponse{
			PeriodStart: FormatDate(r.PeriodStart),
			PeriodEnd:   FormatDate(r.PeriodEnd),
			Days:        r.Days,
			Balance:     money(r.Balance),
			Rate:        r.Rate.String(),
			Interest:    money(r.Interest),
		}
	}
	return result
}

// PartyInterestResponse is the interest breakdown of one party.
type PartyInterestResponse struct {
	PartyID string                `json:"party_id"`
	Rows    []InterestRowResponse `json:"rows"`
	Total   string                `json:"total"`
}

// PartyInterestFromUseCase converts a party interest breakdown to a response.
func PartyInterestFromUseCase(p *usecase.PartyInterest) *PartyInterestResponse {
	return &PartyInterestResponse{
		PartyID: p.PartyID,
		Rows:    interestRows(p.Rows),
		Total:   money(p.Total),
	}
}

// ChartEntryResponse is one party row of an interest chart.
type ChartEntryResponse struct {
	PartyID        string                `json:"party_id"`
	PartyName      string                `json:"party_name,omitempty"`
	Village        string                `json:"village,omitempty"`
	FromDate       string                `json:"from_date"`
	ToDate         string                `json:"to_date"`
	Rate           string                `json:"rate"`
	OpeningBalance string                `json:"opening_balance"`
	Disbursements  string                `json:"disbursements"`
	Recoveries     string                `json:"recoveries"`
	ClosingBalance string                `json:"closing_balance"`
	Interest       string                `json:"interest"`
	Rows           []InterestRowResponse `json:"rows"`
}

// ChartFromDomain converts chart entries to responses.
func ChartFromDomain(entries []domain.InterestChartEntry) []*ChartEntryResponse {
	result := make([]*ChartEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &ChartEntryResponse{
			PartyID:        e.PartyID,
			PartyName:      e.PartyName,
			Village:        e.Village,
			FromDate:       FormatDate(e.FromDate),
			ToDate:         FormatDate(e.ToDate),
			Rate:           e.Rate.String(),
			OpeningBalance: money(e.OpeningBalance),
			Disbursements:  money(e.Disbursements),
			Recoveries:     money(e.Recoveries),
			ClosingBalance: money(e.ClosingBalance),
			Interest:       money(e.Interest),
			Rows:           interestRows(e.Rows),
		}
	}
	return result
}

// AdvanceResponse represents an advance in API responses.
type AdvanceResponse struct {
	ID                   string    `json:"id"`
	OrganizationID       string    `json:"organization_id"`
	PartyID              string    `json:"party_id"`
	AdvanceNo            int64     `json:"advance_no"`
	Date                 string    `json:"date"`
	ExpectedDate         string    `json:"expected_date,omitempty"`
	Amount               string    `json:"amount"`
	InterestRatePerMonth string    `json:"interest_rate_per_month"`
	ExpectedBags         string    `json:"expected_bags"`
	Status               string    `json:"status"`
	LoanAmountID         *string   `json:"loan_amount_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// AdvanceFromDomain converts a domain advance to a response.
func AdvanceFromDomain(a *domain.Advance) *AdvanceResponse {
	return &AdvanceResponse{
		ID:                   a.ID,
		OrganizationID:       a.OrganizationID,
		PartyID:              a.PartyID,
		AdvanceNo:            a.AdvanceNo,
		Date:                 FormatDate(a.Date),
		ExpectedDate:         FormatDate(a.ExpectedDate),
		Amount:               money(a.Amount),
		InterestRatePerMonth: a.InterestRatePerMonth.String(),
		ExpectedBags:         a.ExpectedBags.String(),
		Status:               string(a.Status),
		LoanAmountID:         a.LoanAmountID,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// AdvancesFromDomain converts domain advances to responses.
func AdvancesFromDomain(advances []*domain.Advance) []*AdvanceResponse {
	result := make([]*AdvanceResponse, len(advances))
	for i, a := range advances {
		result[i] = AdvanceFromDomain(a)
	}
	return result
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID                   string    `json:"id"`
	OrganizationID       string    `json:"organization_id"`
	PartyID              string    `json:"party_id"`
	LoanNo               int64     `json:"loan_no"`
	Date                 string    `json:"date"`
	AmadID               string    `json:"amad_id"`
	DisbursedAmount      string    `json:"disbursed_amount"`
	RepaidAmount         string    `json:"repaid_amount"`
	OutstandingBalance   string    `json:"outstanding_balance"`
	InterestRatePerMonth string    `json:"interest_rate_per_month"`
	Status               string    `json:"status"`
	AdvanceID            *string   `json:"advance_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.LoanAmount) *LoanResponse {
	return &LoanResponse{
		ID:                   l.ID,
		OrganizationID:       l.OrganizationID,
		PartyID:              l.PartyID,
		LoanNo:               l.LoanNo,
		Date:                 FormatDate(l.Date),
		AmadID:               l.AmadID,
		DisbursedAmount:      money(l.DisbursedAmount),
		RepaidAmount:         money(l.RepaidAmount),
		OutstandingBalance:   money(l.OutstandingBalance),
		InterestRatePerMonth: l.InterestRatePerMonth.String(),
		Status:               string(l.Status),
		AdvanceID:            l.AdvanceID,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.LoanAmount) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// LimitResponse represents a lending limit.
type LimitResponse struct {
	Max          string `json:"max"`
	Used         string `json:"used"`
	Available    string `json:"available"`
	UsagePercent int64  `json:"usage_percent"`
}

// LimitFromDomain converts a domain limit to a response.
func LimitFromDomain(l domain.Limit) *LimitResponse {
	return &LimitResponse{
		Max:          money(l.Max),
		Used:         money(l.Used),
		Available:    money(l.Available),
		UsagePercent: l.UsagePercent(),
	}
}

// LifecycleResponse is the outcome of an advance or loan mutation.
type LifecycleResponse struct {
	Advance *AdvanceResponse     `json:"advance,omitempty"`
	Loan    *LoanResponse        `json:"loan,omitempty"`
	Entry   *LedgerEntryResponse `json:"entry,omitempty"`
	Limit   *LimitResponse       `json:"limit,omitempty"`
}

// LifecycleFromUseCase converts a lifecycle result to a response.
func LifecycleFromUseCase(r *usecase.LifecycleResult) *LifecycleResponse {
	resp := &LifecycleResponse{}
	if r.Advance != nil {
		resp.Advance = AdvanceFromDomain(r.Advance)
	}
	if r.Loan != nil {
		resp.Loan = LoanFromDomain(r.Loan)
	}
	if r.Entry != nil {
		resp.Entry = LedgerEntryFromDomain(r.Entry)
	}
	if r.Limit != nil {
		resp.Limit = LimitFromDomain(*r.Limit)
	}
	return resp
}

// ReconciliationResponse represents the outcome of replaying a party ledger.
type ReconciliationResponse struct {
	PartyID         string    `json:"party_id"`
	EntryCount      int       `json:"entry_count"`
	StoredBalance   string    `json:"stored_balance"`
	ReplayedBalance string    `json:"replayed_balance"`
	FailedSerial    int64     `json:"failed_serial,omitempty"`
	IsReconciled    bool      `json:"is_reconciled"`
	Halted          bool      `json:"halted"`
	Detail          string    `json:"detail,omitempty"`
	LastChecked     time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		PartyID:         r.PartyID,
		EntryCount:      r.EntryCount,
		StoredBalance:   money(r.StoredBalance),
		ReplayedBalance: money(r.ReplayedBalance),
		FailedSerial:    r.FailedSerial,
		IsReconciled:    r.IsReconciled,
		Halted:          r.Halted,
		Detail:          r.Detail,
		LastChecked:     r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes an organization-wide reconciliation.
type ReconciliationReportResponse struct {
	OrganizationID    string                    `json:"organization_id"`
	TotalParties      int                       `json:"total_parties"`
	ReconciledParties int                       `json:"reconciled_parties"`
	Discrepancies     []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt         time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a reconciliation report to a response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		OrganizationID:    r.OrganizationID,
		TotalParties:      r.TotalParties,
		ReconciledParties: r.ReconciledParties,
		Discrepancies:     make([]*ReconciliationResponse, len(r.Discrepancies)),
		CheckedAt:         r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = ReconciliationFromUseCase(d)
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}
