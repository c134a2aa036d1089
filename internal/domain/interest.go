package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// InterestDetailRow is the interest accrued on a constant balance between two dates.
type InterestDetailRow struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Days        int64
	Balance     decimal.Decimal
	Rate        decimal.Decimal
	Interest    decimal.Decimal
}

// InterestChartEntry is the per-party projection of one interest run.
type InterestChartEntry struct {
	FromDate       time.Time
	ToDate         time.Time
	PartyID        string
	PartyName      string
	Village        string
	Rate           decimal.Decimal
	OpeningBalance decimal.Decimal
	Disbursements  decimal.Decimal
	Recoveries     decimal.Decimal
	ClosingBalance decimal.Decimal
	Interest       decimal.Decimal
	Rows           []InterestDetailRow
}

// InterestPosting marks a period as posted for a party.
type InterestPosting struct {
	CreatedAt      time.Time
	FromDate       time.Time
	ToDate         time.Time
	ID             string
	OrganizationID string
	PartyID        string
	LedgerEntryID  string
	Amount         decimal.Decimal
}

// Overlaps reports whether the posting's half-open span [FromDate, ToDate)
// shares any day with [from, to). Consecutive periods meeting at a boundary
// date do not overlap.
func (p *InterestPosting) Overlaps(from, to time.Time) bool {
	return DateOf(p.FromDate).Before(DateOf(to)) && DateOf(from).Before(DateOf(p.ToDate))
}

// UnpaidInterest is posted interest not yet settled by interest repayments,
// capped at the party's current balance.
func UnpaidInterest(entries []*LedgerEntry) decimal.Decimal {
	owed := decimal.Zero
	var latest *LedgerEntry
	for _, e := range entries {
		switch {
		case e.TransactionType == TransactionInterest:
			owed = owed.Add(e.DebitAmount)
		case e.SettlesInterest():
			owed = owed.Sub(e.CreditAmount)
		}
		if latest == nil || e.SerialNo > latest.SerialNo {
			latest = e
		}
	}
	if latest == nil || !owed.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(owed, latest.Balance)
}

// SimpleInterest computes balance × (rate×12) × days / (360×100) with no rounding.
func SimpleInterest(balance, ratePerMonth decimal.Decimal, days int64) decimal.Decimal {
	if days <= 0 || !balance.IsPositive() || !ratePerMonth.IsPositive() {
		return decimal.Zero
	}
	annual := ratePerMonth.Mul(twelve)
	return balance.Mul(annual).Mul(decimal.NewFromInt(days)).Div(interestDivisor)
}

// SortEntries orders entries by date, breaking ties by serial number.
func SortEntries(entries []*LedgerEntry) []*LedgerEntry {
	sorted := make([]*LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].SerialNo < sorted[j].SerialNo
	})
	return sorted
}

// BalanceBefore returns the balance carried by the last entry dated strictly before date.
func BalanceBefore(sorted []*LedgerEntry, date time.Time) decimal.Decimal {
	date = DateOf(date)
	balance := decimal.Zero
	for _, e := range sorted {
		if !e.Date.Before(date) {
			break
		}
		balance = e.Balance
	}
	return balance
}

// BalanceAt returns the balance after the last entry dated on or before date.
func BalanceAt(sorted []*LedgerEntry, date time.Time) decimal.Decimal {
	date = DateOf(date)
	balance := decimal.Zero
	for _, e := range sorted {
		if e.Date.After(date) {
			break
		}
		balance = e.Balance
	}
	return balance
}

// CalculatePeriodInterest replays a party ledger over [from, to] and returns the
// reducing-balance interest rows. Entries before from only seed the opening balance;
// entries after to are ignored.
func CalculatePeriodInterest(entries []*LedgerEntry, from, to time.Time, ratePerMonth decimal.Decimal) []InterestDetailRow {
	from, to = DateOf(from), DateOf(to)
	if !ratePerMonth.IsPositive() || !from.Before(to) {
		return nil
	}

	sorted := SortEntries(entries)
	balance := BalanceBefore(sorted, from)
	periodStart := from

	var rows []InterestDetailRow
	emit := func(end time.Time) {
		if !end.After(periodStart) || !balance.IsPositive() {
			return
		}
		days := DaysBetween(periodStart, end)
		if days == 0 {
			return
		}
		rows = append(rows, InterestDetailRow{
			PeriodStart: periodStart,
			PeriodEnd:   end,
			Days:        days,
			Balance:     balance,
			Rate:        ratePerMonth,
			Interest:    SimpleInterest(balance, ratePerMonth, days),
		})
	}

	for _, e := range sorted {
		date := DateOf(e.Date)
		if date.Before(from) {
			continue
		}
		if date.After(to) {
			break
		}
		emit(date)
		balance = e.Balance
		periodStart = date
	}

	if periodStart.Before(to) {
		emit(to)
	}

	return rows
}

// TotalInterest sums the interest of every row.
func TotalInterest(rows []InterestDetailRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Interest)
	}
	return total
}

// BuildChartEntry computes the chart projection of one party's ledger.
// ok is false when the balance stayed at zero for the whole window.
func BuildChartEntry(partyID string, entries []*LedgerEntry, from, to time.Time, ratePerMonth decimal.Decimal) (InterestChartEntry, bool) {
	from, to = DateOf(from), DateOf(to)
	sorted := SortEntries(entries)

	entry := InterestChartEntry{
		PartyID:        partyID,
		FromDate:       from,
		ToDate:         to,
		Rate:           ratePerMonth,
		OpeningBalance: BalanceBefore(sorted, from),
		ClosingBalance: BalanceAt(sorted, to),
		Disbursements:  decimal.Zero,
		Recoveries:     decimal.Zero,
	}

	nonZeroInside := false
	for _, e := range sorted {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		switch e.TransactionType {
		case TransactionDisbursement:
			entry.Disbursements = entry.Disbursements.Add(e.DebitAmount)
		case TransactionRepayment:
			entry.Recoveries = entry.Recoveries.Add(e.CreditAmount)
		}
		if !e.Balance.IsZero() {
			nonZeroInside = true
		}
	}

	entry.Rows = CalculatePeriodInterest(sorted, from, to, ratePerMonth)
	entry.Interest = TotalInterest(entry.Rows)

	if !nonZeroInside && entry.OpeningBalance.IsZero() && entry.ClosingBalance.IsZero() && len(entry.Rows) == 0 {
		return entry, false
	}
	return entry, true
}
