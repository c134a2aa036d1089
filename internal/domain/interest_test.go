package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day1 = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return day1.AddDate(0, 0, n-1)
}

func entryAt(serial int64, date time.Time, txType TransactionType, amount, balance int64) *LedgerEntry {
	e := &LedgerEntry{
		PartyID:         "party-1",
		SerialNo:        serial,
		Date:            date,
		TransactionType: txType,
		DebitAmount:     decimal.Zero,
		CreditAmount:    decimal.Zero,
		Balance:         decimal.NewFromInt(balance),
	}
	if txType.IsDebit() {
		e.DebitAmount = decimal.NewFromInt(amount)
	} else {
		e.CreditAmount = decimal.NewFromInt(amount)
	}
	return e
}

func TestSimpleInterest_Example(t *testing.T) {
	t.Parallel()

	got := SimpleInterest(decimal.NewFromInt(100000), decimal.NewFromInt(2), 30)
	assert.True(t, got.Equal(decimal.NewFromInt(2000)), "expected 2000, got %s", got)
	assert.Equal(t, "2000.00", RoundMoney(got).StringFixed(2))
}

func TestSimpleInterest_Linearity(t *testing.T) {
	t.Parallel()

	balance := decimal.NewFromInt(12345)
	rate := decimal.RequireFromString("1.5")

	base := SimpleInterest(balance, rate, 16)
	require.True(t, base.Equal(decimal.RequireFromString("98.76")), "got %s", base)

	doubledDays := SimpleInterest(balance, rate, 32)
	assert.True(t, doubledDays.Equal(base.Mul(decimal.NewFromInt(2))), "doubling days: %s vs %s", doubledDays, base)

	doubledRate := SimpleInterest(balance, rate.Mul(decimal.NewFromInt(2)), 16)
	assert.True(t, doubledRate.Equal(base.Mul(decimal.NewFromInt(2))), "doubling rate: %s vs %s", doubledRate, base)
}

func TestSimpleInterest_NonNegative(t *testing.T) {
	t.Parallel()

	assert.True(t, SimpleInterest(decimal.NewFromInt(-500), decimal.NewFromInt(2), 30).IsZero())
	assert.True(t, SimpleInterest(decimal.NewFromInt(500), decimal.NewFromInt(-2), 30).IsZero())
	assert.True(t, SimpleInterest(decimal.NewFromInt(500), decimal.NewFromInt(2), 0).IsZero())
}

func TestCalculatePeriodInterest_TwoRows(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 10000, 10000),
		entryAt(2, day(31), TransactionRepayment, 4000, 6000),
	}

	rows := CalculatePeriodInterest(entries, day(1), day(61), decimal.NewFromInt(2))
	require.Len(t, rows, 2)

	assert.Equal(t, day(1), rows[0].PeriodStart)
	assert.Equal(t, day(31), rows[0].PeriodEnd)
	assert.Equal(t, int64(30), rows[0].Days)
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, rows[0].Interest.Equal(decimal.NewFromInt(200)), "got %s", rows[0].Interest)

	assert.Equal(t, day(31), rows[1].PeriodStart)
	assert.Equal(t, day(61), rows[1].PeriodEnd)
	assert.Equal(t, int64(30), rows[1].Days)
	assert.True(t, rows[1].Balance.Equal(decimal.NewFromInt(6000)))
	assert.True(t, rows[1].Interest.Equal(decimal.NewFromInt(120)), "got %s", rows[1].Interest)

	assert.True(t, TotalInterest(rows).Equal(decimal.NewFromInt(320)))
}

func TestCalculatePeriodInterest_HundredThousandLedger(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 100000, 100000),
		entryAt(2, day(31), TransactionRepayment, 40000, 60000),
	}

	rows := CalculatePeriodInterest(entries, day(1), day(61), decimal.NewFromInt(2))
	require.Len(t, rows, 2)
	assert.Equal(t, "2000.00", RoundMoney(rows[0].Interest).StringFixed(2))
	assert.Equal(t, "1200.00", RoundMoney(rows[1].Interest).StringFixed(2))
	assert.Equal(t, "3200.00", RoundMoney(TotalInterest(rows)).StringFixed(2))
}

func TestCalculatePeriodInterest_ZeroWidthWindow(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{entryAt(1, day(1), TransactionDisbursement, 10000, 10000)}

	for _, d := range []time.Time{day(1), day(10), day(100)} {
		assert.Empty(t, CalculatePeriodInterest(entries, d, d, decimal.NewFromInt(2)))
	}
}

func TestCalculatePeriodInterest_ZeroOrNegativeRate(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{entryAt(1, day(1), TransactionDisbursement, 10000, 10000)}

	assert.Empty(t, CalculatePeriodInterest(entries, day(1), day(31), decimal.Zero))
	assert.Empty(t, CalculatePeriodInterest(entries, day(1), day(31), decimal.NewFromInt(-1)))
}

func TestCalculatePeriodInterest_SeedsFromPriorEntries(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 10000, 10000),
		entryAt(2, day(5), TransactionRepayment, 1000, 9000),
		entryAt(3, day(100), TransactionDisbursement, 5000, 14000),
	}

	rows := CalculatePeriodInterest(entries, day(11), day(41), decimal.NewFromInt(1))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, int64(30), rows[0].Days)
	// 9000 × 12 × 30 / 36000
	assert.True(t, rows[0].Interest.Equal(decimal.NewFromInt(90)), "got %s", rows[0].Interest)
}

func TestCalculatePeriodInterest_BalanceHitsZeroMidPeriod(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 6000, 6000),
		entryAt(2, day(11), TransactionRepayment, 6000, 0),
		entryAt(3, day(21), TransactionDisbursement, 3000, 3000),
	}

	rows := CalculatePeriodInterest(entries, day(1), day(31), decimal.NewFromInt(2))
	require.Len(t, rows, 2)

	assert.Equal(t, day(1), rows[0].PeriodStart)
	assert.Equal(t, day(11), rows[0].PeriodEnd)
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(6000)))

	assert.Equal(t, day(21), rows[1].PeriodStart)
	assert.Equal(t, day(31), rows[1].PeriodEnd)
	assert.True(t, rows[1].Balance.Equal(decimal.NewFromInt(3000)))
}

func TestCalculatePeriodInterest_SameDayEntriesEmitNoZeroDayRow(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 1000, 1000),
		entryAt(2, day(1), TransactionDisbursement, 2000, 3000),
	}

	rows := CalculatePeriodInterest(entries, day(1), day(11), decimal.NewFromInt(3))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, int64(10), rows[0].Days)
}

func TestCalculatePeriodInterest_UnsortedInput(t *testing.T) {
	t.Parallel()

	sorted := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 10000, 10000),
		entryAt(2, day(31), TransactionRepayment, 4000, 6000),
	}
	shuffled := []*LedgerEntry{sorted[1], sorted[0]}

	want := CalculatePeriodInterest(sorted, day(1), day(61), decimal.NewFromInt(2))
	got := CalculatePeriodInterest(shuffled, day(1), day(61), decimal.NewFromInt(2))
	assert.Equal(t, want, got)
}

func TestCalculatePeriodInterest_InterestNeverNegative(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 5000, 5000),
		entryAt(2, day(3), TransactionRepayment, 7000, -2000),
		entryAt(3, day(9), TransactionDisbursement, 4000, 2000),
	}

	rows := CalculatePeriodInterest(entries, day(1), day(20), decimal.NewFromInt(2))
	for _, r := range rows {
		assert.False(t, r.Interest.IsNegative())
		assert.True(t, r.Balance.IsPositive())
	}
	require.Len(t, rows, 2)
}

func TestBuildChartEntry(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 10000, 10000),
		entryAt(2, day(31), TransactionRepayment, 4000, 6000),
		entryAt(3, day(45), TransactionDisbursement, 1000, 7000),
		entryAt(4, day(70), TransactionRepayment, 7000, 0),
	}

	chart, ok := BuildChartEntry("party-1", entries, day(31), day(61), decimal.NewFromInt(2))
	require.True(t, ok)
	assert.True(t, chart.OpeningBalance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, chart.Disbursements.Equal(decimal.NewFromInt(1000)))
	assert.True(t, chart.Recoveries.Equal(decimal.NewFromInt(4000)))
	assert.True(t, chart.ClosingBalance.Equal(decimal.NewFromInt(7000)))
	assert.True(t, chart.Interest.Equal(TotalInterest(chart.Rows)))
	assert.Len(t, chart.Rows, 2)
}

func TestBuildChartEntry_ExcludesZeroBalanceParty(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 1000, 1000),
		entryAt(2, day(5), TransactionRepayment, 1000, 0),
	}

	_, ok := BuildChartEntry("party-1", entries, day(10), day(40), decimal.NewFromInt(2))
	assert.False(t, ok)
}

func TestInterestPosting_Overlaps(t *testing.T) {
	t.Parallel()

	p := &InterestPosting{FromDate: day(1), ToDate: day(30)}
	assert.True(t, p.Overlaps(day(29), day(60)))
	assert.True(t, p.Overlaps(day(10), day(20)))
	assert.True(t, p.Overlaps(day(1), day(30)))
	assert.False(t, p.Overlaps(day(30), day(60)), "consecutive period sharing the boundary")
	assert.False(t, p.Overlaps(day(31), day(60)))
}

func TestUnpaidInterest(t *testing.T) {
	t.Parallel()

	loanID := "loan-1"
	repaid := entryAt(3, day(31), TransactionRepayment, 1000, 20)
	repaid.LoanAmountID = &loanID

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionDisbursement, 1000, 1000),
		entryAt(2, day(31), TransactionInterest, 20, 1020),
		repaid,
	}
	assert.True(t, UnpaidInterest(entries).Equal(decimal.NewFromInt(20)), "loan repayments do not settle interest")

	entries = append(entries, entryAt(4, day(40), TransactionRepayment, 15, 5))
	assert.True(t, UnpaidInterest(entries).Equal(decimal.NewFromInt(5)))

	assert.True(t, UnpaidInterest(nil).IsZero())
}

func TestUnpaidInterest_CappedAtBalance(t *testing.T) {
	t.Parallel()

	entries := []*LedgerEntry{
		entryAt(1, day(1), TransactionInterest, 50, 50),
		entryAt(2, day(2), TransactionDisbursement, 100, 150),
	}
	capped := entryAt(3, day(3), TransactionRepayment, 120, 30)
	loanID := "loan-1"
	capped.LoanAmountID = &loanID
	entries = append(entries, capped)

	assert.True(t, UnpaidInterest(entries).Equal(decimal.NewFromInt(30)))
}
