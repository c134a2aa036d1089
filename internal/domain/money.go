package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and display format for calendar dates.
const DateLayout = "2006-01-02"

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	// 360-day commercial year times the percent divisor.
	interestDivisor = decimal.NewFromInt(360 * 100)
)

// DateOf drops the time component, yielding midnight UTC of the same calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the whole number of days from one date to another,
// rounding partial days up. Non-positive spans yield 0.
func DaysBetween(from, to time.Time) int64 {
	diff := to.Sub(from)
	if diff <= 0 {
		return 0
	}
	return int64(math.Ceil(diff.Hours() / 24))
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// RoundMoney rounds to two decimal places. Only used for display and posting.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MaxDecimal returns the larger of a and b.
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
