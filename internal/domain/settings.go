package domain

import "github.com/shopspring/decimal"

// LendingSettings are the per-organization lending parameters. They are passed
// explicitly into each limit check rather than held as package state.
type LendingSettings struct {
	AdvancePerBagRate   decimal.Decimal
	LoanPerBagRate      decimal.Decimal
	DefaultRatePerMonth decimal.Decimal
	DueHorizonDays      int
}

// AdvanceRate returns override when positive, otherwise the configured per-bag advance rate.
func (s LendingSettings) AdvanceRate(override *decimal.Decimal) decimal.Decimal {
	if override != nil && override.IsPositive() {
		return *override
	}
	return s.AdvancePerBagRate
}

// LoanRate returns override when positive, otherwise the configured per-bag loan rate.
func (s LendingSettings) LoanRate(override *decimal.Decimal) decimal.Decimal {
	if override != nil && override.IsPositive() {
		return *override
	}
	return s.LoanPerBagRate
}
