package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Limit is a lending ceiling and what remains of it.
type Limit struct {
	Max       decimal.Decimal
	Used      decimal.Decimal
	Available decimal.Decimal
}

// Check rejects amounts above the available headroom. It never clamps.
func (l Limit) Check(amount decimal.Decimal) error {
	if amount.GreaterThan(l.Available) {
		return fmt.Errorf("%w: requested %s, available %s", ErrExceedsLimit, amount, l.Available)
	}
	return nil
}

// UsagePercent is the share of Max already used.
func (l Limit) UsagePercent() int64 {
	return UsagePercent(l.Used, l.Max)
}

// LoanLimit bounds lending against warehoused collateral.
func LoanLimit(collateralUnits, perUnitRate, existingLoanOnCollateral decimal.Decimal) Limit {
	return newLimit(collateralUnits, perUnitRate, existingLoanOnCollateral)
}

// AdvanceLimit bounds advances against expected future deliveries.
func AdvanceLimit(expectedUnits, perUnitRate, existingAdvances decimal.Decimal) Limit {
	return newLimit(expectedUnits, perUnitRate, existingAdvances)
}

func newLimit(units, rate, used decimal.Decimal) Limit {
	ceiling := units.Mul(rate)
	return Limit{
		Max:       ceiling,
		Used:      used,
		Available: MaxDecimal(decimal.Zero, ceiling.Sub(used)),
	}
}

// UsagePercent returns min(100, round(used/limit×100)), or 0 when limit is not positive.
func UsagePercent(used, limit decimal.Decimal) int64 {
	if !limit.IsPositive() {
		return 0
	}
	pct := used.Div(limit).Mul(hundred).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
