package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceStatus is the lifecycle state of an advance.
type AdvanceStatus string

const (
	AdvanceStatusPending   AdvanceStatus = "PENDING"
	AdvanceStatusConverted AdvanceStatus = "CONVERTED"
	AdvanceStatusAdjusted  AdvanceStatus = "ADJUSTED"
	AdvanceStatusClosed    AdvanceStatus = "CLOSED"
)

// IsTerminal reports whether no transition may leave this status.
func (s AdvanceStatus) IsTerminal() bool {
	return s == AdvanceStatusConverted || s == AdvanceStatusAdjusted || s == AdvanceStatusClosed
}

// Advance is pre-delivery cash promised to a party against expected bags.
type Advance struct {
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Date                 time.Time
	ExpectedDate         time.Time
	LoanAmountID         *string
	ID                   string
	OrganizationID       string
	PartyID              string
	Status               AdvanceStatus
	Amount               decimal.Decimal
	InterestRatePerMonth decimal.Decimal
	ExpectedBags         decimal.Decimal
	AdvanceNo            int64
}

// Validate checks a new advance before it is stored.
func (a *Advance) Validate() error {
	if err := ValidateAmount(a.Amount); err != nil {
		return err
	}
	if err := ValidateRate(a.InterestRatePerMonth); err != nil {
		return err
	}
	if a.ExpectedBags.IsNegative() {
		return fmt.Errorf("%w: expected bags cannot be negative", ErrInvalidAmount)
	}
	return nil
}

// TransitionTo moves the advance to next, rejecting anything but PENDING → terminal.
func (a *Advance) TransitionTo(next AdvanceStatus, now time.Time) error {
	if a.Status != AdvanceStatusPending || !next.IsTerminal() {
		return fmt.Errorf("%w: advance %s cannot move from %s to %s", ErrInvalidTransition, a.ID, a.Status, next)
	}
	a.Status = next
	a.UpdatedAt = now
	return nil
}
