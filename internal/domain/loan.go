package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive        LoanStatus = "ACTIVE"
	LoanStatusPartialRepaid LoanStatus = "PARTIAL_REPAID"
	LoanStatusOverdue       LoanStatus = "OVERDUE"
	LoanStatusClosed        LoanStatus = "CLOSED"
)

// LoanAmount is a loan disbursed against warehoused collateral.
type LoanAmount struct {
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Date                 time.Time
	AdvanceID            *string
	ID                   string
	OrganizationID       string
	PartyID              string
	AmadID               string
	Status               LoanStatus
	DisbursedAmount      decimal.Decimal
	RepaidAmount         decimal.Decimal
	OutstandingBalance   decimal.Decimal
	InterestRatePerMonth decimal.Decimal
	LoanNo               int64
}

// IsOpen reports whether the loan still accepts repayments.
func (l *LoanAmount) IsOpen() bool {
	return l.Status != LoanStatusClosed
}

// CheckBalance verifies outstanding = disbursed − repaid and outstanding ≥ 0.
func (l *LoanAmount) CheckBalance() error {
	expected := l.DisbursedAmount.Sub(l.RepaidAmount)
	if !expected.Equal(l.OutstandingBalance) || l.OutstandingBalance.IsNegative() {
		return fmt.Errorf("%w: loan %s outstanding %s, disbursed %s, repaid %s",
			ErrLedgerCorruption, l.ID, l.OutstandingBalance, l.DisbursedAmount, l.RepaidAmount)
	}
	return nil
}

// AddDisbursement grows the loan by amount.
func (l *LoanAmount) AddDisbursement(amount decimal.Decimal, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !l.IsOpen() {
		return fmt.Errorf("%w: loan %s is closed", ErrInvalidTransition, l.ID)
	}
	l.DisbursedAmount = l.DisbursedAmount.Add(amount)
	l.OutstandingBalance = l.DisbursedAmount.Sub(l.RepaidAmount)
	l.UpdatedAt = now
	return nil
}

// ApplyRepayment reduces the outstanding balance and derives the next status.
// Amounts above the outstanding balance are rejected, never partially accepted.
func (l *LoanAmount) ApplyRepayment(amount decimal.Decimal, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !l.IsOpen() {
		return fmt.Errorf("%w: loan %s is closed", ErrInvalidTransition, l.ID)
	}
	if amount.GreaterThan(l.OutstandingBalance) {
		return fmt.Errorf("%w: repayment %s exceeds outstanding %s by %s",
			ErrExceedsOutstanding, amount, l.OutstandingBalance, amount.Sub(l.OutstandingBalance))
	}

	l.RepaidAmount = l.RepaidAmount.Add(amount)
	l.OutstandingBalance = l.DisbursedAmount.Sub(l.RepaidAmount)
	l.UpdatedAt = now

	switch {
	case l.OutstandingBalance.IsZero():
		l.Status = LoanStatusClosed
	case l.Status == LoanStatusActive:
		l.Status = LoanStatusPartialRepaid
	}

	return nil
}

// Close closes the loan. A loan with outstanding balance only closes when forced.
func (l *LoanAmount) Close(force bool, now time.Time) error {
	if !l.IsOpen() {
		return fmt.Errorf("%w: loan %s is already closed", ErrInvalidTransition, l.ID)
	}
	if l.OutstandingBalance.IsPositive() && !force {
		return fmt.Errorf("%w: loan %s has outstanding balance %s", ErrInvalidTransition, l.ID, l.OutstandingBalance)
	}
	l.Status = LoanStatusClosed
	l.UpdatedAt = now
	return nil
}

// DueDate is the date after which an unpaid loan becomes overdue.
func (l *LoanAmount) DueDate(horizonDays int) time.Time {
	return AddDays(l.Date, horizonDays)
}

// MarkOverdue flags the loan when it is unpaid past its due horizon.
// It reports whether the status changed.
func (l *LoanAmount) MarkOverdue(asOf time.Time, horizonDays int, now time.Time) bool {
	if l.Status != LoanStatusActive && l.Status != LoanStatusPartialRepaid {
		return false
	}
	if !l.OutstandingBalance.IsPositive() {
		return false
	}
	if !DateOf(asOf).After(l.DueDate(horizonDays)) {
		return false
	}
	l.Status = LoanStatusOverdue
	l.UpdatedAt = now
	return true
}
