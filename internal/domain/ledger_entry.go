package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionDisbursement TransactionType = "DISBURSEMENT"
	TransactionRepayment    TransactionType = "REPAYMENT"
	TransactionInterest     TransactionType = "INTEREST"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionDisbursement, TransactionRepayment, TransactionInterest:
		return true
	}
	return false
}

// IsDebit reports whether entries of this type increase the party balance.
func (t TransactionType) IsDebit() bool {
	return t == TransactionDisbursement || t == TransactionInterest
}

// EntryLinks are optional references carried by a ledger entry.
type EntryLinks struct {
	AmadID       *string
	AdvanceID    *string
	LoanAmountID *string
}

// LedgerEntry is one immutable, serially numbered row of a party ledger.
type LedgerEntry struct {
	CreatedAt       time.Time
	Date            time.Time
	ID              string
	OrganizationID  string
	PartyID         string
	TransactionType TransactionType
	Narration       string
	DebitAmount     decimal.Decimal
	CreditAmount    decimal.Decimal
	Balance         decimal.Decimal
	SerialNo        int64
	EntryLinks
}

// SettlesInterest reports whether the entry is a repayment of posted interest,
// which carries no loan reference.
func (e *LedgerEntry) SettlesInterest() bool {
	return e.TransactionType == TransactionRepayment && e.LoanAmountID == nil
}

// SignedAmount is the change this entry applies to the running balance.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	return e.DebitAmount.Sub(e.CreditAmount)
}

// Amount is whichever of debit or credit is set.
func (e *LedgerEntry) Amount() decimal.Decimal {
	if e.DebitAmount.IsZero() {
		return e.CreditAmount
	}
	return e.DebitAmount
}

// Validate checks the shape of a single entry in isolation.
func (e *LedgerEntry) Validate() error {
	if !e.TransactionType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTransactionType, e.TransactionType)
	}

	debit, credit := e.DebitAmount, e.CreditAmount
	if debit.IsNegative() || credit.IsNegative() {
		return ErrInvalidAmount
	}
	if debit.IsZero() == credit.IsZero() {
		return fmt.Errorf("%w: exactly one of debit or credit must be set", ErrInvalidAmount)
	}
	if e.TransactionType.IsDebit() != credit.IsZero() {
		return fmt.Errorf("%w: %s posted on the wrong side", ErrInvalidTransactionType, e.TransactionType)
	}

	return nil
}

// NextEntry builds the entry that follows prev (nil for an empty ledger).
// Serial number and balance are derived from prev.
func NextEntry(prev *LedgerEntry, txType TransactionType, amount decimal.Decimal) (*LedgerEntry, error) {
	if !txType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, txType)
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	entry := &LedgerEntry{
		TransactionType: txType,
		DebitAmount:     decimal.Zero,
		CreditAmount:    decimal.Zero,
		SerialNo:        1,
	}
	if txType.IsDebit() {
		entry.DebitAmount = amount
	} else {
		entry.CreditAmount = amount
	}

	previousBalance := decimal.Zero
	if prev != nil {
		previousBalance = prev.Balance
		entry.SerialNo = prev.SerialNo + 1
	}
	entry.Balance = previousBalance.Add(entry.SignedAmount())

	return entry, nil
}

// CheckLink verifies that next follows prev under the running-balance invariant.
// prev is nil when next should be the first entry of the ledger.
func CheckLink(prev, next *LedgerEntry) error {
	expectedSerial := int64(1)
	previousBalance := decimal.Zero
	if prev != nil {
		expectedSerial = prev.SerialNo + 1
		previousBalance = prev.Balance
	}

	if next.SerialNo != expectedSerial {
		return fmt.Errorf("%w: party %s expected serial %d, found %d",
			ErrLedgerCorruption, next.PartyID, expectedSerial, next.SerialNo)
	}

	expected := previousBalance.Add(next.SignedAmount())
	if !expected.Equal(next.Balance) {
		return fmt.Errorf("%w: party %s serial %d expected balance %s, stored %s",
			ErrLedgerCorruption, next.PartyID, next.SerialNo, expected, next.Balance)
	}

	return nil
}

// Replay walks entries in serial order from a zero balance and returns the
// first invariant violation, if any, along with the serial it occurred at.
func Replay(entries []*LedgerEntry) (decimal.Decimal, int64, error) {
	var prev *LedgerEntry
	for _, e := range entries {
		if err := CheckLink(prev, e); err != nil {
			return decimal.Zero, e.SerialNo, err
		}
		prev = e
	}

	if prev == nil {
		return decimal.Zero, 0, nil
	}
	return prev.Balance, 0, nil
}

// LedgerSummary is a fold over every entry of a party ledger.
type LedgerSummary struct {
	PartyID        string
	TotalDisbursed decimal.Decimal
	TotalRepaid    decimal.Decimal
	TotalInterest  decimal.Decimal
	CurrentBalance decimal.Decimal
	EntryCount     int
}

// Summarize folds entries into totals grouped by transaction type.
func Summarize(partyID string, entries []*LedgerEntry) LedgerSummary {
	s := LedgerSummary{
		PartyID:        partyID,
		TotalDisbursed: decimal.Zero,
		TotalRepaid:    decimal.Zero,
		TotalInterest:  decimal.Zero,
		CurrentBalance: decimal.Zero,
	}

	var latest *LedgerEntry
	for _, e := range entries {
		switch e.TransactionType {
		case TransactionDisbursement:
			s.TotalDisbursed = s.TotalDisbursed.Add(e.DebitAmount)
		case TransactionRepayment:
			s.TotalRepaid = s.TotalRepaid.Add(e.CreditAmount)
		case TransactionInterest:
			s.TotalInterest = s.TotalInterest.Add(e.DebitAmount)
		}
		if latest == nil || e.SerialNo > latest.SerialNo {
			latest = e
		}
		s.EntryCount++
	}

	if latest != nil {
		s.CurrentBalance = latest.Balance
	}

	return s
}

// EntryFilter narrows a ledger query to a date window. Nil bounds are open.
type EntryFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
}

// Matches reports whether e falls inside the filter window.
func (f EntryFilter) Matches(e *LedgerEntry) bool {
	if f.FromDate != nil && e.Date.Before(DateOf(*f.FromDate)) {
		return false
	}
	if f.ToDate != nil && e.Date.After(DateOf(*f.ToDate)) {
		return false
	}
	return true
}
