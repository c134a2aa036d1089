package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type step struct {
	txType TransactionType
	amount int64
}

func buildLedger(t *testing.T, steps ...step) []*LedgerEntry {
	t.Helper()

	var entries []*LedgerEntry
	var prev *LedgerEntry
	for i, s := range steps {
		e, err := NextEntry(prev, s.txType, decimal.NewFromInt(s.amount))
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		e.PartyID = "party-1"
		e.Date = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
		entries = append(entries, e)
		prev = e
	}
	return entries
}

func TestNextEntry(t *testing.T) {
	t.Parallel()

	first, err := NextEntry(nil, TransactionDisbursement, decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.SerialNo != 1 || !first.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("unexpected first entry: serial=%d balance=%s", first.SerialNo, first.Balance)
	}

	second, err := NextEntry(first, TransactionRepayment, decimal.NewFromInt(4000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.SerialNo != 2 || !second.Balance.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("unexpected second entry: serial=%d balance=%s", second.SerialNo, second.Balance)
	}
	if !second.CreditAmount.Equal(decimal.NewFromInt(4000)) || !second.DebitAmount.IsZero() {
		t.Fatalf("repayment must be a credit, got debit=%s credit=%s", second.DebitAmount, second.CreditAmount)
	}

	third, err := NextEntry(second, TransactionInterest, decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !third.DebitAmount.Equal(decimal.NewFromInt(120)) || !third.Balance.Equal(decimal.NewFromInt(6120)) {
		t.Fatalf("interest must be a debit, got debit=%s balance=%s", third.DebitAmount, third.Balance)
	}
}

func TestNextEntry_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := NextEntry(nil, TransactionDisbursement, decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := NextEntry(nil, TransactionType("FEE"), decimal.NewFromInt(1)); !errors.Is(err, ErrInvalidTransactionType) {
		t.Fatalf("expected ErrInvalidTransactionType, got %v", err)
	}
}

func TestLedgerEntry_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   LedgerEntry
		wantErr error
	}{
		{
			name:  "valid debit",
			entry: LedgerEntry{TransactionType: TransactionDisbursement, DebitAmount: decimal.NewFromInt(5), CreditAmount: decimal.Zero},
		},
		{
			name:    "both sides set",
			entry:   LedgerEntry{TransactionType: TransactionDisbursement, DebitAmount: decimal.NewFromInt(5), CreditAmount: decimal.NewFromInt(5)},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "neither side set",
			entry:   LedgerEntry{TransactionType: TransactionRepayment, DebitAmount: decimal.Zero, CreditAmount: decimal.Zero},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "repayment on debit side",
			entry:   LedgerEntry{TransactionType: TransactionRepayment, DebitAmount: decimal.NewFromInt(5), CreditAmount: decimal.Zero},
			wantErr: ErrInvalidTransactionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReplay_ReproducesEveryBalance(t *testing.T) {
	t.Parallel()

	entries := buildLedger(t,
		step{TransactionDisbursement, 10000},
		step{TransactionRepayment, 4000},
		step{TransactionInterest, 1200},
		step{TransactionDisbursement, 500},
		step{TransactionRepayment, 7700},
	)

	balance, _, err := Replay(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected final balance 0, got %s", balance)
	}

	running := decimal.Zero
	for _, e := range entries {
		running = running.Add(e.DebitAmount).Sub(e.CreditAmount)
		if !running.Equal(e.Balance) {
			t.Fatalf("serial %d: replayed %s, stored %s", e.SerialNo, running, e.Balance)
		}
	}
}

func TestReplay_DetectsCorruption(t *testing.T) {
	t.Parallel()

	entries := buildLedger(t,
		step{TransactionDisbursement, 10000},
		step{TransactionRepayment, 4000},
		step{TransactionInterest, 100},
	)
	entries[1].Balance = decimal.NewFromInt(6001)

	_, serial, err := Replay(entries)
	if !errors.Is(err, ErrLedgerCorruption) {
		t.Fatalf("expected ErrLedgerCorruption, got %v", err)
	}
	if serial != 2 {
		t.Fatalf("expected corruption at serial 2, got %d", serial)
	}
}

func TestReplay_DetectsSerialGap(t *testing.T) {
	t.Parallel()

	entries := buildLedger(t,
		step{TransactionDisbursement, 100},
		step{TransactionDisbursement, 100},
	)
	entries[1].SerialNo = 3

	if _, _, err := Replay(entries); !errors.Is(err, ErrLedgerCorruption) {
		t.Fatalf("expected ErrLedgerCorruption, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	entries := buildLedger(t,
		step{TransactionDisbursement, 10000},
		step{TransactionRepayment, 4000},
		step{TransactionInterest, 1200},
	)

	s := Summarize("party-1", entries)
	if !s.TotalDisbursed.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected disbursed 10000, got %s", s.TotalDisbursed)
	}
	if !s.TotalRepaid.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("expected repaid 4000, got %s", s.TotalRepaid)
	}
	if !s.TotalInterest.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected interest 1200, got %s", s.TotalInterest)
	}
	if !s.CurrentBalance.Equal(decimal.NewFromInt(7200)) {
		t.Errorf("expected balance 7200, got %s", s.CurrentBalance)
	}
	if s.EntryCount != 3 {
		t.Errorf("expected 3 entries, got %d", s.EntryCount)
	}

	empty := Summarize("nobody", nil)
	if !empty.CurrentBalance.IsZero() || empty.EntryCount != 0 {
		t.Errorf("expected empty summary, got %+v", empty)
	}
}
