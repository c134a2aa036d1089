package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/infrastructure/postgres/generated"
	"github.com/iho/agroledger/internal/usecase"
)

const partySerialConstraint = "ledger_entries_party_serial_key"

// queriesFor binds queries to tx when one is given, otherwise to the pool.
func queriesFor(tx usecase.Transaction, pool *generated.Queries) *generated.Queries {
	if t, ok := tx.(*Tx); ok && t != nil {
		return generated.New(t.PgxTx())
	}
	return pool
}

// isSerialConflict reports whether err is the (party_id, serial_no) unique violation.
func isSerialConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == partySerialConstraint
	}
	return false
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timeToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: domain.DateOf(t), Valid: true}
}

func optionalPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return timeToPgDate(*t)
}

func pgDateToTime(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return domain.DateOf(d.Time)
}

func stringPtrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func rowToLedgerEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:              row.ID,
		OrganizationID:  row.OrganizationID,
		PartyID:         row.PartyID,
		SerialNo:        row.SerialNo,
		Date:            pgDateToTime(row.EntryDate),
		TransactionType: domain.TransactionType(row.TransactionType),
		DebitAmount:     numericToDecimal(row.DebitAmount),
		CreditAmount:    numericToDecimal(row.CreditAmount),
		Balance:         numericToDecimal(row.Balance),
		EntryLinks: domain.EntryLinks{
			AmadID:       textToStringPtr(row.AmadID),
			AdvanceID:    textToStringPtr(row.AdvanceID),
			LoanAmountID: textToStringPtr(row.LoanAmountID),
		},
		Narration: row.Narration,
		CreatedAt: row.CreatedAt.Time,
	}
}

func rowToAdvance(row generated.Advance) *domain.Advance {
	return &domain.Advance{
		ID:                   row.ID,
		OrganizationID:       row.OrganizationID,
		PartyID:              row.PartyID,
		AdvanceNo:            row.AdvanceNo,
		Date:                 pgDateToTime(row.AdvanceDate),
		Amount:               numericToDecimal(row.Amount),
		InterestRatePerMonth: numericToDecimal(row.InterestRatePerMonth),
		ExpectedBags:         numericToDecimal(row.ExpectedBags),
		ExpectedDate:         pgDateToTime(row.ExpectedDate),
		Status:               domain.AdvanceStatus(row.Status),
		LoanAmountID:         textToStringPtr(row.LoanAmountID),
		CreatedAt:            row.CreatedAt.Time,
		UpdatedAt:            row.UpdatedAt.Time,
	}
}

func rowToLoan(row generated.LoanAmount) *domain.LoanAmount {
	return &domain.LoanAmount{
		ID:                   row.ID,
		OrganizationID:       row.OrganizationID,
		PartyID:              row.PartyID,
		LoanNo:               row.LoanNo,
		Date:                 pgDateToTime(row.LoanDate),
		AmadID:               row.AmadID,
		DisbursedAmount:      numericToDecimal(row.DisbursedAmount),
		RepaidAmount:         numericToDecimal(row.RepaidAmount),
		OutstandingBalance:   numericToDecimal(row.OutstandingBalance),
		InterestRatePerMonth: numericToDecimal(row.InterestRatePerMonth),
		Status:               domain.LoanStatus(row.Status),
		AdvanceID:            textToStringPtr(row.AdvanceID),
		CreatedAt:            row.CreatedAt.Time,
		UpdatedAt:            row.UpdatedAt.Time,
	}
}

func rowToPosting(row generated.InterestPosting) *domain.InterestPosting {
	return &domain.InterestPosting{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		PartyID:        row.PartyID,
		FromDate:       pgDateToTime(row.FromDate),
		ToDate:         pgDateToTime(row.ToDate),
		LedgerEntryID:  row.LedgerEntryID,
		Amount:         numericToDecimal(row.Amount),
		CreatedAt:      row.CreatedAt.Time,
	}
}
