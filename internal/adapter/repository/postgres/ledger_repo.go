package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/infrastructure/postgres/generated"
	"github.com/iho/agroledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Insert writes an entry. The (party_id, serial_no) unique constraint turns a
// lost race into domain.ErrConcurrentModification.
func (r *LedgerRepository) Insert(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	err := queriesFor(tx, r.queries).InsertLedgerEntry(ctx, generated.InsertLedgerEntryParams{
		ID:              entry.ID,
		OrganizationID:  entry.OrganizationID,
		PartyID:         entry.PartyID,
		SerialNo:        entry.SerialNo,
		EntryDate:       timeToPgDate(entry.Date),
		TransactionType: string(entry.TransactionType),
		DebitAmount:     decimalToNumeric(entry.DebitAmount),
		CreditAmount:    decimalToNumeric(entry.CreditAmount),
		Balance:         decimalToNumeric(entry.Balance),
		AmadID:          stringPtrToText(entry.AmadID),
		AdvanceID:       stringPtrToText(entry.AdvanceID),
		LoanAmountID:    stringPtrToText(entry.LoanAmountID),
		Narration:       entry.Narration,
		CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		if isSerialConflict(err) {
			return fmt.Errorf("%w: party %s serial %d", domain.ErrConcurrentModification, entry.PartyID, entry.SerialNo)
		}
		return err
	}

	return nil
}

// Tail returns up to n most recent entries, newest first.
func (r *LedgerRepository) Tail(ctx context.Context, tx usecase.Transaction, partyID string, n int) ([]*domain.LedgerEntry, error) {
	rows, err := queriesFor(tx, r.queries).GetLedgerTail(ctx, generated.GetLedgerTailParams{
		PartyID: partyID,
		Limit:   int32(n),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToLedgerEntry(row))
	}

	return entries, nil
}

// ListByParty returns entries ascending by serial, optionally bounded by date.
func (r *LedgerRepository) ListByParty(ctx context.Context, partyID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntriesByParty(ctx, generated.ListLedgerEntriesByPartyParams{
		PartyID:  partyID,
		FromDate: optionalPgDate(filter.FromDate),
		ToDate:   optionalPgDate(filter.ToDate),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToLedgerEntry(row))
	}

	return entries, nil
}

// CurrentBalance returns the balance at the highest serial, zero when empty.
func (r *LedgerRepository) CurrentBalance(ctx context.Context, partyID string) (decimal.Decimal, error) {
	balance, err := r.queries.GetCurrentBalance(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// ListParties returns every party of an organization with any entry.
func (r *LedgerRepository) ListParties(ctx context.Context, organizationID string) ([]string, error) {
	return r.queries.ListParties(ctx, organizationID)
}

// ListActiveParties returns parties with any entry dated on or before upTo.
func (r *LedgerRepository) ListActiveParties(ctx context.Context, organizationID string, upTo time.Time) ([]string, error) {
	return r.queries.ListActiveParties(ctx, generated.ListActivePartiesParams{
		OrganizationID: organizationID,
		EntryDate:      timeToPgDate(upTo),
	})
}
