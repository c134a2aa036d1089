package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Insert stages entry in tx. Slot conflicts with staged entries fail at once,
// conflicts with other committed writers fail on Commit.
func (r *LedgerRepository) Insert(_ context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if mt == nil {
		return errTxDone
	}
	for _, staged := range mt.entries {
		if staged.PartyID == entry.PartyID && staged.SerialNo == entry.SerialNo {
			return domain.ErrConcurrentModification
		}
	}
	e := *entry
	mt.entries = append(mt.entries, &e)
	return nil
}

// Tail returns up to n most recent entries, newest first, including staged ones.
func (r *LedgerRepository) Tail(_ context.Context, tx usecase.Transaction, partyID string, n int) ([]*domain.LedgerEntry, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	all := append([]*domain.LedgerEntry(nil), r.store.entries[partyID]...)
	r.store.mu.RUnlock()

	if mt != nil {
		for _, e := range mt.entries {
			if e.PartyID == partyID {
				all = append(all, e)
			}
		}
		sortBySerial(all)
	}

	out := make([]*domain.LedgerEntry, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		e := *all[i]
		out = append(out, &e)
	}
	return out, nil
}

// ListByParty returns committed entries ascending by serial.
func (r *LedgerRepository) ListByParty(_ context.Context, partyID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.store.entries[partyID]
	out := make([]*domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if !filter.Matches(e) {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

// CurrentBalance returns the balance of the highest serial, zero when empty.
func (r *LedgerRepository) CurrentBalance(_ context.Context, partyID string) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.store.entries[partyID]
	if len(entries) == 0 {
		return decimal.Zero, nil
	}
	return entries[len(entries)-1].Balance, nil
}

// ListParties returns every party of an organization with any entry, sorted by ID.
func (r *LedgerRepository) ListParties(_ context.Context, organizationID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	parties := make([]string, 0, len(r.store.entries))
	for partyID, entries := range r.store.entries {
		for _, e := range entries {
			if e.OrganizationID == organizationID {
				parties = append(parties, partyID)
				break
			}
		}
	}
	sort.Strings(parties)
	return parties, nil
}

// ListActiveParties returns parties with any entry dated on or before upTo, sorted by ID.
func (r *LedgerRepository) ListActiveParties(_ context.Context, organizationID string, upTo time.Time) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cutoff := domain.DateOf(upTo)
	parties := make([]string, 0, len(r.store.entries))
	for partyID, entries := range r.store.entries {
		for _, e := range entries {
			if e.OrganizationID == organizationID && !e.Date.After(cutoff) {
				parties = append(parties, partyID)
				break
			}
		}
	}
	sort.Strings(parties)
	return parties, nil
}
