// Package memory provides an in-process store used for development and tests.
// Transactions stage their writes and apply them atomically on Commit, so the
// (party, serial) uniqueness check behaves like the database constraint.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

var errTxDone = errors.New("transaction already finished")

// Store holds every table of the in-memory backend behind one RWMutex.
type Store struct {
	mu       sync.RWMutex
	entries  map[string][]*domain.LedgerEntry // party -> entries ascending by serial
	advances map[string]*domain.Advance
	loans    map[string]*domain.LoanAmount
	postings map[string][]*domain.InterestPosting // party -> postings
	parties  map[string]*domain.Party
	amads    map[string]*domain.Amad
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		entries:  make(map[string][]*domain.LedgerEntry),
		advances: make(map[string]*domain.Advance),
		loans:    make(map[string]*domain.LoanAmount),
		postings: make(map[string][]*domain.InterestPosting),
		parties:  make(map[string]*domain.Party),
		amads:    make(map[string]*domain.Amad),
	}
}

// SeedParty registers a party in the directory.
func (s *Store) SeedParty(p domain.Party) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[p.ID] = &p
}

// SeedAmad registers a collateral lot in the directory.
func (s *Store) SeedAmad(a domain.Amad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amads[a.ID] = &a
}

// SeedEntries writes entries verbatim, bypassing every check. It exists to
// stage damaged ledgers in tests.
func (s *Store) SeedEntries(entries ...domain.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range entries {
		e := entries[i]
		s.entries[e.PartyID] = append(s.entries[e.PartyID], &e)
	}
	for party := range s.entries {
		sortBySerial(s.entries[party])
	}
}

// Reset drops all data.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string][]*domain.LedgerEntry{}
	s.advances = map[string]*domain.Advance{}
	s.loans = map[string]*domain.LoanAmount{}
	s.postings = map[string][]*domain.InterestPosting{}
	s.parties = map[string]*domain.Party{}
	s.amads = map[string]*domain.Amad{}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{
		store:    m.store,
		advances: make(map[string]*domain.Advance),
		loans:    make(map[string]*domain.LoanAmount),
	}, nil
}

// Tx buffers writes until Commit.
type Tx struct {
	store    *Store
	entries  []*domain.LedgerEntry
	advances map[string]*domain.Advance
	loans    map[string]*domain.LoanAmount
	postings []*domain.InterestPosting
	done     bool
}

// Commit validates the staged writes against the committed state and applies
// them. A taken (party, serial) slot fails the whole commit.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range t.entries {
		for _, existing := range s.entries[e.PartyID] {
			if existing.SerialNo == e.SerialNo {
				return fmt.Errorf("%w: party %s serial %d already written",
					domain.ErrConcurrentModification, e.PartyID, e.SerialNo)
			}
		}
	}

	touched := make(map[string]struct{})
	for _, e := range t.entries {
		s.entries[e.PartyID] = append(s.entries[e.PartyID], e)
		touched[e.PartyID] = struct{}{}
	}
	for party := range touched {
		sortBySerial(s.entries[party])
	}
	for id, a := range t.advances {
		s.advances[id] = a
	}
	for id, l := range t.loans {
		s.loans[id] = l
	}
	for _, p := range t.postings {
		s.postings[p.PartyID] = append(s.postings[p.PartyID], p)
	}

	t.done = true
	return nil
}

// Rollback discards staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(context.Context) error {
	t.done = true
	return nil
}

// asTx returns the memory transaction behind tx, or nil for a plain read.
func asTx(tx usecase.Transaction) (*Tx, error) {
	if tx == nil {
		return nil, nil
	}
	mt, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unexpected transaction type %T", tx)
	}
	if mt.done {
		return nil, errTxDone
	}
	return mt, nil
}

func sortBySerial(entries []*domain.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SerialNo < entries[j].SerialNo
	})
}
