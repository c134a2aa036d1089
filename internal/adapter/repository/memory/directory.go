package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

// InterestPostingRepository implements usecase.InterestPostingRepository.
type InterestPostingRepository struct {
	store *Store
}

// NewInterestPostingRepository creates a new InterestPostingRepository.
func NewInterestPostingRepository(store *Store) *InterestPostingRepository {
	return &InterestPostingRepository{store: store}
}

// Create stages a posting marker.
func (r *InterestPostingRepository) Create(_ context.Context, tx usecase.Transaction, posting *domain.InterestPosting) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if mt == nil {
		return errTxDone
	}
	p := *posting
	mt.postings = append(mt.postings, &p)
	return nil
}

// ListByParty returns committed and staged postings of a party.
func (r *InterestPostingRepository) ListByParty(_ context.Context, tx usecase.Transaction, partyID string) ([]*domain.InterestPosting, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	out := make([]*domain.InterestPosting, 0, len(r.store.postings[partyID]))
	for _, p := range r.store.postings[partyID] {
		c := *p
		out = append(out, &c)
	}
	r.store.mu.RUnlock()

	if mt != nil {
		for _, p := range mt.postings {
			if p.PartyID == partyID {
				c := *p
				out = append(out, &c)
			}
		}
	}
	return out, nil
}

// PartyDirectory implements usecase.PartyDirectory over seeded master data.
type PartyDirectory struct {
	store *Store
}

// NewPartyDirectory creates a new PartyDirectory.
func NewPartyDirectory(store *Store) *PartyDirectory {
	return &PartyDirectory{store: store}
}

// GetParty looks up a party.
func (d *PartyDirectory) GetParty(_ context.Context, id string) (*domain.Party, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	p, ok := d.store.parties[id]
	if !ok {
		return nil, domain.ErrPartyNotFound
	}
	c := *p
	return &c, nil
}

// GetAmad looks up a collateral lot.
func (d *PartyDirectory) GetAmad(_ context.Context, id string) (*domain.Amad, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	a, ok := d.store.amads[id]
	if !ok {
		return nil, domain.ErrAmadNotFound
	}
	c := *a
	return &c, nil
}

// PartyGuard implements usecase.PartyGuard for a single process.
type PartyGuard struct {
	mu     sync.Mutex
	held   map[string]struct{}
	halted map[string]string
}

// NewPartyGuard creates a new PartyGuard.
func NewPartyGuard() *PartyGuard {
	return &PartyGuard{
		held:   make(map[string]struct{}),
		halted: make(map[string]string),
	}
}

// Acquire takes the party without waiting.
func (g *PartyGuard) Acquire(_ context.Context, partyID string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[partyID]; ok {
		return nil, domain.ErrConcurrentModification
	}
	g.held[partyID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, partyID)
			g.mu.Unlock()
		})
	}, nil
}

// Halt marks the party as refusing writes.
func (g *PartyGuard) Halt(_ context.Context, partyID, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.halted[partyID] = time.Now().UTC().Format(time.RFC3339) + " " + reason
	return nil
}

// IsHalted reports whether the party refuses writes.
func (g *PartyGuard) IsHalted(_ context.Context, partyID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.halted[partyID]
	return ok, nil
}

// Release lifts a halt.
func (g *PartyGuard) Release(_ context.Context, partyID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.halted, partyID)
	return nil
}
