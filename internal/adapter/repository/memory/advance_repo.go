package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

// AdvanceRepository implements usecase.AdvanceRepository.
type AdvanceRepository struct {
	store *Store
}

// NewAdvanceRepository creates a new AdvanceRepository.
func NewAdvanceRepository(store *Store) *AdvanceRepository {
	return &AdvanceRepository{store: store}
}

// Create stages a new advance.
func (r *AdvanceRepository) Create(_ context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if mt == nil {
		return errTxDone
	}

	r.store.mu.RLock()
	_, exists := r.store.advances[advance.ID]
	r.store.mu.RUnlock()
	if _, staged := mt.advances[advance.ID]; exists || staged {
		return fmt.Errorf("advance %s already exists", advance.ID)
	}

	a := *advance
	mt.advances[a.ID] = &a
	return nil
}

// GetByID retrieves a committed advance.
func (r *AdvanceRepository) GetByID(_ context.Context, id string) (*domain.Advance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.advances[id]
	if !ok {
		return nil, domain.ErrAdvanceNotFound
	}
	c := *a
	return &c, nil
}

// GetByIDForUpdate retrieves an advance as seen by tx.
func (r *AdvanceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Advance, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if mt != nil {
		if a, ok := mt.advances[id]; ok {
			c := *a
			return &c, nil
		}
	}
	return r.GetByID(ctx, id)
}

// Update stages the new state of an existing advance.
func (r *AdvanceRepository) Update(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if mt == nil {
		return errTxDone
	}
	if _, err := r.GetByIDForUpdate(ctx, tx, advance.ID); err != nil {
		return err
	}
	a := *advance
	mt.advances[a.ID] = &a
	return nil
}

// ListByParty lists a party's advances by advance number, then creation time.
func (r *AdvanceRepository) ListByParty(_ context.Context, partyID string) ([]*domain.Advance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Advance, 0)
	for _, a := range r.store.advances {
		if a.PartyID == partyID {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AdvanceNo != out[j].AdvanceNo {
			return out[i].AdvanceNo < out[j].AdvanceNo
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// SumPendingByParty totals the party's PENDING advances.
func (r *AdvanceRepository) SumPendingByParty(_ context.Context, partyID string) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	total := decimal.Zero
	for _, a := range r.store.advances {
		if a.PartyID == partyID && a.Status == domain.AdvanceStatusPending {
			total = total.Add(a.Amount)
		}
	}
	return total, nil
}
