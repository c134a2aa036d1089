package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	store *Store
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(store *Store) *LoanRepository {
	return &LoanRepository{store: store}
}

// Create stages a new loan.
func (r *LoanRepository) Create(_ context.Context, tx usecase.Transaction, loan *domain.LoanAmount) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if mt == nil {
		return errTxDone
	}

	r.store.mu.RLock()
	_, exists := r.store.loans[loan.ID]
	r.store.mu.RUnlock()
	if _, staged := mt.loans[loan.ID]; exists || staged {
		return fmt.Errorf("loan %s already exists", loan.ID)
	}

	l := *loan
	mt.loans[l.ID] = &l
	return nil
}

// GetByID retrieves a committed loan.
func (r *LoanRepository) GetByID(_ context.Context, id string) (*domain.LoanAmount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	c := *l
	return &c, nil
}

// GetByIDForUpdate retrieves a loan as seen by tx.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LoanAmount, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if mt != nil {
		if l, ok := mt.loans[id]; ok {
			c := *l
			return &c, nil
		}
	}
	return r.GetByID(ctx, id)
}

// Update stages the new state of an existing loan.
func (r *LoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.LoanAmount) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if mt == nil {
		return errTxDone
	}
	if _, err := r.GetByIDForUpdate(ctx, tx, loan.ID); err != nil {
		return err
	}
	l := *loan
	mt.loans[l.ID] = &l
	return nil
}

// ListByParty lists a party's loans by loan number, then creation time.
func (r *LoanRepository) ListByParty(_ context.Context, partyID string) ([]*domain.LoanAmount, error) {
	return r.list(func(l *domain.LoanAmount) bool { return l.PartyID == partyID }), nil
}

// ListOpen lists the organization's loans that are not CLOSED.
func (r *LoanRepository) ListOpen(_ context.Context, organizationID string) ([]*domain.LoanAmount, error) {
	return r.list(func(l *domain.LoanAmount) bool {
		return l.OrganizationID == organizationID && l.IsOpen()
	}), nil
}

// SumOutstandingByAmad totals open loans against amadID, including loans staged in tx.
func (r *LoanRepository) SumOutstandingByAmad(_ context.Context, tx usecase.Transaction, amadID string) (decimal.Decimal, error) {
	mt, err := asTx(tx)
	if err != nil {
		return decimal.Zero, err
	}

	r.store.mu.RLock()
	view := make(map[string]*domain.LoanAmount, len(r.store.loans))
	for id, l := range r.store.loans {
		view[id] = l
	}
	r.store.mu.RUnlock()

	if mt != nil {
		for id, l := range mt.loans {
			view[id] = l
		}
	}

	total := decimal.Zero
	for _, l := range view {
		if l.AmadID == amadID && l.IsOpen() {
			total = total.Add(l.OutstandingBalance)
		}
	}
	return total, nil
}

func (r *LoanRepository) list(keep func(*domain.LoanAmount) bool) []*domain.LoanAmount {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.LoanAmount, 0)
	for _, l := range r.store.loans {
		if keep(l) {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LoanNo != out[j].LoanNo {
			return out[i].LoanNo < out[j].LoanNo
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
