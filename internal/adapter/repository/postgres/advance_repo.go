package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/infrastructure/postgres/generated"
	"github.com/iho/agroledger/internal/usecase"
)

// AdvanceRepository implements usecase.AdvanceRepository.
type AdvanceRepository struct {
	queries *generated.Queries
}

// NewAdvanceRepository creates a new AdvanceRepository.
func NewAdvanceRepository(pool *pgxpool.Pool) *AdvanceRepository {
	return newAdvanceRepository(pool)
}

func newAdvanceRepository(db generated.DBTX) *AdvanceRepository {
	return &AdvanceRepository{queries: generated.New(db)}
}

// Create creates a new advance.
func (r *AdvanceRepository) Create(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	return queriesFor(tx, r.queries).CreateAdvance(ctx, generated.CreateAdvanceParams{
		ID:                   advance.ID,
		OrganizationID:       advance.OrganizationID,
		PartyID:              advance.PartyID,
		AdvanceNo:            advance.AdvanceNo,
		AdvanceDate:          timeToPgDate(advance.Date),
		Amount:               decimalToNumeric(advance.Amount),
		InterestRatePerMonth: decimalToNumeric(advance.InterestRatePerMonth),
		ExpectedBags:         decimalToNumeric(advance.ExpectedBags),
		ExpectedDate:         timeToPgDate(advance.ExpectedDate),
		Status:               string(advance.Status),
		LoanAmountID:         stringPtrToText(advance.LoanAmountID),
		CreatedAt:            timeToPgTimestamptz(advance.CreatedAt),
		UpdatedAt:            timeToPgTimestamptz(advance.UpdatedAt),
	})
}

// GetByID retrieves an advance by ID.
func (r *AdvanceRepository) GetByID(ctx context.Context, id string) (*domain.Advance, error) {
	row, err := r.queries.GetAdvanceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdvanceNotFound
		}

		return nil, err
	}

	return rowToAdvance(row), nil
}

// GetByIDForUpdate retrieves an advance by ID with a FOR UPDATE lock.
func (r *AdvanceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Advance, error) {
	row, err := queriesFor(tx, r.queries).GetAdvanceByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdvanceNotFound
		}

		return nil, err
	}

	return rowToAdvance(row), nil
}

// Update persists the status and loan link of an advance.
func (r *AdvanceRepository) Update(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	return queriesFor(tx, r.queries).UpdateAdvance(ctx, generated.UpdateAdvanceParams{
		ID:           advance.ID,
		Status:       string(advance.Status),
		LoanAmountID: stringPtrToText(advance.LoanAmountID),
		UpdatedAt:    timeToPgTimestamptz(advance.UpdatedAt),
	})
}

// ListByParty lists a party's advances.
func (r *AdvanceRepository) ListByParty(ctx context.Context, partyID string) ([]*domain.Advance, error) {
	rows, err := r.queries.ListAdvancesByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	advances := make([]*domain.Advance, 0, len(rows))
	for _, row := range rows {
		advances = append(advances, rowToAdvance(row))
	}

	return advances, nil
}

// SumPendingByParty totals the party's PENDING advances.
func (r *AdvanceRepository) SumPendingByParty(ctx context.Context, partyID string) (decimal.Decimal, error) {
	total, err := r.queries.SumPendingAdvancesByParty(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}
