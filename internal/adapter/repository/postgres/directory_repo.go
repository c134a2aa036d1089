package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/infrastructure/postgres/generated"
	"github.com/iho/agroledger/internal/usecase"
)

// InterestPostingRepository implements usecase.InterestPostingRepository.
type InterestPostingRepository struct {
	queries *generated.Queries
}

// NewInterestPostingRepository creates a new InterestPostingRepository.
func NewInterestPostingRepository(pool *pgxpool.Pool) *InterestPostingRepository {
	return &InterestPostingRepository{queries: generated.New(pool)}
}

// Create records a posting marker.
func (r *InterestPostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.InterestPosting) error {
	return queriesFor(tx, r.queries).CreateInterestPosting(ctx, generated.CreateInterestPostingParams{
		ID:             posting.ID,
		OrganizationID: posting.OrganizationID,
		PartyID:        posting.PartyID,
		FromDate:       timeToPgDate(posting.FromDate),
		ToDate:         timeToPgDate(posting.ToDate),
		LedgerEntryID:  posting.LedgerEntryID,
		Amount:         decimalToNumeric(posting.Amount),
		CreatedAt:      timeToPgTimestamptz(posting.CreatedAt),
	})
}

// ListByParty lists a party's posting markers ordered by period start.
func (r *InterestPostingRepository) ListByParty(ctx context.Context, tx usecase.Transaction, partyID string) ([]*domain.InterestPosting, error) {
	rows, err := queriesFor(tx, r.queries).ListInterestPostingsByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	postings := make([]*domain.InterestPosting, 0, len(rows))
	for _, row := range rows {
		postings = append(postings, rowToPosting(row))
	}

	return postings, nil
}

// PartyDirectory implements usecase.PartyDirectory over the master data tables.
type PartyDirectory struct {
	queries *generated.Queries
}

// NewPartyDirectory creates a new PartyDirectory.
func NewPartyDirectory(pool *pgxpool.Pool) *PartyDirectory {
	return &PartyDirectory{queries: generated.New(pool)}
}

// GetParty looks up a party.
func (d *PartyDirectory) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	row, err := d.queries.GetParty(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}
		return nil, err
	}

	return &domain.Party{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Name:           row.Name,
		Village:        row.Village,
	}, nil
}

// GetAmad looks up a collateral lot.
func (d *PartyDirectory) GetAmad(ctx context.Context, id string) (*domain.Amad, error) {
	row, err := d.queries.GetAmad(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAmadNotFound
		}
		return nil, err
	}

	return &domain.Amad{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		PartyID:        row.PartyID,
		TotalUnits:     numericToDecimal(row.TotalUnits),
		Status:         domain.AmadStatus(row.Status),
	}, nil
}
