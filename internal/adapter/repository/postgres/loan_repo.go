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

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	queries *generated.Queries
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return newLoanRepository(pool)
}

func newLoanRepository(db generated.DBTX) *LoanRepository {
	return &LoanRepository{queries: generated.New(db)}
}

// Create creates a new loan.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.LoanAmount) error {
	return queriesFor(tx, r.queries).CreateLoanAmount(ctx, generated.CreateLoanAmountParams{
		ID:                   loan.ID,
		OrganizationID:       loan.OrganizationID,
		PartyID:              loan.PartyID,
		LoanNo:               loan.LoanNo,
		LoanDate:             timeToPgDate(loan.Date),
		AmadID:               loan.AmadID,
		DisbursedAmount:      decimalToNumeric(loan.DisbursedAmount),
		RepaidAmount:         decimalToNumeric(loan.RepaidAmount),
		OutstandingBalance:   decimalToNumeric(loan.OutstandingBalance),
		InterestRatePerMonth: decimalToNumeric(loan.InterestRatePerMonth),
		Status:               string(loan.Status),
		AdvanceID:            stringPtrToText(loan.AdvanceID),
		CreatedAt:            timeToPgTimestamptz(loan.CreatedAt),
		UpdatedAt:            timeToPgTimestamptz(loan.UpdatedAt),
	})
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.LoanAmount, error) {
	row, err := r.queries.GetLoanAmountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return rowToLoan(row), nil
}

// GetByIDForUpdate retrieves a loan by ID with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LoanAmount, error) {
	row, err := queriesFor(tx, r.queries).GetLoanAmountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return rowToLoan(row), nil
}

// Update persists amounts and status of a loan.
func (r *LoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.LoanAmount) error {
	return queriesFor(tx, r.queries).UpdateLoanAmount(ctx, generated.UpdateLoanAmountParams{
		ID:                 loan.ID,
		DisbursedAmount:    decimalToNumeric(loan.DisbursedAmount),
		RepaidAmount:       decimalToNumeric(loan.RepaidAmount),
		OutstandingBalance: decimalToNumeric(loan.OutstandingBalance),
		Status:             string(loan.Status),
		AdvanceID:          stringPtrToText(loan.AdvanceID),
		UpdatedAt:          timeToPgTimestamptz(loan.UpdatedAt),
	})
}

// ListByParty lists a party's loans.
func (r *LoanRepository) ListByParty(ctx context.Context, partyID string) ([]*domain.LoanAmount, error) {
	rows, err := r.queries.ListLoanAmountsByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	return rowsToLoans(rows), nil
}

// ListOpen lists the organization's loans that are not CLOSED.
func (r *LoanRepository) ListOpen(ctx context.Context, organizationID string) ([]*domain.LoanAmount, error) {
	rows, err := r.queries.ListOpenLoanAmounts(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return rowsToLoans(rows), nil
}

// SumOutstandingByAmad totals open loans against a collateral lot.
func (r *LoanRepository) SumOutstandingByAmad(ctx context.Context, tx usecase.Transaction, amadID string) (decimal.Decimal, error) {
	total, err := queriesFor(tx, r.queries).SumOutstandingByAmad(ctx, amadID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func rowsToLoans(rows []generated.LoanAmount) []*domain.LoanAmount {
	loans := make([]*domain.LoanAmount, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, rowToLoan(row))
	}
	return loans
}
