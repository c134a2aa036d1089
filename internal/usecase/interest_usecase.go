package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/agroledger/internal/domain"
)

// InterestUseCase computes reducing-balance interest and posts it to party ledgers.
type InterestUseCase struct {
	ledger      *LedgerUseCase
	ledgerRepo  LedgerRepository
	postingRepo InterestPostingRepository
	directory   PartyDirectory
	idGen       IDGenerator
	concurrency int
	logger      zerolog.Logger
	options
}

// NewInterestUseCase creates a new InterestUseCase. concurrency bounds how many
// party ledgers a chart run replays at once.
func NewInterestUseCase(
	ledger *LedgerUseCase,
	ledgerRepo LedgerRepository,
	postingRepo InterestPostingRepository,
	directory PartyDirectory,
	idGen IDGenerator,
	concurrency int,
	logger zerolog.Logger,
	opts ...Option,
) *InterestUseCase {
	if concurrency <= 0 {
		concurrency = DefaultChartConcurrency
	}
	return &InterestUseCase{
		ledger:      ledger,
		ledgerRepo:  ledgerRepo,
		postingRepo: postingRepo,
		directory:   directory,
		idGen:       idGen,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "interest").Logger(),
		options:     buildOptions(opts),
	}
}

// PeriodInput is a party-independent interest window. A rate that is not
// positive accrues nothing.
type PeriodInput struct {
	From         time.Time
	To           time.Time
	RatePerMonth decimal.Decimal
}

func (in PeriodInput) validate() error {
	return domain.ValidateDateRange(in.From, in.To)
}

// PartyInterest is the interest breakdown of one party over a window.
type PartyInterest struct {
	PartyID string
	Rows    []domain.InterestDetailRow
	Total   decimal.Decimal
}

// CalculatePeriodInterest replays one party ledger over [from, to].
func (uc *InterestUseCase) CalculatePeriodInterest(ctx context.Context, partyID string, period PeriodInput) (*PartyInterest, error) {
	if err := period.validate(); err != nil {
		return nil, err
	}

	to := domain.DateOf(period.To)
	entries, err := uc.ledgerRepo.ListByParty(ctx, partyID, domain.EntryFilter{ToDate: &to})
	if err != nil {
		return nil, err
	}

	rows := domain.CalculatePeriodInterest(entries, period.From, period.To, period.RatePerMonth)
	return &PartyInterest{
		PartyID: partyID,
		Rows:    rows,
		Total:   domain.TotalInterest(rows),
	}, nil
}

// GenerateInterestChart projects every party of the organization with activity
// on or before the window end. Parties at zero balance throughout are skipped.
func (uc *InterestUseCase) GenerateInterestChart(ctx context.Context, organizationID string, period PeriodInput) ([]domain.InterestChartEntry, error) {
	if err := period.validate(); err != nil {
		return nil, err
	}

	from, to := domain.DateOf(period.From), domain.DateOf(period.To)
	parties, err := uc.ledgerRepo.ListActiveParties(ctx, organizationID, to)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.InterestChartEntry, len(parties))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, partyID := range parties {
		g.Go(func() error {
			entries, err := uc.ledgerRepo.ListByParty(gctx, partyID, domain.EntryFilter{ToDate: &to})
			if err != nil {
				return fmt.Errorf("load ledger for party %s: %w", partyID, err)
			}

			entry, ok := domain.BuildChartEntry(partyID, entries, from, to, period.RatePerMonth)
			if !ok {
				return nil
			}
			uc.describeParty(gctx, &entry)
			results[i] = &entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chart := make([]domain.InterestChartEntry, 0, len(results))
	for _, r := range results {
		if r != nil {
			chart = append(chart, *r)
		}
	}

	uc.logger.Debug().
		Str("organization_id", organizationID).
		Int("parties", len(parties)).
		Int("rows", len(chart)).
		Msg("interest chart generated")

	return chart, nil
}

// describeParty fills display fields from the directory. A missing party keeps the row.
func (uc *InterestUseCase) describeParty(ctx context.Context, entry *domain.InterestChartEntry) {
	if uc.directory == nil {
		return
	}
	party, err := uc.directory.GetParty(ctx, entry.PartyID)
	if err != nil {
		uc.logger.Debug().Err(err).Str("party_id", entry.PartyID).Msg("party lookup failed")
		return
	}
	entry.PartyName = party.Name
	entry.Village = party.Village
}

// PostInterestInput represents input for posting interest.
type PostInterestInput struct {
	PostDate       time.Time
	OrganizationID string
	Entries        []domain.InterestChartEntry
}

// PostInterest appends one INTEREST entry per chart row with positive interest.
// Each party posts in its own transaction together with its posting marker; the
// run stops at the first failure and returns what was already posted.
func (uc *InterestUseCase) PostInterest(ctx context.Context, input PostInterestInput) ([]*domain.LedgerEntry, error) {
	postDate := input.PostDate
	if postDate.IsZero() {
		postDate = uc.clock.Now()
	}

	posted := make([]*domain.LedgerEntry, 0, len(input.Entries))
	for _, ce := range input.Entries {
		amount := domain.RoundMoney(ce.Interest)
		if !amount.IsPositive() {
			continue
		}

		entry, err := uc.postOne(ctx, input.OrganizationID, ce, amount, postDate)
		if err != nil {
			return posted, fmt.Errorf("post interest for party %s: %w", ce.PartyID, err)
		}

		uc.ledger.observe(entry)
		uc.metrics.InterestPosted(amount)
		posted = append(posted, entry)
	}

	return posted, nil
}

func (uc *InterestUseCase) postOne(
	ctx context.Context,
	organizationID string,
	ce domain.InterestChartEntry,
	amount decimal.Decimal,
	postDate time.Time,
) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry
	err := uc.ledger.Mutate(ctx, ce.PartyID, func(tx Transaction) error {
		postings, err := uc.postingRepo.ListByParty(ctx, tx, ce.PartyID)
		if err != nil {
			return err
		}
		for _, p := range postings {
			if p.Overlaps(ce.FromDate, ce.ToDate) {
				return fmt.Errorf("%w: party %s already posted %s..%s",
					domain.ErrAlreadyPosted, ce.PartyID, domain.FormatDate(p.FromDate), domain.FormatDate(p.ToDate))
			}
		}

		entry, err = uc.ledger.AppendTx(ctx, tx, AppendInput{
			OrganizationID: organizationID,
			PartyID:        ce.PartyID,
			Type:           domain.TransactionInterest,
			Amount:         amount,
			Date:           postDate,
			Narration:      InterestNarration(ce.FromDate, ce.ToDate, ce.Rate),
		})
		if err != nil {
			return err
		}

		return uc.postingRepo.Create(ctx, tx, &domain.InterestPosting{
			ID:             uc.idGen.Generate(),
			OrganizationID: organizationID,
			PartyID:        ce.PartyID,
			FromDate:       domain.DateOf(ce.FromDate),
			ToDate:         domain.DateOf(ce.ToDate),
			LedgerEntryID:  entry.ID,
			Amount:         amount,
			CreatedAt:      uc.clock.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PostPeriod generates the chart for a window and posts it in one call.
func (uc *InterestUseCase) PostPeriod(ctx context.Context, organizationID string, period PeriodInput, postDate time.Time) ([]*domain.LedgerEntry, error) {
	chart, err := uc.GenerateInterestChart(ctx, organizationID, period)
	if err != nil {
		return nil, err
	}
	if postDate.IsZero() {
		postDate = period.To
	}
	return uc.PostInterest(ctx, PostInterestInput{
		OrganizationID: organizationID,
		Entries:        chart,
		PostDate:       postDate,
	})
}

// InterestNarration is the ledger text of a posted interest entry.
func InterestNarration(from, to time.Time, ratePerMonth decimal.Decimal) string {
	return fmt.Sprintf("Interest %s..%s @ %s%%/month", domain.FormatDate(from), domain.FormatDate(to), ratePerMonth.String())
}
