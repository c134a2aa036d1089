package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
)

// LoanUseCase drives advances and loans through their lifecycles. Every
// transition that moves money shares one transaction with its ledger entry.
type LoanUseCase struct {
	ledger      *LedgerUseCase
	advanceRepo AdvanceRepository
	loanRepo    LoanRepository
	directory   PartyDirectory
	settings    SettingsProvider
	idGen       IDGenerator
	logger      zerolog.Logger
	options
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(
	ledger *LedgerUseCase,
	advanceRepo AdvanceRepository,
	loanRepo LoanRepository,
	directory PartyDirectory,
	settings SettingsProvider,
	idGen IDGenerator,
	logger zerolog.Logger,
	opts ...Option,
) *LoanUseCase {
	return &LoanUseCase{
		ledger:      ledger,
		advanceRepo: advanceRepo,
		loanRepo:    loanRepo,
		directory:   directory,
		settings:    settings,
		idGen:       idGen,
		logger:      logger.With().Str("component", "lifecycle").Logger(),
		options:     buildOptions(opts),
	}
}

// LifecycleResult is the outcome of a lifecycle operation. Entry is nil for
// transitions without ledger effect.
type LifecycleResult struct {
	Advance *domain.Advance
	Loan    *domain.LoanAmount
	Entry   *domain.LedgerEntry
	Limit   *domain.Limit
}

// CreateAdvanceInput represents input for creating an advance.
type CreateAdvanceInput struct {
	Date                 time.Time
	ExpectedDate         time.Time
	PerBagRate           *decimal.Decimal
	OrganizationID       string
	PartyID              string
	Amount               decimal.Decimal
	InterestRatePerMonth decimal.Decimal
	ExpectedBags         decimal.Decimal
	AdvanceNo            int64
}

// CreateAdvance records a PENDING advance gated by the party's advance limit.
// No ledger entry is written until the advance is converted or adjusted.
func (uc *LoanUseCase) CreateAdvance(ctx context.Context, input CreateAdvanceInput) (*LifecycleResult, error) {
	party, err := uc.directory.GetParty(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}

	organizationID := input.OrganizationID
	if organizationID == "" {
		organizationID = party.OrganizationID
	}
	settings := uc.settings.For(organizationID)

	now := uc.clock.Now()
	rate := input.InterestRatePerMonth
	if rate.IsZero() {
		rate = settings.DefaultRatePerMonth
	}
	date := input.Date
	if date.IsZero() {
		date = now
	}

	advance := &domain.Advance{
		OrganizationID:       organizationID,
		PartyID:              party.ID,
		AdvanceNo:            input.AdvanceNo,
		Date:                 domain.DateOf(date),
		Amount:               input.Amount,
		InterestRatePerMonth: rate,
		ExpectedBags:         input.ExpectedBags,
		Status:               domain.AdvanceStatusPending,
	}
	if !input.ExpectedDate.IsZero() {
		advance.ExpectedDate = domain.DateOf(input.ExpectedDate)
	}
	if err := advance.Validate(); err != nil {
		return nil, err
	}

	var limit domain.Limit
	err = uc.ledger.Mutate(ctx, party.ID, func(tx Transaction) error {
		pending, err := uc.advanceRepo.SumPendingByParty(ctx, party.ID)
		if err != nil {
			return err
		}
		limit = domain.AdvanceLimit(advance.ExpectedBags, settings.AdvanceRate(input.PerBagRate), pending)
		if err := limit.Check(advance.Amount); err != nil {
			return err
		}

		advance.ID = uc.idGen.Generate()
		advance.CreatedAt = now
		advance.UpdatedAt = now
		return uc.advanceRepo.Create(ctx, tx, advance)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("advance_id", advance.ID).
		Str("party_id", advance.PartyID).
		Str("amount", advance.Amount.String()).
		Msg("advance created")

	return &LifecycleResult{Advance: advance, Limit: &limit}, nil
}

// ConvertAdvanceInput represents input for converting an advance to a loan.
type ConvertAdvanceInput struct {
	Date       time.Time
	PerBagRate *decimal.Decimal
	AdvanceID  string
	AmadID     string
	LoanNo     int64
}

// ConvertAdvanceToLoan turns a PENDING advance into an ACTIVE loan against
// collateral and disburses it on the ledger.
func (uc *LoanUseCase) ConvertAdvanceToLoan(ctx context.Context, input ConvertAdvanceInput) (*LifecycleResult, error) {
	current, err := uc.advanceRepo.GetByID(ctx, input.AdvanceID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.AdvanceStatusPending {
		return nil, fmt.Errorf("%w: advance %s is %s", domain.ErrInvalidTransition, current.ID, current.Status)
	}

	amad, err := uc.partyAmad(ctx, input.AmadID, current.PartyID)
	if err != nil {
		return nil, err
	}
	settings := uc.settings.For(current.OrganizationID)

	result := &LifecycleResult{}
	err = uc.ledger.Mutate(ctx, current.PartyID, func(tx Transaction) error {
		advance, err := uc.advanceRepo.GetByIDForUpdate(ctx, tx, input.AdvanceID)
		if err != nil {
			return err
		}
		if advance.Status != domain.AdvanceStatusPending {
			return fmt.Errorf("%w: advance %s is %s", domain.ErrInvalidTransition, advance.ID, advance.Status)
		}

		limit, err := uc.checkLoanLimit(ctx, tx, amad, settings.LoanRate(input.PerBagRate), advance.Amount)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		date := input.Date
		if date.IsZero() {
			date = now
		}

		loan := &domain.LoanAmount{
			ID:                   uc.idGen.Generate(),
			OrganizationID:       advance.OrganizationID,
			PartyID:              advance.PartyID,
			LoanNo:               input.LoanNo,
			Date:                 domain.DateOf(date),
			AmadID:               amad.ID,
			DisbursedAmount:      advance.Amount,
			RepaidAmount:         decimal.Zero,
			OutstandingBalance:   advance.Amount,
			InterestRatePerMonth: advance.InterestRatePerMonth,
			Status:               domain.LoanStatusActive,
			AdvanceID:            &advance.ID,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := uc.loanRepo.Create(ctx, tx, loan); err != nil {
			return err
		}

		entry, err := uc.ledger.AppendTx(ctx, tx, AppendInput{
			OrganizationID: loan.OrganizationID,
			PartyID:        loan.PartyID,
			Type:           domain.TransactionDisbursement,
			Amount:         advance.Amount,
			Date:           loan.Date,
			Links:          loanLinks(loan),
			Narration:      fmt.Sprintf("Advance #%d converted to loan #%d", advance.AdvanceNo, loan.LoanNo),
		})
		if err != nil {
			return err
		}

		if err := advance.TransitionTo(domain.AdvanceStatusConverted, now); err != nil {
			return err
		}
		advance.LoanAmountID = &loan.ID
		if err := uc.advanceRepo.Update(ctx, tx, advance); err != nil {
			return err
		}

		*result = LifecycleResult{Advance: advance, Loan: loan, Entry: entry, Limit: &limit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.observe(result.Entry)
	return result, nil
}

// AdjustAdvanceInput represents input for folding an advance into a loan.
type AdjustAdvanceInput struct {
	Date       time.Time
	PerBagRate *decimal.Decimal
	AdvanceID  string
	LoanID     string
}

// AdjustAdvance folds a PENDING advance into an existing open loan of the same party.
func (uc *LoanUseCase) AdjustAdvance(ctx context.Context, input AdjustAdvanceInput) (*LifecycleResult, error) {
	current, err := uc.advanceRepo.GetByID(ctx, input.AdvanceID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.AdvanceStatusPending {
		return nil, fmt.Errorf("%w: advance %s is %s", domain.ErrInvalidTransition, current.ID, current.Status)
	}
	settings := uc.settings.For(current.OrganizationID)

	result := &LifecycleResult{}
	err = uc.ledger.Mutate(ctx, current.PartyID, func(tx Transaction) error {
		advance, err := uc.advanceRepo.GetByIDForUpdate(ctx, tx, input.AdvanceID)
		if err != nil {
			return err
		}
		if advance.Status != domain.AdvanceStatusPending {
			return fmt.Errorf("%w: advance %s is %s", domain.ErrInvalidTransition, advance.ID, advance.Status)
		}

		loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, input.LoanID)
		if err != nil {
			return err
		}
		if loan.PartyID != advance.PartyID {
			return fmt.Errorf("%w: loan %s belongs to another party", domain.ErrInvalidTransition, loan.ID)
		}
		if !loan.IsOpen() {
			return fmt.Errorf("%w: loan %s is closed", domain.ErrInvalidTransition, loan.ID)
		}

		amad, err := uc.directory.GetAmad(ctx, loan.AmadID)
		if err != nil {
			return err
		}
		limit, err := uc.checkLoanLimit(ctx, tx, amad, settings.LoanRate(input.PerBagRate), advance.Amount)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		date := input.Date
		if date.IsZero() {
			date = now
		}

		if err := loan.AddDisbursement(advance.Amount, now); err != nil {
			return err
		}
		if loan.AdvanceID == nil {
			loan.AdvanceID = &advance.ID
		}
		if err := uc.loanRepo.Update(ctx, tx, loan); err != nil {
			return err
		}

		links := loanLinks(loan)
		links.AdvanceID = &advance.ID
		entry, err := uc.ledger.AppendTx(ctx, tx, AppendInput{
			OrganizationID: loan.OrganizationID,
			PartyID:        loan.PartyID,
			Type:           domain.TransactionDisbursement,
			Amount:         advance.Amount,
			Date:           date,
			Links:          links,
			Narration:      fmt.Sprintf("Advance #%d adjusted into loan #%d", advance.AdvanceNo, loan.LoanNo),
		})
		if err != nil {
			return err
		}

		if err := advance.TransitionTo(domain.AdvanceStatusAdjusted, now); err != nil {
			return err
		}
		advance.LoanAmountID = &loan.ID
		if err := uc.advanceRepo.Update(ctx, tx, advance); err != nil {
			return err
		}

		*result = LifecycleResult{Advance: advance, Loan: loan, Entry: entry, Limit: &limit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.observe(result.Entry)
	return result, nil
}

// CloseAdvance cancels a PENDING advance. It has no ledger effect.
func (uc *LoanUseCase) CloseAdvance(ctx context.Context, advanceID string) (*LifecycleResult, error) {
	current, err := uc.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		return nil, err
	}

	var advance *domain.Advance
	err = uc.ledger.Mutate(ctx, current.PartyID, func(tx Transaction) error {
		var err error
		advance, err = uc.advanceRepo.GetByIDForUpdate(ctx, tx, advanceID)
		if err != nil {
			return err
		}
		if err := advance.TransitionTo(domain.AdvanceStatusClosed, uc.clock.Now()); err != nil {
			return err
		}
		return uc.advanceRepo.Update(ctx, tx, advance)
	})
	if err != nil {
		return nil, err
	}

	return &LifecycleResult{Advance: advance}, nil
}

// DisburseLoanInput represents input for a direct loan against collateral.
type DisburseLoanInput struct {
	Date                 time.Time
	PerBagRate           *decimal.Decimal
	OrganizationID       string
	PartyID              string
	AmadID               string
	Narration            string
	Amount               decimal.Decimal
	InterestRatePerMonth decimal.Decimal
	LoanNo               int64
}

// DisburseLoan opens an ACTIVE loan against collateral and disburses it.
func (uc *LoanUseCase) DisburseLoan(ctx context.Context, input DisburseLoanInput) (*LifecycleResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateRate(input.InterestRatePerMonth); err != nil {
		return nil, err
	}

	party, err := uc.directory.GetParty(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}
	amad, err := uc.partyAmad(ctx, input.AmadID, party.ID)
	if err != nil {
		return nil, err
	}

	organizationID := input.OrganizationID
	if organizationID == "" {
		organizationID = party.OrganizationID
	}
	settings := uc.settings.For(organizationID)

	rate := input.InterestRatePerMonth
	if rate.IsZero() {
		rate = settings.DefaultRatePerMonth
	}

	result := &LifecycleResult{}
	err = uc.ledger.Mutate(ctx, party.ID, func(tx Transaction) error {
		limit, err := uc.checkLoanLimit(ctx, tx, amad, settings.LoanRate(input.PerBagRate), input.Amount)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		date := input.Date
		if date.IsZero() {
			date = now
		}

		loan := &domain.LoanAmount{
			ID:                   uc.idGen.Generate(),
			OrganizationID:       organizationID,
			PartyID:              party.ID,
			LoanNo:               input.LoanNo,
			Date:                 domain.DateOf(date),
			AmadID:               amad.ID,
			DisbursedAmount:      input.Amount,
			RepaidAmount:         decimal.Zero,
			OutstandingBalance:   input.Amount,
			InterestRatePerMonth: rate,
			Status:               domain.LoanStatusActive,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := uc.loanRepo.Create(ctx, tx, loan); err != nil {
			return err
		}

		narration := input.Narration
		if narration == "" {
			narration = fmt.Sprintf("Loan #%d disbursed", loan.LoanNo)
		}
		entry, err := uc.ledger.AppendTx(ctx, tx, AppendInput{
			OrganizationID: loan.OrganizationID,
			PartyID:        loan.PartyID,
			Type:           domain.TransactionDisbursement,
			Amount:         input.Amount,
			Date:           loan.Date,
			Links:          loanLinks(loan),
			Narration:      narration,
		})
		if err != nil {
			return err
		}

		*result = LifecycleResult{Loan: loan, Entry: entry, Limit: &limit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.observe(result.Entry)
	return result, nil
}

// RepaymentInput represents input for recording a repayment.
type RepaymentInput struct {
	Date      time.Time
	LoanID    string
	Narration string
	Amount    decimal.Decimal
}

// RecordRepayment credits the party ledger and reduces the loan. A repayment
// larger than the outstanding balance is rejected and nothing is written.
func (uc *LoanUseCase) RecordRepayment(ctx context.Context, input RepaymentInput) (*LifecycleResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	current, err := uc.loanRepo.GetByID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}

	result := &LifecycleResult{}
	err = uc.ledger.Mutate(ctx, current.PartyID, func(tx Transaction) error {
		loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, input.LoanID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := loan.ApplyRepayment(input.Amount, now); err != nil {
			return err
		}
		if err := uc.loanRepo.Update(ctx, tx, loan); err != nil {
			return err
		}

		date := input.Date
		if date.IsZero() {
			date = now
		}
		narration := input.Narration
		if narration == "" {
			narration = fmt.Sprintf("Repayment against loan #%d", loan.LoanNo)
		}
		entry, err := uc.ledger.AppendTx(ctx, tx, AppendInput{
			OrganizationID: loan.OrganizationID,
			PartyID:        loan.PartyID,
			Type:           domain.TransactionRepayment,
			Amount:         input.Amount,
			Date:           date,
			Links:          loanLinks(loan),
			Narration:      narration,
		})
		if err != nil {
			return err
		}

		*result = LifecycleResult{Loan: loan, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.observe(result.Entry)
	return result, nil
}

// InterestRepaymentInput represents a payment against posted interest.
type InterestRepaymentInput struct {
	Date           time.Time
	OrganizationID string
	PartyID        string
	Narration      string
	Amount         decimal.Decimal
}

// RepayInterest credits the party ledger against posted interest, which no
// loan carries in its outstanding balance. Amounts above the unpaid interest
// are rejected and nothing is written.
func (uc *LoanUseCase) RepayInterest(ctx context.Context, input InterestRepaymentInput) (*LifecycleResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	party, err := uc.directory.GetParty(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}
	organizationID := input.OrganizationID
	if organizationID == "" {
		organizationID = party.OrganizationID
	}

	var entry *domain.LedgerEntry
	err = uc.ledger.Mutate(ctx, party.ID, func(tx Transaction) error {
		entries, err := uc.ledger.ledgerRepo.ListByParty(ctx, party.ID, domain.EntryFilter{})
		if err != nil {
			return err
		}
		unpaid := domain.UnpaidInterest(entries)
		if input.Amount.GreaterThan(unpaid) {
			return fmt.Errorf("%w: interest repayment %s exceeds unpaid interest %s by %s",
				domain.ErrExceedsOutstanding, input.Amount, unpaid, input.Amount.Sub(unpaid))
		}

		now := uc.clock.Now()
		date := input.Date
		if date.IsZero() {
			date = now
		}
		narration := input.Narration
		if narration == "" {
			narration = "Interest repayment"
		}
		entry, err = uc.ledger.AppendTx(ctx, tx, AppendInput{
			OrganizationID: organizationID,
			PartyID:        party.ID,
			Type:           domain.TransactionRepayment,
			Amount:         input.Amount,
			Date:           date,
			Narration:      narration,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.observe(entry)
	uc.logger.Info().
		Str("party_id", party.ID).
		Str("amount", input.Amount.String()).
		Msg("interest repaid")

	return &LifecycleResult{Entry: entry}, nil
}

// CloseLoan closes a repaid loan. A loan with outstanding balance is only
// closed when force is set, which writes it off without a ledger entry.
func (uc *LoanUseCase) CloseLoan(ctx context.Context, loanID string, force bool) (*LifecycleResult, error) {
	current, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	var loan *domain.LoanAmount
	var writtenOff decimal.Decimal
	err = uc.ledger.Mutate(ctx, current.PartyID, func(tx Transaction) error {
		var err error
		loan, err = uc.loanRepo.GetByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}
		writtenOff = loan.OutstandingBalance
		if err := loan.Close(force, uc.clock.Now()); err != nil {
			return err
		}
		return uc.loanRepo.Update(ctx, tx, loan)
	})
	if err != nil {
		return nil, err
	}

	if writtenOff.IsPositive() {
		uc.logger.Warn().
			Str("loan_id", loan.ID).
			Str("party_id", loan.PartyID).
			Str("outstanding", writtenOff.String()).
			Msg("loan force-closed with outstanding balance")
	}

	return &LifecycleResult{Loan: loan}, nil
}

// MarkOverdue flags open loans of the organization that are unpaid past the
// due horizon as of asOf, returning the loans that changed.
func (uc *LoanUseCase) MarkOverdue(ctx context.Context, organizationID string, asOf time.Time) ([]*domain.LoanAmount, error) {
	if asOf.IsZero() {
		asOf = uc.clock.Now()
	}
	horizon := uc.settings.For(organizationID).DueHorizonDays

	open, err := uc.loanRepo.ListOpen(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	marked := make([]*domain.LoanAmount, 0)
	for _, candidate := range open {
		preview := *candidate
		if !preview.MarkOverdue(asOf, horizon, asOf) {
			continue
		}

		var loan *domain.LoanAmount
		err := uc.ledger.Mutate(ctx, candidate.PartyID, func(tx Transaction) error {
			var err error
			loan, err = uc.loanRepo.GetByIDForUpdate(ctx, tx, candidate.ID)
			if err != nil {
				return err
			}
			if !loan.MarkOverdue(asOf, horizon, uc.clock.Now()) {
				loan = nil
				return nil
			}
			return uc.loanRepo.Update(ctx, tx, loan)
		})
		if err != nil {
			return marked, fmt.Errorf("mark loan %s overdue: %w", candidate.ID, err)
		}
		if loan != nil {
			marked = append(marked, loan)
		}
	}

	uc.metrics.LoansMarkedOverdue(len(marked))
	uc.logger.Info().
		Str("organization_id", organizationID).
		Str("as_of", domain.FormatDate(asOf)).
		Int("marked", len(marked)).
		Msg("overdue pass complete")

	return marked, nil
}

// GetAdvance retrieves an advance by ID.
func (uc *LoanUseCase) GetAdvance(ctx context.Context, id string) (*domain.Advance, error) {
	return uc.advanceRepo.GetByID(ctx, id)
}

// GetLoan retrieves a loan by ID.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.LoanAmount, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// ListAdvancesByParty lists the advances of a party.
func (uc *LoanUseCase) ListAdvancesByParty(ctx context.Context, partyID string) ([]*domain.Advance, error) {
	return uc.advanceRepo.ListByParty(ctx, partyID)
}

// ListLoansByParty lists the loans of a party.
func (uc *LoanUseCase) ListLoansByParty(ctx context.Context, partyID string) ([]*domain.LoanAmount, error) {
	return uc.loanRepo.ListByParty(ctx, partyID)
}

// LoanLimitFor reports the loan headroom left on a collateral lot.
func (uc *LoanUseCase) LoanLimitFor(ctx context.Context, amadID string, perBagRate *decimal.Decimal) (domain.Limit, error) {
	amad, err := uc.directory.GetAmad(ctx, amadID)
	if err != nil {
		return domain.Limit{}, err
	}
	existing, err := uc.loanRepo.SumOutstandingByAmad(ctx, nil, amadID)
	if err != nil {
		return domain.Limit{}, err
	}
	rate := uc.settings.For(amad.OrganizationID).LoanRate(perBagRate)
	return domain.LoanLimit(amad.PledgeableUnits(), rate, existing), nil
}

// AdvanceLimitFor reports the advance headroom of a party for expectedBags.
func (uc *LoanUseCase) AdvanceLimitFor(ctx context.Context, partyID string, expectedBags decimal.Decimal, perBagRate *decimal.Decimal) (domain.Limit, error) {
	party, err := uc.directory.GetParty(ctx, partyID)
	if err != nil {
		return domain.Limit{}, err
	}
	pending, err := uc.advanceRepo.SumPendingByParty(ctx, partyID)
	if err != nil {
		return domain.Limit{}, err
	}
	rate := uc.settings.For(party.OrganizationID).AdvanceRate(perBagRate)
	return domain.AdvanceLimit(expectedBags, rate, pending), nil
}

// partyAmad loads a collateral lot and checks it belongs to partyID.
func (uc *LoanUseCase) partyAmad(ctx context.Context, amadID, partyID string) (*domain.Amad, error) {
	amad, err := uc.directory.GetAmad(ctx, amadID)
	if err != nil {
		return nil, err
	}
	if amad.PartyID != partyID {
		return nil, fmt.Errorf("%w: amad %s belongs to another party", domain.ErrInvalidTransition, amad.ID)
	}
	return amad, nil
}

func (uc *LoanUseCase) checkLoanLimit(
	ctx context.Context,
	tx Transaction,
	amad *domain.Amad,
	perBagRate decimal.Decimal,
	amount decimal.Decimal,
) (domain.Limit, error) {
	existing, err := uc.loanRepo.SumOutstandingByAmad(ctx, tx, amad.ID)
	if err != nil {
		return domain.Limit{}, err
	}
	limit := domain.LoanLimit(amad.PledgeableUnits(), perBagRate, existing)
	if amad.Status != domain.AmadStatusStored {
		return limit, fmt.Errorf("%w: amad %s is %s", domain.ErrInvalidTransition, amad.ID, amad.Status)
	}
	if err := limit.Check(amount); err != nil {
		return limit, err
	}
	return limit, nil
}

func loanLinks(loan *domain.LoanAmount) domain.EntryLinks {
	amadID := loan.AmadID
	loanID := loan.ID
	return domain.EntryLinks{
		AmadID:       &amadID,
		AdvanceID:    loan.AdvanceID,
		LoanAmountID: &loanID,
	}
}
