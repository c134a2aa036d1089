package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
)

// Option customizes a use case.
type Option func(*options)

type options struct {
	clock   Clock
	metrics MetricsRecorder
}

// WithClock overrides the wall clock used for audit timestamps.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithMetrics routes ledger counters to m.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{clock: systemClock{}, metrics: noopMetrics{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LedgerUseCase is the append-only per-party ledger.
type LedgerUseCase struct {
	txManager  TransactionManager
	ledgerRepo LedgerRepository
	guard      PartyGuard
	retrier    Retrier
	idGen      IDGenerator
	logger     zerolog.Logger
	options
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	guard PartyGuard,
	retrier Retrier,
	idGen IDGenerator,
	logger zerolog.Logger,
	opts ...Option,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:  txManager,
		ledgerRepo: ledgerRepo,
		guard:      guard,
		retrier:    retrier,
		idGen:      idGen,
		logger:     logger.With().Str("component", "ledger").Logger(),
		options:    buildOptions(opts),
	}
}

// AppendInput represents input for appending a ledger entry.
type AppendInput struct {
	Date           time.Time
	OrganizationID string
	PartyID        string
	Type           domain.TransactionType
	Narration      string
	Amount         decimal.Decimal
	Links          domain.EntryLinks
}

func (in AppendInput) validate() error {
	if strings.TrimSpace(in.PartyID) == "" {
		return fmt.Errorf("%w: party id is required", domain.ErrPartyNotFound)
	}
	if !in.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTransactionType, in.Type)
	}
	return domain.ValidateAmount(in.Amount)
}

// Append writes one entry to a party ledger. Losing a race for the party is
// retried with backoff before ErrConcurrentModification is surfaced.
func (uc *LedgerUseCase) Append(ctx context.Context, input AppendInput) (*domain.LedgerEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var entry *domain.LedgerEntry
	err := uc.Mutate(ctx, input.PartyID, func(tx Transaction) error {
		var err error
		entry, err = uc.AppendTx(ctx, tx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.observe(entry)
	return entry, nil
}

// Mutate runs fn in a store transaction while holding the party guard. fn is
// re-run from scratch when the attempt loses a race for the party.
func (uc *LedgerUseCase) Mutate(ctx context.Context, partyID string, fn func(tx Transaction) error) error {
	return uc.retrier.Retry(ctx, func() error {
		return uc.mutateOnce(ctx, partyID, fn)
	})
}

func (uc *LedgerUseCase) mutateOnce(ctx context.Context, partyID string, fn func(tx Transaction) error) error {
	halted, err := uc.guard.IsHalted(ctx, partyID)
	if err != nil {
		return err
	}
	if halted {
		return fmt.Errorf("%w: party %s is halted pending reconciliation", domain.ErrLedgerCorruption, partyID)
	}

	release, err := uc.guard.Acquire(ctx, partyID)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			uc.metrics.AppendConflict()
		}
		return err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			uc.metrics.AppendConflict()
		}
		return err
	}

	return tx.Commit(ctx)
}

// AppendTx appends within a caller-owned transaction. The caller must hold the
// party guard, which Mutate does.
func (uc *LedgerUseCase) AppendTx(ctx context.Context, tx Transaction, input AppendInput) (*domain.LedgerEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tail, err := uc.ledgerRepo.Tail(ctx, tx, input.PartyID, tailLength)
	if err != nil {
		return nil, err
	}

	var prev *domain.LedgerEntry
	if len(tail) > 0 {
		prev = tail[0]
		var before *domain.LedgerEntry
		if len(tail) > 1 {
			before = tail[1]
		}
		if err := domain.CheckLink(before, prev); err != nil {
			uc.haltParty(ctx, input.PartyID, err)
			return nil, err
		}
	}

	entry, err := domain.NextEntry(prev, input.Type, input.Amount)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = uc.clock.Now()
	}

	entry.ID = uc.idGen.Generate()
	entry.OrganizationID = input.OrganizationID
	entry.PartyID = input.PartyID
	entry.Date = domain.DateOf(date)
	entry.EntryLinks = input.Links
	entry.Narration = input.Narration
	entry.CreatedAt = uc.clock.Now()

	if err := uc.ledgerRepo.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *LedgerUseCase) observe(entries ...*domain.LedgerEntry) {
	for _, e := range entries {
		if e == nil {
			continue
		}
		uc.metrics.EntryAppended(e.TransactionType, e.Amount())
		uc.logger.Info().
			Str("party_id", e.PartyID).
			Int64("serial_no", e.SerialNo).
			Str("type", string(e.TransactionType)).
			Str("amount", e.Amount().String()).
			Str("balance", e.Balance.String()).
			Msg("ledger entry appended")
	}
}

func (uc *LedgerUseCase) haltParty(ctx context.Context, partyID string, cause error) {
	uc.metrics.CorruptionDetected()
	uc.logger.Error().Err(cause).Str("party_id", partyID).Msg("ledger corruption detected, halting party")

	// The halt must outlive the request that found the corruption.
	if err := uc.guard.Halt(context.WithoutCancel(ctx), partyID, cause.Error()); err != nil {
		uc.logger.Error().Err(err).Str("party_id", partyID).Msg("failed to halt party")
	}
}

// EntriesForInput represents input for listing a party ledger.
type EntriesForInput struct {
	FromDate *time.Time
	ToDate   *time.Time
	PartyID  string
}

// EntriesFor lists a party ledger in serial order, optionally bounded by date.
func (uc *LedgerUseCase) EntriesFor(ctx context.Context, input EntriesForInput) ([]*domain.LedgerEntry, error) {
	if input.FromDate != nil && input.ToDate != nil {
		if err := domain.ValidateDateRange(*input.FromDate, *input.ToDate); err != nil {
			return nil, err
		}
	}

	return uc.ledgerRepo.ListByParty(ctx, input.PartyID, domain.EntryFilter{
		FromDate: input.FromDate,
		ToDate:   input.ToDate,
	})
}

// CurrentBalance returns the balance of the latest entry, zero for an empty ledger.
func (uc *LedgerUseCase) CurrentBalance(ctx context.Context, partyID string) (decimal.Decimal, error) {
	return uc.ledgerRepo.CurrentBalance(ctx, partyID)
}

// Summary folds a party ledger into totals per transaction type.
func (uc *LedgerUseCase) Summary(ctx context.Context, partyID string) (domain.LedgerSummary, error) {
	entries, err := uc.ledgerRepo.ListByParty(ctx, partyID, domain.EntryFilter{})
	if err != nil {
		return domain.LedgerSummary{}, err
	}
	return domain.Summarize(partyID, entries), nil
}
