package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
)

// ReconciliationUseCase replays party ledgers and manages corruption halts.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
	guard      PartyGuard
	logger     zerolog.Logger
	options
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	ledgerRepo LedgerRepository,
	guard PartyGuard,
	logger zerolog.Logger,
	opts ...Option,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledgerRepo: ledgerRepo,
		guard:      guard,
		logger:     logger.With().Str("component", "reconciliation").Logger(),
		options:    buildOptions(opts),
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	PartyID         string
	EntryCount      int
	StoredBalance   decimal.Decimal
	ReplayedBalance decimal.Decimal
	FailedSerial    int64
	IsReconciled    bool
	Halted          bool
	Detail          string
	LastChecked     time.Time
}

// Reconcile replays a party ledger from zero. On the first broken link the
// party is halted and the result is returned together with ErrLedgerCorruption.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, partyID string) (*ReconciliationResult, error) {
	entries, err := uc.ledgerRepo.ListByParty(ctx, partyID, domain.EntryFilter{})
	if err != nil {
		return nil, err
	}

	result := &ReconciliationResult{
		PartyID:         partyID,
		EntryCount:      len(entries),
		StoredBalance:   decimal.Zero,
		ReplayedBalance: decimal.Zero,
		LastChecked:     uc.clock.Now(),
	}
	if len(entries) > 0 {
		result.StoredBalance = entries[len(entries)-1].Balance
	}

	balance, failedSerial, replayErr := domain.Replay(entries)
	if replayErr != nil {
		result.FailedSerial = failedSerial
		result.Detail = replayErr.Error()
		result.Halted = true

		uc.metrics.CorruptionDetected()
		uc.logger.Error().Err(replayErr).
			Str("party_id", partyID).
			Int64("serial_no", failedSerial).
			Msg("reconciliation failed, halting party")

		if err := uc.guard.Halt(context.WithoutCancel(ctx), partyID, replayErr.Error()); err != nil {
			return result, errors.Join(replayErr, err)
		}
		return result, replayErr
	}

	result.ReplayedBalance = balance
	result.IsReconciled = true

	halted, err := uc.guard.IsHalted(ctx, partyID)
	if err != nil {
		return nil, err
	}
	result.Halted = halted

	return result, nil
}

// ReleaseParty lifts a corruption halt once the ledger replays clean.
func (uc *ReconciliationUseCase) ReleaseParty(ctx context.Context, partyID string) (*ReconciliationResult, error) {
	result, err := uc.Reconcile(ctx, partyID)
	if err != nil {
		return result, err
	}

	if err := uc.guard.Release(ctx, partyID); err != nil {
		return nil, err
	}
	result.Halted = false

	uc.logger.Info().Str("party_id", partyID).Msg("party released")
	return result, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	OrganizationID    string
	TotalParties      int
	ReconciledParties int
	Discrepancies     []*ReconciliationResult
	CheckedAt         time.Time
}

// GenerateReconciliationReport reconciles every party of an organization.
// Corrupt parties are collected into Discrepancies rather than aborting the run.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context, organizationID string) (*ReconciliationReport, error) {
	now := uc.clock.Now()
	parties, err := uc.ledgerRepo.ListParties(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		OrganizationID: organizationID,
		TotalParties:   len(parties),
		Discrepancies:  make([]*ReconciliationResult, 0),
		CheckedAt:      now,
	}

	for _, partyID := range parties {
		result, err := uc.Reconcile(ctx, partyID)
		if err != nil && !errors.Is(err, domain.ErrLedgerCorruption) {
			return nil, fmt.Errorf("failed to reconcile party %s: %w", partyID, err)
		}
		if result.IsReconciled {
			report.ReconciledParties++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
