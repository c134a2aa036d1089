package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
)

// LedgerRepository defines data access for party ledgers.
type LedgerRepository interface {
	// Insert stores a fully built entry. It must fail with domain.ErrConcurrentModification
	// when (party_id, serial_no) is already taken.
	Insert(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	// Tail returns up to n most recent entries of a party, newest first.
	Tail(ctx context.Context, tx Transaction, partyID string, n int) ([]*domain.LedgerEntry, error)
	ListByParty(ctx context.Context, partyID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	CurrentBalance(ctx context.Context, partyID string) (decimal.Decimal, error)
	// ListParties returns every party of an organization with any entry.
	ListParties(ctx context.Context, organizationID string) ([]string, error)
	// ListActiveParties returns parties of an organization with any entry dated on or before upTo.
	ListActiveParties(ctx context.Context, organizationID string, upTo time.Time) ([]string, error)
}

// AdvanceRepository defines data access for advances.
type AdvanceRepository interface {
	Create(ctx context.Context, tx Transaction, advance *domain.Advance) error
	GetByID(ctx context.Context, id string) (*domain.Advance, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Advance, error)
	Update(ctx context.Context, tx Transaction, advance *domain.Advance) error
	ListByParty(ctx context.Context, partyID string) ([]*domain.Advance, error)
	SumPendingByParty(ctx context.Context, partyID string) (decimal.Decimal, error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.LoanAmount) error
	GetByID(ctx context.Context, id string) (*domain.LoanAmount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LoanAmount, error)
	Update(ctx context.Context, tx Transaction, loan *domain.LoanAmount) error
	ListByParty(ctx context.Context, partyID string) ([]*domain.LoanAmount, error)
	ListOpen(ctx context.Context, organizationID string) ([]*domain.LoanAmount, error)
	// SumOutstandingByAmad totals open loans against a collateral lot. tx may be nil.
	SumOutstandingByAmad(ctx context.Context, tx Transaction, amadID string) (decimal.Decimal, error)
}

// InterestPostingRepository records which periods have been posted per party.
type InterestPostingRepository interface {
	Create(ctx context.Context, tx Transaction, posting *domain.InterestPosting) error
	ListByParty(ctx context.Context, tx Transaction, partyID string) ([]*domain.InterestPosting, error)
}

// SettingsProvider resolves the lending settings of an organization.
type SettingsProvider interface {
	For(organizationID string) domain.LendingSettings
}

// PartyDirectory is the read-only view of external party and collateral master data.
type PartyDirectory interface {
	GetParty(ctx context.Context, id string) (*domain.Party, error)
	GetAmad(ctx context.Context, id string) (*domain.Amad, error)
}

// PartyGuard serializes appends per party and tracks parties halted for corruption.
type PartyGuard interface {
	// Acquire returns domain.ErrConcurrentModification when the party is already held.
	Acquire(ctx context.Context, partyID string) (release func(), err error)
	Halt(ctx context.Context, partyID, reason string) error
	IsHalted(ctx context.Context, partyID string) (bool, error)
	Release(ctx context.Context, partyID string) error
}

// Retrier retries operations that lost a race.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the key can be used again.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives ledger-level counters.
type MetricsRecorder interface {
	EntryAppended(txType domain.TransactionType, amount decimal.Decimal)
	AppendConflict()
	CorruptionDetected()
	InterestPosted(amount decimal.Decimal)
	LoansMarkedOverdue(n int)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type noopMetrics struct{}

func (noopMetrics) EntryAppended(domain.TransactionType, decimal.Decimal) {}
func (noopMetrics) AppendConflict()                                       {}
func (noopMetrics) CorruptionDetected()                                   {}
func (noopMetrics) InterestPosted(decimal.Decimal)                        {}
func (noopMetrics) LoansMarkedOverdue(int)                                {}
