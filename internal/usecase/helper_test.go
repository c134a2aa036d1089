package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/adapter/repository/memory"
	"github.com/iho/agroledger/internal/domain"
	"github.com/iho/agroledger/internal/usecase"
)

var (
	apr1  = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	may1  = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	may31 = time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type seqIDs struct {
	n atomic.Int64
}

func (g *seqIDs) Generate() string {
	return fmt.Sprintf("id-%04d", g.n.Add(1))
}

// conflictRetrier retries lost races a bounded number of times without backoff.
type conflictRetrier struct {
	attempts int
}

func (r conflictRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i <= r.attempts; i++ {
		if err = operation(); !errors.Is(err, domain.ErrConcurrentModification) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		time.Sleep(time.Millisecond)
	}
	return err
}

type staticSettings struct {
	settings domain.LendingSettings
}

func (s staticSettings) For(string) domain.LendingSettings { return s.settings }

var testSettings = domain.LendingSettings{
	AdvancePerBagRate:   decimal.NewFromInt(300),
	LoanPerBagRate:      decimal.NewFromInt(500),
	DefaultRatePerMonth: decimal.NewFromInt(2),
	DueHorizonDays:      30,
}

type fixture struct {
	store    *memory.Store
	guard    *memory.PartyGuard
	clock    *fixedClock
	ledger   *usecase.LedgerUseCase
	loans    *usecase.LoanUseCase
	interest *usecase.InterestUseCase
	recon    *usecase.ReconciliationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	guard := memory.NewPartyGuard()
	clock := &fixedClock{now: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)}
	ids := &seqIDs{}
	logger := zerolog.Nop()
	ledgerRepo := memory.NewLedgerRepository(store)
	directory := memory.NewPartyDirectory(store)

	ledger := usecase.NewLedgerUseCase(
		memory.NewTxManager(store), ledgerRepo, guard, conflictRetrier{attempts: 50}, ids, logger,
		usecase.WithClock(clock),
	)

	store.SeedParty(domain.Party{ID: "party-1", OrganizationID: "org-1", Name: "Ramesh", Village: "Kheda"})
	store.SeedParty(domain.Party{ID: "party-2", OrganizationID: "org-1", Name: "Suresh", Village: "Anand"})
	store.SeedAmad(domain.Amad{
		ID: "amad-1", OrganizationID: "org-1", PartyID: "party-1",
		TotalUnits: decimal.NewFromInt(20), Status: domain.AmadStatusStored,
	})
	store.SeedAmad(domain.Amad{
		ID: "amad-2", OrganizationID: "org-1", PartyID: "party-2",
		TotalUnits: decimal.NewFromInt(100), Status: domain.AmadStatusStored,
	})

	return &fixture{
		store:  store,
		guard:  guard,
		clock:  clock,
		ledger: ledger,
		loans: usecase.NewLoanUseCase(
			ledger, memory.NewAdvanceRepository(store), memory.NewLoanRepository(store),
			directory, staticSettings{settings: testSettings}, ids, logger, usecase.WithClock(clock),
		),
		interest: usecase.NewInterestUseCase(
			ledger, ledgerRepo, memory.NewInterestPostingRepository(store),
			directory, ids, 4, logger, usecase.WithClock(clock),
		),
		recon: usecase.NewReconciliationUseCase(ledgerRepo, guard, logger, usecase.WithClock(clock)),
	}
}

func (f *fixture) append(t *testing.T, partyID string, date time.Time, txType domain.TransactionType, amount int64) *domain.LedgerEntry {
	t.Helper()

	entry, err := f.ledger.Append(context.Background(), usecase.AppendInput{
		Date:           date,
		OrganizationID: "org-1",
		PartyID:        partyID,
		Type:           txType,
		Amount:         decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("append %s %d: %v", txType, amount, err)
	}
	return entry
}

func (f *fixture) balance(t *testing.T, partyID string) decimal.Decimal {
	t.Helper()

	b, err := f.ledger.CurrentBalance(context.Background(), partyID)
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}
	return b
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func memoryTxManager(f *fixture) *memory.TxManager {
	return memory.NewTxManager(f.store)
}

func memoryLedgerRepo(f *fixture) *memory.LedgerRepository {
	return memory.NewLedgerRepository(f.store)
}
