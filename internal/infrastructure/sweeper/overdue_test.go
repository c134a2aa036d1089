package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/agroledger/internal/domain"
)

type stubMarker struct {
	mu       sync.Mutex
	calls    []string
	asOf     []time.Time
	loans    map[string][]*domain.LoanAmount
	failures map[string]error
}

func (m *stubMarker) MarkOverdue(ctx context.Context, organizationID string, asOf time.Time) ([]*domain.LoanAmount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, organizationID)
	m.asOf = append(m.asOf, asOf)
	return m.loans[organizationID], m.failures[organizationID]
}

func (m *stubMarker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newTestSweeper(marker OverdueMarker, orgs ...string) *OverdueSweeper {
	s := NewOverdueSweeper(Config{
		Marker:        marker,
		Organizations: orgs,
		Logger:        zerolog.Nop(),
	})
	s.now = func() time.Time { return time.Date(2024, 12, 1, 6, 0, 0, 0, time.UTC) }
	return s
}

func TestSweepMarksEachOrganization(t *testing.T) {
	marker := &stubMarker{
		loans: map[string][]*domain.LoanAmount{
			"org-1": {{ID: "loan-1"}, {ID: "loan-2"}},
			"org-2": {{ID: "loan-3"}},
		},
	}
	s := newTestSweeper(marker, "org-1", "org-2")

	if got := s.sweep(context.Background()); got != 3 {
		t.Fatalf("expected 3 loans marked, got %d", got)
	}
	if len(marker.calls) != 2 || marker.calls[0] != "org-1" || marker.calls[1] != "org-2" {
		t.Fatalf("unexpected calls: %v", marker.calls)
	}
	want := time.Date(2024, 12, 1, 6, 0, 0, 0, time.UTC)
	for _, asOf := range marker.asOf {
		if !asOf.Equal(want) {
			t.Fatalf("expected as-of %v, got %v", want, asOf)
		}
	}
}

func TestSweepContinuesAfterFailure(t *testing.T) {
	marker := &stubMarker{
		loans: map[string][]*domain.LoanAmount{
			"org-1": {{ID: "loan-1"}},
			"org-2": {{ID: "loan-3"}},
		},
		failures: map[string]error{"org-1": errors.New("party busy")},
	}
	s := newTestSweeper(marker, "org-1", "org-2")

	if got := s.sweep(context.Background()); got != 2 {
		t.Fatalf("expected partial results to be counted, got %d", got)
	}
	if len(marker.calls) != 2 {
		t.Fatalf("expected both organizations to be swept, got %v", marker.calls)
	}
}

func TestSweepStopsWhenCancelled(t *testing.T) {
	marker := &stubMarker{}
	s := newTestSweeper(marker, "org-1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.sweep(ctx)
	if len(marker.calls) != 0 {
		t.Fatalf("expected no calls after cancel, got %v", marker.calls)
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	marker := &stubMarker{}
	s := newTestSweeper(marker, "org-1")
	s.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}

	if marker.callCount() < 2 {
		t.Fatalf("expected an immediate sweep plus at least one tick, got %d", marker.callCount())
	}
}
