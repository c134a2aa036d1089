package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/agroledger/internal/domain"
)

// OverdueMarker flags an organization's open loans that are past due.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, organizationID string, asOf time.Time) ([]*domain.LoanAmount, error)
}

// Config for OverdueSweeper.
type Config struct {
	Marker        OverdueMarker
	Organizations []string
	Logger        zerolog.Logger
	Interval      time.Duration // Polling interval
}

// OverdueSweeper periodically marks overdue loans for a fixed set of organizations.
type OverdueSweeper struct {
	marker        OverdueMarker
	organizations []string
	logger        zerolog.Logger
	interval      time.Duration
	now           func() time.Time
}

// NewOverdueSweeper creates a new OverdueSweeper.
func NewOverdueSweeper(cfg Config) *OverdueSweeper {
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}

	return &OverdueSweeper{
		marker:        cfg.Marker,
		organizations: cfg.Organizations,
		logger:        cfg.Logger.With().Str("component", "overdue_sweeper").Logger(),
		interval:      cfg.Interval,
		now:           time.Now,
	}
}

// Start runs a sweep immediately and then once per interval until ctx is cancelled.
func (s *OverdueSweeper) Start(ctx context.Context) error {
	s.logger.Info().
		Strs("organizations", s.organizations).
		Dur("interval", s.interval).
		Msg("overdue sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("overdue sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one pass; a failing organization does not stop the others.
func (s *OverdueSweeper) sweep(ctx context.Context) int {
	asOf := s.now()
	total := 0

	for _, orgID := range s.organizations {
		if ctx.Err() != nil {
			return total
		}

		loans, err := s.marker.MarkOverdue(ctx, orgID, asOf)
		total += len(loans)
		if err != nil {
			s.logger.Error().Err(err).
				Str("organization_id", orgID).
				Int("marked", len(loans)).
				Msg("overdue sweep failed")
			continue
		}

		if len(loans) > 0 {
			s.logger.Info().
				Str("organization_id", orgID).
				Int("marked", len(loans)).
				Msg("loans marked overdue")
		}
	}

	return total
}
