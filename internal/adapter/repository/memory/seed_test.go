package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/agroledger/internal/domain"
)

const seedYAML = `
parties:
  - id: party-1
    organization_id: org-1
    name: Ramesh
    village: Kheda
amads:
  - id: amad-1
    organization_id: org-1
    party_id: party-1
    total_units: "20"
`

func TestLoadSeed(t *testing.T) {
	store := New()
	require.NoError(t, store.LoadSeed([]byte(seedYAML)))

	dir := NewPartyDirectory(store)
	party, err := dir.GetParty(context.Background(), "party-1")
	require.NoError(t, err)
	assert.Equal(t, "Kheda", party.Village)

	amad, err := dir.GetAmad(context.Background(), "amad-1")
	require.NoError(t, err)
	assert.True(t, amad.TotalUnits.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, domain.AmadStatusStored, amad.Status)
}

func TestLoadSeed_RejectsBadUnits(t *testing.T) {
	err := New().LoadSeed([]byte("amads:\n  - id: a\n    total_units: lots\n"))
	assert.Error(t, err)
}

func TestLoadSeedFile_Missing(t *testing.T) {
	assert.Error(t, New().LoadSeedFile("/nonexistent/seed.yaml"))
}

func TestIdempotencyStore(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s := NewIdempotencyStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	exists, _, err := s.CheckAndSet(ctx, "k", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, value, err := s.CheckAndSet(ctx, "k", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, processingMarker, string(value))

	require.NoError(t, s.Update(ctx, "k", []byte(`{"ok":true}`), time.Minute))
	_, value, _ = s.CheckAndSet(ctx, "k", nil, time.Minute)
	assert.Equal(t, `{"ok":true}`, string(value))

	now = now.Add(2 * time.Minute)
	exists, _, err = s.CheckAndSet(ctx, "k", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists, "expired claim should be reusable")

	require.NoError(t, s.Release(ctx, "k"))
	exists, _, err = s.CheckAndSet(ctx, "k", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists, "released claim should be reusable")
}
