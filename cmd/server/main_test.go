package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/agroledger/internal/infrastructure/config"
)

const testSeed = `
parties:
  - id: party-1
    organization_id: org-1
    name: Ramesh
amads:
  - id: amad-1
    organization_id: org-1
    party_id: party-1
    total_units: "20"
`

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(testSeed), 0o600))

	t.Setenv("STORE_DRIVER", config.StoreDriverMemory)
	t.Setenv("MEMORY_SEED_FILE", seed)
	t.Setenv("RATE_LIMIT_RPS", "100")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestBuildApp_MemoryStore(t *testing.T) {
	a, err := buildApp(context.Background(), memoryConfig(t), zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.close()

	require.NotNil(t, a.rateLimiter)
	assert.Nil(t, a.sweeper)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := `{"party_id":"party-1","amad_id":"amad-1","date":"2024-04-01","amount":"5000"}`
	resp, err = http.Post(srv.URL+"/api/v1/loans", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/parties/party-1/balance")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var balance struct {
		Balance string `json:"balance"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&balance))
	assert.Equal(t, "5000.00", balance.Balance)
}

func TestBuildApp_OverdueSweeper(t *testing.T) {
	t.Setenv("OVERDUE_SWEEP_INTERVAL", "1h")
	t.Setenv("OVERDUE_SWEEP_ORGANIZATIONS", "org-1,org-2")

	a, err := buildApp(context.Background(), memoryConfig(t), zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.close()

	assert.NotNil(t, a.sweeper)
}

func TestBuildApp_BadSeedFile(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.MemorySeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := buildApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	assert.Error(t, err)
}
