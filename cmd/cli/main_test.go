package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	c := &apiClient{out: &out}
	require.NoError(t, c.printJSON(struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}

func TestReconcileCmd_PrintsHaltedMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/parties/party-1/reconcile", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"party_id":"party-1","entry_count":3,"stored_balance":"900.00","replayed_balance":"1000.00","failed_serial":2,"is_reconciled":false,"halted":true,"detail":"balance mismatch"}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "ledger", "reconcile", "party-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, out, "MISMATCH (halted)")
	assert.Contains(t, out, "serial 2: balance mismatch")
}

func TestReleaseCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/parties/party-9/release", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "ledger", "release", "party-9")
	require.NoError(t, err)
	assert.Equal(t, "Released party-9\n", out)
}

func TestReportCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "org-1", r.URL.Query().Get("organization_id"))
		io.WriteString(w, `{"organization_id":"org-1","total_parties":4,"reconciled_parties":3,"discrepancies":[{"party_id":"party-2","is_reconciled":false}]}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "ledger", "report", "--org", "org-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Reconciled: 3/4")
	assert.Contains(t, out, "party-2")
}

func TestReportCmd_RequiresOrg(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := runCLI(t, srv, "ledger", "report")
	assert.Error(t, err)
}

func TestInterestPostCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/interest/post", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "org-1", req["organization_id"])
		assert.Equal(t, "2", req["rate"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"party_id":"party-1","debit_amount":"2000.00"},{"party_id":"party-2","debit_amount":"1200.00"}]`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "interest", "post", "--org", "org-1", "--from", "2024-04-01", "--to", "2024-04-30", "--rate", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Posted 2 interest entries")
	assert.Contains(t, out, "1200.00")
}

func TestInterestChartCmd_WritesWorkbook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "xlsx", r.URL.Query().Get("format"))
		w.Write([]byte("PK-workbook"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "chart.xlsx")
	out, err := runCLI(t, srv, "interest", "chart", "--org", "org-1", "--from", "2024-04-01", "--to", "2024-04-30", "--rate", "2", "--xlsx", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Wrote "))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK-workbook", string(data))
}

func TestMarkOverdueCmd_SurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid request","message":"organization_id is required"}`)
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "loans", "mark-overdue", "--org", "org-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "organization_id is required")
}

func TestMarkOverdueCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"loan-1","party_id":"party-1","outstanding_balance":"5000.00"}]`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "loans", "mark-overdue", "--org", "org-1", "--as-of", "2024-12-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked 1 loans overdue")
	assert.Contains(t, out, "loan-1")
}
