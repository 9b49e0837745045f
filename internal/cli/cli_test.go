package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/config"
	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/upload"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	streams := IOStreams{In: strings.NewReader(""), Out: &out, ErrOut: &errOut}
	code := Execute(context.Background(), BuildInfo{Version: "1.2.3", Commit: "abc123"}, streams, args)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// fastConfig writes a config whose pipeline settles within milliseconds.
func fastConfig(t *testing.T) string {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Pipeline.TickMillis = 1
	cfg.Pipeline.ProgressStep = 50
	cfg.Pipeline.ProcessingMillis = 1
	cfg.Advanced.LogLevel = "error"

	path := filepath.Join(t.TempDir(), "config.xml")
	require.NoError(t, cfg.Save(path))
	return path
}

func designFile(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "text", args: []string{"version"}, want: "quotectl version 1.2.3\ncommit: abc123\nbuild_date: unknown\n"},
		{name: "json", args: []string{"--json", "version"}, want: `{"buildDate":"unknown","commit":"abc123","version":"1.2.3"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			require.Equal(t, ExitSuccess, res.code, res.stderr)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	tests := map[string][]string{
		"unknown command":    {"frobnicate"},
		"unknown flag":       {"version", "--nope"},
		"missing upload arg": {"upload"},
		"missing file":       {"upload", filepath.Join(os.TempDir(), "does-not-exist-a2.pdf")},
		"invalid code":       {"budget", "12"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			res := runCLI(t, args...)
			assert.Equal(t, ExitInvalidUsage, res.code)
			assert.Contains(t, res.stderr, "ERROR:")
		})
	}
}

func TestMapExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, mapExitCode(nil))
	assert.Equal(t, 7, mapExitCode(withExitCode(7, assert.AnError)))
	assert.Equal(t, ExitFailure, mapExitCode(assert.AnError))
	assert.Nil(t, withExitCode(3, nil))
}

func TestUploadJSON(t *testing.T) {
	cfg := fastConfig(t)
	file := designFile(t, "NGMR-12345_A2.pdf")

	res := runCLI(t, "--config", cfg, "--json", "upload", file)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var st upload.State
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &st))
	assert.Equal(t, models.UploadStatusSuccess, st.Session.Status)
	assert.Equal(t, 100, st.Session.Progress)
	assert.Equal(t, "NGMR-12345_A2.pdf", st.Session.FileName)
	require.Len(t, st.Items, 5)
	assert.Equal(t, "Place/Splice", st.Items[0].Name)
}

func TestUploadPlain(t *testing.T) {
	cfg := fastConfig(t)
	file := designFile(t, "splitter-layout.pdf")

	res := runCLI(t, "--config", cfg, "upload", "--plain", file)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	assert.Contains(t, res.stdout, "extracted 2 items")
	assert.Contains(t, res.stdout, "Splitters")
	assert.Contains(t, res.stdout, "5250.00")
}

func TestUploadRejectsNonPDF(t *testing.T) {
	cfg := fastConfig(t)
	file := designFile(t, "layout.dwg")

	res := runCLI(t, "--config", cfg, "upload", file)
	assert.Equal(t, ExitInvalidUsage, res.code)
	assert.Contains(t, res.stderr, "please upload a PDF file")
}

func TestCatalog(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "list",
			args:     []string{"catalog"},
			contains: []string{"rule 1: ngmr-12345, a2 (5 items)", "rule 2: a1, splitter (2 items)", "fallback (2 items)", "Cable installation"},
		},
		{
			name:     "match",
			args:     []string{"catalog", "--match", "tower-a1.pdf"},
			contains: []string{"Splitters", "New splice", "5250.00"},
		},
		{
			name:     "match fallback",
			args:     []string{"catalog", "--match", "unknown.pdf"},
			contains: []string{"GPON design", "3000.00"},
		},
		{
			name:     "export",
			args:     []string{"catalog", "--export"},
			contains: []string{"rules:", "fallback:", "unit_cost:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			require.Equal(t, ExitSuccess, res.code, res.stderr)
			for _, s := range tt.contains {
				assert.Contains(t, res.stdout, s)
			}
		})
	}
}

func TestCatalogJSON(t *testing.T) {
	res := runCLI(t, "--json", "catalog")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var doc catalogJSON
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	require.Len(t, doc.Rules, 2)
	assert.Equal(t, []string{"ngmr-12345", "a2"}, doc.Rules[0].Keys)
	assert.Equal(t, "6480", doc.Rules[0].Items[0].TotalCost.String())
	assert.Len(t, doc.Fallback, 2)
}

func TestBudget(t *testing.T) {
	res := runCLI(t, "budget", "NGMR-4847")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	for _, s := range []string{"NGMR-4847 (4 units)", "5000.00  over budget", "6000.00", "5600.00", "HTI", "12000.00"} {
		assert.Contains(t, res.stdout, s)
	}
}

func TestBudgetJSON(t *testing.T) {
	res := runCLI(t, "--json", "budget", "4847")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var got struct {
		Code         string `json:"ngmrCode"`
		OverBudget   bool   `json:"overBudget"`
		VendorTotals []struct {
			Vendor string `json:"vendor"`
		} `json:"vendorTotals"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "4847", got.Code)
	assert.True(t, got.OverBudget)
	require.Len(t, got.VendorTotals, 4)
	assert.Equal(t, "HTI", got.VendorTotals[0].Vendor)
}

func TestBudgetUnknownCode(t *testing.T) {
	res := runCLI(t, "budget", "9999")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "not found")
}
