package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

type cliTestEnv struct {
	baseDir      string
	databasePath string
	mapPath      string
	reportPath   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:      base,
		databasePath: filepath.Join(base, "records.db"),
		mapPath:      filepath.Join(base, "index.html"),
		reportPath:   filepath.Join(base, "report.csv"),
	}

	t.Setenv("DATABASE_PATH", env.databasePath)
	t.Setenv("OUTPUT_MAP_PATH", env.mapPath)
	t.Setenv("REPORT_PATH", env.reportPath)
	t.Setenv("LOG_LEVEL", "error")

	return env
}

func (e *cliTestEnv) seed(t *testing.T, records ...domain.AnimalRecord) {
	t.Helper()

	st, err := store.Open(e.databasePath)
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Merge(context.Background(), records)
	require.NoError(t, err)
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func testRecord(id string, pregnant bool) domain.AnimalRecord {
	return domain.AnimalRecord{
		ID:           id,
		LocationText: "9.731, 99.990",
		LocationArea: "Srithanu",
		Coordinate:   domain.Coordinate{Lat: 9.731, Lng: 99.990},
		Resolved:     true,
		Species:      domain.SpeciesDog,
		AnimalCount:  1,
		Sex:          domain.SexFemale,
		Temperament:  domain.TemperamentFriendly,
		Pregnant:     pregnant,
		Contact:      "Mai, +66 89 111 2222",
		Status:       domain.StatusPending,
		FirstSeenAt:  time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		LastSyncedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestListEmpty(t *testing.T) {
	setupCLITestEnv(t)

	out, err := runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no records")
}

func TestListPriorityOrder(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, testRecord("plain001", false), testRecord("urgent01", true))

	out, err := runCommand(t, "list", "--priority")
	require.NoError(t, err)

	urgentIdx := strings.Index(out, "urgent01")
	plainIdx := strings.Index(out, "plain001")
	require.GreaterOrEqual(t, urgentIdx, 0)
	require.GreaterOrEqual(t, plainIdx, 0)
	assert.Less(t, urgentIdx, plainIdx, "pregnant record ranks first")
}

func TestListRejectsUnknownStatus(t *testing.T) {
	setupCLITestEnv(t)

	_, err := runCommand(t, "list", "--status", "archived")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestCompleteAndReopen(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, testRecord("abc12345", false))

	out, err := runCommand(t, "complete", "abc12345", "missing1")
	require.NoError(t, err)
	assert.Contains(t, out, "applied: abc12345")
	assert.Contains(t, out, "not found: missing1")

	out, err = runCommand(t, "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "abc12345")

	out, err = runCommand(t, "reopen", "abc12345")
	require.NoError(t, err)
	assert.Contains(t, out, "applied: abc12345")
}

func TestStats(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, testRecord("abc12345", true))

	out, err := runCommand(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "Pregnant")
}

func TestGenerateWritesMap(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, testRecord("abc12345", false))

	out, err := runCommand(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, env.mapPath)

	page, err := os.ReadFile(env.mapPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "abc12345")
}

func TestReportWritesCSV(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, testRecord("abc12345", false))

	out, err := runCommand(t, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "1 records")

	data, err := os.ReadFile(env.reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "abc12345")
}
