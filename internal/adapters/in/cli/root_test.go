package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prunekit/prunekit/internal/domain"
)

// execute runs the root command with args and returns its combined
// output. Fresh commands per call avoid flag state pollution.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// setupBackupTree creates a backup root with tier directories and the
// given dated artifacts in the daily tier.
func setupBackupTree(t *testing.T, dates ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, tier := range domain.TierOrder {
		require.NoError(t, os.Mkdir(filepath.Join(root, string(tier)), 0o755))
	}
	for _, date := range dates {
		name := fmt.Sprintf("%s_test_backup.bak", date)
		require.NoError(t, os.WriteFile(filepath.Join(root, "daily", name), []byte("x"), 0o644))
	}
	return root
}

// chdir changes into dir for the duration of the test, like t.Chdir
// (unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func isolateEnv(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("PRUNEKIT_HISTORY_ENABLED", "false")
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "prune")
	assert.Contains(t, names, "schedule")
	assert.Contains(t, names, "history")
	assert.Contains(t, names, "version")
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-08-23")
	defer SetVersionInfo("dev", "unknown", "unknown")

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "prunekit 1.2.3")
	assert.Contains(t, out, "Commit: abc123")
}

func TestPruneCommand_ConflictingModes(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "prune", t.TempDir(), "bak", "--limit", "5", "--daily", "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflictingModes)
}

func TestPruneCommand_PrunesDailyTier(t *testing.T) {
	isolateEnv(t)
	root := setupBackupTree(t,
		"2018-08-10", "2018-08-11", "2018-08-13", "2018-08-14", "2018-08-15")

	out, err := execute(t, "prune", root, "bak", "--yes",
		"--daily", "2", "--weekly", "0", "--monthly", "0", "--yearly", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 3")

	entries, err := os.ReadDir(filepath.Join(root, "daily"))
	require.NoError(t, err)
	var kept []string
	for _, e := range entries {
		kept = append(kept, e.Name())
	}
	assert.Equal(t, []string{"2018-08-14_test_backup.bak", "2018-08-15_test_backup.bak"}, kept)
}

func TestPruneCommand_DryRunLeavesTreeIntact(t *testing.T) {
	isolateEnv(t)
	root := setupBackupTree(t, "2018-08-10", "2018-08-11", "2018-08-13")

	out, err := execute(t, "prune", root, "bak", "--dry-run",
		"--daily", "1", "--weekly", "0", "--monthly", "0", "--yearly", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "dry-run")

	entries, err := os.ReadDir(filepath.Join(root, "daily"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestPruneCommand_MissingBackupPath(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "prune", filepath.Join(t.TempDir(), "absent"), "bak", "--yes")
	assert.Error(t, err)
}

func TestHistoryCommand_EmptyDatabase(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRUNEKIT_HISTORY_PATH", filepath.Join(t.TempDir(), "history.db"))

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No prune runs recorded yet.")
}

func TestHistoryCommand_ListsRecordedRuns(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRUNEKIT_HISTORY_PATH", filepath.Join(t.TempDir(), "history.db"))
	root := setupBackupTree(t, "2018-08-10", "2018-08-11", "2018-08-13")

	_, err := execute(t, "prune", root, "bak", "--yes",
		"--daily", "1", "--weekly", "0", "--monthly", "0", "--yearly", "0")
	require.NoError(t, err)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "tiered")
	assert.Contains(t, out, root)
}

func TestScheduleCommand_InvalidCronSpec(t *testing.T) {
	isolateEnv(t)
	root := setupBackupTree(t)

	_, err := execute(t, "schedule", root, "bak", "--cron", "not a spec")
	assert.Error(t, err)
}
