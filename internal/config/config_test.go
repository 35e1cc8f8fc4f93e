package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, like t.Chdir
// (unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Retention.Daily)
	assert.Equal(t, 6, cfg.Retention.Weekly)
	assert.Equal(t, 6, cfg.Retention.Monthly)
	assert.Equal(t, 6, cfg.Retention.Yearly)
	assert.True(t, cfg.History.Enabled)
	assert.NotEmpty(t, cfg.History.Path)
	assert.Equal(t, 10, cfg.Logging.MaxSize)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "prunekit.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
[retention]
daily = 30
weekly = 0

[history]
enabled = false

[logging]
file = "prune.log"
`), 0o644))

	cfg, err := Load(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Retention.Daily)
	assert.Equal(t, 0, cfg.Retention.Weekly)
	assert.Equal(t, 6, cfg.Retention.Monthly, "unset values keep defaults")
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "prune.log", cfg.Logging.File)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_NegativeCapacityRejected(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "prunekit.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
[retention]
daily = -1
`), 0o644))

	_, err := Load(cfgFile)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRUNEKIT_RETENTION_DAILY", "21")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 21, cfg.Retention.Daily)
}
