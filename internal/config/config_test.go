package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "out", cfg.Paths.OutputDir)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, 5, cfg.Analysis.EventHalfWidth)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SZN_PATHS_DATA_DIR", "/srv/bars")
	t.Setenv("SZN_ANALYSIS_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/bars", cfg.Paths.DataDir)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, "/srv/bars", cfg.GetDataDir())
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("paths:\n  data_dir: imports\nanalysis:\n  workers: 2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "imports", cfg.Paths.DataDir)
	assert.Equal(t, 2, cfg.Analysis.Workers)
}

func TestLoadYAMLCoversEveryField(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("logging:\n  format: text\n  level: debug\n" +
		"analysis:\n  risk_free_rate: 0.25\n  cache_size: 16\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 0.25, cfg.Analysis.RiskFreeRate)
	assert.Equal(t, 16, cfg.Analysis.CacheSize)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, 4, cfg.Analysis.Workers)
}

func TestLoadEnvWinsOverYAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("paths:\n  data_dir: imports\nanalysis:\n  workers: 2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("SZN_ANALYSIS_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	// The untouched file value survives the env pass.
	assert.Equal(t, "imports", cfg.Paths.DataDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SZN_ANALYSIS_EVENT_HALF_WIDTH", "100")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "half-width")
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg := Default()
	require.NoError(t, cfg.EnsureDirectories())

	for _, sub := range []string{"out", "logs"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestResolveKeepsAbsolutePaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.OutputDir = "/var/tmp/szn"
	assert.Equal(t, "/var/tmp/szn", cfg.GetOutputDir())
}
