package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger returns a debug-level logger that writes to stderr, ensuring
// all config debug output appears in test output for CI visibility.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

func TestLoad_ValidFullConfig(t *testing.T) {
	tomlContent := `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"
fetch_page_size = 500
commit_batch_crawl = 250
commit_batch_sync = 50
primary_cache_ttl_quick = "24h"
primary_cache_ttl_full = "336h"
duplicate_min_size = 1024
path_max_paths = 3
path_max_depth = 20

[logging]
log_level = "debug"
log_format = "json"

[network]
connect_timeout = "20s"
data_timeout = "90s"
`

	path := writeTestConfig(t, tomlContent)
	cfg, err := Load(path, testLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/driveindex", cfg.DataDir)
	assert.Equal(t, "/var/cache/driveindex", cfg.CacheDir)
	assert.Equal(t, 500, cfg.FetchPageSize)
	assert.Equal(t, 250, cfg.CommitBatchCrawl)
	assert.Equal(t, 50, cfg.CommitBatchSync)
	assert.Equal(t, "24h", cfg.PrimaryCacheTTLQuick)
	assert.Equal(t, "336h", cfg.PrimaryCacheTTLFull)
	assert.Equal(t, int64(1024), cfg.DuplicateMinSize)
	assert.Equal(t, 3, cfg.PathMaxPaths)
	assert.Equal(t, 20, cfg.PathMaxDepth)
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
	assert.Equal(t, "json", cfg.Logging.LogFormat)
	assert.Equal(t, "20s", cfg.Network.ConnectTimeout)
	assert.Equal(t, "90s", cfg.Network.DataTimeout)
}

func TestLoad_MinimalConfig_UsesDefaults(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"
`)
	cfg, err := Load(path, testLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.FetchPageSize)
	assert.Equal(t, "info", cfg.Logging.LogLevel)
	assert.Equal(t, "168h", cfg.PrimaryCacheTTLQuick)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeTestConfig(t, `[logging
not valid toml`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml", testLogger(t))
	require.Error(t, err)
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"
fetch_page_size = 0
`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_UnknownKey_SuggestsClosestMatch(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"
fetch_pagesize = 200
`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "fetch_page_size"`)
}

func TestLoadOrDefault_FileExists(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"

[logging]
log_level = "debug"
`)
	cfg, err := LoadOrDefault(path, testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
}

func TestLoadOrDefault_FileNotFound(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/config.toml", testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.LogLevel)
	assert.Equal(t, 1000, cfg.FetchPageSize)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"

[logging]
log_level = "warn"
`)
	cfg, err := Load(path, testLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.LogLevel)
	assert.Equal(t, 1000, cfg.FetchPageSize)
	assert.Equal(t, 5, cfg.PathMaxPaths)
}
