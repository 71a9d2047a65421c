package config

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_UnknownKey_TopLevel(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"
unknown_section = "value"
`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestLoad_UnknownKey_TypoInFlatKey(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"
path_max_path = 3
`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
	assert.Contains(t, err.Error(), "path_max_paths")
}

func TestLoad_UnknownKey_NoSuggestion(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"
completely_unrelated_key = true
`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestLoad_UnknownKey_InNestedSection(t *testing.T) {
	path := writeTestConfig(t, `
data_dir = "/var/lib/driveindex"
cache_dir = "/var/cache/driveindex"

[logging]
log_leve = "debug"
`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "log_level")
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"fetch_pagesize", "fetch_page_size", 1},
		{"completely_different", "xyz", 19},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshtein(tt.a, tt.b))
		})
	}
}

func TestClosestMatch_Found(t *testing.T) {
	known := []string{"data_dir", "cache_dir", "duplicate_min_size"}
	assert.Equal(t, "data_dir", closestMatch("data_di", known))
	assert.Equal(t, "cache_dir", closestMatch("cache_di", known))
}

func TestClosestMatch_NotFound(t *testing.T) {
	known := []string{"data_dir", "cache_dir"}
	assert.Equal(t, "", closestMatch("completely_unrelated", known))
}

func TestBuildGlobalKeyError_KnownKey(t *testing.T) {
	err := buildGlobalKeyError("logging.log_level")
	assert.Nil(t, err)
}

func TestBuildGlobalKeyError_UnknownKey(t *testing.T) {
	err := buildGlobalKeyError("nonexistent_section")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestKnownGlobalKeysList_Sorted(t *testing.T) {
	assert.True(t, sort.StringsAreSorted(knownGlobalKeysList),
		"knownGlobalKeysList must be sorted")
}
