// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for driveindex.
package config

// Config is the top-level configuration structure. A deployment indexes
// exactly one Drive account, so there is no profile/drive-section concept:
// every recognized option lives at the top level or in one of the two small
// ambient sub-sections (Logging, Network).
type Config struct {
	DataDir  string `toml:"data_dir"`
	CacheDir string `toml:"cache_dir"`

	FetchPageSize    int `toml:"fetch_page_size"`
	CommitBatchCrawl int `toml:"commit_batch_crawl"`
	CommitBatchSync  int `toml:"commit_batch_sync"`

	// TOML duration strings parsed with time.ParseDuration (e.g. "168h" for
	// 7 days); there is no native "d" unit, so config files spell out hours.
	PrimaryCacheTTLQuick string `toml:"primary_cache_ttl_quick"`
	PrimaryCacheTTLFull  string `toml:"primary_cache_ttl_full"`

	DuplicateMinSize int64 `toml:"duplicate_min_size"`

	PathMaxPaths int `toml:"path_max_paths"`
	PathMaxDepth int `toml:"path_max_depth"`

	Logging LoggingConfig `toml:"logging"`
	Network NetworkConfig `toml:"network"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// NetworkConfig controls the Drive API HTTP client's timeouts.
type NetworkConfig struct {
	ConnectTimeout string `toml:"connect_timeout"`
	DataTimeout    string `toml:"data_timeout"`
}
