package config

// Default values for configuration options, used both as the starting
// point for TOML decoding (so unset fields retain defaults) and as the
// fallback when no config file exists at all.
const (
	defaultFetchPageSize        = 1000
	defaultCommitBatchCrawl     = 500
	defaultCommitBatchSync      = 100
	defaultPrimaryCacheTTLQuick = "168h" // 7 days
	defaultPrimaryCacheTTLFull  = "720h" // 30 days
	defaultDuplicateMinSize     = 0
	defaultPathMaxPaths         = 5
	defaultPathMaxDepth         = 50
	defaultLogLevel             = "info"
	defaultLogFormat            = "auto"
	defaultConnectTimeout       = "10s"
	defaultDataTimeout          = "60s"
)

// DefaultConfig returns a Config populated with all default values. DataDir
// and CacheDir are left empty; Load fills them from the platform-specific
// defaults (DefaultDataDir, DefaultCacheDir) when the config file omits them.
func DefaultConfig() *Config {
	return &Config{
		FetchPageSize:        defaultFetchPageSize,
		CommitBatchCrawl:     defaultCommitBatchCrawl,
		CommitBatchSync:      defaultCommitBatchSync,
		PrimaryCacheTTLQuick: defaultPrimaryCacheTTLQuick,
		PrimaryCacheTTLFull:  defaultPrimaryCacheTTLFull,
		DuplicateMinSize:     defaultDuplicateMinSize,
		PathMaxPaths:         defaultPathMaxPaths,
		PathMaxDepth:         defaultPathMaxDepth,
		Logging: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
		Network: NetworkConfig{
			ConnectTimeout: defaultConnectTimeout,
			DataTimeout:    defaultDataTimeout,
		},
	}
}
