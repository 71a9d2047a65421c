package config

import (
	"errors"
	"fmt"
	"time"
)

// Validation range constants.
const (
	minFetchPageSize   = 1
	maxFetchPageSize   = 1000
	minCommitBatch     = 1
	minPrimaryCacheTTL = time.Minute
	minConnectTimeout  = 1 * time.Second
	minDataTimeout     = 5 * time.Second
	minPathMaxPaths    = 1
	minPathMaxDepth    = 1
)

// Validate checks all configuration values and returns all errors found. It
// accumulates every error rather than stopping at the first, so users see a
// complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.DataDir == "" {
		errs = append(errs, errors.New("data_dir: must not be empty"))
	}

	if cfg.CacheDir == "" {
		errs = append(errs, errors.New("cache_dir: must not be empty"))
	}

	if cfg.FetchPageSize < minFetchPageSize || cfg.FetchPageSize > maxFetchPageSize {
		errs = append(errs, fmt.Errorf("fetch_page_size: must be between %d and %d, got %d",
			minFetchPageSize, maxFetchPageSize, cfg.FetchPageSize))
	}

	if cfg.CommitBatchCrawl < minCommitBatch {
		errs = append(errs, fmt.Errorf("commit_batch_crawl: must be >= %d, got %d", minCommitBatch, cfg.CommitBatchCrawl))
	}

	if cfg.CommitBatchSync < minCommitBatch {
		errs = append(errs, fmt.Errorf("commit_batch_sync: must be >= %d, got %d", minCommitBatch, cfg.CommitBatchSync))
	}

	errs = append(errs, validateDurationMin("primary_cache_ttl_quick", cfg.PrimaryCacheTTLQuick, minPrimaryCacheTTL)...)
	errs = append(errs, validateDurationMin("primary_cache_ttl_full", cfg.PrimaryCacheTTLFull, minPrimaryCacheTTL)...)

	if cfg.DuplicateMinSize < 0 {
		errs = append(errs, fmt.Errorf("duplicate_min_size: must be >= 0, got %d", cfg.DuplicateMinSize))
	}

	if cfg.PathMaxPaths < minPathMaxPaths {
		errs = append(errs, fmt.Errorf("path_max_paths: must be >= %d, got %d", minPathMaxPaths, cfg.PathMaxPaths))
	}

	if cfg.PathMaxDepth < minPathMaxDepth {
		errs = append(errs, fmt.Errorf("path_max_depth: must be >= %d, got %d", minPathMaxDepth, cfg.PathMaxDepth))
	}

	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateNetwork(&cfg.Network)...)

	return errors.Join(errs...)
}

// validateDuration checks that a duration string is valid and meets a
// minimum.
func validateDuration(field, value string, minimum time.Duration) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, value, err)
	}

	if d < minimum {
		return fmt.Errorf("%s: must be >= %s, got %s", field, minimum, d)
	}

	return nil
}

func validateDurationMin(field, value string, minimum time.Duration) []error {
	if err := validateDuration(field, value, minimum); err != nil {
		return []error{err}
	}

	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	if !validLogLevels[l.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level: must be one of debug, info, warn, error; got %q", l.LogLevel))
	}

	if !validLogFormats[l.LogFormat] {
		errs = append(errs, fmt.Errorf("log_format: must be one of auto, text, json; got %q", l.LogFormat))
	}

	return errs
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

func validateNetwork(n *NetworkConfig) []error {
	var errs []error

	errs = append(errs, validateDurationMin("connect_timeout", n.ConnectTimeout, minConnectTimeout)...)
	errs = append(errs, validateDurationMin("data_timeout", n.DataTimeout, minDataTimeout)...)

	return errs
}
