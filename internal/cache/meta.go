package cache

import "time"

// PrimaryMeta is the sidecar metadata for a primary snapshot cache
// (quick_scan or full_scan): when it was written, the schema version of the
// payload, and the file count at the time of writing.
type PrimaryMeta struct {
	Timestamp    time.Time `json:"timestamp"`
	CacheVersion int       `json:"cache_version"`
	FileCount    int       `json:"file_count"`
}

// DerivedMeta is the sidecar metadata for the derived analytics cache. It
// pins the cache to the exact primary snapshot it was computed from rather
// than carrying its own TTL.
type DerivedMeta struct {
	Timestamp            time.Time `json:"timestamp"`
	DerivedVersion       int       `json:"derived_version"`
	SourceCacheTimestamp time.Time `json:"source_cache_timestamp"`
	SourceCacheVersion   int       `json:"source_cache_version"`
	SourceFileCount      *int      `json:"source_file_count,omitempty"`
}

// MatchesSource reports whether this derived cache is still valid against
// the given primary snapshot's metadata: exact timestamp and cache-version
// match, and a file-count match whenever the derived cache recorded one.
// Never consults a TTL — identity with the source is the only rule.
func (d DerivedMeta) MatchesSource(primary PrimaryMeta) bool {
	if !d.SourceCacheTimestamp.Equal(primary.Timestamp) {
		return false
	}

	if d.SourceCacheVersion != primary.CacheVersion {
		return false
	}

	return d.SourceFileCount == nil || *d.SourceFileCount == primary.FileCount
}
