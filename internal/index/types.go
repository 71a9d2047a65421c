// Package index holds the durable local index of a remote cloud file
// store: file records, the parent/child containment DAG, a sync-state
// key/value table, and an append-only error log. It is the only package
// that issues SQL.
package index

// FolderMimeType is the sentinel MIME type identifying a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// ShortcutMimeType is the sentinel MIME type identifying a shortcut.
const ShortcutMimeType = "application/vnd.google-apps.shortcut"

// FileRecord is one row of the files table: normalized columns plus the
// original payload retained verbatim for forward compatibility.
type FileRecord struct {
	ID           string
	Name         string
	MimeType     string
	Trashed      bool
	CreatedTime  string
	ModifiedTime string
	Size         *int64
	MD5          string
	OwnedByMe    bool
	Starred      bool
	WebViewLink  string
	IconLink     string

	// OwnersJSON and CapabilitiesJSON retain opaque structured data as-is;
	// nothing downstream parses their shape.
	OwnersJSON       string
	CapabilitiesJSON string

	IsShortcut             bool
	ShortcutTargetID       string
	ShortcutTargetMimeType string

	RawJSON string
	Removed bool

	// Parents is transient: the caller passes it to ReplaceParents
	// alongside Upsert within the same transaction. It is never read back
	// from the files table itself.
	Parents []string
}

// IsFolder reports whether this record is a folder.
func (f *FileRecord) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// FileError is one row of the append-only file_errors diagnostic log.
type FileError struct {
	ID          int64
	FileID      *string
	Stage       string
	Error       string
	CreatedTime string
}

// Reserved sync_state keys.
const (
	KeySchemaVersion   = "schema_version"
	KeyStartPageToken  = "start_page_token"
	KeyLastFullCrawl   = "last_full_crawl_time"
	KeyLastSyncTime    = "last_sync_time"
	KeyFileCount       = "file_count"
)
