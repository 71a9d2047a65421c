// Package driveapi provides a typed client adapter over the remote cloud
// file-store API (Google Drive semantics). It is the only component that
// knows about wire-level JSON shapes; every other package deals in
// normalized Go structs.
package driveapi

// DefaultBaseURL is the production API root for the remote cloud file
// store, matching the v3 surface the typed calls in this package target.
const DefaultBaseURL = "https://www.googleapis.com/drive/v3"

// FolderMimeType is the sentinel MIME type identifying a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// ShortcutMimeType is the sentinel MIME type identifying a shortcut.
const ShortcutMimeType = "application/vnd.google-apps.shortcut"

// Projection selects which fields the remote API should return.
type Projection int

const (
	// ProjectionFull requests every field named in the data model; used by
	// crawl and by change-feed file payloads.
	ProjectionFull Projection = iota
	// ProjectionMinimal requests only id + modifiedTime, for the cheap
	// "any-change-since" cache-validation probe.
	ProjectionMinimal
)

// fields returns the remote "fields" query value for the projection.
func (p Projection) fields() string {
	switch p {
	case ProjectionMinimal:
		return "files(id,modifiedTime),nextPageToken"
	default:
		return "files(" + fullFieldList + "),nextPageToken"
	}
}

const fullFieldList = "id,name,mimeType,trashed,createdTime,modifiedTime,size,md5Checksum," +
	"ownedByMe,owners,capabilities,shortcutDetails,starred,webViewLink,iconLink,parents"

// Owner mirrors the Drive API owner sub-object.
type Owner struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Me           bool   `json:"me"`
}

// ShortcutDetails mirrors the Drive API shortcutDetails sub-object.
type ShortcutDetails struct {
	TargetID       string `json:"targetId"`
	TargetMimeType string `json:"targetMimeType"`
}

// File is the normalized representation of a remote file/folder returned by
// ListFilesPage, ListChangesPage, and GetFile. RawJSON retains the full original
// payload for forward compatibility, per the data model's "Raw payload"
// field.
type File struct {
	ID              string
	Name            string
	MimeType        string
	Trashed         bool
	CreatedTime     string
	ModifiedTime    string
	Size            *int64
	MD5Checksum     string
	OwnedByMe       bool
	Owners          []Owner
	Capabilities    map[string]any
	ShortcutDetails *ShortcutDetails
	Starred         bool
	WebViewLink     string
	IconLink        string
	Parents         []string
	RawJSON         []byte
}

// IsFolder reports whether this file is a folder.
func (f *File) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// IsShortcut reports whether this file is a shortcut.
func (f *File) IsShortcut() bool {
	return f.MimeType == ShortcutMimeType
}

// Change is one entry from the remote change feed.
type Change struct {
	FileID  string
	Removed bool
	File    *File // nil when Removed is true
}

// StorageQuota mirrors the About endpoint's storage quota sub-object.
type StorageQuota struct {
	Limit int64
	Usage int64
}

// AccountUser mirrors the About endpoint's user identity sub-object.
type AccountUser struct {
	DisplayName  string
	EmailAddress string
}

// AccountOverview is the normalized response of About().
type AccountOverview struct {
	StorageQuota StorageQuota
	User         AccountUser
}
