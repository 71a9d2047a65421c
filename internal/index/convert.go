package index

import (
	"encoding/json"

	"github.com/localdrive/driveindex/internal/driveapi"
)

// FromRemoteFile normalizes a remote adapter File into the row shape this
// package stores. Owners and Capabilities are re-encoded as opaque JSON;
// nothing downstream needs to parse them back out of the row.
func FromRemoteFile(f *driveapi.File) *FileRecord {
	r := &FileRecord{
		ID:           f.ID,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Trashed:      f.Trashed,
		CreatedTime:  f.CreatedTime,
		ModifiedTime: f.ModifiedTime,
		Size:         f.Size,
		MD5:          f.MD5Checksum,
		OwnedByMe:    f.OwnedByMe,
		Starred:      f.Starred,
		WebViewLink:  f.WebViewLink,
		IconLink:     f.IconLink,
		IsShortcut:   f.IsShortcut(),
		RawJSON:      string(f.RawJSON),
		Parents:      f.Parents,
	}

	if len(f.Owners) > 0 {
		if b, err := json.Marshal(f.Owners); err == nil {
			r.OwnersJSON = string(b)
		}
	}

	if len(f.Capabilities) > 0 {
		if b, err := json.Marshal(f.Capabilities); err == nil {
			r.CapabilitiesJSON = string(b)
		}
	}

	if f.ShortcutDetails != nil {
		r.ShortcutTargetID = f.ShortcutDetails.TargetID
		r.ShortcutTargetMimeType = f.ShortcutDetails.TargetMimeType
	}

	return r
}
