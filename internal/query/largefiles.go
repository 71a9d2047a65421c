package query

import (
	"sort"

	"github.com/localdrive/driveindex/internal/index"
)

// LargeFile is one entry in the top-N by-size listing.
type LargeFile struct {
	ID   string
	Name string
	Size int64
}

// LargeFiles returns the top n live, non-trashed, non-folder files by size
// descending, filtered to size >= minSize. n <= 0 means no cap.
func LargeFiles(files []*index.FileRecord, minSize int64, n int) []LargeFile {
	var out []LargeFile

	for _, f := range files {
		if f.Trashed || f.Removed || f.IsFolder() {
			continue
		}

		if f.Size == nil || *f.Size < minSize {
			continue
		}

		out = append(out, LargeFile{ID: f.ID, Name: f.Name, Size: *f.Size})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Size > out[j].Size })

	if n > 0 && len(out) > n {
		out = out[:n]
	}

	return out
}
