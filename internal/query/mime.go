package query

import (
	"sort"

	"github.com/localdrive/driveindex/internal/index"
)

// MimeStat is one row of the MIME-type breakdown.
type MimeStat struct {
	MimeType  string
	Count     int
	TotalSize int64
}

// MimeBreakdown groups live, non-trashed rows by mime_type, ordered by
// count descending.
func MimeBreakdown(files []*index.FileRecord) []MimeStat {
	counts := make(map[string]*MimeStat)

	for _, f := range files {
		if f.Trashed || f.Removed {
			continue
		}

		stat, ok := counts[f.MimeType]
		if !ok {
			stat = &MimeStat{MimeType: f.MimeType}
			counts[f.MimeType] = stat
		}

		stat.Count++

		if f.Size != nil {
			stat.TotalSize += *f.Size
		}
	}

	out := make([]MimeStat, 0, len(counts))
	for _, stat := range counts {
		out = append(out, *stat)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].MimeType < out[j].MimeType
	})

	return out
}
