package query

import (
	"sort"

	"github.com/localdrive/driveindex/internal/index"
)

// DuplicateGroup is one (md5, size) cluster of two or more live,
// non-trashed, non-shortcut files.
type DuplicateGroup struct {
	MD5         string
	Size        int64
	Count       int
	FileIDs     []string
	TotalWasted int64
}

type duplicateKey struct {
	md5  string
	size int64
}

// DuplicateGroups groups live non-trashed non-shortcut rows by (md5, size)
// where md5 is set and size >= minSize, keeping only groups with more than
// one member. limit <= 0 means no limit. Groups are ordered by TotalWasted
// descending.
func DuplicateGroups(files []*index.FileRecord, minSize int64, limit int) []DuplicateGroup {
	buckets := make(map[duplicateKey][]string)

	for _, f := range files {
		if f.Trashed || f.Removed || f.IsShortcut {
			continue
		}

		if f.MD5 == "" || f.Size == nil || *f.Size < minSize {
			continue
		}

		key := duplicateKey{md5: f.MD5, size: *f.Size}
		buckets[key] = append(buckets[key], f.ID)
	}

	groups := make([]DuplicateGroup, 0, len(buckets))

	for key, ids := range buckets {
		if len(ids) < 2 {
			continue
		}

		groups = append(groups, DuplicateGroup{
			MD5:         key.md5,
			Size:        key.size,
			Count:       len(ids),
			FileIDs:     ids,
			TotalWasted: key.size * int64(len(ids)-1),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalWasted != groups[j].TotalWasted {
			return groups[i].TotalWasted > groups[j].TotalWasted
		}

		return groups[i].MD5 < groups[j].MD5
	})

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// TotalWasted sums TotalWasted across the groups in the given slice; groups
// left out by a limit when the slice was built are not counted.
func TotalWasted(groups []DuplicateGroup) int64 {
	var total int64
	for _, g := range groups {
		total += g.TotalWasted
	}

	return total
}
