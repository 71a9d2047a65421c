package analytics

import (
	"sort"

	"github.com/localdrive/driveindex/internal/index"
)

type nameSizeKey struct {
	name string
	size int64
}

// ComputeDuplicates groups non-folder files by (name, size) and reports
// every group with more than one member, sorted by potential savings
// descending. Unlike internal/query's MD5-based grouping (used for the
// on-demand duplicate-finder query), this view intentionally groups on
// name+size alone, matching the original analytics bundle's cheaper
// heuristic for a point-in-time snapshot report.
func ComputeDuplicates(files []*index.FileRecord) Duplicates {
	groups := make(map[nameSizeKey][]*index.FileRecord)

	for _, f := range files {
		if f.IsFolder() {
			continue
		}

		key := nameSizeKey{name: f.Name, size: fileSize(f)}
		groups[key] = append(groups[key], f)
	}

	var (
		out     []DuplicateGroup
		savings int64
	)

	for key, members := range groups {
		if len(members) < 2 {
			continue
		}

		potential := int64(len(members)-1) * key.size
		savings += potential

		first := members[0]
		identical := true

		for _, m := range members[1:] {
			if m.Name != first.Name || fileSize(m) != fileSize(first) ||
				m.MimeType != first.MimeType || m.CreatedTime != first.CreatedTime ||
				m.ModifiedTime != first.ModifiedTime {
				identical = false
				break
			}
		}

		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}

		out = append(out, DuplicateGroup{
			Name:              key.name,
			Size:              key.size,
			FileIDs:           ids,
			Count:             len(members),
			PotentialSavings:  potential,
			IdenticalMetadata: identical,
			MimeType:          first.MimeType,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PotentialSavings != out[j].PotentialSavings {
			return out[i].PotentialSavings > out[j].PotentialSavings
		}

		return out[i].Name < out[j].Name
	})

	return Duplicates{Groups: out, TotalPotentialSavings: savings}
}
