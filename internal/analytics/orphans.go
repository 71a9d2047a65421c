package analytics

import "github.com/localdrive/driveindex/internal/index"

// ComputeOrphans reports files that reference at least one parent id not
// present in the snapshot. parentsOf is child id -> parent ids, derived
// from the childrenMap passed into ComputeAll.
func ComputeOrphans(files []*index.FileRecord, byID map[string]*index.FileRecord, parentsOf map[string][]string) Orphans {
	var out []Orphan

	for _, f := range files {
		parents := parentsOf[f.ID]
		if len(parents) == 0 {
			continue
		}

		var missing []string

		for _, pid := range parents {
			if _, ok := byID[pid]; !ok {
				missing = append(missing, pid)
			}
		}

		if len(missing) > 0 {
			out = append(out, Orphan{FileID: f.ID, MissingParentIDs: missing})
		}
	}

	return Orphans{Orphans: out, Count: len(out)}
}
