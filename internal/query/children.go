package query

import "github.com/localdrive/driveindex/internal/index"

// BuildChildrenMap emits parent_id -> [child_id] over the live
// (non-trashed, non-tombstoned) rows in files, resolving each file's
// parent set via parentsOf.
func BuildChildrenMap(files []*index.FileRecord, parentsOf ParentsLookup) (map[string][]string, error) {
	childrenMap := make(map[string][]string)

	for _, f := range files {
		if f.Trashed || f.Removed {
			continue
		}

		parents, err := parentsOf(f.ID)
		if err != nil {
			return nil, err
		}

		for _, parentID := range parents {
			childrenMap[parentID] = append(childrenMap[parentID], f.ID)
		}
	}

	return childrenMap, nil
}
