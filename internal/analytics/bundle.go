package analytics

import (
	"time"

	"github.com/localdrive/driveindex/internal/index"
)

// ComputeAll computes every view of the derived-analytics bundle from one
// index snapshot. childrenMap is parent id -> child ids (as built by
// internal/query.BuildChildrenMap); this package derives the inverse
// (child id -> parent ids) itself, since the orphan, depth and
// type-semantic views need per-file parent lookups that the store's edge
// table doesn't denormalize onto FileRecord.
func ComputeAll(files []*index.FileRecord, childrenMap map[string][]string, now time.Time) Bundle {
	byID := buildFileIndex(files)
	parentsOf := invertChildrenMap(childrenMap)

	var folders []*index.FileRecord

	for _, f := range files {
		if f.IsFolder() {
			folders = append(folders, f)
		}
	}

	semantic := ComputeSemantic(files, byID, childrenMap, now)

	return Bundle{
		DerivedVersion: DerivedVersion,
		Duplicates:     ComputeDuplicates(files),
		Orphans:        ComputeOrphans(files, byID, parentsOf),
		Depths:         ComputeDepths(files, byID, parentsOf),
		Semantic:       semantic,
		AgeSemantic:    ComputeAgeSemantic(folders, semantic.FolderCategory, now),
		TypeSemantic:   ComputeTypeSemantic(files, parentsOf, semantic.FolderCategory),
		Types:          ComputeTypeStats(files),
		Timeline:       ComputeTimeline(files),
		Large:          ComputeLargeLists(files),
	}
}
