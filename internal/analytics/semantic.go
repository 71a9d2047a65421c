package analytics

import (
	"time"

	"github.com/localdrive/driveindex/internal/index"
)

// ComputeSemantic classifies every live folder into a semantic category:
// first by a name-keyword match (high confidence), falling back to a
// >80%-majority content heuristic over its direct children (medium
// confidence). Folders matching neither are reported uncategorized.
func ComputeSemantic(files []*index.FileRecord, byID map[string]*index.FileRecord, childrenMap map[string][]string, now time.Time) Semantic {
	folderCategory := make(map[string]FolderCategory)
	categoryFolderIDs := make(map[string][]string)
	totals := make(map[string]CategoryTotal)

	var uncategorizedIDs []string

	for _, f := range files {
		if !f.IsFolder() {
			continue
		}

		catName := classifyFolderByName(f.Name)
		confidence, method := "high", "name"

		if catName == "" {
			catName = classifyFolderByContent(childrenMap[f.ID], byID, now)
			confidence, method = "medium", "content"
		}

		if catName == "" {
			uncategorizedIDs = append(uncategorizedIDs, f.ID)
			continue
		}

		folderCategory[f.ID] = FolderCategory{Category: catName, Confidence: confidence, Method: method}

		total := totals[catName]
		total.FolderCount++
		total.TotalSize += fileSize(f)
		totals[catName] = total

		categoryFolderIDs[catName] = append(categoryFolderIDs[catName], f.ID)
	}

	return Semantic{
		FolderCategory:         folderCategory,
		Totals:                 totals,
		CategoryFolderIDs:      categoryFolderIDs,
		UncategorizedCount:     len(uncategorizedIDs),
		UncategorizedFolderIDs: uncategorizedIDs,
	}
}
