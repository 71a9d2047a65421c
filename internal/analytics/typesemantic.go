package analytics

import (
	"strings"

	"github.com/localdrive/driveindex/internal/index"
)

var fileTypeGroups = []string{"Images", "Videos", "Audio", "Documents", "Other"}

// fileTypeGroup buckets a MIME type into one of the broad file-type groups
// used by both the type-semantic matrix and the type-stats view.
func fileTypeGroup(mimeType string) string {
	m := strings.ToLower(mimeType)

	switch {
	case strings.HasPrefix(m, "image/"):
		return "Images"
	case strings.HasPrefix(m, "video/"):
		return "Videos"
	case strings.HasPrefix(m, "audio/"):
		return "Audio"
	case strings.HasPrefix(m, "application/pdf"),
		strings.HasPrefix(m, "application/vnd.google-apps.document"),
		strings.HasPrefix(m, "application/msword"),
		strings.HasPrefix(m, "application/vnd.openxmlformats"):
		return "Documents"
	default:
		return "Other"
	}
}

// ComputeTypeSemantic crosses file-type group against the semantic category
// of each file's first parent folder, producing a category x type-group
// matrix of file count and total size. Files with no parent, or whose
// parent has no assigned category, fall into "Uncategorized". parentsOf
// must list each child's parents in a stable order (invertChildrenMap sorts
// them) so that "first parent" is deterministic for multi-parent files.
func ComputeTypeSemantic(files []*index.FileRecord, parentsOf map[string][]string, folderCategory map[string]FolderCategory) TypeSemantic {
	matrix := make(map[string]map[string]TypeCell)

	for _, f := range files {
		if f.IsFolder() {
			continue
		}

		cat := uncategorizedLabel

		if parents := parentsOf[f.ID]; len(parents) > 0 {
			if fc, ok := folderCategory[parents[0]]; ok && fc.Category != "" {
				cat = fc.Category
			}
		}

		group := fileTypeGroup(f.MimeType)

		if matrix[cat] == nil {
			matrix[cat] = make(map[string]TypeCell)
		}

		cell := matrix[cat][group]
		cell.FileCount++
		cell.TotalSize += fileSize(f)
		matrix[cat][group] = cell
	}

	return TypeSemantic{Groups: fileTypeGroups, Matrix: matrix}
}
