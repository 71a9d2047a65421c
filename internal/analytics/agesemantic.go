package analytics

import (
	"time"

	"github.com/localdrive/driveindex/internal/index"
)

type ageBucket struct {
	label      string
	startDays  int
	endDaysExc int
}

var ageBuckets = []ageBucket{
	{"0-30 days", 0, 30},
	{"30-90 days", 30, 90},
	{"90-180 days", 90, 180},
	{"180-365 days", 180, 365},
	{"365+ days", 365, 10_000},
}

const uncategorizedLabel = "Uncategorized"

// ComputeAgeSemantic buckets every folder by its age (days since modified)
// crossed with its semantic category, producing a category x age-bucket
// matrix of folder count and total size.
func ComputeAgeSemantic(folders []*index.FileRecord, folderCategory map[string]FolderCategory, now time.Time) AgeSemantic {
	matrix := make(map[string]map[string]AgeBucketCell)

	for _, f := range folders {
		cat := uncategorizedLabel
		if fc, ok := folderCategory[f.ID]; ok {
			cat = fc.Category
		}

		ageDays := 10_000
		if mdt, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			ageDays = int(now.Sub(mdt).Hours() / 24)
		}

		label := bucketLabel(ageDays)

		if matrix[cat] == nil {
			matrix[cat] = make(map[string]AgeBucketCell)
		}

		cell := matrix[cat][label]
		cell.FolderCount++
		cell.TotalSize += fileSize(f)
		matrix[cat][label] = cell
	}

	labels := make([]string, 0, len(ageBuckets))
	for _, b := range ageBuckets {
		labels = append(labels, b.label)
	}

	return AgeSemantic{Buckets: labels, Matrix: matrix}
}

func bucketLabel(ageDays int) string {
	for _, b := range ageBuckets {
		if ageDays >= b.startDays && ageDays < b.endDaysExc {
			return b.label
		}
	}

	return "365+ days"
}
