package analytics

import "github.com/localdrive/driveindex/internal/index"

// ComputeTypeStats computes count and total size per broad type group
// (Folders, plus the file-type groups), omitting groups with zero members.
func ComputeTypeStats(files []*index.FileRecord) TypeStats {
	groups := make(map[string]TypeGroupStat)

	for _, f := range files {
		var group string
		if f.IsFolder() {
			group = "Folders"
		} else {
			group = fileTypeGroup(f.MimeType)
		}

		g := groups[group]
		g.Count++
		g.TotalSize += fileSize(f)
		groups[group] = g
	}

	return TypeStats{Groups: groups}
}
