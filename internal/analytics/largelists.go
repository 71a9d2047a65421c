package analytics

import (
	"sort"

	"github.com/localdrive/driveindex/internal/index"
)

const (
	topFilesLimit   = 2000
	topFoldersLimit = 1000
)

// ComputeLargeLists precomputes the top-N largest files and folders by
// their own Size field, capped at 2000 file ids and 1000 folder ids so the
// cached lists do not grow with the index.
func ComputeLargeLists(files []*index.FileRecord) LargeLists {
	var nonFolders, folders []*index.FileRecord

	for _, f := range files {
		if f.IsFolder() {
			folders = append(folders, f)
		} else {
			nonFolders = append(nonFolders, f)
		}
	}

	sortBySizeDesc(nonFolders)
	sortBySizeDesc(folders)

	return LargeLists{
		TopFileIDs:   ids(nonFolders, topFilesLimit),
		TopFolderIDs: ids(folders, topFoldersLimit),
	}
}

func sortBySizeDesc(files []*index.FileRecord) {
	sort.Slice(files, func(i, j int) bool {
		si, sj := fileSize(files[i]), fileSize(files[j])
		if si != sj {
			return si > sj
		}

		return files[i].ID < files[j].ID
	})
}

func ids(files []*index.FileRecord, limit int) []string {
	if len(files) > limit {
		files = files[:limit]
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.ID)
	}

	return out
}
