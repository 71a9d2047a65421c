package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/localdrive/driveindex/internal/index"
)

// semanticCategory pairs a category label with the name substrings that
// classify a folder into it on sight.
type semanticCategory struct {
	name     string
	keywords []string
}

// semanticCategories mirrors the frontend's folder-naming intent,
// simplified to substring matching against the lowercased folder name.
var semanticCategories = []semanticCategory{
	{"Backup/Archive", []string{"backup", "backup_", "old", "old_", "archive", "legacy", "bak", "oldbackup"}},
	{"Photos", []string{"photo", "photos", "picture", "pictures", "images", "camera", "pic", "pics", "img"}},
	{"Work", []string{"work", "business", "client", "project", "projects", "office", "corporate", "job"}},
	{"Personal", []string{"personal", "home", "family", "private", "my", "self"}},
	{"Documents", []string{"document", "doc", "documents", "files", "paperwork"}},
	{"Music", []string{"music", "audio", "song", "songs", "mp3", "sound", "tunes"}},
	{"Videos", []string{"video", "videos", "movie", "movies", "film", "films"}},
	{"Downloads", []string{"download", "downloaded", "temp", "tmp"}},
	{"Code", []string{"code", "dev", "development", "src", "source", "script", "scripts", "programming"}},
	{"School", []string{"school", "education", "study", "studies", "course", "courses", "class", "university"}},
}

// classifyFolderByName returns the first semantic category whose keyword
// appears in name, or "" if none match.
func classifyFolderByName(name string) string {
	lower := strings.ToLower(name)

	for _, cat := range semanticCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.name
			}
		}
	}

	return ""
}

const oneYear = 365 * 24 * time.Hour

// classifyFolderByContent applies the >80%-majority content heuristic to a
// folder's direct children when its name gave no match.
func classifyFolderByContent(childIDs []string, byID map[string]*index.FileRecord, now time.Time) string {
	if len(childIDs) == 0 {
		return ""
	}

	var total, images, videos, audio, docs, old int

	for _, cid := range childIDs {
		child, ok := byID[cid]
		if !ok || child.IsFolder() {
			continue
		}

		total++

		mime := strings.ToLower(child.MimeType)

		switch {
		case strings.HasPrefix(mime, "image/"):
			images++
		case strings.HasPrefix(mime, "video/"):
			videos++
		case strings.HasPrefix(mime, "audio/"):
			audio++
		case strings.Contains(mime, "document") || strings.Contains(mime, "pdf"):
			docs++
		}

		if mdt, err := time.Parse(time.RFC3339, child.ModifiedTime); err == nil {
			if now.Sub(mdt) > oneYear {
				old++
			}
		}
	}

	if total == 0 {
		return ""
	}

	switch {
	case float64(images)/float64(total) > 0.8:
		return "Photos"
	case float64(old)/float64(total) > 0.8:
		return "Backup/Archive"
	case float64(videos)/float64(total) > 0.8:
		return "Videos"
	case float64(audio)/float64(total) > 0.8:
		return "Music"
	case float64(docs)/float64(total) > 0.8:
		return "Documents"
	default:
		return ""
	}
}

// fileSize returns the file's size, treating a nil Size as zero.
func fileSize(r *index.FileRecord) int64 {
	if r.Size == nil {
		return 0
	}

	return *r.Size
}

// buildFileIndex maps file id to record for O(1) lookups across views.
func buildFileIndex(files []*index.FileRecord) map[string]*index.FileRecord {
	out := make(map[string]*index.FileRecord, len(files))

	for _, f := range files {
		out[f.ID] = f
	}

	return out
}

// invertChildrenMap derives child id -> parent ids from the parent id ->
// child ids map that internal/query builds from the edges table. Each
// child's parent list is sorted so that callers picking a single "first
// parent" (ComputeTypeSemantic) get a value independent of Go's randomized
// map iteration order, rather than one that varies from run to run.
func invertChildrenMap(childrenMap map[string][]string) map[string][]string {
	parents := make(map[string][]string)

	for parentID, children := range childrenMap {
		for _, childID := range children {
			parents[childID] = append(parents[childID], parentID)
		}
	}

	for childID, ids := range parents {
		sort.Strings(ids)
		parents[childID] = ids
	}

	return parents
}
