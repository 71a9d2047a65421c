package analytics

import (
	"sort"

	"github.com/localdrive/driveindex/internal/index"
)

const maxDeepestFolders = 50

// ComputeDepths computes each folder's depth (one more than the deepest of
// its parents' depths; 0 for roots), with cycle protection: a folder
// reached again while still being resolved reports depth 0 rather than
// recursing forever.
func ComputeDepths(files []*index.FileRecord, byID map[string]*index.FileRecord, parentsOf map[string][]string) Depths {
	depthByID := make(map[string]int)
	visiting := make(map[string]bool)

	var depth func(id string) int

	depth = func(id string) int {
		if d, ok := depthByID[id]; ok {
			return d
		}

		if visiting[id] {
			return 0
		}

		visiting[id] = true
		defer delete(visiting, id)

		node, ok := byID[id]
		if !ok || !node.IsFolder() {
			depthByID[id] = 0
			return 0
		}

		parents := parentsOf[id]
		if len(parents) == 0 {
			depthByID[id] = 0
			return 0
		}

		bestParentDepth := 0
		for _, pid := range parents {
			if d := depth(pid); d > bestParentDepth {
				bestParentDepth = d
			}
		}

		d := bestParentDepth + 1
		depthByID[id] = d

		return d
	}

	var folders []*index.FileRecord

	for _, f := range files {
		if f.IsFolder() {
			folders = append(folders, f)
			depth(f.ID)
		}
	}

	distByDepth := make(map[int]*DepthBucket)

	for _, f := range folders {
		d := depthByID[f.ID]

		b, ok := distByDepth[d]
		if !ok {
			b = &DepthBucket{Depth: d}
			distByDepth[d] = b
		}

		b.FolderCount++
		b.TotalSize += fileSize(f)
	}

	dist := make([]DepthBucket, 0, len(distByDepth))
	for _, b := range distByDepth {
		dist = append(dist, *b)
	}

	sort.Slice(dist, func(i, j int) bool { return dist[i].Depth < dist[j].Depth })

	maxDepth := 0
	for _, d := range depthByID {
		if d > maxDepth {
			maxDepth = d
		}
	}

	type idDepth struct {
		id    string
		depth int
	}

	ordered := make([]idDepth, 0, len(depthByID))
	for id, d := range depthByID {
		ordered = append(ordered, idDepth{id, d})
	}

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].depth != ordered[j].depth {
			return ordered[i].depth > ordered[j].depth
		}

		return ordered[i].id < ordered[j].id
	})

	if len(ordered) > maxDeepestFolders {
		ordered = ordered[:maxDeepestFolders]
	}

	deepest := make([]string, 0, len(ordered))
	for _, e := range ordered {
		deepest = append(deepest, e.id)
	}

	return Depths{
		DepthByID:        depthByID,
		Distribution:     dist,
		MaxDepth:         maxDepth,
		DeepestFolderIDs: deepest,
	}
}
