// Package query implements read-only views over the index: path
// reconstruction, children maps, duplicate groups, large-file listings,
// MIME breakdowns, and shortcut resolution. All functions here are
// read-only and never suspend or compete with writers.
package query

import "sort"

// Defaults per the configured path reconstruction limits.
const (
	DefaultMaxPaths = 5
	DefaultMaxDepth = 50

	// RootLabel is prepended to a path once it reaches a node with no
	// parents (or the cycle/depth guard truncates the walk).
	RootLabel = "Root"
)

// ParentsLookup resolves a node's parent ids, as Store.GetParents does.
type ParentsLookup func(childID string) ([]string, error)

// ReconstructPaths enumerates up to maxPaths distinct parent chains from id
// back to a root, each capped at maxDepth hops to defend against cycles.
// Paths are ordered shortest first, so the primary (display) path is
// always paths[0]. A chain already on the current walk that is revisited,
// or one that exceeds maxDepth, is truncated and reported as having
// reached a synthetic root rather than looping forever.
func ReconstructPaths(id string, parentsOf ParentsLookup, maxPaths, maxDepth int) ([][]string, error) {
	if maxPaths <= 0 {
		maxPaths = DefaultMaxPaths
	}

	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	chains, err := buildChains(id, parentsOf, 0, maxDepth, map[string]bool{})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(chains, func(i, j int) bool { return len(chains[i]) < len(chains[j]) })

	if len(chains) > maxPaths {
		chains = chains[:maxPaths]
	}

	return chains, nil
}

func buildChains(current string, parentsOf ParentsLookup, depth, maxDepth int, visiting map[string]bool) ([][]string, error) {
	if visiting[current] || depth >= maxDepth {
		return [][]string{{RootLabel, current}}, nil
	}

	visiting[current] = true
	defer delete(visiting, current)

	parents, err := parentsOf(current)
	if err != nil {
		return nil, err
	}

	if len(parents) == 0 {
		return [][]string{{RootLabel, current}}, nil
	}

	var chains [][]string

	for _, parentID := range parents {
		parentChains, err := buildChains(parentID, parentsOf, depth+1, maxDepth, visiting)
		if err != nil {
			return nil, err
		}

		for _, chain := range parentChains {
			full := make([]string, len(chain)+1)
			copy(full, chain)
			full[len(chain)] = current
			chains = append(chains, full)
		}
	}

	return chains, nil
}

// PrimaryPath returns the shortest of ReconstructPaths' results, or nil if
// id has no resolvable ancestry (should not occur in practice — every node
// terminates at "Root").
func PrimaryPath(id string, parentsOf ParentsLookup, maxPaths, maxDepth int) ([]string, error) {
	paths, err := ReconstructPaths(id, parentsOf, maxPaths, maxDepth)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, nil
	}

	return paths[0], nil
}
