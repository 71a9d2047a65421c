package query

import (
	"testing"

	"github.com/localdrive/driveindex/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChildrenMap_SkipsTrashedAndRemoved(t *testing.T) {
	files := []*index.FileRecord{
		{ID: "live"},
		{ID: "trashed", Trashed: true},
		{ID: "removed", Removed: true},
	}

	parents := fixedParents(map[string][]string{
		"live":    {"root1"},
		"trashed": {"root1"},
		"removed": {"root1"},
	})

	childrenMap, err := BuildChildrenMap(files, parents)
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, childrenMap["root1"])
}

func TestBuildChildrenMap_MultiParent(t *testing.T) {
	files := []*index.FileRecord{{ID: "shared"}}

	parents := fixedParents(map[string][]string{
		"shared": {"p1", "p2"},
	})

	childrenMap, err := BuildChildrenMap(files, parents)
	require.NoError(t, err)
	assert.Contains(t, childrenMap["p1"], "shared")
	assert.Contains(t, childrenMap["p2"], "shared")
}
