package query

import (
	"testing"

	"github.com/localdrive/driveindex/internal/index"
	"github.com/stretchr/testify/assert"
)

func TestResolveShortcuts_ResolvedAndUnresolved(t *testing.T) {
	files := []*index.FileRecord{
		{ID: "target1", MimeType: "text/plain"},
		{ID: "sc1", MimeType: index.ShortcutMimeType, IsShortcut: true, ShortcutTargetID: "target1"},
		{ID: "sc2", MimeType: index.ShortcutMimeType, IsShortcut: true, ShortcutTargetID: "missing"},
		{ID: "target2removed", Removed: true},
		{ID: "sc3", MimeType: index.ShortcutMimeType, IsShortcut: true, ShortcutTargetID: "target2removed"},
	}

	res := ResolveShortcuts(files)
	assert.Equal(t, "target1", res.Resolved["sc1"])
	assert.ElementsMatch(t, []string{"sc2", "sc3"}, res.Unresolved)
}
