package query

import "github.com/localdrive/driveindex/internal/index"

// ShortcutResolution reports which live shortcuts resolve to a live target
// and which do not.
type ShortcutResolution struct {
	// Resolved maps a shortcut's id to its target's id.
	Resolved map[string]string
	// Unresolved holds shortcut ids whose target is absent or removed.
	Unresolved []string
}

// ResolveShortcuts inner-joins live shortcuts to their targets.
func ResolveShortcuts(files []*index.FileRecord) ShortcutResolution {
	byID := make(map[string]*index.FileRecord, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}

	res := ShortcutResolution{Resolved: make(map[string]string)}

	for _, f := range files {
		if !f.IsShortcut || f.Removed {
			continue
		}

		target, ok := byID[f.ShortcutTargetID]
		if !ok || target.Removed {
			res.Unresolved = append(res.Unresolved, f.ID)

			continue
		}

		res.Resolved[f.ID] = target.ID
	}

	return res
}
