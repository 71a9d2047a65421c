package health

import (
	"context"
	"fmt"

	"github.com/localdrive/driveindex/internal/index"
)

// RunAll runs every check against store and combines the results: a folder
// cycle is the only condition that fails the overall result, dangling
// edges and unresolved shortcuts are reported as warnings only.
func RunAll(ctx context.Context, store *index.Store) (*Result, error) {
	result := &Result{Passed: true}

	db := store.DB()

	stats, err := GetStats(ctx, db)
	if err != nil {
		return nil, err
	}

	result.Stats = stats

	edges, err := CheckDanglingEdges(ctx, db)
	if err != nil {
		return nil, err
	}

	result.Details.DanglingEdges = edges

	if edges.MissingParentCount > 0 {
		result.addWarning(fmt.Sprintf("found %d edges with missing parents", edges.MissingParentCount))
	}

	if edges.MissingChildCount > 0 {
		result.addWarning(fmt.Sprintf("found %d edges with missing children", edges.MissingChildCount))
	}

	shortcuts, err := CheckUnresolvedShortcuts(ctx, db)
	if err != nil {
		return nil, err
	}

	result.Details.Shortcuts = shortcuts

	if shortcuts.UnresolvedCount > 0 {
		result.addWarning(fmt.Sprintf("found %d shortcuts with missing targets", shortcuts.UnresolvedCount))
	}

	cycles, err := CheckFolderCycles(ctx, db)
	if err != nil {
		return nil, err
	}

	result.Details.Cycles = cycles

	if cycles.HasCycles {
		result.addError(fmt.Sprintf("found %d cycle(s) in folder structure", cycles.CycleCount))
	}

	mimeTypes, err := GetMimeBreakdown(ctx, db)
	if err != nil {
		return nil, err
	}

	result.Details.MimeTypes = mimeTypes

	return result, nil
}
