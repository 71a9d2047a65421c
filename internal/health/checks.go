package health

import (
	"context"
	"database/sql"
	"fmt"
)

const sqlMissingParents = `
	SELECT p.parent_id, p.child_id
	FROM parents p
	LEFT JOIN files f ON p.parent_id = f.id
	WHERE f.id IS NULL`

const sqlMissingChildren = `
	SELECT p.parent_id, p.child_id
	FROM parents p
	LEFT JOIN files f ON p.child_id = f.id
	WHERE f.id IS NULL`

const sqlOrphanedFiles = `
	SELECT f.id, f.name, f.mime_type
	FROM files f
	LEFT JOIN parents p ON f.id = p.child_id
	WHERE p.child_id IS NULL
	  AND f.removed = 0
	  AND f.trashed = 0`

// CheckDanglingEdges finds parent/child edges pointing at files no longer in
// the store, plus live files with no recorded parent edge at all (the
// latter is informational: root-level items legitimately have none).
func CheckDanglingEdges(ctx context.Context, db *sql.DB) (DanglingEdgesResult, error) {
	var result DanglingEdgesResult

	if err := queryEdges(ctx, db, sqlMissingParents, &result.MissingParents); err != nil {
		return result, fmt.Errorf("health: missing parents: %w", err)
	}

	if err := queryEdges(ctx, db, sqlMissingChildren, &result.MissingChildren); err != nil {
		return result, fmt.Errorf("health: missing children: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlOrphanedFiles)
	if err != nil {
		return result, fmt.Errorf("health: orphaned files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o OrphanedFile
		if err := rows.Scan(&o.ID, &o.Name, &o.MimeType); err != nil {
			return result, fmt.Errorf("health: scanning orphaned file: %w", err)
		}

		result.OrphanedFiles = append(result.OrphanedFiles, o)
	}

	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("health: orphaned files: %w", err)
	}

	result.MissingParentCount = len(result.MissingParents)
	result.MissingChildCount = len(result.MissingChildren)
	result.OrphanCount = len(result.OrphanedFiles)

	return result, nil
}

func queryEdges(ctx context.Context, db *sql.DB, query string, dest *[]ParentChildEdge) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e ParentChildEdge
		// Both queries select (parent_id, child_id), matching the scan order.
		if err := rows.Scan(&e.ParentID, &e.ChildID); err != nil {
			return err
		}

		*dest = append(*dest, e)
	}

	return rows.Err()
}

const sqlUnresolvedShortcuts = `
	SELECT s.id, s.name, s.shortcut_target_id
	FROM files s
	LEFT JOIN files t ON s.shortcut_target_id = t.id AND t.removed = 0
	WHERE s.is_shortcut = 1
	  AND s.removed = 0
	  AND s.trashed = 0
	  AND t.id IS NULL`

const sqlResolvedShortcutCount = `
	SELECT COUNT(*)
	FROM files s
	JOIN files t ON s.shortcut_target_id = t.id AND t.removed = 0
	WHERE s.is_shortcut = 1
	  AND s.removed = 0
	  AND s.trashed = 0`

// CheckUnresolvedShortcuts finds live shortcuts whose target id does not
// resolve to a live file.
func CheckUnresolvedShortcuts(ctx context.Context, db *sql.DB) (ShortcutsResult, error) {
	var result ShortcutsResult

	rows, err := db.QueryContext(ctx, sqlUnresolvedShortcuts)
	if err != nil {
		return result, fmt.Errorf("health: unresolved shortcuts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s UnresolvedShortcut

		var target sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &target); err != nil {
			return result, fmt.Errorf("health: scanning unresolved shortcut: %w", err)
		}

		s.ShortcutTarget = target.String
		result.Unresolved = append(result.Unresolved, s)
	}

	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("health: unresolved shortcuts: %w", err)
	}

	result.UnresolvedCount = len(result.Unresolved)

	if err := db.QueryRowContext(ctx, sqlResolvedShortcutCount).Scan(&result.ResolvedCount); err != nil {
		return result, fmt.Errorf("health: resolved shortcut count: %w", err)
	}

	return result, nil
}

const sqlLiveFolders = `
	SELECT id FROM files
	WHERE mime_type = 'application/vnd.google-apps.folder'
	  AND removed = 0
	  AND trashed = 0`

const sqlAllParentEdges = `SELECT parent_id, child_id FROM parents`

// CheckFolderCycles detects cycles in the live folder-containment graph via
// depth-first search with a recursion-stack back-edge check. Each detected
// cycle is reported as the ordered chain of folder ids from the point the
// cycle was entered back around to the repeated node.
func CheckFolderCycles(ctx context.Context, db *sql.DB) (CyclesResult, error) {
	folderIDs := make(map[string]bool)

	rows, err := db.QueryContext(ctx, sqlLiveFolders)
	if err != nil {
		return CyclesResult{}, fmt.Errorf("health: live folders: %w", err)
	}

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return CyclesResult{}, fmt.Errorf("health: scanning folder id: %w", err)
		}

		folderIDs[id] = true
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return CyclesResult{}, fmt.Errorf("health: live folders: %w", err)
	}
	rows.Close()

	edgeRows, err := db.QueryContext(ctx, sqlAllParentEdges)
	if err != nil {
		return CyclesResult{}, fmt.Errorf("health: parent edges: %w", err)
	}
	defer edgeRows.Close()

	children := make(map[string][]string)

	for edgeRows.Next() {
		var parentID, childID string
		if err := edgeRows.Scan(&parentID, &childID); err != nil {
			return CyclesResult{}, fmt.Errorf("health: scanning parent edge: %w", err)
		}

		if folderIDs[parentID] && folderIDs[childID] {
			children[parentID] = append(children[parentID], childID)
		}
	}

	if err := edgeRows.Err(); err != nil {
		return CyclesResult{}, fmt.Errorf("health: parent edges: %w", err)
	}

	detector := &cycleDetector{
		children: children,
		visited:  make(map[string]bool),
		onStack:  make(map[string]bool),
	}

	var result CyclesResult

	for id := range folderIDs {
		if detector.visited[id] {
			continue
		}

		if cycle := detector.dfs(id, nil); cycle != nil {
			result.Cycles = append(result.Cycles, cycle)
		}
	}

	result.HasCycles = len(result.Cycles) > 0
	result.CycleCount = len(result.Cycles)

	return result, nil
}

type cycleDetector struct {
	children map[string][]string
	visited  map[string]bool
	onStack  map[string]bool
}

// dfs walks from node, returning the back-edge chain the moment it finds a
// child already on the current recursion stack. Stops at the first cycle
// found per root, matching the teacher's single-cycle-per-root behavior.
func (d *cycleDetector) dfs(node string, path []string) []string {
	d.visited[node] = true
	d.onStack[node] = true
	defer func() { d.onStack[node] = false }()
	path = append(path, node)

	for _, child := range d.children[node] {
		if !d.visited[child] {
			if cycle := d.dfs(child, path); cycle != nil {
				return cycle
			}

			continue
		}

		if d.onStack[child] {
			start := indexOf(path, child)
			cycle := append(append([]string{}, path[start:]...), child)

			return cycle
		}
	}

	return nil
}

func indexOf(path []string, id string) int {
	for i, v := range path {
		if v == id {
			return i
		}
	}

	return 0
}

const sqlMimeBreakdown = `
	SELECT mime_type, COUNT(*), SUM(COALESCE(size, 0))
	FROM files
	WHERE removed = 0 AND trashed = 0
	GROUP BY mime_type
	ORDER BY COUNT(*) DESC`

// GetMimeBreakdown returns live-file counts and total size grouped by MIME
// type, sorted by count descending.
func GetMimeBreakdown(ctx context.Context, db *sql.DB) ([]MimeTypeStat, error) {
	rows, err := db.QueryContext(ctx, sqlMimeBreakdown)
	if err != nil {
		return nil, fmt.Errorf("health: mime breakdown: %w", err)
	}
	defer rows.Close()

	var out []MimeTypeStat

	for rows.Next() {
		var s MimeTypeStat
		if err := rows.Scan(&s.MimeType, &s.Count, &s.TotalSize); err != nil {
			return nil, fmt.Errorf("health: scanning mime stat: %w", err)
		}

		out = append(out, s)
	}

	return out, rows.Err()
}
