package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// --- SQL query constants, grouped by domain ---

const sqlFileColumns = `id, name, mime_type, trashed, created_time, modified_time,
	size, md5, owned_by_me, starred, web_view_link, icon_link,
	owners_json, capabilities_json,
	is_shortcut, shortcut_target_id, shortcut_target_mime,
	raw_json, removed`

const sqlUpsertFile = `INSERT INTO files (` + sqlFileColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	ON CONFLICT(id) DO UPDATE SET
		name                 = excluded.name,
		mime_type            = excluded.mime_type,
		trashed              = excluded.trashed,
		created_time         = excluded.created_time,
		modified_time        = excluded.modified_time,
		size                 = excluded.size,
		md5                  = excluded.md5,
		owned_by_me          = excluded.owned_by_me,
		starred              = excluded.starred,
		web_view_link        = excluded.web_view_link,
		icon_link            = excluded.icon_link,
		owners_json          = excluded.owners_json,
		capabilities_json    = excluded.capabilities_json,
		is_shortcut          = excluded.is_shortcut,
		shortcut_target_id   = excluded.shortcut_target_id,
		shortcut_target_mime = excluded.shortcut_target_mime,
		raw_json             = excluded.raw_json,
		removed              = 0`

const sqlMarkRemoved = `UPDATE files SET removed = 1 WHERE id = ?`

const sqlGetFileByID = `SELECT ` + sqlFileColumns + ` FROM files WHERE id = ?`

const sqlGetAllFiles = `SELECT ` + sqlFileColumns + ` FROM files
	WHERE (trashed = 0 OR ?) AND (removed = 0 OR ?)`

const sqlFileCount = `SELECT COUNT(*) FROM files WHERE removed = 0`

const sqlDeleteParentsByChild = `DELETE FROM parents WHERE child_id = ?`

const sqlInsertParent = `INSERT OR IGNORE INTO parents (parent_id, child_id) VALUES (?, ?)`

const sqlGetParents = `SELECT parent_id FROM parents WHERE child_id = ?`

const sqlGetChildren = `SELECT child_id FROM parents WHERE parent_id = ?`

// ErrStoreError wraps structural local-store failures (as opposed to
// per-record upsert failures, which crawl/sync log via LogFileError and
// skip rather than abort on).
var ErrStoreError = errors.New("index: store error")

func upsertArgs(r *FileRecord) []any {
	return []any{
		r.ID, r.Name, r.MimeType, r.Trashed, r.CreatedTime, r.ModifiedTime,
		r.Size, nullableString(r.MD5), r.OwnedByMe, r.Starred, r.WebViewLink, r.IconLink,
		nullableString(r.OwnersJSON), nullableString(r.CapabilitiesJSON),
		r.IsShortcut, nullableString(r.ShortcutTargetID), nullableString(r.ShortcutTargetMimeType),
		r.RawJSON,
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func scanFile(row interface{ Scan(...any) error }) (*FileRecord, error) {
	var (
		r                                            FileRecord
		md5, owners, caps, shortcutID, shortcutMime  sql.NullString
	)

	if err := row.Scan(
		&r.ID, &r.Name, &r.MimeType, &r.Trashed, &r.CreatedTime, &r.ModifiedTime,
		&r.Size, &md5, &r.OwnedByMe, &r.Starred, &r.WebViewLink, &r.IconLink,
		&owners, &caps,
		&r.IsShortcut, &shortcutID, &shortcutMime,
		&r.RawJSON, &r.Removed,
	); err != nil {
		return nil, err
	}

	r.MD5 = md5.String
	r.OwnersJSON = owners.String
	r.CapabilitiesJSON = caps.String
	r.ShortcutTargetID = shortcutID.String
	r.ShortcutTargetMimeType = shortcutMime.String

	return &r, nil
}

// Upsert inserts or updates a file by id. Reinsertion of a previously
// tombstoned id clears removed. It is a no-op failure mode the caller (not
// this method) is responsible for logging: Upsert returns the error and
// does not itself touch file_errors.
func (s *Store) Upsert(ctx context.Context, r *FileRecord) error {
	if _, err := s.fileStmts.upsert.ExecContext(ctx, upsertArgs(r)...); err != nil {
		return fmt.Errorf("%w: upsert %s: %s", ErrStoreError, r.ID, err)
	}

	return nil
}

// ReplaceParents deletes all edges with the given child id and inserts the
// new parent set. Called in the same transaction as the owning Upsert when
// invoked from a Batch.
func (s *Store) ReplaceParents(ctx context.Context, childID string, parentIDs []string) error {
	if _, err := s.fileStmts.deleteParents.ExecContext(ctx, childID); err != nil {
		return fmt.Errorf("%w: replace parents for %s: %s", ErrStoreError, childID, err)
	}

	for _, parentID := range parentIDs {
		if _, err := s.fileStmts.insertParent.ExecContext(ctx, parentID, childID); err != nil {
			return fmt.Errorf("%w: insert parent edge %s->%s: %s", ErrStoreError, parentID, childID, err)
		}
	}

	return nil
}

// MarkRemoved tombstones a file: sets removed=1 and drops all edges where
// it is the child.
func (s *Store) MarkRemoved(ctx context.Context, id string) error {
	if _, err := s.fileStmts.markRemoved.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("%w: mark removed %s: %s", ErrStoreError, id, err)
	}

	if _, err := s.fileStmts.deleteParents.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("%w: drop edges for removed %s: %s", ErrStoreError, id, err)
	}

	return nil
}

// GetByID returns the file with the given id, or (nil, nil) if absent.
func (s *Store) GetByID(ctx context.Context, id string) (*FileRecord, error) {
	row := s.fileStmts.getByID.QueryRowContext(ctx, id)

	r, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: get by id %s: %s", ErrStoreError, id, err)
	}

	return r, nil
}

// GetParents returns the parent ids of a child.
func (s *Store) GetParents(ctx context.Context, childID string) ([]string, error) {
	return s.queryIDs(ctx, s.fileStmts.getParents, childID)
}

// GetChildren returns the child ids of a parent.
func (s *Store) GetChildren(ctx context.Context, parentID string) ([]string, error) {
	return s.queryIDs(ctx, s.fileStmts.getChildren, parentID)
}

func (s *Store) queryIDs(ctx context.Context, stmt *sql.Stmt, arg string) ([]string, error) {
	rows, err := stmt.QueryContext(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreError, err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning edge: %s", ErrStoreError, err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetAllFiles returns every file row, optionally including trashed and/or
// tombstoned rows.
func (s *Store) GetAllFiles(ctx context.Context, includeTrashed, includeRemoved bool) ([]*FileRecord, error) {
	rows, err := s.fileStmts.getAll.QueryContext(ctx, includeTrashed, includeRemoved)
	if err != nil {
		return nil, fmt.Errorf("%w: get all files: %s", ErrStoreError, err)
	}
	defer rows.Close()

	var out []*FileRecord

	for rows.Next() {
		r, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning file row: %s", ErrStoreError, err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

// FileCount returns the number of non-tombstoned rows.
func (s *Store) FileCount(ctx context.Context) (int, error) {
	var n int
	if err := s.fileStmts.count.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: file count: %s", ErrStoreError, err)
	}

	return n, nil
}
