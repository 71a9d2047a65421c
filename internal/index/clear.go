package index

import (
	"context"
	"fmt"
)

// ClearIndex truncates files, parents, and file_errors, and wipes
// sync_state except the schema_version key, so the store does not need to
// be re-migrated after a clear.
func (s *Store) ClearIndex(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin clear: %s", ErrStoreError, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	for _, table := range []string{"file_errors", "parents", "files"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("%w: clear %s: %s", ErrStoreError, table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM sync_state WHERE key != ?", KeySchemaVersion); err != nil {
		return fmt.Errorf("%w: clear sync_state: %s", ErrStoreError, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit clear: %s", ErrStoreError, err)
	}

	return nil
}
