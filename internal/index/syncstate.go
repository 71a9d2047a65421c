package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const sqlGetSyncState = `SELECT value FROM sync_state WHERE key = ?`

const sqlSetSyncState = `INSERT INTO sync_state (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// GetSyncState returns the value for key, or "" if unset.
func (s *Store) GetSyncState(ctx context.Context, key string) (string, error) {
	var value string

	err := s.syncStateStmts.get.QueryRowContext(ctx, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("%w: get sync state %s: %s", ErrStoreError, key, err)
	}

	return value, nil
}

// SetSyncState upserts a single key/value row.
func (s *Store) SetSyncState(ctx context.Context, key, value string) error {
	if _, err := s.syncStateStmts.set.ExecContext(ctx, key, value); err != nil {
		return fmt.Errorf("%w: set sync state %s: %s", ErrStoreError, key, err)
	}

	return nil
}
