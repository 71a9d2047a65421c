package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Batch bounds a sequence of writes to a single SQL transaction, reusing
// the Store's prepared statement plans via tx.StmtContext. Crawl and sync
// open one Batch per commit window (500 records during crawl, 100 during
// sync per the configured batch sizes) and call Commit at the boundary.
type Batch struct {
	tx    *sql.Tx
	store *Store
}

// BeginBatch starts a new transaction-scoped batch.
func (s *Store) BeginBatch(ctx context.Context) (*Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin batch: %s", ErrStoreError, err)
	}

	return &Batch{tx: tx, store: s}, nil
}

// Upsert is the transaction-scoped equivalent of Store.Upsert.
func (b *Batch) Upsert(ctx context.Context, r *FileRecord) error {
	if _, err := b.tx.StmtContext(ctx, b.store.fileStmts.upsert).ExecContext(ctx, upsertArgs(r)...); err != nil {
		return fmt.Errorf("%w: upsert %s: %s", ErrStoreError, r.ID, err)
	}

	return nil
}

// GetByID is the transaction-scoped equivalent of Store.GetByID, used by
// callers that must distinguish an add from an update within the same
// batch that will apply it.
func (b *Batch) GetByID(ctx context.Context, id string) (*FileRecord, error) {
	row := b.tx.StmtContext(ctx, b.store.fileStmts.getByID).QueryRowContext(ctx, id)

	r, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: get by id %s: %s", ErrStoreError, id, err)
	}

	return r, nil
}

// ReplaceParents is the transaction-scoped equivalent of Store.ReplaceParents.
func (b *Batch) ReplaceParents(ctx context.Context, childID string, parentIDs []string) error {
	if _, err := b.tx.StmtContext(ctx, b.store.fileStmts.deleteParents).ExecContext(ctx, childID); err != nil {
		return fmt.Errorf("%w: replace parents for %s: %s", ErrStoreError, childID, err)
	}

	insert := b.tx.StmtContext(ctx, b.store.fileStmts.insertParent)

	for _, parentID := range parentIDs {
		if _, err := insert.ExecContext(ctx, parentID, childID); err != nil {
			return fmt.Errorf("%w: insert parent edge %s->%s: %s", ErrStoreError, parentID, childID, err)
		}
	}

	return nil
}

// MarkRemoved is the transaction-scoped equivalent of Store.MarkRemoved.
func (b *Batch) MarkRemoved(ctx context.Context, id string) error {
	if _, err := b.tx.StmtContext(ctx, b.store.fileStmts.markRemoved).ExecContext(ctx, id); err != nil {
		return fmt.Errorf("%w: mark removed %s: %s", ErrStoreError, id, err)
	}

	if _, err := b.tx.StmtContext(ctx, b.store.fileStmts.deleteParents).ExecContext(ctx, id); err != nil {
		return fmt.Errorf("%w: drop edges for removed %s: %s", ErrStoreError, id, err)
	}

	return nil
}

// LogFileError is the transaction-scoped equivalent of Store.LogFileError.
func (b *Batch) LogFileError(ctx context.Context, fileID *string, stage, errMsg, createdTime string) error {
	if _, err := b.tx.StmtContext(ctx, b.store.errorStmts.log).ExecContext(ctx, fileID, stage, errMsg, createdTime); err != nil {
		return fmt.Errorf("%w: log file error: %s", ErrStoreError, err)
	}

	return nil
}

// SetSyncState is the transaction-scoped equivalent of Store.SetSyncState,
// letting a caller fold sync-state writes into the same transaction as the
// file writes they must be atomic with.
func (b *Batch) SetSyncState(ctx context.Context, key, value string) error {
	if _, err := b.tx.StmtContext(ctx, b.store.syncStateStmts.set).ExecContext(ctx, key, value); err != nil {
		return fmt.Errorf("%w: set sync state %s: %s", ErrStoreError, key, err)
	}

	return nil
}

// Commit commits the batch's transaction.
func (b *Batch) Commit() error {
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit batch: %s", ErrStoreError, err)
	}

	return nil
}

// Rollback aborts the batch's transaction.
func (b *Batch) Rollback() error {
	return b.tx.Rollback()
}
