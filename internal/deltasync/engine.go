package deltasync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/localdrive/driveindex/internal/driveapi"
	"github.com/localdrive/driveindex/internal/index"
)

const (
	defaultPageSize  = 1000
	defaultBatchSize = 100
)

// Engine drives one incremental sync pass: apply every remote change since
// the last recorded continuation token.
type Engine struct {
	remote    ChangesLister
	store     *index.Store
	logger    *slog.Logger
	pageSize  int
	batchSize int
	nowFunc   func() time.Time
}

// NewEngine creates a sync Engine. pageSize and batchSize fall back to
// 1000/100 (the spec's defaults) when zero.
func NewEngine(remote ChangesLister, store *index.Store, logger *slog.Logger, pageSize, batchSize int) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Engine{
		remote:    remote,
		store:     store,
		logger:    logger,
		pageSize:  pageSize,
		batchSize: batchSize,
		nowFunc:   time.Now,
	}
}

// Run pages through the change feed from the store's recorded continuation
// token, applying every change in commit-sized batches, and advances the
// token only after the page span it came from has been durably applied.
// onProgress may be nil.
func (e *Engine) Run(ctx context.Context, onProgress ProgressFunc) (Progress, error) {
	progress := Progress{StartedAt: e.nowFunc()}

	token, err := e.store.GetSyncState(ctx, index.KeyStartPageToken)
	if err != nil {
		return e.fail(progress, onProgress, fmt.Errorf("deltasync: reading continuation token: %w", err))
	}

	if token == "" {
		return e.fail(progress, onProgress, ErrNoContinuationToken)
	}

	for {
		page, err := e.remote.ListChangesPage(ctx, token, e.pageSize)
		if err != nil {
			if isTokenExpired(err) {
				return e.fail(progress, onProgress, ErrDeltaTokenExpired)
			}

			return e.fail(progress, onProgress, fmt.Errorf("deltasync: listing changes: %w", err))
		}

		progress.PagesFetched++

		if err := e.applyChanges(ctx, page.Changes, &progress); err != nil {
			return e.fail(progress, onProgress, err)
		}

		if page.NewStartPageToken != "" {
			if err := e.store.SetSyncState(ctx, index.KeyStartPageToken, page.NewStartPageToken); err != nil {
				return e.fail(progress, onProgress, fmt.Errorf("deltasync: persisting continuation token: %w", err))
			}
		}

		progress.Message = fmt.Sprintf("applied %d changes across %d pages", progress.ChangesApplied, progress.PagesFetched)
		publish(onProgress, progress)

		if page.NextPageToken == "" {
			break
		}

		token = page.NextPageToken
	}

	if err := e.store.SetSyncState(ctx, index.KeyLastSyncTime, e.nowFunc().UTC().Format(time.RFC3339)); err != nil {
		return e.fail(progress, onProgress, fmt.Errorf("deltasync: recording sync time: %w", err))
	}

	progress.CompletedAt = e.nowFunc()
	progress.Message = fmt.Sprintf("sync complete: %d changes applied", progress.ChangesApplied)
	publish(onProgress, progress)

	return progress, nil
}

func (e *Engine) applyChanges(ctx context.Context, changes []driveapi.Change, progress *Progress) error {
	for start := 0; start < len(changes); start += e.batchSize {
		end := start + e.batchSize
		if end > len(changes) {
			end = len(changes)
		}

		if err := e.applyBatch(ctx, changes[start:end], progress); err != nil {
			return err
		}

		progress.ChangesApplied += end - start
	}

	return nil
}

// applyBatch applies one commit-sized slice of changes inside a single
// transaction, classifying each change as an add, update, or removal per
// spec.md §4.5 step 3 (existence is checked, within the same transaction,
// before the upsert that would otherwise obscure it).
func (e *Engine) applyBatch(ctx context.Context, changes []driveapi.Change, progress *Progress) error {
	batch, err := e.store.BeginBatch(ctx)
	if err != nil {
		return fmt.Errorf("deltasync: beginning batch: %w", err)
	}

	for _, ch := range changes {
		if ch.Removed || ch.File == nil {
			if err := batch.MarkRemoved(ctx, ch.FileID); err != nil {
				batch.Rollback()
				return fmt.Errorf("deltasync: marking removed %s: %w", ch.FileID, err)
			}

			progress.FilesRemoved++

			continue
		}

		existing, err := batch.GetByID(ctx, ch.File.ID)
		if err != nil {
			batch.Rollback()
			return fmt.Errorf("deltasync: checking existing %s: %w", ch.File.ID, err)
		}

		record := index.FromRemoteFile(ch.File)

		if err := batch.Upsert(ctx, record); err != nil {
			if logErr := batch.LogFileError(ctx, &ch.FileID, "sync", err.Error(), e.nowFunc().UTC().Format(time.RFC3339)); logErr != nil {
				batch.Rollback()
				return fmt.Errorf("deltasync: logging file error: %w", logErr)
			}

			continue
		}

		if existing == nil {
			progress.FilesAdded++
		} else {
			progress.FilesUpdated++
		}

		if err := batch.ReplaceParents(ctx, ch.File.ID, ch.File.Parents); err != nil {
			if logErr := batch.LogFileError(ctx, &ch.FileID, "sync", err.Error(), e.nowFunc().UTC().Format(time.RFC3339)); logErr != nil {
				batch.Rollback()
				return fmt.Errorf("deltasync: logging file error: %w", logErr)
			}
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("deltasync: committing batch: %w", err)
	}

	return nil
}

func (e *Engine) fail(progress Progress, onProgress ProgressFunc, err error) (Progress, error) {
	progress.Failed = true
	progress.Message = err.Error()
	progress.CompletedAt = e.nowFunc()
	publish(onProgress, progress)

	return progress, err
}

func publish(onProgress ProgressFunc, progress Progress) {
	if onProgress != nil {
		onProgress(progress)
	}
}

// isTokenExpired reports whether err represents the remote signaling that a
// continuation token is no longer valid (HTTP 410 Gone).
func isTokenExpired(err error) bool {
	var remoteErr *driveapi.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode == http.StatusGone
	}

	return false
}
