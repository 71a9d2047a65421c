package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/localdrive/driveindex/internal/driveapi"
	"github.com/localdrive/driveindex/internal/index"
)

const (
	defaultPageSize  = 1000
	defaultBatchSize = 500
)

// Engine drives a single full-enumeration crawl.
type Engine struct {
	remote    RemoteLister
	store     *index.Store
	logger    *slog.Logger
	pageSize  int
	batchSize int
	nowFunc   func() time.Time
}

// NewEngine creates a crawl Engine. pageSize and batchSize fall back to
// 1000/500 (the spec's defaults) when zero.
func NewEngine(remote RemoteLister, store *index.Store, logger *slog.Logger, pageSize, batchSize int) *Engine {
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

// Run executes one full crawl: fetch a continuation token anchored before
// enumeration begins, enumerate every visible file, upsert each record and
// its parent edges in committed batches, then persist the continuation
// token and crawl metadata as the final store mutation. onProgress may be
// nil.
func (e *Engine) Run(ctx context.Context, onProgress ProgressFunc) (Progress, error) {
	progress := Progress{Stage: StageInitializing, StartedAt: e.nowFunc()}
	publish(onProgress, progress)

	startToken, err := e.remote.GetStartPageToken(ctx)
	if err != nil {
		return e.fail(progress, onProgress, fmt.Errorf("crawl: fetching start page token: %w", err))
	}

	progress.Stage = StageFetching
	progress.Message = "fetching files"
	publish(onProgress, progress)

	files, err := e.fetchAll(ctx, &progress, onProgress)
	if err != nil {
		return e.fail(progress, onProgress, err)
	}

	progress.TotalFiles = len(files)
	progress.TotalSize = totalSize(files)

	progress.Stage = StageProcessing
	progress.Message = "processing files"
	publish(onProgress, progress)

	if err := e.processAll(ctx, files, &progress, onProgress); err != nil {
		return e.fail(progress, onProgress, err)
	}

	progress.Stage = StageFinalizing
	progress.Message = "recording continuation token"
	publish(onProgress, progress)

	if err := e.finalize(ctx, startToken, progress.TotalFiles); err != nil {
		return e.fail(progress, onProgress, err)
	}

	progress.Stage = StageComplete
	progress.CompletedAt = e.nowFunc()
	progress.Message = fmt.Sprintf("crawl complete: %d files indexed", progress.TotalFiles)
	publish(onProgress, progress)

	return progress, nil
}

func (e *Engine) fetchAll(ctx context.Context, progress *Progress, onProgress ProgressFunc) ([]*driveapi.File, error) {
	var (
		all       []*driveapi.File
		pageToken string
	)

	for {
		page, next, err := e.remote.ListFilesPage(ctx, pageToken, e.pageSize, driveapi.ProjectionFull)
		if err != nil {
			return nil, fmt.Errorf("crawl: listing files: %w", err)
		}

		all = append(all, page...)
		progress.FilesFetched = len(all)
		progress.PagesFetched++
		progress.Message = fmt.Sprintf("fetched %d files (%d pages)", progress.FilesFetched, progress.PagesFetched)
		publish(onProgress, *progress)

		if next == "" {
			return all, nil
		}

		pageToken = next
	}
}

func (e *Engine) processAll(ctx context.Context, files []*driveapi.File, progress *Progress, onProgress ProgressFunc) error {
	for start := 0; start < len(files); start += e.batchSize {
		end := start + e.batchSize
		if end > len(files) {
			end = len(files)
		}

		if err := e.processBatch(ctx, files[start:end]); err != nil {
			return err
		}

		progress.FilesProcessed = end
		progress.Message = fmt.Sprintf("processed %d/%d files", progress.FilesProcessed, progress.TotalFiles)
		publish(onProgress, *progress)
	}

	return nil
}

func (e *Engine) processBatch(ctx context.Context, files []*driveapi.File) error {
	batch, err := e.store.BeginBatch(ctx)
	if err != nil {
		return fmt.Errorf("crawl: beginning batch: %w", err)
	}

	for _, f := range files {
		record := index.FromRemoteFile(f)

		if err := batch.Upsert(ctx, record); err != nil {
			e.logger.Warn("crawl: upsert failed", slog.String("file_id", f.ID), slog.String("error", err.Error()))

			if logErr := batch.LogFileError(ctx, &f.ID, "crawl", err.Error(), e.nowFunc().UTC().Format(time.RFC3339)); logErr != nil {
				batch.Rollback()
				return fmt.Errorf("crawl: logging file error: %w", logErr)
			}

			continue
		}

		if err := batch.ReplaceParents(ctx, f.ID, f.Parents); err != nil {
			e.logger.Warn("crawl: replace parents failed", slog.String("file_id", f.ID), slog.String("error", err.Error()))

			if logErr := batch.LogFileError(ctx, &f.ID, "crawl", err.Error(), e.nowFunc().UTC().Format(time.RFC3339)); logErr != nil {
				batch.Rollback()
				return fmt.Errorf("crawl: logging file error: %w", logErr)
			}
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("crawl: committing batch: %w", err)
	}

	return nil
}

// finalize records crawl metadata and the continuation token as a single
// atomic transaction. The continuation token is written last within that
// transaction: per spec.md §5 it is the linearization point a fresh crawl
// publishes to, so everything else this crawl produced must already be
// visible in the same commit before the token makes that data reachable by
// a subsequent sync.
func (e *Engine) finalize(ctx context.Context, startToken string, totalFiles int) error {
	now := e.nowFunc().UTC().Format(time.RFC3339)

	batch, err := e.store.BeginBatch(ctx)
	if err != nil {
		return fmt.Errorf("crawl: beginning finalize batch: %w", err)
	}

	if err := batch.SetSyncState(ctx, index.KeyLastFullCrawl, now); err != nil {
		batch.Rollback()
		return err
	}

	if err := batch.SetSyncState(ctx, index.KeyLastSyncTime, now); err != nil {
		batch.Rollback()
		return err
	}

	if err := batch.SetSyncState(ctx, index.KeyFileCount, fmt.Sprintf("%d", totalFiles)); err != nil {
		batch.Rollback()
		return err
	}

	if err := batch.SetSyncState(ctx, index.KeyStartPageToken, startToken); err != nil {
		batch.Rollback()
		return err
	}

	return batch.Commit()
}

// totalSize sums the size of every file that reports one; folders and
// Google-native documents carry a nil Size and contribute nothing.
func totalSize(files []*driveapi.File) int64 {
	var sum int64

	for _, f := range files {
		if f.Size != nil {
			sum += *f.Size
		}
	}

	return sum
}

func (e *Engine) fail(progress Progress, onProgress ProgressFunc, err error) (Progress, error) {
	progress.Stage = StageError
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
