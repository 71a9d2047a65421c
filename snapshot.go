package driveindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localdrive/driveindex/internal/cache"
	"github.com/localdrive/driveindex/internal/crawl"
	"github.com/localdrive/driveindex/internal/deltasync"
	"github.com/localdrive/driveindex/internal/index"
	"github.com/localdrive/driveindex/internal/query"
	"github.com/localdrive/driveindex/internal/scheduler"
)

// IndexSnapshot is the full-index payload behind GetCachedSnapshot and
// GetIndexData: every row currently in the store plus its derived
// parent-to-children map, as of GeneratedAt.
type IndexSnapshot struct {
	Files       []*index.FileRecord
	ChildrenMap map[string][]string
	GeneratedAt time.Time
}

// buildSnapshot reads every row live from the store and derives the
// children map from it. Trashed and removed rows are included; every
// downstream view (query, analytics, health) filters them as needed.
func (s *Service) buildSnapshot(ctx context.Context) (*IndexSnapshot, error) {
	files, err := s.store.GetAllFiles(ctx, true, true)
	if err != nil {
		return nil, err
	}

	childrenMap, err := query.BuildChildrenMap(files, func(id string) ([]string, error) {
		return s.store.GetParents(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return &IndexSnapshot{Files: files, ChildrenMap: childrenMap, GeneratedAt: time.Now()}, nil
}

// refreshSnapshotCache rebuilds the full-index snapshot from the store and
// writes it to the primary full_scan cache, then gives the scheduler a
// chance to (re)start analytics compute now that a fresh primary snapshot
// exists. Called by the crawl/sync cache runners after a writer job
// completes.
func (s *Service) refreshSnapshotCache(ctx context.Context) error {
	snap, err := s.buildSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("driveindex: building snapshot: %w", err)
	}

	meta := cache.PrimaryMeta{
		Timestamp:    snap.GeneratedAt,
		CacheVersion: snapshotCacheVersion,
		FileCount:    len(snap.Files),
	}

	if err := s.cache.SavePrimary(cache.FullScan, snap, meta); err != nil {
		return fmt.Errorf("driveindex: saving snapshot cache: %w", err)
	}

	return s.policy.MaybeStartAnalytics(ctx, meta)
}

// GetCachedSnapshot returns the cached full-index snapshot if it passes
// the two-tier validity rule (fresh enough, or the remote confirms nothing
// changed since it was written). Returns ErrNotFound on a miss or on a
// stale cache the caller should trigger a fresh crawl/sync to replace.
func (s *Service) GetCachedSnapshot(ctx context.Context) (*IndexSnapshot, error) {
	var snap IndexSnapshot

	meta, err := s.cache.LoadPrimary(cache.FullScan, &snap)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if !cache.ValidatePrimary(ctx, meta, s.fullTTL(), time.Now(), s.client) {
		return nil, ErrNotFound
	}

	return &snap, nil
}

// GetIndexData builds a snapshot live from the store, bypassing the cache
// entirely. Returns ErrNotFound if the store holds no rows yet (no crawl
// has ever completed).
func (s *Service) GetIndexData(ctx context.Context) (*IndexSnapshot, error) {
	count, err := s.store.FileCount(ctx)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return nil, ErrNotFound
	}

	return s.buildSnapshot(ctx)
}

// crawlCacheRunner wraps a scheduler.CrawlRunner (normally a *crawl.Engine)
// to also refresh the primary snapshot cache (and, transitively, kick off
// analytics) once the underlying crawl succeeds. Wrapping the interface
// rather than the concrete engine lets tests inject a fake runner without
// standing up a real remote.
type crawlCacheRunner struct {
	engine scheduler.CrawlRunner
	svc    *Service
}

func (r *crawlCacheRunner) Run(ctx context.Context, onProgress crawl.ProgressFunc) (crawl.Progress, error) {
	progress, err := r.engine.Run(ctx, onProgress)
	if err != nil {
		return progress, err
	}

	if cerr := r.svc.refreshSnapshotCache(ctx); cerr != nil {
		r.svc.logger.Error("refreshing snapshot cache after crawl", "error", cerr)
	}

	return progress, nil
}

// syncCacheRunner is the deltasync equivalent of crawlCacheRunner.
type syncCacheRunner struct {
	engine scheduler.SyncRunner
	svc    *Service
}

func (r *syncCacheRunner) Run(ctx context.Context, onProgress deltasync.ProgressFunc) (deltasync.Progress, error) {
	progress, err := r.engine.Run(ctx, onProgress)
	if err != nil {
		return progress, err
	}

	if cerr := r.svc.refreshSnapshotCache(ctx); cerr != nil {
		r.svc.logger.Error("refreshing snapshot cache after sync", "error", cerr)
	}

	return progress, nil
}
