package driveindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localdrive/driveindex/internal/analytics"
	"github.com/localdrive/driveindex/internal/cache"
	"github.com/localdrive/driveindex/internal/jobs"
)

// View names recognized by GetAnalyticsView, matching the views produced by
// analytics.ComputeAll.
const (
	ViewDuplicates   = "duplicates"
	ViewOrphans      = "orphans"
	ViewDepths       = "depths"
	ViewSemantic     = "semantic"
	ViewAgeSemantic  = "age_semantic"
	ViewTypeSemantic = "type_semantic"
	ViewTypes        = "types"
	ViewTimeline     = "timeline"
	ViewLarge        = "large"
)

// computeAnalytics builds the full derived-analytics bundle from the store
// and persists it to the derived cache, pinned to whatever primary
// snapshot identity is currently on disk. Used both as the scheduler
// policy's AnalyticsRunner and directly by StartAnalytics.
func (s *Service) computeAnalytics(ctx context.Context) (any, error) {
	snap, err := s.buildSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	bundle := analytics.ComputeAll(snap.Files, snap.ChildrenMap, time.Now())

	var discard IndexSnapshot

	primaryMeta, err := s.cache.LoadPrimary(cache.FullScan, &discard)
	if errors.Is(err, cache.ErrCacheMiss) {
		primaryMeta = cache.PrimaryMeta{
			Timestamp:    snap.GeneratedAt,
			CacheVersion: snapshotCacheVersion,
			FileCount:    len(snap.Files),
		}
	} else if err != nil {
		return nil, err
	}

	fileCount := primaryMeta.FileCount
	derivedMeta := cache.DerivedMeta{
		Timestamp:            time.Now(),
		DerivedVersion:       analytics.DerivedVersion,
		SourceCacheTimestamp: primaryMeta.Timestamp,
		SourceCacheVersion:   primaryMeta.CacheVersion,
		SourceFileCount:      &fileCount,
	}

	if err := s.cache.SaveDerived(bundle, derivedMeta); err != nil {
		return nil, fmt.Errorf("driveindex: saving analytics cache: %w", err)
	}

	return bundle, nil
}

// GetAnalyticsStatus returns the current analytics compute state.
func (s *Service) GetAnalyticsStatus() jobs.AnalyticsState {
	return s.registry.GetAnalyticsStatus()
}

// StartAnalytics starts the singleton analytics compute job if one is not
// already running. Returns false as a no-op when compute is already in
// flight.
func (s *Service) StartAnalytics(ctx context.Context) bool {
	return s.registry.StartAnalytics(func() (any, error) {
		return s.computeAnalytics(ctx)
	})
}

// GetAnalyticsView returns one named view from the derived-analytics
// bundle, applying limit/offset (list-shaped views) or a category/file
// type filter (matrix-shaped views) where the view supports it. Returns
// ErrNotReady and (re)starts compute when the derived cache is absent or
// no longer matches the current primary snapshot's identity; returns
// ErrValidation wrapping an unknown view name.
func (s *Service) GetAnalyticsView(ctx context.Context, name string, limit, offset int, category, fileType string) (any, error) {
	var bundle analytics.Bundle

	derivedMeta, err := s.cache.LoadDerived(&bundle)
	stale := errors.Is(err, cache.ErrCacheMiss)

	if err != nil && !stale {
		return nil, err
	}

	if !stale {
		var discard IndexSnapshot

		primaryMeta, perr := s.cache.LoadPrimary(cache.FullScan, &discard)
		if perr != nil && !errors.Is(perr, cache.ErrCacheMiss) {
			return nil, perr
		}

		stale = perr != nil || !derivedMeta.MatchesSource(primaryMeta)
	}

	if stale {
		s.StartAnalytics(ctx)
		return nil, ErrNotReady
	}

	return selectView(bundle, name, limit, offset, category, fileType)
}

func selectView(bundle analytics.Bundle, name string, limit, offset int, category, fileType string) (any, error) {
	switch name {
	case ViewDuplicates:
		return paginateDuplicates(bundle.Duplicates, limit, offset), nil
	case ViewOrphans:
		return paginateOrphans(bundle.Orphans, limit, offset), nil
	case ViewDepths:
		return bundle.Depths, nil
	case ViewSemantic:
		return filterSemantic(bundle.Semantic, category), nil
	case ViewAgeSemantic:
		return bundle.AgeSemantic, nil
	case ViewTypeSemantic:
		return bundle.TypeSemantic, nil
	case ViewTypes:
		return bundle.Types, nil
	case ViewTimeline:
		return bundle.Timeline, nil
	case ViewLarge:
		return paginateLarge(bundle.Large, limit), nil
	default:
		return nil, fmt.Errorf("%w: unknown analytics view %q", ErrValidation, name)
	}
}

func paginateDuplicates(d analytics.Duplicates, limit, offset int) analytics.Duplicates {
	d.Groups = sliceWindow(d.Groups, limit, offset)
	return d
}

func paginateOrphans(o analytics.Orphans, limit, offset int) analytics.Orphans {
	o.Orphans = sliceWindow(o.Orphans, limit, offset)
	return o
}

func paginateLarge(l analytics.LargeLists, limit int) analytics.LargeLists {
	if limit > 0 {
		l.TopFileIDs = sliceWindow(l.TopFileIDs, limit, 0)
		l.TopFolderIDs = sliceWindow(l.TopFolderIDs, limit, 0)
	}

	return l
}

// filterSemantic narrows the per-folder classification view to one
// category when requested, leaving the view unfiltered when category is
// empty.
func filterSemantic(sem analytics.Semantic, category string) analytics.Semantic {
	if category == "" {
		return sem
	}

	folderIDs := sem.CategoryFolderIDs[category]

	filtered := analytics.Semantic{
		FolderCategory:    make(map[string]analytics.FolderCategory, len(folderIDs)),
		Totals:            map[string]analytics.CategoryTotal{category: sem.Totals[category]},
		CategoryFolderIDs: map[string][]string{category: folderIDs},
	}

	for _, id := range folderIDs {
		filtered.FolderCategory[id] = sem.FolderCategory[id]
	}

	return filtered
}

// sliceWindow applies offset then limit to s, clamping both to s's bounds.
// limit <= 0 means no cap.
func sliceWindow[T any](s []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}

	if offset >= len(s) {
		return nil
	}

	s = s[offset:]

	if limit > 0 && limit < len(s) {
		s = s[:limit]
	}

	return s
}
