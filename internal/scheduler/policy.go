// Package scheduler decides which writer job a sync request actually runs
// (full crawl vs incremental sync) and when the derived-analytics job
// should be kicked off, so callers never have to reason about store state
// themselves.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/localdrive/driveindex/internal/cache"
	"github.com/localdrive/driveindex/internal/crawl"
	"github.com/localdrive/driveindex/internal/deltasync"
	"github.com/localdrive/driveindex/internal/index"
	"github.com/localdrive/driveindex/internal/jobs"
)

// CrawlRunner starts a full crawl. Satisfied by *crawl.Engine.
type CrawlRunner interface {
	Run(ctx context.Context, onProgress crawl.ProgressFunc) (crawl.Progress, error)
}

// SyncRunner starts an incremental sync. Satisfied by *deltasync.Engine.
type SyncRunner interface {
	Run(ctx context.Context, onProgress deltasync.ProgressFunc) (deltasync.Progress, error)
}

// AnalyticsRunner computes the derived-analytics bundle and persists it to
// the derived cache, returning whatever payload the caller wants attached
// to the completed job record.
type AnalyticsRunner func(ctx context.Context) (any, error)

// Policy implements spec.md §4.10: SmartSync picks crawl vs sync based on
// store state, and MaybeStartAnalytics enqueues analytics compute whenever
// a writer job just produced a primary snapshot the derived cache no
// longer matches. writerMu keeps crawl and sync jobs from running at the
// same time.
type Policy struct {
	store     *index.Store
	registry  *jobs.Registry
	cache     *cache.Coordinator
	crawl     CrawlRunner
	sync      SyncRunner
	analytics AnalyticsRunner
	logger    *slog.Logger
	writerMu  sync.Mutex
}

// NewPolicy wires a scheduler policy over an already-constructed crawl
// engine, sync engine, job registry, cache coordinator, and analytics
// compute closure.
func NewPolicy(store *index.Store, registry *jobs.Registry, cacheCoord *cache.Coordinator, crawlEngine CrawlRunner, syncEngine SyncRunner, analytics AnalyticsRunner, logger *slog.Logger) *Policy {
	return &Policy{
		store:     store,
		registry:  registry,
		cache:     cacheCoord,
		crawl:     crawlEngine,
		sync:      syncEngine,
		analytics: analytics,
		logger:    logger,
	}
}

// NeedsFullCrawl reports true when no continuation token is stored: the
// store has never completed a crawl, or a sync found the token expired and
// dropped it.
func (p *Policy) NeedsFullCrawl(ctx context.Context) (bool, error) {
	token, err := p.store.GetSyncState(ctx, index.KeyStartPageToken)
	if err != nil {
		return false, err
	}

	return token == "", nil
}

// SmartSync starts a full crawl when forceFull is set or NeedsFullCrawl
// reports true; otherwise it starts an incremental sync. A crawl job runs
// one incremental sync right after a successful crawl, in the same job. A
// sync that finds the token expired drops it, so the next SmartSync runs a
// full crawl. Returns the new job's id. The caller is responsible for
// calling MaybeStartAnalytics once it has written a fresh primary snapshot
// cache from this job's result.
func (p *Policy) SmartSync(ctx context.Context, forceFull bool) (string, error) {
	needsFull, err := p.NeedsFullCrawl(ctx)
	if err != nil {
		return "", err
	}

	if forceFull || needsFull {
		return p.registry.StartScan(func(report jobs.ReportFunc) (any, error) {
			p.writerMu.Lock()
			defer p.writerMu.Unlock()

			// The job completes only after the follow-up sync below.
			crawlReport := func(s jobs.Snapshot) {
				if s.Stage != jobs.StatusComplete {
					report(s)
				}
			}

			progress, err := p.crawl.Run(ctx, adaptCrawlProgress(crawlReport))
			if err != nil {
				return progress, err
			}

			// The crawl's token predates its enumeration, so this sync picks
			// up writes that landed while the crawl ran.
			if _, err := p.sync.Run(ctx, adaptSyncProgress(report)); err != nil {
				return progress, err
			}

			return progress, nil
		}), nil
	}

	return p.registry.StartSync(func(report jobs.ReportFunc) (any, error) {
		p.writerMu.Lock()
		defer p.writerMu.Unlock()

		progress, err := p.sync.Run(ctx, adaptSyncProgress(report))
		if errors.Is(err, deltasync.ErrDeltaTokenExpired) {
			if clearErr := p.store.SetSyncState(ctx, index.KeyStartPageToken, ""); clearErr != nil {
				return progress, errors.Join(err, clearErr)
			}
		}

		return progress, err
	}), nil
}

// MaybeStartAnalytics enqueues analytics compute when the derived cache is
// either absent or no longer matches primary's identity, and analytics
// compute is not already running. Callers invoke this right after writing
// a fresh primary snapshot cache (quick_scan or full_scan).
func (p *Policy) MaybeStartAnalytics(ctx context.Context, primary cache.PrimaryMeta) error {
	if p.registry.GetAnalyticsStatus().Status == jobs.AnalyticsRunning {
		return nil
	}

	var discard any

	derivedMeta, err := p.cache.LoadDerived(&discard)
	if err == nil && derivedMeta.MatchesSource(primary) {
		return nil
	}

	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return err
	}

	p.registry.StartAnalytics(func() (any, error) {
		return p.analytics(ctx)
	})

	return nil
}

func adaptCrawlProgress(report jobs.ReportFunc) crawl.ProgressFunc {
	return func(p crawl.Progress) {
		stage := jobs.Status(p.Stage)
		if p.Stage == crawl.StageInitializing {
			stage = jobs.StatusStarting
		}

		report(jobs.Snapshot{
			Stage:   stage,
			Message: p.Message,
		})
	}
}

func adaptSyncProgress(report jobs.ReportFunc) deltasync.ProgressFunc {
	return func(p deltasync.Progress) {
		stage := jobs.StatusRunning
		if p.Failed {
			stage = jobs.StatusError
		}

		report(jobs.Snapshot{Stage: stage, Message: p.Message})
	}
}
