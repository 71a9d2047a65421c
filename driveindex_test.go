package driveindex

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/localdrive/driveindex/internal/cache"
	"github.com/localdrive/driveindex/internal/config"
	"github.com/localdrive/driveindex/internal/crawl"
	"github.com/localdrive/driveindex/internal/deltasync"
	"github.com/localdrive/driveindex/internal/driveapi"
	"github.com/localdrive/driveindex/internal/index"
	"github.com/localdrive/driveindex/internal/jobs"
	"github.com/localdrive/driveindex/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemoteClient stands in for *driveapi.Client wherever the facade
// talks to the remote directly (GetOverview, cache validity probing).
type fakeRemoteClient struct {
	overview    *driveapi.AccountOverview
	overviewErr error
	changed     bool
	changedErr  error
	aboutCalls  int
}

func (f *fakeRemoteClient) About(ctx context.Context) (*driveapi.AccountOverview, error) {
	f.aboutCalls++
	return f.overview, f.overviewErr
}

func (f *fakeRemoteClient) HasChangedSince(ctx context.Context, since time.Time) (bool, error) {
	return f.changed, f.changedErr
}

// fakeCrawlRunner and fakeSyncRunner satisfy scheduler.CrawlRunner /
// scheduler.SyncRunner without needing a real remote.
type fakeCrawlRunner struct {
	err   error
	calls int
}

func (f *fakeCrawlRunner) Run(ctx context.Context, onProgress crawl.ProgressFunc) (crawl.Progress, error) {
	f.calls++
	return crawl.Progress{}, f.err
}

type fakeSyncRunner struct {
	err   error
	calls int
}

func (f *fakeSyncRunner) Run(ctx context.Context, onProgress deltasync.ProgressFunc) (deltasync.Progress, error) {
	f.calls++
	return deltasync.Progress{}, f.err
}

type testService struct {
	*Service
	crawlRunner *fakeCrawlRunner
	syncRunner  *fakeSyncRunner
	remote      *fakeRemoteClient
}

func newTestService(t *testing.T) *testService {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	store, err := index.NewStore(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cacheCoord := cache.New(t.TempDir(), logger)
	registry := jobs.NewRegistry(0, logger)
	remote := &fakeRemoteClient{}

	svc := &Service{
		cfg:      testConfig(),
		client:   remote,
		store:    store,
		cache:    cacheCoord,
		registry: registry,
		logger:   logger,
	}

	crawlRunner := &fakeCrawlRunner{}
	syncRunner := &fakeSyncRunner{}

	svc.policy = scheduler.NewPolicy(
		store,
		registry,
		cacheCoord,
		&crawlCacheRunner{engine: crawlRunner, svc: svc},
		&syncCacheRunner{engine: syncRunner, svc: svc},
		svc.computeAnalytics,
		logger,
	)

	return &testService{Service: svc, crawlRunner: crawlRunner, syncRunner: syncRunner, remote: remote}
}

func upsertFile(t *testing.T, store *index.Store, r *index.FileRecord) {
	t.Helper()

	require.NoError(t, store.Upsert(context.Background(), r))
	require.NoError(t, store.ReplaceParents(context.Background(), r.ID, r.Parents))
}

func sizePtr(n int64) *int64 { return &n }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.DataDir = "unused"
	cfg.CacheDir = "unused"

	return cfg
}

func TestStartCrawl_DispatchesAndRefreshesCache(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	upsertFile(t, ts.store, &index.FileRecord{ID: "f1", Name: "one", MimeType: "text/plain", Size: sizePtr(10)})

	id, err := ts.StartCrawl(ctx, true)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		rec, err := ts.GetJobStatus(id)
		return err == nil && rec.Status == jobs.StatusComplete
	}, time.Second, time.Millisecond)

	assert.Equal(t, 1, ts.crawlRunner.calls)

	snap, err := ts.GetCachedSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Files, 1)
}

func TestStartCrawl_ShortCircuitsOnValidCache(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	meta := cache.PrimaryMeta{Timestamp: time.Now(), CacheVersion: snapshotCacheVersion, FileCount: 0}
	require.NoError(t, ts.cache.SavePrimary(cache.FullScan, &IndexSnapshot{GeneratedAt: meta.Timestamp}, meta))

	id, err := ts.StartCrawl(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Zero(t, ts.crawlRunner.calls)
}

func TestStartSync_RoutesToSyncRunner(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	require.NoError(t, ts.store.SetSyncState(ctx, index.KeyStartPageToken, "tok-1"))

	id, err := ts.StartSync(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		rec, err := ts.GetJobStatus(id)
		return err == nil && rec.Status == jobs.StatusComplete
	}, time.Second, time.Millisecond)

	assert.Equal(t, 1, ts.syncRunner.calls)
	assert.Zero(t, ts.crawlRunner.calls)
}

func TestStartSync_NeedsFullCrawlRoutesToCrawlRunner(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	id, err := ts.StartSync(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		rec, err := ts.GetJobStatus(id)
		return err == nil && rec.Status == jobs.StatusComplete
	}, time.Second, time.Millisecond)

	assert.Equal(t, 1, ts.crawlRunner.calls)
	assert.Equal(t, 1, ts.syncRunner.calls)
}

func TestGetJobStatus_UnknownID(t *testing.T) {
	ts := newTestService(t)

	_, err := ts.GetJobStatus("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetOverview_FetchesAndCaches(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	ts.remote.overview = &driveapi.AccountOverview{User: driveapi.AccountUser{DisplayName: "Ada"}}

	overview, err := ts.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", overview.User.DisplayName)
	assert.Equal(t, 1, ts.remote.aboutCalls)

	ts.remote.changed = false

	overview, err = ts.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", overview.User.DisplayName)
	assert.Equal(t, 1, ts.remote.aboutCalls, "second call should be served from cache")
}

func TestGetIndexData_EmptyStoreReturnsNotFound(t *testing.T) {
	ts := newTestService(t)

	_, err := ts.GetIndexData(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetIndexData_ReturnsLiveRows(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	upsertFile(t, ts.store, &index.FileRecord{ID: "f1", Name: "one", MimeType: "text/plain"})

	snap, err := ts.GetIndexData(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Files, 1)
}

func TestGetDuplicates_GroupsBySizeAndMD5(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	upsertFile(t, ts.store, &index.FileRecord{ID: "f1", Name: "a", MimeType: "text/plain", Size: sizePtr(100), MD5: "abc"})
	upsertFile(t, ts.store, &index.FileRecord{ID: "f2", Name: "b", MimeType: "text/plain", Size: sizePtr(100), MD5: "abc"})

	groups, err := ts.GetDuplicates(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count)
}

func TestGetHealth_ReportsCleanIndex(t *testing.T) {
	ts := newTestService(t)

	result, err := ts.GetHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestGetAnalyticsView_NotReadyTriggersCompute(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	upsertFile(t, ts.store, &index.FileRecord{ID: "f1", Name: "one", MimeType: "text/plain", Size: sizePtr(10)})
	require.NoError(t, ts.refreshSnapshotCache(ctx))

	_, err := ts.GetAnalyticsView(ctx, ViewDuplicates, 0, 0, "", "")
	require.ErrorIs(t, err, ErrNotReady)

	require.Eventually(t, func() bool {
		return ts.GetAnalyticsStatus().Status == jobs.AnalyticsReady
	}, time.Second, time.Millisecond)

	view, err := ts.GetAnalyticsView(ctx, ViewDuplicates, 0, 0, "", "")
	require.NoError(t, err)
	assert.NotNil(t, view)
}

func TestGetAnalyticsView_UnknownNameIsValidationError(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	primaryMeta := cache.PrimaryMeta{Timestamp: time.Now(), CacheVersion: snapshotCacheVersion, FileCount: 0}
	require.NoError(t, ts.cache.SavePrimary(cache.FullScan, &IndexSnapshot{}, primaryMeta))

	fileCount := primaryMeta.FileCount
	derivedMeta := cache.DerivedMeta{
		SourceCacheTimestamp: primaryMeta.Timestamp,
		SourceCacheVersion:   primaryMeta.CacheVersion,
		SourceFileCount:      &fileCount,
	}
	require.NoError(t, ts.cache.SaveDerived(struct{}{}, derivedMeta))

	_, err := ts.GetAnalyticsView(ctx, "nonsense", 0, 0, "", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestClearCache_RemovesNamedCache(t *testing.T) {
	ts := newTestService(t)

	meta := cache.PrimaryMeta{Timestamp: time.Now(), CacheVersion: 1}
	require.NoError(t, ts.cache.SavePrimary(cache.FullScan, &IndexSnapshot{}, meta))

	require.NoError(t, ts.ClearCache(cache.FullScan))

	_, err := ts.GetCachedSnapshot(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClearIndex_TruncatesStoreAndResetsAnalytics(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	upsertFile(t, ts.store, &index.FileRecord{ID: "f1", Name: "one", MimeType: "text/plain"})

	require.NoError(t, ts.ClearIndex(ctx))

	count, err := ts.store.FileCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, jobs.AnalyticsMissing, ts.GetAnalyticsStatus().Status)
}

func TestSliceWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{2, 3}, sliceWindow(items, 2, 1))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, sliceWindow(items, 0, 0))
	assert.Nil(t, sliceWindow(items, 2, 10))
}
