package crawl

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/localdrive/driveindex/internal/driveapi"
	"github.com/localdrive/driveindex/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	startToken    string
	startTokenErr error
	pages         [][]*driveapi.File
	listErrOnPage int // 1-indexed; 0 means never
	calls         int

	tokenCalls       int
	listCallsAtToken int // value of calls when GetStartPageToken ran
}

func (f *fakeRemote) GetStartPageToken(ctx context.Context) (string, error) {
	f.tokenCalls++
	f.listCallsAtToken = f.calls

	return f.startToken, f.startTokenErr
}

func (f *fakeRemote) ListFilesPage(ctx context.Context, pageToken string, pageSize int, proj driveapi.Projection) ([]*driveapi.File, string, error) {
	f.calls++

	if f.listErrOnPage == f.calls {
		return nil, "", errors.New("remote unavailable")
	}

	idx := f.calls - 1
	if idx >= len(f.pages) {
		return nil, "", nil
	}

	page := f.pages[idx]

	next := ""
	if idx+1 < len(f.pages) {
		next = "page-token"
	}

	return page, next, nil
}

func newTestStore(t *testing.T) *index.Store {
	t.Helper()

	store, err := index.NewStore(context.Background(), ":memory:", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func sizePtr(n int64) *int64 { return &n }

func TestEngine_Run_Success(t *testing.T) {
	remote := &fakeRemote{
		startToken: "start-tok-1",
		pages: [][]*driveapi.File{
			{
				{ID: "f1", Name: "one.txt", Size: sizePtr(10), Parents: []string{"root"}, RawJSON: []byte(`{}`)},
				{ID: "f2", Name: "two.txt", Size: sizePtr(20), Parents: []string{"root"}, RawJSON: []byte(`{}`)},
			},
			{
				{ID: "f3", Name: "three.txt", Size: sizePtr(30), Parents: []string{"f1"}, RawJSON: []byte(`{}`)},
			},
		},
	}

	store := newTestStore(t)
	engine := NewEngine(remote, store, slog.New(slog.DiscardHandler), 2, 2)

	var stages []Stage
	progress, err := engine.Run(context.Background(), func(p Progress) {
		stages = append(stages, p.Stage)
	})

	require.NoError(t, err)
	assert.Equal(t, StageComplete, progress.Stage)
	assert.Equal(t, 3, progress.TotalFiles)
	assert.Equal(t, int64(60), progress.TotalSize)
	assert.Equal(t, 3, progress.FilesProcessed)
	assert.Equal(t, 2, progress.PagesFetched)
	assert.Contains(t, stages, StageInitializing)
	assert.Contains(t, stages, StageFetching)
	assert.Contains(t, stages, StageProcessing)
	assert.Contains(t, stages, StageFinalizing)
	assert.Contains(t, stages, StageComplete)

	count, err := store.FileCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	token, err := store.GetSyncState(context.Background(), index.KeyStartPageToken)
	require.NoError(t, err)
	assert.Equal(t, "start-tok-1", token)

	fileCount, err := store.GetSyncState(context.Background(), index.KeyFileCount)
	require.NoError(t, err)
	assert.Equal(t, "3", fileCount)
}

func TestEngine_Run_StartTokenFetchedBeforeEnumeration(t *testing.T) {
	remote := &fakeRemote{
		startToken: "anchor-tok",
		pages: [][]*driveapi.File{
			{{ID: "f1", RawJSON: []byte(`{}`)}},
		},
	}

	store := newTestStore(t)
	engine := NewEngine(remote, store, slog.New(slog.DiscardHandler), 10, 10)

	var sawFetchingBeforeToken bool
	_, err := engine.Run(context.Background(), func(p Progress) {
		if p.Stage == StageFetching {
			sawFetchingBeforeToken = true
		}
	})

	require.NoError(t, err)
	assert.True(t, sawFetchingBeforeToken)
	assert.Equal(t, 1, remote.tokenCalls)
	assert.Equal(t, 0, remote.listCallsAtToken)

	token, err := store.GetSyncState(context.Background(), index.KeyStartPageToken)
	require.NoError(t, err)
	assert.Equal(t, "anchor-tok", token)
}

func TestEngine_Run_StartTokenFailurePreventsEnumeration(t *testing.T) {
	remote := &fakeRemote{
		startTokenErr: errors.New("auth expired"),
		pages:         [][]*driveapi.File{{{ID: "f1", RawJSON: []byte(`{}`)}}},
	}

	store := newTestStore(t)
	engine := NewEngine(remote, store, slog.New(slog.DiscardHandler), 10, 10)

	progress, err := engine.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, StageError, progress.Stage)
	assert.Equal(t, 0, remote.calls)
}

func TestEngine_Run_ListErrorStopsAndReportsError(t *testing.T) {
	remote := &fakeRemote{
		startToken:    "tok",
		pages:         [][]*driveapi.File{{{ID: "f1", RawJSON: []byte(`{}`)}}},
		listErrOnPage: 1,
	}

	store := newTestStore(t)
	engine := NewEngine(remote, store, slog.New(slog.DiscardHandler), 10, 10)

	progress, err := engine.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, StageError, progress.Stage)

	token, err := store.GetSyncState(context.Background(), index.KeyStartPageToken)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestEngine_Run_MultipleBatchesAcrossPages(t *testing.T) {
	remote := &fakeRemote{
		startToken: "tok",
		pages: [][]*driveapi.File{
			{{ID: "f1", RawJSON: []byte(`{}`)}, {ID: "f2", RawJSON: []byte(`{}`)}, {ID: "f3", RawJSON: []byte(`{}`)}},
		},
	}

	store := newTestStore(t)
	// batchSize smaller than the page so processAll spans two commits.
	engine := NewEngine(remote, store, slog.New(slog.DiscardHandler), 10, 2)

	progress, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, StageComplete, progress.Stage)

	for _, id := range []string{"f1", "f2", "f3"} {
		rec, err := store.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.NotNil(t, rec)
	}
}
