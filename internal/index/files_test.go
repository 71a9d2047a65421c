package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(id, name string) *FileRecord {
	return &FileRecord{
		ID:           id,
		Name:         name,
		MimeType:     "text/plain",
		CreatedTime:  "2026-01-01T00:00:00Z",
		ModifiedTime: "2026-01-01T00:00:00Z",
		RawJSON:      `{"id":"` + id + `"}`,
	}
}

func TestUpsert_InsertAndUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := testRecord("f1", "original")
	require.NoError(t, store.Upsert(ctx, r))

	got, err := store.GetByID(ctx, "f1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "original", got.Name)
	assert.False(t, got.Removed)

	r2 := testRecord("f1", "renamed")
	require.NoError(t, store.Upsert(ctx, r2))

	got, err = store.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
}

func TestUpsert_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := testRecord("f1", "a")
	require.NoError(t, store.Upsert(ctx, r))
	require.NoError(t, store.Upsert(ctx, r))

	n, err := store.FileCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsert_ClearsRemovedOnReinsertion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := testRecord("f1", "a")
	require.NoError(t, store.Upsert(ctx, r))
	require.NoError(t, store.MarkRemoved(ctx, "f1"))

	got, err := store.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.True(t, got.Removed)

	require.NoError(t, store.Upsert(ctx, r))

	got, err = store.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.False(t, got.Removed)
}

func TestMarkRemoved_DropsEdges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testRecord("parent1", "p")))
	require.NoError(t, store.Upsert(ctx, testRecord("f1", "a")))
	require.NoError(t, store.ReplaceParents(ctx, "f1", []string{"parent1"}))

	parents, err := store.GetParents(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, []string{"parent1"}, parents)

	require.NoError(t, store.MarkRemoved(ctx, "f1"))

	parents, err = store.GetParents(ctx, "f1")
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestReplaceParents_MultiParent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testRecord("p1", "p1")))
	require.NoError(t, store.Upsert(ctx, testRecord("p2", "p2")))
	require.NoError(t, store.Upsert(ctx, testRecord("f1", "shared")))
	require.NoError(t, store.ReplaceParents(ctx, "f1", []string{"p1", "p2"}))

	children1, err := store.GetChildren(ctx, "p1")
	require.NoError(t, err)
	assert.Contains(t, children1, "f1")

	children2, err := store.GetChildren(ctx, "p2")
	require.NoError(t, err)
	assert.Contains(t, children2, "f1")
}

func TestReplaceParents_FullReplaceNotAccumulate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testRecord("p1", "p1")))
	require.NoError(t, store.Upsert(ctx, testRecord("p2", "p2")))
	require.NoError(t, store.Upsert(ctx, testRecord("f1", "f1")))

	require.NoError(t, store.ReplaceParents(ctx, "f1", []string{"p1"}))
	require.NoError(t, store.ReplaceParents(ctx, "f1", []string{"p2"}))

	parents, err := store.GetParents(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, parents)
}

func TestGetByID_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAllFiles_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	live := testRecord("live", "live")
	trashed := testRecord("trashed", "trashed")
	trashed.Trashed = true

	require.NoError(t, store.Upsert(ctx, live))
	require.NoError(t, store.Upsert(ctx, trashed))
	require.NoError(t, store.Upsert(ctx, testRecord("removed", "removed")))
	require.NoError(t, store.MarkRemoved(ctx, "removed"))

	active, err := store.GetAllFiles(ctx, false, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "live", active[0].ID)

	withTrashed, err := store.GetAllFiles(ctx, true, false)
	require.NoError(t, err)
	assert.Len(t, withTrashed, 2)

	everything, err := store.GetAllFiles(ctx, true, true)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestFileCount_ExcludesRemoved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testRecord("f1", "a")))
	require.NoError(t, store.Upsert(ctx, testRecord("f2", "b")))
	require.NoError(t, store.MarkRemoved(ctx, "f2"))

	n, err := store.FileCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBatch_CommitsAtomically(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b, err := store.BeginBatch(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		require.NoError(t, b.Upsert(ctx, testRecord(id, id)))
		require.NoError(t, b.ReplaceParents(ctx, id, nil))
	}

	require.NoError(t, b.Commit())

	n, err := store.FileCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestBatch_RollbackDiscardsWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b, err := store.BeginBatch(ctx)
	require.NoError(t, err)
	require.NoError(t, b.Upsert(ctx, testRecord("f1", "a")))
	require.NoError(t, b.Rollback())

	n, err := store.FileCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBatch_GetByID_SeesRowWrittenEarlierInSameBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b, err := store.BeginBatch(ctx)
	require.NoError(t, err)

	got, err := b.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, b.Upsert(ctx, testRecord("f1", "a")))

	got, err = b.GetByID(ctx, "f1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "f1", got.ID)

	require.NoError(t, b.Commit())
}

func TestBatch_SetSyncState_RolledBackWithRestOfBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b, err := store.BeginBatch(ctx)
	require.NoError(t, err)
	require.NoError(t, b.SetSyncState(ctx, KeyStartPageToken, "tok-1"))
	require.NoError(t, b.Rollback())

	value, err := store.GetSyncState(ctx, KeyStartPageToken)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestBatch_SetSyncState_CommitsWithRestOfBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b, err := store.BeginBatch(ctx)
	require.NoError(t, err)
	require.NoError(t, b.Upsert(ctx, testRecord("f1", "a")))
	require.NoError(t, b.SetSyncState(ctx, KeyStartPageToken, "tok-1"))
	require.NoError(t, b.Commit())

	value, err := store.GetSyncState(ctx, KeyStartPageToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", value)
}

func TestClearIndex_PreservesSchemaVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testRecord("f1", "a")))
	require.NoError(t, store.ReplaceParents(ctx, "f1", []string{"root"}))
	require.NoError(t, store.SetSyncState(ctx, KeyStartPageToken, "tok"))

	require.NoError(t, store.ClearIndex(ctx))

	n, err := store.FileCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	version, err := store.GetSyncState(ctx, KeySchemaVersion)
	require.NoError(t, err)
	assert.Equal(t, "1", version)

	token, err := store.GetSyncState(ctx, KeyStartPageToken)
	require.NoError(t, err)
	assert.Empty(t, token)
}
