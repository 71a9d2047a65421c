package driveapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/abc123", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"abc123","name":"folder","mimeType":"application/vnd.google-apps.folder","parents":["root"]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	f, err := client.GetFile(context.Background(), "abc123", ProjectionFull)
	require.NoError(t, err)
	assert.Equal(t, "abc123", f.ID)
	assert.True(t, f.IsFolder())
	assert.Equal(t, []string{"root"}, f.Parents)
}

func TestGetFile_MinimalProjection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id,modifiedTime", r.URL.Query().Get("fields"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"abc123","modifiedTime":"2026-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	f, err := client.GetFile(context.Background(), "abc123", ProjectionMinimal)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01T00:00:00Z", f.ModifiedTime)
}
