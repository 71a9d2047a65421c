package driveapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopSleep returns immediately so retry tests don't actually wait.
func noopSleep(_ context.Context, _ time.Duration) error {
	return nil
}

// staticToken is a fixed TokenSource for tests.
type staticToken string

func (t staticToken) Token() (string, error) {
	return string(t), nil
}

// failingToken always errors, for exercising the auth-failure path.
type failingToken struct{}

func (failingToken) Token() (string, error) {
	return "", errors.New("token error")
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()

	c := NewClient(url, http.DefaultClient, staticToken("test-token"), nil)
	c.sleepFunc = noopSleep

	return c
}

func TestListFilesPage_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"files":[{"id":"f1","name":"a.txt","mimeType":"text/plain","size":"42"}],"nextPageToken":"tok2"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	files, next, err := client.ListFilesPage(context.Background(), "", 100, ProjectionFull)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "f1", files[0].ID)
	require.NotNil(t, files[0].Size)
	assert.Equal(t, int64(42), *files[0].Size)
	assert.Equal(t, "tok2", next)
}

func TestListFilesPage_AuthErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, _, err := client.ListFilesPage(context.Background(), "", 100, ProjectionFull)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusForbidden, remoteErr.StatusCode)
}

func TestListFilesPage_TokenSourceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("request should not reach the server when token acquisition fails")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, http.DefaultClient, failingToken{}, nil)
	client.sleepFunc = noopSleep

	_, _, err := client.ListFilesPage(context.Background(), "", 100, ProjectionFull)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestDo_RetriesOn5xxThenSucceeds(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := calls.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"files":[],"nextPageToken":""}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, _, err := client.ListFilesPage(context.Background(), "", 100, ProjectionFull)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_RetryOn429HonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := calls.Add(1)
		if n <= 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"files":[],"nextPageToken":""}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, _, err := client.ListFilesPage(context.Background(), "", 100, ProjectionFull)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_MaxRetriesExhausted(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, _, err := client.ListFilesPage(context.Background(), "", 100, ProjectionFull)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestDo_NonRetryableStatusReturnsImmediately(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, _, err := client.ListFilesPage(context.Background(), "", 100, ProjectionFull)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCalcBackoff_CapsAtMax(t *testing.T) {
	client := newTestClient(t, "http://example.invalid")

	d := client.calcBackoff(20)
	assert.LessOrEqual(t, d, maxBackoff+maxBackoff/4)
}
