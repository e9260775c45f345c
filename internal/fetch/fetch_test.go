package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/cache"
	"github.com/tbckr/edl/internal/fetch"
	"github.com/tbckr/edl/internal/testutil"
)

const feedURL = "https://api.config.zscaler.com/zscloud.net/pac/json"

func newTestClient(t *testing.T) *req.Client {
	t.Helper()
	client := req.NewClient()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestFetch_MissThenHit(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewStringResponder(http.StatusOK, `{"ip":["1.2.3.4"]}`))

	store := cache.NewMemoryStore()
	f := fetch.New(client, store, 0, testutil.NopLogger())

	first, err := f.Fetch(context.Background(), feedURL)
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), feedURL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "second fetch must be served from cache")
	assert.Equal(t, 1, store.Len())
}

func TestFetch_StaleEntryRefetched(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewStringResponder(http.StatusOK, "fresh"))

	store := cache.NewMemoryStore()
	require.NoError(t, store.Put(cache.Entry{
		Key:       cache.Key(feedURL),
		Body:      []byte("stale"),
		FetchedAt: time.Now().Add(-cache.DefaultTTL - time.Minute),
	}))

	f := fetch.New(client, store, cache.DefaultTTL, testutil.NopLogger())
	body, err := f.Fetch(context.Background(), feedURL)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(body))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	entry, err := store.Get(cache.Key(feedURL))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(entry.Body), "stale entry must be overwritten")
}

func TestFetch_ExpiresAfterTTL(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewStringResponder(http.StatusOK, "body"))

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f := fetch.New(client, cache.NewMemoryStore(), 24*time.Hour, testutil.NopLogger())
	f.SetClock(func() time.Time { return now })

	_, err := f.Fetch(context.Background(), feedURL)
	require.NoError(t, err)

	now = now.Add(24 * time.Hour)
	_, err = f.Fetch(context.Background(), feedURL)
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "an entry exactly 24h old is still fresh")

	now = now.Add(time.Second)
	_, err = f.Fetch(context.Background(), feedURL)
	require.NoError(t, err)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		wantMsg   string
	}{
		{"transport error", httpmock.NewErrorResponder(errors.New("connection refused")), "request error"},
		{"server error", httpmock.NewStringResponder(http.StatusInternalServerError, "oops"), "HTTP 500"},
		{"not found", httpmock.NewStringResponder(http.StatusNotFound, ""), "HTTP 404"},
		{"empty body", httpmock.NewStringResponder(http.StatusOK, ""), "no content"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t)
			httpmock.RegisterResponder(http.MethodGet, feedURL, tc.responder)

			store := cache.NewMemoryStore()
			f := fetch.New(client, store, 0, testutil.NopLogger())
			body, err := f.Fetch(context.Background(), feedURL)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrFetch)
			assert.ErrorIs(t, err, apperr.ErrUpstream)
			assert.Contains(t, err.Error(), tc.wantMsg)
			assert.Nil(t, body)
			assert.Equal(t, 0, store.Len(), "failures must not touch the cache")
		})
	}
}

func TestFetch_FailureKeepsStaleEntry(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewErrorResponder(errors.New("timeout")))

	store := cache.NewMemoryStore()
	stale := cache.Entry{Key: cache.Key(feedURL), Body: []byte("old"), FetchedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, store.Put(stale))

	f := fetch.New(client, store, 0, testutil.NopLogger())
	_, err := f.Fetch(context.Background(), feedURL)
	require.ErrorIs(t, err, apperr.ErrFetch)

	got, err := store.Get(stale.Key)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got.Body))
}

func TestFetch_CacheWriteFailureIsNotFatal(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewStringResponder(http.StatusOK, "body"))

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	f := fetch.New(client, cache.NewFileStore(blocker), 0, logger)

	body, err := f.Fetch(context.Background(), feedURL)
	require.NoError(t, err)
	assert.Equal(t, "body", string(body))
	assert.Contains(t, logs.String(), "cache write failed")
}

func TestFetch_FileStoreRoundTrip(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewStringResponder(http.StatusOK, `{"ip":[]}`))

	dir := t.TempDir()
	f := fetch.New(client, cache.NewFileStore(dir), 0, testutil.NopLogger())
	_, err := f.Fetch(context.Background(), feedURL)
	require.NoError(t, err)

	// A second fetcher over the same directory sees the entry.
	f2 := fetch.New(client, cache.NewFileStore(dir), 0, testutil.NopLogger())
	body, err := f2.Fetch(context.Background(), feedURL)
	require.NoError(t, err)
	assert.Equal(t, `{"ip":[]}`, string(body))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	_, err = os.Stat(filepath.Join(dir, cache.Key(feedURL)))
	assert.NoError(t, err)
}
