// Package fetch retrieves vendor feeds over HTTP, shielding the vendors'
// origins behind a freshness cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/imroc/req/v3"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/cache"
)

// Fetcher resolves a URL to its body, serving a cached copy while it is fresh.
type Fetcher struct {
	client *req.Client
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Fetcher. A non-positive ttl selects cache.DefaultTTL.
func New(client *req.Client, store cache.Store, ttl time.Duration, logger *slog.Logger) *Fetcher {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Fetcher{client: client, store: store, ttl: ttl, logger: logger, now: time.Now}
}

// Fetch returns the body of url.
//
// A fresh cache entry is returned without touching the network. Otherwise a
// single GET is made; a transport error, a non-2xx status or an empty body is
// returned as apperr.ErrFetch and leaves the cache untouched. A successful
// body is written back to the cache best effort: a write failure is logged
// and the body is still returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key(url)

	entry, err := f.store.Get(key)
	switch {
	case err == nil && entry.Fresh(f.now(), f.ttl):
		f.logger.Debug("cache hit", "url", url, "key", key, "age", f.now().Sub(entry.FetchedAt).Round(time.Second))
		return entry.Body, nil
	case err == nil:
		f.logger.Debug("cache entry stale", "url", url, "key", key, "fetched_at", entry.FetchedAt)
	case !errors.Is(err, cache.ErrNotFound):
		f.logger.Debug("cache read failed", "url", url, "key", key, "error", err)
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: request error for %q: %w", apperr.ErrFetch, url, err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("%w: %q returned HTTP %d", apperr.ErrFetch, url, resp.StatusCode)
	}
	body := resp.Bytes()
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: no content returned from %q", apperr.ErrFetch, url)
	}

	if err := f.store.Put(cache.Entry{Key: key, Body: body, FetchedAt: f.now()}); err != nil {
		f.logger.Warn("cache write failed", "url", url, "key", key, "error", err)
	}
	return body, nil
}
