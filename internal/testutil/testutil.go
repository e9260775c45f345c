// Package testutil provides shared test doubles for adapter and dispatcher tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/services"
)

// MockResolver implements resolver.Resolver for testing.
// LookupAFn is optional; without it every lookup fails with apperr.ErrDNS.
type MockResolver struct {
	LookupAFn func(ctx context.Context, host string) ([]string, error)

	mu    sync.Mutex
	hosts []string
}

// LookupA implements resolver.Resolver and records host.
func (m *MockResolver) LookupA(ctx context.Context, host string) ([]string, error) {
	m.mu.Lock()
	m.hosts = append(m.hosts, host)
	m.mu.Unlock()
	if m.LookupAFn != nil {
		return m.LookupAFn(ctx, host)
	}
	return nil, fmt.Errorf("%w: no mock answer for %q", apperr.ErrDNS, host)
}

// Hosts returns every host passed to LookupA, in call order.
func (m *MockResolver) Hosts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.hosts...)
}

// StaticResolver answers from a fixed host → addresses table; unknown hosts
// fail with apperr.ErrDNS.
func StaticResolver(records map[string][]string) *MockResolver {
	return &MockResolver{
		LookupAFn: func(_ context.Context, host string) ([]string, error) {
			addrs, ok := records[host]
			if !ok || len(addrs) == 0 {
				return nil, fmt.Errorf("%w: no A records for %q", apperr.ErrDNS, host)
			}
			return addrs, nil
		},
	}
}

// MockFetcher implements services.Fetcher for testing.
// Bodies maps URL → body; URLs missing from Bodies fail with apperr.ErrFetch.
// FetchFn, when set, takes precedence over Bodies.
type MockFetcher struct {
	Bodies  map[string]string
	FetchFn func(ctx context.Context, url string) ([]byte, error)

	mu   sync.Mutex
	urls []string
}

// Fetch implements services.Fetcher and records url.
func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()
	if m.FetchFn != nil {
		return m.FetchFn(ctx, url)
	}
	body, ok := m.Bodies[url]
	if !ok {
		return nil, fmt.Errorf("%w: request error for %q: connection refused", apperr.ErrFetch, url)
	}
	return []byte(body), nil
}

// URLs returns every URL passed to Fetch, in call order.
func (m *MockFetcher) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urls...)
}

// MockAdapter implements services.Adapter and services.FeedSource for testing.
// ResolveFn is optional; without it Resolve returns no candidates.
type MockAdapter struct {
	VendorName string
	ResolveFn  func(ctx context.Context, q services.Query) ([]string, error)
	Feeds      []string

	mu      sync.Mutex
	queries []services.Query
}

// Name implements services.Adapter.
func (m *MockAdapter) Name() string { return m.VendorName }

// Resolve implements services.Adapter and records q.
func (m *MockAdapter) Resolve(ctx context.Context, q services.Query) ([]string, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, q)
	}
	return nil, nil
}

// FeedURLs implements services.FeedSource.
func (m *MockAdapter) FeedURLs() []string { return m.Feeds }

// Queries returns every query passed to Resolve, in call order.
func (m *MockAdapter) Queries() []services.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.Query(nil), m.queries...)
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
