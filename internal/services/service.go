// Package services defines the contract shared by every vendor adapter and the
// helpers they use to read vendor feeds.
package services

import (
	"context"
	"maps"
	"strings"
)

// Extra query parameter names understood by the adapters.
const (
	ParamRegion  = "region"
	ParamScope   = "scope"
	ParamZscloud = "zscloud"
)

// Query is one resolution request: a vendor, an optional service and the
// vendor-specific extra parameters. A Query is immutable once built.
type Query struct {
	Vendor  string
	Service string
	params  map[string]string
}

// NewQuery builds a Query. Empty parameter values are dropped so that "absent"
// and "present but empty" behave the same, as they do for URL query strings.
func NewQuery(vendor, service string, params map[string]string) Query {
	q := Query{
		Vendor:  strings.TrimSpace(vendor),
		Service: strings.TrimSpace(service),
		params:  make(map[string]string, len(params)),
	}
	for k, v := range params {
		if v != "" {
			q.params[k] = v
		}
	}
	return q
}

// Param returns the named extra parameter, or "" when absent.
func (q Query) Param(name string) string {
	return q.params[name]
}

// Params returns a copy of the extra parameters.
func (q Query) Params() map[string]string {
	return maps.Clone(q.params)
}

// ServiceOr returns the requested service, or def when none was given.
func (q Query) ServiceOr(def string) string {
	if q.Service == "" {
		return def
	}
	return q.Service
}

// Fetcher retrieves the body of a vendor feed. *fetch.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Adapter turns a Query into candidate address strings taken from one vendor
// source. Candidates are unvalidated; normalisation happens downstream.
// Errors wrap apperr.ErrUpstream (or one of its children) when the source
// failed and apperr.ErrBadRequest when a parameter is unusable.
type Adapter interface {
	Name() string
	Resolve(ctx context.Context, q Query) ([]string, error)
}

// FeedSource is implemented by adapters backed by HTTP feeds. FeedURLs lists
// the feeds read for default parameters; `edl warm` prefetches them.
type FeedSource interface {
	FeedURLs() []string
}
