// Package gcp reads the Google Cloud cloud.json feed.
package gcp

import (
	"context"
	"log/slog"

	"github.com/tbckr/edl/internal/services"
)

const (
	// Name is the vendor identifier.
	Name = "gcp"
	// DefaultService matches the service name Google uses for every entry.
	DefaultService = "google cloud"
)

type cloudRanges struct {
	SyncToken    string   `json:"syncToken"`
	CreationTime string   `json:"creationTime"`
	Prefixes     []prefix `json:"prefixes"`
}

// prefix carries either an ipv4Prefix or an ipv6Prefix.
type prefix struct {
	IPv4Prefix string `json:"ipv4Prefix"`
	IPv6Prefix string `json:"ipv6Prefix"`
	Service    string `json:"service"`
	Scope      string `json:"scope"`
}

// Service queries the Google Cloud IP range feed.
type Service struct {
	fetcher services.Fetcher
	url     string
	logger  *slog.Logger
}

// NewService creates a new GCP Service.
func NewService(f services.Fetcher, url string, logger *slog.Logger) *Service {
	return &Service{fetcher: f, url: url, logger: logger}
}

// Name returns the vendor identifier.
func (s *Service) Name() string { return Name }

// FeedURLs returns the feed this adapter reads.
func (s *Service) FeedURLs() []string { return []string{s.url} }

// Resolve returns the ipv4Prefix of every entry whose service matches the
// requested service and, when a scope parameter is given, whose scope matches
// it too. IPv6-only entries are skipped.
func (s *Service) Resolve(ctx context.Context, q services.Query) ([]string, error) {
	serviceFilter, err := services.CompileFilter("service", q.ServiceOr(DefaultService))
	if err != nil {
		return nil, err
	}
	scopeFilter, err := services.CompileFilter(services.ParamScope, q.Param(services.ParamScope))
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}

	var feed cloudRanges
	if err := services.DecodeJSON("gcp cloud ranges", body, &feed); err != nil {
		return nil, err
	}
	if feed.Prefixes == nil {
		return nil, services.Malformed("gcp cloud ranges", "missing prefixes array")
	}

	var ips []string
	for _, p := range feed.Prefixes {
		if p.IPv4Prefix == "" {
			continue
		}
		if serviceFilter.Match(p.Service) && scopeFilter.Match(p.Scope) {
			ips = append(ips, p.IPv4Prefix)
		}
	}
	s.logger.Debug("gcp prefixes parsed", "sync_token", feed.SyncToken, "prefixes", len(feed.Prefixes), "candidates", len(ips))
	return ips, nil
}
