// Package aws reads the AWS ip-ranges.json feed.
package aws

import (
	"context"
	"log/slog"

	"github.com/tbckr/edl/internal/services"
)

const (
	// Name is the vendor identifier.
	Name = "aws"
	// DefaultService selects the AMAZON service set, which covers every other.
	DefaultService = "amazon"
)

type ipRanges struct {
	SyncToken  string   `json:"syncToken"`
	CreateDate string   `json:"createDate"`
	Prefixes   []prefix `json:"prefixes"`
}

type prefix struct {
	IPPrefix string `json:"ip_prefix"`
	Region   string `json:"region"`
	Service  string `json:"service"`
}

// Service queries the AWS IP range feed.
type Service struct {
	fetcher services.Fetcher
	url     string
	logger  *slog.Logger
}

// NewService creates a new AWS Service.
func NewService(f services.Fetcher, url string, logger *slog.Logger) *Service {
	return &Service{fetcher: f, url: url, logger: logger}
}

// Name returns the vendor identifier.
func (s *Service) Name() string { return Name }

// FeedURLs returns the feed this adapter reads.
func (s *Service) FeedURLs() []string { return []string{s.url} }

// Resolve returns the ip_prefix of every entry whose service matches the
// requested service and, when a region parameter is given, whose region
// matches it too.
func (s *Service) Resolve(ctx context.Context, q services.Query) ([]string, error) {
	serviceFilter, err := services.CompileFilter("service", q.ServiceOr(DefaultService))
	if err != nil {
		return nil, err
	}
	regionFilter, err := services.CompileFilter(services.ParamRegion, q.Param(services.ParamRegion))
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}

	var feed ipRanges
	if err := services.DecodeJSON("aws ip ranges", body, &feed); err != nil {
		return nil, err
	}
	if feed.Prefixes == nil {
		return nil, services.Malformed("aws ip ranges", "missing prefixes array")
	}

	var ips []string
	for _, p := range feed.Prefixes {
		if serviceFilter.Match(p.Service) && regionFilter.Match(p.Region) {
			ips = append(ips, p.IPPrefix)
		}
	}
	s.logger.Debug("aws prefixes parsed", "sync_token", feed.SyncToken, "prefixes", len(feed.Prefixes), "candidates", len(ips))
	return ips, nil
}
