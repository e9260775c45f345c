// Package okta reads Okta's published IP ranges.
package okta

import (
	"context"
	"log/slog"
	"slices"

	"github.com/tbckr/edl/internal/services"
)

// Name is the vendor identifier.
const Name = "okta"

type cell struct {
	IPRanges []string `json:"ip_ranges"`
}

// Service queries the Okta IP range feed.
type Service struct {
	fetcher services.Fetcher
	url     string
	logger  *slog.Logger
}

// NewService creates a new Okta Service.
func NewService(f services.Fetcher, url string, logger *slog.Logger) *Service {
	return &Service{fetcher: f, url: url, logger: logger}
}

// Name returns the vendor identifier.
func (s *Service) Name() string { return Name }

// FeedURLs returns the feed this adapter reads.
func (s *Service) FeedURLs() []string { return []string{s.url} }

// Resolve returns the ip_ranges of every cell whose name matches the requested
// service, or of all cells when no service is given. Cells are visited in
// name order so the output is stable.
func (s *Service) Resolve(ctx context.Context, q services.Query) ([]string, error) {
	filter, err := services.CompileFilter("service", q.Service)
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}

	var cells map[string]cell
	if err := services.DecodeJSON("okta ip ranges", body, &cells); err != nil {
		return nil, err
	}
	if cells == nil {
		return nil, services.Malformed("okta ip ranges", "expected an object keyed by cell name")
	}

	names := make([]string, 0, len(cells))
	for name := range cells {
		names = append(names, name)
	}
	slices.Sort(names)

	var ips []string
	for _, name := range names {
		if filter.Match(name) {
			ips = append(ips, cells[name].IPRanges...)
		}
	}
	return ips, nil
}
