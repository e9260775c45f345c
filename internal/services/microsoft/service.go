// Package microsoft reads the Microsoft 365 endpoints web service.
package microsoft

import (
	"context"
	"log/slog"

	"github.com/tbckr/edl/internal/endpoints"
	"github.com/tbckr/edl/internal/services"
)

const (
	// Name is the vendor identifier.
	Name = "microsoft"
	// DefaultClientRequestID is sent when no other GUID is configured. A fixed
	// value keeps the feed URL, and therefore its cache entry, stable.
	DefaultClientRequestID = "b3911430-1eeb-4685-8692-3626b1d44b8f"
)

// endpointSet is one element of the endpoints service response.
type endpointSet struct {
	ID          int      `json:"id"`
	ServiceArea string   `json:"serviceArea"`
	IPs         []string `json:"ips"`
}

// Service queries the Microsoft 365 endpoints feed.
type Service struct {
	fetcher services.Fetcher
	url     string
	logger  *slog.Logger
}

// NewService creates a new Microsoft Service. urlTemplate may contain a
// {client_request_id} placeholder which is replaced with clientRequestID.
func NewService(f services.Fetcher, urlTemplate, clientRequestID string, logger *slog.Logger) *Service {
	if clientRequestID == "" {
		clientRequestID = DefaultClientRequestID
	}
	url := endpoints.Expand(urlTemplate, map[string]string{"client_request_id": clientRequestID})
	return &Service{fetcher: f, url: url, logger: logger}
}

// Name returns the vendor identifier.
func (s *Service) Name() string { return Name }

// FeedURLs returns the feed this adapter reads.
func (s *Service) FeedURLs() []string { return []string{s.url} }

// Resolve returns the ips of every endpoint set whose serviceArea matches the
// requested service, or of all sets when no service is given.
func (s *Service) Resolve(ctx context.Context, q services.Query) ([]string, error) {
	filter, err := services.CompileFilter("service", q.Service)
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}

	var sets []endpointSet
	if err := services.DecodeJSON("microsoft endpoints", body, &sets); err != nil {
		return nil, err
	}

	var ips []string
	for _, set := range sets {
		if !filter.Match(set.ServiceArea) {
			continue
		}
		ips = append(ips, set.IPs...)
	}
	s.logger.Debug("microsoft endpoint sets parsed", "sets", len(sets), "candidates", len(ips))
	return ips, nil
}
