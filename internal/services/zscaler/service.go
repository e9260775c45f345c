// Package zscaler reads the Zscaler config API for a given Zscaler cloud.
//
// Three feeds are supported, each exposed as its own adapter:
//
//	pac   PAC server addresses
//	cenr  Cloud Enforcement Node ranges
//	hub   hub addresses plus the A records of mobile.<cloud> and login.<cloud>
package zscaler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/endpoints"
	"github.com/tbckr/edl/internal/resolver"
	"github.com/tbckr/edl/internal/services"
	"github.com/tbckr/edl/internal/validate"
)

const (
	// Name is the vendor identifier.
	Name = "zscaler"
	// DefaultCloud is used when the query carries no zscloud parameter.
	DefaultCloud = "zscloud.net"

	// Feed names, used as the service of a zscaler query.
	FeedPAC  = "pac"
	FeedCENR = "cenr"
	FeedHub  = "hub"
)

// URLs holds the feed URL templates. Each contains a {zscloud} placeholder.
type URLs struct {
	PAC  string
	CENR string
	Hub  string
}

// Service reads the Zscaler feeds.
type Service struct {
	fetcher      services.Fetcher
	resolver     resolver.Resolver
	urls         URLs
	defaultCloud string
	logger       *slog.Logger
}

// NewService creates a new Zscaler Service. An empty defaultCloud falls back
// to DefaultCloud.
func NewService(f services.Fetcher, r resolver.Resolver, urls URLs, defaultCloud string, logger *slog.Logger) *Service {
	if defaultCloud == "" {
		defaultCloud = DefaultCloud
	}
	return &Service{fetcher: f, resolver: r, urls: urls, defaultCloud: defaultCloud, logger: logger}
}

// Adapters returns one adapter per feed, keyed by service name.
func (s *Service) Adapters() map[string]services.Adapter {
	return map[string]services.Adapter{
		FeedPAC:  &feed{svc: s, template: s.urls.PAC, resolve: s.resolvePAC},
		FeedCENR: &feed{svc: s, template: s.urls.CENR, resolve: s.resolveCENR},
		FeedHub:  &feed{svc: s, template: s.urls.Hub, resolve: s.resolveHub},
	}
}

// cloud returns the Zscaler cloud named by the query, or the default.
func (s *Service) cloud(q services.Query) (string, error) {
	cloud := strings.ToLower(q.Param(services.ParamZscloud))
	if cloud == "" {
		return s.defaultCloud, nil
	}
	if !validate.IsDomain(cloud) {
		return "", fmt.Errorf("%w: invalid zscloud %q", apperr.ErrBadRequest, cloud)
	}
	return cloud, nil
}

func expand(template, cloud string) string {
	return endpoints.Expand(template, map[string]string{"zscloud": cloud})
}

type resolveFunc func(ctx context.Context, cloud string) ([]string, error)

// feed adapts one Zscaler feed to services.Adapter.
type feed struct {
	svc      *Service
	template string
	resolve  resolveFunc
}

func (f *feed) Name() string { return Name }

func (f *feed) Resolve(ctx context.Context, q services.Query) ([]string, error) {
	cloud, err := f.svc.cloud(q)
	if err != nil {
		return nil, err
	}
	return f.resolve(ctx, cloud)
}

func (f *feed) FeedURLs() []string {
	return []string{expand(f.template, f.svc.defaultCloud)}
}
