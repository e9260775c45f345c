package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/imroc/req/v3"
	"github.com/spf13/cobra"

	"github.com/tbckr/edl/internal/cache"
	"github.com/tbckr/edl/internal/config"
	"github.com/tbckr/edl/internal/dispatch"
	"github.com/tbckr/edl/internal/endpoints"
	"github.com/tbckr/edl/internal/fetch"
	"github.com/tbckr/edl/internal/httpclient"
	"github.com/tbckr/edl/internal/output"
	"github.com/tbckr/edl/internal/ratelimit"
	"github.com/tbckr/edl/internal/resolver"
	"github.com/tbckr/edl/internal/services"
	"github.com/tbckr/edl/internal/services/aws"
	"github.com/tbckr/edl/internal/services/gcp"
	"github.com/tbckr/edl/internal/services/microsoft"
	"github.com/tbckr/edl/internal/services/okta"
	"github.com/tbckr/edl/internal/services/polycom"
	"github.com/tbckr/edl/internal/services/zscaler"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
}

// buildDeps resolves config and logger.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return &deps{cfg: cfg, logger: logger}, nil
}

// newHTTPClient creates the outbound HTTP client configured with the proxy,
// user-agent, timeout and rate limit from the resolved config.
func (d *deps) newHTTPClient() (*req.Client, error) {
	client, err := httpclient.New(httpclient.Options{
		Proxy:     d.cfg.Proxy,
		UserAgent: d.cfg.UserAgent,
		Timeout:   d.cfg.Timeout,
		Logger:    d.logger,
		Debug:     d.cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}
	httpclient.AttachRateLimit(client, ratelimit.New(d.cfg.Rate.RPS, d.cfg.Rate.Burst))
	return client, nil
}

// newFetcher creates the cached feed fetcher.
func (d *deps) newFetcher() (*fetch.Fetcher, error) {
	client, err := d.newHTTPClient()
	if err != nil {
		return nil, err
	}
	store := cache.Open(d.cfg.Cache.Dir)
	d.logger.Debug("feed cache", "dir", d.cfg.Cache.Dir, "ttl", d.cfg.Cache.TTL)
	return fetch.New(client, store, d.cfg.Cache.TTL, d.logger), nil
}

// newResolver creates the DNS resolver configured with the nameserver or
// proxy from the resolved config.
func (d *deps) newResolver() (resolver.Resolver, error) {
	r, err := resolver.New(d.cfg.DNS.Server, d.cfg.Proxy, d.cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("creating DNS resolver: %w", err)
	}
	return r, nil
}

// newDispatcher wires every vendor adapter to a fresh fetcher and resolver.
func (d *deps) newDispatcher() (*dispatch.Dispatcher, error) {
	eps, err := endpoints.Load(d.cfg.EndpointsFile)
	if err != nil {
		return nil, err
	}
	f, err := d.newFetcher()
	if err != nil {
		return nil, err
	}
	r, err := d.newResolver()
	if err != nil {
		return nil, err
	}
	return newRegistry(d.cfg, eps, f, r, d.logger), nil
}

// newRegistry registers one adapter per vendor.
func newRegistry(cfg *config.Config, eps endpoints.Endpoints, f services.Fetcher, r resolver.Resolver, logger *slog.Logger) *dispatch.Dispatcher {
	d := dispatch.New(logger)
	d.Register(polycom.NewService(r, eps.PolycomHost, logger), polycom.KnownServices...)
	d.Register(microsoft.NewService(f, eps.Microsoft, cfg.Microsoft.ClientRequestID, logger))
	d.Register(okta.NewService(f, eps.Okta, logger))
	d.Register(aws.NewService(f, eps.AWS, logger))
	d.Register(gcp.NewService(f, eps.GCP, logger))

	zs := zscaler.NewService(f, r, zscaler.URLs{
		PAC:  eps.ZscalerPAC,
		CENR: eps.ZscalerCENR,
		Hub:  eps.ZscalerHub,
	}, cfg.Zscloud, logger)
	d.RegisterTable(zscaler.Name, zs.Adapters())
	return d
}

// writeResult formats and writes a result to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, output.Format(d.cfg.Output), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
