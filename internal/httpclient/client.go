// Package httpclient builds the outbound HTTP client used to fetch vendor feeds.
package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/imroc/req/v3"

	"github.com/tbckr/edl/internal/version"
)

// DefaultUserAgent is the User-Agent sent when no explicit value is configured.
// var (not const) because version.Version is a link-time variable.
var DefaultUserAgent = "edl/" + version.Version + " (+https://github.com/tbckr/edl)"

const (
	// DefaultTimeout bounds every outbound request, including redirects.
	DefaultTimeout = 10 * time.Second
	// maxRedirects is the number of redirects followed before giving up.
	maxRedirects = 10
)

// Options configures New.
type Options struct {
	// Proxy is an http://, https:// or socks5:// URL. Empty means the standard
	// proxy environment variables are honoured.
	Proxy     string
	UserAgent string
	// Timeout defaults to DefaultTimeout when zero.
	Timeout time.Duration
	Logger  *slog.Logger
	// Debug attaches a hook logging every response at DEBUG level.
	Debug bool
}

// ResolveProxy returns the proxy value that will actually be used.
// If proxy is explicitly configured, it is returned as-is.
// Otherwise the standard proxy env vars are checked
// (HTTPS_PROXY, HTTP_PROXY, ALL_PROXY and their lowercase variants);
// if any are set "<from environment>" is returned.
// If none are set, an empty string is returned.
func ResolveProxy(proxy string) string {
	if proxy != "" {
		return proxy
	}
	for _, env := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "ALL_PROXY", "all_proxy"} {
		if os.Getenv(env) != "" {
			return "<from environment>"
		}
	}
	return ""
}

// New builds a *req.Client for vendor feeds.
//
// Vendor feeds are fetched through corporate proxies that commonly intercept
// TLS, so certificate verification is disabled. Redirects are followed up to
// maxRedirects. Returns an error if the proxy URL is syntactically invalid.
func New(opts Options) (*req.Client, error) {
	client := req.NewClient()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client.SetTimeout(timeout)
	client.EnableInsecureSkipVerify()
	client.SetRedirectPolicy(req.MaxRedirectPolicy(maxRedirects))

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetUserAgent(userAgent)

	if opts.Proxy != "" {
		if err := validateProxy(opts.Proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		client.SetProxyURL(opts.Proxy)
	} else {
		client.SetProxy(http.ProxyFromEnvironment)
	}

	if opts.Debug && opts.Logger != nil {
		attachDebugHook(client, opts.Logger)
	}

	return client, nil
}

// attachDebugHook registers an OnAfterResponse hook that logs the HTTP method,
// URL, status code and body size at DEBUG level, and a body snippet on
// non-2xx responses.
func attachDebugHook(client *req.Client, logger *slog.Logger) {
	client.OnAfterResponse(func(_ *req.Client, resp *req.Response) error {
		if resp.Request == nil || resp.Request.RawRequest == nil || resp.Response == nil {
			return nil
		}
		logger.Debug("http response",
			"method", resp.Request.RawRequest.Method,
			"url", resp.Request.RawRequest.URL.String(),
			"status", resp.StatusCode,
			"bytes", len(resp.Bytes()),
		)
		if !resp.IsSuccessState() {
			body := resp.String()
			if len(body) > 512 {
				body = body[:512]
			}
			logger.Debug("http error body",
				"status", resp.StatusCode,
				"body", body,
			)
		}
		return nil
	})
}

// validateProxy performs a basic check that the proxy URL has a recognised scheme.
func validateProxy(proxy string) error {
	for _, scheme := range []string{"http://", "https://", "socks5://"} {
		if len(proxy) >= len(scheme) && proxy[:len(scheme)] == scheme {
			return nil
		}
	}
	return fmt.Errorf("proxy scheme must be http://, https://, or socks5://")
}
