package resolver

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/tbckr/edl/internal/apperr"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

// Resolver resolves a hostname to its IPv4 A records.
// An empty answer is an error wrapping apperr.ErrDNS.
type Resolver interface {
	LookupA(ctx context.Context, host string) ([]string, error)
}

// IPLookuper abstracts net.Resolver. *net.Resolver satisfies this interface directly.
type IPLookuper interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// New returns a Wire resolver when server is set, otherwise a System resolver
// built from proxyURL.
func New(server, proxyURL string, timeout time.Duration) (Resolver, error) {
	if server != "" {
		return NewWire(server, timeout)
	}
	nr, err := NewNetResolver(proxyURL)
	if err != nil {
		return nil, err
	}
	return NewSystem(nr, timeout), nil
}

// NewNetResolver returns a *net.Resolver appropriate for the given proxy URL.
//
// When proxyURL is empty or its scheme is not "socks5", the standard system
// resolver is returned (nil Dial field, Go uses the platform resolver).
//
// When proxyURL is a socks5:// URL, DNS queries are tunnelled through the
// SOCKS5 proxy using DNS-over-TCP.
func NewNetResolver(proxyURL string) (*net.Resolver, error) {
	if proxyURL == "" || !strings.HasPrefix(proxyURL, "socks5://") {
		return &net.Resolver{}, nil
	}

	host := strings.TrimPrefix(proxyURL, "socks5://")

	dialer, err := proxy.SOCKS5("tcp", host, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("creating SOCKS5 dialer for DNS: %w", err)
	}

	ctxDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer does not implement ContextDialer")
	}

	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, address string) (net.Conn, error) {
			return ctxDialer.DialContext(ctx, "tcp", address)
		},
	}, nil
}

// System resolves through an IPLookuper, normally *net.Resolver.
type System struct {
	lookuper IPLookuper
	timeout  time.Duration
}

// NewSystem wraps lookuper. A non-positive timeout selects DefaultTimeout.
func NewSystem(lookuper IPLookuper, timeout time.Duration) *System {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &System{lookuper: lookuper, timeout: timeout}
}

// LookupA implements Resolver.
func (s *System) LookupA(ctx context.Context, host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ips, err := s.lookuper.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, fmt.Errorf("%w: A lookup for %q: %w", apperr.ErrDNS, host, err)
	}
	addrs := make([]string, 0, len(ips))
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			addrs = append(addrs, v4.String())
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no A records for %q", apperr.ErrDNS, host)
	}
	return addrs, nil
}
