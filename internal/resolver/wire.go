package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/tbckr/edl/internal/apperr"
)

// Wire queries a single nameserver directly with github.com/miekg/dns.
type Wire struct {
	server string
	client *dns.Client
}

// NewWire returns a resolver that sends A queries to server. A server without
// a port gets port 53. A non-positive timeout selects DefaultTimeout.
func NewWire(server string, timeout time.Duration) (*Wire, error) {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		return nil, fmt.Errorf("invalid DNS server %q: %w", server, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Wire{
		server: server,
		client: &dns.Client{Net: "udp", Timeout: timeout},
	}, nil
}

// Server returns the host:port the resolver queries.
func (w *Wire) Server() string { return w.server }

// LookupA implements Resolver. A truncated UDP answer is repeated over TCP.
func (w *Wire) LookupA(ctx context.Context, host string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)
	m.RecursionDesired = true

	in, _, err := w.client.ExchangeContext(ctx, m, w.server)
	if err == nil && in.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: w.client.Timeout}
		in, _, err = tcp.ExchangeContext(ctx, m, w.server)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: A lookup for %q via %s: %w", apperr.ErrDNS, host, w.server, err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: A lookup for %q via %s: %s", apperr.ErrDNS, host, w.server, dns.RcodeToString[in.Rcode])
	}

	var addrs []string
	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no A records for %q", apperr.ErrDNS, host)
	}
	return addrs, nil
}
