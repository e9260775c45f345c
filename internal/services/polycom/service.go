// Package polycom resolves the Polycom (Poly) edge service addresses, which
// are published only as DNS A records.
package polycom

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
	Name = "polycom"
	// DefaultService is used when the query names no service.
	DefaultService = "global"
)

// KnownServices lists the edge services Polycom is known to publish. Other
// service names are still looked up.
var KnownServices = []string{"teams", "sfb", "global"}

// Service looks up edge-<service>.plcm.vc.
type Service struct {
	resolver     resolver.Resolver
	hostTemplate string
	logger       *slog.Logger
}

// NewService creates a new Polycom Service. hostTemplate contains a {service}
// placeholder.
func NewService(r resolver.Resolver, hostTemplate string, logger *slog.Logger) *Service {
	return &Service{resolver: r, hostTemplate: hostTemplate, logger: logger}
}

// Name returns the vendor identifier.
func (s *Service) Name() string { return Name }

// Resolve returns every A record of the service's edge hostname.
func (s *Service) Resolve(ctx context.Context, q services.Query) ([]string, error) {
	service := strings.ToLower(q.ServiceOr(DefaultService))
	host := endpoints.Expand(s.hostTemplate, map[string]string{"service": service})
	// A name that cannot be a hostname never resolves; it is reported like
	// any other failed lookup without reaching the nameserver.
	if !validate.IsDomain(host) {
		return nil, fmt.Errorf("%w: no A records for %q: not a valid hostname", apperr.ErrDNS, host)
	}

	s.logger.Debug("resolving polycom edge", "host", host)
	ips, err := s.resolver.LookupA(ctx, host)
	if err != nil {
		return nil, err
	}
	return ips, nil
}
