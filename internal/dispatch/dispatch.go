// Package dispatch routes a query to the adapter registered for its vendor
// and turns the adapter's candidates into the final address list.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/output"
	"github.com/tbckr/edl/internal/services"
)

// vendor is one registry entry: either a single adapter or a table of
// adapters keyed by service name, in which case the service is mandatory.
type vendor struct {
	name    string
	adapter services.Adapter
	table   map[string]services.Adapter
	known   []string
}

// Dispatcher holds the vendor registry. It is safe for concurrent use once
// registration is complete.
type Dispatcher struct {
	vendors map[string]*vendor
	logger  *slog.Logger
}

// New creates an empty Dispatcher.
func New(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{vendors: make(map[string]*vendor), logger: logger}
}

// Register adds a vendor served by a single adapter. knownServices is
// informational and only shown by Vendors.
func (d *Dispatcher) Register(a services.Adapter, knownServices ...string) {
	d.vendors[a.Name()] = &vendor{name: a.Name(), adapter: a, known: knownServices}
}

// RegisterTable adds a vendor whose service selects one of several adapters.
func (d *Dispatcher) RegisterTable(name string, table map[string]services.Adapter) {
	d.vendors[name] = &vendor{name: name, table: table, known: sortedKeys(table)}
}

// Resolve runs the adapter for q and builds the normalised address list.
// Every failure is logged once here, with vendor and service, before it is
// returned unchanged.
func (d *Dispatcher) Resolve(ctx context.Context, q services.Query) (*output.Result, error) {
	adapter, service, err := d.lookup(q)
	if err != nil {
		d.logFailure(q, err)
		return nil, err
	}

	candidates, err := adapter.Resolve(ctx, q)
	if err != nil {
		d.logFailure(q, err)
		return nil, err
	}

	res, err := output.Build(adapter.Name(), service, candidates)
	if err != nil {
		d.logFailure(q, err)
		return nil, err
	}
	d.logger.Debug("resolved", "vendor", res.Vendor, "service", res.Service, "candidates", len(candidates), "ips", len(res.IPs))
	return res, nil
}

func (d *Dispatcher) lookup(q services.Query) (services.Adapter, string, error) {
	v, ok := d.vendors[strings.ToLower(q.Vendor)]
	if !ok {
		if q.Vendor == "" {
			return nil, "", fmt.Errorf("%w: vendor is required", apperr.ErrBadRequest)
		}
		return nil, "", fmt.Errorf("%w: vendor is not known", apperr.ErrBadRequest)
	}
	if v.table == nil {
		return v.adapter, q.Service, nil
	}

	service := strings.ToLower(q.Service)
	if service == "" {
		return nil, "", fmt.Errorf("%w: service is required (one of %s)", apperr.ErrBadRequest, strings.Join(v.known, ", "))
	}
	a, ok := v.table[service]
	if !ok {
		return nil, "", fmt.Errorf("%w: service is not known (one of %s)", apperr.ErrBadRequest, strings.Join(v.known, ", "))
	}
	return a, service, nil
}

func (d *Dispatcher) logFailure(q services.Query, err error) {
	attrs := []any{"vendor", q.Vendor, "service", q.Service, "error", err}
	if errors.Is(err, apperr.ErrBadRequest) {
		d.logger.Warn("rejected request", attrs...)
		return
	}
	d.logger.Error("resolution failed", attrs...)
}

// Vendors lists the registry in name order.
func (d *Dispatcher) Vendors() VendorList {
	names := sortedKeys(d.vendors)
	list := make(VendorList, 0, len(names))
	for _, name := range names {
		v := d.vendors[name]
		list = append(list, Vendor{
			Name:            name,
			Services:        v.known,
			ServiceRequired: v.table != nil,
		})
	}
	return list
}

// FeedURLs returns the HTTP feeds behind every registered adapter, for
// default parameters, without duplicates.
func (d *Dispatcher) FeedURLs() []string {
	var urls []string
	add := func(a services.Adapter) {
		src, ok := a.(services.FeedSource)
		if !ok {
			return
		}
		for _, u := range src.FeedURLs() {
			if !slices.Contains(urls, u) {
				urls = append(urls, u)
			}
		}
	}
	for _, name := range sortedKeys(d.vendors) {
		v := d.vendors[name]
		if v.table == nil {
			add(v.adapter)
			continue
		}
		for _, service := range sortedKeys(v.table) {
			add(v.table[service])
		}
	}
	return urls
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
