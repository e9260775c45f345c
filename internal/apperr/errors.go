package apperr

import (
	"errors"
	"fmt"
)

// ErrBadRequest is returned when the vendor, service or one of the extra
// parameters is unknown or malformed. It maps to HTTP 400.
var ErrBadRequest = errors.New("bad request")

// ErrUpstream is the parent of every failure caused by a vendor's DNS zone or
// HTTP feed. Use errors.Is(err, apperr.ErrUpstream) to detect any of
// ErrFetch, ErrDNS or ErrMalformed. It maps to HTTP 503.
var ErrUpstream = errors.New("upstream unavailable")

// ErrFetch is returned when an HTTP feed could not be retrieved.
var ErrFetch = fmt.Errorf("%w: fetch failed", ErrUpstream)

// ErrDNS is returned when a DNS lookup failed or returned no A records.
var ErrDNS = fmt.Errorf("%w: dns lookup failed", ErrUpstream)

// ErrMalformed is returned when a feed was retrieved but its content does not
// have the expected shape.
var ErrMalformed = fmt.Errorf("%w: malformed response", ErrUpstream)

// ErrEmptyResult is returned when the pipeline succeeded but no valid
// address survived normalisation. It maps to HTTP 503.
var ErrEmptyResult = errors.New("no addresses to return")
