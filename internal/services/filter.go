package services

import (
	"fmt"
	"regexp"

	"github.com/tbckr/edl/internal/apperr"
)

// MaxPatternLen bounds user supplied filter patterns.
const MaxPatternLen = 256

// Filter matches vendor field values (service area, region, scope...) against
// a pattern taken verbatim from the request. The pattern is a case-insensitive,
// unanchored regular expression, so "share" matches "SharePoint" and
// "exchange|skype" selects two service areas. Go's RE2 engine matches in
// linear time, so a hostile pattern cannot cause catastrophic backtracking.
//
// A nil *Filter matches everything.
type Filter struct {
	re *regexp.Regexp
}

// CompileFilter compiles pattern for the named parameter. An empty pattern
// yields a nil Filter. An invalid or oversized pattern is apperr.ErrBadRequest.
func CompileFilter(param, pattern string) (*Filter, error) {
	if pattern == "" {
		return nil, nil
	}
	if len(pattern) > MaxPatternLen {
		return nil, fmt.Errorf("%w: %s pattern longer than %d characters", apperr.ErrBadRequest, param, MaxPatternLen)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s pattern %q: %w", apperr.ErrBadRequest, param, pattern, err)
	}
	return &Filter{re: re}, nil
}

// Match reports whether value matches the filter.
func (f *Filter) Match(value string) bool {
	if f == nil {
		return true
	}
	return f.re.MatchString(value)
}
