package services

import (
	"encoding/json"
	"fmt"

	"github.com/tbckr/edl/internal/apperr"
)

// DecodeJSON unmarshals a vendor feed body into v. A decoding failure is
// reported as apperr.ErrMalformed naming the feed.
func DecodeJSON(feed string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrMalformed, feed, err)
	}
	return nil
}

// Malformed returns an apperr.ErrMalformed error describing what was expected
// in the named feed.
func Malformed(feed, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", apperr.ErrMalformed, feed, fmt.Sprintf(format, args...))
}
