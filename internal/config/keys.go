package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tbckr/edl/internal/output"
	"github.com/tbckr/edl/internal/validate"
)

// ErrUnknownKey is returned for a key that is not a config setting.
var ErrUnknownKey = errors.New("unknown config key")

type kind int

const (
	kindString kind = iota
	kindBool
	kindInt
	kindFloat
	kindDuration
)

// keySpec describes one config key: its type, its default and any
// additional constraint on a value.
type keySpec struct {
	kind  kind
	def   any
	enum  []string
	check func(string) error
}

const (
	defaultClientRequestID = "b3911430-1eeb-4685-8692-3626b1d44b8f"
	defaultZscloud         = "zscloud.net"
)

var keys = map[string]keySpec{
	"verbose":        {kind: kindBool, def: false},
	"output":         {kind: kindString, def: string(output.FormatPlain), enum: []string{"plain", "json", "table"}},
	"listen":         {kind: kindString, def: ":8080"},
	"proxy":          {kind: kindString, def: ""},
	"user_agent":     {kind: kindString, def: ""},
	"timeout":        {kind: kindDuration, def: "10s", check: positiveDuration},
	"concurrency":    {kind: kindInt, def: 4, check: atLeastOne},
	"zscloud":        {kind: kindString, def: defaultZscloud, check: hostname},
	"endpoints_file": {kind: kindString, def: ""},
	"cache.dir":      {kind: kindString, def: ""},
	"cache.ttl":      {kind: kindDuration, def: "24h", check: positiveDuration},
	"dns.server":     {kind: kindString, def: ""},
	"rate.rps":       {kind: kindFloat, def: 5.0},
	"rate.burst":     {kind: kindInt, def: 10, check: atLeastOne},
	"microsoft.client_request_id": {kind: kindString, def: defaultClientRequestID, check: func(s string) error {
		_, err := uuid.Parse(s)
		return err
	}},
}

// flagKeys maps flag names whose key differs from the flag name.
var flagKeys = map[string]string{
	"user-agent":     "user_agent",
	"endpoints-file": "endpoints_file",
	"cache-dir":      "cache.dir",
	"cache-ttl":      "cache.ttl",
	"dns-server":     "dns.server",
	"rate-rps":       "rate.rps",
	"rate-burst":     "rate.burst",
}

// ValidKeys returns every config key in sorted order.
func ValidKeys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// NormalizeKey converts a flag name such as "cache-dir" or "user-agent" to
// its config key.
func NormalizeKey(key string) string {
	if k, ok := flagKeys[key]; ok {
		return k
	}
	return strings.ReplaceAll(key, "-", "_")
}

// ValidateKey returns ErrUnknownKey if key (or the flag name it normalizes
// from) is not a config key.
func ValidateKey(key string) error {
	if _, ok := keys[NormalizeKey(key)]; !ok {
		return fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(ValidKeys(), ", "))
	}
	return nil
}

// ParseValue converts raw to the type stored for key, rejecting values the
// key does not accept. Durations are kept as their string form.
func ParseValue(key, raw string) (any, error) {
	key = NormalizeKey(key)
	spec, ok := keys[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	var value any
	switch spec.kind {
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for %s: must be true or false", raw, key)
		}
		value = b
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for %s: must be an integer", raw, key)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("invalid value %q for %s: must be a non-negative number", raw, key)
		}
		value = f
	case kindDuration:
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid value %q for %s: must be a duration such as 10s or 24h", raw, key)
		}
		value = raw
	default:
		if len(spec.enum) > 0 && !slices.Contains(spec.enum, raw) {
			return nil, fmt.Errorf("invalid value %q for %s: must be one of %s", raw, key, strings.Join(spec.enum, ", "))
		}
		value = raw
	}

	if spec.check != nil {
		if err := spec.check(raw); err != nil {
			return nil, fmt.Errorf("invalid value %q for %s: %w", raw, key, err)
		}
	}
	return value, nil
}

// KeyCompletions returns the enumerated values of key, if any.
func KeyCompletions(key string) []string {
	spec := keys[NormalizeKey(key)]
	switch {
	case len(spec.enum) > 0:
		return spec.enum
	case spec.kind == kindBool:
		return []string{"true", "false"}
	default:
		return nil
	}
}

// Value returns the effective value of key in c as a string.
func (c *Config) Value(key string) string {
	switch NormalizeKey(key) {
	case "verbose":
		return strconv.FormatBool(c.Verbose)
	case "output":
		return c.Output
	case "listen":
		return c.Listen
	case "proxy":
		return c.Proxy
	case "user_agent":
		return c.UserAgent
	case "timeout":
		return c.Timeout.String()
	case "concurrency":
		return strconv.Itoa(c.Concurrency)
	case "zscloud":
		return c.Zscloud
	case "endpoints_file":
		return c.EndpointsFile
	case "cache.dir":
		return c.Cache.Dir
	case "cache.ttl":
		return c.Cache.TTL.String()
	case "dns.server":
		return c.DNS.Server
	case "rate.rps":
		return strconv.FormatFloat(c.Rate.RPS, 'f', -1, 64)
	case "rate.burst":
		return strconv.Itoa(c.Rate.Burst)
	case "microsoft.client_request_id":
		return c.Microsoft.ClientRequestID
	default:
		return ""
	}
}

func positiveDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func atLeastOne(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if n < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func hostname(s string) error {
	if !validate.IsDomain(s) {
		return errors.New("not a valid hostname")
	}
	return nil
}
