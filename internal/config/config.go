// Package config loads edl settings from flags, EDL_* environment variables
// and a YAML config file, in that order of precedence.
package config

import "time"

// Config is the fully-resolved configuration.
type Config struct {
	// ConfigFile is the path of the YAML file that was read.
	ConfigFile string `mapstructure:"-"`

	Verbose     bool          `mapstructure:"verbose"`
	Output      string        `mapstructure:"output"`
	Listen      string        `mapstructure:"listen"`
	Proxy       string        `mapstructure:"proxy"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`

	// Zscloud is the Zscaler cloud used when a query names none.
	Zscloud string `mapstructure:"zscloud"`

	// EndpointsFile optionally overrides vendor feed URLs.
	EndpointsFile string `mapstructure:"endpoints_file"`

	Cache     CacheConfig     `mapstructure:"cache"`
	DNS       DNSConfig       `mapstructure:"dns"`
	Rate      RateConfig      `mapstructure:"rate"`
	Microsoft MicrosoftConfig `mapstructure:"microsoft"`
}

// CacheConfig controls the feed cache.
type CacheConfig struct {
	// Dir holds one file per cached feed. ":memory:" keeps the cache in process.
	Dir string        `mapstructure:"dir"`
	TTL time.Duration `mapstructure:"ttl"`
}

// DNSConfig controls hostname lookups.
type DNSConfig struct {
	// Server is a host:port nameserver queried directly. Empty uses the system resolver.
	Server string `mapstructure:"server"`
}

// RateConfig paces outbound feed requests.
type RateConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// MicrosoftConfig holds settings for the Microsoft 365 endpoints service.
type MicrosoftConfig struct {
	ClientRequestID string `mapstructure:"client_request_id"`
}
