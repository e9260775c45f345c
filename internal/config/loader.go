package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tbckr/edl/internal/appdir"
	"github.com/tbckr/edl/internal/cache"
)

// EnvPrefix prefixes every environment variable override, e.g. EDL_CACHE_DIR.
const EnvPrefix = "EDL"

// RegisterFlags adds the global flags to flags. Subcommands may add further
// flags named after config keys (e.g. "listen"); Load binds those too.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file (default is <user config dir>/edl/config.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.StringP("output", "o", "plain", "output format: plain, json or table")
	flags.String("proxy", "", "proxy URL for outbound requests (http, https or socks5)")
	flags.String("user-agent", "", "User-Agent for outbound requests")
	flags.Duration("timeout", 0, "timeout for each outbound request or DNS lookup (default 10s)")
	flags.Int("concurrency", 0, "parallel feed fetches for warm (default 4)")
	flags.String("cache-dir", "", `feed cache directory, or ":memory:" (default is <user cache dir>/edl)`)
	flags.Duration("cache-ttl", 0, "how long a cached feed stays fresh (default 24h)")
	flags.String("dns-server", "", "nameserver host:port to query instead of the system resolver")
	flags.Float64("rate-rps", 0, "outbound requests per second, 0 disables pacing (default 5)")
	flags.Int("rate-burst", 0, "outbound request burst (default 10)")
	flags.String("endpoints-file", "", "YAML file overriding vendor feed URLs")
}

// DefaultConfigPath returns <user config dir>/edl/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := appdir.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load resolves the configuration. Precedence is flags that were set, then
// EDL_* environment variables, then the config file, then defaults.
//
// A missing config file is created empty (0600) so that `edl config set`
// has something to write to; if that is not possible the defaults apply.
func Load(flags *pflag.FlagSet) (*Config, error) {
	path, err := configPath(flags)
	if err != nil {
		return nil, err
	}
	ensureFile(path)

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigFile = path

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configPath(flags *pflag.FlagSet) (string, error) {
	if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}
	return DefaultConfigPath()
}

func ensureFile(path string) {
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := appdir.EnsureDir(filepath.Dir(path)); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	_ = f.Close()
}

// bindFlags binds only flags the user set, so an unset flag's zero default
// never shadows the environment or the config file.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		key := NormalizeKey(f.Name)
		if _, ok := keys[key]; !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("binding flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

func setDefaults(v *viper.Viper) {
	for key, spec := range keys {
		v.SetDefault(key, spec.def)
	}
	v.SetDefault("cache.dir", defaultCacheDir())
}

// defaultCacheDir falls back to an in-memory cache when the OS reports no
// cache directory.
func defaultCacheDir() string {
	dir, err := appdir.CacheDir()
	if err != nil {
		return cache.MemoryDir
	}
	return dir
}

func (c *Config) validate() error {
	for _, key := range ValidKeys() {
		if keys[key].kind == kindString && c.Value(key) == "" {
			continue
		}
		if _, err := ParseValue(key, c.Value(key)); err != nil {
			return err
		}
	}
	return nil
}
