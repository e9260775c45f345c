// Package appdir resolves the OS-specific directories edl reads and writes.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Name is the application directory name used under the OS base directories.
const Name = "edl"

// ConfigDir returns the OS-specific config directory for edl.
// Linux: $XDG_CONFIG_HOME/edl  macOS: ~/Library/Application Support/edl
// Windows: %AppData%/edl
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config dir: %w", err)
	}
	return filepath.Join(base, Name), nil
}

// CacheDir returns the OS-specific cache directory for edl, where fetched
// vendor feeds are stored.
// Linux: $XDG_CACHE_HOME/edl  macOS: ~/Library/Caches/edl
// Windows: %LocalAppData%/edl
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("getting user cache dir: %w", err)
	}
	return filepath.Join(base, Name), nil
}

// EnsureDir creates dir and its parents with 0700 permissions.
// A no-op if the directory already exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}
	return nil
}
