package appdir_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/edl/internal/appdir"
)

func hasAppSuffix(dir string) bool {
	return strings.HasSuffix(dir, "/edl") || strings.HasSuffix(dir, `\edl`)
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir, err := appdir.ConfigDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir), "expected absolute path, got %q", dir)
	assert.True(t, hasAppSuffix(dir), "expected path ending in /edl or \\edl, got %q", dir)
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := appdir.CacheDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir), "expected absolute path, got %q", dir)
	assert.True(t, hasAppSuffix(dir), "expected path ending in /edl or \\edl, got %q", dir)
}

func TestEnsureDir_CreatesNested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, appdir.EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, appdir.EnsureDir(dir))
	require.NoError(t, appdir.EnsureDir(dir))
}
