package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/config"
	"github.com/tbckr/edl/internal/endpoints"
	"github.com/tbckr/edl/internal/server"
	"github.com/tbckr/edl/internal/services"
	"github.com/tbckr/edl/internal/testutil"
)

// execute runs the root command with an isolated config file and an
// in-memory feed cache.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	return executeWithConfig(t, cfgPath, args...)
}

func executeWithConfig(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	all := append([]string{"--config", cfgPath, "--cache-dir", ":memory:"}, args...)
	err := Execute(context.Background(), all, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestNewRegistry_Vendors(t *testing.T) {
	reg := newRegistry(&config.Config{}, endpoints.Default(), &testutil.MockFetcher{}, &testutil.MockResolver{}, testutil.NopLogger())

	var names []string
	for _, v := range reg.Vendors() {
		names = append(names, v.Name)
		if v.Name == "zscaler" {
			assert.True(t, v.ServiceRequired)
			assert.Equal(t, []string{"cenr", "hub", "pac"}, v.Services)
		}
		if v.Name == "polycom" {
			assert.False(t, v.ServiceRequired)
			assert.ElementsMatch(t, []string{"teams", "sfb", "global"}, v.Services)
		}
	}
	assert.Equal(t, []string{"aws", "gcp", "microsoft", "okta", "polycom", "zscaler"}, names)
}

func TestNewRegistry_FeedURLsUseConfiguredCloud(t *testing.T) {
	reg := newRegistry(&config.Config{Zscloud: "zscalertwo.net"}, endpoints.Default(), &testutil.MockFetcher{}, nil, testutil.NopLogger())

	urls := reg.FeedURLs()
	assert.Len(t, urls, 7)
	assert.Contains(t, urls, "https://api.config.zscaler.com/zscalertwo.net/pac/json")
	assert.Contains(t, urls, "https://ip-ranges.amazonaws.com/ip-ranges.json")
	for _, u := range urls {
		assert.NotContains(t, u, "{", "unexpanded placeholder in %s", u)
	}
}

func TestVendorsCmd_Plain(t *testing.T) {
	stdout, _, err := execute(t, "vendors")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "aws", lines[0])
	assert.Equal(t, "zscaler cenr,hub,pac", lines[5])
}

func TestVendorsCmd_JSON(t *testing.T) {
	stdout, _, err := execute(t, "vendors", "-o", "json")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Len(t, got, 6)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "edl version "))
}

func TestConfigSetThenGet(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := executeWithConfig(t, cfgPath, "config", "set", "cache-ttl", "6h")
	require.NoError(t, err)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ttl: 6h")

	stdout, _, err := executeWithConfig(t, cfgPath, "config", "get", "cache.ttl")
	require.NoError(t, err)
	assert.Equal(t, "6h0m0s\n", stdout)
}

func TestConfigSet_RejectsInvalidValue(t *testing.T) {
	_, _, err := execute(t, "config", "set", "output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestConfigGet_UnknownKey(t *testing.T) {
	_, _, err := execute(t, "config", "get", "nope")
	require.ErrorIs(t, err, config.ErrUnknownKey)
}

func TestConfigShow_Plain(t *testing.T) {
	stdout, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "zscloud=zscloud.net\n")
	assert.Contains(t, stdout, "cache.dir=:memory:\n")
}

func TestLookupCmd_UnknownVendor(t *testing.T) {
	_, stderr, err := execute(t, "lookup", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vendor is not known")
	assert.Contains(t, stderr, "rejected request")
}

func TestLookupCmd_ZscalerRequiresService(t *testing.T) {
	_, _, err := execute(t, "lookup", "zscaler")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service is required")
}

func TestCompleteVendorArgs(t *testing.T) {
	assert.Contains(t, completeVendorArgs(nil), "microsoft")
	assert.Equal(t, []string{"cenr", "hub", "pac"}, completeVendorArgs([]string{"zscaler"}))
	assert.Nil(t, completeVendorArgs([]string{"zscaler", "pac"}))
}

func TestFeedReport_WritePlain(t *testing.T) {
	var buf bytes.Buffer
	report := feedReport{
		{URL: "https://a.example/feed.json", Bytes: 10},
		{URL: "https://b.example/feed.json", Error: "upstream unavailable"},
	}
	require.NoError(t, report.WritePlain(&buf))
	assert.Equal(t, "ok https://a.example/feed.json\nfail https://b.example/feed.json: upstream unavailable\n", buf.String())
}

func TestSettings_JSON(t *testing.T) {
	s := settings{{"output", "plain"}, {"zscloud", "zscloud.net"}}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"output":"plain","zscloud":"zscloud.net"}`, string(data))
}

func TestNewRegistry_PolycomServiceFailuresAreUpstream(t *testing.T) {
	r := testutil.StaticResolver(map[string][]string{"edge-teams.plcm.vc": {"203.0.113.7"}})
	reg := newRegistry(&config.Config{}, endpoints.Default(), &testutil.MockFetcher{}, r, testutil.NopLogger())

	for _, service := range []string{"foo_bar", "a b", "nosuch"} {
		t.Run(service, func(t *testing.T) {
			_, err := reg.Resolve(context.Background(), services.NewQuery("polycom", service, nil))
			require.Error(t, err)
			assert.Equal(t, http.StatusServiceUnavailable, server.StatusFor(err))
		})
	}

	res, err := reg.Resolve(context.Background(), services.NewQuery("polycom", "teams", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.7"}, res.IPs)
}

func TestLookupCmd_InvalidPatternIsBadRequest(t *testing.T) {
	_, _, err := execute(t, "lookup", "microsoft", "(share")
	require.ErrorIs(t, err, apperr.ErrBadRequest)

	stdout, _, err := execute(t, "lookup", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "does not compile")
}
