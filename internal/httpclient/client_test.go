package httpclient_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/edl/internal/httpclient"
)

func mockClient(t *testing.T, opts httpclient.Options) *req.Client {
	t.Helper()
	client, err := httpclient.New(opts)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestNew_NoProxy(t *testing.T) {
	client, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, httpclient.DefaultTimeout, client.GetClient().Timeout)
}

func TestNew_CustomTimeout(t *testing.T) {
	client, err := httpclient.New(httpclient.Options{Timeout: 3 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, client.GetClient().Timeout)
}

func TestNew_Proxies(t *testing.T) {
	for _, proxy := range []string{
		"http://gateway.zscloud.net:80",
		"https://proxy.example.com:8080",
		"socks5://127.0.0.1:9050",
	} {
		client, err := httpclient.New(httpclient.Options{Proxy: proxy})
		require.NoError(t, err, "proxy=%s", proxy)
		assert.NotNil(t, client)
	}
}

func TestNew_InvalidProxyScheme(t *testing.T) {
	_, err := httpclient.New(httpclient.Options{Proxy: "ftp://proxy.example.com:8080"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "proxy scheme")
}

func TestNew_WithEnvProxy(t *testing.T) {
	t.Setenv("HTTP_PROXY", "http://proxy.example.com:8080")
	client, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNew_SendsUserAgent(t *testing.T) {
	client := mockClient(t, httpclient.Options{UserAgent: "EDLBot/1.0"})

	var got string
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		func(r *http.Request) (*http.Response, error) {
			got = r.Header.Get("User-Agent")
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	_, err := client.R().Get("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "EDLBot/1.0", got)
}

func TestNew_DefaultUserAgent(t *testing.T) {
	client := mockClient(t, httpclient.Options{})

	var got string
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		func(r *http.Request) (*http.Response, error) {
			got = r.Header.Get("User-Agent")
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	_, err := client.R().Get("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, httpclient.DefaultUserAgent, got)
}

func TestNew_DebugHookLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := mockClient(t, httpclient.Options{Logger: logger, Debug: true})

	httpmock.RegisterResponder(http.MethodGet, "https://example.com/missing",
		httpmock.NewStringResponder(http.StatusNotFound, "nope"))

	_, err := client.R().Get("https://example.com/missing")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "http response")
	assert.Contains(t, buf.String(), "status=404")
	assert.Contains(t, buf.String(), "http error body")
}

func TestNew_DebugHookTransportError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := mockClient(t, httpclient.Options{Logger: logger, Debug: true})

	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := client.R().Get("https://example.com/")
	assert.Error(t, err)
}

func TestResolveProxy_ExplicitValue(t *testing.T) {
	assert.Equal(t, "http://proxy.example.com:8080", httpclient.ResolveProxy("http://proxy.example.com:8080"))
}

func TestResolveProxy_Env(t *testing.T) {
	for _, env := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "ALL_PROXY"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, "http://envproxy.example.com:8080")
			assert.Equal(t, "<from environment>", httpclient.ResolveProxy(""))
		})
	}
}

func TestResolveProxy_ExplicitWinsOverEnv(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "http://envproxy.example.com:8080")
	assert.Equal(t, "http://explicit.example.com:8080", httpclient.ResolveProxy("http://explicit.example.com:8080"))
}

func TestResolveProxy_NoProxy(t *testing.T) {
	for _, env := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "ALL_PROXY", "all_proxy"} {
		t.Setenv(env, "")
	}
	assert.Equal(t, "", httpclient.ResolveProxy(""))
}
