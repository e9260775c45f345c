package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/edl/internal/httpclient"
	"github.com/tbckr/edl/internal/ratelimit"
)

func TestAttachRateLimit_NoRetryOnTransportError(t *testing.T) {
	client := mockClient(t, httpclient.Options{})
	httpclient.AttachRateLimit(client, ratelimit.New(1000, 1000))

	callCount := 0
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		func(_ *http.Request) (*http.Response, error) {
			callCount++
			return nil, errors.New("connection reset by peer")
		})

	_, err := client.R().Get("https://example.com/")
	require.Error(t, err)
	assert.Equal(t, 1, callCount, "a failed attempt must be terminal")
}

func TestAttachRateLimit_NoRetryOnServerError(t *testing.T) {
	client := mockClient(t, httpclient.Options{})
	httpclient.AttachRateLimit(client, ratelimit.New(1000, 1000))

	callCount := 0
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		func(_ *http.Request) (*http.Response, error) {
			callCount++
			return httpmock.NewStringResponse(http.StatusTooManyRequests, ""), nil
		})

	resp, err := client.R().Get("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 1, callCount)
}

func TestAttachRateLimit_CanceledContext(t *testing.T) {
	client := mockClient(t, httpclient.Options{})
	httpclient.AttachRateLimit(client, ratelimit.New(1, 1))

	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		httpmock.NewStringResponder(http.StatusOK, "ok"))

	// Drain the single token, then a canceled context must fail before sending.
	_, err := client.R().Get("https://example.com/")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.R().SetContext(ctx).Get("https://example.com/")
	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestAttachRateLimit_NilLimiter(t *testing.T) {
	client := mockClient(t, httpclient.Options{})
	httpclient.AttachRateLimit(client, nil)

	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		httpmock.NewStringResponder(http.StatusOK, "ok"))

	resp, err := client.R().Get("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.String())
}
