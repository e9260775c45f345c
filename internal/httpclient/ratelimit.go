package httpclient

import (
	"github.com/imroc/req/v3"

	"github.com/tbckr/edl/internal/ratelimit"
)

// AttachRateLimit gates every outbound request on limiter so a burst of
// cache misses cannot hammer a vendor's origin. Requests are never retried:
// a single failed attempt is terminal for the caller. A nil limiter is a no-op.
func AttachRateLimit(client *req.Client, limiter *ratelimit.Limiter) {
	if limiter == nil {
		return
	}
	client.OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
		return limiter.Wait(r.Context())
	})
}
