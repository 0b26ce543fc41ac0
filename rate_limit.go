package datacanvas

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// maxRetryAfterWait caps how long WaitRetryAfter will block.
const maxRetryAfterWait = 5 * time.Minute

// RateLimitInfo contains rate limit information from API response headers.
type RateLimitInfo struct {
	Limit     int       // Maximum requests allowed in the window
	Remaining int       // Requests remaining in current window
	Reset     time.Time // When the rate limit window resets
}

// WithRateLimiter paces outgoing requests on the client side. Each request
// waits for a token before it is sent; a failed wait is a KindNetwork error
// and nothing reaches the server.
//
// Example:
//
//	limiter := rate.NewLimiter(5, 10) // 5 req/s, burst 10
//	client, _ := datacanvas.NewClient(cfg, datacanvas.WithRateLimiter(limiter))
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// parseRateLimitHeaders extracts rate limit information from response headers.
// Returns nil if none of the headers are present.
func parseRateLimitHeaders(header http.Header) *RateLimitInfo {
	limit := header.Get("X-RateLimit-Limit")
	remaining := header.Get("X-RateLimit-Remaining")
	reset := header.Get("X-RateLimit-Reset")

	if limit == "" && remaining == "" && reset == "" {
		return nil
	}

	info := &RateLimitInfo{}
	if v, err := strconv.Atoi(limit); err == nil {
		info.Limit = v
	}
	if v, err := strconv.Atoi(remaining); err == nil {
		info.Remaining = v
	}
	if v, err := strconv.ParseInt(reset, 10, 64); err == nil {
		info.Reset = time.Unix(v, 0)
	}
	return info
}

// parseRetryAfter parses the Retry-After header value.
// It handles both delta-seconds (e.g., "120") and HTTP-date formats.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(value); err == nil {
		if delta := time.Until(t); delta > 0 {
			return delta
		}
	}

	return 0
}

// WaitRetryAfter blocks for the wait the server asked for on a rate-limited
// response. It returns immediately if err is not a KindRateLimit error or
// carries no hint. The client never retries by itself; this is for callers
// that do.
//
// Example:
//
//	res, err := client.Data.List(ctx, q)
//	if datacanvas.IsRateLimited(err) {
//	    if werr := datacanvas.WaitRetryAfter(ctx, err); werr != nil {
//	        return werr
//	    }
//	    res, err = client.Data.List(ctx, q)
//	}
func WaitRetryAfter(ctx context.Context, err error) error {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindRateLimit {
		return nil
	}

	wait := e.RetryAfter
	if wait <= 0 && e.RateLimit != nil {
		wait = time.Until(e.RateLimit.Reset)
	}
	if wait <= 0 {
		return nil
	}
	if wait > maxRetryAfterWait {
		wait = maxRetryAfterWait
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
