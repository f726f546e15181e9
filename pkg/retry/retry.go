// Package retry classifies transient HTTP failures and computes exponential
// backoff delays for the loandesk API clients.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/url"
	"strings"
	"time"
)

// jitterFraction is the maximum share of the base delay added as jitter.
const jitterFraction = 0.2

// networkErrorMarkers are substrings that identify connection-level failures
// when the error type itself is not informative.
var networkErrorMarkers = []string{
	"failed to fetch",
	"networkerror",
	"load failed",
	"connection refused",
	"connection reset",
	"fetch",
}

// Policy bounds a retry loop: how many attempts in total and how the
// per-attempt backoff delay grows.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy returns the policy used by the API clients: three attempts,
// 500ms base delay, capped at four seconds.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    4 * time.Second,
	}
}

// Wait sleeps for the backoff delay of the given attempt, returning early
// with the context error if the context is cancelled.
func (p Policy) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(BackoffDelay(attempt, p.BaseDelay, p.MaxDelay))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryableStatus reports whether an HTTP status code indicates a
// transient condition worth retrying: request timeout, rate limiting, or any
// server-side failure.
func IsRetryableStatus(status int) bool {
	return status == 408 || status == 429 || (status >= 500 && status <= 599)
}

// IsLikelyNetworkError reports whether err looks like a connection-level
// transport failure rather than a response the server produced.
func IsLikelyNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range networkErrorMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// BackoffDelay computes the delay before retry attempt n: min(max, base*2^n)
// plus up to 20% random jitter, rounded to a whole millisecond count.
func BackoffDelay(attempt int, base, max time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	if max < base {
		max = base
	}

	delay := float64(base) * math.Pow(2, float64(attempt))
	if delay > float64(max) {
		delay = float64(max)
	}
	delay += delay * jitterFraction * rand.Float64()

	ms := math.Round(delay / float64(time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
