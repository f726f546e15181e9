package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{200, false},
		{201, false},
		{400, false},
		{401, false},
		{404, false},
		{408, true},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{599, true},
		{600, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.retryable, IsRetryableStatus(tt.status), "status %d", tt.status)
	}
}

func TestIsLikelyNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("something broke"), false},
		{"failed to fetch", errors.New("Failed to fetch"), true},
		{"network error message", errors.New("NetworkError when attempting to fetch resource"), true},
		{"load failed", errors.New("Load Failed"), true},
		{"connection refused", errors.New("dial tcp 127.0.0.1:1: connection refused"), true},
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("EOF")}, true},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("timeout")}, true},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", fmt.Errorf("list: %w", context.DeadlineExceeded), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLikelyNetworkError(tt.err))
		})
	}
}

func TestBackoffDelayFirstAttempt(t *testing.T) {
	for range 100 {
		d := BackoffDelay(0, 500*time.Millisecond, 4*time.Second)
		require.GreaterOrEqual(t, d, 500*time.Millisecond)
		require.LessOrEqual(t, d, 600*time.Millisecond)
	}
}

func TestBackoffDelayCapped(t *testing.T) {
	for range 100 {
		d := BackoffDelay(10, 500*time.Millisecond, 4*time.Second)
		require.GreaterOrEqual(t, d, 4*time.Second)
		require.LessOrEqual(t, d, 4800*time.Millisecond)
	}
}

func TestBackoffDelayWholeMilliseconds(t *testing.T) {
	d := BackoffDelay(3, 7*time.Millisecond, time.Second)
	assert.Zero(t, d%time.Millisecond)
}

func TestBackoffDelayBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		attempt := rapid.IntRange(0, 20).Draw(t, "attempt")
		baseMs := rapid.Int64Range(1, 1000).Draw(t, "baseMs")
		capMs := rapid.Int64Range(baseMs, 60000).Draw(t, "capMs")

		base := time.Duration(baseMs) * time.Millisecond
		max := time.Duration(capMs) * time.Millisecond

		expected := float64(base) * math.Pow(2, float64(attempt))
		if expected > float64(max) {
			expected = float64(max)
		}

		d := BackoffDelay(attempt, base, max)
		// Rounding to whole milliseconds can shave up to half a millisecond.
		if d < time.Duration(expected)-time.Millisecond {
			t.Fatalf("delay %v below un-jittered floor %v", d, time.Duration(expected))
		}
		ceiling := time.Duration(expected * (1 + jitterFraction))
		if d > ceiling+time.Millisecond {
			t.Fatalf("delay %v above jitter ceiling %v", d, ceiling)
		}
	})
}

func TestPolicyWaitHonorsCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: 10 * time.Second, MaxDelay: 10 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.Wait(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, p.BaseDelay)
	assert.Equal(t, 4*time.Second, p.MaxDelay)
}
