// internal/transport/client.go
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"loandesk/internal/auth"
	"loandesk/pkg/telemetry"
)

// Config configures the shared API client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     auth.TokenProvider
	Telemetry  telemetry.Sink
	Logger     zerolog.Logger
}

// Client is the HTTP plumbing shared by the device and reservation services:
// JSON requests against a base URL, best-effort bearer token injection, a
// circuit breaker on transport failures, and a telemetry hook for operation
// outcomes.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    auth.TokenProvider
	telemetry telemetry.Sink
	log       zerolog.Logger
	breaker   *gobreaker.CircuitBreaker
}

// NewClient creates a Client. A nil HTTPClient gets a 30 second timeout; a
// nil Telemetry sink is replaced with a no-op.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	sink := cfg.Telemetry
	if sink == nil {
		sink = telemetry.Noop{}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "loandesk-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      httpClient,
		tokens:    cfg.Tokens,
		telemetry: sink,
		log:       cfg.Logger,
		breaker:   breaker,
	}
}

// Telemetry returns the sink operations report into.
func (c *Client) Telemetry() telemetry.Sink {
	return c.telemetry
}

// Do executes one JSON request. body, when non-nil, is marshaled as the JSON
// request body. Only transport-level failures count against the circuit
// breaker; any response the server produced is returned as-is.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Token failures downgrade the request to unauthenticated rather than
	// failing the operation.
	if c.tokens != nil {
		token, tokenErr := c.tokens.AccessToken(ctx)
		switch {
		case tokenErr != nil:
			c.log.Warn().Err(tokenErr).Str("path", path).
				Msg("access token unavailable, sending unauthenticated request")
		case token != "":
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*http.Response), nil
}

// Report records the outcome of one service operation: a dependency record
// always, plus either a success event or an exception and a "{op}_failed"
// event.
func (c *Client) Report(op, target string, start time.Time, status int, err error, props telemetry.Properties) {
	duration := time.Since(start)
	c.telemetry.TrackDependency(op, target, duration, err == nil, status, props)

	if err != nil {
		c.telemetry.TrackException(err, props)
		c.telemetry.TrackEvent(op+"_failed", props)
		c.log.Error().Err(err).Str("operation", op).Str("target", target).Msg("api call failed")
		return
	}
	c.telemetry.TrackEvent(op, props)
}
