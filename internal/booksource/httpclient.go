package booksource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClientConfig configures the HTTP client.
type HTTPClientConfig struct {
	// Timeout is the per-attempt request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int

	// MaxAttempts is the total number of attempts per request, the first
	// attempt included.
	MaxAttempts int

	// RetryBaseDelay is the delay before the first retry; each subsequent
	// delay doubles.
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps each individual retry delay.
	RetryMaxDelay time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// OnRetry, when set, is invoked once before each retry attempt.
	OnRetry func()
}

// HTTPClient wraps http.Client with rate limiting and retries.
// It is safe for concurrent use.
type HTTPClient struct {
	client      *http.Client
	rateLimiter *RateLimiter
	config      HTTPClientConfig
}

// NewHTTPClient creates a new HTTP client with rate limiting.
// The client applies rate limiting before each attempt and retries on
// network errors and on any non-2xx response, with exponential backoff
// between attempts.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	// Apply defaults
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 5
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = 5
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.RetryMaxDelay == 0 {
		cfg.RetryMaxDelay = 8 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "OpenShelf-CatalogService/1.0"
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: NewRateLimiter(cfg.RateLimit, cfg.BurstSize),
		config:      cfg,
	}
}

// Do executes an HTTP request with rate limiting and retries.
// It waits for the rate limiter before each attempt, sets the User-Agent
// header, and retries on network errors and on any non-2xx status. A
// response is only returned to the caller once it carries a 2xx status.
//
// The request body is not preserved across retries; callers must provide
// requests with GetBody set if the body needs to be resent on retry.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			if c.config.OnRetry != nil {
				c.config.OnRetry()
			}
			if err := c.waitForRetry(req.Context(), c.retryDelay(attempt-1)); err != nil {
				return nil, err
			}
			if err := c.resetRequestBody(req); err != nil {
				return nil, fmt.Errorf("cannot retry request: %w", err)
			}
		}

		// Wait for rate limiter
		if err := c.rateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			// Only the request's own context ends the loop. A per-attempt
			// client timeout also surfaces as a deadline error, and that one
			// is retried like any other network failure.
			if req.Context().Err() != nil {
				return nil, err
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain and close before the next attempt to free the connection
			if resp.Body != nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
			lastErr = &StatusError{StatusCode: resp.StatusCode}
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", c.config.MaxAttempts, lastErr)
}

// StatusError reports a non-2xx response from the upstream API.
type StatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// retryDelay computes the exponential backoff delay before the given retry
// (1-based): base, 2*base, 4*base, ... capped at RetryMaxDelay.
func (c *HTTPClient) retryDelay(retry int) time.Duration {
	delay := c.config.RetryBaseDelay
	for i := 1; i < retry; i++ {
		delay *= 2
		if delay >= c.config.RetryMaxDelay {
			return c.config.RetryMaxDelay
		}
	}
	if delay > c.config.RetryMaxDelay {
		return c.config.RetryMaxDelay
	}
	return delay
}

// waitForRetry waits for the specified duration, respecting context cancellation.
func (c *HTTPClient) waitForRetry(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// resetRequestBody resets the request body for retry if possible.
func (c *HTTPClient) resetRequestBody(req *http.Request) error {
	if req.Body == nil || req.GetBody == nil {
		return nil
	}

	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("failed to get request body for retry: %w", err)
	}
	req.Body = body
	return nil
}
