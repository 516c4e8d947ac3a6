package jobboard

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// clientConfig holds the knobs shared by all board clients.
type clientConfig struct {
	baseURL    string
	userAgent  string
	http       *http.Client
	maxRetries int
	limiter    *rate.Limiter
}

// Option configures a board client.
type Option func(*clientConfig)

// WithBaseURL overrides the board base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.http = hc }
}

// WithUserAgent sets the User-Agent header sent to the board.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) { c.userAgent = ua }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.http.Timeout = d }
}

// WithMaxRetries sets how many attempts are made per page request.
func WithMaxRetries(n int) Option {
	return func(c *clientConfig) { c.maxRetries = n }
}

// WithRateLimiter sets the per-client request rate limiter.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *clientConfig) { c.limiter = l }
}

func newClientConfig(opts ...Option) clientConfig {
	c := clientConfig{
		userAgent:  defaultUserAgent,
		maxRetries: 3,
		limiter:    rate.NewLimiter(2, 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// get fetches a URL with rate limiting and exponential-backoff retries on
// transient failures (429, 500, 502, 503). Returns the response body and
// status code, or the last error after exhausting retries.
func (c *clientConfig) get(ctx context.Context, reqURL, boardName string) ([]byte, int, error) {
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, 0, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, 0, eris.Wrapf(err, "%s: create request", boardName)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, eris.Wrapf(lastErr, "%s: request failed", boardName)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrapf(readErr, "%s: read response body", boardName)
		}

		if retryableStatusCode(resp.StatusCode) && attempt < c.maxRetries {
			lastErr = eris.Errorf("%s: status %d", boardName, resp.StatusCode)
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, eris.Wrapf(lastErr, "%s: retries exhausted", boardName)
}
