package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
)

const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 2

	userAgent = "toggl2slack/1.0"
	// maxRetryAfter caps a server-provided Retry-After.
	maxRetryAfter = 2 * time.Minute
	maxBody       = 1 << 20
)

// DefaultRetryDelays are the waits before each attempt. The first entry
// belongs to the first attempt and is always skipped.
var DefaultRetryDelays = []time.Duration{
	0,                // Immediate first attempt
	5 * time.Second,  // Retry after 5s
	30 * time.Second, // Retry after 30s
}

// HTTPClient posts payloads with retry logic. Rate limiting (429), server
// errors (5xx) and transport failures are retried; other 4xx responses are
// returned immediately.
type HTTPClient struct {
	client     *http.Client
	maxRetries int
	retryDelay []time.Duration

	// rateLimitOnly limits retries to 429 responses, for endpoints where a
	// lost response may hide a request the server already applied.
	rateLimitOnly bool
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithRetries sets the retry count and the delay before each attempt.
// When there are fewer delays than attempts the last delay is reused.
func WithRetries(maxRetries int, delays []time.Duration) HTTPOption {
	return func(h *HTTPClient) {
		if maxRetries >= 0 {
			h.maxRetries = maxRetries
		}
		if len(delays) > 0 {
			h.retryDelay = delays
		}
	}
}

// WithRateLimitRetriesOnly retries only rate-limited (429) attempts.
// Server errors and transport failures are returned after one attempt.
func WithRateLimitRetriesOnly() HTTPOption {
	return func(h *HTTPClient) { h.rateLimitOnly = true }
}

// NewHTTPClient creates a new HTTP client with default settings.
func NewHTTPClient(opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelays,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Request is a single outgoing POST.
type Request struct {
	URL         string
	ContentType string
	Header      http.Header
	Body        []byte
}

// SendResult contains the result of a send operation.
type SendResult struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
	Attempts   int
	Error      error
}

// Send posts req, retrying as described on HTTPClient.
func (c *HTTPClient) Send(ctx context.Context, req Request) *SendResult {
	result := &SendResult{}
	start := time.Now()
	log := logging.FromContext(ctx)

	var retryAfter time.Duration
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		result.Attempts = attempt + 1

		if attempt > 0 {
			wait := c.delay(attempt)
			if retryAfter > wait {
				wait = retryAfter
			}
			log.Debug("retrying request", logging.KeyAttempt, attempt+1, "wait_ms", wait.Milliseconds())
			select {
			case <-ctx.Done():
				result.Error = ctx.Err()
				result.Duration = time.Since(start)
				return result
			case <-time.After(wait):
			}
		}
		retryAfter = 0

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
		if err != nil {
			result.Error = fmt.Errorf("failed to create request: %w", err)
			result.Duration = time.Since(start)
			return result
		}
		for k, vs := range req.Header {
			for _, v := range vs {
				httpReq.Header.Add(k, v)
			}
		}
		httpReq.Header.Set("Content-Type", req.ContentType)
		httpReq.Header.Set("User-Agent", userAgent)

		resp, err := c.client.Do(httpReq)
		if err != nil {
			result.Error = fmt.Errorf("request failed: %w", err)
			if ctx.Err() != nil || c.rateLimitOnly {
				break
			}
			continue
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		resp.Body.Close()

		result.StatusCode = resp.StatusCode
		result.Body = body

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			result.Error = nil
			result.Duration = time.Since(start)
			return result

		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
			result.Error = fmt.Errorf("rate limited (HTTP 429)")
			continue

		case resp.StatusCode >= 500:
			result.Error = fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, string(body))
			if c.rateLimitOnly {
				result.Duration = time.Since(start)
				return result
			}
			continue
		}

		result.Error = fmt.Errorf("client error (HTTP %d): %s", resp.StatusCode, string(body))
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	if result.Error == nil {
		result.Error = errors.New("max retries exceeded")
	}
	return result
}

func (c *HTTPClient) delay(attempt int) time.Duration {
	if len(c.retryDelay) == 0 {
		return 0
	}
	if attempt >= len(c.retryDelay) {
		return c.retryDelay[len(c.retryDelay)-1]
	}
	return c.retryDelay[attempt]
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}
