// Package httpx provides the single retrying HTTP client shared by the
// recall and claims stages. Every network call site goes through the same
// parameterized retry policy instead of growing its own backoff loop.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/worker"
)

// RetryPolicy bounds the retry loop: attempt count, exponential backoff
// base, sleep jitter, and the allow-list of transient HTTP statuses.
type RetryPolicy struct {
	MaxRetries  int
	BackoffBase float64
	Jitter      float64
	Retryable   map[int]bool
}

// PolicyFromConfig builds a RetryPolicy from configuration.
func PolicyFromConfig(cfg model.RetryConfig) RetryPolicy {
	retryable := make(map[int]bool, len(cfg.RetryableStatuses))
	for _, s := range cfg.RetryableStatuses {
		retryable[s] = true
	}
	return RetryPolicy{
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
		Jitter:      cfg.Jitter,
		Retryable:   retryable,
	}
}

// backoff returns the sleep before retry number attempt (1-based), with
// random jitter applied.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := math.Pow(p.BackoffBase, float64(attempt-1))
	factor := 1.0 + (rand.Float64()*2-1)*math.Abs(p.Jitter)
	secs := math.Max(0, base*factor)
	return time.Duration(secs * float64(time.Second))
}

// StatusError is a non-2xx HTTP response surfaced as an error.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// Client is a retrying GET client with per-domain rate limiting.
type Client struct {
	http      *http.Client
	userAgent string
	maxBytes  int64
	policy    RetryPolicy
	limiter   *worker.Limiter

	// sleep is injectable for tests.
	sleep func(time.Duration)
}

// NewClient builds a Client from the HTTP and retry configuration. limiter
// may be nil to disable rate limiting.
func NewClient(httpCfg model.HTTPConfig, policy RetryPolicy, limiter *worker.Limiter) *Client {
	return &Client{
		http: &http.Client{
			Timeout: httpCfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		policy:    policy,
		limiter:   limiter,
		sleep:     time.Sleep,
	}
}

// Get fetches rawURL, retrying transient failures per the policy. accept is
// the Accept header ("" for a default HTML accept).
func (c *Client) Get(ctx context.Context, rawURL string, accept string) ([]byte, error) {
	if accept == "" {
		accept = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	maxAttempts := c.policy.MaxRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := c.getOnce(ctx, rawURL, accept)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !c.retryable(err) || attempt == maxAttempts {
			return nil, err
		}
		c.sleep(c.policy.backoff(attempt))
	}
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused across retries.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// retryable reports whether err is on the transient allow-list: retryable
// HTTP statuses plus network/timeout errors. Other HTTP errors propagate
// immediately.
func (c *Client) retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return c.policy.Retryable[statusErr.StatusCode]
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// ClassifyFetchError maps a fetch error onto the claims_status taxonomy.
// The second return is the human-readable message stored in claims_error.
func ClassifyFetchError(err error) (string, string) {
	if err == nil {
		return model.ClaimsStatusFetchFailed, ""
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusForbidden:
			return model.ClaimsStatusFetchBlocked403, err.Error()
		case http.StatusPreconditionFailed:
			return model.ClaimsStatusFetchBlocked412, err.Error()
		case http.StatusServiceUnavailable:
			return model.ClaimsStatusFetchFailed503, err.Error()
		case http.StatusTooManyRequests:
			return model.ClaimsStatusFetchFailed429, err.Error()
		}
		return fmt.Sprintf("fetch_failed_http_%d", statusErr.StatusCode), err.Error()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.ClaimsStatusFetchTimeout, err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.ClaimsStatusFetchTimeout, err.Error()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return model.ClaimsStatusFetchNetwork, err.Error()
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return model.ClaimsStatusFetchNetwork, err.Error()
	}
	return model.ClaimsStatusFetchFailed, err.Error()
}

// SleepWithJitter sleeps for base scaled by a random factor in [1-jitter,
// 1+jitter]. Used for the advisory inter-request pacing between queries and
// records.
func SleepWithJitter(base time.Duration, jitter float64) {
	if base <= 0 {
		return
	}
	factor := 1.0 + (rand.Float64()*2-1)*math.Abs(jitter)
	d := time.Duration(math.Max(0, float64(base)*factor))
	time.Sleep(d)
}
