package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"intelwatch/internal/observability/metrics"
	"intelwatch/internal/resilience/circuitbreaker"
	"intelwatch/internal/resilience/retry"

	"github.com/sony/gobreaker"
)

const (
	// maxBodySize caps response bodies to prevent memory exhaustion.
	maxBodySize = 10 * 1024 * 1024 // 10MB

	// defaultTimeout bounds a single request when the caller's http.Client
	// carries no timeout of its own.
	defaultTimeout = 30 * time.Second
)

// Result is the payload of one successful fetch.
type Result struct {
	Body       []byte
	StatusCode int
	Elapsed    time.Duration
}

// Client performs outbound HTTP GETs with identity rotation, per-host rate
// limiting, bounded retry with exponential backoff, and per-host circuit
// breaking. Transient failures (timeouts, connection errors, 5xx, 429,
// 408) are retried up to the configured maximum; other 4xx responses fail
// immediately. Client is safe for concurrent use.
type Client struct {
	http      *http.Client
	identity  *Rotator
	limiter   *HostLimiter
	feedRetry retry.Config
	pageRetry retry.Config

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

// NewClient creates a fetch client from its collaborators.
// feedRetry and pageRetry are the retry profiles for the two fetch paths;
// a zero-value profile falls back to retry.DefaultConfig. The identity
// rotator and host limiter are owned by the run that constructs the
// client, not process-global.
func NewClient(hc *http.Client, identity *Rotator, limiter *HostLimiter, feedRetry, pageRetry retry.Config) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	if feedRetry.MaxAttempts <= 0 {
		feedRetry = retry.DefaultConfig()
	}
	if pageRetry.MaxAttempts <= 0 {
		pageRetry = retry.DefaultConfig()
	}
	return &Client{
		http:      hc,
		identity:  identity,
		limiter:   limiter,
		feedRetry: feedRetry,
		pageRetry: pageRetry,
		breakers:  make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// GetFeed fetches a feed URL using the feed retry profile.
func (c *Client) GetFeed(ctx context.Context, rawURL string) (*Result, error) {
	return c.get(ctx, rawURL, c.feedRetry)
}

// GetPage fetches a listing or article page using the page retry profile.
// The page profile backs off less aggressively than the feed one so a
// failing page falls back quickly.
func (c *Client) GetPage(ctx context.Context, rawURL string) (*Result, error) {
	return c.get(ctx, rawURL, c.pageRetry)
}

// get fetches the URL and returns the response body.
// The rate limiter is applied before every attempt, including retries, so
// backoff never undercuts host politeness. Errors carry enough detail for
// the caller to classify them; get itself never panics or retries past the
// configured bound.
//
// get only checks the URL's format; private-network rejection happens at
// configuration load and article validation, not here.
func (c *Client) get(ctx context.Context, rawURL string, retryCfg retry.Config) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid fetch URL %q", rawURL)
	}
	key := u.Host
	breaker := c.breakerFor(key)

	var result *Result
	retryErr := retry.WithBackoff(ctx, retryCfg, func() error {
		if err := c.limiter.Wait(ctx, key); err != nil {
			return err
		}

		cbResult, err := breaker.Execute(func() (interface{}, error) {
			return c.doGet(ctx, rawURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("fetch circuit breaker open, request rejected",
					slog.String("url", rawURL),
					slog.String("host", key),
					slog.String("state", breaker.State().String()))
			}
			return err
		}

		result = cbResult.(*Result)
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}
	return result, nil
}

// breakerFor returns the per-host circuit breaker, creating it on first
// use. Breakers are keyed the same way as the rate limiter's token
// buckets, so a persistently failing host opens only its own circuit and
// never blocks fetches to healthy hosts.
func (c *Client) breakerFor(key string) *circuitbreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	cb, ok := c.breakers[key]
	if !ok {
		cfg := circuitbreaker.FetchConfig()
		cfg.Name = "fetch:" + key
		cb = circuitbreaker.New(cfg)
		c.breakers[key] = cb
	}
	return cb
}

// doGet performs a single HTTP GET attempt without retry or breaker.
func (c *Client) doGet(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.identity.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFetchAttempt("transient_error", time.Since(start))
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
		result := "permanent_error"
		if retry.IsRetryable(httpErr) {
			result = "transient_error"
		}
		metrics.RecordFetchAttempt(result, time.Since(start))
		return nil, httpErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		metrics.RecordFetchAttempt("transient_error", time.Since(start))
		return nil, fmt.Errorf("read response body: %w", err)
	}

	elapsed := time.Since(start)
	metrics.RecordFetchAttempt("success", elapsed)

	return &Result{
		Body:       body,
		StatusCode: resp.StatusCode,
		Elapsed:    elapsed,
	}, nil
}
