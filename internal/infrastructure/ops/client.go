// Package ops implements all remote I/O of the extraction pipeline: the
// one-time token exchange, the paginated biblio search, and the
// per-document detail, classification, and register fetches. Every outbound
// request passes through a shared rate gate so the aggregate request rate
// stays within the fair-use policy no matter how callers are arranged.
package ops

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Sanaks-uk/EPO-data/internal/config"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/metrics"
)

const userAgent = "epodata/0.1.0"

// response is the outcome of one remote call. Transport failures surface as
// errors; HTTP status interpretation is left to each caller because the
// enrichers treat any non-200 as "try the next variant" while the search
// treats it as a window failure.
type response struct {
	Status     int
	Body       []byte
	RetryAfter string
}

func (r *response) ok() bool {
	return r.Status == http.StatusOK && len(r.Body) > 0
}

// Client is the shared HTTP layer for all OPS and register calls. It holds
// the bearer token obtained by Authenticate, the rate gate, and the
// instrumentation hooks. Client is safe for concurrent use once
// Authenticate has returned.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
	collector  *metrics.Collector

	baseURL         string
	registerBaseURL string
	retryAfterLimit time.Duration

	token string
}

// NewClient builds a Client from the OPS configuration. The rate gate
// enforces cfg.CallDelay between any two outbound requests with no burst
// allowance.
func NewClient(cfg config.OPSConfig, logger logging.Logger, collector *metrics.Collector) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: cfg.RequestTimeout},
		limiter:         rate.NewLimiter(rate.Every(cfg.CallDelay), 1),
		logger:          logger.Named("ops"),
		collector:       collector,
		baseURL:         cfg.BaseURL,
		registerBaseURL: cfg.RegisterBaseURL,
		retryAfterLimit: cfg.RetryAfterLimit,
	}
}

// get performs one rate-gated GET against url. A 429 response is retried
// exactly once after an extended delay (the larger of the Retry-After
// header and the configured limit); a second 429 is returned to the caller
// as a plain non-200 response. endpoint labels the call for metrics.
func (c *Client) get(ctx context.Context, url, endpoint string) (*response, error) {
	resp, err := c.doOnce(ctx, url, endpoint)
	if err != nil {
		return nil, err
	}

	if resp.Status == http.StatusTooManyRequests {
		delay := c.retryDelay(resp)
		c.collector.ObserveRequest(endpoint, metrics.OutcomeRateLimited)
		c.logger.Warn("rate limited by remote, backing off",
			logging.String("endpoint", endpoint),
			logging.Duration("delay", delay),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return c.doOnce(ctx, url, endpoint)
	}

	return resp, nil
}

// doOnce issues a single request after taking the rate gate.
func (c *Client) doOnce(ctx context.Context, url, endpoint string) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.New().String())

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.collector.ObserveRequest(endpoint, metrics.OutcomeError)
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.collector.ObserveRequest(endpoint, metrics.OutcomeError)
		return nil, err
	}

	outcome := metrics.OutcomeOK
	if httpResp.StatusCode != http.StatusOK {
		outcome = metrics.OutcomeError
	}
	c.collector.ObserveRequest(endpoint, outcome)
	c.logger.Debug("remote call completed",
		logging.String("endpoint", endpoint),
		logging.Int("status", httpResp.StatusCode),
		logging.Duration("elapsed", time.Since(start)),
	)

	return &response{
		Status:     httpResp.StatusCode,
		Body:       body,
		RetryAfter: httpResp.Header.Get("Retry-After"),
	}, nil
}

// retryDelay picks the wait before the single 429 retry: the Retry-After
// header when it exceeds the configured extended delay, the configured
// delay otherwise.
func (c *Client) retryDelay(resp *response) time.Duration {
	if hdr := parseRetryAfter(resp.RetryAfter); hdr > c.retryAfterLimit {
		return hdr
	}
	return c.retryAfterLimit
}

// parseRetryAfter reads a Retry-After value in seconds; 0 when absent or
// malformed.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
