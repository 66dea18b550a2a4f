// Package newsapi is the HTTP client for the upstream headline API.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/joestump/newspie/internal/config"
	"github.com/joestump/newspie/internal/metrics"
	"github.com/joestump/newspie/internal/news"
	"github.com/joestump/newspie/internal/store"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// Client fetches headlines and search results. Successful responses are
// cached for the configured TTL; failures are never cached or retried.
type Client struct {
	apiKey    string
	endpoints map[news.Endpoint]string
	http      *http.Client
	cache     store.ResponseCache
	ttl       time.Duration
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New creates a Client from cfg. A nil cache disables caching.
func New(cfg *config.Config, cache store.ResponseCache, logger *slog.Logger) *Client {
	if cache == nil {
		cache = store.NopCache{}
	}
	limit := rate.Inf
	if cfg.NewsAPI.RateLimit > 0 {
		limit = rate.Limit(cfg.NewsAPI.RateLimit)
	}
	return &Client{
		apiKey: cfg.NewsAPI.Key,
		endpoints: map[news.Endpoint]string{
			news.TopHeadlines: cfg.NewsAPI.TopHeadlinesURL,
			news.Everything:   cfg.NewsAPI.EverythingURL,
		},
		http:    &http.Client{Timeout: cfg.NewsAPI.Timeout},
		cache:   cache,
		ttl:     cfg.Cache.TTL,
		limiter: rate.NewLimiter(limit, cfg.NewsAPI.Burst),
		logger:  logger,
	}
}

// URL returns the full outbound request URL for q. Parameters are encoded
// in sorted order so equal queries produce equal cache keys.
func (c *Client) URL(q news.Query) (string, error) {
	base, ok := c.endpoints[q.Endpoint]
	if !ok || base == "" {
		return "", fmt.Errorf("%w: no URL configured for endpoint %q", news.ErrUpstreamUnavailable, q.Endpoint)
	}
	return base + "?" + q.Params.Encode(), nil
}

// Fetch implements news.Upstream.
func (c *Client) Fetch(ctx context.Context, q news.Query) (*news.Result, error) {
	u, err := c.URL(q)
	if err != nil {
		return nil, err
	}
	key := store.Key(u)

	if body, ok := c.cached(ctx, key); ok {
		res, err := decode(body)
		if err == nil {
			return res, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cached response", slog.Any("error", err))
	}

	body, err := c.do(ctx, q.Endpoint, u)
	if err != nil {
		return nil, err
	}
	res, err := decode(body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(string(q.Endpoint), "malformed").Inc()
		return nil, err
	}
	if !res.OK() {
		metrics.UpstreamRequestsTotal.WithLabelValues(string(q.Endpoint), "not_ok").Inc()
		return res, nil
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(string(q.Endpoint), "ok").Inc()

	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "response cache write failed", slog.Any("error", err))
	}
	return res, nil
}

// cached looks key up, treating cache errors as misses.
func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	body, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return body, true
	case errors.Is(err, store.ErrNotFound):
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.logger.WarnContext(ctx, "response cache read failed", slog.Any("error", err))
	}
	return nil, false
}

// do performs one GET and returns the body of a 200 response.
func (c *Client) do(ctx context.Context, endpoint news.Endpoint, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", news.ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", news.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamDuration.WithLabelValues(string(endpoint)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(string(endpoint), "transport_error").Inc()
		return nil, fmt.Errorf("%w: %v", news.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(string(endpoint), "transport_error").Inc()
		return nil, fmt.Errorf("%w: read response: %v", news.ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.UpstreamRequestsTotal.WithLabelValues(string(endpoint), "unauthorized").Inc()
		return nil, fmt.Errorf("%w: %s", news.ErrUpstreamAuth, upstreamMessage(body, resp.Status))
	default:
		metrics.UpstreamRequestsTotal.WithLabelValues(string(endpoint), "http_error").Inc()
		return nil, fmt.Errorf("%w: %s", news.ErrUpstreamUnavailable, upstreamMessage(body, resp.Status))
	}
}

func decode(body []byte) (*news.Result, error) {
	var res news.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", news.ErrUpstreamUnavailable, err)
	}
	if res.Status == "" {
		return nil, fmt.Errorf("%w: response has no status", news.ErrUpstreamUnavailable)
	}
	return &res, nil
}

// upstreamMessage extracts the API's error code and message when the body
// carries them, falling back to the HTTP status line.
func upstreamMessage(body []byte, status string) string {
	var res news.Result
	if err := json.Unmarshal(body, &res); err == nil && (res.Code != "" || res.Message != "") {
		return fmt.Sprintf("%s: %s: %s", status, res.Code, res.Message)
	}
	return status
}
