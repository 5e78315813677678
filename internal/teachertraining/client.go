package teachertraining

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/find-teacher-training/search/internal/cache"
	"github.com/find-teacher-training/search/internal/metrics"
)

var (
	ErrUpstreamUnavailable = errors.New("course api unavailable")
	ErrMalformedPayload    = errors.New("course api payload malformed")
)

const (
	mediaType    = "application/vnd.api+json"
	maxBodyBytes = 10 << 20
)

// Client reads courses, subjects and provider suggestions from the
// teacher-training JSON:API service for one base URL.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
	Cache     cache.Store
	CacheTTL  time.Duration
	Logger    zerolog.Logger
}

func New(baseURL string, timeout time.Duration, store cache.Store, ttl time.Duration, logger zerolog.Logger) *Client {
	if store == nil {
		store = cache.Nop{}
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: "find-teacher-training-search",
		HTTP:      &http.Client{Timeout: timeout},
		Cache:     store,
		CacheTTL:  ttl,
		Logger:    logger.With().Str("component", "teachertraining").Logger(),
	}
}

func (c *Client) cycleURL(cycle string, resource string, q url.Values) string {
	u := fmt.Sprintf("%s/recruitment_cycles/%s", c.BaseURL, url.PathEscape(cycle))
	if resource != "" {
		u += "/" + resource
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// Ping checks that the current recruitment cycle resolves upstream.
func (c *Client) Ping(ctx context.Context, cycle string) error {
	_, err := c.do(ctx, "recruitment_cycles", c.cycleURL(cycle, "", nil))
	return err
}

// fetch serves endpoint from cache when possible; a body is only cached once
// decode accepts it.
func (c *Client) fetch(ctx context.Context, resource, endpoint string, decode func([]byte) error) error {
	key := cache.Key(resource, endpoint)
	if body, ok := c.cached(ctx, resource, key); ok {
		if err := decode(body); err == nil {
			return nil
		}
		c.Logger.Warn().Str("resource", resource).Msg("discarding undecodable cached body")
	}

	body, err := c.do(ctx, resource, endpoint)
	if err != nil {
		return err
	}
	if err := decode(body); err != nil {
		metrics.UpstreamRequests.WithLabelValues(resource, "malformed").Inc()
		return fmt.Errorf("%w: %s: %v", ErrMalformedPayload, resource, err)
	}
	c.remember(ctx, resource, key, body)
	return nil
}

func (c *Client) cached(ctx context.Context, resource, key string) ([]byte, bool) {
	if c.Cache == nil {
		return nil, false
	}
	body, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.Logger.Warn().Err(err).Str("resource", resource).Msg("cache read failed")
		return nil, false
	}
	result := "miss"
	if ok {
		result = "hit"
	}
	metrics.CacheLookups.WithLabelValues(resource, result).Inc()
	return body, ok
}

func (c *Client) remember(ctx context.Context, resource, key string, body []byte) {
	if c.Cache == nil {
		return
	}
	if err := c.Cache.Set(ctx, key, body, c.CacheTTL); err != nil {
		c.Logger.Warn().Err(err).Str("resource", resource).Msg("cache write failed")
	}
}

func (c *Client) do(ctx context.Context, resource, endpoint string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", mediaType)
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(resource, "error").Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues(resource, "http_error").Inc()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: %s: http %s: %s", ErrUpstreamUnavailable, resource, resp.Status, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(resource, "error").Inc()
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrUpstreamUnavailable, resource, err)
	}
	metrics.UpstreamRequests.WithLabelValues(resource, "ok").Inc()
	c.Logger.Debug().
		Str("resource", resource).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("upstream request")
	return body, nil
}
