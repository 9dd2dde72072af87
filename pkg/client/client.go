// Package client provides the HTTP client for the exercise library REST API
// with rate-limit gating, error normalization and request metrics.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/exercise-library-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_requests_total",
		Help: "Total backend requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "library_request_duration_seconds",
		Help:    "Backend request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_errors_total",
		Help: "Total backend errors by class",
	}, []string{"class"})
)

// Client talks to the exercise library backend.
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.Tracker
	baseURL     *url.URL
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8080".
	BaseURL string

	// BasePath is prefixed to every resource path.
	BasePath string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration

	// RateLimitStore holds the backend budget. Nil means an in-memory store.
	RateLimitStore ratelimit.Store
}

// DefaultConfig returns a default configuration for the given backend.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:   baseURL,
		BasePath:  "/v1",
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a new backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}

	logger := log.With().Str("component", "library-client").Logger()

	store := cfg.RateLimitStore
	if store == nil {
		store = ratelimit.NewMemoryStore()
	}

	base.Path = strings.TrimRight(base.Path, "/") + "/" + strings.Trim(cfg.BasePath, "/")
	base.Path = strings.TrimRight(base.Path, "/")

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: ratelimit.NewTracker(store, logger),
		baseURL:     base,
		config:      cfg,
		logger:      logger,
	}, nil
}

// Do performs an HTTP request through the rate-limit gate.
// Responses with status >= 400 are consumed and returned as *RequestError.
// On success the caller owns the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := endpointLabel(req.URL.Path)

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if err := c.rateLimiter.Allow(ctx); err != nil {
		if errors.Is(err, ratelimit.ErrBlocked) {
			c.logger.Warn().
				Str("endpoint", endpoint).
				Msg("Request blocked by rate limiter")
			requestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
			errorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
			return nil, &RequestError{
				Class:   ErrorClassRateLimit,
				Message: "request blocked by rate limiter",
				Err:     err,
			}
		}
		if ctx.Err() != nil {
			return nil, &RequestError{Class: ErrorClassNetwork, Message: "request cancelled", Err: err}
		}
		// Store failures do not block requests.
		c.logger.Warn().Err(err).Msg("Rate limit check failed")
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &RequestError{
			Class:   ErrorClassNetwork,
			Message: "backend unreachable",
			Err:     err,
		}
	}

	if err := c.rateLimiter.UpdateFromHeaders(ctx, resp.Header); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
	}

	status := strconv.Itoa(resp.StatusCode)
	requestsTotal.WithLabelValues(endpoint, status).Inc()

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Str("query", req.URL.RawQuery).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Backend request completed")

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		reqErr := newStatusError(resp)
		errorsTotal.WithLabelValues(string(reqErr.Class)).Inc()

		event := c.logger.Warn()
		if reqErr.Class == ErrorClassServer {
			event = c.logger.Error()
		}
		event.
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(reqErr.Class)).
			Str("message", reqErr.Message).
			Msg("Backend request error")

		return nil, reqErr
	}

	return resp, nil
}

// request builds, sends and decodes one JSON round trip. in and out may be nil.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassServer,
			Message:    "malformed response body",
			Err:        err,
		}
	}
	return nil
}

// RateLimitState returns the last budget reported by the backend, or nil.
func (c *Client) RateLimitState(ctx context.Context) (*ratelimit.State, error) {
	return c.rateLimiter.State(ctx)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// endpointLabel collapses numeric path segments so ids do not explode
// metric cardinality: /v1/exercises/42 -> /v1/exercises/{id}.
func endpointLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if _, err := strconv.Atoi(s); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
