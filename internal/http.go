package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"golang.org/x/time/rate"
)

// TokenProvider supplies bearer tokens to the HTTP client. Invalidate is
// called with a token the API rejected so the next GetToken fetches a new one.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
	Invalidate(token string)
}

// Client manages communication with the Reddit API.
type Client struct {
	client    *http.Client
	BaseURL   *url.URL
	UserAgent string
	auth      TokenProvider
	logger    *slog.Logger

	limiter        *rate.Limiter
	mu             sync.Mutex
	forceWaitUntil time.Time
}

// RateLimitConfig controls how requests are throttled before reaching Reddit.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int
}

const (
	DefaultRequestsPerMinute = 60
	DefaultRateLimitBurst    = 10
	SecondsPerMinute         = 60.0
	ParseFloatBitSize        = 64

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 32 << 20
	// maxErrorBodyBytes bounds the body kept on an APIError.
	maxErrorBodyBytes = 512
)

// NewClient returns a new Reddit API client. auth may be nil for
// unauthenticated use. If a nil httpClient is provided, http.DefaultClient
// will be used.
func NewClient(httpClient *http.Client, auth TokenProvider, baseURL string, userAgent string, rateCfg *RateLimitConfig, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: err.Error()}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	if rateCfg == nil {
		rateCfg = &RateLimitConfig{}
	}

	return &Client{
		client:    httpClient,
		BaseURL:   parsedURL,
		UserAgent: userAgent,
		auth:      auth,
		logger:    logger,
		limiter:   buildLimiter(*rateCfg),
	}, nil
}

// NewRequest creates an API request. A relative URL can be provided in path,
// in which case it is resolved relative to the BaseURL of the Client. The
// Authorization header is added by Do.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u, err := c.BaseURL.Parse(path)
	if err != nil {
		return nil, &pkgerrs.RequestError{Operation: method, URL: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &pkgerrs.RequestError{Operation: method, URL: u.String(), Err: err}
	}

	req.Header.Set("User-Agent", c.UserAgent)

	return req, nil
}

// Get issues a GET for path with the given query. raw_json=1 is always sent
// so Reddit does not HTML-escape text fields.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	for key, values := range query {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	q.Set("raw_json", "1")
	req.URL.RawQuery = q.Encode()

	return c.Do(req)
}

// PostForm issues a form-encoded POST to path.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := c.NewRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.Do(req)
}

// Do sends an API request and returns the response body. Failures are
// returned as *errors.TransportError when no response arrived and as
// *errors.APIError for non-2xx statuses. A 401 invalidates the access token
// and the request is sent once more with a fresh one.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	body, token, err := c.send(req)

	var apiErr *pkgerrs.APIError
	if c.auth == nil || !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		return body, err
	}

	retry, rewindErr := rewind(req)
	if rewindErr != nil {
		return nil, err
	}

	c.logger.Debug("access token rejected, retrying with a fresh token", "path", req.URL.Path)
	c.auth.Invalidate(token)
	body, _, err = c.send(retry)
	return body, err
}

func (c *Client) send(req *http.Request) ([]byte, string, error) {
	ctx := req.Context()
	start := time.Now()

	var token string
	if c.auth != nil {
		var err error
		token, err = c.auth.GetToken(ctx)
		if err != nil {
			return nil, "", err
		}
		req.Header.Set("Authorization", "bearer "+token)
	}

	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, token, &pkgerrs.TransportError{Operation: req.Method, URL: req.URL.Path, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, token, &pkgerrs.TransportError{Operation: req.Method, URL: req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, token, &pkgerrs.TransportError{Operation: req.Method, URL: req.URL.Path, Err: err}
	}

	c.applyRateHeaders(resp)

	elapsed := time.Since(start)
	requestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	requestDuration.WithLabelValues(req.Method).Observe(elapsed.Seconds())
	c.logger.Debug("reddit request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", elapsed,
		"bytes", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, token, newAPIError(resp.StatusCode, body)
	}

	return body, token, nil
}

// rewind returns a copy of req with a fresh body, or an error if the body
// cannot be replayed.
func rewind(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}

// newAPIError builds an APIError from a non-2xx response. Reddit error
// bodies look like {"message": "Forbidden", "error": 403} or carry a
// "reason" code such as "private".
func newAPIError(status int, body []byte) *pkgerrs.APIError {
	apiErr := &pkgerrs.APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
	}

	var payload struct {
		Message string          `json:"message"`
		Reason  string          `json:"reason"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		}
		switch {
		case payload.Reason != "":
			apiErr.ErrorCode = payload.Reason
		case len(payload.Error) > 0 && payload.Error[0] == '"':
			_ = json.Unmarshal(payload.Error, &apiErr.ErrorCode)
		}
	}

	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	apiErr.Body = string(bytes.TrimSpace(body))
	return apiErr
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / SecondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}

func (c *Client) waitForRateLimit(ctx context.Context) error {
	if err := c.waitForForcedDelay(ctx); err != nil {
		return err
	}

	if c.limiter == nil {
		return nil
	}

	return c.limiter.Wait(ctx)
}

func (c *Client) waitForForcedDelay(ctx context.Context) error {
	for {
		c.mu.Lock()
		waitUntil := c.forceWaitUntil
		c.mu.Unlock()

		if waitUntil.IsZero() {
			return nil
		}

		now := time.Now()
		if !now.Before(waitUntil) {
			c.clearForcedDelay(waitUntil)
			return nil
		}

		timer := time.NewTimer(waitUntil.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			c.clearForcedDelay(waitUntil)
		}
	}
}

func (c *Client) clearForcedDelay(previous time.Time) {
	c.mu.Lock()
	if previous.Equal(c.forceWaitUntil) {
		c.forceWaitUntil = time.Time{}
	}
	c.mu.Unlock()
}

func (c *Client) applyRateHeaders(resp *http.Response) {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseFloat(retryAfter, ParseFloatBitSize); err == nil && seconds > 0 {
			c.deferRequests(time.Duration(seconds * float64(time.Second)))
		}
	}

	remainingHeader := resp.Header.Get("X-Ratelimit-Remaining")
	resetHeader := resp.Header.Get("X-Ratelimit-Reset")
	if remainingHeader == "" || resetHeader == "" {
		return
	}

	remaining, errRemaining := strconv.ParseFloat(remainingHeader, ParseFloatBitSize)
	resetSeconds, errReset := strconv.ParseFloat(resetHeader, ParseFloatBitSize)
	if errRemaining != nil || errReset != nil || resetSeconds <= 0 {
		return
	}

	if remaining <= 1 {
		c.deferRequests(time.Duration(resetSeconds * float64(time.Second)))
	}
}

func (c *Client) deferRequests(d time.Duration) {
	if d <= 0 {
		return
	}

	until := time.Now().Add(d)

	c.mu.Lock()
	extended := until.After(c.forceWaitUntil)
	if extended {
		c.forceWaitUntil = until
	}
	c.mu.Unlock()

	if extended {
		c.logger.Warn("rate limited, deferring requests", "for", d)
	}
}
