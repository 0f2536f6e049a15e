package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/logger"
)

// graphQLPath is resolved against the REST base URL.
const graphQLPath = "graphql"

// rateLimitedType is the GraphQL error type GitHub reports for exhausted budgets.
const rateLimitedType = "RATE_LIMITED"

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Client issues GraphQL requests through go-github with rate limiting,
// bounded transport retries and typed errors.
type Client struct {
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	config        *Config
	baseURL       *url.URL
	sleep         SleepFunc
	now           func() time.Time
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithConfig replaces the retry and pacing configuration.
func WithConfig(cfg *Config) ClientOption {
	return func(c *Client) {
		if cfg != nil {
			c.config = cfg
			c.rateLimiter = NewRateLimiterWithRate(cfg.RequestsPerSecond)
		}
	}
}

// WithBaseURL points the client at a different API root, such as a
// GitHub Enterprise server or a test server. A trailing slash is added.
func WithBaseURL(raw string) ClientOption {
	return func(c *Client) {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
			if c.gh != nil {
				c.gh.BaseURL = u
			}
		}
	}
}

// WithSleep replaces the function used for backoff and rate limit waits.
func WithSleep(sleep SleepFunc) ClientOption {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

func newClient(ghClient *gh.Client, tokenProvider driven.TokenProvider, opts ...ClientOption) *Client {
	c := &Client{
		gh:            ghClient,
		tokenProvider: tokenProvider,
		config:        DefaultConfig(),
		rateLimiter:   NewRateLimiter(),
		sleep:         sleepContext,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClient creates a new GitHub API client with a token provider.
// The underlying HTTP client is created on first use.
func NewClient(tokenProvider driven.TokenProvider, opts ...ClientOption) *Client {
	return newClient(nil, tokenProvider, opts...)
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, opts ...ClientOption) *Client {
	c := newClient(gh.NewClient(httpClient), nil)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientWithToken creates a GitHub client with a static access token.
func NewClientWithToken(ctx context.Context, token string, opts ...ClientOption) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return NewClientWithHTTPClient(tc, opts...)
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so we can get the token when needed.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.gh != nil {
		return nil
	}
	if c.tokenProvider == nil {
		return errors.New("github: no token provider configured")
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	c.gh = gh.NewClient(tc)
	if c.baseURL != nil {
		c.gh.BaseURL = c.baseURL
	}

	return nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors,omitempty"`
}

// Execute runs one GraphQL query and decodes its "data" object into out.
//
// Network failures and 5xx responses are retried MaxTransportRetries times
// with linear backoff before a *TransportError is returned. Rate limit
// responses wait for the reported reset (DefaultRateLimitWait when none is
// given) and retry up to MaxRateLimitRetries times, then return an
// exhausted *RateLimitError. Secondary (abuse) limits return an
// *AbuseLimitError at once. Other GraphQL errors return a *GraphQLError.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.ensureClient(ctx); err != nil {
		return err
	}

	transportFailures := 0
	rateLimitRetries := 0

	for {
		err := c.executeOnce(ctx, query, variables, out)
		if err == nil {
			return nil
		}

		var rateLimitErr *RateLimitError
		var transportErr *TransportError
		switch {
		case errors.As(err, &rateLimitErr):
			if rateLimitRetries >= c.config.MaxRateLimitRetries {
				rateLimitErr.Exhausted = true
				rateLimitErr.Retries = rateLimitRetries
				return rateLimitErr
			}
			rateLimitRetries++
			wait := c.rateLimitWait(rateLimitErr.ResetAt)
			logger.Warn("github: rate limited, waiting %s (retry %d/%d)",
				wait.Round(time.Second), rateLimitRetries, c.config.MaxRateLimitRetries)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}

		case errors.As(err, &transportErr):
			transportFailures++
			transportErr.Attempts = transportFailures
			if transportFailures > c.config.MaxTransportRetries {
				return transportErr
			}
			backoff := time.Duration(transportFailures) * c.config.RetryDelay
			logger.Warn("github: transport error, retrying in %s (%d/%d): %v",
				backoff, transportFailures, c.config.MaxTransportRetries, transportErr.Err)
			if err := c.sleep(ctx, backoff); err != nil {
				return err
			}

		default:
			return err
		}
	}
}

// executeOnce issues a single request and classifies its outcome.
func (c *Client) executeOnce(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := c.gh.NewRequest(http.MethodPost, graphQLPath, &graphQLRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}

	// Rate limits are tracked here, not by go-github's pre-emptive check.
	ctx = context.WithValue(ctx, gh.BypassRateLimitCheck, true)

	var payload graphQLResponse
	resp, err := c.gh.Do(ctx, req, &payload)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return c.wrapError(ctx, err, "graphql")
	}

	if len(payload.Errors) > 0 && string(payload.Errors) != "null" {
		var entries []GraphQLErrorEntry
		if err := json.Unmarshal(payload.Errors, &entries); err != nil {
			return fmt.Errorf("decode graphql errors: %w", err)
		}
		if hasRateLimitMarker(entries) {
			return &RateLimitError{
				ResetAt:   resetFromHeader(responseOf(resp)),
				Remaining: c.rateLimiter.Remaining(),
				Limit:     c.rateLimiter.Limit(),
			}
		}
		return &GraphQLError{Errors: entries, Raw: payload.Errors}
	}

	if len(payload.Data) == 0 || string(payload.Data) == "null" {
		return ErrEmptyResponse
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

// rateLimitWait returns how long to wait before retrying a rate-limited request.
func (c *Client) rateLimitWait(resetAt time.Time) time.Duration {
	if resetAt.IsZero() {
		return c.config.DefaultRateLimitWait
	}
	// One extra second absorbs clock skew against the reset timestamp.
	wait := resetAt.Sub(c.now()) + time.Second
	if wait < time.Second {
		wait = time.Second
	}
	if wait > c.config.MaxRateLimitWait {
		wait = c.config.MaxRateLimitWait
	}
	return wait
}

func hasRateLimitMarker(entries []GraphQLErrorEntry) bool {
	for _, entry := range entries {
		if entry.Type == rateLimitedType || strings.Contains(strings.ToLower(entry.Message), "rate limit") {
			return true
		}
	}
	return false
}

func responseOf(resp *gh.Response) *http.Response {
	if resp == nil {
		return nil
	}
	return resp.Response
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github and network errors to our error types.
func (c *Client) wrapError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &AbuseLimitError{
			Message:    abuseErr.Message,
			RetryAfter: abuseErr.GetRetryAfter(),
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		status := 0
		reqURL := ""
		if ghErr.Response != nil {
			status = ghErr.Response.StatusCode
			if ghErr.Response.Request != nil {
				reqURL = ghErr.Response.Request.URL.String()
			}
		}
		if status >= http.StatusInternalServerError {
			return &TransportError{StatusCode: status, Err: err}
		}
		return &APIError{
			StatusCode: status,
			Message:    ghErr.Message,
			URL:        reqURL,
		}
	}

	if isNetworkError(err) {
		return &TransportError{Err: err}
	}

	return fmt.Errorf("%s: %w", operation, err)
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
