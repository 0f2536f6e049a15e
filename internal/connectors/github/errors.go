package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

// GitHub-specific errors.
var (
	// ErrRepoNotFound indicates the repository was not found or is not accessible.
	ErrRepoNotFound = errors.New("github: repository not found")

	// ErrUserNotFound indicates the login does not resolve to a user.
	ErrUserNotFound = errors.New("github: user not found")

	// ErrEmptyResponse indicates a 200 response carried no data and no errors.
	ErrEmptyResponse = errors.New("github: empty GraphQL response")
)

// TransportError is a network-level failure (connection reset, timeout,
// 5xx) that persisted after the client's local retries.
type TransportError struct {
	// Attempts is the number of requests made, including retries.
	Attempts int

	// StatusCode is the HTTP status for 5xx failures, zero for network errors.
	StatusCode int

	Err error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("github: transport error after %d attempts: HTTP %d: %v", e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("github: transport error after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RateLimitError represents a primary rate limit with its reset time.
// Exhausted is set once the client has spent its wait-and-retry budget.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int

	// Exhausted is true when MaxRateLimitRetries waits did not clear the limit.
	Exhausted bool
	Retries   int
}

func (e *RateLimitError) Error() string {
	if e.Exhausted {
		return fmt.Sprintf("github: rate limit retry budget of %d exhausted, resets at %s",
			e.Retries, e.ResetAt.Format(time.RFC3339))
	}
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is matches domain.ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRateLimited
}

// AbuseLimitError is GitHub's secondary (abuse) rate limit. It is never
// retried automatically; callers persist progress and stop.
type AbuseLimitError struct {
	Message string

	// RetryAfter is GitHub's suggested pause, zero when not provided.
	RetryAfter time.Duration
}

func (e *AbuseLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("github: secondary rate limit triggered (retry after %s): %s", e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("github: secondary rate limit triggered: %s", e.Message)
}

// GraphQLErrorEntry is one element of a GraphQL "errors" array.
type GraphQLErrorEntry struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// GraphQLError is a well-formed response carrying application-level errors
// (bad query, missing permission, unknown login). Terminal.
type GraphQLError struct {
	Errors []GraphQLErrorEntry

	// Raw is the undecoded "errors" payload for diagnostics.
	Raw json.RawMessage
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, entry := range e.Errors {
		if entry.Type != "" {
			msgs = append(msgs, entry.Type+": "+entry.Message)
		} else {
			msgs = append(msgs, entry.Message)
		}
	}
	return "github: GraphQL errors: " + strings.Join(msgs, "; ")
}

// HasType reports whether any entry has the given GraphQL error type.
func (e *GraphQLError) HasType(errType string) bool {
	for _, entry := range e.Errors {
		if entry.Type == errType {
			return true
		}
	}
	return false
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Is reports a 401 response as domain.ErrAuthInvalid.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrAuthInvalid && e.StatusCode == 401
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return gqlErr.HasType("NOT_FOUND")
	}
	return errors.Is(err, ErrRepoNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsRateLimited checks if the error indicates primary rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsAbuseLimited checks if the error is a secondary (abuse) rate limit.
func IsAbuseLimited(err error) bool {
	var abuseErr *AbuseLimitError
	return errors.As(err, &abuseErr)
}

// IsTransport checks if the error is a network-level failure.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsGraphQL checks if the error carries GraphQL application errors.
func IsGraphQL(err error) bool {
	var gqlErr *GraphQLError
	return errors.As(err, &gqlErr)
}

// IsRetryable reports whether a later run could succeed without changes:
// transport failures and rate limits are, abuse limits and GraphQL errors
// are not.
func IsRetryable(err error) bool {
	return IsTransport(err) || IsRateLimited(err)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 403
	}
	return false
}
