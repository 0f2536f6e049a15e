package github

import (
	"time"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxTransportRetries is the number of extra attempts after a network failure.
	MaxTransportRetries = 2

	// RetryDelay is the linear backoff step between transport retries.
	RetryDelay = time.Second

	// MaxRateLimitRetries is the number of wait-and-retry cycles for rate limits.
	MaxRateLimitRetries = 3

	// DefaultRateLimitWait is used when a rate-limited response has no reset header.
	DefaultRateLimitWait = time.Minute

	// MaxRateLimitWait caps a single rate limit wait.
	MaxRateLimitWait = 15 * time.Minute

	// RepositoryPageSize is the page size of the repository listing query.
	RepositoryPageSize = 60

	// HistoryPageSize is the page size of the commit history query.
	HistoryPageSize = 100
)

// Config holds retry and pacing parameters for a Client.
type Config struct {
	// RequestsPerSecond is the proactive throttle rate.
	RequestsPerSecond float64

	MaxTransportRetries int
	RetryDelay          time.Duration

	MaxRateLimitRetries  int
	DefaultRateLimitWait time.Duration
	MaxRateLimitWait     time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		RequestsPerSecond:    DefaultRequestsPerSecond,
		MaxTransportRetries:  MaxTransportRetries,
		RetryDelay:           RetryDelay,
		MaxRateLimitRetries:  MaxRateLimitRetries,
		DefaultRateLimitWait: DefaultRateLimitWait,
		MaxRateLimitWait:     MaxRateLimitWait,
	}
}

// ConfigFromSettings returns the default configuration with pacing taken
// from settings.
func ConfigFromSettings(settings domain.APISettings) *Config {
	cfg := DefaultConfig()
	if settings.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = settings.RequestsPerSecond
	}
	return cfg
}
