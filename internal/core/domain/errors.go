package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCacheCorrupt indicates a stored cache line could not be parsed.
	// Corrupt records are treated as stale and overwritten, never fatal.
	ErrCacheCorrupt = errors.New("cache record corrupt")

	// ErrNoDefaultBranch indicates a repository has no default branch,
	// typically because it is empty. Walkers treat it as zero history.
	ErrNoDefaultBranch = errors.New("repository has no default branch")

	// ErrPartialSave marks an error that aborted a cache update after the
	// records processed so far were flushed to storage.
	ErrPartialSave = errors.New("cache update aborted, partial progress saved")

	// ErrIdentityUnknown indicates the tracked author identity could not be resolved.
	ErrIdentityUnknown = errors.New("tracked identity unknown")

	// Authentication Errors.

	// ErrAuthRequired indicates no access token is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the access token was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
