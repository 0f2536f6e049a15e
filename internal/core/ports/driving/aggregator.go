package driving

import (
	"context"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

// Aggregator computes line-count totals for the tracked account.
// It is the sole entry point the report layer calls for line statistics.
type Aggregator interface {
	// Run lists repositories, refreshes the cache and returns the totals.
	// On error, partial cache progress has already been persisted.
	Run(ctx context.Context, req RunRequest) (*domain.RunReport, error)
}

// RunRequest parameterises one aggregation run.
type RunRequest struct {
	// Affiliations filters the repository listing. Empty means all.
	Affiliations []domain.Affiliation

	// HeaderSize is the number of opaque header lines in the cache.
	HeaderSize int

	// ForceRebuild discards all cached records before updating.
	ForceRebuild bool
}

// ProfileService summarises the tracked account.
type ProfileService interface {
	// Summary returns account statistics for login.
	Summary(ctx context.Context, login string) (*domain.Profile, domain.QueryCounts, error)
}
