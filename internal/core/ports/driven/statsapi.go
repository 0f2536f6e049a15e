package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

// StatsAPI is the remote source of repository and commit statistics.
// Each method issues exactly one request (plus transparent retries).
type StatsAPI interface {
	// Viewer resolves login to its account identity.
	Viewer(ctx context.Context, login string) (*domain.Viewer, error)

	// ListRepositories returns one page of login's repositories filtered by
	// affiliation. An empty cursor requests the first page.
	ListRepositories(
		ctx context.Context, login string, affiliations []domain.Affiliation, cursor string,
	) (domain.Page[domain.RepositoryRef], error)

	// CommitHistory returns one page of the default-branch history of
	// owner/name. Returns domain.ErrNoDefaultBranch for empty repositories.
	CommitHistory(ctx context.Context, owner, name, cursor string) (domain.Page[domain.CommitNode], error)

	// Followers returns login's follower count.
	Followers(ctx context.Context, login string) (int, error)

	// CommitContributions returns login's commit contributions in [from, to).
	// Zero times select the API's default window (the last year).
	CommitContributions(ctx context.Context, login string, from, to time.Time) (int, error)
}
