package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/logger"
)

// Walker walks one repository's history for a tracked identity.
type Walker interface {
	Walk(ctx context.Context, owner, name, identity string, pageBudget int) (WalkResult, error)
}

// WalkResult holds the line changes attributed to one identity.
type WalkResult struct {
	Additions       int64
	Deletions       int64
	AuthoredCommits int64

	// Pages is the number of history pages fetched.
	Pages int

	// Truncated is true when the page budget ran out before the history did.
	Truncated bool
}

// Ensure CommitWalker implements the interface.
var _ Walker = (*CommitWalker)(nil)

// CommitWalker counts a tracked identity's commits and line changes on a
// repository's default branch.
type CommitWalker struct {
	api driven.StatsAPI
}

// NewCommitWalker creates a walker backed by api.
func NewCommitWalker(api driven.StatsAPI) *CommitWalker {
	return &CommitWalker{api: api}
}

// Walk pages through owner/name's default-branch history, 100 commits per
// page, summing commits authored by identity. It never fetches more than
// pageBudget pages; a truncated walk under-counts rather than running
// unbounded. Repositories without a default branch yield zero totals.
func (w *CommitWalker) Walk(
	ctx context.Context, owner, name, identity string, pageBudget int,
) (WalkResult, error) {
	if identity == "" {
		return WalkResult{}, domain.ErrIdentityUnknown
	}
	if pageBudget <= 0 {
		return WalkResult{}, fmt.Errorf("%w: page budget must be positive, got %d", domain.ErrInvalidInput, pageBudget)
	}

	var result WalkResult
	lastHasMore := false

	fetch := func(ctx context.Context, cursor string) (domain.Page[domain.CommitNode], error) {
		page, err := w.api.CommitHistory(ctx, owner, name, cursor)
		if err != nil {
			return page, err
		}
		result.Pages++
		lastHasMore = page.HasMore
		return page, nil
	}

	for commit, err := range Pages(ctx, fetch, pageBudget) {
		if err != nil {
			if errors.Is(err, domain.ErrNoDefaultBranch) {
				logger.Debug("walk %s/%s: no default branch", owner, name)
				return WalkResult{Pages: result.Pages}, nil
			}
			return result, fmt.Errorf("walk %s/%s: %w", owner, name, err)
		}
		if commit.AuthorID != identity {
			continue
		}
		result.AuthoredCommits++
		result.Additions += int64(commit.Additions)
		result.Deletions += int64(commit.Deletions)
	}

	result.Truncated = lastHasMore && result.Pages >= pageBudget
	if result.Truncated {
		logger.Warn("walk %s/%s: page budget of %d exhausted, totals are partial", owner, name, pageBudget)
	}
	logger.Debug("walk %s/%s: %d pages, %d authored commits, +%d/-%d",
		owner, name, result.Pages, result.AuthoredCommits, result.Additions, result.Deletions)

	return result, nil
}
