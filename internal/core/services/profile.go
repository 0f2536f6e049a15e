package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/core/ports/driving"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// ProfileService gathers account-level statistics.
type ProfileService struct {
	api driven.StatsAPI
}

// NewProfileService creates a profile service backed by api.
func NewProfileService(api driven.StatsAPI) *ProfileService {
	return &ProfileService{api: api}
}

// Summary returns login's account identity, follower count, stars over
// owned repositories, owned and contributed repository counts, and commit
// contributions for the API's default window.
func (s *ProfileService) Summary(ctx context.Context, login string) (*domain.Profile, domain.QueryCounts, error) {
	counts := domain.QueryCounts{}
	api := newCountingAPI(s.api, counts)

	viewer, err := api.Viewer(ctx, login)
	if err != nil {
		return nil, counts, fmt.Errorf("viewer: %w", err)
	}
	profile := &domain.Profile{Viewer: *viewer}

	if profile.Followers, err = api.Followers(ctx, login); err != nil {
		return nil, counts, fmt.Errorf("followers: %w", err)
	}

	owned, err := s.listing(ctx, api, login, []domain.Affiliation{domain.AffiliationOwner})
	if err != nil {
		return nil, counts, err
	}
	profile.OwnedRepos = len(owned)
	for _, repo := range owned {
		profile.Stars += repo.Stargazers
	}

	contributed, err := s.listing(ctx, api, login, domain.AllAffiliations())
	if err != nil {
		return nil, counts, err
	}
	profile.ContributedRepos = len(contributed)

	if profile.Commits, err = api.CommitContributions(ctx, login, time.Time{}, time.Time{}); err != nil {
		return nil, counts, fmt.Errorf("contributions: %w", err)
	}

	return profile, counts, nil
}

func (s *ProfileService) listing(
	ctx context.Context, api driven.StatsAPI, login string, affiliations []domain.Affiliation,
) ([]domain.RepositoryRef, error) {
	fetch := func(ctx context.Context, cursor string) (domain.Page[domain.RepositoryRef], error) {
		return api.ListRepositories(ctx, login, affiliations, cursor)
	}
	repos, err := Collect(Pages(ctx, fetch, 0))
	if err != nil {
		return nil, fmt.Errorf("list repositories %v: %w", affiliations, err)
	}
	return repos, nil
}
