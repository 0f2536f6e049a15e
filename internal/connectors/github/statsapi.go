package github

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
)

// Verify interface implementation at compile time.
var _ driven.StatsAPI = (*StatsAPI)(nil)

// StatsAPI implements driven.StatsAPI over the GitHub GraphQL API.
type StatsAPI struct {
	client *Client
}

// NewStatsAPI creates a StatsAPI backed by client.
func NewStatsAPI(client *Client) *StatsAPI {
	return &StatsAPI{client: client}
}

// Viewer resolves login to its node ID and creation time.
func (a *StatsAPI) Viewer(ctx context.Context, login string) (*domain.Viewer, error) {
	var resp viewerResponse
	if err := a.client.Execute(ctx, viewerQuery, map[string]any{"login": login}, &resp); err != nil {
		return nil, fmt.Errorf("viewer %s: %w", login, err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("viewer %s: %w", login, ErrUserNotFound)
	}
	return &domain.Viewer{
		ID:        resp.User.ID,
		Login:     resp.User.Login,
		CreatedAt: resp.User.CreatedAt,
	}, nil
}

// ListRepositories returns one page of login's repositories.
func (a *StatsAPI) ListRepositories(
	ctx context.Context, login string, affiliations []domain.Affiliation, cursor string,
) (domain.Page[domain.RepositoryRef], error) {
	vars := map[string]any{
		"login":        login,
		"affiliations": affiliationValues(affiliations),
		"cursor":       optionalCursor(cursor),
		"first":        RepositoryPageSize,
	}

	var resp repositoriesResponse
	if err := a.client.Execute(ctx, repositoriesQuery, vars, &resp); err != nil {
		return domain.Page[domain.RepositoryRef]{}, fmt.Errorf("list repositories: %w", err)
	}
	if resp.User == nil {
		return domain.Page[domain.RepositoryRef]{}, fmt.Errorf("list repositories for %s: %w", login, ErrUserNotFound)
	}

	repos := resp.User.Repositories
	items := make([]domain.RepositoryRef, 0, len(repos.Nodes))
	for _, node := range repos.Nodes {
		items = append(items, domain.RepositoryRef{
			QualifiedName: node.NameWithOwner,
			Stargazers:    node.StargazerCount,
			CommitCount:   node.commitCount(),
		})
	}

	return domain.Page[domain.RepositoryRef]{
		Items:      items,
		NextCursor: repos.PageInfo.cursor(),
		HasMore:    repos.PageInfo.HasNextPage,
	}, nil
}

// CommitHistory returns one page of the default-branch history.
func (a *StatsAPI) CommitHistory(
	ctx context.Context, owner, name, cursor string,
) (domain.Page[domain.CommitNode], error) {
	vars := map[string]any{
		"owner":  owner,
		"name":   name,
		"cursor": optionalCursor(cursor),
		"first":  HistoryPageSize,
	}

	var resp historyResponse
	if err := a.client.Execute(ctx, historyQuery, vars, &resp); err != nil {
		return domain.Page[domain.CommitNode]{}, fmt.Errorf("commit history %s/%s: %w", owner, name, err)
	}
	if resp.Repository == nil {
		return domain.Page[domain.CommitNode]{}, fmt.Errorf("commit history %s/%s: %w", owner, name, ErrRepoNotFound)
	}

	ref := resp.Repository.DefaultBranchRef
	if ref == nil || ref.Target == nil || ref.Target.History == nil {
		return domain.Page[domain.CommitNode]{}, domain.ErrNoDefaultBranch
	}

	history := ref.Target.History
	items := make([]domain.CommitNode, 0, len(history.Nodes))
	for _, node := range history.Nodes {
		items = append(items, domain.CommitNode{
			CommittedDate: node.CommittedDate,
			Additions:     node.Additions,
			Deletions:     node.Deletions,
			AuthorID:      node.authorID(),
		})
	}

	return domain.Page[domain.CommitNode]{
		Items:      items,
		NextCursor: history.PageInfo.cursor(),
		HasMore:    history.PageInfo.HasNextPage,
	}, nil
}

// Followers returns login's follower count.
func (a *StatsAPI) Followers(ctx context.Context, login string) (int, error) {
	var resp followersResponse
	if err := a.client.Execute(ctx, followersQuery, map[string]any{"login": login}, &resp); err != nil {
		return 0, fmt.Errorf("followers %s: %w", login, err)
	}
	if resp.User == nil {
		return 0, fmt.Errorf("followers %s: %w", login, ErrUserNotFound)
	}
	return resp.User.Followers.TotalCount, nil
}

// CommitContributions returns login's commit contributions in [from, to).
func (a *StatsAPI) CommitContributions(ctx context.Context, login string, from, to time.Time) (int, error) {
	vars := map[string]any{
		"login": login,
		"from":  optionalTime(from),
		"to":    optionalTime(to),
	}

	var resp contributionsResponse
	if err := a.client.Execute(ctx, contributionsQuery, vars, &resp); err != nil {
		return 0, fmt.Errorf("contributions %s: %w", login, err)
	}
	if resp.User == nil {
		return 0, fmt.Errorf("contributions %s: %w", login, ErrUserNotFound)
	}
	return resp.User.ContributionsCollection.TotalCommitContributions, nil
}

func affiliationValues(affiliations []domain.Affiliation) []string {
	if len(affiliations) == 0 {
		affiliations = domain.AllAffiliations()
	}
	values := make([]string, len(affiliations))
	for i, a := range affiliations {
		values[i] = string(a)
	}
	return values
}

// optionalCursor maps the empty cursor to a GraphQL null.
func optionalCursor(cursor string) any {
	if cursor == "" {
		return nil
	}
	return cursor
}

func optionalTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
