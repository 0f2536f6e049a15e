package services

import (
	"context"
	"strconv"
	"time"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
)

// mockStatsAPI implements driven.StatsAPI over in-memory fixtures.
// Listings and histories are served in pages of the configured size with
// offset cursors.
type mockStatsAPI struct {
	viewer    *domain.Viewer
	viewerErr error

	repos        []domain.RepositoryRef
	repoPageSize int
	listErr      error
	listCalls    int
	// ownedRepos is served when only OWNER is requested; nil falls back to repos.
	ownedRepos []domain.RepositoryRef

	histories       map[string][]domain.CommitNode
	historyPageSize int
	// noDefaultBranch lists repositories that report no default branch.
	noDefaultBranch map[string]bool
	// historyErrs fails every history request for a repository.
	historyErrs  map[string]error
	historyCalls map[string]int

	followers        int
	contributions    int
	contributionsErr error
}

var _ driven.StatsAPI = (*mockStatsAPI)(nil)

func newMockStatsAPI() *mockStatsAPI {
	return &mockStatsAPI{
		viewer:          &domain.Viewer{ID: "U_me", Login: "octocat"},
		repoPageSize:    60,
		histories:       make(map[string][]domain.CommitNode),
		historyPageSize: 100,
		noDefaultBranch: make(map[string]bool),
		historyErrs:     make(map[string]error),
		historyCalls:    make(map[string]int),
	}
}

func (m *mockStatsAPI) Viewer(_ context.Context, login string) (*domain.Viewer, error) {
	if m.viewerErr != nil {
		return nil, m.viewerErr
	}
	v := *m.viewer
	v.Login = login
	return &v, nil
}

func (m *mockStatsAPI) ListRepositories(
	_ context.Context, _ string, affiliations []domain.Affiliation, cursor string,
) (domain.Page[domain.RepositoryRef], error) {
	m.listCalls++
	if m.listErr != nil {
		return domain.Page[domain.RepositoryRef]{}, m.listErr
	}
	repos := m.repos
	if m.ownedRepos != nil && len(affiliations) == 1 && affiliations[0] == domain.AffiliationOwner {
		repos = m.ownedRepos
	}
	return pageOf(repos, cursor, m.repoPageSize), nil
}

func (m *mockStatsAPI) CommitHistory(
	_ context.Context, owner, name, cursor string,
) (domain.Page[domain.CommitNode], error) {
	key := owner + "/" + name
	m.historyCalls[key]++
	if err := m.historyErrs[key]; err != nil {
		return domain.Page[domain.CommitNode]{}, err
	}
	if m.noDefaultBranch[key] {
		return domain.Page[domain.CommitNode]{}, domain.ErrNoDefaultBranch
	}
	return pageOf(m.histories[key], cursor, m.historyPageSize), nil
}

func (m *mockStatsAPI) Followers(_ context.Context, _ string) (int, error) {
	return m.followers, nil
}

func (m *mockStatsAPI) CommitContributions(_ context.Context, _ string, _, _ time.Time) (int, error) {
	return m.contributions, m.contributionsErr
}

// pageOf slices items into a page starting at the offset encoded in cursor.
func pageOf[T any](items []T, cursor string, size int) domain.Page[T] {
	start := 0
	if cursor != "" {
		start, _ = strconv.Atoi(cursor)
	}
	end := min(start+size, len(items))
	if start > end {
		start = end
	}
	page := domain.Page[T]{Items: items[start:end]}
	if end < len(items) {
		page.HasMore = true
		page.NextCursor = strconv.Itoa(end)
	}
	return page
}

// commits returns n commits by author, each adding add and deleting del lines.
func commits(n int, author string, add, del int) []domain.CommitNode {
	out := make([]domain.CommitNode, n)
	for i := range out {
		out[i] = domain.CommitNode{
			CommittedDate: time.Date(2024, 1, 1, 0, 0, i, 0, time.UTC),
			Additions:     add,
			Deletions:     del,
			AuthorID:      author,
		}
	}
	return out
}
