package services

import (
	"context"
	"time"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
)

// Ensure countingAPI implements the interface.
var _ driven.StatsAPI = (*countingAPI)(nil)

// countingAPI records one call per endpoint into a run-owned QueryCounts.
// Calls are counted whether or not they succeed.
type countingAPI struct {
	api    driven.StatsAPI
	counts domain.QueryCounts
}

func newCountingAPI(api driven.StatsAPI, counts domain.QueryCounts) *countingAPI {
	return &countingAPI{api: api, counts: counts}
}

func (c *countingAPI) Viewer(ctx context.Context, login string) (*domain.Viewer, error) {
	c.counts.Inc(domain.EndpointViewer)
	return c.api.Viewer(ctx, login)
}

func (c *countingAPI) ListRepositories(
	ctx context.Context, login string, affiliations []domain.Affiliation, cursor string,
) (domain.Page[domain.RepositoryRef], error) {
	c.counts.Inc(domain.EndpointRepositoryListing)
	return c.api.ListRepositories(ctx, login, affiliations, cursor)
}

func (c *countingAPI) CommitHistory(
	ctx context.Context, owner, name, cursor string,
) (domain.Page[domain.CommitNode], error) {
	c.counts.Inc(domain.EndpointCommitHistory)
	return c.api.CommitHistory(ctx, owner, name, cursor)
}

func (c *countingAPI) Followers(ctx context.Context, login string) (int, error) {
	c.counts.Inc(domain.EndpointFollowers)
	return c.api.Followers(ctx, login)
}

func (c *countingAPI) CommitContributions(ctx context.Context, login string, from, to time.Time) (int, error) {
	c.counts.Inc(domain.EndpointContributions)
	return c.api.CommitContributions(ctx, login, from, to)
}

// stageTimer appends named stage timings to a report.
type stageTimer struct {
	stages *[]domain.StageTiming
	now    func() time.Time
}

// track runs fn and records its elapsed time under name, even on error.
func (t stageTimer) track(name string, fn func() error) error {
	start := t.now()
	err := fn()
	*t.stages = append(*t.stages, domain.StageTiming{Name: name, Elapsed: t.now().Sub(start)})
	return err
}
