package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/core/ports/driving"
	"github.com/custodia-labs/repostat/internal/logger"
)

// Ensure Aggregator implements the interface.
var _ driving.Aggregator = (*Aggregator)(nil)

// Stage names reported in RunReport.Stages.
const (
	StageIdentity    = "identity"
	StageListing     = "repository listing"
	StageCacheUpdate = "cache update"
)

// AggregatorConfig holds the per-account parameters of an Aggregator.
type AggregatorConfig struct {
	// Login is the account whose repositories are listed.
	Login string

	// Identity is the tracked author node ID. Empty resolves it from Login.
	Identity string

	// PageBudget bounds each commit-history walk.
	PageBudget int
}

// Aggregator lists the account's repositories and drives the cache update.
type Aggregator struct {
	api    driven.StatsAPI
	cache  *RepositoryCache
	config AggregatorConfig
	now    func() time.Time
}

// NewAggregator creates an aggregator.
func NewAggregator(api driven.StatsAPI, cache *RepositoryCache, cfg AggregatorConfig) *Aggregator {
	return &Aggregator{
		api:    api,
		cache:  cache,
		config: cfg,
		now:    time.Now,
	}
}

// Run fetches the full repository listing, updates the cache and returns
// the totals with per-endpoint query counts and per-stage timings.
// Errors are returned after the cache has persisted partial progress.
func (a *Aggregator) Run(ctx context.Context, req driving.RunRequest) (*domain.RunReport, error) {
	if a.config.Login == "" {
		return nil, fmt.Errorf("%w: login is required", domain.ErrInvalidInput)
	}

	affiliations := req.Affiliations
	if len(affiliations) == 0 {
		affiliations = domain.AllAffiliations()
	}

	report := &domain.RunReport{
		ID:      uuid.NewString(),
		Queries: domain.QueryCounts{},
	}
	timer := stageTimer{stages: &report.Stages, now: a.now}
	api := newCountingAPI(a.api, report.Queries)

	logger.SetRun(report.ID)
	defer logger.SetRun("")
	logger.Section("Run " + report.ID)

	identity := a.config.Identity
	if identity == "" && a.cache.Mode() == domain.UpdateModeExact {
		err := timer.track(StageIdentity, func() error {
			viewer, err := api.Viewer(ctx, a.config.Login)
			if err != nil {
				return fmt.Errorf("resolve identity: %w", err)
			}
			identity = viewer.ID
			return nil
		})
		if err != nil {
			return report, err
		}
		logger.Debug("tracked identity for %s: %s", a.config.Login, identity)
	}

	var listing []domain.RepositoryRef
	err := timer.track(StageListing, func() error {
		fetch := func(ctx context.Context, cursor string) (domain.Page[domain.RepositoryRef], error) {
			return api.ListRepositories(ctx, a.config.Login, affiliations, cursor)
		}
		var err error
		listing, err = Collect(Pages(ctx, fetch, 0))
		if err != nil {
			return fmt.Errorf("list repositories: %w", err)
		}
		return nil
	})
	if err != nil {
		return report, err
	}
	report.Repositories = len(listing)
	logger.Info("listed %d repositories for %s", len(listing), a.config.Login)

	err = timer.track(StageCacheUpdate, func() error {
		updated, err := a.cache.Update(ctx, UpdateRequest{
			Listing:      listing,
			HeaderSize:   req.HeaderSize,
			ForceRebuild: req.ForceRebuild,
			Identity:     identity,
			PageBudget:   a.config.PageBudget,
		}, NewCommitWalker(api))
		report.Refreshed = updated.Refreshed
		if err != nil {
			return err
		}
		report.Result = updated.Aggregate
		return nil
	})
	if err != nil {
		return report, err
	}

	return report, nil
}
