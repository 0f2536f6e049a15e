package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/logger"
)

// UpdateRequest parameterises one cache update pass.
type UpdateRequest struct {
	// Listing is the current repository listing, in API order.
	Listing []domain.RepositoryRef

	// HeaderSize is the number of opaque header lines kept at the top of the cache.
	HeaderSize int

	// ForceRebuild discards all records before updating.
	ForceRebuild bool

	// Identity is the tracked author node ID. Required in exact mode.
	Identity string

	// PageBudget bounds each history walk in exact mode.
	PageBudget int
}

// UpdateResult is the outcome of a cache update pass.
type UpdateResult struct {
	Aggregate domain.AggregateResult

	// Refreshed is the number of stale records rewritten.
	Refreshed int

	// Rebuilt is true when all records were reseeded.
	Rebuilt bool
}

// RepositoryCache keeps one statistics record per repository, positionally
// aligned with the listing, and refreshes only records whose repository
// changed since the last run.
type RepositoryCache struct {
	store driven.CacheStore
	mode  domain.UpdateMode
}

// NewRepositoryCache creates a cache over store using mode for stale records.
func NewRepositoryCache(store driven.CacheStore, mode domain.UpdateMode) *RepositoryCache {
	if !mode.IsValid() {
		mode = domain.UpdateModeExact
	}
	return &RepositoryCache{store: store, mode: mode}
}

// Mode returns the update mode for stale records.
func (c *RepositoryCache) Mode() domain.UpdateMode {
	return c.mode
}

// Update brings the cache in line with req.Listing and returns the totals.
//
// When the stored record count differs from the listing length, or a
// rebuild is forced, every record is reseeded first. Each stale record is
// then refreshed according to the cache mode; fresh records are left as
// they are. The whole cache is rewritten once at the end. If a walk fails,
// the records refreshed so far are flushed before the error is returned.
func (c *RepositoryCache) Update(ctx context.Context, req UpdateRequest, walker Walker) (UpdateResult, error) {
	if c.mode == domain.UpdateModeExact {
		if walker == nil {
			return UpdateResult{}, fmt.Errorf("%w: exact mode requires a walker", domain.ErrInvalidInput)
		}
		if req.Identity == "" {
			return UpdateResult{}, domain.ErrIdentityUnknown
		}
	}

	file, err := c.store.Load(ctx, req.HeaderSize)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("load cache: %w", err)
	}

	var result UpdateResult
	if req.ForceRebuild || len(file.Records) != len(req.Listing) {
		logger.Info("cache rebuild: %d stored records, %d repositories, forced=%t",
			len(file.Records), len(req.Listing), req.ForceRebuild)
		file.Reseed(req.Listing)
		result.Rebuilt = true
	}

	for i, repo := range req.Listing {
		record := file.Records[i]
		if !record.IsStale(repo) {
			continue
		}

		fresh, err := c.refresh(ctx, repo, req, walker)
		if err != nil {
			return result, c.flushAfterError(ctx, file, repo, err)
		}
		file.Records[i] = fresh
		result.Refreshed++
	}

	if err := c.store.Save(ctx, file); err != nil {
		return result, fmt.Errorf("save cache: %w", err)
	}

	result.Aggregate = domain.NewAggregateResult(file, result.Refreshed == 0)
	logger.Info("cache updated: %d of %d records refreshed (mode %s)",
		result.Refreshed, len(req.Listing), c.mode)

	return result, nil
}

// refresh computes the replacement for a stale record.
func (c *RepositoryCache) refresh(
	ctx context.Context, repo domain.RepositoryRef, req UpdateRequest, walker Walker,
) (domain.CacheRecord, error) {
	record := domain.NewCacheRecord(repo.QualifiedName)
	record.CommitCount = repo.CommitCount

	if c.mode == domain.UpdateModeFast || repo.CommitCount == 0 {
		logger.Debug("refresh %s: commit count %d, counters reset", repo.QualifiedName, repo.CommitCount)
		return record, nil
	}

	owner, name, err := repo.SplitName()
	if err != nil {
		return domain.CacheRecord{}, err
	}

	walked, err := walker.Walk(ctx, owner, name, req.Identity, req.PageBudget)
	if err != nil {
		return domain.CacheRecord{}, err
	}

	record.AuthoredCommits = walked.AuthoredCommits
	record.Additions = walked.Additions
	record.Deletions = walked.Deletions
	return record, nil
}

// flushAfterError persists the partially updated cache and wraps cause.
func (c *RepositoryCache) flushAfterError(
	ctx context.Context, file *domain.CacheFile, repo domain.RepositoryRef, cause error,
) error {
	logger.Warn("update of %s failed, flushing partial cache: %v", repo.QualifiedName, cause)

	// The run context may already be cancelled; the flush must still happen.
	if err := c.store.Save(context.WithoutCancel(ctx), file); err != nil {
		return errors.Join(
			fmt.Errorf("update %s: %w", repo.QualifiedName, cause),
			fmt.Errorf("flush partial cache: %w", err),
		)
	}
	return fmt.Errorf("%w: update %s: %w", domain.ErrPartialSave, repo.QualifiedName, cause)
}
