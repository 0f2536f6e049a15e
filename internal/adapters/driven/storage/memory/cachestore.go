package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore is an in-memory implementation of driven.CacheStore.
// Load and Save copy the cache so callers never share state with the store.
type CacheStore struct {
	mu    sync.RWMutex
	cache *domain.CacheFile
	saves int

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

// NewCacheStore creates an empty in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{}
}

// Load returns a copy of the stored cache, or a fresh cache with
// headerSize placeholder lines when nothing has been saved.
func (s *CacheStore) Load(ctx context.Context, headerSize int) (*domain.CacheFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return domain.NewCacheFile(headerSize), nil
	}
	return s.cache.Clone(), nil
}

// Save stores a copy of cache.
func (s *CacheStore) Save(ctx context.Context, cache *domain.CacheFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.cache = cache.Clone()
	s.saves++
	return nil
}

// Location returns ":memory:".
func (s *CacheStore) Location() string {
	return ":memory:"
}

// Saves returns how many times Save succeeded.
func (s *CacheStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Snapshot returns a copy of the stored cache, nil if nothing was saved.
func (s *CacheStore) Snapshot() *domain.CacheFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return nil
	}
	return s.cache.Clone()
}
