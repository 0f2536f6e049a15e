package driven

import (
	"context"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

// CacheStore persists the repository statistics cache.
// A store has a single writer; callers serialise runs externally.
type CacheStore interface {
	// Load reads the cache. A missing cache yields an empty file with
	// headerSize placeholder header lines and no records. Lines that fail
	// to parse load as zero records with an empty key so they read as stale.
	Load(ctx context.Context, headerSize int) (*domain.CacheFile, error)

	// Save atomically replaces the stored cache with f.
	Save(ctx context.Context, f *domain.CacheFile) error

	// Location describes where the cache lives (file path or DSN).
	Location() string
}
