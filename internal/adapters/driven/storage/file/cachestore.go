package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/logger"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore reads and writes the cache file at a fixed path.
type CacheStore struct {
	path string
}

// NewCacheStore creates a store for the cache file at path.
// The file and its directory are created on first save.
func NewCacheStore(path string) *CacheStore {
	return &CacheStore{path: path}
}

// Location returns the cache file path.
func (s *CacheStore) Location() string {
	return s.path
}

// Load reads the cache file. The first headerSize lines are the header;
// a short file is padded with placeholder lines. Every later non-empty
// line is a record. Lines that fail to parse become zero records with an
// empty key so the cache update treats them as stale.
func (s *CacheStore) Load(ctx context.Context, headerSize int) (*domain.CacheFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("cache: %s does not exist, starting empty", s.path)
			return domain.NewCacheFile(headerSize), nil
		}
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	defer f.Close()

	cache, err := decode(f, headerSize)
	if err != nil {
		return nil, fmt.Errorf("reading cache %s: %w", s.path, err)
	}
	return cache, nil
}

// decode parses the cache layout from r.
func decode(r io.Reader, headerSize int) (*domain.CacheFile, error) {
	cache := &domain.CacheFile{Header: make([]string, 0, max(headerSize, 0))}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if len(cache.Header) < headerSize {
			cache.Header = append(cache.Header, line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := domain.ParseRecord(line)
		if err != nil {
			logger.Warn("cache: line %d: %v, treating as stale", lineNo, err)
			record = domain.CacheRecord{}
		}
		cache.Records = append(cache.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for len(cache.Header) < headerSize {
		cache.Header = append(cache.Header, domain.HeaderPlaceholder)
	}
	return cache, nil
}

// encode writes the cache layout to w.
func encode(w io.Writer, cache *domain.CacheFile) error {
	bw := bufio.NewWriter(w)
	for _, line := range cache.Header {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	for _, record := range cache.Records {
		if _, err := bw.WriteString(domain.FormatRecord(record) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save atomically replaces the cache file with cache.
func (s *CacheStore) Save(ctx context.Context, cache *domain.CacheFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := encode(tmp, cache); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("setting cache permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing cache: %w", err)
	}
	committed = true

	logger.Debug("cache: wrote %d records to %s", len(cache.Records), s.path)
	return nil
}
