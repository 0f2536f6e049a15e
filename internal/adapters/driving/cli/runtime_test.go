package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repostat/internal/adapters/driven/auth"
	"github.com/custodia-labs/repostat/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/repostat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/repostat/internal/core/domain"
)

func TestSqlitePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "cache/repostat.txt", expected: "cache/repostat.db"},
		{input: "cache/repostat", expected: "cache/repostat.db"},
		{input: "cache/stats.db", expected: "cache/stats.db"},
		{input: "cache/stats.sqlite", expected: "cache/stats.sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sqlitePath(tt.input))
		})
	}
}

func TestOpenCacheStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repostat.txt")

	store, closeFn, err := openCacheStore(domain.CacheSettings{Path: path, Backend: domain.CacheBackendFile})

	require.NoError(t, err)
	assert.IsType(t, &file.CacheStore{}, store)
	assert.Equal(t, path, store.Location())
	assert.Nil(t, closeFn)
}

func TestOpenCacheStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repostat.txt")

	store, closeFn, err := openCacheStore(domain.CacheSettings{Path: path, Backend: domain.CacheBackendSQLite})

	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer func() { _ = closeFn() }()
	assert.IsType(t, &sqlite.Store{}, store)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "repostat.db"), store.Location())
}

func TestOpenCacheStore_UnknownBackend(t *testing.T) {
	_, _, err := openCacheStore(domain.CacheSettings{Path: "x", Backend: "redis"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildRuntime(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.GitHub.Login = "octocat"
	settings.GitHub.Token = "ghp_test"
	settings.Cache.Path = filepath.Join(t.TempDir(), "repostat.txt")

	rt, err := buildRuntime(&settings, auth.NewPATProvider(settings.GitHub.Token))

	require.NoError(t, err)
	assert.NotNil(t, rt.aggregator)
	assert.NotNil(t, rt.profile)
	assert.Equal(t, settings.Cache.Path, rt.cache)
	assert.NoError(t, rt.Close())
}
