package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

// clearEnv unsets every variable the overlay reads for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ACCESS_TOKEN", "USER_NAME",
		"REPOSTAT_ACCESS_TOKEN", "REPOSTAT_USER_NAME",
		"REPOSTAT_IDENTITY", "REPOSTAT_AFFILIATIONS",
		"REPOSTAT_CACHE_PATH", "REPOSTAT_CACHE_BACKEND",
		"REPOSTAT_HEADER_SIZE", "REPOSTAT_MODE", "REPOSTAT_PAGE_BUDGET",
		"REPOSTAT_REQUESTS_PER_SECOND",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestOverlay_Apply(t *testing.T) {
	t.Run("leaves settings untouched when nothing is set", func(t *testing.T) {
		clearEnv(t)
		settings := domain.DefaultSettings()

		require.NoError(t, NewOverlay().Apply(&settings))

		assert.Equal(t, domain.DefaultSettings(), settings)
	})

	t.Run("reads unprefixed token and user", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ACCESS_TOKEN", "ghp_secret")
		t.Setenv("USER_NAME", "octocat")
		settings := domain.DefaultSettings()

		require.NoError(t, NewOverlay().Apply(&settings))

		assert.Equal(t, "ghp_secret", settings.GitHub.Token)
		assert.Equal(t, "octocat", settings.GitHub.Login)
	})

	t.Run("prefixed variables win over unprefixed", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("USER_NAME", "octocat")
		t.Setenv("REPOSTAT_USER_NAME", "hubot")
		settings := domain.DefaultSettings()

		require.NoError(t, NewOverlay().Apply(&settings))

		assert.Equal(t, "hubot", settings.GitHub.Login)
	})

	t.Run("applies cache and api settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REPOSTAT_CACHE_PATH", "/tmp/cache.txt")
		t.Setenv("REPOSTAT_CACHE_BACKEND", "SQLite")
		t.Setenv("REPOSTAT_HEADER_SIZE", "0")
		t.Setenv("REPOSTAT_MODE", "fast")
		t.Setenv("REPOSTAT_PAGE_BUDGET", "5")
		t.Setenv("REPOSTAT_REQUESTS_PER_SECOND", "2.5")
		t.Setenv("REPOSTAT_AFFILIATIONS", "owner,collaborator")
		settings := domain.DefaultSettings()

		require.NoError(t, NewOverlay().Apply(&settings))

		assert.Equal(t, "/tmp/cache.txt", settings.Cache.Path)
		assert.Equal(t, domain.CacheBackendSQLite, settings.Cache.Backend)
		assert.Equal(t, 0, settings.Cache.HeaderSize)
		assert.Equal(t, domain.UpdateModeFast, settings.Cache.Mode)
		assert.Equal(t, 5, settings.Cache.PageBudget)
		assert.InDelta(t, 2.5, settings.API.RequestsPerSecond, 0.0001)
		assert.Equal(t,
			[]domain.Affiliation{domain.AffiliationOwner, domain.AffiliationCollaborator},
			settings.GitHub.Affiliations)
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REPOSTAT_PAGE_BUDGET", "lots")
		settings := domain.DefaultSettings()

		err := NewOverlay().Apply(&settings)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects unknown affiliations", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REPOSTAT_AFFILIATIONS", "OWNER,STRANGER")
		settings := domain.DefaultSettings()

		err := NewOverlay().Apply(&settings)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestOverlay_DotEnv(t *testing.T) {
	t.Run("loads values from file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("USER_NAME=octocat\nREPOSTAT_MODE=fast\n"), 0600))
		t.Cleanup(func() {
			_ = os.Unsetenv("USER_NAME")
			_ = os.Unsetenv("REPOSTAT_MODE")
		})
		settings := domain.DefaultSettings()

		require.NoError(t, NewOverlay(path).Apply(&settings))

		assert.Equal(t, "octocat", settings.GitHub.Login)
		assert.Equal(t, domain.UpdateModeFast, settings.Cache.Mode)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("USER_NAME=from-file\n"), 0600))
		t.Setenv("USER_NAME", "from-env")
		settings := domain.DefaultSettings()

		require.NoError(t, NewOverlay(path).Apply(&settings))

		assert.Equal(t, "from-env", settings.GitHub.Login)
	})

	t.Run("missing files are skipped", func(t *testing.T) {
		clearEnv(t)
		settings := domain.DefaultSettings()

		require.NoError(t, NewOverlay(filepath.Join(t.TempDir(), "absent.env")).Apply(&settings))
	})
}
