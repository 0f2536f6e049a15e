package domain

// CacheBackend selects the CacheStore implementation.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendFile stores the cache as a line-oriented text file.
	CacheBackendFile CacheBackend = "file"

	// CacheBackendSQLite stores the same records in a SQLite database.
	CacheBackendSQLite CacheBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	return b == CacheBackendFile || b == CacheBackendSQLite
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// Settings holds the resolved application configuration.
type Settings struct {
	GitHub GitHubSettings
	Cache  CacheSettings
	API    APISettings
}

// GitHubSettings configures which account is tracked.
type GitHubSettings struct {
	// Login is the GitHub username whose repositories are scanned.
	Login string `validate:"required"`

	// Token is the access token, usually supplied through the environment.
	Token string `validate:"required"`

	// Identity overrides the tracked author node ID. Empty resolves it
	// from Login at run time.
	Identity string

	// Affiliations filters the repository listing.
	Affiliations []Affiliation `validate:"min=1,dive,oneof=OWNER COLLABORATOR ORGANIZATION_MEMBER"`
}

// CacheSettings configures the repository statistics cache.
type CacheSettings struct {
	Path       string       `validate:"required"`
	Backend    CacheBackend `validate:"oneof=file sqlite"`
	HeaderSize int          `validate:"gte=0,lte=64"`
	Mode       UpdateMode   `validate:"oneof=fast exact"`
	PageBudget int          `validate:"gt=0"`
}

// APISettings tunes request pacing.
type APISettings struct {
	RequestsPerSecond float64 `validate:"gt=0"`
}

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		GitHub: GitHubSettings{
			Affiliations: AllAffiliations(),
		},
		Cache: CacheSettings{
			Path:       "cache/repostat.txt",
			Backend:    CacheBackendFile,
			HeaderSize: 7,
			Mode:       UpdateModeExact,
			PageBudget: 50,
		},
		API: APISettings{
			RequestsPerSecond: 1.2,
		},
	}
}
