package driving

import "github.com/custodia-labs/repostat/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves settings from defaults, the config file and the environment.
	Get() (*domain.Settings, error)

	// Validate checks resolved settings.
	Validate(settings *domain.Settings) error

	// Set stores a single config file value by key.
	Set(key, value string) error

	// GetValue returns the config file value for key, if any.
	GetValue(key string) (string, bool)

	// Keys returns all recognised config keys.
	Keys() []string

	// ConfigPath returns the config file path.
	ConfigPath() string
}
