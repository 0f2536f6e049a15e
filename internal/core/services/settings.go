package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyLogin        = "github.login"
	KeyToken        = "github.token"
	KeyIdentity     = "github.identity"
	KeyAffiliations = "github.affiliations"
	KeyCachePath    = "cache.path"
	KeyCacheBackend = "cache.backend"
	KeyHeaderSize   = "cache.header_size"
	KeyMode         = "cache.mode"
	KeyPageBudget   = "cache.page_budget"
	KeyRequestRate  = "api.requests_per_second"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindList
)

var keyKinds = map[string]keyKind{
	KeyLogin:        kindString,
	KeyToken:        kindString,
	KeyIdentity:     kindString,
	KeyAffiliations: kindList,
	KeyCachePath:    kindString,
	KeyCacheBackend: kindString,
	KeyHeaderSize:   kindInt,
	KeyMode:         kindString,
	KeyPageBudget:   kindInt,
	KeyRequestRate:  kindFloat,
}

// SettingsService resolves settings from defaults, the config file and
// an optional overlay, in increasing order of precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	overlay     driven.SettingsOverlay
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service. overlay may be nil.
func NewSettingsService(configStore driven.ConfigStore, overlay driven.SettingsOverlay) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		overlay:     overlay,
		validate:    validator.New(),
	}
}

// Get resolves current application settings. Invalid file values fall
// back to defaults; overlay values are applied last.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		GitHub: domain.GitHubSettings{
			Login:        s.configStore.GetString(KeyLogin),
			Token:        s.configStore.GetString(KeyToken),
			Identity:     s.configStore.GetString(KeyIdentity),
			Affiliations: s.getAffiliations(defaults.GitHub.Affiliations),
		},
		Cache: domain.CacheSettings{
			Path:       s.getString(KeyCachePath, defaults.Cache.Path),
			Backend:    s.getBackend(defaults.Cache.Backend),
			HeaderSize: s.getInt(KeyHeaderSize, defaults.Cache.HeaderSize),
			Mode:       s.getMode(defaults.Cache.Mode),
			PageBudget: s.getInt(KeyPageBudget, defaults.Cache.PageBudget),
		},
		API: domain.APISettings{
			RequestsPerSecond: s.getFloat(KeyRequestRate, defaults.API.RequestsPerSecond),
		},
	}

	if s.overlay != nil {
		if err := s.overlay.Apply(settings); err != nil {
			return nil, fmt.Errorf("apply overlay: %w", err)
		}
	}

	return settings, nil
}

// Validate checks resolved settings against their constraints.
func (s *SettingsService) Validate(settings *domain.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// Set parses value according to key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	var stored any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		stored = int64(n)
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		stored = f
	case kindList:
		affiliations, err := domain.ParseAffiliations(value)
		if err != nil {
			return err
		}
		list := make([]string, len(affiliations))
		for i, a := range affiliations {
			list[i] = string(a)
		}
		stored = list
	default:
		if err := validateEnum(key, value); err != nil {
			return err
		}
		stored = value
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// GetValue returns the stored value for key formatted as a string.
func (s *SettingsService) GetValue(key string) (string, bool) {
	val, ok := s.configStore.Get(key)
	if !ok {
		return "", false
	}
	if keyKinds[key] == kindList {
		return strings.Join(s.configStore.GetStringSlice(key), ","), true
	}
	return fmt.Sprint(val), true
}

// Keys returns all recognised config keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConfigPath returns the config file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func validateEnum(key, value string) error {
	switch key {
	case KeyMode:
		if !domain.UpdateMode(value).IsValid() {
			return fmt.Errorf("%w: cache mode must be fast or exact", domain.ErrInvalidInput)
		}
	case KeyCacheBackend:
		if !domain.CacheBackend(value).IsValid() {
			return fmt.Errorf("%w: cache backend must be file or sqlite", domain.ErrInvalidInput)
		}
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getMode(defaultVal domain.UpdateMode) domain.UpdateMode {
	mode := domain.UpdateMode(s.configStore.GetString(KeyMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	backend := domain.CacheBackend(s.configStore.GetString(KeyCacheBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getAffiliations(defaultVal []domain.Affiliation) []domain.Affiliation {
	raw := s.configStore.GetStringSlice(KeyAffiliations)
	if len(raw) == 0 {
		return defaultVal
	}
	affiliations, err := domain.ParseAffiliations(strings.Join(raw, ","))
	if err != nil {
		return defaultVal
	}
	return affiliations
}
