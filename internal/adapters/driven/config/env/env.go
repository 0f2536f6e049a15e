// Package env overlays settings from the process environment and
// optional .env files.
//
// Variables use the REPOSTAT_ prefix. ACCESS_TOKEN and USER_NAME are also
// accepted without the prefix.
package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/logger"
)

// Prefix is prepended to every variable name.
const Prefix = "REPOSTAT"

// Ensure Overlay implements the interface.
var _ driven.SettingsOverlay = (*Overlay)(nil)

// Variables is the set of recognised environment variables. Unset
// variables leave the corresponding setting untouched.
type Variables struct {
	AccessToken string `envconfig:"ACCESS_TOKEN"`
	UserName    string `envconfig:"USER_NAME"`

	Identity     string   `split_words:"true"`
	Affiliations []string `split_words:"true"`

	CachePath    string `split_words:"true"`
	CacheBackend string `split_words:"true"`
	HeaderSize   *int   `split_words:"true"`
	Mode         string
	PageBudget   *int `split_words:"true"`

	RequestsPerSecond *float64 `split_words:"true"`
}

// Overlay applies Variables on top of file settings.
type Overlay struct {
	prefix       string
	dotEnvs      []string
	dotEnvLoaded bool
}

// NewOverlay creates an overlay reading REPOSTAT_* variables. The given
// .env files are loaded first when they exist; variables already present
// in the environment take precedence over .env values.
func NewOverlay(dotEnvFiles ...string) *Overlay {
	return &Overlay{prefix: Prefix, dotEnvs: dotEnvFiles}
}

// Read loads .env files and parses the environment.
func (o *Overlay) Read() (Variables, error) {
	if !o.dotEnvLoaded {
		loadDotEnv(o.dotEnvs)
		o.dotEnvLoaded = true
	}

	var vars Variables
	if err := envconfig.Process(o.prefix, &vars); err != nil {
		return vars, fmt.Errorf("%w: environment: %w", domain.ErrInvalidInput, err)
	}
	return vars, nil
}

// Apply overwrites settings with every variable that is set.
func (o *Overlay) Apply(settings *domain.Settings) error {
	vars, err := o.Read()
	if err != nil {
		return err
	}

	setString(&settings.GitHub.Token, vars.AccessToken)
	setString(&settings.GitHub.Login, vars.UserName)
	setString(&settings.GitHub.Identity, vars.Identity)
	setString(&settings.Cache.Path, vars.CachePath)

	if vars.CacheBackend != "" {
		settings.Cache.Backend = domain.CacheBackend(strings.ToLower(vars.CacheBackend))
	}
	if vars.Mode != "" {
		settings.Cache.Mode = domain.UpdateMode(strings.ToLower(vars.Mode))
	}
	if vars.HeaderSize != nil {
		settings.Cache.HeaderSize = *vars.HeaderSize
	}
	if vars.PageBudget != nil {
		settings.Cache.PageBudget = *vars.PageBudget
	}
	if vars.RequestsPerSecond != nil {
		settings.API.RequestsPerSecond = *vars.RequestsPerSecond
	}
	if len(vars.Affiliations) > 0 {
		affiliations, err := domain.ParseAffiliations(strings.Join(vars.Affiliations, ","))
		if err != nil {
			return fmt.Errorf("%s_AFFILIATIONS: %w", o.prefix, err)
		}
		settings.GitHub.Affiliations = affiliations
	}

	return nil
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

// loadDotEnv loads each existing file without overriding variables that
// are already set.
func loadDotEnv(files []string) {
	for _, f := range files {
		if !fileExists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			logger.Warn("dotenv: failed loading %s: %v", f, err)
			continue
		}
		logger.Debug("dotenv: loaded %s", f)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
