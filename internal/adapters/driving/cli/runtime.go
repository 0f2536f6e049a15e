package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/repostat/internal/adapters/driven/auth"
	"github.com/custodia-labs/repostat/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/repostat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/repostat/internal/connectors/github"
	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/core/ports/driving"
	"github.com/custodia-labs/repostat/internal/core/services"
	"github.com/custodia-labs/repostat/internal/logger"
)

// runtime holds the services a single command invocation needs.
type runtime struct {
	aggregator driving.Aggregator
	profile    driving.ProfileService
	cache      string
	close      func() error
}

func (r *runtime) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// newRuntime builds the service graph; tests replace it.
var newRuntime = buildRuntime

// stdinIsTerminal reports whether a token prompt can be shown.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func buildRuntime(settings *domain.Settings, tokens driven.TokenProvider) (*runtime, error) {
	client := github.NewClient(tokens, github.WithConfig(github.ConfigFromSettings(settings.API)))
	api := github.NewStatsAPI(client)

	store, closeStore, err := openCacheStore(settings.Cache)
	if err != nil {
		return nil, err
	}
	logger.Debug("cache at %s (%s backend, %s mode)", store.Location(), settings.Cache.Backend, settings.Cache.Mode)

	cache := services.NewRepositoryCache(store, settings.Cache.Mode)
	aggregator := services.NewAggregator(api, cache, services.AggregatorConfig{
		Login:      settings.GitHub.Login,
		Identity:   settings.GitHub.Identity,
		PageBudget: settings.Cache.PageBudget,
	})

	return &runtime{
		aggregator: aggregator,
		profile:    services.NewProfileService(api),
		cache:      store.Location(),
		close:      closeStore,
	}, nil
}

func openCacheStore(cfg domain.CacheSettings) (driven.CacheStore, func() error, error) {
	switch cfg.Backend {
	case domain.CacheBackendSQLite:
		store, err := sqlite.NewStore(sqlitePath(cfg.Path))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return store, store.Close, nil
	case domain.CacheBackendFile, "":
		return file.NewCacheStore(cfg.Path), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown cache backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}

// sqlitePath swaps a text-file extension for .db so both backends can
// share the configured path.
func sqlitePath(path string) string {
	ext := filepath.Ext(path)
	if ext == ".db" || ext == ".sqlite" {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".db"
}

// loadSettings resolves settings and the access token. The token comes from
// configuration, or from an interactive prompt when stdin is a terminal.
func loadSettings(cmd *cobra.Command) (*domain.Settings, driven.TokenProvider, error) {
	svc, err := requireSettings()
	if err != nil {
		return nil, nil, err
	}

	settings, err := svc.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	var prompt auth.PromptFunc
	if stdinIsTerminal() {
		prompt = tokenPrompt(cmd)
	}
	tokens := auth.NewFactory(prompt).CreateTokenProvider(settings.GitHub)

	token, err := tokens.GetToken(commandContext(cmd))
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			return nil, nil, fmt.Errorf("%w: set REPOSTAT_ACCESS_TOKEN or run 'repostat config set github.token <token>'", err)
		}
		return nil, nil, err
	}
	settings.GitHub.Token = token

	return settings, tokens, nil
}

func tokenPrompt(cmd *cobra.Command) auth.PromptFunc {
	return func(_ context.Context) (string, error) {
		fmt.Fprint(cmd.ErrOrStderr(), "GitHub access token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
