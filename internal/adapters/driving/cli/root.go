// Package cli implements the repostat command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repostat/internal/adapters/driven/config/env"
	"github.com/custodia-labs/repostat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/repostat/internal/core/ports/driving"
	"github.com/custodia-labs/repostat/internal/core/services"
	"github.com/custodia-labs/repostat/internal/logger"
)

var (
	version = "dev"

	verbose   bool
	configDir string

	// settingsService is created on first use unless injected.
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "repostat",
	Short: "Line statistics across your GitHub repositories",
	Long: `repostat counts the lines you added and deleted across every repository
you own or contribute to, caching per-repository totals so later runs only
query repositories whose history changed.

Configuration is read from ~/.repostat/config.toml and overridden by
REPOSTAT_* environment variables (a .env file in the working directory is
loaded if present).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress and debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.repostat)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if settingsService != nil {
		return nil
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService = services.NewSettingsService(store, env.NewOverlay(".env"))
	return nil
}

func requireSettings() (driving.SettingsService, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	return settingsService, nil
}
