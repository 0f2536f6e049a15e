package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change values in ~/.repostat/config.toml.

Environment variables (REPOSTAT_*) take precedence over the file and are not
shown by 'config get'.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a config value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a config value",
	Long: `Store a config value. Values are checked against the key's type:

  github.affiliations      comma-separated OWNER, COLLABORATOR, ORGANIZATION_MEMBER
  cache.mode               fast or exact
  cache.backend            file or sqlite
  cache.header_size        integer
  cache.page_budget        integer
  api.requests_per_second  number`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config keys and their stored values",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	svc, err := requireSettings()
	if err != nil {
		return err
	}

	value, ok := svc.GetValue(args[0])
	if !ok {
		return fmt.Errorf("%w: %s is not set", domain.ErrNotFound, args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), displayValue(args[0], value))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := requireSettings()
	if err != nil {
		return err
	}

	if err := svc.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	svc, err := requireSettings()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := stylesFor(out)
	for _, key := range svc.Keys() {
		value, ok := svc.GetValue(key)
		if !ok {
			printRow(out, styles, key, styles.Muted.Render("(not set)"))
			continue
		}
		printRow(out, styles, key, displayValue(key, value))
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	svc, err := requireSettings()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), svc.ConfigPath())
	return nil
}

func displayValue(key, value string) string {
	if key == services.KeyToken {
		return maskToken(value)
	}
	return value
}

// maskToken masks a token for display, showing only first and last 4 chars.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
