package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile [login]",
	Short: "Show account statistics",
	Long: `Shows follower, star, repository and contribution counts for an account.
Defaults to the configured github.login.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	settings, tokens, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	login := settings.GitHub.Login
	if len(args) > 0 {
		login = args[0]
	}
	if login == "" {
		return fmt.Errorf("%w: no login given and github.login is not set", domain.ErrInvalidInput)
	}

	rt, err := newRuntime(settings, tokens)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	profile, queries, err := rt.profile.Summary(commandContext(cmd), login)

	out := cmd.OutOrStdout()
	styles := stylesFor(out)
	if err == nil {
		fmt.Fprintln(out, styles.Title.Render("Profile for "+profile.Login))
		printRow(out, styles, "Account ID", styles.Muted.Render(profile.ID))
		if !profile.CreatedAt.IsZero() {
			printRow(out, styles, "Joined", profile.CreatedAt.Format("2006-01-02"))
		}
		printRow(out, styles, "Followers", styles.Value.Render(fmt.Sprintf("%d", profile.Followers)))
		printRow(out, styles, "Stars", styles.Value.Render(fmt.Sprintf("%d", profile.Stars)))
		printRow(out, styles, "Owned repositories", styles.Value.Render(fmt.Sprintf("%d", profile.OwnedRepos)))
		printRow(out, styles, "Contributed to", styles.Value.Render(fmt.Sprintf("%d", profile.ContributedRepos)))
		printRow(out, styles, "Commits (past year)", styles.Value.Render(fmt.Sprintf("%d", profile.Commits)))
		fmt.Fprintln(out)
	}
	printQueries(out, styles, queries)

	return err
}
