package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driving"
)

var (
	locRebuild      bool
	locMode         string
	locHeaderSize   int
	locAffiliations string
)

var locCmd = &cobra.Command{
	Use:   "loc",
	Short: "Count lines added and deleted across your repositories",
	Long: `Lists every repository for the configured account, refreshes the cached
statistics of repositories whose commit count changed and prints the totals.

Modes:
  exact - walk the commit history of each changed repository (default)
  fast  - record the new commit count without walking history; line
          counts for changed repositories read as zero until an exact run

Examples:
  repostat loc
  repostat loc --mode fast
  repostat loc --rebuild --affiliations owner`,
	Args: cobra.NoArgs,
	RunE: runLoc,
}

func init() {
	locCmd.Flags().BoolVar(&locRebuild, "rebuild", false, "discard cached records and recount every repository")
	locCmd.Flags().StringVar(&locMode, "mode", "", "update mode: fast or exact")
	locCmd.Flags().IntVar(&locHeaderSize, "header-size", 0, "number of opaque header lines in the cache file")
	locCmd.Flags().StringVar(&locAffiliations, "affiliations", "", "comma-separated OWNER, COLLABORATOR, ORGANIZATION_MEMBER")
	rootCmd.AddCommand(locCmd)
}

func runLoc(cmd *cobra.Command, _ []string) error {
	settings, tokens, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applyLocFlags(cmd, settings); err != nil {
		return err
	}
	if err := settingsService.Validate(settings); err != nil {
		return err
	}

	rt, err := newRuntime(settings, tokens)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if locRebuild {
		cmd.PrintErrf("Rebuilding cache at %s\n", rt.cache)
	}

	report, runErr := rt.aggregator.Run(commandContext(cmd), driving.RunRequest{
		Affiliations: settings.GitHub.Affiliations,
		HeaderSize:   settings.Cache.HeaderSize,
		ForceRebuild: locRebuild,
	})

	out := cmd.OutOrStdout()
	styles := stylesFor(out)
	if runErr == nil {
		printTotals(out, styles, settings.GitHub.Login, report)
	}
	if report != nil {
		printQueries(out, styles, report.Queries)
		printStages(out, styles, report)
	}

	if runErr != nil {
		if errors.Is(runErr, domain.ErrPartialSave) {
			cmd.PrintErrln(styles.Warning.Render("Partial progress was saved; rerun to continue."))
		}
		return runErr
	}
	return nil
}

func applyLocFlags(cmd *cobra.Command, settings *domain.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode := domain.UpdateMode(strings.ToLower(strings.TrimSpace(locMode)))
		if !mode.IsValid() {
			return fmt.Errorf("%w: --mode must be fast or exact", domain.ErrInvalidInput)
		}
		settings.Cache.Mode = mode
	}
	if flags.Changed("header-size") {
		settings.Cache.HeaderSize = locHeaderSize
	}
	if flags.Changed("affiliations") {
		affiliations, err := domain.ParseAffiliations(locAffiliations)
		if err != nil {
			return err
		}
		settings.GitHub.Affiliations = affiliations
	}
	return nil
}

const msRound = time.Millisecond

func printTotals(w io.Writer, styles *Styles, login string, report *domain.RunReport) {
	result := report.Result

	fmt.Fprintln(w, styles.Title.Render("Lines of code for "+login))
	printRow(w, styles, "Additions", styles.Success.Render(fmt.Sprintf("+%d", result.TotalAdditions)))
	printRow(w, styles, "Deletions", styles.Error.Render(fmt.Sprintf("-%d", result.TotalDeletions)))
	printRow(w, styles, "Net", styles.Value.Render(fmt.Sprintf("%d", result.NetLines)))
	printRow(w, styles, "Repositories", styles.Value.Render(fmt.Sprintf("%d", report.Repositories)))

	source := fmt.Sprintf("refreshed %d", report.Refreshed)
	if result.FromFullCache {
		source = "fully cached"
	}
	printRow(w, styles, "Cache", styles.Muted.Render(source))
	fmt.Fprintln(w)
}

func printQueries(w io.Writer, styles *Styles, queries domain.QueryCounts) {
	fmt.Fprintln(w, styles.Title.Render("API queries"))
	for _, endpoint := range queries.Endpoints() {
		printRow(w, styles, endpoint, fmt.Sprintf("%d", queries[endpoint]))
	}
	printRow(w, styles, "total", styles.Value.Render(fmt.Sprintf("%d", queries.Total())))
	fmt.Fprintln(w)
}

func printStages(w io.Writer, styles *Styles, report *domain.RunReport) {
	fmt.Fprintln(w, styles.Title.Render("Stage timings"))
	for _, stage := range report.Stages {
		printRow(w, styles, stage.Name, stage.Elapsed.Round(msRound).String())
	}
	printRow(w, styles, "total", styles.Value.Render(report.TotalElapsed().Round(msRound).String()))
}

func printRow(w io.Writer, styles *Styles, label, value string) {
	fmt.Fprintf(w, "  %s%s\n", styles.Label.Render(label), value)
}
