package cli

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/repostat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
	"github.com/custodia-labs/repostat/internal/core/ports/driving"
	"github.com/custodia-labs/repostat/internal/core/services"
)

func TestMain(m *testing.M) {
	stdinIsTerminal = func() bool { return false }
	settingsService = services.NewSettingsService(memory.NewConfigStore(), nil)
	os.Exit(m.Run())
}

// stubAggregator implements driving.Aggregator for testing.
type stubAggregator struct {
	report *domain.RunReport
	err    error
	calls  int
	req    driving.RunRequest
}

func (s *stubAggregator) Run(_ context.Context, req driving.RunRequest) (*domain.RunReport, error) {
	s.calls++
	s.req = req
	return s.report, s.err
}

// stubProfile implements driving.ProfileService for testing.
type stubProfile struct {
	profile *domain.Profile
	queries domain.QueryCounts
	err     error
	login   string
}

func (s *stubProfile) Summary(_ context.Context, login string) (*domain.Profile, domain.QueryCounts, error) {
	s.login = login
	if s.err != nil {
		return nil, s.queries, s.err
	}
	return s.profile, s.queries, nil
}

type cliHarness struct {
	store      *memory.ConfigStore
	aggregator *stubAggregator
	profile    *stubProfile
	settings   *domain.Settings
	closed     bool
}

// setupCLI injects an in-memory config holding a login and token and a
// runtime backed by stubs.
func setupCLI(t *testing.T) *cliHarness {
	t.Helper()

	h := &cliHarness{
		store:      memory.NewConfigStore(),
		aggregator: &stubAggregator{},
		profile:    &stubProfile{},
	}
	_ = h.store.Set(services.KeyLogin, "octocat")
	_ = h.store.Set(services.KeyToken, "ghp_testtoken1234")

	oldSettings, oldRuntime := settingsService, newRuntime
	settingsService = services.NewSettingsService(h.store, nil)
	newRuntime = func(settings *domain.Settings, _ driven.TokenProvider) (*runtime, error) {
		h.settings = settings
		return &runtime{
			aggregator: h.aggregator,
			profile:    h.profile,
			cache:      "cache/repostat.txt",
			close: func() error {
				h.closed = true
				return nil
			},
		}, nil
	}
	resetFlags()

	t.Cleanup(func() {
		settingsService = oldSettings
		newRuntime = oldRuntime
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return h
}

// resetFlags restores flag defaults between executions of the shared root command.
func resetFlags() {
	for _, flags := range []*pflag.FlagSet{locCmd.Flags(), rootCmd.PersistentFlags()} {
		flags.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func execute(args ...string) (stdout, stderr string, err error) {
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}
