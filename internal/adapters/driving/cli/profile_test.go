package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/services"
)

func sampleProfile(login string) *domain.Profile {
	return &domain.Profile{
		Viewer: domain.Viewer{
			ID:        "U_kgDOA1",
			Login:     login,
			CreatedAt: time.Date(2015, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		Followers:        42,
		Stars:            310,
		OwnedRepos:       17,
		ContributedRepos: 25,
		Commits:          580,
	}
}

func TestProfileCmd_DefaultsToConfiguredLogin(t *testing.T) {
	h := setupCLI(t)
	h.profile.profile = sampleProfile("octocat")
	h.profile.queries = domain.QueryCounts{domain.EndpointViewer: 1, domain.EndpointFollowers: 1}

	out, _, err := execute("profile")

	require.NoError(t, err)
	assert.Equal(t, "octocat", h.profile.login)
	assert.True(t, h.closed)
	assert.Contains(t, out, "Profile for octocat")
	assert.Contains(t, out, "2015-03-14")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "310")
	assert.Contains(t, out, "580")
	assert.Contains(t, out, domain.EndpointFollowers)
}

func TestProfileCmd_LoginArgument(t *testing.T) {
	h := setupCLI(t)
	h.profile.profile = sampleProfile("hubot")

	out, _, err := execute("profile", "hubot")

	require.NoError(t, err)
	assert.Equal(t, "hubot", h.profile.login)
	assert.Contains(t, out, "Profile for hubot")
}

func TestProfileCmd_NoLogin(t *testing.T) {
	h := setupCLI(t)
	_ = h.store.Set(services.KeyLogin, "")

	_, _, err := execute("profile")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProfileCmd_ErrorStillPrintsQueries(t *testing.T) {
	h := setupCLI(t)
	h.profile.err = errors.New("followers: server error")
	h.profile.queries = domain.QueryCounts{domain.EndpointViewer: 1, domain.EndpointFollowers: 3}

	out, _, err := execute("profile")

	require.Error(t, err)
	assert.NotContains(t, out, "Profile for")
	assert.Contains(t, out, "API queries")
	assert.Contains(t, out, domain.EndpointFollowers)
}
