package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repostat/internal/core/domain"
)

func TestCommitWalker_Walk(t *testing.T) {
	t.Run("counts only the tracked identity", func(t *testing.T) {
		api := newMockStatsAPI()
		history := append(commits(3, "U_me", 10, 2), commits(4, "U_other", 100, 50)...)
		history = append(history, commits(1, "", 7, 7)...)
		api.histories["a/x"] = history

		result, err := NewCommitWalker(api).Walk(context.Background(), "a", "x", "U_me", 10)

		require.NoError(t, err)
		assert.Equal(t, WalkResult{Additions: 30, Deletions: 6, AuthoredCommits: 3, Pages: 1}, result)
	})

	t.Run("walks every page", func(t *testing.T) {
		api := newMockStatsAPI()
		api.histories["a/x"] = commits(250, "U_me", 1, 1)

		result, err := NewCommitWalker(api).Walk(context.Background(), "a", "x", "U_me", 10)

		require.NoError(t, err)
		assert.Equal(t, int64(250), result.AuthoredCommits)
		assert.Equal(t, 3, result.Pages)
		assert.False(t, result.Truncated)
		assert.Equal(t, 3, api.historyCalls["a/x"])
	})

	t.Run("never exceeds the page budget", func(t *testing.T) {
		api := newMockStatsAPI()
		api.histories["a/x"] = commits(1000, "U_me", 2, 1)

		result, err := NewCommitWalker(api).Walk(context.Background(), "a", "x", "U_me", 3)

		require.NoError(t, err)
		assert.Equal(t, 3, api.historyCalls["a/x"])
		assert.Equal(t, 3, result.Pages)
		assert.True(t, result.Truncated)
		assert.Equal(t, int64(300), result.AuthoredCommits)
		assert.Equal(t, int64(600), result.Additions)
	})

	t.Run("exact budget is not truncation", func(t *testing.T) {
		api := newMockStatsAPI()
		api.histories["a/x"] = commits(200, "U_me", 1, 0)

		result, err := NewCommitWalker(api).Walk(context.Background(), "a", "x", "U_me", 2)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Pages)
		assert.False(t, result.Truncated)
	})

	t.Run("repository without default branch", func(t *testing.T) {
		api := newMockStatsAPI()
		api.noDefaultBranch["a/empty"] = true

		result, err := NewCommitWalker(api).Walk(context.Background(), "a", "empty", "U_me", 5)

		require.NoError(t, err)
		assert.Equal(t, WalkResult{}, result)
		assert.Equal(t, 1, api.historyCalls["a/empty"])
	})

	t.Run("empty history", func(t *testing.T) {
		api := newMockStatsAPI()

		result, err := NewCommitWalker(api).Walk(context.Background(), "a", "new", "U_me", 5)

		require.NoError(t, err)
		assert.Equal(t, WalkResult{Pages: 1}, result)
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		api := newMockStatsAPI()
		boom := errors.New("transport down")
		api.historyErrs["a/x"] = boom

		_, err := NewCommitWalker(api).Walk(context.Background(), "a", "x", "U_me", 5)

		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "a/x")
	})

	t.Run("requires identity", func(t *testing.T) {
		_, err := NewCommitWalker(newMockStatsAPI()).Walk(context.Background(), "a", "x", "", 5)
		assert.ErrorIs(t, err, domain.ErrIdentityUnknown)
	})

	t.Run("requires positive budget", func(t *testing.T) {
		api := newMockStatsAPI()
		_, err := NewCommitWalker(api).Walk(context.Background(), "a", "x", "U_me", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, api.historyCalls["a/x"])
	})
}
