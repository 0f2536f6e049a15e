package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repostat/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var store driven.ConfigStore = NewConfigStore()
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Load())
	assert.NoError(t, store.Save())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("github.login", "octocat"))
	require.NoError(t, store.Set("github.login", "hubot"))

	val, ok := store.Get("github.login")
	assert.True(t, ok)
	assert.Equal(t, "hubot", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", 7))
	require.NoError(t, store.Set("i64", int64(9)))
	require.NoError(t, store.Set("f", 1.5))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("list", []any{"OWNER", 3, "COLLABORATOR"}))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("s"), "text"},
		{"string wrong type", store.GetString("i"), ""},
		{"int", store.GetInt("i"), 7},
		{"int from int64", store.GetInt("i64"), 9},
		{"int from float", store.GetInt("f"), 1},
		{"int wrong type", store.GetInt("s"), 0},
		{"float", store.GetFloat("f"), 1.5},
		{"float from int", store.GetFloat("i"), 7.0},
		{"float from int64", store.GetFloat("i64"), 9.0},
		{"float wrong type", store.GetFloat("s"), 0.0},
		{"float missing", store.GetFloat("missing"), 0.0},
		{"bool", store.GetBool("b"), true},
		{"bool wrong type", store.GetBool("s"), false},
		{"slice skips non-strings", store.GetStringSlice("list"), []string{"OWNER", "COLLABORATOR"}},
		{"slice missing", store.GetStringSlice("missing"), []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = store.Set("cache.page_budget", id)
			_ = store.GetInt("cache.page_budget")
			_ = store.GetFloat("cache.page_budget")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("cache.page_budget")
	assert.True(t, ok)
}
