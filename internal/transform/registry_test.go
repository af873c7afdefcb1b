package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestudy-mapper/internal/value"
)

func identity(_ context.Context, v value.Value, _ Options) (value.Value, error) {
	return v, nil
}

func def(id, source, target string, cost int) Definition {
	return Definition{ID: id, SourceType: source, TargetType: target, Cost: cost, Execute: identity}
}

func TestRegistry_RegisterAndFind(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(def("a", "Multi_Select ", "TEXT", 0)))

	got, ok := r.Find("multi_select", "text")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "multi_select", got.SourceType)
	assert.Equal(t, TierExact, got.Tier)
	assert.True(t, r.Has("MULTI_SELECT", "text"))
	assert.False(t, r.Has("text", "multi_select"))
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		def  Definition
	}{
		{"no id", def("", "a", "b", 0)},
		{"no source", def("x", "", "b", 0)},
		{"no target", def("x", "a", " ", 0)},
		{"no execute", Definition{ID: "x", SourceType: "a", TargetType: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.Register(tt.def), ErrInvalidDefinition)
		})
	}

	assert.Zero(t, r.Generation())
}

func TestRegistry_OverwriteByID(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(def("a", "select", "text", 0)))
	require.NoError(t, r.Register(def("a", "status", "text", 0)))

	assert.Equal(t, 1, r.Len())
	assert.False(t, r.Has("select", "text"), "old pair is unindexed")
	assert.True(t, r.Has("status", "text"))
}

func TestRegistry_FindPrefersLowestCost(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(def("slow", "people", "text", 5)))
	require.NoError(t, r.Register(def("fast", "people", "text", 1)))
	require.NoError(t, r.Register(def("also_fast", "people", "text", 1)))

	got, ok := r.Find("people", "text")
	require.True(t, ok)
	assert.Equal(t, "fast", got.ID)
}

func TestRegistry_GenerationAndHooks(t *testing.T) {
	r := NewRegistry()

	var changed []string
	r.OnChange(func(d Definition) { changed = append(changed, d.ID) })

	require.NoError(t, r.Register(def("a", "x", "y", 0)))
	require.NoError(t, r.Register(def("a", "x", "y", 0)))
	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))

	assert.Equal(t, uint64(3), r.Generation())
	assert.Equal(t, []string{"a", "a", "a"}, changed)
	assert.Empty(t, r.ListAll())
}

func TestRegistry_ListAllSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(def("b", "x", "y", 0)))
	require.NoError(t, r.Register(def("a", "x", "z", 0)))

	all := r.ListAll()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	got, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "y", got.TargetType)
}
