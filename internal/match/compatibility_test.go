package match

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestudy-mapper/internal/cache"
)

type fakeLookup struct {
	pairs map[string]bool
	gen   uint64
}

func (f *fakeLookup) Has(source, target string) bool { return f.pairs[source+">"+target] }
func (f *fakeLookup) Generation() uint64             { return f.gen }

func TestLevel_Ordering(t *testing.T) {
	assert.Less(t, LevelError.Score(), LevelWarning.Score())
	assert.Less(t, LevelWarning.Score(), LevelInfo.Score())
	assert.Less(t, LevelInfo.Score(), LevelCompatible.Score())
	assert.False(t, LevelError.Mappable())
	assert.True(t, LevelWarning.Mappable())
}

func TestLevel_Text(t *testing.T) {
	data, err := json.Marshal(Result{Level: LevelWarning, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"warning","message":"m"}`, string(data))

	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"level":"COMPATIBLE"}`), &r))
	assert.Equal(t, LevelCompatible, r.Level)

	_, err = ParseLevel("fatal")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	lookup := &fakeLookup{pairs: map[string]bool{"people>relation": true}}
	c := NewClassifier(DefaultMatrix(), lookup, nil)

	tests := []struct {
		name    string
		source  string
		target  string
		level   Level
		message string
	}{
		{"identical", "text", "text", LevelCompatible, MsgIdentical},
		{"identical after normalization", " Number ", "number", LevelCompatible, MsgIdentical},
		{"matrix warning", "multi_select", "text", LevelWarning, "options must be joined into one string"},
		{"matrix info", "rich_text", "text", LevelInfo, "formatting is dropped"},
		{"matrix is case-insensitive", "TITLE", "richText", LevelCompatible, "title is used as rich text"},
		{"registry fallback", "people", "relation", LevelWarning, MsgAutoTransform},
		{"incompatible", "title", "number", LevelError, "types incompatible: 'number' cannot accept 'title'"},
		{"unknown target", "title", "hologram", LevelError, "types incompatible: 'hologram' cannot accept 'title'"},
		{"empty source", "", "text", LevelError, MsgEmptyTag},
		{"empty target", "title", "  ", LevelError, MsgEmptyTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.source, tt.target)
			assert.Equal(t, tt.level, got.Level)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	m := DefaultMatrix()
	c := NewClassifier(m, &fakeLookup{}, cache.New[Result](cache.Config{MaxSize: 8}))

	for _, target := range m.Targets() {
		for source := range m[target] {
			first := c.Classify(source, target)
			for range 3 {
				assert.Equal(t, first, c.Classify(source, target), "%s <- %s", target, source)
			}
		}
	}
}

func TestClassify_EqualityFastPathForKnownTags(t *testing.T) {
	m := DefaultMatrix()
	c := NewClassifier(m, nil, nil)

	seen := map[string]bool{}
	for target, row := range m {
		seen[target] = true
		for source := range row {
			seen[source] = true
		}
	}

	for tag := range seen {
		assert.Equal(t, LevelCompatible, c.Classify(tag, tag).Level, tag)
	}
}

func TestClassify_UsesCache(t *testing.T) {
	rc := cache.New[Result](cache.Config{})
	c := NewClassifier(DefaultMatrix(), &fakeLookup{}, rc)

	c.Classify("multi_select", "text")
	c.Classify("multi_select", "text")

	stats := rc.Stats()
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 1, stats.Size)
}

func TestClassify_RegistryGenerationRefreshesResult(t *testing.T) {
	lookup := &fakeLookup{pairs: map[string]bool{}}
	c := NewClassifier(Matrix{}, lookup, cache.New[Result](cache.Config{}))

	assert.Equal(t, LevelError, c.Classify("people", "relation").Level)

	lookup.pairs["people>relation"] = true
	lookup.gen++

	assert.Equal(t, LevelWarning, c.Classify("people", "relation").Level)
}

func TestMatrix_SetNormalizesTags(t *testing.T) {
	m := Matrix{}
	m.Set(" Text", "TITLE ", LevelInfo, "x")

	e, ok := m.Lookup("text", "title")
	require.True(t, ok)
	assert.Equal(t, LevelInfo, e.Level)
	assert.Equal(t, []string{"text"}, m.Targets())
}
