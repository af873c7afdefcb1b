package transform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestudy-mapper/internal/value"
)

const tagsSemicolon = `
version: "1"
transformations:
  - id: tags_semicolon
    source_type: multi_select
    target_type: text
    description: Joins tags with semicolons
    tier: lossy
    cost: 0
    pipeline: pluck("name") | join("; ")
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseDefinitions(t *testing.T) {
	defs, err := ParseDefinitions([]byte(tagsSemicolon), "mem")
	require.NoError(t, err)
	require.Len(t, defs, 1)

	d := defs[0]
	assert.Equal(t, "tags_semicolon", d.ID)
	assert.Equal(t, TierLossy, d.Tier)
	assert.Equal(t, "mem", d.Origin)

	got, err := d.Execute(context.Background(), names("a", "b"), nil)
	require.NoError(t, err)
	assert.Equal(t, "a; b", got.Text())
}

func TestParseDefinitions_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "transformations: [\n"},
		{"missing id", "transformations:\n  - source_type: a\n    target_type: b\n    pipeline: trim\n"},
		{"missing types", "transformations:\n  - id: x\n    pipeline: trim\n"},
		{"duplicate", "transformations:\n  - {id: x, source_type: a, target_type: b, pipeline: trim}\n  - {id: x, source_type: a, target_type: b, pipeline: trim}\n"},
		{"unknown op", "transformations:\n  - {id: x, source_type: a, target_type: b, pipeline: exec}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(tt.doc), "mem")
			assert.Error(t, err)
		})
	}
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), tagsSemicolon)
	writeFile(t, filepath.Join(dir, "nested", "deep", "b.yaml"), tagsSemicolon)
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")

	files, err := ExpandGlobs([]string{
		filepath.Join(dir, "**", "*.yaml"),
		filepath.Join(dir, "a.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "nested", "deep", "b.yaml"),
	}, files)

	assert.True(t, MatchesAny([]string{filepath.Join(dir, "**", "*.yaml")}, filepath.Join(dir, "x", "y.yaml")))
	assert.False(t, MatchesAny([]string{filepath.Join(dir, "*.yaml")}, filepath.Join(dir, "notes.txt")))
}

func TestLoader_LoadReloadForget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.yaml")
	writeFile(t, path, tagsSemicolon)
	writeFile(t, filepath.Join(dir, "broken.yaml"), "transformations:\n  - {id: y, source_type: a, target_type: b, pipeline: nope}\n")

	r := NewRegistry()
	l := NewLoader(r, []string{filepath.Join(dir, "*.yaml")}, nil)

	err := l.LoadAll()
	require.Error(t, err, "the broken file is reported")
	assert.True(t, r.Has("multi_select", "text"))
	assert.Equal(t, []string{path}, l.Files())

	// A broken edit keeps the previous definitions.
	writeFile(t, path, "transformations: [")
	require.Error(t, l.Reload(path))
	assert.True(t, r.Has("multi_select", "text"))

	// Renaming the id replaces the old one.
	writeFile(t, path, "transformations:\n  - {id: renamed, source_type: people, target_type: text, pipeline: 'pluck(\"name\") | join'}\n")
	require.NoError(t, l.Reload(path))

	_, ok := r.Get("tags_semicolon")
	assert.False(t, ok)
	assert.True(t, r.Has("people", "text"))

	assert.Equal(t, 1, l.Forget(path))
	assert.Zero(t, r.Len())
}

func TestLoader_WatchReloadsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()
	l := NewLoader(r, []string{filepath.Join(dir, "**", "*.yaml")}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, l.Watch(ctx))

	path := filepath.Join(dir, "tags.yaml")
	writeFile(t, path, tagsSemicolon)

	require.Eventually(t, func() bool {
		_, ok := r.Get("tags_semicolon")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	d, _ := r.Get("tags_semicolon")
	got, err := d.Execute(context.Background(), names("x", "y"), nil)
	require.NoError(t, err)
	assert.Equal(t, value.String("x; y"), got)

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		return r.Len() == 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
