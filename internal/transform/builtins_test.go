package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestudy-mapper/internal/value"
)

func TestBuiltins_Compile(t *testing.T) {
	defs, err := Builtins()
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	for _, d := range defs {
		assert.NotNil(t, d.Execute, d.ID)
		assert.Equal(t, OriginBuiltin, d.Origin)
		assert.NotEmpty(t, d.Description, d.ID)
	}
}

func TestRegisterBuiltins(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterBuiltins(r))

	d, ok := r.Find("multi_select", "text")
	require.True(t, ok)
	assert.Equal(t, "multi_select_to_text", d.ID)

	got, err := d.Execute(context.Background(), names("A", "B"), Options{"separator": value.String(", ")})
	require.NoError(t, err)
	assert.Equal(t, value.String("A, B"), got)

	assert.False(t, r.Has("title", "number"), "no title to number conversion is shipped")
}

func TestBuiltins_Outputs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterBuiltins(r))

	hero := value.List(value.Record(map[string]value.Value{
		"name": value.String("cover.png"),
		"file": value.Record(map[string]value.Value{"url": value.String("https://cdn/cover.png")}),
	}))

	tests := []struct {
		source, target string
		in             value.Value
		want           value.Value
	}{
		{"files", "image", hero, value.String("https://cdn/cover.png")},
		{"multi_select", "list", names("a", "b"), value.List(value.String("a"), value.String("b"))},
		{"select", "text", value.Record(map[string]value.Value{"name": value.String("Retail")}), value.String("Retail")},
		{"checkbox", "number", value.Bool(true), value.Int(1)},
		{"date", "text", value.Record(map[string]value.Value{"start": value.String("2023-11-05")}), value.String("2023-11-05")},
		{"rich_text", "list", value.String("seo, ux ,  "), value.List(value.String("seo"), value.String("ux"))},
	}

	for _, tt := range tests {
		t.Run(tt.source+"->"+tt.target, func(t *testing.T) {
			d, ok := r.Find(tt.source, tt.target)
			require.True(t, ok)

			got, err := d.Execute(context.Background(), tt.in, nil)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)

			p, ok := PrimitiveFor(tt.target)
			require.True(t, ok)
			assert.True(t, p.Accepts(got), "output kind matches the target")
		})
	}
}
