package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeTag_Normalize(t *testing.T) {
	assert.Equal(t, TypeTag("richtext"), TypeTag("  richText ").Normalize())
	assert.True(t, TypeTag("Multi_Select").Equal("multi_select"))
	assert.True(t, TypeTag("   ").IsEmpty())
	assert.False(t, TypeText.IsEmpty())
}

func TestCaseStudyTarget_RequiredFields(t *testing.T) {
	fields := Flatten(CaseStudyTarget())

	var required []string
	for _, f := range fields {
		if f.Required {
			required = append(required, f.ID)
		}
	}

	assert.ElementsMatch(t, []string{"title", "hero_image"}, required)
}

func TestCaseStudyTarget_UniqueIDs(t *testing.T) {
	fields := Flatten(CaseStudyTarget())
	idx := NewIndex(fields)

	assert.Len(t, idx, len(fields))
}

func TestCaseStudyTarget_ReturnsCopy(t *testing.T) {
	a := CaseStudyTarget()
	a[0].Fields[0].Name = "changed"

	b := CaseStudyTarget()
	assert.Equal(t, "Title", b[0].Fields[0].Name)
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields([]byte(`
database: Projects
fields:
  - id: p1
    name: Name
    type: title
  - name: Tags
    type: multi_select
`))
	require.NoError(t, err)
	require.Len(t, fields, 2)

	assert.Equal(t, "p1", fields[0].ID)
	assert.Equal(t, TypeTag("title"), fields[0].Type)
	assert.Equal(t, "Tags", fields[1].ID)
}

func TestParseFields_JSON(t *testing.T) {
	fields, err := ParseFields([]byte(`{"fields":[{"id":"a","name":"A","type":"number"}]}`))
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, TypeTag("number"), fields[0].Type)
}

func TestParseFields_Empty(t *testing.T) {
	_, err := ParseFields([]byte(`fields: []`))
	require.ErrorIs(t, err, ErrNoFields)
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields:\n  - id: x\n    type: date\n"), 0o644))

	fields, err := FileLoader{Path: path}.FetchSourceFields(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "x", fields[0].Name)

	_, err = FileLoader{Path: filepath.Join(t.TempDir(), "missing.yaml")}.FetchSourceFields(context.Background())
	require.Error(t, err)
}

func TestStaticLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := StaticLoader{{ID: "a"}}.FetchSourceFields(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
