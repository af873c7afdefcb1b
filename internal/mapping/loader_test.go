package mapping

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/value"
)

const portfolioYAML = `
name: portfolio
source:
  - {id: p_title, name: Name, type: title}
  - {name: Tags, type: multi_select}
121:
  p_title: title
  Tags: tags
mappings:
  - id: summary
    source: Tags
    target: summary
    transformation: multi_select_to_text
    options:
      separator: " / "
  - source: p_cover
    target: hero_image
    pipeline: url_of | first
    fallback: "https://cdn.example.com/placeholder.png"
    allow_fallback: true
`

func TestParse(t *testing.T) {
	mf, err := Parse([]byte(portfolioYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", mf.Version)
	assert.Equal(t, "portfolio", mf.Name)
	assert.Nil(t, mf.OneToOne)

	require.Len(t, mf.Source, 2)
	assert.Equal(t, schema.FieldDescriptor{ID: "Tags", Name: "Tags", Type: schema.SourceMultiSelect}, mf.Source[1])

	require.Len(t, mf.Mappings, 4)

	// 121 entries come first, sorted by source id.
	assert.Equal(t, "Tags", mf.Mappings[0].SourceFieldID)
	assert.Equal(t, "tags", mf.Mappings[0].TargetFieldID)
	assert.Equal(t, "p_title", mf.Mappings[1].SourceFieldID)
	assert.Equal(t, "title", mf.Mappings[1].TargetFieldID)

	summary := mf.Mappings[2]
	assert.Equal(t, "summary", summary.ID)
	assert.Equal(t, "multi_select_to_text", summary.TransformationID)
	assert.Equal(t, " / ", summary.Options.String("separator", ", "))

	hero := mf.Mappings[3]
	assert.Equal(t, "url_of | first", hero.Pipeline)
	assert.True(t, hero.AllowFallback)
	assert.Equal(t, value.String("https://cdn.example.com/placeholder.png"), hero.FallbackValue())

	for _, m := range mf.Mappings {
		assert.NotEmpty(t, m.ID)
	}

	_, err = uuid.Parse(hero.ID)
	assert.NoError(t, err, "generated ids are uuids")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("mappings: [\n"))
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	mf, err := Parse([]byte(portfolioYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, WriteFile(mf, path))

	again, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, mf.Mappings, again.Mappings)
	assert.Equal(t, mf.Source, again.Source)
}

func TestFieldMapping_Helpers(t *testing.T) {
	m := NewFieldMapping("p_title", "title")
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.HasTransformation())
	assert.True(t, m.FallbackValue().IsNull())

	m.Pipeline = "trim"
	assert.True(t, m.HasTransformation())

	anon := FieldMapping{SourceFieldID: "a", TargetFieldID: "b"}
	assert.Equal(t, "a->b", anon.Label())

	sources := schema.NewIndex(portfolioSource)
	targets := schema.NewIndex(targetFields())

	src, dst, ok := m.Resolve(sources, targets)
	require.True(t, ok)
	assert.Equal(t, schema.SourceTitle, src.Type)
	assert.Equal(t, schema.TypeText, dst.Type)

	_, _, ok = anon.Resolve(sources, targets)
	assert.False(t, ok)
}
