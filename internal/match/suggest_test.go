package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestudy-mapper/internal/schema"
)

func field(id, name string, typ schema.TypeTag) schema.FieldDescriptor {
	return schema.FieldDescriptor{ID: id, Name: name, Type: typ}
}

func TestSuggest(t *testing.T) {
	c := NewClassifier(DefaultMatrix(), nil, nil)

	sources := []schema.FieldDescriptor{
		field("p1", "Name", schema.SourceTitle),
		field("p2", "Cover", schema.SourceFiles),
		field("p3", "Tags", schema.SourceMultiSelect),
		field("p4", "Published", schema.SourceDate),
		field("p5", "Featured?", schema.SourceCheckbox),
	}
	targets := []schema.FieldDescriptor{
		field("title", "Title", schema.TypeText),
		field("hero_image", "Hero Image", schema.TypeImage),
		field("tags", "Tags", schema.TypeList),
		field("published_at", "Published At", schema.TypeDate),
		field("featured", "Featured", schema.TypeBoolean),
	}

	got := c.Suggest(sources, targets, SuggestOptions{})
	require.Len(t, got, 3)

	assert.Equal(t, "featured", got[0].TargetFieldID)
	assert.Equal(t, "p5", got[0].SourceFieldID)
	assert.Equal(t, LevelCompatible, got[0].Level)

	assert.Equal(t, "published_at", got[1].TargetFieldID)
	assert.Equal(t, "p4", got[1].SourceFieldID)

	assert.Equal(t, "tags", got[2].TargetFieldID)
	assert.Equal(t, "p3", got[2].SourceFieldID)
	assert.Equal(t, LevelWarning, got[2].Level)
}

func TestSuggest_EachSourceUsedOnce(t *testing.T) {
	c := NewClassifier(DefaultMatrix(), nil, nil)

	sources := []schema.FieldDescriptor{field("p3", "Tags", schema.SourceMultiSelect)}
	targets := []schema.FieldDescriptor{
		field("services", "Services", schema.TypeList),
		field("tags", "Tags", schema.TypeList),
	}

	got := c.Suggest(sources, targets, SuggestOptions{})
	require.Len(t, got, 1)
	assert.Equal(t, "tags", got[0].TargetFieldID)
}

func TestSuggest_Alternatives(t *testing.T) {
	c := NewClassifier(DefaultMatrix(), nil, nil)

	sources := []schema.FieldDescriptor{
		field("tag", "Tag", schema.SourceMultiSelect),
		field("tags", "Tags", schema.SourceMultiSelect),
	}
	targets := []schema.FieldDescriptor{field("tags", "Tags", schema.TypeList)}

	got := c.Suggest(sources, targets, SuggestOptions{})
	require.Len(t, got, 1)
	assert.Equal(t, "tags", got[0].SourceFieldID)
	assert.Equal(t, []string{"tag"}, got[0].Alternatives)
	assert.False(t, got[0].Ambiguous)
}

func TestRank_SkipsIncompatibleSources(t *testing.T) {
	c := NewClassifier(DefaultMatrix(), nil, nil)

	list := c.Rank(field("duration_weeks", "Duration", schema.TypeNumber), []schema.FieldDescriptor{
		field("a", "Duration", schema.SourceTitle),
		field("b", "Weeks", schema.SourceNumber),
	})

	require.Len(t, list, 1)
	assert.Equal(t, "b", list.Best().Source.ID)
	assert.False(t, list.IsAmbiguous(DefaultAmbiguityThreshold))
}
