package plan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/match"
	"casestudy-mapper/internal/transform"
)

func newTestSelector(t *testing.T) *Selector {
	t.Helper()

	reg := transform.NewRegistry()
	require.NoError(t, transform.RegisterBuiltins(reg))

	matrix := match.DefaultMatrix()
	matrix.Set("widget", "gadget", match.LevelWarning, "")

	return NewSelector(match.NewClassifier(matrix, reg, nil), reg)
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		mapping    mapping.FieldMapping
		source     string
		target     string
		strategy   Strategy
		definition string
	}{
		{
			name:     "inline pipeline wins",
			mapping:  mapping.FieldMapping{Pipeline: "extract_text | upper", TransformationID: "title_to_text"},
			source:   "title",
			target:   "text",
			strategy: StrategyCustom,
		},
		{
			name:       "explicit transformation beats equal types",
			mapping:    mapping.FieldMapping{TransformationID: "date_to_date"},
			source:     "date",
			target:     "date",
			strategy:   StrategyTemplate,
			definition: "date_to_date",
		},
		{
			name:     "equal types pass through",
			source:   "date",
			target:   "date",
			strategy: StrategyDirect,
		},
		{
			name:     "equal types after normalization",
			source:   " richText",
			target:   "richtext",
			strategy: StrategyDirect,
		},
		{
			name:       "registered pair",
			source:     "multi_select",
			target:     "text",
			strategy:   StrategyTemplate,
			definition: "multi_select_to_text",
		},
		{
			name:     "compatible pair",
			source:   "url",
			target:   "text",
			strategy: StrategyDirect,
		},
		{
			name:     "info pair",
			source:   "formula",
			target:   "text",
			strategy: StrategyDirect,
		},
		{
			name:     "warning pair coerced",
			source:   "formula",
			target:   "number",
			strategy: StrategySimple,
		},
		{
			name:     "warning pair without primitive",
			source:   "gadget",
			target:   "widget",
			strategy: StrategyFallback,
		},
		{
			name:     "incompatible pair",
			source:   "title",
			target:   "number",
			strategy: StrategyFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSelector(t)

			d, err := s.Select(tt.mapping, tt.source, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, d.Strategy, d.Reason)
			assert.Equal(t, tt.definition, d.Definition.ID)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestSelect_SimpleCarriesPrimitive(t *testing.T) {
	s := newTestSelector(t)

	d, err := s.Select(mapping.FieldMapping{}, "rollup", "number")
	require.NoError(t, err)
	assert.Equal(t, StrategySimple, d.Strategy)
	assert.Equal(t, transform.PrimitiveNumber, d.Primitive)
	assert.Equal(t, match.LevelWarning, d.Compatibility.Level)
}

func TestSelect_Errors(t *testing.T) {
	s := newTestSelector(t)

	d, err := s.Select(mapping.FieldMapping{TransformationID: "nope"}, "title", "text")
	require.ErrorIs(t, err, ErrUnknownTransformation)
	assert.Equal(t, StrategyFallback, d.Strategy)

	d, err = s.Select(mapping.FieldMapping{Pipeline: "eval(\"x\")"}, "title", "text")
	require.ErrorIs(t, err, transform.ErrUnknownOp)
	assert.Equal(t, StrategyFallback, d.Strategy)
	assert.Nil(t, d.Pipeline)
}

func TestDecision_TransformationID(t *testing.T) {
	s := newTestSelector(t)

	d, err := s.Select(mapping.FieldMapping{Pipeline: `pluck( "name" )|join`}, "multi_select", "text")
	require.NoError(t, err)
	assert.Equal(t, `pluck("name") | join`, d.TransformationID())

	d, err = s.Select(mapping.FieldMapping{}, "multi_select", "text")
	require.NoError(t, err)
	assert.Equal(t, "multi_select_to_text", d.TransformationID())

	d, err = s.Select(mapping.FieldMapping{}, "date", "date")
	require.NoError(t, err)
	assert.Equal(t, "direct", d.TransformationID())
}

func TestStrategy_Text(t *testing.T) {
	for s := StrategyDirect; s <= StrategyFallback; s++ {
		data, err := json.Marshal(s)
		require.NoError(t, err)

		var back Strategy
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, s, back)
	}

	assert.Equal(t, `"template"`, mustJSON(t, StrategyTemplate))
	assert.Equal(t, "Strategy(9)", Strategy(9).String())

	var s Strategy
	assert.Error(t, s.UnmarshalText([]byte("magic")))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return string(data)
}
