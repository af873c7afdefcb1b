package value

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindNull, "null"},
		{KindString, "string"},
		{KindNumber, "number"},
		{KindBool, "boolean"},
		{KindDate, "date"},
		{KindList, "list"},
		{KindRecord, "record"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value

	assert.True(t, v.IsNull())
	assert.True(t, v.IsEmpty())
	assert.Equal(t, "", v.Text())
}

func TestValue_Text(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "abc", String("abc").Text())
	assert.Equal(t, "1.5", Number(1.5).Text())
	assert.Equal(t, "42", Int(42).Text())
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, "2024-03-01T10:00:00Z", Date(at).Text())
	assert.Equal(t, "A, B", List(String("A"), String("B")).Text())
	assert.JSONEq(t, `{"name":"A"}`, Record(map[string]Value{"name": String("A")}).Text())
}

func TestValue_Equal(t *testing.T) {
	a := Record(map[string]Value{"x": List(Int(1), String("y")), "z": Null()})
	b := Record(map[string]Value{"z": Null(), "x": List(Int(1), String("y"))})
	c := Record(map[string]Value{"x": List(Int(2), String("y")), "z": Null()})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, String("1").Equal(Int(1)))
}

func TestValue_ListIsCopied(t *testing.T) {
	items := []Value{String("a")}
	v := List(items...)
	items[0] = String("changed")

	got, _ := v.Items()[0].AsString()
	assert.Equal(t, "a", got)
}

func TestFromAny(t *testing.T) {
	decoded := map[string]any{
		"name":  "Case",
		"count": float64(3),
		"ok":    true,
		"tags":  []any{"a", "b"},
		"none":  nil,
		"n":     json.Number("7"),
		"i":     int64(9),
	}

	v := FromAny(decoded)
	require.Equal(t, KindRecord, v.Kind())

	tags, ok := v.Field("tags")
	require.True(t, ok)
	assert.Equal(t, 2, tags.Len())

	n, _ := v.Field("n")
	num, isNum := n.AsNumber()
	assert.True(t, isNum)
	assert.InDelta(t, 7.0, num, 0)

	none, _ := v.Field("none")
	assert.True(t, none.IsNull())
}

func TestJSONRoundTrip_PreservesDates(t *testing.T) {
	at := time.Date(2023, 12, 24, 8, 30, 0, 0, time.UTC)
	in := Record(map[string]Value{
		"when":  Date(at),
		"title": String("Hello"),
		"items": List(Int(1), Bool(false)),
	})

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Value
	require.NoError(t, json.Unmarshal(data, &out))

	assert.True(t, in.Equal(out), "got %s", out)
}

func TestMarshalJSON_NonFiniteIsNull(t *testing.T) {
	data, err := json.Marshal(Number(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestUnmarshalYAML(t *testing.T) {
	var doc struct {
		Options map[string]Value `yaml:"options"`
	}

	err := yaml.Unmarshal([]byte(`
options:
  separator: ", "
  limit: 3
  published: 2024-01-02
`), &doc)
	require.NoError(t, err)

	sep, _ := doc.Options["separator"].AsString()
	assert.Equal(t, ", ", sep)
	assert.Equal(t, KindNumber, doc.Options["limit"].Kind())
	assert.Equal(t, KindString, doc.Options["published"].Kind())
}

func TestHash_OrderInsensitiveForRecords(t *testing.T) {
	a := FromAny(map[string]any{"a": 1, "b": []any{"x", "y"}})
	b := FromAny(map[string]any{"b": []any{"x", "y"}, "a": 1})

	assert.Equal(t, a.Hash(), b.Hash())
}

func TestHash_DistinguishesKindsAndOrder(t *testing.T) {
	assert.NotEqual(t, String("1").Hash(), Int(1).Hash())
	assert.NotEqual(t, List(String("a"), String("b")).Hash(), List(String("b"), String("a")).Hash())
	assert.NotEqual(t, List(String("ab")).Hash(), List(String("a"), String("b")).Hash())
	assert.Equal(t, Number(0).Hash(), Number(math.Copysign(0, -1)).Hash())
}

func TestFingerprint_Stable(t *testing.T) {
	k1 := Fingerprint(String("multi_select"), String("text"), Int(1))
	k2 := Fingerprint(String("multi_select"), String("text"), Int(1))

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)
}
