package transform

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"casestudy-mapper/internal/value"
)

func TestPrimitiveFor(t *testing.T) {
	tests := []struct {
		tag  string
		want Primitive
		ok   bool
	}{
		{"text", PrimitiveString, true},
		{"richText", PrimitiveString, true},
		{"IMAGE", PrimitiveString, true},
		{"number", PrimitiveNumber, true},
		{"checkbox", PrimitiveBoolean, true},
		{"date", PrimitiveDate, true},
		{"files", PrimitiveArray, true},
		{"relation", PrimitiveArray, true},
		{"rollup", PrimitiveNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, ok := PrimitiveFor(tt.tag)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   value.Value
		p    Primitive
		want value.Value
	}{
		{"string as-is", value.String("x"), PrimitiveString, value.String("x")},
		{"number to string", value.Number(1.5), PrimitiveString, value.String("1.5")},
		{"null string stays null", value.Null(), PrimitiveString, value.Null()},

		{"parse number", value.String(" 42 "), PrimitiveNumber, value.Int(42)},
		{"bad number is zero", value.String("forty"), PrimitiveNumber, value.Int(0)},
		{"NaN is zero", value.Number(math.NaN()), PrimitiveNumber, value.Int(0)},
		{"true is one", value.Bool(true), PrimitiveNumber, value.Int(1)},
		{"null number is zero", value.Null(), PrimitiveNumber, value.Int(0)},
		{"single item list", value.List(value.String("7")), PrimitiveNumber, value.Int(7)},

		{"empty string falsy", value.String(""), PrimitiveBoolean, value.Bool(false)},
		{"zero falsy", value.Int(0), PrimitiveBoolean, value.Bool(false)},
		{"null falsy", value.Null(), PrimitiveBoolean, value.Bool(false)},
		{"string truthy", value.String("no"), PrimitiveBoolean, value.Bool(true)},
		{"empty list truthy", value.List(), PrimitiveBoolean, value.Bool(true)},

		{"parse date", value.String("2024-01-02"), PrimitiveDate, value.Date(day)},
		{"invalid date is null", value.String("yesterday"), PrimitiveDate, value.Null()},
		{"date range start", value.Record(map[string]value.Value{"start": value.String("2024-01-02")}), PrimitiveDate, value.Date(day)},
		{"epoch millis", value.Number(float64(day.UnixMilli())), PrimitiveDate, value.Date(day)},
		{"bool is no date", value.Bool(true), PrimitiveDate, value.Null()},

		{"wrap scalar", value.String("a"), PrimitiveArray, value.List(value.String("a"))},
		{"keep list", value.List(value.Int(1)), PrimitiveArray, value.List(value.Int(1))},
		{"null is empty list", value.Null(), PrimitiveArray, value.List()},

		{"none passes through", value.Int(1), PrimitiveNone, value.Int(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.in, tt.p)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.True(t, tt.p.Accepts(got))
		})
	}
}

func TestPrimitive_Accepts(t *testing.T) {
	assert.True(t, PrimitiveString.Accepts(value.Null()))
	assert.True(t, PrimitiveString.Accepts(value.String("x")))
	assert.False(t, PrimitiveString.Accepts(value.List()))
	assert.False(t, PrimitiveArray.Accepts(value.String("x")))
	assert.False(t, PrimitiveNumber.Accepts(value.String("1")))
	assert.True(t, PrimitiveNone.Accepts(value.Record(nil)))
}
