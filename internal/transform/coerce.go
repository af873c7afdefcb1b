package transform

import (
	"math"
	"strconv"
	"strings"
	"time"

	"casestudy-mapper/internal/common"
	"casestudy-mapper/internal/value"
)

// Primitive is the value class a target type stores.
type Primitive int

const (
	PrimitiveNone Primitive = iota
	PrimitiveString
	PrimitiveNumber
	PrimitiveBoolean
	PrimitiveDate
	PrimitiveArray
)

func (p Primitive) String() string {
	switch p {
	case PrimitiveNone:
		return "none"
	case PrimitiveString:
		return "string"
	case PrimitiveNumber:
		return "number"
	case PrimitiveBoolean:
		return "boolean"
	case PrimitiveDate:
		return "date"
	case PrimitiveArray:
		return "array"
	default:
		return common.UnknownStr
	}
}

var primitives = map[string]Primitive{
	"text":         PrimitiveString,
	"richtext":     PrimitiveString,
	"title":        PrimitiveString,
	"url":          PrimitiveString,
	"email":        PrimitiveString,
	"phone_number": PrimitiveString,
	"image":        PrimitiveString,
	"select":       PrimitiveString,
	"number":       PrimitiveNumber,
	"boolean":      PrimitiveBoolean,
	"checkbox":     PrimitiveBoolean,
	"date":         PrimitiveDate,
	"list":         PrimitiveArray,
	"files":        PrimitiveArray,
	"tags":         PrimitiveArray,
	"multi_select": PrimitiveArray,
	"relation":     PrimitiveArray,
}

// PrimitiveFor returns the primitive class of a type tag.
func PrimitiveFor(typeTag string) (Primitive, bool) {
	p, ok := primitives[normTag(typeTag)]
	return p, ok
}

// Accepts reports whether v is a well-formed value of class p. Null is
// accepted by every class.
func (p Primitive) Accepts(v value.Value) bool {
	if v.IsNull() {
		return true
	}

	switch p {
	case PrimitiveString:
		return v.Kind() == value.KindString
	case PrimitiveNumber:
		return v.Kind() == value.KindNumber
	case PrimitiveBoolean:
		return v.Kind() == value.KindBool
	case PrimitiveDate:
		return v.Kind() == value.KindDate
	case PrimitiveArray:
		return v.Kind() == value.KindList
	default:
		return true
	}
}

// Coerce applies the fixed primitive cast for class p.
func Coerce(v value.Value, p Primitive) value.Value {
	switch p {
	case PrimitiveString:
		return ToString(v)
	case PrimitiveNumber:
		return ToNumber(v)
	case PrimitiveBoolean:
		return ToBool(v)
	case PrimitiveDate:
		return ToDate(v)
	case PrimitiveArray:
		return ToList(v)
	default:
		return v
	}
}

// ToString keeps strings as-is and renders everything else as text.
// Null stays null.
func ToString(v value.Value) value.Value {
	if v.IsNull() || v.Kind() == value.KindString {
		return v
	}

	return value.String(v.Text())
}

// ToNumber converts v to a number. Anything unparseable becomes 0.
func ToNumber(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.AsNumber()
		if math.IsNaN(n) {
			return value.Number(0)
		}

		return v
	case value.KindString:
		s, _ := v.AsString()

		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(n) {
			return value.Number(0)
		}

		return value.Number(n)
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			return value.Number(1)
		}

		return value.Number(0)
	case value.KindDate:
		t, _ := v.AsDate()
		return value.Number(float64(t.UnixMilli()))
	case value.KindList:
		if v.Len() == 1 {
			return ToNumber(v.Items()[0])
		}

		return value.Number(0)
	default:
		return value.Number(0)
	}
}

// ToBool converts v by truthiness: null, false, 0, NaN and "" are false,
// everything else is true.
func ToBool(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindNull:
		return value.Bool(false)
	case value.KindBool:
		return v
	case value.KindNumber:
		n, _ := v.AsNumber()
		return value.Bool(n != 0 && !math.IsNaN(n))
	case value.KindString:
		s, _ := v.AsString()
		return value.Bool(s != "")
	default:
		return value.Bool(true)
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ToDate parses v as a date. Invalid input becomes null.
// Records with a "start" field (content database date objects) use it.
func ToDate(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindDate:
		return v
	case value.KindString:
		s, _ := v.AsString()
		if t, ok := parseDate(s); ok {
			return value.Date(t)
		}

		return value.Null()
	case value.KindNumber:
		n, _ := v.AsNumber()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return value.Null()
		}

		return value.Date(time.UnixMilli(int64(n)).UTC())
	case value.KindRecord:
		if start, ok := v.Field("start"); ok {
			return ToDate(start)
		}

		return value.Null()
	default:
		return value.Null()
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ToList wraps scalars into a one-item list. Null becomes an empty list.
func ToList(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindList:
		return v
	case value.KindNull:
		return value.List()
	default:
		return value.List(v)
	}
}
