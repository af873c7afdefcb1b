package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"casestudy-mapper/internal/common"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindNull is the zero Value.
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate
	KindList
	KindRecord
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return common.UnknownStr
	}
}

// Value is an immutable dynamic value: null, string, number, boolean, date,
// list of values or record of named values. The zero Value is null.
type Value struct {
	kind   Kind
	str    string
	num    float64
	flag   bool
	at     time.Time
	items  []Value
	fields map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps n.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int wraps an integer as a number.
func Int(n int) Value { return Number(float64(n)) }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Date wraps t.
func Date(t time.Time) Value { return Value{kind: KindDate, at: t} }

// List builds a list value. The items slice is copied.
func List(items ...Value) Value {
	return Value{kind: KindList, items: slices.Clone(items)}
}

// Record builds a record value. The map is copied.
func Record(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}

	return Value{kind: KindRecord, fields: cp}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsEmpty reports whether v is null, an empty string, or an empty list or record.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindList:
		return len(v.items) == 0
	case KindRecord:
		return len(v.fields) == 0
	default:
		return false
	}
}

func (v Value) AsString() (string, bool)  { return v.str, v.kind == KindString }
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }
func (v Value) AsBool() (bool, bool)      { return v.flag, v.kind == KindBool }
func (v Value) AsDate() (time.Time, bool) { return v.at, v.kind == KindDate }

// Items returns a copy of the list items (nil for non-lists).
func (v Value) Items() []Value { return slices.Clone(v.items) }

// Field returns the named record field.
func (v Value) Field(name string) (Value, bool) {
	f, ok := v.fields[name]
	return f, ok
}

// Len returns the number of list items or record fields.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindRecord:
		return len(v.fields)
	default:
		return 0
	}
}

// Keys returns the record field names in ascending order.
func (v Value) Keys() []string {
	return common.SortedKeys(v.fields)
}

// Text renders v as plain text. Lists are joined with ", ".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindDate:
		return v.at.Format(time.RFC3339)
	case KindList:
		parts := make([]string, 0, len(v.items))
		for _, it := range v.items {
			parts = append(parts, it.Text())
		}

		return strings.Join(parts, ", ")
	case KindRecord:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return string(data)
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.str)
	}

	if v.kind == KindNull {
		return "null"
	}

	return v.Text()
}

// Equal reports structural equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindBool:
		return v.flag == o.flag
	case KindDate:
		return v.at.Equal(o.at)
	case KindList:
		return slices.EqualFunc(v.items, o.items, Value.Equal)
	case KindRecord:
		if len(v.fields) != len(o.fields) {
			return false
		}

		for k, fv := range v.fields {
			ov, ok := o.fields[k]
			if !ok || !fv.Equal(ov) {
				return false
			}
		}

		return true
	}

	return false
}

// FromAny converts decoded JSON/YAML data into a Value.
// Unsupported Go types are rendered with fmt.Sprint.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}

		return Number(f)
	case time.Time:
		return Date(t)
	case []Value:
		return List(t...)
	case []any:
		items := make([]Value, len(t))
		for i, it := range t {
			items[i] = FromAny(it)
		}

		return Value{kind: KindList, items: items}
	case []string:
		items := make([]Value, len(t))
		for i, it := range t {
			items[i] = String(it)
		}

		return Value{kind: KindList, items: items}
	case map[string]any:
		if d, ok := taggedDate(t); ok {
			return d
		}

		fields := make(map[string]Value, len(t))
		for k, it := range t {
			fields[k] = FromAny(it)
		}

		return Value{kind: KindRecord, fields: fields}
	case map[string]Value:
		return Record(t)
	case map[any]any:
		fields := make(map[string]Value, len(t))
		for k, it := range t {
			fields[fmt.Sprint(k)] = FromAny(it)
		}

		return Value{kind: KindRecord, fields: fields}
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	default:
		return String(fmt.Sprint(x))
	}
}

// ToAny converts v into plain Go data (dates stay time.Time).
func (v Value) ToAny() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindDate:
		return v.at
	case KindList:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.ToAny()
		}

		return out
	case KindRecord:
		out := make(map[string]any, len(v.fields))
		for k, it := range v.fields {
			out[k] = it.ToAny()
		}

		return out
	default:
		return nil
	}
}
