package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// dateTag marks a date inside JSON so it survives a round trip.
const dateTag = "$date"

// MarshalJSON encodes v as natural JSON; dates become {"$date": RFC3339}.
// Non-finite numbers encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}

		return json.Marshal(v.num)
	case KindDate:
		return json.Marshal(map[string]string{dateTag: v.at.Format(time.RFC3339Nano)})
	case KindList:
		items := v.items
		if items == nil {
			items = []Value{}
		}

		return json.Marshal(items)
	case KindRecord:
		fields := v.fields
		if fields == nil {
			fields = map[string]Value{}
		}

		return json.Marshal(fields)
	default:
		return json.Marshal(v.ToAny())
	}
}

// UnmarshalJSON decodes any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}

	*v = FromAny(raw)

	return nil
}

// UnmarshalYAML decodes any YAML node into v. yaml.v3 keeps timestamp-like
// scalars as strings when decoding into interface values, so they stay strings.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}

	*v = FromAny(raw)

	return nil
}

// MarshalYAML encodes v as plain YAML data.
func (v Value) MarshalYAML() (any, error) {
	return v.ToAny(), nil
}

func taggedDate(m map[string]any) (Value, bool) {
	if len(m) != 1 {
		return Value{}, false
	}

	raw, ok := m[dateTag].(string)
	if !ok {
		return Value{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return Value{}, false
	}

	return Date(t), true
}
