package transform

import (
	"maps"

	"casestudy-mapper/internal/value"
)

// Options are per-mapping transformation options, e.g. {"separator": ", "}.
type Options map[string]value.Value

// Get returns the option value. Null options count as absent.
func (o Options) Get(key string) (value.Value, bool) {
	v, ok := o[key]
	if !ok || v.IsNull() {
		return value.Null(), false
	}

	return v, true
}

// String returns the option as text, or def when absent.
func (o Options) String(key, def string) string {
	v, ok := o.Get(key)
	if !ok {
		return def
	}

	return v.Text()
}

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	return maps.Clone(o)
}

// Value returns the options as a record value, for hashing and display.
func (o Options) Value() value.Value {
	return value.Record(o)
}
