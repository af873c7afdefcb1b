package plan

import (
	"fmt"
)

//go:generate go tool stringer -type=Strategy -linecomment -output=strategy_string.go

// Strategy describes how a mapping's value is produced.
type Strategy int

const (
	// StrategyDirect passes the value through unchanged.
	StrategyDirect Strategy = iota // direct
	// StrategySimple coerces the value to the target's primitive class.
	StrategySimple // simple
	// StrategyTemplate runs a registered transformation.
	StrategyTemplate // template
	// StrategyCustom runs the mapping's inline pipeline.
	StrategyCustom // custom
	// StrategyFallback returns the mapping's fallback value.
	StrategyFallback // fallback
)

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	for c := StrategyDirect; c <= StrategyFallback; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}

	return fmt.Errorf("unknown strategy %q", text)
}
