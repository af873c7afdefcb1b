package match

import (
	"fmt"
	"strconv"
	"strings"

	"casestudy-mapper/internal/cache"
	"casestudy-mapper/internal/common"
	"casestudy-mapper/internal/schema"
)

// Level represents how well a source type fits a target type.
// Levels are ordered by mapping quality: LevelError is the worst.
type Level int

const (
	// LevelError means the source cannot be mapped onto the target.
	LevelError Level = iota
	// LevelWarning means the source is mappable only via a transformation.
	LevelWarning
	// LevelInfo means the source is mappable with an informational note.
	LevelInfo
	// LevelCompatible means the source is mappable as-is.
	LevelCompatible
)

const (
	MsgIdentical     = "identical types"
	MsgAutoTransform = "compatible via automatic transformation"
	MsgEmptyTag      = "type tag is empty"
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelCompatible:
		return "compatible"
	default:
		return common.UnknownStr
	}
}

// Score returns a numeric score for sorting (higher is better).
func (l Level) Score() int {
	return int(l)
}

// Mappable reports whether a mapping at this level can be used at all.
func (l Level) Mappable() bool {
	return l > LevelError
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *Level) UnmarshalText(text []byte) error {
	lvl, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = lvl

	return nil
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warning":
		return LevelWarning, nil
	case "info":
		return LevelInfo, nil
	case "compatible":
		return LevelCompatible, nil
	default:
		return LevelError, fmt.Errorf("unknown compatibility level %q", s)
	}
}

// Result is the outcome of classifying a (source, target) type pair.
// Results are value objects and never mutated after creation.
type Result struct {
	Level      Level  `json:"level"`
	Message    string `json:"message"`
	SourceType string `json:"sourceType,omitempty"`
	TargetType string `json:"targetType,omitempty"`
}

// Entry is a single matrix cell.
type Entry struct {
	Level   Level
	Message string
}

// Matrix maps target type -> source type -> entry. Keys are normalized tags.
type Matrix map[string]map[string]Entry

// Lookup returns the entry for the pair, if any.
func (m Matrix) Lookup(target, source string) (Entry, bool) {
	row, ok := m[target]
	if !ok {
		return Entry{}, false
	}

	e, ok := row[source]

	return e, ok
}

// Set adds or replaces the entry for the pair. Tags are normalized.
func (m Matrix) Set(target, source string, level Level, message string) {
	t := normTag(target)
	s := normTag(source)

	if m[t] == nil {
		m[t] = make(map[string]Entry)
	}

	m[t][s] = Entry{Level: level, Message: message}
}

// Targets returns the target tags present in the matrix, sorted.
func (m Matrix) Targets() []string {
	return common.SortedKeys(m)
}

// TransformLookup is the part of the transformation registry the classifier
// needs: whether an automatic transformation exists for a pair, and a
// generation counter that changes whenever the registry does.
type TransformLookup interface {
	Has(sourceType, targetType string) bool
	Generation() uint64
}

// Classifier classifies type pairs against a matrix and a registry.
// It is safe for concurrent use.
type Classifier struct {
	matrix Matrix
	lookup TransformLookup
	cache  *cache.Cache[Result]
}

// NewClassifier creates a classifier. lookup and c may be nil.
func NewClassifier(matrix Matrix, lookup TransformLookup, c *cache.Cache[Result]) *Classifier {
	if matrix == nil {
		matrix = Matrix{}
	}

	return &Classifier{matrix: matrix, lookup: lookup, cache: c}
}

// Matrix returns the matrix the classifier consults.
func (c *Classifier) Matrix() Matrix {
	return c.matrix
}

// Classify returns the compatibility of sourceType with targetType.
// It never fails: unknown or empty tags produce an error-level result.
func (c *Classifier) Classify(sourceType, targetType string) Result {
	source := normTag(sourceType)
	target := normTag(targetType)

	if source == "" || target == "" {
		return Result{Level: LevelError, Message: MsgEmptyTag, SourceType: source, TargetType: target}
	}

	if source == target {
		return Result{Level: LevelCompatible, Message: MsgIdentical, SourceType: source, TargetType: target}
	}

	key := c.cacheKey(source, target)
	if c.cache != nil {
		if r, ok := c.cache.Get(key); ok {
			return r
		}
	}

	r := c.classify(source, target)

	if c.cache != nil {
		c.cache.Set(key, r)
	}

	return r
}

func (c *Classifier) classify(source, target string) Result {
	if e, ok := c.matrix.Lookup(target, source); ok {
		return Result{Level: e.Level, Message: e.Message, SourceType: source, TargetType: target}
	}

	if c.lookup != nil && c.lookup.Has(source, target) {
		return Result{Level: LevelWarning, Message: MsgAutoTransform, SourceType: source, TargetType: target}
	}

	return Result{
		Level:      LevelError,
		Message:    fmt.Sprintf("types incompatible: '%s' cannot accept '%s'", target, source),
		SourceType: source,
		TargetType: target,
	}
}

// cacheKey includes the registry generation so registry changes never serve
// a stale registry-derived result, without having to clear the cache.
func (c *Classifier) cacheKey(source, target string) string {
	var gen uint64
	if c.lookup != nil {
		gen = c.lookup.Generation()
	}

	return target + "\x00" + source + "\x00" + strconv.FormatUint(gen, 10)
}

func normTag(s string) string {
	return string(schema.TypeTag(s).Normalize())
}
