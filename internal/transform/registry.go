package transform

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/value"
)

// ErrInvalidDefinition is returned when a definition cannot be registered.
var ErrInvalidDefinition = errors.New("invalid transformation definition")

// Func converts a value. It only sees the value and the mapping options.
type Func func(ctx context.Context, v value.Value, opts Options) (value.Value, error)

// Tier declares how faithful a transformation is.
type Tier string

const (
	// TierExact converts without losing information.
	TierExact Tier = "exact"
	// TierLossy drops some information (formatting, extra options).
	TierLossy Tier = "lossy"
	// TierHeuristic may fail or guess on some inputs (parsing free text).
	TierHeuristic Tier = "heuristic"
)

// Definition binds a (source type, target type) pair to conversion logic.
type Definition struct {
	ID          string `json:"id" yaml:"id"`
	SourceType  string `json:"sourceType" yaml:"source_type"`
	TargetType  string `json:"targetType" yaml:"target_type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Tier        Tier   `json:"tier,omitempty" yaml:"tier,omitempty"`
	// Cost orders definitions for the same pair; lower wins.
	Cost int `json:"cost,omitempty" yaml:"cost,omitempty"`
	// Pipeline is the source of pipeline-backed definitions.
	Pipeline string `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	// Origin tells where the definition came from ("builtin", a file path, "api").
	Origin string `json:"origin,omitempty" yaml:"-"`

	Execute Func `json:"-" yaml:"-"`
}

// Revision identifies what the definition runs: its canonical pipeline,
// or its origin for definitions backed by a Go function. Results computed
// under one revision are never valid for another.
func (d Definition) Revision() string {
	if d.Pipeline != "" {
		return d.Pipeline
	}

	return d.Origin
}

type pair struct {
	source string
	target string
}

// Registry is the catalog of transformation definitions. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Definition
	byPair map[pair][]string
	gen    uint64
	hooks  []func(Definition)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]Definition),
		byPair: make(map[pair][]string),
	}
}

// Register adds def, replacing any definition with the same ID.
// Change hooks run after the registry is updated.
func (r *Registry) Register(def Definition) error {
	def.ID = strings.TrimSpace(def.ID)
	def.SourceType = normTag(def.SourceType)
	def.TargetType = normTag(def.TargetType)

	switch {
	case def.ID == "":
		return fmt.Errorf("%w: id is empty", ErrInvalidDefinition)
	case def.SourceType == "" || def.TargetType == "":
		return fmt.Errorf("%w: %s: source and target types are required", ErrInvalidDefinition, def.ID)
	case def.Execute == nil:
		return fmt.Errorf("%w: %s: no execute function", ErrInvalidDefinition, def.ID)
	}

	if def.Tier == "" {
		def.Tier = TierExact
	}

	r.mu.Lock()

	if old, ok := r.byID[def.ID]; ok {
		r.unindexLocked(old)
	}

	r.byID[def.ID] = def
	p := pair{def.SourceType, def.TargetType}
	r.byPair[p] = append(r.byPair[p], def.ID)
	r.gen++
	hooks := slices.Clone(r.hooks)

	r.mu.Unlock()

	for _, h := range hooks {
		h(def)
	}

	return nil
}

// Unregister removes the definition with the given ID.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()

	def, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return false
	}

	r.unindexLocked(def)
	delete(r.byID, id)
	r.gen++
	hooks := slices.Clone(r.hooks)

	r.mu.Unlock()

	for _, h := range hooks {
		h(def)
	}

	return true
}

func (r *Registry) unindexLocked(def Definition) {
	p := pair{def.SourceType, def.TargetType}

	ids := slices.DeleteFunc(r.byPair[p], func(id string) bool { return id == def.ID })
	if len(ids) == 0 {
		delete(r.byPair, p)
		return
	}

	r.byPair[p] = ids
}

// Find returns the preferred definition for the pair: lowest cost first,
// then the earliest registered.
func (r *Registry) Find(sourceType, targetType string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byPair[pair{normTag(sourceType), normTag(targetType)}]
	if len(ids) == 0 {
		return Definition{}, false
	}

	best := r.byID[ids[0]]
	for _, id := range ids[1:] {
		if d := r.byID[id]; d.Cost < best.Cost {
			best = d
		}
	}

	return best, true
}

// Get returns the definition with the given ID.
func (r *Registry) Get(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]

	return d, ok
}

// Has reports whether any definition exists for the pair.
func (r *Registry) Has(sourceType, targetType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byPair[pair{normTag(sourceType), normTag(targetType)}]) > 0
}

// ListAll returns all definitions sorted by ID.
func (r *Registry) ListAll() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// Generation increases on every change to the registry.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.gen
}

// OnChange registers fn to run after every Register or Unregister.
func (r *Registry) OnChange(fn func(Definition)) {
	r.mu.Lock()
	r.hooks = append(r.hooks, fn)
	r.mu.Unlock()
}

func normTag(s string) string {
	return string(schema.TypeTag(s).Normalize())
}
