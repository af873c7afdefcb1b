package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"casestudy-mapper/internal/cache"
	"casestudy-mapper/internal/config"
	"casestudy-mapper/internal/exec"
	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/match"
	"casestudy-mapper/internal/plan"
	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/transform"
	"casestudy-mapper/internal/value"
)

// Cache names accepted by ClearCache.
const (
	CacheAll           = "all"
	CacheCompatibility = "compatibility"
	CacheTransform     = "transform"
)

// ErrUnknownCache is returned by ClearCache for an unknown cache name.
var ErrUnknownCache = errors.New("unknown cache")

// ErrNoSourceLoader is returned when source fields are requested without a loader.
var ErrNoSourceLoader = errors.New("no source loader configured")

// CacheStats groups the statistics of both caches.
type CacheStats struct {
	Compatibility cache.Stats `json:"compatibility"`
	Transform     cache.Stats `json:"transform"`
}

// Engine wires the compatibility classifier, the transformation registry,
// the executor and the validator around two explicitly owned caches.
type Engine struct {
	cfg    config.Config
	logger *slog.Logger

	registry       *transform.Registry
	loader         *transform.Loader
	compatCache    *cache.Cache[match.Result]
	transformCache *cache.Cache[exec.Result]
	classifier     *match.Classifier
	selector       *plan.Selector
	executor       *exec.Executor
	validator      *mapping.Validator
	sources        schema.SourceLoader
	closers        []io.Closer

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New builds an engine from cfg. Builtin transformations are registered;
// definition files are loaded by Start.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	if o.matrix == nil {
		o.matrix = match.DefaultMatrix()
	}

	e := &Engine{
		cfg:      cfg,
		logger:   o.logger,
		registry: transform.NewRegistry(),
		sources:  o.sources,
	}

	store := o.store
	if store == nil {
		s, closer, err := openStore(cfg.Store)
		if err != nil {
			return nil, err
		}

		store = s
		if closer != nil {
			e.closers = append(e.closers, closer)
		}
	}

	if err := transform.RegisterBuiltins(e.registry); err != nil {
		return nil, fmt.Errorf("register builtins: %w", err)
	}

	e.compatCache = cache.New[match.Result](cfg.CompatibilityCache,
		cache.WithName(CacheCompatibility), cache.WithStore(store), cache.WithLogger(e.logger))
	e.transformCache = cache.New[exec.Result](cfg.TransformCache,
		cache.WithName(CacheTransform), cache.WithStore(store), cache.WithLogger(e.logger))

	// Compatibility results are keyed by registry generation and
	// transformation results by definition revision, so registry changes
	// need no cache invalidation and persisted results survive restarts.
	e.registry.OnChange(func(def transform.Definition) {
		e.logger.Debug("transformation registry changed", "id", def.ID, "origin", def.Origin)
	})

	e.classifier = match.NewClassifier(o.matrix, e.registry, e.compatCache)
	e.selector = plan.NewSelector(e.classifier, e.registry)
	e.validator = mapping.NewValidator(e.classifier, e.registry)
	e.executor = exec.New(e.selector, e.transformCache,
		exec.WithTimeout(cfg.Executor.Timeout),
		exec.WithSlowThreshold(cfg.Executor.SlowThreshold),
		exec.WithOnSlow(o.onSlow),
		exec.WithLogger(e.logger))

	if len(cfg.Definitions.Globs) > 0 {
		e.loader = transform.NewLoader(e.registry, cfg.Definitions.Globs, e.logger)
	}

	return e, nil
}

func openStore(cfg config.StoreConfig) (cache.DurableStore, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverFile:
		s, err := cache.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}

		return s, nil, nil
	case config.DriverSQLite:
		path := cfg.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "cache.db")
		}

		s, err := cache.OpenSQLiteStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}

		return s, s, nil
	default:
		return cache.NewMemoryStore(), nil, nil
	}
}

// Start loads definition files, starts the cache sweeps and, when enabled,
// the definition watcher. Broken definition files are logged, not fatal.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)

	if e.loader != nil {
		if err := e.loader.LoadAll(); err != nil {
			e.logger.Warn("some transformation definitions failed to load", "error", err)
		}

		if e.cfg.Definitions.Watch {
			if err := e.loader.Watch(ctx); err != nil {
				cancel()
				return fmt.Errorf("watch definitions: %w", err)
			}
		}
	}

	e.compatCache.Start()
	e.transformCache.Start()

	e.cancel = cancel
	e.running = true

	e.logger.Info("engine started", "transformations", e.registry.Len())

	return nil
}

// Shutdown stops the sweeps and the watcher and closes the durable store.
// It waits for the watcher until ctx is done.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		e.cancel()
		e.compatCache.Stop()
		e.transformCache.Stop()

		if e.loader != nil {
			if done := e.loader.Done(); done != nil {
				select {
				case <-done:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		e.running = false
	}

	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}

	e.closers = nil

	return errors.Join(errs...)
}

// ClassifyCompatibility classifies a source type against a target type.
func (e *Engine) ClassifyCompatibility(sourceType, targetType string) match.Result {
	return e.classifier.Classify(sourceType, targetType)
}

// ValidateMappings validates mappings. Nil targetFields means the
// case-study target schema.
func (e *Engine) ValidateMappings(mappings []mapping.FieldMapping, sourceFields, targetFields []schema.FieldDescriptor) mapping.Report {
	if targetFields == nil {
		targetFields = schema.Flatten(schema.CaseStudyTarget())
	}

	return e.validator.Validate(mappings, sourceFields, targetFields)
}

// Transform runs one mapping against one value.
func (e *Engine) Transform(ctx context.Context, v value.Value, m mapping.FieldMapping, tc exec.Context) exec.Result {
	return e.executor.Execute(ctx, v, m, tc)
}

// RecordResult is the outcome of applying a mapping set to one source record.
type RecordResult struct {
	Values  map[string]value.Value `json:"values"`
	Results map[string]exec.Result `json:"results"`
	Failed  int                    `json:"failed"`
}

// TransformRecord applies every mapping to the matching field of record and
// keys the outputs by target field id. Mappings whose fields cannot be
// resolved are reported as failed results.
func (e *Engine) TransformRecord(ctx context.Context, record map[string]value.Value,
	mappings []mapping.FieldMapping, sourceFields, targetFields []schema.FieldDescriptor,
) RecordResult {
	if targetFields == nil {
		targetFields = schema.Flatten(schema.CaseStudyTarget())
	}

	sources := schema.NewIndex(sourceFields)
	targets := schema.NewIndex(targetFields)

	out := RecordResult{
		Values:  make(map[string]value.Value, len(mappings)),
		Results: make(map[string]exec.Result, len(mappings)),
	}

	for _, m := range mappings {
		src, dst, ok := m.Resolve(sources, targets)
		if !ok {
			out.Results[m.TargetFieldID] = exec.Result{
				Value:       m.FallbackValue(),
				Error:       fmt.Sprintf("mapping %s references unknown fields", m.Label()),
				Remediation: "validate the mappings against the current schemas",
				Strategy:    plan.StrategyFallback,
			}
			out.Failed++

			continue
		}

		r := e.executor.Execute(ctx, record[m.SourceFieldID], m, exec.Context{
			SourceType: string(src.Type),
			TargetType: string(dst.Type),
		})
		if !r.Success {
			out.Failed++
		}

		out.Values[dst.ID] = r.Value
		out.Results[dst.ID] = r
	}

	return out
}

// RegisterTransformation adds or replaces a definition. Definitions without
// an Execute function are compiled from their pipeline.
func (e *Engine) RegisterTransformation(def transform.Definition) error {
	if def.Execute == nil {
		compiled, err := transform.Compile(def)
		if err != nil {
			return fmt.Errorf("%w: %w", transform.ErrInvalidDefinition, err)
		}

		def = compiled
	}

	if def.Origin == "" {
		def.Origin = "api"
	}

	return e.registry.Register(def)
}

// ListTransformations returns every registered definition sorted by id.
func (e *Engine) ListTransformations() []transform.Definition {
	return e.registry.ListAll()
}

// CacheStats returns statistics for both caches.
func (e *Engine) CacheStats() CacheStats {
	return CacheStats{
		Compatibility: e.compatCache.Stats(),
		Transform:     e.transformCache.Stats(),
	}
}

// ClearCache empties the named cache ("all", "compatibility", "transform").
// An empty name clears both.
func (e *Engine) ClearCache(name string) error {
	switch name {
	case "", CacheAll:
		e.compatCache.Clear()
		e.transformCache.Clear()
	case CacheCompatibility:
		e.compatCache.Clear()
	case CacheTransform:
		e.transformCache.Clear()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCache, name)
	}

	e.logger.Info("cache cleared", "cache", name)

	return nil
}

// FetchSourceFields asks the configured source loader for the source schema.
// Failures are returned as-is.
func (e *Engine) FetchSourceFields(ctx context.Context) ([]schema.FieldDescriptor, error) {
	if e.sources == nil {
		return nil, ErrNoSourceLoader
	}

	return e.sources.FetchSourceFields(ctx)
}

// SuggestMappings proposes source fields for target fields. Nil
// targetFields means the case-study target schema.
func (e *Engine) SuggestMappings(sourceFields, targetFields []schema.FieldDescriptor, opts match.SuggestOptions) []match.Suggestion {
	if targetFields == nil {
		targetFields = schema.Flatten(schema.CaseStudyTarget())
	}

	return e.classifier.Suggest(sourceFields, targetFields, opts)
}

// SuggestFromSource fetches the source schema and suggests mappings for it.
func (e *Engine) SuggestFromSource(ctx context.Context, opts match.SuggestOptions) ([]match.Suggestion, error) {
	fields, err := e.FetchSourceFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch source fields: %w", err)
	}

	return e.SuggestMappings(fields, nil, opts), nil
}

// TargetSchema returns the grouped case-study target schema.
func (e *Engine) TargetSchema() []schema.FieldGroup {
	return schema.CaseStudyTarget()
}

// Matrix returns the compatibility matrix in use.
func (e *Engine) Matrix() match.Matrix {
	return e.classifier.Matrix()
}
