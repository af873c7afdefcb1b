package engine

import (
	"log/slog"

	"casestudy-mapper/internal/cache"
	"casestudy-mapper/internal/exec"
	"casestudy-mapper/internal/match"
	"casestudy-mapper/internal/schema"
)

type options struct {
	logger  *slog.Logger
	store   cache.DurableStore
	matrix  match.Matrix
	sources schema.SourceLoader
	onSlow  func(exec.SlowEvent)
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore overrides the durable store selected by the configuration.
func WithStore(store cache.DurableStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithMatrix replaces the built-in compatibility matrix.
func WithMatrix(m match.Matrix) Option {
	return func(o *options) {
		o.matrix = m
	}
}

// WithSourceLoader sets the collaborator that fetches source fields.
func WithSourceLoader(l schema.SourceLoader) Option {
	return func(o *options) {
		o.sources = l
	}
}

// WithOnSlow registers a hook for slow transformation runs.
func WithOnSlow(fn func(exec.SlowEvent)) Option {
	return func(o *options) {
		o.onSlow = fn
	}
}
