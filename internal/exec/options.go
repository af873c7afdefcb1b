package exec

import (
	"log/slog"
	"time"
)

// Defaults for the execution sandbox.
const (
	DefaultTimeout       = time.Second
	DefaultSlowThreshold = 50 * time.Millisecond
)

// SlowEvent describes an execution that took longer than the slow threshold.
type SlowEvent struct {
	MappingID        string
	TransformationID string
	Elapsed          time.Duration
}

type options struct {
	timeout       time.Duration
	slowThreshold time.Duration
	onSlow        func(SlowEvent)
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures an Executor.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		timeout:       DefaultTimeout,
		slowThreshold: DefaultSlowThreshold,
		now:           time.Now,
	}
}

// WithTimeout bounds each template or custom transformation run.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithSlowThreshold sets the duration above which an execution is reported as slow.
func WithSlowThreshold(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.slowThreshold = d
		}
	}
}

// WithOnSlow registers a hook called for every slow execution.
func WithOnSlow(fn func(SlowEvent)) Option {
	return func(o *options) {
		o.onSlow = fn
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source used to measure executions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
