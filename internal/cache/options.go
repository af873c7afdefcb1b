package cache

import (
	"log/slog"
	"time"
)

type options struct {
	name   string
	store  DurableStore
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		name: "cache",
		now:  time.Now,
	}
}

// WithName sets the cache name (logs, default storage key).
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithStore sets the durable store used when Config.Persistent is true.
func WithStore(store DurableStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source used for TTL and recency.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
