package exec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"casestudy-mapper/internal/cache"
	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/plan"
	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/transform"
	"casestudy-mapper/internal/value"
)

// Execution failures.
var (
	ErrTimeout         = errors.New("transformation timed out")
	ErrPanic           = errors.New("transformation panicked")
	ErrMalformedOutput = errors.New("malformed output")
	ErrNoStrategy      = errors.New("no transformation available")
	ErrNoExecute       = errors.New("transformation has no implementation")
)

// Remediation hints attached to failed results.
const (
	remedyFailed   = "check the source value or declare a fallback for this mapping"
	remedyFallback = "attach a transformation or pipeline, or set allow_fallback"
	remedyTimeout  = "simplify the transformation or raise the execution timeout"
)

// Context carries the per-call inputs besides the value and the mapping.
type Context struct {
	SourceType  string `json:"sourceType"`
	TargetType  string `json:"targetType"`
	BypassCache bool   `json:"bypassCache,omitempty"`
}

// Result is the outcome of one execution. Failures carry the fallback value.
type Result struct {
	Success          bool          `json:"success"`
	Value            value.Value   `json:"value"`
	Error            string        `json:"error,omitempty"`
	Remediation      string        `json:"remediation,omitempty"`
	ExecutionTimeMs  float64       `json:"executionTimeMs"`
	TransformationID string        `json:"transformationId"`
	Strategy         plan.Strategy `json:"strategy"`
	Cached           bool          `json:"cached"`
}

// Executor runs mappings against values. It is safe for concurrent use.
type Executor struct {
	selector *plan.Selector
	cache    *cache.Cache[Result]

	timeout       time.Duration
	slowThreshold time.Duration
	onSlow        func(SlowEvent)
	logger        *slog.Logger
	now           func() time.Time
}

// New creates an executor. c may be nil to disable result caching.
func New(selector *plan.Selector, c *cache.Cache[Result], opts ...Option) *Executor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	return &Executor{
		selector:      selector,
		cache:         c,
		timeout:       o.timeout,
		slowThreshold: o.slowThreshold,
		onSlow:        o.onSlow,
		logger:        o.logger,
		now:           o.now,
	}
}

// Execute transforms v according to m. It never returns an error: every
// failure is reported in the result together with the mapping's fallback.
func (e *Executor) Execute(ctx context.Context, v value.Value, m mapping.FieldMapping, tc Context) Result {
	start := e.now()

	d, selErr := e.selector.Select(m, tc.SourceType, tc.TargetType)

	key := ""
	if e.cache != nil && !tc.BypassCache {
		key = cacheKey(v, m, tc, d)
		if r, ok := e.cache.Get(key); ok {
			r.Cached = true
			return r
		}
	}

	r := e.execute(ctx, v, m, tc, d, selErr)

	elapsed := e.now().Sub(start)
	r.ExecutionTimeMs = float64(elapsed) / float64(time.Millisecond)

	if elapsed > e.slowThreshold {
		e.logger.Warn("slow transformation",
			"mapping", m.Label(), "transformation", r.TransformationID, "elapsed", elapsed)

		if e.onSlow != nil {
			e.onSlow(SlowEvent{MappingID: m.Label(), TransformationID: r.TransformationID, Elapsed: elapsed})
		}
	}

	// A cancelled caller says nothing about the transformation itself.
	if key != "" && ctx.Err() == nil {
		e.cache.Set(key, r)
	}

	return r
}

func (e *Executor) execute(ctx context.Context, v value.Value, m mapping.FieldMapping, tc Context,
	d plan.Decision, selErr error,
) Result {
	if selErr != nil {
		return failure(d, m, selErr, remedyFailed)
	}

	r := Result{Strategy: d.Strategy, TransformationID: d.TransformationID()}

	var (
		out value.Value
		err error
	)

	switch d.Strategy {
	case plan.StrategyDirect:
		out = v
	case plan.StrategySimple:
		out = transform.Coerce(v, d.Primitive)
	case plan.StrategyTemplate:
		out, err = e.run(ctx, d.Definition.Execute, v, m.Options)
	case plan.StrategyCustom:
		out, err = e.run(ctx, d.Pipeline.Run, v, m.Options)
	case plan.StrategyFallback:
		r.Value = m.FallbackValue()
		r.Success = m.AllowFallback

		if !r.Success {
			r.Error = fmt.Sprintf("%s: %s", ErrNoStrategy, d.Reason)
			r.Remediation = remedyFallback
		}

		return r
	}

	if err != nil {
		remedy := remedyFailed
		if errors.Is(err, ErrTimeout) {
			remedy = remedyTimeout
		}

		e.logger.Debug("transformation failed", "mapping", m.Label(), "transformation", r.TransformationID, "error", err)

		return failure(d, m, err, remedy)
	}

	if p, ok := transform.PrimitiveFor(tc.TargetType); ok && !p.Accepts(out) {
		return failure(d, m, fmt.Errorf("%w: %s expects %s, got %s",
			ErrMalformedOutput, schema.TypeTag(tc.TargetType).Normalize(), p, out.Kind()), remedyFailed)
	}

	r.Success = true
	r.Value = out

	return r
}

// run executes fn in its own goroutine, bounded by the executor timeout.
// fn only sees the context, the value and a copy of the options.
func (e *Executor) run(ctx context.Context, fn transform.Func, v value.Value, opts transform.Options) (value.Value, error) {
	if fn == nil {
		return value.Null(), ErrNoExecute
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type outcome struct {
		v   value.Value
		err error
	}

	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrPanic, rec)}
			}
		}()

		out, err := fn(runCtx, v, opts.Clone())
		done <- outcome{v: out, err: err}
	}()

	select {
	case o := <-done:
		return o.v, o.err
	case <-runCtx.Done():
		if err := ctx.Err(); err != nil {
			return value.Null(), err
		}

		return value.Null(), fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}

func failure(d plan.Decision, m mapping.FieldMapping, err error, remedy string) Result {
	return Result{
		Success:          false,
		Value:            m.FallbackValue(),
		Error:            err.Error(),
		Remediation:      remedy,
		TransformationID: d.TransformationID(),
		Strategy:         d.Strategy,
	}
}

// cacheKey fingerprints every input that can change the result, including
// the selected definition's revision so a replaced definition never serves
// results computed by its predecessor.
func cacheKey(v value.Value, m mapping.FieldMapping, tc Context, d plan.Decision) string {
	return value.Fingerprint(
		v,
		value.String(d.Strategy.String()),
		value.String(d.Definition.ID),
		value.String(d.Definition.Revision()),
		value.String(m.TransformationID),
		value.String(m.Pipeline),
		value.String(string(schema.TypeTag(tc.SourceType).Normalize())),
		value.String(string(schema.TypeTag(tc.TargetType).Normalize())),
		m.Options.Value(),
		m.FallbackValue(),
		value.Bool(m.AllowFallback),
	)
}
