// Package logctx implements the fluent log context and pipeline (spec
// component F): the per-statement builder that accumulates metadata and
// rate-limit/scope requests, and the shouldLog/logImpl machinery that
// decides whether a statement fires and dispatches it to a backend.
package logctx

import (
	"time"

	"github.com/sswlabs/fluentlog/pkg/callsite"
	"github.com/sswlabs/fluentlog/pkg/flogerrors"
	"github.com/sswlabs/fluentlog/pkg/flogtypes"
	"github.com/sswlabs/fluentlog/pkg/metadata"
	"github.com/sswlabs/fluentlog/pkg/parse"
	"github.com/sswlabs/fluentlog/pkg/ratelimit"
	"github.com/sswlabs/fluentlog/pkg/recursion"
	"github.com/sswlabs/fluentlog/pkg/scope"
)

// Context is the per-statement fluent builder. It is owned by exactly one
// goroutine from creation to the terminal Log*/call and must never escape
// it (spec §5: "not thread-safe... references must never escape").
type Context struct {
	pipeline *Pipeline
	level    flogtypes.Level
	noOp     bool

	meta             *metadata.Store
	timestampNanos   int64
	callSite         *callsite.CallSite
	injectedCallSite *callsite.CallSite
	forced           bool
}

// argFail implements spec §7's Argument error policy: fails fast with a
// programming-error kind, except when the statement is forced, in which
// case bad input is silently tolerated so forced logs keep emitting.
func (c *Context) argFail(op, msg string) {
	if c.forced {
		return
	}
	panic(flogerrors.Argument(op, msg))
}

// WithCause sets the cause metadata entry, last-wins.
func (c *Context) WithCause(err error) *Context {
	if c.noOp || err == nil {
		return c
	}
	c.meta.Add(causeKey, err)
	return c
}

// With adds one metadata entry. A nil key is a fatal programming error
// (unless forced); a nil value is silently ignored.
func (c *Context) With(key *metadata.Key, value any) *Context {
	if key == nil {
		c.argFail("with", "metadata key must not be nil")
		return c
	}
	if c.noOp || value == nil {
		return c
	}
	c.meta.Add(key, value)
	return c
}

// Every configures a count-based rate limiter: fire once every n calls. A
// non-positive n is a programming error; n == 1 is a deliberate no-op.
func (c *Context) Every(n int64) *Context {
	if n <= 0 {
		c.argFail("every", "n must be positive")
		return c
	}
	if c.noOp || n == 1 {
		return c
	}
	c.meta.Add(everyKey, n)
	return c
}

// OnAverageEvery configures a sampling rate limiter: fire with probability
// 1/n on average. A non-positive n is a programming error; n == 1 is a
// deliberate no-op.
func (c *Context) OnAverageEvery(n int64) *Context {
	if n <= 0 {
		c.argFail("onAverageEvery", "n must be positive")
		return c
	}
	if c.noOp || n == 1 {
		return c
	}
	c.meta.Add(onAverageEveryKey, n)
	return c
}

// AtMostEvery configures a duration-based rate limiter: fire at most once
// per n units. A negative n is a programming error; zero disables the
// limiter (a no-op).
func (c *Context) AtMostEvery(n int64, unit time.Duration) *Context {
	if n < 0 {
		c.argFail("atMostEvery", "n must be non-negative")
		return c
	}
	if c.noOp || n == 0 {
		return c
	}
	c.meta.Add(atMostEveryKey, Period{Nanos: n * int64(unit), N: n, Unit: unit})
	return c
}

// Per appends a grouping qualifier for an already-bounded key (an enum-like
// value the caller guarantees has a small key space).
func (c *Context) Per(key any) *Context {
	if c.noOp {
		return c
	}
	c.meta.Add(groupingKey, qualifierRequest{kind: qualDirect, value: key})
	return c
}

// PerWithStrategy appends a grouping qualifier computed by applying
// strategy to key. A nil result (a miss, e.g. scope.ForKnownKeys) is
// skipped rather than specializing on nil.
func (c *Context) PerWithStrategy(key any, strategy scope.Strategy) *Context {
	if c.noOp {
		return c
	}
	v := strategy(key)
	if v == nil {
		return c
	}
	c.meta.Add(groupingKey, qualifierRequest{kind: qualDirect, value: v})
	return c
}

// PerScope appends a grouping qualifier resolved, at shouldLog time,
// against the platform's currently active scope of the given type.
func (c *Context) PerScope(scopeType string) *Context {
	if c.noOp {
		return c
	}
	c.meta.Add(groupingKey, qualifierRequest{kind: qualScope, scopeType: scopeType})
	return c
}

// WithStackTrace requests that size's worth of the calling stack be
// attached as the cause. StackNone is a non-fatal no-op.
func (c *Context) WithStackTrace(size StackSize) *Context {
	if c.noOp || size == StackNone {
		return c
	}
	c.meta.Add(stackSizeKey, size)
	return c
}

// WithInjectedLogSite supplies a call-site resolved ahead of time (e.g. by
// a generated wrapper that knows its own caller). The first non-invalid
// injection wins; later calls are ignored.
func (c *Context) WithInjectedLogSite(site *callsite.CallSite) *Context {
	if c.noOp {
		return c
	}
	if c.injectedCallSite != nil && c.injectedCallSite.IsValid() {
		return c
	}
	if site != nil && site.IsValid() {
		c.injectedCallSite = site
	}
	return c
}

// shouldLog is the pre-check described in spec §4.F: it resolves the
// call-site, specializes it by any grouping qualifiers, fetches per-site
// state, runs rate limiters, and records a skip count if logging proceeds.
func (c *Context) shouldLog() bool {
	if c.callSite == nil {
		c.callSite = c.pipeline.resolveCallSite(c.injectedCallSite)
	}

	var siteKey callsite.Key
	var scopeHandles []*scope.Handle

	if c.callSite.IsValid() {
		key := callsite.AsKey(c.callSite)
		for _, req := range groupingQualifiers(c.meta) {
			q, owner := c.pipeline.resolveQualifier(req)
			if q == nil {
				continue
			}
			key = callsite.Specialize(key, q)
			if owner != nil {
				scopeHandles = append(scopeHandles, owner)
			}
		}
		siteKey = key
	} else {
		siteKey = callsite.AsKey(c.callSite)
	}

	state, _ := c.pipeline.sites.GetOrCreate(siteKey, newSiteState, scopeHandles...)
	status := c.pipeline.postProcess(c.meta, state)

	skipped, ok := ratelimit.CheckStatus(status)
	if !ok {
		return false
	}
	if skipped >= 1 {
		c.meta.Add(skippedCountKey, skipped)
	}
	return true
}

// Log dispatches message as a literal, unparsed string: args is empty and
// the record's Template still carries message, under the ParserName
// "literal", which names no parser, so backends print it verbatim. Only an
// empty message leaves Template nil.
func (c *Context) Log(message string) {
	c.logImpl(nil, message, nil)
}

// Logf dispatches a printf-style template with args, evaluating any lazy
// (func() any) argument just before formatting.
func (c *Context) Logf(format string, args ...any) {
	c.logImpl(c.pipeline.printfParser, format, args)
}

// LogBrace dispatches a brace-style ("{0}") template with args.
func (c *Context) LogBrace(format string, args ...any) {
	c.logImpl(c.pipeline.braceParser, format, args)
}

// logImpl is the dispatch step described in spec §4.F: runs only after
// shouldLog returns true, evaluates lazy arguments, builds the template
// context, merges platform-injected tags with log-site tags, and hands the
// record to the backend.
func (c *Context) logImpl(parser parse.Parser, message string, args []any) {
	if c.noOp {
		return
	}
	if !c.shouldLog() {
		return
	}

	evaluated := make([]any, len(args))
	for i, a := range args {
		if fn, ok := a.(func() any); ok {
			evaluated[i] = fn()
		} else {
			evaluated[i] = a
		}
	}

	var tmpl *parse.TemplateContext
	if parser != nil {
		tc := parse.NewTemplateContext(parser, message)
		tmpl = &tc
	} else if message != "" {
		tc := parse.TemplateContext{ParserName: "literal", Message: message}
		tmpl = &tc
	}

	injected := c.pipeline.platform.InjectedTags()
	proc := metadata.NewProcessor(injected, c.meta)

	record := &flogtypes.Record{
		Level:          c.level,
		TimestampNanos: c.timestampNanos,
		LoggerName:     c.pipeline.loggerName,
		CallSite:       c.callSite,
		Metadata:       proc,
		Template:       tmpl,
		Args:           evaluated,
		Forced:         c.forced,
	}

	depth := recursion.Enter()
	defer recursion.Exit()
	if depth > MaxPipelineRecursionDepth {
		writeSafeReport(record.TimestampNanos, record.CallSite, "recursion limit exceeded, dropping log statement")
		return
	}

	if err := c.pipeline.backend.Log(record); err != nil {
		if herr := c.pipeline.backend.HandleError(err, record); herr != nil {
			if flogerrors.IsKind(herr, flogerrors.KindLoggingError) {
				panic(herr)
			}
			writeSafeReport(record.TimestampNanos, record.CallSite, herr.Error())
		}
	}
}
