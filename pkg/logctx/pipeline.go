package logctx

import (
	"fmt"
	"os"
	"time"

	"github.com/sswlabs/fluentlog/pkg/callsite"
	"github.com/sswlabs/fluentlog/pkg/flogtypes"
	"github.com/sswlabs/fluentlog/pkg/metadata"
	"github.com/sswlabs/fluentlog/pkg/parse"
	"github.com/sswlabs/fluentlog/pkg/ratelimit"
	"github.com/sswlabs/fluentlog/pkg/scope"
	"github.com/sswlabs/fluentlog/pkg/sitemap"
)

// MaxPipelineRecursionDepth bounds overall log recursion (spec §4.F:
// "≥ 100"); crossing it drops the statement instead of dispatching it.
const MaxPipelineRecursionDepth = 100

// Pipeline is the long-lived engine behind one logger: the per-site state
// map, the backend and platform it was configured with, and the parsers
// it hands out template contexts from. One Pipeline is shared by every
// Context it creates; Contexts themselves are not safe to share.
type Pipeline struct {
	loggerName     string
	backend        flogtypes.Backend
	platform       flogtypes.Platform
	markerFunction string
	callerSkip     int
	sites          *sitemap.Map[*siteState]
	printfParser   *parse.PrintfParser
	braceParser    *parse.BraceParser
}

// logImplMarker is the fully qualified name of logImpl, the one frame all
// three terminal dispatch methods (Log/Logf/LogBrace) fall through to.
// Using it as the caller-finder's marker, with a one-frame skip past the
// terminal method itself, lets every entry point resolve the same way
// regardless of which one the caller used.
const logImplMarker = "github.com/sswlabs/fluentlog/pkg/logctx.(*Context).logImpl"

// NewPipeline wires a pipeline for loggerName against backend and
// platform.
func NewPipeline(loggerName string, backend flogtypes.Backend, platform flogtypes.Platform) *Pipeline {
	return &Pipeline{
		loggerName:     loggerName,
		backend:        backend,
		platform:       platform,
		markerFunction: logImplMarker,
		callerSkip:     1,
		sites:          sitemap.New[*siteState](),
		printfParser:   parse.NewPrintfParser("\n"),
		braceParser:    parse.NewBraceParser(),
	}
}

// LoggerName returns the configured logger name.
func (p *Pipeline) LoggerName() string { return p.loggerName }

// IsLoggable reports whether the backend would accept level, independent
// of any forcing decision (spec: "is_loggable(level)").
func (p *Pipeline) IsLoggable(level flogtypes.Level) bool {
	return p.backend.IsLoggable(level)
}

// ShouldForce asks the platform whether level should log despite
// isLoggable being false.
func (p *Pipeline) ShouldForce(level flogtypes.Level, isLoggable bool) bool {
	return p.platform.ShouldForceLogging(p.loggerName, level, isLoggable)
}

// NoOpContext returns the cheap, inert context used when a level is
// disabled and not forced: every fluent method on it is a no-op (spec §9:
// "a single polymorphic trait with a no-op implementation").
func (p *Pipeline) NoOpContext(level flogtypes.Level) *Context {
	return &Context{pipeline: p, level: level, noOp: true}
}

// NewContext returns a live context for level, ready to accumulate
// metadata and eventually dispatch.
func (p *Pipeline) NewContext(level flogtypes.Level, forced bool) *Context {
	return &Context{
		pipeline:       p,
		level:          level,
		meta:           metadata.New(),
		forced:         forced,
		timestampNanos: p.platform.CurrentTimeNanos(),
	}
}

// resolveCallSite honors an injected call-site if one was supplied and
// valid; otherwise it asks the platform's caller-finder.
func (p *Pipeline) resolveCallSite(injected *callsite.CallSite) *callsite.CallSite {
	if injected != nil && injected.IsValid() {
		return injected
	}
	site := p.platform.FindLogSite(p.markerFunction, p.callerSkip)
	if site == nil {
		return callsite.Invalid
	}
	return site
}

// resolveQualifier turns a pending per(...) request into an actual
// specialization qualifier and, for a scope request, the scope.Handle that
// produced it (so the caller can register a removal hook on it).
func (p *Pipeline) resolveQualifier(req qualifierRequest) (qualifier any, owner *scope.Handle) {
	switch req.kind {
	case qualDirect:
		return req.value, nil
	case qualScope:
		h := p.platform.CurrentScope(req.scopeType)
		if h == nil {
			return nil, nil
		}
		return h.Part(), h
	default:
		return nil, nil
	}
}

// groupingQualifiers scans meta for every per(...) request recorded under
// groupingKey, in declaration order.
func groupingQualifiers(meta *metadata.Store) []qualifierRequest {
	var out []qualifierRequest
	for i := 0; i < meta.Size(); i++ {
		if meta.KeyAt(i) == groupingKey {
			out = append(out, meta.ValueAt(i).(qualifierRequest))
		}
	}
	return out
}

// postProcess runs every configured limiter in the fixed order required by
// spec §4.F (duration, count, sampling), combining their statuses, and
// resolves any pending stack-trace request in place on meta.
func (p *Pipeline) postProcess(meta *metadata.Store, state *siteState) *ratelimit.Status {
	var status *ratelimit.Status

	if v, ok := meta.FindValue(atMostEveryKey); ok {
		period := v.(Period)
		status = ratelimit.Combine(status, state.duration.Check(period.Nanos, p.platform.CurrentTimeNanos()))
	}
	if !status.IsDisallow() {
		if v, ok := meta.FindValue(everyKey); ok {
			status = ratelimit.Combine(status, state.count.Check(v.(int64)))
		}
	}
	if !status.IsDisallow() {
		if v, ok := meta.FindValue(onAverageEveryKey); ok {
			status = ratelimit.Combine(status, state.sample.Check(v.(int64)))
		}
	}

	if v, ok := meta.FindValue(stackSizeKey); ok {
		meta.RemoveAll(stackSizeKey)
		if size := v.(StackSize); size != StackNone {
			meta.Add(causeKey, captureStack(size))
		}
	}

	return status
}

// captureStack renders the current goroutine's stack, trimmed to a size
// tier, as the synthetic cause a withStackTrace request attaches.
func captureStack(size StackSize) error {
	buf := make([]byte, 1<<16)
	n := 0
	for {
		n = runtimeStack(buf)
		if n < len(buf) {
			break
		}
		buf = make([]byte, 2*len(buf))
	}
	trace := string(buf[:n])

	limit := 0
	switch size {
	case StackSmall:
		limit = 8
	case StackMedium:
		limit = 32
	case StackFull:
		limit = 0 // unbounded
	}
	if limit > 0 {
		lines := splitLines(trace)
		if len(lines) > limit {
			lines = lines[:limit]
		}
		trace = joinLines(lines)
	}
	return &stackTraceError{trace: trace}
}

type stackTraceError struct{ trace string }

func (e *stackTraceError) Error() string { return e.trace }

// writeSafeReport writes the single-line stderr diagnostic the spec
// requires for recursion drops and swallowed backend errors: an ISO-8601
// timestamp, the bracketed call-site, and a short message. No user data.
func writeSafeReport(timestampNanos int64, site *callsite.CallSite, message string) {
	ts := time.Unix(0, timestampNanos).UTC().Format(time.RFC3339Nano)
	loc := "[unknown]"
	if site != nil && site.IsValid() {
		loc = fmt.Sprintf("[%s.%s:%d]", site.ClassName(), site.MethodName(), site.LineNumber())
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n", ts, loc, message)
}
