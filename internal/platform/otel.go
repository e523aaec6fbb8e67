package platform

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/sswlabs/fluentlog/pkg/metadata"
)

// TraceIDKey and SpanIDKey are the metadata keys OtelPlatform injects when
// an active span is present. Exported so a backend can render them
// specially (e.g. as structured log fields rather than generic tags).
var (
	TraceIDKey = metadata.NewKey[string]("trace_id")
	SpanIDKey  = metadata.NewKey[string]("span_id")
)

// OtelPlatform extends Default by reading the active span's trace and
// span id from a context.Context pushed onto a goroutine-scoped stack,
// and merging them into InjectedTags. It never exports spans; that
// concern belongs to whatever sets up the tracer provider upstream.
type OtelPlatform struct {
	*Default
	ctxs plainStack[context.Context]
}

// NewOtelPlatform builds an OtelPlatform with no injected tags, no
// forcing policy, and no active context.
func NewOtelPlatform() *OtelPlatform {
	return &OtelPlatform{Default: New()}
}

// PushContext establishes ctx (and whatever span it carries) as active
// for the calling goroutine until the returned function runs.
func (p *OtelPlatform) PushContext(ctx context.Context) (pop func()) {
	return p.ctxs.push(ctx)
}

// InjectedTags returns the Default platform's static tags, plus trace_id
// and span_id if a context with a valid span is currently active.
func (p *OtelPlatform) InjectedTags() *metadata.Store {
	base := p.Default.InjectedTags()

	ctx, ok := p.ctxs.current()
	if !ok {
		return base
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return base
	}

	merged := metadata.New()
	for i := 0; i < base.Size(); i++ {
		merged.Add(base.KeyAt(i), base.ValueAt(i))
	}
	merged.Add(TraceIDKey, sc.TraceID().String())
	merged.Add(SpanIDKey, sc.SpanID().String())
	return merged
}
