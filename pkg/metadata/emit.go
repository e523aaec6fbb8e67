package metadata

import "github.com/sswlabs/fluentlog/pkg/recursion"

// MaxEmitRecursionDepth is the fixed limit (spec §4.B: "at least 20") on
// how deep a custom emitter may recurse into the logger before the
// processor stops trusting it and falls back to the key's non-custom
// emission.
const MaxEmitRecursionDepth = 20

// EmitValue renders one (key, value) pair to handler, giving value a
// chance to customize its own emission via CustomEmittable. If the calling
// goroutine's log recursion depth (shared with the pipeline's own guard,
// see pkg/recursion) has already reached MaxEmitRecursionDepth, the custom
// emitter is skipped in favor of the plain value, breaking an emitter that
// logs on every call to itself.
func EmitValue(key *Key, value any, handler KeyValueHandler, ctx any) {
	if ce, ok := value.(CustomEmittable); ok && recursion.Depth() < MaxEmitRecursionDepth {
		ce.EmitMetadata(key, handler, ctx)
		return
	}
	handler.Handle(key, value, ctx)
}
