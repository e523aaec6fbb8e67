package flogtypes

import (
	"github.com/sswlabs/fluentlog/pkg/callsite"
	"github.com/sswlabs/fluentlog/pkg/metadata"
	"github.com/sswlabs/fluentlog/pkg/scope"
)

// Platform is the process-wide service locator the pipeline resolves
// once at logger construction (spec §6 and design note in §9: "represent
// them as configuration injected at logger construction, not as
// singletons"). internal/platform provides the default implementation.
type Platform interface {
	// CurrentTimeNanos is a monotonic best-effort wall clock.
	CurrentTimeNanos() int64

	// FindLogSite returns the call-site for the frame above
	// markerFunction, skipping skip additional frames, or
	// callsite.Invalid if it cannot be determined.
	FindLogSite(markerFunction string, skip int) *callsite.CallSite

	// InjectedTags are merged into log-site tags before dispatch.
	InjectedTags() *metadata.Store

	// CurrentScope supplies the ambient scope handle for scopeType, or
	// nil if none is active.
	CurrentScope(scopeType string) *scope.Handle

	// ShouldForceLogging overrides ordinary level filtering.
	ShouldForceLogging(loggerName string, level Level, isLoggable bool) bool

	// CurrentRecursionDepth is a read-only view of the per-thread
	// recursion counter (pkg/recursion), exposed for platforms that want
	// to make forcing decisions based on it.
	CurrentRecursionDepth() int32
}
