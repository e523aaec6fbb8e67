// Package platform provides the default Platform implementation fluentlog
// ships with (spec §6's "Platform" collaborator) and an OpenTelemetry
// variant that additionally surfaces the active span's trace/span id as
// injected tags.
package platform

import (
	"time"

	"github.com/sswlabs/fluentlog/pkg/callsite"
	"github.com/sswlabs/fluentlog/pkg/flogtypes"
	"github.com/sswlabs/fluentlog/pkg/metadata"
	"github.com/sswlabs/fluentlog/pkg/recursion"
	"github.com/sswlabs/fluentlog/pkg/scope"
)

// Default is the out-of-the-box Platform: a wall clock, runtime-stack-based
// caller resolution, a small set of process-wide injected tags, and a
// goroutine-scoped ambient-scope registry.
type Default struct {
	tags   *metadata.Store
	scopes keyedStack[*scope.Handle]
	force  func(loggerName string, level flogtypes.Level, isLoggable bool) bool
}

// New builds a Default platform with no injected tags and no forcing
// policy (every decision follows ordinary level filtering).
func New() *Default {
	return &Default{tags: metadata.New()}
}

func (d *Default) CurrentTimeNanos() int64 {
	return time.Now().UnixNano()
}

func (d *Default) FindLogSite(markerFunction string, skip int) *callsite.CallSite {
	return callsite.FindCaller(markerFunction, skip)
}

func (d *Default) InjectedTags() *metadata.Store {
	return d.tags
}

// SetInjectedTag sets a process-wide tag merged into every record (e.g. a
// static service name or host id). Not safe to call concurrently with
// in-flight log calls.
func (d *Default) SetInjectedTag(key *metadata.Key, value any) {
	d.tags.Add(key, value)
}

func (d *Default) CurrentScope(scopeType string) *scope.Handle {
	h, ok := d.scopes.current(scopeType)
	if !ok {
		return nil
	}
	return h
}

// PushScope establishes h as the ambient scope of scopeType for the
// calling goroutine until the returned function runs. This stands in for
// the thread-local ScopedLoggingContext a JVM implementation would use;
// Go has no such primitive, so the scope is tracked per goroutine id
// instead.
func (d *Default) PushScope(scopeType string, h *scope.Handle) (pop func()) {
	return d.scopes.push(scopeType, h)
}

func (d *Default) ShouldForceLogging(loggerName string, level flogtypes.Level, isLoggable bool) bool {
	if d.force == nil {
		return false
	}
	return d.force(loggerName, level, isLoggable)
}

// SetForceFunc installs a custom forcing policy. nil restores the default
// of never forcing.
func (d *Default) SetForceFunc(f func(loggerName string, level flogtypes.Level, isLoggable bool) bool) {
	d.force = f
}

func (d *Default) CurrentRecursionDepth() int32 {
	return recursion.Depth()
}
