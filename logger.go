package fluentlog

import (
	"github.com/sswlabs/fluentlog/pkg/logctx"
)

// Logger is the fluent front-end applications hold onto: one Logger per
// logger name, wrapping a pkg/logctx.Pipeline configured with a concrete
// Backend and Platform.
type Logger struct {
	pipeline *logctx.Pipeline
}

// New builds a Logger dispatching through backend, using platform for the
// clock, caller resolution, injected tags, and scope lookups.
func New(name string, backend Backend, platform Platform) *Logger {
	return &Logger{pipeline: logctx.NewPipeline(name, backend, platform)}
}

// Name returns the logger's configured name.
func (l *Logger) Name() string { return l.pipeline.LoggerName() }

// At returns a fluent context for level: a no-op context if level is
// disabled and not forced, otherwise a live one ready to accumulate
// metadata and eventually dispatch.
func (l *Logger) At(level Level) *logctx.Context {
	loggable := l.pipeline.IsLoggable(level)
	if loggable {
		return l.pipeline.NewContext(level, false)
	}
	if l.pipeline.ShouldForce(level, loggable) {
		return l.pipeline.NewContext(level, true)
	}
	return l.pipeline.NoOpContext(level)
}

// AtSevere, AtWarning, ... are convenience selectors for the standard
// levels, equivalent to At(LevelX).
func (l *Logger) AtSevere() *logctx.Context  { return l.At(LevelSevere) }
func (l *Logger) AtWarning() *logctx.Context { return l.At(LevelWarning) }
func (l *Logger) AtInfo() *logctx.Context    { return l.At(LevelInfo) }
func (l *Logger) AtConfig() *logctx.Context  { return l.At(LevelConfig) }
func (l *Logger) AtFine() *logctx.Context    { return l.At(LevelFine) }
func (l *Logger) AtFiner() *logctx.Context   { return l.At(LevelFiner) }
func (l *Logger) AtFinest() *logctx.Context  { return l.At(LevelFinest) }
