// Package fluentlog is the user-facing front-end of the logging
// middleware: a small facade over pkg/logctx's pipeline that resolves a
// level selector to either a live or a no-op fluent context (spec §9's
// "single polymorphic trait with a no-op implementation").
package fluentlog

import "github.com/sswlabs/fluentlog/pkg/flogtypes"

// Level is a total ordering over log severities; see flogtypes.Level for
// the full contract. Aliased here so callers only need to import the
// front-end package for everyday use.
type Level = flogtypes.Level

const (
	LevelFinest  = flogtypes.LevelFinest
	LevelFiner   = flogtypes.LevelFiner
	LevelFine    = flogtypes.LevelFine
	LevelConfig  = flogtypes.LevelConfig
	LevelInfo    = flogtypes.LevelInfo
	LevelWarning = flogtypes.LevelWarning
	LevelSevere  = flogtypes.LevelSevere
)

// Backend and Platform are re-exported so callers implementing either
// collaborator need not import pkg/flogtypes directly.
type Backend = flogtypes.Backend
type Platform = flogtypes.Platform
type Record = flogtypes.Record
