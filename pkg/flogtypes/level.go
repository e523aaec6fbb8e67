// Package flogtypes holds the small set of types shared between the
// fluent front-end (package fluentlog) and the pipeline (pkg/logctx),
// split into their own leaf package so neither side needs to import the
// other: Level, Record, and the Backend/Platform collaborator interfaces
// described in spec component F and its external interfaces.
package flogtypes

// Level is a total ordering over log severities, mirroring java.util.logging's
// scale: higher numeric value means more severe. The core never interprets
// level values beyond comparison and selection of a convenience method name.
type Level int32

const (
	LevelFinest  Level = 300
	LevelFiner   Level = 400
	LevelFine    Level = 500
	LevelConfig  Level = 700
	LevelInfo    Level = 800
	LevelWarning Level = 900
	LevelSevere  Level = 1000
)

// String renders the level the way a backend would want to log it, not used
// by the core itself (the core never formats text).
func (l Level) String() string {
	switch l {
	case LevelFinest:
		return "FINEST"
	case LevelFiner:
		return "FINER"
	case LevelFine:
		return "FINE"
	case LevelConfig:
		return "CONFIG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelSevere:
		return "SEVERE"
	default:
		return "LEVEL(?)"
	}
}
