package backend

import (
	"github.com/sirupsen/logrus"

	"github.com/sswlabs/fluentlog/pkg/flogerrors"
	"github.com/sswlabs/fluentlog/pkg/flogtypes"
	"github.com/sswlabs/fluentlog/pkg/metadata"
)

// ConsoleBackend renders records through a logrus.Logger, one
// logrus.Fields entry per distinct metadata key. It is the simplest of
// the backends and the one the demo binary defaults to.
type ConsoleBackend struct {
	name     string
	logger   *logrus.Logger
	minLevel flogtypes.Level
}

// NewConsoleBackend builds a ConsoleBackend that accepts any record at or
// above minLevel. logger is used as given; callers that want JSON output
// should set a logrus.JSONFormatter on it before passing it in.
func NewConsoleBackend(name string, logger *logrus.Logger, minLevel flogtypes.Level) *ConsoleBackend {
	return &ConsoleBackend{name: name, logger: logger, minLevel: minLevel}
}

func (b *ConsoleBackend) LoggerName() string { return b.name }

func (b *ConsoleBackend) IsLoggable(level flogtypes.Level) bool {
	return level >= b.minLevel
}

func (b *ConsoleBackend) Log(record *flogtypes.Record) error {
	message, err := FormatMessage(record)
	if err != nil {
		return flogerrors.Format("format", err)
	}

	fields := logrus.Fields{
		"logger":    record.LoggerName,
		"call_site": callSiteString(record),
	}
	if record.Forced {
		fields["forced"] = true
	}
	record.Metadata.Process(fieldCollector{}, fields)

	b.logger.WithFields(fields).Log(logrusLevel(record.Level), message)
	return nil
}

// HandleError logs the failure itself at error level and swallows it; a
// console backend has nowhere further to escalate to.
func (b *ConsoleBackend) HandleError(err error, record *flogtypes.Record) error {
	b.logger.WithFields(logrus.Fields{
		"logger":    record.LoggerName,
		"call_site": callSiteString(record),
	}).WithError(err).Error("log backend call failed")
	return nil
}

func callSiteString(record *flogtypes.Record) string {
	if record.CallSite == nil || !record.CallSite.IsValid() {
		return "?"
	}
	return record.CallSite.ClassName() + "." + record.CallSite.MethodName()
}

func logrusLevel(level flogtypes.Level) logrus.Level {
	switch {
	case level >= flogtypes.LevelSevere:
		return logrus.ErrorLevel
	case level >= flogtypes.LevelWarning:
		return logrus.WarnLevel
	case level >= flogtypes.LevelInfo:
		return logrus.InfoLevel
	case level >= flogtypes.LevelConfig:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// fieldCollector adapts metadata.KeyValueHandler to logrus.Fields: ctx is
// the fields map being populated.
type fieldCollector struct{}

func (fieldCollector) Handle(key *metadata.Key, value any, ctx any) {
	ctx.(logrus.Fields)[key.Label()] = value
}

func (fieldCollector) HandleRepeated(key *metadata.Key, values []any, ctx any) {
	ctx.(logrus.Fields)[key.Label()] = values
}
