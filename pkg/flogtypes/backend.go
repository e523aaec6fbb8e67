package flogtypes

// Backend is the pluggable output sink the pipeline dispatches resolved
// records to (spec §6, "consumed" interfaces). The core never implements
// one; internal/backend provides concrete implementations.
type Backend interface {
	LoggerName() string
	IsLoggable(level Level) bool

	// Log receives a resolved record. Implementations must not retain
	// record, record.Metadata, or record.Args past return. Any error
	// returned is routed to HandleError, never raised directly to the
	// caller of the fluent API.
	Log(record *Record) error

	// HandleError receives an error surfaced by an earlier Log call. An
	// error returned here with flogerrors.KindLoggingError propagates to
	// the pipeline's caller (a deliberate escape hatch for tests); any
	// other returned error is swallowed after a single safe stderr line.
	HandleError(err error, record *Record) error
}
