package logctx

import (
	"time"

	"github.com/sswlabs/fluentlog/pkg/metadata"
)

// Well-known metadata keys the pipeline itself reads and writes; these are
// pipeline bookkeeping, distinct from any key a caller defines with
// metadata.NewKey for their own with(key, value) calls.
var (
	causeKey          = metadata.NewKey[error]("cause")
	everyKey          = metadata.NewKey[int64]("every_n")
	atMostEveryKey    = metadata.NewKey[Period]("at_most_every")
	onAverageEveryKey = metadata.NewKey[int64]("on_average_every")
	groupingKey       = metadata.NewRepeatedKey[qualifierRequest]("grouping_key")
	stackSizeKey      = metadata.NewKey[StackSize]("stack_size")
	skippedCountKey   = metadata.NewKey[int]("skipped_count")
)

// CauseKey, SkippedCountKey are exported for backends that want to render
// these well-known values specially (e.g. printing the skip count inline).
var (
	CauseKey        = causeKey
	SkippedCountKey = skippedCountKey
)

// StackSize selects how much of the calling stack withStackTrace attaches
// to the record's cause. StackNone is a non-fatal no-op.
type StackSize int

const (
	StackNone StackSize = iota
	StackSmall
	StackMedium
	StackFull
)

// Period is atMostEvery's normalized value: the total wait as nanoseconds,
// plus the original count and unit so a backend can redisplay "100ms"
// instead of a raw nanosecond count.
type Period struct {
	Nanos int64
	N     int64
	Unit  time.Duration
}

// qualifierKind discriminates the two ways a per(...) call can produce a
// grouping qualifier: an already-resolved value, or one that must be
// resolved against the platform's current scope at shouldLog time.
type qualifierKind int8

const (
	qualDirect qualifierKind = iota
	qualScope
)

// qualifierRequest is what per(...) appends to the grouping-key metadata;
// it is resolved into an actual specialization qualifier (and, for scope
// requests, the owning scope.Handle) during shouldLog.
type qualifierRequest struct {
	kind      qualifierKind
	value     any
	scopeType string
}
