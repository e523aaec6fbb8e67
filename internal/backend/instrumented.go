package backend

import (
	"time"

	"github.com/sswlabs/fluentlog/internal/obsmetrics"
	"github.com/sswlabs/fluentlog/pkg/flogerrors"
	"github.com/sswlabs/fluentlog/pkg/flogtypes"
	"github.com/sswlabs/fluentlog/pkg/logctx"
)

// InstrumentedBackend decorates another Backend, reporting call counts,
// suppressions, parse errors, and dispatch latency to obsmetrics. It adds
// no behavior of its own beyond delegating.
type InstrumentedBackend struct {
	inner flogtypes.Backend
}

// Instrument wraps inner with Prometheus reporting.
func Instrument(inner flogtypes.Backend) *InstrumentedBackend {
	return &InstrumentedBackend{inner: inner}
}

func (b *InstrumentedBackend) LoggerName() string { return b.inner.LoggerName() }

func (b *InstrumentedBackend) IsLoggable(level flogtypes.Level) bool {
	return b.inner.IsLoggable(level)
}

func (b *InstrumentedBackend) Log(record *flogtypes.Record) error {
	name := b.inner.LoggerName()
	obsmetrics.LogCallsTotal.WithLabelValues(name, record.Level.String()).Inc()

	if v, ok := record.Metadata.GetSingleValue(logctx.SkippedCountKey); ok {
		if n, ok := v.(int); ok && n > 0 {
			obsmetrics.SuppressedTotal.WithLabelValues(name).Add(float64(n))
		}
	}

	start := time.Now()
	err := b.inner.Log(record)
	obsmetrics.DispatchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		obsmetrics.BackendErrorsTotal.WithLabelValues(name).Inc()
		if flogerrors.IsKind(err, flogerrors.KindParse) {
			obsmetrics.ParseErrorsTotal.WithLabelValues(name).Inc()
		}
	}
	return err
}

func (b *InstrumentedBackend) HandleError(err error, record *flogtypes.Record) error {
	return b.inner.HandleError(err, record)
}
