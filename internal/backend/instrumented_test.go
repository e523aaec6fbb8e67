package backend

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sswlabs/fluentlog/internal/obsmetrics"
	"github.com/sswlabs/fluentlog/pkg/flogerrors"
	"github.com/sswlabs/fluentlog/pkg/flogtypes"
	"github.com/sswlabs/fluentlog/pkg/logctx"
	"github.com/sswlabs/fluentlog/pkg/metadata"
	"github.com/sswlabs/fluentlog/pkg/parse"
)

type fakeBackend struct {
	name    string
	logErr  error
	lastRec *flogtypes.Record
}

func (b *fakeBackend) LoggerName() string                  { return b.name }
func (b *fakeBackend) IsLoggable(level flogtypes.Level) bool { return true }
func (b *fakeBackend) Log(record *flogtypes.Record) error {
	b.lastRec = record
	return b.logErr
}
func (b *fakeBackend) HandleError(err error, record *flogtypes.Record) error { return nil }

func TestInstrumentedBackend_LogIncrementsCallCounter(t *testing.T) {
	inner := &fakeBackend{name: "instr-calls"}
	b := Instrument(inner)

	record := &flogtypes.Record{Level: flogtypes.LevelInfo, Metadata: metadata.NewProcessor(nil, metadata.New())}
	require.NoError(t, b.Log(record))

	got := testutil.ToFloat64(obsmetrics.LogCallsTotal.WithLabelValues("instr-calls", "INFO"))
	assert.Equal(t, float64(1), got)
}

func TestInstrumentedBackend_SuppressedCountAddsToCounter(t *testing.T) {
	inner := &fakeBackend{name: "instr-suppressed"}
	b := Instrument(inner)

	store := metadata.New()
	store.Add(logctx.SkippedCountKey, 3)
	record := &flogtypes.Record{Level: flogtypes.LevelInfo, Metadata: metadata.NewProcessor(nil, store)}
	require.NoError(t, b.Log(record))

	got := testutil.ToFloat64(obsmetrics.SuppressedTotal.WithLabelValues("instr-suppressed"))
	assert.Equal(t, float64(3), got)
}

func TestInstrumentedBackend_ErrorIncrementsBackendErrors(t *testing.T) {
	inner := &fakeBackend{name: "instr-errors", logErr: errors.New("boom")}
	b := Instrument(inner)

	record := &flogtypes.Record{Level: flogtypes.LevelInfo, Metadata: metadata.NewProcessor(nil, metadata.New())}
	err := b.Log(record)
	assert.Error(t, err)

	got := testutil.ToFloat64(obsmetrics.BackendErrorsTotal.WithLabelValues("instr-errors"))
	assert.Equal(t, float64(1), got)
}

func TestInstrumentedBackend_ParseErrorIncrementsParseErrors(t *testing.T) {
	inner := &fakeBackend{name: "instr-parse", logErr: flogerrors.Wrap(flogerrors.KindParse, "parse", "x", "bad", errors.New("x"))}
	b := Instrument(inner)

	record := &flogtypes.Record{Level: flogtypes.LevelInfo, Metadata: metadata.NewProcessor(nil, metadata.New())}
	_ = b.Log(record)

	got := testutil.ToFloat64(obsmetrics.ParseErrorsTotal.WithLabelValues("instr-parse"))
	assert.Equal(t, float64(1), got)
}

func TestInstrumentedBackend_RealConsoleBackendMalformedTemplateIncrementsParseErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	inner := NewConsoleBackend("instr-console-parse", logger, flogtypes.LevelInfo)
	b := Instrument(inner)

	record := &flogtypes.Record{
		Level:      flogtypes.LevelInfo,
		LoggerName: "instr-console-parse",
		Template:   &parse.TemplateContext{ParserName: "printf", Message: "bad %q"},
		Metadata:   metadata.NewProcessor(nil, metadata.New()),
	}
	err := b.Log(record)
	require.Error(t, err)
	assert.True(t, flogerrors.IsKind(err, flogerrors.KindParse))

	got := testutil.ToFloat64(obsmetrics.ParseErrorsTotal.WithLabelValues("instr-console-parse"))
	assert.Equal(t, float64(1), got)
}

func TestInstrumentedBackend_DelegatesLoggerNameAndIsLoggable(t *testing.T) {
	inner := &fakeBackend{name: "instr-delegate"}
	b := Instrument(inner)

	assert.Equal(t, "instr-delegate", b.LoggerName())
	assert.True(t, b.IsLoggable(flogtypes.LevelInfo))
}

func TestInstrumentedBackend_HandleErrorDelegates(t *testing.T) {
	inner := &fakeBackend{name: "instr-handle"}
	b := Instrument(inner)

	err := b.HandleError(errors.New("x"), &flogtypes.Record{})
	assert.NoError(t, err)
}
