package fluentlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sswlabs/fluentlog/internal/platform"
	"github.com/sswlabs/fluentlog/pkg/flogtypes"
)

type recordingBackend struct {
	name     string
	minLevel flogtypes.Level
	records  []*flogtypes.Record
}

func (b *recordingBackend) LoggerName() string { return b.name }
func (b *recordingBackend) IsLoggable(level flogtypes.Level) bool {
	return level >= b.minLevel
}
func (b *recordingBackend) Log(record *flogtypes.Record) error {
	b.records = append(b.records, record)
	return nil
}
func (b *recordingBackend) HandleError(err error, record *flogtypes.Record) error { return nil }

func TestNew_NameReturnsConfiguredName(t *testing.T) {
	backend := &recordingBackend{name: "svc", minLevel: flogtypes.LevelInfo}
	logger := New("svc", backend, platform.New())
	assert.Equal(t, "svc", logger.Name())
}

func TestAt_BelowMinLevelAndNotForcedProducesNoOpContext(t *testing.T) {
	backend := &recordingBackend{name: "svc", minLevel: flogtypes.LevelWarning}
	logger := New("svc", backend, platform.New())

	logger.At(LevelFine).Log("should not be recorded")
	assert.Empty(t, backend.records)
}

func TestAt_AboveMinLevelDispatchesToBackend(t *testing.T) {
	backend := &recordingBackend{name: "svc", minLevel: flogtypes.LevelInfo}
	logger := New("svc", backend, platform.New())

	logger.At(LevelInfo).Log("hello")
	require.Len(t, backend.records, 1)
	assert.Equal(t, LevelInfo, backend.records[0].Level)
	assert.Equal(t, "svc", backend.records[0].LoggerName)
}

func TestAtInfo_IsEquivalentToAtLevelInfo(t *testing.T) {
	backend := &recordingBackend{name: "svc", minLevel: flogtypes.LevelInfo}
	logger := New("svc", backend, platform.New())

	logger.AtInfo().Log("via convenience selector")
	require.Len(t, backend.records, 1)
	assert.Equal(t, LevelInfo, backend.records[0].Level)
}

func TestAtSevere_DispatchesEvenWhenMinLevelIsHigher(t *testing.T) {
	backend := &recordingBackend{name: "svc", minLevel: flogtypes.LevelSevere}
	logger := New("svc", backend, platform.New())

	logger.AtWarning().Log("below threshold")
	assert.Empty(t, backend.records)

	logger.AtSevere().Log("at threshold")
	require.Len(t, backend.records, 1)
}

func TestAt_ForceFuncOverridesOrdinaryFiltering(t *testing.T) {
	p := platform.New()
	p.SetForceFunc(func(loggerName string, level flogtypes.Level, isLoggable bool) bool {
		return !isLoggable
	})
	backend := &recordingBackend{name: "svc", minLevel: flogtypes.LevelSevere}
	logger := New("svc", backend, p)

	logger.AtInfo().Log("forced through despite being below threshold")
	require.Len(t, backend.records, 1)
	assert.True(t, backend.records[0].Forced)
}

func TestAt_Logf_EvaluatesLazyArgsAndAttachesTemplate(t *testing.T) {
	backend := &recordingBackend{name: "svc", minLevel: flogtypes.LevelInfo}
	logger := New("svc", backend, platform.New())

	called := false
	logger.AtInfo().Logf("count=%d lazy=%v", 3, func() any {
		called = true
		return "resolved"
	})

	require.Len(t, backend.records, 1)
	assert.True(t, called)
	require.NotNil(t, backend.records[0].Template)
	assert.Equal(t, []any{3, "resolved"}, backend.records[0].Args)
}
