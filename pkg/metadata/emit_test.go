package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sswlabs/fluentlog/pkg/recursion"
)

type customValue struct{ rendered string }

func (c customValue) EmitMetadata(key *Key, handler KeyValueHandler, ctx any) {
	handler.Handle(key, c.rendered, ctx)
}

func TestEmitValue_UsesCustomEmitterByDefault(t *testing.T) {
	key := NewKey[customValue]("thing")
	h := newCaptureHandler()
	EmitValue(key, customValue{rendered: "custom"}, h, nil)

	assert.Len(t, h.single, 1)
	assert.Equal(t, "custom", h.single[0].value)
}

func TestEmitValue_PlainValueGoesStraightToHandler(t *testing.T) {
	key := NewKey[string]("name")
	h := newCaptureHandler()
	EmitValue(key, "alice", h, nil)

	assert.Len(t, h.single, 1)
	assert.Equal(t, "alice", h.single[0].value)
}

func TestEmitValue_SkipsCustomEmitterAtRecursionLimit(t *testing.T) {
	for i := 0; i < MaxEmitRecursionDepth; i++ {
		recursion.Enter()
	}
	defer func() {
		for i := 0; i < MaxEmitRecursionDepth; i++ {
			recursion.Exit()
		}
	}()

	key := NewKey[customValue]("thing")
	h := newCaptureHandler()
	EmitValue(key, customValue{rendered: "custom"}, h, nil)

	assert.Len(t, h.single, 1)
	assert.Equal(t, customValue{rendered: "custom"}, h.single[0].value)
}
