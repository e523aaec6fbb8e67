package callsite

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStackFrame_EmptyFunctionIsInvalid(t *testing.T) {
	cs := FromStackFrame(runtime.Frame{})
	assert.False(t, cs.IsValid())
}

func TestFromStackFrame_BuildsFromFrame(t *testing.T) {
	frame := runtime.Frame{Function: "pkg.Foo", Line: 42, File: "pkg/foo.go"}
	cs := FromStackFrame(frame)
	assert.True(t, cs.IsValid())
	assert.Equal(t, "pkg.Foo", cs.MethodName())
	assert.Equal(t, 42, cs.LineNumber())
	assert.Equal(t, "pkg/foo.go", cs.FileName())
}

func markerFunc() *CallSite {
	return FindCaller("github.com/sswlabs/fluentlog/pkg/callsite.markerFunc", 0)
}

func TestFindCaller_ResolvesImmediateCaller(t *testing.T) {
	cs := markerFunc()
	assert.True(t, cs.IsValid())
	assert.Contains(t, cs.MethodName(), "TestFindCaller_ResolvesImmediateCaller")
}

func TestFindCaller_UnknownMarkerReturnsInvalid(t *testing.T) {
	cs := FindCaller("no/such/marker.Function", 0)
	assert.False(t, cs.IsValid())
}
