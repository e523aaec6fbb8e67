package callsite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsKey_BaseReturnsOriginalSite(t *testing.T) {
	cs := New("com/example/Foo", "bar", EncodeLine(1, 0), "Foo.go")
	key := AsKey(cs)
	assert.Same(t, cs, key.Base())
}

func TestSpecialize_EqualQualifiersProduceEqualKeys(t *testing.T) {
	cs := New("com/example/Foo", "bar", EncodeLine(1, 0), "Foo.go")
	base := AsKey(cs)

	a := Specialize(base, "GET")
	b := Specialize(base, "GET")
	assert.Equal(t, a, b)
}

func TestSpecialize_DifferentQualifiersProduceDistinctKeys(t *testing.T) {
	cs := New("com/example/Foo", "bar", EncodeLine(1, 0), "Foo.go")
	base := AsKey(cs)

	a := Specialize(base, "GET")
	b := Specialize(base, "POST")
	assert.NotEqual(t, a, b)
}

func TestSpecialize_StackingOrderMatters(t *testing.T) {
	cs := New("com/example/Foo", "bar", EncodeLine(1, 0), "Foo.go")
	base := AsKey(cs)

	ab := Specialize(Specialize(base, "a"), "b")
	ba := Specialize(Specialize(base, "b"), "a")
	assert.NotEqual(t, ab, ba)
}

func TestSpecialize_PreservesBase(t *testing.T) {
	cs := New("com/example/Foo", "bar", EncodeLine(1, 0), "Foo.go")
	base := AsKey(cs)

	specialized := Specialize(Specialize(base, "a"), "b")
	assert.Same(t, cs, specialized.Base())
}

func TestSpecialize_UsableAsMapKey(t *testing.T) {
	cs := New("com/example/Foo", "bar", EncodeLine(1, 0), "Foo.go")
	base := AsKey(cs)

	m := map[Key]int{}
	m[Specialize(base, "GET")] = 1
	m[Specialize(base, "POST")] = 2

	assert.Equal(t, 1, m[Specialize(base, "GET")])
	assert.Equal(t, 2, m[Specialize(base, "POST")])
}
