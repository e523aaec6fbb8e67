package platform

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedStack_CurrentEmptyIsZeroFalse(t *testing.T) {
	var s keyedStack[int]
	v, ok := s.current("x")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestKeyedStack_PushThenCurrentThenPop(t *testing.T) {
	var s keyedStack[string]
	pop := s.push("req", "a")

	v, ok := s.current("req")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	pop()
	_, ok = s.current("req")
	assert.False(t, ok)
}

func TestKeyedStack_DistinctKeysAreIndependent(t *testing.T) {
	var s keyedStack[string]
	s.push("a", "1")
	s.push("b", "2")

	va, _ := s.current("a")
	vb, _ := s.current("b")
	assert.Equal(t, "1", va)
	assert.Equal(t, "2", vb)
}

func TestKeyedStack_IsolatedPerGoroutine(t *testing.T) {
	var s keyedStack[string]
	s.push("req", "main")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, ok := s.current("req")
		assert.False(t, ok)
	}()
	wg.Wait()

	v, ok := s.current("req")
	assert.True(t, ok)
	assert.Equal(t, "main", v)
}

func TestPlainStack_PushCurrentPop(t *testing.T) {
	var s plainStack[int]
	pop := s.push(42)

	v, ok := s.current()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	pop()
	_, ok = s.current()
	assert.False(t, ok)
}

func TestPlainStack_NestedPushPop(t *testing.T) {
	var s plainStack[int]
	popA := s.push(1)
	popB := s.push(2)

	v, _ := s.current()
	assert.Equal(t, 2, v)

	popB()
	v, _ = s.current()
	assert.Equal(t, 1, v)

	popA()
	_, ok := s.current()
	assert.False(t, ok)
}
