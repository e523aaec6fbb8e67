package platform

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// goroutineID extracts the numeric id from a stack dump's header line, the
// same trick pkg/recursion uses to emulate thread-local storage. Kept as
// its own tiny copy here rather than exported from pkg/recursion, since
// that package's public surface is scoped to recursion-depth tracking, not
// general goroutine identity.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// keyedStack is a per-goroutine stack of values, further partitioned by a
// string key (e.g. a scope type name). Used to emulate a thread-local
// ScopedLoggingContext: push on entering a logical unit of work, pop on
// leaving it.
type keyedStack[T any] struct {
	mu sync.Mutex
	m  map[uint64]map[string][]T
}

func (s *keyedStack[T]) push(key string, v T) (pop func()) {
	id := goroutineID()
	s.mu.Lock()
	if s.m == nil {
		s.m = make(map[uint64]map[string][]T)
	}
	byKey := s.m[id]
	if byKey == nil {
		byKey = make(map[string][]T)
		s.m[id] = byKey
	}
	byKey[key] = append(byKey[key], v)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		stack := s.m[id][key]
		if len(stack) > 0 {
			s.m[id][key] = stack[:len(stack)-1]
		}
	}
}

func (s *keyedStack[T]) current(key string) (T, bool) {
	var zero T
	id := goroutineID()
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey := s.m[id]
	if byKey == nil {
		return zero, false
	}
	stack := byKey[key]
	if len(stack) == 0 {
		return zero, false
	}
	return stack[len(stack)-1], true
}

// plainStack is a per-goroutine stack with no further key partitioning.
type plainStack[T any] struct {
	mu sync.Mutex
	m  map[uint64][]T
}

func (s *plainStack[T]) push(v T) (pop func()) {
	id := goroutineID()
	s.mu.Lock()
	if s.m == nil {
		s.m = make(map[uint64][]T)
	}
	s.m[id] = append(s.m[id], v)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		stack := s.m[id]
		if len(stack) > 0 {
			s.m[id] = stack[:len(stack)-1]
		}
	}
}

func (s *plainStack[T]) current() (T, bool) {
	var zero T
	id := goroutineID()
	s.mu.Lock()
	defer s.mu.Unlock()
	stack := s.m[id]
	if len(stack) == 0 {
		return zero, false
	}
	return stack[len(stack)-1], true
}
