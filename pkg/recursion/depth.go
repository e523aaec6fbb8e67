// Package recursion tracks the single per-goroutine recursion depth the
// core owns (spec §4.F, §4.B): incremented when a log statement enters
// dispatch, decremented on every exit path, and consulted both by the
// pipeline's own overflow guard and by the metadata processor's
// custom-emitter re-entry guard.
//
// Go has no native thread-local storage. Since the depth only matters for
// nested calls on the *same* goroutine (a custom emitter calling back into
// the logger while that logger is already mid-dispatch on this goroutine),
// it is tracked in a map keyed by goroutine id, guarded by a mutex. The
// mutex is taken twice per dispatched log call (Enter and Exit) and once
// per custom-emittable metadata value (Depth); it never contends with the metadata/rate-limiter
// hot path described in spec §5.
package recursion

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

var (
	mu     sync.Mutex
	depths = make(map[uint64]int32)
)

// goroutineID extracts the numeric id Go prints at the head of a stack
// dump ("goroutine 123 [running]: ..."). This is the same trick debugging
// and leak-detection tooling uses when it needs to correlate stacks to a
// specific goroutine without a language-level identity primitive.
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

// Enter increments the current goroutine's recursion depth and returns the
// new value.
func Enter() int32 {
	id := goroutineID()
	mu.Lock()
	defer mu.Unlock()
	depths[id]++
	return depths[id]
}

// Exit decrements the current goroutine's recursion depth, restoring it on
// every exit path including error paths, and garbage-collects the entry
// once it returns to zero.
func Exit() {
	id := goroutineID()
	mu.Lock()
	defer mu.Unlock()
	depths[id]--
	if depths[id] <= 0 {
		delete(depths, id)
	}
}

// Depth returns a read-only view of the current goroutine's recursion
// depth, the value exposed to the Platform's current_recursion_depth hook.
func Depth() int32 {
	id := goroutineID()
	mu.Lock()
	defer mu.Unlock()
	return depths[id]
}
