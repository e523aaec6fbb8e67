// Package sitemap implements the process-wide, thread-safe mapping from a
// call-site key to its mutable per-site state (spec component D): rate
// limiter state, or any other value a caller wants pinned to one log
// location for the process's lifetime (or until an owning scope closes).
package sitemap

import (
	"sync"

	"github.com/sswlabs/fluentlog/pkg/callsite"
	"github.com/sswlabs/fluentlog/pkg/scope"
)

// Map is a thread-safe get-or-insert table keyed by callsite.Key. It only
// protects the lookup/insert step; the values it holds are expected to be
// mutable and independently thread-safe (in practice: atomics and
// compare-and-swap, never locks — see spec §5).
type Map[V any] struct {
	m sync.Map // callsite.Key -> V
}

// New creates an empty per-site state map.
func New[V any]() *Map[V] {
	return &Map[V]{}
}

// GetOrCreate returns the existing value for key if present; otherwise it
// calls create, atomically installs the result, and returns it. If two
// goroutines race to insert the same key, the loser's freshly created
// value is discarded and the winner's is returned to both — create must
// therefore be cheap and side-effect-free beyond allocating V's zero
// state.
//
// If scopes is non-empty and this call performed the insertion (inserted
// == true), a removal hook is registered on every scope so the entry is
// reclaimed when any of them closes.
func (m *Map[V]) GetOrCreate(key callsite.Key, create func() V, scopes ...*scope.Handle) (value V, inserted bool) {
	if existing, ok := m.m.Load(key); ok {
		return existing.(V), false
	}
	candidate := create()
	actual, loaded := m.m.LoadOrStore(key, candidate)
	value = actual.(V)
	inserted = !loaded
	if inserted {
		for _, s := range scopes {
			s.OnClose(func() { m.m.Delete(key) })
		}
	}
	return value, inserted
}

// Delete removes key's entry, if any. Exposed for tests and for manual
// reclamation outside the scope-close path.
func (m *Map[V]) Delete(key callsite.Key) {
	m.m.Delete(key)
}

// Load returns key's value without inserting, for tests and diagnostics.
func (m *Map[V]) Load(key callsite.Key) (value V, ok bool) {
	v, ok := m.m.Load(key)
	if !ok {
		return value, false
	}
	return v.(V), true
}

// Len counts the current entries. O(n); diagnostics only.
func (m *Map[V]) Len() int {
	n := 0
	m.m.Range(func(_, _ any) bool { n++; return true })
	return n
}
