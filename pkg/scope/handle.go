package scope

import (
	"runtime"
	"sync"
	"sync/atomic"
)

var nextPartID uint64

// part is the process-unique, comparable value a Handle hands to
// callsite.Specialize. It is intentionally a separate, tiny value from
// *Handle itself: the per-site state map stores part as a map key
// component, never the Handle, so the Handle (and everything it reaches)
// stays collectible the moment user code drops its last reference — the
// map holds no strong back-reference to the scope that would keep it
// alive forever. See hookQueue below for how the cleanup queue is drained.
type part struct {
	id uint64
}

// Handle is a labelled scope whose lifetime bounds a per(...) aggregation.
// When the Handle becomes unreachable, every hook registered via OnClose
// runs exactly once; Close() runs them immediately and deterministically
// for callers that can observe scope end explicitly (the common case).
type Handle struct {
	label string
	p     part
	hooks *hookQueue
}

// hookQueue is the separate allocation runtime.AddCleanup's cleanup
// function closes over, so the cleanup itself never references the Handle
// (a cleanup that captured the Handle would keep it permanently
// reachable and would never run).
type hookQueue struct {
	mu   sync.Mutex
	fns  []func()
	done bool
}

func (q *hookQueue) add(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done {
		fn()
		return
	}
	q.fns = append(q.fns, fn)
}

func (q *hookQueue) drain() {
	q.mu.Lock()
	if q.done {
		q.mu.Unlock()
		return
	}
	q.done = true
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// New creates a scope handle with the given label. The hook queue is
// drained automatically once the handle is unreachable (via
// runtime.AddCleanup) and can also be drained deterministically with
// Close.
func New(label string) *Handle {
	q := &hookQueue{}
	h := &Handle{
		label: label,
		p:     part{id: atomic.AddUint64(&nextPartID, 1)},
		hooks: q,
	}
	runtime.AddCleanup(h, func(q *hookQueue) { q.drain() }, q)
	return h
}

// Label returns the scope's name.
func (h *Handle) Label() string { return h.label }

// Part returns the comparable qualifier value used to specialize a
// call-site key against this scope (spec: "a process-unique handle-part
// tied to this scope, not the scope object itself").
func (h *Handle) Part() any { return h.p }

// OnClose queues a zero-arg hook to run exactly once when the scope
// closes, whether that happens via Close() or via automatic collection.
func (h *Handle) OnClose(hook func()) {
	h.hooks.add(hook)
}

// Close runs every queued hook immediately, if it has not already run.
// Safe to call more than once or never (the cleanup path covers the
// never-called-explicitly case).
func (h *Handle) Close() {
	h.hooks.drain()
}
