package ratelimit

import "sync/atomic"

// DurationLimiter implements atMostEvery(period): it fires at most once
// per period, with the first call after construction always firing (the
// window is unset, represented as 0).
type DurationLimiter struct {
	nextAllowedNanos int64 // atomic; 0 means the window has never been set
	suppressed       int64 // atomic; calls denied since the last fire
}

// NewDurationLimiter returns a DurationLimiter with no window set yet, so
// its first Check always fires.
func NewDurationLimiter() *DurationLimiter {
	return &DurationLimiter{}
}

// Check reports whether nowNanos falls on or after the open window, given
// a period of periodNanos. A pending Status captures enough to advance
// the window via compare-and-swap in Reset, so concurrent callers racing
// on the same boundary never both advance it.
func (l *DurationLimiter) Check(periodNanos, nowNanos int64) *Status {
	observedNext := atomic.LoadInt64(&l.nextAllowedNanos)
	if observedNext != 0 && nowNanos < observedNext {
		atomic.AddInt64(&l.suppressed, 1)
		return Disallow
	}
	return pending(&durationReset{
		l:            l,
		newNext:      nowNanos + periodNanos,
		observedNext: observedNext,
	})
}

// durationReset is the one-shot resettable a pending Check produces; it
// carries the exact window value it observed so Reset's CAS only succeeds
// if nothing else has advanced the window in the meantime.
type durationReset struct {
	l            *DurationLimiter
	newNext      int64
	observedNext int64
}

// Reset attempts to advance the window past this call's period. A failed
// CAS means another goroutine already won the race to fire for this
// boundary, so this caller's log must be suppressed instead of double
// counted (hence the -1 rather than a fallback skip value).
func (r *durationReset) Reset() int {
	if !atomic.CompareAndSwapInt64(&r.l.nextAllowedNanos, r.observedNext, r.newNext) {
		return -1
	}
	return int(atomic.SwapInt64(&r.l.suppressed, 0))
}
