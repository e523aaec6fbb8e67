package ratelimit

import (
	"math/rand/v2"
	"sync/atomic"
)

// SampleLimiter implements onAverageEvery(n): each call independently
// fires with probability 1/n, using math/rand/v2's package-level
// generator (auto-seeded, safe for concurrent use without a mutex).
type SampleLimiter struct {
	suppressed int64 // atomic; calls denied since the last fire
}

// NewSampleLimiter returns a ready SampleLimiter.
func NewSampleLimiter() *SampleLimiter {
	return &SampleLimiter{}
}

// Check draws a fresh sample and reports whether this call fires, for an
// average rate of 1 in n.
func (l *SampleLimiter) Check(n int64) *Status {
	if n < 1 {
		n = 1
	}
	if rand.Int64N(n) != 0 {
		atomic.AddInt64(&l.suppressed, 1)
		return Disallow
	}
	return pending(l)
}

// Reset implements resettable.
func (l *SampleLimiter) Reset() int {
	return int(atomic.SwapInt64(&l.suppressed, 0))
}
