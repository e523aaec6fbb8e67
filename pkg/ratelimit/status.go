// Package ratelimit implements the count, duration, and sampling limiters
// described in spec component E, plus the RateLimitStatus combination and
// check protocol each one is built around.
package ratelimit

// kind discriminates the three states a Status can be in.
type kind int8

const (
	kindAllow kind = iota
	kindDisallow
	kindPending
)

// resettable is implemented by whichever limiter produced a pending
// Status; Reset is called exactly once, as a by-product of a successful
// CheckStatus, and returns the number of calls suppressed since the last
// time this limiter fired.
type resettable interface {
	Reset() int
}

// Status is the small sum type described in spec §4.E. The zero value is
// not meaningful; use Allow, Disallow, or a pending Status returned by a
// limiter's Check. A nil *Status means
// "this limiter is not configured", distinct from Allow.
type Status struct {
	kind     kind
	limiters []resettable // the limiter(s) a Pending status must reset
}

// Allow always permits logging; combining it with another status defers
// entirely to the other status.
var Allow = &Status{kind: kindAllow}

// Disallow always suppresses logging, overriding every other status it is
// combined with.
var Disallow = &Status{kind: kindDisallow}

// IsDisallow reports whether status is already a hard DISALLOW, letting a
// caller combining several limiters stop early (spec §4.F: "stop early if
// already DISALLOW"). Purely an optimization: Combine is correct regardless
// of evaluation order.
func (s *Status) IsDisallow() bool {
	return s != nil && s.kind == kindDisallow
}

// pending builds a Status representing a specific limiter's pending allow.
func pending(l resettable) *Status {
	return &Status{kind: kindPending, limiters: []resettable{l}}
}

// Combine applies the precedence rules in spec §4.E: DISALLOW dominates;
// nil ("not configured") defers to the other operand; ALLOW defers to the
// other operand; otherwise the two pending limiters are merged into one
// composite that resets both when the combined status eventually fires.
func Combine(a, b *Status) *Status {
	if a != nil && a.kind == kindDisallow {
		return a
	}
	if b != nil && b.kind == kindDisallow {
		return b
	}
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.kind == kindAllow {
		return b
	}
	if b.kind == kindAllow {
		return a
	}
	return &Status{kind: kindPending, limiters: append(append([]resettable{}, a.limiters...), b.limiters...)}
}

// CheckStatus resolves status into a decision: if logging should proceed,
// it returns the number of calls skipped since the limiter(s) last fired
// (possibly 0) and ok == true, having reset every pending limiter as a
// single atomic-seeming by-product. If logging should not proceed — the
// status is Disallow, or a CAS-style reset race was lost — it returns
// (-1, false).
func CheckStatus(status *Status) (skipped int, ok bool) {
	if status == nil || status.kind == kindAllow {
		return 0, true
	}
	if status.kind == kindDisallow {
		return -1, false
	}
	total := 0
	for _, l := range status.limiters {
		n := l.Reset()
		if n < 0 {
			// A losing CAS race: the whole combined status is
			// suppressed rather than risk a double emission.
			return -1, false
		}
		total += n
	}
	return total, true
}
