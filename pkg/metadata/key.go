// Package metadata implements the ordered, typed, possibly-repeated
// key/value store merged from scoped context and log-site sources (spec
// component B), plus the two-tier processor that merges a scope Store and
// a log-site Store into one iteration order without allocating a map for
// the common small case.
package metadata

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/cespare/xxhash/v2"
)

var labelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Key is an immutable descriptor for one metadata slot: a label, the Go
// type values must satisfy, whether the key may appear more than once in a
// merged view, and a precomputed 64-bit Bloom-filter mask used by the
// lightweight processor for fast duplicate detection.
type Key struct {
	label      string
	valueType  reflect.Type
	repeatable bool
	mask       uint64
}

// NewKey defines a non-repeatable metadata key for values of type T.
func NewKey[T any](label string) *Key {
	return newKey[T](label, false)
}

// NewRepeatedKey defines a repeatable metadata key: adding it more than
// once accumulates values instead of replacing the prior one.
func NewRepeatedKey[T any](label string) *Key {
	return newKey[T](label, true)
}

func newKey[T any](label string, repeatable bool) *Key {
	if !labelPattern.MatchString(label) {
		panic(fmt.Sprintf("metadata: invalid key label %q: must match [A-Za-z][A-Za-z0-9_]*", label))
	}
	var zero T
	return &Key{
		label:      label,
		valueType:  reflect.TypeOf(&zero).Elem(),
		repeatable: repeatable,
		mask:       bloomMask(label),
	}
}

// bloomMask derives a 64-bit mask from the label with at least one bit set,
// used to OR distinct keys together for a cheap duplicate pre-check before
// falling back to a linear scan. Grounded on xxhash for speed and
// determinism (the hash must be stable across a process's lifetime since
// masks are compared across call-sites).
func bloomMask(label string) uint64 {
	h := xxhash.Sum64String(label)
	// Spread the hash across two bit positions so that short labels with
	// colliding low bits still usually produce distinguishable masks.
	bit1 := h % 63
	bit2 := (h >> 32) % 63
	mask := uint64(1)<<bit1 | uint64(1)<<(bit2+1)
	if mask == 0 {
		mask = 1
	}
	return mask
}

// Label returns the key's identifier.
func (k *Key) Label() string { return k.label }

// Repeatable reports whether the key may legally appear more than once in
// a merged metadata view.
func (k *Key) Repeatable() bool { return k.repeatable }

// Mask returns the precomputed Bloom-filter bit mask for this key.
func (k *Key) Mask() uint64 { return k.mask }

// CheckValue panics if value's dynamic type is not assignable to the key's
// declared type; Store.Add calls this on every insertion so that bad
// values fail fast rather than corrupting a downstream format
// call.
func (k *Key) CheckValue(value any) {
	if value == nil {
		return
	}
	t := reflect.TypeOf(value)
	if !t.AssignableTo(k.valueType) {
		panic(fmt.Sprintf("metadata: value of type %s is not assignable to key %q (%s)", t, k.label, k.valueType))
	}
}

// CustomEmittable is implemented by values that want to control how they
// are rendered to a downstream key/value handler instead of being handed
// to it as-is. See EmitValue for the recursion protection this requires.
type CustomEmittable interface {
	EmitMetadata(key *Key, handler KeyValueHandler, ctx any)
}

// KeyValueHandler receives one key and either its single value or, for a
// repeatable key, all of its values in declaration order. ctx is an opaque
// value threaded through from the Process call, letting a handler stay
// stateless (e.g. a io.Writer or a *logrus.Entry passed straight through).
type KeyValueHandler interface {
	Handle(key *Key, value any, ctx any)
	HandleRepeated(key *Key, values []any, ctx any)
}
