package metadata

// entry is one (key, value) pair held by a Store.
type entry struct {
	key   *Key
	value any
}

// Store is an ordered, mutable sequence of (key, value) pairs. It enforces:
// no nil keys or values; for a non-repeatable key, at most one pair exists
// (re-adding replaces it in place, preserving its original index);
// insertion order is otherwise preserved; removals compact the remaining
// pairs. A Store is created per log context and discarded after dispatch —
// it is not safe for concurrent use.
type Store struct {
	entries []entry
}

// New returns an empty metadata store.
func New() *Store {
	return &Store{}
}

// Size returns the number of (key, value) pairs currently held.
func (s *Store) Size() int {
	return len(s.entries)
}

// KeyAt returns the key at position i.
func (s *Store) KeyAt(i int) *Key {
	return s.entries[i].key
}

// ValueAt returns the value at position i.
func (s *Store) ValueAt(i int) any {
	return s.entries[i].value
}

// FindValue returns the first value stored under key, if any. For a
// repeatable key this returns only the first occurrence.
func (s *Store) FindValue(key *Key) (any, bool) {
	for _, e := range s.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Add appends (key, value). If key is not repeatable and already present,
// the existing pair is replaced in place at its original index instead of
// appending — this is the "last write wins, same position" invariant
// non-repeatable keys are built around (e.g. atMostEvery overwriting a
// prior call on the same context).
//
// A nil key is a programming error and panics; a nil value is silently
// ignored, matching the fluent `with(key, value)` contract in spec §4.F.
func (s *Store) Add(key *Key, value any) {
	if key == nil {
		panic("metadata: Add called with nil key")
	}
	if value == nil {
		return
	}
	key.CheckValue(value)

	if !key.Repeatable() {
		for i := range s.entries {
			if s.entries[i].key == key {
				s.entries[i].value = value
				return
			}
		}
	}
	s.entries = append(s.entries, entry{key: key, value: value})
}

// RemoveAll removes every pair stored under key, compacting the remaining
// entries while preserving their relative order.
func (s *Store) RemoveAll(key *Key) {
	out := s.entries[:0]
	for _, e := range s.entries {
		if e.key != key {
			out = append(out, e)
		}
	}
	s.entries = out
}
