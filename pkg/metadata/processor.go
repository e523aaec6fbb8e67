package metadata

// Processor presents a single merged, ordered view over a scope Store and a
// log-site Store without mutating either. Iteration order is the order in
// which distinct keys first appear scanning scope then log-site. For a
// non-repeatable key the log-site value wins if present, otherwise the
// scope value; for a repeatable key every value is emitted, scope values
// preceding log-site values, duplicates preserved.
//
// Two implementations share this contract: lightweight (up to
// MaxLightweightSize total elements) tracks keys in small slices of packed
// indexes and allocates no map; fallback builds an insertion-ordered map for the
// rare large case. NewProcessor picks between them automatically.
type Processor interface {
	// Process invokes handler.Handle (or HandleRepeated for a repeatable
	// key) once per distinct key, in merge order.
	Process(handler KeyValueHandler, ctx any)
	// HandleOne invokes the handler for a single key, if present in the
	// merged view, without a full pass over every key.
	HandleOne(key *Key, handler KeyValueHandler, ctx any)
	// GetSingleValue returns the merged value for a non-repeatable key.
	// Calling it on a repeatable key is a programming error and panics.
	GetSingleValue(key *Key) (any, bool)
	// KeyCount returns the number of distinct keys in the merged view.
	KeyCount() int
	// KeySet returns the distinct keys in merge order.
	KeySet() []*Key
}

// MaxLightweightSize is the combined scope+log-site element count above
// which NewProcessor falls back to the map-based implementation. The
// lightweight processor's first-index field is 5 bits wide (0-31); 28 is a
// deliberately conservative margin under that, matching the Design Notes
// discussion of the crossover being an engineering trade-off rather than a
// hard contract.
const MaxLightweightSize = 28

// NewProcessor builds the appropriate Processor for the given (scope,
// log-site) pair.
func NewProcessor(scope, logSite *Store) Processor {
	total := 0
	if scope != nil {
		total += scope.Size()
	}
	if logSite != nil {
		total += logSite.Size()
	}
	if total <= MaxLightweightSize {
		return newLightweightProcessor(scope, logSite)
	}
	return newFallbackProcessor(scope, logSite)
}

// source identifies which store an element index in the concatenated
// scope+log-site sequence came from, and whether it is the scope or
// log-site half.
type source struct {
	store *Store
	value any
	key   *Key
}

// concatenated returns every (key, value) pair from scope followed by
// every pair from logSite, as a single flat sequence. Index i < scope.Size()
// belongs to scope; the rest belong to logSite.
func concatenated(scope, logSite *Store) []source {
	var out []source
	if scope != nil {
		for i := 0; i < scope.Size(); i++ {
			out = append(out, source{store: scope, key: scope.KeyAt(i), value: scope.ValueAt(i)})
		}
	}
	if logSite != nil {
		for i := 0; i < logSite.Size(); i++ {
			out = append(out, source{store: logSite, key: logSite.KeyAt(i), value: logSite.ValueAt(i)})
		}
	}
	return out
}
