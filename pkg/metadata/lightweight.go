package metadata

// lightweightProcessor is the dominant small-N case: a few small slices,
// with no map, process a merged view of up to MaxLightweightSize elements.
//
// Each slot packs, in the low 5 bits, the index of the first occurrence of
// a distinct key within the concatenated scope/log-site sequence, and in
// the remaining bits a bitmap of every occurrence index (including the
// first) for that key. Distinctness is detected by OR-ing each key's
// Bloom mask into a running combined mask: if OR-ing a new key's mask does
// not change the combined mask, the key is a *candidate* duplicate and a
// linear scan over the already-seen keys confirms or refutes it. Each mask
// sets one or two of 64 bit positions, so for a few distinct keys most new
// keys miss the combined mask and the common case is O(1) per element.
type lightweightProcessor struct {
	seq          []source
	keys         []*Key
	slots        []uint64 // packed: bits[0:5] = first index, bits[5:] = occurrence bitmap
	combinedMask uint64
}

const lwIndexBits = 5
const lwIndexMask = 1<<lwIndexBits - 1

func newLightweightProcessor(scope, logSite *Store) *lightweightProcessor {
	p := &lightweightProcessor{seq: concatenated(scope, logSite)}

	for i, s := range p.seq {
		slot := p.findSlot(s.key)
		if slot >= 0 {
			p.slots[slot] |= uint64(1) << (lwIndexBits + i)
			continue
		}
		p.keys = append(p.keys, s.key)
		packed := uint64(i&lwIndexMask) | uint64(1)<<(lwIndexBits+i)
		p.slots = append(p.slots, packed)
		p.combinedMask |= s.key.Mask()
	}
	return p
}

// findSlot returns the slot index already tracking key, or -1. The Bloom
// mask is only a fast pre-filter; it never causes a correctness issue if
// it under- or over-fires, only a performance one.
func (p *lightweightProcessor) findSlot(key *Key) int {
	if p.combinedMask|key.Mask() == p.combinedMask {
		for i, k := range p.keys {
			if k == key {
				return i
			}
		}
	}
	return -1
}

func (p *lightweightProcessor) occurrences(slot uint64) []int {
	bitmap := slot >> lwIndexBits
	var idxs []int
	for i := 0; bitmap != 0; i++ {
		if bitmap&1 != 0 {
			idxs = append(idxs, i)
		}
		bitmap >>= 1
	}
	return idxs
}

func (p *lightweightProcessor) Process(handler KeyValueHandler, ctx any) {
	for i, key := range p.keys {
		p.emit(key, p.slots[i], handler, ctx)
	}
}

func (p *lightweightProcessor) HandleOne(key *Key, handler KeyValueHandler, ctx any) {
	if slot := p.findSlot(key); slot >= 0 {
		p.emit(key, p.slots[slot], handler, ctx)
	}
}

func (p *lightweightProcessor) emit(key *Key, slot uint64, handler KeyValueHandler, ctx any) {
	idxs := p.occurrences(slot)
	if key.Repeatable() {
		values := make([]any, len(idxs))
		for i, idx := range idxs {
			values[i] = p.seq[idx].value
		}
		handler.HandleRepeated(key, values, ctx)
		return
	}
	// Non-repeatable: the last occurrence wins (log-site, if present,
	// always sorts after every scope occurrence in the concatenated
	// sequence).
	last := idxs[len(idxs)-1]
	EmitValue(key, p.seq[last].value, handler, ctx)
}

func (p *lightweightProcessor) GetSingleValue(key *Key) (any, bool) {
	if key.Repeatable() {
		panic("metadata: GetSingleValue called on a repeatable key")
	}
	slot := p.findSlot(key)
	if slot < 0 {
		return nil, false
	}
	idxs := p.occurrences(p.slots[slot])
	last := idxs[len(idxs)-1]
	return p.seq[last].value, true
}

func (p *lightweightProcessor) KeyCount() int {
	return len(p.keys)
}

func (p *lightweightProcessor) KeySet() []*Key {
	out := make([]*Key, len(p.keys))
	copy(out, p.keys)
	return out
}
