package callsite

// Qualifier is anything that can specialize a base call-site into a
// distinct, bucketable key: a grouping enum value, a bucketed key, or a
// dynamic scope's handle-part. Qualifiers are compared by value equality
// (==), so they must be comparable Go values (the scope package wraps its
// handle-part in a comparable struct for exactly this reason).
type Qualifier interface{}

// Key is the (possibly repeatedly) specialized identity used as the actual
// map key in the per-site state map (component D). A bare *CallSite is
// itself a valid zero-qualifier Key.
type Key interface {
	// Base returns the unspecialized call-site this key ultimately
	// specializes.
	Base() *CallSite
}

// baseKey adapts *CallSite to the Key interface with no specialization.
type baseKey struct {
	site *CallSite
}

func (k baseKey) Base() *CallSite { return k.site }

// AsKey wraps a plain call-site as a Key with no qualifiers.
func AsKey(site *CallSite) Key {
	return baseKey{site: site}
}

// specializedKey pairs a parent key with one qualifier. Two specializedKeys
// are equal (via ==, since both fields are comparable) iff their parents
// and qualifiers are both equal — this relies on Specialize always
// returning a Go struct value, not a pointer, so the key type itself stays
// comparable and safe to use as a plain map key.
type specializedKey struct {
	parent Key
	qual   Qualifier
}

func (k specializedKey) Base() *CallSite { return k.parent.Base() }

// Specialize returns a key distinct from base and from any Specialize(base,
// q') for q' != q, and equal to any other Specialize(base, q) built from an
// equal base and an equal q. Repeated specialization (for multiple `per(...)`
// qualifiers on one statement) stacks in call order, and order matters for
// equality — Specialize(Specialize(k, a), b) != Specialize(Specialize(k, b), a)
// unless a == b.
func Specialize(base Key, q Qualifier) Key {
	return specializedKey{parent: base, qual: q}
}
