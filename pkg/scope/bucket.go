// Package scope implements bucketing strategies and dynamic scope handles
// (spec component G): the mechanisms `per(...)` uses to specialize a
// call-site key into a bounded, aggregatable bucket.
package scope

import "fmt"

// Strategy maps a potentially unbounded key space to a bounded qualifier.
// A nil return means "no bucket" (e.g. ForKnownKeys on a miss), and the
// `per(...)` call is then skipped rather than specializing on nil.
type Strategy func(key any) any

// KnownBounded is the identity strategy: the caller guarantees the key
// space is already small and bounded (e.g. an enum).
func KnownBounded(key any) any { return key }

// ByClass buckets by the Go dynamic type of key, using fmt's %T as a
// cheap, comparable stand-in for Java's Class object identity.
func ByClass(key any) any {
	return fmt.Sprintf("%T", key)
}

// ByClassName is identical to ByClass in Go, since there is no separate
// "class name" distinct from the formatted type; kept as its own strategy
// to mirror the spec's two named strategies and their distinct call sites.
func ByClassName(key any) any {
	return fmt.Sprintf("%T", key)
}

// ForKnownKeys buckets a small, closed set of keys to their 0-based index
// in `keys`, returning nil on a miss (per spec: "null on miss").
func ForKnownKeys(keys []any) Strategy {
	index := make(map[any]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return func(key any) any {
		if i, ok := index[key]; ok {
			return i
		}
		return nil
	}
}

// ByHashCode buckets key into one of n buckets via hash-mod-n, biased to
// return small boxed ints (which Go, unlike Java, never needs to
// special-case for identity caching — plain int equality already holds).
func ByHashCode(n int) Strategy {
	if n <= 0 {
		n = 1
	}
	return func(key any) any {
		return int(fnv1a(fmt.Sprintf("%v", key)) % uint64(n))
	}
}

func fnv1a(s string) uint64 {
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}
