// Package callsite gives every textual log invocation a stable, hashable
// identity, usable as a map key for persistent per-site state (rate
// limiters, bucketing scopes). See spec component A.
package callsite

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// maxLine is the 16-bit bound a line number is packed into before the upper
// bits are reserved for a per-line ordinal on stripped-line classes.
const maxLine = 1<<16 - 1

// CallSite identifies one textual log location. Equality and hash depend
// only on class name, method name, and the full 32-bit encoded line; the
// source file name is carried for diagnostics only.
type CallSite struct {
	internalClassName string // slash-separated, as injected
	dotClassName      string // dot-separated, computed lazily
	methodName        string
	encodedLine       uint32
	sourceFile        string
	hash              uint64
	valid             bool
}

// Invalid is the singleton "cannot determine" call-site. It compares equal
// only to itself.
var Invalid = &CallSite{valid: false}

// New constructs an injected call-site from constant-pool-like inputs. The
// class name is expected in internal (slash-separated) form; it is
// converted to dotted form lazily on first call to ClassName.
func New(internalClassName, methodName string, encodedLine uint32, sourceFile string) *CallSite {
	cs := &CallSite{
		internalClassName: internalClassName,
		methodName:        methodName,
		encodedLine:       encodedLine,
		sourceFile:        sourceFile,
		valid:             true,
	}
	cs.hash = computeHash(internalClassName, methodName, encodedLine)
	return cs
}

// EncodeLine packs a plain line number into the 32-bit encoded form used by
// New. A non-zero ordinal disambiguates multiple call-sites collapsed onto
// the same line by a stripped-line compiler; callers that have a real line
// number pass ordinal 0.
func EncodeLine(line int, ordinal uint16) uint32 {
	if line < 0 {
		line = 0
	}
	if line > maxLine {
		line = maxLine
	}
	return uint32(ordinal)<<16 | uint32(line)
}

// DecodeLine splits an encoded line back into its line and ordinal parts.
func DecodeLine(encoded uint32) (line int, ordinal uint16) {
	return int(encoded & 0xFFFF), uint16(encoded >> 16)
}

func computeHash(internalClassName, methodName string, encodedLine uint32) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(internalClassName)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(methodName)
	_, _ = h.Write([]byte{0})
	var buf [4]byte
	buf[0] = byte(encodedLine)
	buf[1] = byte(encodedLine >> 8)
	buf[2] = byte(encodedLine >> 16)
	buf[3] = byte(encodedLine >> 24)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// IsValid reports whether the call-site was actually resolved.
func (c *CallSite) IsValid() bool {
	return c != nil && c.valid
}

// ClassName returns the dot-separated class name, computing it from the
// internal form on first access.
func (c *CallSite) ClassName() string {
	if c.dotClassName == "" && c.internalClassName != "" {
		c.dotClassName = strings.ReplaceAll(c.internalClassName, "/", ".")
	}
	return c.dotClassName
}

// MethodName returns the method (function) name of the call-site.
func (c *CallSite) MethodName() string {
	return c.methodName
}

// LineNumber returns the plain (unpacked) line number.
func (c *CallSite) LineNumber() int {
	line, _ := DecodeLine(c.encodedLine)
	return line
}

// EncodedLine returns the full 32-bit packed line used for equality/hash.
func (c *CallSite) EncodedLine() uint32 {
	return c.encodedLine
}

// FileName returns the source file name, if known. Not part of equality.
func (c *CallSite) FileName() string {
	return c.sourceFile
}

// Equal reports whether two call-sites refer to the same textual location.
// File name is deliberately excluded, per the call-site equality invariant.
func (c *CallSite) Equal(o *CallSite) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil {
		return false
	}
	if !c.valid || !o.valid {
		return c.valid == o.valid && c == o
	}
	return c.internalClassName == o.internalClassName &&
		c.methodName == o.methodName &&
		c.encodedLine == o.encodedLine
}

// Hash returns the precomputed 64-bit hash used for map buckets. Invalid
// call-sites all hash to zero.
func (c *CallSite) Hash() uint64 {
	return c.hash
}
