// Package parse implements the two message-template parsers described in
// spec component C: printf-style (%s, %d, %2$d, ...) and brace-style
// ({0}, {1}, ...). Both turn a format string into a sequence of parameter
// descriptors a backend can later bind arguments against. Each also offers
// an EscapeLiteral operation, and both share a ParseError reporting
// convention.
package parse

import "github.com/sswlabs/fluentlog/pkg/flogerrors"

// maxIndex is the contractual upper bound on a parameter index in both
// parsers (spec §4.C): "Index must be < 1,000,000."
const maxIndex = 1_000_000

// Param describes one parameter reference found in a template: its
// argument index (already converted to 0-based) and, for the printf
// parser, the conversion/format details; the brace parser leaves those
// zero.
type Param struct {
	Index      int
	Conversion byte // printf conversion character, lowercase; 0 for brace params
	Uppercase  bool // true if the conversion letter was uppercase
	Flags      string
	Width      int
	HasWidth   bool
	Precision  int
	HasPrec    bool
	DateTime   byte // sub-format character following %t/%T, 0 if absent
}

// Token is one element of a parsed template: either a literal text run or
// a parameter reference. Exactly one of Literal/IsParam is meaningful.
type Token struct {
	IsParam bool
	Literal string
	Param   Param
}

// Builder accumulates tokens as a parser walks a template. ParseImpl calls
// AddLiteral/AddParam in left-to-right order.
type Builder struct {
	Tokens []Token
}

func (b *Builder) AddLiteral(text string) {
	if text == "" {
		return
	}
	b.Tokens = append(b.Tokens, Token{Literal: text})
}

func (b *Builder) AddParam(p Param) {
	b.Tokens = append(b.Tokens, Token{IsParam: true, Param: p})
}

// Parser is implemented by both the printf and brace parsers.
type Parser interface {
	// Name identifies the parser for use in a template-context cache key
	// (spec §3 "Template context").
	Name() string
	// ParseImpl parses message into builder, returning a *flogerrors.ParseError
	// on any malformed input.
	ParseImpl(message string, builder *Builder) *flogerrors.ParseError
}

// Parse runs parser over message and returns the resulting token sequence.
func Parse(parser Parser, message string) ([]Token, *flogerrors.ParseError) {
	b := &Builder{}
	if err := parser.ParseImpl(message, b); err != nil {
		return nil, err
	}
	return b.Tokens, nil
}
