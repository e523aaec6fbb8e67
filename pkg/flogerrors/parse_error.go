package flogerrors

import "strings"

// snippetContext is how many characters of context spec §4.C requires on
// either side of the offending span before ellipsizing.
const snippetContext = 5

// ParseError is the single error kind message-template parsers raise (spec
// §4.C). It carries the original message plus the offending span so a
// human-oriented snippet can be rendered on demand; it never escapes a
// parser except wrapped by the pipeline's error handler.
type ParseError struct {
	Base    *Error // Kind is always KindParse
	Message string // the raw template string being parsed
	Start   int    // start offset of the offending span
	End     int    // end offset (exclusive) of the offending span
}

// NewParseError builds a parse error for message, reporting the span
// [start, end) as the offending region.
func NewParseError(reason, message string, start, end int) *ParseError {
	return &ParseError{
		Base:    New(KindParse, "parse", "parseImpl", reason),
		Message: message,
		Start:   start,
		End:     end,
	}
}

// Unwrap exposes the underlying *Error so errors.Is/As and IsKind work
// against a *ParseError the same way they do against any other error this
// package raises.
func (p *ParseError) Unwrap() error {
	return p.Base
}

// Snippet renders the message with the offending span bracketed and up to
// snippetContext characters of context on either side, ellipsizing
// whatever is cut off. Start/End are rune offsets (both parsers operate on
// []rune(message)), so the message is converted to runes before slicing;
// slicing the raw byte string would split multi-byte characters and
// misalign the bracketed span whenever non-ASCII text precedes it.
func (p *ParseError) Snippet() string {
	runes := []rune(p.Message)
	start, end := p.Start, p.End
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if end < start {
		end = start
	}

	leadStart := start - snippetContext
	leadEllipsis := leadStart > 0
	if leadStart < 0 {
		leadStart = 0
	}
	trailEnd := end + snippetContext
	trailEllipsis := trailEnd < len(runes)
	if trailEnd > len(runes) {
		trailEnd = len(runes)
	}

	var b strings.Builder
	if leadEllipsis {
		b.WriteString("...")
	}
	b.WriteString(string(runes[leadStart:start]))
	b.WriteByte('[')
	b.WriteString(string(runes[start:end]))
	b.WriteByte(']')
	b.WriteString(string(runes[end:trailEnd]))
	if trailEllipsis {
		b.WriteString("...")
	}
	return b.String()
}

func (p *ParseError) Error() string {
	return p.Base.Message + ": " + p.Snippet()
}
