package parse

import (
	"strings"
	"unicode"

	"github.com/sswlabs/fluentlog/pkg/flogerrors"
)

// validConversions is the accepted printf conversion set, lowercased. %h/%H
// are accepted too; spec §4.C treats them as %x/%X on the hash of the
// value, a backend-side concern — the parser only records that the
// conversion requested was 'h'.
const validConversions = "sbcdoxefgathn%"

// PrintfParser implements Parser for the printf-style template syntax:
// %[index$|<][flags][width][.precision]conversion.
type PrintfParser struct {
	// Newline is the platform line separator to substitute for %n. Per
	// spec §4.C only "\n", "\r", or "\r\n" are accepted verbatim;
	// anything else is replaced with "\n".
	Newline string
}

// NewPrintfParser builds a PrintfParser, normalizing newline per the
// system-newline contract in spec §4.C.
func NewPrintfParser(newline string) *PrintfParser {
	switch newline {
	case "\n", "\r", "\r\n":
	default:
		newline = "\n"
	}
	return &PrintfParser{Newline: newline}
}

func (p *PrintfParser) Name() string { return "printf" }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (p *PrintfParser) ParseImpl(message string, b *Builder) *flogerrors.ParseError {
	runes := []rune(message)
	n := len(runes)
	litStart := 0
	currentIndex := -1
	nextImplicit := 0

	flush := func(end int) {
		b.AddLiteral(string(runes[litStart:end]))
	}

	i := 0
	for i < n {
		if runes[i] != '%' {
			i++
			continue
		}
		start := i
		i++
		if i >= n {
			return flogerrors.NewParseError("trailing unescaped %", message, start, n)
		}
		switch runes[i] {
		case '%':
			flush(start)
			b.Tokens = append(b.Tokens, Token{Literal: "%"})
			i++
			litStart = i
			continue
		case 'n':
			flush(start)
			b.Tokens = append(b.Tokens, Token{Literal: p.Newline})
			i++
			litStart = i
			continue
		}

		explicitIndex := -1
		useLast := false
		c := runes[i]
		if c == '<' {
			useLast = true
			i++
		} else if isDigit(c) {
			j := i
			for j < n && isDigit(runes[j]) {
				j++
			}
			if j < n && runes[j] == '$' {
				digits := runes[i:j]
				if len(digits) > 1 && digits[0] == '0' {
					return flogerrors.NewParseError("index has leading zero", message, i, j)
				}
				val := atoiRunes(digits)
				if val <= 0 || val >= maxIndex {
					return flogerrors.NewParseError("index out of range", message, i, j)
				}
				explicitIndex = val - 1
				i = j + 1
			}
		}

		flagsStart := i
		for i < n && strings.ContainsRune("-+ 0,(#", runes[i]) {
			i++
		}
		flags := string(runes[flagsStart:i])

		widthStart := i
		for i < n && isDigit(runes[i]) {
			i++
		}
		hasWidth := i > widthStart
		width := atoiRunes(runes[widthStart:i])

		hasPrec := false
		prec := 0
		if i < n && runes[i] == '.' {
			i++
			precStart := i
			for i < n && isDigit(runes[i]) {
				i++
			}
			hasPrec = true
			prec = atoiRunes(runes[precStart:i])
		}

		if i >= n {
			return flogerrors.NewParseError("unterminated conversion", message, start, n)
		}
		conv := runes[i]
		i++
		uppercase := unicode.IsUpper(conv)
		lower := byte(unicode.ToLower(conv))
		if !strings.ContainsRune(validConversions, rune(lower)) {
			return flogerrors.NewParseError("unknown conversion", message, i-1, i)
		}

		var dateTime byte
		if lower == 't' {
			if i >= n {
				return flogerrors.NewParseError("unterminated date/time conversion", message, start, n)
			}
			dateTime = byte(runes[i])
			i++
		}

		var resolvedIndex int
		switch {
		case explicitIndex >= 0:
			resolvedIndex = explicitIndex
			currentIndex = resolvedIndex
		case useLast:
			if currentIndex < 0 {
				return flogerrors.NewParseError("%< used before any index was resolved", message, start, i)
			}
			resolvedIndex = currentIndex
		default:
			resolvedIndex = nextImplicit
			nextImplicit++
			currentIndex = resolvedIndex
		}

		flush(start)
		b.AddParam(Param{
			Index:      resolvedIndex,
			Conversion: lower,
			Uppercase:  uppercase,
			Flags:      flags,
			Width:      width,
			HasWidth:   hasWidth,
			Precision:  prec,
			HasPrec:    hasPrec,
			DateTime:   dateTime,
		})
		litStart = i
	}
	flush(n)
	return nil
}

// EscapeLiteral produces a printf template fragment that parses back to
// exactly literal, by doubling every '%'. Together with ParseImpl this
// gives the round-trip property in spec §8: unescaping then re-escaping a
// literal (no placeholders) yields the original string.
func (p *PrintfParser) EscapeLiteral(literal string) string {
	return strings.ReplaceAll(literal, "%", "%%")
}

func atoiRunes(rs []rune) int {
	v := 0
	for _, r := range rs {
		v = v*10 + int(r-'0')
	}
	return v
}
