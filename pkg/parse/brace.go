package parse

import "github.com/sswlabs/fluentlog/pkg/flogerrors"

// BraceParser implements Parser for the brace-style template syntax:
// "{index}". The default configuration rejects the "{index,trailing}"
// form, per spec §4.C.
type BraceParser struct {
	// AllowTrailing, when true, accepts "{index,trailing}" and discards
	// the trailing portion instead of raising a parse error. The default
	// constructor leaves this false.
	AllowTrailing bool
}

// NewBraceParser builds the default brace parser, which rejects the
// "{index,trailing}" form.
func NewBraceParser() *BraceParser {
	return &BraceParser{}
}

func (p *BraceParser) Name() string { return "brace" }

// EscapeLiteral produces a brace template fragment that parses back to
// exactly literal: when literal contains a brace or a single quote, the
// whole of it is wrapped in one quoted run with each single quote doubled.
// Together with ParseImpl this gives the round-trip property in
// spec §8.
func (p *BraceParser) EscapeLiteral(literal string) string {
	needsQuoting := false
	for _, r := range literal {
		if r == '{' || r == '}' || r == '\'' {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return literal
	}
	var b []rune
	b = append(b, '\'')
	for _, r := range literal {
		if r == '\'' {
			b = append(b, '\'', '\'')
			continue
		}
		b = append(b, r)
	}
	b = append(b, '\'')
	return string(b)
}

func (p *BraceParser) ParseImpl(message string, b *Builder) *flogerrors.ParseError {
	runes := []rune(message)
	n := len(runes)
	litStart := 0

	flush := func(end int) {
		b.AddLiteral(string(runes[litStart:end]))
	}

	i := 0
	for i < n {
		r := runes[i]

		if r == '\'' {
			if i+1 < n && runes[i+1] == '\'' {
				flush(i)
				b.Tokens = append(b.Tokens, Token{Literal: "'"})
				i += 2
				litStart = i
				continue
			}
			// Inside a quoted run a doubled quote is one literal quote.
			var quoted []rune
			j := i + 1
			for j < n {
				if runes[j] == '\'' {
					if j+1 < n && runes[j+1] == '\'' {
						quoted = append(quoted, '\'')
						j += 2
						continue
					}
					break
				}
				quoted = append(quoted, runes[j])
				j++
			}
			if j >= n {
				return flogerrors.NewParseError("unmatched quote", message, i, n)
			}
			flush(i)
			b.Tokens = append(b.Tokens, Token{Literal: string(quoted)})
			i = j + 1
			litStart = i
			continue
		}

		if r == '{' {
			start := i
			i++
			digitsStart := i
			for i < n && isDigit(runes[i]) {
				i++
			}
			if i == digitsStart {
				return flogerrors.NewParseError("missing index", message, start, min(i+1, n))
			}
			digits := runes[digitsStart:i]
			if len(digits) > 1 && digits[0] == '0' {
				return flogerrors.NewParseError("index has leading zero", message, digitsStart, i)
			}
			val := atoiRunes(digits)
			if val >= maxIndex {
				return flogerrors.NewParseError("index too large", message, digitsStart, i)
			}

			if i < n && runes[i] == ',' {
				if !p.AllowTrailing {
					return flogerrors.NewParseError("trailing format specifiers are not supported", message, i, min(i+1, n))
				}
				for i < n && runes[i] != '}' {
					i++
				}
			}

			if i >= n || runes[i] != '}' {
				return flogerrors.NewParseError("unterminated {", message, start, i)
			}
			i++
			flush(start)
			b.AddParam(Param{Index: val})
			litStart = i
			continue
		}

		i++
	}
	flush(n)
	return nil
}
