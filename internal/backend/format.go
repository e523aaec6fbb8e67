package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sswlabs/fluentlog/pkg/flogtypes"
	"github.com/sswlabs/fluentlog/pkg/parse"
)

var (
	printfParser = parse.NewPrintfParser("\n")
	braceParser  = parse.NewBraceParser()
)

// FormatMessage renders record's template and arguments to text. This is
// the "final argument formatting to text" the core spec explicitly
// leaves to the backend; it re-parses the raw template by parser name
// rather than carrying a live parser instance, since TemplateContext is
// only a (parser name, message) cache key.
//
// Width and precision are honored via Go's generic %v formatting; the
// conversion letter itself (d, s, x, ...) is not re-derived into a
// distinct fmt verb beyond the uppercase flag, since the core's parse
// contract governs tokenization, not rendering fidelity.
func FormatMessage(record *flogtypes.Record) (string, error) {
	if record.Template == nil {
		return "", nil
	}
	switch record.Template.ParserName {
	case "printf":
		return render(printfParser, record.Template.Message, record.Args)
	case "brace":
		return render(braceParser, record.Template.Message, record.Args)
	default:
		return record.Template.Message, nil
	}
}

func render(parser parse.Parser, message string, args []any) (string, error) {
	tokens, perr := parse.Parse(parser, message)
	if perr != nil {
		return "", perr
	}
	var b strings.Builder
	for _, t := range tokens {
		if !t.IsParam {
			b.WriteString(t.Literal)
			continue
		}
		b.WriteString(renderParam(t.Param, args))
	}
	return b.String(), nil
}

func renderParam(p parse.Param, args []any) string {
	if p.Index < 0 || p.Index >= len(args) {
		return "%!MISSING"
	}
	spec := "%"
	if p.HasWidth {
		spec += strconv.Itoa(p.Width)
	}
	if p.HasPrec {
		spec += "." + strconv.Itoa(p.Precision)
	}
	spec += "v"
	s := fmt.Sprintf(spec, args[p.Index])
	if p.Uppercase {
		s = strings.ToUpper(s)
	}
	return s
}
