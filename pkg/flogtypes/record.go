package flogtypes

import (
	"github.com/sswlabs/fluentlog/pkg/callsite"
	"github.com/sswlabs/fluentlog/pkg/metadata"
	"github.com/sswlabs/fluentlog/pkg/parse"
)

// Record is the dispatch payload described in spec §3: everything a
// backend needs to render one log statement. The log record exclusively
// owns Metadata and Args until Backend.Log returns; a Backend must not
// retain either past return.
type Record struct {
	Level          Level
	TimestampNanos int64
	LoggerName     string
	CallSite       *callsite.CallSite
	Metadata       metadata.Processor
	Template       *parse.TemplateContext // ParserName "literal" for the literal-message form; nil only for an empty literal message
	Args           []any
	Forced         bool
}
