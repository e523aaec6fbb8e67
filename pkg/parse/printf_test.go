package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintfParser_ImplicitIndices(t *testing.T) {
	p := NewPrintfParser("\n")
	tokens, err := Parse(p, "hello %s, you are %d years old")
	require.Nil(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, "hello ", tokens[0].Literal)
	assert.True(t, tokens[1].IsParam)
	assert.Equal(t, 0, tokens[1].Param.Index)
	assert.Equal(t, byte('s'), tokens[1].Param.Conversion)
	assert.True(t, tokens[3].IsParam)
	assert.Equal(t, 1, tokens[3].Param.Index)
	assert.Equal(t, byte('d'), tokens[3].Param.Conversion)
}

func TestPrintfParser_ExplicitIndexAndBackreference(t *testing.T) {
	p := NewPrintfParser("\n")
	tokens, err := Parse(p, "%2$s repeated: %<s")
	require.Nil(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Param.Index)
	assert.Equal(t, 1, tokens[2].Param.Index)
}

func TestPrintfParser_WidthAndPrecision(t *testing.T) {
	p := NewPrintfParser("\n")
	tokens, err := Parse(p, "%10.2f")
	require.Nil(t, err)
	require.Len(t, tokens, 1)
	param := tokens[0].Param
	assert.True(t, param.HasWidth)
	assert.Equal(t, 10, param.Width)
	assert.True(t, param.HasPrec)
	assert.Equal(t, 2, param.Precision)
}

func TestPrintfParser_UppercaseConversion(t *testing.T) {
	p := NewPrintfParser("\n")
	tokens, err := Parse(p, "%X")
	require.Nil(t, err)
	assert.True(t, tokens[0].Param.Uppercase)
	assert.Equal(t, byte('x'), tokens[0].Param.Conversion)
}

func TestPrintfParser_PercentAndNewlineEscapes(t *testing.T) {
	p := NewPrintfParser("\n")
	tokens, err := Parse(p, "100%% done%n")
	require.Nil(t, err)
	var literal string
	for _, tok := range tokens {
		assert.False(t, tok.IsParam)
		literal += tok.Literal
	}
	assert.Equal(t, "100% done\n", literal)
}

func TestPrintfParser_UnknownConversionIsParseError(t *testing.T) {
	p := NewPrintfParser("\n")
	_, err := Parse(p, "%q")
	require.NotNil(t, err)
}

func TestPrintfParser_TrailingPercentIsParseError(t *testing.T) {
	p := NewPrintfParser("\n")
	_, err := Parse(p, "value%")
	require.NotNil(t, err)
}

func TestPrintfParser_EscapeLiteralRoundTrip(t *testing.T) {
	p := NewPrintfParser("\n")
	literal := "100% pure, %s not a param"
	escaped := p.EscapeLiteral(literal)
	tokens, err := Parse(p, escaped)
	require.Nil(t, err)
	var rendered string
	for _, tok := range tokens {
		require.False(t, tok.IsParam)
		rendered += tok.Literal
	}
	assert.Equal(t, literal, rendered)
}

func TestNewPrintfParser_NormalizesNewline(t *testing.T) {
	assert.Equal(t, "\n", NewPrintfParser("bogus").Newline)
	assert.Equal(t, "\r\n", NewPrintfParser("\r\n").Newline)
}
