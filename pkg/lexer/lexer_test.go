package lexer_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string, cfg *lexer.Config) []token.Token {
	t.Helper()

	mgr := source.NewManager()
	id := mgr.Add("t.hlsl", []byte(src))
	l := lexer.New(mgr.Get(id), cfg, diag.NewLogger(diag.DefaultLocale()))

	return l.Tokenize()
}

func TestMainConfigDropsTrivia(t *testing.T) {
	toks := tokenize(t, "int x = 1 ;", lexer.NewMainConfig())

	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}

	assert.NotContains(t, kinds, token.Whitespace)
	assert.Equal(t, token.EOF, kinds[len(kinds)-1])
}

func TestKeywordNotMatchedWhenPrefixOfIdentifier(t *testing.T) {
	toks := tokenize(t, "intensity", lexer.NewMainConfig())
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, "intensity", toks[0].Text)
}

func TestOperatorLongestMatch(t *testing.T) {
	toks := tokenize(t, "a <<= b", lexer.NewMainConfig())
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, "<<=", toks[1].Text)
}

func TestLineColumnTrackingAcrossNewline(t *testing.T) {
	toks := tokenize(t, "int x;\nint y;", lexer.NewPreprocessorConfig())

	var secondInt token.Token
	seen := 0

	for _, tk := range toks {
		if tk.Kind == token.Keyword && tk.Text == "int" {
			seen++
			if seen == 2 {
				secondInt = tk
			}
		}
	}

	assert.Equal(t, 2, secondInt.Span.Line)
	assert.Equal(t, 1, secondInt.Span.Column)
}

func TestNumericLiteralKinds(t *testing.T) {
	toks := tokenize(t, "1 1.5f 0x1F 0b101", lexer.NewMainConfig())

	var nums []token.Token
	for _, tk := range toks {
		if tk.Kind == token.Numeric {
			nums = append(nums, tk)
		}
	}

	require.Len(t, nums, 4)
	assert.Equal(t, int64(1), nums[0].Num.AsInt64())
	assert.Equal(t, token.NumberFloat, nums[1].Num.Kind())
	assert.Equal(t, int64(31), nums[2].Num.AsInt64())
	assert.Equal(t, int64(5), nums[3].Num.AsInt64())
}

func TestStringLiteralWithEscape(t *testing.T) {
	toks := tokenize(t, `"a\"b"`, lexer.NewMainConfig())
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.Literal, toks[0].Kind)
	assert.Equal(t, `a\"b`, toks[0].Text)
}

func TestInvalidByteEmitsDiagnosticAndAdvances(t *testing.T) {
	mgr := source.NewManager()
	id := mgr.Add("t.hlsl", []byte("a`b"))
	logger := diag.NewLogger(diag.DefaultLocale())
	l := lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger)
	toks := l.Tokenize()

	require.Len(t, logger.Messages(), 1)
	assert.Equal(t, diag.InvalidToken, logger.Messages()[0].Code)

	var texts []string
	for _, tk := range toks {
		texts = append(texts, tk.Text)
	}

	assert.Contains(t, texts, "b")
}
