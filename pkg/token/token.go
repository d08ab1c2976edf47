// Package token defines the lexical vocabulary shared by the preprocessor,
// lexer, and parser: token kinds, the Token itself, and the Number tagged
// union carried by numeric tokens.
package token

import "github.com/hexaengine/hxslc/pkg/source"

// Kind discriminates the token alternatives.
type Kind uint8

const (
	Identifier Kind = iota
	Keyword
	Operator
	Delimiter
	Numeric
	Literal // string literal
	NewLine
	Whitespace
	Comment
	Unknown
	EOF
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "Identifier"
	case Keyword:
		return "Keyword"
	case Operator:
		return "Operator"
	case Delimiter:
		return "Delimiter"
	case Numeric:
		return "Numeric"
	case Literal:
		return "Literal"
	case NewLine:
		return "NewLine"
	case Whitespace:
		return "Whitespace"
	case Comment:
		return "Comment"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a single lexical unit with its kind, source span, and (for
// Identifier/Keyword/Operator/Delimiter/Literal) the exact text it covers.
// Numeric tokens additionally carry a parsed Number.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Num  Number
}

// IsOneOf reports whether this token's text matches any of the given
// operator/delimiter/keyword spellings.
func (t Token) IsOneOf(texts ...string) bool {
	for _, s := range texts {
		if t.Text == s {
			return true
		}
	}

	return false
}
