package token

import "github.com/hexaengine/hxslc/pkg/source"

// Stream wraps a fully materialized token slice with a cursor; Peek looks
// ahead by indexing the slice. Used by both the preprocessor and the parser.
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream builds a stream over tokens. The slice is expected to end with
// an EOF token.
func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Current returns the token at the cursor without advancing.
func (s *Stream) Current() Token {
	if s.pos >= len(s.tokens) {
		return Token{Kind: EOF}
	}

	return s.tokens[s.pos]
}

// Peek looks ahead n tokens (0 == Current) without advancing.
func (s *Stream) Peek(n int) Token {
	idx := s.pos + n
	if idx >= len(s.tokens) || idx < 0 {
		return Token{Kind: EOF}
	}

	return s.tokens[idx]
}

// CanAdvance reports whether the stream has not yet reached EOF.
func (s *Stream) CanAdvance() bool {
	return s.Current().Kind != EOF
}

// Advance consumes the current token and returns it.
func (s *Stream) Advance() Token {
	t := s.Current()
	if s.pos < len(s.tokens) {
		s.pos++
	}

	return t
}

// Position returns the current cursor index, for span bookkeeping.
func (s *Stream) Position() int {
	return s.pos
}

// SetPosition rewinds or fast-forwards the cursor, used by recovery hooks.
func (s *Stream) SetPosition(pos int) {
	s.pos = pos
}

// TryDelimiter consumes the current token if it is the delimiter d.
func (s *Stream) TryDelimiter(d string) bool {
	if s.Current().Kind == Delimiter && s.Current().Text == d {
		s.Advance()
		return true
	}

	return false
}

// TryOperator consumes the current token if it is the operator op.
func (s *Stream) TryOperator(op string) bool {
	if s.Current().Kind == Operator && s.Current().Text == op {
		s.Advance()
		return true
	}

	return false
}

// SkipTrivia advances past Whitespace tokens, and also NewLine tokens when
// acrossLines is true.
func (s *Stream) SkipTrivia(acrossLines bool) {
	for {
		k := s.Current().Kind
		if k == Whitespace || (acrossLines && k == NewLine) {
			s.Advance()
			continue
		}

		return
	}
}

// SkipToEndOfLine advances past every token up to (not including) the next
// NewLine or EOF, used to consume the remainder of a malformed directive.
func (s *Stream) SkipToEndOfLine() []Token {
	var skipped []Token

	for s.Current().Kind != NewLine && s.Current().Kind != EOF {
		skipped = append(skipped, s.Advance())
	}

	return skipped
}

// TryRecoverParameterList skips forward until the next ',' or ')' delimiter
// at parenthesis depth 0, used to resynchronize after a malformed
// function-like macro or function parameter list.
func (s *Stream) TryRecoverParameterList() bool {
	depth := 0

	for s.CanAdvance() {
		t := s.Current()

		if t.Kind == Delimiter {
			switch t.Text {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					return true
				}
				depth--
			case ",":
				if depth == 0 {
					return true
				}
			}
		}

		if t.Kind == NewLine {
			return false
		}

		s.Advance()
	}

	return false
}

// Span returns the span of the current token, for diagnostic reporting.
func (s *Stream) Span() source.Span {
	return s.Current().Span
}
