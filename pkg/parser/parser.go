// Package parser builds an AST (pkg/ast) from a main-mode token stream
// (pkg/token) via a recursive-descent parser with a shunting-yard core for
// binary expressions. Malformed input is recovered rather than aborted:
// parameter lists resynchronize on the next top-level ',' or ')', statements
// on the next ';', '}', or declaration keyword.
package parser

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/token"
)

// declKeywords starts a new top-level or member declaration; statement-level
// recovery treats any of these as a safe resynchronization point even
// without a preceding ';' or '}'.
var declKeywords = map[string]bool{
	"namespace": true, "struct": true, "class": true, "using": true,
	"void": true, "bool": true, "int": true, "uint": true,
	"half": true, "float": true, "double": true,
}

// primitiveTypeKeywords are the built-in scalar type names recognized
// directly by the parser (rather than only resolved later against the
// primitive assembly), so a declaration statement can be distinguished from
// an expression statement without symbol information.
var primitiveTypeKeywords = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true,
	"half": true, "float": true, "double": true,
}

// Parser holds the mutable state of one parse over a single file's token
// stream: the stream itself, the arena every produced node is allocated
// from, and the diagnostic sink errors are reported to.
type Parser struct {
	stream *token.Stream
	arena  *ast.Arena
	logger *diag.Logger
	fileID source.ID
}

// New constructs a Parser over tokens already produced by the main-mode
// lexer configuration.
func New(fileID source.ID, tokens []token.Token, arena *ast.Arena, logger *diag.Logger) *Parser {
	return &Parser{stream: token.NewStream(tokens), arena: arena, logger: logger, fileID: fileID}
}

func (p *Parser) cur() token.Token       { return p.stream.Current() }
func (p *Parser) peek(n int) token.Token { return p.stream.Peek(n) }
func (p *Parser) advance() token.Token   { return p.stream.Advance() }

// lastSpan returns the span of the token just consumed (the one immediately
// before the cursor), used to close out a production's merged span.
func (p *Parser) lastSpan() source.Span {
	return p.peek(-1).Span
}

// at reports whether the current token is a delimiter/operator/keyword with
// the given text.
func (p *Parser) at(text string) bool {
	t := p.cur()
	return (t.Kind == token.Delimiter || t.Kind == token.Operator || t.Kind == token.Keyword) && t.Text == text
}

// accept consumes the current token if it matches text, reporting whether it
// did.
func (p *Parser) accept(text string) bool {
	if p.at(text) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches text, otherwise logs
// ExpectedToken and leaves the cursor in place for the caller's recovery.
func (p *Parser) expect(text string) (source.Span, bool) {
	if p.at(text) {
		t := p.advance()
		return t.Span, true
	}
	p.logger.Log(diag.ExpectedToken, p.cur().Span, text)
	return p.cur().Span, false
}

// expectSemicolon is expect(";") with its own diagnostic code, since a
// missing statement terminator is reported distinctly in the original
// diagnostic taxonomy.
func (p *Parser) expectSemicolon() {
	if !p.accept(";") {
		p.logger.Log(diag.ExpectedSemicolon, p.cur().Span)
	}
}

// expectIdentifier consumes an Identifier token, or logs ExpectedIdentifier
// and returns the empty string so callers can keep building a partial node.
func (p *Parser) expectIdentifier() (string, source.Span) {
	t := p.cur()
	if t.Kind == token.Identifier {
		p.advance()
		return t.Text, t.Span
	}
	p.logger.Log(diag.ExpectedIdentifier, t.Span)
	return "", t.Span
}

// isPrimitiveKeyword reports whether t is one of the built-in scalar type
// keywords.
func isPrimitiveKeyword(t token.Token) bool {
	return t.Kind == token.Keyword && primitiveTypeKeywords[t.Text]
}

// looksLikeTypeStart reports whether the current position can only begin a
// type reference: either a primitive keyword, or an identifier immediately
// followed by another identifier (or a '::' qualifier chain ending the same
// way). This is the same "identifier identifier" heuristic the statement
// parser uses to tell a declaration from an expression statement without
// consulting the symbol table, which has not run yet.
func (p *Parser) looksLikeTypeStart() bool {
	if isPrimitiveKeyword(p.cur()) {
		return true
	}
	if p.cur().Kind != token.Identifier {
		return false
	}

	i := 1
	for p.peek(i).Kind == token.Operator && p.peek(i).Text == "::" && p.peek(i+1).Kind == token.Identifier {
		i += 2
	}
	return p.peek(i).Kind == token.Identifier
}

// synchronizeStatement advances past tokens until a safe resumption point:
// a consumed ';', an unconsumed '}', or the start of a declaration keyword.
func (p *Parser) synchronizeStatement() {
	for p.stream.CanAdvance() {
		t := p.cur()

		if t.Kind == token.Delimiter && t.Text == "}" {
			return
		}
		if t.Kind == token.Delimiter && t.Text == ";" {
			p.advance()
			return
		}
		if t.Kind == token.Keyword && declKeywords[t.Text] {
			return
		}

		p.advance()
	}
}
