package parser

import (
	"strings"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/token"
)

// parseQualifiedName consumes one or more Identifier tokens joined by '::',
// returning the dotted-form name (segments joined with '.', matching the
// symbol table's path separator) and whether more than one segment was
// present, i.e. whether the name was written fully qualified.
func (p *Parser) parseQualifiedName() (name string, qualified bool) {
	first, _ := p.expectIdentifier()
	segments := []string{first}

	for p.at("::") {
		p.advance()
		seg, _ := p.expectIdentifier()
		segments = append(segments, seg)
	}

	return strings.Join(segments, "."), len(segments) > 1
}

// parseTypeRef parses a (possibly namespace-qualified) type name into a
// SymbolRef of kind RefType. Array dimensions, when present as a trailing
// `[n][m]...` suffix, are folded into the same ref via SetArrayDims.
func (p *Parser) parseTypeRef() *ast.SymbolRef {
	start := p.cur().Span
	var name string
	var qualified bool
	if isPrimitiveKeyword(p.cur()) {
		name = p.advance().Text
	} else {
		name, qualified = p.parseQualifiedName()
	}
	ref := ast.NewSymbolRef(start.Merge(p.lastSpan()), name, ast.RefType, qualified)

	if dims, ok := p.tryParseArrayDims(); ok {
		ref.SetArrayDims(dims)
	}

	return ref
}

// tryParseArrayDims parses zero or more `[N]` suffixes, where N is an
// unsigned integer literal (array dimensions must already be constant by
// the time the resolver's array manager sees them).
func (p *Parser) tryParseArrayDims() ([]uint32, bool) {
	var dims []uint32
	for p.at("[") {
		p.advance()
		if p.cur().Kind == token.Numeric {
			n := p.advance()
			dims = append(dims, uint32(n.Num.AsInt64()))
		} else {
			p.logger.Log(diag.ExpectedToken, p.cur().Span, "array dimension")
		}
		p.expect("]")
	}
	return dims, len(dims) > 0
}
