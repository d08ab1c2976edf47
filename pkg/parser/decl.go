package parser

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/token"
)

// ParseCompilationUnit parses an entire file: a run of `using` directives
// followed by namespace-scoped declarations until EOF.
func (p *Parser) ParseCompilationUnit() *ast.CompilationUnit {
	start := p.cur().Span
	unit := ast.NewCompilationUnit(p.arena, start, p.fileID)
	builder := NewDeclContainerBuilder(p.logger)

	for p.at("using") {
		unit.Usings = append(unit.Usings, p.parseUsing())
	}

	for p.stream.CanAdvance() {
		before := p.stream.Position()
		if d := p.parseNamespaceMember(); d != nil {
			builder.AddNamespaceMember(unit, d)
		}
		if p.stream.Position() == before {
			p.advance()
		}
	}

	return unit
}

func (p *Parser) parseUsing() string {
	p.advance() // 'using'
	name, _ := p.parseQualifiedName()
	p.expectSemicolon()
	return name
}

// parseAttributes consumes zero or more `[Name(args...)]` annotations
// preceding a declaration.
func (p *Parser) parseAttributes() []*ast.AttributeDecl {
	var attrs []*ast.AttributeDecl

	for p.at("[") {
		start := p.advance().Span
		name, _ := p.expectIdentifier()

		var args []ast.Expr
		if p.accept("(") {
			if !p.at(")") {
				for {
					args = append(args, p.ParseExpression())
					if !p.accept(",") {
						break
					}
				}
			}
			p.expect(")")
		}
		p.expect("]")

		attrs = append(attrs, ast.NewAttributeDecl(p.arena, start.Merge(p.lastSpan()), name, args))
	}

	return attrs
}

// parseModifiers consumes any of "public"/"private"/"static"/"const" in any
// order, reporting a ModifierConflict if both access modifiers are present.
// It returns whether "static" was seen, which the caller uses to decide
// whether a member function gets an implicit `this`.
func (p *Parser) parseModifiers() bool {
	isStatic := false
	sawPublic, sawPrivate := false, false

	for {
		switch {
		case p.at("public"):
			span := p.advance().Span
			if sawPrivate {
				p.logger.Log(diag.ModifierConflict, span, "public", "private")
			}
			sawPublic = true
		case p.at("private"):
			span := p.advance().Span
			if sawPublic {
				p.logger.Log(diag.ModifierConflict, span, "private", "public")
			}
			sawPrivate = true
		case p.at("static"):
			p.advance()
			isStatic = true
		case p.at("const"):
			p.advance()
		default:
			return isStatic
		}
	}
}

// parseParameterList parses a parenthesized, comma-separated parameter list.
// A parameter that fails to parse is recovered via TryRecoverParameterList
// rather than abandoning the whole signature.
func (p *Parser) parseParameterList() []*ast.ParameterDecl {
	p.expect("(")

	var params []*ast.ParameterDecl
	for !p.at(")") && p.stream.CanAdvance() {
		param, ok := p.parseParameter()
		if !ok {
			if p.stream.TryRecoverParameterList() && p.accept(",") {
				continue
			}
			break
		}

		params = append(params, param)
		if !p.accept(",") {
			break
		}
	}

	p.expect(")")
	return params
}

func (p *Parser) parseParameter() (*ast.ParameterDecl, bool) {
	start := p.cur().Span

	in, out := true, false
	switch {
	case p.accept("in"):
	case p.accept("out"):
		in, out = false, true
	case p.accept("inout"):
		in, out = true, true
	}

	if !p.looksLikeTypeStart() {
		p.logger.Log(diag.ExpectedToken, p.cur().Span, "parameter type")
		return nil, false
	}

	typeRef := p.parseTypeRef()
	name, nameSpan := p.expectIdentifier()
	if name == "" {
		return nil, false
	}

	return ast.NewParameterDecl(p.arena, start.Merge(nameSpan), name, typeRef, in, out), true
}

// parseFunctionBody parses a `{ ... }` body, or consumes a trailing ';' and
// returns nil for a declaration-only prototype.
func (p *Parser) parseFunctionBody() *ast.BlockStmt {
	if p.at("{") {
		return p.ParseBlock()
	}
	p.expectSemicolon()
	return nil
}

// parseNamespaceMember parses one file- or namespace-scoped declaration:
// a namespace, a struct, a class, or a free function. Anything else
// resynchronizes at statement granularity and reports UnexpectedToken.
func (p *Parser) parseNamespaceMember() ast.Decl {
	start := p.cur().Span
	attrs := p.parseAttributes()
	p.parseModifiers()

	switch {
	case p.at("namespace"):
		return p.parseNamespaceDecl()
	case p.at("struct"):
		return p.parseStructDecl(attrs)
	case p.at("class"):
		return p.parseClassDecl(attrs)
	case p.looksLikeTypeStart():
		return p.parseFreeFunctionDecl(start, attrs)
	default:
		p.logger.Log(diag.UnexpectedToken, p.cur().Span, p.cur().Text)
		p.synchronizeStatement()
		return nil
	}
}

func (p *Parser) parseFreeFunctionDecl(start source.Span, attrs []*ast.AttributeDecl) ast.Decl {
	declStart := start
	retType := p.parseTypeRef()
	name, nameSpan := p.expectIdentifier()
	if !p.at("(") {
		return p.parseFieldDecl(declStart, name, nameSpan, retType, attrs)
	}
	params := p.parseParameterList()
	body := p.parseFunctionBody()

	fn := ast.NewFunctionDecl(p.arena, declStart.Merge(p.lastSpan()), name, params, retType, body)
	for _, a := range attrs {
		fn.AddAttr(a)
	}
	return fn
}

func (p *Parser) parseNamespaceDecl() ast.Decl {
	start := p.advance().Span // 'namespace'
	name, _ := p.parseQualifiedName()
	p.expect("{")

	var pending []ast.Decl
	for !p.at("}") && p.stream.CanAdvance() {
		before := p.stream.Position()
		if d := p.parseNamespaceMember(); d != nil {
			pending = append(pending, d)
		}
		if p.stream.Position() == before {
			p.advance()
		}
	}
	p.expect("}")

	ns := ast.NewNamespaceDecl(p.arena, start.Merge(p.lastSpan()), name)
	builder := NewDeclContainerBuilder(p.logger)
	for _, d := range pending {
		builder.AddNamespaceMember(ns, d)
	}
	return ns
}

func (p *Parser) parseStructDecl(attrs []*ast.AttributeDecl) ast.Decl {
	start := p.advance().Span // 'struct'
	name, _ := p.expectIdentifier()
	p.expect("{")

	var pending []ast.Decl
	for !p.at("}") && p.stream.CanAdvance() {
		before := p.stream.Position()
		if d := p.parseTypeMember(name); d != nil {
			pending = append(pending, d)
		}
		if p.stream.Position() == before {
			p.advance()
		}
	}
	p.expect("}")

	s := ast.NewStructDecl(p.arena, start.Merge(p.lastSpan()), name)
	for _, a := range attrs {
		s.AddAttr(a)
	}

	builder := NewDeclContainerBuilder(p.logger)
	for _, d := range pending {
		builder.AddTypeMember(s, d)
	}
	return s
}

func (p *Parser) parseClassDecl(attrs []*ast.AttributeDecl) ast.Decl {
	start := p.advance().Span // 'class'
	name, _ := p.expectIdentifier()

	var base *ast.SymbolRef
	if p.accept(":") {
		base = p.parseTypeRef()
	}

	p.expect("{")

	var pending []ast.Decl
	for !p.at("}") && p.stream.CanAdvance() {
		before := p.stream.Position()
		if d := p.parseTypeMember(name); d != nil {
			pending = append(pending, d)
		}
		if p.stream.Position() == before {
			p.advance()
		}
	}
	p.expect("}")

	c := ast.NewClassDecl(p.arena, start.Merge(p.lastSpan()), name, base)
	for _, a := range attrs {
		c.AddAttr(a)
	}

	builder := NewDeclContainerBuilder(p.logger)
	for _, d := range pending {
		builder.AddTypeMember(c, d)
	}
	return c
}

// parseTypeMember parses one member of a struct or class body: a nested
// namespace/struct/class (rejected by the container builder as out of
// scope, but still parsed so the tokens are consumed cleanly), a
// constructor, an operator overload, a method, or a field.
func (p *Parser) parseTypeMember(typeName string) ast.Decl {
	start := p.cur().Span
	attrs := p.parseAttributes()

	switch {
	case p.at("namespace"):
		return p.parseNamespaceDecl()
	case p.at("struct"):
		return p.parseStructDecl(attrs)
	case p.at("class"):
		return p.parseClassDecl(attrs)
	}

	isStatic := p.parseModifiers()

	if p.at("operator") {
		return p.parseOperatorDecl(start)
	}

	if p.cur().Kind == token.Identifier && p.cur().Text == typeName &&
		p.peek(1).Kind == token.Delimiter && p.peek(1).Text == "(" {
		return p.parseConstructorDecl(start, typeName)
	}

	if !p.looksLikeTypeStart() {
		p.logger.Log(diag.UnexpectedToken, p.cur().Span, p.cur().Text)
		p.synchronizeStatement()
		return nil
	}

	fieldType := p.parseTypeRef()
	name, nameSpan := p.expectIdentifier()

	if p.at("(") {
		return p.parseFunctionMember(start, name, fieldType, attrs, isStatic, typeName)
	}

	return p.parseFieldDecl(start, name, nameSpan, fieldType, attrs)
}

func (p *Parser) parseFunctionMember(start source.Span, name string, retType *ast.SymbolRef, attrs []*ast.AttributeDecl, isStatic bool, typeName string) ast.Decl {
	params := p.parseParameterList()
	body := p.parseFunctionBody()

	fn := ast.NewFunctionDecl(p.arena, start.Merge(p.lastSpan()), name, params, retType, body)
	for _, a := range attrs {
		fn.AddAttr(a)
	}

	if !isStatic {
		selfRef := ast.NewSymbolRef(start, typeName, ast.RefType, false)
		fn.SetThis(ast.NewThisDecl(p.arena, start, selfRef))
	}

	return fn
}

func (p *Parser) parseOperatorDecl(start source.Span) ast.Decl {
	p.advance() // 'operator'
	op := p.advance()
	params := p.parseParameterList()

	var ret *ast.SymbolRef
	if p.accept("->") {
		ret = p.parseTypeRef()
	} else {
		ret = ast.NewSymbolRef(op.Span, "void", ast.RefType, false)
	}

	body := p.parseFunctionBody()
	return ast.NewOperatorDecl(p.arena, start.Merge(p.lastSpan()), op.Text, params, ret, body)
}

func (p *Parser) parseConstructorDecl(start source.Span, typeName string) ast.Decl {
	p.advance() // the type name, used as the constructor's spelling
	params := p.parseParameterList()
	body := p.parseFunctionBody()
	return ast.NewConstructorDecl(p.arena, start.Merge(p.lastSpan()), params, body)
}

func (p *Parser) parseFieldDecl(start source.Span, name string, nameSpan source.Span, typeRef *ast.SymbolRef, attrs []*ast.AttributeDecl) ast.Decl {
	if dims, ok := p.tryParseArrayDims(); ok {
		typeRef.SetArrayDims(dims)
	}

	if p.at("=") {
		// Fields have no default-value initializer in this dialect (constant
		// buffer layout is fixed); report and skip it rather than silently
		// dropping an expression the author expected to matter.
		p.logger.Log(diag.UnexpectedToken, p.cur().Span, "=")
		p.advance()
		p.ParseExpression()
	}

	p.expectSemicolon()

	field := ast.NewFieldDecl(p.arena, start.Merge(nameSpan), name, typeRef)
	for _, a := range attrs {
		field.AddAttr(a)
	}
	return field
}
