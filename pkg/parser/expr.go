package parser

import (
	"math"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/token"
)

// ParseExpression is the entry point for the hybrid expression parser: a
// recursive-descent production for assignment and ternary (both
// right-associative and below every binary operator), over a shunting-yard
// core for the binary operators themselves, over recursive-descent again for
// prefix, postfix, call, member, index and cast constructs.
func (p *Parser) ParseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	left := p.parseTernary()

	if t := p.cur(); t.Kind == token.Operator && isAssignmentOperator(t.Text) {
		p.advance()
		right := p.parseAssignment() // right-associative

		span := left.Span().Merge(right.Span())
		if t.Text == "=" {
			return ast.NewAssignExpr(p.arena, span, left, right)
		}
		return ast.NewCompoundAssignExpr(p.arena, span, t.Text, left, right)
	}

	return left
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseBinary(1)

	if p.at("?") {
		p.advance()
		then := p.ParseExpression()
		p.expect(":")
		els := p.parseAssignment() // right-associative, like the assignment it sits above

		return ast.NewTernaryExpr(p.arena, cond.Span().Merge(els.Span()), cond, then, els)
	}

	return cond
}

// parseBinary implements shunting-yard via precedence climbing: minPrec is
// the lowest-precedence operator this call is willing to consume, so each
// recursive step only absorbs operators binding at least as tight as its
// caller expects, which is what gives the flat binaryPrecedence table its
// left-associative grouping.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		t := p.cur()
		if t.Kind != token.Operator {
			break
		}

		prec, ok := binaryPrecedence[t.Text]
		if !ok || prec < minPrec {
			break
		}

		p.advance()
		right := p.parseBinary(prec + 1) // left-associative: next call demands strictly tighter
		left = ast.NewBinaryExpr(p.arena, left.Span().Merge(right.Span()), t.Text, left, right)
	}

	return left
}

func (p *Parser) parseUnary() ast.Expr {
	t := p.cur()

	if t.Kind == token.Operator && prefixUnaryOps[t.Text] {
		p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(p.arena, t.Span.Merge(operand.Span()), t.Text, operand)
	}

	if t.Kind == token.Operator && (t.Text == "++" || t.Text == "--") {
		p.advance()
		operand := p.parseUnary()
		return ast.NewPostfixExpr(p.arena, t.Span.Merge(operand.Span()), t.Text, operand, true)
	}

	return p.parsePostfixChain(p.parsePrimary())
}

// parsePostfixChain wraps expr in zero or more postfix productions: member
// access, indexing, call, and postfix increment/decrement, in the order
// they're written.
func (p *Parser) parsePostfixChain(expr ast.Expr) ast.Expr {
	for {
		switch {
		case p.at("."):
			p.advance()
			name, nameSpan := p.expectIdentifier()
			member := ast.NewSymbolRef(nameSpan, name, ast.RefMember, false)
			expr = ast.NewMemberAccessExpr(p.arena, expr.Span().Merge(nameSpan), expr, member)

		case p.at("["):
			p.advance()
			index := p.ParseExpression()
			p.expect("]")
			expr = ast.NewIndexExpr(p.arena, expr.Span().Merge(p.lastSpan()), expr, index)

		case p.at("("):
			p.advance()
			args := p.parseCallArgs()
			p.expect(")")
			ref := ast.NewSymbolRef(expr.Span(), "", ast.RefFunctionOrConstructor, false)
			expr = ast.NewCallExpr(p.arena, expr.Span().Merge(p.lastSpan()), expr, args, ref)

		case p.at("++") || p.at("--"):
			t := p.advance()
			expr = ast.NewPostfixExpr(p.arena, expr.Span().Merge(t.Span), t.Text, expr, false)

		default:
			return expr
		}
	}
}

// parseCallArgs parses a comma-separated argument list up to (not including)
// the closing ')'. There is no argument-level recovery: parsing stops at the
// first argument that is not followed by ',', and the caller's expect(")")
// reports whatever follows.
func (p *Parser) parseCallArgs() []*ast.CallParamExpr {
	var args []*ast.CallParamExpr

	if p.at(")") {
		return args
	}

	for {
		start := p.cur().Span
		value := p.ParseExpression()
		args = append(args, ast.NewCallParamExpr(p.arena, start.Merge(value.Span()), value))

		if !p.accept(",") {
			break
		}
	}

	return args
}

// parsePrimary parses a literal, identifier (possibly namespace-qualified),
// `this`, a parenthesized sub-expression, an explicit `cast<T>(expr)`, or a
// brace-enclosed initializer list.
func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()

	switch {
	case t.Kind == token.Numeric:
		p.advance()
		// Bits holds the IEEE-754 encoding of the value regardless of the
		// lexer's original integer/float NumberKind; the type checker
		// recovers the literal's scalar type by re-reading its suffix and
		// shape in Text, not from this payload.
		return ast.NewLiteralExpr(p.arena, t.Span, t.Text, ast.LiteralValue{Kind: ast.LiteralNumber, Bits: math.Float64bits(t.Num.AsFloat64())})

	case t.Kind == token.Literal:
		p.advance()
		return ast.NewLiteralExpr(p.arena, t.Span, t.Text, ast.LiteralValue{Kind: ast.LiteralString})

	case t.Kind == token.Keyword && (t.Text == "true" || t.Text == "false"):
		p.advance()
		bits := uint64(0)
		if t.Text == "true" {
			bits = 1
		}
		return ast.NewLiteralExpr(p.arena, t.Span, t.Text, ast.LiteralValue{Kind: ast.LiteralBool, Bits: bits})

	case t.Kind == token.Keyword && t.Text == "this":
		p.advance()
		ref := ast.NewSymbolRef(t.Span, "this", ast.RefIdentifier, false)
		return ast.NewMemberRefExpr(p.arena, t.Span, ref)

	case t.Kind == token.Keyword && t.Text == "cast":
		return p.parseCastExpr()

	case t.Kind == token.Delimiter && t.Text == "(":
		p.advance()
		inner := p.ParseExpression()
		p.expect(")")
		return inner

	case t.Kind == token.Delimiter && t.Text == "{":
		return p.parseInitExpr()

	case t.Kind == token.Identifier:
		start := t.Span
		name, qualified := p.parseQualifiedName()
		ref := ast.NewSymbolRef(start.Merge(p.lastSpan()), name, ast.RefIdentifier, qualified)
		return ast.NewMemberRefExpr(p.arena, ref.Span, ref)

	default:
		p.logger.Log(diag.MissingOperand, t.Span, t.Text)
		p.advance()
		return ast.NewEmptyExpr(p.arena, t.Span)
	}
}

// parseCastExpr parses the dialect's explicit `cast<Type>(expr)` form. The
// language has no C-style `(Type)expr` cast: that syntax is ambiguous with a
// parenthesized expression without symbol information, which the parser
// does not have, so `cast` is a dedicated keyword instead.
func (p *Parser) parseCastExpr() ast.Expr {
	start := p.advance().Span // 'cast'
	p.expect("<")
	target := p.parseTypeRef()
	p.expect(">")
	p.expect("(")
	operand := p.ParseExpression()
	p.expect(")")

	return ast.NewCastExpr(p.arena, start.Merge(p.lastSpan()), target, operand)
}

// parseInitExpr parses a brace-enclosed initializer list, `{a, b, c}`.
func (p *Parser) parseInitExpr() ast.Expr {
	start := p.advance().Span // '{'

	var elements []ast.Expr
	if !p.at("}") {
		for {
			elements = append(elements, p.ParseExpression())
			if !p.accept(",") {
				break
			}
		}
	}

	p.expect("}")
	return ast.NewInitExpr(p.arena, start.Merge(p.lastSpan()), elements)
}
