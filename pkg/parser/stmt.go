package parser

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/token"
)

// ParseBlock parses a `{ statements... }` block. A statement that fails to
// parse is resynchronized rather than aborting the whole block, so one
// malformed line doesn't cascade into "unexpected token" noise for every
// statement after it.
func (p *Parser) ParseBlock() *ast.BlockStmt {
	start := p.cur().Span
	p.expect("{")

	var stmts []ast.Stmt
	for !p.at("}") && p.stream.CanAdvance() {
		before := p.stream.Position()
		stmts = append(stmts, p.ParseStatement())
		if p.stream.Position() == before {
			// Statement parsing made no progress; force it so the loop
			// cannot spin forever on an unrecognized token.
			p.advance()
		}
	}

	p.expect("}")
	return ast.NewBlockStmt(p.arena, start.Merge(p.lastSpan()), stmts)
}

// ParseStatement parses one statement, dispatching on the leading keyword or
// falling back to a declaration-vs-expression heuristic.
func (p *Parser) ParseStatement() ast.Stmt {
	t := p.cur()

	switch {
	case t.Kind == token.Delimiter && t.Text == "{":
		return p.ParseBlock()
	case t.Kind == token.Keyword && t.Text == "if":
		return p.parseIf()
	case t.Kind == token.Keyword && t.Text == "while":
		return p.parseWhile()
	case t.Kind == token.Keyword && t.Text == "do":
		return p.parseDoWhile()
	case t.Kind == token.Keyword && t.Text == "for":
		return p.parseFor()
	case t.Kind == token.Keyword && t.Text == "switch":
		return p.parseSwitch()
	case t.Kind == token.Keyword && t.Text == "return":
		return p.parseReturn()
	case t.Kind == token.Keyword && t.Text == "break":
		p.advance()
		p.expectSemicolon()
		return ast.NewJumpStmt(p.arena, t.Span.Merge(p.lastSpan()), ast.JumpBreak)
	case t.Kind == token.Keyword && t.Text == "continue":
		p.advance()
		p.expectSemicolon()
		return ast.NewJumpStmt(p.arena, t.Span.Merge(p.lastSpan()), ast.JumpContinue)
	case t.Kind == token.Keyword && t.Text == "discard":
		p.advance()
		p.expectSemicolon()
		return ast.NewJumpStmt(p.arena, t.Span.Merge(p.lastSpan()), ast.JumpDiscard)
	case p.looksLikeTypeStart():
		return p.parseDeclStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.advance().Span // 'if'
	p.expect("(")
	cond := p.ParseExpression()
	p.expect(")")
	then := p.ParseStatement()

	var els ast.Stmt
	if p.accept("else") {
		if p.at("if") {
			els = p.parseIf() // else-if chain: nest directly, no separate node
		} else {
			elseStart := p.lastSpan()
			body := p.ParseStatement()
			els = ast.NewElseStmt(p.arena, elseStart.Merge(body.Span()), body)
		}
	}

	end := then.Span()
	if els != nil {
		end = els.Span()
	}
	return ast.NewIfStmt(p.arena, start.Merge(end), cond, then, els)
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.advance().Span // 'while'
	p.expect("(")
	cond := p.ParseExpression()
	p.expect(")")
	body := p.ParseStatement()
	return ast.NewWhileStmt(p.arena, start.Merge(body.Span()), cond, body)
}

func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.advance().Span // 'do'
	body := p.ParseStatement()
	p.expect("while")
	p.expect("(")
	cond := p.ParseExpression()
	p.expect(")")
	p.expectSemicolon()
	return ast.NewDoWhileStmt(p.arena, start.Merge(p.lastSpan()), body, cond)
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.advance().Span // 'for'
	p.expect("(")

	var init ast.Stmt
	if !p.at(";") {
		if p.looksLikeTypeStart() {
			init = p.parseDeclStmtNoTerminatorCheck()
			p.expectSemicolon()
		} else {
			exprStart := p.cur().Span
			value := p.ParseExpression()
			p.expectSemicolon()
			init = ast.NewExprStmt(p.arena, exprStart.Merge(value.Span()), value)
		}
	} else {
		p.advance() // consume the bare ';'
	}

	var cond ast.Expr
	if !p.at(";") {
		cond = p.ParseExpression()
	} else {
		cond = ast.NewEmptyExpr(p.arena, p.cur().Span)
	}
	p.expectSemicolon()

	var step ast.Expr
	if !p.at(")") {
		step = p.ParseExpression()
	}
	p.expect(")")

	body := p.ParseStatement()
	return ast.NewForStmt(p.arena, start.Merge(body.Span()), init, cond, step, body)
}

func (p *Parser) parseSwitch() ast.Stmt {
	start := p.advance().Span // 'switch'
	p.expect("(")
	value := p.ParseExpression()
	p.expect(")")
	p.expect("{")

	var cases []*ast.CaseStmt
	sawDefault := false

	for !p.at("}") && p.stream.CanAdvance() {
		cases = append(cases, p.parseCase(&sawDefault))
	}

	p.expect("}")
	return ast.NewSwitchStmt(p.arena, start.Merge(p.lastSpan()), value, cases)
}

func (p *Parser) parseCase(sawDefault *bool) *ast.CaseStmt {
	start := p.cur().Span

	var value ast.Expr
	if p.accept("case") {
		value = p.ParseExpression()
	} else {
		p.expect("default")
		if *sawDefault {
			p.logger.Log(diag.DuplicateDefaultCase, start)
		}
		*sawDefault = true
	}
	p.expect(":")

	var stmts []ast.Stmt
	for !p.at("case") && !p.at("default") && !p.at("}") && p.stream.CanAdvance() {
		stmts = append(stmts, p.ParseStatement())
	}

	return ast.NewCaseStmt(p.arena, start.Merge(p.lastSpan()), value, stmts)
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.advance().Span // 'return'

	var value ast.Expr
	if !p.at(";") {
		value = p.ParseExpression()
	}
	p.expectSemicolon()

	return ast.NewReturnStmt(p.arena, start.Merge(p.lastSpan()), value)
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur().Span
	value := p.ParseExpression()
	p.expectSemicolon()
	return ast.NewExprStmt(p.arena, start.Merge(p.lastSpan()), value)
}

// parseDeclStmt parses `Type name [= init] (, name [= init])*;`.
func (p *Parser) parseDeclStmt() ast.Stmt {
	stmt := p.parseDeclStmtNoTerminatorCheck()
	p.expectSemicolon()
	return stmt
}

func (p *Parser) parseDeclStmtNoTerminatorCheck() ast.Stmt {
	start := p.cur().Span
	typeRef := p.parseTypeRef()

	var names []*ast.SymbolRef
	var inits []ast.Expr

	for {
		name, nameSpan := p.expectIdentifier()
		names = append(names, ast.NewSymbolRef(nameSpan, name, ast.RefIdentifier, false))

		var init ast.Expr
		if p.accept("=") {
			init = p.ParseExpression()
		}
		inits = append(inits, init)

		if !p.accept(",") {
			break
		}
	}

	return ast.NewDeclStmt(p.arena, start.Merge(p.lastSpan()), typeRef, names, inits)
}
