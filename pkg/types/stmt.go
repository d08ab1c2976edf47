package types

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// checkStmt dispatches statement-level checks: condition types, return
// type compatibility, and recursing into nested expressions/statements.
func (c *Checker) checkStmt(s ast.Stmt) {
	if s == nil {
		return
	}

	switch n := s.(type) {
	case *ast.BlockStmt:
		for _, stmt := range n.Statements {
			c.checkStmt(stmt)
		}

	case *ast.DeclStmt:
		c.checkDeclStmt(n)

	case *ast.AssignStmt:
		c.checkExpr(n.Assign)

	case *ast.CompoundAssignStmt:
		c.checkExpr(n.Assign)

	case *ast.ExprStmt:
		c.checkExpr(n.Value)

	case *ast.ReturnStmt:
		c.checkReturnStmt(n)

	case *ast.IfStmt:
		c.checkCondition(n.Cond)
		c.checkStmt(n.Then)
		c.checkStmt(n.Else)

	case *ast.ElseStmt:
		c.checkStmt(n.Body)

	case *ast.WhileStmt:
		c.checkCondition(n.Cond)
		c.loopDepth++
		c.checkStmt(n.Body)
		c.loopDepth--

	case *ast.DoWhileStmt:
		c.loopDepth++
		c.checkStmt(n.Body)
		c.loopDepth--
		c.checkCondition(n.Cond)

	case *ast.ForStmt:
		c.checkStmt(n.Init)
		if n.Cond != nil {
			if _, ok := n.Cond.(*ast.EmptyExpr); !ok {
				c.checkCondition(n.Cond)
			}
		}
		if n.Step != nil {
			c.checkExpr(n.Step)
		}
		c.loopDepth++
		c.checkStmt(n.Body)
		c.loopDepth--

	case *ast.SwitchStmt:
		c.checkExpr(n.Value)
		for _, cs := range n.Cases {
			c.checkStmt(cs)
		}

	case *ast.CaseStmt:
		if n.Value != nil {
			c.checkExpr(n.Value)
		}
		for _, stmt := range n.Statements {
			c.checkStmt(stmt)
		}

	case *ast.JumpStmt:
		// A break needs an enclosing loop or switch. A continue outside a
		// loop and a discard outside a pixel-stage function are not
		// reported.
		if n.Op == ast.JumpBreak && c.loopDepth == 0 && ast.FindAncestor(n, 0, ast.KindSwitchStatement) == nil {
			c.logger.Log(diag.UnexpectedBreak, n.Span())
		}
	}
}

// checkDeclStmt type-checks each initializer against its declared type,
// inserting an implicit cast (or reinterpreting a literal) the same way a
// plain assignment would.
func (c *Checker) checkDeclStmt(n *ast.DeclStmt) {
	declType, ok := handleOf(n.TypeRef)
	if !ok {
		return
	}

	for i, init := range n.Inits {
		if init == nil {
			continue
		}
		initType, ok := c.checkExpr(init)
		if !ok {
			continue
		}
		if converted, ok := c.convertTo(init, initType, declType); ok {
			n.Inits[i] = converted
		}
	}
}

// checkReturnStmt validates a return statement's value (if any) against
// the enclosing function/operator's declared return type.
func (c *Checker) checkReturnStmt(n *ast.ReturnStmt) {
	if n.Value == nil {
		if c.hasReturn && c.currentReturn.Valid() && c.currentReturn.ShortName() != "void" {
			c.logger.Log(diag.ReturnTypeDoesNotMatch, n.Span(), "void", c.currentReturn.ShortName())
		}
		return
	}

	valType, ok := c.checkExpr(n.Value)
	if !ok || !c.hasReturn {
		return
	}

	if converted, ok := c.convertTo(n.Value, valType, c.currentReturn); ok {
		n.Value = converted
		return
	}

	if !sameType(valType, c.currentReturn) {
		c.logger.Log(diag.ReturnTypeDoesNotMatch, n.Span(), valType.ShortName(), c.currentReturn.ShortName())
	}
}

// checkCondition type-checks cond and requires it to be exactly bool; a
// shader dialect this size has no truthy-numeric coercion the way C does.
func (c *Checker) checkCondition(cond ast.Expr) {
	condType, ok := c.checkExpr(cond)
	if !ok {
		return
	}
	if condType.ShortName() != "bool" {
		c.logger.Log(diag.NonBooleanCondition, cond.Span(), condType.ShortName())
	}
}

// sameType reports whether a and b name the same symbol node.
func sameType(a, b symbol.Handle) bool {
	return a.Valid() && b.Valid() && a.FullyQualifiedName() == b.FullyQualifiedName()
}
