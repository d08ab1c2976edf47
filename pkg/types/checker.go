// Package types implements the type checker: the semantic pass that runs
// after name resolution and assigns every expression an inferred type,
// validates statement-level contracts (condition types, return types,
// index targets), resolves operator/compound-assignment overloads with
// implicit-cast insertion where an exact match doesn't exist, and checks
// explicit casts for validity.
//
// It is grounded on the original compiler's
// frontend/src/semantics/type_checker.cpp: a bottom-up expression checker
// dispatching on node kind, plus a parallel statement checker. Diagnostics
// are reported through the same pkg/diag.Logger used by every earlier
// pass.
package types

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// Checker is the type-checking pass over one already-resolved compilation
// unit. It mutates the AST in place (Expr.SetInferredType/SetTraits, and
// splicing synthetic CastExpr nodes in for implicit conversions) and
// records the operator overload it chose for every binary/unary/postfix/
// compound-assignment expression, since a SymbolRef can only be resolved
// once and the resolver may have left an operator's ref Unresolved for
// exactly this pass to settle (see resolver.resolveOperatorSymbol).
type Checker struct {
	logger *diag.Logger
	arena  *ast.Arena
	target *symbol.Assembly
	core   *symbol.Assembly

	// Operators records the operator overload chosen for each operator-like
	// expression this pass checked, keyed by the expression node itself.
	// pkg/ir does not read it: lowering picks opcodes from the operator
	// token.
	Operators map[ast.Expr]symbol.Handle

	currentType   symbol.Handle
	currentReturn symbol.Handle // enclosing function/operator's declared return type
	hasReturn     bool          // whether currentReturn is meaningful (false inside a constructor)
	loopDepth     int
}

// New builds a checker over target's table, additionally able to resolve
// built-in operator/cast lookups against the process-wide primitive
// assembly.
func New(target *symbol.Assembly, arena *ast.Arena, logger *diag.Logger) *Checker {
	return &Checker{
		logger:    logger,
		arena:     arena,
		target:    target,
		core:      symbol.Core(),
		Operators: make(map[ast.Expr]symbol.Handle),
	}
}

// Check walks every declaration in unit, type-checking function, operator
// and constructor bodies, and field initializers where they exist.
func (c *Checker) Check(unit *ast.CompilationUnit) {
	c.checkDecls(unit.Declarations)
}

func (c *Checker) checkDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.NamespaceDecl:
			c.checkDecls(n.Declarations)
		case *ast.StructDecl:
			c.checkType(n.Fields, n.Functions, n.Operators, n.Constructors)
		case *ast.ClassDecl:
			c.checkType(n.Fields, n.Functions, n.Operators, n.Constructors)
		}
	}
}

func (c *Checker) checkType(fields []*ast.FieldDecl, functions []*ast.FunctionDecl, operators []*ast.OperatorDecl, ctors []*ast.ConstructorDecl) {
	for _, fn := range functions {
		c.checkFunctionLike(fn.ReturnType, fn.Body)
	}
	for _, op := range operators {
		c.checkFunctionLike(op.ReturnType, op.Body)
	}
	for _, ctor := range ctors {
		c.checkFunctionLike(nil, ctor.Body)
	}
}

func (c *Checker) checkFunctionLike(ret *ast.SymbolRef, body *ast.BlockStmt) {
	if body == nil {
		return
	}

	prevReturn, prevHasReturn := c.currentReturn, c.hasReturn
	if ret != nil {
		if h, ok := handleOf(ret); ok {
			c.currentReturn, c.hasReturn = h, true
		} else {
			c.currentReturn, c.hasReturn = symbol.Handle{}, false
		}
	} else {
		c.currentReturn, c.hasReturn = symbol.Handle{}, false
	}

	c.checkStmt(body)

	c.currentReturn, c.hasReturn = prevReturn, prevHasReturn
}

// handleOf unwraps an already-resolved SymbolRef to the concrete symbol
// handle it carries, mirroring pkg/resolver's own helper of the same name:
// the type checker runs in a separate package from the resolver and reads
// the same opaque ast.SymbolHandle field, so it needs its own unwrap.
func handleOf(ref *ast.SymbolRef) (symbol.Handle, bool) {
	if ref == nil || !ref.IsResolved() {
		return symbol.Handle{}, false
	}
	h, ok := ref.Handle().(symbol.Handle)
	return h, ok
}
