package resolver

import (
	"strings"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// resolveExpr dispatches on an expression's concrete type, resolving every
// SymbolRef it carries directly or through a member/call/operator lookup.
func (r *Resolver) resolveExpr(e ast.Expr) {
	if e == nil {
		return
	}

	switch n := e.(type) {
	case *ast.EmptyExpr, *ast.LiteralExpr:
		// No reference to resolve.

	case *ast.MemberRefExpr:
		r.resolveRef(n.Symbol)

	case *ast.MemberAccessExpr:
		r.resolveMemberAccess(n)

	case *ast.CallExpr:
		r.resolveCall(n)

	case *ast.IndexExpr:
		r.resolveExpr(n.Target)
		r.resolveExpr(n.Index)

	case *ast.CastExpr:
		r.resolveRef(n.TargetType)
		r.resolveExpr(n.Operand)

	case *ast.TernaryExpr:
		r.resolveExpr(n.Cond)
		r.resolveExpr(n.Then)
		r.resolveExpr(n.Else)

	case *ast.BinaryExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
		r.resolveOperatorSymbol(n.OperatorSymbol, n.Op, n.Left, n.Right)

	case *ast.UnaryExpr:
		r.resolveExpr(n.Operand)
		r.resolveOperatorSymbol(n.OperatorSymbol, n.Op, n.Operand)

	case *ast.PostfixExpr:
		r.resolveExpr(n.Operand)
		r.resolveOperatorSymbol(n.OperatorSymbol, n.Op, n.Operand)

	case *ast.AssignExpr:
		r.resolveExpr(n.Target)
		r.resolveExpr(n.Value)

	case *ast.CompoundAssignExpr:
		r.resolveExpr(n.Target)
		r.resolveExpr(n.Value)
		// A compound assignment reuses the plain binary operator's overload
		// (e.g. "+=" resolves the same overload "+" would) rather than a
		// separate operator grid being synthesized for every compound form.
		r.resolveOperatorSymbol(n.OperatorSymbol, strings.TrimSuffix(n.Op, "="), n.Target, n.Value)

	case *ast.InitExpr:
		for _, elem := range n.Elements {
			r.resolveExpr(elem)
		}
	}
}

// resolveMemberAccess resolves `target.member`: target is resolved first,
// then member is looked up as a field or (for a vector's component letters)
// a swizzle of target's resolved type, never against the lexical scope
// stack the way a bare identifier is.
func (r *Resolver) resolveMemberAccess(n *ast.MemberAccessExpr) {
	r.resolveExpr(n.Target)

	ref := n.Symbol
	if ref == nil || ref.IsResolved() || ref.IsFailed() {
		return
	}

	targetType, ok := r.exprType(n.Target)
	if !ok {
		r.logger.Log(diag.SymbolNotFound, ref.Span, ref.Name)
		ref.Fail()
		return
	}

	if member := targetType.FindPart(ref.Name); member.Valid() {
		kind := member.Metadata().Kind
		if kind != symbol.TypeField && kind != symbol.TypeSwizzle {
			r.logger.Log(diag.SymbolWrongKind, ref.Span, ref.Name, kind.String())
			ref.Fail()
			return
		}
		ref.Resolve(member)
		return
	}

	if meta := targetType.Metadata(); meta != nil && meta.Kind == symbol.TypePrimitive {
		if dim := vectorDimension(targetType.ShortName()); dim > 0 {
			if swizzleHandle, ok := r.swizzles.Request(targetType, dim, ref.Name); ok {
				ref.Resolve(swizzleHandle)
				return
			}
		}
	}

	r.logger.Log(diag.SymbolNotFound, ref.Span, ref.Name)
	ref.Fail()
}

// resolveCall resolves `callee(args...)`. The callee's own SymbolRef carries
// no name by itself (the parser's parsePostfixChain creates it with an
// empty name), so the call's name always comes from the callee expression:
// a bare MemberRefExpr names a free function or a type's constructor, a
// MemberAccessExpr names a method on its target's type.
func (r *Resolver) resolveCall(n *ast.CallExpr) {
	for _, arg := range n.Args {
		r.resolveExpr(arg.Value)
	}

	switch callee := n.Callee.(type) {
	case *ast.MemberRefExpr:
		r.resolveFreeCall(n, callee.Symbol)
	case *ast.MemberAccessExpr:
		r.resolveExpr(callee.Target)
		r.resolveMethodCall(n, callee)
	default:
		r.resolveExpr(n.Callee)
	}
}

// resolveFreeCall resolves a call whose callee is a bare name: first as a
// function or constructor reachable on the innermost enclosing type (an
// implicit `this.` call), then as a constructor of a type found by that
// name in scope.
func (r *Resolver) resolveFreeCall(n *ast.CallExpr, nameRef *ast.SymbolRef) {
	argTypes := r.argTypeNames(n.Args)

	if r.currentType.Valid() {
		if h, ok := r.findOverload(r.currentType, nameRef.Name, argTypes); ok {
			r.bindCall(n, nameRef, h)
			return
		}
	}

	if typeHandle, ok := r.lookupName(nameRef.Name); ok {
		meta := typeHandle.Metadata()
		if meta != nil && (meta.Kind == symbol.TypeStruct || meta.Kind == symbol.TypeClass || meta.Kind == symbol.TypePrimitive) {
			if h, ok := r.findOverload(typeHandle, "constructor", argTypes); ok {
				r.bindCall(n, nameRef, h)
				return
			}
			// No user-defined constructor matches: a bare type name called
			// like a function is still valid component-wise initializer
			// syntax (e.g. float3(1, 2, 3)); leave Symbol resolved to the
			// type itself and let the type checker validate arity.
			r.bindCall(n, nameRef, typeHandle)
			return
		}
		if meta != nil && (meta.Kind == symbol.TypeFunction || meta.Kind == symbol.TypeConstructor) {
			r.bindCall(n, nameRef, typeHandle)
			return
		}
	}

	r.logger.Log(diag.NoOverloadFound, nameRef.Span, nameRef.Name)
	nameRef.Fail()
	n.Symbol.Fail()
}

// resolveMethodCall resolves a call whose callee is `target.Method(...)`:
// Method is looked up as an overload on target's already-resolved type.
func (r *Resolver) resolveMethodCall(n *ast.CallExpr, callee *ast.MemberAccessExpr) {
	nameRef := callee.Symbol

	targetType, ok := r.exprType(callee.Target)
	if !ok {
		r.logger.Log(diag.SymbolNotFound, nameRef.Span, nameRef.Name)
		nameRef.Fail()
		n.Symbol.Fail()
		return
	}

	argTypes := r.argTypeNames(n.Args)
	if h, ok := r.findOverload(targetType, nameRef.Name, argTypes); ok {
		r.bindCall(n, nameRef, h)
		return
	}

	r.logger.Log(diag.NoOverloadFound, nameRef.Span, nameRef.Name)
	nameRef.Fail()
	n.Symbol.Fail()
}

// bindCall resolves both the callee's own reference and the call
// expression's Symbol to h, since downstream passes read either one.
func (r *Resolver) bindCall(n *ast.CallExpr, nameRef *ast.SymbolRef, h symbol.Handle) {
	if !nameRef.IsResolved() {
		nameRef.Resolve(h)
	}
	if !n.Symbol.IsResolved() {
		n.Symbol.Resolve(h)
	}
}

// findOverload looks up name's exact-signature match among owner's
// children first, falling back to a name-prefix match (first candidate
// wins) when an argument's type couldn't be inferred precisely. Genuine
// overload ambiguity is left for the type checker, which sees every
// argument's final type.
func (r *Resolver) findOverload(owner symbol.Handle, name string, argTypes []string) (symbol.Handle, bool) {
	sig := signatureFromTypeNames(name, argTypes)
	if h := owner.FindPart(sig); h.Valid() {
		return h, true
	}

	for _, candidate := range owner.ChildrenWithPrefix(name + "(") {
		if candidate.Metadata() != nil {
			return candidate, true
		}
	}
	return symbol.Handle{}, false
}

// argTypeNames resolves each call argument's type, reporting the empty
// string for any argument whose type couldn't be determined rather than
// failing the whole call — findOverload's prefix fallback covers the gap.
func (r *Resolver) argTypeNames(args []*ast.CallParamExpr) []string {
	names := make([]string, len(args))
	for i, arg := range args {
		if h, ok := r.exprType(arg.Value); ok {
			names[i] = h.ShortName()
		}
	}
	return names
}

// resolveOperatorSymbol resolves a binary/unary operator reference against
// its operands' resolved types, trying each operand's own type node as the
// owner in turn (built-in operators are declared under the primitive type
// that introduces them — see core.go's addOperator — and user-defined
// operators are collected the same way under their declaring struct/class,
// so an operand's resolved type handle is always the right place to look).
//
// This only ever resolves an exact operand-type match. A miss is left
// Unresolved rather than Failed: the type checker (pkg/types) is the pass
// that knows about implicit casts and numeric literal reinterpretation, so
// it alone decides whether a miss here is a genuine NoOverloadFound or
// recoverable by inserting a cast — resolving eagerly here would report the
// error a full pass too early and panic on the later Resolve attempt.
func (r *Resolver) resolveOperatorSymbol(ref *ast.SymbolRef, op string, operands ...ast.Expr) {
	if ref == nil || ref.IsResolved() || ref.IsFailed() {
		return
	}

	argTypes := make([]string, len(operands))
	var owners []symbol.Handle
	for i, operand := range operands {
		if h, ok := r.exprType(operand); ok {
			argTypes[i] = h.ShortName()
			owners = append(owners, h)
		}
	}

	sig := signatureFromTypeNames("operator"+op, argTypes)
	for _, owner := range owners {
		if h := owner.FindPart(sig); h.Valid() {
			ref.Resolve(h)
			return
		}
	}
}

// exprType best-effort infers the symbol handle of the type an already
// (partially) resolved expression evaluates to — just enough for member
// access, operator, and call overload resolution to find the right owner
// node. Full expression typing (e.g. through arbitrary arithmetic promotion
// rules) is the type checker's job; this only follows the direct paths a
// resolved SymbolRef already gives for free.
func (r *Resolver) exprType(e ast.Expr) (symbol.Handle, bool) {
	switch n := e.(type) {
	case *ast.MemberRefExpr:
		return r.symbolType(n.Symbol)
	case *ast.MemberAccessExpr:
		return r.symbolType(n.Symbol)
	case *ast.CallExpr:
		return r.symbolType(n.Symbol)
	case *ast.CastExpr:
		return handleOf(n.TargetType)
	case *ast.IndexExpr:
		return r.indexElementType(n)
	case *ast.TernaryExpr:
		return r.exprType(n.Then)
	case *ast.BinaryExpr:
		return r.symbolType(n.OperatorSymbol)
	case *ast.UnaryExpr:
		return r.symbolType(n.OperatorSymbol)
	case *ast.PostfixExpr:
		return r.exprType(n.Operand)
	case *ast.AssignExpr:
		return r.exprType(n.Target)
	case *ast.CompoundAssignExpr:
		return r.exprType(n.Target)
	default:
		return symbol.Handle{}, false
	}
}

// symbolType unwraps an already-resolved SymbolRef to the handle of the
// type it carries: a variable-shaped symbol reports its declared type, a
// function/operator reports its return type, a constructor reports its
// owning type, and a type-shaped symbol (struct/class/primitive/array)
// reports itself.
func (r *Resolver) symbolType(ref *ast.SymbolRef) (symbol.Handle, bool) {
	h, ok := handleOf(ref)
	if !ok {
		return symbol.Handle{}, false
	}

	meta := h.Metadata()
	if meta == nil {
		return symbol.Handle{}, false
	}

	switch meta.Kind {
	case symbol.TypeStruct, symbol.TypeClass, symbol.TypePrimitive, symbol.TypeArray:
		return h, true
	case symbol.TypeField, symbol.TypeParameter, symbol.TypeVariable:
		if tref, ok := declTypeRef(meta.Declaration); ok {
			return handleOf(tref)
		}
		return symbol.Handle{}, false
	case symbol.TypeFunction:
		fn, ok := meta.Declaration.(*ast.FunctionDecl)
		if !ok || fn.ReturnType == nil {
			return symbol.Handle{}, false
		}
		return handleOf(fn.ReturnType)
	case symbol.TypeOperator:
		op, ok := meta.Declaration.(*ast.OperatorDecl)
		if !ok || op.ReturnType == nil {
			return symbol.Handle{}, false
		}
		return handleOf(op.ReturnType)
	case symbol.TypeConstructor:
		return h.Parent(), true
	case symbol.TypeSwizzle:
		sw, ok := meta.Declaration.(*ast.SwizzleDecl)
		if !ok {
			return symbol.Handle{}, false
		}
		return handleOf(sw.TypeRef)
	default:
		return symbol.Handle{}, false
	}
}

// declTypeRef reads the type reference off whichever concrete declaration
// kind backs a variable-shaped symbol.
func declTypeRef(decl ast.Node) (*ast.SymbolRef, bool) {
	switch n := decl.(type) {
	case *ast.FieldDecl:
		return n.TypeRef, true
	case *ast.ParameterDecl:
		return n.TypeRef, true
	case *ast.DeclStmt:
		return n.TypeRef, true
	default:
		return nil, false
	}
}

// indexElementType resolves `target[i]`'s element type from target's
// resolved array symbol.
func (r *Resolver) indexElementType(n *ast.IndexExpr) (symbol.Handle, bool) {
	targetType, ok := r.exprType(n.Target)
	if !ok {
		return symbol.Handle{}, false
	}
	meta := targetType.Metadata()
	if meta == nil {
		return symbol.Handle{}, false
	}
	arr, ok := meta.Declaration.(*ast.ArrayDecl)
	if !ok {
		return symbol.Handle{}, false
	}
	return handleOf(arr.ElementType)
}

// vectorDimension reports a primitive type name's component count (2-4) if
// it's shaped like a generated vector name (scalar name + trailing digit,
// see core.go's vectorName), or 0 otherwise — in particular 0 for a matrix
// name like "float3x3", which contains a literal 'x'.
func vectorDimension(name string) int {
	if len(name) < 2 {
		return 0
	}
	last := name[len(name)-1]
	if last < '2' || last > '4' {
		return 0
	}
	if strings.ContainsRune(name[:len(name)-1], 'x') {
		return 0
	}
	return int(last - '0')
}
