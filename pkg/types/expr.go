package types

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// checkExpr type-checks e bottom-up, recording its inferred type and
// constant/mutable traits, and reports its resolved type to the caller so
// a containing expression or statement can react to it (insert a cast,
// reject a non-bool condition, etc). ok is false when e's type couldn't be
// determined at all (an unresolved reference, or an already-reported
// failure further down); callers should simply skip further checks that
// depend on it rather than cascading a second diagnostic.
func (c *Checker) checkExpr(e ast.Expr) (symbol.Handle, bool) {
	if e == nil {
		return symbol.Handle{}, false
	}

	var h symbol.Handle
	var ok bool
	traits := ast.ExprTraits{}

	switch n := e.(type) {
	case *ast.EmptyExpr:
		return symbol.Handle{}, false

	case *ast.LiteralExpr:
		h, ok = c.checkLiteral(n)
		traits.Constant = true

	case *ast.MemberRefExpr:
		h, ok = c.typeOfRef(n.Symbol)
		traits.Mutable = isAssignableKind(n.Symbol)

	case *ast.MemberAccessExpr:
		c.checkExpr(n.Target)
		h, ok = c.typeOfRef(n.Symbol)
		traits.Mutable = isAssignableKind(n.Symbol)

	case *ast.CallExpr:
		for _, arg := range n.Args {
			c.checkExpr(arg.Value)
		}
		h, ok = c.typeOfRef(n.Symbol)

	case *ast.IndexExpr:
		h, ok = c.checkIndex(n)
		traits.Mutable = true

	case *ast.CastExpr:
		h, ok = c.checkCast(n)

	case *ast.TernaryExpr:
		h, ok = c.checkTernary(n)

	case *ast.BinaryExpr:
		h, ok = c.checkBinary(n)

	case *ast.UnaryExpr:
		h, ok = c.checkUnary(n)

	case *ast.PostfixExpr:
		h, ok = c.checkPostfix(n)
		traits.Mutable = true

	case *ast.AssignExpr:
		h, ok = c.checkAssign(n)
		traits.Mutable = true

	case *ast.CompoundAssignExpr:
		h, ok = c.checkCompoundAssign(n)
		traits.Mutable = true

	case *ast.InitExpr:
		for _, elem := range n.Elements {
			c.checkExpr(elem)
		}
		return symbol.Handle{}, false

	default:
		return symbol.Handle{}, false
	}

	if ok {
		e.SetInferredType(h)
	}
	e.SetTraits(traits)
	return h, ok
}

// checkLiteral maps a literal to its primitive type: bool/string map
// directly, and a numeric literal maps via literalScalarName's
// reconstruction of the suffix/shape the source text carries.
func (c *Checker) checkLiteral(n *ast.LiteralExpr) (symbol.Handle, bool) {
	name := literalScalarName(n)
	if name == "" {
		return symbol.Handle{}, false
	}
	return c.lookupScalar(name)
}

func isAssignableKind(ref *ast.SymbolRef) bool {
	h, ok := handleOf(ref)
	if !ok {
		return false
	}
	meta := h.Metadata()
	if meta == nil {
		return false
	}
	switch meta.Kind {
	case symbol.TypeField, symbol.TypeParameter, symbol.TypeVariable, symbol.TypeSwizzle:
		return true
	default:
		return false
	}
}

// typeOfRef unwraps an already-resolved reference to the symbol handle of
// the type it carries, via valueType.
func (c *Checker) typeOfRef(ref *ast.SymbolRef) (symbol.Handle, bool) {
	h, ok := handleOf(ref)
	if !ok {
		return symbol.Handle{}, false
	}
	return c.valueType(h)
}

// valueType reports the type a symbol-shaped handle denotes when used as a
// value: a type-shaped symbol (struct/class/primitive/array) names itself,
// a field/parameter/local/swizzle names its declared type, a function or
// operator names its return type, and a constructor names its owning type.
// This mirrors pkg/resolver's unexported symbolType, kept as its own copy
// here rather than shared: the resolver's version exists to drive name
// lookup during collection/resolution, while this one is the type
// checker's own authoritative notion of an expression's value type and the
// two packages are not meant to depend on each other.
func (c *Checker) valueType(h symbol.Handle) (symbol.Handle, bool) {
	meta := h.Metadata()
	if meta == nil {
		return symbol.Handle{}, false
	}

	switch meta.Kind {
	case symbol.TypeStruct, symbol.TypeClass, symbol.TypePrimitive, symbol.TypeArray:
		return h, true
	case symbol.TypeField, symbol.TypeParameter, symbol.TypeVariable:
		if tref, ok := declTypeRef(meta.Declaration); ok {
			return c.typeOfRef(tref)
		}
	case symbol.TypeFunction:
		if fn, ok := meta.Declaration.(*ast.FunctionDecl); ok && fn.ReturnType != nil {
			return c.typeOfRef(fn.ReturnType)
		}
	case symbol.TypeOperator:
		if op, ok := meta.Declaration.(*ast.OperatorDecl); ok && op.ReturnType != nil {
			return c.typeOfRef(op.ReturnType)
		}
	case symbol.TypeConstructor:
		return h.Parent(), true
	case symbol.TypeSwizzle:
		if sw, ok := meta.Declaration.(*ast.SwizzleDecl); ok {
			return c.typeOfRef(sw.TypeRef)
		}
	}
	return symbol.Handle{}, false
}

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

// checkIndex validates `target[index]`: target must be array-shaped and
// index must be an integral scalar.
func (c *Checker) checkIndex(n *ast.IndexExpr) (symbol.Handle, bool) {
	targetType, targetOK := c.checkExpr(n.Target)
	indexType, indexOK := c.checkExpr(n.Index)

	if !targetOK {
		return symbol.Handle{}, false
	}
	meta := targetType.Metadata()
	if meta == nil || meta.Kind != symbol.TypeArray {
		c.logger.Log(diag.NonArrayIndexTarget, n.Target.Span(), targetType.ShortName())
		return symbol.Handle{}, false
	}
	arr, isArray := meta.Declaration.(*ast.ArrayDecl)
	if !isArray {
		c.logger.Log(diag.NonArrayIndexTarget, n.Target.Span(), targetType.ShortName())
		return symbol.Handle{}, false
	}

	if indexOK && indexType.ShortName() != "int" && indexType.ShortName() != "uint" {
		c.logger.Log(diag.NonIntegralIndex, n.Index.Span(), indexType.ShortName())
	}

	return c.typeOfRef(arr.ElementType)
}

// checkCast validates an explicit `cast<T>(expr)`.
func (c *Checker) checkCast(n *ast.CastExpr) (symbol.Handle, bool) {
	operandType, ok := c.checkExpr(n.Operand)
	targetType, targetOK := handleOf(n.TargetType)
	if !targetOK {
		return symbol.Handle{}, false
	}
	if !ok {
		return targetType, true
	}

	if !castValid(operandType, targetType) {
		c.logger.Log(diag.CannotCast, n.Span(), operandType.ShortName(), targetType.ShortName())
	}
	return targetType, true
}

// checkTernary validates `cond ? then : else`: cond must be bool, and
// then/else must agree on a common type (inserting an implicit cast on
// whichever side can widen to the other when they don't already match).
func (c *Checker) checkTernary(n *ast.TernaryExpr) (symbol.Handle, bool) {
	c.checkCondition(n.Cond)

	thenType, thenOK := c.checkExpr(n.Then)
	elseType, elseOK := c.checkExpr(n.Else)
	if !thenOK || !elseOK {
		return symbol.Handle{}, false
	}
	if sameType(thenType, elseType) {
		return thenType, true
	}

	if converted, ok := c.convertTo(n.Else, elseType, thenType); ok {
		n.Else = converted
		return thenType, true
	}
	if converted, ok := c.convertTo(n.Then, thenType, elseType); ok {
		n.Then = converted
		return elseType, true
	}

	c.logger.Log(diag.OperandTypesIncompatible, n.Span(), thenType.ShortName(), elseType.ShortName())
	return symbol.Handle{}, false
}

// checkBinary type-checks `left op right`, resolving the operator overload
// (with implicit-cast/literal-reinterpretation fallback) and recording the
// chosen overload in c.Operators.
func (c *Checker) checkBinary(n *ast.BinaryExpr) (symbol.Handle, bool) {
	lhsType, lhsOK := c.checkExpr(n.Left)
	rhsType, rhsOK := c.checkExpr(n.Right)
	if !lhsOK || !rhsOK {
		return symbol.Handle{}, false
	}

	h, ok := c.resolveBinaryOperator(n, n.Op, &n.Left, &n.Right, lhsType, rhsType)
	if !ok {
		return symbol.Handle{}, false
	}
	c.Operators[n] = h
	return c.valueType(h)
}

// checkUnary type-checks a prefix `-x`/`!x`/`~x` expression.
func (c *Checker) checkUnary(n *ast.UnaryExpr) (symbol.Handle, bool) {
	operandType, ok := c.checkExpr(n.Operand)
	if !ok {
		return symbol.Handle{}, false
	}

	h, ok := c.resolveUnaryOperator(n, n.Op, &n.Operand, operandType)
	if !ok {
		return symbol.Handle{}, false
	}
	c.Operators[n] = h
	return c.valueType(h)
}

// checkPostfix type-checks `x++`/`x--`/`++x`/`--x`. HXSL.Core seeds no
// `operator++`/`operator--` overloads at all (see core.go): increment and
// decrement are a built-in numeric-scalar operation, not user-overloadable
// in this dialect, so this only validates the operand's shape rather than
// doing an overload lookup.
func (c *Checker) checkPostfix(n *ast.PostfixExpr) (symbol.Handle, bool) {
	operandType, ok := c.checkExpr(n.Operand)
	if !ok {
		return symbol.Handle{}, false
	}
	if !isNumericScalar(operandType.ShortName()) || operandType.ShortName() == "bool" {
		c.logger.Log(diag.OperandTypesIncompatible, n.Span(), operandType.ShortName(), operandType.ShortName())
	}
	return operandType, true
}

// checkAssign type-checks `target = value`, converting value to target's
// type where an implicit conversion applies.
func (c *Checker) checkAssign(n *ast.AssignExpr) (symbol.Handle, bool) {
	targetType, targetOK := c.checkExpr(n.Target)
	valueType, valueOK := c.checkExpr(n.Value)
	if !targetOK {
		return symbol.Handle{}, false
	}
	if !valueOK {
		return targetType, true
	}

	if converted, ok := c.convertTo(n.Value, valueType, targetType); ok {
		n.Value = converted
	} else if !sameType(valueType, targetType) {
		c.logger.Log(diag.OperandTypesIncompatible, n.Span(), targetType.ShortName(), valueType.ShortName())
	}
	return targetType, true
}

// checkCompoundAssign type-checks `target op= value`: the implied binary
// operator is looked up the same way checkBinary does, but only the right
// operand is eligible for an inserted implicit cast (the target's type
// never changes), matching BinaryCompoundOperatorCheck in the original.
func (c *Checker) checkCompoundAssign(n *ast.CompoundAssignExpr) (symbol.Handle, bool) {
	targetType, targetOK := c.checkExpr(n.Target)
	valueType, valueOK := c.checkExpr(n.Value)
	if !targetOK || !valueOK {
		return symbol.Handle{}, false
	}

	op := n.Op[:len(n.Op)-1] // "+=" -> "+"
	sig := binarySignature(op, targetType.ShortName(), valueType.ShortName())
	if h, ok := findOperator(targetType, sig); ok {
		c.Operators[n] = h
		return targetType, true
	}
	if h, ok := findOperator(valueType, sig); ok {
		c.Operators[n] = h
		return targetType, true
	}

	for _, widened := range implicitCasts[valueType.ShortName()] {
		widenedHandle, ok := c.lookupScalar(widened)
		if !ok {
			continue
		}
		candidateSig := binarySignature(op, targetType.ShortName(), widened)
		if h, ok := findOperator(targetType, candidateSig); ok {
			n.Value = c.injectCast(n.Value, widenedHandle)
			c.Operators[n] = h
			return targetType, true
		}
	}

	if lit, ok := n.Value.(*ast.LiteralExpr); ok && lit.Num.Kind == ast.LiteralNumber && isUnsignedScalar(targetType.ShortName()) && literalIsNonNegative(lit) {
		if h, ok := findOperator(targetType, binarySignature(op, targetType.ShortName(), targetType.ShortName())); ok {
			lit.SetInferredType(targetType)
			c.Operators[n] = h
			return targetType, true
		}
	}

	c.logger.Log(diag.NoOverloadFound, n.Span(), "operator"+op)
	return symbol.Handle{}, false
}
