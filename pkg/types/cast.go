package types

import (
	"fmt"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// numericScalars is every scalar HXSL.Core declares arithmetic on, in the
// order a value may widen through implicitly.
var numericScalars = []string{"int", "uint", "half", "float", "double"}

// implicitCasts lists, for each numeric scalar, the scalars a value of that
// type may silently widen to. HXSL.Core's built-in primitives don't
// declare explicit cast-operator overloads the way a user struct's
// `operatorT(S)` would (see core.go's addOperator) — the original's
// equivalent mechanism (OperatorFlags_Implicit, scanned for by
// ImplicitBinaryOperatorCheck) therefore has nothing on a built-in scalar
// to find. This fixed table stands in for that scan for the built-in
// numeric ladder; this grammar has no syntax for a user type to declare its
// own implicit cast operator, so this table is the only source of implicit
// conversions.
var implicitCasts = map[string][]string{
	"int":    {"float", "double"},
	"uint":   {"float", "double"},
	"half":   {"float", "double"},
	"float":  {"double"},
	"double": {},
	"bool":   {},
}

func isNumericScalar(name string) bool {
	for _, s := range numericScalars {
		if s == name {
			return true
		}
	}
	return false
}

func isUnsignedScalar(name string) bool { return name == "uint" }

// lookupScalar finds a built-in scalar's handle on HXSL.Core.
func (c *Checker) lookupScalar(name string) (symbol.Handle, bool) {
	h := c.core.Table.Root().FindPart(name)
	return h, h.Valid()
}

// findOperator looks up an exact `operatorOP(lhs,rhs)` (or single-operand
// `operatorOP(operand)`) overload on owner's own node — the same signature
// shape core.go's addOperator/addUnary and a collected user operator both
// use.
func findOperator(owner symbol.Handle, sig string) (symbol.Handle, bool) {
	h := owner.FindPart(sig)
	return h, h.Valid()
}

func binarySignature(op, lhs, rhs string) string {
	return fmt.Sprintf("operator%s(%s,%s)", op, lhs, rhs)
}

func unarySignature(op, operand string) string {
	return fmt.Sprintf("operator%s(%s)", op, operand)
}

// resolveBinaryOperator implements the original's BinaryOperatorCheck: an
// exact signature is tried on both operand types' own nodes first
// (ambiguous if both hit), then literal reinterpretation, then implicit
// cast insertion. lhs/rhs are mutated in place (the caller's *ast.Expr
// fields) when a cast is inserted or a literal is reinterpreted.
func (c *Checker) resolveBinaryOperator(site ast.Node, op string, lhs, rhs *ast.Expr, lhsType, rhsType symbol.Handle) (symbol.Handle, bool) {
	sig := binarySignature(op, lhsType.ShortName(), rhsType.ShortName())

	leftHit, leftOK := findOperator(lhsType, sig)
	rightHit, rightOK := findOperator(rhsType, sig)

	switch {
	case leftOK && rightOK:
		c.logAmbiguous(site, op)
		return symbol.Handle{}, false
	case leftOK:
		return leftHit, true
	case rightOK:
		return rightHit, true
	}

	if h, ok := c.tryLiteralReinterpret(op, lhs, rhsType); ok {
		return h, true
	}
	if h, ok := c.tryLiteralReinterpret(op, rhs, lhsType); ok {
		return h, true
	}

	return c.implicitBinaryOperatorCheck(site, op, lhs, rhs, lhsType, rhsType)
}

// tryLiteralReinterpret checks whether operand is a non-negative integer
// literal that can be silently retargeted at peerType (peerType must be
// unsigned), returning the resulting same-type(peerType,peerType) overload
// without inserting any cast node — the literal's own inferred type simply
// becomes peerType, mirroring TryLiteralReinterpret in the original.
func (c *Checker) tryLiteralReinterpret(op string, operand *ast.Expr, peerType symbol.Handle) (symbol.Handle, bool) {
	lit, ok := (*operand).(*ast.LiteralExpr)
	if !ok || lit.Num.Kind != ast.LiteralNumber {
		return symbol.Handle{}, false
	}
	if !isUnsignedScalar(peerType.ShortName()) || !literalIsNonNegative(lit) {
		return symbol.Handle{}, false
	}

	h, ok := findOperator(peerType, binarySignature(op, peerType.ShortName(), peerType.ShortName()))
	if !ok {
		return symbol.Handle{}, false
	}

	lit.SetInferredType(peerType)
	lit.SetTraits(ast.ExprTraits{Constant: true})
	return h, true
}

// operatorCandidate is one viable overload implicitBinaryOperatorCheck
// found by widening a single operand.
type operatorCandidate struct {
	handle   symbol.Handle
	castLeft bool
	castType symbol.Handle
}

// implicitBinaryOperatorCheck tries widening each operand in turn to every
// type it can implicitly cast to, looking for an exact signature match on
// the (possibly widened) pair. Exactly one surviving overload wins; more
// than one distinct overload is ambiguous; none is a genuine overload
// failure.
func (c *Checker) implicitBinaryOperatorCheck(site ast.Node, op string, lhs, rhs *ast.Expr, lhsType, rhsType symbol.Handle) (symbol.Handle, bool) {
	var candidates []operatorCandidate

	for _, target := range implicitCasts[lhsType.ShortName()] {
		targetHandle, ok := c.lookupScalar(target)
		if !ok {
			continue
		}
		sig := binarySignature(op, target, rhsType.ShortName())
		if h, ok := findOperator(targetHandle, sig); ok {
			candidates = append(candidates, operatorCandidate{handle: h, castLeft: true, castType: targetHandle})
		} else if h, ok := findOperator(rhsType, sig); ok {
			candidates = append(candidates, operatorCandidate{handle: h, castLeft: true, castType: targetHandle})
		}
	}
	for _, target := range implicitCasts[rhsType.ShortName()] {
		targetHandle, ok := c.lookupScalar(target)
		if !ok {
			continue
		}
		sig := binarySignature(op, lhsType.ShortName(), target)
		if h, ok := findOperator(lhsType, sig); ok {
			candidates = append(candidates, operatorCandidate{handle: h, castLeft: false, castType: targetHandle})
		} else if h, ok := findOperator(targetHandle, sig); ok {
			candidates = append(candidates, operatorCandidate{handle: h, castLeft: false, castType: targetHandle})
		}
	}

	if len(candidates) == 0 {
		c.logger.Log(diag.NoOverloadFound, site.Span(), "operator"+op)
		return symbol.Handle{}, false
	}
	if len(candidates) > 1 && !allSameOverload(candidates) {
		c.logAmbiguous(site, op)
		return symbol.Handle{}, false
	}

	winner := candidates[0]
	if winner.castLeft {
		*lhs = c.injectCast(*lhs, winner.castType)
	} else {
		*rhs = c.injectCast(*rhs, winner.castType)
	}
	return winner.handle, true
}

func allSameOverload(candidates []operatorCandidate) bool {
	first := candidates[0].handle.FullyQualifiedName()
	for _, cand := range candidates[1:] {
		if cand.handle.FullyQualifiedName() != first {
			return false
		}
	}
	return true
}

// resolveUnaryOperator looks up an `operatorOP(operandType)` overload,
// falling back to widening the operand through implicitCasts.
func (c *Checker) resolveUnaryOperator(site ast.Node, op string, operand *ast.Expr, operandType symbol.Handle) (symbol.Handle, bool) {
	if h, ok := findOperator(operandType, unarySignature(op, operandType.ShortName())); ok {
		return h, true
	}

	for _, target := range implicitCasts[operandType.ShortName()] {
		targetHandle, ok := c.lookupScalar(target)
		if !ok {
			continue
		}
		if h, ok := findOperator(targetHandle, unarySignature(op, target)); ok {
			*operand = c.injectCast(*operand, targetHandle)
			return h, true
		}
	}

	c.logger.Log(diag.NoOverloadFound, site.Span(), "operator"+op)
	return symbol.Handle{}, false
}

// injectCast splices a synthetic CastExpr around expr targeting typ, the
// same role InjectCast plays in the original: the AST now carries an
// explicit node for a conversion the source text never wrote, so pkg/ir's
// lowering sees a uniform Cast instruction rather than needing its own
// implicit-widening logic.
func (c *Checker) injectCast(expr ast.Expr, typ symbol.Handle) ast.Expr {
	ref := ast.NewSymbolRef(expr.Span(), typ.ShortName(), ast.RefType, false)
	ref.Resolve(typ)
	cast := ast.NewCastExpr(c.arena, expr.Span(), ref, expr)
	cast.SetInferredType(typ)
	cast.SetTraits(expr.Traits())
	return cast
}

// castValid reports whether an explicit `cast<to>(from)` is permitted:
// identical types trivially are, any numeric scalar may cast to any other
// (narrowing included, unlike the implicit ladder), and a vector may cast
// to another vector of the same dimension with a castable component
// scalar. Struct/class/array types have no conversion defined between
// distinct names.
func castValid(from, to symbol.Handle) bool {
	if sameType(from, to) {
		return true
	}

	fromName, toName := from.ShortName(), to.ShortName()
	if isNumericScalar(fromName) && isNumericScalar(toName) {
		return true
	}

	fromScalar, fromDim := splitVectorName(fromName)
	toScalar, toDim := splitVectorName(toName)
	if fromDim > 0 && fromDim == toDim && isNumericScalar(fromScalar) && isNumericScalar(toScalar) {
		return true
	}

	return false
}

// splitVectorName reports a generated vector type name's scalar base and
// dimension (e.g. "float3" -> "float", 3), or ("", 0) if name isn't shaped
// like one.
func splitVectorName(name string) (string, int) {
	if len(name) < 2 {
		return "", 0
	}
	last := name[len(name)-1]
	if last < '2' || last > '4' {
		return "", 0
	}
	return name[:len(name)-1], int(last - '0')
}

// convertTo checks whether value (of type valType) can be made to match
// target, inserting an implicit cast (or reinterpreting a literal in
// place) when it can't trivially already. ok is false when no conversion
// exists; the caller then decides whether a mismatch diagnostic is
// warranted (some call sites, like a ternary arm, tolerate leaving
// mismatched types for a later check to catch).
func (c *Checker) convertTo(value ast.Expr, valType, target symbol.Handle) (ast.Expr, bool) {
	if !valType.Valid() || !target.Valid() {
		return value, false
	}
	if sameType(valType, target) {
		return value, true
	}

	if lit, ok := value.(*ast.LiteralExpr); ok && lit.Num.Kind == ast.LiteralNumber {
		if isUnsignedScalar(target.ShortName()) && literalIsNonNegative(lit) {
			lit.SetInferredType(target)
			return lit, true
		}
	}

	for _, widened := range implicitCasts[valType.ShortName()] {
		if widened == target.ShortName() {
			return c.injectCast(value, target), true
		}
	}

	return value, false
}

func (c *Checker) logAmbiguous(site ast.Node, op string) {
	c.logger.Log(diag.AmbiguousOpOverload, site.Span(), "operator"+op)
}
