package types

import (
	"math"
	"strings"

	"github.com/hexaengine/hxslc/pkg/ast"
)

// literalScalarName recovers the primitive type a numeric literal's source
// text denotes. ast.LiteralExpr stores only a float64-bit-pattern payload
// (see ast.LiteralValue's doc comment), not the lexer's pkg/token.NumberKind
// — Text is preserved verbatim, though, so this is an exact reconstruction
// of the same suffix/shape rule pkg/lexer/number.go applies at scan time,
// not a lossy guess: the literal's original characters are still all here,
// just re-read a second time instead of threading the lexer's already-
// computed enum through pkg/parser and pkg/ast. See DESIGN.md for why this
// was chosen over extending ast.LiteralValue.
func literalScalarName(lit *ast.LiteralExpr) string {
	switch lit.Num.Kind {
	case ast.LiteralBool:
		return "bool"
	case ast.LiteralNumber:
		return numericLiteralScalarName(lit.Text)
	default:
		return ""
	}
}

// numericLiteralScalarName mirrors pkg/lexer/number.go's readSuffix/
// suffixKind table, restricted to the scalar names HXSL.Core actually
// declares (it has no 64-bit integer primitive, so an "l"/"L" or "ul"/"UL"
// suffix maps to the nearest declared kind rather than a wider one that
// doesn't exist).
func numericLiteralScalarName(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.HasSuffix(lower, "ul"), strings.HasSuffix(lower, "lu"):
		return "uint"
	case strings.HasSuffix(lower, "u"):
		return "uint"
	case strings.HasSuffix(lower, "l"):
		return "int"
	case strings.HasSuffix(lower, "h"):
		return "half"
	case strings.HasSuffix(lower, "f"):
		return "float"
	case strings.HasSuffix(lower, "d"):
		return "double"
	}

	isHex := strings.HasPrefix(lower, "0x")
	if !isHex && strings.ContainsAny(text, ".eE") {
		return "float"
	}
	return "int"
}

// literalFloat64 reads back the constant-folded payload ast.NewLiteralExpr
// stored via math.Float64bits.
func literalFloat64(lit *ast.LiteralExpr) float64 {
	return math.Float64frombits(lit.Num.Bits)
}

// literalIsNonNegative reports whether a numeric literal's folded value is
// representable as a non-negative integer, the condition the original's
// TryLiteralReinterpret uses to silently retarget an int literal at an
// unsigned parameter instead of requiring (or inserting) a cast.
func literalIsNonNegative(lit *ast.LiteralExpr) bool {
	return literalFloat64(lit) >= 0
}
