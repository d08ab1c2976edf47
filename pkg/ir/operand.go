package ir

import "github.com/hexaengine/hxslc/pkg/token"

// OperandKind tags which alternative of Operand is active, grounded on
// il_encoding.hpp's ILOperandKind_T (register/variable/label/type/func/
// field/immediate-by-width); the 5-bit field width the encoder packs three
// of these into a u16 header is mirrored by pkg/modfile.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandVariable
	OperandLabel
	OperandType
	OperandFunc
	OperandField
	OperandImmI8
	OperandImmU8
	OperandImmI16
	OperandImmU16
	OperandImmF16
	OperandImmI32
	OperandImmU32
	OperandImmF32
	OperandImmI64
	OperandImmU64
	OperandImmF64
)

// FieldRef is the payload of an OperandField operand: a (declaring type id,
// field id) pair, the wire shape il_encoding.hpp packs into one u64
// (typeId | fieldId<<32).
type FieldRef struct {
	TypeID  uint32
	FieldID uint32
}

// Operand is a tagged union over every value an instruction can read or
// write: an SSA variable, a basic-block label, a type/function reference,
// a struct field, or an immediate constant at one of the numeric widths.
type Operand struct {
	Kind  OperandKind
	Var   VarID
	Label int // basic-block index, valid when Kind == OperandLabel
	Field FieldRef
	Imm   token.Number
}

// VarOperand constructs a variable operand.
func VarOperand(v VarID) Operand { return Operand{Kind: OperandVariable, Var: v} }

// LabelOperand constructs a basic-block-label operand.
func LabelOperand(block int) Operand { return Operand{Kind: OperandLabel, Label: block} }

// FieldOperand constructs a struct-field operand.
func FieldOperand(typeID, fieldID uint32) Operand {
	return Operand{Kind: OperandField, Field: FieldRef{TypeID: typeID, FieldID: fieldID}}
}

// immKind maps a token.NumberKind to the OperandKind an immediate of that
// kind serializes as.
func immKind(k token.NumberKind) OperandKind {
	switch k {
	case token.NumberI8:
		return OperandImmI8
	case token.NumberU8:
		return OperandImmU8
	case token.NumberI16:
		return OperandImmI16
	case token.NumberU16:
		return OperandImmU16
	case token.NumberHalf:
		return OperandImmF16
	case token.NumberI32, token.NumberBool:
		return OperandImmI32
	case token.NumberU32:
		return OperandImmU32
	case token.NumberFloat:
		return OperandImmF32
	case token.NumberI64:
		return OperandImmI64
	case token.NumberU64:
		return OperandImmU64
	case token.NumberDouble:
		return OperandImmF64
	default:
		return OperandImmI32
	}
}

// ImmOperand constructs an immediate operand from a folded Number.
func ImmOperand(n token.Number) Operand {
	return Operand{Kind: immKind(n.Kind()), Imm: n}
}

// IsImmediate reports whether this operand is one of the immediate kinds.
func (o Operand) IsImmediate() bool {
	return o.Kind >= OperandImmI8 && o.Kind <= OperandImmF64
}

// IsZero reports whether this operand is an immediate whose value is the
// zero of its kind — the algebraic simplifier's IsZero predicate.
func (o Operand) IsZero() bool {
	return o.IsImmediate() && o.Imm.IsZero()
}

// IsOne reports whether this operand is an immediate equal to one.
func (o Operand) IsOne() bool {
	if !o.IsImmediate() {
		return false
	}
	return o.Imm.AsFloat64() == 1
}

// SameVariable reports whether a and b both name the same variable (raw id
// and SSA version); used by the simplifier's `x - x` / `x / x` checks.
func SameVariable(a, b Operand) bool {
	return a.Kind == OperandVariable && b.Kind == OperandVariable && a.Var == b.Var
}
