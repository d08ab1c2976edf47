package symbol

import "github.com/hexaengine/hxslc/pkg/ast"

// Type narrows what kind of thing a symbol table node's metadata describes,
// used by the resolver's type sanity check to reject a reference that
// resolved to the wrong sort of symbol (e.g. a variable reference landing
// on a namespace).
type Type uint8

const (
	TypeUnknown Type = iota
	TypeNamespace
	TypePrimitive
	TypeStruct
	TypeClass
	TypeArray
	TypeField
	TypeParameter
	TypeVariable
	TypeFunction
	TypeOperator
	TypeConstructor
	TypeSwizzle
)

func (t Type) String() string {
	switch t {
	case TypeNamespace:
		return "namespace"
	case TypePrimitive:
		return "primitive"
	case TypeStruct:
		return "struct"
	case TypeClass:
		return "class"
	case TypeArray:
		return "array"
	case TypeField:
		return "field"
	case TypeParameter:
		return "parameter"
	case TypeVariable:
		return "variable"
	case TypeFunction:
		return "function"
	case TypeOperator:
		return "operator"
	case TypeConstructor:
		return "constructor"
	case TypeSwizzle:
		return "swizzle"
	default:
		return "unknown"
	}
}

// TypeFromDeclKind maps an ast.Kind to the Type a symbol standing for that
// declaration carries.
func TypeFromDeclKind(k ast.Kind) Type {
	switch k {
	case ast.KindNamespace:
		return TypeNamespace
	case ast.KindPrimitive:
		return TypePrimitive
	case ast.KindStruct:
		return TypeStruct
	case ast.KindClass:
		return TypeClass
	case ast.KindArray:
		return TypeArray
	case ast.KindField:
		return TypeField
	case ast.KindParameter:
		return TypeParameter
	case ast.KindDeclarationStatement:
		return TypeVariable
	case ast.KindFunctionOverload:
		return TypeFunction
	case ast.KindOperatorOverload:
		return TypeOperator
	case ast.KindConstructor:
		return TypeConstructor
	case ast.KindSwizzleDefinition:
		return TypeSwizzle
	default:
		return TypeUnknown
	}
}

// Access is the member access modifier recorded on a field/function symbol;
// it defaults to Public, matching the dialect's default visibility when no
// modifier keyword is written.
type Access uint8

const (
	AccessPublic Access = iota
	AccessPrivate
)

// Metadata is attached to a leaf symbol table node once it is given a
// declaration. A node with nil metadata is a pure path segment (e.g. the
// "engine" node of "engine.render.Light" carries no metadata of its own).
// Declaration is ast.Node rather than ast.Decl because a local variable's
// symbol is grounded on the ast.DeclStmt that introduced it, which (since
// it can name more than one variable at once, e.g. `float a, b;`) is a
// Stmt, not a Decl.
type Metadata struct {
	Kind        Type
	Access      Access
	Declaration ast.Node
}

// NewMetadata constructs metadata for decl, classifying its Type from the
// node's Kind.
func NewMetadata(decl ast.Node, access Access) *Metadata {
	return &Metadata{Kind: TypeFromDeclKind(decl.Kind()), Access: access, Declaration: decl}
}

// Accepts reports whether this metadata's Type is acceptable for a
// reference expecting want, per the resolver's type sanity check: a
// reference to a "struct" also accepts a primitive (primitives and structs
// are interchangeable as field/variable/parameter types), and an
// "identifier" reference accepts any value-shaped symbol.
func (m *Metadata) Accepts(want Type) bool {
	if want == TypeUnknown {
		return true
	}
	if m.Kind == want {
		return true
	}

	switch want {
	case TypeStruct, TypeClass:
		return m.Kind == TypePrimitive || m.Kind == TypeStruct || m.Kind == TypeClass || m.Kind == TypeArray
	case TypeVariable:
		return m.Kind == TypeField || m.Kind == TypeParameter || m.Kind == TypeVariable ||
			m.Kind == TypeStruct || m.Kind == TypeClass || m.Kind == TypePrimitive
	default:
		return false
	}
}
