package ast

import "github.com/hexaengine/hxslc/pkg/source"

// RefKind narrows what a SymbolRef is expected to resolve to, so the
// resolver can reject a name that exists but names the wrong sort of thing
// (e.g. a variable used where a type was required).
type RefKind uint8

const (
	RefUnknown RefKind = iota
	RefNamespace
	RefFunctionOverload
	RefOperatorOverload
	RefConstructor
	RefFunctionOrConstructor
	RefStruct
	RefIdentifier
	RefAttribute
	RefMember
	RefType
	RefArrayType
	RefAny
)

// RefState is the resolution state of a SymbolRef. A reference starts
// Unresolved, and the resolver moves it to exactly one of Resolved or
// Failed; it never moves back.
type RefState uint8

const (
	RefUnresolved RefState = iota
	RefResolved
	RefFailed
)

// SymbolHandle is an opaque pointer into a symbol table, owned by pkg/symbol.
// ast only stores it, so ast does not import pkg/symbol (which itself
// depends on ast node types for declarations).
type SymbolHandle interface{}

// SymbolRef is how AST nodes refer to names before and after resolution: a
// span naming the identifier, the kind of symbol expected, and — once the
// resolver runs — either a handle into the symbol table or a failure flag.
// A ref that is never looked at (e.g. a qualifier segment in a chain that
// got reinterpreted as a member access) simply stays Unresolved forever.
type SymbolRef struct {
	Span           source.Span
	Name           string
	Kind           RefKind
	State          RefState
	Deferred       bool
	FullyQualified bool
	ArrayDims      []uint32
	handle         SymbolHandle
}

// NewSymbolRef constructs an unresolved reference naming span, expected to
// resolve to a symbol of the given kind. name is the dotted short/qualified
// name the resolver looks up (see pkg/parser's parseQualifiedName for how
// "::"-separated source segments are folded into it).
func NewSymbolRef(span source.Span, name string, kind RefKind, fullyQualified bool) *SymbolRef {
	return &SymbolRef{Span: span, Name: name, Kind: kind, FullyQualified: fullyQualified}
}

func (r *SymbolRef) IsResolved() bool {
	return r.State == RefResolved
}

func (r *SymbolRef) IsFailed() bool {
	return r.State == RefFailed
}

func (r *SymbolRef) IsArray() bool {
	return len(r.ArrayDims) > 0
}

// Resolve records the symbol this reference names. Calling it twice on the
// same ref indicates a resolver bug, so it panics rather than silently
// overwriting an existing binding.
func (r *SymbolRef) Resolve(handle SymbolHandle) {
	if r.State != RefUnresolved {
		panic("ast: SymbolRef resolved more than once")
	}

	r.handle = handle
	r.State = RefResolved
}

// Fail marks this reference as not resolvable, e.g. because no symbol with
// the given name exists in any enclosing scope.
func (r *SymbolRef) Fail() {
	if r.State != RefUnresolved {
		panic("ast: SymbolRef failed after already being resolved")
	}

	r.State = RefFailed
}

// Handle returns the resolved symbol handle, panicking if this reference has
// not reached the Resolved state.
func (r *SymbolRef) Handle() SymbolHandle {
	if r.State != RefResolved {
		panic("ast: SymbolRef handle requested before resolution")
	}

	return r.handle
}

// SetArrayDims records that this reference names an array type with the
// given per-dimension sizes (0 meaning unsized/open). A Type ref promotes to
// an ArrayType ref the first time dimensions are attached, mirroring how a
// bare type name and "Type[4]" share one reference slot until the brackets
// are seen.
func (r *SymbolRef) SetArrayDims(dims []uint32) {
	r.ArrayDims = dims

	if r.Kind == RefType {
		r.Kind = RefArrayType
	}
}
