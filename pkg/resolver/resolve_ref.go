package resolver

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// wantFromRefKind maps a SymbolRef's expected kind to the Metadata.Accepts
// check it should pass; RefFunctionOrConstructor is handled separately by
// the caller since it accepts either of two kinds, not one with widening.
func wantFromRefKind(k ast.RefKind) symbol.Type {
	switch k {
	case ast.RefNamespace:
		return symbol.TypeNamespace
	case ast.RefFunctionOverload:
		return symbol.TypeFunction
	case ast.RefOperatorOverload:
		return symbol.TypeOperator
	case ast.RefConstructor:
		return symbol.TypeConstructor
	case ast.RefStruct, ast.RefType, ast.RefArrayType:
		return symbol.TypeStruct
	case ast.RefIdentifier:
		return symbol.TypeVariable
	case ast.RefMember:
		return symbol.TypeField
	default:
		return symbol.TypeUnknown
	}
}

// resolveRef resolves a single SymbolRef against the resolver's current
// scope, reporting SymbolNotFound/SymbolWrongKind and moving the ref to
// Failed on any problem. A nil or already-resolved ref is a no-op, so
// calling this on every TypeRef/ReturnType/etc. field unconditionally is
// always safe.
func (r *Resolver) resolveRef(ref *ast.SymbolRef) bool {
	if ref == nil || ref.IsResolved() || ref.IsFailed() {
		return ref == nil || ref.IsResolved()
	}

	handle, ok := r.lookup(ref.Name, ref.FullyQualified)
	if !ok {
		r.logger.Log(diag.SymbolNotFound, ref.Span, ref.Name)
		ref.Fail()
		return false
	}

	if ref.Kind == ast.RefFunctionOrConstructor {
		k := handle.Metadata().Kind
		if k != symbol.TypeFunction && k != symbol.TypeConstructor {
			r.logger.Log(diag.SymbolWrongKind, ref.Span, ref.Name, k.String())
			ref.Fail()
			return false
		}
	} else if !handle.Metadata().Accepts(wantFromRefKind(ref.Kind)) {
		r.logger.Log(diag.SymbolWrongKind, ref.Span, ref.Name, handle.Metadata().Kind.String())
		ref.Fail()
		return false
	}

	if ref.IsArray() {
		arrayHandle := r.arrays.Request(handle, ref.Name, ref.ArrayDims)
		ref.Resolve(arrayHandle)
		return true
	}

	ref.Resolve(handle)
	return true
}

// handleOf reads the symbol.Handle out of an already-resolved ref. Callers
// must only use this after resolveRef (or an equivalent direct Resolve)
// succeeded.
func handleOf(ref *ast.SymbolRef) (symbol.Handle, bool) {
	if ref == nil || !ref.IsResolved() {
		return symbol.Handle{}, false
	}
	h, ok := ref.Handle().(symbol.Handle)
	return h, ok
}
