// Package ir implements the SSA-ish intermediate representation lowering
// produces: variables, operands, instructions, basic blocks, functions, and
// the module that owns all of it. It is grounded on spec.md's Data Model
// section for the IR (no original_source header for the IR's in-memory
// layout survived the distillation's filtering, only the wire-format
// encoder/decoder in il_encoding.hpp, which pkg/modfile's grounding draws
// on instead).
package ir

// VarID identifies an IR variable: the high 32 bits are a raw id stable for
// the lifetime of the variable (one per declared local/parameter/temporary),
// and the low 32 bits are an SSA version bumped on every write lowering
// produces for that raw id. Two VarIDs with the same raw id but different
// versions name the same source variable at different points in its
// lifetime, exactly as spec.md's "every write to a local variable produces a
// fresh version" describes.
type VarID uint64

// ssaVariableMask isolates a VarID's raw id when only the on-wire identity
// matters, not which SSA version produced it — il_encoding.hpp's
// `op.varId & SSA_VARIABLE_MASK` does the same truncation when writing a
// variable operand to the module stream.
const ssaVariableMask = 0xFFFFFFFF00000000

// NewVarID constructs version 0 of raw id.
func NewVarID(raw uint32) VarID {
	return VarID(uint64(raw) << 32)
}

// Raw returns the stable identity shared by every version of this variable.
func (v VarID) Raw() uint32 { return uint32(uint64(v) >> 32) }

// Version returns the SSA version this VarID names.
func (v VarID) Version() uint32 { return uint32(v) }

// WithVersion returns the same raw id at a different SSA version.
func (v VarID) WithVersion(version uint32) VarID {
	return VarID(uint64(v)&ssaVariableMask | uint64(version))
}

// WireID returns the 32-bit identity written to a module file for a
// variable operand — the raw id only, mirroring SSA_VARIABLE_MASK.
func (v VarID) WireID() uint32 { return v.Raw() }

// varAllocator hands out fresh raw variable ids and tracks each raw id's
// current SSA version during lowering.
type varAllocator struct {
	nextRaw  uint32
	versions map[uint32]uint32
}

func newVarAllocator() *varAllocator {
	return &varAllocator{versions: make(map[uint32]uint32)}
}

// declare reserves a new raw id (version 0) for a newly-declared variable.
func (a *varAllocator) declare() VarID {
	raw := a.nextRaw
	a.nextRaw++
	a.versions[raw] = 0
	return NewVarID(raw)
}

// fresh bumps raw's SSA version, as a new write to that variable does, and
// returns the new version's VarID.
func (a *varAllocator) fresh(raw uint32) VarID {
	a.versions[raw]++
	return NewVarID(raw).WithVersion(a.versions[raw])
}

// current returns raw's most recently written SSA version.
func (a *varAllocator) current(raw uint32) VarID {
	return NewVarID(raw).WithVersion(a.versions[raw])
}
