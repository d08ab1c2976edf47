package symbol

import "github.com/hexaengine/hxslc/pkg/ast"

// Assembly owns a symbol table plus the compilation-unit root it was built
// from, and can be sealed to forbid further mutation. The process-wide
// primitive assembly (see core.go) has no compilation-unit root of its own
// — it is seeded directly onto its table without ever going through the
// parser — so Root is nil there.
type Assembly struct {
	AssemblyName string
	Table        *Table
	Root         *ast.CompilationUnit
	References   []*Assembly
}

// NewAssembly constructs an empty, mutable assembly named name.
func NewAssembly(name string) *Assembly {
	return &Assembly{AssemblyName: name, Table: NewTable()}
}

// Seal forbids further declarations from being inserted into this
// assembly's table.
func (a *Assembly) Seal() {
	a.Table.Seal()
}

// Sealed reports whether Seal has been called.
func (a *Assembly) Sealed() bool {
	return a.Table.Sealed()
}

// Reference records that this assembly's resolver should also search other
// when a local lookup misses, mirroring a `using` of an external assembly
// rather than a namespace within the same compilation.
func (a *Assembly) Reference(other *Assembly) {
	a.References = append(a.References, other)
}
