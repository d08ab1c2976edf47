package symbol

import (
	"fmt"
	"strings"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/source"
)

// ArrayManager synthesizes `T[n0][n1]...` array symbols on demand into a
// table, memoizing by canonical name (`elemFQN[d0][d1]...`) so `int[4]`
// resolves to exactly one symbol no matter how many declarations reference
// it.
type ArrayManager struct {
	arena *ast.Arena
	table *Table
}

// NewArrayManager binds an array manager to the table it should populate;
// arena is where the synthesized ArrayDecl nodes are allocated.
func NewArrayManager(arena *ast.Arena, table *Table) *ArrayManager {
	return &ArrayManager{arena: arena, table: table}
}

// CanonicalName builds the memoization key for an array of dims over an
// element type whose fully-qualified name is elemFQN.
func CanonicalName(elemFQN string, dims []uint32) string {
	var b strings.Builder
	b.WriteString(elemFQN)
	for _, d := range dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}

// Request returns the array symbol over element with the given dims,
// synthesizing and inserting it the first time this exact shape is
// requested. element must already be resolved: array dimensions are parsed
// as integer literals and folded to constants before resolution reaches
// this point, so there is never a deferred element type to wait on here.
func (m *ArrayManager) Request(element Handle, elementRefName string, dims []uint32) Handle {
	name := CanonicalName(element.FullyQualifiedName(), dims)

	if existing := m.table.FindNodeFullPath(name, nil); existing.Valid() {
		return existing
	}

	elementRef := ast.NewSymbolRef(source.Span{}, elementRefName, ast.RefType, false)
	elementRef.Resolve(element)

	decl := ast.NewArrayDecl(m.arena, source.Span{}, name, elementRef, dims)
	return m.table.InsertSynthetic(name, NewMetadata(decl, AccessPublic), nil)
}
