package symbol

import (
	"fmt"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/source"
)

// swizzleComponentIndex maps every accepted swizzle letter — both the
// position spelling (xyzw) and the color spelling (rgba) — to its 0-based
// component index.
var swizzleComponentIndex = map[byte]int{
	'x': 0, 'y': 1, 'z': 2, 'w': 3,
	'r': 0, 'g': 1, 'b': 2, 'a': 3,
}

// normalizeSwizzle rewrites pattern to its canonical x/y/z/w spelling — so
// "rgba" and "xyzw" memoize to the same synthesized field — and reports the
// component indices it selects. ok is false if pattern is empty, longer
// than four components, or mixes letters from both spellings.
func normalizeSwizzle(pattern string) (canonical string, indices []int, ok bool) {
	if len(pattern) == 0 || len(pattern) > 4 {
		return "", nil, false
	}

	const xyzw = "xyzw"
	usesPosition, usesColor := false, false
	buf := make([]byte, len(pattern))
	idx := make([]int, len(pattern))

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case 'x', 'y', 'z', 'w':
			usesPosition = true
		case 'r', 'g', 'b', 'a':
			usesColor = true
		default:
			return "", nil, false
		}
		if usesColor && usesPosition {
			return "", nil, false
		}
		idx[i] = swizzleComponentIndex[c]
		buf[i] = xyzw[idx[i]]
	}

	return string(buf), idx, true
}

// scalarNameOf strips a vector type name's trailing dimension digit, e.g.
// "float4" -> "float". Vector names are always generated this way (see
// vectorName in core.go), so this is a plain inverse, not a heuristic.
func scalarNameOf(vectorName string) string {
	i := len(vectorName)
	for i > 0 && vectorName[i-1] >= '0' && vectorName[i-1] <= '9' {
		i--
	}
	return vectorName[:i]
}

// SwizzleManager synthesizes swizzle field symbols (e.g. "xyz" on float4) on
// demand, memoizing by the owning vector node plus the canonical pattern so
// "rgba" and "xyzw" share one symbol.
type SwizzleManager struct {
	arena *ast.Arena
	table *Table
}

// NewSwizzleManager binds a swizzle manager to the table it should look up
// vector/scalar element types in and populate with synthesized fields;
// arena is where the synthesized SwizzleDecl nodes are allocated. In
// practice table is always symbol.Core().Table, since every vector type a
// swizzle could apply to lives there.
func NewSwizzleManager(arena *ast.Arena, table *Table) *SwizzleManager {
	return &SwizzleManager{arena: arena, table: table}
}

// Request returns the swizzle symbol for pattern on a vector with
// componentCount components (2, 3 or 4), synthesizing it the first time
// this exact (owner, canonical pattern) pair is seen. ok is false if
// pattern is malformed or selects a component beyond componentCount; the
// returned handle is then invalid and the caller should report the
// mismatch itself.
func (m *SwizzleManager) Request(owner Handle, componentCount int, pattern string) (result Handle, ok bool) {
	canonical, indices, valid := normalizeSwizzle(pattern)
	if !valid {
		return Handle{}, false
	}
	for _, i := range indices {
		if i >= componentCount {
			return Handle{}, false
		}
	}

	if existing := owner.FindPart(canonical); existing.Valid() {
		return existing, true
	}

	scalar := scalarNameOf(owner.ShortName())
	resultTypeName := scalar
	if len(indices) > 1 {
		resultTypeName = fmt.Sprintf("%s%d", scalar, len(indices))
	}

	resultType := m.table.FindNodePart(resultTypeName, nil)
	if !resultType.Valid() {
		return Handle{}, false
	}

	typeRef := ast.NewSymbolRef(source.Span{}, resultTypeName, ast.RefType, false)
	typeRef.Resolve(resultType)

	decl := ast.NewSwizzleDecl(m.arena, source.Span{}, canonical, typeRef)
	return m.table.InsertSynthetic(canonical, NewMetadata(decl, AccessPublic), owner.node), true
}
