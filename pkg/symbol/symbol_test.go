package symbol_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringPoolInternsEqualStrings(t *testing.T) {
	pool := symbol.NewStringPool()
	a := pool.Intern("float4")
	b := pool.Intern("float4")
	assert.Equal(t, 1, pool.Len())
	assert.Equal(t, a, b)
}

func TestTableInsertAndFindFullPath(t *testing.T) {
	table := symbol.NewTable()
	decl := ast.NewFieldDecl(ast.NewArena(), source.Span{}, "position", nil)
	h := table.Insert("MyStruct.position", symbol.NewMetadata(decl, symbol.AccessPublic), nil)
	require.True(t, h.Valid())

	found := table.Root().FindFullPath("MyStruct.position")
	require.True(t, found.Valid())
	assert.Equal(t, "position", found.ShortName())
	assert.Equal(t, "MyStruct.position", found.FullyQualifiedName())
}

func TestTableInsertDuplicateFails(t *testing.T) {
	table := symbol.NewTable()
	decl := ast.NewFieldDecl(ast.NewArena(), source.Span{}, "x", nil)
	first := table.Insert("Thing.x", symbol.NewMetadata(decl, symbol.AccessPublic), nil)
	require.True(t, first.Valid())

	second := table.Insert("Thing.x", symbol.NewMetadata(decl, symbol.AccessPublic), nil)
	assert.False(t, second.Valid())
}

func TestTableInsertPreservesCallSignatureAsOneSegment(t *testing.T) {
	table := symbol.NewTable()
	decl := ast.NewFunctionDecl(ast.NewArena(), source.Span{}, "foo", nil, nil, nil)
	h := table.Insert("foo(int,float)", symbol.NewMetadata(decl, symbol.AccessPublic), nil)
	require.True(t, h.Valid())
	assert.Equal(t, "foo(int,float)", h.ShortName())
}

func TestTableSealRejectsFurtherInserts(t *testing.T) {
	table := symbol.NewTable()
	table.Seal()
	decl := ast.NewFieldDecl(ast.NewArena(), source.Span{}, "x", nil)
	h := table.Insert("x", symbol.NewMetadata(decl, symbol.AccessPublic), nil)
	assert.False(t, h.Valid())
}

func TestTableRenameMovesEdgeKeepingChildren(t *testing.T) {
	table := symbol.NewTable()
	parent := ast.NewFieldDecl(ast.NewArena(), source.Span{}, "old", nil)
	h := table.Insert("old", symbol.NewMetadata(parent, symbol.AccessPublic), nil)
	require.True(t, table.Rename("new", h))

	assert.False(t, table.Root().FindPart("old").Valid())
	renamed := table.Root().FindPart("new")
	require.True(t, renamed.Valid())
	assert.Equal(t, "new", renamed.ShortName())
}

func TestMetadataAcceptsStructAlsoAcceptsPrimitiveAndArray(t *testing.T) {
	structMeta := &symbol.Metadata{Kind: symbol.TypeStruct}
	assert.True(t, structMeta.Accepts(symbol.TypeStruct))

	primMeta := &symbol.Metadata{Kind: symbol.TypePrimitive}
	assert.True(t, primMeta.Accepts(symbol.TypeStruct))

	arrMeta := &symbol.Metadata{Kind: symbol.TypeArray}
	assert.True(t, arrMeta.Accepts(symbol.TypeStruct))

	fnMeta := &symbol.Metadata{Kind: symbol.TypeFunction}
	assert.False(t, fnMeta.Accepts(symbol.TypeStruct))
}

func TestMetadataAcceptsVariableAcceptsFieldsAndParameters(t *testing.T) {
	assert.True(t, (&symbol.Metadata{Kind: symbol.TypeField}).Accepts(symbol.TypeVariable))
	assert.True(t, (&symbol.Metadata{Kind: symbol.TypeParameter}).Accepts(symbol.TypeVariable))
	assert.True(t, (&symbol.Metadata{Kind: symbol.TypeVariable}).Accepts(symbol.TypeVariable))
	assert.False(t, (&symbol.Metadata{Kind: symbol.TypeOperator}).Accepts(symbol.TypeVariable))
}

func TestCoreDeclaresScalarsAndVectors(t *testing.T) {
	core := symbol.Core()

	for _, name := range []string{"void", "bool", "int", "uint", "half", "float", "double"} {
		h := core.Table.Root().FindPart(name)
		assert.Truef(t, h.Valid(), "expected scalar %q in core", name)
	}

	for _, name := range []string{"float2", "float3", "float4", "int2", "bool4"} {
		h := core.Table.Root().FindPart(name)
		assert.Truef(t, h.Valid(), "expected vector %q in core", name)
	}

	m := core.Table.Root().FindPart("float4x4")
	assert.True(t, m.Valid())
}

func TestCoreSealedAfterBuild(t *testing.T) {
	core := symbol.Core()
	assert.True(t, core.Sealed())
}

func TestCoreArithmeticOperatorsOnFloat(t *testing.T) {
	core := symbol.Core()
	floatHandle := core.Table.Root().FindPart("float")
	require.True(t, floatHandle.Valid())

	plus := floatHandle.FindPart("operator+(float,float)")
	require.True(t, plus.Valid())
	assert.Equal(t, symbol.TypeOperator, plus.Metadata().Kind)

	cmp := floatHandle.FindPart("operator<(float,float)")
	require.True(t, cmp.Valid())
}

func TestCoreVectorOperatorsIncludeScalarVariant(t *testing.T) {
	core := symbol.Core()
	float4Handle := core.Table.Root().FindPart("float4")
	require.True(t, float4Handle.Valid())

	scaled := float4Handle.FindPart("operator*(float4,float)")
	assert.True(t, scaled.Valid())
}

func TestCoreTexture2DSampleIntrinsic(t *testing.T) {
	core := symbol.Core()
	texture := core.Table.Root().FindPart("Texture2D")
	require.True(t, texture.Valid())

	sample := texture.FindPart("Sample(SamplerState,float2)")
	require.True(t, sample.Valid())
	assert.Equal(t, symbol.TypeFunction, sample.Metadata().Kind)
}

func TestArrayManagerMemoizesByShape(t *testing.T) {
	core := symbol.Core()
	arena := ast.NewArena()
	mgr := symbol.NewArrayManager(arena, core.Table)

	floatHandle := core.Table.Root().FindPart("float")
	require.True(t, floatHandle.Valid())

	first := mgr.Request(floatHandle, "float", []uint32{4})
	require.True(t, first.Valid())
	assert.Equal(t, "float[4]", first.ShortName())

	second := mgr.Request(floatHandle, "float", []uint32{4})
	assert.Equal(t, first.FullyQualifiedName(), second.FullyQualifiedName())
}

func TestArrayManagerDistinguishesDimensions(t *testing.T) {
	core := symbol.Core()
	arena := ast.NewArena()
	mgr := symbol.NewArrayManager(arena, core.Table)

	floatHandle := core.Table.Root().FindPart("float")
	require.True(t, floatHandle.Valid())

	a := mgr.Request(floatHandle, "float", []uint32{4})
	b := mgr.Request(floatHandle, "float", []uint32{8})
	assert.NotEqual(t, a.ShortName(), b.ShortName())
}

func TestSwizzleManagerNormalizesColorAndPositionSpellings(t *testing.T) {
	core := symbol.Core()
	arena := ast.NewArena()
	mgr := symbol.NewSwizzleManager(arena, core.Table)

	float4Handle := core.Table.Root().FindPart("float4")
	require.True(t, float4Handle.Valid())

	xyz, ok := mgr.Request(float4Handle, 4, "xyz")
	require.True(t, ok)

	rgb, ok := mgr.Request(float4Handle, 4, "rgb")
	require.True(t, ok)

	assert.Equal(t, xyz.ShortName(), rgb.ShortName())
}

func TestSwizzleManagerSingleComponentReturnsScalarType(t *testing.T) {
	core := symbol.Core()
	arena := ast.NewArena()
	mgr := symbol.NewSwizzleManager(arena, core.Table)

	float3Handle := core.Table.Root().FindPart("float3")
	require.True(t, float3Handle.Valid())

	x, ok := mgr.Request(float3Handle, 3, "x")
	require.True(t, ok)
	decl, isSwizzle := x.Metadata().Declaration.(*ast.SwizzleDecl)
	require.True(t, isSwizzle)
	assert.Equal(t, "float", decl.TypeRef.Name)
}

func TestSwizzleManagerRejectsOutOfRangeComponent(t *testing.T) {
	core := symbol.Core()
	arena := ast.NewArena()
	mgr := symbol.NewSwizzleManager(arena, core.Table)

	float2Handle := core.Table.Root().FindPart("float2")
	require.True(t, float2Handle.Valid())

	_, ok := mgr.Request(float2Handle, 2, "z")
	assert.False(t, ok)
}

func TestSwizzleManagerRejectsMixedSpellings(t *testing.T) {
	core := symbol.Core()
	arena := ast.NewArena()
	mgr := symbol.NewSwizzleManager(arena, core.Table)

	float4Handle := core.Table.Root().FindPart("float4")
	require.True(t, float4Handle.Valid())

	_, ok := mgr.Request(float4Handle, 4, "xg")
	assert.False(t, ok)
}
