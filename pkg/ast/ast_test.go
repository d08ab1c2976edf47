package ast_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span() source.Span {
	return source.NewSpan(0, 0, 1, 1, 1)
}

func TestKindClassifiers(t *testing.T) {
	assert.True(t, ast.IsDeclaration(ast.KindStruct))
	assert.True(t, ast.IsStatement(ast.KindIfStatement))
	assert.True(t, ast.IsExpression(ast.KindBinaryExpression))
	assert.False(t, ast.IsStatement(ast.KindBinaryExpression))
	assert.False(t, ast.IsExpression(ast.KindIfStatement))
	assert.True(t, ast.IsDataType(ast.KindStruct))
	assert.False(t, ast.IsDataType(ast.KindNamespace))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "BinaryExpression", ast.KindBinaryExpression.String())
	assert.Equal(t, "Unknown Kind", ast.Kind(250).String())
}

func TestArenaAssignsIncreasingIDs(t *testing.T) {
	a := ast.NewArena()

	lit1 := ast.NewLiteralExpr(a, span(), "1", ast.LiteralValue{Kind: ast.LiteralNumber, Bits: 1})
	lit2 := ast.NewLiteralExpr(a, span(), "2", ast.LiteralValue{Kind: ast.LiteralNumber, Bits: 2})

	assert.Less(t, lit1.ID(), lit2.ID())
	assert.Equal(t, 2, a.NodeCount())
}

func TestBinaryExprLinksChildParents(t *testing.T) {
	a := ast.NewArena()

	left := ast.NewLiteralExpr(a, span(), "1", ast.LiteralValue{})
	right := ast.NewLiteralExpr(a, span(), "2", ast.LiteralValue{})
	bin := ast.NewBinaryExpr(a, span(), "+", left, right)

	assert.Equal(t, ast.Node(bin), left.Parent())
	assert.Equal(t, ast.Node(bin), right.Parent())
	require.Len(t, bin.Children(), 2)
	assert.Equal(t, ast.RefOperatorOverload, bin.OperatorSymbol.Kind)
}

func TestFindAncestorLocatesEnclosingLoop(t *testing.T) {
	a := ast.NewArena()

	brk := ast.NewJumpStmt(a, span(), ast.JumpBreak)
	body := ast.NewBlockStmt(a, span(), []ast.Stmt{brk})
	loop := ast.NewWhileStmt(a, span(), ast.NewEmptyExpr(a, span()), body)

	found := ast.FindAncestor(brk, 0, ast.KindWhileStatement, ast.KindForStatement, ast.KindSwitchStatement)
	assert.Equal(t, ast.Node(loop), found)
}

func TestFindAncestorReturnsNilWithoutMatch(t *testing.T) {
	a := ast.NewArena()

	brk := ast.NewJumpStmt(a, span(), ast.JumpContinue)
	ast.NewBlockStmt(a, span(), []ast.Stmt{brk})

	found := ast.FindAncestor(brk, 0, ast.KindWhileStatement)
	assert.Nil(t, found)
}

func TestSymbolRefResolveAndFailAreMutuallyExclusive(t *testing.T) {
	ref := ast.NewSymbolRef(span(), "T", ast.RefType, false)
	assert.False(t, ref.IsResolved())

	ref.Resolve("handle")
	assert.True(t, ref.IsResolved())
	assert.Equal(t, "handle", ref.Handle())

	assert.Panics(t, func() { ref.Resolve("again") })
	assert.Panics(t, func() { ref.Fail() })
}

func TestSymbolRefArrayDimsPromotesTypeToArrayType(t *testing.T) {
	ref := ast.NewSymbolRef(span(), "T", ast.RefType, false)
	ref.SetArrayDims([]uint32{4})

	assert.Equal(t, ast.RefArrayType, ref.Kind)
	assert.True(t, ref.IsArray())
}

func TestCompilationUnitChildrenIncludeDeclarations(t *testing.T) {
	a := ast.NewArena()

	unit := ast.NewCompilationUnit(a, span(), 0)
	str := ast.NewStructDecl(a, span(), "Foo")
	unit.AddDeclaration(str)

	require.Len(t, unit.Children(), 1)
	assert.Equal(t, ast.Node(unit), str.Parent())
}

func TestStructDeclAddFieldLinksParent(t *testing.T) {
	a := ast.NewArena()

	str := ast.NewStructDecl(a, span(), "Foo")
	field := ast.NewFieldDecl(a, span(), "x", ast.NewSymbolRef(span(), "T", ast.RefType, false))
	str.AddField(field)

	assert.Equal(t, ast.Node(str), field.Parent())
	require.Len(t, str.Children(), 1)
}

func TestCaseStmtDefaultArmHasNilValue(t *testing.T) {
	a := ast.NewArena()

	def := ast.NewCaseStmt(a, span(), nil, nil)
	assert.Equal(t, ast.KindDefaultCaseStatement, def.Kind())

	cas := ast.NewCaseStmt(a, span(), ast.NewLiteralExpr(a, span(), "1", ast.LiteralValue{}), nil)
	assert.Equal(t, ast.KindCaseStatement, cas.Kind())
}
