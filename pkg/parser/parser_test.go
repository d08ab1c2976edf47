package parser_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/parser"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.CompilationUnit, *diag.Logger) {
	t.Helper()

	mgr := source.NewManager()
	id := mgr.Add("t.hlsl", []byte(src))
	logger := diag.NewLogger(diag.DefaultLocale())
	toks := lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger).Tokenize()

	p := parser.New(id, toks, ast.NewArena(), logger)
	return p.ParseCompilationUnit(), logger
}

func parseExpr(t *testing.T, src string) (ast.Expr, *diag.Logger) {
	t.Helper()

	mgr := source.NewManager()
	id := mgr.Add("t.hlsl", []byte(src))
	logger := diag.NewLogger(diag.DefaultLocale())
	toks := lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger).Tokenize()

	p := parser.New(id, toks, ast.NewArena(), logger)
	return p.ParseExpression(), logger
}

func TestBinaryExpressionPrecedence(t *testing.T) {
	expr, logger := parseExpr(t, "a + b * c")
	assert.Empty(t, logger.Messages())

	bin, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)

	rhs, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestBinaryExpressionLeftAssociative(t *testing.T) {
	expr, _ := parseExpr(t, "a - b - c")

	outer, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "-", outer.Op)

	lhs, ok := outer.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "-", lhs.Op)
}

func TestTernaryIsRightAssociative(t *testing.T) {
	expr, logger := parseExpr(t, "a ? b : c ? d : e")
	assert.Empty(t, logger.Messages())

	outer, ok := expr.(*ast.TernaryExpr)
	require.True(t, ok)

	_, innerIsTernary := outer.Else.(*ast.TernaryExpr)
	assert.True(t, innerIsTernary)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	expr, logger := parseExpr(t, "a = b = c")
	assert.Empty(t, logger.Messages())

	outer, ok := expr.(*ast.AssignExpr)
	require.True(t, ok)

	_, innerIsAssign := outer.Value.(*ast.AssignExpr)
	assert.True(t, innerIsAssign)
}

func TestCompoundAssignment(t *testing.T) {
	expr, _ := parseExpr(t, "x += 1")
	assign, ok := expr.(*ast.CompoundAssignExpr)
	require.True(t, ok)
	assert.Equal(t, "+=", assign.Op)
}

func TestCastExpression(t *testing.T) {
	expr, logger := parseExpr(t, "cast<float>(x)")
	assert.Empty(t, logger.Messages())

	c, ok := expr.(*ast.CastExpr)
	require.True(t, ok)
	assert.Equal(t, "float", c.TargetType.Name)
}

func TestMemberAccessAndCallChain(t *testing.T) {
	expr, logger := parseExpr(t, "a.b.c(1, 2)")
	assert.Empty(t, logger.Messages())

	call, ok := expr.(*ast.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)

	_, ok = call.Callee.(*ast.MemberAccessExpr)
	assert.True(t, ok)
}

func TestIndexExpression(t *testing.T) {
	expr, logger := parseExpr(t, "arr[0]")
	assert.Empty(t, logger.Messages())

	idx, ok := expr.(*ast.IndexExpr)
	require.True(t, ok)
	assert.NotNil(t, idx.Index)
}

func TestInitializerList(t *testing.T) {
	expr, logger := parseExpr(t, "{1, 2, 3}")
	assert.Empty(t, logger.Messages())

	init, ok := expr.(*ast.InitExpr)
	require.True(t, ok)
	assert.Len(t, init.Elements, 3)
}

func TestMissingOperandReportsDiagnostic(t *testing.T) {
	_, logger := parseExpr(t, "a + ")
	require.NotEmpty(t, logger.Messages())
	assert.Equal(t, diag.MissingOperand, logger.Messages()[0].Code)
}

func TestIfElseIfChainNests(t *testing.T) {
	unit, logger := parse(t, `
		void f() {
			if (a) { x; } else if (b) { y; } else { z; }
		}
	`)
	assert.Empty(t, logger.Messages())
	require.Len(t, unit.Declarations, 1)

	fn := unit.Declarations[0].(*ast.FunctionDecl)
	ifStmt := fn.Body.Statements[0].(*ast.IfStmt)
	require.NotNil(t, ifStmt.Else)

	nested, ok := ifStmt.Else.(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, nested.Else)
}

func TestForLoopWithDeclInit(t *testing.T) {
	unit, logger := parse(t, `
		void f() {
			for (int i = 0; i < 10; i += 1) {
				x;
			}
		}
	`)
	assert.Empty(t, logger.Messages())

	fn := unit.Declarations[0].(*ast.FunctionDecl)
	forStmt := fn.Body.Statements[0].(*ast.ForStmt)

	_, ok := forStmt.Init.(*ast.DeclStmt)
	assert.True(t, ok)
}

func TestSwitchDuplicateDefaultReportsDiagnostic(t *testing.T) {
	_, logger := parse(t, `
		void f() {
			switch (a) {
				default: x;
				default: y;
			}
		}
	`)
	require.NotEmpty(t, logger.Messages())
	assert.Equal(t, diag.DuplicateDefaultCase, logger.Messages()[0].Code)
}

func TestStructWithFieldsAndMethod(t *testing.T) {
	unit, logger := parse(t, `
		struct Particle {
			float3 position;
			float3 velocity;

			float speed() {
				return 0;
			}
		}
	`)
	assert.Empty(t, logger.Messages())
	require.Len(t, unit.Declarations, 1)

	s := unit.Declarations[0].(*ast.StructDecl)
	assert.Equal(t, "Particle", s.Name())
	assert.Len(t, s.Fields, 2)
	require.Len(t, s.Functions, 1)
	require.NotNil(t, s.Functions[0].This)
}

func TestClassWithBaseType(t *testing.T) {
	unit, logger := parse(t, `
		class Derived : Base {
			int value;
		}
	`)
	assert.Empty(t, logger.Messages())

	c := unit.Declarations[0].(*ast.ClassDecl)
	require.NotNil(t, c.BaseType)
	assert.Equal(t, "Base", c.BaseType.Name)
}

func TestConstructorDecl(t *testing.T) {
	unit, logger := parse(t, `
		struct Point {
			Point(int x, int y) {
				return;
			}
		}
	`)
	assert.Empty(t, logger.Messages())

	s := unit.Declarations[0].(*ast.StructDecl)
	require.Len(t, s.Constructors, 1)
	assert.Len(t, s.Constructors[0].Parameters, 2)
}

func TestOperatorOverloadWithReturnType(t *testing.T) {
	unit, logger := parse(t, `
		struct Vec2 {
			operator+ (Vec2 other) -> Vec2 {
				return other;
			}
		}
	`)
	assert.Empty(t, logger.Messages())

	s := unit.Declarations[0].(*ast.StructDecl)
	require.Len(t, s.Operators, 1)
	op := s.Operators[0]
	assert.Equal(t, "+", op.Op)
	assert.Equal(t, "Vec2", op.ReturnType.Name)
}

func TestOperatorOverloadDefaultsToVoidReturn(t *testing.T) {
	unit, _ := parse(t, `
		struct Vec2 {
			operator+ (Vec2 other) {
				return;
			}
		}
	`)

	s := unit.Declarations[0].(*ast.StructDecl)
	assert.Equal(t, "void", s.Operators[0].ReturnType.Name)
}

func TestStaticMethodHasNoImplicitThis(t *testing.T) {
	unit, _ := parse(t, `
		struct Util {
			static int zero() {
				return 0;
			}
		}
	`)

	s := unit.Declarations[0].(*ast.StructDecl)
	assert.Nil(t, s.Functions[0].This)
}

func TestConflictingAccessModifiersReportsDiagnostic(t *testing.T) {
	_, logger := parse(t, `
		struct S {
			public private int x;
		}
	`)
	require.NotEmpty(t, logger.Messages())
	assert.Equal(t, diag.ModifierConflict, logger.Messages()[0].Code)
}

func TestFieldArrayDimensions(t *testing.T) {
	unit, logger := parse(t, `
		struct S {
			float values[4];
		}
	`)
	assert.Empty(t, logger.Messages())

	s := unit.Declarations[0].(*ast.StructDecl)
	assert.Equal(t, []uint32{4}, s.Fields[0].TypeRef.ArrayDims)
}

func TestFieldInitializerIsRejected(t *testing.T) {
	_, logger := parse(t, `
		struct S {
			int x = 1;
		}
	`)
	require.NotEmpty(t, logger.Messages())
	assert.Equal(t, diag.UnexpectedToken, logger.Messages()[0].Code)
}

func TestNamespaceNestsStructDeclarations(t *testing.T) {
	unit, logger := parse(t, `
		namespace engine::render {
			struct Light {
				float intensity;
			}
		}
	`)
	assert.Empty(t, logger.Messages())

	ns := unit.Declarations[0].(*ast.NamespaceDecl)
	assert.Equal(t, "engine.render", ns.Name())
	require.Len(t, ns.Declarations, 1)

	_, ok := ns.Declarations[0].(*ast.StructDecl)
	assert.True(t, ok)
}

func TestFieldDeclaredAtNamespaceScopeIsOutOfScope(t *testing.T) {
	_, logger := parse(t, `
		namespace n {
			int x;
		}
	`)
	require.NotEmpty(t, logger.Messages())
	assert.Equal(t, diag.DeclarationOutOfScope, logger.Messages()[0].Code)
}

func TestUsingDirectivesCollected(t *testing.T) {
	unit, logger := parse(t, `
		using engine::core;
		using engine::render;

		void f() {}
	`)
	assert.Empty(t, logger.Messages())
	assert.Equal(t, []string{"engine.core", "engine.render"}, unit.Usings)
}

func TestParameterDirectionModifiers(t *testing.T) {
	unit, logger := parse(t, `
		void f(in float a, out float b, inout float c) {}
	`)
	assert.Empty(t, logger.Messages())

	fn := unit.Declarations[0].(*ast.FunctionDecl)
	require.Len(t, fn.Parameters, 3)
	assert.True(t, fn.Parameters[0].In)
	assert.False(t, fn.Parameters[0].Out)
	assert.True(t, fn.Parameters[1].Out)
	assert.False(t, fn.Parameters[1].In)
	assert.True(t, fn.Parameters[2].In)
	assert.True(t, fn.Parameters[2].Out)
}

func TestFunctionPrototypeHasNilBody(t *testing.T) {
	unit, logger := parse(t, `void f();`)
	assert.Empty(t, logger.Messages())

	fn := unit.Declarations[0].(*ast.FunctionDecl)
	assert.Nil(t, fn.Body)
}

func TestAttributeOnFunction(t *testing.T) {
	unit, logger := parse(t, `
		[Stage("pixel")]
		void main() {}
	`)
	assert.Empty(t, logger.Messages())

	fn := unit.Declarations[0].(*ast.FunctionDecl)
	require.Len(t, fn.Attrs, 1)
	assert.Equal(t, "Stage", fn.Attrs[0].Name())
	assert.Len(t, fn.Attrs[0].Args, 1)
}

func TestMalformedParameterListRecovers(t *testing.T) {
	unit, logger := parse(t, `
		void f(int, float b) {}
	`)
	require.NotEmpty(t, logger.Messages())
	require.Len(t, unit.Declarations, 1)

	fn := unit.Declarations[0].(*ast.FunctionDecl)
	require.NotNil(t, fn.Body)
}
