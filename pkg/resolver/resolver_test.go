package resolver_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/parser"
	"github.com/hexaengine/hxslc/pkg/resolver"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.CompilationUnit, *diag.Logger, *ast.Arena) {
	t.Helper()

	mgr := source.NewManager()
	id := mgr.Add("t.hlsl", []byte(src))
	logger := diag.NewLogger(diag.DefaultLocale())
	toks := lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger).Tokenize()

	arena := ast.NewArena()
	p := parser.New(id, toks, arena, logger)
	return p.ParseCompilationUnit(), logger, arena
}

func run(t *testing.T, src string) (*symbol.Assembly, *diag.Logger) {
	t.Helper()

	unit, logger, arena := parse(t, src)
	require.Zero(t, logger.ErrorCount(), "parse errors: %v", logger.Messages())

	asm := symbol.NewAssembly("test")
	resolver.NewCollector(asm, logger).Collect(unit)
	resolver.New(asm, nil, arena, logger).Resolve(unit)
	return asm, logger
}

func TestResolverBindsFieldTypeToCoreScalar(t *testing.T) {
	asm, logger := run(t, `
		struct Particle {
			float3 position;
			float lifetime;
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	field := asm.Table.Root().FindFullPath("Particle.position")
	require.True(t, field.Valid())
	require.True(t, field.Metadata() != nil)

	decl, ok := field.Metadata().Declaration.(*ast.FieldDecl)
	require.True(t, ok)
	require.True(t, decl.TypeRef.IsResolved())
	assert.Equal(t, "float3", decl.TypeRef.Name)
}

func TestResolverBindsMemberAccessToFieldAndSwizzle(t *testing.T) {
	asm, logger := run(t, `
		struct Particle {
			float3 position;

			float X() {
				return position.x;
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	fn := asm.Table.Root().FindFullPath("Particle.X()")
	require.True(t, fn.Valid())

	decl, ok := fn.Metadata().Declaration.(*ast.FunctionDecl)
	require.True(t, ok)
	require.NotNil(t, decl.Body)

	ret, ok := decl.Body.Statements[0].(*ast.ReturnStmt)
	require.True(t, ok)

	access, ok := ret.Value.(*ast.MemberAccessExpr)
	require.True(t, ok)
	require.True(t, access.Symbol.IsResolved())
	assert.Equal(t, symbol.TypeSwizzle, access.Symbol.Handle().(symbol.Handle).Metadata().Kind)
}

func TestResolverBindsLocalDeclarationAndInitializerReference(t *testing.T) {
	asm, logger := run(t, `
		struct Particle {
			float lifetime;

			float Scaled() {
				float t = lifetime;
				return t;
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	fn := asm.Table.Root().FindFullPath("Particle.Scaled()")
	require.True(t, fn.Valid())

	decl := fn.Metadata().Declaration.(*ast.FunctionDecl)
	declStmt, ok := decl.Body.Statements[0].(*ast.DeclStmt)
	require.True(t, ok)
	require.Len(t, declStmt.Names, 1)
	assert.True(t, declStmt.Names[0].IsResolved())

	init, ok := declStmt.Inits[0].(*ast.MemberRefExpr)
	require.True(t, ok)
	assert.True(t, init.Symbol.IsResolved())
}

func TestResolverBindsBinaryOperatorOverload(t *testing.T) {
	asm, logger := run(t, `
		struct Particle {
			float lifetime;

			float Doubled() {
				return lifetime + lifetime;
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	fn := asm.Table.Root().FindFullPath("Particle.Doubled()")
	require.True(t, fn.Valid())
	decl := fn.Metadata().Declaration.(*ast.FunctionDecl)
	ret := decl.Body.Statements[0].(*ast.ReturnStmt)

	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	require.True(t, bin.OperatorSymbol.IsResolved())

	h := bin.OperatorSymbol.Handle().(symbol.Handle)
	assert.Equal(t, symbol.TypeOperator, h.Metadata().Kind)
	assert.Equal(t, "operator+(float,float)", h.ShortName())
}

func TestResolverFailsOnUndefinedFieldType(t *testing.T) {
	_, logger := run(t, `
		struct Particle {
			Nonexistent value;
		}
	`)
	assert.Positive(t, logger.ErrorCount())
}

func TestResolverFailsOnDuplicateFieldDeclaration(t *testing.T) {
	_, logger := run(t, `
		struct Particle {
			float lifetime;
			float lifetime;
		}
	`)
	assert.Positive(t, logger.ErrorCount())
}

func TestResolverResolvesConstructorCall(t *testing.T) {
	asm, logger := run(t, `
		struct Particle {
			float3 position;

			Particle(float3 p) {
				position = p;
			}
		}

		struct System {
			Particle Spawn(float3 p) {
				return Particle(p);
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	fn := asm.Table.Root().FindFullPath("System.Spawn(float3)")
	require.True(t, fn.Valid())
	decl := fn.Metadata().Declaration.(*ast.FunctionDecl)
	ret := decl.Body.Statements[0].(*ast.ReturnStmt)

	call, ok := ret.Value.(*ast.CallExpr)
	require.True(t, ok)
	require.True(t, call.Symbol.IsResolved())
	assert.Equal(t, symbol.TypeConstructor, call.Symbol.Handle().(symbol.Handle).Metadata().Kind)
}
