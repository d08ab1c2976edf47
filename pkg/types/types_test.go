package types_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/parser"
	"github.com/hexaengine/hxslc/pkg/resolver"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/symbol"
	"github.com/hexaengine/hxslc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, src string) (*ast.CompilationUnit, *symbol.Assembly, *diag.Logger) {
	t.Helper()

	mgr := source.NewManager()
	id := mgr.Add("t.hlsl", []byte(src))
	logger := diag.NewLogger(diag.DefaultLocale())
	toks := lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger).Tokenize()

	arena := ast.NewArena()
	p := parser.New(id, toks, arena, logger)
	unit := p.ParseCompilationUnit()
	require.Zero(t, logger.ErrorCount(), "parse errors: %v", logger.Messages())

	asm := symbol.NewAssembly("test")
	resolver.NewCollector(asm, logger).Collect(unit)
	resolver.New(asm, nil, arena, logger).Resolve(unit)
	require.Zero(t, logger.ErrorCount(), "resolve errors: %v", logger.Messages())

	types.New(asm, arena, logger).Check(unit)
	return unit, asm, logger
}

func returnExprOf(t *testing.T, asm *symbol.Assembly, path string) ast.Expr {
	t.Helper()

	fn := asm.Table.Root().FindFullPath(path)
	require.True(t, fn.Valid())
	decl := fn.Metadata().Declaration.(*ast.FunctionDecl)
	ret := decl.Body.Statements[0].(*ast.ReturnStmt)
	return ret.Value
}

func TestCheckerBindsExactBinaryOverload(t *testing.T) {
	_, asm, logger := check(t, `
		struct Particle {
			float lifetime;

			float Doubled() {
				return lifetime + lifetime;
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	bin := returnExprOf(t, asm, "Particle.Doubled()").(*ast.BinaryExpr)
	assert.Equal(t, "float", bin.InferredType().ShortName())
}

func TestCheckerInsertsImplicitWideningCast(t *testing.T) {
	_, asm, logger := check(t, `
		struct Particle {
			int count;
			float scale;

			float Weighted() {
				return count * scale;
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	bin := returnExprOf(t, asm, "Particle.Weighted()").(*ast.BinaryExpr)
	cast, ok := bin.Left.(*ast.CastExpr)
	require.True(t, ok, "expected left operand widened to a cast, got %T", bin.Left)
	assert.Equal(t, "float", cast.InferredType().ShortName())
	assert.Equal(t, "float", bin.InferredType().ShortName())
}

func TestCheckerReinterpretsNonNegativeLiteralAgainstUnsignedPeer(t *testing.T) {
	_, asm, logger := check(t, `
		struct Counter {
			uint value;

			uint PlusOne() {
				return value + 1;
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	bin := returnExprOf(t, asm, "Counter.PlusOne()").(*ast.BinaryExpr)
	lit, ok := bin.Right.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "uint", lit.InferredType().ShortName())
}

func TestCheckerRejectsNonBooleanCondition(t *testing.T) {
	_, _, logger := check(t, `
		struct Particle {
			int count;

			void Tick() {
				if (count) {
					count = count + 1;
				}
			}
		}
	`)
	assert.Positive(t, logger.ErrorCount())
}

func TestCheckerRejectsReturnTypeMismatch(t *testing.T) {
	_, _, logger := check(t, `
		struct Particle {
			bool alive;

			float IsAlive() {
				return alive;
			}
		}
	`)
	assert.Positive(t, logger.ErrorCount())
}

func TestCheckerValidatesExplicitCast(t *testing.T) {
	_, asm, logger := check(t, `
		struct Particle {
			float lifetime;

			int Rounded() {
				return cast<int>(lifetime);
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	c := returnExprOf(t, asm, "Particle.Rounded()").(*ast.CastExpr)
	assert.Equal(t, "int", c.InferredType().ShortName())
}

func TestCheckerUnifiesTernaryArmsViaImplicitCast(t *testing.T) {
	_, asm, logger := check(t, `
		struct Particle {
			bool alive;
			int count;

			float Score() {
				return alive ? count : 0.0f;
			}
		}
	`)
	assert.Zero(t, logger.ErrorCount())

	tern := returnExprOf(t, asm, "Particle.Score()").(*ast.TernaryExpr)
	assert.Equal(t, "float", tern.InferredType().ShortName())
}
