package ir_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/parser"
	"github.com/hexaengine/hxslc/pkg/resolver"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/symbol"
	"github.com/hexaengine/hxslc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, src string) (*ir.Module, *diag.Logger) {
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

	checker := types.New(asm, arena, logger)
	checker.Check(unit)
	require.Zero(t, logger.ErrorCount(), "check errors: %v", logger.Messages())

	return ir.Build(unit, checker), logger
}

func findFunction(m *ir.Module, name string) *ir.Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestBuildLowersSimpleArithmeticReturn(t *testing.T) {
	m, _ := build(t, `
		struct Particle {
			float lifetime;

			float Doubled() {
				return lifetime + lifetime;
			}
		}
	`)

	fn := findFunction(m, "Particle.Doubled")
	require.NotNil(t, fn)

	entry := fn.Entry()
	require.NotEmpty(t, entry.Instructions)

	var foundAdd, foundReturn bool
	for _, in := range entry.Instructions {
		switch in.OpCode {
		case ir.OpAdd:
			foundAdd = true
		case ir.OpReturn:
			foundReturn = true
		}
	}
	assert.True(t, foundAdd, "expected an add instruction")
	assert.True(t, foundReturn, "expected a return instruction")
}

func TestBuildConstantFoldsLiteralArithmetic(t *testing.T) {
	m, _ := build(t, `
		struct Constants {
			int Sum() {
				return 1 + 2;
			}
		}
	`)

	fn := findFunction(m, "Constants.Sum")
	require.NotNil(t, fn)

	entry := fn.Entry()
	for _, in := range entry.Instructions {
		assert.NotEqual(t, ir.OpAdd, in.OpCode, "constant addition should fold away")
	}

	ret := entry.Instructions[len(entry.Instructions)-1]
	require.Equal(t, ir.OpReturn, ret.OpCode)
	require.True(t, ret.Left.IsImmediate())
	assert.Equal(t, int64(3), ret.Left.Imm.AsInt64())
}

func TestBuildEachLocalAssignmentBumpsSSAVersion(t *testing.T) {
	m, _ := build(t, `
		struct Counter {
			int Next() {
				int x = 0;
				x = x + 1;
				x = x + 1;
				return x;
			}
		}
	`)

	fn := findFunction(m, "Counter.Next")
	require.NotNil(t, fn)

	var writes []ir.VarID
	for _, in := range fn.Entry().Instructions {
		if in.Result.Kind == ir.OperandVariable {
			writes = append(writes, in.Result.Var)
		}
	}
	require.GreaterOrEqual(t, len(writes), 3)

	raw := writes[0].Raw()
	seen := map[uint32]bool{}
	for _, v := range writes {
		if v.Raw() == raw {
			assert.False(t, seen[v.Version()], "SSA version %d reused for raw %d", v.Version(), raw)
			seen[v.Version()] = true
		}
	}
	assert.GreaterOrEqual(t, len(seen), 3, "expected 3 distinct SSA versions for x")
}

func TestBuildIfStmtProducesBranchAndMergeBlocks(t *testing.T) {
	m, _ := build(t, `
		struct Chooser {
			int Pick(int a) {
				if (a > 0) {
					return 1;
				} else {
					return 0;
				}
			}
		}
	`)

	fn := findFunction(m, "Chooser.Pick")
	require.NotNil(t, fn)
	assert.GreaterOrEqual(t, len(fn.Blocks), 3)
	assert.Equal(t, ir.ControlFlowBranch, fn.Entry().Type)
}

func TestBuildWhileLoopLinksBackEdge(t *testing.T) {
	m, _ := build(t, `
		struct Looper {
			int CountTo(int n) {
				int i = 0;
				while (i < n) {
					i = i + 1;
				}
				return i;
			}
		}
	`)

	fn := findFunction(m, "Looper.CountTo")
	require.NotNil(t, fn)

	var foundBackEdge bool
	for idx, blk := range fn.Blocks {
		for _, succ := range blk.Successors {
			if succ <= idx {
				foundBackEdge = true
			}
		}
	}
	assert.True(t, foundBackEdge, "expected a back edge from the loop body to its condition block")
}

func TestBuildCallEmitsCallInfo(t *testing.T) {
	m, _ := build(t, `
		struct Math {
			int Square(int v) {
				return v * v;
			}

			int SquareOfTwo() {
				return Square(2);
			}
		}
	`)

	fn := findFunction(m, "Math.SquareOfTwo")
	require.NotNil(t, fn)

	var call *ir.Instruction
	for i := range fn.Entry().Instructions {
		if fn.Entry().Instructions[i].OpCode == ir.OpCall {
			call = &fn.Entry().Instructions[i]
		}
	}
	require.NotNil(t, call, "expected a call instruction")
	require.Less(t, int(call.CallID), len(m.Calls))
	assert.Len(t, call.Args, 1)
}

func TestBuildFieldAccessLowersThroughImplicitThis(t *testing.T) {
	m, _ := build(t, `
		struct Particle {
			float lifetime;

			void Reset() {
				lifetime = 0;
			}
		}
	`)

	fn := findFunction(m, "Particle.Reset")
	require.NotNil(t, fn)

	var foundStore bool
	for _, in := range fn.Entry().Instructions {
		if in.OpCode == ir.OpStoreField {
			foundStore = true
			assert.Equal(t, ir.OperandVariable, in.Left.Kind)
		}
	}
	assert.True(t, foundStore, "expected a store.field instruction against the implicit this")
}
