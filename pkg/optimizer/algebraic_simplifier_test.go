package optimizer_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/cfg"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/optimizer"
	"github.com/hexaengine/hxslc/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyMultiplyByZeroFoldsToZero(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	x := ir.NewVarID(1)
	result := ir.NewVarID(2)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpMultiply,
			OpKind: token.NumberI32,
			Left:   ir.VarOperand(x),
			Right:  ir.ImmOperand(token.NewInt(token.NumberI32, 0)),
			Result: ir.VarOperand(result),
		},
	}

	optimizer.Run(fn)

	in := fn.Block(entry).Instructions[0]
	assert.Equal(t, ir.OpMove, in.OpCode)
	assert.True(t, in.Left.IsImmediate())
	assert.True(t, in.Left.Imm.IsZero())
}

func TestSimplifyMultiplyByOneMovesOtherOperand(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	x := ir.NewVarID(1)
	result := ir.NewVarID(2)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpMultiply,
			OpKind: token.NumberI32,
			Left:   ir.ImmOperand(token.NewInt(token.NumberI32, 1)),
			Right:  ir.VarOperand(x),
			Result: ir.VarOperand(result),
		},
	}

	optimizer.Run(fn)

	in := fn.Block(entry).Instructions[0]
	assert.Equal(t, ir.OpMove, in.OpCode)
	assert.True(t, ir.SameVariable(in.Left, ir.VarOperand(x)))
}

func TestSimplifyDivideByZeroMarksChangedWithoutRewrite(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	x := ir.NewVarID(1)
	result := ir.NewVarID(2)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpDivide,
			OpKind: token.NumberI32,
			Left:   ir.VarOperand(x),
			Right:  ir.ImmOperand(token.NewInt(token.NumberI32, 0)),
			Result: ir.VarOperand(result),
		},
	}

	optimizer.Run(fn)

	// Divide-by-zero is a documented placeholder: it never rewrites the
	// instruction, it only flags that a pass saw something worth changing.
	in := fn.Block(entry).Instructions[0]
	assert.Equal(t, ir.OpDivide, in.OpCode)
}

func TestSimplifySubtractSelfFoldsToZero(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	x := ir.NewVarID(1)
	result := ir.NewVarID(2)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpSubtract,
			OpKind: token.NumberI32,
			Left:   ir.VarOperand(x),
			Right:  ir.VarOperand(x),
			Result: ir.VarOperand(result),
		},
	}

	optimizer.Run(fn)

	in := fn.Block(entry).Instructions[0]
	assert.Equal(t, ir.OpMove, in.OpCode)
	assert.True(t, in.Left.Imm.IsZero())
}

func TestSimplifyAddSelfRewritesToMultiplyByTwo(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	x := ir.NewVarID(1)
	result := ir.NewVarID(2)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpAdd,
			OpKind: token.NumberI32,
			Left:   ir.VarOperand(x),
			Right:  ir.VarOperand(x),
			Result: ir.VarOperand(result),
		},
	}

	optimizer.Run(fn)

	in := fn.Block(entry).Instructions[0]
	assert.Equal(t, ir.OpMultiply, in.OpCode)
	assert.True(t, ir.SameVariable(in.Left, ir.VarOperand(x)))
	assert.Equal(t, int64(2), in.Right.Imm.AsInt64())
}

func TestSimplifyReassociatesMultiplyAddSubChain(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	x := ir.NewVarID(1)
	lhsTmp := ir.NewVarID(2)
	rhsTmp := ir.NewVarID(3)
	result := ir.NewVarID(4)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpMultiply,
			OpKind: token.NumberI32,
			Left:   ir.VarOperand(x),
			Right:  ir.ImmOperand(token.NewInt(token.NumberI32, 3)),
			Result: ir.VarOperand(lhsTmp),
		},
		{
			OpCode: ir.OpMultiply,
			OpKind: token.NumberI32,
			Left:   ir.VarOperand(x),
			Right:  ir.ImmOperand(token.NewInt(token.NumberI32, 4)),
			Result: ir.VarOperand(rhsTmp),
		},
		{
			OpCode: ir.OpAdd,
			OpKind: token.NumberI32,
			Left:   ir.VarOperand(lhsTmp),
			Right:  ir.VarOperand(rhsTmp),
			Result: ir.VarOperand(result),
		},
	}

	optimizer.Run(fn)

	in := fn.Block(entry).Instructions[2]
	assert.Equal(t, ir.OpMultiply, in.OpCode)
	assert.True(t, ir.SameVariable(in.Left, ir.VarOperand(x)))
	assert.Equal(t, int64(7), in.Right.Imm.AsInt64())
}

func TestSimplifyOrOrIsLeftUntouched(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	x := ir.NewVarID(1)
	result := ir.NewVarID(2)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpOrOr,
			OpKind: token.NumberBool,
			Left:   ir.VarOperand(x),
			Right:  ir.ImmOperand(token.NewBool(false)),
			Result: ir.VarOperand(result),
		},
	}

	optimizer.Run(fn)

	// The OrOr case is a genuine, deliberate no-op: nothing rewrites it.
	in := fn.Block(entry).Instructions[0]
	assert.Equal(t, ir.OpOrOr, in.OpCode)
}

func TestSimplifyShortCircuitAndFalseUnlinksTakenBranch(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	thenBlk := fn.AddBlock()
	elseBlk := fn.AddBlock()

	x := ir.NewVarID(1)
	cond := ir.NewVarID(2)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpAndAnd,
			OpKind: token.NumberBool,
			Left:   ir.VarOperand(x),
			Right:  ir.ImmOperand(token.NewBool(false)),
			Result: ir.VarOperand(cond),
		},
		{
			OpCode: ir.OpJumpZero,
			Left:   ir.VarOperand(cond),
			Result: ir.LabelOperand(elseBlk),
		},
	}
	fn.Block(thenBlk).Instructions = []ir.Instruction{{OpCode: ir.OpReturn}}
	fn.Block(elseBlk).Instructions = []ir.Instruction{{OpCode: ir.OpReturn}}

	cfg.Link(fn, entry, thenBlk)
	cfg.Link(fn, entry, elseBlk)
	cfg.RebuildDomTree(fn)

	optimizer.Run(fn)

	// The jump was statically known to be taken (JumpZero on a false
	// condition): the then block is pruned as unreachable, and the
	// surviving else block's only predecessor is now entry, so the two
	// merge into one straight-line block.
	require.Len(t, fn.Blocks, 1)
	entryBlk := fn.Block(entry)
	assert.Equal(t, ir.ControlFlowNormal, entryBlk.Type)
	for _, in := range entryBlk.Instructions {
		assert.NotEqual(t, ir.OpJumpZero, in.OpCode)
	}
	assert.Equal(t, ir.OpReturn, entryBlk.Instructions[len(entryBlk.Instructions)-1].OpCode)
}
