package cfg_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/cfg"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds entry -> (then, else) -> merge, a minimal function whose
// dominator tree is easy to check by hand.
func diamond() *ir.Function {
	fn := &ir.Function{Name: "diamond"}
	entry := fn.AddBlock()
	then := fn.AddBlock()
	els := fn.AddBlock()
	merge := fn.AddBlock()

	cfg.Link(fn, entry, then)
	cfg.Link(fn, entry, els)
	cfg.Link(fn, then, merge)
	cfg.Link(fn, els, merge)

	return fn
}

func TestLinkUnlinkKeepBothSidesInSync(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	a := fn.AddBlock()
	b := fn.AddBlock()

	cfg.Link(fn, a, b)
	assert.Equal(t, []int{b}, fn.Block(a).Successors)
	assert.Equal(t, []int{a}, fn.Block(b).Predecessors)

	cfg.Unlink(fn, a, b)
	assert.Empty(t, fn.Block(a).Successors)
	assert.Empty(t, fn.Block(b).Predecessors)
}

func TestLinkIsIdempotent(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	a := fn.AddBlock()
	b := fn.AddBlock()

	cfg.Link(fn, a, b)
	cfg.Link(fn, a, b)
	assert.Equal(t, []int{b}, fn.Block(a).Successors)
}

func TestRebuildDomTreeOnDiamond(t *testing.T) {
	fn := diamond()
	cfg.RebuildDomTree(fn)

	assert.Equal(t, -1, fn.Block(0).ImmediateDominator)
	assert.Equal(t, 0, fn.Block(1).ImmediateDominator) // then
	assert.Equal(t, 0, fn.Block(2).ImmediateDominator) // else
	assert.Equal(t, 0, fn.Block(3).ImmediateDominator) // merge: dominated only by entry
}

func TestRebuildDomTreeOnStraightLine(t *testing.T) {
	fn := &ir.Function{Name: "line"}
	a := fn.AddBlock()
	b := fn.AddBlock()
	c := fn.AddBlock()
	cfg.Link(fn, a, b)
	cfg.Link(fn, b, c)

	cfg.RebuildDomTree(fn)

	assert.Equal(t, a, fn.Block(b).ImmediateDominator)
	assert.Equal(t, b, fn.Block(c).ImmediateDominator)
}

func TestRemoveNodeCompactsAndReindexesJumpTargets(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	dead := fn.AddBlock()
	target := fn.AddBlock()

	fn.Block(entry).Instructions = append(fn.Block(entry).Instructions, ir.Instruction{
		OpCode: ir.OpJump,
		Result: ir.LabelOperand(target),
	})
	cfg.Link(fn, entry, target)

	cfg.RemoveNode(fn, dead)

	require.Len(t, fn.Blocks, 2)
	jump := fn.Block(entry).Instructions[0]
	assert.Equal(t, 1, jump.Result.Label, "target index should shift down after the dead block between it and entry was removed")
}

func TestMergeNodesConcatenatesSoleSuccessor(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	a := fn.AddBlock()
	b := fn.AddBlock()

	fn.Block(a).Instructions = append(fn.Block(a).Instructions, ir.Instruction{OpCode: ir.OpJump, Result: ir.LabelOperand(b)})
	fn.Block(b).Instructions = append(fn.Block(b).Instructions, ir.Instruction{OpCode: ir.OpReturn})
	cfg.Link(fn, a, b)

	cfg.MergeNodes(fn, a, b)

	require.Len(t, fn.Blocks, 1)
	assert.Len(t, fn.Block(a).Instructions, 1)
	assert.Equal(t, ir.OpReturn, fn.Block(a).Instructions[0].OpCode)
}

func TestMergeNodesNoOpWhenNotSolePredecessor(t *testing.T) {
	fn := &ir.Function{Name: "f"}
	a := fn.AddBlock()
	other := fn.AddBlock()
	b := fn.AddBlock()

	cfg.Link(fn, a, b)
	cfg.Link(fn, other, b)

	cfg.MergeNodes(fn, a, b)
	assert.Len(t, fn.Blocks, 3, "merge must refuse when a isn't b's sole predecessor")
}

func TestAnalyzeRemovesUnreachableBlockAndLogs(t *testing.T) {
	module := ir.NewModule()
	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	unreachable := fn.AddBlock()

	span := source.NewSpan(0, 0, 1, 1, 1)
	fn.Block(unreachable).Instructions = append(fn.Block(unreachable).Instructions, ir.Instruction{OpCode: ir.OpReturn, Span: span})
	fn.Block(entry).Instructions = append(fn.Block(entry).Instructions, ir.Instruction{OpCode: ir.OpReturn})
	module.AddFunction(fn)

	logger := diag.NewLogger(diag.DefaultLocale())
	cfg.Analyze(module, logger)

	require.Len(t, fn.Blocks, 1, "the unreachable block should have been removed")
	require.Len(t, logger.Messages(), 1)
	assert.Equal(t, diag.UnreachableCode, logger.Messages()[0].Code)
}
