// Package cfg owns the control-flow-graph surgery every optimization pass
// needs: linking/unlinking edges, removing dead blocks, merging blocks, and
// rebuilding the dominator tree. It operates on *ir.Function/*ir.BasicBlock
// from the outside rather than through pkg/ir's own (unexported) edge
// helpers, which pkg/ir's lowering pass uses directly — pkg/ir cannot import
// pkg/cfg (pkg/cfg already imports pkg/ir), so the two packages keep
// independent, functionally equivalent copies of the small edge-list
// bookkeeping rather than sharing one through an import either direction
// would cycle.
package cfg

import "github.com/hexaengine/hxslc/pkg/ir"

func addEdge(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func removeEdge(list []int, v int) []int {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Link adds a directed edge from block a to block b, keeping both sides'
// edge lists in sync.
func Link(fn *ir.Function, a, b int) {
	fn.Block(a).Successors = addEdge(fn.Block(a).Successors, b)
	fn.Block(b).Predecessors = addEdge(fn.Block(b).Predecessors, a)
}

// Unlink removes the directed edge from block a to block b, if present.
func Unlink(fn *ir.Function, a, b int) {
	fn.Block(a).Successors = removeEdge(fn.Block(a).Successors, b)
	fn.Block(b).Predecessors = removeEdge(fn.Block(b).Predecessors, a)
}

// RemoveNode detaches block i from every neighbor and compacts it out of
// fn.Blocks, reindexing every remaining block's edge lists, cached immediate
// dominator, and jump-target operands so no index above i goes stale.
// Removing the entry block (index 0) is never valid and is the caller's
// responsibility to avoid.
func RemoveNode(fn *ir.Function, i int) {
	blk := fn.Block(i)

	for _, p := range append([]int(nil), blk.Predecessors...) {
		fn.Block(p).Successors = removeEdge(fn.Block(p).Successors, i)
	}
	for _, s := range append([]int(nil), blk.Successors...) {
		fn.Block(s).Predecessors = removeEdge(fn.Block(s).Predecessors, i)
	}

	fn.Blocks = append(fn.Blocks[:i], fn.Blocks[i+1:]...)
	reindexAbove(fn, i)
}

func reindexAbove(fn *ir.Function, removed int) {
	shift := func(idx int) int {
		if idx > removed {
			return idx - 1
		}
		return idx
	}

	for _, blk := range fn.Blocks {
		for j, p := range blk.Predecessors {
			blk.Predecessors[j] = shift(p)
		}
		for j, s := range blk.Successors {
			blk.Successors[j] = shift(s)
		}
		if blk.ImmediateDominator > removed {
			blk.ImmediateDominator--
		}
		for k := range blk.Instructions {
			in := &blk.Instructions[k]
			if in.Result.Kind == ir.OperandLabel {
				in.Result.Label = shift(in.Result.Label)
			}
		}
	}
}

// MergeNodes concatenates b's instructions onto the end of a, retargets b's
// successors to originate from a instead, and removes b — valid only when a
// is b's sole predecessor, the invariant that makes a straight-line merge
// sound. A call where that invariant doesn't hold is a no-op.
func MergeNodes(fn *ir.Function, a, b int) {
	ablk := fn.Block(a)
	bblk := fn.Block(b)

	if len(bblk.Predecessors) != 1 || bblk.Predecessors[0] != a {
		return
	}

	if n := len(ablk.Instructions); n > 0 {
		last := ablk.Instructions[n-1]
		if last.OpCode == ir.OpJump && last.Result.Kind == ir.OperandLabel && last.Result.Label == b {
			ablk.Instructions = ablk.Instructions[:n-1]
		}
	}

	ablk.Instructions = append(ablk.Instructions, bblk.Instructions...)
	ablk.Type = bblk.Type

	successors := append([]int(nil), bblk.Successors...)
	ablk.Successors = removeEdge(ablk.Successors, b)
	for _, s := range successors {
		Link(fn, a, s)
	}

	RemoveNode(fn, b)
}
