package cfg

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/hexaengine/hxslc/pkg/ir"
)

// RebuildDomTree recomputes every block's ImmediateDominator via the
// classic iterative dataflow fixpoint: Dom(entry) = {entry}, Dom(n) = "every
// block" for n != entry initially, then Dom(n) = {n} ∪ ⋂ Dom(p) over n's
// predecessors p, repeated until no Dom set changes. Each Dom(n) is tracked
// as a bitset over block indices rather than a Go set, since the fixpoint's
// inner loop is dominated by set intersection and membership tests the
// bitset package is built for.
func RebuildDomTree(fn *ir.Function) {
	n := len(fn.Blocks)
	if n == 0 {
		return
	}

	full := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		full.Set(uint(i))
	}

	dom := make([]*bitset.BitSet, n)
	dom[0] = bitset.New(uint(n)).Set(0)
	for i := 1; i < n; i++ {
		dom[i] = full.Clone()
	}

	for changed := true; changed; {
		changed = false

		for i := 1; i < n; i++ {
			blk := fn.Block(i)
			if len(blk.Predecessors) == 0 {
				continue
			}

			next := full.Clone()
			for _, p := range blk.Predecessors {
				next.InPlaceIntersection(dom[p])
			}
			next.Set(uint(i))

			if !next.Equal(dom[i]) {
				dom[i] = next
				changed = true
			}
		}
	}

	fn.Block(0).ImmediateDominator = -1
	for i := 1; i < n; i++ {
		fn.Block(i).ImmediateDominator = immediateDominatorOf(i, dom)
	}
}

// immediateDominatorOf picks n's unique closest strict dominator out of its
// full Dom(n) set: the dominator-set property that every dominator of a
// node lies on a single chain means idom(n) is exactly the strict
// dominator d whose own Dom(d) equals Dom(n) minus n itself.
func immediateDominatorOf(n int, dom []*bitset.BitSet) int {
	strict := dom[n].Clone()
	strict.Clear(uint(n))

	for d, ok := strict.NextSet(0); ok; d, ok = strict.NextSet(d + 1) {
		if dom[d].Equal(strict) {
			return int(d)
		}
	}

	return -1
}
