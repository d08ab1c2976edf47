package cfg

import (
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/source"
)

// Analyze runs the unreachable-code pass over every function in module,
// grounded directly on original_source's ControlFlowAnalyzer::Analyze.
func Analyze(module *ir.Module, logger *diag.Logger) {
	for _, fn := range module.Functions {
		detectUnreachableCode(fn, logger)
	}
}

// detectUnreachableCode removes every non-entry block with no predecessors,
// logging one UnreachableCode diagnostic per removed block first, spanning
// the merge of all of its instructions' spans. Nodes shift down as each is
// removed, so the scan re-checks the same index after a removal rather than
// advancing — mirroring the `i--` in the original C++ loop.
func detectUnreachableCode(fn *ir.Function, logger *diag.Logger) {
	changed := false

	for i := 1; i < len(fn.Blocks); i++ {
		blk := fn.Block(i)
		if !blk.HasNoPredecessors() {
			continue
		}

		var span source.Span
		for j, in := range blk.Instructions {
			if j == 0 {
				span = in.Span
			} else {
				span = span.Merge(in.Span)
			}
		}

		logger.Log(diag.UnreachableCode, span)

		RemoveNode(fn, i)
		changed = true
		i--
	}

	if changed {
		RebuildDomTree(fn)
	}
}
