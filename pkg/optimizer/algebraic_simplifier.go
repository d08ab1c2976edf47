// Package optimizer rewrites IR functions in place: algebraic identities
// fold away, reassociated multiply/add chains collapse, and a short-circuit
// && against a constant right-hand side resolves into straight-line CFG
// surgery. It is grounded on original_source's AlgebraicSimplifier and
// leans on pkg/cfg for every edge/block mutation it performs.
package optimizer

import (
	"github.com/hexaengine/hxslc/pkg/cfg"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/token"
)

// Run drives the simplifier to a fixpoint: each call to simplify does one
// pass over fn's blocks, and Run keeps calling it while a pass reports a
// change, matching the "re-run while changed" termination rule.
func Run(fn *ir.Function) {
	for simplify(fn) {
	}
}

// simplify does one forward pass over fn's blocks in CFG order, folding
// every algebraic identity it recognizes. defs is rebuilt fresh each pass
// and grows as instructions are walked, so a reassociation only ever sees
// definitions that precede it in block order — it is never reset between
// blocks within the same pass, per the per-function map the rewrite rules
// for (x*c1)±(x*c2) rely on.
func simplify(fn *ir.Function) bool {
	changed := false
	defs := make(map[ir.VarID]*ir.Instruction)

	for b := 0; b < len(fn.Blocks); b++ {
		blk := fn.Block(b)

		for i := 0; i < len(blk.Instructions); i++ {
			in := &blk.Instructions[i]
			if in.IsResultInstr() {
				defs[in.Result.Var] = in
			}

			switch in.OpCode {
			case ir.OpMultiply:
				// These three checks are independent, not an if/else chain:
				// each one that matches rewrites in, and a later one may
				// still fire against the now-stale operands it already read.
				if in.Left.IsZero() || in.Right.IsZero() {
					convertMoveZero(in)
					changed = true
				}
				if in.Left.IsOne() {
					convertMoveRight(in)
					changed = true
				}
				if in.Right.IsOne() {
					convertMoveLeft(in)
					changed = true
				}

			case ir.OpDivide:
				if in.Left.IsZero() {
					convertMoveZero(in)
					changed = true
				}
				if in.Right.IsZero() {
					// Divide-by-zero: flagged as changed with no rewrite, a
					// placeholder for a diagnostic this pass doesn't emit.
					changed = true
				}
				if in.Right.IsOne() {
					convertMoveLeft(in)
					changed = true
				}
				if ir.SameVariable(in.Left, in.Right) {
					convertMoveImm(in, token.NewInt(in.OpKind, 1))
					changed = true
				}

			case ir.OpSubtract:
				switch {
				case in.Left.IsZero():
					convertMoveRight(in)
					changed = true
				case in.Right.IsZero():
					convertMoveLeft(in)
					changed = true
				case ir.SameVariable(in.Left, in.Right):
					convertMoveZero(in)
					changed = true
				default:
					if tryReassociateMulAddSub(in, defs) {
						changed = true
					}
				}

			case ir.OpAdd:
				switch {
				case in.Left.IsZero():
					convertMoveRight(in)
					changed = true
				case in.Right.IsZero():
					convertMoveLeft(in)
					changed = true
				case ir.SameVariable(in.Left, in.Right):
					in.OpCode = ir.OpMultiply
					in.Right = ir.ImmOperand(token.NewInt(in.OpKind, 2))
					changed = true
				default:
					if tryReassociateMulAddSub(in, defs) {
						changed = true
					}
				}

			case ir.OpModulus:
				if in.Left.IsZero() {
					convertMoveZero(in)
					changed = true
				}

			case ir.OpBitwiseAnd:
				if in.Right.IsZero() {
					convertMoveZero(in)
					changed = true
				}

			case ir.OpBitwiseOr:
				if in.Right.IsZero() {
					convertMoveLeft(in)
					changed = true
				}

			case ir.OpBitwiseXor:
				if in.Right.IsZero() {
					convertMoveLeft(in)
					changed = true
				}
				if ir.SameVariable(in.Left, in.Right) {
					convertMoveZero(in)
					changed = true
				}

			case ir.OpAndAnd:
				if !in.Right.IsImmediate() {
					continue
				}
				if !in.Right.Imm.IsZero() {
					convertMoveLeft(in)
					changed = true
					continue
				}
				if foldShortCircuitAndFalse(fn, b, i) {
					return true
				}

				// OpOrOr deliberately has no rewrite rule here.
			}
		}
	}

	return changed
}

func convertMoveLeft(in *ir.Instruction)  { in.ReplaceWithMove(in.Left) }
func convertMoveRight(in *ir.Instruction) { in.ReplaceWithMove(in.Right) }

func convertMoveImm(in *ir.Instruction, num token.Number) {
	in.ReplaceWithMove(ir.ImmOperand(num.ConvertTo(in.OpKind)))
}

func convertMoveZero(in *ir.Instruction) {
	convertMoveImm(in, zeroOf(in.OpKind))
}

func zeroOf(kind token.NumberKind) token.Number {
	switch kind {
	case token.NumberHalf, token.NumberFloat, token.NumberDouble:
		return token.NewFloat(kind, 0)
	case token.NumberBool:
		return token.NewBool(false)
	default:
		return token.NewInt(kind, 0)
	}
}

// tryReassociateMulAddSub rewrites (x*c1) + (x*c2) -> x*(c1+c2), and the
// subtract form with '-', when both operands of in are variables defined by
// a Multiply of the same base variable by a constant.
func tryReassociateMulAddSub(in *ir.Instruction, defs map[ir.VarID]*ir.Instruction) bool {
	lhsDef := findDef(defs, in.Left)
	rhsDef := findDef(defs, in.Right)
	if lhsDef == nil || rhsDef == nil {
		return false
	}
	if lhsDef.OpCode != ir.OpMultiply || rhsDef.OpCode != ir.OpMultiply {
		return false
	}

	lhsBase, lhsConst := lhsDef.Left, lhsDef.Right
	rhsBase, rhsConst := rhsDef.Left, rhsDef.Right
	if !lhsConst.IsImmediate() || !rhsConst.IsImmediate() {
		return false
	}
	if !ir.SameVariable(lhsBase, rhsBase) {
		return false
	}

	op := "+"
	if in.OpCode == ir.OpSubtract {
		op = "-"
	}
	combined := lhsConst.Imm.Arith(op, rhsConst.Imm)

	in.OpCode = ir.OpMultiply
	in.Left = lhsBase
	in.Right = ir.ImmOperand(combined.ConvertTo(in.OpKind))
	return true
}

func findDef(defs map[ir.VarID]*ir.Instruction, op ir.Operand) *ir.Instruction {
	if op.Kind != ir.OperandVariable {
		return nil
	}
	return defs[op.Var]
}

func adjustIndex(idx, removed int) int {
	if idx > removed {
		return idx - 1
	}
	return idx
}

// foldShortCircuitAndFalse handles `x && false`: the instruction's own
// result is dead, so the rewrite instead looks at the conditional jump that
// must follow it and resolves which way it will statically go, then cuts
// the CFG accordingly. It reports whether it performed surgery (in which
// case the caller must stop and let the next pass restart from scratch,
// since block indices below may have shifted).
func foldShortCircuitAndFalse(fn *ir.Function, blockIdx, instrIdx int) bool {
	blk := fn.Block(blockIdx)
	if instrIdx+1 >= len(blk.Instructions) {
		return false
	}

	next := blk.Instructions[instrIdx+1]
	if next.OpCode != ir.OpJumpZero && next.OpCode != ir.OpJumpNotZero {
		return false
	}
	target := next.Result.Label

	// The condition folds to false here, so a jump-if-zero always takes its
	// branch and a jump-if-not-zero never does.
	willJump := next.OpCode == ir.OpJumpZero

	if willJump {
		succs := append([]int(nil), blk.Successors...)
		for j := 0; j < len(succs); j++ {
			succ := succs[j]
			if succ == target {
				continue
			}
			cfg.Unlink(fn, blockIdx, succ)
			if fn.Block(succ).HasNoPredecessors() {
				cfg.RemoveNode(fn, succ)
				blockIdx = adjustIndex(blockIdx, succ)
				target = adjustIndex(target, succ)
				for k := range succs {
					succs[k] = adjustIndex(succs[k], succ)
				}
			}
		}
	} else {
		cfg.Unlink(fn, blockIdx, target)
		if fn.Block(target).HasNoPredecessors() {
			cfg.RemoveNode(fn, target)
			blockIdx = adjustIndex(blockIdx, target)
		}
	}

	blk = fn.Block(blockIdx)
	blk.Type = ir.ControlFlowNormal
	blk.TrimAfter(instrIdx)

	if willJump {
		tblk := fn.Block(target)
		if len(tblk.Predecessors) == 1 && tblk.Predecessors[0] == blockIdx {
			cfg.MergeNodes(fn, blockIdx, target)
		}
	}

	cfg.RebuildDomTree(fn)
	return true
}
