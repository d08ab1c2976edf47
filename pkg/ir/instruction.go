package ir

import (
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/token"
)

// Instruction is one IR operation: an opcode, the NumberKind its Result
// operand (if numeric) folds/casts at, and three operands whose roles
// depend on the opcode (binary ops read Left/Right and write Result; Move/
// Cast/unary ops read Left and write Result; jumps read Left as a
// condition, where one exists, and target a block through Result's label).
type Instruction struct {
	OpCode OpCode
	OpKind token.NumberKind
	Left   Operand
	Right  Operand
	Result Operand

	// CallID and Args are populated only on an OpCall instruction: CallID
	// indexes Module.Calls for the callee's signature, Args holds the
	// argument operands in order (a call's arity doesn't fit the fixed
	// Left/Right shape every other opcode uses), and Result names the
	// variable the return value is moved into.
	CallID uint32
	Args   []Operand

	// Span is the source span of the statement that produced this
	// instruction, the IR-level stand-in for original_source's separate
	// ILMetadata::FindMappingForInstruction table — the control-flow
	// analyzer merges the spans of a dead block's instructions into one
	// diagnostic span directly off this field instead of an external index.
	Span source.Span
}

// IsResultInstr reports whether this instruction defines an SSA variable —
// the algebraic simplifier's `defs` map is built from exactly these.
func (in Instruction) IsResultInstr() bool {
	return in.Result.Kind == OperandVariable
}

// ReplaceWithMove rewrites in in place into `Result = Move(value)`, the
// role ConvertToMove plays in the original: every algebraic rewrite reduces
// to replacing an instruction with a move of one of its operands (or a
// freshly folded constant).
func (in *Instruction) ReplaceWithMove(value Operand) {
	in.OpCode = OpMove
	in.Left = value
	in.Right = Operand{}
}
