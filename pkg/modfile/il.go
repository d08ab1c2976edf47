package modfile

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/symbol"
	"github.com/hexaengine/hxslc/pkg/token"
)

// Write encodes table and module into the module file wire format: header,
// flattened symbol table, IL type/variable/temporary/call metadata tables,
// then each function's block graph and instruction stream.
func Write(w io.Writer, table *symbol.Table, module *ir.Module) error {
	var buf bytes.Buffer

	NewHeader().marshal(&buf)
	writeSymbolTable(&buf, table)
	writeILMetadata(&buf, module)

	_, err := w.Write(buf.Bytes())
	return err
}

func writeILMetadata(buf *bytes.Buffer, module *ir.Module) {
	writeU32(buf, uint32(len(module.Types)))
	for _, t := range module.Types {
		writeU32(buf, t.ID)
		writeString(buf, t.Name)
	}

	writeU32(buf, uint32(len(module.Variables)))
	for _, v := range module.Variables {
		writeVariableInfo(buf, v)
	}

	writeU32(buf, uint32(len(module.Temporaries)))
	for _, v := range module.Temporaries {
		writeVariableInfo(buf, v)
	}

	writeU32(buf, uint32(len(module.Calls)))
	for _, c := range module.Calls {
		writeU32(buf, c.ID)
		writeString(buf, c.Callee)
		writeU32(buf, uint32(len(c.ParamTypeIDs)))
		for _, id := range c.ParamTypeIDs {
			writeU32(buf, id)
		}
		writeU32(buf, c.ReturnTypeID)
	}

	writeU32(buf, uint32(len(module.Functions)))
	for _, fn := range module.Functions {
		writeFunction(buf, fn)
	}
}

// writeVariableInfo encodes one (var_id u64, type_id u32, flags u32) record;
// the id widens from VariableInfo's 32-bit raw identity to the 64-bit field
// spec.md's sketch names, zero-extended.
func writeVariableInfo(buf *bytes.Buffer, v ir.VariableInfo) {
	writeU64(buf, uint64(v.ID))
	writeU32(buf, v.TypeID)
	writeU32(buf, v.Flags)
}

func writeFunction(buf *bytes.Buffer, fn *ir.Function) {
	writeString(buf, fn.Name)

	writeU32(buf, uint32(len(fn.ParamVarIDs)))
	for _, id := range fn.ParamVarIDs {
		writeU32(buf, id)
	}
	writeU32(buf, fn.ReturnTypeID)

	writeU32(buf, uint32(len(fn.Blocks)))
	for _, blk := range fn.Blocks {
		writeBlock(buf, blk)
	}
}

func writeBlock(buf *bytes.Buffer, blk *ir.BasicBlock) {
	writeU32(buf, uint32(len(blk.Predecessors)))
	for _, p := range blk.Predecessors {
		writeU32(buf, uint32(p))
	}
	writeU32(buf, uint32(len(blk.Successors)))
	for _, s := range blk.Successors {
		writeU32(buf, uint32(s))
	}
	writeI32(buf, int32(blk.ImmediateDominator))
	buf.WriteByte(byte(blk.Type))

	writeU32(buf, uint32(len(blk.Instructions)))
	for _, in := range blk.Instructions {
		writeInstruction(buf, in)
	}
}

// writeInstruction encodes one instruction as spec.md §6 describes the
// per-function instruction stream: a ULEB128 opcode, the result numeric
// kind, a packed operand-kind header, then each operand dispatched by its
// own kind.
func writeInstruction(buf *bytes.Buffer, in ir.Instruction) {
	writeULEB128(buf, uint64(in.OpCode))
	buf.WriteByte(byte(in.OpKind))

	header := operandHeader(in.Left.Kind, in.Right.Kind, in.Result.Kind)
	writeU16(buf, header)

	writeOperandValue(buf, in.Left)
	writeOperandValue(buf, in.Right)
	writeOperandValue(buf, in.Result)

	if in.OpCode == ir.OpCall {
		writeU32(buf, in.CallID)
		writeU32(buf, uint32(len(in.Args)))
		for _, a := range in.Args {
			buf.WriteByte(byte(a.Kind))
			writeOperandValue(buf, a)
		}
	}
}

// operandHeader packs three 5-bit OperandKind fields into one u16: left in
// bits 0-4, right in bits 5-9, result in bits 10-14.
func operandHeader(left, right, result ir.OperandKind) uint16 {
	return uint16(left&0x1F) | uint16(right&0x1F)<<5 | uint16(result&0x1F)<<10
}

func unpackOperandHeader(header uint16) (left, right, result ir.OperandKind) {
	left = ir.OperandKind(header & 0x1F)
	right = ir.OperandKind((header >> 5) & 0x1F)
	result = ir.OperandKind((header >> 10) & 0x1F)
	return
}

// writeOperandValue writes only the operand's payload, not its kind tag
// (the kind already travels in the instruction's packed header, or, for a
// call argument, in a byte written just ahead of this call).
func writeOperandValue(buf *bytes.Buffer, op ir.Operand) {
	switch {
	case op.Kind == ir.OperandNone:
		return
	case op.Kind == ir.OperandRegister, op.Kind == ir.OperandVariable:
		writeU32(buf, op.Var.WireID())
	case op.Kind == ir.OperandLabel, op.Kind == ir.OperandType, op.Kind == ir.OperandFunc:
		writeU32(buf, uint32(op.Label))
	case op.Kind == ir.OperandField:
		writeU64(buf, uint64(op.Field.TypeID)|uint64(op.Field.FieldID)<<32)
	case op.Kind >= ir.OperandImmI8 && op.Kind <= ir.OperandImmF64:
		writeImmediate(buf, op.Kind, op.Imm)
	}
}

func writeImmediate(buf *bytes.Buffer, kind ir.OperandKind, n token.Number) {
	switch kind {
	case ir.OperandImmI8, ir.OperandImmU8:
		buf.WriteByte(byte(n.AsInt64()))
	case ir.OperandImmI16, ir.OperandImmU16:
		writeU16(buf, uint16(n.AsInt64()))
	case ir.OperandImmF16:
		writeU16(buf, float32ToFloat16(float32(n.AsFloat64())))
	case ir.OperandImmI32, ir.OperandImmU32:
		writeU32(buf, uint32(n.AsInt64()))
	case ir.OperandImmF32:
		writeU32(buf, math.Float32bits(float32(n.AsFloat64())))
	case ir.OperandImmI64, ir.OperandImmU64:
		writeU64(buf, uint64(n.AsInt64()))
	case ir.OperandImmF64:
		writeU64(buf, math.Float64bits(n.AsFloat64()))
	}
}

// float32ToFloat16 converts a 32-bit float's bit pattern to a 16-bit
// half-float bit pattern by straight truncation of the mantissa (no
// rounding); values too small for a normal half flush to signed zero and
// values too large become signed infinity — sufficient fidelity for a
// module file's half-precision literal operands.
func float32ToFloat16(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xFF) - 127 + 15
	mantissa := bits & 0x7FFFFF

	switch {
	case exp <= 0:
		return sign
	case exp >= 0x1F:
		return sign | 0x7C00
	default:
		return sign | uint16(exp)<<10 | uint16(mantissa>>13)
	}
}

func float16ToFloat32(bits uint16) float32 {
	sign := uint32(bits&0x8000) << 16
	exp := (bits >> 10) & 0x1F
	mantissa := uint32(bits & 0x3FF)

	switch exp {
	case 0:
		return math.Float32frombits(sign)
	case 0x1F:
		return math.Float32frombits(sign | 0x7F800000 | mantissa<<13)
	default:
		return math.Float32frombits(sign | uint32(int32(exp)-15+127)<<23 | mantissa<<13)
	}
}

// decodeInstruction mirrors writeInstruction, reading one instruction back
// from r.
func decodeInstruction(r *bytes.Reader) (ir.Instruction, error) {
	opcode, err := readULEB128(r)
	if err != nil {
		return ir.Instruction{}, err
	}
	opKind, err := readByte(r)
	if err != nil {
		return ir.Instruction{}, err
	}
	header, err := readU16(r)
	if err != nil {
		return ir.Instruction{}, err
	}
	leftKind, rightKind, resultKind := unpackOperandHeader(header)

	in := ir.Instruction{OpCode: ir.OpCode(opcode), OpKind: token.NumberKind(opKind)}

	if in.Left, err = readOperandValue(r, leftKind); err != nil {
		return ir.Instruction{}, err
	}
	if in.Right, err = readOperandValue(r, rightKind); err != nil {
		return ir.Instruction{}, err
	}
	if in.Result, err = readOperandValue(r, resultKind); err != nil {
		return ir.Instruction{}, err
	}

	if in.OpCode == ir.OpCall {
		if in.CallID, err = readU32(r); err != nil {
			return ir.Instruction{}, err
		}
		argCount, err := readU32(r)
		if err != nil {
			return ir.Instruction{}, err
		}
		in.Args = make([]ir.Operand, argCount)
		for i := range in.Args {
			kindByte, err := readByte(r)
			if err != nil {
				return ir.Instruction{}, err
			}
			in.Args[i], err = readOperandValue(r, ir.OperandKind(kindByte))
			if err != nil {
				return ir.Instruction{}, err
			}
		}
	}

	return in, nil
}

func readOperandValue(r *bytes.Reader, kind ir.OperandKind) (ir.Operand, error) {
	switch {
	case kind == ir.OperandNone:
		return ir.Operand{}, nil

	case kind == ir.OperandRegister, kind == ir.OperandVariable:
		raw, err := readU32(r)
		if err != nil {
			return ir.Operand{}, err
		}
		return ir.Operand{Kind: kind, Var: ir.NewVarID(raw)}, nil

	case kind == ir.OperandLabel, kind == ir.OperandType, kind == ir.OperandFunc:
		v, err := readU32(r)
		if err != nil {
			return ir.Operand{}, err
		}
		return ir.Operand{Kind: kind, Label: int(v)}, nil

	case kind == ir.OperandField:
		packed, err := readU64(r)
		if err != nil {
			return ir.Operand{}, err
		}
		return ir.Operand{Kind: kind, Field: ir.FieldRef{
			TypeID:  uint32(packed),
			FieldID: uint32(packed >> 32),
		}}, nil

	case kind >= ir.OperandImmI8 && kind <= ir.OperandImmF64:
		n, err := readImmediate(r, kind)
		if err != nil {
			return ir.Operand{}, err
		}
		return ir.Operand{Kind: kind, Imm: n}, nil
	}

	return ir.Operand{}, fmt.Errorf("modfile: unknown operand kind %d", kind)
}

func readImmediate(r *bytes.Reader, kind ir.OperandKind) (token.Number, error) {
	switch kind {
	case ir.OperandImmI8:
		b, err := readByte(r)
		return token.NewInt(token.NumberI8, int64(int8(b))), err
	case ir.OperandImmU8:
		b, err := readByte(r)
		return token.NewInt(token.NumberU8, int64(b)), err
	case ir.OperandImmI16:
		v, err := readU16(r)
		return token.NewInt(token.NumberI16, int64(int16(v))), err
	case ir.OperandImmU16:
		v, err := readU16(r)
		return token.NewInt(token.NumberU16, int64(v)), err
	case ir.OperandImmF16:
		v, err := readU16(r)
		return token.NewFloat(token.NumberHalf, float64(float16ToFloat32(v))), err
	case ir.OperandImmI32:
		v, err := readU32(r)
		return token.NewInt(token.NumberI32, int64(int32(v))), err
	case ir.OperandImmU32:
		v, err := readU32(r)
		return token.NewInt(token.NumberU32, int64(v)), err
	case ir.OperandImmF32:
		v, err := readU32(r)
		return token.NewFloat(token.NumberFloat, float64(math.Float32frombits(v))), err
	case ir.OperandImmI64:
		v, err := readU64(r)
		return token.NewInt(token.NumberI64, int64(v)), err
	case ir.OperandImmU64:
		v, err := readU64(r)
		return token.NewInt(token.NumberU64, int64(v)), err
	case ir.OperandImmF64:
		v, err := readU64(r)
		return token.NewFloat(token.NumberDouble, math.Float64frombits(v)), err
	}
	return token.UnknownNumber, fmt.Errorf("modfile: unknown immediate kind %d", kind)
}
