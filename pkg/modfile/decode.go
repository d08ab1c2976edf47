package modfile

import (
	"bytes"
	"io"

	"github.com/hexaengine/hxslc/pkg/ir"
)

// File is everything Read recovers from a module file: the header (for
// IsCompatible checks), the flattened symbol table (SymbolRecord.Declaration
// has no wire representation — see this package's DESIGN.md entry), and the
// reconstructed IL module.
type File struct {
	Header  Header
	Symbols []SymbolRecord
	Module  *ir.Module
}

// Read decodes a module file written by Write. A header that fails
// IsCompatible stops the decode: Read returns a File holding only that
// header, together with ErrIncompatible. Accepts any io.Reader; the whole
// stream is buffered up front since the instruction decoder needs ReadByte
// for its ULEB128 opcodes.
func Read(src io.Reader) (*File, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(data)

	header, err := unmarshalHeader(r)
	if err != nil {
		return nil, err
	}
	if !header.IsCompatible() {
		return &File{Header: header}, ErrIncompatible
	}

	symbols, err := readSymbolTable(r)
	if err != nil {
		return nil, err
	}

	module, err := readILMetadata(r)
	if err != nil {
		return nil, err
	}

	return &File{Header: header, Symbols: symbols, Module: module}, nil
}

func readILMetadata(r *bytes.Reader) (*ir.Module, error) {
	module := ir.NewModule()

	typeCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < typeCount; i++ {
		id, err := readU32(r)
		if err != nil {
			return nil, err
		}
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		module.Types = append(module.Types, ir.TypeInfo{ID: id, Name: name})
	}

	varCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < varCount; i++ {
		v, err := readVariableInfo(r)
		if err != nil {
			return nil, err
		}
		module.Variables = append(module.Variables, v)
	}

	tmpCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < tmpCount; i++ {
		v, err := readVariableInfo(r)
		if err != nil {
			return nil, err
		}
		module.Temporaries = append(module.Temporaries, v)
	}

	callCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < callCount; i++ {
		c, err := readCallInfo(r)
		if err != nil {
			return nil, err
		}
		module.Calls = append(module.Calls, c)
	}

	fnCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < fnCount; i++ {
		fn, err := readFunction(r)
		if err != nil {
			return nil, err
		}
		module.Functions = append(module.Functions, fn)
	}

	return module, nil
}

func readVariableInfo(r *bytes.Reader) (ir.VariableInfo, error) {
	id, err := readU64(r)
	if err != nil {
		return ir.VariableInfo{}, err
	}
	typeID, err := readU32(r)
	if err != nil {
		return ir.VariableInfo{}, err
	}
	flags, err := readU32(r)
	if err != nil {
		return ir.VariableInfo{}, err
	}
	return ir.VariableInfo{ID: uint32(id), TypeID: typeID, Flags: flags}, nil
}

func readCallInfo(r *bytes.Reader) (ir.CallInfo, error) {
	id, err := readU32(r)
	if err != nil {
		return ir.CallInfo{}, err
	}
	callee, err := readString(r)
	if err != nil {
		return ir.CallInfo{}, err
	}
	paramCount, err := readU32(r)
	if err != nil {
		return ir.CallInfo{}, err
	}
	params := make([]uint32, paramCount)
	for i := range params {
		if params[i], err = readU32(r); err != nil {
			return ir.CallInfo{}, err
		}
	}
	returnTypeID, err := readU32(r)
	if err != nil {
		return ir.CallInfo{}, err
	}
	return ir.CallInfo{ID: id, Callee: callee, ParamTypeIDs: params, ReturnTypeID: returnTypeID}, nil
}

func readFunction(r *bytes.Reader) (*ir.Function, error) {
	name, err := readString(r)
	if err != nil {
		return nil, err
	}

	paramCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	params := make([]uint32, paramCount)
	for i := range params {
		if params[i], err = readU32(r); err != nil {
			return nil, err
		}
	}

	returnTypeID, err := readU32(r)
	if err != nil {
		return nil, err
	}

	fn := &ir.Function{Name: name, ParamVarIDs: params, ReturnTypeID: returnTypeID}

	blockCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < blockCount; i++ {
		blk, err := readBlock(r)
		if err != nil {
			return nil, err
		}
		fn.Blocks = append(fn.Blocks, blk)
	}

	return fn, nil
}

func readBlock(r *bytes.Reader) (*ir.BasicBlock, error) {
	blk := ir.NewBasicBlock()

	predCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	blk.Predecessors = make([]int, predCount)
	for i := range blk.Predecessors {
		v, err := readU32(r)
		if err != nil {
			return nil, err
		}
		blk.Predecessors[i] = int(v)
	}

	succCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	blk.Successors = make([]int, succCount)
	for i := range blk.Successors {
		v, err := readU32(r)
		if err != nil {
			return nil, err
		}
		blk.Successors[i] = int(v)
	}

	idom, err := readI32(r)
	if err != nil {
		return nil, err
	}
	blk.ImmediateDominator = int(idom)

	typeByte, err := readByte(r)
	if err != nil {
		return nil, err
	}
	blk.Type = ir.ControlFlowType(typeByte)

	instrCount, err := readU32(r)
	if err != nil {
		return nil, err
	}

	blk.Instructions = make([]ir.Instruction, instrCount)
	for i := range blk.Instructions {
		in, err := decodeInstruction(r)
		if err != nil {
			return nil, err
		}
		blk.Instructions[i] = in
	}

	return blk, nil
}
