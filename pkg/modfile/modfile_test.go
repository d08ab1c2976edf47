package modfile_test

import (
	"bytes"
	"testing"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/modfile"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/symbol"
	"github.com/hexaengine/hxslc/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span() source.Span {
	return source.NewSpan(0, 0, 1, 1, 1)
}

// buildTable constructs a small table with a namespace-ish intermediate node
// (no metadata) and one leaf carrying metadata, so flattenTable exercises
// both the has-metadata and no-metadata record shapes.
func buildTable() *symbol.Table {
	table := symbol.NewTable()

	arena := ast.NewArena()
	typeRef := ast.NewSymbolRef(span(), "float", ast.RefType, false)
	param := ast.NewParameterDecl(arena, span(), "x", typeRef, true, false)

	table.Insert("engine.render.x", symbol.NewMetadata(param, symbol.AccessPublic), nil)
	return table
}

// buildModule constructs a module with one type, one variable, one temp, one
// call signature, and a function with two blocks exercising a call
// instruction (with Args), a field operand, and a half-float immediate.
func buildModule() *ir.Module {
	module := ir.NewModule()
	module.Types = append(module.Types, ir.TypeInfo{ID: 1, Name: "float"})
	module.Variables = append(module.Variables, ir.VariableInfo{
		ID: 7, TypeID: 1, Flags: ir.VariableFlagParameter,
	})
	module.Temporaries = append(module.Temporaries, ir.VariableInfo{
		ID: 9, TypeID: 1, Flags: ir.VariableFlagTemporary,
	})
	module.Calls = append(module.Calls, ir.CallInfo{
		ID: 3, Callee: "normalize", ParamTypeIDs: []uint32{1}, ReturnTypeID: 1,
	})

	fn := &ir.Function{Name: "main", ParamVarIDs: []uint32{7}, ReturnTypeID: 1}
	entry := fn.AddBlock()
	exit := fn.AddBlock()

	x := ir.NewVarID(7)
	halfResult := ir.NewVarID(8)
	callResult := ir.NewVarID(9)

	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpMove,
			OpKind: token.NumberHalf,
			Left:   ir.ImmOperand(token.NewFloat(token.NumberHalf, 1.5)),
			Result: ir.VarOperand(halfResult),
		},
		{
			OpCode: ir.OpLoadField,
			Left:   ir.VarOperand(x),
			Right:  ir.FieldOperand(1, 2),
			Result: ir.VarOperand(x),
		},
		{
			OpCode: ir.OpCall,
			CallID: 3,
			Args:   []ir.Operand{ir.VarOperand(x), ir.ImmOperand(token.NewInt(token.NumberI32, 42))},
			Result: ir.VarOperand(callResult),
		},
	}
	fn.Block(exit).Instructions = []ir.Instruction{{OpCode: ir.OpReturn, Left: ir.VarOperand(callResult)}}

	fn.Blocks[entry].Successors = []int{exit}
	fn.Blocks[exit].Predecessors = []int{entry}
	fn.Blocks[entry].ImmediateDominator = -1
	fn.Blocks[exit].ImmediateDominator = entry

	module.Functions = append(module.Functions, fn)
	return module
}

func TestWriteReadRoundTripsSymbolTableAndModule(t *testing.T) {
	table := buildTable()
	module := buildModule()

	var buf bytes.Buffer
	require.NoError(t, modfile.Write(&buf, table, module))

	file, err := modfile.Read(&buf)
	require.NoError(t, err)

	assert.True(t, file.Header.IsCompatible())

	// Symbol table: root + engine + render + x == 4 flattened records.
	require.Len(t, file.Symbols, 4)

	var leaf *modfile.SymbolRecord
	for i := range file.Symbols {
		if file.Symbols[i].Name == "x" {
			leaf = &file.Symbols[i]
		}
	}
	require.NotNil(t, leaf)
	assert.True(t, leaf.HasMetadata)
	assert.Equal(t, symbol.TypeParameter, leaf.Kind)
	assert.Equal(t, symbol.AccessPublic, leaf.Access)
	assert.Equal(t, uint32(2), leaf.Depth)
	assert.Empty(t, leaf.Children)

	root := file.Symbols[0]
	assert.Equal(t, uint32(0), root.Index)
	assert.False(t, root.HasMetadata)
	assert.Len(t, root.Children, 1)

	// IL metadata.
	require.Len(t, file.Module.Types, 1)
	assert.Equal(t, "float", file.Module.Types[0].Name)

	require.Len(t, file.Module.Variables, 1)
	assert.Equal(t, uint32(7), file.Module.Variables[0].ID)
	assert.Equal(t, ir.VariableFlagParameter, file.Module.Variables[0].Flags)

	require.Len(t, file.Module.Temporaries, 1)
	assert.Equal(t, uint32(9), file.Module.Temporaries[0].ID)

	require.Len(t, file.Module.Calls, 1)
	assert.Equal(t, "normalize", file.Module.Calls[0].Callee)
	assert.Equal(t, []uint32{1}, file.Module.Calls[0].ParamTypeIDs)

	require.Len(t, file.Module.Functions, 1)
	fn := file.Module.Functions[0]
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Blocks, 2)

	entry := fn.Blocks[0]
	require.Len(t, entry.Instructions, 3)

	half := entry.Instructions[0]
	assert.Equal(t, ir.OpMove, half.OpCode)
	assert.InDelta(t, 1.5, half.Left.Imm.AsFloat64(), 0.01)

	loadField := entry.Instructions[1]
	assert.Equal(t, ir.OpLoadField, loadField.OpCode)
	assert.Equal(t, uint32(1), loadField.Right.Field.TypeID)
	assert.Equal(t, uint32(2), loadField.Right.Field.FieldID)

	call := entry.Instructions[2]
	assert.Equal(t, ir.OpCall, call.OpCode)
	assert.Equal(t, uint32(3), call.CallID)
	require.Len(t, call.Args, 2)
	assert.Equal(t, int64(42), call.Args[1].Imm.AsInt64())

	exit := fn.Blocks[1]
	assert.Equal(t, []int{0}, exit.Predecessors)
	assert.Equal(t, 0, exit.ImmediateDominator)
	require.Len(t, exit.Instructions, 1)
	assert.Equal(t, ir.OpReturn, exit.Instructions[0].OpCode)
}

func TestReadRejectsIncompatibleHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, modfile.Write(&buf, symbol.NewTable(), ir.NewModule()))

	raw := buf.Bytes()
	// Corrupt the major version field, just past the 8-byte magic.
	raw[8] = 0xFF

	_, err := modfile.Read(bytes.NewReader(raw))
	assert.ErrorIs(t, err, modfile.ErrIncompatible)
}

func TestFloat16RoundTripsThroughHalfImmediate(t *testing.T) {
	table := symbol.NewTable()
	module := ir.NewModule()

	fn := &ir.Function{Name: "f"}
	entry := fn.AddBlock()
	fn.Block(entry).Instructions = []ir.Instruction{
		{
			OpCode: ir.OpMove,
			OpKind: token.NumberHalf,
			Left:   ir.ImmOperand(token.NewFloat(token.NumberHalf, 0.25)),
			Result: ir.VarOperand(ir.NewVarID(1)),
		},
	}
	module.Functions = append(module.Functions, fn)

	var buf bytes.Buffer
	require.NoError(t, modfile.Write(&buf, table, module))

	file, err := modfile.Read(&buf)
	require.NoError(t, err)

	got := file.Module.Functions[0].Blocks[0].Instructions[0].Left.Imm.AsFloat64()
	assert.InDelta(t, 0.25, got, 0.0001)
}
