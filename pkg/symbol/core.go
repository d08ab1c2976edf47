package symbol

import (
	"fmt"
	"sync"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/source"
)

// scalarTypes is the built-in scalar vocabulary every vector and matrix
// primitive is generated from. "void" is excluded from vector/matrix/
// operator generation below — it names the absence of a value, not a
// computable scalar.
var scalarTypes = []string{"bool", "int", "uint", "half", "float", "double"}

// arithmeticOps get a same-type-in, same-type-out overload on every numeric
// scalar and on every generated vector type (bool vectors included); matrix
// types get only +, - and *.
var arithmeticOps = []string{"+", "-", "*", "/", "%"}

// comparisonOps always return bool.
var comparisonOps = []string{"==", "!=", "<", "<=", ">", ">="}

// logicalOps are only meaningful on bool.
var logicalOps = []string{"&&", "||"}

var coreOnce sync.Once
var coreAssembly *Assembly

// Core returns the process-wide, sealed HXSL.Core assembly holding every
// built-in scalar, vector and matrix primitive plus the opaque SamplerState/
// Texture2D classes, built once and shared by every compilation — matching
// the immutable-for-the-process-lifetime primitive cache described for the
// symbol table. It is safe to call from multiple goroutines: sync.Once
// serializes the one-time build, and every read after that is against a
// sealed, therefore never-again-mutated, table.
func Core() *Assembly {
	coreOnce.Do(func() {
		coreAssembly = buildCore()
	})
	return coreAssembly
}

func buildCore() *Assembly {
	b := &coreBuilder{
		asm:   NewAssembly("HXSL.Core"),
		arena: ast.NewArena(),
	}

	for _, name := range []string{"void", "bool", "int", "uint", "half", "float", "double"} {
		b.declareScalar(name)
	}

	for _, scalar := range scalarTypes {
		for dim := 2; dim <= 4; dim++ {
			b.declareVector(scalar, dim)
		}
	}

	for _, scalar := range scalarTypes {
		for rows := 2; rows <= 4; rows++ {
			for cols := 2; cols <= 4; cols++ {
				b.declareMatrix(scalar, rows, cols)
			}
		}
	}

	b.declareOpaqueClasses()
	b.asm.Seal()

	return b.asm
}

// coreBuilder holds the bookkeeping shared across the HXSL.Core population
// steps: the assembly under construction, its arena, and a name→handle
// index so later steps (vectors referencing their scalar, operators
// referencing both operand types) don't have to re-walk the table.
type coreBuilder struct {
	asm    *Assembly
	arena  *ast.Arena
	byName map[string]Handle
}

func zeroSpan() source.Span { return source.Span{} }

func (b *coreBuilder) index(name string, h Handle) {
	if b.byName == nil {
		b.byName = make(map[string]Handle)
	}
	b.byName[name] = h
}

func (b *coreBuilder) typeRef(name string) *ast.SymbolRef {
	ref := ast.NewSymbolRef(zeroSpan(), name, ast.RefType, false)
	if h, ok := b.byName[name]; ok {
		ref.Resolve(h)
	}
	return ref
}

func (b *coreBuilder) declareScalar(name string) {
	decl := ast.NewPrimitiveDecl(b.arena, zeroSpan(), name)
	h := b.asm.Table.Insert(name, NewMetadata(decl, AccessPublic), nil)
	b.index(name, h)

	if name == "void" {
		return
	}

	if name == "bool" {
		b.addBinaryGrid(decl, h, name, comparisonOps, "bool")
		b.addBinaryGrid(decl, h, name, logicalOps, "bool")
		b.addUnary(decl, h, name, "!", "bool")
		return
	}

	b.addBinaryGrid(decl, h, name, arithmeticOps, name)
	b.addBinaryGrid(decl, h, name, comparisonOps, "bool")
	b.addUnary(decl, h, name, "-", name)
}

func vectorName(scalar string, dim int) string { return fmt.Sprintf("%s%d", scalar, dim) }
func matrixName(scalar string, rows, cols int) string {
	return fmt.Sprintf("%s%dx%d", scalar, rows, cols)
}

func (b *coreBuilder) declareVector(scalar string, dim int) {
	name := vectorName(scalar, dim)
	decl := ast.NewPrimitiveDecl(b.arena, zeroSpan(), name)
	h := b.asm.Table.Insert(name, NewMetadata(decl, AccessPublic), nil)
	b.index(name, h)

	// component-wise vec-op-vec and vec-op-scalar for arithmetic, plus
	// negation; comparisons are not defined component-wise at this level
	// (they would need to return a bool vector, which this dialect does
	// not model).
	for _, op := range arithmeticOps {
		b.addOperator(decl, h, op, name, name, name)
		b.addOperator(decl, h, op, name, scalar, name)
	}
	b.addUnary(decl, h, name, "-", name)
}

func (b *coreBuilder) declareMatrix(scalar string, rows, cols int) {
	name := matrixName(scalar, rows, cols)
	decl := ast.NewPrimitiveDecl(b.arena, zeroSpan(), name)
	h := b.asm.Table.Insert(name, NewMetadata(decl, AccessPublic), nil)
	b.index(name, h)

	b.addOperator(decl, h, "+", name, name, name)
	b.addOperator(decl, h, "-", name, name, name)
	b.addOperator(decl, h, "*", name, name, name)
	b.addOperator(decl, h, "*", name, scalar, name)
	b.addUnary(decl, h, name, "-", name)
}

// addBinaryGrid adds one overload per op in ops, all sharing the same
// (operandType, operandType) -> retType shape — the common case for a
// scalar's arithmetic/comparison/logical family.
func (b *coreBuilder) addBinaryGrid(owner *ast.PrimitiveDecl, ownerHandle Handle, operandType string, ops []string, retType string) {
	for _, op := range ops {
		b.addOperator(owner, ownerHandle, op, operandType, operandType, retType)
	}
}

// addOperator synthesizes one `operator OP(lhsType, rhsType) -> retType`
// overload as a child symbol of owner's node, the way a user-written
// operator overload would be collected by the resolver — except seeded
// directly here since HXSL.Core never goes through the parser.
func (b *coreBuilder) addOperator(owner *ast.PrimitiveDecl, ownerHandle Handle, op, lhsType, rhsType, retType string) {
	params := []*ast.ParameterDecl{
		ast.NewParameterDecl(b.arena, zeroSpan(), "lhs", b.typeRef(lhsType), true, false),
		ast.NewParameterDecl(b.arena, zeroSpan(), "rhs", b.typeRef(rhsType), true, false),
	}
	opDecl := ast.NewOperatorDecl(b.arena, zeroSpan(), op, params, b.typeRef(retType), nil)
	owner.AddOperator(opDecl)

	sig := fmt.Sprintf("operator%s(%s,%s)", op, lhsType, rhsType)
	b.asm.Table.Insert(sig, NewMetadata(opDecl, AccessPublic), ownerHandle.node)
}

// addUnary synthesizes a single-operand `operator OP(operandType) -> retType`.
func (b *coreBuilder) addUnary(owner *ast.PrimitiveDecl, ownerHandle Handle, operandType, op, retType string) {
	params := []*ast.ParameterDecl{
		ast.NewParameterDecl(b.arena, zeroSpan(), "operand", b.typeRef(operandType), true, false),
	}
	opDecl := ast.NewOperatorDecl(b.arena, zeroSpan(), op, params, b.typeRef(retType), nil)
	owner.AddOperator(opDecl)

	sig := fmt.Sprintf("operator%s(%s)", op, operandType)
	b.asm.Table.Insert(sig, NewMetadata(opDecl, AccessPublic), ownerHandle.node)
}

// declareOpaqueClasses seeds SamplerState (an empty opaque handle type) and
// Texture2D with its Sample(SamplerState, float2) -> float4 intrinsic
// method, matching the primitive manager's pre-seeded intrinsic surface.
func (b *coreBuilder) declareOpaqueClasses() {
	samplerDecl := ast.NewClassDecl(b.arena, zeroSpan(), "SamplerState", nil)
	samplerHandle := b.asm.Table.Insert("SamplerState", NewMetadata(samplerDecl, AccessPublic), nil)
	b.index("SamplerState", samplerHandle)

	textureDecl := ast.NewClassDecl(b.arena, zeroSpan(), "Texture2D", nil)
	textureHandle := b.asm.Table.Insert("Texture2D", NewMetadata(textureDecl, AccessPublic), nil)
	b.index("Texture2D", textureHandle)

	params := []*ast.ParameterDecl{
		ast.NewParameterDecl(b.arena, zeroSpan(), "sampler", b.typeRef("SamplerState"), true, false),
		ast.NewParameterDecl(b.arena, zeroSpan(), "uv", b.typeRef("float2"), true, false),
	}
	sample := ast.NewFunctionDecl(b.arena, zeroSpan(), "Sample", params, b.typeRef("float4"), nil)
	textureDecl.AddFunction(sample)

	sig := fmt.Sprintf("Sample(%s,%s)", "SamplerState", "float2")
	b.asm.Table.Insert(sig, NewMetadata(sample, AccessPublic), textureHandle.node)
}
