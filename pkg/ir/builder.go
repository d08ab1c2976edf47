package ir

import (
	"fmt"
	"math"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/symbol"
	"github.com/hexaengine/hxslc/pkg/token"
	"github.com/hexaengine/hxslc/pkg/types"
)

// Build lowers every function, operator overload, and constructor body
// declared in a struct or class (including ones nested in namespaces) into
// the module's basic-block IR, consuming the type checker's inferred types
// (Expr.InferredType) to pick number kinds and wire type ids. Opcodes come
// from each operator's source token; the checker's resolved operator
// overloads are not consulted. Functions declared directly at namespace
// scope are not lowered.
func Build(unit *ast.CompilationUnit, checker *types.Checker) *Module {
	b := &builder{
		module:   NewModule(),
		alloc:    newVarAllocator(),
		checker:  checker,
		fieldIDs: make(map[string]map[string]uint32),
	}
	b.lowerDecls(unit.Declarations)
	return b.module
}

// builder owns the state shared across every function lowered from one
// compilation unit: the module being built, a single module-wide variable
// allocator (so every VarID in Module.Variables/Temporaries is unique
// across functions, matching the wire format's flat per-module tables),
// and the struct/class field-id assignment table.
type builder struct {
	module   *Module
	alloc    *varAllocator
	checker  *types.Checker
	fieldIDs map[string]map[string]uint32
}

// handleOf unwraps an already-resolved SymbolRef the same way
// pkg/types.handleOf does; pkg/ir needs its own copy for the same layering
// reason the type checker does (ast cannot import pkg/symbol).
func handleOf(ref *ast.SymbolRef) (symbol.Handle, bool) {
	if ref == nil || !ref.IsResolved() {
		return symbol.Handle{}, false
	}
	h, ok := ref.Handle().(symbol.Handle)
	return h, ok
}

func exprHandle(e ast.Expr) (symbol.Handle, bool) {
	h, ok := e.InferredType().(symbol.Handle)
	if !ok || !h.Valid() {
		return symbol.Handle{}, false
	}
	return h, true
}

// exprKind recovers the NumberKind an expression's inferred scalar type
// folds/casts at, defaulting to a 32-bit int for a non-scalar (struct,
// array, unresolved) expression whose value this IR never folds anyway.
func exprKind(e ast.Expr) token.NumberKind {
	h, ok := exprHandle(e)
	if !ok {
		return token.NumberI32
	}
	return numberKindForScalar(h.ShortName())
}

func numberKindForScalar(name string) token.NumberKind {
	switch name {
	case "uint":
		return token.NumberU32
	case "half":
		return token.NumberHalf
	case "float":
		return token.NumberFloat
	case "double":
		return token.NumberDouble
	case "bool":
		return token.NumberBool
	default:
		return token.NumberI32
	}
}

func scalarNameForKind(k token.NumberKind) string {
	switch k {
	case token.NumberU32:
		return "uint"
	case token.NumberHalf:
		return "half"
	case token.NumberFloat:
		return "float"
	case token.NumberDouble:
		return "double"
	case token.NumberBool:
		return "bool"
	default:
		return "int"
	}
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

// declaredTypeName recovers the scalar type name a field/parameter/local/
// swizzle declaration names, used to pick the NumberKind a load/store of it
// folds at.
func declaredTypeName(decl ast.Node) string {
	var ref *ast.SymbolRef
	switch n := decl.(type) {
	case *ast.FieldDecl:
		ref = n.TypeRef
	case *ast.ParameterDecl:
		ref = n.TypeRef
	case *ast.DeclStmt:
		ref = n.TypeRef
	case *ast.SwizzleDecl:
		ref = n.TypeRef
	}
	if h, ok := handleOf(ref); ok {
		return h.ShortName()
	}
	return ""
}

// fieldID assigns a wire field id to (typeName, fieldName), lazily and
// stably, the same incremental-on-first-use policy Module.TypeID uses.
func (b *builder) fieldID(typeName, fieldName string) uint32 {
	m, ok := b.fieldIDs[typeName]
	if !ok {
		m = make(map[string]uint32)
		b.fieldIDs[typeName] = m
	}
	if id, ok := m[fieldName]; ok {
		return id
	}
	id := uint32(len(m))
	m[fieldName] = id
	return id
}

func (b *builder) lowerDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.NamespaceDecl:
			b.lowerDecls(n.Declarations)
		case *ast.StructDecl:
			b.lowerType(n.TypeName, n.Fields, n.Functions, n.Operators, n.Constructors)
		case *ast.ClassDecl:
			b.lowerType(n.TypeName, n.Fields, n.Functions, n.Operators, n.Constructors)
		}
	}
}

func (b *builder) lowerType(typeName string, fields []*ast.FieldDecl, functions []*ast.FunctionDecl, operators []*ast.OperatorDecl, ctors []*ast.ConstructorDecl) {
	b.module.TypeID(typeName)
	for _, f := range fields {
		b.fieldID(typeName, f.FieldName)
	}

	for _, fn := range functions {
		if fn.Body == nil {
			continue // prototype-only declaration, nothing to lower
		}
		b.lowerFunction(fmt.Sprintf("%s.%s", typeName, fn.FuncName), fn.Parameters, typeName, fn.ReturnType, fn.Body)
	}
	for _, op := range operators {
		if op.Body == nil {
			continue
		}
		b.lowerFunction(fmt.Sprintf("%s.operator%s", typeName, op.Op), op.Parameters, typeName, op.ReturnType, op.Body)
	}
	for _, ctor := range ctors {
		if ctor.Body == nil {
			continue
		}
		b.lowerFunction(typeName+".ctor", ctor.Parameters, typeName, nil, ctor.Body)
	}
}

func (b *builder) lowerFunction(name string, params []*ast.ParameterDecl, thisType string, ret *ast.SymbolRef, body *ast.BlockStmt) {
	fn := &Function{Name: name}
	fb := &funcBuilder{b: b, fn: fn, vars: make(map[declKey]VarID)}
	fb.cur = fn.AddBlock() // entry, always index 0

	thisRaw := b.alloc.declare()
	fb.thisVar = thisRaw
	b.module.AddVariable(VariableInfo{ID: thisRaw.Raw(), TypeID: b.module.TypeID(thisType), Flags: VariableFlagParameter, Name: "this"})

	for _, p := range params {
		v := b.alloc.declare()
		typeName := declaredTypeName(p)
		flags := VariableFlagParameter
		if p.Out {
			flags |= VariableFlagMutable
		}
		b.module.AddVariable(VariableInfo{ID: v.Raw(), TypeID: b.module.TypeID(typeName), Flags: flags, Name: p.ParamName})
		fn.ParamVarIDs = append(fn.ParamVarIDs, v.Raw())
		fb.vars[declKey{decl: p, name: p.ParamName}] = v
	}

	returnTypeName := "void"
	if h, ok := handleOf(ret); ok {
		returnTypeName = h.ShortName()
	}
	fn.ReturnTypeID = b.module.TypeID(returnTypeName)

	fb.lowerStmt(body)
	if fb.fn.Block(fb.cur).Type != ControlFlowReturn {
		fb.emit(Instruction{OpCode: OpReturn})
		fb.fn.Block(fb.cur).Type = ControlFlowReturn
	}

	b.module.AddFunction(fn)
}

// declKey identifies one declared variable by the AST node that introduced
// it plus its name (a DeclStmt can introduce more than one variable, e.g.
// `float a, b;`, so the statement alone isn't a unique key).
type declKey struct {
	decl ast.Node
	name string
}

// loopCtx records the blocks `continue`/`break` inside the innermost
// enclosing loop (or switch, for break) jump to.
type loopCtx struct {
	continueBlock int
	breakBlock    int
}

// funcBuilder lowers one function body, tracking the block currently being
// appended to, each declared variable's live SSA version, the implicit
// `this` variable (declared for every lowered function), and
// the stack of enclosing loop/switch targets for break/continue.
type funcBuilder struct {
	b       *builder
	fn      *Function
	cur     int
	vars    map[declKey]VarID
	thisVar VarID
	loops   []loopCtx
	curSpan source.Span
}

func (fb *funcBuilder) emit(in Instruction) {
	in.Span = fb.curSpan
	blk := fb.fn.Block(fb.cur)
	blk.Instructions = append(blk.Instructions, in)
}

func (fb *funcBuilder) newBlock() int { return fb.fn.AddBlock() }

func (fb *funcBuilder) link(from, to int) {
	fb.fn.Block(from).addSuccessor(to)
	fb.fn.Block(to).addPredecessor(from)
}

func (fb *funcBuilder) newTemp(kind token.NumberKind) VarID {
	v := fb.b.alloc.declare()
	fb.b.module.AddTemporary(VariableInfo{ID: v.Raw(), TypeID: fb.b.module.TypeID(scalarNameForKind(kind)), Flags: VariableFlagTemporary})
	return v
}

func (fb *funcBuilder) thisOperand() Operand { return VarOperand(fb.thisVar) }

// lookupVar returns key's live SSA version, declaring a fresh raw id on the
// (unexpected, resolver-guaranteed-unreachable) case it was never seen.
func (fb *funcBuilder) lookupVar(key declKey) VarID {
	if v, ok := fb.vars[key]; ok {
		return v
	}
	v := fb.b.alloc.declare()
	fb.vars[key] = v
	return v
}

func (fb *funcBuilder) loadField(obj Operand, h symbol.Handle) Operand {
	ownerName := h.Parent().ShortName()
	fieldID := fb.b.fieldID(ownerName, h.ShortName())
	typeID := fb.b.module.TypeID(ownerName)
	kind := numberKindForScalar(declaredTypeName(h.Metadata().Declaration))

	result := VarOperand(fb.newTemp(kind))
	fb.emit(Instruction{OpCode: OpLoadField, OpKind: kind, Left: obj, Right: FieldOperand(typeID, fieldID), Result: result})
	return result
}

func (fb *funcBuilder) storeField(obj Operand, h symbol.Handle, value Operand) {
	ownerName := h.Parent().ShortName()
	fieldID := fb.b.fieldID(ownerName, h.ShortName())
	typeID := fb.b.module.TypeID(ownerName)
	kind := numberKindForScalar(declaredTypeName(h.Metadata().Declaration))

	fb.emit(Instruction{OpCode: OpStoreField, OpKind: kind, Left: obj, Right: FieldOperand(typeID, fieldID), Result: value})
}

// lowerRef lowers a bare identifier reference (parameter, local, implicit-
// this field/swizzle access, or the `this` keyword itself).
func (fb *funcBuilder) lowerRef(ref *ast.SymbolRef) Operand {
	h, ok := handleOf(ref)
	if !ok {
		return Operand{}
	}
	meta := h.Metadata()
	if meta == nil {
		return Operand{}
	}

	switch meta.Kind {
	case symbol.TypeParameter, symbol.TypeVariable:
		return VarOperand(fb.lookupVar(declKey{decl: meta.Declaration, name: h.ShortName()}))
	case symbol.TypeField, symbol.TypeSwizzle:
		return fb.loadField(fb.thisOperand(), h)
	case symbol.TypeStruct, symbol.TypeClass:
		return fb.thisOperand()
	default:
		return Operand{}
	}
}

func (fb *funcBuilder) lowerLiteral(n *ast.LiteralExpr) Operand {
	switch n.Num.Kind {
	case ast.LiteralBool:
		return ImmOperand(token.NewBool(n.Num.Bits != 0))
	case ast.LiteralNumber:
		kind := exprKind(n)
		f := math.Float64frombits(n.Num.Bits)
		if kind == token.NumberHalf || kind == token.NumberFloat || kind == token.NumberDouble {
			return ImmOperand(token.NewFloat(kind, f))
		}
		return ImmOperand(token.NewInt(kind, int64(f)))
	default:
		return Operand{}
	}
}

func foldImmediate(op string, a, b token.Number) (token.Number, bool) {
	switch op {
	case "+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>":
		r := a.Arith(op, b)
		return r, !r.IsUnknown()
	case "==", "!=", "<", "<=", ">", ">=":
		r := a.Compare(op, b)
		return r, !r.IsUnknown()
	case "&&", "||":
		r := a.Logical(op, b)
		return r, !r.IsUnknown()
	}
	return token.Number{}, false
}

func (fb *funcBuilder) lowerBinary(n *ast.BinaryExpr) Operand {
	left := fb.lowerExpr(n.Left)
	right := fb.lowerExpr(n.Right)
	kind := exprKind(n)

	if left.IsImmediate() && right.IsImmediate() {
		if folded, ok := foldImmediate(n.Op, left.Imm, right.Imm); ok {
			return ImmOperand(folded)
		}
	}

	op, ok := OpcodeForBinary(n.Op)
	if !ok {
		return Operand{}
	}
	result := VarOperand(fb.newTemp(kind))
	fb.emit(Instruction{OpCode: op, OpKind: kind, Left: left, Right: right, Result: result})
	return result
}

func (fb *funcBuilder) lowerUnary(n *ast.UnaryExpr) Operand {
	operand := fb.lowerExpr(n.Operand)
	kind := exprKind(n)

	if operand.IsImmediate() {
		if r := operand.Imm.Negate(n.Op); !r.IsUnknown() {
			return ImmOperand(r)
		}
	}

	op, ok := OpcodeForUnary(n.Op)
	if !ok {
		return Operand{}
	}
	result := VarOperand(fb.newTemp(kind))
	fb.emit(Instruction{OpCode: op, OpKind: kind, Left: operand, Result: result})
	return result
}

// lowerPostfix lowers `x++`/`x--`/`++x`/`--x`: the operand is re-read, bumped
// by one, written back, and either the old (postfix) or new (prefix) value
// is the expression's result.
func (fb *funcBuilder) lowerPostfix(n *ast.PostfixExpr) Operand {
	kind := exprKind(n)
	delta := zeroOf(kind)
	arithOp := "+"
	if n.Op == "--" {
		arithOp = "-"
	}
	if kind == token.NumberHalf || kind == token.NumberFloat || kind == token.NumberDouble {
		delta = token.NewFloat(kind, 1)
	} else {
		delta = token.NewInt(kind, 1)
	}

	old := fb.lowerExpr(n.Operand)
	var updated Operand
	if old.IsImmediate() {
		updated = ImmOperand(old.Imm.Arith(arithOp, delta))
	} else {
		code := OpAdd
		if arithOp == "-" {
			code = OpSubtract
		}
		result := VarOperand(fb.newTemp(kind))
		fb.emit(Instruction{OpCode: code, OpKind: kind, Left: old, Right: ImmOperand(delta), Result: result})
		updated = result
	}

	fb.lowerAssignTo(n.Operand, updated)
	if n.Prefix {
		return updated
	}
	return old
}

func (fb *funcBuilder) lowerCompoundAssign(n *ast.CompoundAssignExpr) Operand {
	targetVal := fb.lowerExpr(n.Target)
	value := fb.lowerExpr(n.Value)
	op := n.Op[:len(n.Op)-1] // "+=" -> "+"
	kind := exprKind(n)

	var result Operand
	if targetVal.IsImmediate() && value.IsImmediate() {
		if folded, ok := foldImmediate(op, targetVal.Imm, value.Imm); ok {
			result = ImmOperand(folded)
		}
	}
	if result.Kind == OperandNone {
		code, ok := OpcodeForBinary(op)
		if !ok {
			return targetVal
		}
		temp := VarOperand(fb.newTemp(kind))
		fb.emit(Instruction{OpCode: code, OpKind: kind, Left: targetVal, Right: value, Result: temp})
		result = temp
	}

	fb.lowerAssignTo(n.Target, result)
	return result
}

func (fb *funcBuilder) lowerAssignTo(target ast.Expr, value Operand) Operand {
	switch n := target.(type) {
	case *ast.MemberRefExpr:
		h, ok := handleOf(n.Symbol)
		if !ok {
			return value
		}
		meta := h.Metadata()
		if meta == nil {
			return value
		}
		switch meta.Kind {
		case symbol.TypeParameter, symbol.TypeVariable:
			key := declKey{decl: meta.Declaration, name: h.ShortName()}
			raw := fb.lookupVar(key).Raw()
			fresh := fb.b.alloc.fresh(raw)
			fb.emit(Instruction{OpCode: OpMove, OpKind: exprKind(n), Left: value, Result: VarOperand(fresh)})
			fb.vars[key] = fresh
		case symbol.TypeField, symbol.TypeSwizzle:
			fb.storeField(fb.thisOperand(), h, value)
		}
		return value

	case *ast.MemberAccessExpr:
		obj := fb.lowerExpr(n.Target)
		if h, ok := handleOf(n.Symbol); ok {
			fb.storeField(obj, h, value)
		}
		return value

	case *ast.IndexExpr:
		arr := fb.lowerExpr(n.Target)
		idx := fb.lowerExpr(n.Index)
		fb.emit(Instruction{OpCode: OpStoreIndex, OpKind: exprKind(n), Left: arr, Right: idx, Result: value})
		return value

	default:
		return value
	}
}

func (fb *funcBuilder) lowerCall(n *ast.CallExpr) Operand {
	args := make([]Operand, 0, len(n.Args))
	paramTypeIDs := make([]uint32, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, fb.lowerExpr(a.Value))
		typeName := ""
		if h, ok := exprHandle(a.Value); ok {
			typeName = h.ShortName()
		}
		paramTypeIDs = append(paramTypeIDs, fb.b.module.TypeID(typeName))
	}

	calleeName := ""
	if h, ok := handleOf(n.Symbol); ok {
		calleeName = h.FullyQualifiedName()
	}

	kind := exprKind(n)
	returnTypeName := scalarNameForKind(kind)
	if h, ok := exprHandle(n); ok {
		returnTypeName = h.ShortName()
	}
	returnTypeID := fb.b.module.TypeID(returnTypeName)

	callID := fb.b.module.AddCall(calleeName, paramTypeIDs, returnTypeID)
	result := VarOperand(fb.newTemp(kind))
	fb.emit(Instruction{OpCode: OpCall, OpKind: kind, CallID: callID, Args: args, Result: result})
	return result
}

// lowerTernary lowers `cond ? then : else` into a three-block diamond: the
// chosen arm moves its value into one shared result temp before jumping to
// the merge block. This IR has no phi instruction, so — unlike a strict
// SSA form — the two arms deliberately write the same VarID/version rather
// than each producing their own version for a phi to join; they are
// mutually exclusive at runtime so this never observes a torn value.
func (fb *funcBuilder) lowerTernary(n *ast.TernaryExpr) Operand {
	cond := fb.lowerExpr(n.Cond)
	kind := exprKind(n)
	result := fb.newTemp(kind)

	thenBlock := fb.newBlock()
	elseBlock := fb.newBlock()
	mergeBlock := fb.newBlock()

	branchBlock := fb.cur
	fb.emit(Instruction{OpCode: OpJumpZero, OpKind: token.NumberBool, Left: cond, Result: LabelOperand(elseBlock)})
	fb.fn.Block(branchBlock).Type = ControlFlowBranch
	fb.link(branchBlock, thenBlock)
	fb.link(branchBlock, elseBlock)

	fb.cur = thenBlock
	thenVal := fb.lowerExpr(n.Then)
	fb.emit(Instruction{OpCode: OpMove, OpKind: kind, Left: thenVal, Result: VarOperand(result)})
	fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(mergeBlock)})
	fb.link(fb.cur, mergeBlock)

	fb.cur = elseBlock
	elseVal := fb.lowerExpr(n.Else)
	fb.emit(Instruction{OpCode: OpMove, OpKind: kind, Left: elseVal, Result: VarOperand(result)})
	fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(mergeBlock)})
	fb.link(fb.cur, mergeBlock)

	fb.cur = mergeBlock
	return VarOperand(result)
}

// lowerExpr lowers e into the operand its value lives in, emitting whatever
// instructions (and, for a ternary, blocks) are needed to produce it.
func (fb *funcBuilder) lowerExpr(e ast.Expr) Operand {
	switch n := e.(type) {
	case nil, *ast.EmptyExpr:
		return Operand{}
	case *ast.LiteralExpr:
		return fb.lowerLiteral(n)
	case *ast.MemberRefExpr:
		return fb.lowerRef(n.Symbol)
	case *ast.MemberAccessExpr:
		target := fb.lowerExpr(n.Target)
		if h, ok := handleOf(n.Symbol); ok {
			return fb.loadField(target, h)
		}
		return Operand{}
	case *ast.CallExpr:
		return fb.lowerCall(n)
	case *ast.IndexExpr:
		arr := fb.lowerExpr(n.Target)
		idx := fb.lowerExpr(n.Index)
		kind := exprKind(n)
		result := VarOperand(fb.newTemp(kind))
		fb.emit(Instruction{OpCode: OpLoadIndex, OpKind: kind, Left: arr, Right: idx, Result: result})
		return result
	case *ast.CastExpr:
		operand := fb.lowerExpr(n.Operand)
		kind := exprKind(n)
		if operand.IsImmediate() {
			return ImmOperand(operand.Imm.ConvertTo(kind))
		}
		result := VarOperand(fb.newTemp(kind))
		fb.emit(Instruction{OpCode: OpCast, OpKind: kind, Left: operand, Result: result})
		return result
	case *ast.TernaryExpr:
		return fb.lowerTernary(n)
	case *ast.BinaryExpr:
		return fb.lowerBinary(n)
	case *ast.UnaryExpr:
		return fb.lowerUnary(n)
	case *ast.PostfixExpr:
		return fb.lowerPostfix(n)
	case *ast.AssignExpr:
		value := fb.lowerExpr(n.Value)
		return fb.lowerAssignTo(n.Target, value)
	case *ast.CompoundAssignExpr:
		return fb.lowerCompoundAssign(n)
	case *ast.InitExpr:
		for _, elem := range n.Elements {
			fb.lowerExpr(elem)
		}
		return Operand{}
	default:
		return Operand{}
	}
}

func (fb *funcBuilder) lowerDeclStmt(n *ast.DeclStmt) {
	typeName := ""
	if h, ok := handleOf(n.TypeRef); ok {
		typeName = h.ShortName()
	}
	kind := numberKindForScalar(typeName)

	for i, name := range n.Names {
		v := fb.b.alloc.declare()
		key := declKey{decl: n, name: name.Name}
		fb.vars[key] = v
		fb.b.module.AddVariable(VariableInfo{ID: v.Raw(), TypeID: fb.b.module.TypeID(typeName), Name: name.Name})

		init := ImmOperand(zeroOf(kind))
		if i < len(n.Inits) && n.Inits[i] != nil {
			init = fb.lowerExpr(n.Inits[i])
		}
		fb.emit(Instruction{OpCode: OpMove, OpKind: kind, Left: init, Result: VarOperand(v)})
	}
}

func (fb *funcBuilder) lowerReturn(n *ast.ReturnStmt) {
	if n.Value == nil {
		fb.emit(Instruction{OpCode: OpReturn})
	} else {
		fb.emit(Instruction{OpCode: OpReturn, Left: fb.lowerExpr(n.Value)})
	}
	fb.fn.Block(fb.cur).Type = ControlFlowReturn
}

func (fb *funcBuilder) lowerIf(n *ast.IfStmt) {
	cond := fb.lowerExpr(n.Cond)

	thenBlock := fb.newBlock()
	hasElse := n.Else != nil
	elseBlock := 0
	if hasElse {
		elseBlock = fb.newBlock()
	}
	mergeBlock := fb.newBlock()

	branchTarget := mergeBlock
	if hasElse {
		branchTarget = elseBlock
	}

	branchBlock := fb.cur
	fb.emit(Instruction{OpCode: OpJumpZero, OpKind: token.NumberBool, Left: cond, Result: LabelOperand(branchTarget)})
	fb.fn.Block(branchBlock).Type = ControlFlowBranch
	fb.link(branchBlock, thenBlock)
	fb.link(branchBlock, branchTarget)

	fb.cur = thenBlock
	fb.lowerStmt(n.Then)
	if fb.fn.Block(fb.cur).Type != ControlFlowReturn {
		fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(mergeBlock)})
		fb.link(fb.cur, mergeBlock)
	}

	if hasElse {
		fb.cur = elseBlock
		fb.lowerStmt(n.Else)
		if fb.fn.Block(fb.cur).Type != ControlFlowReturn {
			fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(mergeBlock)})
			fb.link(fb.cur, mergeBlock)
		}
	}

	fb.cur = mergeBlock
}

func (fb *funcBuilder) lowerWhile(n *ast.WhileStmt) {
	condBlock := fb.newBlock()
	bodyBlock := fb.newBlock()
	afterBlock := fb.newBlock()

	fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(condBlock)})
	fb.link(fb.cur, condBlock)

	fb.cur = condBlock
	cond := fb.lowerExpr(n.Cond)
	fb.emit(Instruction{OpCode: OpJumpZero, OpKind: token.NumberBool, Left: cond, Result: LabelOperand(afterBlock)})
	fb.fn.Block(condBlock).Type = ControlFlowBranch
	fb.link(condBlock, bodyBlock)
	fb.link(condBlock, afterBlock)

	fb.loops = append(fb.loops, loopCtx{continueBlock: condBlock, breakBlock: afterBlock})
	fb.cur = bodyBlock
	fb.lowerStmt(n.Body)
	if fb.fn.Block(fb.cur).Type != ControlFlowReturn {
		fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(condBlock)})
		fb.link(fb.cur, condBlock)
	}
	fb.loops = fb.loops[:len(fb.loops)-1]

	fb.cur = afterBlock
}

func (fb *funcBuilder) lowerDoWhile(n *ast.DoWhileStmt) {
	bodyBlock := fb.newBlock()
	condBlock := fb.newBlock()
	afterBlock := fb.newBlock()

	fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(bodyBlock)})
	fb.link(fb.cur, bodyBlock)

	fb.loops = append(fb.loops, loopCtx{continueBlock: condBlock, breakBlock: afterBlock})
	fb.cur = bodyBlock
	fb.lowerStmt(n.Body)
	if fb.fn.Block(fb.cur).Type != ControlFlowReturn {
		fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(condBlock)})
		fb.link(fb.cur, condBlock)
	}
	fb.loops = fb.loops[:len(fb.loops)-1]

	fb.cur = condBlock
	cond := fb.lowerExpr(n.Cond)
	fb.emit(Instruction{OpCode: OpJumpNotZero, OpKind: token.NumberBool, Left: cond, Result: LabelOperand(bodyBlock)})
	fb.fn.Block(condBlock).Type = ControlFlowBranch
	fb.link(condBlock, bodyBlock)
	fb.link(condBlock, afterBlock)

	fb.cur = afterBlock
}

func (fb *funcBuilder) lowerFor(n *ast.ForStmt) {
	if n.Init != nil {
		fb.lowerStmt(n.Init)
	}

	condBlock := fb.newBlock()
	bodyBlock := fb.newBlock()
	stepBlock := fb.newBlock()
	afterBlock := fb.newBlock()

	fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(condBlock)})
	fb.link(fb.cur, condBlock)

	fb.cur = condBlock
	cond := Operand{}
	if _, empty := n.Cond.(*ast.EmptyExpr); !empty {
		cond = fb.lowerExpr(n.Cond)
	} else {
		cond = ImmOperand(token.NewBool(true))
	}
	fb.emit(Instruction{OpCode: OpJumpZero, OpKind: token.NumberBool, Left: cond, Result: LabelOperand(afterBlock)})
	fb.fn.Block(condBlock).Type = ControlFlowBranch
	fb.link(condBlock, bodyBlock)
	fb.link(condBlock, afterBlock)

	fb.loops = append(fb.loops, loopCtx{continueBlock: stepBlock, breakBlock: afterBlock})
	fb.cur = bodyBlock
	fb.lowerStmt(n.Body)
	if fb.fn.Block(fb.cur).Type != ControlFlowReturn {
		fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(stepBlock)})
		fb.link(fb.cur, stepBlock)
	}
	fb.loops = fb.loops[:len(fb.loops)-1]

	fb.cur = stepBlock
	if n.Step != nil {
		if _, empty := n.Step.(*ast.EmptyExpr); !empty {
			fb.lowerExpr(n.Step)
		}
	}
	fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(condBlock)})
	fb.link(fb.cur, condBlock)

	fb.cur = afterBlock
}

// lowerSwitch desugars a switch into a chain of equality-tested branches,
// one per case in source order, falling to the default arm (if any) when
// every case misses; case bodies never fall through to the next case, a
// deliberate simplification since nothing in this dialect's statement
// checker validates fallthrough-dependent control flow.
func (fb *funcBuilder) lowerSwitch(n *ast.SwitchStmt) {
	value := fb.lowerExpr(n.Value)
	kind := exprKind(n.Value)
	afterBlock := fb.newBlock()
	continueBlock := afterBlock
	if len(fb.loops) > 0 {
		continueBlock = fb.loops[len(fb.loops)-1].continueBlock
	}
	fb.loops = append(fb.loops, loopCtx{continueBlock: continueBlock, breakBlock: afterBlock})

	var defaultCase *ast.CaseStmt
	for _, c := range n.Cases {
		if c.Value == nil {
			defaultCase = c
			continue
		}

		caseVal := fb.lowerExpr(c.Value)
		cmp := VarOperand(fb.newTemp(token.NumberBool))
		fb.emit(Instruction{OpCode: OpEqual, OpKind: kind, Left: value, Right: caseVal, Result: cmp})

		bodyBlock := fb.newBlock()
		nextBlock := fb.newBlock()
		branchBlock := fb.cur
		fb.emit(Instruction{OpCode: OpJumpZero, OpKind: token.NumberBool, Left: cmp, Result: LabelOperand(nextBlock)})
		fb.fn.Block(branchBlock).Type = ControlFlowBranch
		fb.link(branchBlock, bodyBlock)
		fb.link(branchBlock, nextBlock)

		fb.cur = bodyBlock
		for _, s := range c.Statements {
			fb.lowerStmt(s)
		}
		if fb.fn.Block(fb.cur).Type != ControlFlowReturn {
			fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(afterBlock)})
			fb.link(fb.cur, afterBlock)
		}

		fb.cur = nextBlock
	}

	if defaultCase != nil {
		for _, s := range defaultCase.Statements {
			fb.lowerStmt(s)
		}
	}
	if fb.fn.Block(fb.cur).Type != ControlFlowReturn {
		fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(afterBlock)})
		fb.link(fb.cur, afterBlock)
	}

	fb.loops = fb.loops[:len(fb.loops)-1]
	fb.cur = afterBlock
}

func (fb *funcBuilder) lowerJump(n *ast.JumpStmt) {
	if n.Op == ast.JumpDiscard {
		fb.emit(Instruction{OpCode: OpReturn})
		fb.fn.Block(fb.cur).Type = ControlFlowReturn
		return
	}
	if len(fb.loops) == 0 {
		return
	}

	top := fb.loops[len(fb.loops)-1]
	target := top.breakBlock
	if n.Op == ast.JumpContinue {
		target = top.continueBlock
	}
	fb.emit(Instruction{OpCode: OpJump, Result: LabelOperand(target)})
	fb.link(fb.cur, target)
}

func (fb *funcBuilder) lowerStmt(s ast.Stmt) {
	if s != nil {
		fb.curSpan = s.Span()
	}
	switch n := s.(type) {
	case *ast.BlockStmt:
		for _, inner := range n.Statements {
			fb.lowerStmt(inner)
		}
	case *ast.DeclStmt:
		fb.lowerDeclStmt(n)
	case *ast.AssignStmt:
		fb.lowerExpr(n.Assign)
	case *ast.CompoundAssignStmt:
		fb.lowerExpr(n.Assign)
	case *ast.ExprStmt:
		fb.lowerExpr(n.Value)
	case *ast.ReturnStmt:
		fb.lowerReturn(n)
	case *ast.IfStmt:
		fb.lowerIf(n)
	case *ast.ElseStmt:
		fb.lowerStmt(n.Body)
	case *ast.WhileStmt:
		fb.lowerWhile(n)
	case *ast.DoWhileStmt:
		fb.lowerDoWhile(n)
	case *ast.ForStmt:
		fb.lowerFor(n)
	case *ast.SwitchStmt:
		fb.lowerSwitch(n)
	case *ast.JumpStmt:
		fb.lowerJump(n)
	}
}
