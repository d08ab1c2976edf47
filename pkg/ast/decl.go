package ast

import "github.com/hexaengine/hxslc/pkg/source"

// Decl is implemented by every top-level or member declaration node.
type Decl interface {
	Node
	// Name is the declared short name, e.g. "foo" for `float foo;` or for a
	// function foo, and "operator+" for an operator overload. It never
	// includes parameter types; the overload signature is built separately
	// from this name plus the Parameters.
	Name() string
}

// AttributeDecl is a `[Name(args...)]` annotation attached to the
// declaration that immediately follows it. Neither the resolver nor the
// type checker reads attributes: their names and arguments are not resolved
// or validated.
type AttributeDecl struct {
	NodeBase
	AttrName string
	Args     []Expr
}

func NewAttributeDecl(a *Arena, span source.Span, name string, args []Expr) *AttributeDecl {
	n := &AttributeDecl{AttrName: name, Args: args}
	n.init(a, KindAttributeDeclaration, span, false)
	for _, arg := range args {
		linkChildren(n, arg)
	}
	return n
}

func (n *AttributeDecl) Name() string { return n.AttrName }

func (n *AttributeDecl) Children() []Node {
	children := make([]Node, len(n.Args))
	for i, arg := range n.Args {
		children[i] = arg
	}
	return children
}

// CompilationUnit is the AST root for one source file: a set of using
// directives (recorded as plain strings, resolved against the assembly
// collection at the start of symbol resolution) plus top-level
// declarations. It has no parent.
type CompilationUnit struct {
	NodeBase
	FileID       source.ID
	Usings       []string
	Declarations []Decl
}

func NewCompilationUnit(a *Arena, span source.Span, fileID source.ID) *CompilationUnit {
	n := &CompilationUnit{FileID: fileID}
	n.init(a, KindCompilationUnit, span, false)
	return n
}

func (n *CompilationUnit) Name() string { return "" }

func (n *CompilationUnit) AddDeclaration(d Decl) {
	n.Declarations = append(n.Declarations, d)
	linkChildren(n, d)
}

func (n *CompilationUnit) Children() []Node {
	children := make([]Node, len(n.Declarations))
	for i, d := range n.Declarations {
		children[i] = d
	}
	return children
}

// NamespaceDecl groups declarations under a dotted name, contributing one
// edge per path segment to the enclosing symbol table.
type NamespaceDecl struct {
	NodeBase
	QualifiedName string
	Declarations  []Decl
}

func NewNamespaceDecl(a *Arena, span source.Span, name string) *NamespaceDecl {
	n := &NamespaceDecl{QualifiedName: name}
	n.init(a, KindNamespace, span, false)
	return n
}

func (n *NamespaceDecl) Name() string { return n.QualifiedName }

func (n *NamespaceDecl) AddDeclaration(d Decl) {
	n.Declarations = append(n.Declarations, d)
	linkChildren(n, d)
}

func (n *NamespaceDecl) Children() []Node {
	children := make([]Node, len(n.Declarations))
	for i, d := range n.Declarations {
		children[i] = d
	}
	return children
}

// FieldDecl is a struct/class member variable declaration.
type FieldDecl struct {
	NodeBase
	FieldName string
	TypeRef   *SymbolRef
	Attrs     []*AttributeDecl
}

func NewFieldDecl(a *Arena, span source.Span, name string, typeRef *SymbolRef) *FieldDecl {
	n := &FieldDecl{FieldName: name, TypeRef: typeRef}
	n.init(a, KindField, span, false)
	return n
}

func (n *FieldDecl) AddAttr(at *AttributeDecl) {
	n.Attrs = append(n.Attrs, at)
	linkChildren(n, at)
}

func (n *FieldDecl) Name() string { return n.FieldName }

func (n *FieldDecl) Children() []Node {
	children := make([]Node, len(n.Attrs))
	for i, at := range n.Attrs {
		children[i] = at
	}
	return children
}

// ParameterDecl is one formal parameter of a function, operator overload,
// or constructor.
type ParameterDecl struct {
	NodeBase
	ParamName string
	TypeRef   *SymbolRef
	In        bool
	Out       bool
}

func NewParameterDecl(a *Arena, span source.Span, name string, typeRef *SymbolRef, in, out bool) *ParameterDecl {
	n := &ParameterDecl{ParamName: name, TypeRef: typeRef, In: in, Out: out}
	n.init(a, KindParameter, span, false)
	return n
}

func (n *ParameterDecl) Name() string   { return n.ParamName }
func (n *ParameterDecl) Children() []Node { return nil }

// ThisDecl is the implicit `this` parameter of a non-static member
// function; modeled as its own declaration node (rather than folded into
// Parameters) so the resolver can special-case it when building the
// function's overload signature, which never includes `this`.
type ThisDecl struct {
	NodeBase
	TypeRef *SymbolRef
}

func NewThisDecl(a *Arena, span source.Span, typeRef *SymbolRef) *ThisDecl {
	n := &ThisDecl{TypeRef: typeRef}
	n.init(a, KindThisDef, span, false)
	return n
}

func (n *ThisDecl) Name() string      { return "this" }
func (n *ThisDecl) Children() []Node { return nil }

// FunctionDecl is a named function (or method) overload.
type FunctionDecl struct {
	NodeBase
	FuncName   string
	This       *ThisDecl // nil for a free (non-member) function
	Parameters []*ParameterDecl
	ReturnType *SymbolRef
	Body       *BlockStmt // nil for a declaration-only prototype
	Attrs      []*AttributeDecl
}

func NewFunctionDecl(a *Arena, span source.Span, name string, params []*ParameterDecl, ret *SymbolRef, body *BlockStmt) *FunctionDecl {
	n := &FunctionDecl{FuncName: name, Parameters: params, ReturnType: ret, Body: body}
	n.init(a, KindFunctionOverload, span, false)
	for _, p := range params {
		linkChildren(n, p)
	}
	if body != nil {
		linkChildren(n, body)
	}
	return n
}

func (n *FunctionDecl) Name() string { return n.FuncName }

func (n *FunctionDecl) AddAttr(at *AttributeDecl) {
	n.Attrs = append(n.Attrs, at)
	linkChildren(n, at)
}

func (n *FunctionDecl) SetThis(this *ThisDecl) {
	if this == nil {
		return
	}

	n.This = this
	linkChildren(n, this)
}

func (n *FunctionDecl) Children() []Node {
	children := make([]Node, 0, len(n.Parameters)+len(n.Attrs)+1)
	for _, at := range n.Attrs {
		children = append(children, at)
	}
	if n.This != nil {
		children = append(children, n.This)
	}
	for _, p := range n.Parameters {
		children = append(children, p)
	}
	if n.Body != nil {
		children = append(children, n.Body)
	}
	return children
}

// OperatorDecl is a user-defined `operator+(...)`-style overload, or a
// built-in operator overload seeded directly onto the primitive assembly
// without ever having a parser-produced AST node (see pkg/symbol's core
// assembly construction).
type OperatorDecl struct {
	NodeBase
	Op         string
	Parameters []*ParameterDecl
	ReturnType *SymbolRef
	Body       *BlockStmt
}

func NewOperatorDecl(a *Arena, span source.Span, op string, params []*ParameterDecl, ret *SymbolRef, body *BlockStmt) *OperatorDecl {
	n := &OperatorDecl{Op: op, Parameters: params, ReturnType: ret, Body: body}
	n.init(a, KindOperatorOverload, span, false)
	for _, p := range params {
		linkChildren(n, p)
	}
	if body != nil {
		linkChildren(n, body)
	}
	return n
}

func (n *OperatorDecl) Name() string { return "operator" + n.Op }

func (n *OperatorDecl) Children() []Node {
	children := make([]Node, 0, len(n.Parameters)+1)
	for _, p := range n.Parameters {
		children = append(children, p)
	}
	if n.Body != nil {
		children = append(children, n.Body)
	}
	return children
}

// ConstructorDecl is a type's constructor overload.
type ConstructorDecl struct {
	NodeBase
	Parameters []*ParameterDecl
	Body       *BlockStmt
}

func NewConstructorDecl(a *Arena, span source.Span, params []*ParameterDecl, body *BlockStmt) *ConstructorDecl {
	n := &ConstructorDecl{Parameters: params, Body: body}
	n.init(a, KindConstructor, span, false)
	for _, p := range params {
		linkChildren(n, p)
	}
	if body != nil {
		linkChildren(n, body)
	}
	return n
}

func (n *ConstructorDecl) Name() string { return "constructor" }

func (n *ConstructorDecl) Children() []Node {
	children := make([]Node, 0, len(n.Parameters)+1)
	for _, p := range n.Parameters {
		children = append(children, p)
	}
	if n.Body != nil {
		children = append(children, n.Body)
	}
	return children
}

// SwizzleDecl is a synthetic field declaration standing for a swizzle
// pattern like `.xyz`, created lazily by the swizzle manager rather than
// appearing in source; its node still needs a span (the access site that
// triggered synthesis) for diagnostics.
type SwizzleDecl struct {
	NodeBase
	Pattern string // normalized to x/y/z/w
	TypeRef *SymbolRef
}

func NewSwizzleDecl(a *Arena, span source.Span, pattern string, typeRef *SymbolRef) *SwizzleDecl {
	n := &SwizzleDecl{Pattern: pattern, TypeRef: typeRef}
	n.init(a, KindSwizzleDefinition, span, false)
	return n
}

func (n *SwizzleDecl) Name() string      { return n.Pattern }
func (n *SwizzleDecl) Children() []Node { return nil }

// typeDecl carries the fields shared by Primitive, Struct, Class and Array
// type declarations.
type typeDecl struct {
	NodeBase
	TypeName     string
	Fields       []*FieldDecl
	Functions    []*FunctionDecl
	Operators    []*OperatorDecl
	Constructors []*ConstructorDecl
	Attrs        []*AttributeDecl
}

func (n *typeDecl) Name() string { return n.TypeName }

func (n *typeDecl) children() []Node {
	children := make([]Node, 0, len(n.Attrs)+len(n.Fields)+len(n.Functions)+len(n.Operators)+len(n.Constructors))
	for _, at := range n.Attrs {
		children = append(children, at)
	}
	for _, f := range n.Fields {
		children = append(children, f)
	}
	for _, f := range n.Functions {
		children = append(children, f)
	}
	for _, o := range n.Operators {
		children = append(children, o)
	}
	for _, c := range n.Constructors {
		children = append(children, c)
	}
	return children
}

func newTypeDecl(name string) typeDecl {
	return typeDecl{TypeName: name}
}

// PrimitiveDecl names a scalar, vector or matrix primitive type; only the
// process-wide HXSL.Core assembly ever constructs these.
type PrimitiveDecl struct{ typeDecl }

func NewPrimitiveDecl(a *Arena, span source.Span, name string) *PrimitiveDecl {
	n := &PrimitiveDecl{newTypeDecl(name)}
	n.init(a, KindPrimitive, span, false)
	return n
}

func (n *PrimitiveDecl) Children() []Node { return n.children() }

func (n *PrimitiveDecl) AddField(f *FieldDecl)             { n.Fields = append(n.Fields, f); linkChildren(n, f) }
func (n *PrimitiveDecl) AddFunction(f *FunctionDecl)       { n.Functions = append(n.Functions, f); linkChildren(n, f) }
func (n *PrimitiveDecl) AddOperator(o *OperatorDecl)       { n.Operators = append(n.Operators, o); linkChildren(n, o) }
func (n *PrimitiveDecl) AddConstructor(c *ConstructorDecl) { n.Constructors = append(n.Constructors, c); linkChildren(n, c) }
func (n *PrimitiveDecl) AddAttr(at *AttributeDecl)         { n.Attrs = append(n.Attrs, at); linkChildren(n, at) }

// StructDecl is a user `struct Foo { ... }` declaration.
type StructDecl struct{ typeDecl }

func NewStructDecl(a *Arena, span source.Span, name string) *StructDecl {
	n := &StructDecl{newTypeDecl(name)}
	n.init(a, KindStruct, span, false)
	return n
}

func (n *StructDecl) Children() []Node { return n.children() }

func (n *StructDecl) AddField(f *FieldDecl)             { n.Fields = append(n.Fields, f); linkChildren(n, f) }
func (n *StructDecl) AddFunction(f *FunctionDecl)       { n.Functions = append(n.Functions, f); linkChildren(n, f) }
func (n *StructDecl) AddOperator(o *OperatorDecl)       { n.Operators = append(n.Operators, o); linkChildren(n, o) }
func (n *StructDecl) AddConstructor(c *ConstructorDecl) { n.Constructors = append(n.Constructors, c); linkChildren(n, c) }
func (n *StructDecl) AddAttr(at *AttributeDecl)         { n.Attrs = append(n.Attrs, at); linkChildren(n, at) }

// ClassDecl is a user `class Foo { ... }` declaration; classes additionally
// carry a base-type reference (nil when there is none).
type ClassDecl struct {
	typeDecl
	BaseType *SymbolRef
}

func NewClassDecl(a *Arena, span source.Span, name string, base *SymbolRef) *ClassDecl {
	n := &ClassDecl{typeDecl: newTypeDecl(name), BaseType: base}
	n.init(a, KindClass, span, false)
	return n
}

func (n *ClassDecl) Children() []Node { return n.children() }

func (n *ClassDecl) AddField(f *FieldDecl)             { n.Fields = append(n.Fields, f); linkChildren(n, f) }
func (n *ClassDecl) AddFunction(f *FunctionDecl)       { n.Functions = append(n.Functions, f); linkChildren(n, f) }
func (n *ClassDecl) AddOperator(o *OperatorDecl)       { n.Operators = append(n.Operators, o); linkChildren(n, o) }
func (n *ClassDecl) AddConstructor(c *ConstructorDecl) { n.Constructors = append(n.Constructors, c); linkChildren(n, c) }
func (n *ClassDecl) AddAttr(at *AttributeDecl)         { n.Attrs = append(n.Attrs, at); linkChildren(n, at) }

// ArrayDecl is a synthesized `T[n0][n1]...` array type, created on demand by
// the array manager so `int[4]` has exactly one symbol per compilation.
type ArrayDecl struct {
	typeDecl
	ElementType *SymbolRef
	Dims        []uint32
}

func NewArrayDecl(a *Arena, span source.Span, name string, elementType *SymbolRef, dims []uint32) *ArrayDecl {
	n := &ArrayDecl{typeDecl: newTypeDecl(name), ElementType: elementType, Dims: dims}
	n.init(a, KindArray, span, false)
	return n
}

func (n *ArrayDecl) Children() []Node { return n.children() }

func (n *ArrayDecl) AddField(f *FieldDecl)       { n.Fields = append(n.Fields, f); linkChildren(n, f) }
func (n *ArrayDecl) AddFunction(f *FunctionDecl) { n.Functions = append(n.Functions, f); linkChildren(n, f) }
