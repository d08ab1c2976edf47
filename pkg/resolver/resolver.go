// Package resolver implements the collect-then-resolve two-pass semantic
// analysis that turns a parsed compilation unit's unresolved SymbolRefs into
// handles into a symbol table: a Collector populates the target assembly's
// table from every declaration, then a Resolver walks the same declarations
// again resolving each reference: first against the process-wide primitive
// assembly, then a scope stack (innermost function body, then enclosing
// type, then enclosing namespace), then the target assembly's root, then
// referenced assemblies.
package resolver

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// scope is one entry in the resolver's lookup chain: a named container
// (namespace, type, or function-local block) along with the symbol handle
// whose children should be searched first when resolving a bare identifier
// at this nesting level.
type scope struct {
	handle symbol.Handle
}

// Resolver is the second pass: given a fully collected target assembly
// (see Collector) plus whatever other assemblies it references, it resolves
// every SymbolRef reachable from the target's declarations.
type Resolver struct {
	logger     *diag.Logger
	arena      *ast.Arena
	target     *symbol.Assembly
	references []*symbol.Assembly
	arrays     *symbol.ArrayManager
	swizzles   *symbol.SwizzleManager

	scopes       []scope
	currentType  symbol.Handle // innermost enclosing struct/class, for `this`
	errorOnMiss  bool
}

// New builds a resolver targeting assembly, additionally searching
// referenced assemblies and the process-wide primitive assembly
// (symbol.Core()) on a local-lookup miss. arena allocates any symbol
// nodes synthesized during resolution (arrays, swizzles).
func New(target *symbol.Assembly, references []*symbol.Assembly, arena *ast.Arena, logger *diag.Logger) *Resolver {
	core := symbol.Core()
	return &Resolver{
		logger:      logger,
		arena:       arena,
		target:      target,
		references:  references,
		arrays:      symbol.NewArrayManager(arena, target.Table),
		swizzles:    symbol.NewSwizzleManager(arena, core.Table),
		errorOnMiss: true,
	}
}

func (r *Resolver) pushScope(h symbol.Handle) { r.scopes = append(r.scopes, scope{handle: h}) }
func (r *Resolver) popScope()                 { r.scopes = r.scopes[:len(r.scopes)-1] }

// Resolve runs the resolver over every declaration the collector inserted
// for unit.
func (r *Resolver) Resolve(unit *ast.CompilationUnit) {
	r.resolveDecls(unit.Declarations, "")
}

func (r *Resolver) resolveDecls(decls []ast.Decl, namespacePath string) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.NamespaceDecl:
			r.resolveNamespace(n, namespacePath)
		case *ast.StructDecl:
			r.resolveType(namespacePath, n.TypeName, n.Fields, n.Functions, n.Operators, n.Constructors, nil)
		case *ast.ClassDecl:
			r.resolveType(namespacePath, n.TypeName, n.Fields, n.Functions, n.Operators, n.Constructors, n.BaseType)
		}
	}
}

func (r *Resolver) resolveNamespace(n *ast.NamespaceDecl, parentPath string) {
	path := n.QualifiedName
	if parentPath != "" {
		path = parentPath + "." + n.QualifiedName
	}
	h := r.target.Table.Root().FindFullPath(path)
	r.pushScope(h)
	r.resolveDecls(n.Declarations, path)
	r.popScope()
}

func (r *Resolver) resolveType(namespacePath, typeName string, fields []*ast.FieldDecl, functions []*ast.FunctionDecl, operators []*ast.OperatorDecl, ctors []*ast.ConstructorDecl, base *ast.SymbolRef) {
	path := typeName
	if namespacePath != "" {
		path = namespacePath + "." + typeName
	}
	typeHandle := r.target.Table.Root().FindFullPath(path)

	if base != nil {
		r.resolveRef(base)
	}

	prevType := r.currentType
	r.currentType = typeHandle
	r.pushScope(typeHandle)

	for _, f := range fields {
		r.resolveRef(f.TypeRef)
	}
	for _, fn := range functions {
		r.resolveFunctionLike(fn.Parameters, fn.ReturnType, fn.Body, fn.This)
	}
	for _, op := range operators {
		r.resolveFunctionLike(op.Parameters, op.ReturnType, op.Body, nil)
	}
	for _, ctor := range ctors {
		r.resolveFunctionLike(ctor.Parameters, nil, ctor.Body, nil)
	}

	r.popScope()
	r.currentType = prevType
}

func (r *Resolver) resolveFunctionLike(params []*ast.ParameterDecl, ret *ast.SymbolRef, body *ast.BlockStmt, this *ast.ThisDecl) {
	for _, p := range params {
		r.resolveRef(p.TypeRef)
	}
	if ret != nil {
		r.resolveRef(ret)
	}
	if this != nil && this.TypeRef != nil {
		r.resolveRef(this.TypeRef)
	}

	// Parameters go into a synthetic per-call scope table that only this
	// resolver walk reads, not into the shared table. The body's locals are
	// inserted into the same table, so a local with a parameter's name is
	// reported as a duplicate declaration.
	local := newLocalScope(params)
	r.pushScope(local)
	if body != nil {
		r.resolveStmt(body)
	}
	r.popScope()
}

// newLocalScope builds an in-memory-only scope (never inserted into a
// shared Table, so never visible to any other compilation unit or a second
// concurrent resolve) whose children are a function's parameters, keyed by
// name for identifier lookup within the body.
func newLocalScope(params []*ast.ParameterDecl) symbol.Handle {
	table := symbol.NewTable()
	for _, p := range params {
		if p.TypeRef == nil || !p.TypeRef.IsResolved() {
			continue
		}
		table.Insert(p.ParamName, symbol.NewMetadata(p, symbol.AccessPublic), nil)
	}
	return table.Root()
}
