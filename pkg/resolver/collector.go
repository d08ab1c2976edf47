package resolver

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

// Collector is the resolver's first pass: it walks a parsed compilation
// unit and inserts every namespace, struct/class, field, function,
// operator and constructor into the target assembly's table, entirely
// without resolving any SymbolRef. Running collection to completion before
// resolution starts is what lets later declarations resolve references to
// earlier-declared — or even later-declared, within the same unit — types:
// by the time resolution runs, the whole unit's declaration surface already
// has a table entry.
type Collector struct {
	assembly *symbol.Assembly
	logger   *diag.Logger
}

// NewCollector binds a collector to the assembly it should populate.
func NewCollector(assembly *symbol.Assembly, logger *diag.Logger) *Collector {
	return &Collector{assembly: assembly, logger: logger}
}

// Collect registers unit's declarations into the collector's assembly and
// records unit as the assembly's root compilation unit.
func (c *Collector) Collect(unit *ast.CompilationUnit) {
	if c.assembly.Root == nil {
		c.assembly.Root = unit
	}
	c.collectDecls(unit.Declarations, "")
}

func (c *Collector) collectDecls(decls []ast.Decl, namespacePath string) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.NamespaceDecl:
			c.collectNamespace(n, namespacePath)
		case *ast.StructDecl:
			c.collectType(namespacePath, n.TypeName, n.Fields, n.Functions, n.Operators, n.Constructors, n)
		case *ast.ClassDecl:
			c.collectType(namespacePath, n.TypeName, n.Fields, n.Functions, n.Operators, n.Constructors, n)
		}
	}
}

func (c *Collector) collectNamespace(n *ast.NamespaceDecl, parentPath string) {
	path := n.QualifiedName
	if parentPath != "" {
		path = parentPath + "." + n.QualifiedName
	}
	// Namespaces merge across declarations: two `namespace Foo { ... }`
	// blocks contribute to the same table path, so only the first one
	// seen actually inserts a node — later ones just keep collecting
	// into it.
	if existing := c.assembly.Table.Root().FindFullPath(path); !existing.Valid() {
		c.assembly.Table.Insert(path, symbol.NewMetadata(n, symbol.AccessPublic), nil)
	}
	c.collectDecls(n.Declarations, path)
}

func (c *Collector) collectType(namespacePath, typeName string, fields []*ast.FieldDecl, functions []*ast.FunctionDecl, operators []*ast.OperatorDecl, ctors []*ast.ConstructorDecl, decl ast.Decl) {
	path := typeName
	if namespacePath != "" {
		path = namespacePath + "." + typeName
	}

	typeHandle := c.assembly.Table.Insert(path, symbol.NewMetadata(decl, symbol.AccessPublic), nil)
	if !typeHandle.Valid() {
		c.logger.Log(diag.DuplicateDeclaration, decl.Span(), typeName)
		typeHandle = c.assembly.Table.Root().FindFullPath(path)
	}

	for _, f := range fields {
		if h := c.assembly.Table.InsertUnder(f.FieldName, symbol.NewMetadata(f, symbol.AccessPublic), typeHandle); !h.Valid() {
			c.logger.Log(diag.DuplicateDeclaration, f.Span(), f.FieldName)
		}
	}

	for _, fn := range functions {
		sig := buildSignature(fn.FuncName, fn.Parameters)
		if h := c.assembly.Table.InsertUnder(sig, symbol.NewMetadata(fn, symbol.AccessPublic), typeHandle); !h.Valid() {
			c.logger.Log(diag.DuplicateDeclaration, fn.Span(), sig)
		}
	}

	for _, op := range operators {
		sig := operatorSignature(op.Op, op.Parameters)
		if h := c.assembly.Table.InsertUnder(sig, symbol.NewMetadata(op, symbol.AccessPublic), typeHandle); !h.Valid() {
			c.logger.Log(diag.DuplicateDeclaration, op.Span(), sig)
		}
	}

	for _, ctor := range ctors {
		sig := buildSignature("constructor", ctor.Parameters)
		if h := c.assembly.Table.InsertUnder(sig, symbol.NewMetadata(ctor, symbol.AccessPublic), typeHandle); !h.Valid() {
			c.logger.Log(diag.DuplicateDeclaration, ctor.Span(), sig)
		}
	}
}
