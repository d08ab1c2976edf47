package parser

import (
	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
)

// declCollection is satisfied by CompilationUnit and NamespaceDecl, the two
// node kinds that hold an unstructured list of member declarations.
type declCollection interface {
	AddDeclaration(ast.Decl)
}

// typeContainer is satisfied by the declaration kinds that group fields,
// functions, operators and constructors: PrimitiveDecl, StructDecl,
// ClassDecl (ArrayDecl also embeds typeDecl but is only ever synthesized by
// the array manager, never by the parser, so it is not a target here).
type typeContainer interface {
	AddField(*ast.FieldDecl)
	AddFunction(*ast.FunctionDecl)
	AddOperator(*ast.OperatorDecl)
	AddConstructor(*ast.ConstructorDecl)
}

// DeclContainerBuilder dispatches a freshly parsed declaration into its
// enclosing container, rejecting kinds the container's scope doesn't permit
// (e.g. a struct declared at statement scope, or a field declared directly
// at namespace scope) with a "declaration out of scope" diagnostic rather
// than a parse error: the declaration itself parsed fine, it's just in the
// wrong place.
type DeclContainerBuilder struct {
	logger *diag.Logger
}

// NewDeclContainerBuilder constructs a builder reporting through logger.
func NewDeclContainerBuilder(logger *diag.Logger) *DeclContainerBuilder {
	return &DeclContainerBuilder{logger: logger}
}

// AddNamespaceMember dispatches d into a file- or namespace-scoped
// collection: namespaces, types, and free functions are permitted there;
// anything else (a bare field or operator with no enclosing type) is out of
// scope.
func (b *DeclContainerBuilder) AddNamespaceMember(into declCollection, d ast.Decl) {
	switch d.(type) {
	case *ast.NamespaceDecl, *ast.StructDecl, *ast.ClassDecl, *ast.FunctionDecl:
		into.AddDeclaration(d)
	default:
		b.logger.Log(diag.DeclarationOutOfScope, d.Span(), d.Name())
	}
}

// AddTypeMember dispatches d into a struct/class/primitive body.
func (b *DeclContainerBuilder) AddTypeMember(into typeContainer, d ast.Decl) {
	switch v := d.(type) {
	case *ast.FieldDecl:
		into.AddField(v)
	case *ast.FunctionDecl:
		into.AddFunction(v)
	case *ast.OperatorDecl:
		into.AddOperator(v)
	case *ast.ConstructorDecl:
		into.AddConstructor(v)
	default:
		b.logger.Log(diag.DeclarationOutOfScope, d.Span(), d.Name())
	}
}
