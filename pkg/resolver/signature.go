package resolver

import (
	"fmt"
	"strings"

	"github.com/hexaengine/hxslc/pkg/ast"
)

// paramTypeName reads the short type name off a (not necessarily resolved)
// parameter's type reference, falling back to its unresolved spelling.
func paramTypeName(p *ast.ParameterDecl) string {
	if p.TypeRef == nil {
		return ""
	}
	return p.TypeRef.Name
}

// signatureFromTypeNames builds the same shape of table edge label as
// buildSignature, directly from a list of already-known type names rather
// than from unresolved ParameterDecls — used when resolving a call or
// operator site against its (now-typed) operands/arguments.
func signatureFromTypeNames(name string, argTypes []string) string {
	return fmt.Sprintf("%s(%s)", name, strings.Join(argTypes, ","))
}

// buildSignature constructs the table edge label an overload is stored
// under, e.g. "foo(int,float)" — matching the single-edge-per-signature
// rule the table's path splitter relies on.
func buildSignature(name string, params []*ast.ParameterDecl) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = paramTypeName(p)
	}
	return signatureFromTypeNames(name, names)
}

// operatorSignature mirrors buildSignature for an operator overload, whose
// table name is "operator" + op rather than a plain identifier.
func operatorSignature(op string, params []*ast.ParameterDecl) string {
	return buildSignature("operator"+op, params)
}
