// Package ast defines the node hierarchy produced by the parser: a tagged
// union of declaration, statement and expression node kinds, allocated out
// of a per-compilation-unit arena and linked with parent pointers so later
// passes can walk upward (e.g. to find the enclosing function or loop).
package ast

// Kind tags every node with its concrete shape. Node storage is a plain
// struct per kind rather than a class hierarchy, so callers switch on Kind
// instead of using a type hierarchy to decide how to interpret a Node.
type Kind uint8

const (
	KindUnknown Kind = iota

	// Declarations.
	KindCompilationUnit
	KindNamespace
	KindPrimitive
	KindStruct
	KindClass
	KindArray
	KindField
	KindFunctionOverload
	KindOperatorOverload
	KindConstructor
	KindParameter
	KindThisDef
	KindSwizzleDefinition
	KindAttributeDeclaration

	// Statements.
	KindBlockStatement
	KindDeclarationStatement
	KindAssignmentStatement
	KindCompoundAssignmentStatement
	KindExpressionStatement
	KindReturnStatement
	KindIfStatement
	KindElseStatement
	KindElseIfStatement
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindBreakStatement
	KindContinueStatement
	KindDiscardStatement
	KindSwitchStatement
	KindCaseStatement
	KindDefaultCaseStatement

	// Expressions.
	KindEmptyExpression
	KindBinaryExpression
	KindLiteralExpression
	KindMemberReferenceExpression
	KindFunctionCallExpression
	KindFunctionCallParameter
	KindMemberAccessExpression
	KindIndexerAccessExpression
	KindCastExpression
	KindTernaryExpression
	KindUnaryExpression
	KindPrefixExpression
	KindPostfixExpression
	KindAssignmentExpression
	KindCompoundAssignmentExpression
	KindInitializationExpression

	kindCount
)

// Range boundaries for the classifier helpers below, named rather than
// computed so inserting a new kind in the wrong block fails obviously.
const (
	firstStatement  = KindBlockStatement
	lastStatement   = KindDefaultCaseStatement
	firstExpression = KindEmptyExpression
	lastExpression  = KindInitializationExpression
)

// IsDeclaration reports whether k names a declaration-shaped node (one that
// can appear directly inside a compilation unit, namespace or type body).
func IsDeclaration(k Kind) bool {
	return k >= KindCompilationUnit && k < firstStatement
}

// IsStatement reports whether k names a statement node.
func IsStatement(k Kind) bool {
	return k >= firstStatement && k <= lastStatement
}

// IsExpression reports whether k names an expression node.
func IsExpression(k Kind) bool {
	return k >= firstExpression && k <= lastExpression
}

// IsDataType reports whether k names a declaration that introduces a type
// (as opposed to a namespace, function, field or other non-type member).
func IsDataType(k Kind) bool {
	switch k {
	case KindPrimitive, KindStruct, KindClass:
		return true
	default:
		return false
	}
}

var kindNames = map[Kind]string{
	KindUnknown:                      "Unknown",
	KindCompilationUnit:              "CompilationUnit",
	KindNamespace:                    "Namespace",
	KindPrimitive:                    "Primitive",
	KindStruct:                       "Struct",
	KindClass:                        "Class",
	KindArray:                        "Array",
	KindField:                        "Field",
	KindFunctionOverload:             "FunctionOverload",
	KindOperatorOverload:             "OperatorOverload",
	KindConstructor:                  "Constructor",
	KindParameter:                    "Parameter",
	KindThisDef:                      "ThisDef",
	KindSwizzleDefinition:            "SwizzleDefinition",
	KindAttributeDeclaration:         "AttributeDeclaration",
	KindBlockStatement:               "BlockStatement",
	KindDeclarationStatement:         "DeclarationStatement",
	KindAssignmentStatement:          "AssignmentStatement",
	KindCompoundAssignmentStatement:  "CompoundAssignmentStatement",
	KindExpressionStatement:          "ExpressionStatement",
	KindReturnStatement:              "ReturnStatement",
	KindIfStatement:                  "IfStatement",
	KindElseStatement:                "ElseStatement",
	KindElseIfStatement:              "ElseIfStatement",
	KindWhileStatement:               "WhileStatement",
	KindDoWhileStatement:             "DoWhileStatement",
	KindForStatement:                 "ForStatement",
	KindBreakStatement:               "BreakStatement",
	KindContinueStatement:            "ContinueStatement",
	KindDiscardStatement:             "DiscardStatement",
	KindSwitchStatement:              "SwitchStatement",
	KindCaseStatement:                "CaseStatement",
	KindDefaultCaseStatement:         "DefaultCaseStatement",
	KindEmptyExpression:              "EmptyExpression",
	KindBinaryExpression:             "BinaryExpression",
	KindLiteralExpression:            "LiteralExpression",
	KindMemberReferenceExpression:    "MemberReferenceExpression",
	KindFunctionCallExpression:       "FunctionCallExpression",
	KindFunctionCallParameter:        "FunctionCallParameter",
	KindMemberAccessExpression:       "MemberAccessExpression",
	KindIndexerAccessExpression:      "IndexerAccessExpression",
	KindCastExpression:               "CastExpression",
	KindTernaryExpression:            "TernaryExpression",
	KindUnaryExpression:              "UnaryExpression",
	KindPrefixExpression:             "PrefixExpression",
	KindPostfixExpression:            "PostfixExpression",
	KindAssignmentExpression:         "AssignmentExpression",
	KindCompoundAssignmentExpression: "CompoundAssignmentExpression",
	KindInitializationExpression:     "InitializationExpression",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown Kind"
}
