package ast

import "github.com/hexaengine/hxslc/pkg/source"

// ExprTraits records facts the type checker derives about an expression
// (constant-foldability, assignability) so later passes don't recompute
// them.
type ExprTraits struct {
	Constant bool
	Mutable  bool
}

// Expr is implemented by every expression node. InferredType is nil until
// the type checker runs; it is opaque here (an interface{} handle into
// pkg/symbol) for the same layering reason SymbolRef.handle is opaque: ast
// cannot import pkg/symbol, which in turn references ast declaration nodes.
type Expr interface {
	Node
	InferredType() SymbolHandle
	SetInferredType(SymbolHandle)
	Traits() ExprTraits
	SetTraits(ExprTraits)
}

// ExprBase is embedded by every concrete expression type.
type ExprBase struct {
	NodeBase
	inferredType SymbolHandle
	traits       ExprTraits
}

func (e *ExprBase) InferredType() SymbolHandle     { return e.inferredType }
func (e *ExprBase) SetInferredType(h SymbolHandle) { e.inferredType = h }
func (e *ExprBase) Traits() ExprTraits             { return e.traits }
func (e *ExprBase) SetTraits(t ExprTraits)         { e.traits = t }

// EmptyExpr stands in for a missing expression (e.g. an omitted for-loop
// clause) so the tree never needs nil expression children.
type EmptyExpr struct{ ExprBase }

func NewEmptyExpr(a *Arena, span source.Span) *EmptyExpr {
	n := a.emptyExprs.Alloc()
	n.init(a, KindEmptyExpression, span, false)
	return n
}

func (n *EmptyExpr) Children() []Node { return nil }

// LiteralExpr is a numeric, string or boolean constant.
type LiteralExpr struct {
	ExprBase
	Text string
	Num  LiteralValue
}

// LiteralValue is the constant-folded numeric payload of a literal or
// constant-folded expression; its shape mirrors pkg/token.Number (tagged by
// Kind) rather than importing pkg/token directly, since literal kind names
// (string, bool) don't fit the lexer's numeric-only Number union.
type LiteralValue struct {
	Kind LiteralKind
	Bits uint64
}

type LiteralKind uint8

const (
	LiteralUnknown LiteralKind = iota
	LiteralNumber
	LiteralBool
	LiteralString
)

func NewLiteralExpr(a *Arena, span source.Span, text string, val LiteralValue) *LiteralExpr {
	n := a.literalExprs.Alloc()
	n.init(a, KindLiteralExpression, span, false)
	n.Text = text
	n.Num = val
	return n
}

func (n *LiteralExpr) Children() []Node { return nil }

// MemberRefExpr is a bare (possibly qualified) identifier reference before
// it is known whether it names a variable, a type, a function, or a
// namespace segment; the resolver narrows SymbolRef.Kind once it knows.
type MemberRefExpr struct {
	ExprBase
	Symbol *SymbolRef
}

func NewMemberRefExpr(a *Arena, span source.Span, ref *SymbolRef) *MemberRefExpr {
	n := a.memberRefExprs.Alloc()
	n.init(a, KindMemberReferenceExpression, span, false)
	n.Symbol = ref
	return n
}

func (n *MemberRefExpr) Children() []Node { return nil }

// MemberAccessExpr is `target.member`, after the resolver has determined the
// chain is not better modeled as a namespace-qualified name.
type MemberAccessExpr struct {
	ExprBase
	Target Expr
	Symbol *SymbolRef
}

func NewMemberAccessExpr(a *Arena, span source.Span, target Expr, member *SymbolRef) *MemberAccessExpr {
	n := a.memberExprs.Alloc()
	n.init(a, KindMemberAccessExpression, span, false)
	n.Target = target
	n.Symbol = member
	linkChildren(n, target)
	return n
}

func (n *MemberAccessExpr) Children() []Node { return []Node{n.Target} }

// CallParamExpr wraps one actual argument expression in a call. It holds
// only the argument's value; no `out`/`inout` qualifier is recorded for the
// call site.
type CallParamExpr struct {
	ExprBase
	Value Expr
}

func NewCallParamExpr(a *Arena, span source.Span, value Expr) *CallParamExpr {
	n := a.callParamExprs.Alloc()
	n.init(a, KindFunctionCallParameter, span, false)
	n.Value = value
	linkChildren(n, value)
	return n
}

func (n *CallParamExpr) Children() []Node { return []Node{n.Value} }

// CallExpr is `callee(args...)`. Symbol starts as RefFunctionOrConstructor
// and is narrowed by the resolver once overload resolution runs, since a
// bare identifier call and a constructor call are syntactically identical.
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []*CallParamExpr
	Symbol *SymbolRef
}

func NewCallExpr(a *Arena, span source.Span, callee Expr, args []*CallParamExpr, ref *SymbolRef) *CallExpr {
	n := a.callExprs.Alloc()
	n.init(a, KindFunctionCallExpression, span, false)
	n.Callee = callee
	n.Args = args
	n.Symbol = ref
	linkChildren(n, callee)
	for _, arg := range args {
		linkChildren(n, arg)
	}
	return n
}

func (n *CallExpr) Children() []Node {
	children := make([]Node, 0, 1+len(n.Args))
	if n.Callee != nil {
		children = append(children, n.Callee)
	}
	for _, arg := range n.Args {
		children = append(children, arg)
	}
	return children
}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	ExprBase
	Target Expr
	Index  Expr
}

func NewIndexExpr(a *Arena, span source.Span, target, index Expr) *IndexExpr {
	n := a.indexExprs.Alloc()
	n.init(a, KindIndexerAccessExpression, span, false)
	n.Target = target
	n.Index = index
	linkChildren(n, target, index)
	return n
}

func (n *IndexExpr) Children() []Node { return []Node{n.Target, n.Index} }

// CastExpr is the explicit `cast<Type>(expr)` form; the parser has no
// C-style `(Type)expr` cast.
type CastExpr struct {
	ExprBase
	TargetType *SymbolRef
	Operand    Expr
}

func NewCastExpr(a *Arena, span source.Span, targetType *SymbolRef, operand Expr) *CastExpr {
	n := a.castExprs.Alloc()
	n.init(a, KindCastExpression, span, false)
	n.TargetType = targetType
	n.Operand = operand
	linkChildren(n, operand)
	return n
}

func (n *CastExpr) Children() []Node { return []Node{n.Operand} }

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	ExprBase
	Cond, Then, Else Expr
	OperatorSymbol   *SymbolRef
}

func NewTernaryExpr(a *Arena, span source.Span, cond, then, els Expr) *TernaryExpr {
	n := a.ternaryExprs.Alloc()
	n.init(a, KindTernaryExpression, span, false)
	n.Cond, n.Then, n.Else = cond, then, els
	linkChildren(n, cond, then, els)
	return n
}

func (n *TernaryExpr) Children() []Node { return []Node{n.Cond, n.Then, n.Else} }

// BinaryExpr is `left op right`. The resolver resolves OperatorSymbol when
// an operand's type declares an overload (built-in or a user-defined
// `operator+`, etc.) exactly matching the operand types; otherwise it stays
// unresolved and the type checker records the overload it picks in
// Checker.Operators.
type BinaryExpr struct {
	ExprBase
	Op             string
	Left, Right    Expr
	OperatorSymbol *SymbolRef
}

func NewBinaryExpr(a *Arena, span source.Span, op string, left, right Expr) *BinaryExpr {
	n := a.binaryExprs.Alloc()
	n.init(a, KindBinaryExpression, span, false)
	n.Op = op
	n.Left, n.Right = left, right
	n.OperatorSymbol = NewSymbolRef(span, "operator"+op, RefOperatorOverload, false)
	linkChildren(n, left, right)
	return n
}

func (n *BinaryExpr) Children() []Node { return []Node{n.Left, n.Right} }

// UnaryExpr is `-x`, `!x`, or `~x` (a prefix operator with no side effect,
// as distinct from PostfixExpr's prefix or postfix `++`/`--`, which mutate).
type UnaryExpr struct {
	ExprBase
	Op             string
	Operand        Expr
	OperatorSymbol *SymbolRef
}

func NewUnaryExpr(a *Arena, span source.Span, op string, operand Expr) *UnaryExpr {
	n := a.unaryExprs.Alloc()
	n.init(a, KindUnaryExpression, span, false)
	n.Op = op
	n.Operand = operand
	n.OperatorSymbol = NewSymbolRef(span, "operator"+op, RefOperatorOverload, false)
	linkChildren(n, operand)
	return n
}

func (n *UnaryExpr) Children() []Node { return []Node{n.Operand} }

// PostfixExpr is `x++` / `x--`. Prefix `++x`/`--x` reuses the same struct
// with Prefix set, since both sides differ only in evaluation-order
// semantics, not in shape.
type PostfixExpr struct {
	ExprBase
	Op             string
	Operand        Expr
	Prefix         bool
	OperatorSymbol *SymbolRef
}

func NewPostfixExpr(a *Arena, span source.Span, op string, operand Expr, prefix bool) *PostfixExpr {
	n := a.postfixExprs.Alloc()
	kind := KindPostfixExpression
	if prefix {
		kind = KindPrefixExpression
	}
	n.init(a, kind, span, false)
	n.Op = op
	n.Operand = operand
	n.Prefix = prefix
	n.OperatorSymbol = NewSymbolRef(span, "operator"+op, RefOperatorOverload, false)
	linkChildren(n, operand)
	return n
}

func (n *PostfixExpr) Children() []Node { return []Node{n.Operand} }

// AssignExpr is `target = value`.
type AssignExpr struct {
	ExprBase
	Target, Value Expr
}

func NewAssignExpr(a *Arena, span source.Span, target, value Expr) *AssignExpr {
	n := a.assignExprs.Alloc()
	n.init(a, KindAssignmentExpression, span, false)
	n.Target, n.Value = target, value
	linkChildren(n, target, value)
	return n
}

func (n *AssignExpr) Children() []Node { return []Node{n.Target, n.Value} }

// CompoundAssignExpr is `target += value` and its siblings; Op carries the
// compound operator text (e.g. "+=") so the resolver and the type checker
// can look up the binary operator it implies ("+"); no separate overload
// for the compound form is looked up.
type CompoundAssignExpr struct {
	ExprBase
	Op             string
	Target, Value  Expr
	OperatorSymbol *SymbolRef
}

func NewCompoundAssignExpr(a *Arena, span source.Span, op string, target, value Expr) *CompoundAssignExpr {
	n := a.compoundAssigns.Alloc()
	n.init(a, KindCompoundAssignmentExpression, span, false)
	n.Op = op
	n.Target, n.Value = target, value
	n.OperatorSymbol = NewSymbolRef(span, "operator"+op, RefOperatorOverload, false)
	linkChildren(n, target, value)
	return n
}

func (n *CompoundAssignExpr) Children() []Node { return []Node{n.Target, n.Value} }

// InitExpr is a brace-enclosed initializer list, `{a, b, c}`, used for
// struct, array and vector/matrix constructor-style initialization.
type InitExpr struct {
	ExprBase
	Elements []Expr
}

func NewInitExpr(a *Arena, span source.Span, elements []Expr) *InitExpr {
	n := a.initExprs.Alloc()
	n.init(a, KindInitializationExpression, span, false)
	n.Elements = elements
	for _, e := range elements {
		linkChildren(n, e)
	}
	return n
}

func (n *InitExpr) Children() []Node {
	children := make([]Node, len(n.Elements))
	for i, e := range n.Elements {
		children[i] = e
	}
	return children
}
