package ast

import "github.com/hexaengine/hxslc/pkg/source"

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
}

// BlockStmt is `{ ... }`: an ordered list of statements. A block does not
// open a scope of its own: the resolver keeps one flat scope for all locals
// of a function body.
type BlockStmt struct {
	NodeBase
	Statements []Stmt
}

func NewBlockStmt(a *Arena, span source.Span, stmts []Stmt) *BlockStmt {
	n := a.blockStmts.Alloc()
	n.init(a, KindBlockStatement, span, false)
	n.Statements = stmts
	for _, s := range stmts {
		linkChildren(n, s)
	}
	return n
}

func (n *BlockStmt) Children() []Node {
	children := make([]Node, len(n.Statements))
	for i, s := range n.Statements {
		children[i] = s
	}
	return children
}

// DeclStmt declares one or more local variables of the same type, e.g.
// `float a = 1, b;`. Each name/initializer pair is its own SymbolRef/Expr so
// the resolver can add each as a distinct symbol in the enclosing scope.
type DeclStmt struct {
	NodeBase
	TypeRef *SymbolRef
	Names   []*SymbolRef
	Inits   []Expr // parallel to Names; nil entry means no initializer
}

func NewDeclStmt(a *Arena, span source.Span, typeRef *SymbolRef, names []*SymbolRef, inits []Expr) *DeclStmt {
	n := a.declStmts.Alloc()
	n.init(a, KindDeclarationStatement, span, false)
	n.TypeRef = typeRef
	n.Names = names
	n.Inits = inits
	for _, e := range inits {
		if e != nil {
			linkChildren(n, e)
		}
	}
	return n
}

func (n *DeclStmt) Children() []Node {
	var children []Node
	for _, e := range n.Inits {
		if e != nil {
			children = append(children, e)
		}
	}
	return children
}

// AssignStmt is an assignment used as a statement in its own right, e.g.
// for dialects that distinguish assignment-statements from the more general
// assignment-expression (`a = b;` vs. `f(a = b)`).
type AssignStmt struct {
	NodeBase
	Assign *AssignExpr
}

func NewAssignStmt(a *Arena, span source.Span, assign *AssignExpr) *AssignStmt {
	n := a.assignStmts.Alloc()
	n.init(a, KindAssignmentStatement, span, false)
	n.Assign = assign
	linkChildren(n, assign)
	return n
}

func (n *AssignStmt) Children() []Node { return []Node{n.Assign} }

// CompoundAssignStmt mirrors AssignStmt for `a += b;`-shaped statements.
type CompoundAssignStmt struct {
	NodeBase
	Assign *CompoundAssignExpr
}

func NewCompoundAssignStmt(a *Arena, span source.Span, assign *CompoundAssignExpr) *CompoundAssignStmt {
	n := a.compoundStmts.Alloc()
	n.init(a, KindCompoundAssignmentStatement, span, false)
	n.Assign = assign
	linkChildren(n, assign)
	return n
}

func (n *CompoundAssignStmt) Children() []Node { return []Node{n.Assign} }

// ExprStmt wraps any expression evaluated for its side effect, most
// commonly a CallExpr.
type ExprStmt struct {
	NodeBase
	Value Expr
}

func NewExprStmt(a *Arena, span source.Span, value Expr) *ExprStmt {
	n := a.exprStmts.Alloc()
	n.init(a, KindExpressionStatement, span, false)
	n.Value = value
	linkChildren(n, value)
	return n
}

func (n *ExprStmt) Children() []Node { return []Node{n.Value} }

// ReturnStmt is `return;` or `return expr;`; Value is nil for a bare return,
// which the type checker only accepts inside a void-returning function or a
// constructor.
type ReturnStmt struct {
	NodeBase
	Value Expr
}

func NewReturnStmt(a *Arena, span source.Span, value Expr) *ReturnStmt {
	n := a.returnStmts.Alloc()
	n.init(a, KindReturnStatement, span, false)
	n.Value = value
	if value != nil {
		linkChildren(n, value)
	}
	return n
}

func (n *ReturnStmt) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}

// IfStmt is `if (cond) then [else]`. Else, when present, is either an
// ElseStmt wrapping a block or directly another IfStmt for an `else if`
// chain (mirroring how the grammar treats `else if` as sugar for a nested
// if inside an else).
type IfStmt struct {
	NodeBase
	Cond Expr
	Then Stmt
	Else Stmt
}

func NewIfStmt(a *Arena, span source.Span, cond Expr, then, els Stmt) *IfStmt {
	n := a.ifStmts.Alloc()
	n.init(a, KindIfStatement, span, false)
	n.Cond, n.Then, n.Else = cond, then, els
	linkChildren(n, cond, then)
	if els != nil {
		linkChildren(n, els)
	}
	return n
}

func (n *IfStmt) Children() []Node {
	children := []Node{n.Cond, n.Then}
	if n.Else != nil {
		children = append(children, n.Else)
	}
	return children
}

// ElseStmt wraps the body of a plain `else { ... }` arm.
type ElseStmt struct {
	NodeBase
	Body Stmt
}

func NewElseStmt(a *Arena, span source.Span, body Stmt) *ElseStmt {
	n := a.elseStmts.Alloc()
	n.init(a, KindElseStatement, span, false)
	n.Body = body
	linkChildren(n, body)
	return n
}

func (n *ElseStmt) Children() []Node { return []Node{n.Body} }

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	NodeBase
	Cond Expr
	Body Stmt
}

func NewWhileStmt(a *Arena, span source.Span, cond Expr, body Stmt) *WhileStmt {
	n := a.whileStmts.Alloc()
	n.init(a, KindWhileStatement, span, false)
	n.Cond, n.Body = cond, body
	linkChildren(n, cond, body)
	return n
}

func (n *WhileStmt) Children() []Node { return []Node{n.Cond, n.Body} }

// DoWhileStmt is `do body while (cond);`: the condition is evaluated after
// the first iteration, unlike WhileStmt.
type DoWhileStmt struct {
	NodeBase
	Body Stmt
	Cond Expr
}

func NewDoWhileStmt(a *Arena, span source.Span, body Stmt, cond Expr) *DoWhileStmt {
	n := a.doWhileStmts.Alloc()
	n.init(a, KindDoWhileStatement, span, false)
	n.Body, n.Cond = body, cond
	linkChildren(n, body, cond)
	return n
}

func (n *DoWhileStmt) Children() []Node { return []Node{n.Body, n.Cond} }

// ForStmt is `for (init; cond; step) body`; an omitted init or step is nil
// and an omitted cond is an EmptyExpr.
type ForStmt struct {
	NodeBase
	Init Stmt
	Cond Expr
	Step Expr
	Body Stmt
}

func NewForStmt(a *Arena, span source.Span, init Stmt, cond, step Expr, body Stmt) *ForStmt {
	n := a.forStmts.Alloc()
	n.init(a, KindForStatement, span, false)
	n.Init, n.Cond, n.Step, n.Body = init, cond, step, body
	if init != nil {
		linkChildren(n, init)
	}
	linkChildren(n, cond, body)
	if step != nil {
		linkChildren(n, step)
	}
	return n
}

func (n *ForStmt) Children() []Node {
	children := make([]Node, 0, 4)
	if n.Init != nil {
		children = append(children, n.Init)
	}
	children = append(children, n.Cond)
	if n.Step != nil {
		children = append(children, n.Step)
	}
	children = append(children, n.Body)
	return children
}

// JumpKind distinguishes the three statements that are otherwise just a
// bare keyword and a span.
type JumpKind uint8

const (
	JumpBreak JumpKind = iota
	JumpContinue
	JumpDiscard
)

// JumpStmt is `break;`, `continue;`, or `discard;`. The type checker reports
// a break with no enclosing loop or switch; a continue outside a loop and a
// discard outside a pixel-stage function are not reported by any stage.
type JumpStmt struct {
	NodeBase
	Op JumpKind
}

func NewJumpStmt(a *Arena, span source.Span, op JumpKind) *JumpStmt {
	n := a.jumpStmts.Alloc()
	kind := KindBreakStatement
	switch op {
	case JumpContinue:
		kind = KindContinueStatement
	case JumpDiscard:
		kind = KindDiscardStatement
	}
	n.init(a, kind, span, false)
	n.Op = op
	return n
}

func (n *JumpStmt) Children() []Node { return nil }

// CaseStmt is one `case expr:` (or, when Value is nil, `default:`) arm of a
// switch, owning the statements until the next case/default/closing brace.
type CaseStmt struct {
	NodeBase
	Value      Expr // nil for the default arm
	Statements []Stmt
}

func NewCaseStmt(a *Arena, span source.Span, value Expr, stmts []Stmt) *CaseStmt {
	n := a.caseStmts.Alloc()
	kind := KindCaseStatement
	if value == nil {
		kind = KindDefaultCaseStatement
	}
	n.init(a, kind, span, false)
	n.Value = value
	n.Statements = stmts
	if value != nil {
		linkChildren(n, value)
	}
	for _, s := range stmts {
		linkChildren(n, s)
	}
	return n
}

func (n *CaseStmt) Children() []Node {
	children := make([]Node, 0, 1+len(n.Statements))
	if n.Value != nil {
		children = append(children, n.Value)
	}
	for _, s := range n.Statements {
		children = append(children, s)
	}
	return children
}

// SwitchStmt is `switch (value) { case ...; default: ...; }`; at most one
// Cases entry may have a nil Value (the default arm); the parser reports a
// second default arm as a duplicate default case.
type SwitchStmt struct {
	NodeBase
	Value Expr
	Cases []*CaseStmt
}

func NewSwitchStmt(a *Arena, span source.Span, value Expr, cases []*CaseStmt) *SwitchStmt {
	n := a.switchStmts.Alloc()
	n.init(a, KindSwitchStatement, span, false)
	n.Value = value
	n.Cases = cases
	linkChildren(n, value)
	for _, c := range cases {
		linkChildren(n, c)
	}
	return n
}

func (n *SwitchStmt) Children() []Node {
	children := make([]Node, 0, 1+len(n.Cases))
	children = append(children, n.Value)
	for _, c := range n.Cases {
		children = append(children, c)
	}
	return children
}
