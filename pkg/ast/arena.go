package ast

// Pool is a bump allocator for one concrete node type: it hands out pointers
// to zero-valued T from pre-sized chunks, so building a tree of thousands of
// nodes costs a handful of slice growths instead of one heap allocation per
// node, and the whole tree can be dropped at once by releasing the Pool.
// Pointers returned by Alloc stay valid for the Pool's lifetime since a
// chunk, once allocated, is never grown past its starting capacity.
type Pool[T any] struct {
	chunkSize int
	chunks    [][]T
}

// NewPool constructs a Pool with the given chunk size. A zero-valued Pool is
// also ready to use; it defaults to a chunk size of 256 on first Alloc.
func NewPool[T any](chunkSize int) *Pool[T] {
	return &Pool[T]{chunkSize: chunkSize}
}

func (p *Pool[T]) Alloc() *T {
	if p.chunkSize <= 0 {
		p.chunkSize = 256
	}

	if len(p.chunks) == 0 {
		p.chunks = append(p.chunks, make([]T, 0, p.chunkSize))
	}

	last := len(p.chunks) - 1
	if len(p.chunks[last]) == cap(p.chunks[last]) {
		p.chunks = append(p.chunks, make([]T, 0, p.chunkSize))
		last++
	}

	p.chunks[last] = append(p.chunks[last], *new(T))

	return &p.chunks[last][len(p.chunks[last])-1]
}

// Len returns the number of values allocated from this pool so far.
func (p *Pool[T]) Len() int {
	n := 0
	for _, c := range p.chunks {
		n += len(c)
	}

	return n
}

// Arena owns the memory for every node in one compilation unit. Expression
// and statement nodes, which dominate tree size, are bump-allocated from
// typed pools below; declaration nodes are comparatively few per file (a
// handful of structs, functions and fields) so they are allocated
// individually with plain `new`, where pooling would save little.
type Arena struct {
	ids uint32

	binaryExprs      Pool[BinaryExpr]
	literalExprs     Pool[LiteralExpr]
	unaryExprs       Pool[UnaryExpr]
	postfixExprs     Pool[PostfixExpr]
	callExprs        Pool[CallExpr]
	callParamExprs   Pool[CallParamExpr]
	memberRefExprs   Pool[MemberRefExpr]
	memberExprs      Pool[MemberAccessExpr]
	indexExprs       Pool[IndexExpr]
	castExprs        Pool[CastExpr]
	ternaryExprs     Pool[TernaryExpr]
	assignExprs      Pool[AssignExpr]
	compoundAssigns  Pool[CompoundAssignExpr]
	initExprs        Pool[InitExpr]
	emptyExprs       Pool[EmptyExpr]

	blockStmts      Pool[BlockStmt]
	declStmts       Pool[DeclStmt]
	assignStmts     Pool[AssignStmt]
	compoundStmts   Pool[CompoundAssignStmt]
	exprStmts       Pool[ExprStmt]
	returnStmts     Pool[ReturnStmt]
	ifStmts         Pool[IfStmt]
	elseStmts       Pool[ElseStmt]
	whileStmts      Pool[WhileStmt]
	doWhileStmts    Pool[DoWhileStmt]
	forStmts        Pool[ForStmt]
	jumpStmts       Pool[JumpStmt]
	switchStmts     Pool[SwitchStmt]
	caseStmts       Pool[CaseStmt]
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) nextID() uint32 {
	a.ids++
	return a.ids
}

// NodeCount returns the total number of expression and statement nodes
// allocated from this arena's pools; declaration nodes, allocated with plain
// `new`, are not counted.
func (a *Arena) NodeCount() int {
	return a.binaryExprs.Len() + a.literalExprs.Len() + a.unaryExprs.Len() +
		a.postfixExprs.Len() + a.callExprs.Len() + a.callParamExprs.Len() +
		a.memberRefExprs.Len() + a.memberExprs.Len() + a.indexExprs.Len() +
		a.castExprs.Len() + a.ternaryExprs.Len() + a.assignExprs.Len() +
		a.compoundAssigns.Len() + a.initExprs.Len() + a.emptyExprs.Len() +
		a.blockStmts.Len() + a.declStmts.Len() + a.assignStmts.Len() +
		a.compoundStmts.Len() + a.exprStmts.Len() + a.returnStmts.Len() +
		a.ifStmts.Len() + a.elseStmts.Len() + a.whileStmts.Len() +
		a.doWhileStmts.Len() + a.forStmts.Len() + a.jumpStmts.Len() +
		a.switchStmts.Len() + a.caseStmts.Len()
}
