package ast

import "github.com/hexaengine/hxslc/pkg/source"

// Node is implemented by every concrete AST node type. Every node except a
// CompilationUnit has a non-nil Parent; SetParent is mutable because both
// the resolver (hoisting a deferred declaration) and the optimizer
// (splicing a simplified expression in place of the one it replaces) move
// nodes after the parser first builds the tree.
type Node interface {
	ID() uint32
	Kind() Kind
	Span() source.Span
	Parent() Node
	SetParent(Node)
	Extern() bool
	// Children returns this node's immediate children in source order. Leaf
	// nodes (literals, break/continue) return nil.
	Children() []Node
}

// NodeBase is embedded by every concrete node type; it implements the
// bookkeeping common to all of them so concrete types only need to add
// their own fields and a Children method.
type NodeBase struct {
	id     uint32
	kind   Kind
	span   source.Span
	parent Node
	extern bool
}

func (n *NodeBase) ID() uint32        { return n.id }
func (n *NodeBase) Kind() Kind        { return n.kind }
func (n *NodeBase) Span() source.Span { return n.span }
func (n *NodeBase) Parent() Node      { return n.parent }
func (n *NodeBase) Extern() bool      { return n.extern }

func (n *NodeBase) SetParent(p Node) { n.parent = p }

func (n *NodeBase) init(arena *Arena, kind Kind, span source.Span, extern bool) {
	n.id = arena.nextID()
	n.kind = kind
	n.span = span
	n.extern = extern
}

// linkChildren sets parent on each non-nil child to self.
func linkChildren(self Node, children ...Node) {
	for _, c := range children {
		if c != nil {
			c.SetParent(self)
		}
	}
}

// FindAncestor walks parent links starting above n, returning the first
// node whose Kind is in kinds. maxDepth of 0 means unbounded.
func FindAncestor(n Node, maxDepth int, kinds ...Kind) Node {
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	cur := n.Parent()
	for depth := 0; cur != nil && (maxDepth == 0 || depth < maxDepth); depth++ {
		if want[cur.Kind()] {
			return cur
		}
		cur = cur.Parent()
	}

	return nil
}
