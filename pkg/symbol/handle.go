package symbol

import "strings"

// Handle is a cheap, non-owning reference to a node within a specific
// table: `(table, node)`. A zero Handle (nil node) is invalid, standing in
// for a failed lookup the way the original's null-node handle does.
type Handle struct {
	table *Table
	node  *Node
}

// Valid reports whether this handle actually names a node.
func (h Handle) Valid() bool {
	return h.node != nil
}

// Metadata returns the node's attached metadata, or nil for an invalid
// handle or a pure path-segment node.
func (h Handle) Metadata() *Metadata {
	if h.node == nil {
		return nil
	}
	return h.node.Metadata
}

// ShortName returns the node's own name segment, e.g. "c" for "a.b.c".
func (h Handle) ShortName() string {
	if h.node == nil {
		return ""
	}
	return h.node.ShortName
}

// FindPart looks up an immediate child by its short name: a single
// hash-map lookup, no path walking.
func (h Handle) FindPart(name string) Handle {
	if h.node == nil {
		return Handle{}
	}
	return Handle{table: h.table, node: h.node.Child(name)}
}

// FindFullPath walks a dotted (or call-signature-suffixed) path starting
// from this handle's node, stopping at the first '(' the way the table's
// full-path walk does for a function/operator/constructor signature
// segment.
func (h Handle) FindFullPath(path string) Handle {
	if h.node == nil {
		return Handle{}
	}
	return h.table.findFullPathFrom(h.node, path)
}

// FullyQualifiedName rebuilds the dotted name from this node back to the
// table root.
func (h Handle) FullyQualifiedName() string {
	if h.node == nil {
		return ""
	}
	return h.table.fullyQualifiedName(h.node)
}

// Table returns the table this handle belongs to.
func (h Handle) Table() *Table {
	return h.table
}

// Parent returns the handle's enclosing node, e.g. a constructor's owning
// type or a field's enclosing struct. Invalid for the table root.
func (h Handle) Parent() Handle {
	if h.node == nil || h.node.Parent == nil {
		return Handle{}
	}
	return Handle{table: h.table, node: h.node.Parent}
}

// Children returns every immediate child of this node, in the map's
// unspecified iteration order — callers that need a stable order (e.g. the
// module file writer's pre-order flatten) sort by ShortName themselves.
func (h Handle) Children() []Handle {
	if h.node == nil {
		return nil
	}
	out := make([]Handle, 0, len(h.node.Children))
	for _, child := range h.node.Children {
		out = append(out, Handle{table: h.table, node: child})
	}
	return out
}

// ChildrenWithPrefix returns every immediate child whose short name starts
// with prefix — used to find function/operator/constructor overloads by
// name when an exact-signature lookup misses, e.g. because one argument's
// type couldn't be inferred.
func (h Handle) ChildrenWithPrefix(prefix string) []Handle {
	if h.node == nil {
		return nil
	}
	var out []Handle
	for name, child := range h.node.Children {
		if strings.HasPrefix(name, prefix) {
			out = append(out, Handle{table: h.table, node: child})
		}
	}
	return out
}
