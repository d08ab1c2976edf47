package symbol

import (
	"strings"
	"sync"
)

// Table is a hierarchical name trie: a.b.c is three edges, root to leaf.
// Insertion is guarded by a mutex; lookup is not, matching the original's
// documented threading contract (a single writer while semantic analysis
// runs single-threaded per compilation, readers never race a concurrent
// insert because the collector pass fully populates the table before the
// resolver pass starts reading it).
type Table struct {
	mu     sync.Mutex
	root   *Node
	pool   *StringPool
	sealed bool
}

// NewTable constructs an empty table with its own string pool.
func NewTable() *Table {
	return &Table{root: newNode("", nil), pool: NewStringPool()}
}

// Pool returns the table's string interner.
func (t *Table) Pool() *StringPool {
	return t.pool
}

// Seal forbids further Insert/Rename calls; used by the primitive assembly
// once HXSL.Core has been fully populated.
func (t *Table) Seal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sealed = true
}

// Sealed reports whether Seal has been called.
func (t *Table) Sealed() bool {
	return t.sealed
}

// MakeHandle wraps a node (possibly nil) in a Handle bound to this table.
func (t *Table) MakeHandle(n *Node) Handle {
	return Handle{table: t, node: n}
}

// Root returns a handle to the table's unnamed root node.
func (t *Table) Root() Handle {
	return t.MakeHandle(t.root)
}

// splitPath breaks path on '.' outside of a parenthesized signature suffix;
// once a '(' is seen, the remainder of the string (including it) is the
// final segment, since overload signatures are never nested under further
// path segments.
func splitPath(path string) []string {
	var segments []string
	depth := 0
	start := 0

	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '(':
			if depth == 0 {
				segments = append(segments, path[start:])
				return segments
			}
			depth++
		case ')':
			depth--
		case '.':
			if depth == 0 {
				segments = append(segments, path[start:i])
				start = i + 1
			}
		}
	}

	if start < len(path) {
		segments = append(segments, path[start:])
	}

	return segments
}

func (t *Table) insertLocked(path string, metadata *Metadata, start *Node) Handle {
	cur := start
	if cur == nil {
		cur = t.root
	}

	for _, seg := range splitPath(path) {
		cur = cur.getOrCreateChild(t.pool.Intern(seg))
	}

	if cur.Metadata != nil {
		return Handle{}
	}

	cur.Metadata = metadata
	return t.MakeHandle(cur)
}

// Insert walks or creates the path starting at start (the table root if
// nil), attaching metadata to the leaf. Returns an invalid handle if the
// leaf already carries metadata, signaling a duplicate declaration to the
// caller (the collector pass, which turns that into a diagnostic), or if
// the table is sealed.
func (t *Table) Insert(path string, metadata *Metadata, start *Node) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed {
		return Handle{}
	}
	return t.insertLocked(path, metadata, start)
}

// InsertSynthetic is Insert without the sealed check, for symbols that are
// a pure memoized function of an already-frozen type rather than a new
// independent declaration — an array-of-T instantiation or a vector's
// swizzle accessor. HXSL.Core seals against new user declarations right
// after construction (see core.go), but a shader can still write e.g.
// `v.xyz` against a sealed core vector type; the swizzle field synthesized
// for that access is exactly as immutable in spirit as the rest of Core
// once it exists (it's deterministic in the owner and pattern alone), it
// just doesn't exist until first referenced.
func (t *Table) InsertSynthetic(path string, metadata *Metadata, start *Node) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(path, metadata, start)
}

// InsertUnder is Insert scoped to an existing handle's node rather than the
// table root, used by a collector to add a type's members (fields,
// functions, operators, constructors) as children of the type's own symbol
// instead of accidentally inserting them at the table root.
func (t *Table) InsertUnder(path string, metadata *Metadata, parent Handle) Handle {
	return t.Insert(path, metadata, parent.node)
}

// FindNodePart is a single hash-map lookup for an immediate child.
func (t *Table) FindNodePart(shortName string, start *Node) Handle {
	cur := start
	if cur == nil {
		cur = t.root
	}
	return t.MakeHandle(cur.Child(shortName))
}

// FindNodeFullPath walks a dotted (or signature-suffixed) path from start.
func (t *Table) FindNodeFullPath(path string, start *Node) Handle {
	cur := start
	if cur == nil {
		cur = t.root
	}
	return t.findFullPathFrom(cur, path)
}

func (t *Table) findFullPathFrom(start *Node, path string) Handle {
	cur := start
	for _, seg := range splitPath(path) {
		cur = cur.Child(seg)
		if cur == nil {
			return Handle{}
		}
	}
	return t.MakeHandle(cur)
}

// Rename rewrites one edge's short name, preserving the node's children and
// metadata. Fails if another child of the same parent already owns the new
// name.
func (t *Table) Rename(newShortName string, h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed || h.node == nil || h.node.Parent == nil {
		return false
	}

	parent := h.node.Parent
	if existing, ok := parent.Children[newShortName]; ok && existing != h.node {
		return false
	}

	delete(parent.Children, h.node.ShortName)
	h.node.ShortName = t.pool.Intern(newShortName)
	parent.Children[h.node.ShortName] = h.node

	return true
}

// fullyQualifiedName rebuilds the dotted path from node to the root.
func (t *Table) fullyQualifiedName(node *Node) string {
	var segments []string
	for n := node; n != nil && n.Parent != nil; n = n.Parent {
		segments = append([]string{n.ShortName}, segments...)
	}
	return strings.Join(segments, ".")
}

// Strip walks the tree to discard scope/local bookkeeping that only
// matters during semantic analysis (e.g. block-local variable symbols no
// later pass reads). Currently a no-op placeholder, matching the
// original's own "not yet needed" state: nothing downstream of the
// resolver re-reads per-scope names today, so there is nothing to strip.
func (t *Table) Strip() {
}
