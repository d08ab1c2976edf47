package modfile

import (
	"bytes"
	"io"
	"sort"

	"github.com/hexaengine/hxslc/pkg/symbol"
)

// SymbolRecord is one decoded entry from a module file's flattened symbol
// table section — spec.md §6's "(node_index, name, child_count,
// child_indices, depth, parent_index, has_metadata, [metadata])" record,
// reconstructed without the original ast.Node a live *symbol.Table's
// Metadata.Declaration points at (that pointer has no wire representation;
// see the DESIGN.md entry for this package).
type SymbolRecord struct {
	Index    uint32
	Name     string
	Children []uint32
	Depth    uint32
	Parent   uint32

	HasMetadata bool
	Kind        symbol.Type
	Access      symbol.Access
}

type flatNode struct {
	handle   symbol.Handle
	parent   uint32
	depth    uint32
	children []uint32
}

// flattenTable walks table in pre-order starting at its root (assigned
// index 0), recording each node's parent/depth as it's first visited and
// backfilling child indices once a node's whole subtree has been walked.
// Children are visited in ShortName order so the flatten is deterministic
// across runs, since symbol.Handle.Children iterates a Go map.
func flattenTable(table *symbol.Table) []flatNode {
	var nodes []flatNode

	var walk func(h symbol.Handle, parent uint32, depth uint32) uint32
	walk = func(h symbol.Handle, parent uint32, depth uint32) uint32 {
		idx := uint32(len(nodes))
		nodes = append(nodes, flatNode{handle: h, parent: parent, depth: depth})

		children := h.Children()
		sort.Slice(children, func(i, j int) bool { return children[i].ShortName() < children[j].ShortName() })

		childIdx := make([]uint32, 0, len(children))
		for _, c := range children {
			childIdx = append(childIdx, walk(c, idx, depth+1))
		}
		nodes[idx].children = childIdx

		return idx
	}

	walk(table.Root(), 0, 0)
	return nodes
}

// writeSymbolTable encodes table's flattened node list, prefixed by the
// node count a reader needs to know how many records follow.
func writeSymbolTable(buf *bytes.Buffer, table *symbol.Table) {
	nodes := flattenTable(table)

	writeU32(buf, uint32(len(nodes)))
	for i, n := range nodes {
		writeU32(buf, uint32(i))
		writeString(buf, n.handle.ShortName())

		writeU32(buf, uint32(len(n.children)))
		for _, c := range n.children {
			writeU32(buf, c)
		}

		writeU32(buf, n.depth)
		writeU32(buf, n.parent)

		md := n.handle.Metadata()
		if md == nil {
			buf.WriteByte(0)
			continue
		}
		buf.WriteByte(1)
		buf.WriteByte(byte(md.Kind))
		buf.WriteByte(byte(md.Access))
	}
}

func readSymbolTable(r *bytes.Reader) ([]SymbolRecord, error) {
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}

	records := make([]SymbolRecord, count)
	for i := range records {
		idx, err := readU32(r)
		if err != nil {
			return nil, err
		}
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		childCount, err := readU32(r)
		if err != nil {
			return nil, err
		}
		children := make([]uint32, childCount)
		for j := range children {
			children[j], err = readU32(r)
			if err != nil {
				return nil, err
			}
		}
		depth, err := readU32(r)
		if err != nil {
			return nil, err
		}
		parent, err := readU32(r)
		if err != nil {
			return nil, err
		}

		rec := SymbolRecord{Index: idx, Name: name, Children: children, Depth: depth, Parent: parent}

		hasMetadata, err := readByte(r)
		if err != nil {
			return nil, err
		}
		if hasMetadata != 0 {
			kind, err := readByte(r)
			if err != nil {
				return nil, err
			}
			access, err := readByte(r)
			if err != nil {
				return nil, err
			}
			rec.HasMetadata = true
			rec.Kind = symbol.Type(kind)
			rec.Access = symbol.Access(access)
		}

		records[i] = rec
	}

	return records, nil
}

func readByte(r *bytes.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
