package btree

import "fmt"

// NodeInfo is a snapshot of one page's header fields, used to render
// the tree for the .btree meta-command without exposing the codec
// itself to the shell package.
type NodeInfo struct {
	Page     uint32
	Leaf     bool
	Depth    int
	NumCells int      // leaf: number of (key, value) cells
	Keys     []uint32 // internal: separator keys; leaf: cell keys
	Children []uint32 // internal: child pages, parallel to Keys, plus the trailing right child
}

// Walk visits every page in the tree in pre-order (a node, then each
// of its children left to right) and calls visit once per page. It is
// intended for diagnostics: the .btree meta-command is its only
// caller.
func (t *Tree) Walk(visit func(NodeInfo)) error {
	return t.walk(t.root, 0, visit)
}

func (t *Tree) walk(page uint32, depth int, visit func(NodeInfo)) error {
	pg, err := t.pager.GetPage(page)
	if err != nil {
		return err
	}
	buf := pg.Data[:]

	if Type(buf) == NodeLeaf {
		n := int(LeafNumCells(buf))
		keys := make([]uint32, n)
		for i := 0; i < n; i++ {
			keys[i] = LeafKey(buf, i, t.valueSize)
		}
		visit(NodeInfo{Page: page, Leaf: true, Depth: depth, NumCells: n, Keys: keys})
		return nil
	}

	n := int(InternalNumKeys(buf))
	keys := make([]uint32, n)
	children := make([]uint32, n+1)
	for i := 0; i < n; i++ {
		keys[i] = InternalKey(buf, i)
		children[i] = InternalChild(buf, i)
	}
	children[n] = InternalRightChild(buf)
	visit(NodeInfo{Page: page, Leaf: false, Depth: depth, NumCells: n, Keys: keys, Children: children})

	for _, child := range children {
		if child == InvalidPage {
			continue
		}
		if err := t.walk(child, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}

// String renders a NodeInfo the way the shell's .btree command prints
// it: "leaf (size N)" or "internal (size N)" with indentation by
// depth, matching the original tutorial's debug dump format.
func (n NodeInfo) String() string {
	indent := ""
	for i := 0; i < n.Depth; i++ {
		indent += "  "
	}
	if n.Leaf {
		s := fmt.Sprintf("%sleaf (size %d)", indent, n.NumCells)
		for _, k := range n.Keys {
			s += fmt.Sprintf("\n%s  - %d", indent, k)
		}
		return s
	}
	s := fmt.Sprintf("%sinternal (size %d)", indent, n.NumCells)
	for i, k := range n.Keys {
		s += fmt.Sprintf("\n%s  - child %d, key %d", indent, n.Children[i], k)
	}
	if len(n.Children) > 0 {
		s += fmt.Sprintf("\n%s  - right child %d", indent, n.Children[len(n.Children)-1])
	}
	return s
}
