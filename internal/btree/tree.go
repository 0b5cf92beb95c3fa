// Package btree implements the ordered, paged B+-tree that backs the
// shell: tree-directed search, insert with leaf/internal splitting and
// root growth, and an ordered forward scan over the leaf chain. It is
// schema-agnostic — every value is a fixed-width opaque byte string,
// and the tree never interprets payload bytes.
package btree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/winterrdog/sqlyte-db/internal/pager"
)

// Tree ties the pager and the node codec together. Page 0 is always
// the root, by construction, so no on-disk header is needed to find
// it after reopening a file.
type Tree struct {
	pager     *pager.Pager
	root      uint32
	valueSize uint32
}

// Open attaches a Tree to an already-open Pager. If the pager has no
// pages yet, page 0 is created as an empty leaf marked root.
func Open(p *pager.Pager, valueSize uint32) (*Tree, error) {
	t := &Tree{pager: p, root: 0, valueSize: valueSize}
	if p.NumPages() == 0 {
		pg, err := p.GetPage(0)
		if err != nil {
			return nil, err
		}
		buf := pg.Data[:]
		InitLeaf(buf)
		SetIsRoot(buf, true)
	}
	return t, nil
}

// ValueSize reports the fixed width of every stored value.
func (t *Tree) ValueSize() uint32 { return t.valueSize }

// LeafMaxCells reports how many cells a leaf holds at this tree's
// value width.
func (t *Tree) LeafMaxCells() int { return int(LeafMaxCells(t.valueSize)) }

func (t *Tree) allocatePage() (uint32, error) {
	n, err := t.pager.AllocatePage()
	if err != nil {
		if errors.Is(err, pager.ErrTableFull) {
			return 0, ErrTableFull
		}
		return 0, err
	}
	return n, nil
}

// Find descends from the root and returns a cursor positioned at key,
// if present, or at the first key strictly greater than it (or one
// past the end of the leaf if none is). Internal descent is a closed
// binary search (smallest i with key <= key(i)); leaf positioning is
// half-open, matching the insertion-point contract every caller here
// relies on.
func (t *Tree) Find(key uint32) (Cursor, error) {
	page := t.root
	for {
		pg, err := t.pager.GetPage(page)
		if err != nil {
			return Cursor{}, err
		}
		buf := pg.Data[:]
		if Type(buf) == NodeLeaf {
			n := int(LeafNumCells(buf))
			idx := sort.Search(n, func(i int) bool { return LeafKey(buf, i, t.valueSize) >= key })
			return Cursor{Page: page, Cell: idx}, nil
		}
		n := int(InternalNumKeys(buf))
		page = internalChildForKey(buf, n, key)
	}
}

// TableStart returns a cursor at the first row in key order (the
// leftmost leaf's first cell). EndOfTable is true for an empty tree.
func (t *Tree) TableStart() (Cursor, error) {
	cur, err := t.Find(0)
	if err != nil {
		return Cursor{}, err
	}
	pg, err := t.pager.GetPage(cur.Page)
	if err != nil {
		return Cursor{}, err
	}
	cur.EndOfTable = LeafNumCells(pg.Data[:]) == 0
	return cur, nil
}

// Advance moves the cursor to the next cell in key order, following
// the leaf chain when the current leaf is exhausted.
func (t *Tree) Advance(cur *Cursor) error {
	if cur.EndOfTable {
		return nil
	}
	pg, err := t.pager.GetPage(cur.Page)
	if err != nil {
		return err
	}
	buf := pg.Data[:]
	cur.Cell++
	if cur.Cell < int(LeafNumCells(buf)) {
		return nil
	}

	next := LeafNextLeaf(buf)
	if next == NoNextLeaf {
		cur.EndOfTable = true
		return nil
	}
	cur.Page = next
	cur.Cell = 0
	npg, err := t.pager.GetPage(next)
	if err != nil {
		return err
	}
	cur.EndOfTable = LeafNumCells(npg.Data[:]) == 0
	return nil
}

// Key returns the key at the cursor's current position.
func (t *Tree) Key(cur Cursor) (uint32, error) {
	pg, err := t.pager.GetPage(cur.Page)
	if err != nil {
		return 0, err
	}
	return LeafKey(pg.Data[:], cur.Cell, t.valueSize), nil
}

// Value returns a copy of the opaque value bytes at the cursor's
// current position.
func (t *Tree) Value(cur Cursor) ([]byte, error) {
	pg, err := t.pager.GetPage(cur.Page)
	if err != nil {
		return nil, err
	}
	src := LeafValue(pg.Data[:], cur.Cell, t.valueSize)
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

// Insert adds key/value into the tree. It fails with ErrDuplicateKey
// if key is already present, comparing against the cursor's own page
// (not the root) so the check stays correct once the root is no
// longer a leaf.
func (t *Tree) Insert(key uint32, value []byte) error {
	if uint32(len(value)) != t.valueSize {
		return fmt.Errorf("btree: value is %d bytes, want %d", len(value), t.valueSize)
	}

	cur, err := t.Find(key)
	if err != nil {
		return err
	}
	pg, err := t.pager.GetPage(cur.Page)
	if err != nil {
		return err
	}
	buf := pg.Data[:]
	if cur.Cell < int(LeafNumCells(buf)) && LeafKey(buf, cur.Cell, t.valueSize) == key {
		return ErrDuplicateKey
	}

	if LeafNumCells(buf) < LeafMaxCells(t.valueSize) {
		t.leafInsertNoSplit(buf, cur.Cell, key, value)
		return nil
	}
	return t.leafSplitAndInsert(cur.Page, cur.Cell, key, value)
}

// leafInsertNoSplit shifts cells right by one from the high end down
// to avoid overwrite, then writes the new cell in the opened slot.
func (t *Tree) leafInsertNoSplit(buf []byte, cellNum int, key uint32, value []byte) {
	n := int(LeafNumCells(buf))
	for i := n; i > cellNum; i-- {
		CopyLeafCell(buf, i, buf, i-1, t.valueSize)
	}
	SetLeafCell(buf, cellNum, key, value, t.valueSize)
	SetLeafNumCells(buf, uint32(n+1))
}

// leafSplitAndInsert redistributes LeafMaxCells+1 logical cells
// (the existing cells plus the one being inserted) between the
// original leaf and a freshly allocated sibling, then propagates the
// split upward.
func (t *Tree) leafSplitAndInsert(oldPage uint32, cellNum int, key uint32, value []byte) error {
	oldPg, err := t.pager.GetPage(oldPage)
	if err != nil {
		return err
	}
	oldBuf := oldPg.Data[:]

	oldMax, err := t.maxKey(oldPage)
	if err != nil {
		return err
	}

	newPage, err := t.allocatePage()
	if err != nil {
		return err
	}
	newPg, err := t.pager.GetPage(newPage)
	if err != nil {
		return err
	}
	newBuf := newPg.Data[:]
	InitLeaf(newBuf)
	SetParentPage(newBuf, ParentPage(oldBuf))

	SetLeafNextLeaf(newBuf, LeafNextLeaf(oldBuf))
	SetLeafNextLeaf(oldBuf, newPage)

	leafMax := int(LeafMaxCells(t.valueSize))
	rightCount := (leafMax + 1 + 1) / 2 // ceil((leafMax+1)/2)
	leftCount := (leafMax + 1) - rightCount

	for i := leafMax; i >= 0; i-- {
		destBuf, destSlot := oldBuf, i
		if i >= leftCount {
			destBuf, destSlot = newBuf, i-leftCount
		}
		switch {
		case i == cellNum:
			SetLeafCell(destBuf, destSlot, key, value, t.valueSize)
		case i > cellNum:
			CopyLeafCell(destBuf, destSlot, oldBuf, i-1, t.valueSize)
		default:
			CopyLeafCell(destBuf, destSlot, oldBuf, i, t.valueSize)
		}
	}
	SetLeafNumCells(oldBuf, uint32(leftCount))
	SetLeafNumCells(newBuf, uint32(rightCount))

	if IsRoot(oldBuf) {
		return t.createNewRoot(oldPage, newPage)
	}

	parent := ParentPage(oldBuf)
	newOldMax, err := t.maxKey(oldPage)
	if err != nil {
		return err
	}
	if err := t.updateInternalKey(parent, oldMax, newOldMax); err != nil {
		return err
	}
	return t.internalInsert(parent, newPage)
}

// maxKey is the tree's definition of "the maximum key under this
// page": for a leaf, its last cell's key; for an internal node, the
// max key of its rightmost child, recursively.
func (t *Tree) maxKey(page uint32) (uint32, error) {
	pg, err := t.pager.GetPage(page)
	if err != nil {
		return 0, err
	}
	buf := pg.Data[:]
	if Type(buf) == NodeLeaf {
		n := int(LeafNumCells(buf))
		return LeafKey(buf, n-1, t.valueSize), nil
	}
	return t.maxKey(InternalRightChild(buf))
}

// updateInternalKey finds the separator equal to oldKey in parent and
// overwrites it with newKey, preserving the invariant that each
// separator equals its child's max key.
func (t *Tree) updateInternalKey(parent uint32, oldKey, newKey uint32) error {
	pg, err := t.pager.GetPage(parent)
	if err != nil {
		return err
	}
	buf := pg.Data[:]
	n := int(InternalNumKeys(buf))
	idx := internalFindChildIndex(buf, n, oldKey)
	SetInternalKey(buf, idx, newKey)
	return nil
}

func internalFindChildIndex(buf []byte, n int, key uint32) int {
	return sort.Search(n, func(i int) bool { return key <= InternalKey(buf, i) })
}

func internalChildForKey(buf []byte, n int, key uint32) uint32 {
	idx := internalFindChildIndex(buf, n, key)
	if idx < n {
		return InternalChild(buf, idx)
	}
	return InternalRightChild(buf)
}

// internalInsert splices a new child into parent, keyed by the
// child's own max key, splitting parent first if it is already full.
// It never sets childPage's parent field: every caller is expected to
// have that pointer correct (or about to be corrected) before or
// immediately after this call.
func (t *Tree) internalInsert(parentPage, childPage uint32) error {
	childMax, err := t.maxKey(childPage)
	if err != nil {
		return err
	}

	pg, err := t.pager.GetPage(parentPage)
	if err != nil {
		return err
	}
	buf := pg.Data[:]
	n := int(InternalNumKeys(buf))

	if n == InternalMaxKeys {
		return t.internalSplitAndInsert(parentPage, childPage)
	}

	index := internalFindChildIndex(buf, n, childMax)

	if InternalRightChild(buf) == InvalidPage {
		SetInternalRightChild(buf, childPage)
		return nil
	}

	rightChild := InternalRightChild(buf)
	rightMax, err := t.maxKey(rightChild)
	if err != nil {
		return err
	}

	SetInternalNumKeys(buf, uint32(n+1))
	if childMax > rightMax {
		SetInternalCell(buf, n, rightChild, rightMax)
		SetInternalRightChild(buf, childPage)
	} else {
		for i := n; i > index; i-- {
			CopyInternalCell(buf, i, buf, i-1)
		}
		SetInternalCell(buf, index, childPage, childMax)
	}
	return nil
}

// reparentAndInsert sets childPage's parent pointer to parentPage,
// then inserts it. Used whenever a child is actually moving between
// nodes (as opposed to being inserted into the parent it already
// points at).
func (t *Tree) reparentAndInsert(parentPage, childPage uint32) error {
	childPg, err := t.pager.GetPage(childPage)
	if err != nil {
		return err
	}
	SetParentPage(childPg.Data[:], parentPage)
	return t.internalInsert(parentPage, childPage)
}

// createNewRoot grows the tree by one level. The page currently acting
// as root (always page 0) is copied wholesale into a freshly allocated
// left page, then page 0 is re-initialized as an internal node with
// two children: the copy, and rightChildPage (the sibling that caused
// this growth). Page 0's identity as root never changes.
func (t *Tree) createNewRoot(rootPage, rightChildPage uint32) error {
	rootPg, err := t.pager.GetPage(rootPage)
	if err != nil {
		return err
	}
	wasInternal := Type(rootPg.Data[:]) == NodeInternal

	leftPage, err := t.allocatePage()
	if err != nil {
		return err
	}
	leftPg, err := t.pager.GetPage(leftPage)
	if err != nil {
		return err
	}
	leftPg.Data = rootPg.Data
	SetIsRoot(leftPg.Data[:], false)

	if wasInternal {
		leftBuf := leftPg.Data[:]
		n := int(InternalNumKeys(leftBuf))
		for i := 0; i < n; i++ {
			childPg, err := t.pager.GetPage(InternalChild(leftBuf, i))
			if err != nil {
				return err
			}
			SetParentPage(childPg.Data[:], leftPage)
		}
		if rc := InternalRightChild(leftBuf); rc != InvalidPage {
			rcPg, err := t.pager.GetPage(rc)
			if err != nil {
				return err
			}
			SetParentPage(rcPg.Data[:], leftPage)
		}
	}

	leftMax, err := t.maxKey(leftPage)
	if err != nil {
		return err
	}

	rootBuf := rootPg.Data[:]
	InitInternal(rootBuf)
	SetIsRoot(rootBuf, true)
	SetInternalNumKeys(rootBuf, 1)
	SetInternalCell(rootBuf, 0, leftPage, leftMax)
	SetInternalRightChild(rootBuf, rightChildPage)

	SetParentPage(leftPg.Data[:], rootPage)
	rightPg, err := t.pager.GetPage(rightChildPage)
	if err != nil {
		return err
	}
	SetParentPage(rightPg.Data[:], rootPage)

	return nil
}

// internalSplitAndInsert redistributes a full internal node's keys
// between itself and a freshly allocated sibling, propagating to a
// new root if the node being split is the root.
func (t *Tree) internalSplitAndInsert(oldPage, childPage uint32) error {
	oldPg, err := t.pager.GetPage(oldPage)
	if err != nil {
		return err
	}
	oldBuf := oldPg.Data[:]

	oldMax, err := t.maxKey(oldPage)
	if err != nil {
		return err
	}
	rootSplitting := IsRoot(oldBuf)

	newPage, err := t.allocatePage()
	if err != nil {
		return err
	}
	newPg, err := t.pager.GetPage(newPage)
	if err != nil {
		return err
	}
	InitInternal(newPg.Data[:])

	if rootSplitting {
		if err := t.createNewRoot(oldPage, newPage); err != nil {
			return err
		}
		rootPg, err := t.pager.GetPage(t.root)
		if err != nil {
			return err
		}
		oldPage = InternalChild(rootPg.Data[:], 0)
		oldPg, err = t.pager.GetPage(oldPage)
		if err != nil {
			return err
		}
		oldBuf = oldPg.Data[:]
	} else {
		SetParentPage(newPg.Data[:], ParentPage(oldBuf))
	}

	oldRightChild := InternalRightChild(oldBuf)
	if err := t.reparentAndInsert(newPage, oldRightChild); err != nil {
		return err
	}
	SetInternalRightChild(oldBuf, InvalidPage)

	for i := InternalMaxKeys - 1; i > InternalMaxKeys/2; i-- {
		child := InternalChild(oldBuf, i)
		if err := t.reparentAndInsert(newPage, child); err != nil {
			return err
		}
		SetInternalNumKeys(oldBuf, InternalNumKeys(oldBuf)-1)
	}

	n := int(InternalNumKeys(oldBuf))
	lastChild := InternalChild(oldBuf, n-1)
	SetInternalRightChild(oldBuf, lastChild)
	SetInternalNumKeys(oldBuf, uint32(n-1))

	childMax, err := t.maxKey(childPage)
	if err != nil {
		return err
	}
	oldNewMax, err := t.maxKey(oldPage)
	if err != nil {
		return err
	}
	dest := newPage
	if childMax < oldNewMax {
		dest = oldPage
	}
	if err := t.reparentAndInsert(dest, childPage); err != nil {
		return err
	}

	parent := ParentPage(oldBuf)
	finalOldMax, err := t.maxKey(oldPage)
	if err != nil {
		return err
	}
	if err := t.updateInternalKey(parent, oldMax, finalOldMax); err != nil {
		return err
	}

	if !rootSplitting {
		return t.internalInsert(parent, newPage)
	}
	return nil
}
