package btree

import "github.com/winterrdog/sqlyte-db/internal/pager"

// Common node header: node_type(1) + is_root(1) + parent_page(4).
const (
	offNodeType   = 0
	offIsRoot     = 1
	offParentPage = 2
	commonHeaderSize = 6
)

// Leaf header continues with num_cells(4) + next_leaf(4).
const (
	offLeafNumCells = commonHeaderSize
	offLeafNextLeaf = offLeafNumCells + 4
	leafHeaderSize  = offLeafNextLeaf + 4

	leafKeySize = 4
)

// Internal header continues with num_keys(4) + right_child(4).
const (
	offInternalNumKeys    = commonHeaderSize
	offInternalRightChild = offInternalNumKeys + 4
	internalHeaderSize    = offInternalRightChild + 4

	internalCellSize = 8 // child_page(4) + key(4)

	// InternalMaxKeys bounds how many separator keys an internal node
	// holds. The reference implementation fixes this small for
	// testability; it is not derived from PageSize.
	InternalMaxKeys = 3
)

// NoNextLeaf is the next_leaf sentinel meaning "rightmost leaf" (page 0
// is always the root and can never be a non-leftmost leaf, so it is
// safe to reuse as "no sibling").
const NoNextLeaf uint32 = 0

// InvalidPage marks a freshly initialized internal node's right_child
// as "not yet assigned", so it can never be confused with page 0 (the
// root).
const InvalidPage uint32 = 0xFFFFFFFF

// NodeType distinguishes the two page layouts.
type NodeType uint8

const (
	NodeInternal NodeType = 0
	NodeLeaf     NodeType = 1
)

// LeafCellSize returns the on-disk size of one leaf cell (key + an
// opaque value of the given width).
func LeafCellSize(valueSize uint32) uint32 {
	return leafKeySize + valueSize
}

// LeafMaxCells returns how many cells of the given value width fit in
// one leaf page.
func LeafMaxCells(valueSize uint32) uint32 {
	return (pager.PageSize - leafHeaderSize) / LeafCellSize(valueSize)
}
