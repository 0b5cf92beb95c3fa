package btree

import "encoding/binary"

// This file holds the node codec: pure accessors that read and write
// fields at fixed byte offsets inside a page buffer. Nothing here
// allocates, and nothing here touches the pager — callers supply the
// *pager.Page.Data slice directly. Leaf and internal layouts share the
// same common header; num_cells/num_keys and next_leaf/right_child
// occupy the same byte ranges in both variants, since both need
// exactly "a count" and "a trailing page pointer".

// Type returns the node's type tag, the first byte of any page.
func Type(buf []byte) NodeType { return NodeType(buf[offNodeType]) }

// IsRoot reports whether the page is currently acting as root.
func IsRoot(buf []byte) bool { return buf[offIsRoot] != 0 }

// SetIsRoot sets or clears the root flag.
func SetIsRoot(buf []byte, v bool) {
	if v {
		buf[offIsRoot] = 1
	} else {
		buf[offIsRoot] = 0
	}
}

// ParentPage returns the page number of this node's parent. Undefined
// (and unused) when IsRoot is true.
func ParentPage(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[offParentPage : offParentPage+4])
}

// SetParentPage records this node's parent page number.
func SetParentPage(buf []byte, parent uint32) {
	binary.LittleEndian.PutUint32(buf[offParentPage:offParentPage+4], parent)
}

// InitLeaf zeroes a fresh page and marks it as an empty, non-root leaf
// with no next sibling.
func InitLeaf(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	buf[offNodeType] = byte(NodeLeaf)
	SetLeafNextLeaf(buf, NoNextLeaf)
}

// InitInternal zeroes a fresh page and marks it as an empty, non-root
// internal node whose right child is not yet assigned.
func InitInternal(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	buf[offNodeType] = byte(NodeInternal)
	SetInternalRightChild(buf, InvalidPage)
}

// --- leaf accessors ---

func LeafNumCells(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[offLeafNumCells : offLeafNumCells+4])
}

func SetLeafNumCells(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[offLeafNumCells:offLeafNumCells+4], n)
}

func LeafNextLeaf(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[offLeafNextLeaf : offLeafNextLeaf+4])
}

func SetLeafNextLeaf(buf []byte, next uint32) {
	binary.LittleEndian.PutUint32(buf[offLeafNextLeaf:offLeafNextLeaf+4], next)
}

// leafCellOffset returns the byte offset of cell i given a value width.
func leafCellOffset(i int, valueSize uint32) int {
	return leafHeaderSize + i*int(LeafCellSize(valueSize))
}

// LeafKey returns the key stored in cell i.
func LeafKey(buf []byte, i int, valueSize uint32) uint32 {
	off := leafCellOffset(i, valueSize)
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// SetLeafKey overwrites the key stored in cell i, leaving the value
// untouched.
func SetLeafKey(buf []byte, i int, key uint32, valueSize uint32) {
	off := leafCellOffset(i, valueSize)
	binary.LittleEndian.PutUint32(buf[off:off+4], key)
}

// LeafValue returns the opaque value bytes of cell i. The returned
// slice aliases the page buffer.
func LeafValue(buf []byte, i int, valueSize uint32) []byte {
	off := leafCellOffset(i, valueSize) + leafKeySize
	return buf[off : off+int(valueSize)]
}

// SetLeafCell writes a whole (key, value) cell at index i.
func SetLeafCell(buf []byte, i int, key uint32, value []byte, valueSize uint32) {
	SetLeafKey(buf, i, key, valueSize)
	copy(LeafValue(buf, i, valueSize), value)
}

// CopyLeafCell copies cell src of srcBuf into cell dst of dstBuf.
func CopyLeafCell(dstBuf []byte, dst int, srcBuf []byte, src int, valueSize uint32) {
	dstOff := leafCellOffset(dst, valueSize)
	srcOff := leafCellOffset(src, valueSize)
	n := int(LeafCellSize(valueSize))
	copy(dstBuf[dstOff:dstOff+n], srcBuf[srcOff:srcOff+n])
}

// --- internal accessors ---

func InternalNumKeys(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[offInternalNumKeys : offInternalNumKeys+4])
}

func SetInternalNumKeys(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[offInternalNumKeys:offInternalNumKeys+4], n)
}

func InternalRightChild(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[offInternalRightChild : offInternalRightChild+4])
}

func SetInternalRightChild(buf []byte, child uint32) {
	binary.LittleEndian.PutUint32(buf[offInternalRightChild:offInternalRightChild+4], child)
}

func internalCellOffset(i int) int {
	return internalHeaderSize + i*internalCellSize
}

// InternalChild returns the child page stored at cell i.
func InternalChild(buf []byte, i int) uint32 {
	off := internalCellOffset(i)
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

func SetInternalChild(buf []byte, i int, child uint32) {
	off := internalCellOffset(i)
	binary.LittleEndian.PutUint32(buf[off:off+4], child)
}

// InternalKey returns the separator key stored at cell i.
func InternalKey(buf []byte, i int) uint32 {
	off := internalCellOffset(i) + 4
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

func SetInternalKey(buf []byte, i int, key uint32) {
	off := internalCellOffset(i) + 4
	binary.LittleEndian.PutUint32(buf[off:off+4], key)
}

// SetInternalCell writes a whole (child, key) cell at index i.
func SetInternalCell(buf []byte, i int, child, key uint32) {
	SetInternalChild(buf, i, child)
	SetInternalKey(buf, i, key)
}

// CopyInternalCell copies cell src of srcBuf into cell dst of dstBuf.
func CopyInternalCell(dstBuf []byte, dst int, srcBuf []byte, src int) {
	SetInternalCell(dstBuf, dst, InternalChild(srcBuf, src), InternalKey(srcBuf, src))
}
