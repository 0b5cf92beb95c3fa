package btree

import "testing"

const testValueSize = 8

func sampleValue(n byte) []byte {
	v := make([]byte, testValueSize)
	for i := range v {
		v[i] = n
	}
	return v
}

func TestInitLeafDefaults(t *testing.T) {
	buf := make([]byte, 4096)
	InitLeaf(buf)

	if Type(buf) != NodeLeaf {
		t.Fatalf("Type() = %v, want NodeLeaf", Type(buf))
	}
	if IsRoot(buf) {
		t.Errorf("IsRoot() = true on fresh leaf, want false")
	}
	if LeafNumCells(buf) != 0 {
		t.Errorf("LeafNumCells() = %d, want 0", LeafNumCells(buf))
	}
	if LeafNextLeaf(buf) != NoNextLeaf {
		t.Errorf("LeafNextLeaf() = %d, want %d", LeafNextLeaf(buf), NoNextLeaf)
	}
}

func TestInitInternalDefaults(t *testing.T) {
	buf := make([]byte, 4096)
	InitInternal(buf)

	if Type(buf) != NodeInternal {
		t.Fatalf("Type() = %v, want NodeInternal", Type(buf))
	}
	if InternalNumKeys(buf) != 0 {
		t.Errorf("InternalNumKeys() = %d, want 0", InternalNumKeys(buf))
	}
	if InternalRightChild(buf) != InvalidPage {
		t.Errorf("InternalRightChild() = %d, want %d", InternalRightChild(buf), InvalidPage)
	}
}

func TestLeafCellRoundTrip(t *testing.T) {
	buf := make([]byte, 4096)
	InitLeaf(buf)

	SetLeafCell(buf, 0, 42, sampleValue(0xAB), testValueSize)
	SetLeafNumCells(buf, 1)

	if got := LeafKey(buf, 0, testValueSize); got != 42 {
		t.Errorf("LeafKey(0) = %d, want 42", got)
	}
	val := LeafValue(buf, 0, testValueSize)
	for i, b := range val {
		if b != 0xAB {
			t.Fatalf("LeafValue(0)[%d] = %x, want 0xAB", i, b)
		}
	}
}

func TestCopyLeafCell(t *testing.T) {
	buf := make([]byte, 4096)
	InitLeaf(buf)
	SetLeafCell(buf, 0, 1, sampleValue(1), testValueSize)
	SetLeafCell(buf, 1, 2, sampleValue(2), testValueSize)

	CopyLeafCell(buf, 2, buf, 0, testValueSize)

	if got := LeafKey(buf, 2, testValueSize); got != 1 {
		t.Errorf("after copy, LeafKey(2) = %d, want 1", got)
	}
	if got := LeafValue(buf, 2, testValueSize)[0]; got != 1 {
		t.Errorf("after copy, LeafValue(2)[0] = %d, want 1", got)
	}
}

func TestInternalCellRoundTrip(t *testing.T) {
	buf := make([]byte, 4096)
	InitInternal(buf)

	SetInternalCell(buf, 0, 7, 100)
	SetInternalNumKeys(buf, 1)
	SetInternalRightChild(buf, 9)

	if got := InternalChild(buf, 0); got != 7 {
		t.Errorf("InternalChild(0) = %d, want 7", got)
	}
	if got := InternalKey(buf, 0); got != 100 {
		t.Errorf("InternalKey(0) = %d, want 100", got)
	}
	if got := InternalRightChild(buf); got != 9 {
		t.Errorf("InternalRightChild() = %d, want 9", got)
	}
}

func TestLeafMaxCellsForRowValue(t *testing.T) {
	// The shell packs a row into a 293-byte value; the reference
	// tutorial this schema is drawn from gets exactly 13 cells per
	// leaf at that width and page size.
	const rowValueSize = 293
	if got := LeafMaxCells(rowValueSize); got != 13 {
		t.Errorf("LeafMaxCells(%d) = %d, want 13", rowValueSize, got)
	}
}

func TestParentPageRoundTrip(t *testing.T) {
	buf := make([]byte, 4096)
	InitLeaf(buf)
	SetParentPage(buf, 5)
	if got := ParentPage(buf); got != 5 {
		t.Errorf("ParentPage() = %d, want 5", got)
	}
	SetIsRoot(buf, true)
	if !IsRoot(buf) {
		t.Errorf("IsRoot() = false after SetIsRoot(true)")
	}
}
