package btree

// Cursor is a snapshot position in the tree: a concrete (page, cell)
// pair, plus an end-of-table flag set only by scan entry points
// (TableStart/Advance). Cursors are single-use: any insert that may
// split a node invalidates sibling positions, so callers must re-issue
// Find after an insert rather than reusing an old cursor.
type Cursor struct {
	Page       uint32
	Cell       int
	EndOfTable bool
}
