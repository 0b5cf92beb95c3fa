package btree

import "errors"

// ErrDuplicateKey is returned by Insert when the key already exists.
// The tree is left unchanged.
var ErrDuplicateKey = errors.New("btree: duplicate key")

// ErrTableFull is returned by Insert when a split needs a new page and
// the pager has reached its page budget.
var ErrTableFull = errors.New("btree: table full")

// ErrKeyNotFound names a failed strict lookup. Nothing in this package
// returns it: Find always returns an insertion point, whether or not
// the key is present, and callers compare the key at the cursor
// themselves.
var ErrKeyNotFound = errors.New("btree: key not found")
