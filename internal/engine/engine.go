// Package engine wires the pager and the btree together behind the
// four operations the shell actually needs: open a database file,
// insert a row, scan every row in key order, and close.
package engine

import (
	"errors"
	"fmt"

	"github.com/winterrdog/sqlyte-db/internal/btree"
	"github.com/winterrdog/sqlyte-db/internal/pager"
	"github.com/winterrdog/sqlyte-db/internal/row"
	"go.uber.org/zap"
)

// ErrDuplicateKey is returned by Insert when the id already exists.
var ErrDuplicateKey = btree.ErrDuplicateKey

// ErrTableFull is returned by Insert when the database has reached
// its page budget.
var ErrTableFull = btree.ErrTableFull

// Engine is the open database: a pager backing one file, and the
// btree of rows keyed by id.
type Engine struct {
	pager *pager.Pager
	tree  *btree.Tree
	log   *zap.Logger
}

// Open opens (or creates) the database file at path.
func Open(path string, log *zap.Logger) (*Engine, error) {
	p, err := pager.Open(path)
	if err != nil {
		if errors.Is(err, pager.ErrCorruptFile) {
			log.Error("refusing to open corrupt database file", zap.String("path", path), zap.Error(err))
		}
		return nil, fmt.Errorf("engine: open %q: %w", path, err)
	}
	t, err := btree.Open(p, row.Size)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("engine: init tree: %w", err)
	}
	return &Engine{pager: p, tree: t, log: log}, nil
}

// Insert adds r to the table, keyed by r.ID.
func (e *Engine) Insert(r row.Row) error {
	if err := e.tree.Insert(r.ID, row.Serialize(r)); err != nil {
		if errors.Is(err, btree.ErrTableFull) {
			e.log.Error("table full", zap.Uint32("id", r.ID))
		}
		return err
	}
	return nil
}

// Scan calls visit once per row, in ascending id order, stopping early
// if visit returns an error.
func (e *Engine) Scan(visit func(row.Row) error) error {
	cur, err := e.tree.TableStart()
	if err != nil {
		return fmt.Errorf("engine: scan: %w", err)
	}
	for !cur.EndOfTable {
		buf, err := e.tree.Value(cur)
		if err != nil {
			return fmt.Errorf("engine: scan: %w", err)
		}
		r, err := row.Deserialize(buf)
		if err != nil {
			return fmt.Errorf("engine: scan: %w", err)
		}
		if err := visit(r); err != nil {
			return err
		}
		if err := e.tree.Advance(&cur); err != nil {
			return fmt.Errorf("engine: scan: %w", err)
		}
	}
	return nil
}

// Walk exposes the tree's debug dump for the .btree meta-command.
func (e *Engine) Walk(visit func(btree.NodeInfo)) error {
	return e.tree.Walk(visit)
}

// Constants reports the compile-time sizes the .constants meta-command
// prints.
type Constants struct {
	PageSize        uint32
	RowSize         uint32
	LeafMaxCells    int
	InternalMaxKeys int
}

// Constants returns the engine's fixed sizing, for the .constants
// meta-command.
func (e *Engine) Constants() Constants {
	return Constants{
		PageSize:        pager.PageSize,
		RowSize:         row.Size,
		LeafMaxCells:    e.tree.LeafMaxCells(),
		InternalMaxKeys: btree.InternalMaxKeys,
	}
}

// Close flushes every materialized page and closes the underlying
// file.
func (e *Engine) Close() error {
	if err := e.pager.Close(); err != nil {
		e.log.Error("close failed", zap.Error(err))
		return fmt.Errorf("engine: close: %w", err)
	}
	return nil
}
