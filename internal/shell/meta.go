package shell

import (
	"fmt"

	"github.com/winterrdog/sqlyte-db/internal/btree"
)

type metaResult int

const (
	metaHandled metaResult = iota
	metaExit
	metaFatal
	metaUnrecognized
)

// execMeta runs a "." command. The caller is responsible for stopping
// the REPL loop on metaExit/metaFatal.
func (s *Shell) execMeta(cmd string) metaResult {
	switch cmd {
	case ".exit":
		if err := s.eng.Close(); err != nil {
			fmt.Fprintln(s.out, err)
			return metaFatal
		}
		return metaExit
	case ".btree":
		s.printBTree()
		return metaHandled
	case ".constants":
		s.printConstants()
		return metaHandled
	case ".help":
		s.printHelp()
		return metaHandled
	default:
		return metaUnrecognized
	}
}

// printBTree walks the tree in pre-order, printing the same shape the
// reference tutorial's debug dump does: "leaf (size N)" / "internal
// (size N)", indented by depth, with (child, key) pairs for internal
// nodes.
func (s *Shell) printBTree() {
	fmt.Fprintln(s.out, "Tree:")
	_ = s.eng.Walk(func(n btree.NodeInfo) {
		fmt.Fprintln(s.out, n.String())
	})
}

func (s *Shell) printConstants() {
	c := s.eng.Constants()
	fmt.Fprintln(s.out, "Constants:")
	fmt.Fprintf(s.out, "ROW_SIZE: %d\n", c.RowSize)
	fmt.Fprintf(s.out, "PAGE_SIZE: %d\n", c.PageSize)
	fmt.Fprintf(s.out, "LEAF_NODE_MAX_CELLS: %d\n", c.LeafMaxCells)
	fmt.Fprintf(s.out, "INTERNAL_NODE_MAX_KEYS: %d\n", c.InternalMaxKeys)
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Usage:")
	fmt.Fprintln(s.out, "  insert ID USERNAME EMAIL   insert a row")
	fmt.Fprintln(s.out, "  select                     print every row in id order")
	fmt.Fprintln(s.out, "  .exit                      close the database and exit")
	fmt.Fprintln(s.out, "  .btree                     print the tree structure")
	fmt.Fprintln(s.out, "  .constants                 print compile-time sizes")
	fmt.Fprintln(s.out, "  .help                      print this message")
}
