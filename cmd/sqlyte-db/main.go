// Command sqlyte-db opens the database file named on the command line
// and starts an interactive shell against it.
package main

import (
	"fmt"
	"os"

	"github.com/winterrdog/sqlyte-db/internal/engine"
	"github.com/winterrdog/sqlyte-db/internal/shell"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: sqlyte-db FILENAME")
		return 1
	}
	path := os.Args[1]

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	eng, err := engine.Open(path, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %q: %v\n", path, err)
		return 1
	}

	sh, err := shell.New(eng, os.Stdout, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start shell: %v\n", err)
		eng.Close()
		return 1
	}
	defer sh.Close()

	return sh.Run()
}
