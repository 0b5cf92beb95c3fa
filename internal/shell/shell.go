// Package shell implements the interactive REPL: a line reader, a
// tiny statement grammar (insert/select), and the meta-commands that
// control the engine rather than its data.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/winterrdog/sqlyte-db/internal/engine"
	"github.com/winterrdog/sqlyte-db/internal/row"
	"go.uber.org/zap"
)

const prompt = "db > "

// Shell owns the line reader and the open engine for one session.
type Shell struct {
	rl  *readline.Instance
	eng *engine.Engine
	log *zap.Logger
	out io.Writer
}

// New wraps eng in an interactive shell, writing output to out.
func New(eng *engine.Engine, out io.Writer, log *zap.Logger) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		Stdout:      out,
		HistoryFile: "",
	})
	if err != nil {
		return nil, fmt.Errorf("shell: init line reader: %w", err)
	}
	return &Shell{rl: rl, eng: eng, log: log, out: out}, nil
}

// Close releases the line reader. It does not close the engine.
func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run reads and executes statements until .exit or EOF, returning the
// exit code the process should use: 0 on a clean exit, non-zero on a
// fatal engine error.
func (s *Shell) Run() int {
	for {
		line, err := s.rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return 0
		}
		if err != nil {
			fmt.Fprintf(s.out, "error reading input: %v\n", err)
			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			switch s.execMeta(line) {
			case metaExit:
				return 0
			case metaFatal:
				return 1
			case metaUnrecognized:
				fmt.Fprintf(s.out, "unrecognized command %q\n", line)
			}
			continue
		}

		if err := s.execStatement(line); err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		fmt.Fprintln(s.out, "executed.")
	}
}

// execStatement parses and runs one insert/select statement.
func (s *Shell) execStatement(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("unrecognized keyword at start of %q", line)
	}

	switch strings.ToLower(fields[0]) {
	case "insert":
		return s.execInsert(fields[1:])
	case "select":
		return s.execSelect()
	default:
		return fmt.Errorf("unrecognized keyword at start of %q", line)
	}
}

func (s *Shell) execInsert(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("syntax error: expected \"insert id username email\"")
	}
	idArg, username, email := args[0], args[1], args[2]

	id, err := strconv.Atoi(idArg)
	if err != nil {
		return fmt.Errorf("invalid id %q", idArg)
	}
	if id < 0 {
		return errors.New("id must be non-negative")
	}
	if err := row.Validate(username, email); err != nil {
		return err
	}

	r := row.Row{ID: uint32(id), Username: username, Email: email}
	if err := s.eng.Insert(r); err != nil {
		switch {
		case errors.Is(err, engine.ErrDuplicateKey):
			return errors.New("error: duplicate key")
		case errors.Is(err, engine.ErrTableFull):
			return errors.New("error: table full")
		default:
			return err
		}
	}
	return nil
}

func (s *Shell) execSelect() error {
	return s.eng.Scan(func(r row.Row) error {
		_, err := fmt.Fprintf(s.out, "(%d, %s, %s)\n", r.ID, r.Username, r.Email)
		return err
	})
}
