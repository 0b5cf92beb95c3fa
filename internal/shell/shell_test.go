package shell

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/winterrdog/sqlyte-db/internal/engine"
	"go.uber.org/zap"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer, func()) {
	t.Helper()
	f, err := os.CreateTemp("", "shell-test-*.db")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	path := f.Name()
	f.Close()

	eng, err := engine.Open(path, zap.NewNop())
	if err != nil {
		os.Remove(path)
		t.Fatalf("engine.Open() error = %v", err)
	}

	var buf bytes.Buffer
	// Shell.Run drives the readline instance; these tests exercise the
	// statement/meta dispatch directly, so no *readline.Instance is
	// needed here.
	s := &Shell{eng: eng, log: zap.NewNop(), out: &buf}

	cleanup := func() { os.Remove(path) }
	return s, &buf, cleanup
}

func TestExecInsertAndSelect(t *testing.T) {
	s, buf, cleanup := newTestShell(t)
	defer cleanup()

	if err := s.execStatement("insert 1 alice alice@example.com"); err != nil {
		t.Fatalf("execStatement(insert) error = %v", err)
	}
	if err := s.execStatement("select"); err != nil {
		t.Fatalf("execStatement(select) error = %v", err)
	}

	if got := buf.String(); !strings.Contains(got, "(1, alice, alice@example.com)") {
		t.Errorf("select output = %q, missing inserted row", got)
	}
}

func TestExecInsertRejectsNegativeID(t *testing.T) {
	s, _, cleanup := newTestShell(t)
	defer cleanup()

	err := s.execStatement("insert -1 alice alice@example.com")
	if err == nil || !strings.Contains(err.Error(), "non-negative") {
		t.Fatalf("execStatement(insert -1) error = %v, want non-negative message", err)
	}
}

func TestExecInsertRejectsOverlongString(t *testing.T) {
	s, _, cleanup := newTestShell(t)
	defer cleanup()

	long := strings.Repeat("a", 300)
	err := s.execStatement("insert 1 " + long + " alice@example.com")
	if err == nil || !strings.Contains(err.Error(), "too long") {
		t.Fatalf("execStatement(insert) with overlong username error = %v, want too long message", err)
	}
}

func TestExecInsertDuplicateKey(t *testing.T) {
	s, _, cleanup := newTestShell(t)
	defer cleanup()

	if err := s.execStatement("insert 1 alice alice@example.com"); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	err := s.execStatement("insert 1 bob bob@example.com")
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("duplicate insert error = %v, want duplicate key message", err)
	}
}

func TestExecStatementUnrecognized(t *testing.T) {
	s, _, cleanup := newTestShell(t)
	defer cleanup()

	err := s.execStatement("delete 1")
	if err == nil || !strings.Contains(err.Error(), "unrecognized keyword") {
		t.Fatalf("execStatement(delete) error = %v, want unrecognized keyword message", err)
	}
}

func TestMetaConstants(t *testing.T) {
	s, buf, cleanup := newTestShell(t)
	defer cleanup()

	if got := s.execMeta(".constants"); got != metaHandled {
		t.Fatalf("execMeta(.constants) = %v, want metaHandled", got)
	}
	if !strings.Contains(buf.String(), "ROW_SIZE: 293") {
		t.Errorf("constants output = %q, missing ROW_SIZE", buf.String())
	}
}

func TestMetaBTree(t *testing.T) {
	s, buf, cleanup := newTestShell(t)
	defer cleanup()

	if err := s.execStatement("insert 1 alice alice@example.com"); err != nil {
		t.Fatalf("execStatement(insert) error = %v", err)
	}
	if got := s.execMeta(".btree"); got != metaHandled {
		t.Fatalf("execMeta(.btree) = %v, want metaHandled", got)
	}
	if !strings.Contains(buf.String(), "leaf (size 1)") {
		t.Errorf(".btree output = %q, want it to mention leaf (size 1)", buf.String())
	}
}

func TestMetaUnrecognized(t *testing.T) {
	s, _, cleanup := newTestShell(t)
	defer cleanup()

	if got := s.execMeta(".bogus"); got != metaUnrecognized {
		t.Fatalf("execMeta(.bogus) = %v, want metaUnrecognized", got)
	}
}

func TestMetaExitClosesEngine(t *testing.T) {
	s, _, cleanup := newTestShell(t)
	defer cleanup()

	if got := s.execMeta(".exit"); got != metaExit {
		t.Fatalf("execMeta(.exit) = %v, want metaExit", got)
	}
}
