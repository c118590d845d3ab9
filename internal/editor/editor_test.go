package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/xonecas/quill/internal/config"
	"github.com/xonecas/quill/internal/syntax"
	"github.com/xonecas/quill/internal/terminal"
)

func newTestEditor(t *testing.T, lines ...string) *Editor {
	t.Helper()
	cfg := config.Default()
	e := New(cfg, nil, syntax.Builtin())
	e.SetSize(80, 24)
	if len(lines) > 0 {
		e.buf.Load(lines)
	}
	return e
}

func press(e *Editor, keys ...terminal.Key) {
	for _, k := range keys {
		e.processKey(k)
	}
}

func typeString(e *Editor, s string) {
	for _, r := range s {
		e.processKey(terminal.Key{Kind: terminal.KeyRune, Rune: r})
	}
}

func key(kind terminal.KeyKind) terminal.Key { return terminal.Key{Kind: kind} }

func TestOpenMissingFile(t *testing.T) {
	e := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "nope.txt")
	if err := e.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if e.buf.RowCount() != 0 {
		t.Fatalf("row count = %d, want 0", e.buf.RowCount())
	}
	if !strings.Contains(e.msg, "new file") {
		t.Fatalf("message = %q, want new-file notice", e.msg)
	}
}

func TestOpenSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	content := "package main\n\nfunc main() {}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	e := newTestEditor(t)
	if err := e.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := e.buf.RowCount(); got != 3 {
		t.Fatalf("row count = %d, want 3", got)
	}
	if rs := e.buf.Rules(); rs == nil || rs.Name != "Go" {
		t.Fatalf("rules = %v, want Go", rs)
	}

	e.Save()
	back, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(back) != content {
		t.Fatalf("round trip = %q, want %q", back, content)
	}
	if e.buf.Dirty() {
		t.Fatal("buffer still dirty after save")
	}
}

func TestSavePromptsForName(t *testing.T) {
	dir := t.TempDir()
	e := newTestEditor(t)
	typeString(e, "hello")

	press(e, terminal.Ctrl('s'))
	if e.prompt == nil || e.prompt.kind != promptSave {
		t.Fatal("expected save prompt for unnamed buffer")
	}
	path := filepath.Join(dir, "out.txt")
	typeString(e, path)
	press(e, key(terminal.KeyEnter))

	back, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if string(back) != "hello\n" {
		t.Fatalf("saved %q, want %q", back, "hello\n")
	}
	if e.Filename() != path {
		t.Fatalf("filename = %q, want %q", e.Filename(), path)
	}
}

func TestInsertIntoEmptyBuffer(t *testing.T) {
	e := newTestEditor(t)
	typeString(e, "hi")
	press(e, key(terminal.KeyEnter))
	typeString(e, "there")

	if got := strings.Join(e.buf.Serialize(), "|"); got != "hi|there" {
		t.Fatalf("buffer = %q, want %q", got, "hi|there")
	}
	if line, col := e.Cursor(); line != 1 || col != 5 {
		t.Fatalf("cursor = (%d,%d), want (1,5)", line, col)
	}
}

func TestTabColumns(t *testing.T) {
	e := newTestEditor(t, "a\tb")
	e.SetCursor(0, 2)
	if rx := e.buf.CxToRx(0, 2); rx != 4 {
		t.Fatalf("rx = %d, want 4", rx)
	}

	e.SetCursor(0, 1)
	typeString(e, "X")
	if got := e.buf.Row(0).Text(); got != "aX\tb" {
		t.Fatalf("row = %q, want %q", got, "aX\tb")
	}
}

func TestMoveWrapsAtLineEnds(t *testing.T) {
	e := newTestEditor(t, "ab", "cd")

	e.SetCursor(0, 2)
	press(e, key(terminal.KeyRight))
	if line, col := e.Cursor(); line != 1 || col != 0 {
		t.Fatalf("right at EOL: cursor = (%d,%d), want (1,0)", line, col)
	}

	press(e, key(terminal.KeyLeft))
	if line, col := e.Cursor(); line != 0 || col != 2 {
		t.Fatalf("left at BOL: cursor = (%d,%d), want (0,2)", line, col)
	}

	e.SetCursor(1, 2)
	press(e, key(terminal.KeyRight))
	if line, col := e.Cursor(); line != 1 || col != 2 {
		t.Fatalf("right at EOF: cursor = (%d,%d), want (1,2)", line, col)
	}
}

func TestVerticalMovementKeepsColumnHint(t *testing.T) {
	e := newTestEditor(t, "a\tb", "x", "longer line")

	// Rendered column 4 on the tab row.
	e.SetCursor(0, 2)
	press(e, key(terminal.KeyDown))
	if line, col := e.Cursor(); line != 1 || col != 1 {
		t.Fatalf("down onto short row: cursor = (%d,%d), want (1,1)", line, col)
	}
	press(e, key(terminal.KeyDown))
	if line, col := e.Cursor(); line != 2 || col != 4 {
		t.Fatalf("down onto long row: cursor = (%d,%d), want (2,4)", line, col)
	}
	press(e, key(terminal.KeyUp), key(terminal.KeyUp))
	if line, col := e.Cursor(); line != 0 || col != 2 {
		t.Fatalf("back up: cursor = (%d,%d), want (0,2)", line, col)
	}
}

func TestHomeEndPage(t *testing.T) {
	e := newTestEditor(t, "hello world")
	e.SetCursor(0, 5)

	press(e, key(terminal.KeyHome))
	if _, col := e.Cursor(); col != 0 {
		t.Fatalf("home: col = %d, want 0", col)
	}
	press(e, key(terminal.KeyEnd))
	if _, col := e.Cursor(); col != 11 {
		t.Fatalf("end: col = %d, want 11", col)
	}
	press(e, key(terminal.KeyPageDown))
	if line, _ := e.Cursor(); line != 0 {
		t.Fatalf("page down on one row: line = %d, want 0", line)
	}
}

func TestWordMovement(t *testing.T) {
	e := newTestEditor(t, "foo bar_baz  qux")

	press(e, key(terminal.KeyCtrlRight))
	if _, col := e.Cursor(); col != 3 {
		t.Fatalf("word right: col = %d, want 3", col)
	}
	press(e, key(terminal.KeyCtrlRight))
	if _, col := e.Cursor(); col != 11 {
		t.Fatalf("word right: col = %d, want 11", col)
	}
	press(e, key(terminal.KeyCtrlLeft))
	if _, col := e.Cursor(); col != 4 {
		t.Fatalf("word left: col = %d, want 4", col)
	}
}

func TestBackspaceMergesRows(t *testing.T) {
	e := newTestEditor(t, "ab", "cd")
	e.SetCursor(1, 0)
	press(e, key(terminal.KeyBackspace))
	if got := e.buf.Row(0).Text(); got != "abcd" {
		t.Fatalf("row = %q, want %q", got, "abcd")
	}
	if line, col := e.Cursor(); line != 0 || col != 2 {
		t.Fatalf("cursor = (%d,%d), want (0,2)", line, col)
	}
}

func TestDeleteForwardAtLineEnd(t *testing.T) {
	e := newTestEditor(t, "ab", "cd")
	e.SetCursor(0, 2)
	press(e, key(terminal.KeyDelete))
	if got := e.buf.Row(0).Text(); got != "abcd" {
		t.Fatalf("row = %q, want %q", got, "abcd")
	}
	if line, col := e.Cursor(); line != 0 || col != 2 {
		t.Fatalf("cursor = (%d,%d), want (0,2)", line, col)
	}
}

func TestQuitNeedsConfirmationWhenDirty(t *testing.T) {
	e := newTestEditor(t)
	typeString(e, "x")

	press(e, terminal.Ctrl('q'))
	if e.quitting {
		t.Fatal("quit after one press on dirty buffer")
	}
	if !strings.Contains(e.msg, "WARNING") {
		t.Fatalf("message = %q, want warning", e.msg)
	}
	press(e, terminal.Ctrl('q'))
	if !e.quitting {
		t.Fatal("not quitting after full confirmation count")
	}
}

func TestQuitCounterResetsOnOtherKey(t *testing.T) {
	e := newTestEditor(t)
	typeString(e, "x")

	press(e, terminal.Ctrl('q'))
	press(e, key(terminal.KeyRight)) // any key resets the count
	press(e, terminal.Ctrl('q'))
	if e.quitting {
		t.Fatal("quit without a fresh confirmation sequence")
	}
	press(e, terminal.Ctrl('q'))
	if !e.quitting {
		t.Fatal("not quitting after renewed confirmation")
	}
}

func TestQuitCleanBufferIsImmediate(t *testing.T) {
	e := newTestEditor(t, "saved")
	e.buf.MarkSaved()
	press(e, terminal.Ctrl('q'))
	if !e.quitting {
		t.Fatal("clean buffer should quit on first Ctrl-Q")
	}
}

func TestFindMovesToMatch(t *testing.T) {
	e := newTestEditor(t, "alpha", "beta", "gamma beta")

	press(e, terminal.Ctrl('f'))
	typeString(e, "beta")
	if line, col := e.Cursor(); line != 1 || col != 0 {
		t.Fatalf("first match: cursor = (%d,%d), want (1,0)", line, col)
	}

	press(e, key(terminal.KeyRight)) // step forward
	if line, col := e.Cursor(); line != 2 || col != 6 {
		t.Fatalf("next match: cursor = (%d,%d), want (2,6)", line, col)
	}

	press(e, key(terminal.KeyRight)) // wraps back to the first
	if line, _ := e.Cursor(); line != 1 {
		t.Fatalf("wrapped match: line = %d, want 1", line)
	}

	press(e, key(terminal.KeyEnter))
	if e.prompt != nil {
		t.Fatal("prompt still open after enter")
	}
	if line, _ := e.Cursor(); line != 1 {
		t.Fatalf("confirm moved cursor: line = %d, want 1", line)
	}
}

func TestFindCancelRestoresPosition(t *testing.T) {
	e := newTestEditor(t, "alpha", "beta")
	e.SetCursor(0, 3)

	press(e, terminal.Ctrl('f'))
	typeString(e, "beta")
	if line, _ := e.Cursor(); line != 1 {
		t.Fatalf("search did not move cursor, line = %d", line)
	}
	press(e, key(terminal.KeyEsc))
	if line, col := e.Cursor(); line != 0 || col != 3 {
		t.Fatalf("cancel: cursor = (%d,%d), want (0,3)", line, col)
	}
}

func TestGoTo(t *testing.T) {
	e := newTestEditor(t, "one", "two", "three")

	tests := []struct {
		input     string
		line, col int
	}{
		{"2", 1, 0},
		{"3:4", 2, 3},
		{"99:99", 2, 5}, // clamped
	}
	for _, tt := range tests {
		press(e, terminal.Ctrl('g'))
		typeString(e, tt.input)
		press(e, key(terminal.KeyEnter))
		if line, col := e.Cursor(); line != tt.line || col != tt.col {
			t.Errorf("goto %q: cursor = (%d,%d), want (%d,%d)", tt.input, line, col, tt.line, tt.col)
		}
	}

	press(e, terminal.Ctrl('g'))
	typeString(e, "abc")
	press(e, key(terminal.KeyEnter))
	if !strings.Contains(e.msg, "invalid") {
		t.Fatalf("message = %q, want invalid-position error", e.msg)
	}
}

func TestLineClipboard(t *testing.T) {
	e := newTestEditor(t, "first", "second")

	press(e, terminal.Ctrl('c')) // copy "first"
	e.SetCursor(1, 0)
	press(e, terminal.Ctrl('v'))
	if got := strings.Join(e.buf.Serialize(), "|"); got != "first|first|second" {
		t.Fatalf("after copy+paste: %q", got)
	}

	press(e, terminal.Ctrl('x')) // cut the pasted row
	if got := strings.Join(e.buf.Serialize(), "|"); got != "first|second" {
		t.Fatalf("after cut: %q", got)
	}
	press(e, terminal.Ctrl('v'))
	if got := strings.Join(e.buf.Serialize(), "|"); got != "first|first|second" {
		t.Fatalf("after paste of cut row: %q", got)
	}
}

func TestDuplicateAndRemoveLine(t *testing.T) {
	e := newTestEditor(t, "aa", "bb")

	press(e, terminal.Ctrl('d'))
	if got := strings.Join(e.buf.Serialize(), "|"); got != "aa|aa|bb" {
		t.Fatalf("after duplicate: %q", got)
	}

	press(e, terminal.Ctrl('r'))
	press(e, terminal.Ctrl('r'))
	if got := strings.Join(e.buf.Serialize(), "|"); got != "bb" {
		t.Fatalf("after removals: %q", got)
	}
	if line, _ := e.Cursor(); line != 0 {
		t.Fatalf("cursor line = %d, want 0", line)
	}
}

func TestExecuteInsertsOutput(t *testing.T) {
	e := newTestEditor(t, "start")
	e.SetCursor(0, 5)

	var gotCmd string
	e.execCommand = func(cmd string) (string, error) {
		gotCmd = cmd
		return "one\ntwo\n", nil
	}

	press(e, terminal.Ctrl('e'))
	typeString(e, "seq 2")
	press(e, key(terminal.KeyEnter))

	if gotCmd != "seq 2" {
		t.Fatalf("command = %q, want %q", gotCmd, "seq 2")
	}
	if got := strings.Join(e.buf.Serialize(), "|"); got != "startone|two" {
		t.Fatalf("buffer = %q, want %q", got, "startone|two")
	}
}

func TestSplitJoinLines(t *testing.T) {
	tests := []struct {
		data  string
		lines []string
	}{
		{"", nil},
		{"a\n", []string{"a"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\nb", []string{"a", "b"}}, // no final newline; save adds one
	}
	for _, tt := range tests {
		got := splitLines(tt.data)
		if len(got) != len(tt.lines) {
			t.Errorf("splitLines(%q) = %v, want %v", tt.data, got, tt.lines)
			continue
		}
		for i := range got {
			if got[i] != tt.lines[i] {
				t.Errorf("splitLines(%q)[%d] = %q, want %q", tt.data, i, got[i], tt.lines[i])
			}
		}
	}
	if got := joinLines([]string{"a", "b"}); got != "a\nb\n" {
		t.Fatalf("joinLines = %q, want %q", got, "a\nb\n")
	}
}

func TestExecuteKeepsShellState(t *testing.T) {
	e := newTestEditor(t)

	if _, err := e.runShellCommand("export QUILL_T=42"); err != nil {
		t.Fatalf("export: %v", err)
	}
	out, err := e.runShellCommand("echo $QUILL_T")
	if err != nil {
		t.Fatalf("echo: %v", err)
	}
	if out != "42\n" {
		t.Fatalf("output = %q, want %q; exported state lost between commands", out, "42\n")
	}
}

func TestExecuteReportsExitCode(t *testing.T) {
	e := newTestEditor(t)
	_, err := e.runShellCommand("echo oops >&2; exit 3")
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if got := err.Error(); !strings.Contains(got, "exit 3") || !strings.Contains(got, "oops") {
		t.Fatalf("error = %q, want exit code and stderr line", got)
	}
}

func TestSignalQuitsDespiteUnsavedChanges(t *testing.T) {
	e := newTestEditor(t)
	typeString(e, "unsaved")

	if err := e.handleEvent(terminal.SignalEvent{Signal: syscall.SIGTERM}); err != nil {
		t.Fatalf("handleEvent: %v", err)
	}
	if !e.quitting {
		t.Fatal("termination signal did not stop the event loop")
	}
}

func TestHandleEventResizeAndError(t *testing.T) {
	e := newTestEditor(t)

	if err := e.handleEvent(terminal.ResizeEvent{Cols: 40, Rows: 12}); err != nil {
		t.Fatalf("handleEvent: %v", err)
	}
	if e.screenCols != 40 || e.screenRows != 10 {
		t.Fatalf("size = %dx%d, want 40x10", e.screenCols, e.screenRows)
	}

	wantErr := errors.New("read key: boom")
	if err := e.handleEvent(terminal.ErrorEvent{Err: wantErr}); err != wantErr {
		t.Fatalf("handleEvent error = %v, want %v", err, wantErr)
	}
}
