package shell

import (
	"context"
	"strings"
	"testing"
)

func TestExecCapturesStdout(t *testing.T) {
	sh := New(t.TempDir())
	stdout, stderr, err := sh.Exec(context.Background(), "echo hello")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if stdout != "hello\n" {
		t.Fatalf("stdout = %q, want %q", stdout, "hello\n")
	}
	if stderr != "" {
		t.Fatalf("stderr = %q, want empty", stderr)
	}
}

func TestExecPersistsState(t *testing.T) {
	dir := t.TempDir()
	sh := New(dir)

	if _, _, err := sh.Exec(context.Background(), "mkdir sub && cd sub && export GREETING=hi"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !strings.HasSuffix(sh.Dir(), "sub") {
		t.Fatalf("cwd = %q, want .../sub", sh.Dir())
	}
	stdout, _, err := sh.Exec(context.Background(), "echo $GREETING")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if stdout != "hi\n" {
		t.Fatalf("stdout = %q, want %q", stdout, "hi\n")
	}
}

func TestExecParseError(t *testing.T) {
	sh := New(t.TempDir())
	if _, _, err := sh.Exec(context.Background(), "if then fi"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExitCode(t *testing.T) {
	sh := New(t.TempDir())
	_, _, err := sh.Exec(context.Background(), "exit 3")
	if got := ExitCode(err); got != 3 {
		t.Fatalf("ExitCode = %d, want 3", got)
	}
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("ExitCode(nil) = %d, want 0", got)
	}
}
