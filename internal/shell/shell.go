// Package shell runs commands through an in-process POSIX shell, so
// command output can be captured and inserted without spawning /bin/sh.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Shell is an in-process POSIX shell with persistent cwd/env across calls,
// so `cd` and exported variables carry over to the next command.
type Shell struct {
	mu  sync.Mutex
	cwd string
	env []string
}

// New creates a Shell working in cwd; an empty cwd means the process's
// current directory.
func New(cwd string) *Shell {
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	return &Shell{
		cwd: cwd,
		env: os.Environ(),
	}
}

// Exec runs a command synchronously, returning stdout, stderr, and any error.
func (s *Shell) Exec(ctx context.Context, command string) (stdout, stderr string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var outBuf, errBuf bytes.Buffer
	var runner *interp.Runner
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command execution panic: %v", r)
		}
		if runner != nil {
			s.updateFromRunner(runner)
		}
		stdout, stderr = outBuf.String(), errBuf.String()
	}()

	parsed, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", "", fmt.Errorf("could not parse command: %w", err)
	}

	runner, err = interp.New(
		interp.StdIO(nil, &outBuf, &errBuf),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(s.env...)),
		interp.Dir(s.cwd),
	)
	if err != nil {
		return "", "", fmt.Errorf("could not create interpreter: %w", err)
	}

	err = runner.Run(ctx, parsed)
	return
}

// Dir returns the current working directory.
func (s *Shell) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

// updateFromRunner persists cwd and exported env vars after execution.
func (s *Shell) updateFromRunner(runner *interp.Runner) {
	s.cwd = runner.Dir
	s.env = s.env[:0]
	runner.Env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			s.env = append(s.env, name+"="+vr.Str)
		}
		return true
	})
}

// ExitCode extracts the exit code from an interpreter error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr interp.ExitStatus
	if errors.As(err, &exitErr) {
		return int(exitErr)
	}
	return 1
}
