package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/xonecas/quill/internal/config"
	"github.com/xonecas/quill/internal/editor"
	"github.com/xonecas/quill/internal/highlight"
	"github.com/xonecas/quill/internal/store"
	"github.com/xonecas/quill/internal/syntax"
	"github.com/xonecas/quill/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	sets, dataDir := loadRuleSets()
	positions := openPositions(dataDir)
	defer positions.Close()

	term, err := terminal.Open()
	if err != nil {
		return err
	}
	defer func() {
		if err := term.Restore(); err != nil {
			zlog.Error().Err(err).Msg("terminal restore failed")
		}
	}()

	ed := editor.New(cfg, term, sets)
	if len(os.Args) > 1 {
		path := os.Args[1]
		if err := ed.Open(path); err != nil {
			return err
		}
		if line, col, ok := positions.Get(path); ok {
			ed.SetCursor(line, col)
		}
	}

	if err := ed.Run(); err != nil {
		return err
	}
	if name := ed.Filename(); name != "" {
		line, col := ed.Cursor()
		positions.Set(name, line, col)
	}
	return nil
}

// setupLogging sends zerolog output to the file named by QUILL_LOG, or
// discards it. Stderr is not an option: the terminal is in raw mode.
func setupLogging() (func(), error) {
	path := os.Getenv("QUILL_LOG")
	if path == "" {
		zlog.Logger = zerolog.Nop()
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	zlog.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }, nil
}

// loadRuleSets returns user rule sets from the data directory (taking
// precedence) followed by the built-in ones, plus the data directory
// for other callers. Load failures degrade to builtins only.
func loadRuleSets() ([]*highlight.RuleSet, string) {
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		zlog.Warn().Err(err).Msg("no data directory; using built-in rule sets")
		return syntax.Builtin(), ""
	}
	user, err := syntax.LoadDir(filepath.Join(dataDir, "syntax"))
	if err != nil {
		zlog.Warn().Err(err).Msg("loading user rule sets failed")
	}
	return append(user, syntax.Builtin()...), dataDir
}

// openPositions opens the cursor position store; a nil store (on any
// failure) behaves as an always-miss store.
func openPositions(dataDir string) *store.Store {
	if dataDir == "" {
		return nil
	}
	s, err := store.Open(filepath.Join(dataDir, "quill.db"))
	if err != nil {
		zlog.Warn().Err(err).Msg("cursor position store unavailable")
		return nil
	}
	return s
}
