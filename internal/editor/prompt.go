package editor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/quill/internal/shell"
	"github.com/xonecas/quill/internal/terminal"
)

type promptKind uint8

const (
	promptFind promptKind = iota
	promptGoTo
	promptSave
	promptExec
)

// promptState is a one-line input field drawn over the message bar.
type promptState struct {
	kind  promptKind
	label string
	input []rune
}

// findState tracks the incremental search: the row of the last hit for
// stepping, and the cursor/viewport to restore on cancel.
type findState struct {
	query     string
	lastMatch int
	forward   bool

	savedCx, savedCy         int
	savedRowOff, savedColOff int
}

func (e *Editor) startPrompt(kind promptKind, label string) {
	e.prompt = &promptState{kind: kind, label: label}
}

func (e *Editor) startFind() {
	e.find = findState{
		lastMatch:   -1,
		forward:     true,
		savedCx:     e.cx,
		savedCy:     e.cy,
		savedRowOff: e.rowOff,
		savedColOff: e.colOff,
	}
	e.startPrompt(promptFind, "Find (arrows to step, enter to stay): ")
}

// promptKey handles one key while a prompt is open.
func (e *Editor) promptKey(k terminal.Key) {
	p := e.prompt
	switch k.Kind {
	case terminal.KeyEsc:
		e.closePrompt()
		if p.kind == promptFind {
			// Cancel restores where the search started.
			e.cy, e.cx = e.find.savedCy, e.find.savedCx
			e.rowOff, e.colOff = e.find.savedRowOff, e.find.savedColOff
			e.hintRx = e.buf.CxToRx(e.cy, e.cx)
		}
		return

	case terminal.KeyEnter:
		input := string(p.input)
		e.closePrompt()
		switch p.kind {
		case promptFind:
			// Confirm leaves the cursor on the match.
		case promptGoTo:
			e.goTo(input)
		case promptSave:
			if input != "" {
				e.saveTo(input)
			}
		case promptExec:
			e.executeCommand(input)
		}
		return

	case terminal.KeyBackspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
		if p.kind == promptFind {
			e.findStep(true)
		}
		return

	case terminal.KeyRight, terminal.KeyDown:
		if p.kind == promptFind {
			e.find.forward = true
			e.findStep(false)
		}
		return

	case terminal.KeyLeft, terminal.KeyUp:
		if p.kind == promptFind {
			e.find.forward = false
			e.findStep(false)
		}
		return

	case terminal.KeyRune:
		p.input = append(p.input, k.Rune)
		if p.kind == promptFind {
			e.findStep(true)
		}
		return
	}
	// Other keys are ignored while a prompt is open.
}

func (e *Editor) closePrompt() {
	e.prompt = nil
	e.msg = ""
	e.find.query = ""
}

// ---------------------------------------------------------------------------
// Incremental search
// ---------------------------------------------------------------------------

// findStep searches for the current query. reset restarts from the top;
// otherwise the search steps from the last hit in the chosen direction,
// wrapping around the buffer.
func (e *Editor) findStep(reset bool) {
	e.find.query = string(e.prompt.input)
	if reset {
		e.find.lastMatch = -1
		e.find.forward = true
	}
	if e.find.query == "" || e.buf.RowCount() == 0 {
		return
	}
	e.buf.EnsureHighlighted()

	dir := 1
	if !e.find.forward && e.find.lastMatch != -1 {
		dir = -1
	}
	n := e.buf.RowCount()
	current := e.find.lastMatch
	for i := 0; i < n; i++ {
		current += dir
		if current < 0 {
			current = n - 1
		} else if current >= n {
			current = 0
		}
		render := e.buf.Row(current).Render()
		idx := strings.Index(render, e.find.query)
		if idx < 0 {
			continue
		}
		e.find.lastMatch = current
		e.cy = current
		rx := utf8.RuneCountInString(render[:idx])
		e.setCx(e.buf.RxToCx(current, rx))
		// Scroll so the match row ends up at the top of the window.
		e.rowOff = e.buf.RowCount()
		return
	}
}

// ---------------------------------------------------------------------------
// Go to line
// ---------------------------------------------------------------------------

// goTo jumps to a 1-based "line" or "line:col" position, clamped to the
// document.
func (e *Editor) goTo(input string) {
	linePart, colPart, hasCol := strings.Cut(strings.TrimSpace(input), ":")
	line, err := strconv.Atoi(linePart)
	if err != nil || line < 1 {
		e.setMessage("invalid position %q", input)
		return
	}
	col := 1
	if hasCol {
		col, err = strconv.Atoi(colPart)
		if err != nil || col < 1 {
			e.setMessage("invalid position %q", input)
			return
		}
	}
	e.cy = clamp(line-1, 0, maxCy(e.buf))
	e.setCx(clamp(col-1, 0, e.rowLen(e.cy)))
}

// ---------------------------------------------------------------------------
// Execute
// ---------------------------------------------------------------------------

const execTimeout = 10 * time.Second

// executeCommand runs a shell command and inserts its stdout at the cursor.
func (e *Editor) executeCommand(cmd string) {
	if strings.TrimSpace(cmd) == "" {
		return
	}
	out, err := e.execCommand(cmd)
	if err != nil {
		e.setMessage("execute failed: %v", err)
		log.Error().Err(err).Str("cmd", cmd).Msg("execute failed")
		return
	}
	e.insertText(strings.TrimSuffix(out, "\n"))
	e.setMessage("inserted output of %q", cmd)
	log.Info().Str("cmd", cmd).Str("dir", e.sh.Dir()).Int("bytes", len(out)).Msg("executed")
}

func (e *Editor) runShellCommand(cmd string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()

	stdout, stderr, err := e.sh.Exec(ctx, cmd)
	if err != nil {
		if line := firstLine(stderr); line != "" {
			return "", fmt.Errorf("exit %d: %s", shell.ExitCode(err), line)
		}
		return "", err
	}
	return stdout, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
