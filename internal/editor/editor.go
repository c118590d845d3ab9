// Package editor is the controller tying the document buffer, cursor,
// viewport, highlighting and render pipeline together. All state lives in
// one Editor value mutated from a single event-processing loop; nothing
// here is safe for concurrent use and nothing needs to be.
package editor

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/quill/internal/buffer"
	"github.com/xonecas/quill/internal/config"
	"github.com/xonecas/quill/internal/highlight"
	"github.com/xonecas/quill/internal/shell"
	"github.com/xonecas/quill/internal/syntax"
	"github.com/xonecas/quill/internal/terminal"
)

// Version is shown on the welcome banner.
const Version = "0.1.0"

const helpMessage = "^S save | ^Q quit | ^F find | ^G go to | ^E execute | ^D duplicate | ^R remove | ^C copy | ^X cut | ^V paste"

// Editor owns the full editing session state.
type Editor struct {
	cfg  *config.Config
	term *terminal.Terminal // nil under test; render still works
	buf  *buffer.Buffer
	sets []*highlight.RuleSet

	filename string

	// Cursor: cx/cy are logical (rune) coordinates; hintRx is the rendered
	// column vertical movement aims for.
	cx, cy int
	hintRx int

	// Viewport.
	rowOff, colOff         int
	screenRows, screenCols int

	msg     string
	msgTime time.Time

	quitLeft int
	quitting bool

	prompt    *promptState
	find      findState
	clipboard []string

	// One shell for the whole session, so cwd and exported variables
	// persist from one executed command to the next.
	sh *shell.Shell

	// Execute hook; defaults to running through the in-process shell.
	execCommand func(cmd string) (string, error)
}

// New creates an editor. term may be nil for tests; call SetSize then.
func New(cfg *config.Config, term *terminal.Terminal, sets []*highlight.RuleSet) *Editor {
	e := &Editor{
		cfg:      cfg,
		term:     term,
		buf:      buffer.New(cfg.TabStop),
		sets:     sets,
		quitLeft: cfg.QuitTimes,
		sh:       shell.New(""),
	}
	e.execCommand = e.runShellCommand
	e.setMessage("%s", helpMessage)
	return e
}

// SetSize updates the viewport dimensions. Two rows are reserved for the
// status and message bars.
func (e *Editor) SetSize(cols, rows int) {
	e.screenCols = cols
	e.screenRows = rows - 2
	if e.screenRows < 1 {
		e.screenRows = 1
	}
}

// Filename returns the associated file name, "" for an unnamed buffer.
func (e *Editor) Filename() string { return e.filename }

// Cursor returns the 0-based cursor position.
func (e *Editor) Cursor() (line, col int) { return e.cy, e.cx }

// SetCursor moves the cursor, clamping to the document.
func (e *Editor) SetCursor(line, col int) {
	e.cy = clamp(line, 0, maxCy(e.buf))
	e.cx = clamp(col, 0, e.rowLen(e.cy))
	e.hintRx = e.buf.CxToRx(e.cy, e.cx)
}

// Open loads a file into the buffer and selects a rule set for it. A file
// that does not exist yet leaves an empty named buffer.
func (e *Editor) Open(path string) error {
	e.filename = path
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		e.buf.Load(nil)
		e.setMessage("%s: new file", path)
	case err != nil:
		return fmt.Errorf("open %s: %w", path, err)
	default:
		e.buf.Load(splitLines(string(data)))
	}
	e.buf.SetRules(syntax.Detect(path, e.sets))
	log.Info().Str("file", path).Int("rows", e.buf.RowCount()).Msg("opened")
	return nil
}

// Save writes the buffer to its file. With no filename it prompts for one.
func (e *Editor) Save() {
	if e.filename == "" {
		e.startPrompt(promptSave, "Save as: ")
		return
	}
	e.saveTo(e.filename)
}

func (e *Editor) saveTo(path string) {
	data := joinLines(e.buf.Serialize())
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		e.setMessage("save failed: %v", err)
		log.Error().Err(err).Str("file", path).Msg("save failed")
		return
	}
	e.filename = path
	e.buf.MarkSaved()
	e.buf.SetRules(syntax.Detect(path, e.sets))
	e.setMessage("%d bytes written to %s", len(data), path)
	log.Info().Str("file", path).Int("bytes", len(data)).Msg("saved")
}

// Run drives the event loop until quit or a fatal terminal error. The
// terminal must have been opened by the caller, who also restores it.
func (e *Editor) Run() error {
	cols, rows, err := e.term.Size()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}
	e.SetSize(cols, rows)

	for !e.quitting {
		e.scroll()
		if err := e.term.WriteFrame(e.renderFrame()); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		if err := e.handleEvent(<-e.term.Events()); err != nil {
			return err
		}
	}
	return nil
}

// handleEvent applies one terminal event. A termination signal quits
// regardless of unsaved changes: the process is going down either way, and
// quitting through the loop lets the deferred restore leave raw mode.
func (e *Editor) handleEvent(ev terminal.Event) error {
	switch ev := ev.(type) {
	case terminal.KeyEvent:
		e.processKey(ev.Key)
	case terminal.ResizeEvent:
		e.SetSize(ev.Cols, ev.Rows)
	case terminal.SignalEvent:
		log.Info().Str("signal", ev.Signal.String()).Msg("terminating on signal")
		e.quitting = true
	case terminal.ErrorEvent:
		return ev.Err
	}
	return nil
}

// processKey dispatches one key press. Resize events bypass this and are
// valid in every state; everything else flows through here.
func (e *Editor) processKey(k terminal.Key) {
	if e.prompt != nil {
		e.promptKey(k)
		return
	}

	switch k {
	case terminal.Ctrl('q'):
		e.handleQuit()
		return
	case terminal.Ctrl('s'):
		e.Save()
	case terminal.Ctrl('f'):
		e.startFind()
	case terminal.Ctrl('g'):
		e.startPrompt(promptGoTo, "Go to line[:col]: ")
	case terminal.Ctrl('e'):
		e.startPrompt(promptExec, "Execute: ")
	case terminal.Ctrl('d'):
		e.duplicateLine()
	case terminal.Ctrl('r'):
		e.removeLine()
	case terminal.Ctrl('c'):
		e.copyLine()
	case terminal.Ctrl('x'):
		e.cutLine()
	case terminal.Ctrl('v'):
		e.paste()
	case terminal.Ctrl('l'):
		// Refresh: the loop redraws after every key anyway; re-query the
		// size in case a resize signal was missed.
		if e.term != nil {
			if cols, rows, err := e.term.Size(); err == nil {
				e.SetSize(cols, rows)
			}
		}
	default:
		switch k.Kind {
		case terminal.KeyUp, terminal.KeyDown, terminal.KeyLeft, terminal.KeyRight,
			terminal.KeyCtrlUp, terminal.KeyCtrlDown, terminal.KeyCtrlLeft, terminal.KeyCtrlRight,
			terminal.KeyHome, terminal.KeyEnd, terminal.KeyPageUp, terminal.KeyPageDown:
			e.moveCursor(k.Kind)
		case terminal.KeyEnter:
			e.insertNewline()
		case terminal.KeyBackspace:
			e.deleteBack()
		case terminal.KeyDelete:
			e.deleteForward()
		case terminal.KeyTab:
			e.insertRune('\t')
		case terminal.KeyRune:
			e.insertRune(k.Rune)
		case terminal.KeyEsc, terminal.KeyCtrl:
			// Unbound chord: ignore.
		}
	}

	// Any non-quit key restores the full confirmation count.
	e.quitLeft = e.cfg.QuitTimes
}

func (e *Editor) handleQuit() {
	if !e.buf.Dirty() {
		e.quitting = true
		return
	}
	e.quitLeft--
	if e.quitLeft <= 0 {
		e.quitting = true
		return
	}
	e.setMessage("WARNING! Unsaved changes. Press Ctrl-Q %d more time(s) to quit.", e.quitLeft)
}

func (e *Editor) setMessage(format string, args ...any) {
	e.msg = fmt.Sprintf(format, args...)
	e.msgTime = time.Now()
}

func (e *Editor) rowLen(y int) int {
	if r := e.buf.Row(y); r != nil {
		return r.Len()
	}
	return 0
}

// maxCy is the largest valid cursor row: the last row, or 0 in an empty
// buffer where the cursor sits on the first tilde line.
func maxCy(b *buffer.Buffer) int {
	if b.RowCount() == 0 {
		return 0
	}
	return b.RowCount() - 1
}

// splitLines turns file contents into buffer rows. A trailing newline
// terminates the last row rather than opening an empty one, so writing the
// rows back with joinLines reproduces the file byte for byte.
func splitLines(data string) []string {
	if data == "" {
		return nil
	}
	data = strings.TrimSuffix(data, "\n")
	return strings.Split(data, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
