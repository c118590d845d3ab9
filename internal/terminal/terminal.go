// Package terminal is the raw-terminal I/O adapter: it owns raw mode as a
// scoped resource, decodes key presses (including escape sequences) from
// stdin, reports window size and resize signals, and writes each composed
// frame with a single write so a refresh never tears.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/x/term"
)

// ANSI escape sequences used by the render pipeline.
const (
	ClearScreen    = "\x1b[2J"
	CursorHome     = "\x1b[H"
	HideCursor     = "\x1b[?25l"
	ShowCursor     = "\x1b[?25h"
	ClearLineRight = "\x1b[K"
	ResetFormat    = "\x1b[m"
	ReverseVideo   = "\x1b[7m"
)

// MoveTo returns the sequence positioning the cursor at 1-based row, col.
func MoveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// Event is a terminal input event: KeyEvent, ResizeEvent, or ErrorEvent.
type Event interface{}

// KeyEvent is a decoded key press.
type KeyEvent struct {
	Key Key
}

// ResizeEvent carries the new terminal dimensions after SIGWINCH.
type ResizeEvent struct {
	Cols, Rows int
}

// SignalEvent reports a termination signal (SIGTERM, SIGHUP). The consumer
// is expected to shut down so raw mode gets restored before the process
// exits.
type SignalEvent struct {
	Signal os.Signal
}

// ErrorEvent reports a failed stdin read. Terminal read failures are fatal;
// the event loop stops after receiving one.
type ErrorEvent struct {
	Err error
}

// Terminal wraps stdin/stdout in raw mode.
type Terminal struct {
	in     *os.File
	out    *os.File
	prev   *term.State
	events chan Event
	sigs   chan os.Signal

	done      chan struct{}
	closeOnce sync.Once
}

// Open switches the terminal into raw mode and starts delivering events.
// The caller must Restore on every exit path.
func Open() (*Terminal, error) {
	in, out := os.Stdin, os.Stdout
	if !term.IsTerminal(in.Fd()) || !term.IsTerminal(out.Fd()) {
		return nil, errors.New("not a terminal")
	}
	prev, err := term.MakeRaw(in.Fd())
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	t := &Terminal{
		in:     in,
		out:    out,
		prev:   prev,
		events: make(chan Event, 8),
		sigs:   make(chan os.Signal, 1),
		done:   make(chan struct{}),
	}
	signal.Notify(t.sigs, syscall.SIGWINCH, syscall.SIGTERM, syscall.SIGHUP)
	go t.readLoop()
	go t.watchSignals()
	return t, nil
}

// Restore stops event delivery, leaves raw mode and clears the screen.
// Safe to call after a failure half-way through the event loop, and more
// than once.
func (t *Terminal) Restore() error {
	t.closeOnce.Do(func() {
		signal.Stop(t.sigs)
		close(t.done)
	})
	_, werr := t.out.WriteString(ShowCursor + ClearScreen + CursorHome)
	rerr := term.Restore(t.in.Fd(), t.prev)
	return errors.Join(werr, rerr)
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() (cols, rows int, err error) {
	return term.GetSize(t.out.Fd())
}

// Events returns the input event channel. Keys and resizes are delivered
// in arrival order; consuming them from one goroutine keeps all editor
// state single-threaded.
func (t *Terminal) Events() <-chan Event {
	return t.events
}

// WriteFrame writes one composed frame atomically.
func (t *Terminal) WriteFrame(frame string) error {
	_, err := t.out.WriteString(frame)
	return err
}

// post delivers an event unless the terminal was restored; it reports
// whether the producing loop should keep going.
func (t *Terminal) post(ev Event) bool {
	select {
	case t.events <- ev:
		return true
	case <-t.done:
		return false
	}
}

func (t *Terminal) readLoop() {
	r := bufio.NewReader(t.in)
	for {
		k, err := decodeKey(r)
		if err != nil {
			t.post(ErrorEvent{Err: fmt.Errorf("read key: %w", err)})
			return
		}
		if !t.post(KeyEvent{Key: k}) {
			return
		}
	}
}

// watchSignals turns SIGWINCH into resize events and termination signals
// into SignalEvents, until Restore stops it.
func (t *Terminal) watchSignals() {
	for {
		select {
		case s := <-t.sigs:
			if s == syscall.SIGWINCH {
				if cols, rows, err := t.Size(); err == nil {
					t.post(ResizeEvent{Cols: cols, Rows: rows})
				}
				continue
			}
			if !t.post(SignalEvent{Signal: s}) {
				return
			}
		case <-t.done:
			return
		}
	}
}
