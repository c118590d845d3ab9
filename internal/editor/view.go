package editor

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/quill/internal/highlight"
	"github.com/xonecas/quill/internal/terminal"
)

var (
	statusStyle  = lipgloss.NewStyle().Reverse(true)
	gutterStyle  = lipgloss.NewStyle().Faint(true)
	welcomeStyle = lipgloss.NewStyle().Faint(true)
)

const colorNormal = "39"

// classColor maps a highlight class to an ANSI foreground color code.
func classColor(c highlight.Class) string {
	switch c {
	case highlight.ClassComment, highlight.ClassMLComment:
		return "36"
	case highlight.ClassString:
		return "35"
	case highlight.ClassNumber:
		return "31"
	case highlight.ClassMatch:
		return "34"
	case highlight.ClassKeyword1:
		return "33"
	case highlight.ClassKeyword2:
		return "32"
	case highlight.ClassKeyword3:
		return "94"
	default:
		return colorNormal
	}
}

// gutterWidth is the width of the line-number gutter, 0 when disabled.
func (e *Editor) gutterWidth() int {
	if !e.cfg.ShowLineNumbers || e.buf.RowCount() == 0 {
		return 0
	}
	digits := len(strconv.Itoa(e.buf.RowCount()))
	if digits < 2 {
		digits = 2
	}
	return digits + 1
}

// textCols is the width available for row text.
func (e *Editor) textCols() int {
	w := e.screenCols - e.gutterWidth()
	if w < 1 && e.screenCols > 0 {
		w = 1
	}
	return w
}

// renderFrame composes one full frame. The caller writes it with a single
// write so a refresh never shows a half-drawn screen.
func (e *Editor) renderFrame() string {
	e.buf.EnsureHighlighted()

	var b strings.Builder
	b.WriteString(terminal.HideCursor)
	b.WriteString(terminal.CursorHome)
	e.drawRows(&b)
	e.drawStatusBar(&b)
	e.drawMessageBar(&b)
	row, col := e.cursorScreenPos()
	b.WriteString(terminal.MoveTo(row, col))
	b.WriteString(terminal.ShowCursor)
	return b.String()
}

func (e *Editor) drawRows(b *strings.Builder) {
	gutter := e.gutterWidth()
	for y := 0; y < e.screenRows; y++ {
		fr := e.rowOff + y
		switch {
		case fr < e.buf.RowCount():
			if gutter > 0 {
				num := fmt.Sprintf("%*d ", gutter-1, fr+1)
				b.WriteString(gutterStyle.Render(num))
			}
			e.drawRow(b, fr)
		case e.buf.RowCount() == 0 && e.filename == "" && y == e.screenRows/3:
			e.drawWelcome(b)
		default:
			b.WriteString("~")
		}
		b.WriteString(terminal.ClearLineRight)
		b.WriteString("\r\n")
	}
}

// drawRow writes the visible slice of one row, switching colors only at
// classification boundaries so runs of one class cost one escape.
func (e *Editor) drawRow(b *strings.Builder, y int) {
	row := e.buf.Row(y)
	render := []rune(row.Render())
	hl := e.overlayMatches(row.HL(), row.Render())

	start := e.colOff
	if start > len(render) {
		start = len(render)
	}
	end := start + e.textCols()
	if end > len(render) {
		end = len(render)
	}

	current := colorNormal
	for i := start; i < end; i++ {
		if c := classColor(hl[i]); c != current {
			b.WriteString("\x1b[" + c + "m")
			current = c
		}
		b.WriteRune(render[i])
	}
	if current != colorNormal {
		b.WriteString("\x1b[" + colorNormal + "m")
	}
}

// overlayMatches marks every occurrence of the active search query with
// the match class. Copies the slice so row caches stay untouched.
func (e *Editor) overlayMatches(hl []highlight.Class, render string) []highlight.Class {
	if e.prompt == nil || e.prompt.kind != promptFind || e.find.query == "" {
		return hl
	}
	q := e.find.query
	qRunes := utf8.RuneCountInString(q)
	out := append([]highlight.Class(nil), hl...)
	for from := 0; ; {
		rel := strings.Index(render[from:], q)
		if rel < 0 {
			break
		}
		at := utf8.RuneCountInString(render[:from+rel])
		for j := at; j < at+qRunes && j < len(out); j++ {
			out[j] = highlight.ClassMatch
		}
		from += rel + len(q)
	}
	return out
}

func (e *Editor) drawWelcome(b *strings.Builder) {
	msg := fmt.Sprintf("quill editor -- version %s", Version)
	if len(msg) > e.screenCols {
		msg = msg[:e.screenCols]
	}
	b.WriteString("~")
	if pad := (e.screenCols - len(msg)) / 2; pad > 1 {
		b.WriteString(strings.Repeat(" ", pad-1))
	}
	b.WriteString(welcomeStyle.Render(msg))
}

func (e *Editor) drawStatusBar(b *strings.Builder) {
	name := e.filename
	if name == "" {
		name = "[No Name]"
	}
	dirty := ""
	if e.buf.Dirty() {
		dirty = " (modified)"
	}
	left := fmt.Sprintf(" %s - %d lines%s", name, e.buf.RowCount(), dirty)

	ft := "no ft"
	if rs := e.buf.Rules(); rs != nil {
		ft = rs.Name
	}
	right := fmt.Sprintf("%s | %d/%d ", ft, e.cy+1, e.buf.RowCount())

	lw, rw := ansi.StringWidth(left), ansi.StringWidth(right)
	if lw+rw > e.screenCols {
		left = ansi.Truncate(left, max(0, e.screenCols-rw), "…")
		lw = ansi.StringWidth(left)
	}
	gap := e.screenCols - lw - rw
	if gap < 0 {
		gap = 0
	}
	b.WriteString(statusStyle.Render(left + strings.Repeat(" ", gap) + right))
	b.WriteString("\r\n")
}

func (e *Editor) drawMessageBar(b *strings.Builder) {
	b.WriteString(terminal.ClearLineRight)
	if e.prompt != nil {
		b.WriteString(ansi.Truncate(e.prompt.label+string(e.prompt.input), e.screenCols, ""))
		return
	}
	if e.msg != "" && time.Since(e.msgTime) < e.cfg.MessageTimeout() {
		b.WriteString(ansi.Truncate(e.msg, e.screenCols, ""))
	}
}

// cursorScreenPos returns the 1-based screen position for the hardware
// cursor: inside the prompt line when a prompt is open, else at the
// logical cursor.
func (e *Editor) cursorScreenPos() (row, col int) {
	if e.prompt != nil {
		return e.screenRows + 2, ansi.StringWidth(e.prompt.label+string(e.prompt.input)) + 1
	}
	rx := e.buf.CxToRx(e.cy, e.cx)
	return e.cy - e.rowOff + 1, rx - e.colOff + e.gutterWidth() + 1
}
