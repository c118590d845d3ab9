package editor

import (
	"unicode"

	"github.com/xonecas/quill/internal/terminal"
)

// setCx moves the cursor horizontally and re-anchors the rendered column
// vertical movement aims for.
func (e *Editor) setCx(cx int) {
	e.cx = cx
	e.hintRx = e.buf.CxToRx(e.cy, cx)
}

// setCy moves the cursor vertically, steering toward the remembered
// rendered column and clamping to the target row's length.
func (e *Editor) setCy(cy int) {
	e.cy = clamp(cy, 0, maxCy(e.buf))
	e.cx = e.buf.RxToCx(e.cy, e.hintRx)
}

func (e *Editor) moveCursor(kind terminal.KeyKind) {
	switch kind {
	case terminal.KeyLeft:
		switch {
		case e.cx > 0:
			e.setCx(e.cx - 1)
		case e.cy > 0:
			e.cy--
			e.setCx(e.rowLen(e.cy))
		}
	case terminal.KeyRight:
		switch {
		case e.cx < e.rowLen(e.cy):
			e.setCx(e.cx + 1)
		case e.cy < maxCy(e.buf):
			e.cy++
			e.setCx(0)
		}
	case terminal.KeyUp:
		e.setCy(e.cy - 1)
	case terminal.KeyDown, terminal.KeyCtrlDown:
		e.setCy(e.cy + 1)
	case terminal.KeyCtrlUp:
		e.setCy(e.cy - 1)
	case terminal.KeyCtrlLeft:
		e.wordLeft()
	case terminal.KeyCtrlRight:
		e.wordRight()
	case terminal.KeyHome:
		e.setCx(0)
	case terminal.KeyEnd:
		e.setCx(e.rowLen(e.cy))
	case terminal.KeyPageUp:
		e.setCy(e.cy - e.screenRows)
	case terminal.KeyPageDown:
		e.setCy(e.cy + e.screenRows)
	}
}

// wordLeft moves to the start of the previous word, crossing row
// boundaries like a plain left move does.
func (e *Editor) wordLeft() {
	if e.cx == 0 {
		if e.cy == 0 {
			return
		}
		e.cy--
		e.setCx(e.rowLen(e.cy))
		return
	}
	line := []rune(e.buf.Text(e.cy))
	i := e.cx
	for i > 0 && !isWordRune(line[i-1]) {
		i--
	}
	for i > 0 && isWordRune(line[i-1]) {
		i--
	}
	e.setCx(i)
}

// wordRight moves past the end of the next word.
func (e *Editor) wordRight() {
	line := []rune(e.buf.Text(e.cy))
	if e.cx >= len(line) {
		if e.cy < maxCy(e.buf) {
			e.cy++
			e.setCx(0)
		}
		return
	}
	i := e.cx
	for i < len(line) && !isWordRune(line[i]) {
		i++
	}
	for i < len(line) && isWordRune(line[i]) {
		i++
	}
	e.setCx(i)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scroll adjusts the viewport offsets minimally so the cursor stays
// visible.
func (e *Editor) scroll() {
	rx := e.buf.CxToRx(e.cy, e.cx)

	if e.cy < e.rowOff {
		e.rowOff = e.cy
	}
	if e.cy >= e.rowOff+e.screenRows {
		e.rowOff = e.cy - e.screenRows + 1
	}

	textCols := e.textCols()
	if rx < e.colOff {
		e.colOff = rx
	}
	if textCols > 0 && rx >= e.colOff+textCols {
		e.colOff = rx - textCols + 1
	}
}
