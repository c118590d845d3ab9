package editor

// ---------------------------------------------------------------------------
// Editing operations
// ---------------------------------------------------------------------------

func (e *Editor) insertRune(r rune) {
	e.buf.InsertChar(e.cy, e.cx, r)
	e.setCx(e.cx + 1)
}

func (e *Editor) insertNewline() {
	if e.buf.RowCount() == 0 {
		e.buf.InsertRow(0, "")
	}
	e.buf.InsertNewline(e.cy, e.cx)
	e.cy++
	e.setCx(0)
}

func (e *Editor) deleteBack() {
	if e.buf.RowCount() == 0 {
		return
	}
	if e.cx == 0 && e.cy == 0 {
		return
	}
	if e.cx > 0 {
		e.buf.DeleteChar(e.cy, e.cx)
		e.setCx(e.cx - 1)
		return
	}
	// Merge into the previous row; the cursor lands at the join point.
	joined := e.rowLen(e.cy - 1)
	e.buf.DeleteChar(e.cy, 0)
	e.cy--
	e.setCx(joined)
}

func (e *Editor) deleteForward() {
	row := e.buf.Row(e.cy)
	if row == nil {
		return
	}
	if e.cx < row.Len() {
		e.buf.DeleteChar(e.cy, e.cx+1)
		return
	}
	if e.cy+1 < e.buf.RowCount() {
		e.buf.DeleteChar(e.cy+1, 0)
	}
}

// insertText inserts a multi-line string at the cursor; used by paste-like
// operations such as inserting command output.
func (e *Editor) insertText(text string) {
	for _, r := range text {
		switch r {
		case '\n':
			e.insertNewline()
		case '\r':
			// Normalize \r\n to \n.
		default:
			e.insertRune(r)
		}
	}
}

// ---------------------------------------------------------------------------
// Line commands
// ---------------------------------------------------------------------------

func (e *Editor) duplicateLine() {
	if e.buf.Row(e.cy) == nil {
		return
	}
	e.buf.DuplicateRow(e.cy)
}

func (e *Editor) removeLine() {
	if e.buf.Row(e.cy) == nil {
		return
	}
	e.buf.DeleteRow(e.cy)
	e.cy = clamp(e.cy, 0, maxCy(e.buf))
	e.setCx(clamp(e.cx, 0, e.rowLen(e.cy)))
}

func (e *Editor) copyLine() {
	if e.buf.Row(e.cy) == nil {
		return
	}
	e.clipboard = []string{e.buf.Text(e.cy)}
	e.setMessage("line copied")
}

func (e *Editor) cutLine() {
	if e.buf.Row(e.cy) == nil {
		return
	}
	e.clipboard = []string{e.buf.Text(e.cy)}
	e.removeLine()
	e.setMessage("line cut")
}

// paste inserts the clipboard lines above the current row, leaving the
// cursor on the last pasted line.
func (e *Editor) paste() {
	if len(e.clipboard) == 0 {
		return
	}
	for i, line := range e.clipboard {
		e.buf.InsertRow(e.cy+i, line)
	}
	e.cy = clamp(e.cy+len(e.clipboard)-1, 0, maxCy(e.buf))
	e.setCx(clamp(e.cx, 0, e.rowLen(e.cy)))
}
