// Package buffer holds the in-memory document model: an ordered sequence of
// rows with rune-level edit operations, a dirty flag, and per-row caches of
// the rendered and highlighted form with explicit invalidation.
package buffer

import (
	"github.com/xonecas/quill/internal/highlight"
)

// Buffer is a single document. It is not safe for concurrent use; the
// editor mutates it from a single event-processing goroutine.
type Buffer struct {
	rows    []*Row
	dirty   bool
	tabStop int
	rules   *highlight.RuleSet // shared with the rule-set table, never mutated
}

// New returns an empty buffer. tabStop must be positive.
func New(tabStop int) *Buffer {
	return &Buffer{tabStop: tabStop}
}

// Load replaces the buffer content and clears the dirty flag.
func (b *Buffer) Load(lines []string) {
	b.rows = make([]*Row, len(lines))
	for i, l := range lines {
		b.rows[i] = newRow(l)
	}
	b.dirty = false
}

// Serialize returns the document as one string per row. Together with Load
// it round-trips exactly: Serialize(Load(x)) == x.
func (b *Buffer) Serialize() []string {
	lines := make([]string, len(b.rows))
	for i, r := range b.rows {
		lines[i] = r.Text()
	}
	return lines
}

// RowCount returns the number of rows.
func (b *Buffer) RowCount() int { return len(b.rows) }

// Row returns the row at y, or nil when y is out of range.
func (b *Buffer) Row(y int) *Row {
	if y < 0 || y >= len(b.rows) {
		return nil
	}
	return b.rows[y]
}

// Text returns the raw content of row y, or "" when out of range.
func (b *Buffer) Text(y int) string {
	if r := b.Row(y); r != nil {
		return r.Text()
	}
	return ""
}

// Dirty reports whether the buffer has been mutated since Load or MarkSaved.
func (b *Buffer) Dirty() bool { return b.dirty }

// MarkSaved clears the dirty flag after a successful write to disk.
func (b *Buffer) MarkSaved() { b.dirty = false }

// SetRules switches the active rule set and re-highlights everything.
func (b *Buffer) SetRules(rs *highlight.RuleSet) {
	b.rules = rs
	for _, r := range b.rows {
		r.invalid = true
	}
}

// Rules returns the active rule set, possibly nil.
func (b *Buffer) Rules() *highlight.RuleSet { return b.rules }

// ---------------------------------------------------------------------------
// Edit operations
// ---------------------------------------------------------------------------

// InsertChar inserts r at column x of row y. y == RowCount appends a row
// first, so typing into an empty buffer works.
func (b *Buffer) InsertChar(y, x int, c rune) {
	if y == len(b.rows) {
		b.rows = append(b.rows, newRow(""))
	}
	row := b.Row(y)
	if row == nil {
		return
	}
	x = clamp(x, 0, len(row.chars))
	row.chars = append(row.chars[:x], append([]rune{c}, row.chars[x:]...)...)
	b.touch(row)
}

// DeleteChar removes the character before column x of row y. At x == 0 the
// row is merged into the previous one; at the very start of the document it
// is a no-op.
func (b *Buffer) DeleteChar(y, x int) {
	row := b.Row(y)
	if row == nil {
		return
	}
	if x == 0 {
		if y == 0 {
			return
		}
		prev := b.rows[y-1]
		prev.chars = append(prev.chars, row.chars...)
		b.removeRow(y)
		b.touch(prev)
		return
	}
	// Clamping an empty row collapses to 0; there is nothing to delete.
	x = clamp(x, 1, len(row.chars))
	if x < 1 {
		return
	}
	row.chars = append(row.chars[:x-1], row.chars[x:]...)
	b.touch(row)
}

// InsertNewline splits row y at column x. y == RowCount appends an empty row.
func (b *Buffer) InsertNewline(y, x int) {
	if y == len(b.rows) {
		b.rows = append(b.rows, newRow(""))
		b.touch(b.rows[y])
		return
	}
	row := b.Row(y)
	if row == nil {
		return
	}
	x = clamp(x, 0, len(row.chars))
	rest := make([]rune, len(row.chars)-x)
	copy(rest, row.chars[x:])
	row.chars = row.chars[:x]
	b.insertRowAt(y+1, &Row{chars: rest, invalid: true})
	b.touch(row)
}

// InsertRow inserts a new row with the given text at index y.
func (b *Buffer) InsertRow(y int, text string) {
	y = clamp(y, 0, len(b.rows))
	b.insertRowAt(y, newRow(text))
	b.dirty = true
}

// DeleteRow removes row y. Removing the only row leaves an empty buffer.
func (b *Buffer) DeleteRow(y int) {
	if b.Row(y) == nil {
		return
	}
	b.removeRow(y)
	b.dirty = true
}

// DuplicateRow inserts a copy of row y directly below it.
func (b *Buffer) DuplicateRow(y int) {
	row := b.Row(y)
	if row == nil {
		return
	}
	b.insertRowAt(y+1, newRow(row.Text()))
	b.dirty = true
}

func (b *Buffer) touch(r *Row) {
	r.invalid = true
	b.dirty = true
}

// insertRowAt places r at index y and invalidates the pushed-down row:
// its incoming lexical state now comes from r, and a fresh row's recorded
// state cannot tell update whether that differs from before.
func (b *Buffer) insertRowAt(y int, r *Row) {
	b.rows = append(b.rows, nil)
	copy(b.rows[y+1:], b.rows[y:])
	b.rows[y] = r
	if y+1 < len(b.rows) {
		b.rows[y+1].invalid = true
	}
}

// removeRow deletes rows[y] and invalidates its successor: the successor's
// incoming lexical state may have changed even though its text did not.
func (b *Buffer) removeRow(y int) {
	b.rows = append(b.rows[:y], b.rows[y+1:]...)
	if y < len(b.rows) {
		b.rows[y].invalid = true
	}
}

// ---------------------------------------------------------------------------
// Highlighting
// ---------------------------------------------------------------------------

// EnsureHighlighted recomputes every invalid row and propagates lexical
// state downward while it keeps changing. Called once before each render;
// edits inside a single line with no open construct cost one row update.
func (b *Buffer) EnsureHighlighted() {
	in := highlight.State{}
	for i, r := range b.rows {
		if r.invalid {
			if r.update(b.tabStop, b.rules, in) && i+1 < len(b.rows) {
				b.rows[i+1].invalid = true
			}
		}
		in = r.state
	}
}

// ---------------------------------------------------------------------------
// Column arithmetic
// ---------------------------------------------------------------------------

// CxToRx converts a raw column to a rendered column on row y, expanding
// tabs to the next multiple of the tab stop.
func (b *Buffer) CxToRx(y, cx int) int {
	row := b.Row(y)
	if row == nil {
		return 0
	}
	rx := 0
	for i := 0; i < cx && i < len(row.chars); i++ {
		if row.chars[i] == '\t' {
			rx += b.tabStop - rx%b.tabStop
		} else {
			rx++
		}
	}
	return rx
}

// RxToCx converts a rendered column back to the raw column on row y.
func (b *Buffer) RxToCx(y, rx int) int {
	row := b.Row(y)
	if row == nil {
		return 0
	}
	cur := 0
	for i, c := range row.chars {
		if c == '\t' {
			cur += b.tabStop - cur%b.tabStop
		} else {
			cur++
		}
		if cur > rx {
			return i
		}
	}
	return len(row.chars)
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
