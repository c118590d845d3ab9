package buffer

import (
	"strings"

	"github.com/xonecas/quill/internal/highlight"
)

// Row is one line of the document. chars is the raw content; render and hl
// are derived (tabs expanded, one class per rendered character) and only
// valid while invalid is false. Derived state is recomputed by the buffer's
// EnsureHighlighted pass, never lazily, so a render never reads stale data.
type Row struct {
	chars   []rune
	render  string
	hl      []highlight.Class
	state   highlight.State // lexical state handed to the next row
	invalid bool
}

func newRow(text string) *Row {
	return &Row{chars: []rune(text), invalid: true}
}

// Text returns the raw row content.
func (r *Row) Text() string { return string(r.chars) }

// Len returns the raw length in runes.
func (r *Row) Len() int { return len(r.chars) }

// Render returns the tab-expanded form. Valid only after EnsureHighlighted.
func (r *Row) Render() string { return r.render }

// HL returns one class per rendered character. Valid only after
// EnsureHighlighted.
func (r *Row) HL() []highlight.Class { return r.hl }

// update recomputes the derived state and reports whether the outgoing
// lexical state changed, which forces the next row to update too.
func (r *Row) update(tabStop int, rs *highlight.RuleSet, in highlight.State) bool {
	r.render = expandTabs(r.chars, tabStop)
	rendered := []rune(r.render)
	classes, out := highlight.Scan(rendered, in, rs)
	r.hl = classes
	r.invalid = false
	changed := out != r.state
	r.state = out
	return changed
}

// expandTabs replaces tabs with spaces aligned to the next tab stop.
func expandTabs(chars []rune, tabStop int) string {
	var b strings.Builder
	col := 0
	for _, c := range chars {
		if c == '\t' {
			n := tabStop - col%tabStop
			b.WriteString(strings.Repeat(" ", n))
			col += n
		} else {
			b.WriteRune(c)
			col++
		}
	}
	return b.String()
}
