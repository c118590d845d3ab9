package highlight

import (
	"strings"
	"unicode"
)

// KeywordGroup is one tier of keywords. Tier 1 is the most prominent.
type KeywordGroup struct {
	Tier  int
	Words []string
}

// RuleSet holds the highlighting rules for one file type. It is built by an
// external loader and never mutated by the engine, so a single instance is
// safely shared by every row of a buffer.
type RuleSet struct {
	Name       string
	Extensions []string

	CommentStart   []string // single-line comment markers
	MLCommentStart string
	MLCommentEnd   string

	Quotes        []rune // single-line string delimiters
	MLStringDelim string // multi-line string delimiter, e.g. Python's """

	HighlightNumbers bool
	HighlightStrings bool
	CaseInsensitive  bool // keyword matching ignores case when set

	Keywords []KeywordGroup
}

// MatchesExt reports whether the rule set claims the given extension
// (without the leading dot).
func (rs *RuleSet) MatchesExt(ext string) bool {
	for _, e := range rs.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// keywordAt returns the length and tier of a keyword starting at line[i],
// or (0, 0). The caller has already checked the left boundary; the right
// boundary is checked here.
func (rs *RuleSet) keywordAt(line []rune, i int) (int, int) {
	for _, group := range rs.Keywords {
		for _, word := range group.Words {
			n := rs.wordAt(line, i, word)
			if n == 0 {
				continue
			}
			if end := i + n; end < len(line) && isWordChar(line[end]) {
				continue
			}
			return n, group.Tier
		}
	}
	return 0, 0
}

func (rs *RuleSet) wordAt(line []rune, i int, word string) int {
	j := i
	for _, wc := range word {
		if j >= len(line) {
			return 0
		}
		lc := line[j]
		if rs.CaseInsensitive {
			if unicode.ToLower(lc) != unicode.ToLower(wc) {
				return 0
			}
		} else if lc != wc {
			return 0
		}
		j++
	}
	return j - i
}
