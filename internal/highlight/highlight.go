// Package highlight implements the incremental syntax highlighting engine.
// A row is classified in a single left-to-right pass; the lexical state left
// open at the end of a row (an unterminated comment or string) is handed to
// the next row, so re-highlighting after an edit only propagates while that
// carried state keeps changing.
package highlight

import (
	"unicode"
)

// Class is the classification of one rendered character.
type Class uint8

const (
	ClassNormal Class = iota
	ClassComment
	ClassMLComment
	ClassString
	ClassNumber
	ClassMatch // transient, overlaid during incremental search

	// Keyword tiers follow; keep them last so KeywordClass can index past
	// ClassMatch.
	ClassKeyword1
	ClassKeyword2
	ClassKeyword3
)

// maxKeywordTier is the highest tier that gets a distinct class. Rule sets
// may define more groups; extra tiers collapse into the last class.
const maxKeywordTier = 3

// KeywordClass maps a 1-based keyword tier to its class.
func KeywordClass(tier int) Class {
	if tier < 1 {
		tier = 1
	}
	if tier > maxKeywordTier {
		tier = maxKeywordTier
	}
	return ClassKeyword1 + Class(tier-1)
}

// StateKind discriminates the lexical context carried between rows.
type StateKind uint8

const (
	StateNormal StateKind = iota
	StateMLComment
	StateString
	StateMLString
)

// State is the lexical context left open at the end of a row. The zero
// value means no open construct.
type State struct {
	Kind  StateKind
	Delim rune // closing quote, set only for StateString
}

// Scan classifies one rendered line. in is the state carried from the
// previous row; the returned state is carried to the next. The returned
// slice is always len(line). A nil rule set classifies everything normal.
func Scan(line []rune, in State, rs *RuleSet) ([]Class, State) {
	hl := make([]Class, len(line))
	if rs == nil {
		return hl, State{}
	}

	state := in
	i := 0
	for i < len(line) {
		switch state.Kind {
		case StateMLComment:
			if n := matchAt(line, i, rs.MLCommentEnd); n > 0 {
				fill(hl, i, n, ClassMLComment)
				i += n
				state = State{}
			} else {
				hl[i] = ClassMLComment
				i++
			}
			continue

		case StateMLString:
			if line[i] == '\\' && i+1 < len(line) {
				fill(hl, i, 2, ClassString)
				i += 2
				continue
			}
			if n := matchAt(line, i, rs.MLStringDelim); n > 0 {
				fill(hl, i, n, ClassString)
				i += n
				state = State{}
			} else {
				hl[i] = ClassString
				i++
			}
			continue

		case StateString:
			hl[i] = ClassString
			if line[i] == '\\' && i+1 < len(line) {
				hl[i+1] = ClassString
				i += 2
				continue
			}
			if line[i] == state.Delim {
				state = State{}
			}
			i++
			continue
		}

		// Normal state from here on.
		if n := matchAnyAt(line, i, rs.CommentStart); n > 0 {
			fill(hl, i, len(line)-i, ClassComment)
			break
		}
		if n := matchAt(line, i, rs.MLCommentStart); n > 0 {
			fill(hl, i, n, ClassMLComment)
			i += n
			state = State{Kind: StateMLComment}
			continue
		}
		if n := matchAt(line, i, rs.MLStringDelim); n > 0 {
			fill(hl, i, n, ClassString)
			i += n
			state = State{Kind: StateMLString}
			continue
		}
		if rs.HighlightStrings && isQuote(line[i], rs.Quotes) {
			hl[i] = ClassString
			state = State{Kind: StateString, Delim: line[i]}
			i++
			continue
		}

		// Keywords are only recognized at word boundaries, and win over
		// number highlighting when a group contains numeric-looking tokens.
		if boundaryBefore(line, i) {
			if n, tier := rs.keywordAt(line, i); n > 0 {
				fill(hl, i, n, KeywordClass(tier))
				i += n
				continue
			}
		}

		if rs.HighlightNumbers {
			prevNumber := i > 0 && hl[i-1] == ClassNumber
			switch {
			case unicode.IsDigit(line[i]) && (boundaryBefore(line, i) || prevNumber):
				hl[i] = ClassNumber
				i++
				continue
			case line[i] == '.' && prevNumber:
				hl[i] = ClassNumber
				i++
				continue
			}
		}

		i++
	}

	return hl, state
}

// fill assigns class to hl[i:i+n].
func fill(hl []Class, i, n int, c Class) {
	for j := i; j < i+n && j < len(hl); j++ {
		hl[j] = c
	}
}

// matchAt reports the length of marker if it occurs at line[i], else 0.
func matchAt(line []rune, i int, marker string) int {
	if marker == "" {
		return 0
	}
	j := i
	for _, mc := range marker {
		if j >= len(line) || line[j] != mc {
			return 0
		}
		j++
	}
	return j - i
}

func matchAnyAt(line []rune, i int, markers []string) int {
	for _, m := range markers {
		if n := matchAt(line, i, m); n > 0 {
			return n
		}
	}
	return 0
}

// isWordChar reports whether r can appear inside an identifier.
func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// boundaryBefore reports whether position i starts at a word boundary.
func boundaryBefore(line []rune, i int) bool {
	return i == 0 || !isWordChar(line[i-1])
}

func isQuote(r rune, quotes []rune) bool {
	for _, q := range quotes {
		if r == q {
			return true
		}
	}
	return false
}
