// Package syntax loads highlighting rule sets. Rule sets come from TOML
// files in the user's syntax directory, with a builtin table as fallback;
// malformed files are rejected here so the engine never sees an
// inconsistent rule set.
package syntax

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/quill/internal/highlight"
)

// fileRules is the TOML schema of one rule-set file.
type fileRules struct {
	Name             string   `toml:"name"`
	Extensions       []string `toml:"extensions"`
	HighlightNumbers bool     `toml:"highlight_numbers"`
	HighlightStrings bool     `toml:"highlight_strings"`
	CommentStart     []string `toml:"comment_start"`
	CommentDelims    []string `toml:"comment_delims"`
	StringQuotes     []string `toml:"string_quotes"`
	MLStringDelim    string   `toml:"ml_string_delim"`
	CaseInsensitive  bool     `toml:"case_insensitive"`
	Keywords         []struct {
		Tier  int      `toml:"tier"`
		Words []string `toml:"words"`
	} `toml:"keywords"`
}

// LoadFile parses a single rule-set file.
func LoadFile(path string) (*highlight.RuleSet, error) {
	var fr fileRules
	if _, err := toml.DecodeFile(path, &fr); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	rs, err := fr.ruleSet()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rs, nil
}

// LoadDir parses every .toml file in dir, sorted by name. A missing
// directory yields no rule sets and no error.
func LoadDir(dir string) ([]*highlight.RuleSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var sets []*highlight.RuleSet
	for _, name := range names {
		rs, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		log.Debug().Str("file", name).Str("ruleset", rs.Name).Msg("loaded syntax rules")
		sets = append(sets, rs)
	}
	return sets, nil
}

func (fr *fileRules) ruleSet() (*highlight.RuleSet, error) {
	var errs []error

	if fr.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if len(fr.Extensions) == 0 {
		errs = append(errs, errors.New("extensions must list at least one extension"))
	}

	var mlStart, mlEnd string
	switch len(fr.CommentDelims) {
	case 0:
	case 2:
		mlStart, mlEnd = fr.CommentDelims[0], fr.CommentDelims[1]
		if mlStart == "" || mlEnd == "" {
			errs = append(errs, errors.New("comment_delims entries must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("comment_delims must have exactly two values, got %d", len(fr.CommentDelims)))
	}

	var quotes []rune
	for _, q := range fr.StringQuotes {
		r := []rune(q)
		if len(r) != 1 {
			errs = append(errs, fmt.Errorf("string quote %q must be a single character", q))
			continue
		}
		quotes = append(quotes, r[0])
	}

	var groups []highlight.KeywordGroup
	for i, g := range fr.Keywords {
		if g.Tier < 1 {
			errs = append(errs, fmt.Errorf("keywords[%d]: tier must be at least 1", i))
		}
		if len(g.Words) == 0 {
			errs = append(errs, fmt.Errorf("keywords[%d]: words must not be empty", i))
		}
		groups = append(groups, highlight.KeywordGroup{Tier: g.Tier, Words: g.Words})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	exts := make([]string, len(fr.Extensions))
	for i, e := range fr.Extensions {
		exts[i] = strings.TrimPrefix(e, ".")
	}

	return &highlight.RuleSet{
		Name:             fr.Name,
		Extensions:       exts,
		CommentStart:     fr.CommentStart,
		MLCommentStart:   mlStart,
		MLCommentEnd:     mlEnd,
		Quotes:           quotes,
		MLStringDelim:    fr.MLStringDelim,
		HighlightNumbers: fr.HighlightNumbers,
		HighlightStrings: fr.HighlightStrings,
		CaseInsensitive:  fr.CaseInsensitive,
		Keywords:         groups,
	}, nil
}
