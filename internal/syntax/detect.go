package syntax

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/quill/internal/highlight"
)

// Detect picks the rule set for a filename. Extension claims are checked
// first in table order, so user rule sets placed ahead of the builtins win.
// When no rule set claims the extension, Chroma's lexer registry resolves
// the language name (catching aliases like .cxx or shebang-less oddities)
// and that name is matched against the table. Returns nil for unknown
// file types.
func Detect(filename string, sets []*highlight.RuleSet) *highlight.RuleSet {
	if filename == "" {
		return nil
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext != "" {
		for _, rs := range sets {
			if rs.MatchesExt(ext) {
				return rs
			}
		}
	}

	lex := lexers.Match(filepath.Base(filename))
	if lex == nil {
		return nil
	}
	name := lex.Config().Name
	for _, rs := range sets {
		if strings.EqualFold(rs.Name, name) {
			log.Debug().Str("file", filename).Str("ruleset", rs.Name).Msg("detected via chroma")
			return rs
		}
	}
	return nil
}
