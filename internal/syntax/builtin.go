package syntax

import "github.com/xonecas/quill/internal/highlight"

// Builtin returns the rule sets that ship with the editor. User rule sets
// loaded from the syntax directory take precedence over these.
func Builtin() []*highlight.RuleSet {
	return []*highlight.RuleSet{goRules(), cRules(), rustRules(), pythonRules()}
}

func goRules() *highlight.RuleSet {
	return &highlight.RuleSet{
		Name:             "Go",
		Extensions:       []string{"go"},
		CommentStart:     []string{"//"},
		MLCommentStart:   "/*",
		MLCommentEnd:     "*/",
		Quotes:           []rune{'"', '\'', '`'},
		HighlightNumbers: true,
		HighlightStrings: true,
		Keywords: []highlight.KeywordGroup{
			{Tier: 1, Words: []string{
				"break", "case", "chan", "const", "continue", "default",
				"defer", "else", "fallthrough", "for", "func", "go", "goto",
				"if", "import", "interface", "map", "package", "range",
				"return", "select", "struct", "switch", "type", "var",
			}},
			{Tier: 2, Words: []string{
				"any", "bool", "byte", "complex64", "complex128", "error",
				"float32", "float64", "int", "int8", "int16", "int32",
				"int64", "rune", "string", "uint", "uint8", "uint16",
				"uint32", "uint64", "uintptr", "true", "false", "nil",
				"iota",
			}},
		},
	}
}

func cRules() *highlight.RuleSet {
	return &highlight.RuleSet{
		Name:             "C",
		Extensions:       []string{"c", "h", "cpp", "hpp", "cc"},
		CommentStart:     []string{"//"},
		MLCommentStart:   "/*",
		MLCommentEnd:     "*/",
		Quotes:           []rune{'"', '\''},
		HighlightNumbers: true,
		HighlightStrings: true,
		Keywords: []highlight.KeywordGroup{
			{Tier: 1, Words: []string{
				"break", "case", "continue", "default", "do", "else", "enum",
				"extern", "for", "goto", "if", "register", "return", "sizeof",
				"static", "struct", "switch", "typedef", "union", "volatile",
				"while",
			}},
			{Tier: 2, Words: []string{
				"char", "const", "double", "float", "int", "long", "short",
				"signed", "unsigned", "void",
			}},
		},
	}
}

func rustRules() *highlight.RuleSet {
	return &highlight.RuleSet{
		Name:             "Rust",
		Extensions:       []string{"rs"},
		CommentStart:     []string{"//"},
		MLCommentStart:   "/*",
		MLCommentEnd:     "*/",
		Quotes:           []rune{'"'},
		HighlightNumbers: true,
		HighlightStrings: true,
		Keywords: []highlight.KeywordGroup{
			{Tier: 1, Words: []string{
				"as", "break", "const", "continue", "crate", "dyn", "else",
				"enum", "extern", "fn", "for", "if", "impl", "in", "let",
				"loop", "match", "mod", "move", "mut", "pub", "ref",
				"return", "self", "static", "struct", "trait", "type",
				"unsafe", "use", "where", "while",
			}},
			{Tier: 2, Words: []string{
				"bool", "char", "f32", "f64", "i8", "i16", "i32", "i64",
				"i128", "isize", "str", "u8", "u16", "u32", "u64", "u128",
				"usize", "true", "false", "Some", "None", "Ok", "Err",
			}},
		},
	}
}

func pythonRules() *highlight.RuleSet {
	return &highlight.RuleSet{
		Name:             "Python",
		Extensions:       []string{"py"},
		CommentStart:     []string{"#"},
		Quotes:           []rune{'"', '\''},
		MLStringDelim:    `"""`,
		HighlightNumbers: true,
		HighlightStrings: true,
		Keywords: []highlight.KeywordGroup{
			{Tier: 1, Words: []string{
				"and", "as", "assert", "async", "await", "break", "class",
				"continue", "def", "del", "elif", "else", "except",
				"finally", "for", "from", "global", "if", "import", "in",
				"is", "lambda", "nonlocal", "not", "or", "pass", "raise",
				"return", "try", "while", "with", "yield",
			}},
			{Tier: 2, Words: []string{
				"bool", "bytes", "dict", "float", "int", "list", "set",
				"str", "tuple", "True", "False", "None",
			}},
		},
	}
}
