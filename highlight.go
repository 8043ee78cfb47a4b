package changediff

// Style is a terminal-independent text style.
type Style struct {
	Foreground string // hex color, empty for default
	Bold       bool
}

// Token is a run of source text sharing one style.
type Token struct {
	Text  string
	Style Style
}

// Tokenizer splits source code into styled tokens.
type Tokenizer interface {
	// Tokenize returns nil if the language is unsupported.
	Tokenize(language, source string) []Token
	// TokenizeLines tokenizes source and splits the result per line.
	TokenizeLines(language, source string) [][]Token
}

// LanguageDetector guesses a source language from a file path.
type LanguageDetector interface {
	// DetectFromPath returns an empty string when nothing matches.
	DetectFromPath(path string) string
}
