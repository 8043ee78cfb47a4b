// Package chroma provides syntax highlighting using the chroma library.
package chroma

import (
	"errors"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/changediff"
	"github.com/fwojciec/changediff/lipgloss"
)

// Compile-time interface verification.
var (
	_ changediff.Tokenizer        = (*Tokenizer)(nil)
	_ changediff.LanguageDetector = (*LanguageDetector)(nil)
)

// StyleFunc maps a chroma token type to a style.
type StyleFunc func(chroma.TokenType) changediff.Style

// Tokenizer extracts syntax tokens using chroma.
type Tokenizer struct {
	style StyleFunc
}

// NewTokenizer creates a new chroma-based tokenizer.
func NewTokenizer(style StyleFunc) (*Tokenizer, error) {
	if style == nil {
		return nil, errors.New("chroma: nil style function")
	}
	return &Tokenizer{style: style}, nil
}

// Tokenize splits source code into syntax-highlighted tokens for the given language.
// Returns nil if the language is not supported or an error occurs.
// Returns an empty slice for empty source (valid input, no tokens).
func (t *Tokenizer) Tokenize(language, source string) []changediff.Token {
	if source == "" {
		return []changediff.Token{}
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}

	// Coalesce for better performance with consecutive tokens of the same type
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil
	}

	var tokens []changediff.Token
	for token := iterator(); token != chroma.EOF; token = iterator() {
		tokens = append(tokens, changediff.Token{
			Text:  token.Value,
			Style: t.style(token.Type),
		})
	}

	return tokens
}

// TokenizeLines tokenizes the whole source at once, so multi-line
// constructs such as block comments keep their style, then splits the
// tokens at newlines. The result has one entry per source line.
func (t *Tokenizer) TokenizeLines(language, source string) [][]changediff.Token {
	if source == "" {
		return [][]changediff.Token{}
	}

	tokens := t.Tokenize(language, source)
	if tokens == nil {
		return nil
	}

	want := strings.Count(source, "\n") + 1
	lines := make([][]changediff.Token, 1, want)
	for _, tok := range tokens {
		parts := strings.Split(tok.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], changediff.Token{Text: part, Style: tok.Style})
			}
		}
	}

	// Lexers may append a trailing newline to the source.
	if len(lines) > want {
		lines = lines[:want]
	}
	for len(lines) < want {
		lines = append(lines, nil)
	}
	return lines
}

// StyleFromPalette returns a style function coloring tokens from a palette.
func StyleFromPalette(p lipgloss.Palette) StyleFunc {
	return func(tt chroma.TokenType) changediff.Style {
		switch {
		case tt.InCategory(chroma.Keyword):
			return changediff.Style{Foreground: p.Keyword, Bold: true}
		case tt.InCategory(chroma.Comment):
			return changediff.Style{Foreground: p.Comment}
		case tt.InSubCategory(chroma.LiteralString):
			return changediff.Style{Foreground: p.String}
		case tt.InSubCategory(chroma.LiteralNumber):
			return changediff.Style{Foreground: p.Number}
		case tt.InCategory(chroma.Operator):
			return changediff.Style{Foreground: p.Operator}
		case tt == chroma.NameBuiltin || tt == chroma.NameBuiltinPseudo:
			return changediff.Style{Foreground: p.Builtin}
		case tt == chroma.NameFunction || tt == chroma.NameFunctionMagic:
			return changediff.Style{Foreground: p.Function}
		case tt.InCategory(chroma.Name):
			return changediff.Style{Foreground: p.Name}
		default:
			return changediff.Style{}
		}
	}
}

// LanguageDetector maps file paths to chroma lexer names.
type LanguageDetector struct{}

// NewLanguageDetector creates a new path based detector.
func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{}
}

// DetectFromPath returns the lexer name matching the file name, or an empty
// string when no lexer claims it.
func (d *LanguageDetector) DetectFromPath(path string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}
