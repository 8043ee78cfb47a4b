package changediff

import "io"

// Parser parses diff content into domain types.
type Parser interface {
	// Parse reads diff content and returns the parsed result.
	Parse(r io.Reader) (*Diff, error)
}

// HunkParser fills in the typed lines of hunks that only carry a raw body.
type HunkParser interface {
	ParseHunk(h Hunk) ([]Line, error)
}
