// Package gitdiff parses unified diffs using bluekeyes/go-gitdiff.
package gitdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/changediff"
)

// Compile-time interface verification.
var (
	_ changediff.Parser     = (*Parser)(nil)
	_ changediff.HunkParser = (*Parser)(nil)
)

// Parser converts go-gitdiff output into domain types.
type Parser struct{}

// NewParser creates a new go-gitdiff backed parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a unified diff, as produced by git diff, and returns its files.
func (p *Parser) Parse(r io.Reader) (*changediff.Diff, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	diff := &changediff.Diff{Files: make([]changediff.FileDiff, 0, len(files))}
	for _, f := range files {
		diff.Files = append(diff.Files, convertFile(f))
	}
	return diff, nil
}

// ParseHunk numbers and classifies the lines of a hunk's raw body. The body
// holds prefixed lines without the @@ header.
func (p *Parser) ParseHunk(h changediff.Hunk) ([]changediff.Line, error) {
	if h.Body == "" {
		return nil, nil
	}

	// go-gitdiff only parses whole patches, so wrap the body in a minimal one.
	var sb strings.Builder
	sb.WriteString("diff --git a/f b/f\n--- a/f\n+++ b/f\n")
	fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@", h.OldRange.StartLine, h.OldRange.Lines, h.NewRange.StartLine, h.NewRange.Lines)
	if h.Section != "" {
		sb.WriteString(" " + h.Section)
	}
	sb.WriteString("\n")
	sb.WriteString(h.Body)
	if !strings.HasSuffix(h.Body, "\n") {
		sb.WriteString("\n")
	}

	files, _, err := gitdiff.Parse(strings.NewReader(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("parse hunk: %w", err)
	}
	if len(files) != 1 || len(files[0].TextFragments) != 1 {
		return nil, fmt.Errorf("parse hunk: expected one fragment")
	}
	return convertFragment(files[0].TextFragments[0]).Lines, nil
}

func convertFile(f *gitdiff.File) changediff.FileDiff {
	fd := changediff.FileDiff{
		OldPath:  f.OldName,
		NewPath:  f.NewName,
		IsBinary: f.IsBinary,
	}
	if f.IsNew {
		fd.OldPath = ""
	}
	if f.IsDelete {
		fd.NewPath = ""
	}
	for _, frag := range f.TextFragments {
		fd.Hunks = append(fd.Hunks, convertFragment(frag))
	}
	fd.Stat = changediff.ComputeStat(fd.Hunks)
	return fd
}

func convertFragment(frag *gitdiff.TextFragment) changediff.Hunk {
	h := changediff.Hunk{
		OldRange: changediff.HunkRange{StartLine: int(frag.OldPosition), Lines: int(frag.OldLines)},
		NewRange: changediff.HunkRange{StartLine: int(frag.NewPosition), Lines: int(frag.NewLines)},
		Section:  strings.TrimSpace(frag.Comment),
		Lines:    make([]changediff.Line, 0, len(frag.Lines)),
	}

	var body strings.Builder
	oldNum := int(frag.OldPosition)
	newNum := int(frag.NewPosition)
	for _, l := range frag.Lines {
		line := changediff.Line{
			Content:   strings.TrimSuffix(l.Line, "\n"),
			NoNewline: l.NoEOL(),
		}
		switch l.Op {
		case gitdiff.OpAdd:
			line.Type = changediff.LineAdded
			line.NewLineNum = newNum
			newNum++
		case gitdiff.OpDelete:
			line.Type = changediff.LineDeleted
			line.OldLineNum = oldNum
			oldNum++
			if line.NoNewline {
				h.OldNoNewlineAt = true
			}
		default:
			line.Type = changediff.LineContext
			line.OldLineNum = oldNum
			line.NewLineNum = newNum
			oldNum++
			newNum++
		}
		h.Lines = append(h.Lines, line)
		body.WriteString(l.Op.String())
		body.WriteString(line.Content)
		body.WriteString("\n")
	}
	h.Body = body.String()
	return h
}
