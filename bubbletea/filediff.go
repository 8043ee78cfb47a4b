package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/changediff"
)

// gutterWidth is the width of one line number column.
const gutterWidth = 4

// LineRef identifies one diff line within a list of file diffs.
type LineRef struct {
	File string // see FileKey
	Hunk int
	Line int
}

// FileKey returns the key a file diff is tracked by: its server-assigned ID,
// or its path when it has none.
func FileKey(fd changediff.FileDiff) string {
	if fd.InternalID != "" {
		return fd.InternalID
	}
	return fd.Path()
}

// FileDiffOptions controls how a single file diff renders.
type FileDiffOptions struct {
	LineNumbers bool
	Selected    *LineRef
	Width       int // zero disables padding
}

type fileDiffRenderer struct {
	styles    styles
	tokenizer changediff.Tokenizer
	detector  changediff.LanguageDetector
}

func newFileDiffRenderer(cfg config) fileDiffRenderer {
	return fileDiffRenderer{
		styles:    newStyles(cfg.theme, cfg.renderer),
		tokenizer: cfg.tokenizer,
		detector:  cfg.detector,
	}
}

// RenderFileDiff renders one file diff: a header, then each hunk.
func RenderFileDiff(fd changediff.FileDiff, opts FileDiffOptions, options ...Option) string {
	return newFileDiffRenderer(newConfig(options)).render(fd, opts)
}

func (r fileDiffRenderer) render(fd changediff.FileDiff, opts FileDiffOptions) string {
	var b strings.Builder
	b.WriteString(r.header(fd, opts.Width))

	if fd.IsBinary {
		b.WriteString("\n")
		b.WriteString(r.styles.muted.Render("Binary file not shown."))
		return b.String()
	}

	language := ""
	if r.detector != nil {
		language = r.detector.DetectFromPath(fd.Path())
	}
	key := FileKey(fd)
	for hi, h := range fd.Hunks {
		b.WriteString("\n")
		b.WriteString(r.styles.hunkHeader.Render(hunkHeader(h)))
		if len(h.Lines) == 0 {
			r.writeRawBody(&b, h.Body, opts)
			continue
		}
		hunkLanguage := language
		if h.HighlightAborted {
			hunkLanguage = ""
		}
		tokens := r.tokenizeHunk(hunkLanguage, h.Lines)
		for li, l := range h.Lines {
			selected := opts.Selected != nil && *opts.Selected == LineRef{File: key, Hunk: hi, Line: li}
			b.WriteString("\n")
			b.WriteString(r.line(l, tokens[li], selected, opts))
			if l.NoNewline {
				b.WriteString("\n")
				b.WriteString(r.styles.muted.Render(`\ No newline at end of file`))
			}
		}
	}
	return b.String()
}

func (r fileDiffRenderer) header(fd changediff.FileDiff, width int) string {
	name := fd.Path()
	switch fd.Operation() {
	case changediff.FileRenamed:
		name = fd.OldPath + " → " + fd.NewPath
	case changediff.FileAdded:
		name += " (added)"
	case changediff.FileDeleted:
		name += " (deleted)"
	}
	head := r.styles.lineNumber.Render("── ") + r.styles.fileHeader.Render(name) + " " +
		r.styles.renderDiffStat(fd.Stat, DiffStatOptions{})
	if fill := width - lipgloss.Width(head) - 1; fill > 0 {
		head += " " + r.styles.lineNumber.Render(strings.Repeat("─", fill))
	}
	return head
}

func hunkHeader(h changediff.Hunk) string {
	s := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldRange.StartLine, h.OldRange.Lines, h.NewRange.StartLine, h.NewRange.Lines)
	if h.Section != "" {
		s += " " + h.Section
	}
	return s
}

// writeRawBody renders a hunk body that could not be split into lines,
// styling each line by its prefix.
func (r fileDiffRenderer) writeRawBody(b *strings.Builder, body string, opts FileDiffOptions) {
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return
	}
	for _, raw := range strings.Split(body, "\n") {
		style, pad := r.styles.context, false
		if raw != "" {
			switch raw[0] {
			case '+':
				style, pad = r.styles.added, true
			case '-':
				style, pad = r.styles.deleted, true
			case '\\':
				style = r.styles.muted
			}
		}
		text := expandTabs(raw, 0)
		if pad && opts.Width > 0 {
			text = padRight(text, opts.Width)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(text))
	}
}

// tokenizeHunk highlights the old and new sides of a hunk separately so the
// tokenizer sees contiguous source, then maps the tokens back to lines.
func (r fileDiffRenderer) tokenizeHunk(language string, lines []changediff.Line) [][]changediff.Token {
	out := make([][]changediff.Token, len(lines))
	if r.tokenizer == nil || language == "" {
		return out
	}
	var oldSrc, newSrc []string
	for _, l := range lines {
		switch l.Type {
		case changediff.LineAdded:
			newSrc = append(newSrc, l.Content)
		case changediff.LineDeleted:
			oldSrc = append(oldSrc, l.Content)
		default:
			oldSrc = append(oldSrc, l.Content)
			newSrc = append(newSrc, l.Content)
		}
	}
	oldTokens := r.tokenizer.TokenizeLines(language, strings.Join(oldSrc, "\n"))
	newTokens := r.tokenizer.TokenizeLines(language, strings.Join(newSrc, "\n"))
	at := func(tokens [][]changediff.Token, i int) []changediff.Token {
		if i < len(tokens) {
			return tokens[i]
		}
		return nil
	}

	var oi, ni int
	for i, l := range lines {
		switch l.Type {
		case changediff.LineAdded:
			out[i] = at(newTokens, ni)
			ni++
		case changediff.LineDeleted:
			out[i] = at(oldTokens, oi)
			oi++
		default:
			out[i] = at(newTokens, ni)
			oi++
			ni++
		}
	}
	return out
}

func (r fileDiffRenderer) line(l changediff.Line, tokens []changediff.Token, selected bool, opts FileDiffOptions) string {
	base, gutter, prefix := r.styles.context, r.styles.lineNumber, " "
	switch l.Type {
	case changediff.LineAdded:
		base, gutter, prefix = r.styles.added, r.styles.addedGutter, "+"
	case changediff.LineDeleted:
		base, gutter, prefix = r.styles.deleted, r.styles.deletedGutter, "-"
	}
	if selected {
		bg := r.styles.selectedLine.GetBackground()
		base = base.Background(bg)
		gutter = gutter.Background(bg)
	}

	var b strings.Builder
	col := 0
	if opts.LineNumbers {
		nums := lineNumber(l.OldLineNum) + " " + lineNumber(l.NewLineNum) + " "
		b.WriteString(gutter.Render(nums))
		col += len(nums)
	}
	b.WriteString(base.Render(prefix))
	col++

	contentStart := col
	if len(tokens) == 0 {
		text := expandTabs(l.Content, 0)
		b.WriteString(base.Render(text))
		col += DisplayWidth(text)
	} else {
		tcol := 0
		for _, tok := range tokens {
			text := expandTabs(tok.Text, tcol)
			tcol += DisplayWidth(text)
			style := base.Bold(tok.Style.Bold)
			if tok.Style.Foreground != "" {
				style = style.Foreground(lipgloss.Color(tok.Style.Foreground))
			}
			b.WriteString(style.Render(text))
		}
		col = contentStart + tcol
	}

	if opts.Width > col && (l.Type != changediff.LineContext || selected) {
		b.WriteString(base.Render(strings.Repeat(" ", opts.Width-col)))
	}
	return b.String()
}

func lineNumber(n int) string {
	if n == 0 {
		return strings.Repeat(" ", gutterWidth)
	}
	return fmt.Sprintf("%*d", gutterWidth, n)
}
