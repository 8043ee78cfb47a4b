package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/changediff"
	"github.com/fwojciec/changediff/bubbletea"
	dv "github.com/fwojciec/changediff/lipgloss"
	"github.com/stretchr/testify/assert"
)

func modifiedFile() changediff.FileDiff {
	return changediff.FileDiff{
		OldPath: "handler.go",
		NewPath: "handler.go",
		Stat:    changediff.DiffStat{Added: 4, Deleted: 2},
		Hunks: []changediff.Hunk{
			{
				OldRange: changediff.HunkRange{StartLine: 10, Lines: 3},
				NewRange: changediff.HunkRange{StartLine: 10, Lines: 5},
				Section:  "func Example",
				Lines: []changediff.Line{
					{Type: changediff.LineContext, Content: "unchanged", OldLineNum: 10, NewLineNum: 10},
					{Type: changediff.LineDeleted, Content: "removed", OldLineNum: 11},
					{Type: changediff.LineAdded, Content: "added", NewLineNum: 11},
				},
			},
		},
	}
}

func TestRenderFileDiff_RendersFileHeader(t *testing.T) {
	t.Parallel()

	out := bubbletea.RenderFileDiff(modifiedFile(), bubbletea.FileDiffOptions{Width: 60},
		bubbletea.WithRenderer(plainRenderer()))
	header := strings.Split(out, "\n")[0]

	assert.True(t, strings.HasPrefix(header, "── handler.go"))
	assert.Contains(t, header, "+4 ~0 -2")
	assert.Equal(t, 60, bubbletea.DisplayWidth(header), "header rule fills the width")
}

func TestRenderFileDiff_RendersOperations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     changediff.FileDiff
		expected string
	}{
		{"added", changediff.FileDiff{NewPath: "new.go"}, "new.go (added)"},
		{"deleted", changediff.FileDiff{OldPath: "old.go"}, "old.go (deleted)"},
		{"renamed", changediff.FileDiff{OldPath: "a.go", NewPath: "b.go"}, "a.go → b.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := bubbletea.RenderFileDiff(tt.file, bubbletea.FileDiffOptions{},
				bubbletea.WithRenderer(plainRenderer()))
			assert.Contains(t, out, tt.expected)
		})
	}
}

func TestRenderFileDiff_RendersHunkHeaders(t *testing.T) {
	t.Parallel()

	out := bubbletea.RenderFileDiff(modifiedFile(), bubbletea.FileDiffOptions{},
		bubbletea.WithRenderer(plainRenderer()))

	assert.Contains(t, out, "@@ -10,3 +10,5 @@ func Example")
}

func TestRenderFileDiff_RendersLinePrefixes(t *testing.T) {
	t.Parallel()

	out := bubbletea.RenderFileDiff(modifiedFile(), bubbletea.FileDiffOptions{},
		bubbletea.WithRenderer(plainRenderer()))

	assert.Contains(t, out, " unchanged")
	assert.Contains(t, out, "-removed")
	assert.Contains(t, out, "+added")
}

func TestRenderFileDiff_RendersLineNumbersInGutter(t *testing.T) {
	t.Parallel()

	out := bubbletea.RenderFileDiff(modifiedFile(), bubbletea.FileDiffOptions{LineNumbers: true},
		bubbletea.WithRenderer(plainRenderer()))

	assert.Contains(t, out, "  10   10  unchanged")
	assert.Contains(t, out, "  11      -removed")
	assert.Contains(t, out, "       11 +added")
}

func TestRenderFileDiff_AppliesColors(t *testing.T) {
	t.Parallel()

	out := bubbletea.RenderFileDiff(modifiedFile(), bubbletea.FileDiffOptions{},
		bubbletea.WithTheme(dv.TestTheme()),
		bubbletea.WithRenderer(trueColorRenderer()))

	assert.Contains(t, out, "38;2;0;255;0", "added foreground")
	assert.Contains(t, out, "48;2;0;51;0", "added background")
	assert.Contains(t, out, "38;2;255;0;0", "deleted foreground")
	assert.Contains(t, out, "48;2;51;0;0", "deleted background")
}

func TestRenderFileDiff_GutterHasColoredBackground(t *testing.T) {
	t.Parallel()

	out := bubbletea.RenderFileDiff(modifiedFile(), bubbletea.FileDiffOptions{LineNumbers: true},
		bubbletea.WithTheme(dv.TestTheme()),
		bubbletea.WithRenderer(trueColorRenderer()))

	assert.Contains(t, out, "48;2;0;102;0", "added gutter background")
	assert.Contains(t, out, "48;2;102;0;0", "deleted gutter background")
}

func TestRenderFileDiff_BackgroundExtendsFullWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"ascii", "short"},
		{"unicode", "日本語"},
		{"tabs", "\tindented"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fd := changediff.FileDiff{
				OldPath: "f.txt",
				NewPath: "f.txt",
				Hunks: []changediff.Hunk{{
					OldRange: changediff.HunkRange{StartLine: 1},
					NewRange: changediff.HunkRange{StartLine: 1, Lines: 1},
					Lines:    []changediff.Line{{Type: changediff.LineAdded, Content: tt.content, NewLineNum: 1}},
				}},
			}
			out := bubbletea.RenderFileDiff(fd, bubbletea.FileDiffOptions{Width: 40},
				bubbletea.WithRenderer(plainRenderer()))
			lines := strings.Split(out, "\n")
			added := lines[len(lines)-1]

			assert.True(t, strings.HasPrefix(added, "+"))
			assert.NotContains(t, added, "\t")
			assert.Equal(t, 40, bubbletea.DisplayWidth(added))
		})
	}
}

func TestRenderFileDiff_HighlightsSelectedLine(t *testing.T) {
	t.Parallel()

	fd := modifiedFile()
	selected := &bubbletea.LineRef{File: "handler.go", Hunk: 0, Line: 0}

	plain := bubbletea.RenderFileDiff(fd, bubbletea.FileDiffOptions{},
		bubbletea.WithTheme(dv.TestTheme()), bubbletea.WithRenderer(trueColorRenderer()))
	out := bubbletea.RenderFileDiff(fd, bubbletea.FileDiffOptions{Selected: selected},
		bubbletea.WithTheme(dv.TestTheme()), bubbletea.WithRenderer(trueColorRenderer()))

	assert.NotContains(t, plain, "48;2;68;68;0")
	assert.Contains(t, out, "48;2;68;68;0", "selected line background")
}

func TestRenderFileDiff_FallsBackToRawBody(t *testing.T) {
	t.Parallel()

	fd := changediff.FileDiff{
		OldPath: "raw.txt",
		NewPath: "raw.txt",
		Hunks: []changediff.Hunk{{
			OldRange: changediff.HunkRange{StartLine: 1, Lines: 1},
			NewRange: changediff.HunkRange{StartLine: 1, Lines: 1},
			Body:     "-before\n+after\n",
		}},
	}
	out := bubbletea.RenderFileDiff(fd, bubbletea.FileDiffOptions{},
		bubbletea.WithRenderer(plainRenderer()))

	assert.Contains(t, out, "-before")
	assert.Contains(t, out, "+after")
}

func TestRenderFileDiff_ShowsBinaryFiles(t *testing.T) {
	t.Parallel()

	fd := changediff.FileDiff{OldPath: "logo.png", NewPath: "logo.png", IsBinary: true}
	out := bubbletea.RenderFileDiff(fd, bubbletea.FileDiffOptions{},
		bubbletea.WithRenderer(plainRenderer()))

	assert.Contains(t, out, "logo.png")
	assert.Contains(t, out, "Binary file not shown.")
}

func TestRenderFileDiff_ShowsMissingNewline(t *testing.T) {
	t.Parallel()

	fd := modifiedFile()
	fd.Hunks[0].Lines[2].NoNewline = true
	out := bubbletea.RenderFileDiff(fd, bubbletea.FileDiffOptions{},
		bubbletea.WithRenderer(plainRenderer()))

	assert.Contains(t, out, `\ No newline at end of file`)
}

func TestRenderFileDiff_AppliesSyntaxHighlighting(t *testing.T) {
	t.Parallel()

	fd := changediff.FileDiff{
		OldPath: "main.go",
		NewPath: "main.go",
		Hunks: []changediff.Hunk{{
			OldRange: changediff.HunkRange{StartLine: 1, Lines: 1},
			NewRange: changediff.HunkRange{StartLine: 1, Lines: 2},
			Lines: []changediff.Line{
				{Type: changediff.LineContext, Content: "package main", OldLineNum: 1, NewLineNum: 1},
				{Type: changediff.LineAdded, Content: "func main() {}", NewLineNum: 2},
			},
		}},
	}

	var sources []string
	tokenizer := &mockTokenizer{
		TokenizeLinesFn: func(language, source string) [][]changediff.Token {
			sources = append(sources, source)
			if language != "Go" || source != "package main\nfunc main() {}" {
				return nil
			}
			return [][]changediff.Token{
				{
					{Text: "package", Style: changediff.Style{Foreground: "#ff00ff", Bold: true}},
					{Text: " main"},
				},
				{
					{Text: "func", Style: changediff.Style{Foreground: "#ff00ff", Bold: true}},
					{Text: " "},
					{Text: "main", Style: changediff.Style{Foreground: "#0000ff"}},
					{Text: "() {}"},
				},
			}
		},
	}
	detector := &mockLanguageDetector{
		DetectFromPathFn: func(path string) string {
			if strings.HasSuffix(path, ".go") {
				return "Go"
			}
			return ""
		},
	}

	out := bubbletea.RenderFileDiff(fd, bubbletea.FileDiffOptions{},
		bubbletea.WithTheme(dv.TestTheme()),
		bubbletea.WithRenderer(trueColorRenderer()),
		bubbletea.WithLanguageDetector(detector),
		bubbletea.WithTokenizer(tokenizer),
	)

	assert.Equal(t, []string{"package main", "package main\nfunc main() {}"}, sources,
		"old and new sides are tokenized separately")
	assert.Contains(t, out, "38;2;255;0;255", "keyword color")
	assert.Contains(t, out, "38;2;0;0;255", "function name color")
	assert.Contains(t, out, "package")
}

func TestRenderFileDiff_SkipsHighlightingWhenServerAborted(t *testing.T) {
	t.Parallel()

	fd := changediff.FileDiff{
		OldPath: "main.go",
		NewPath: "main.go",
		Hunks: []changediff.Hunk{
			{
				OldRange: changediff.HunkRange{StartLine: 1, Lines: 1},
				NewRange: changediff.HunkRange{StartLine: 1, Lines: 1},
				Lines:    []changediff.Line{{Type: changediff.LineContext, Content: "package main", OldLineNum: 1, NewLineNum: 1}},
			},
			{
				OldRange:         changediff.HunkRange{StartLine: 90, Lines: 1},
				NewRange:         changediff.HunkRange{StartLine: 90, Lines: 1},
				HighlightAborted: true,
				Lines:            []changediff.Line{{Type: changediff.LineContext, Content: "var huge = 1", OldLineNum: 90, NewLineNum: 90}},
			},
		},
	}

	var sources []string
	tokenizer := &mockTokenizer{
		TokenizeLinesFn: func(_, source string) [][]changediff.Token {
			sources = append(sources, source)
			return nil
		},
	}
	detector := &mockLanguageDetector{
		DetectFromPathFn: func(string) string { return "Go" },
	}

	out := bubbletea.RenderFileDiff(fd, bubbletea.FileDiffOptions{},
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithLanguageDetector(detector),
		bubbletea.WithTokenizer(tokenizer),
	)

	assert.Equal(t, []string{"package main", "package main"}, sources, "only the first hunk is tokenized")
	assert.Contains(t, out, "var huge = 1")
}
