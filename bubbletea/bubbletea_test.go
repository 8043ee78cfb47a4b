package bubbletea_test

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/changediff"
	"github.com/muesli/termenv"
)

// trueColorRenderer creates a lipgloss renderer that outputs true colors.
// This is useful for testing color output without affecting global state.
func trueColorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// plainRenderer creates a renderer that emits no escape sequences, so views
// can be compared as plain text.
func plainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

// extractLastLine returns the last non-empty line from the output.
func extractLastLine(s string) string {
	lines := bytes.Split([]byte(s), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 {
			return string(lines[i])
		}
	}
	return ""
}

// runCmd executes cmd and any batched commands, returning the messages they
// produce. Spinner ticks are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range msg {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	case spinner.TickMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// mockTokenizer implements changediff.Tokenizer for testing.
type mockTokenizer struct {
	TokenizeFn      func(language, source string) []changediff.Token
	TokenizeLinesFn func(language, source string) [][]changediff.Token
}

func (m *mockTokenizer) Tokenize(language, source string) []changediff.Token {
	return m.TokenizeFn(language, source)
}

func (m *mockTokenizer) TokenizeLines(language, source string) [][]changediff.Token {
	return m.TokenizeLinesFn(language, source)
}

// mockLanguageDetector implements changediff.LanguageDetector for testing.
type mockLanguageDetector struct {
	DetectFromPathFn func(path string) string
}

func (m *mockLanguageDetector) DetectFromPath(path string) string {
	return m.DetectFromPathFn(path)
}

// recorder records the arguments of every fetch.
type recorder[T any] struct {
	mu    sync.Mutex
	calls []T
}

func (r *recorder[T]) record(args T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
}

func (r *recorder[T]) Calls() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.calls...)
}

// specDiffService answers with numbered pages of files, count files in all.
func specDiffService(count int, rec *recorder[changediff.ChangesetSpecFileDiffsArgs]) changediff.ChangesetSpecFileDiffsFunc {
	return func(_ context.Context, args changediff.ChangesetSpecFileDiffsArgs) (*changediff.FileDiffConnection, error) {
		rec.record(args)
		start := 0
		if args.After != nil {
			start, _ = strconv.Atoi(*args.After)
		}
		return page(start, args.First, count), nil
	}
}

// page returns files start..start+first of a list of count files.
func page(start, first, count int) *changediff.FileDiffConnection {
	end := min(start+first, count)
	conn := &changediff.FileDiffConnection{TotalCount: &count}
	for i := start; i < end; i++ {
		conn.Nodes = append(conn.Nodes, fileDiff("file"+strconv.Itoa(i)+".go"))
	}
	if end < count {
		cursor := strconv.Itoa(end)
		conn.PageInfo = changediff.PageInfo{HasNextPage: true, EndCursor: &cursor}
	}
	return conn
}

func fileDiff(path string) changediff.FileDiff {
	return changediff.FileDiff{
		OldPath: path,
		NewPath: path,
		Stat:    changediff.DiffStat{Added: 1, Deleted: 1},
		Hunks: []changediff.Hunk{
			{
				OldRange: changediff.HunkRange{StartLine: 1, Lines: 2},
				NewRange: changediff.HunkRange{StartLine: 1, Lines: 2},
				Lines: []changediff.Line{
					{Type: changediff.LineContext, Content: "package main", OldLineNum: 1, NewLineNum: 1},
					{Type: changediff.LineDeleted, Content: "var x = 1", OldLineNum: 2},
					{Type: changediff.LineAdded, Content: "var x = 2", NewLineNum: 2},
				},
			},
		},
	}
}

func branchSpec() changediff.ChangesetSpec {
	return changediff.ChangesetSpec{
		ID: "spec-1",
		Description: changediff.GitBranchChangesetDescription{
			BaseRepository: changediff.Repository{ID: "repo-1", Name: "github.com/acme/web"},
			BaseRef:        "main",
			HeadRef:        "bump-deps",
			Title:          "Bump dependencies",
			DiffStat:       changediff.DiffStat{Added: 3, Changed: 1, Deleted: 2},
			Commits: []changediff.GitCommitDescription{
				{Subject: "Bump lodash", AuthorName: "Ada", AuthorEmail: "ada@example.com"},
			},
		},
	}
}

func importSpec() changediff.ChangesetSpec {
	return changediff.ChangesetSpec{
		ID: "spec-2",
		Description: changediff.ExistingChangesetReference{
			BaseRepository: changediff.Repository{ID: "repo-2", Name: "github.com/acme/api"},
			ExternalID:     "1234",
		},
	}
}
