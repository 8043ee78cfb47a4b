package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/fwojciec/changediff"
)

// QueryFunc fetches one page of file diffs. first is the page size and after
// the end cursor of the previous page, nil for the first page.
type QueryFunc func(ctx context.Context, first int, after *string) (*changediff.FileDiffConnection, error)

// ConnectionConfig configures a FileDiffConnection.
type ConnectionConfig struct {
	Noun       string
	PluralNoun string
	PageSize   int

	// CursorPaging appends each page fetched after the previous end cursor.
	// Without it every load requests a larger first page and replaces the list.
	CursorPaging bool

	// NoSummaryIfAllNodesVisible hides the count summary once nothing is
	// left to load.
	NoSummaryIfAllNodesVisible bool

	LineNumbers bool

	// PersistLines enables line selection, kept across reloads.
	PersistLines bool
}

// PageMsg carries the result of one page fetch back to the list that issued
// it. Results for an older generation are dropped.
type PageMsg struct {
	ListID     int64
	Generation int
	Append     bool
	Conn       *changediff.FileDiffConnection
	Err        error
}

// FileDiffConnection is a paginated list of file diffs.
type FileDiffConnection struct {
	id     int64
	cfg    ConnectionConfig
	query  QueryFunc
	render fileDiffRenderer

	gen        int
	first      int
	loading    bool
	fetched    bool
	nodes      []changediff.FileDiff
	totalCount *int
	pageInfo   changediff.PageInfo
	diffStat   changediff.DiffStat
	err        error
	spinner    spinner.Model
	selected   *LineRef
}

// NewFileDiffConnection returns an empty list. Nothing is fetched until Fetch.
func NewFileDiffConnection(query QueryFunc, cfg ConnectionConfig, opts ...Option) FileDiffConnection {
	return newFileDiffConnection(query, cfg, newFileDiffRenderer(newConfig(opts)))
}

func newFileDiffConnection(query QueryFunc, cfg ConnectionConfig, r fileDiffRenderer) FileDiffConnection {
	if cfg.PageSize <= 0 {
		cfg.PageSize = ComparisonPageSize
	}
	if cfg.Noun == "" {
		cfg.Noun, cfg.PluralNoun = "changed file", "changed files"
	}
	return FileDiffConnection{
		id:     nextID(),
		cfg:    cfg,
		query:  query,
		render: r,
		first:  cfg.PageSize,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(r.styles.info),
		),
	}
}

// Fetch discards the list and requests the first page.
func (c FileDiffConnection) Fetch(ctx context.Context) (FileDiffConnection, tea.Cmd) {
	c = c.Reset()
	c.loading = true
	return c, c.request(ctx, c.first, nil, false)
}

// LoadMore requests the next page. It does nothing while a request is in
// flight or when the last page has been loaded.
func (c FileDiffConnection) LoadMore(ctx context.Context) (FileDiffConnection, tea.Cmd) {
	if c.loading || !c.pageInfo.HasNextPage {
		return c, nil
	}
	c.loading = true
	c.err = nil
	if c.cfg.CursorPaging {
		return c, c.request(ctx, c.cfg.PageSize, c.pageInfo.EndCursor, true)
	}
	c.first += c.cfg.PageSize
	return c, c.request(ctx, c.first, nil, false)
}

// Reset clears the list and drops every response still in flight. The line
// selection is kept.
func (c FileDiffConnection) Reset() FileDiffConnection {
	c.gen++
	c.first = c.cfg.PageSize
	c.loading = false
	c.fetched = false
	c.nodes = nil
	c.totalCount = nil
	c.pageInfo = changediff.PageInfo{}
	c.diffStat = changediff.DiffStat{}
	c.err = nil
	return c
}

// withQuery binds another query. Requests already issued keep the old one.
func (c FileDiffConnection) withQuery(q QueryFunc) FileDiffConnection {
	c.query = q
	return c
}

func (c FileDiffConnection) request(ctx context.Context, first int, after *string, appendPage bool) tea.Cmd {
	id, gen, query := c.id, c.gen, c.query
	fetch := func() tea.Msg {
		conn, err := query(ctx, first, after)
		if err == nil && conn == nil {
			err = changediff.ErrNoData
		}
		return PageMsg{ListID: id, Generation: gen, Append: appendPage, Conn: conn, Err: err}
	}
	return tea.Batch(fetch, c.spinner.Tick)
}

// Update applies page results addressed to this list.
func (c FileDiffConnection) Update(msg tea.Msg) (FileDiffConnection, tea.Cmd) {
	switch msg := msg.(type) {
	case PageMsg:
		if msg.ListID != c.id || msg.Generation != c.gen {
			return c, nil
		}
		c.loading = false
		c.fetched = true
		if msg.Err != nil {
			c.err = msg.Err
			return c, nil
		}
		if msg.Append {
			c.nodes = append(c.nodes, msg.Conn.Nodes...)
		} else {
			c.nodes = append([]changediff.FileDiff(nil), msg.Conn.Nodes...)
		}
		c.totalCount = msg.Conn.TotalCount
		c.pageInfo = msg.Conn.PageInfo
		c.diffStat = msg.Conn.DiffStat
		return c, nil
	case spinner.TickMsg:
		if !c.loading {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}
	return c, nil
}

// Nodes returns the file diffs loaded so far.
func (c FileDiffConnection) Nodes() []changediff.FileDiff { return c.nodes }

// Loading reports whether a request is in flight.
func (c FileDiffConnection) Loading() bool { return c.loading }

// Err returns the error of the last request.
func (c FileDiffConnection) Err() error { return c.err }

// HasNextPage reports whether more file diffs can be loaded.
func (c FileDiffConnection) HasNextPage() bool { return c.pageInfo.HasNextPage }

// TotalCount returns the total reported by the last page.
func (c FileDiffConnection) TotalCount() *int { return c.totalCount }

// DiffStat returns the aggregate stat reported by the last page.
func (c FileDiffConnection) DiffStat() changediff.DiffStat { return c.diffStat }

// Selected returns the selected line, if any.
func (c FileDiffConnection) Selected() *LineRef { return c.selected }

// SelectNext moves the line selection down by one line.
func (c FileDiffConnection) SelectNext() FileDiffConnection { return c.moveSelection(1) }

// SelectPrev moves the line selection up by one line.
func (c FileDiffConnection) SelectPrev() FileDiffConnection { return c.moveSelection(-1) }

func (c FileDiffConnection) moveSelection(delta int) FileDiffConnection {
	if !c.cfg.PersistLines {
		return c
	}
	refs := c.lineRefs()
	if len(refs) == 0 {
		return c
	}
	i := -1
	if c.selected != nil {
		for j, ref := range refs {
			if ref == *c.selected {
				i = j
				break
			}
		}
	}
	switch {
	case i < 0:
		i = 0
	default:
		i = min(max(i+delta, 0), len(refs)-1)
	}
	ref := refs[i]
	c.selected = &ref
	return c
}

func (c FileDiffConnection) lineRefs() []LineRef {
	var refs []LineRef
	for _, fd := range c.nodes {
		key := FileKey(fd)
		for hi, h := range fd.Hunks {
			for li := range h.Lines {
				refs = append(refs, LineRef{File: key, Hunk: hi, Line: li})
			}
		}
	}
	return refs
}

// View renders the loaded file diffs followed by the list status.
func (c FileDiffConnection) View(width int) string {
	s := c.render.styles
	opts := FileDiffOptions{LineNumbers: c.cfg.LineNumbers, Width: width}
	if c.cfg.PersistLines {
		opts.Selected = c.selected
	}

	var parts []string
	for _, fd := range c.nodes {
		parts = append(parts, c.render.render(fd, opts))
	}
	if c.loading {
		parts = append(parts, c.spinner.View()+" "+s.muted.Render("Loading "+c.cfg.PluralNoun+"…"))
	}
	if c.err != nil {
		parts = append(parts, s.errorText.Render(errorLines(c.err)))
	}
	if summary := c.summary(); summary != "" {
		parts = append(parts, s.muted.Render(summary))
	}
	if c.pageInfo.HasNextPage && !c.loading {
		parts = append(parts, s.info.Render("Show more (m)"))
	}
	return strings.Join(parts, "\n")
}

func (c FileDiffConnection) summary() string {
	if c.loading || !c.fetched || c.err != nil {
		return ""
	}
	count := len(c.nodes)
	if count == 0 && !c.pageInfo.HasNextPage {
		return "No " + c.cfg.PluralNoun + "."
	}
	allVisible := !c.pageInfo.HasNextPage && (c.totalCount == nil || *c.totalCount == count)
	if allVisible && c.cfg.NoSummaryIfAllNodesVisible {
		return ""
	}
	if c.totalCount != nil {
		total := *c.totalCount
		s := humanize.Comma(int64(total)) + " " + c.noun(total) + " total"
		if count < total {
			s += fmt.Sprintf(" (showing first %s)", humanize.Comma(int64(count)))
		}
		return s
	}
	return fmt.Sprintf("Showing first %s %s", humanize.Comma(int64(count)), c.noun(count))
}

func (c FileDiffConnection) noun(n int) string {
	if n == 1 {
		return c.cfg.Noun
	}
	return c.cfg.PluralNoun
}

// errorLines renders every message of an aggregate error on its own line.
func errorLines(err error) string {
	var agg *changediff.AggregateError
	if !errors.As(err, &agg) {
		return "Error: " + err.Error()
	}
	msgs := agg.Messages()
	for i, m := range msgs {
		msgs[i] = "Error: " + m
	}
	return strings.Join(msgs, "\n")
}
