package bubbletea

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/changediff"
)

// ChangesetSpecNode is an expandable row for one changeset spec. Branch
// descriptions fetch their file diffs only while expanded; import
// references never fetch.
type ChangesetSpecNode struct {
	spec     changediff.ChangesetSpec
	expanded bool
	light    bool
	styles   styles
	list     FileDiffConnection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewChangesetSpecNode returns a row for spec, collapsed unless WithExpanded
// is given.
func NewChangesetSpecNode(spec changediff.ChangesetSpec, opts ...Option) ChangesetSpecNode {
	cfg := newConfig(opts)
	ctx, cancel := context.WithCancel(context.Background())
	n := ChangesetSpecNode{
		spec:     spec,
		expanded: cfg.expanded,
		light:    cfg.theme.IsLight(),
		styles:   newStyles(cfg.theme, cfg.renderer),
		ctx:      ctx,
		cancel:   cancel,
	}
	if _, ok := spec.Description.(changediff.GitBranchChangesetDescription); ok {
		n.list = newFileDiffConnection(n.query(cfg.specDiffs), ConnectionConfig{
			Noun:                       "changed file",
			PluralNoun:                 "changed files",
			PageSize:                   ChangesetSpecPageSize,
			CursorPaging:               true,
			NoSummaryIfAllNodesVisible: true,
			LineNumbers:                cfg.lineNumbers,
			PersistLines:               true,
		}, newFileDiffRenderer(cfg))
	}
	return n
}

func (n ChangesetSpecNode) query(svc changediff.ChangesetSpecDiffService) QueryFunc {
	id, light := n.spec.ID, n.light
	return func(ctx context.Context, first int, after *string) (*changediff.FileDiffConnection, error) {
		if svc == nil {
			return nil, fmt.Errorf("changeset spec %s: no diff service", id)
		}
		return svc.ChangesetSpecFileDiffs(ctx, changediff.ChangesetSpecFileDiffsArgs{
			ChangesetSpec: id,
			First:         first,
			After:         after,
			IsLightTheme:  light,
		})
	}
}

// Start mounts the row. A row that starts expanded requests its first page.
func (n ChangesetSpecNode) Start() (ChangesetSpecNode, tea.Cmd) {
	if !n.expanded || !n.fetches() {
		return n, nil
	}
	var cmd tea.Cmd
	n.list, cmd = n.list.Fetch(n.ctx)
	return n, cmd
}

func (n ChangesetSpecNode) fetches() bool {
	_, ok := n.spec.Description.(changediff.GitBranchChangesetDescription)
	return ok
}

// Spec returns the row's changeset spec.
func (n ChangesetSpecNode) Spec() changediff.ChangesetSpec { return n.spec }

// Expanded reports whether the row is expanded.
func (n ChangesetSpecNode) Expanded() bool { return n.expanded }

// List returns the row's file diff list.
func (n ChangesetSpecNode) List() FileDiffConnection { return n.list }

// Toggle expands or collapses the row. Expanding a branch description
// fetches its first page; collapsing drops the list.
func (n ChangesetSpecNode) Toggle() (ChangesetSpecNode, tea.Cmd) {
	n.expanded = !n.expanded
	if !n.fetches() {
		return n, nil
	}
	if !n.expanded {
		n.list = n.list.Reset()
		return n, nil
	}
	var cmd tea.Cmd
	n.list, cmd = n.list.Fetch(n.ctx)
	return n, cmd
}

// LoadMore requests the next page of an expanded row.
func (n ChangesetSpecNode) LoadMore() (ChangesetSpecNode, tea.Cmd) {
	if !n.expanded || !n.fetches() {
		return n, nil
	}
	var cmd tea.Cmd
	n.list, cmd = n.list.LoadMore(n.ctx)
	return n, cmd
}

// SelectNextLine moves the line selection of an expanded row down.
func (n ChangesetSpecNode) SelectNextLine() ChangesetSpecNode {
	if n.expanded {
		n.list = n.list.SelectNext()
	}
	return n
}

// SelectPrevLine moves the line selection of an expanded row up.
func (n ChangesetSpecNode) SelectPrevLine() ChangesetSpecNode {
	if n.expanded {
		n.list = n.list.SelectPrev()
	}
	return n
}

// Update routes page results to the row's list.
func (n ChangesetSpecNode) Update(msg tea.Msg) (ChangesetSpecNode, tea.Cmd) {
	if !n.fetches() || n.ctx.Err() != nil {
		return n, nil
	}
	var cmd tea.Cmd
	n.list, cmd = n.list.Update(msg)
	return n, cmd
}

// Close cancels requests in flight. The row ignores results afterwards.
func (n ChangesetSpecNode) Close() {
	n.cancel()
}

// View renders the header and, when expanded, the body.
func (n ChangesetSpecNode) View(width int) string {
	header := n.header()
	if !n.expanded {
		return header
	}
	return header + "\n" + n.body(width)
}

func (n ChangesetSpecNode) header() string {
	s := n.styles
	toggle := "▸"
	if n.expanded {
		toggle = "▾"
	}
	repo := n.spec.Description.Repository()

	first := s.cursor.Render(toggle) + " " +
		s.action.Render(string(n.spec.Action())) + " " +
		s.title.Render(n.spec.Title())

	second := "  " + s.muted.Render(repo.Name)
	if d, ok := n.spec.Description.(changediff.GitBranchChangesetDescription); ok {
		second += "  " + s.badge.Render(d.BaseRef) + " ← " + s.badge.Render(d.HeadRef) + "\n" +
			indent(s.renderDiffStat(d.DiffStat, DiffStatOptions{ExpandedCounts: true, SeparateLines: true}), 2)
	}
	return first + "\n" + second
}

func (n ChangesetSpecNode) body(width int) string {
	s := n.styles
	switch d := n.spec.Description.(type) {
	case changediff.ExistingChangesetReference:
		return indent(s.info.Render(ImportNotice(d)), 2)
	case changediff.GitBranchChangesetDescription:
		var b strings.Builder
		if d.Body != "" {
			b.WriteString(d.Body)
			b.WriteString("\n\n")
		}
		b.WriteString(s.heading.Render("Commits"))
		for _, c := range d.Commits {
			b.WriteString("\n")
			b.WriteString(s.title.Render(c.Subject))
			if c.AuthorName != "" {
				b.WriteString(" ")
				b.WriteString(s.muted.Render(fmt.Sprintf("%s <%s>", c.AuthorName, c.AuthorEmail)))
			}
			if c.Body != "" {
				b.WriteString("\n")
				b.WriteString(indent(c.Body, 2))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(s.heading.Render("Diff"))
		b.WriteString("\n")
		b.WriteString(n.list.View(max(width-2, 0)))
		return indent(b.String(), 2)
	default:
		return ""
	}
}

// ImportNotice is the notice shown for a changeset imported as is.
func ImportNotice(ref changediff.ExistingChangesetReference) string {
	return fmt.Sprintf("When run, the changeset with ID %s will be imported from %s.",
		ref.ExternalID, ref.BaseRepository.Name)
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}
