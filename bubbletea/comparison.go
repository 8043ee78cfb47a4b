package bubbletea

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/changediff"
)

// ErrNoComparisonService is returned by fetches of a page built without a
// comparison diff service.
var ErrNoComparisonService = errors.New("no comparison diff service")

// refreshMsg asks a comparison page to refetch for the identity it names.
type refreshMsg struct {
	pageID   int64
	identity changediff.ComparisonIdentity
}

// ComparisonPage lists the file diffs between two revisions. It fetches
// once on Init and again only when the comparison's identity changes.
type ComparisonPage struct {
	id       int64
	cmp      changediff.Comparison
	identity changediff.ComparisonIdentity
	svc      changediff.ComparisonDiffService
	list     FileDiffConnection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewComparisonPage returns a page for cmp.
func NewComparisonPage(cmp changediff.Comparison, opts ...Option) ComparisonPage {
	cfg := newConfig(opts)
	ctx, cancel := context.WithCancel(context.Background())
	p := ComparisonPage{
		id:       nextID(),
		cmp:      cmp,
		identity: cmp.Identity(),
		svc:      cfg.cmpDiffs,
		ctx:      ctx,
		cancel:   cancel,
	}
	p.list = newFileDiffConnection(p.query(), ConnectionConfig{
		Noun:                       "changed file",
		PluralNoun:                 "changed files",
		PageSize:                   ComparisonPageSize,
		NoSummaryIfAllNodesVisible: true,
		LineNumbers:                cfg.lineNumbers,
	}, newFileDiffRenderer(cfg))
	return p
}

// query binds the commit IDs of the current comparison.
func (p ComparisonPage) query() QueryFunc {
	svc := p.svc
	repo, base, head := p.cmp.Repo.ID, p.cmp.Base.CommitID, p.cmp.Head.CommitID
	return func(ctx context.Context, first int, after *string) (*changediff.FileDiffConnection, error) {
		if svc == nil {
			return nil, ErrNoComparisonService
		}
		return svc.RepositoryComparisonFileDiffs(ctx, changediff.ComparisonFileDiffsArgs{
			Repo:  repo,
			Base:  base,
			Head:  head,
			First: first,
			After: after,
		})
	}
}

// Init requests the first fetch.
func (p ComparisonPage) Init() tea.Cmd {
	return p.refresh()
}

func (p ComparisonPage) refresh() tea.Cmd {
	msg := refreshMsg{pageID: p.id, identity: p.identity}
	return func() tea.Msg { return msg }
}

// Comparison returns the comparison shown.
func (p ComparisonPage) Comparison() changediff.Comparison { return p.cmp }

// List returns the page's file diff list.
func (p ComparisonPage) List() FileDiffConnection { return p.list }

// SetComparison replaces the comparison. The list is refetched only when the
// repository, base revision or head revision differ from the current ones.
func (p ComparisonPage) SetComparison(cmp changediff.Comparison) (ComparisonPage, tea.Cmd) {
	identity := cmp.Identity()
	p.cmp = cmp
	if identity == p.identity {
		return p, nil
	}
	p.identity = identity
	p.list = p.list.Reset().withQuery(p.query())
	return p, p.refresh()
}

// LoadMore requests a larger first page.
func (p ComparisonPage) LoadMore() (ComparisonPage, tea.Cmd) {
	var cmd tea.Cmd
	p.list, cmd = p.list.LoadMore(p.ctx)
	return p, cmd
}

// Update handles refresh requests and page results.
func (p ComparisonPage) Update(msg tea.Msg) (ComparisonPage, tea.Cmd) {
	if p.Closed() {
		return p, nil
	}
	var cmd tea.Cmd
	if msg, ok := msg.(refreshMsg); ok {
		if msg.pageID != p.id || msg.identity != p.identity {
			return p, nil
		}
		p.list, cmd = p.list.Fetch(p.ctx)
		return p, cmd
	}
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

// Close cancels requests in flight. The page ignores messages afterwards.
func (p ComparisonPage) Close() {
	p.cancel()
}

// Closed reports whether Close was called.
func (p ComparisonPage) Closed() bool {
	return p.ctx.Err() != nil
}

// Title renders "base...head" with the revisions as the user named them.
func (p ComparisonPage) Title() string {
	return p.cmp.Base.DisplayRev() + "..." + p.cmp.Head.DisplayRev()
}

// View renders the file diff list.
func (p ComparisonPage) View(width int) string {
	return p.list.View(width)
}
