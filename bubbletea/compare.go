package bubbletea

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/fwojciec/changediff"
)

// ComparisonMsg replaces the comparison shown by a CompareModel.
type ComparisonMsg struct {
	Comparison changediff.Comparison
}

// CompareModel is the screen comparing two revisions of a repository.
type CompareModel struct {
	page ComparisonPage

	keys     KeyMap
	styles   styles
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewCompareModel returns the screen for cmp.
func NewCompareModel(cmp changediff.Comparison, opts ...Option) CompareModel {
	cfg := newConfig(opts)
	return CompareModel{
		page:     NewComparisonPage(cmp, opts...),
		keys:     DefaultKeyMap(),
		styles:   newStyles(cfg.theme, cfg.renderer),
		viewport: viewport.New(1, 1),
	}
}

// Page returns the comparison page.
func (m CompareModel) Page() ComparisonPage { return m.page }

// Init fetches the first page.
func (m CompareModel) Init() tea.Cmd {
	return m.page.Init()
}

// Update handles keys, resizes, comparison changes and page results.
func (m CompareModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-2)
		m.ready = true
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
	case ComparisonMsg:
		m.page, cmd = m.page.SetComparison(msg.Comparison)
		m.viewport.GotoTop()
	default:
		m.page, cmd = m.page.Update(msg)
	}
	m.viewport.SetContent(m.page.View(m.width))
	return m, cmd
}

func (m CompareModel) handleKey(msg tea.KeyMsg) (CompareModel, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.page.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.LoadMore):
		m.page, cmd = m.page.LoadMore()
	case key.Matches(msg, m.keys.Swap):
		cmp := m.page.Comparison()
		cmp.Base, cmp.Head = cmp.Head, cmp.Base
		m.page, cmd = m.page.SetComparison(cmp)
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Down):
		m.viewport.SetYOffset(m.viewport.YOffset + 1)
	case key.Matches(msg, m.keys.Up):
		m.viewport.SetYOffset(m.viewport.YOffset - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
	}
	return m, cmd
}

// View renders a title, the file diffs and a status bar.
func (m CompareModel) View() string {
	if !m.ready {
		return ""
	}
	cmp := m.page.Comparison()
	title := m.styles.title.Render(cmp.Repo.Name) + "  " + m.styles.badge.Render(m.page.Title())
	list := m.page.List()
	if total := list.TotalCount(); total != nil && !list.Loading() {
		noun := " files"
		if *total == 1 {
			noun = " file"
		}
		title += "  " + m.styles.muted.Render(humanize.Comma(int64(*total))+noun) +
			"  " + m.styles.renderDiffStat(list.DiffStat(), DiffStatOptions{})
	}
	status := m.styles.statusBar.Width(m.width).Render(hints(
		m.keys.Down, m.keys.Up, m.keys.LoadMore, m.keys.Swap, m.keys.Quit,
	))
	return title + "\n" + m.viewport.View() + "\n" + status
}
