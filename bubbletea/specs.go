package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/changediff"
)

// Compile-time interface verification.
var (
	_ tea.Model = SpecsModel{}
	_ tea.Model = CompareModel{}
)

// SpecsModel is the screen listing the changeset specs of a campaign spec.
type SpecsModel struct {
	nodes     []ChangesetSpecNode
	startCmds []tea.Cmd
	rowStarts []int
	cursor    int

	keys     KeyMap
	styles   styles
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewSpecsModel returns the screen for specs.
func NewSpecsModel(specs []changediff.ChangesetSpec, opts ...Option) SpecsModel {
	cfg := newConfig(opts)
	m := SpecsModel{
		keys:     DefaultKeyMap(),
		styles:   newStyles(cfg.theme, cfg.renderer),
		viewport: viewport.New(1, 1),
	}
	for _, spec := range specs {
		node, cmd := NewChangesetSpecNode(spec, opts...).Start()
		m.nodes = append(m.nodes, node)
		m.startCmds = append(m.startCmds, cmd)
	}
	return m
}

// Nodes returns the rows of the screen.
func (m SpecsModel) Nodes() []ChangesetSpecNode { return m.nodes }

// Cursor returns the index of the selected row.
func (m SpecsModel) Cursor() int { return m.cursor }

// Init fetches the first page of rows that start expanded.
func (m SpecsModel) Init() tea.Cmd {
	return tea.Batch(m.startCmds...)
}

// Update handles keys, resizes and page results.
func (m SpecsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-2)
		m.ready = true
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	default:
		m.nodes = append([]ChangesetSpecNode(nil), m.nodes...)
		for i := range m.nodes {
			var cmd tea.Cmd
			m.nodes[i], cmd = m.nodes[i].Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	m.refreshContent()
	return m, tea.Batch(cmds...)
}

func (m SpecsModel) handleKey(msg tea.KeyMsg) (SpecsModel, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		for _, n := range m.nodes {
			n.Close()
		}
		return m, tea.Quit
	}
	if len(m.nodes) == 0 {
		return m, nil
	}

	// Copy before writing so earlier model values keep their rows.
	m.nodes = append([]ChangesetSpecNode(nil), m.nodes...)
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, len(m.nodes)-1)
		m.refreshContent()
		m.scrollToCursor()
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
		m.refreshContent()
		m.scrollToCursor()
	case key.Matches(msg, m.keys.Toggle):
		m.nodes[m.cursor], cmd = m.nodes[m.cursor].Toggle()
	case key.Matches(msg, m.keys.LoadMore):
		m.nodes[m.cursor], cmd = m.nodes[m.cursor].LoadMore()
	case key.Matches(msg, m.keys.NextLine):
		m.nodes[m.cursor] = m.nodes[m.cursor].SelectNextLine()
	case key.Matches(msg, m.keys.PrevLine):
		m.nodes[m.cursor] = m.nodes[m.cursor].SelectPrevLine()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
	}
	return m, cmd
}

// refreshContent re-renders every row into the viewport and records where
// each row starts.
func (m *SpecsModel) refreshContent() {
	var b strings.Builder
	m.rowStarts = make([]int, 0, len(m.nodes))
	line := 0
	for i, n := range m.nodes {
		if i > 0 {
			b.WriteString("\n\n")
			line += 2
		}
		m.rowStarts = append(m.rowStarts, line)
		marker := "  "
		if i == m.cursor {
			marker = m.styles.cursor.Render("┃ ")
		}
		view := n.View(max(m.width-2, 0))
		rows := strings.Split(view, "\n")
		for j, r := range rows {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(marker + r)
		}
		line += len(rows) - 1
	}
	m.viewport.SetContent(b.String())
}

func (m *SpecsModel) scrollToCursor() {
	if m.cursor >= len(m.rowStarts) {
		return
	}
	start := m.rowStarts[m.cursor]
	switch {
	case start < m.viewport.YOffset:
		m.viewport.SetYOffset(start)
	case start+2 > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(start + 2 - m.viewport.Height)
	}
}

// View renders a title, the rows and a status bar.
func (m SpecsModel) View() string {
	if !m.ready {
		return ""
	}
	title := m.styles.title.Render(fmt.Sprintf("%d changeset specs", len(m.nodes)))
	if len(m.nodes) == 1 {
		title = m.styles.title.Render("1 changeset spec")
	}
	body := m.viewport.View()
	if len(m.nodes) == 0 {
		body = m.styles.muted.Render("No changeset specs.")
	}
	status := m.styles.statusBar.Width(m.width).Render(hints(
		m.keys.Down, m.keys.Up, m.keys.Toggle, m.keys.LoadMore, m.keys.NextLine, m.keys.Quit,
	))
	return title + "\n" + body + "\n" + status
}
