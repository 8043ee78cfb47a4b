package bubbletea

import (
	"github.com/charmbracelet/lipgloss"
	dv "github.com/fwojciec/changediff/lipgloss"
)

type styles struct {
	fileHeader    lipgloss.Style
	hunkHeader    lipgloss.Style
	lineNumber    lipgloss.Style
	context       lipgloss.Style
	added         lipgloss.Style
	deleted       lipgloss.Style
	addedGutter   lipgloss.Style
	deletedGutter lipgloss.Style
	selectedLine  lipgloss.Style

	statAdded   lipgloss.Style
	statChanged lipgloss.Style
	statDeleted lipgloss.Style

	title     lipgloss.Style
	heading   lipgloss.Style
	action    lipgloss.Style
	badge     lipgloss.Style
	muted     lipgloss.Style
	info      lipgloss.Style
	errorText lipgloss.Style
	cursor    lipgloss.Style
	statusBar lipgloss.Style
}

// newStyles builds every style from r so its color profile applies.
func newStyles(theme dv.Theme, r *lipgloss.Renderer) styles {
	p := theme.Palette()
	newStyle := r.NewStyle
	return styles{
		fileHeader:    newStyle().Bold(true).Foreground(dv.Color(p.Foreground)),
		hunkHeader:    newStyle().Foreground(dv.Color(p.HunkHeader)),
		lineNumber:    newStyle().Foreground(dv.Color(p.LineNumber)),
		context:       newStyle().Foreground(dv.Color(p.Foreground)),
		added:         newStyle().Foreground(dv.Color(p.Added)).Background(dv.Color(p.AddedBg)),
		deleted:       newStyle().Foreground(dv.Color(p.Deleted)).Background(dv.Color(p.DeletedBg)),
		addedGutter:   newStyle().Foreground(dv.Color(p.LineNumber)).Background(dv.Color(p.AddedGutter)),
		deletedGutter: newStyle().Foreground(dv.Color(p.LineNumber)).Background(dv.Color(p.DeletedGutter)),
		selectedLine:  newStyle().Background(dv.Color(p.SelectedLineBg)),

		statAdded:   newStyle().Foreground(dv.Color(p.Added)),
		statChanged: newStyle().Foreground(dv.Color(p.Number)),
		statDeleted: newStyle().Foreground(dv.Color(p.Deleted)),

		title:     newStyle().Bold(true).Foreground(dv.Color(p.Foreground)),
		heading:   newStyle().Bold(true).Underline(true).Foreground(dv.Color(p.Foreground)),
		action:    newStyle().Bold(true).Foreground(dv.Color(p.Accent)),
		badge:     newStyle().Foreground(dv.Color(p.Badge)).Background(dv.Color(p.BadgeBg)).Padding(0, 1),
		muted:     newStyle().Foreground(dv.Color(p.Muted)),
		info:      newStyle().Foreground(dv.Color(p.Info)),
		errorText: newStyle().Bold(true).Foreground(dv.Color(p.Error)),
		cursor:    newStyle().Bold(true).Foreground(dv.Color(p.Accent)),
		statusBar: newStyle().Foreground(dv.Color(p.UIForeground)).Background(dv.Color(p.UIBackground)),
	}
}
