// Package bubbletea implements the terminal UI on Bubble Tea.
package bubbletea

import (
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/changediff"
	dv "github.com/fwojciec/changediff/lipgloss"
)

// Page sizes requested by the two screens.
const (
	ChangesetSpecPageSize = 15
	ComparisonPageSize    = 25
)

type config struct {
	theme     dv.Theme
	renderer  *lipgloss.Renderer
	tokenizer changediff.Tokenizer
	detector  changediff.LanguageDetector

	specDiffs changediff.ChangesetSpecDiffService
	cmpDiffs  changediff.ComparisonDiffService

	expanded    bool
	lineNumbers bool
}

func newConfig(opts []Option) config {
	cfg := config{
		theme:       dv.DefaultTheme(),
		lineNumbers: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.renderer == nil {
		cfg.renderer = lipgloss.DefaultRenderer()
	}
	return cfg
}

// Option configures the models in this package.
type Option func(*config)

// WithTheme sets the color theme. A light theme also asks the server for
// light-theme highlighting.
func WithTheme(theme dv.Theme) Option {
	return func(c *config) { c.theme = theme }
}

// WithRenderer sets the lipgloss renderer, which decides the color profile.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(c *config) { c.renderer = r }
}

// WithTokenizer enables syntax highlighting of diff lines.
func WithTokenizer(t changediff.Tokenizer) Option {
	return func(c *config) { c.tokenizer = t }
}

// WithLanguageDetector sets how languages are detected for highlighting.
func WithLanguageDetector(d changediff.LanguageDetector) Option {
	return func(c *config) { c.detector = d }
}

// WithChangesetSpecDiffService sets the service fetching changeset spec diffs.
func WithChangesetSpecDiffService(s changediff.ChangesetSpecDiffService) Option {
	return func(c *config) { c.specDiffs = s }
}

// WithComparisonDiffService sets the service fetching comparison diffs.
func WithComparisonDiffService(s changediff.ComparisonDiffService) Option {
	return func(c *config) { c.cmpDiffs = s }
}

// WithExpanded starts changeset rows expanded.
func WithExpanded(expanded bool) Option {
	return func(c *config) { c.expanded = expanded }
}

// WithLineNumbers toggles the line number gutter.
func WithLineNumbers(on bool) Option {
	return func(c *config) { c.lineNumbers = on }
}

var lastID atomic.Int64

// nextID returns a process-unique identifier for routing async results.
func nextID() int64 {
	return lastID.Add(1)
}
