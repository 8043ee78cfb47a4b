package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/changediff"
)

// Compile-time interface verification.
var _ changediff.Viewer = (*Viewer)(nil)

// Viewer runs the screens as full-screen programs.
type Viewer struct {
	opts        []Option
	programOpts []tea.ProgramOption
}

// NewViewer returns a Viewer whose screens are built with opts.
func NewViewer(opts ...Option) *Viewer {
	return &Viewer{
		opts:        opts,
		programOpts: []tea.ProgramOption{tea.WithAltScreen()},
	}
}

// WithProgramOptions replaces the Bubble Tea program options, which default
// to the alternate screen.
func (v *Viewer) WithProgramOptions(opts ...tea.ProgramOption) *Viewer {
	v.programOpts = opts
	return v
}

// ViewChangesetSpecs shows specs until the user quits or ctx is done.
func (v *Viewer) ViewChangesetSpecs(ctx context.Context, specs []changediff.ChangesetSpec) error {
	return v.run(ctx, NewSpecsModel(specs, v.opts...))
}

// ViewComparison shows cmp until the user quits or ctx is done.
func (v *Viewer) ViewComparison(ctx context.Context, cmp changediff.Comparison) error {
	return v.run(ctx, NewCompareModel(cmp, v.opts...))
}

func (v *Viewer) run(ctx context.Context, m tea.Model) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, v.programOpts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
