package changediff

import "context"

// Viewer displays changesets and comparisons to the user.
type Viewer interface {
	// ViewChangesetSpecs displays the specs and blocks until the user exits.
	ViewChangesetSpecs(ctx context.Context, specs []ChangesetSpec) error
	// ViewComparison displays the comparison and blocks until the user exits.
	ViewComparison(ctx context.Context, cmp Comparison) error
}
