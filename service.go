package changediff

import "context"

// ChangesetSpecFileDiffsArgs are the arguments of a changeset spec file diff
// query.
type ChangesetSpecFileDiffsArgs struct {
	ChangesetSpec string
	First         int
	After         *string
	IsLightTheme  bool
}

// ChangesetSpecDiffService fetches the file diffs of a changeset spec.
type ChangesetSpecDiffService interface {
	ChangesetSpecFileDiffs(ctx context.Context, args ChangesetSpecFileDiffsArgs) (*FileDiffConnection, error)
}

// ChangesetSpecFileDiffsFunc adapts a function to ChangesetSpecDiffService.
type ChangesetSpecFileDiffsFunc func(ctx context.Context, args ChangesetSpecFileDiffsArgs) (*FileDiffConnection, error)

// ChangesetSpecFileDiffs calls f.
func (f ChangesetSpecFileDiffsFunc) ChangesetSpecFileDiffs(ctx context.Context, args ChangesetSpecFileDiffsArgs) (*FileDiffConnection, error) {
	return f(ctx, args)
}

// ComparisonFileDiffsArgs are the arguments of a repository comparison file
// diff query. Base and Head are commit IDs, never symbolic revisions.
type ComparisonFileDiffsArgs struct {
	Repo  string
	Base  string
	Head  string
	First int
	After *string
}

// ComparisonDiffService fetches the file diffs between two commits.
type ComparisonDiffService interface {
	RepositoryComparisonFileDiffs(ctx context.Context, args ComparisonFileDiffsArgs) (*FileDiffConnection, error)
}

// ComparisonFileDiffsFunc adapts a function to ComparisonDiffService.
type ComparisonFileDiffsFunc func(ctx context.Context, args ComparisonFileDiffsArgs) (*FileDiffConnection, error)

// RepositoryComparisonFileDiffs calls f.
func (f ComparisonFileDiffsFunc) RepositoryComparisonFileDiffs(ctx context.Context, args ComparisonFileDiffsArgs) (*FileDiffConnection, error) {
	return f(ctx, args)
}

// RepositoryResolver looks repositories up and resolves revisions within them.
type RepositoryResolver interface {
	// RepositoryByName returns the repository with the given name.
	RepositoryByName(ctx context.Context, name string) (Repository, error)
	// ResolveRevision returns the commit ID a revision points at. An empty
	// revision resolves to the default branch head.
	ResolveRevision(ctx context.Context, repoID, rev string) (string, error)
}

// ChangesetSpecConnection is one page of changeset specs.
type ChangesetSpecConnection struct {
	Nodes      []ChangesetSpec
	TotalCount int
	PageInfo   PageInfo
}

// ChangesetSpecSource lists the changeset specs of a campaign spec.
type ChangesetSpecSource interface {
	CampaignSpecChangesetSpecs(ctx context.Context, campaignSpec string, first int, after *string) (*ChangesetSpecConnection, error)
}
