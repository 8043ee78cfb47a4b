// Package mock provides test doubles for changediff interfaces.
package mock

import (
	"context"

	"github.com/fwojciec/changediff"
)

var (
	_ changediff.ChangesetSpecDiffService = (*ChangesetSpecDiffService)(nil)
	_ changediff.ComparisonDiffService    = (*ComparisonDiffService)(nil)
	_ changediff.RepositoryResolver       = (*RepositoryResolver)(nil)
	_ changediff.ChangesetSpecSource      = (*ChangesetSpecSource)(nil)
	_ changediff.Viewer                   = (*Viewer)(nil)
)

// ChangesetSpecDiffService is a mock implementation of changediff.ChangesetSpecDiffService.
type ChangesetSpecDiffService struct {
	ChangesetSpecFileDiffsFn func(ctx context.Context, args changediff.ChangesetSpecFileDiffsArgs) (*changediff.FileDiffConnection, error)
}

func (m *ChangesetSpecDiffService) ChangesetSpecFileDiffs(ctx context.Context, args changediff.ChangesetSpecFileDiffsArgs) (*changediff.FileDiffConnection, error) {
	return m.ChangesetSpecFileDiffsFn(ctx, args)
}

// ComparisonDiffService is a mock implementation of changediff.ComparisonDiffService.
type ComparisonDiffService struct {
	RepositoryComparisonFileDiffsFn func(ctx context.Context, args changediff.ComparisonFileDiffsArgs) (*changediff.FileDiffConnection, error)
}

func (m *ComparisonDiffService) RepositoryComparisonFileDiffs(ctx context.Context, args changediff.ComparisonFileDiffsArgs) (*changediff.FileDiffConnection, error) {
	return m.RepositoryComparisonFileDiffsFn(ctx, args)
}

// RepositoryResolver is a mock implementation of changediff.RepositoryResolver.
type RepositoryResolver struct {
	RepositoryByNameFn func(ctx context.Context, name string) (changediff.Repository, error)
	ResolveRevisionFn  func(ctx context.Context, repoID, rev string) (string, error)
}

func (m *RepositoryResolver) RepositoryByName(ctx context.Context, name string) (changediff.Repository, error) {
	return m.RepositoryByNameFn(ctx, name)
}

func (m *RepositoryResolver) ResolveRevision(ctx context.Context, repoID, rev string) (string, error) {
	return m.ResolveRevisionFn(ctx, repoID, rev)
}

// ChangesetSpecSource is a mock implementation of changediff.ChangesetSpecSource.
type ChangesetSpecSource struct {
	CampaignSpecChangesetSpecsFn func(ctx context.Context, campaignSpec string, first int, after *string) (*changediff.ChangesetSpecConnection, error)
}

func (m *ChangesetSpecSource) CampaignSpecChangesetSpecs(ctx context.Context, campaignSpec string, first int, after *string) (*changediff.ChangesetSpecConnection, error) {
	return m.CampaignSpecChangesetSpecsFn(ctx, campaignSpec, first, after)
}

// Viewer is a mock implementation of changediff.Viewer.
type Viewer struct {
	ViewChangesetSpecsFn func(ctx context.Context, specs []changediff.ChangesetSpec) error
	ViewComparisonFn     func(ctx context.Context, cmp changediff.Comparison) error
}

func (m *Viewer) ViewChangesetSpecs(ctx context.Context, specs []changediff.ChangesetSpec) error {
	return m.ViewChangesetSpecsFn(ctx, specs)
}

func (m *Viewer) ViewComparison(ctx context.Context, cmp changediff.Comparison) error {
	return m.ViewComparisonFn(ctx, cmp)
}
