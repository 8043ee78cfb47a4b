package bubbletea_test

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/changediff"
	"github.com/fwojciec/changediff/bubbletea"
	"github.com/fwojciec/changediff/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comparison(baseRev, baseCommit, headRev, headCommit string) changediff.Comparison {
	repo := changediff.Repository{ID: "repo-1", Name: "github.com/acme/web"}
	return changediff.Comparison{
		Repo: repo,
		Base: changediff.ComparisonEndpoint{RepoPath: repo.Name, RepoID: repo.ID, Rev: baseRev, CommitID: baseCommit},
		Head: changediff.ComparisonEndpoint{RepoPath: repo.Name, RepoID: repo.ID, Rev: headRev, CommitID: headCommit},
	}
}

// comparisonService serves count files per comparison, paged by first only.
func comparisonService(count int, rec *recorder[changediff.ComparisonFileDiffsArgs]) *mock.ComparisonDiffService {
	return &mock.ComparisonDiffService{
		RepositoryComparisonFileDiffsFn: func(_ context.Context, args changediff.ComparisonFileDiffsArgs) (*changediff.FileDiffConnection, error) {
			rec.record(args)
			return page(0, args.First, count), nil
		},
	}
}

// settle runs cmd and feeds every resulting message back into the page
// until no commands remain.
func settle(t *testing.T, p bubbletea.ComparisonPage, cmd tea.Cmd) bubbletea.ComparisonPage {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		var next tea.Cmd
		p, next = p.Update(msg)
		p = settle(t, p, next)
	}
	return p
}

func TestComparisonPage_FetchesOnInit(t *testing.T) {
	t.Parallel()

	rec := &recorder[changediff.ComparisonFileDiffsArgs]{}
	p := bubbletea.NewComparisonPage(comparison("v1", "c1", "v2", "c2"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(comparisonService(3, rec)),
	)
	p = settle(t, p, p.Init())

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, changediff.ComparisonFileDiffsArgs{Repo: "repo-1", Base: "c1", Head: "c2", First: bubbletea.ComparisonPageSize}, calls[0])
	assert.Len(t, p.List().Nodes(), 3)
	assert.NotContains(t, p.View(80), "total", "summary is hidden when every file is visible")
}

func TestComparisonPage_SameIdentityDoesNotRefetch(t *testing.T) {
	t.Parallel()

	rec := &recorder[changediff.ComparisonFileDiffsArgs]{}
	p := bubbletea.NewComparisonPage(comparison("v1", "c1", "v2", "c2"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(comparisonService(3, rec)),
	)
	p = settle(t, p, p.Init())

	same := comparison("v1", "c1", "v2", "c2")
	same.Base.RepoPath = "renamed/path"
	p, cmd := p.SetComparison(same)
	assert.Nil(t, cmd)
	p = settle(t, p, cmd)

	assert.Len(t, rec.Calls(), 1)
	assert.Equal(t, "renamed/path", p.Comparison().Base.RepoPath)
	assert.Len(t, p.List().Nodes(), 3)
}

func TestComparisonPage_HeadRevisionChangeRefetches(t *testing.T) {
	t.Parallel()

	rec := &recorder[changediff.ComparisonFileDiffsArgs]{}
	p := bubbletea.NewComparisonPage(comparison("main", "c0", "v1", "c1"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(comparisonService(3, rec)),
	)
	p = settle(t, p, p.Init())

	p, cmd := p.SetComparison(comparison("main", "c0", "v2", "c2"))
	require.NotNil(t, cmd)
	p = settle(t, p, cmd)

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "c2", calls[1].Head)
	assert.Equal(t, "c0", calls[1].Base)
	assert.Equal(t, "main...v2", p.Title())
}

func TestComparisonPage_DiscardsStaleResponses(t *testing.T) {
	t.Parallel()

	rec := &recorder[changediff.ComparisonFileDiffsArgs]{}
	svc := &mock.ComparisonDiffService{
		RepositoryComparisonFileDiffsFn: func(_ context.Context, args changediff.ComparisonFileDiffsArgs) (*changediff.FileDiffConnection, error) {
			rec.record(args)
			return &changediff.FileDiffConnection{Nodes: []changediff.FileDiff{fileDiff(args.Head + ".go")}}, nil
		},
	}
	p := bubbletea.NewComparisonPage(comparison("main", "c0", "v1", "c1"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(svc),
	)

	// Issue the v1 request but hold on to its response.
	var v1Msgs []tea.Msg
	for _, msg := range runCmd(p.Init()) {
		var cmd tea.Cmd
		p, cmd = p.Update(msg)
		v1Msgs = append(v1Msgs, runCmd(cmd)...)
	}
	require.NotEmpty(t, v1Msgs)

	p, cmd := p.SetComparison(comparison("main", "c0", "v2", "c2"))
	p = settle(t, p, cmd)
	require.Len(t, p.List().Nodes(), 1)
	assert.Equal(t, "c2.go", p.List().Nodes()[0].Path())

	for _, msg := range v1Msgs {
		p, _ = p.Update(msg)
	}
	require.Len(t, p.List().Nodes(), 1)
	assert.Equal(t, "c2.go", p.List().Nodes()[0].Path(), "late v1 response must not replace v2 results")
}

func TestComparisonPage_LoadMoreRequestsLargerFirstPage(t *testing.T) {
	t.Parallel()

	rec := &recorder[changediff.ComparisonFileDiffsArgs]{}
	p := bubbletea.NewComparisonPage(comparison("v1", "c1", "v2", "c2"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(comparisonService(40, rec)),
	)
	p = settle(t, p, p.Init())
	require.Len(t, p.List().Nodes(), 25)
	assert.Contains(t, p.View(120), "40 changed files total (showing first 25)")
	assert.Contains(t, p.View(120), "Show more (m)")

	p, cmd := p.LoadMore()
	p = settle(t, p, cmd)

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 50, calls[1].First)
	assert.Nil(t, calls[1].After)
	assert.Len(t, p.List().Nodes(), 40, "offset paging replaces the list")
	assert.Equal(t, "file0.go", p.List().Nodes()[0].Path())
}

func TestComparisonPage_SurfacesAggregateErrors(t *testing.T) {
	t.Parallel()

	svc := &mock.ComparisonDiffService{
		RepositoryComparisonFileDiffsFn: func(context.Context, changediff.ComparisonFileDiffsArgs) (*changediff.FileDiffConnection, error) {
			return nil, changediff.NewAggregateError(
				&changediff.QueryError{Message: "repository not found"},
				&changediff.QueryError{Message: "permission denied"},
			)
		},
	}
	p := bubbletea.NewComparisonPage(comparison("v1", "c1", "v2", "c2"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(svc),
	)
	p = settle(t, p, p.Init())

	var agg *changediff.AggregateError
	require.True(t, errors.As(p.List().Err(), &agg))
	assert.Equal(t, []string{"repository not found", "permission denied"}, agg.Messages())
	assert.Empty(t, p.List().Nodes())

	view := p.View(80)
	assert.Contains(t, view, "Error: repository not found")
	assert.Contains(t, view, "Error: permission denied")
	assert.NotContains(t, view, "No changed files")
}

func TestComparisonPage_EmptyResponseIsAnError(t *testing.T) {
	t.Parallel()

	svc := &mock.ComparisonDiffService{
		RepositoryComparisonFileDiffsFn: func(context.Context, changediff.ComparisonFileDiffsArgs) (*changediff.FileDiffConnection, error) {
			return nil, nil
		},
	}
	p := bubbletea.NewComparisonPage(comparison("v1", "c1", "v2", "c2"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(svc),
	)
	p = settle(t, p, p.Init())

	assert.ErrorIs(t, p.List().Err(), changediff.ErrNoData)
}

func TestComparisonPage_DisplaysDefaultRevision(t *testing.T) {
	t.Parallel()

	rec := &recorder[changediff.ComparisonFileDiffsArgs]{}
	p := bubbletea.NewComparisonPage(comparison("v1", "c1", "", "c9"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(comparisonService(1, rec)),
	)
	p = settle(t, p, p.Init())

	assert.Equal(t, "v1...HEAD", p.Title())
	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "c9", calls[0].Head)
}

func TestComparisonPage_CloseStopsUpdates(t *testing.T) {
	t.Parallel()

	rec := &recorder[changediff.ComparisonFileDiffsArgs]{}
	p := bubbletea.NewComparisonPage(comparison("v1", "c1", "v2", "c2"),
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithComparisonDiffService(comparisonService(3, rec)),
	)
	initCmd := p.Init()
	p.Close()
	assert.True(t, p.Closed())

	p = settle(t, p, initCmd)
	assert.Empty(t, rec.Calls(), "a closed page does not act on its refresh")
	assert.Empty(t, p.List().Nodes())
}
