package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/changediff"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRange is returned for a revision range that cannot be parsed.
var ErrInvalidRange = errors.New("invalid revision range")

// ParseRange splits "base...head" or "base..head" into its revisions. A
// single revision is the base; an empty side means the default branch.
func ParseRange(s string) (base, head string, err error) {
	sep := "..."
	if !strings.Contains(s, sep) {
		sep = ".."
	}
	parts := strings.Split(s, sep)
	switch len(parts) {
	case 1:
		return parts[0], "", nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("%q: %w", s, ErrInvalidRange)
	}
}

// CompareApp resolves a revision range of one repository and shows the
// comparison.
type CompareApp struct {
	Resolver changediff.RepositoryResolver
	Viewer   changediff.Viewer
	Repo     string
	Range    string
}

// Comparison resolves the repository and both revisions. The revisions are
// resolved concurrently.
func (a *CompareApp) Comparison(ctx context.Context) (changediff.Comparison, error) {
	baseRev, headRev, err := ParseRange(a.Range)
	if err != nil {
		return changediff.Comparison{}, err
	}

	repo, err := a.Resolver.RepositoryByName(ctx, a.Repo)
	if err != nil {
		return changediff.Comparison{}, fmt.Errorf("repository %s: %w", a.Repo, err)
	}

	var baseCommit, headCommit string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		baseCommit, err = a.Resolver.ResolveRevision(gctx, repo.ID, baseRev)
		if err != nil {
			return fmt.Errorf("base %s: %w", displayRev(baseRev), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		headCommit, err = a.Resolver.ResolveRevision(gctx, repo.ID, headRev)
		if err != nil {
			return fmt.Errorf("head %s: %w", displayRev(headRev), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return changediff.Comparison{}, err
	}

	return changediff.Comparison{
		Repo: repo,
		Base: changediff.ComparisonEndpoint{RepoPath: repo.Name, RepoID: repo.ID, Rev: baseRev, CommitID: baseCommit},
		Head: changediff.ComparisonEndpoint{RepoPath: repo.Name, RepoID: repo.ID, Rev: headRev, CommitID: headCommit},
	}, nil
}

// Run resolves the comparison and hands it to the viewer.
func (a *CompareApp) Run(ctx context.Context) error {
	cmp, err := a.Comparison(ctx)
	if err != nil {
		return err
	}
	return a.Viewer.ViewComparison(ctx, cmp)
}

func displayRev(rev string) string {
	if rev == "" {
		return changediff.DefaultRevision
	}
	return rev
}
