package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/changediff"
	"github.com/fwojciec/changediff/gitrepo"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds a repository with two tagged commits: v1 adds three files,
// v2 modifies one, deletes one and adds two.
type fixture struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	when time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	f := &fixture{t: t, dir: dir, repo: repo, when: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	f.write("README.md", "# Test Repository\n\nInitial content.\n")
	f.write("a.go", "package a\n\nfunc A() {}\n")
	f.write("b.go", "package b\n")
	f.tag("v1", f.commit("initial"))

	f.write("README.md", "# Test Repository\n\nUpdated content.\n")
	f.remove("b.go")
	f.write("c.go", "package c\n")
	f.write("d.go", "package d\n")
	f.tag("v2", f.commit("second"))

	return f
}

func (f *fixture) write(name, content string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
	w, err := f.repo.Worktree()
	require.NoError(f.t, err)
	_, err = w.Add(name)
	require.NoError(f.t, err)
}

func (f *fixture) remove(name string) {
	f.t.Helper()
	w, err := f.repo.Worktree()
	require.NoError(f.t, err)
	_, err = w.Remove(name)
	require.NoError(f.t, err)
}

func (f *fixture) commit(msg string) plumbing.Hash {
	f.t.Helper()
	w, err := f.repo.Worktree()
	require.NoError(f.t, err)
	f.when = f.when.Add(time.Hour)
	hash, err := w.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: f.when},
	})
	require.NoError(f.t, err)
	return hash
}

func (f *fixture) tag(name string, hash plumbing.Hash) {
	f.t.Helper()
	_, err := f.repo.CreateTag(name, hash, nil)
	require.NoError(f.t, err)
}

func TestRepo_ResolveRevision(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	repo, err := gitrepo.Open(f.dir)
	require.NoError(t, err)
	id := repo.Repository().ID

	v1, err := repo.ResolveRevision(context.Background(), id, "v1")
	require.NoError(t, err)
	v2, err := repo.ResolveRevision(context.Background(), id, "v2")
	require.NoError(t, err)
	head, err := repo.ResolveRevision(context.Background(), id, "")
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
	assert.Equal(t, v2, head, "empty revision resolves HEAD")

	_, err = repo.ResolveRevision(context.Background(), id, "no-such-rev")
	assert.ErrorIs(t, err, gitrepo.ErrNotFound)

	_, err = repo.ResolveRevision(context.Background(), "/elsewhere", "v1")
	assert.ErrorIs(t, err, gitrepo.ErrNotFound)
}

func TestRepo_RepositoryByName(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	repo, err := gitrepo.Open(f.dir)
	require.NoError(t, err)

	got, err := repo.RepositoryByName(context.Background(), filepath.Base(f.dir))
	require.NoError(t, err)
	assert.Equal(t, repo.Repository(), got)

	_, err = repo.RepositoryByName(context.Background(), "someone/else")
	assert.ErrorIs(t, err, gitrepo.ErrNotFound)
}

func TestRepo_RepositoryComparisonFileDiffs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	repo, err := gitrepo.Open(f.dir)
	require.NoError(t, err)
	ctx := context.Background()
	id := repo.Repository().ID

	base, err := repo.ResolveRevision(ctx, id, "v1")
	require.NoError(t, err)
	head, err := repo.ResolveRevision(ctx, id, "v2")
	require.NoError(t, err)

	t.Run("returns every file without a limit", func(t *testing.T) {
		conn, err := repo.RepositoryComparisonFileDiffs(ctx, changediff.ComparisonFileDiffsArgs{Repo: id, Base: base, Head: head})
		require.NoError(t, err)

		require.Len(t, conn.Nodes, 4)
		require.NotNil(t, conn.TotalCount)
		assert.Equal(t, 4, *conn.TotalCount)
		assert.False(t, conn.PageInfo.HasNextPage)

		byPath := map[string]changediff.FileDiff{}
		for _, fd := range conn.Nodes {
			byPath[fd.Path()] = fd
		}
		assert.Equal(t, changediff.FileModified, byPath["README.md"].Operation())
		assert.Equal(t, changediff.FileDeleted, byPath["b.go"].Operation())
		assert.Equal(t, changediff.FileAdded, byPath["c.go"].Operation())
		assert.Equal(t, changediff.DiffStat{Changed: 1}, byPath["README.md"].Stat)
		assert.Equal(t, changediff.DiffStat{Added: 2, Changed: 1, Deleted: 1}, conn.DiffStat)
	})

	t.Run("pages with offset cursors", func(t *testing.T) {
		first, err := repo.RepositoryComparisonFileDiffs(ctx, changediff.ComparisonFileDiffsArgs{Repo: id, Base: base, Head: head, First: 3})
		require.NoError(t, err)
		require.Len(t, first.Nodes, 3)
		require.True(t, first.PageInfo.HasNextPage)
		require.NotNil(t, first.PageInfo.EndCursor)

		second, err := repo.RepositoryComparisonFileDiffs(ctx, changediff.ComparisonFileDiffsArgs{Repo: id, Base: base, Head: head, First: 3, After: first.PageInfo.EndCursor})
		require.NoError(t, err)
		assert.Len(t, second.Nodes, 1)
		assert.False(t, second.PageInfo.HasNextPage)
	})

	t.Run("rejects foreign cursors", func(t *testing.T) {
		bad := "not-a-number"
		_, err := repo.RepositoryComparisonFileDiffs(ctx, changediff.ComparisonFileDiffsArgs{Repo: id, Base: base, Head: head, After: &bad})
		assert.ErrorIs(t, err, gitrepo.ErrInvalidCursor)
	})

	t.Run("identical commits have no files", func(t *testing.T) {
		conn, err := repo.RepositoryComparisonFileDiffs(ctx, changediff.ComparisonFileDiffsArgs{Repo: id, Base: head, Head: head})
		require.NoError(t, err)
		assert.Empty(t, conn.Nodes)
		assert.Equal(t, 0, *conn.TotalCount)
	})
}
