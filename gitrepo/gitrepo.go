// Package gitrepo serves repository comparisons from a local git repository
// using go-git.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/changediff"
	"github.com/fwojciec/changediff/gitdiff"
	"github.com/fwojciec/changediff/zerolog"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Compile-time interface verification.
var (
	_ changediff.ComparisonDiffService = (*Repo)(nil)
	_ changediff.RepositoryResolver    = (*Repo)(nil)
)

// ErrNotFound is returned for unknown repositories and revisions.
var ErrNotFound = errors.New("not found")

// ErrInvalidCursor is returned for cursors this package did not produce.
var ErrInvalidCursor = errors.New("invalid cursor")

// Repo is a local repository. Its repository ID is its absolute path.
type Repo struct {
	repo   *gogit.Repository
	info   changediff.Repository
	parser changediff.Parser
	log    zerolog.Logger

	mu     sync.Mutex
	cached struct {
		base, head string
		files      []changediff.FileDiff
	}
}

// Option configures a Repo.
type Option func(*Repo)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Repo) { r.log = l }
}

// WithParser sets the parser used for the patches go-git produces.
func WithParser(p changediff.Parser) Option {
	return func(r *Repo) { r.parser = p }
}

// Open opens the repository at path, searching parent directories.
func Open(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", abs, err)
	}

	r := &Repo{
		repo: repo,
		info: changediff.Repository{
			ID:   abs,
			Name: filepath.Base(abs),
			URL:  "file://" + filepath.ToSlash(abs),
		},
		parser: gitdiff.NewParser(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Repository returns the repository's identity.
func (r *Repo) Repository() changediff.Repository {
	return r.info
}

// RepositoryByName matches the repository's path or directory name.
func (r *Repo) RepositoryByName(_ context.Context, name string) (changediff.Repository, error) {
	if name == r.info.Name || name == r.info.ID || name == "" || name == "." {
		return r.info, nil
	}
	if abs, err := filepath.Abs(name); err == nil && abs == r.info.ID {
		return r.info, nil
	}
	return changediff.Repository{}, fmt.Errorf("repository %q: %w", name, ErrNotFound)
}

// ResolveRevision resolves rev, or HEAD when rev is empty, to a commit hash.
func (r *Repo) ResolveRevision(_ context.Context, repoID, rev string) (string, error) {
	if repoID != r.info.ID {
		return "", fmt.Errorf("repository %s: %w", repoID, ErrNotFound)
	}
	if rev == "" {
		rev = changediff.DefaultRevision
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("revision %q: %w", rev, ErrNotFound)
	}
	r.log.Debug().Str("rev", rev).Str("commit", hash.String()).Msg("resolved revision")
	return hash.String(), nil
}

// RepositoryComparisonFileDiffs diffs the base commit against the head
// commit and returns the requested page. Cursors are file offsets.
func (r *Repo) RepositoryComparisonFileDiffs(ctx context.Context, args changediff.ComparisonFileDiffsArgs) (*changediff.FileDiffConnection, error) {
	if args.Repo != r.info.ID {
		return nil, fmt.Errorf("repository %s: %w", args.Repo, ErrNotFound)
	}

	files, err := r.fileDiffs(ctx, args.Base, args.Head)
	if err != nil {
		return nil, err
	}

	start := 0
	if args.After != nil {
		start, err = strconv.Atoi(*args.After)
		if err != nil || start < 0 || start > len(files) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, *args.After)
		}
	}
	end := len(files)
	if args.First > 0 {
		end = min(start+args.First, len(files))
	}

	var stat changediff.DiffStat
	for _, f := range files {
		stat = stat.Add(f.Stat)
	}

	total := len(files)
	conn := &changediff.FileDiffConnection{
		Nodes:      files[start:end],
		TotalCount: &total,
		DiffStat:   stat,
	}
	if end < len(files) {
		cursor := strconv.Itoa(end)
		conn.PageInfo = changediff.PageInfo{HasNextPage: true, EndCursor: &cursor}
	}
	return conn, nil
}

// fileDiffs returns the parsed diff between two commits, reusing the last
// result when the same pair is requested again for another page.
func (r *Repo) fileDiffs(ctx context.Context, base, head string) ([]changediff.FileDiff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached.files != nil && r.cached.base == base && r.cached.head == head {
		return r.cached.files, nil
	}

	baseCommit, err := r.repo.CommitObject(plumbing.NewHash(base))
	if err != nil {
		return nil, fmt.Errorf("base commit %s: %w", base, err)
	}
	headCommit, err := r.repo.CommitObject(plumbing.NewHash(head))
	if err != nil {
		return nil, fmt.Errorf("head commit %s: %w", head, err)
	}

	patch, err := baseCommit.PatchContext(ctx, headCommit)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", base, head, err)
	}

	diff, err := r.parser.Parse(strings.NewReader(patch.String()))
	if err != nil {
		return nil, err
	}
	files := diff.Files
	if files == nil {
		files = []changediff.FileDiff{}
	}

	r.log.Debug().Str("base", base).Str("head", head).Int("files", len(files)).Msg("computed comparison")
	r.cached.base, r.cached.head, r.cached.files = base, head, files
	return files, nil
}
