package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/changediff"
)

// ErrNotFound is returned when a repository or revision does not exist.
var ErrNotFound = errors.New("not found")

const repositoryByNameQuery = `
query RepositoryByName($name: String!) {
	repository(name: $name) {
		id
		name
		url
	}
}
`

const resolveRevQuery = `
query ResolveRev($repo: ID!, $rev: String!) {
	node(id: $repo) {
		__typename
		... on Repository {
			commit(rev: $rev) {
				oid
			}
		}
	}
}
`

// RepositoryByName looks a repository up by its full name.
func (c *Client) RepositoryByName(ctx context.Context, name string) (changediff.Repository, error) {
	raw, err := c.do(ctx, "RepositoryByName", repositoryByNameQuery, map[string]any{"name": name})
	if err != nil {
		return changediff.Repository{}, err
	}

	var data struct {
		Repository *changediff.Repository `json:"repository"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return changediff.Repository{}, fmt.Errorf("RepositoryByName: decode data: %w", err)
	}
	if data.Repository == nil {
		return changediff.Repository{}, fmt.Errorf("repository %q: %w", name, ErrNotFound)
	}
	return *data.Repository, nil
}

// ResolveRevision returns the commit ID rev points at. An empty rev resolves
// HEAD.
func (c *Client) ResolveRevision(ctx context.Context, repoID, rev string) (string, error) {
	if rev == "" {
		rev = changediff.DefaultRevision
	}
	raw, err := c.do(ctx, "ResolveRev", resolveRevQuery, map[string]any{"repo": repoID, "rev": rev})
	if err != nil {
		return "", err
	}

	var data struct {
		Node *struct {
			Commit *struct {
				OID string `json:"oid"`
			} `json:"commit"`
		} `json:"node"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("ResolveRev: decode data: %w", err)
	}
	if data.Node == nil {
		return "", fmt.Errorf("repository %s: %w", repoID, ErrNotFound)
	}
	if data.Node.Commit == nil {
		return "", fmt.Errorf("revision %q: %w", rev, ErrNotFound)
	}
	return data.Node.Commit.OID, nil
}
