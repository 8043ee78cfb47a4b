package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/changediff"
)

const fileDiffFragments = `
fragment FileDiffFields on FileDiff {
	oldPath
	newPath
	hunks {
		oldRange {
			...FileDiffHunkRangeFields
		}
		oldNoNewlineAt
		newRange {
			...FileDiffHunkRangeFields
		}
		section
		body
	}
	stat {
		...DiffStatFields
	}
	internalID
}

fragment FileDiffHunkRangeFields on FileDiffHunkRange {
	startLine
	lines
}

fragment DiffStatFields on DiffStat {
	added
	changed
	deleted
}
`

const repositoryComparisonDiffQuery = `
query RepositoryComparisonDiff($repo: ID!, $base: String, $head: String, $first: Int, $after: String) {
	node(id: $repo) {
		__typename
		... on Repository {
			comparison(base: $base, head: $head) {
				fileDiffs(first: $first, after: $after) {
					nodes {
						...FileDiffFields
					}
					totalCount
					pageInfo {
						hasNextPage
						endCursor
					}
					diffStat {
						...DiffStatFields
					}
				}
			}
		}
	}
}
` + fileDiffFragments

const changesetSpecFileDiffsQuery = `
query ChangesetSpecFileDiffs($changesetSpec: ID!, $first: Int, $after: String, $isLightTheme: Boolean!) {
	node(id: $changesetSpec) {
		__typename
		... on VisibleChangesetSpec {
			description {
				__typename
				... on GitBranchChangesetDescription {
					diff {
						fileDiffs(first: $first, after: $after) {
							nodes {
								...FileDiffFields
								hunks {
									highlight(disableTimeout: false, isLightTheme: $isLightTheme) {
										aborted
									}
								}
							}
							totalCount
							pageInfo {
								hasNextPage
								endCursor
							}
							diffStat {
								...DiffStatFields
							}
						}
					}
				}
			}
		}
	}
}
` + fileDiffFragments

type hunkRangeJSON struct {
	StartLine int `json:"startLine"`
	Lines     int `json:"lines"`
}

type hunkJSON struct {
	OldRange       hunkRangeJSON `json:"oldRange"`
	OldNoNewlineAt bool          `json:"oldNoNewlineAt"`
	NewRange       hunkRangeJSON `json:"newRange"`
	Section        *string       `json:"section"`
	Body           string        `json:"body"`
	Highlight      *struct {
		Aborted bool `json:"aborted"`
	} `json:"highlight"`
}

type fileDiffJSON struct {
	OldPath    *string             `json:"oldPath"`
	NewPath    *string             `json:"newPath"`
	Hunks      []hunkJSON          `json:"hunks"`
	Stat       changediff.DiffStat `json:"stat"`
	InternalID string              `json:"internalID"`
}

type pageInfoJSON struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type fileDiffConnectionJSON struct {
	Nodes      []fileDiffJSON      `json:"nodes"`
	TotalCount *int                `json:"totalCount"`
	PageInfo   pageInfoJSON        `json:"pageInfo"`
	DiffStat   changediff.DiffStat `json:"diffStat"`
}

type comparisonDataJSON struct {
	Node *struct {
		Typename   string `json:"__typename"`
		Comparison *struct {
			FileDiffs *fileDiffConnectionJSON `json:"fileDiffs"`
		} `json:"comparison"`
	} `json:"node"`
}

type changesetSpecDiffDataJSON struct {
	Node *struct {
		Typename    string `json:"__typename"`
		Description *struct {
			Typename string `json:"__typename"`
			Diff     *struct {
				FileDiffs *fileDiffConnectionJSON `json:"fileDiffs"`
			} `json:"diff"`
		} `json:"description"`
	} `json:"node"`
}

// RepositoryComparisonFileDiffs returns one page of the file diffs between
// two commits. A missing repository, a missing comparison or any error entry
// fails the whole request.
func (c *Client) RepositoryComparisonFileDiffs(ctx context.Context, args changediff.ComparisonFileDiffsArgs) (*changediff.FileDiffConnection, error) {
	vars := map[string]any{
		"repo":  args.Repo,
		"base":  args.Base,
		"head":  args.Head,
		"first": args.First,
		"after": args.After,
	}
	raw, err := c.do(ctx, "RepositoryComparisonDiff", repositoryComparisonDiffQuery, vars)
	if err != nil {
		return nil, err
	}

	var data comparisonDataJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("RepositoryComparisonDiff: decode data: %w", err)
	}
	if data.Node == nil || data.Node.Comparison == nil || data.Node.Comparison.FileDiffs == nil {
		return nil, changediff.ErrNoData
	}
	return c.convertConnection(data.Node.Comparison.FileDiffs), nil
}

// ErrNoDiff is returned for changeset specs that do not describe a branch.
var ErrNoDiff = errors.New("changeset spec has no diff")

// ChangesetSpecFileDiffs returns one page of a changeset spec's file diffs.
func (c *Client) ChangesetSpecFileDiffs(ctx context.Context, args changediff.ChangesetSpecFileDiffsArgs) (*changediff.FileDiffConnection, error) {
	vars := map[string]any{
		"changesetSpec": args.ChangesetSpec,
		"first":         args.First,
		"after":         args.After,
		"isLightTheme":  args.IsLightTheme,
	}
	raw, err := c.do(ctx, "ChangesetSpecFileDiffs", changesetSpecFileDiffsQuery, vars)
	if err != nil {
		return nil, err
	}

	var data changesetSpecDiffDataJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("ChangesetSpecFileDiffs: decode data: %w", err)
	}
	if data.Node == nil {
		return nil, changediff.ErrNoData
	}
	if data.Node.Typename != "VisibleChangesetSpec" {
		return nil, fmt.Errorf("changeset spec %s: unexpected node type %q", args.ChangesetSpec, data.Node.Typename)
	}
	desc := data.Node.Description
	if desc == nil || desc.Typename != changediff.TypenameGitBranchChangesetDescription || desc.Diff == nil || desc.Diff.FileDiffs == nil {
		return nil, fmt.Errorf("changeset spec %s: %w", args.ChangesetSpec, ErrNoDiff)
	}
	return c.convertConnection(desc.Diff.FileDiffs), nil
}

func (c *Client) convertConnection(conn *fileDiffConnectionJSON) *changediff.FileDiffConnection {
	out := &changediff.FileDiffConnection{
		Nodes:      make([]changediff.FileDiff, 0, len(conn.Nodes)),
		TotalCount: conn.TotalCount,
		PageInfo: changediff.PageInfo{
			HasNextPage: conn.PageInfo.HasNextPage,
			EndCursor:   conn.PageInfo.EndCursor,
		},
		DiffStat: conn.DiffStat,
	}
	for _, n := range conn.Nodes {
		out.Nodes = append(out.Nodes, c.convertFileDiff(n))
	}
	return out
}

func (c *Client) convertFileDiff(n fileDiffJSON) changediff.FileDiff {
	fd := changediff.FileDiff{
		Stat:       n.Stat,
		InternalID: n.InternalID,
		Hunks:      make([]changediff.Hunk, 0, len(n.Hunks)),
	}
	if n.OldPath != nil {
		fd.OldPath = *n.OldPath
	}
	if n.NewPath != nil {
		fd.NewPath = *n.NewPath
	}
	for _, h := range n.Hunks {
		hunk := changediff.Hunk{
			OldRange:       changediff.HunkRange{StartLine: h.OldRange.StartLine, Lines: h.OldRange.Lines},
			NewRange:       changediff.HunkRange{StartLine: h.NewRange.StartLine, Lines: h.NewRange.Lines},
			OldNoNewlineAt: h.OldNoNewlineAt,
			Body:           h.Body,
		}
		if h.Section != nil {
			hunk.Section = *h.Section
		}
		if h.Highlight != nil {
			hunk.HighlightAborted = h.Highlight.Aborted
		}
		lines, err := c.hunks.ParseHunk(hunk)
		if err != nil {
			// The renderer falls back to the raw body.
			c.log.Warn().Err(err).Str("path", fd.Path()).Msg("unparseable hunk")
		}
		hunk.Lines = lines
		fd.Hunks = append(fd.Hunks, hunk)
	}
	return fd
}
