package graphql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/changediff"
)

const campaignSpecChangesetSpecsQuery = `
query CampaignSpecChangesetSpecs($campaignSpec: ID!, $first: Int, $after: String) {
	node(id: $campaignSpec) {
		__typename
		... on CampaignSpec {
			changesetSpecs(first: $first, after: $after) {
				totalCount
				pageInfo {
					hasNextPage
					endCursor
				}
				nodes {
					__typename
					id
					... on VisibleChangesetSpec {
						description {
							__typename
							... on ExistingChangesetReference {
								baseRepository {
									id
									name
									url
								}
								externalID
							}
							... on GitBranchChangesetDescription {
								baseRepository {
									id
									name
									url
								}
								baseRef
								headRef
								title
								body
								published
								diffStat {
									added
									changed
									deleted
								}
								commits {
									subject
									body
									author {
										name
										email
									}
								}
							}
						}
					}
				}
			}
		}
	}
}
`

type commitJSON struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Author  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"author"`
}

type descriptionJSON struct {
	Typename       string                `json:"__typename"`
	BaseRepository changediff.Repository `json:"baseRepository"`
	ExternalID     string                `json:"externalID"`
	BaseRef        string                `json:"baseRef"`
	HeadRef        string                `json:"headRef"`
	Title          string                `json:"title"`
	Body           string                `json:"body"`
	Published      bool                  `json:"published"`
	DiffStat       changediff.DiffStat   `json:"diffStat"`
	Commits        []commitJSON          `json:"commits"`
}

type changesetSpecJSON struct {
	Typename    string           `json:"__typename"`
	ID          string           `json:"id"`
	Description *descriptionJSON `json:"description"`
}

// CampaignSpecChangesetSpecs returns one page of a campaign spec's changeset
// specs. Specs the viewer may not see are skipped.
func (c *Client) CampaignSpecChangesetSpecs(ctx context.Context, campaignSpec string, first int, after *string) (*changediff.ChangesetSpecConnection, error) {
	vars := map[string]any{
		"campaignSpec": campaignSpec,
		"first":        first,
		"after":        after,
	}
	raw, err := c.do(ctx, "CampaignSpecChangesetSpecs", campaignSpecChangesetSpecsQuery, vars)
	if err != nil {
		return nil, err
	}

	var data struct {
		Node *struct {
			Typename       string `json:"__typename"`
			ChangesetSpecs *struct {
				TotalCount int                 `json:"totalCount"`
				PageInfo   pageInfoJSON        `json:"pageInfo"`
				Nodes      []changesetSpecJSON `json:"nodes"`
			} `json:"changesetSpecs"`
		} `json:"node"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("CampaignSpecChangesetSpecs: decode data: %w", err)
	}
	if data.Node == nil || data.Node.ChangesetSpecs == nil {
		return nil, fmt.Errorf("campaign spec %s: %w", campaignSpec, ErrNotFound)
	}

	conn := data.Node.ChangesetSpecs
	out := &changediff.ChangesetSpecConnection{
		TotalCount: conn.TotalCount,
		PageInfo: changediff.PageInfo{
			HasNextPage: conn.PageInfo.HasNextPage,
			EndCursor:   conn.PageInfo.EndCursor,
		},
	}
	for _, n := range conn.Nodes {
		if n.Typename != "VisibleChangesetSpec" || n.Description == nil {
			c.log.Debug().Str("id", n.ID).Str("type", n.Typename).Msg("skipping changeset spec")
			continue
		}
		desc, err := convertDescription(*n.Description)
		if err != nil {
			return nil, fmt.Errorf("changeset spec %s: %w", n.ID, err)
		}
		out.Nodes = append(out.Nodes, changediff.ChangesetSpec{ID: n.ID, Description: desc})
	}
	return out, nil
}

func convertDescription(d descriptionJSON) (changediff.ChangesetDescription, error) {
	switch d.Typename {
	case changediff.TypenameExistingChangesetReference:
		return changediff.ExistingChangesetReference{
			BaseRepository: d.BaseRepository,
			ExternalID:     d.ExternalID,
		}, nil
	case changediff.TypenameGitBranchChangesetDescription:
		desc := changediff.GitBranchChangesetDescription{
			BaseRepository: d.BaseRepository,
			BaseRef:        d.BaseRef,
			HeadRef:        d.HeadRef,
			Title:          d.Title,
			Body:           d.Body,
			Published:      d.Published,
			DiffStat:       d.DiffStat,
		}
		for _, cm := range d.Commits {
			desc.Commits = append(desc.Commits, changediff.GitCommitDescription{
				Subject:     cm.Subject,
				Body:        cm.Body,
				AuthorName:  cm.Author.Name,
				AuthorEmail: cm.Author.Email,
			})
		}
		return desc, nil
	default:
		return nil, fmt.Errorf("%w: %q", changediff.ErrUnknownDescription, d.Typename)
	}
}
