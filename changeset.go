package changediff

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownDescription is returned when a changeset description carries a
// typename this package does not know.
var ErrUnknownDescription = errors.New("unknown changeset description type")

// Typenames used to discriminate changeset descriptions on the wire.
const (
	TypenameExistingChangesetReference    = "ExistingChangesetReference"
	TypenameGitBranchChangesetDescription = "GitBranchChangesetDescription"
)

// Repository identifies a repository on the server.
type Repository struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ChangesetSpec is a proposed change to one repository.
type ChangesetSpec struct {
	ID          string
	Description ChangesetDescription
}

// ChangesetDescription is implemented by ExistingChangesetReference and
// GitBranchChangesetDescription only.
type ChangesetDescription interface {
	Typename() string
	Repository() Repository
	changesetDescription()
}

// ExistingChangesetReference imports a changeset that already exists on the
// code host.
type ExistingChangesetReference struct {
	BaseRepository Repository `json:"baseRepository"`
	ExternalID     string     `json:"externalID"`
}

func (ExistingChangesetReference) Typename() string { return TypenameExistingChangesetReference }

func (d ExistingChangesetReference) Repository() Repository { return d.BaseRepository }

func (ExistingChangesetReference) changesetDescription() {}

// GitBranchChangesetDescription proposes a new branch to be pushed and opened
// as a changeset.
type GitBranchChangesetDescription struct {
	BaseRepository Repository             `json:"baseRepository"`
	BaseRef        string                 `json:"baseRef"`
	HeadRef        string                 `json:"headRef"`
	Title          string                 `json:"title"`
	Body           string                 `json:"body"`
	Published      bool                   `json:"published"`
	DiffStat       DiffStat               `json:"diffStat"`
	Commits        []GitCommitDescription `json:"commits"`
}

func (GitBranchChangesetDescription) Typename() string { return TypenameGitBranchChangesetDescription }

func (d GitBranchChangesetDescription) Repository() Repository { return d.BaseRepository }

func (GitBranchChangesetDescription) changesetDescription() {}

// GitCommitDescription is a commit that will be created on the head branch.
type GitCommitDescription struct {
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
}

// ChangesetSpecAction is what applying a changeset spec will do.
type ChangesetSpecAction string

// Changeset spec actions.
const (
	ActionImport      ChangesetSpecAction = "Import"
	ActionPublish     ChangesetSpecAction = "Publish"
	ActionCreateDraft ChangesetSpecAction = "Create draft"
)

// Action derives the action applying the spec will take.
func (s ChangesetSpec) Action() ChangesetSpecAction {
	switch d := s.Description.(type) {
	case ExistingChangesetReference:
		return ActionImport
	case GitBranchChangesetDescription:
		if d.Published {
			return ActionPublish
		}
		return ActionCreateDraft
	default:
		return ""
	}
}

// Title returns the heading shown for the spec.
func (s ChangesetSpec) Title() string {
	switch d := s.Description.(type) {
	case ExistingChangesetReference:
		return "Import changeset #" + d.ExternalID
	case GitBranchChangesetDescription:
		return d.Title
	default:
		return ""
	}
}

type changesetSpecJSON struct {
	ID          string          `json:"id"`
	Description json.RawMessage `json:"description"`
}

type typenameJSON struct {
	Typename string `json:"__typename"`
}

// UnmarshalJSON decodes a spec, selecting the description variant by its
// __typename field.
func (s *ChangesetSpec) UnmarshalJSON(data []byte) error {
	var raw changesetSpecJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	desc, err := UnmarshalChangesetDescription(raw.Description)
	if err != nil {
		return fmt.Errorf("changeset spec %s: %w", raw.ID, err)
	}
	s.ID = raw.ID
	s.Description = desc
	return nil
}

// MarshalJSON encodes a spec with the description's __typename inlined.
func (s ChangesetSpec) MarshalJSON() ([]byte, error) {
	var desc any
	switch d := s.Description.(type) {
	case ExistingChangesetReference:
		desc = struct {
			Typename string `json:"__typename"`
			ExistingChangesetReference
		}{d.Typename(), d}
	case GitBranchChangesetDescription:
		desc = struct {
			Typename string `json:"__typename"`
			GitBranchChangesetDescription
		}{d.Typename(), d}
	default:
		return nil, ErrUnknownDescription
	}
	return json.Marshal(struct {
		ID          string `json:"id"`
		Description any    `json:"description"`
	}{s.ID, desc})
}

// UnmarshalChangesetDescription decodes one description variant.
func UnmarshalChangesetDescription(data []byte) (ChangesetDescription, error) {
	var tn typenameJSON
	if err := json.Unmarshal(data, &tn); err != nil {
		return nil, err
	}
	switch tn.Typename {
	case TypenameExistingChangesetReference:
		var d ExistingChangesetReference
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypenameGitBranchChangesetDescription:
		var d GitBranchChangesetDescription
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDescription, tn.Typename)
	}
}
