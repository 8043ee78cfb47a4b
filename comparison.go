package changediff

// DefaultRevision is displayed for an endpoint that names no revision.
const DefaultRevision = "HEAD"

// ComparisonEndpoint is one side of a two-revision comparison.
type ComparisonEndpoint struct {
	RepoPath string
	RepoID   string
	Rev      string // empty when the user named no revision
	CommitID string // always resolved
}

// DisplayRev returns the revision to show for the endpoint.
func (e ComparisonEndpoint) DisplayRev() string {
	if e.Rev == "" {
		return DefaultRevision
	}
	return e.Rev
}

// Comparison is a diff between two revisions of a repository.
type Comparison struct {
	Repo Repository
	Base ComparisonEndpoint
	Head ComparisonEndpoint
}

// ComparisonIdentity is what decides whether two comparisons show the same
// diff. Resolved commit IDs are deliberately excluded.
type ComparisonIdentity struct {
	RepoID  string
	BaseRev string
	HeadRev string
}

// Identity returns the comparison's identity.
func (c Comparison) Identity() ComparisonIdentity {
	return ComparisonIdentity{
		RepoID:  c.Repo.ID,
		BaseRev: c.Base.Rev,
		HeadRev: c.Head.Rev,
	}
}
