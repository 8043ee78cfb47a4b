// Package changediff provides domain types for viewing proposed repository
// changes and repository comparisons as paginated file diffs.
package changediff

// Diff represents a complete diff containing one or more file changes.
type Diff struct {
	Files []FileDiff
}

// FileDiff represents changes to a single file.
type FileDiff struct {
	OldPath    string // empty for added files
	NewPath    string // empty for deleted files
	Hunks      []Hunk
	Stat       DiffStat
	InternalID string // stable identifier assigned by the server
	IsBinary   bool
}

// Path returns the path used to identify the file: the new path, or the old
// path for deleted files.
func (f FileDiff) Path() string {
	if f.NewPath == "" {
		return f.OldPath
	}
	return f.NewPath
}

// Operation reports what happened to the file.
func (f FileDiff) Operation() FileOp {
	switch {
	case f.OldPath == "":
		return FileAdded
	case f.NewPath == "":
		return FileDeleted
	case f.OldPath != f.NewPath:
		return FileRenamed
	default:
		return FileModified
	}
}

// FileOp represents the type of operation performed on a file.
type FileOp int

// File operation types.
const (
	FileModified FileOp = iota
	FileAdded
	FileDeleted
	FileRenamed
)

// HunkRange is one side of a hunk header.
type HunkRange struct {
	StartLine int
	Lines     int
}

// Hunk represents a contiguous block of changes within a file.
type Hunk struct {
	OldRange       HunkRange
	NewRange       HunkRange
	OldNoNewlineAt bool
	Section        string // Optional function name after @@ ... @@
	Body           string // Raw prefixed lines as returned by the server
	Lines          []Line

	// HighlightAborted is set when the server gave up highlighting the hunk,
	// which it does for hunks too large to highlight in time. Such hunks
	// render without syntax colors.
	HighlightAborted bool
}

// Line represents a single line within a hunk.
type Line struct {
	Type       LineType
	Content    string
	OldLineNum int  // 0 if line is Added
	NewLineNum int  // 0 if line is Deleted
	NoNewline  bool // "\ No newline at end of file" marker
}

// LineType represents the type of a diff line.
type LineType int

// Line types.
const (
	LineContext LineType = iota
	LineAdded
	LineDeleted
)

// DiffStat holds aggregate line counts. A changed line is a line that was
// both removed and added in place.
type DiffStat struct {
	Added   int `json:"added"`
	Changed int `json:"changed"`
	Deleted int `json:"deleted"`
}

// Add returns the sum of two stats.
func (s DiffStat) Add(o DiffStat) DiffStat {
	return DiffStat{
		Added:   s.Added + o.Added,
		Changed: s.Changed + o.Changed,
		Deleted: s.Deleted + o.Deleted,
	}
}

// Total returns the number of lines touched.
func (s DiffStat) Total() int {
	return s.Added + s.Changed + s.Deleted
}

// PageInfo describes whether more results follow a page.
type PageInfo struct {
	HasNextPage bool
	EndCursor   *string
}

// FileDiffConnection is one page of file diffs along with the total count
// and aggregate stat of the whole result set.
type FileDiffConnection struct {
	Nodes      []FileDiff
	TotalCount *int // nil when the server cannot count cheaply
	PageInfo   PageInfo
	DiffStat   DiffStat
}

// ComputeStat counts the lines of hunks. Within a run of deletions followed by
// additions, paired lines count as changed rather than added and deleted.
func ComputeStat(hunks []Hunk) DiffStat {
	var stat DiffStat
	var added, deleted int
	flush := func() {
		changed := min(added, deleted)
		stat.Changed += changed
		stat.Added += added - changed
		stat.Deleted += deleted - changed
		added, deleted = 0, 0
	}
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				added++
			case LineDeleted:
				if added > 0 {
					flush()
				}
				deleted++
			default:
				flush()
			}
		}
		flush()
	}
	return stat
}
