package bubbletea

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/changediff"
)

// diffStatBlocks is the number of squares in the proportional bar.
const diffStatBlocks = 5

// DiffStatOptions controls how a diff stat renders.
type DiffStatOptions struct {
	// ExpandedCounts spells out "3 added" rather than "+3".
	ExpandedCounts bool
	// SeparateLines puts each count on its own line.
	SeparateLines bool
}

// renderDiffStat renders added, changed and deleted counts followed by a bar
// of squares colored in proportion to them.
func (s styles) renderDiffStat(stat changediff.DiffStat, opts DiffStatOptions) string {
	var added, changed, deleted string
	if opts.ExpandedCounts {
		added = humanize.Comma(int64(stat.Added)) + " added"
		changed = humanize.Comma(int64(stat.Changed)) + " changed"
		deleted = humanize.Comma(int64(stat.Deleted)) + " deleted"
	} else {
		added = "+" + humanize.Comma(int64(stat.Added))
		changed = "~" + humanize.Comma(int64(stat.Changed))
		deleted = "-" + humanize.Comma(int64(stat.Deleted))
	}
	counts := []string{
		s.statAdded.Render(added),
		s.statChanged.Render(changed),
		s.statDeleted.Render(deleted),
	}

	sep := " "
	if opts.SeparateLines {
		sep = "\n"
	}
	return strings.Join(counts, sep) + sep + s.diffStatBar(stat)
}

func (s styles) diffStatBar(stat changediff.DiffStat) string {
	total := stat.Total()
	if total == 0 {
		return s.muted.Render(strings.Repeat("□", diffStatBlocks))
	}
	a := diffStatBlocks * stat.Added / total
	c := diffStatBlocks * stat.Changed / total
	d := diffStatBlocks * stat.Deleted / total
	// Rounding leftovers go to the largest nonzero count.
	for a+c+d < diffStatBlocks {
		switch {
		case stat.Added >= stat.Changed && stat.Added >= stat.Deleted:
			a++
		case stat.Changed >= stat.Deleted:
			c++
		default:
			d++
		}
	}
	return s.statAdded.Render(strings.Repeat("■", a)) +
		s.statChanged.Render(strings.Repeat("■", c)) +
		s.statDeleted.Render(strings.Repeat("■", d))
}
