package bubbletea

var (
	ExpandTabs = expandTabs
	PadRight   = padRight
)
