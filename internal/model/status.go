package model

// Status describes a dependency relative to what is installed.
type Status int

const (
	// Unchanged: installed, up to date, built with the current flags.
	Unchanged Status = iota
	// New: not installed but a visible version exists.
	New
	// Updated: the best version differs from the installed one.
	Updated
	// NeedsRebuild: up to date but some flag changed since it was built.
	NeedsRebuild
	// NotVisible: no visible version.
	NotVisible
	// Deselected: the edge is disabled by the current flags.
	Deselected
)

var statusNames = map[Status]string{
	Unchanged:    "unchanged",
	New:          "new",
	Updated:      "updated",
	NeedsRebuild: "needs-rebuild",
	NotVisible:   "not-visible",
	Deselected:   "deselected",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Letter is the one-character marker shown in the status column.
func (s Status) Letter() string {
	switch s {
	case NotVisible:
		return "!"
	case New:
		return "N"
	case Updated:
		return "U"
	case NeedsRebuild:
		return "R"
	case Deselected:
		return "-"
	default:
		return ""
	}
}

// Rank orders statuses for display: most actionable first.
func (s Status) Rank() int {
	switch s {
	case NotVisible:
		return 0
	case New:
		return 1
	case Updated:
		return 2
	case NeedsRebuild:
		return 3
	case Unchanged:
		return 4
	default:
		return 5
	}
}

// Classify derives the status of d. Flag changes are measured against the
// build shown as d.Installed.
func Classify(d *Dependency) Status {
	return ClassifyWith(d, func(best *Record) []Flag {
		return best.FlagsBuiltAs(d.Installed)
	})
}

// ClassifyWith derives the status of d. flagsOf returns the flags of the
// best version, whose InstalledEnabled values come from the installed one.
// Checks run in a fixed order: deselected, not visible, new, updated, needs
// rebuild.
func ClassifyWith(d *Dependency, flagsOf func(*Record) []Flag) Status {
	switch {
	case !d.Active:
		return Deselected
	case d.Best == nil:
		return NotVisible
	case d.Installed == nil:
		return New
	case d.Best.Version() != d.Installed.Version():
		return Updated
	}
	for _, f := range flagsOf(d.Best) {
		if f.Changed() {
			return NeedsRebuild
		}
	}
	return Unchanged
}

// ChangeStatuses are the statuses followed by the deep dependency walk.
var ChangeStatuses = map[Status]bool{
	New:          true,
	Updated:      true,
	NeedsRebuild: true,
}
