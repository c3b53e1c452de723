package git

// ChangeKind classifies how a file changed. The underlying byte is the
// glyph shown in the status column.
type ChangeKind byte

// Change kinds, matching the porcelain status letters where one exists.
const (
	KindModified  ChangeKind = 'M'
	KindAdded     ChangeKind = 'A'
	KindDeleted   ChangeKind = 'D'
	KindRenamed   ChangeKind = 'R'
	KindCopied    ChangeKind = 'C'
	KindUntracked ChangeKind = '?'
	KindConflict  ChangeKind = 'U'
)

// Glyph returns the single-character status marker.
func (k ChangeKind) Glyph() string {
	if k == 0 {
		return " "
	}
	return string(k)
}

// Label returns a human-readable description of the change.
func (k ChangeKind) Label() string {
	switch k {
	case KindModified:
		return "Modified"
	case KindAdded:
		return "Added"
	case KindDeleted:
		return "Deleted"
	case KindRenamed:
		return "Renamed"
	case KindCopied:
		return "Copied"
	case KindUntracked:
		return "Untracked"
	case KindConflict:
		return "Conflict"
	default:
		return ""
	}
}

// KindFromCounts derives a change kind from line counts, for sources that
// only report additions and deletions (pull request file lists).
func KindFromCounts(additions, deletions int) ChangeKind {
	switch {
	case deletions == 0 && additions > 0:
		return KindAdded
	case additions == 0 && deletions > 0:
		return KindDeleted
	default:
		return KindModified
	}
}

// Record is one changed file. Records are plain values: a new snapshot
// produces new Records.
type Record struct {
	Path     string
	OrigPath string // Only set for renames/copies.
	Kind     ChangeKind

	// Review-only fields.
	Additions int
	Deletions int
	Reviewed  bool
	ReviewID  string // opaque pull request handle used for the viewed mutation
}

// Snapshot holds the categorised working tree status. A file that is
// partially staged appears once in Staged and once in Unstaged.
type Snapshot struct {
	Conflicts []Record
	Staged    []Record
	Unstaged  []Record
}

// TotalCount returns the total number of records across all sections.
func (s *Snapshot) TotalCount() int {
	return len(s.Conflicts) + len(s.Staged) + len(s.Unstaged)
}

// ConflictSide selects which version a conflict quick-resolve keeps.
type ConflictSide int

const (
	SideOurs ConflictSide = iota
	SideTheirs
)

func (s ConflictSide) flag() string {
	if s == SideTheirs {
		return "--theirs"
	}
	return "--ours"
}
