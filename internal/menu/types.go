// Package menu implements the review menu: a line-addressable list of
// changed files with cursor navigation, two-key jump codes, and a rebuild
// that keeps the cursor where the operator expects it.
package menu

import (
	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

// Mode selects which data the menu lists.
type Mode int

const (
	// ModeStatus lists working tree changes.
	ModeStatus Mode = iota
	// ModeReview lists the files of the open pull request.
	ModeReview
)

// Modes lists every mode in tab order.
var Modes = []Mode{ModeStatus, ModeReview}

// String returns the lowercase mode name used in config and flags.
func (m Mode) String() string {
	switch m {
	case ModeReview:
		return "review"
	default:
		return "status"
	}
}

// Title returns the panel title for the mode.
func (m Mode) Title() string {
	switch m {
	case ModeReview:
		return "Review"
	default:
		return "Status"
	}
}

// ParseMode parses a mode name. Unknown names yield ModeStatus and false.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "status", "":
		return ModeStatus, true
	case "review":
		return ModeReview, true
	default:
		return ModeStatus, false
	}
}

// Section groups records within a mode.
type Section int

const (
	SectionConflicts Section = iota
	SectionStaged
	SectionUnstaged
	SectionUnreviewed
	SectionReviewed
)

// Title returns the category heading for the section.
func (s Section) Title() string {
	switch s {
	case SectionConflicts:
		return "Merge Conflicts"
	case SectionStaged:
		return "Staged Changes"
	case SectionUnstaged:
		return "Changes"
	case SectionUnreviewed:
		return "Unreviewed"
	case SectionReviewed:
		return "Reviewed"
	default:
		return ""
	}
}

// RowKind tells rows apart.
type RowKind int

const (
	RowInfo RowKind = iota
	RowHeader
	RowCategory
	RowFile
	RowSeparator
)

// Row is one line of the menu.
type Row struct {
	Kind RowKind

	// Category and file rows.
	Section Section
	// Category rows: number of records in the section when built.
	Count int
	// File rows: 0-based position within the section.
	Index  int
	Record git.Record
	// File rows within the first 25: jump codes.
	DiffCode   string
	DirectCode string

	// Info and header rows.
	Text string
}

// Selectable reports whether the cursor may rest on the row.
func (r Row) Selectable() bool {
	return r.Kind == RowCategory || r.Kind == RowFile
}

// TargetSelector says where the cursor should land after a rebuild. The
// zero value preserves the previous position.
type TargetSelector struct {
	Path string
}

// TargetPreserve keeps the cursor on the equivalent row of the new model.
func TargetPreserve() TargetSelector { return TargetSelector{} }

// TargetPath moves the cursor to path, falling back to TargetPreserve when
// path is not listed.
func TargetPath(path string) TargetSelector { return TargetSelector{Path: path} }

// LineModel is the output of a build. Lines are 1-based: line n is Rows[n-1].
type LineModel struct {
	Rows       []Row
	Selectable map[int]bool
	Entries    map[int]Row
	DiffKeys   map[string]int
	DirectKeys map[string]int
	Target     TargetSelector
}

func newLineModel() *LineModel {
	return &LineModel{
		Selectable: make(map[int]bool),
		Entries:    make(map[int]Row),
		DiffKeys:   make(map[string]int),
		DirectKeys: make(map[string]int),
	}
}

// LineCount returns the number of lines.
func (lm *LineModel) LineCount() int { return len(lm.Rows) }

// Row returns the row at line.
func (lm *LineModel) Row(line int) (Row, bool) {
	if line < 1 || line > len(lm.Rows) {
		return Row{}, false
	}
	return lm.Rows[line-1], true
}

// FirstSelectable returns the first selectable line, or 0.
func (lm *LineModel) FirstSelectable() int {
	for i, r := range lm.Rows {
		if r.Selectable() {
			return i + 1
		}
	}
	return 0
}

// LastSelectable returns the last selectable line, or 0.
func (lm *LineModel) LastSelectable() int {
	for i := len(lm.Rows) - 1; i >= 0; i-- {
		if lm.Rows[i].Selectable() {
			return i + 1
		}
	}
	return 0
}

// hasCodes reports whether any row received a jump code.
func (lm *LineModel) hasCodes() bool { return len(lm.DiffKeys) > 0 }
