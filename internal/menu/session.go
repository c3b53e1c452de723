package menu

import (
	"time"

	"github.com/Akashdeep-Patra/zed-git-review/internal/review"
)

// Memory is the state that outlives a menu session: it survives closing
// and reopening the panel for the life of the process.
type Memory struct {
	LastSelectedPath string
	LastMode         Mode
	Cache            *review.Cache
}

// NewMemory returns memory that starts in mode with an empty review cache.
func NewMemory(mode Mode, reviewTTL time.Duration) *Memory {
	return &Memory{LastMode: mode, Cache: review.NewCache(reviewTTL)}
}

// Session is the state of one open menu. Every rebuild replaces it.
type Session struct {
	Mode   Mode
	Title  string
	Model  *LineModel
	Cursor int // 0 when nothing is selectable
}

// Current returns the row under the cursor.
func (s *Session) Current() (Row, bool) {
	if s == nil || s.Cursor == 0 {
		return Row{}, false
	}
	return s.Model.Row(s.Cursor)
}

// Move steps the cursor by dir lines, wrapping around both ends and
// skipping rows that cannot be selected. It returns false when no
// selectable line exists.
func (s *Session) Move(dir int) bool {
	n := s.Model.LineCount()
	if n == 0 || dir == 0 {
		return false
	}
	if dir > 0 {
		dir = 1
	} else {
		dir = -1
	}

	next := s.Cursor
	if next == 0 && dir < 0 {
		next = n + 1
	}
	for range n {
		next = wrapLine(next+dir, n)
		if s.Model.Selectable[next] {
			s.Cursor = next
			return true
		}
	}
	return false
}

// First moves the cursor to the first selectable line.
func (s *Session) First() bool {
	if line := s.Model.FirstSelectable(); line != 0 {
		s.Cursor = line
		return true
	}
	return false
}

// Last moves the cursor to the last selectable line.
func (s *Session) Last() bool {
	if line := s.Model.LastSelectable(); line != 0 {
		s.Cursor = line
		return true
	}
	return false
}

// wrapLine maps line into [1, n].
func wrapLine(line, n int) int {
	return ((line-1)%n+n)%n + 1
}

// anchor is what the cursor pointed at before a rebuild.
type anchor struct {
	section    Section
	hasSection bool
	isCategory bool
	index      int
	path       string
}

// captureAnchor records the cursor position of prev. Without a previous
// selection it falls back to the remembered path.
func captureAnchor(prev *Session, mem *Memory) anchor {
	row, ok := prev.Current()
	switch {
	case ok && row.Kind == RowCategory:
		return anchor{section: row.Section, hasSection: true, isCategory: true}
	case ok && row.Kind == RowFile:
		return anchor{section: row.Section, hasSection: true, index: row.Index, path: row.Record.Path}
	default:
		return anchor{path: mem.LastSelectedPath}
	}
}

// resolveCursor picks the line for the cursor in a freshly built model.
// An explicit target path wins; otherwise, first match wins:
//
//  1. the category row of the anchored category
//  2. the file row at the anchored (section, index)
//  3. any file row with the anchored path
//  4. the first selectable line
//
// It returns 0 when nothing is selectable.
func resolveCursor(lm *LineModel, a anchor) int {
	if lm.Target.Path != "" {
		if line := lm.findPath(lm.Target.Path); line != 0 {
			return line
		}
	}
	if a.hasSection {
		for line, r := range lm.Rows {
			if r.Section != a.section {
				continue
			}
			if a.isCategory && r.Kind == RowCategory {
				return line + 1
			}
			if !a.isCategory && r.Kind == RowFile && r.Index == a.index {
				return line + 1
			}
		}
	}
	if a.path != "" {
		if line := lm.findPath(a.path); line != 0 {
			return line
		}
	}
	return lm.FirstSelectable()
}

// findPath returns the first file row listing path, or 0.
func (lm *LineModel) findPath(path string) int {
	for i, r := range lm.Rows {
		if r.Kind == RowFile && r.Record.Path == path {
			return i + 1
		}
	}
	return 0
}
