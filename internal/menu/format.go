package menu

import (
	"path"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

const ellipsis = "…"

// Highlight is the style role of a span. The host maps roles to styles.
type Highlight int

const (
	HighlightKeybind Highlight = iota
	HighlightIcon
	HighlightName
	HighlightDir
	HighlightCategory
	HighlightCount
	HighlightHeader
	HighlightInfo
	HighlightAdded
	HighlightModified
	HighlightDeleted
	HighlightRenamed
	HighlightUntracked
	HighlightConflict
)

// kindHighlight maps a change kind onto its status glyph role.
func kindHighlight(k git.ChangeKind) Highlight {
	switch k {
	case git.KindAdded:
		return HighlightAdded
	case git.KindDeleted:
		return HighlightDeleted
	case git.KindRenamed, git.KindCopied:
		return HighlightRenamed
	case git.KindUntracked:
		return HighlightUntracked
	case git.KindConflict:
		return HighlightConflict
	default:
		return HighlightModified
	}
}

// Span styles Text[Start:End] (byte offsets).
type Span struct {
	Start, End int
	Role       Highlight
}

// Formatted is a rendered line and its style spans.
type Formatted struct {
	Text  string
	Spans []Span
}

// lineWriter appends cells to a line while tracking the remaining budget.
type lineWriter struct {
	sb     strings.Builder
	spans  []Span
	remain int
}

func (w *lineWriter) write(s string) {
	w.sb.WriteString(s)
	w.remain -= runewidth.StringWidth(s)
}

func (w *lineWriter) styled(s string, role Highlight) {
	start := w.sb.Len()
	w.write(s)
	if s != "" {
		w.spans = append(w.spans, Span{Start: start, End: w.sb.Len(), Role: role})
	}
}

// column writes s cut to the remaining budget. It returns false when the
// budget is exhausted.
func (w *lineWriter) column(s string, role Highlight, style bool) bool {
	if w.remain <= 0 {
		return false
	}
	if runewidth.StringWidth(s) > w.remain {
		s = runewidth.Truncate(s, w.remain, "")
	}
	if style {
		w.styled(s, role)
	} else {
		w.write(s)
	}
	return w.remain > 0
}

func (w *lineWriter) pad() {
	if w.remain > 0 {
		w.write(strings.Repeat(" ", w.remain))
	}
}

// Format renders one file row exactly totalWidth cells wide.
//
// Columns, left to right: keybind and a space (omitted when keybind is "";
// a blank keybind keeps the gutter without styling it), icon and a space
// (omitted when icon is ""), the file name padded or cut to maxNameWidth,
// a two-cell gap, the directory cut from the left, padding, then a space
// and the status glyph. A single cell holds the glyph alone; a
// non-positive width yields an empty row.
func Format(p string, kind git.ChangeKind, totalWidth, maxNameWidth int, keybind, icon string) Formatted {
	if totalWidth <= 0 {
		return Formatted{}
	}
	if totalWidth == 1 {
		w := &lineWriter{}
		w.styled(kind.Glyph(), kindHighlight(kind))
		return Formatted{Text: w.sb.String(), Spans: w.spans}
	}
	w := &lineWriter{remain: totalWidth - 2}

	if keybind != "" {
		w.column(keybind, HighlightKeybind, strings.TrimSpace(keybind) != "")
		w.column(" ", 0, false)
	}
	if icon != "" {
		w.column(icon, HighlightIcon, true)
		w.column(" ", 0, false)
	}

	name, dir := path.Base(p), path.Dir(p)
	if dir == "." || dir == "/" {
		dir = ""
	}

	if nameW := min(maxNameWidth, w.remain); nameW > 0 {
		name = runewidth.Truncate(name, nameW, ellipsis)
		w.styled(name, HighlightName)
		w.write(strings.Repeat(" ", nameW-runewidth.StringWidth(name)))
	}

	if dir != "" && w.remain > 2 {
		w.write("  ")
		w.styled(truncateLeft(dir, w.remain), HighlightDir)
	}

	w.pad()
	w.write(" ")
	w.styled(kind.Glyph(), kindHighlight(kind))
	return Formatted{Text: w.sb.String(), Spans: w.spans}
}

// truncateLeft cuts s from the left to fit width cells, marking the cut
// with a leading ellipsis.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	keep := width - runewidth.StringWidth(ellipsis)
	runes := []rune(s)
	used, i := 0, len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if used+rw > keep {
			break
		}
		used += rw
		i--
	}
	return ellipsis + string(runes[i:])
}

// formatCategory renders a section heading with its record count.
func formatCategory(s Section, count, totalWidth int) Formatted {
	w := &lineWriter{remain: totalWidth}
	w.column(s.Title(), HighlightCategory, true)
	w.column(" ", 0, false)
	w.column("("+strconv.Itoa(count)+")", HighlightCount, true)
	w.pad()
	return Formatted{Text: w.sb.String(), Spans: w.spans}
}

// formatText renders an info or header line, cut with an ellipsis.
func formatText(text string, role Highlight, totalWidth int) Formatted {
	w := &lineWriter{remain: totalWidth}
	w.styled(runewidth.Truncate(text, totalWidth, ellipsis), role)
	w.pad()
	return Formatted{Text: w.sb.String(), Spans: w.spans}
}
