package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/zed-git-review/internal/menu"
	"github.com/Akashdeep-Patra/zed-git-review/internal/ui"
)

// HighlightStyle maps a span role onto its style.
func HighlightStyle(styles ui.Styles, role menu.Highlight) lipgloss.Style {
	switch role {
	case menu.HighlightKeybind:
		return styles.JumpCode
	case menu.HighlightIcon:
		return styles.Icon
	case menu.HighlightName:
		return styles.Name
	case menu.HighlightDir:
		return styles.Dir
	case menu.HighlightCategory:
		return styles.Category
	case menu.HighlightCount:
		return styles.Count
	case menu.HighlightHeader:
		return styles.Header
	case menu.HighlightAdded:
		return styles.FileAdded
	case menu.HighlightModified:
		return styles.FileModified
	case menu.HighlightDeleted:
		return styles.FileDeleted
	case menu.HighlightRenamed:
		return styles.FileRenamed
	case menu.HighlightUntracked:
		return styles.FileUntracked
	case menu.HighlightConflict:
		return styles.FileConflict
	default:
		return styles.InfoText
	}
}

// PaintRow applies the row's spans. Unstyled text keeps the base style.
func PaintRow(styles ui.Styles, row menu.RenderedRow, selected bool) string {
	base := lipgloss.NewStyle()
	if selected {
		base = styles.Cursor
	}
	if row.Kind == menu.RowSeparator {
		return base.Render(styles.Separator.Render(strings.Repeat("─", lipgloss.Width(row.Text))))
	}

	var b strings.Builder
	pos := 0
	for _, sp := range row.Spans {
		if sp.Start < pos || sp.End > len(row.Text) || sp.Start > sp.End {
			continue
		}
		if sp.Start > pos {
			b.WriteString(base.Render(row.Text[pos:sp.Start]))
		}
		st := HighlightStyle(styles, sp.Role)
		if selected {
			st = st.Inherit(styles.Cursor)
		}
		b.WriteString(st.Render(row.Text[sp.Start:sp.End]))
		pos = sp.End
	}
	if pos < len(row.Text) {
		b.WriteString(base.Render(row.Text[pos:]))
	}
	return b.String()
}

// ScrollOffset returns the first visible line so that cursor stays in a
// window of height lines.
func ScrollOffset(cursor, offset, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	return min(max(offset, 0), total-height)
}

// RenderRows renders the visible window of rows with a scrollbar on the
// right when the list overflows.
func RenderRows(styles ui.Styles, rows []menu.RenderedRow, cursor, offset, height int) string {
	end := min(offset+height, len(rows))
	lines := make([]string, 0, height)
	for i := offset; i < end; i++ {
		lines = append(lines, PaintRow(styles, rows[i], i == cursor))
	}
	list := strings.Join(lines, "\n")

	bar := RenderScrollbar(styles, height, len(rows), height, offset)
	if bar == "" {
		return list
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", bar)
}
