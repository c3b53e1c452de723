package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/zed-git-review/internal/ui"
)

// TabInfo describes a single tab for rendering.
type TabInfo struct {
	Name     string
	Shortcut string
	Active   bool
}

// TabHit is the column range a rendered tab occupies.
type TabHit struct {
	Start, End int // End is exclusive
}

// RenderTabs renders a one-row tab strip with an underline that accents the
// active tab. It also returns the column range of each tab for mouse hits.
//
//	1 Status   2 Review                ?help
//	━━━━━━━━━━──────────────────────────────
func RenderTabs(styles ui.Styles, tabs []TabInfo, width int) (string, []TabHit) {
	t := styles.Theme

	activeStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	shortcutStyle := lipgloss.NewStyle().Foreground(t.TextSubtle)

	var row strings.Builder
	row.WriteByte(' ')
	col := 1
	hits := make([]TabHit, len(tabs))
	activeStart, activeEnd := -1, -1

	for i, tab := range tabs {
		label := tab.Name
		if tab.Active {
			label = activeStyle.Render(label)
		} else {
			label = inactiveStyle.Render(label)
		}
		styled := " " + shortcutStyle.Render(tab.Shortcut) + " " + label + " "
		w := lipgloss.Width(styled)
		hits[i] = TabHit{Start: col, End: col + w}
		if tab.Active {
			activeStart, activeEnd = col, col+w
		}
		row.WriteString(styled)
		col += w
	}

	top := lipgloss.NewStyle().Width(width).MaxWidth(width).Render(row.String())

	borderStyle := lipgloss.NewStyle().Foreground(t.Border)
	accentStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	underline := buildUnderline(width, activeStart, activeEnd, borderStyle, accentStyle, "─", "━")

	hint := lipgloss.NewStyle().Foreground(t.TextSubtle).Faint(true).Render("?help")
	if hintW := lipgloss.Width(hint); hintW+4 < width {
		underline = buildUnderline(width-hintW-1, activeStart, activeEnd, borderStyle, accentStyle, "─", "━") + " " + hint
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, underline), hits
}

// TabBarRows is the height of the tab strip.
const TabBarRows = 2

// buildUnderline builds a width-wide underline string with a bold accent
// segment between activeStart..activeEnd and thin segments elsewhere.
func buildUnderline(width, activeStart, activeEnd int, borderSt, accentSt lipgloss.Style, thin, bold string) string {
	if width <= 0 {
		return ""
	}
	if activeStart < 0 || activeEnd < 0 {
		return borderSt.Render(strings.Repeat(thin, width))
	}
	activeEnd = min(activeEnd, width)
	activeStart = min(activeStart, width)

	var b strings.Builder
	b.Grow(width * 4)
	if activeStart > 0 {
		b.WriteString(borderSt.Render(strings.Repeat(thin, activeStart)))
	}
	if seg := activeEnd - activeStart; seg > 0 {
		b.WriteString(accentSt.Render(strings.Repeat(bold, seg)))
	}
	if rem := width - activeEnd; rem > 0 {
		b.WriteString(borderSt.Render(strings.Repeat(thin, rem)))
	}
	return b.String()
}
