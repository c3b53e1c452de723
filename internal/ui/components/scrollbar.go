package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/zed-git-review/internal/ui"
)

// RenderScrollbar returns a vertical scrollbar track of the given height.
// The thumb is proportional to the visible portion and positioned by
// offset. Returns an empty string if all content fits.
func RenderScrollbar(styles ui.Styles, height, totalLines, visibleH, offset int) string {
	if totalLines <= visibleH || height < 1 {
		return ""
	}

	t := styles.Theme

	thumbSize := max(height*visibleH/totalLines, 1)
	thumbSize = min(thumbSize, height)

	maxOffset := height - thumbSize
	thumbStart := 0
	if scrollable := totalLines - visibleH; scrollable > 0 {
		thumbStart = offset * maxOffset / scrollable
	}
	thumbStart = min(max(thumbStart, 0), maxOffset)

	thumbStyle := lipgloss.NewStyle().Foreground(t.Primary)
	trackStyle := lipgloss.NewStyle().Foreground(t.Border)

	var b strings.Builder
	b.Grow(height * 4)
	for i := range height {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= thumbStart && i < thumbStart+thumbSize {
			b.WriteString(thumbStyle.Render("█"))
		} else {
			b.WriteString(trackStyle.Render("░"))
		}
	}
	return b.String()
}
