package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
	"github.com/Akashdeep-Patra/zed-git-review/internal/menu"
	"github.com/Akashdeep-Patra/zed-git-review/internal/ui"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func dismiss(t *testing.T, keys ...string) DialogResult {
	t.Helper()
	d := NewConfirmDialog(ui.DefaultStyles(), "Confirm", "Discard a.go?", "menu-1")
	var cmd tea.Cmd
	for _, k := range keys {
		d, cmd = d.Update(key(k))
	}
	require.False(t, d.Visible())
	require.NotNil(t, cmd)
	res, ok := cmd().(DialogResult)
	require.True(t, ok)
	assert.Equal(t, "menu-1", res.Tag)
	return res
}

func TestConfirmDialog(t *testing.T) {
	assert.True(t, dismiss(t, "y").Confirmed)
	assert.False(t, dismiss(t, "n").Confirmed)
	assert.False(t, dismiss(t, "esc").Confirmed)
	// No has the focus by default.
	assert.False(t, dismiss(t, "enter").Confirmed)
	assert.True(t, dismiss(t, "tab", "enter").Confirmed)
}

func TestConfirmDialogView(t *testing.T) {
	d := NewConfirmDialog(ui.DefaultStyles(), "Confirm", "Discard a.go?", "menu-1")
	v := d.View()
	assert.Contains(t, v, "Discard a.go?")
	assert.Contains(t, v, "Yes")

	d, _ = d.Update(key("y"))
	assert.Empty(t, d.View())
}

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		name                          string
		cursor, offset, height, total int
		want                          int
	}{
		{"fits", 5, 0, 10, 8, 0},
		{"cursor below window", 12, 0, 10, 30, 3},
		{"cursor above window", 2, 8, 10, 30, 2},
		{"cursor inside window", 9, 5, 10, 30, 5},
		{"clamped to end", 29, 25, 10, 30, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScrollOffset(tt.cursor, tt.offset, tt.height, tt.total))
		})
	}
}

func TestRenderScrollbar(t *testing.T) {
	styles := ui.DefaultStyles()
	assert.Empty(t, RenderScrollbar(styles, 10, 8, 10, 0))

	bar := RenderScrollbar(styles, 10, 40, 10, 0)
	assert.Len(t, strings.Split(bar, "\n"), 10)
}

func TestPaintRowKeepsWidth(t *testing.T) {
	styles := ui.DefaultStyles()
	opts := menu.RenderOptions{Width: 40, NameWidth: 16}
	lm := menu.BuildStatus(git.Snapshot{
		Unstaged: []git.Record{{Path: "src/app/Component.tsx", Kind: git.KindModified}},
	})
	rows := lm.Render(opts)
	require.NotEmpty(t, rows)

	for i, row := range rows {
		painted := PaintRow(styles, row, i == 0)
		assert.Equal(t, 40, lipgloss.Width(painted), "row %d", i)
	}
	assert.Contains(t, PaintRow(styles, rows[len(rows)-1], false), "Component.tsx")
}

func TestRenderTabsHits(t *testing.T) {
	tabs := []TabInfo{
		{Name: "Status", Shortcut: "1", Active: true},
		{Name: "Review", Shortcut: "2"},
	}
	out, hits := RenderTabs(ui.DefaultStyles(), tabs, 60)

	assert.Contains(t, out, "Status")
	assert.Contains(t, out, "Review")
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Start)
	assert.Equal(t, hits[0].End, hits[1].Start)
	assert.Equal(t, TabBarRows, len(strings.Split(out, "\n")))
}

func TestRenderStatusBar(t *testing.T) {
	styles := ui.DefaultStyles()
	data := StatusBarData{Branch: "feature", Mode: "review", PRNumber: 12, PRTitle: "Menu", Changes: 3}

	out := RenderStatusBar(styles, data, 80)
	assert.Contains(t, out, "feature")
	assert.Contains(t, out, "#12 Menu")
	assert.Equal(t, 80, lipgloss.Width(out))

	data.Message, data.Severity = "Copied a.go", SeverityInfo
	assert.Contains(t, RenderStatusBar(styles, data, 80), "Copied a.go")
}
