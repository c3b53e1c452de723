package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/zed-git-review/internal/ui"
)

// DialogResult is sent when the dialog is dismissed.
type DialogResult struct {
	Confirmed bool
	Tag       string // arbitrary tag to identify which dialog this was
}

// Dialog is a modal yes/no confirmation.
type Dialog struct {
	Title   string
	Message string
	Tag     string
	focused int // 0 = yes, 1 = no
	styles  ui.Styles
	visible bool
}

// NewConfirmDialog creates a Yes/No confirmation dialog. No is focused so
// a stray enter never runs a destructive action.
func NewConfirmDialog(styles ui.Styles, title, message, tag string) Dialog {
	return Dialog{
		Title:   title,
		Message: message,
		Tag:     tag,
		focused: 1,
		styles:  styles,
		visible: true,
	}
}

// Visible returns whether the dialog is showing.
func (d Dialog) Visible() bool { return d.visible }

// Update handles key events for the dialog.
func (d Dialog) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch keyMsg.String() {
	case "esc", "n", "N", "q":
		return d.dismiss(false)
	case "y", "Y":
		return d.dismiss(true)
	case "enter":
		return d.dismiss(d.focused == 0)
	case "tab", "left", "right", "h", "l":
		d.focused = 1 - d.focused
	}
	return d, nil
}

func (d Dialog) dismiss(confirmed bool) (Dialog, tea.Cmd) {
	d.visible = false
	tag := d.Tag
	return d, func() tea.Msg { return DialogResult{Confirmed: confirmed, Tag: tag} }
}

// View renders the dialog.
func (d Dialog) View() string {
	if !d.visible {
		return ""
	}
	t := d.styles.Theme

	title := lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(d.Title)
	message := lipgloss.NewStyle().Foreground(t.TextMuted).Render(d.Message)

	yes := "  Yes  "
	no := "  No   "
	activeBtn := lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Primary).Bold(true)
	inactiveBtn := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if d.focused == 0 {
		yes = activeBtn.Render(yes)
		no = inactiveBtn.Render(no)
	} else {
		yes = inactiveBtn.Render(yes)
		no = activeBtn.Render(no)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no)
	content := title + "\n\n" + message + "\n\n" + buttons

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Width(56).
		Render(content)
}
