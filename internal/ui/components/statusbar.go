package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/zed-git-review/internal/ui"
)

// Severity of the transient status bar message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// StatusBarData carries the info displayed in the bottom status bar.
type StatusBarData struct {
	Branch   string
	Mode     string
	PRNumber int    // 0 when the branch has no open pull request
	PRTitle  string // shown only when wide
	Changes  int
	Message  string // transient info/error message
	Severity Severity
	RepoRoot string
}

// RenderStatusBar renders the bottom status bar with clear visual sections
// separated by dim vertical bars.
//
// Wide (>= 60):   main  │  status  │  #12 Fix menu              repo
// Medium (40-59):  main  │  status  │  #12
// Narrow (< 40):   main  │  status
func RenderStatusBar(styles ui.Styles, data StatusBarData, width int) string {
	t := styles.Theme

	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Faint(true)
	sep := sepStyle.Render(" │ ")

	// ── Left sections ────────────────────────────────────────────

	branchStyle := lipgloss.NewStyle().Foreground(t.BranchHead).Bold(true)
	left := " " + branchStyle.Render(" "+data.Branch)

	if data.Mode != "" {
		modeStyle := lipgloss.NewStyle().Foreground(t.Accent)
		left += sep + modeStyle.Render(data.Mode)
	}

	if width >= 40 && data.PRNumber > 0 {
		prStyle := lipgloss.NewStyle().Foreground(t.Review)
		pr := fmt.Sprintf("#%d", data.PRNumber)
		if width >= 60 && data.PRTitle != "" {
			pr += " " + ui.Truncate(data.PRTitle, width/3)
		}
		left += sep + prStyle.Render(pr)
	}

	if data.Changes == 0 {
		left += sep + lipgloss.NewStyle().Foreground(t.Success).Render("✓ clean")
	} else if width >= 50 {
		left += sep + lipgloss.NewStyle().Foreground(t.Modified).Render(fmt.Sprintf("● %d", data.Changes))
	}

	// ── Right section ────────────────────────────────────────────

	var right string
	if data.Message != "" {
		fg := t.Info
		switch data.Severity {
		case SeverityWarn:
			fg = t.Warning
		case SeverityError:
			fg = t.Error
		}
		right = lipgloss.NewStyle().Foreground(fg).Render(data.Message) + " "
	} else if width >= 60 && data.RepoRoot != "" {
		repoName := filepath.Base(data.RepoRoot)
		right = lipgloss.NewStyle().Foreground(t.TextSubtle).Render(repoName) + " "
	}

	// ── Assemble ─────────────────────────────────────────────────

	inner := width - styles.StatusBar.GetHorizontalFrameSize()
	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := inner - leftW - rightW
	if gap < 0 {
		gap = 1
		right = "" // drop right side if no room
	}

	content := left + strings.Repeat(" ", gap) + right

	return styles.StatusBar.Width(width).Render(content)
}
