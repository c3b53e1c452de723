package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/zed-git-review/internal/menu"
	"github.com/Akashdeep-Patra/zed-git-review/internal/ui"
	"github.com/Akashdeep-Patra/zed-git-review/internal/ui/components"
)

// editorClosedMsg is sent when an editor or difftool started by the
// panel exits.
type editorClosedMsg struct {
	path string
	err  error
}

// screen is the display state the menu writes through menu.Host. It is
// shared by pointer between the model and the menu.
type screen struct {
	styles   ui.Styles
	editor   []string
	repoRoot string
	now      func() time.Time

	// exec runs an external program with the terminal handed over.
	exec func(c *exec.Cmd, fn tea.ExecCallback) tea.Cmd

	title      string
	rows       []menu.RenderedRow
	cursor     int // 1-based line, 0 when none
	offset     int // first visible row, 0-based
	listHeight int

	dialog *components.Dialog

	message  string
	severity components.Severity
	expires  time.Time
}

var _ menu.Host = (*screen)(nil)

func newScreen(styles ui.Styles, editor, repoRoot string) *screen {
	return &screen{
		styles:     styles,
		editor:     resolveEditor(editor),
		repoRoot:   repoRoot,
		now:        time.Now,
		exec:       tea.ExecProcess,
		listHeight: 1,
	}
}

// resolveEditor picks the configured editor, then $VISUAL, then $EDITOR.
// The value may carry arguments ("code --wait").
func resolveEditor(configured string) []string {
	for _, v := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if f := strings.Fields(v); len(f) > 0 {
			return f
		}
	}
	return []string{"vi"}
}

func (s *screen) SetTitle(title string) { s.title = title }

func (s *screen) SetRows(rows []menu.RenderedRow) {
	s.rows = rows
	s.offset = min(s.offset, max(len(rows)-s.listHeight, 0))
}

func (s *screen) SetCursor(line int) {
	s.cursor = line
	if line > 0 {
		s.offset = components.ScrollOffset(line-1, s.offset, s.listHeight, len(s.rows))
	}
}

func (s *screen) resize(listHeight int) {
	s.listHeight = max(listHeight, 1)
	if s.cursor > 0 {
		s.offset = components.ScrollOffset(s.cursor-1, s.offset, s.listHeight, len(s.rows))
	} else {
		s.offset = 0
	}
}

func (s *screen) OpenFile(path string) tea.Cmd {
	args := append(append([]string{}, s.editor[1:]...), filepath.Join(s.repoRoot, path))
	c := exec.Command(s.editor[0], args...)
	c.Dir = s.repoRoot
	return s.run(c, path)
}

// OpenDiff hands the file to the user's configured git difftool.
func (s *screen) OpenDiff(path string, target menu.DiffTarget) tea.Cmd {
	args := []string{"difftool", "--no-prompt"}
	switch {
	case target.Staged:
		args = append(args, "--cached")
	case target.Ref != "":
		args = append(args, target.Ref)
	}
	args = append(args, "--", path)
	c := exec.Command("git", args...)
	c.Dir = s.repoRoot
	return s.run(c, path)
}

func (s *screen) run(c *exec.Cmd, path string) tea.Cmd {
	return s.exec(c, func(err error) tea.Msg {
		return editorClosedMsg{path: path, err: err}
	})
}

func (s *screen) Confirm(prompt, tag string) {
	d := components.NewConfirmDialog(s.styles, "Confirm", prompt, tag)
	s.dialog = &d
}

func (s *screen) Notify(level menu.Level, text string) {
	s.message = text
	switch level {
	case menu.LevelError:
		s.severity = components.SeverityError
		s.expires = s.now().Add(5 * time.Second)
	case menu.LevelWarn:
		s.severity = components.SeverityWarn
		s.expires = s.now().Add(5 * time.Second)
	default:
		s.severity = components.SeverityInfo
		s.expires = s.now().Add(3 * time.Second)
	}
}

// Close drops the rows and any open prompt. Notifications survive so the
// reason for a close stays visible.
func (s *screen) Close() {
	s.rows = nil
	s.cursor = 0
	s.offset = 0
	s.dialog = nil
}

func (s *screen) dialogVisible() bool {
	return s.dialog != nil && s.dialog.Visible()
}

// activeMessage returns the notification while it has not expired.
func (s *screen) activeMessage() (string, components.Severity) {
	if s.message == "" || !s.now().Before(s.expires) {
		return "", components.SeverityInfo
	}
	return s.message, s.severity
}
