package menu

import (
	"strconv"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Akashdeep-Patra/zed-git-review/internal/logging"
	"github.com/Akashdeep-Patra/zed-git-review/internal/review"
)

// Options configures a Menu.
type Options struct {
	Render RenderOptions
	// BaseRef overrides the ref status-mode revert uses. Empty lets the
	// change source pick its default.
	BaseRef string
}

// Menu is the menu state machine. It is driven from a single bubbletea
// update loop and is not safe for concurrent use.
type Menu struct {
	changes ChangeSource
	reviews ReviewSource
	host    Host
	mem     *Memory
	opts    Options
	log     zerolog.Logger

	copyText func(string) error

	open    bool
	session *Session
	review  *review.Info // pull request of the last review build

	pending map[string]func() tea.Cmd
	nextTag int
}

// New creates a closed menu. reviews may be nil when no review host is
// available; review mode then shows the no-review state.
func New(changes ChangeSource, reviews ReviewSource, host Host, mem *Memory, opts Options) *Menu {
	if opts.Render.Width == 0 {
		opts.Render = DefaultRenderOptions
	}
	return &Menu{
		changes:  changes,
		reviews:  reviews,
		host:     host,
		mem:      mem,
		opts:     opts,
		log:      logging.Component("menu"),
		copyText: clipboard.WriteAll,
		pending:  make(map[string]func() tea.Cmd),
	}
}

// IsOpen reports whether the menu is showing.
func (m *Menu) IsOpen() bool { return m.open }

// Session returns the current session, nil when closed.
func (m *Menu) Session() *Session { return m.session }

// Mode returns the active mode, or the mode the next Open uses.
func (m *Menu) Mode() Mode {
	if m.session != nil {
		return m.session.Mode
	}
	return m.mem.LastMode
}

// Review returns the pull request of the last review-mode build.
func (m *Menu) Review() *review.Info { return m.review }

// Open shows the menu in the remembered mode. On error the menu stays
// closed.
func (m *Menu) Open() (tea.Cmd, error) {
	if m.changes == nil {
		return nil, ErrBackendUnavailable
	}
	if m.open {
		return nil, nil
	}

	mode := m.mem.LastMode
	m.host.SetTitle(mode.Title())
	cmd, err := m.rebuild(mode, TargetPreserve())
	if err != nil {
		m.log.Error().Err(err).Msg("open failed")
		m.session = nil
		return nil, err
	}
	m.open = true
	return cmd, nil
}

// Close hides the menu. Memory is kept for the next Open.
func (m *Menu) Close() {
	if !m.open {
		return
	}
	m.open = false
	m.session = nil
	clear(m.pending)
	m.host.Close()
}

// HandleNavigate moves the cursor by dir (±1).
func (m *Menu) HandleNavigate(dir int) {
	if !m.open || !m.session.Move(dir) {
		return
	}
	m.cursorMoved()
}

// HandleJump moves the cursor to the first (top) or last selectable line.
func (m *Menu) HandleJump(top bool) {
	if !m.open {
		return
	}
	moved := false
	if top {
		moved = m.session.First()
	} else {
		moved = m.session.Last()
	}
	if moved {
		m.cursorMoved()
	}
}

func (m *Menu) cursorMoved() {
	m.rememberSelection()
	m.host.SetCursor(m.session.Cursor)
}

// rememberSelection stores the path under the cursor. Category rows leave
// the remembered path alone.
func (m *Menu) rememberSelection() {
	if row, ok := m.session.Current(); ok && row.Kind == RowFile {
		m.mem.LastSelectedPath = row.Record.Path
	}
}

// HandleCode runs a two-key jump code: a diff code opens the diff of its
// row, a direct code opens the file.
func (m *Menu) HandleCode(code string) tea.Cmd {
	if !m.open {
		return nil
	}
	lm := m.session.Model
	if line, ok := lm.DiffKeys[code]; ok {
		m.session.Cursor = line
		m.cursorMoved()
		return m.HandleAction(ActionOpenDiff)
	}
	if line, ok := lm.DirectKeys[code]; ok {
		m.session.Cursor = line
		m.cursorMoved()
		return m.HandleAction(ActionOpenFile)
	}
	return nil
}

// HandleModeSwitch activates target. It is a no-op when target is active.
func (m *Menu) HandleModeSwitch(target Mode) tea.Cmd {
	if !m.open || m.session.Mode == target {
		return nil
	}
	// Publish the title first so a slow lookup never shows a stale one.
	m.host.SetTitle(target.Title())
	cmd := m.refreshMode(target, TargetPreserve())
	if m.open {
		m.mem.LastMode = target
	}
	return cmd
}

// rebuild builds a fresh session for mode and renders it.
func (m *Menu) rebuild(mode Mode, target TargetSelector) (tea.Cmd, error) {
	a := captureAnchor(m.session, m.mem)

	lm, cmd, err := builderFor(mode).build(m)
	if err != nil {
		return nil, err
	}
	if target.Path != "" {
		lm.Target = target
	}

	s := &Session{Mode: mode, Title: mode.Title(), Model: lm}
	s.Cursor = resolveCursor(lm, a)
	m.session = s
	m.rememberSelection()

	m.log.Debug().
		Str("mode", mode.String()).
		Int("lines", lm.LineCount()).
		Int("selectable", len(lm.Selectable)).
		Int("cursor", s.Cursor).
		Msg("rebuilt")

	m.host.SetRows(lm.Render(m.opts.Render))
	m.host.SetCursor(s.Cursor)
	return cmd, nil
}

// refresh rebuilds the active mode. A failed build closes the menu.
func (m *Menu) refresh(target TargetSelector) tea.Cmd {
	return m.refreshMode(m.session.Mode, target)
}

func (m *Menu) refreshMode(mode Mode, target TargetSelector) tea.Cmd {
	cmd, err := m.rebuild(mode, target)
	if err != nil {
		m.log.Error().Err(err).Str("mode", mode.String()).Msg("rebuild failed")
		m.host.Notify(LevelError, err.Error())
		m.Close()
		return nil
	}
	return cmd
}

// Update handles the completion messages of the menu's background work.
func (m *Menu) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case reviewFilesMsg:
		return m.handleReviewFiles(msg)
	case reviewToggledMsg:
		return m.handleReviewToggled(msg)
	}
	return nil
}

// HandleConfirm delivers the answer to a Confirm prompt.
func (m *Menu) HandleConfirm(tag string, ok bool) tea.Cmd {
	run, found := m.pending[tag]
	delete(m.pending, tag)
	if !found || !ok || !m.open {
		return nil
	}
	return run()
}

// confirm asks the host before running fn.
func (m *Menu) confirm(prompt string, fn func() tea.Cmd) {
	m.nextTag++
	tag := "menu-" + strconv.Itoa(m.nextTag)
	m.pending[tag] = fn
	m.host.Confirm(prompt, tag)
}
