// Package app is the bubbletea program around the menu: it owns the
// terminal, routes keys to the menu and paints what the menu publishes.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/Akashdeep-Patra/zed-git-review/internal/common"
	"github.com/Akashdeep-Patra/zed-git-review/internal/config"
	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
	"github.com/Akashdeep-Patra/zed-git-review/internal/logging"
	"github.com/Akashdeep-Patra/zed-git-review/internal/menu"
	"github.com/Akashdeep-Patra/zed-git-review/internal/ui"
	"github.com/Akashdeep-Patra/zed-git-review/internal/ui/components"
)

// chromeRows is the height taken by everything but the rows: the mode
// tabs, the panel border and title, and the status bar.
const chromeRows = components.TabBarRows + 3 + 1

// Model is the top-level Bubbletea model.
type Model struct {
	git     git.Service
	reviews menu.ReviewSource
	menu    *menu.Menu
	screen  *screen
	styles  ui.Styles
	keys    KeyMap
	log     zerolog.Logger

	width    int
	height   int
	showHelp bool

	// pendingKey holds the first key of a jump code.
	pendingKey string

	// Cached status bar data, refreshed via tea.Cmd, never computed in View().
	barData components.StatusBarData
}

// statusBarMsg carries refreshed status bar data from a background command.
type statusBarMsg struct {
	data components.StatusBarData
}

// New creates the application model. reviews may be nil when gh is not
// available.
func New(svc git.Service, reviews menu.ReviewSource, cfg *config.Config) Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	scr := newScreen(styles, cfg.Editor, svc.RepoRoot())

	mode, ok := menu.ParseMode(cfg.StartMode)
	if !ok {
		mode = menu.ModeStatus
	}
	mem := menu.NewMemory(mode, cfg.ReviewCacheTTL)

	opts := menu.Options{
		Render: menu.RenderOptions{
			Width:     cfg.MenuWidth,
			NameWidth: cfg.NameWidth,
			Icons:     cfg.Icons,
		},
		BaseRef: cfg.BaseRef,
	}

	return Model{
		git:     svc,
		reviews: reviews,
		menu:    menu.New(svc, reviews, scr, mem, opts),
		screen:  scr,
		styles:  styles,
		keys:    DefaultKeyMap(),
		log:     logging.Component("app"),
		barData: components.StatusBarData{RepoRoot: svc.RepoRoot()},
	}
}

// Menu exposes the menu for the caller that drives the program.
func (m Model) Menu() *menu.Menu { return m.menu }

// Init opens the panel and triggers the first status bar refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.openMenu(), m.refreshStatusBar())
}

func (m Model) openMenu() tea.Cmd {
	cmd, err := m.menu.Open()
	if err != nil {
		return common.CmdErr(err)
	}
	return cmd
}

// refreshStatusBar runs git and gh queries in the background.
func (m Model) refreshStatusBar() tea.Cmd {
	svc, reviews := m.git, m.reviews
	return func() tea.Msg {
		data := components.StatusBarData{RepoRoot: svc.RepoRoot()}
		if head, err := svc.Head(); err == nil {
			data.Branch = head
		}
		if snap, err := svc.Status(); err == nil {
			data.Changes = snap.TotalCount()
		}
		if reviews != nil {
			if info, err := reviews.CurrentReview(); err == nil && info != nil {
				data.PRNumber = info.Number
				data.PRTitle = info.Title
			}
		}
		return statusBarMsg{data: data}
	}
}

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Dialog has exclusive input when visible.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.screen.dialogVisible() {
		d, cmd := m.screen.dialog.Update(keyMsg)
		m.screen.dialog = &d
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.resize(m.height - chromeRows)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case components.DialogResult:
		m.screen.dialog = nil
		return m, m.menu.HandleConfirm(msg.Tag, msg.Confirmed)

	case statusBarMsg:
		m.barData = msg.data
		return m, nil

	case common.RefreshMsg:
		return m, m.externalRefresh()

	case editorClosedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("path", msg.path).Msg("external program failed")
			m.screen.Notify(menu.LevelError, fmt.Sprintf("%s: %v", msg.path, msg.err))
		}
		return m, m.externalRefresh()

	case common.ErrMsg:
		m.screen.Notify(menu.LevelError, msg.Err.Error())
		return m, nil

	case common.WarnMsg:
		m.screen.Notify(menu.LevelWarn, msg.Text)
		return m, nil

	case common.InfoMsg:
		m.screen.Notify(menu.LevelInfo, msg.Text)
		return m, nil
	}

	return m, m.menu.Update(msg)
}

// externalRefresh follows changes made outside the panel. Review mode is
// left alone: its data comes from the review host, not the working tree.
func (m Model) externalRefresh() tea.Cmd {
	var cmd tea.Cmd
	if m.menu.IsOpen() && m.menu.Mode() == menu.ModeStatus {
		// The refresh action drops the cached git reads itself.
		cmd = m.menu.HandleAction(menu.ActionRefresh)
	} else if inv, ok := m.git.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
	return tea.Batch(cmd, m.refreshStatusBar())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Close) {
			m.showHelp = false
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = true
		m.pendingKey = ""
		return m, nil
	}

	if !m.menu.IsOpen() {
		switch {
		case key.Matches(msg, m.keys.Close):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle, m.keys.Diff):
			return m, tea.Batch(m.openMenu(), m.refreshStatusBar())
		}
		return m, nil
	}

	// Jump codes are two code keys. Any other key drops a pending first
	// half and is handled on its own.
	k := msg.String()
	if menu.IsCodePrefix(k) {
		if m.pendingKey == "" {
			m.pendingKey = k
			return m, nil
		}
		code := m.pendingKey + k
		m.pendingKey = ""
		return m, m.menu.HandleCode(code)
	}
	m.pendingKey = ""

	switch {
	case key.Matches(msg, m.keys.Close):
		m.menu.Close()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.menu.HandleNavigate(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.menu.HandleNavigate(1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.menu.HandleJump(true)
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.menu.HandleJump(false)
		return m, nil
	case key.Matches(msg, m.keys.StatusMode):
		return m, m.menu.HandleModeSwitch(menu.ModeStatus)
	case key.Matches(msg, m.keys.ReviewMode):
		return m, m.menu.HandleModeSwitch(menu.ModeReview)
	case key.Matches(msg, m.keys.NextMode):
		return m, m.menu.HandleModeSwitch(nextMode(m.menu.Mode()))
	}

	for _, ab := range m.keys.actions() {
		if key.Matches(msg, ab.binding) {
			return m, m.menu.HandleAction(ab.action)
		}
	}
	return m, nil
}

func nextMode(cur menu.Mode) menu.Mode {
	for i, mode := range menu.Modes {
		if mode == cur {
			return menu.Modes[(i+1)%len(menu.Modes)]
		}
	}
	return menu.ModeStatus
}

// handleMouse switches modes from the tab strip and scrolls the rows.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.menu.IsOpen() {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.menu.HandleNavigate(-1)
	case tea.MouseButtonWheelDown:
		m.menu.HandleNavigate(1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || msg.Y >= components.TabBarRows {
			break
		}
		_, hits := components.RenderTabs(m.styles, m.tabInfos(), m.width)
		for i, h := range hits {
			if msg.X >= h.Start && msg.X < h.End {
				return m, m.menu.HandleModeSwitch(menu.Modes[i])
			}
		}
	}
	return m, nil
}

func (m Model) tabInfos() []components.TabInfo {
	cur := m.menu.Mode()
	tabs := make([]components.TabInfo, 0, len(menu.Modes))
	for i, mode := range menu.Modes {
		tabs = append(tabs, components.TabInfo{
			Name:     mode.Title(),
			Shortcut: fmt.Sprint(i + 1),
			Active:   mode == cur,
		})
	}
	return tabs
}

// View renders the entire UI. This is a pure function, no I/O.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showHelp {
		return components.RenderHelp(m.styles, "Keyboard Shortcuts", m.keys.HelpSections(), m.width, m.height)
	}

	tabBar, _ := components.RenderTabs(m.styles, m.tabInfos(), m.width)

	contentH := max(m.height-components.TabBarRows-1, 1)
	var content string
	if m.menu.IsOpen() {
		content = m.renderPanel()
	} else {
		hint := m.styles.Muted.Render("Panel closed") + "\n" + m.styles.HelpBar.Render(ui.JoinHorizontal("  ",
			ui.RenderKeyValue(m.styles, "space", "open"),
			ui.RenderKeyValue(m.styles, "q", "quit"),
			ui.RenderKeyValue(m.styles, "?", "help"),
		))
		content = ui.PlaceCentre(m.width, contentH, hint)
	}
	content = lipgloss.NewStyle().Width(m.width).Height(contentH).MaxHeight(contentH).Render(content)

	barData := m.barData
	barData.Mode = m.menu.Mode().String()
	barData.Message, barData.Severity = m.screen.activeMessage()
	statusBar := components.RenderStatusBar(m.styles, barData, m.width)

	screen := lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)

	if m.screen.dialogVisible() {
		screen = ui.PlaceCentre(m.width, m.height, m.screen.dialog.View())
	}
	return screen
}

func (m Model) renderPanel() string {
	s := m.screen
	title := m.styles.PanelTitle.Render(s.title)
	if m.pendingKey != "" {
		title += "  " + m.styles.JumpCode.Render(m.pendingKey+"_")
	}
	list := components.RenderRows(m.styles, s.rows, s.cursor-1, s.offset, s.listHeight)
	return m.styles.Panel.Render(title + "\n" + list)
}
