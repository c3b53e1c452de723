package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Akashdeep-Patra/zed-git-review/internal/menu"
	"github.com/Akashdeep-Patra/zed-git-review/internal/ui/components"
)

// KeyMap defines the panel keybindings. The home row keys h j k l ; and
// their shifted forms are reserved for the two-key jump codes, so
// navigation uses the arrows and emacs-style ctrl keys.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	Diff     key.Binding
	Open     key.Binding
	Stage    key.Binding
	Unstage  key.Binding
	Toggle   key.Binding
	Discard  key.Binding
	Revert   key.Binding
	Ours     key.Binding
	Theirs   key.Binding
	CopyPath key.Binding
	Refresh  key.Binding

	StatusMode key.Binding
	ReviewMode key.Binding
	NextMode   key.Binding

	Help  key.Binding
	Close key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑ / ctrl+p", "previous entry")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓ / ctrl+n", "next entry")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g / home", "first entry")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G / end", "last entry")),

		Diff:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open diff")),
		Open:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "open file")),
		Stage:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stage")),
		Unstage:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unstage")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "stage / unstage, mark reviewed")),
		Discard:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard changes")),
		Revert:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "revert to base")),
		Ours:     key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "resolve with ours")),
		Theirs:   key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "resolve with theirs")),
		CopyPath: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		Refresh:  key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),

		StatusMode: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "status mode")),
		ReviewMode: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "review mode")),
		NextMode:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch mode")),

		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Close: key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("q / esc", "close panel, quit when closed")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

type actionBinding struct {
	binding key.Binding
	action  menu.Action
}

// actions maps the action bindings onto menu actions.
func (k KeyMap) actions() []actionBinding {
	return []actionBinding{
		{k.Diff, menu.ActionOpenDiff},
		{k.Open, menu.ActionOpenFile},
		{k.Toggle, menu.ActionToggle},
		{k.Stage, menu.ActionStage},
		{k.Unstage, menu.ActionUnstage},
		{k.Discard, menu.ActionDiscard},
		{k.Revert, menu.ActionRevert},
		{k.Ours, menu.ActionOurs},
		{k.Theirs, menu.ActionTheirs},
		{k.CopyPath, menu.ActionCopyPath},
		{k.Refresh, menu.ActionRefresh},
	}
}

func entries(bindings ...key.Binding) []components.HelpEntry {
	out := make([]components.HelpEntry, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.HelpEntry{Key: h.Key, Desc: h.Desc})
	}
	return out
}

// HelpSections groups the bindings for the help overlay.
func (k KeyMap) HelpSections() map[string][]components.HelpEntry {
	return map[string][]components.HelpEntry{
		"Navigation": entries(k.Up, k.Down, k.Top, k.Bottom),
		"Jump codes": {
			{Key: "hh jj … ;h", Desc: "open the diff of the coded file"},
			{Key: "HH JJ … :H", Desc: "open the coded file"},
		},
		"Modes":  entries(k.StatusMode, k.ReviewMode, k.NextMode),
		"Status": entries(k.Diff, k.Open, k.Toggle, k.Stage, k.Unstage, k.Discard, k.Revert, k.Ours, k.Theirs),
		"Review": {
			{Key: "space", Desc: "mark viewed / unviewed"},
			{Key: "enter", Desc: "diff against the pull request base"},
			{Key: "R", Desc: "revert to the pull request base"},
		},
		"General": entries(k.CopyPath, k.Refresh, k.Help, k.Close, k.Quit),
	}
}
