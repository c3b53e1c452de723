package menu

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

// Action is an operation bound to a key.
type Action int

const (
	ActionStage Action = iota
	ActionUnstage
	ActionToggle
	ActionDiscard
	ActionRevert
	ActionOurs
	ActionTheirs
	ActionOpenDiff
	ActionOpenFile
	ActionRefresh
	ActionCopyPath
)

var actionNames = [...]string{
	ActionStage:    "stage",
	ActionUnstage:  "unstage",
	ActionToggle:   "toggle",
	ActionDiscard:  "discard",
	ActionRevert:   "revert",
	ActionOurs:     "resolve ours",
	ActionTheirs:   "resolve theirs",
	ActionOpenDiff: "open diff",
	ActionOpenFile: "open file",
	ActionRefresh:  "refresh",
	ActionCopyPath: "copy path",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// invalidator is implemented by sources that cache reads.
type invalidator interface {
	Invalidate()
}

// HandleAction runs a on the row under the cursor.
func (m *Menu) HandleAction(a Action) tea.Cmd {
	if !m.open {
		return nil
	}
	if a == ActionRefresh {
		return m.reload()
	}

	row, ok := m.session.Current()
	if !ok {
		return nil
	}
	switch a {
	case ActionOpenDiff:
		return m.openDiff(row)
	case ActionOpenFile:
		return m.openFile(row)
	case ActionCopyPath:
		return m.copyPath(row)
	}

	if m.session.Mode == ModeReview {
		return m.reviewAction(a, row)
	}
	return m.statusAction(a, row)
}

func (m *Menu) statusAction(a Action, row Row) tea.Cmd {
	switch a {
	case ActionStage:
		return m.stage(row)
	case ActionUnstage:
		return m.unstage(row)
	case ActionToggle:
		if row.Section == SectionStaged {
			return m.unstage(row)
		}
		return m.stage(row)
	case ActionDiscard:
		return m.discard(row)
	case ActionRevert:
		return m.revert(row, m.opts.BaseRef)
	case ActionOurs:
		return m.resolve(row, git.SideOurs)
	case ActionTheirs:
		return m.resolve(row, git.SideTheirs)
	}
	return nil
}

func (m *Menu) reviewAction(a Action, row Row) tea.Cmd {
	switch a {
	case ActionToggle:
		return m.toggleReviewed(row)
	case ActionRevert:
		if m.review == nil {
			return nil
		}
		return m.revert(row, m.reviewBaseRef())
	}
	return nil
}

// reviewBaseRef is the remote-tracking ref of the pull request base.
func (m *Menu) reviewBaseRef() string {
	return "origin/" + m.review.BaseBranch
}

// paths returns the paths row acts on when its section is one of sections.
// A category row stands for every file of its section.
func (m *Menu) paths(row Row, sections ...Section) []string {
	if !slices.Contains(sections, row.Section) {
		return nil
	}
	var out []string
	add := func(rec git.Record) {
		out = append(out, rec.Path)
		if rec.OrigPath != "" {
			out = append(out, rec.OrigPath)
		}
	}
	if row.Kind == RowFile {
		add(row.Record)
		return out
	}
	for _, r := range m.session.Model.Rows {
		if r.Kind == RowFile && r.Section == row.Section {
			add(r.Record)
		}
	}
	return out
}

// mutate runs fn and rebuilds on success. On failure the display is kept.
func (m *Menu) mutate(a Action, fn func() error) tea.Cmd {
	if err := fn(); err != nil {
		m.actionFailed(a, err)
		return nil
	}
	return m.refresh(TargetPreserve())
}

func (m *Menu) actionFailed(a Action, err error) {
	err = fmt.Errorf("%w: %s: %w", ErrActionFailed, a, err)
	m.log.Warn().Err(err).Str("action", a.String()).Msg("action failed")
	m.host.Notify(LevelError, err.Error())
}

func (m *Menu) stage(row Row) tea.Cmd {
	paths := m.paths(row, SectionUnstaged, SectionConflicts)
	if len(paths) == 0 {
		return nil
	}
	return m.mutate(ActionStage, func() error { return m.changes.Stage(paths...) })
}

func (m *Menu) unstage(row Row) tea.Cmd {
	paths := m.paths(row, SectionStaged)
	if len(paths) == 0 {
		return nil
	}
	return m.mutate(ActionUnstage, func() error { return m.changes.Unstage(paths...) })
}

func (m *Menu) discard(row Row) tea.Cmd {
	if row.Kind != RowFile {
		m.host.Notify(LevelInfo, "Select a file to discard")
		return nil
	}
	rec := row.Record
	switch row.Section {
	case SectionUnstaged:
		untracked := rec.Kind == git.KindUntracked
		prompt := fmt.Sprintf("Discard changes to %s?", rec.Path)
		if untracked {
			prompt = fmt.Sprintf("Delete untracked file %s?", rec.Path)
		}
		m.confirm(prompt, func() tea.Cmd {
			return m.mutate(ActionDiscard, func() error { return m.changes.Discard(rec.Path, untracked) })
		})
	case SectionStaged, SectionConflicts:
		m.confirm(fmt.Sprintf("Restore %s to HEAD? Staged and unstaged changes are lost.", rec.Path), func() tea.Cmd {
			return m.mutate(ActionDiscard, func() error { return m.changes.Restore(rec.Path) })
		})
	}
	return nil
}

// revert makes the file match baseRef. Reverting an added or deleted file
// creates or removes it, so those ask first.
func (m *Menu) revert(row Row, baseRef string) tea.Cmd {
	if row.Kind != RowFile {
		return nil
	}
	rec := row.Record
	run := func() tea.Cmd {
		return m.mutate(ActionRevert, func() error { return m.changes.RevertToBase(rec.Path, baseRef) })
	}

	label := baseRef
	if label == "" {
		label = "the base branch"
	}
	switch rec.Kind {
	case git.KindAdded, git.KindUntracked:
		m.confirm(fmt.Sprintf("Revert %s to %s? The file will be deleted.", rec.Path, label), run)
		return nil
	case git.KindDeleted:
		m.confirm(fmt.Sprintf("Revert %s to %s? The file will be restored.", rec.Path, label), run)
		return nil
	}
	return run()
}

func (m *Menu) resolve(row Row, side git.ConflictSide) tea.Cmd {
	if row.Kind != RowFile || row.Section != SectionConflicts {
		return nil
	}
	a, label := ActionOurs, "ours"
	if side == git.SideTheirs {
		a, label = ActionTheirs, "theirs"
	}
	path := row.Record.Path
	m.confirm(fmt.Sprintf("Resolve %s using %s?", path, label), func() tea.Cmd {
		return m.mutate(a, func() error { return m.changes.Resolve(path, side) })
	})
	return nil
}

func (m *Menu) openDiff(row Row) tea.Cmd {
	if row.Kind != RowFile {
		return nil
	}
	rec := row.Record
	switch row.Section {
	case SectionStaged:
		return m.host.OpenDiff(rec.Path, DiffTarget{Staged: true})
	case SectionUnstaged:
		if rec.Kind == git.KindUntracked {
			return m.openFile(row)
		}
		return m.host.OpenDiff(rec.Path, DiffTarget{})
	case SectionUnreviewed, SectionReviewed:
		if m.review == nil {
			return m.openFile(row)
		}
		return m.host.OpenDiff(rec.Path, DiffTarget{Ref: m.reviewBaseRef()})
	default:
		// Conflicted files carry their markers in the worktree.
		return m.openFile(row)
	}
}

func (m *Menu) openFile(row Row) tea.Cmd {
	if row.Kind != RowFile {
		return nil
	}
	if row.Record.Kind == git.KindDeleted {
		m.host.Notify(LevelWarn, row.Record.Path+" was deleted")
		return nil
	}
	return m.host.OpenFile(row.Record.Path)
}

func (m *Menu) copyPath(row Row) tea.Cmd {
	if row.Kind != RowFile {
		return nil
	}
	if err := m.copyText(row.Record.Path); err != nil {
		m.actionFailed(ActionCopyPath, err)
		return nil
	}
	m.host.Notify(LevelInfo, "Copied "+row.Record.Path)
	return nil
}

// reload drops cached reads and rebuilds. In review mode the file list is
// marked stale so it is fetched again while the old rows stay visible.
func (m *Menu) reload() tea.Cmd {
	if inv, ok := m.changes.(invalidator); ok {
		inv.Invalidate()
	}
	if inv, ok := m.reviews.(invalidator); ok {
		inv.Invalidate()
	}
	if m.session.Mode == ModeReview {
		m.mem.Cache.Expire()
	}
	return m.refresh(TargetPreserve())
}
