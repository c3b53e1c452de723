package menu

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
	"github.com/Akashdeep-Patra/zed-git-review/internal/review"
)

// ChangeSource provides working tree data and the local mutations. Every
// call is one git invocation over the whole batch of paths.
type ChangeSource interface {
	RepoRoot() string
	Status() (*git.Snapshot, error)
	Stage(paths ...string) error
	Unstage(paths ...string) error
	Discard(path string, untracked bool) error
	Restore(path string) error
	RevertToBase(path, baseRef string) error
	Resolve(path string, side git.ConflictSide) error
}

// ReviewSource provides pull request data. FetchFiles and SetReviewed are
// only ever called from a tea.Cmd.
type ReviewSource interface {
	CurrentReview() (*review.Info, error)
	FetchFiles(ctx context.Context, scope int) ([]git.Record, error)
	SetReviewed(ctx context.Context, reviewID, path string, viewed bool) error
}

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// DiffTarget says what a file is compared against.
type DiffTarget struct {
	// Staged compares the index with HEAD.
	Staged bool
	// Ref compares the worktree with a commit-ish. Empty means the index.
	Ref string
}

// Host is the display surface the menu drives.
type Host interface {
	SetTitle(title string)
	SetRows(rows []RenderedRow)
	SetCursor(line int)
	OpenFile(path string) tea.Cmd
	OpenDiff(path string, target DiffTarget) tea.Cmd
	// Confirm asks a yes/no question. The answer comes back through
	// Menu.HandleConfirm with the same tag.
	Confirm(prompt, tag string)
	Notify(level Level, text string)
	Close()
}
