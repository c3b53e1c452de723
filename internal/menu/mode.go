package menu

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
	"github.com/Akashdeep-Patra/zed-git-review/internal/review"
)

// modeBuilder produces the line model for one mode. The returned command,
// if any, loads data in the background.
type modeBuilder interface {
	build(m *Menu) (*LineModel, tea.Cmd, error)
}

func builderFor(mode Mode) modeBuilder {
	switch mode {
	case ModeStatus:
		return statusBuilder{}
	case ModeReview:
		return reviewBuilder{}
	}
	panic(fmt.Sprintf("menu: unknown mode %d", mode))
}

type statusBuilder struct{}

func (statusBuilder) build(m *Menu) (*LineModel, tea.Cmd, error) {
	snap, err := m.changes.Status()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSnapshotFailed, err)
	}
	if snap == nil {
		snap = &git.Snapshot{}
	}
	return BuildStatus(*snap), nil, nil
}

type reviewBuilder struct{}

func (reviewBuilder) build(m *Menu) (*LineModel, tea.Cmd, error) {
	m.review = nil
	if m.reviews == nil {
		return BuildReview(nil, review.Entry{}), nil, nil
	}

	info, err := m.reviews.CurrentReview()
	switch {
	case errors.Is(err, review.ErrNoReview):
		return BuildReview(nil, review.Entry{}), nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf("%w: %w", ErrSnapshotFailed, err)
	}
	m.review = info

	var cmd tea.Cmd
	scope := info.Scope()
	entry := m.mem.Cache.Lookup(scope)
	if entry.NeedsFetch() && m.mem.Cache.BeginFetch(scope) {
		cmd = m.fetchFilesCmd(scope)
		entry = m.mem.Cache.Lookup(scope)
	}
	return BuildReview(info, entry), cmd, nil
}
