package menu

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

// reviewFilesMsg carries the result of a background file fetch.
type reviewFilesMsg struct {
	scope   int
	records []git.Record
	err     error
}

// reviewToggledMsg carries the result of a viewed-state mutation. prev is
// the flag to restore on failure.
type reviewToggledMsg struct {
	scope int
	path  string
	prev  bool
	err   error
}

func (m *Menu) fetchFilesCmd(scope int) tea.Cmd {
	src := m.reviews
	return func() tea.Msg {
		recs, err := src.FetchFiles(context.Background(), scope)
		return reviewFilesMsg{scope: scope, records: recs, err: err}
	}
}

func (m *Menu) handleReviewFiles(msg reviewFilesMsg) tea.Cmd {
	hadData := m.mem.Cache.Lookup(msg.scope).Populated
	m.mem.Cache.Complete(msg.scope, msg.records, msg.err)

	if msg.err != nil {
		m.log.Error().Err(msg.err).Int("scope", msg.scope).Msg("review fetch failed")
	} else {
		m.log.Debug().Int("scope", msg.scope).Int("files", len(msg.records)).Msg("review files loaded")
	}

	if !m.open || m.session.Mode != ModeReview {
		return nil
	}
	if msg.err != nil && hadData {
		m.host.Notify(LevelWarn, "Could not refresh review files: "+msg.err.Error())
	}
	return m.refresh(TargetPreserve())
}

// toggleReviewed flips the viewed state of a review file. The cache and
// the display change immediately; the remote update follows in the
// background and is rolled back if it fails.
func (m *Menu) toggleReviewed(row Row) tea.Cmd {
	if row.Kind != RowFile || m.review == nil {
		return nil
	}
	info := m.review
	rec := row.Record
	viewed := !rec.Reviewed

	prev, ok := m.mem.Cache.Toggle(info.Scope(), rec.Path, viewed)
	if !ok {
		return nil
	}

	target := TargetPreserve()
	if viewed {
		next := m.nextUnreviewedPath(rec.Path)
		m.mem.LastSelectedPath = next
		target = TargetPath(next)
	}
	cmd := m.refresh(target)

	reviewID := rec.ReviewID
	if reviewID == "" {
		reviewID = info.ID
	}
	src := m.reviews
	scope, path := info.Scope(), rec.Path
	remote := func() tea.Msg {
		err := src.SetReviewed(context.Background(), reviewID, path, viewed)
		return reviewToggledMsg{scope: scope, path: path, prev: prev, err: err}
	}
	return tea.Batch(cmd, remote)
}

// nextUnreviewedPath returns the unreviewed file after path, wrapping to
// the first one. It returns path itself when no other file is unreviewed.
func (m *Menu) nextUnreviewedPath(path string) string {
	var paths []string
	for _, r := range m.session.Model.Rows {
		if r.Kind == RowFile && r.Section == SectionUnreviewed {
			paths = append(paths, r.Record.Path)
		}
	}
	for i, p := range paths {
		if p == path && len(paths) > 1 {
			return paths[(i+1)%len(paths)]
		}
	}
	return path
}

func (m *Menu) handleReviewToggled(msg reviewToggledMsg) tea.Cmd {
	m.mem.Cache.Settle(msg.scope, msg.path)
	if msg.err == nil {
		m.log.Debug().Str("path", msg.path).Msg("viewed state saved")
		return nil
	}

	m.mem.Cache.SetReviewed(msg.scope, msg.path, msg.prev)
	m.log.Error().Err(msg.err).Str("path", msg.path).Msg("viewed state rolled back")

	if !m.open {
		return nil
	}
	m.host.Notify(LevelError, "Could not update review state for "+msg.path+": "+msg.err.Error())
	if m.session.Mode != ModeReview {
		return nil
	}
	return m.refresh(TargetPreserve())
}
