package menu

import (
	"context"
	"os"
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
	"github.com/Akashdeep-Patra/zed-git-review/internal/review"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// fakeChanges is an in-memory working tree. Stage and Unstage move records
// between sections the way git would.
type fakeChanges struct {
	snap      git.Snapshot
	statusErr error
	writeErr  error
	calls     []string
	args      [][]string
}

func (f *fakeChanges) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.writeErr
}

func (f *fakeChanges) RepoRoot() string { return "/repo" }

func (f *fakeChanges) Status() (*git.Snapshot, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	s := git.Snapshot{
		Conflicts: slices.Clone(f.snap.Conflicts),
		Staged:    slices.Clone(f.snap.Staged),
		Unstaged:  slices.Clone(f.snap.Unstaged),
	}
	return &s, nil
}

func (f *fakeChanges) Stage(paths ...string) error {
	if err := f.record("stage", paths...); err != nil {
		return err
	}
	for _, p := range paths {
		f.snap.Unstaged, f.snap.Staged = move(f.snap.Unstaged, f.snap.Staged, p)
		f.snap.Conflicts, f.snap.Staged = move(f.snap.Conflicts, f.snap.Staged, p)
	}
	return nil
}

func (f *fakeChanges) Unstage(paths ...string) error {
	if err := f.record("unstage", paths...); err != nil {
		return err
	}
	for _, p := range paths {
		f.snap.Staged, f.snap.Unstaged = move(f.snap.Staged, f.snap.Unstaged, p)
	}
	return nil
}

func (f *fakeChanges) Discard(path string, untracked bool) error {
	arg := "tracked"
	if untracked {
		arg = "untracked"
	}
	if err := f.record("discard", path, arg); err != nil {
		return err
	}
	f.snap.Unstaged = remove(f.snap.Unstaged, path)
	return nil
}

func (f *fakeChanges) Restore(path string) error {
	if err := f.record("restore", path); err != nil {
		return err
	}
	f.snap.Staged = remove(f.snap.Staged, path)
	f.snap.Unstaged = remove(f.snap.Unstaged, path)
	return nil
}

func (f *fakeChanges) RevertToBase(path, baseRef string) error {
	return f.record("revert", path, baseRef)
}

func (f *fakeChanges) Resolve(path string, side git.ConflictSide) error {
	s := "ours"
	if side == git.SideTheirs {
		s = "theirs"
	}
	if err := f.record("resolve", path, s); err != nil {
		return err
	}
	f.snap.Conflicts, f.snap.Staged = move(f.snap.Conflicts, f.snap.Staged, path)
	return nil
}

func move(from, to []git.Record, path string) ([]git.Record, []git.Record) {
	for i, r := range from {
		if r.Path == path {
			return slices.Delete(from, i, i+1), append(to, r)
		}
	}
	return from, to
}

func remove(recs []git.Record, path string) []git.Record {
	return slices.DeleteFunc(recs, func(r git.Record) bool { return r.Path == path })
}

// fakeReviews serves a fixed pull request.
type fakeReviews struct {
	info       *review.Info
	infoErr    error
	files      []git.Record
	fetchErr   error
	fetchCalls int
	setErr     error
	setCalls   []string
}

func (f *fakeReviews) CurrentReview() (*review.Info, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	if f.info == nil {
		return nil, review.ErrNoReview
	}
	return f.info, nil
}

func (f *fakeReviews) FetchFiles(_ context.Context, _ int) ([]git.Record, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return slices.Clone(f.files), nil
}

func (f *fakeReviews) SetReviewed(_ context.Context, _ string, path string, _ bool) error {
	f.setCalls = append(f.setCalls, path)
	return f.setErr
}

type note struct {
	level Level
	text  string
}

type confirmReq struct {
	prompt, tag string
}

// fakeHost records everything the menu asks of the display.
type fakeHost struct {
	title    string
	rows     []RenderedRow
	setRows  int
	cursor   int
	closed   int
	notes    []note
	confirms []confirmReq
	opened   []string
	diffs    []DiffTarget
	diffPath []string
}

func (h *fakeHost) SetTitle(t string) { h.title = t }

func (h *fakeHost) SetRows(rows []RenderedRow) {
	h.rows = rows
	h.setRows++
}

func (h *fakeHost) SetCursor(line int) { h.cursor = line }

func (h *fakeHost) OpenFile(path string) tea.Cmd {
	h.opened = append(h.opened, path)
	return nil
}

func (h *fakeHost) OpenDiff(path string, t DiffTarget) tea.Cmd {
	h.diffPath = append(h.diffPath, path)
	h.diffs = append(h.diffs, t)
	return nil
}

func (h *fakeHost) Confirm(prompt, tag string) {
	h.confirms = append(h.confirms, confirmReq{prompt: prompt, tag: tag})
}

func (h *fakeHost) Notify(level Level, text string) {
	h.notes = append(h.notes, note{level: level, text: text})
}

func (h *fakeHost) Close() { h.closed++ }

func (h *fakeHost) lastNote() note {
	if len(h.notes) == 0 {
		return note{}
	}
	return h.notes[len(h.notes)-1]
}

// runCmd executes cmd and every command it batches, returning the
// resulting messages in order.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver runs cmd and feeds its messages back into the menu until no
// more commands are produced.
func deliver(m *Menu, cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		deliver(m, m.Update(msg))
	}
}

func recs(kind git.ChangeKind, paths ...string) []git.Record {
	out := make([]git.Record, len(paths))
	for i, p := range paths {
		out[i] = git.Record{Path: p, Kind: kind}
	}
	return out
}

func newTestMenu(changes *fakeChanges, reviews *fakeReviews) (*Menu, *fakeHost, *Memory) {
	host := &fakeHost{}
	mem := NewMemory(ModeStatus, 0)
	var src ReviewSource
	if reviews != nil {
		src = reviews
	}
	m := New(changes, src, host, mem, Options{})
	m.copyText = func(string) error { return nil }
	return m, host, mem
}
