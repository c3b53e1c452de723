// Package watcher reports changes to the git state that the status menu
// shows. Only the .git internals that move on index, ref and merge updates
// are watched, never the working tree, so the inotify/kqueue budget stays
// flat on very large repositories.
//
// Working tree edits without a git command are picked up by the explicit
// refresh action.
package watcher

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Akashdeep-Patra/zed-git-review/internal/logging"
)

// Event is sent when the watched git state changed.
type Event struct{}

// Watcher coalesces fsnotify events under a .git directory into Events.
type Watcher struct {
	fs       *fsnotify.Watcher
	events   chan Event
	done     chan struct{}
	debounce time.Duration
	log      zerolog.Logger
}

// New starts watching gitDir (the resolved git dir, which differs from
// <root>/.git in worktrees). Bursts closer than debounce produce one Event.
func New(gitDir string, debounce time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:       fs,
		events:   make(chan Event, 1),
		done:     make(chan struct{}),
		debounce: debounce,
		log:      logging.Component("watcher"),
	}

	for _, dir := range targets(gitDir) {
		// Some dirs only appear after the first fetch or tag.
		if err := fs.Add(dir); err != nil {
			w.log.Debug().Err(err).Str("dir", dir).Msg("skip watch target")
		}
	}

	go w.loop()
	return w, nil
}

// Events delivers coalesced change notifications. It is closed by Stop.
func (w *Watcher) Events() <-chan Event { return w.events }

// Stop tears the watcher down.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fs.Close()
}

// targets lists the directories to watch. The git dir itself covers HEAD,
// index, MERGE_HEAD and packed-refs.
func targets(gitDir string) []string {
	out := []string{
		gitDir,
		filepath.Join(gitDir, "refs"),
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	}

	remotes := filepath.Join(gitDir, "refs", "remotes")
	entries, err := os.ReadDir(remotes)
	if err != nil {
		return out
	}
	out = append(out, remotes)
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(remotes, e.Name()))
		}
	}
	return out
}

func (w *Watcher) loop() {
	defer close(w.events)

	// Jitter spreads the git load when several instances watch one repo.
	jitterRange := int64(w.debounce / 2)
	var timer *time.Timer

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if shouldIgnore(ev.Name) {
				continue
			}
			d := w.debounce
			if jitterRange > 0 {
				d += time.Duration(rand.Int64N(jitterRange))
			}
			if timer == nil {
				timer = time.NewTimer(d)
			} else {
				timer.Reset(d)
			}
		case <-timerChan(timer):
			timer = nil
			select {
			case w.events <- Event{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("fsnotify error")
		case <-w.done:
			return
		}
	}
}

// timerChan returns the timer's channel, or a nil channel if timer is nil.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// shouldIgnore returns true for events that should not trigger a refresh.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)

	// Lock files appear while git is mid-operation. Refreshing then would
	// run git status against a held lock.
	if strings.HasSuffix(base, ".lock") {
		return true
	}

	// Editor swap/temp files.
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swo") ||
		strings.HasSuffix(base, "~") || strings.HasPrefix(base, ".#") {
		return true
	}

	switch base {
	case "COMMIT_EDITMSG", "gc.log", "FETCH_HEAD":
		return true
	}
	return strings.HasPrefix(base, "fsmonitor")
}
