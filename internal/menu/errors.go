package menu

import "errors"

var (
	// ErrBackendUnavailable means the menu cannot open at all.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrSnapshotFailed means data for the active mode could not be read.
	// The menu closes.
	ErrSnapshotFailed = errors.New("snapshot failed")
	// ErrActionFailed means a mutation failed. The display is left as is.
	ErrActionFailed = errors.New("action failed")
)
