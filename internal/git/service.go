package git

// Service defines the contract for the Git operations the review menu needs.
// The menu depends on this interface, never on exec.Command directly, so it
// can be driven by fakes in tests.
//
// Every write takes the whole batch of paths in one call: acting on N files
// must spawn one git process, not N.
type Service interface {
	// ── Repository info ──────────────────────────────────────────────
	RepoRoot() string
	GitDir() string
	Head() (string, error)
	DefaultBaseRef() string

	// ── Status & staging ─────────────────────────────────────────────
	Status() (*Snapshot, error)
	Stage(paths ...string) error
	Unstage(paths ...string) error

	// ── Destructive operations ───────────────────────────────────────
	Discard(path string, untracked bool) error
	Restore(path string) error
	RevertToBase(path, baseRef string) error
	Resolve(path string, side ConflictSide) error
}
