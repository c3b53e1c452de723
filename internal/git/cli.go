package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotARepo is returned when the path is not inside a Git repository.
var ErrNotARepo = errors.New("not a git repository")

// ErrGitMissing is returned when the git binary cannot be found.
var ErrGitMissing = errors.New("git executable not found in PATH")

// cmdTimeout is the maximum duration any single git command may run.
// Prevents hangs on huge repos or network operations.
const cmdTimeout = 30 * time.Second

// CLIService implements Service by shelling out to the git CLI.
//   - GIT_OPTIONAL_LOCKS=0 on all read commands (no lock contention)
//   - Context-based timeouts prevent hangs
//   - Stdout and stderr kept separate so stderr noise can't corrupt output
type CLIService struct {
	root   string // Absolute path to the repo root.
	gitDir string // Path to the .git directory.
}

// Compile-time check that CLIService implements Service.
var _ Service = (*CLIService)(nil)

// NewCLIService opens a Git repository at the given path.
func NewCLIService(path string) (*CLIService, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, ErrGitMissing
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	topLevel, err := runGit(abs, nil, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotARepo
	}
	gitDir, err := runGit(abs, nil, "rev-parse", "--git-dir")
	if err != nil {
		return nil, fmt.Errorf("finding .git directory: %w", err)
	}
	gd := strings.TrimSpace(gitDir)
	if !filepath.IsAbs(gd) {
		gd = filepath.Join(abs, gd)
	}
	return &CLIService{
		root:   strings.TrimSpace(topLevel),
		gitDir: gd,
	}, nil
}

// GitDir returns the path to the .git directory.
func (s *CLIService) GitDir() string { return s.gitDir }

// ── helpers ─────────────────────────────────────────────────────────────────

// readEnv is the environment set on all read-only git commands.
var readEnv = []string{"GIT_OPTIONAL_LOCKS=0"}

// run executes a git command at the repo root with read-optimised env.
func (s *CLIService) run(args ...string) (string, error) {
	return runGit(s.root, readEnv, args...)
}

// runWrite executes a write git command (no optional-locks override).
func (s *CLIService) runWrite(args ...string) (string, error) {
	return runGit(s.root, nil, args...)
}

// runGit executes a git command with a context timeout.
// Stdout and stderr are separated so stderr noise doesn't corrupt output.
func runGit(dir string, extraEnv []string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), errMsg, err)
	}
	return stdout.String(), nil
}

// tracked reports whether path is in the index.
func (s *CLIService) tracked(path string) bool {
	_, err := s.run("ls-files", "--error-unmatch", "--", path)
	return err == nil
}

// existsAt reports whether path is present in the tree of ref.
func (s *CLIService) existsAt(ref, path string) bool {
	_, err := s.run("cat-file", "-e", ref+":"+path)
	return err == nil
}

// ── Repository info ─────────────────────────────────────────────────────────

// RepoRoot returns the repository root path.
func (s *CLIService) RepoRoot() string { return s.root }

// Head returns the current branch name, or the short hash when detached.
func (s *CLIService) Head() (string, error) {
	ref, err := s.run("symbolic-ref", "--short", "HEAD")
	if err != nil {
		hash, hashErr := s.run("rev-parse", "--short", "HEAD")
		if hashErr != nil {
			return "", fmt.Errorf("getting HEAD: %w", err)
		}
		return strings.TrimSpace(hash), nil
	}
	return strings.TrimSpace(ref), nil
}

// DefaultBaseRef returns the ref that revert-to-base uses when no review
// is open: the remote default branch if known, else HEAD.
func (s *CLIService) DefaultBaseRef() string {
	out, err := s.run("symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err != nil {
		return "HEAD"
	}
	return strings.TrimSpace(out)
}

// ── Status & staging ────────────────────────────────────────────────────────

// Status returns the current working tree status.
func (s *CLIService) Status() (*Snapshot, error) {
	// --porcelain=v1 -z: machine-parseable, NUL-delimited.
	// -unormal lists untracked files without recursing into untracked dirs.
	// Optional locks are disabled through readEnv; the flag is global-only.
	out, err := s.run("status", "--porcelain=v1", "-z", "--untracked-files=normal")
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}
	return ParseStatusOutput(out), nil
}

// Stage stages the given paths.
func (s *CLIService) Stage(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	_, err := s.runWrite(args...)
	return err
}

// Unstage unstages the given paths.
func (s *CLIService) Unstage(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"reset", "--quiet", "HEAD", "--"}, paths...)
	_, err := s.runWrite(args...)
	return err
}

// ── Destructive operations ──────────────────────────────────────────────────

// Discard drops worktree changes for path. Untracked files are removed.
func (s *CLIService) Discard(path string, untracked bool) error {
	if untracked {
		_, err := s.runWrite("clean", "--force", "--quiet", "--", path)
		return err
	}
	_, err := s.runWrite("checkout", "--", path)
	return err
}

// Restore resets both index and worktree for path to HEAD. A file that does
// not exist in HEAD is removed from the index and left untracked.
func (s *CLIService) Restore(path string) error {
	if !s.existsAt("HEAD", path) {
		_, err := s.runWrite("rm", "--cached", "--quiet", "--", path)
		return err
	}
	_, err := s.runWrite("checkout", "HEAD", "--", path)
	return err
}

// RevertToBase makes path identical to its version at baseRef. A file that
// does not exist at baseRef is deleted, whether tracked or not.
func (s *CLIService) RevertToBase(path, baseRef string) error {
	if baseRef == "" {
		baseRef = s.DefaultBaseRef()
	}
	if !s.existsAt(baseRef, path) {
		if !s.tracked(path) {
			_, err := s.runWrite("clean", "--force", "--quiet", "--", path)
			return err
		}
		_, err := s.runWrite("rm", "--force", "--quiet", "--", path)
		return err
	}
	_, err := s.runWrite("checkout", baseRef, "--", path)
	return err
}

// Resolve keeps one side of a conflicted file and marks it resolved.
func (s *CLIService) Resolve(path string, side ConflictSide) error {
	if _, err := s.runWrite("checkout", side.flag(), "--", path); err != nil {
		return err
	}
	_, err := s.runWrite("add", "--", path)
	return err
}
