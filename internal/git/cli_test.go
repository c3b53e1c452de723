package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates a repository with one committed file, tracked.txt.
func newTestRepo(t *testing.T) *CLIService {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "zgr")
	t.Setenv("GIT_AUTHOR_EMAIL", "zgr@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "zgr")
	t.Setenv("GIT_COMMITTER_EMAIL", "zgr@example.com")

	dir := t.TempDir()
	gitCmd(t, dir, "init", "--quiet")
	writeFile(t, dir, "tracked.txt", "base\n")
	gitCmd(t, dir, "add", "tracked.txt")
	gitCmd(t, dir, "commit", "--quiet", "-m", "init")

	svc, err := NewCLIService(dir)
	require.NoError(t, err)
	return svc
}

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	_, err := runGit(dir, nil, args...)
	require.NoError(t, err)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(b)
}

func TestCLIService_StatusReportsUntracked(t *testing.T) {
	svc := newTestRepo(t)
	writeFile(t, svc.RepoRoot(), "new.txt", "x\n")

	snap, err := svc.Status()
	require.NoError(t, err)
	assert.Empty(t, snap.Staged)
	assert.Empty(t, snap.Conflicts)
	require.Len(t, snap.Unstaged, 1)
	assert.Equal(t, "new.txt", snap.Unstaged[0].Path)
	assert.Equal(t, KindUntracked, snap.Unstaged[0].Kind)
}

func TestCLIService_StageAndUnstage(t *testing.T) {
	svc := newTestRepo(t)
	root := svc.RepoRoot()
	writeFile(t, root, "tracked.txt", "changed\n")
	writeFile(t, root, "new.txt", "x\n")

	require.NoError(t, svc.Stage("tracked.txt", "new.txt"))
	snap, err := svc.Status()
	require.NoError(t, err)
	assert.Len(t, snap.Staged, 2)
	assert.Empty(t, snap.Unstaged)

	require.NoError(t, svc.Unstage("tracked.txt"))
	snap, err = svc.Status()
	require.NoError(t, err)
	require.Len(t, snap.Staged, 1)
	assert.Equal(t, "new.txt", snap.Staged[0].Path)
	require.Len(t, snap.Unstaged, 1)
	assert.Equal(t, KindModified, snap.Unstaged[0].Kind)
}

func TestCLIService_RevertToBase(t *testing.T) {
	t.Run("tracked file is restored", func(t *testing.T) {
		svc := newTestRepo(t)
		root := svc.RepoRoot()
		writeFile(t, root, "tracked.txt", "changed\n")

		require.NoError(t, svc.RevertToBase("tracked.txt", "HEAD"))
		assert.Equal(t, "base\n", readFile(t, root, "tracked.txt"))
	})

	t.Run("untracked file is removed", func(t *testing.T) {
		svc := newTestRepo(t)
		root := svc.RepoRoot()
		writeFile(t, root, "new.txt", "x\n")

		require.NoError(t, svc.RevertToBase("new.txt", "HEAD"))
		_, err := os.Stat(filepath.Join(root, "new.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("staged new file is removed", func(t *testing.T) {
		svc := newTestRepo(t)
		root := svc.RepoRoot()
		writeFile(t, root, "new.txt", "x\n")
		require.NoError(t, svc.Stage("new.txt"))

		require.NoError(t, svc.RevertToBase("new.txt", "HEAD"))
		_, err := os.Stat(filepath.Join(root, "new.txt"))
		assert.True(t, os.IsNotExist(err))

		snap, err := svc.Status()
		require.NoError(t, err)
		assert.Zero(t, snap.TotalCount())
	})
}

func TestCLIService_DiscardUntracked(t *testing.T) {
	svc := newTestRepo(t)
	root := svc.RepoRoot()
	writeFile(t, root, "new.txt", "x\n")

	require.NoError(t, svc.Discard("new.txt", true))
	_, err := os.Stat(filepath.Join(root, "new.txt"))
	assert.True(t, os.IsNotExist(err))
}
