package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return strings.TrimSpace(string(out))
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")

	sub := filepath.Join(dir, "2024")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.True(t, IsRepo(sub), "subdirectory of a repo is inside the work tree")
}

func TestCommitPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "combined.xlsx"), []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("draft"), 0o644))

	hash, err := CommitPaths(dir, "combine: 1 new months", "Finroll", "finroll@example.com", "combined.xlsx")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Equal(t, "combine: 1 new months", gitLog(t, dir, "%s"))
	assert.Equal(t, "Finroll <finroll@example.com>", gitLog(t, dir, "%an <%ae>"))

	status := exec.Command("git", "status", "--porcelain")
	status.Dir = dir
	out, err := status.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "?? notes.txt", "unlisted files stay uncommitted")
}

func TestCommitPaths_NothingChanged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "combined.xlsx"), []byte("v1"), 0o644))

	_, err := CommitPaths(dir, "first", "Finroll", "finroll@example.com", "combined.xlsx")
	require.NoError(t, err)

	hash, err := CommitPaths(dir, "second", "Finroll", "finroll@example.com", "combined.xlsx")
	require.NoError(t, err)
	assert.Empty(t, hash)
	assert.Equal(t, "first", gitLog(t, dir, "%s"))
}

func TestCommitPaths_NoPaths(t *testing.T) {
	_, err := CommitPaths(t.TempDir(), "msg", "a", "b")
	assert.Error(t, err)
}
