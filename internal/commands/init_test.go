package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/splitbill/internal/config"
	"github.com/cleared-dev/splitbill/internal/runlog"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "splitbill-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "splitbill")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/splitbill")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runSplitbill(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runSplitbill(t, "init", dir, "--household", "Test Household")
	require.NoError(t, err)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initProject(t)

	expectedDirs := []string{
		"inbox",
		filepath.Join("inbox", "processed"),
		"exports",
		"logs",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := initProject(t)

	cfg, err := config.Load(filepath.Join(dir, "splitbill.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Test Household", cfg.Household.Name)
	assert.Len(t, cfg.Household.Lines, 2)
	assert.Equal(t, "tmobile", cfg.Layout.Format)
	assert.Equal(t, "0.05", cfg.Reconcile.Tolerance)
}

func TestInit_Gitignore(t *testing.T) {
	dir := initProject(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{".env", "inbox/", "exports/"} {
		assert.Contains(t, string(data), pattern, ".gitignore should contain %s", pattern)
	}

	_, err = os.Stat(filepath.Join(dir, ".env.example"))
	assert.NoError(t, err)
}

func TestInit_EmptyRunLog(t *testing.T) {
	dir := initProject(t)

	_, err := os.Stat(filepath.Join(dir, "logs", "runs.csv"))
	require.NoError(t, err)
	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInit_RequiresHousehold(t *testing.T) {
	_, err := runSplitbill(t, "init", t.TempDir())
	require.Error(t, err, "init without --household should fail")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := initProject(t)

	out, err := runSplitbill(t, "init", dir, "--household", "Other")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestVersion(t *testing.T) {
	out, err := runSplitbill(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
