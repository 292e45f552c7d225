package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/splitbill/internal/runlog"
)

func TestBatch_ProcessesInbox(t *testing.T) {
	dir := initProject(t)
	inboxDir := filepath.Join(dir, "inbox")
	writeStatement(t, inboxDir, "august.txt", reconciledStatement)
	writeStatement(t, inboxDir, "september.txt", "not a bill\n")
	writeStatement(t, inboxDir, "readme.md", "ignored")

	out, err := runSplitbill(t, "batch", "--repo", dir)
	require.Error(t, err, "a failed statement makes the batch fail")
	assert.Contains(t, out, "august.txt: 2 owners, 100.00 allocated, reconciled")
	assert.Contains(t, out, "september.txt: FAILED")
	assert.Contains(t, out, "Processed 1 of 2 statements")

	_, err = os.Stat(filepath.Join(dir, "inbox", "processed", "august.txt"))
	assert.NoError(t, err, "successful statement is moved")
	_, err = os.Stat(filepath.Join(dir, "inbox", "september.txt"))
	assert.NoError(t, err, "failed statement stays in the inbox")

	matches, err := filepath.Glob(filepath.Join(dir, "exports", "*.csv"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBatch_EmptyInbox(t *testing.T) {
	dir := initProject(t)

	out, err := runSplitbill(t, "batch", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No statements in inbox")
}

func TestHistory(t *testing.T) {
	dir := initProject(t)

	out, err := runSplitbill(t, "history", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")

	writeStatement(t, filepath.Join(dir, "inbox"), "august.txt", reconciledStatement)
	writeStatement(t, filepath.Join(dir, "inbox"), "october.txt", unmappedStatement)
	_, err = runSplitbill(t, "batch", "--repo", dir)
	require.NoError(t, err)

	out, err = runSplitbill(t, "history", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "august.txt")
	assert.Contains(t, out, "october.txt")
	assert.Contains(t, out, "off by")

	out, err = runSplitbill(t, "history", "--repo", dir, "-n", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "august.txt")
	assert.Contains(t, out, "october.txt")
}
