package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIgnoreFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLocalIgnoreStore_Load(t *testing.T) {
	dir := t.TempDir()
	writeIgnoreFile(t, dir, "craft-lint.yaml", `
dummy.pre:
  ids: [D001, D002]
  by_filename:
    D003: ["*.foo"]
wildcarded:
  ids: "*"
dangling: just a string
`)

	cfg, err := NewLocalIgnoreStore().Load(pathOf(dir))
	require.NoError(t, err)

	spec := cfg["dummy.pre"]
	require.NotNil(t, spec)
	assert.False(t, spec.All)
	assert.Contains(t, spec.IDs, "D001")
	assert.Contains(t, spec.IDs, "D002")
	assert.Contains(t, spec.ByFilename["D003"], "*.foo")

	require.NotNil(t, cfg["wildcarded"])
	assert.True(t, cfg["wildcarded"].All)

	assert.NotContains(t, cfg, "dangling")
}

func TestLocalIgnoreStore_NoFileMeansEmptyConfig(t *testing.T) {
	cfg, err := NewLocalIgnoreStore().Load(pathOf(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestLocalIgnoreStore_FirstCandidateWins(t *testing.T) {
	dir := t.TempDir()
	writeIgnoreFile(t, dir, "craft-lint.yaml", "winner:\n  ids: [W001]\n")
	writeIgnoreFile(t, dir, ".craft-lint.yaml", "loser:\n  ids: [L001]\n")

	cfg, err := NewLocalIgnoreStore().Load(pathOf(dir))
	require.NoError(t, err)

	assert.Contains(t, cfg, "winner")
	assert.NotContains(t, cfg, "loser")
}

func TestLocalIgnoreStore_DottedCandidates(t *testing.T) {
	dir := t.TempDir()
	writeIgnoreFile(t, dir, filepath.Join(".craft", "lintignore.yaml"), "nested:\n  ids: [N001]\n")

	cfg, err := NewLocalIgnoreStore().Load(pathOf(dir))
	require.NoError(t, err)
	assert.Contains(t, cfg, "nested")
}

func TestLocalIgnoreStore_NonMappingFileToleratedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeIgnoreFile(t, dir, "craft-lint.yaml", "- just\n- a\n- list\n")

	cfg, err := NewLocalIgnoreStore().Load(pathOf(dir))
	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestLocalIgnoreStore_InvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	writeIgnoreFile(t, dir, "craft-lint.yaml", "dummy: [unclosed\n")

	_, err := NewLocalIgnoreStore().Load(pathOf(dir))
	assert.Error(t, err)
}
