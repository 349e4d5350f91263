package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testcraft.dev/pkg/testcraft/internal/adapter"
	"testcraft.dev/pkg/testcraft/internal/controller"
	m "testcraft.dev/pkg/testcraft/internal/model"
)

// fakeUI captures display calls instead of printing.
type fakeUI struct {
	order   []string
	grouped map[string][]m.LinterIssue
	label   string
	highest m.Severity
	found   bool
}

func (u *fakeUI) DisplayIssues(_ context.Context, order []string, grouped map[string][]m.LinterIssue) error {
	u.order = order
	u.grouped = grouped

	return nil
}

func (u *fakeUI) DisplayLinters(_ context.Context, _ []controller.LinterRow) error {
	return nil
}

func (u *fakeUI) DisplaySummary(_ context.Context, label string, highest m.Severity, found bool) {
	u.label = label
	u.highest = highest
	u.found = found
}

// setupLintRun swaps the UI for a capturing fake and resets the lint flags,
// restoring everything when the test ends.
func setupLintRun(t *testing.T) *fakeUI {
	t.Helper()

	ui := &fakeUI{}

	origNewUI := newUI
	newUI = func(_ *cobra.Command, _ bool) controller.UI { return ui }

	origPost := lintPostArtifactFlag
	origIgnores := lintIgnoreFlags
	lintPostArtifactFlag = ""
	lintIgnoreFlags = nil

	t.Cleanup(func() {
		newUI = origNewUI
		lintPostArtifactFlag = origPost
		lintIgnoreFlags = origIgnores
	})

	return ui
}

func setupProjectDir(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, m.ProjectFileName), []byte(content), 0o644))
	t.Chdir(dir)

	return dir
}

func TestParseIgnoreRule(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    ignoreRule
		wantErr bool
	}{
		{"id rule", "dummy.pre:D002", ignoreRule{linter: "dummy.pre", id: "D002"}, false},
		{"glob rule", "dummy.pre:D002=*.foo", ignoreRule{linter: "dummy.pre", id: "D002", glob: "*.foo", hasGlob: true}, false},
		{"wildcard rule", "dummy.pre:*", ignoreRule{linter: "dummy.pre", id: "*"}, false},
		{"missing colon", "dummy.pre", ignoreRule{}, true},
		{"empty linter", ":D002", ignoreRule{}, true},
		{"empty id", "dummy.pre:", ignoreRule{}, true},
		{"empty id with glob", "dummy.pre:=*.foo", ignoreRule{}, true},
		{"empty glob", "dummy.pre:D002=", ignoreRule{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := parseIgnoreRule(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, rule)
		})
	}
}

func TestBuildCLIIgnoreConfig_GlobRule(t *testing.T) {
	rule, err := parseIgnoreRule("dummy.pre:D002=*.foo")
	require.NoError(t, err)

	cfg := buildCLIIgnoreConfig([]ignoreRule{rule})

	spec := cfg["dummy.pre"]
	require.NotNil(t, spec)
	assert.False(t, spec.All)
	assert.Empty(t, spec.IDs)
	assert.Contains(t, spec.ByFilename["D002"], "*.foo")
}

func TestBuildCLIIgnoreConfig_AccumulatesRules(t *testing.T) {
	cfg := buildCLIIgnoreConfig([]ignoreRule{
		{linter: "dummy.pre", id: "D001"},
		{linter: "dummy.pre", id: "D002", glob: "*.foo", hasGlob: true},
		{linter: "other.pre", id: "O001"},
	})

	spec := cfg["dummy.pre"]
	require.NotNil(t, spec)
	assert.Contains(t, spec.IDs, "D001")
	assert.Contains(t, spec.ByFilename["D002"], "*.foo")
	assert.Contains(t, cfg["other.pre"].IDs, "O001")
}

func TestBuildCLIIgnoreConfig_WildcardWins(t *testing.T) {
	cfg := buildCLIIgnoreConfig([]ignoreRule{
		{linter: "dummy.pre", id: "D002", glob: "*.foo", hasGlob: true},
		{linter: "dummy.pre", id: "*"},
		{linter: "dummy.pre", id: "D003"},
	})

	spec := cfg["dummy.pre"]
	require.NotNil(t, spec)
	assert.True(t, spec.All)
	assert.Empty(t, spec.IDs)
	assert.Empty(t, spec.ByFilename)
}

func TestRunLint_ReportsMissingVersion(t *testing.T) {
	ui := setupLintRun(t)
	setupProjectDir(t, "name: demo\n")

	require.NoError(t, runLint(lintCmd))

	require.Contains(t, ui.grouped, "testcraft.missing_version")
	issues := ui.grouped["testcraft.missing_version"]
	require.Len(t, issues, 1)
	assert.Equal(t, "TC001", issues[0].ID)

	assert.True(t, ui.found)
	assert.Equal(t, m.SeverityWarning, ui.highest)
	assert.Equal(t, m.ProjectFileName, ui.label)
}

func TestRunLint_CleanProjectPasses(t *testing.T) {
	ui := setupLintRun(t)
	setupProjectDir(t, "name: demo\nversion: \"1.0\"\n")

	require.NoError(t, runLint(lintCmd))

	assert.Empty(t, ui.grouped["testcraft.missing_version"])
	assert.False(t, ui.found)
}

func TestRunLint_IgnoreFlagSuppresses(t *testing.T) {
	ui := setupLintRun(t)
	setupProjectDir(t, "name: demo\n")

	lintIgnoreFlags = []string{"testcraft.missing_version:TC001"}

	require.NoError(t, runLint(lintCmd))
	assert.Empty(t, ui.grouped["testcraft.missing_version"])
	assert.False(t, ui.found)
}

func TestRunLint_ProjectIgnoreFileSuppresses(t *testing.T) {
	ui := setupLintRun(t)
	dir := setupProjectDir(t, "name: demo\n")

	ignoreFile := "testcraft.missing_version:\n  ids: [TC001]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "craft-lint.yaml"), []byte(ignoreFile), 0o644))

	require.NoError(t, runLint(lintCmd))
	assert.Empty(t, ui.grouped["testcraft.missing_version"])
}

func TestRunLint_MalformedIgnoreRuleFails(t *testing.T) {
	setupLintRun(t)
	setupProjectDir(t, "name: demo\n")

	lintIgnoreFlags = []string{"no-colon-here"}

	assert.Error(t, runLint(lintCmd))
}

func TestRunLint_NoProjectFile(t *testing.T) {
	setupLintRun(t)
	t.Chdir(t.TempDir())

	err := runLint(lintCmd)
	assert.ErrorIs(t, err, adapter.ErrNoProjectFile)
}

func TestRunLint_PostStageEmptyArtifact(t *testing.T) {
	ui := setupLintRun(t)
	setupProjectDir(t, "name: demo\nversion: \"1.0\"\n")

	// An artifact packed from an empty prime tree carries only metadata.
	artifact, err := adapter.NewLocalPacker().Pack(
		&m.Project{Name: "demo", Version: "1.0"},
		m.Path(t.TempDir()),
		m.Path(t.TempDir()),
	)
	require.NoError(t, err)

	lintPostArtifactFlag = string(artifact)

	err = runLint(lintCmd)
	require.Error(t, err)

	var exitErr *exitCodeError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, int(m.ExitError), exitErr.code)

	issues := ui.grouped["testcraft.empty_artifact"]
	require.Len(t, issues, 1)
	assert.Equal(t, "TC100", issues[0].ID)
	assert.Equal(t, "artifacts", ui.label)
}

func TestRunLint_PostStageRejectsNonTarball(t *testing.T) {
	setupLintRun(t)
	dir := setupProjectDir(t, "name: demo\nversion: \"1.0\"\n")

	bogus := filepath.Join(dir, "bogus.testcraft")
	require.NoError(t, os.WriteFile(bogus, []byte("not a tarball"), 0o644))

	lintPostArtifactFlag = bogus

	assert.Error(t, runLint(lintCmd))
}

func TestRunLint_PostStageMissingArtifact(t *testing.T) {
	setupLintRun(t)
	setupProjectDir(t, "name: demo\nversion: \"1.0\"\n")

	lintPostArtifactFlag = filepath.Join(t.TempDir(), "missing.testcraft")

	assert.Error(t, runLint(lintCmd))
}
