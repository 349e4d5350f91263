package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"testcraft.dev/pkg/testcraft/internal/domain"
	m "testcraft.dev/pkg/testcraft/internal/model"
)

var lintPostArtifactFlag string
var lintIgnoreFlags []string
var lintInteractiveFlag bool

// lintCmd represents the lint command.
var lintCmd = newLintCmd()

const lintLongDescription = `Run linters against the project or a packed artifact.

Without flags the pre-stage linters inspect the project source tree. With
--post ARTIFACT the artifact tarball is unpacked into a temporary
directory and the post-stage linters inspect it instead.

Ignore rules take the form 'linter:id' (ignore that id everywhere),
'linter:id=glob' (ignore it only for filenames matching the glob) or
'linter:*' (ignore everything from that linter). The flag may repeat.`

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Run linters against the project or a packed artifact",
		Long:  lintLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLint(cmd)
		},
	}

	configureLintFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func configureLintFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&lintPostArtifactFlag, postFlagName, "", "path to a packed artifact to lint with post-stage linters")
	cmd.Flags().StringArrayVar(&lintIgnoreFlags, ignoreFlagName, nil, "ignore rule 'linter:id', 'linter:id=glob' or 'linter:*' (can be repeated)")
	cmd.Flags().BoolVarP(&lintInteractiveFlag, interactiveFlagName, "i", viper.GetBool(lintInteractiveConfigKey), "browse results interactively")
	bindFlagToConfig(cmd.Flags().Lookup(interactiveFlagName), lintInteractiveConfigKey)
}

// ignoreRule is one parsed CLI suppression rule.
type ignoreRule struct {
	linter  string
	id      string
	glob    string
	hasGlob bool
}

// parseIgnoreRule validates and splits a 'linter:id[=glob]' rule string.
func parseIgnoreRule(value string) (ignoreRule, error) {
	linter, remainder, found := strings.Cut(value, ":")
	if !found {
		return ignoreRule{}, fmt.Errorf("ignore rule %q must be in the form 'linter:id' or 'linter:id=glob'", value)
	}

	if linter == "" || remainder == "" {
		return ignoreRule{}, fmt.Errorf("ignore rule %q must provide a linter name and issue id", value)
	}

	if id, glob, found := strings.Cut(remainder, "="); found {
		if id == "" || glob == "" {
			return ignoreRule{}, fmt.Errorf("ignore glob rule %q must be in the form 'linter:id=glob'", value)
		}

		return ignoreRule{linter: linter, id: id, glob: glob, hasGlob: true}, nil
	}

	return ignoreRule{linter: linter, id: remainder}, nil
}

// buildCLIIgnoreConfig folds parsed rules into an IgnoreConfig. A '*' id
// sets the linter's wildcard and clears any accumulated filename rules.
func buildCLIIgnoreConfig(rules []ignoreRule) m.IgnoreConfig {
	cfg := make(m.IgnoreConfig)

	for _, rule := range rules {
		spec, ok := cfg[rule.linter]
		if !ok {
			spec = m.NewIgnoreSpec()
			cfg[rule.linter] = spec
		}

		if rule.id == "*" {
			spec.SetAll()
			continue
		}

		if spec.All {
			continue
		}

		if rule.hasGlob {
			spec.AddGlob(rule.id, rule.glob)
		} else {
			spec.AddID(rule.id)
		}
	}

	return cfg
}

// collectIgnoreRules parses CLI rules strictly and configured default
// rules leniently (a broken config entry is logged and skipped, not fatal).
func collectIgnoreRules(cliRules []string) ([]ignoreRule, error) {
	var rules []ignoreRule

	for _, raw := range viper.GetStringSlice(lintIgnoreConfigKey) {
		rule, err := parseIgnoreRule(raw)
		if err != nil {
			slog.Warn("skipping malformed ignore rule from configuration", "rule", raw, "error", err)
			continue
		}

		rules = append(rules, rule)
	}

	for _, raw := range cliRules {
		rule, err := parseIgnoreRule(raw)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func runLint(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	projectFile, err := projectFS.ResolveProjectFile(m.Path(cwd))
	if err != nil {
		return err
	}

	projectDir := m.Path(filepath.Dir(string(projectFile)))
	label := filepath.Base(string(projectFile))

	stage := m.StagePre

	var artifactDirs []m.Path

	if lintPostArtifactFlag != "" {
		stage = m.StagePost
		label = "artifacts"

		if _, err := os.Stat(lintPostArtifactFlag); err != nil {
			return fmt.Errorf("artifact %s does not exist", lintPostArtifactFlag)
		}

		if !projectFS.IsTarball(m.Path(lintPostArtifactFlag)) {
			return fmt.Errorf("artifact %s is not a supported tarball", lintPostArtifactFlag)
		}

		tmpDir, err := os.MkdirTemp("", "testcraft-lint-")
		if err != nil {
			return fmt.Errorf("failed to create extraction directory: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		if err := projectFS.UnpackArtifact(m.Path(lintPostArtifactFlag), m.Path(tmpDir)); err != nil {
			return err
		}

		artifactDirs = []m.Path{m.Path(tmpDir)}
	}

	rules, err := collectIgnoreRules(lintIgnoreFlags)
	if err != nil {
		return err
	}

	if _, err := engine.LoadIgnoreConfig(projectDir, buildCLIIgnoreConfig(rules)); err != nil {
		return err
	}

	lintCtx := &m.LintContext{
		ProjectDir:   projectDir,
		ArtifactDirs: artifactDirs,
	}

	// Best-effort: linters must work without a parsed model.
	if project, err := projectFS.LoadProject(projectFile); err == nil {
		lintCtx.Project = project
	} else {
		slog.Debug("project model unavailable for lint run", "error", err)
	}

	if err := drainLintRun(ctx, engine, stage, lintCtx); err != nil {
		return err
	}

	ui := newUI(cmd, lintInteractiveFlag)

	if err := ui.DisplayIssues(ctx, engine.LinterOrder(), engine.IssuesByLinter()); err != nil {
		return err
	}

	highest, found := engine.HighestSeverity()
	ui.DisplaySummary(ctx, label, highest, found)

	if engine.Summary() == m.ExitError {
		return &exitCodeError{code: int(m.ExitError)}
	}

	return nil
}

// drainLintRun consumes the engine's streaming channels until the run
// completes, propagating a linter failure unmodified.
func drainLintRun(ctx context.Context, svc *domain.LinterService, stage m.Stage, lintCtx *m.LintContext) error {
	issueCh, errCh := svc.Run(ctx, stage, lintCtx)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case _, ok := <-issueCh:
				if !ok {
					return nil
				}
			}
		}
	})

	group.Go(func() error {
		select {
		case <-groupCtx.Done():
			return groupCtx.Err()
		case err, ok := <-errCh:
			if !ok {
				return nil
			}

			return err
		}
	})

	return group.Wait()
}
