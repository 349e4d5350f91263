// Package cmd provides the root command and CLI setup for testcraft.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"testcraft.dev/pkg/testcraft/internal/adapter"
	"testcraft.dev/pkg/testcraft/internal/controller"
	"testcraft.dev/pkg/testcraft/internal/domain"
	"testcraft.dev/pkg/testcraft/internal/domain/linters"
	m "testcraft.dev/pkg/testcraft/internal/model"
)

var projectFS adapter.ProjectFS
var ignoreStore adapter.IgnoreStore
var packer adapter.Packer
var engine *domain.LinterService

// newUI picks the UI for a command; swapped in tests.
var newUI = controller.NewUI

// verboseFlag switches file logging to debug level when set.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	projectFS = adapter.NewLocalProjectFS()
	ignoreStore = adapter.NewLocalIgnoreStore()
	packer = adapter.NewLocalPacker()

	registerBuiltinLinters()

	engine = domain.NewLinterService(
		domain.WithIgnoreLoader(loadProjectIgnores),
		domain.WithSelectLinters(dropDisabledLinters),
	)
}

const rootLongDescription = `Testcraft is a craft-style packaging tool. It lints a project source tree
before a build (pre stage) or an unpacked artifact after one (post stage),
and packs a primed tree into a distributable artifact.

Suppression rules layer in a fixed order: rules from the project's
craft-lint.yaml first, then rules from configuration and the --ignore flag
on top. A rule only ever adds suppressions; 'linter:*' mutes a linter
entirely.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testcraft",
		Short: "Craft-style packaging and linting tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log debug details to the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

func registerBuiltinLinters() {
	cobra.CheckErr(domain.DefaultRegistry.Register(linters.NewMissingVersion))
	cobra.CheckErr(domain.DefaultRegistry.Register(linters.NewEmptyArtifact))
}

// loadProjectIgnores supplies project-level suppression rules to the engine.
func loadProjectIgnores(projectDir m.Path) (m.IgnoreConfig, error) {
	return ignoreStore.Load(projectDir)
}

// dropDisabledLinters is the engine's selection hook: linters named under
// lint.disable in configuration never run.
func dropDisabledLinters(_ m.Stage, _ *m.LintContext, candidates []domain.Factory) []domain.Factory {
	disabled := viper.GetStringSlice(lintDisableConfigKey)
	if len(disabled) == 0 {
		return candidates
	}

	selected := make([]domain.Factory, 0, len(candidates))

	for _, factory := range candidates {
		if slices.Contains(disabled, factory().Name()) {
			continue
		}

		selected = append(selected, factory)
	}

	return selected
}

// exitCodeError carries a specific process exit code out of a command.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}

		os.Exit(1)
	}
}
