package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"testcraft.dev/pkg/testcraft/internal/controller"
	"testcraft.dev/pkg/testcraft/internal/domain"
	m "testcraft.dev/pkg/testcraft/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered linters",
		Long:  "List the registered linters and the stage each one runs in.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ui := newUI(cmd, false)

			return ui.DisplayLinters(ctx, registeredLinterRows())
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func registeredLinterRows() []controller.LinterRow {
	var rows []controller.LinterRow

	for _, stage := range []m.Stage{m.StagePre, m.StagePost} {
		for _, factory := range domain.DefaultRegistry.ForStage(stage) {
			linter := factory()
			rows = append(rows, controller.LinterRow{Name: linter.Name(), Stage: linter.Stage()})
		}
	}

	return rows
}
