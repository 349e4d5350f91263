package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

var packPrimeFlag string
var packOutputFlag string

// packCmd represents the pack command.
var packCmd = newPackCmd()

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack the prime directory into an artifact",
		Long:  "Pack the primed tree into a distributable .testcraft tarball with generated metadata.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			projectFile, err := projectFS.ResolveProjectFile(m.Path(cwd))
			if err != nil {
				return err
			}

			project, err := projectFS.LoadProject(projectFile)
			if err != nil {
				return err
			}

			primeDir := m.Path(viper.GetString(packPrimeConfigKey))
			destDir := m.Path(viper.GetString(packOutputConfigKey))

			artifact, err := packer.Pack(project, primeDir, destDir)
			if err != nil {
				return err
			}

			cmd.Printf("Packed %s\n", artifact)

			return nil
		},
	}

	configurePackFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(packCmd)
}

func configurePackFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&packPrimeFlag, primeFlagName, viper.GetString(packPrimeConfigKey), "directory with the primed tree to pack")
	bindFlagToConfig(cmd.Flags().Lookup(primeFlagName), packPrimeConfigKey)

	cmd.Flags().StringVarP(&packOutputFlag, outputFlagName, "o", viper.GetString(packOutputConfigKey), "directory to write the artifact into")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), packOutputConfigKey)
}
