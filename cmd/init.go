package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

const projectTemplate = `name: {{ .Name }}
version: "0.1"
base: core24
summary: A fresh testcraft project

parts:
  {{ .Name }}:
    plugin: nil
`

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [name]",
		Short: "Scaffold a new testcraft project",
		Long: `Create a testcraft.yaml project file from the starter template, plus a
.testcraft.yaml tool configuration populated with the current defaults so
it can be edited manually. The project name defaults to the directory name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			name := filepath.Base(cwd)
			if len(args) == 1 {
				name = args[0]
			}

			if err := writeProjectFile(cwd, name); err != nil {
				return err
			}

			configPath := filepath.Join(configFolderPath, configFileName)
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				var exists viper.ConfigFileAlreadyExistsError
				if !errors.As(err, &exists) {
					return fmt.Errorf("failed to write config file: %w", err)
				}
			}

			cmd.Printf("Initialised project %s\n", name)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func writeProjectFile(dir, name string) error {
	target := filepath.Join(dir, m.ProjectFileName)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s already exists", m.ProjectFileName)
	}

	tmpl, err := template.New("project").Parse(projectTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse project template: %w", err)
	}

	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create project file: %w", err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, struct{ Name string }{Name: name}); err != nil {
		return fmt.Errorf("failed to render project template: %w", err)
	}

	return nil
}
