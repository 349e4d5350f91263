// Package linters provides the built-in testcraft linters.
package linters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"testcraft.dev/pkg/testcraft/internal/domain"
	m "testcraft.dev/pkg/testcraft/internal/model"
)

// MissingVersion warns when the project file lacks the recommended
// version field.
type MissingVersion struct{}

// NewMissingVersion is the registry factory for MissingVersion.
func NewMissingVersion() domain.Linter {
	return &MissingVersion{}
}

// Name implements domain.Linter.
func (l *MissingVersion) Name() string {
	return "testcraft.missing_version"
}

// Stage implements domain.Linter.
func (l *MissingVersion) Stage() m.Stage {
	return m.StagePre
}

// Run checks for the presence of the 'version' field in the project file.
func (l *MissingVersion) Run(ctx context.Context, lintCtx *m.LintContext, emit domain.EmitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	projectFile := filepath.Join(string(lintCtx.ProjectDir), m.ProjectFileName)

	content, err := os.ReadFile(projectFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to read %s: %w", projectFile, err)
	}

	var data any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("failed to parse %s: %w", projectFile, err)
	}

	mapping, ok := data.(map[string]any)
	if !ok {
		return nil
	}

	if hasValue(mapping["version"]) {
		return nil
	}

	return emit(m.LinterIssue{
		ID:       "TC001",
		Message:  "project is missing the recommended 'version' field",
		Severity: m.SeverityWarning,
		Filename: projectFile,
	})
}

// hasValue treats nil, empty string, false and zero as missing.
func hasValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
