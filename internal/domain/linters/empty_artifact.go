package linters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"testcraft.dev/pkg/testcraft/internal/domain"
	m "testcraft.dev/pkg/testcraft/internal/model"
)

const metadataFileName = "metadata.yaml"

// EmptyArtifact errors when a packed artifact contains nothing but
// metadata.yaml.
type EmptyArtifact struct{}

// NewEmptyArtifact is the registry factory for EmptyArtifact.
func NewEmptyArtifact() domain.Linter {
	return &EmptyArtifact{}
}

// Name implements domain.Linter.
func (l *EmptyArtifact) Name() string {
	return "testcraft.empty_artifact"
}

// Stage implements domain.Linter.
func (l *EmptyArtifact) Stage() m.Stage {
	return m.StagePost
}

// Run checks each artifact directory for payload files beyond the
// metadata.
func (l *EmptyArtifact) Run(ctx context.Context, lintCtx *m.LintContext, emit domain.EmitFunc) error {
	for _, artifactDir := range lintCtx.ArtifactDirs {
		if err := ctx.Err(); err != nil {
			return err
		}

		entries, err := os.ReadDir(string(artifactDir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return fmt.Errorf("failed to read artifact dir %s: %w", artifactDir, err)
		}

		if hasPayload(entries) {
			continue
		}

		issue := m.LinterIssue{
			ID:       "TC100",
			Message:  "artifact is empty other than metadata.yaml",
			Severity: m.SeverityError,
			Filename: filepath.Join(string(artifactDir), metadataFileName),
		}

		if err := emit(issue); err != nil {
			return err
		}
	}

	return nil
}

func hasPayload(entries []os.DirEntry) bool {
	for _, entry := range entries {
		name := entry.Name()
		if name != metadataFileName && !strings.HasPrefix(name, ".") {
			return true
		}
	}

	return false
}
