package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

// ignoreFileCandidates lists the project-local suppression files, checked
// in order; the first existing one wins.
var ignoreFileCandidates = []string{
	"craft-lint.yaml",
	".craft-lint.yaml",
	filepath.Join(".craft", "lintignore.yaml"),
}

// IgnoreStore loads persisted suppression rules for a project.
type IgnoreStore interface {
	Load(projectDir m.Path) (m.IgnoreConfig, error)
}

// LocalIgnoreStore reads suppression rules from the standard project-local
// YAML files.
type LocalIgnoreStore struct{}

// NewLocalIgnoreStore constructs a LocalIgnoreStore.
func NewLocalIgnoreStore() *LocalIgnoreStore {
	return &LocalIgnoreStore{}
}

// Load returns the normalized rules from the first suppression file found
// under projectDir, or an empty config when there is none. A file that is
// not a mapping is tolerated as empty; malformed entries inside a mapping
// are dropped during normalization.
func (s *LocalIgnoreStore) Load(projectDir m.Path) (m.IgnoreConfig, error) {
	for _, candidate := range ignoreFileCandidates {
		path := filepath.Join(string(projectDir), candidate)

		content, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read lint ignore file: %w", err)
		}

		slog.Debug("loading linter ignore config", "path", path)

		var raw any
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		mapping, ok := raw.(map[string]any)
		if !ok {
			slog.Debug("lint ignore config is not a mapping, ignoring file", "path", path)
			return make(m.IgnoreConfig), nil
		}

		return m.NormalizeIgnoreConfig(mapping), nil
	}

	return make(m.IgnoreConfig), nil
}
