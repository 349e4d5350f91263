// Package adapter contains filesystem and packaging adapters for the
// testcraft CLI.
package adapter

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

// ErrNoProjectFile is returned when no testcraft.yaml is found walking up
// from the starting directory.
var ErrNoProjectFile = errors.New("no testcraft.yaml project file found")

// ProjectFS abstracts project resolution and artifact handling so command
// logic can be tested without touching the real working directory.
type ProjectFS interface {
	// ResolveProjectFile walks up from start looking for the project file.
	ResolveProjectFile(start m.Path) (m.Path, error)

	// LoadProject parses the project file at path.
	LoadProject(path m.Path) (*m.Project, error)

	// IsTarball reports whether path looks like a (possibly gzipped)
	// tarball.
	IsTarball(path m.Path) bool

	// UnpackArtifact extracts a packed artifact into dest. The dest
	// directory's lifetime is owned by the caller.
	UnpackArtifact(artifact, dest m.Path) error
}

// LocalProjectFS implements ProjectFS against the local filesystem.
type LocalProjectFS struct{}

// NewLocalProjectFS constructs a LocalProjectFS.
func NewLocalProjectFS() *LocalProjectFS {
	return &LocalProjectFS{}
}

// ResolveProjectFile walks up the directory tree until it finds the
// project file or reaches the filesystem root.
func (a *LocalProjectFS) ResolveProjectFile(start m.Path) (m.Path, error) {
	dir, err := filepath.Abs(string(start))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, m.ProjectFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return m.Path(candidate), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectFile
		}

		dir = parent
	}
}

// LoadProject parses the project file at path.
func (a *LocalProjectFS) LoadProject(path m.Path) (*m.Project, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	project, err := parseProject(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return project, nil
}

// IsTarball reports whether the file at path starts like a tar or gzip
// stream that contains at least one tar header.
func (a *LocalProjectFS) IsTarball(path m.Path) bool {
	file, err := os.Open(string(path))
	if err != nil {
		return false
	}
	defer file.Close()

	reader, closeReader, err := tarReader(file)
	if err != nil {
		return false
	}
	defer closeReader()

	_, err = reader.Next()

	return err == nil
}

// UnpackArtifact extracts the artifact tarball into dest, refusing entries
// that would escape the destination directory.
func (a *LocalProjectFS) UnpackArtifact(artifact, dest m.Path) error {
	file, err := os.Open(string(artifact))
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	reader, closeReader, err := tarReader(file)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", artifact, err)
	}
	defer closeReader()

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to read artifact %s: %w", artifact, err)
		}

		target, err := safeJoin(string(dest), header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := extractFile(reader, target, header.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			slog.Debug("skipping artifact entry", "name", header.Name, "type", header.Typeflag)
		}
	}
}

func parseProject(content []byte) (*m.Project, error) {
	var project m.Project
	if err := yaml.Unmarshal(content, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

func safeJoin(dest, name string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(dest, name))
	if cleaned != dest && !strings.HasPrefix(cleaned, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("artifact entry %q escapes extraction directory", name)
	}

	return cleaned, nil
}

func extractFile(reader *tar.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("failed to extract %s: %w", target, err)
	}

	return nil
}

// tarReader wraps the file in a gzip reader when the stream is gzipped,
// otherwise reads it as a plain tarball.
func tarReader(file *os.File) (*tar.Reader, func(), error) {
	gz, err := gzip.NewReader(file)
	if err == nil {
		return tar.NewReader(gz), func() { gz.Close() }, nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	return tar.NewReader(file), func() {}, nil
}
