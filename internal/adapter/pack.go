package adapter

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

// toolVersion is stamped into artifact metadata. Overridden at release
// time via -ldflags.
var toolVersion = "dev"

// MetadataFileName is the metadata file placed at the root of every
// packed artifact.
const MetadataFileName = "metadata.yaml"

// Packer turns a prime directory into a distributable artifact.
type Packer interface {
	Pack(project *m.Project, primeDir, destDir m.Path) (m.Path, error)
}

// LocalPacker packs artifacts as gzipped tarballs on the local filesystem.
type LocalPacker struct{}

// NewLocalPacker constructs a LocalPacker.
func NewLocalPacker() *LocalPacker {
	return &LocalPacker{}
}

// Pack writes metadata.yaml into the prime directory and tars the whole
// tree into <name>-<version>-<platform>.testcraft under destDir.
func (p *LocalPacker) Pack(project *m.Project, primeDir, destDir m.Path) (m.Path, error) {
	if project == nil || project.Name == "" {
		return "", fmt.Errorf("cannot pack: project name is unknown")
	}

	if project.Version == "" {
		return "", fmt.Errorf("cannot pack: project version is unknown")
	}

	if info, err := os.Stat(string(primeDir)); err != nil || !info.IsDir() {
		return "", fmt.Errorf("prime directory %s is not usable", primeDir)
	}

	metadata := m.Metadata{
		Name:             project.Name,
		Version:          project.Version,
		TestcraftVersion: toolVersion,
	}
	if err := writeMetadata(primeDir, metadata); err != nil {
		return "", err
	}

	platform := runtime.GOOS + "-" + runtime.GOARCH
	tarballName := fmt.Sprintf("%s-%s-%s.testcraft", project.Name, project.Version, platform)
	tarballPath := filepath.Join(string(destDir), tarballName)

	if err := tarDirectory(string(primeDir), tarballPath); err != nil {
		return "", err
	}

	return m.Path(tarballPath), nil
}

func writeMetadata(primeDir m.Path, metadata m.Metadata) error {
	content, err := yaml.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	path := filepath.Join(string(primeDir), MetadataFileName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

func tarDirectory(root, tarballPath string) error {
	out, err := os.Create(tarballPath)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("failed to build tar header for %s: %w", rel, err)
		}

		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header for %s: %w", rel, err)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", rel, err)
		}
		defer file.Close()

		if _, err := io.Copy(tw, file); err != nil {
			return fmt.Errorf("failed to archive %s: %w", rel, err)
		}

		return nil
	})
}
