package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

// ArtifactOrganizer flattens an output directory after extraction: the
// compile command mirrors the mount structure, so artifacts arrive nested
// and carry interpreter tags in their filenames.
type ArtifactOrganizer interface {
	// Flatten moves every bytecode artifact under dir to its top level,
	// named after the original source file's base name, then removes the
	// emptied subdirectories. Afterwards dir is flat.
	Flatten(dir m.Path) error
}

type organizer struct {
	fs adapter.SourceFSAdapter
}

// NewArtifactOrganizer constructs an ArtifactOrganizer.
func NewArtifactOrganizer(fs adapter.SourceFSAdapter) ArtifactOrganizer {
	return &organizer{fs: fs}
}

func (o *organizer) Flatten(dir m.Path) error {
	artifacts, err := o.collectArtifacts(dir)
	if err != nil {
		return fmt.Errorf("scan output dir %s: %w", dir, err)
	}

	for _, artifact := range artifacts {
		target := o.fs.JoinPath(string(dir), artifactName(filepath.Base(artifact)))
		if m.Path(artifact) == target {
			continue
		}

		if err := o.fs.Rename(m.Path(artifact), target); err != nil {
			return fmt.Errorf("move artifact %s: %w", artifact, err)
		}
	}

	if err := o.removeSubdirectories(dir); err != nil {
		return err
	}

	slog.Info("organized artifacts", "dir", dir, "count", len(artifacts))

	return nil
}

// collectArtifacts gathers artifact paths up front so moves don't mutate
// the tree mid-walk.
func (o *organizer) collectArtifacts(dir m.Path) ([]string, error) {
	var artifacts []string

	err := o.fs.Walk(dir, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, DefaultBytecodeExt) {
			artifacts = append(artifacts, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}

func (o *organizer) removeSubdirectories(dir m.Path) error {
	var subdirs []string

	err := o.fs.Walk(dir, false, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && path != string(dir) {
			subdirs = append(subdirs, path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("list output subdirectories: %w", err)
	}

	for _, subdir := range subdirs {
		if err := o.fs.RemoveAll(m.Path(subdir)); err != nil {
			return fmt.Errorf("remove emptied subdirectory %s: %w", subdir, err)
		}
	}

	return nil
}

// artifactName maps a compiler-produced filename to its flat output name,
// discarding any interpreter/ABI tag segments the compiler embedded (e.g.
// "util.cpython-311.pyc" -> "util.pyc").
func artifactName(base string) string {
	stem := base
	if i := strings.Index(base, "."); i >= 0 {
		stem = base[:i]
	}

	return stem + DefaultBytecodeExt
}
