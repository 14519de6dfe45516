// Package adapter contains infrastructure adapters for the pycforge CLI.
package adapter

import (
	"io"
	"os"
	"path/filepath"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations the pipeline
// relies on when snapshotting sources and organizing artifacts. It hides
// direct `os` access so domain logic can be tested without touching the
// disk.
type SourceFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation limits itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// CopyFile copies a single file, preserving the given mode.
	CopyFile(src, dst m.Path, mode os.FileMode) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path, perm os.FileMode) error

	// RemoveAll removes a path and all its contents.
	RemoveAll(path m.Path) error

	// Remove removes a single file.
	Remove(path m.Path) error

	// Rename moves a file to a new path.
	Rename(oldPath, newPath m.Path) error

	// FileInfo returns metadata for a path so callers can check existence
	// or distinguish files from directories.
	FileInfo(path m.Path) (os.FileInfo, error)

	// AbsPath resolves a path to its absolute form.
	AbsPath(path m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the concrete implementation backed by the os
// package.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready
// to be wired into the pipeline.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over entries under root. When recursive is false it visits
// the root's immediate entries, including directories, without descending
// into them.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			if err := fn(path, info, nil); err != nil {
				return err
			}

			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// CopyFile copies a single file.
func (a *LocalSourceFSAdapter) CopyFile(src, dst m.Path, mode os.FileMode) error {
	// #nosec G304 - src is an internal pipeline path, not user input
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(string(dst)), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is an internal destination path, not user input
	destFile, err := os.Create(string(dst))
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(string(dst), mode)
}

// MkdirAll creates a directory and any missing parents.
func (a *LocalSourceFSAdapter) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// Remove removes a single file.
func (a *LocalSourceFSAdapter) Remove(path m.Path) error {
	return os.Remove(string(path))
}

// Rename moves a file to a new path.
func (a *LocalSourceFSAdapter) Rename(oldPath, newPath m.Path) error {
	return os.Rename(string(oldPath), string(newPath))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// AbsPath resolves a path to its absolute form.
func (a *LocalSourceFSAdapter) AbsPath(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
