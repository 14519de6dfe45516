// Package domain implements the per-version compilation pipeline: source
// snapshotting, legacy-syntax rewriting, image provisioning, containerized
// builds, and artifact organization.
package domain

import (
	"path/filepath"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

// Default layout and naming knobs. Overridable through Config.
const (
	DefaultSnapshotDirName = "src"
	DefaultImagePrefix     = "pycompiler"
	DefaultMountTarget     = "/app/src"
	DefaultBytecodeExt     = ".pyc"
	DefaultSourceExt       = ".py"
)

// Config is the immutable per-run configuration handed to every pipeline
// component. There is no ambient state: the source directory is resolved
// once, and the version table is fixed for the process lifetime.
type Config struct {
	// SourceDir is the absolute path of the user-supplied source tree. It
	// is never mutated in place; all transformation happens on snapshots.
	SourceDir m.Path

	// Versions is the ordered table of target interpreter versions.
	Versions []m.VersionDescriptor

	// ImagePrefix prefixes derived image and container names.
	ImagePrefix string

	// SnapshotDirName is the name of the transient snapshot directory
	// created under SourceDir.
	SnapshotDirName string

	// MountTarget is where the snapshot is bind-mounted inside a build
	// instance.
	MountTarget string
}

// NewConfig builds a Config for sourceDir with defaults applied for any
// zero-valued knob.
func NewConfig(sourceDir m.Path, versions []m.VersionDescriptor) Config {
	if len(versions) == 0 {
		versions = m.DefaultVersions()
	}

	return Config{
		SourceDir:       sourceDir,
		Versions:        versions,
		ImagePrefix:     DefaultImagePrefix,
		SnapshotDirName: DefaultSnapshotDirName,
		MountTarget:     DefaultMountTarget,
	}
}

// ImageName derives the deterministic build-image name for a version.
func (c Config) ImageName(version m.VersionDescriptor) string {
	return c.ImagePrefix + "_" + version.Tag()
}

// ContainerName derives the fixed build-instance name for a version. A
// second orchestrator running concurrently on the same host would collide
// on this name, which is accepted.
func (c Config) ContainerName(version m.VersionDescriptor) string {
	return c.ImagePrefix + "_container_" + version.Tag()
}

// SnapshotDir is the transient snapshot location under the source tree.
func (c Config) SnapshotDir() m.Path {
	return m.Path(filepath.Join(string(c.SourceDir), c.SnapshotDirName))
}

// OutputDir is the per-version artifact directory under the source tree.
func (c Config) OutputDir(version m.VersionDescriptor) m.Path {
	return m.Path(filepath.Join(string(c.SourceDir), "python"+version.ID+"libs"))
}

// RecipePath is the transient build-recipe location for a version.
func (c Config) RecipePath(version m.VersionDescriptor) m.Path {
	return m.Path(filepath.Join(string(c.SourceDir), "Dockerfile-"+version.ID))
}

// NeedsLegacyRewrite reports whether any configured version requires the
// legacy-syntax rewrite, i.e. whether the external rewrite engine must be
// available for this run.
func (c Config) NeedsLegacyRewrite() bool {
	for _, version := range c.Versions {
		if version.LegacySyntax {
			return true
		}
	}

	return false
}
