package model

import "strings"

// Path represents a file system path.
type Path string

// VersionDescriptor maps one target interpreter version to the base image
// its build environment is derived from. The table of descriptors is fixed
// for the lifetime of the process.
type VersionDescriptor struct {
	// ID is the interpreter version, e.g. "3.11".
	ID string `mapstructure:"id" yaml:"id"`

	// BaseImage is the image reference the build environment starts from.
	BaseImage string `mapstructure:"image" yaml:"image"`

	// LegacySyntax marks versions whose runtime cannot parse modern syntax;
	// snapshots for these versions are rewritten before compilation.
	LegacySyntax bool `mapstructure:"legacy_syntax" yaml:"legacy_syntax"`
}

// Tag returns the version id with separators stripped, the form used when
// deriving image and container names (e.g. "2.7" -> "27").
func (v VersionDescriptor) Tag() string {
	return strings.ReplaceAll(v.ID, ".", "")
}

// DefaultVersions returns the built-in version table in build order. Only
// 2.7 needs the legacy-syntax rewrite; every 3.x runtime parses modern
// source directly.
func DefaultVersions() []VersionDescriptor {
	return []VersionDescriptor{
		{ID: "2.7", BaseImage: "python:2.7-slim", LegacySyntax: true},
		{ID: "3.7", BaseImage: "python:3.7-slim"},
		{ID: "3.9", BaseImage: "python:3.9-slim"},
		{ID: "3.10", BaseImage: "python:3.10-slim"},
		{ID: "3.11", BaseImage: "python:3.11-slim"},
	}
}
